package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"insta-automation/internal/scheduler"
	"insta-automation/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeScheduler struct {
	mu        sync.Mutex
	seq       int
	tasks     map[scheduler.Handle]func()
	specs     map[scheduler.Handle]string
	cancelled []scheduler.Handle
	failOn    string
}

func newFakeScheduler() *fakeScheduler {
	return &fakeScheduler{
		tasks: map[scheduler.Handle]func(){},
		specs: map[scheduler.Handle]string{},
	}
}

func (f *fakeScheduler) Schedule(spec scheduler.Spec, task func()) (scheduler.Handle, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failOn != "" && spec.String() == f.failOn {
		return "", errors.New("schedule failed")
	}
	f.seq++
	h := scheduler.Handle(fmt.Sprintf("job-%d", f.seq))
	f.tasks[h] = task
	f.specs[h] = spec.String()
	return h, nil
}

func (f *fakeScheduler) Cancel(h scheduler.Handle) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.tasks[h]; ok {
		delete(f.tasks, h)
		delete(f.specs, h)
		f.cancelled = append(f.cancelled, h)
	}
	return nil
}

func (f *fakeScheduler) NextRun(h scheduler.Handle) (time.Time, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.tasks[h]; !ok {
		return time.Time{}, false
	}
	return time.Date(2026, 10, 14, 12, 0, 0, 0, time.UTC), true
}

func (f *fakeScheduler) taskFor(expr string) func() {
	f.mu.Lock()
	defer f.mu.Unlock()
	for h, s := range f.specs {
		if s == expr {
			return f.tasks[h]
		}
	}
	return nil
}

func (f *fakeScheduler) armed() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []string
	for _, s := range f.specs {
		out = append(out, s)
	}
	return out
}

type managerFixture struct {
	manager   *AutomationManager
	social    *InstagramService
	sched     *fakeScheduler
	sleeps    []time.Duration
	sleepErr  error
	sleepMu   sync.Mutex
	textCalls *fakeText
}

func newManagerFixture(t *testing.T) *managerFixture {
	t.Helper()

	f := &managerFixture{
		social:    newTestInstagram(t),
		sched:     newFakeScheduler(),
		textCalls: &fakeText{err: errors.New("collaborator unavailable")},
	}
	content := NewContentGenerator(f.textCalls, time.Second, nil, seededRand())
	f.manager = NewAutomationManager(f.social, content, f.sched, ManagerOptions{
		MessageCheckMinutes: 5,
		JobTimeout:          10 * time.Second,
		ReplyDelayMin:       2 * time.Second,
		ReplyDelayMax:       5 * time.Second,
		Location:            time.UTC,
	})
	f.manager.sleep = func(ctx context.Context, d time.Duration) error {
		f.sleepMu.Lock()
		defer f.sleepMu.Unlock()
		f.sleeps = append(f.sleeps, d)
		return f.sleepErr
	}
	t.Cleanup(f.manager.Close)
	return f
}

func TestStartArmsTriggers(t *testing.T) {
	f := newManagerFixture(t)

	err := f.manager.Start(context.Background(), models.AutomationConfig{Username: "pixelstudio", AutoPost: true, PostingInterval: 4})
	require.NoError(t, err)

	assert.True(t, f.manager.IsActive())
	assert.ElementsMatch(t, []string{"0 */4 * * *", "*/5 * * * *"}, f.sched.armed())
	assert.True(t, f.social.GetStatus().IsConnected)
}

func TestStartWithoutAutoPostArmsOnlyMessageCheck(t *testing.T) {
	f := newManagerFixture(t)

	require.NoError(t, f.manager.Start(context.Background(), models.AutomationConfig{Username: "pixelstudio", PostingInterval: 4}))
	assert.Equal(t, []string{"*/5 * * * *"}, f.sched.armed())

	status := f.manager.GetStatus()
	assert.Nil(t, status.NextPost, "next post only computed when auto-posting")
	assert.Nil(t, status.NextScheduledPost)
}

func TestStartWhileRunningLeavesConfigUntouched(t *testing.T) {
	f := newManagerFixture(t)
	require.NoError(t, f.manager.Start(context.Background(), models.AutomationConfig{Username: "first", AutoPost: true, PostingInterval: 6}))

	err := f.manager.Start(context.Background(), models.AutomationConfig{Username: "second", PostingInterval: 2})
	require.Error(t, err)
	assert.Equal(t, KindInvalidState, KindOf(err))
	assert.ErrorIs(t, err, ErrAlreadyRunning)

	status := f.manager.GetStatus()
	require.NotNil(t, status.Config)
	assert.Equal(t, models.AutomationConfig{Username: "first", AutoPost: true, PostingInterval: 6}, *status.Config)
	assert.Equal(t, "first", status.Instagram.Username)
	assert.Len(t, f.sched.armed(), 2)
}

func TestStartConnectionFailureStaysIdle(t *testing.T) {
	f := newManagerFixture(t)

	err := f.manager.Start(context.Background(), models.AutomationConfig{Username: "", AutoPost: true, PostingInterval: 4})
	require.Error(t, err)
	assert.Equal(t, KindConnectionFailed, KindOf(err))
	assert.False(t, f.manager.IsActive())
	assert.Empty(t, f.sched.armed())
}

func TestStartRejectsInvalidInterval(t *testing.T) {
	f := newManagerFixture(t)

	err := f.manager.Start(context.Background(), models.AutomationConfig{Username: "pixelstudio", AutoPost: true, PostingInterval: 30})
	assert.Equal(t, KindValidation, KindOf(err))
	assert.False(t, f.manager.IsActive())
	assert.False(t, f.social.GetStatus().IsConnected)
}

func TestStartScheduleFailureRollsBack(t *testing.T) {
	f := newManagerFixture(t)
	f.sched.failOn = "*/5 * * * *"

	err := f.manager.Start(context.Background(), models.AutomationConfig{Username: "pixelstudio", AutoPost: true, PostingInterval: 4})
	require.Error(t, err)
	assert.False(t, f.manager.IsActive())
	assert.Empty(t, f.sched.armed(), "posting trigger cancelled on rollback")
	assert.False(t, f.social.GetStatus().IsConnected)
}

func TestStopCancelsTriggersAndIsSafeTwice(t *testing.T) {
	f := newManagerFixture(t)

	err := f.manager.Stop()
	assert.Equal(t, KindInvalidState, KindOf(err), "stop while idle fails")

	require.NoError(t, f.manager.Start(context.Background(), models.AutomationConfig{Username: "pixelstudio", AutoPost: true, PostingInterval: 4}))
	require.NoError(t, f.manager.Stop())

	assert.Empty(t, f.sched.armed())
	assert.Len(t, f.sched.cancelled, 2)
	assert.False(t, f.manager.IsActive())
	assert.False(t, f.social.GetStatus().IsConnected)
	assert.Nil(t, f.manager.GetStatus().Config)

	err = f.manager.Stop()
	assert.ErrorIs(t, err, ErrNotRunning)
}

func TestStopWithoutPostingTrigger(t *testing.T) {
	f := newManagerFixture(t)
	require.NoError(t, f.manager.Start(context.Background(), models.AutomationConfig{Username: "pixelstudio"}))
	require.NoError(t, f.manager.Stop())
	assert.Len(t, f.sched.cancelled, 1)
}

func TestCreateAndPostRequiresRunning(t *testing.T) {
	f := newManagerFixture(t)

	_, err := f.manager.CreateAndPost(context.Background())
	assert.Equal(t, KindInvalidState, KindOf(err))
	assert.Empty(t, f.social.GetRecentPosts(10))
}

func TestCreateAndPostPublishesFallbackContent(t *testing.T) {
	f := newManagerFixture(t)
	require.NoError(t, f.manager.Start(context.Background(), models.AutomationConfig{Username: "pixelstudio"}))

	post, err := f.manager.CreateAndPost(context.Background())
	require.NoError(t, err)

	posts := f.social.GetRecentPosts(10)
	require.Len(t, posts, 1)
	assert.Equal(t, post.ID, posts[0].ID)
	assert.Contains(t, post.Caption, "design drop!")
	assert.Contains(t, post.Caption, "\n\n#")
}

func TestScheduledPostingTriggerPosts(t *testing.T) {
	f := newManagerFixture(t)
	require.NoError(t, f.manager.Start(context.Background(), models.AutomationConfig{Username: "pixelstudio", AutoPost: true, PostingInterval: 3}))

	task := f.sched.taskFor("0 */3 * * *")
	require.NotNil(t, task)
	task()
	task()

	assert.Equal(t, 2, f.social.GetStatus().PostCount)
}

func TestCheckAndReplySequentialWithPacing(t *testing.T) {
	f := newManagerFixture(t)
	require.NoError(t, f.manager.Start(context.Background(), models.AutomationConfig{Username: "pixelstudio"}))

	f.social.SimulateIncomingMessage("a", "How much do you charge?")
	f.social.SimulateIncomingMessage("b", "Can I see your portfolio?")
	f.social.SimulateIncomingMessage("c", "hello")

	report, err := f.manager.CheckAndReplyToMessages(context.Background())
	require.NoError(t, err)
	assert.Equal(t, models.ReplyReport{Pending: 3, Replied: 3}, report)

	require.Len(t, f.sleeps, 2, "one pause between each pair of replies")
	for _, d := range f.sleeps {
		assert.GreaterOrEqual(t, d, 2*time.Second)
		assert.Less(t, d, 5*time.Second)
	}

	replies := map[string]string{}
	for _, m := range f.social.GetMessages(true) {
		assert.True(t, m.Replied)
		replies[m.From] = m.Reply
	}
	assert.Equal(t, pricingReply, replies["a"])
	assert.Equal(t, portfolioReply, replies["b"])
	assert.Equal(t, genericReply, replies["c"])
	assert.Empty(t, f.social.GetMessages(false))
}

func TestCheckAndReplySkipsAlreadyReplied(t *testing.T) {
	f := newManagerFixture(t)
	require.NoError(t, f.manager.Start(context.Background(), models.AutomationConfig{Username: "pixelstudio"}))

	done := f.social.SimulateIncomingMessage("a", "hi")
	require.NoError(t, f.social.ReplyToMessage(context.Background(), done.ID, "earlier"))

	report, err := f.manager.CheckAndReplyToMessages(context.Background())
	require.NoError(t, err)
	assert.Equal(t, models.ReplyReport{}, report)
	assert.Equal(t, "earlier", f.social.GetMessages(true)[0].Reply)
	assert.Empty(t, f.sleeps)
}

type flakySocial struct {
	*InstagramService
	failID string
}

func (s *flakySocial) ReplyToMessage(ctx context.Context, id, text string) error {
	if id == s.failID {
		return newError(KindUnknown, "test.reply", errors.New("boom"))
	}
	return s.InstagramService.ReplyToMessage(ctx, id, text)
}

func TestCheckAndReplyContinuesAfterFailure(t *testing.T) {
	social := newTestInstagram(t)
	first := social.SimulateIncomingMessage("a", "hi")
	social.SimulateIncomingMessage("b", "hire you?")

	flaky := &flakySocial{InstagramService: social}
	m := NewAutomationManager(flaky, NewContentGenerator(nil, 0, nil, seededRand()), newFakeScheduler(), ManagerOptions{Location: time.UTC})
	m.sleep = func(context.Context, time.Duration) error { return nil }
	t.Cleanup(m.Close)

	require.NoError(t, m.Start(context.Background(), models.AutomationConfig{Username: "pixelstudio"}))

	// Messages are newest first, so "b" is processed before "a".
	flaky.failID = social.GetMessages(true)[0].ID

	report, err := m.CheckAndReplyToMessages(context.Background())
	require.NoError(t, err)
	assert.Equal(t, models.ReplyReport{Pending: 2, Replied: 1, Failed: 1}, report)

	for _, msg := range social.GetMessages(true) {
		assert.Equal(t, msg.ID == first.ID, msg.Replied)
	}
}

func TestCheckAndReplyStopsWhenContextCancelled(t *testing.T) {
	f := newManagerFixture(t)
	require.NoError(t, f.manager.Start(context.Background(), models.AutomationConfig{Username: "pixelstudio"}))
	f.social.SimulateIncomingMessage("a", "one")
	f.social.SimulateIncomingMessage("b", "two")
	f.sleepErr = context.Canceled

	report, err := f.manager.CheckAndReplyToMessages(context.Background())
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, report.Replied)
	assert.Len(t, f.social.GetMessages(false), 1)
}

func TestCheckAndReplyRequiresRunning(t *testing.T) {
	f := newManagerFixture(t)
	_, err := f.manager.CheckAndReplyToMessages(context.Background())
	assert.Equal(t, KindInvalidState, KindOf(err))
}

func TestScheduledMessageCheckTriggerReplies(t *testing.T) {
	f := newManagerFixture(t)
	require.NoError(t, f.manager.Start(context.Background(), models.AutomationConfig{Username: "pixelstudio"}))
	f.social.SimulateIncomingMessage("a", "Are you available?")

	task := f.sched.taskFor("*/5 * * * *")
	require.NotNil(t, task)
	task()

	assert.Equal(t, availabilityReply, f.social.GetMessages(true)[0].Reply)
}

func TestGetStatusWithAutoPost(t *testing.T) {
	f := newManagerFixture(t)
	f.manager.now = func() time.Time { return time.Date(2026, 10, 14, 21, 0, 0, 0, time.UTC) }

	status := f.manager.GetStatus()
	assert.False(t, status.IsRunning)
	assert.Nil(t, status.Config)
	assert.Nil(t, status.NextPost)

	require.NoError(t, f.manager.Start(context.Background(), models.AutomationConfig{Username: "pixelstudio", AutoPost: true, PostingInterval: 4}))

	status = f.manager.GetStatus()
	assert.True(t, status.IsRunning)
	require.NotNil(t, status.NextPost)
	assert.Equal(t, time.Date(2026, 10, 15, 9, 0, 0, 0, time.UTC), *status.NextPost)
	require.NotNil(t, status.NextScheduledPost)
	assert.True(t, status.Instagram.IsConnected)
}

func TestReplyDelayWithinWindow(t *testing.T) {
	f := newManagerFixture(t)
	for i := 0; i < 200; i++ {
		d := f.manager.replyDelay()
		require.GreaterOrEqual(t, d, 2*time.Second)
		require.Less(t, d, 5*time.Second)
	}
}

func TestSleepContextHonoursCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, sleepContext(ctx, time.Hour), context.Canceled)
	assert.NoError(t, sleepContext(context.Background(), time.Millisecond))
}
