package services

import (
	"context"
	"testing"
	"time"

	"insta-automation/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestInstagram(t *testing.T) *InstagramService {
	t.Helper()
	s := NewInstagramService()
	clock := time.Date(2026, 10, 14, 10, 0, 0, 0, time.UTC)
	s.now = func() time.Time {
		clock = clock.Add(time.Second)
		return clock
	}
	return s
}

func TestConnectRequiresUsername(t *testing.T) {
	s := newTestInstagram(t)

	err := s.Connect(context.Background(), "  ")
	require.Error(t, err)
	assert.Equal(t, KindConnectionFailed, KindOf(err))
	assert.False(t, s.GetStatus().IsConnected)

	require.NoError(t, s.Connect(context.Background(), "pixelstudio"))
	status := s.GetStatus()
	assert.True(t, status.IsConnected)
	assert.Equal(t, "pixelstudio", status.Username)
}

func TestPostImageWhenDisconnectedDoesNotMutate(t *testing.T) {
	s := newTestInstagram(t)

	_, err := s.PostImage(context.Background(), nil, "Fresh UI design drop!", []string{"#UIDesign"})
	require.Error(t, err)
	assert.Equal(t, KindInvalidState, KindOf(err))
	assert.ErrorIs(t, err, ErrNotConnected)
	assert.Empty(t, s.GetRecentPosts(10))
	assert.Zero(t, s.GetStatus().PostCount)
}

func TestPostImageNewestFirstAndCaptionFormat(t *testing.T) {
	s := newTestInstagram(t)
	require.NoError(t, s.Connect(context.Background(), "pixelstudio"))

	first, err := s.PostImage(context.Background(), nil, "Fresh logo design drop!", []string{"#LogoDesign", "#BrandIdentity"})
	require.NoError(t, err)
	second, err := s.PostImage(context.Background(), nil, "New UI kit", []string{"#UIDesign", "#UXDesign"})
	require.NoError(t, err)

	posts := s.GetRecentPosts(10)
	require.Len(t, posts, 2)
	assert.Equal(t, second.ID, posts[0].ID)
	assert.Equal(t, first.ID, posts[1].ID)
	assert.NotEqual(t, first.ID, second.ID)

	assert.Equal(t, "New UI kit\n\n#UIDesign #UXDesign", posts[0].Caption)
	assert.Equal(t, models.CategoryUIDesign, posts[0].Type)
	assert.Equal(t, models.CategoryLogo, posts[1].Type)
}

func TestCategoryInferenceMatchesUppercaseUIOnly(t *testing.T) {
	s := newTestInstagram(t)
	require.NoError(t, s.Connect(context.Background(), "pixelstudio"))

	// "GUI" contains "UI" and is classified as UI design; a lowercase "ui" is not.
	p1, err := s.PostImage(context.Background(), nil, "Retro GUI vibes", nil)
	require.NoError(t, err)
	p2, err := s.PostImage(context.Background(), nil, "a quiet ui", nil)
	require.NoError(t, err)

	assert.Equal(t, models.CategoryUIDesign, p1.Type)
	assert.Equal(t, models.CategoryLogo, p2.Type)
}

func TestGetRecentPostsLimit(t *testing.T) {
	s := newTestInstagram(t)
	require.NoError(t, s.Connect(context.Background(), "pixelstudio"))

	var ids []string
	for _, c := range []string{"one", "two", "three"} {
		p, err := s.PostImage(context.Background(), nil, c, nil)
		require.NoError(t, err)
		ids = append(ids, p.ID)
	}

	recent := s.GetRecentPosts(2)
	require.Len(t, recent, 2)
	assert.Equal(t, ids[2], recent[0].ID)
	assert.Equal(t, ids[1], recent[1].ID)

	assert.Len(t, s.GetRecentPosts(0), 3, "non-positive limit uses the default of 10")
}

func TestIDsUniqueWithinSameMillisecond(t *testing.T) {
	s := NewInstagramService()
	fixed := time.Date(2026, 10, 14, 10, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return fixed }
	require.NoError(t, s.Connect(context.Background(), "pixelstudio"))

	a, err := s.PostImage(context.Background(), nil, "a", nil)
	require.NoError(t, err)
	b, err := s.PostImage(context.Background(), nil, "b", nil)
	require.NoError(t, err)
	assert.NotEqual(t, a.ID, b.ID)
}

func TestReplyToMessage(t *testing.T) {
	s := newTestInstagram(t)
	msg := s.SimulateIncomingMessage("client_a", "How much do you charge?")

	err := s.ReplyToMessage(context.Background(), msg.ID, "hi")
	assert.Equal(t, KindInvalidState, KindOf(err), "disconnected")

	require.NoError(t, s.Connect(context.Background(), "pixelstudio"))

	err = s.ReplyToMessage(context.Background(), "msg_missing", "hi")
	assert.Equal(t, KindNotFound, KindOf(err))
	assert.False(t, s.GetMessages(true)[0].Replied, "unknown id mutates nothing")

	require.NoError(t, s.ReplyToMessage(context.Background(), msg.ID, "Pricing varies"))
	got := s.GetMessages(true)[0]
	assert.True(t, got.Replied)
	assert.Equal(t, "Pricing varies", got.Reply)

	err = s.ReplyToMessage(context.Background(), msg.ID, "second")
	assert.Equal(t, KindInvalidState, KindOf(err))
	assert.ErrorIs(t, err, ErrAlreadyReplied)
	assert.Equal(t, "Pricing varies", s.GetMessages(true)[0].Reply)
}

func TestGetMessagesFiltersReplied(t *testing.T) {
	s := newTestInstagram(t)
	require.NoError(t, s.Connect(context.Background(), "pixelstudio"))

	a := s.SimulateIncomingMessage("a", "hello")
	b := s.SimulateIncomingMessage("b", "portfolio?")
	require.NoError(t, s.ReplyToMessage(context.Background(), a.ID, "thanks"))

	unreplied := s.GetMessages(false)
	require.Len(t, unreplied, 1)
	assert.Equal(t, b.ID, unreplied[0].ID)
	for _, m := range unreplied {
		assert.False(t, m.Replied)
	}

	all := s.GetMessages(true)
	require.Len(t, all, 2)
	assert.Equal(t, b.ID, all[0].ID, "newest first")

	status := s.GetStatus()
	assert.Equal(t, 2, status.MessageCount)
	assert.Equal(t, 1, status.PendingMessages)
}

func TestCheckMessagesRequiresConnection(t *testing.T) {
	s := newTestInstagram(t)
	s.SimulateIncomingMessage("a", "hello")

	assert.Empty(t, s.CheckMessages(context.Background()))

	require.NoError(t, s.Connect(context.Background(), "pixelstudio"))
	assert.Len(t, s.CheckMessages(context.Background()), 1)
}

func TestDisconnectIsIdempotent(t *testing.T) {
	s := newTestInstagram(t)
	require.NoError(t, s.Connect(context.Background(), "pixelstudio"))

	s.Disconnect()
	s.Disconnect()

	status := s.GetStatus()
	assert.False(t, status.IsConnected)
	assert.Empty(t, status.Username)
}

func TestPostImageValidatesAttachedPayload(t *testing.T) {
	s := newTestInstagram(t)
	require.NoError(t, s.Connect(context.Background(), "pixelstudio"))

	_, err := s.PostImage(context.Background(), []byte("not an image"), "caption", nil)
	require.Error(t, err)
	assert.Equal(t, KindValidation, KindOf(err))
	assert.Empty(t, s.GetRecentPosts(10))

	pngHeader := []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")
	post, err := s.PostImage(context.Background(), pngHeader, "caption", nil)
	require.NoError(t, err)
	assert.Equal(t, "image/png", post.ImageType)
}
