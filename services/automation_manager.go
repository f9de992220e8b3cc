package services

import (
	"context"
	"errors"
	"math/rand/v2"
	"sync"
	"time"

	"insta-automation/internal/logger"
	"insta-automation/internal/scheduler"
	"insta-automation/internal/telemetry"
	"insta-automation/models"
)

// SocialService is the account the controller posts to and replies from
type SocialService interface {
	Connect(ctx context.Context, username string) error
	PostImage(ctx context.Context, image []byte, caption string, hashtags []string) (models.InstagramPost, error)
	CheckMessages(ctx context.Context) []models.Message
	ReplyToMessage(ctx context.Context, id, text string) error
	Disconnect()
	GetStatus() models.InstagramStatus
}

// ContentSource supplies captions and replies
type ContentSource interface {
	GenerateTrendingContent(ctx context.Context) models.GeneratedContent
	GenerateClientResponse(ctx context.Context, clientMessage string) string
}

type ManagerOptions struct {
	MessageCheckMinutes int
	JobTimeout          time.Duration
	// Pause between sequential replies is drawn from [ReplyDelayMin, ReplyDelayMax).
	ReplyDelayMin time.Duration
	ReplyDelayMax time.Duration
	Location      *time.Location
	Metrics       *telemetry.Metrics
}

// AutomationManager owns the Idle/Running lifecycle and the two recurring triggers.
type AutomationManager struct {
	social    SocialService
	content   ContentSource
	scheduler scheduler.Scheduler
	opts      ManagerOptions

	mu              sync.Mutex
	running         bool
	config          *models.AutomationConfig
	postingJob      scheduler.Handle
	messageCheckJob scheduler.Handle

	baseCtx    context.Context
	cancelBase context.CancelFunc

	rngMu sync.Mutex
	rng   *rand.Rand
	now   func() time.Time
	sleep func(ctx context.Context, d time.Duration) error
}

func NewAutomationManager(social SocialService, content ContentSource, sched scheduler.Scheduler, opts ManagerOptions) *AutomationManager {
	if opts.MessageCheckMinutes <= 0 {
		opts.MessageCheckMinutes = 5
	}
	if opts.JobTimeout <= 0 {
		opts.JobTimeout = 5 * time.Minute
	}
	if opts.ReplyDelayMax <= opts.ReplyDelayMin {
		opts.ReplyDelayMin, opts.ReplyDelayMax = 2*time.Second, 5*time.Second
	}
	if opts.Location == nil {
		opts.Location = time.Local
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &AutomationManager{
		social:     social,
		content:    content,
		scheduler:  sched,
		opts:       opts,
		baseCtx:    ctx,
		cancelBase: cancel,
		rng:        rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), rand.Uint64())),
		now:        time.Now,
		sleep:      sleepContext,
	}
}

// Start connects and arms the triggers. It fails without side effects when already running.
func (m *AutomationManager) Start(ctx context.Context, cfg models.AutomationConfig) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.running {
		logger.Warn("Automation already running", "username", m.config.Username)
		return newError(KindInvalidState, "automation.start", ErrAlreadyRunning)
	}

	var postingSpec scheduler.Spec
	if cfg.AutoPost {
		spec, err := scheduler.HourOfDay(cfg.PostingInterval)
		if err != nil {
			return newError(KindValidation, "automation.start", err)
		}
		postingSpec = spec
	}
	messageSpec, err := scheduler.EveryMinutes(m.opts.MessageCheckMinutes)
	if err != nil {
		return newError(KindValidation, "automation.start", err)
	}

	if err := m.social.Connect(ctx, cfg.Username); err != nil {
		logger.Error("Failed to start automation", "op", "automation.start", "error", err)
		if KindOf(err) == KindUnknown {
			err = newError(KindConnectionFailed, "automation.start", err)
		}
		return err
	}

	var postingJob scheduler.Handle
	if cfg.AutoPost {
		postingJob, err = m.scheduler.Schedule(postingSpec, m.job("posting", m.runPostingJob))
		if err != nil {
			m.social.Disconnect()
			logger.Error("Failed to schedule posting job", "op", "automation.start", "error", err)
			return newError(KindUnknown, "automation.start", err)
		}
		logger.Info("Posting job scheduled", "every_hours", cfg.PostingInterval, "cron", postingSpec.String())
	}

	messageCheckJob, err := m.scheduler.Schedule(messageSpec, m.job("message-check", m.runMessageCheckJob))
	if err != nil {
		m.cancelTrigger("posting", postingJob)
		m.social.Disconnect()
		logger.Error("Failed to schedule message check job", "op", "automation.start", "error", err)
		return newError(KindUnknown, "automation.start", err)
	}
	logger.Info("Message check job scheduled", "every_minutes", m.opts.MessageCheckMinutes)

	stored := cfg
	m.config = &stored
	m.postingJob = postingJob
	m.messageCheckJob = messageCheckJob
	m.running = true

	logger.Info("Automation started successfully", "username", cfg.Username, "auto_post", cfg.AutoPost)
	return nil
}

// Stop cancels both triggers, disconnects and clears the configuration.
func (m *AutomationManager) Stop() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.running {
		return newError(KindInvalidState, "automation.stop", ErrNotRunning)
	}

	m.cancelTrigger("posting", m.postingJob)
	m.cancelTrigger("message-check", m.messageCheckJob)
	m.postingJob = ""
	m.messageCheckJob = ""

	m.social.Disconnect()
	m.running = false
	m.config = nil

	logger.Info("Automation stopped")
	return nil
}

func (m *AutomationManager) cancelTrigger(name string, h scheduler.Handle) {
	if h == "" {
		return
	}
	if err := m.scheduler.Cancel(h); err != nil {
		logger.Error("Failed to cancel trigger", "trigger", name, "error", err)
	}
}

// CreateAndPost generates content and publishes it without an image.
// Image rendering is only performed for previews, never on this path.
func (m *AutomationManager) CreateAndPost(ctx context.Context) (models.InstagramPost, error) {
	if !m.IsActive() {
		return models.InstagramPost{}, newError(KindInvalidState, "automation.post", ErrNotRunning)
	}

	logger.Info("Generating new content...")
	content := m.content.GenerateTrendingContent(ctx)
	logger.Info("Generated content", "type", content.Type, "description", content.Description, "fallback", content.Fallback)

	post, err := m.social.PostImage(ctx, nil, content.Caption, content.Hashtags)
	m.opts.Metrics.RecordPost(ctx, err == nil)
	if err != nil {
		logger.Error("Failed to post to Instagram", "op", "automation.post", "error", err)
		return models.InstagramPost{}, err
	}

	logger.Info("Successfully posted to Instagram", "post_id", post.ID)
	return post, nil
}

// CheckAndReplyToMessages answers every unreplied message one at a time, pausing
// between replies. A failed reply does not stop the remaining ones.
func (m *AutomationManager) CheckAndReplyToMessages(ctx context.Context) (models.ReplyReport, error) {
	if !m.IsActive() {
		return models.ReplyReport{}, newError(KindInvalidState, "automation.reply", ErrNotRunning)
	}

	var unreplied []models.Message
	for _, msg := range m.social.CheckMessages(ctx) {
		if !msg.Replied {
			unreplied = append(unreplied, msg)
		}
	}

	report := models.ReplyReport{Pending: len(unreplied)}
	if len(unreplied) == 0 {
		logger.Debug("No new messages to reply to")
		return report, nil
	}

	logger.Info("Found unreplied messages", "count", len(unreplied))

	for i, msg := range unreplied {
		if i > 0 {
			if err := m.sleep(ctx, m.replyDelay()); err != nil {
				logger.Warn("Reply cycle interrupted", "remaining", len(unreplied)-i, "error", err)
				return report, err
			}
		}

		logger.Debug("Processing message", "message_id", msg.ID, "from", msg.From)
		response := m.content.GenerateClientResponse(ctx, msg.Message)

		err := m.social.ReplyToMessage(ctx, msg.ID, response)
		m.opts.Metrics.RecordReply(ctx, err == nil)
		if err != nil {
			report.Failed++
			logger.Error("Failed to reply", "message_id", msg.ID, "from", msg.From, "error", err)
			continue
		}
		report.Replied++
		logger.Info("Successfully replied", "message_id", msg.ID, "from", msg.From)
	}

	return report, nil
}

func (m *AutomationManager) GetStatus() models.AutomationStatus {
	m.mu.Lock()
	running := m.running
	var cfg *models.AutomationConfig
	if m.config != nil {
		c := *m.config
		cfg = &c
	}
	postingJob := m.postingJob
	m.mu.Unlock()

	status := models.AutomationStatus{
		IsRunning: running,
		Config:    cfg,
		Instagram: m.social.GetStatus(),
	}

	if cfg != nil && cfg.AutoPost {
		next := OptimalPostingTime(m.now().In(m.opts.Location))
		status.NextPost = &next
		if at, ok := m.scheduler.NextRun(postingJob); ok {
			status.NextScheduledPost = &at
		}
	}
	return status
}

func (m *AutomationManager) IsActive() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.running
}

// Close stops a running automation and aborts in-flight scheduled jobs.
func (m *AutomationManager) Close() {
	if err := m.Stop(); err != nil && !errors.Is(err, ErrNotRunning) {
		logger.Error("Failed to stop automation on shutdown", "error", err)
	}
	m.cancelBase()
}

func (m *AutomationManager) runPostingJob(ctx context.Context) {
	logger.Info("Auto-posting job triggered")
	if _, err := m.CreateAndPost(ctx); err != nil {
		logger.Error("Auto-posting job failed", "error", err)
	}
}

func (m *AutomationManager) runMessageCheckJob(ctx context.Context) {
	logger.Debug("Checking for new messages...")
	report, err := m.CheckAndReplyToMessages(ctx)
	if err != nil {
		logger.Error("Message check job failed", "error", err)
		return
	}
	if report.Pending > 0 {
		logger.Info("Message check finished", "replied", report.Replied, "failed", report.Failed)
	}
}

// job adapts a context-aware task to a trigger callback with a run deadline.
func (m *AutomationManager) job(name string, fn func(ctx context.Context)) func() {
	return func() {
		ctx, cancel := context.WithTimeout(m.baseCtx, m.opts.JobTimeout)
		defer cancel()

		defer func() {
			if r := recover(); r != nil {
				logger.Error("Scheduled job panicked", "job", name, "panic", r)
			}
		}()
		fn(ctx)
	}
}

func (m *AutomationManager) replyDelay() time.Duration {
	m.rngMu.Lock()
	defer m.rngMu.Unlock()
	span := int64(m.opts.ReplyDelayMax - m.opts.ReplyDelayMin)
	return m.opts.ReplyDelayMin + time.Duration(m.rng.Int64N(span))
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
