package scheduler

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/google/uuid"
)

// Handle identifies one scheduled trigger. The zero Handle is never issued.
type Handle string

// Spec is a recurring cadence expressed as a five-field cron expression.
type Spec struct {
	expr string
}

// HourOfDay fires at minute zero of every hour-of-day that is a multiple of n,
// i.e. "0 */n * * *". It is a fixed schedule, not a rolling interval.
func HourOfDay(n int) (Spec, error) {
	if n < 1 || n > 24 {
		return Spec{}, fmt.Errorf("hour interval must be between 1 and 24, got %d", n)
	}
	return Spec{expr: fmt.Sprintf("0 */%d * * *", n)}, nil
}

// EveryMinutes fires at every minute-of-hour that is a multiple of n.
func EveryMinutes(n int) (Spec, error) {
	if n < 1 || n > 59 {
		return Spec{}, fmt.Errorf("minute interval must be between 1 and 59, got %d", n)
	}
	return Spec{expr: fmt.Sprintf("*/%d * * * *", n)}, nil
}

func (s Spec) String() string { return s.expr }

// Scheduler arms and cancels recurring triggers.
type Scheduler interface {
	Schedule(spec Spec, task func()) (Handle, error)
	// Cancel is idempotent; unknown or empty handles are ignored.
	Cancel(h Handle) error
	NextRun(h Handle) (time.Time, bool)
}

// CronScheduler manages triggers on a single gocron scheduler
type CronScheduler struct {
	mu        sync.Mutex
	scheduler *gocron.Scheduler
	jobs      map[Handle]*gocron.Job
}

// NewCronScheduler creates a scheduler evaluating cron specs in loc
func NewCronScheduler(loc *time.Location) *CronScheduler {
	if loc == nil {
		loc = time.UTC
	}
	s := gocron.NewScheduler(loc)
	s.TagsUnique()

	return &CronScheduler{
		scheduler: s,
		jobs:      make(map[Handle]*gocron.Job),
	}
}

// Start starts the scheduler
func (s *CronScheduler) Start() {
	s.scheduler.StartAsync()
}

// Stop removes every trigger and stops the scheduler
func (s *CronScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.scheduler.Clear()
	s.scheduler.Stop()
	s.jobs = make(map[Handle]*gocron.Job)
}

// Schedule arms task on spec and returns its handle
func (s *CronScheduler) Schedule(spec Spec, task func()) (Handle, error) {
	if spec.expr == "" {
		return "", errors.New("empty schedule spec")
	}
	if task == nil {
		return "", errors.New("nil task")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	h := Handle(uuid.NewString())
	job, err := s.scheduler.Cron(spec.expr).Tag(string(h)).Do(task)
	if err != nil {
		return "", fmt.Errorf("failed to schedule %q: %w", spec.expr, err)
	}
	s.jobs[h] = job
	return h, nil
}

// Cancel removes a trigger by handle
func (s *CronScheduler) Cancel(h Handle) error {
	if h == "" {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.jobs[h]; !ok {
		return nil
	}
	delete(s.jobs, h)
	return s.scheduler.RemoveByTag(string(h))
}

// NextRun reports when a trigger fires next
func (s *CronScheduler) NextRun(h Handle) (time.Time, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	job, ok := s.jobs[h]
	if !ok {
		return time.Time{}, false
	}
	next := job.NextRun()
	return next, !next.IsZero()
}

// Len returns the number of armed triggers
func (s *CronScheduler) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.jobs)
}
