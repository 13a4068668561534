package tasks

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Common errors returned by the deferred task machinery.
var (
	ErrUnknownTaskType = errors.New("no handler registered for task type")
)

// Handler executes a single deferred task against the resource it was
// scheduled for.
type Handler func(ctx context.Context, resourceID uuid.UUID) error

// Scheduler schedules a one-shot task to run after the given delay. Tasks
// that come due while the process is down are executed as soon as a worker
// next observes them, not dropped.
type Scheduler interface {
	ScheduleOnce(ctx context.Context, taskType string, resourceID uuid.UUID, delay time.Duration) error
}

// Registry maps task types to their handlers.
type Registry struct {
	mu       sync.RWMutex
	handlers map[string]Handler
}

func NewRegistry() *Registry {
	return &Registry{handlers: make(map[string]Handler)}
}

// Register binds a handler to a task type. Registering the same type twice
// replaces the earlier handler.
func (r *Registry) Register(taskType string, h Handler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.handlers[taskType] = h
}

// Dispatch runs the handler registered for taskType.
func (r *Registry) Dispatch(ctx context.Context, taskType string, resourceID uuid.UUID) error {
	r.mu.RLock()
	h, ok := r.handlers[taskType]
	r.mu.RUnlock()
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownTaskType, taskType)
	}
	return h(ctx, resourceID)
}

// TimerScheduler runs tasks in-process with time.AfterFunc. It has no
// persistence, so it suits tests and single-node development; production
// deployments use PGQueue instead.
type TimerScheduler struct {
	registry *Registry
	logger   zerolog.Logger

	mu     sync.Mutex
	timers []*time.Timer
}

func NewTimerScheduler(registry *Registry, logger zerolog.Logger) *TimerScheduler {
	return &TimerScheduler{
		registry: registry,
		logger:   logger,
	}
}

// ScheduleOnce fires the task after delay. A non-positive delay fires the
// task immediately.
func (s *TimerScheduler) ScheduleOnce(_ context.Context, taskType string, resourceID uuid.UUID, delay time.Duration) error {
	if delay < 0 {
		delay = 0
	}

	timer := time.AfterFunc(delay, func() {
		ctx := context.Background()
		if err := s.registry.Dispatch(ctx, taskType, resourceID); err != nil {
			s.logger.Error().
				Err(err).
				Str("task_type", taskType).
				Str("resource_id", resourceID.String()).
				Msg("deferred task failed")
		}
	})

	s.mu.Lock()
	s.timers = append(s.timers, timer)
	s.mu.Unlock()

	return nil
}

// Stop cancels all pending timers. Tasks already running are not interrupted.
func (s *TimerScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, t := range s.timers {
		t.Stop()
	}
	s.timers = nil
}
