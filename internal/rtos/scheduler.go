package rtos

import (
	"context"
	"fmt"
	"sort"
	"sync/atomic"

	"github.com/sourcegraph/conc/panics"
	"github.com/sourcegraph/conc/pool"

	"github.com/Iron-Ham/potpanel/internal/errors"
	"github.com/Iron-Ham/potpanel/internal/logging"
)

// TaskFunc is the body of a task. It runs until ctx is cancelled or it
// fails. Returning ctx.Err() after cancellation is a clean stop.
type TaskFunc func(ctx context.Context) error

// Task is a named, prioritized unit of work.
type Task struct {
	Name     string
	Priority int
	Run      TaskFunc
}

// Hooks observe task lifecycle. Either field may be nil.
type Hooks struct {
	OnStart func(t Task)
	OnStop  func(t Task, err error)
}

// Scheduler runs a fixed set of tasks concurrently.
type Scheduler struct {
	tasks   []Task
	hooks   Hooks
	logger  *logging.Logger
	running atomic.Int32
}

// NewScheduler returns a scheduler for tasks. The slice is copied.
func NewScheduler(logger *logging.Logger, tasks ...Task) *Scheduler {
	if logger == nil {
		logger = logging.NopLogger()
	}
	return &Scheduler{
		tasks:  append([]Task(nil), tasks...),
		logger: logger,
	}
}

// Add registers another task. It must be called before Run.
func (s *Scheduler) Add(t Task) {
	s.tasks = append(s.tasks, t)
}

// SetHooks installs lifecycle hooks. It must be called before Run.
func (s *Scheduler) SetHooks(h Hooks) {
	s.hooks = h
}

// Tasks returns the tasks in start order: priority descending, ties in
// registration order.
func (s *Scheduler) Tasks() []Task {
	ordered := append([]Task(nil), s.tasks...)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Priority > ordered[j].Priority
	})
	return ordered
}

// Running returns the number of tasks currently executing.
func (s *Scheduler) Running() int {
	return int(s.running.Load())
}

// Run starts every task and blocks until all have returned. Cancelling ctx
// stops them and Run returns nil. If a task returns an error or panics, the
// remaining tasks are cancelled and Run returns that failure.
func (s *Scheduler) Run(ctx context.Context) error {
	tasks := s.Tasks()
	for _, t := range tasks {
		if t.Run == nil {
			return errors.NewValidationError("task has no body").WithField("task").WithValue(t.Name)
		}
	}

	p := pool.New().WithContext(ctx).WithCancelOnError().WithFirstError()
	for _, t := range tasks {
		p.Go(func(ctx context.Context) error {
			return s.runTask(ctx, t)
		})
	}

	err := p.Wait()
	if err != nil && ctx.Err() != nil && errors.Is(err, ctx.Err()) {
		return nil
	}
	return err
}

func (s *Scheduler) runTask(ctx context.Context, t Task) (err error) {
	log := s.logger.WithTask(t.Name)
	s.running.Add(1)
	defer s.running.Add(-1)

	if s.hooks.OnStart != nil {
		s.hooks.OnStart(t)
	}
	log.Debug("task started", "priority", t.Priority)

	var pc panics.Catcher
	pc.Try(func() {
		err = t.Run(ctx)
	})
	if r := pc.Recovered(); r != nil {
		err = fmt.Errorf("%w: %s panicked: %w", errors.ErrTaskFailed, t.Name, r.AsError())
		log.Error("task panicked", "panic", fmt.Sprint(r.Value))
	}

	stopped := err
	if stopped != nil && ctx.Err() != nil && errors.Is(stopped, ctx.Err()) {
		stopped = nil
	}
	if s.hooks.OnStop != nil {
		s.hooks.OnStop(t, stopped)
	}
	if stopped != nil {
		log.Error("task failed", "error", stopped)
		if !errors.Is(stopped, errors.ErrTaskFailed) {
			stopped = fmt.Errorf("%w: %s: %w", errors.ErrTaskFailed, t.Name, stopped)
		}
		return stopped
	}
	log.Debug("task stopped")
	return err
}
