// Package fanout runs a fixed set of independent jobs in parallel and
// aggregates their progress.
//
// Every job owns a private, bounded progress channel (worker -> coordinator
// only) and hands its result over exactly once when it finishes. The
// coordinator polls all channels round-robin, publishes status snapshots and
// flags jobs that stop reporting. Flagged jobs have their context cancelled
// and no longer hold up the coordinator; their siblings keep running.
package fanout

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Default coordinator timings.
const (
	DefaultPollInterval    = 10 * time.Millisecond
	DefaultLivenessTimeout = 30 * time.Second
)

// ErrUnresponsive is reported for a job that stopped reporting progress for
// longer than the liveness timeout.
var ErrUnresponsive = errors.New("worker not responding")

// Job is one unit of work. It should call report with a monotonically
// non-decreasing progress value and return promptly once ctx is done.
type Job[T any] func(ctx context.Context, report func(int64)) (T, error)

// State is the lifecycle state of a job as seen by the coordinator.
type State int

const (
	// StatePending means the job is waiting for a worker slot.
	StatePending State = iota

	// StateRunning means the job has started and is reporting progress.
	StateRunning

	// StateDone means the job returned without error.
	StateDone

	// StateFailed means the job returned an error or was cancelled.
	StateFailed

	// StateUnresponsive means the job was flagged by the liveness check.
	StateUnresponsive
)

// String returns a short label for the state.
func (s State) String() string {
	switch s {
	case StatePending:
		return "pending"
	case StateRunning:
		return "running"
	case StateDone:
		return "done"
	case StateFailed:
		return "failed"
	case StateUnresponsive:
		return "unresponsive"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Terminal reports whether the job will not change state any more.
func (s State) Terminal() bool {
	return s == StateDone || s == StateFailed || s == StateUnresponsive
}

// Status is the coordinator's view of one job.
type Status struct {
	Index    int
	State    State
	Progress int64
	Err      error
}

// Options configures Run.
type Options struct {
	// Parallelism bounds the number of concurrently running jobs.
	// 0 runs every job at once; 1 runs them one after another.
	Parallelism int

	// PollInterval is the delay between two polling rounds.
	PollInterval time.Duration

	// LivenessTimeout flags a running job that has been silent this long.
	// Zero selects DefaultLivenessTimeout; a negative value disables the check.
	LivenessTimeout time.Duration

	// OnUpdate receives a snapshot of every job after each polling round.
	// The slice is owned by the callee.
	OnUpdate func([]Status)
}

// Outcome is the result handed over by a job.
type Outcome[T any] struct {
	Value T
	Err   error
}

type worker[T any] struct {
	progress chan int64
	done     chan Outcome[T]
	cancel   context.CancelFunc
	status   Status
	lastSeen time.Time
	result   Outcome[T]
}

// Run executes jobs and returns their outcomes in job order, regardless of
// the order in which they complete. It returns once every job has finished,
// been flagged unresponsive or been cancelled through ctx.
func Run[T any](ctx context.Context, jobs []Job[T], opts Options) []Outcome[T] {
	outcomes := make([]Outcome[T], len(jobs))
	if len(jobs) == 0 {
		return outcomes
	}

	pollInterval := opts.PollInterval
	if pollInterval <= 0 {
		pollInterval = DefaultPollInterval
	}
	liveness := opts.LivenessTimeout
	if liveness == 0 {
		liveness = DefaultLivenessTimeout
	}

	var slots chan struct{}
	if opts.Parallelism > 0 && opts.Parallelism < len(jobs) {
		slots = make(chan struct{}, opts.Parallelism)
	}

	workers := make([]*worker[T], len(jobs))
	for i, job := range jobs {
		jobCtx, cancel := context.WithCancel(ctx)
		w := &worker[T]{
			progress: make(chan int64, 1),
			done:     make(chan Outcome[T], 1),
			cancel:   cancel,
			status:   Status{Index: i, State: StatePending},
		}
		workers[i] = w
		go w.run(jobCtx, job, slots)
	}

	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	remaining := len(workers)
	for remaining > 0 {
		now := time.Now()
		for i, w := range workers {
			if w.status.State.Terminal() {
				continue
			}
			if w.poll(now, liveness) {
				outcomes[i] = w.result
				remaining--
			}
		}

		notify(opts.OnUpdate, workers)
		if remaining == 0 {
			break
		}

		select {
		case <-ctx.Done():
			for i, w := range workers {
				if w.status.State.Terminal() {
					continue
				}
				w.cancel()
				w.status.State = StateFailed
				w.status.Err = ctx.Err()
				outcomes[i] = Outcome[T]{Err: ctx.Err()}
			}
			notify(opts.OnUpdate, workers)
			return outcomes
		case <-ticker.C:
		}
	}

	return outcomes
}

func (w *worker[T]) run(ctx context.Context, job Job[T], slots chan struct{}) {
	if slots != nil {
		select {
		case slots <- struct{}{}:
			defer func() { <-slots }()
		case <-ctx.Done():
			w.done <- Outcome[T]{Err: ctx.Err()}
			return
		}
	}

	// First report marks the job as started for the liveness check.
	publish(w.progress, 0)

	value, err := job(ctx, func(n int64) { publish(w.progress, n) })
	w.done <- Outcome[T]{Value: value, Err: err}
}

// poll performs one non-blocking check of the worker's channels and reports
// whether it reached a terminal state.
func (w *worker[T]) poll(now time.Time, liveness time.Duration) bool {
	select {
	case out := <-w.done:
		w.drainProgress()
		w.cancel()
		if out.Err != nil {
			w.status.State = StateFailed
			w.status.Err = out.Err
		} else {
			w.status.State = StateDone
		}
		w.result = out
		return true
	default:
	}

	select {
	case n := <-w.progress:
		w.status.State = StateRunning
		w.status.Progress = max(w.status.Progress, n)
		w.lastSeen = now
	default:
		if w.status.State == StateRunning && liveness > 0 && now.Sub(w.lastSeen) > liveness {
			w.cancel()
			w.status.State = StateUnresponsive
			w.status.Err = fmt.Errorf("%w: silent for %v", ErrUnresponsive, now.Sub(w.lastSeen).Round(time.Millisecond))
			w.result = Outcome[T]{Err: w.status.Err}
			return true
		}
	}
	return false
}

func (w *worker[T]) drainProgress() {
	select {
	case n := <-w.progress:
		w.status.Progress = max(w.status.Progress, n)
	default:
	}
}

// publish replaces any unread progress value with v without blocking.
func publish(ch chan int64, v int64) {
	for {
		select {
		case ch <- v:
			return
		default:
		}
		select {
		case <-ch:
		default:
		}
	}
}

func notify[T any](fn func([]Status), workers []*worker[T]) {
	if fn == nil {
		return
	}
	snapshot := make([]Status, len(workers))
	for i, w := range workers {
		snapshot[i] = w.status
	}
	fn(snapshot)
}
