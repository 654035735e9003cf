// Package background runs best-effort side-channel jobs off the request path.
package background

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/myrjola/fraudintake/internal/errors"
	"github.com/myrjola/fraudintake/internal/metrics"
)

// Job is a named unit of fire-and-forget work. Its error is logged and never reaches the producer.
type Job struct {
	Name string
	Run  func(ctx context.Context) error
}

// Dispatcher hands jobs from producers to a single worker goroutine through a bounded queue.
//
// Enqueue never blocks: when the queue is full the job is dropped and logged. This keeps the producers, typically
// webhook handlers, independent of slow side channels.
type Dispatcher struct {
	queue        chan Job
	jobTimeout   time.Duration
	drainTimeout time.Duration
	logger       *slog.Logger
}

// NewDispatcher creates a Dispatcher buffering up to size jobs. Start processing with Run.
func NewDispatcher(size int, logger *slog.Logger) *Dispatcher {
	return &Dispatcher{
		queue:        make(chan Job, size),
		jobTimeout:   30 * time.Second, //nolint:mnd // generous for a single HTTP call or insert
		drainTimeout: 5 * time.Second,  //nolint:mnd // bounded shutdown
		logger:       logger.With("source", "Dispatcher"),
	}
}

// Enqueue schedules job and reports whether it was accepted.
func (d *Dispatcher) Enqueue(job Job) bool {
	select {
	case d.queue <- job:
		return true
	default:
		metrics.BackgroundJobs.WithLabelValues(job.Name, "dropped").Inc()
		d.logger.LogAttrs(context.Background(), slog.LevelWarn, "background queue full, dropping job",
			slog.String("job", job.Name))
		return false
	}
}

// Run processes jobs until ctx is done. Jobs still queued at that point get a short grace period to finish.
func (d *Dispatcher) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			d.drain()
			return nil
		case job := <-d.queue:
			d.process(ctx, job)
		}
	}
}

func (d *Dispatcher) drain() {
	ctx, cancel := context.WithTimeout(context.Background(), d.drainTimeout)
	defer cancel()
	for {
		select {
		case job := <-d.queue:
			d.process(ctx, job)
		default:
			return
		}
	}
}

func (d *Dispatcher) process(ctx context.Context, job Job) {
	ctx, cancel := context.WithTimeout(ctx, d.jobTimeout)
	defer cancel()
	status := "ok"
	defer func() {
		if r := recover(); r != nil {
			status = "panic"
			err := errors.New("background job panicked", slog.String("panic", fmt.Sprint(r)))
			d.logger.LogAttrs(ctx, slog.LevelError, "background job failed",
				slog.String("job", job.Name), errors.SlogError(err))
		}
		metrics.BackgroundJobs.WithLabelValues(job.Name, status).Inc()
	}()
	if err := job.Run(ctx); err != nil {
		status = "error"
		d.logger.LogAttrs(ctx, slog.LevelError, "background job failed",
			slog.String("job", job.Name), errors.SlogError(err))
	}
}
