// Package executor runs blocking calls on a bounded set of workers, so callers never run more
// than the configured number of vendor calls at the same time.
package executor

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/semaphore"
)

var (
	jobsTotal = prometheus.NewDesc(
		prometheus.BuildFQName("warmup", "executor", "jobs_total"),
		"Total number of jobs run by the executor",
		[]string{"result"},
		nil,
	)
	jobsInflight = prometheus.NewDesc(
		prometheus.BuildFQName("warmup", "executor", "jobs_inflight"),
		"Number of jobs currently running",
		nil,
		nil,
	)
)

// Executor runs jobs on a separate goroutine and waits for them to complete.
type Executor struct {
	workers  *semaphore.Weighted
	logger   *slog.Logger
	inflight atomic.Int64
	success  atomic.Int64
	failed   atomic.Int64
}

var _ prometheus.Collector = &Executor{}

// New returns an Executor that runs at most workers jobs concurrently.
func New(workers int, logger *slog.Logger) *Executor {
	if workers < 1 {
		workers = 1
	}
	return &Executor{
		workers: semaphore.NewWeighted(int64(workers)),
		logger:  logger,
	}
}

// Run waits for a free worker, runs job and returns its result. If ctx is canceled while waiting for a worker, Run returns ctx.Err().
// Once started, the job runs to completion: ctx is passed to the job, which decides how to handle cancellation.
// A panicking job is reported as an error.
func (e *Executor) Run(ctx context.Context, job func(context.Context) error) error {
	if err := e.workers.Acquire(ctx, 1); err != nil {
		return err
	}
	e.inflight.Add(1)

	done := make(chan error, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				e.logger.Error("job panicked", "panic", r)
				done <- fmt.Errorf("job panicked: %v", r)
			}
		}()
		done <- job(ctx)
	}()
	err := <-done

	e.inflight.Add(-1)
	e.workers.Release(1)
	if err != nil {
		e.failed.Add(1)
	} else {
		e.success.Add(1)
	}
	return err
}

// Call runs job on the executor and returns its value.
func Call[T any](ctx context.Context, e *Executor, job func(context.Context) (T, error)) (T, error) {
	var result T
	err := e.Run(ctx, func(ctx context.Context) error {
		var err error
		result, err = job(ctx)
		return err
	})
	return result, err
}

func (e *Executor) Describe(ch chan<- *prometheus.Desc) {
	ch <- jobsTotal
	ch <- jobsInflight
}

func (e *Executor) Collect(ch chan<- prometheus.Metric) {
	ch <- prometheus.MustNewConstMetric(jobsTotal, prometheus.CounterValue, float64(e.success.Load()), "success")
	ch <- prometheus.MustNewConstMetric(jobsTotal, prometheus.CounterValue, float64(e.failed.Load()), "failed")
	ch <- prometheus.MustNewConstMetric(jobsInflight, prometheus.GaugeValue, float64(e.inflight.Load()))
}
