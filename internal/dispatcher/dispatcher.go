// Package dispatcher formats events and delivers the resulting lines in the
// background, off the request path.
package dispatcher

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"forge-relay/internal/delivery"
	"forge-relay/internal/formatter"
	pkgLog "forge-relay/pkg/log"
	"forge-relay/pkg/metrics"
)

// Dispatcher drains a bounded queue of jobs with a fixed set of workers.
type Dispatcher struct {
	opts  Options
	port  delivery.Port
	l     pkgLog.Logger
	m     *metrics.Metrics
	queue chan Job

	mu      sync.RWMutex
	stopped bool
	wg      sync.WaitGroup
}

// New creates a dispatcher and starts its workers.
func New(opts Options, port delivery.Port, l pkgLog.Logger, m *metrics.Metrics) *Dispatcher {
	opts = opts.withDefaults()
	d := &Dispatcher{
		opts:  opts,
		port:  port,
		l:     l,
		m:     m,
		queue: make(chan Job, opts.QueueSize),
	}

	d.wg.Add(opts.Workers)
	for i := 0; i < opts.Workers; i++ {
		go d.worker()
	}
	return d
}

// Dispatch enqueues job without blocking. A full queue drops the job.
func (d *Dispatcher) Dispatch(ctx context.Context, job Job) error {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.stopped {
		return ErrStopped
	}

	select {
	case d.queue <- job:
		d.m.SetQueueDepth(len(d.queue))
		return nil
	default:
		d.m.Dropped()
		d.l.Errorf(ctx, "dispatcher.Dispatch: queue full, dropping %s event for %s",
			job.Event.Kind, job.Event.Repository.FullName)
		return ErrQueueFull
	}
}

// Stop closes the queue and waits for queued jobs to finish or for ctx.
func (d *Dispatcher) Stop(ctx context.Context) error {
	d.mu.Lock()
	if !d.stopped {
		d.stopped = true
		close(d.queue)
	}
	d.mu.Unlock()

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (d *Dispatcher) worker() {
	defer d.wg.Done()
	for job := range d.queue {
		d.m.SetQueueDepth(len(d.queue))
		d.process(job)
	}
}

// process renders the event once per subscription and sends the lines.
// Channels are served concurrently; lines within a channel keep their order.
func (d *Dispatcher) process(job Job) {
	start := time.Now()
	defer d.m.ObserveJob(start)

	ctx := pkgLog.WithDeliveryID(context.Background(), job.Event.DeliveryID)
	ctx, cancel := context.WithTimeout(ctx, d.opts.JobTimeout)
	defer cancel()

	rule := formatter.Classify(job.Event)
	if rule == formatter.RuleNoOp {
		d.l.Debugf(ctx, "dispatcher.process: nothing to send for %s/%s", job.Event.Kind, job.Event.Action)
		return
	}

	var g errgroup.Group
	g.SetLimit(d.opts.Fanout)
	for _, sub := range job.Subscriptions {
		g.Go(func() error {
			lines := formatter.Render(rule, job.Event, sub.Colors)
			for _, line := range lines {
				if ctx.Err() != nil {
					d.l.Warnf(ctx, "dispatcher.process: %s: %v", sub.Channel, ctx.Err())
					return nil
				}
				if err := d.port.Send(ctx, sub.Channel, line); err != nil {
					d.l.Errorf(ctx, "dispatcher.process: send to %s failed: %v", sub.Channel, err)
				}
			}
			return nil
		})
	}
	_ = g.Wait()

	d.l.Infof(ctx, "dispatcher.process: %s %s delivered to %d channel(s) in %s",
		job.Event.Repository.FullName, rule, len(job.Subscriptions), time.Since(start))
}
