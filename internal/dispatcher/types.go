package dispatcher

import (
	"time"

	"forge-relay/internal/model"
)

// Options sizes the worker pool.
type Options struct {
	Workers    int
	QueueSize  int
	Fanout     int
	JobTimeout time.Duration
}

func (o Options) withDefaults() Options {
	if o.Workers <= 0 {
		o.Workers = 4
	}
	if o.QueueSize <= 0 {
		o.QueueSize = 256
	}
	if o.Fanout <= 0 {
		o.Fanout = 8
	}
	if o.JobTimeout <= 0 {
		o.JobTimeout = 2 * time.Minute
	}
	return o
}

// Job is one parsed event together with the subscriptions resolved for it.
type Job struct {
	Event         model.Event
	Subscriptions []model.Subscription
}
