package services

import (
	"time"

	log "github.com/sirupsen/logrus"
)

// Option configures a service
type Option func(*options)

type options struct {
	now    func() time.Time
	logger log.FieldLogger
}

func newOptions(opts []Option) options {
	o := options{
		now:    time.Now,
		logger: log.StandardLogger(),
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// WithClock replaces time.Now, which decides deadlines and timestamps
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		if now != nil {
			o.now = now
		}
	}
}

// WithLogger replaces the standard logrus logger
func WithLogger(logger log.FieldLogger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}
