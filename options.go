package divelog

import (
	"go.uber.org/zap"

	"divelog/meter"
)

type Option func(*options)

type options struct {
	logger  *zap.Logger
	profile meter.Profile
}

func newOptions(opts ...Option) *options {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}
	mergeDefaultOptions(o)
	return o
}

func mergeDefaultOptions(o *options) {

	// || LOGGER ||

	if o.logger == nil {
		o.logger = zap.NewNop()
	}
}

func WithLogger(logger *zap.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

func WithProfile(p meter.Profile) Option {
	return func(o *options) {
		o.profile = meter.Sub(p, "divelog")
	}
}
