package exchange

type Option func(*Options)

type Options struct {
	// Since is the trade id trade history starts from; nil means the configured default.
	Since *int64
}

func WithSince(since int64) Option {
	return func(o *Options) {
		o.Since = &since
	}
}

func ApplyOptions(opts ...Option) *Options {
	o := &Options{}
	for _, opt := range opts {
		opt(o)
	}
	return o
}
