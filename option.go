package orderpipe

import (
	"io"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/xerrors"
)

// Option configures a Runner.
type Option interface {
	apply(*runner) error
}

type optionFunc func(*runner) error

func (f optionFunc) apply(r *runner) error {
	return f(r)
}

// WithPrettyLogging configures the Runner to print human friendly logs.
func WithPrettyLogging() Option {
	return optionFunc(func(r *runner) error {
		r.prettyLogging = true
		return nil
	})
}

// WithLogLevel configures the log level: trace, debug, info, warn or error.
func WithLogLevel(level string) Option {
	return optionFunc(func(r *runner) error {
		l, err := zerolog.ParseLevel(level)
		if err != nil {
			return xerrors.Errorf("invalid log level %q: %w", level, err)
		}
		r.logLevel = l
		return nil
	})
}

// WithLogWriter redirects the log stream, e.g. into a test harness.
func WithLogWriter(w io.Writer) Option {
	return optionFunc(func(r *runner) error {
		r.logWriter = w
		return nil
	})
}

// WithConcurrency bounds how many registered pipelines run at once.
// Each pipeline run itself stays single-threaded.
func WithConcurrency(n int) Option {
	return optionFunc(func(r *runner) error {
		if n < 1 {
			return xerrors.Errorf("concurrency must be at least 1, got %d", n)
		}
		r.concurrency = n
		return nil
	})
}

// WithLoadTimeout bounds the synchronous wait on load job completion.
// Zero disables the bound.
func WithLoadTimeout(d time.Duration) Option {
	return optionFunc(func(r *runner) error {
		if d < 0 {
			return xerrors.Errorf("load timeout must not be negative, got %s", d)
		}
		r.loadTimeout = d
		return nil
	})
}
