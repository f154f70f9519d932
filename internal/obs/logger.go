// Package obs provides ambient logging and metrics shared by every component.
package obs

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// InitLogger configures the global zerolog logger with JSON output to stdout
// (or to w when provided, e.g. in tests) and the given minimum level.
func InitLogger(w io.Writer, level string) zerolog.Logger {
	if w == nil {
		w = os.Stdout
	}
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)
	zerolog.TimeFieldFormat = time.RFC3339
	logger := zerolog.New(w).With().Timestamp().Caller().Logger()
	zerolog.DefaultContextLogger = &logger
	log.Logger = logger
	return logger
}

// ctxKey is unexported so only this package can stash a logger in a context.
type ctxKey struct{}

// WithComponent returns a context carrying a sub-logger tagged with the
// given component and request id, the way request-scoped loggers are
// threaded through the retrieval pipeline.
func WithComponent(ctx context.Context, base zerolog.Logger, component, requestID string) context.Context {
	l := base.With().Str("component", component).Str("request_id", requestID).Logger()
	return l.WithContext(ctx)
}

// FromContext returns the logger attached to ctx, or the global logger if
// none was attached.
func FromContext(ctx context.Context) *zerolog.Logger {
	return zerolog.Ctx(ctx)
}
