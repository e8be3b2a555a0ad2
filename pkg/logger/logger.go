package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/getsentry/sentry-go"
	sentryslog "github.com/getsentry/sentry-go/slog"
)

// Config selects the log level, output format and optional Sentry sink.
type Config struct {
	Output            io.Writer
	Level             string    `env:"LOG_LEVEL" envDefault:"info"`
	Format            string    `env:"LOG_FORMAT" envDefault:"json"`
	SentryDSN         string    `env:"SENTRY_DSN"`
	SentryEnvironment string    `env:"SENTRY_ENVIRONMENT" envDefault:"production"`
	// SentryLevel is the lowest level forwarded to Sentry as a log entry.
	// Errors always become Sentry events.
	SentryLevel string `env:"SENTRY_LEVEL" envDefault:"warn"`
}

// New creates a logger from cfg. A Sentry sink is added only when
// SentryDSN is set and the SDK initialises; otherwise the logger falls back
// to the local handler alone.
func New(cfg Config, extractors ...Extractor) *slog.Logger {
	local := localHandler(cfg)

	if cfg.SentryDSN == "" {
		return slog.New(NewContextHandler(local, extractors...))
	}

	if err := sentry.Init(sentry.ClientOptions{
		Dsn:         cfg.SentryDSN,
		Environment: cfg.SentryEnvironment,
		EnableLogs:  true,
	}); err != nil {
		slog.New(local).Error("sentry init failed", slog.String("error", err.Error()))
		return slog.New(NewContextHandler(local, extractors...))
	}

	logLevels := []slog.Level{slog.LevelWarn, slog.LevelError}
	if ParseLevel(cfg.SentryLevel) >= slog.LevelError {
		logLevels = []slog.Level{slog.LevelError}
	}
	remote := sentryslog.Option{
		EventLevel: []slog.Level{slog.LevelError},
		LogLevel:   logLevels,
	}.NewSentryHandler(context.Background())

	return slog.New(NewContextHandler(fanout{local, remote}, extractors...))
}

// NewNope creates a logger that discards all output.
func NewNope() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// ParseLevel maps "debug", "info", "warn" and "error" to slog levels.
// Anything else is info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func localHandler(cfg Config) slog.Handler {
	out := cfg.Output
	if out == nil {
		out = os.Stdout
	}
	opts := &slog.HandlerOptions{Level: ParseLevel(cfg.Level)}
	if strings.EqualFold(cfg.Format, "text") {
		return slog.NewTextHandler(out, opts)
	}
	return slog.NewJSONHandler(out, opts)
}
