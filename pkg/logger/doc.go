// Package logger builds the slog loggers used across plexis.
//
// Loggers write JSON or text to an io.Writer (stdout by default) and can fan
// out warnings and errors to Sentry when a DSN is configured. Request-scoped
// values are attached through [Extractor] functions, evaluated on every
// record:
//
//	log := logger.New(logger.Config{Level: "debug", Format: "text"},
//	    logger.RequestID(requestIDFromContext),
//	)
//	log.InfoContext(ctx, "module installed", slog.String("module", "blog"))
//
// [NewNope] returns a logger that discards everything and is the default
// wherever a logger is optional.
package logger
