package internal

import (
	"log/slog"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel/trace"

	"github.com/plexis-cms/plexis/pkg/health"
)

// Option configures the application.
type Option func(*App)

type registration struct {
	module      string
	controllers []Controller
}

// WithLogger sets the app logger. Controllers reach it via Context.Logger.
func WithLogger(l *slog.Logger) Option {
	return func(a *App) {
		if l != nil {
			a.logger = l
		}
	}
}

// WithAuthenticator sets the identity source of RequireAuth and
// RequirePermission. Without one every user is a guest.
func WithAuthenticator(auth Authenticator) Option {
	return func(a *App) {
		a.auth = auth
	}
}

// WithControllers registers the controllers of a module.
//
// Example:
//
//	plexis.New(router,
//	    plexis.WithControllers("blog", blog.Post(), blog.Admin()),
//	)
func WithControllers(moduleName string, controllers ...Controller) Option {
	return func(a *App) {
		a.pending = append(a.pending, registration{module: moduleName, controllers: controllers})
	}
}

// WithMetrics registers the request collectors with reg and exposes
// /metrics when reg is also a prometheus.Gatherer.
func WithMetrics(reg prometheus.Registerer) Option {
	return func(a *App) {
		if reg == nil {
			return
		}
		a.metrics = NewMetrics(reg)
		if g, ok := reg.(prometheus.Gatherer); ok {
			a.gatherer = g
		}
	}
}

// WithTracer sets the tracer of Execute spans. Defaults to the global
// OpenTelemetry provider.
func WithTracer(t trace.Tracer) Option {
	return func(a *App) {
		if t != nil {
			a.tracer = t
		}
	}
}

// WithReadinessCheck adds a named check to /health/ready.
func WithReadinessCheck(name string, fn health.CheckFunc) Option {
	return func(a *App) {
		if name != "" && fn != nil {
			a.checks[name] = fn
		}
	}
}

// WithOffline serves the offline page for every request.
func WithOffline(message string) Option {
	return func(a *App) {
		a.offline = &message
	}
}

// WithMiddleware adds HTTP middleware, applied in the order provided.
func WithMiddleware(mw ...func(http.Handler) http.Handler) Option {
	return func(a *App) {
		a.middleware = append(a.middleware, mw...)
	}
}
