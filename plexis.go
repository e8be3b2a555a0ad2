package plexis

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel/trace"

	"github.com/plexis-cms/plexis/internal"
	"github.com/plexis-cms/plexis/pkg/health"
	"github.com/plexis-cms/plexis/pkg/logger"
	"github.com/plexis-cms/plexis/pkg/module"
	"github.com/plexis-cms/plexis/pkg/routing"
)

// Type aliases - public API
type (
	// App resolves and dispatches requests and serves them over HTTP.
	App = internal.App

	// Router resolves URIs to module actions.
	Router = internal.Router

	// Resolved is the outcome of routing a URI.
	Resolved = internal.Resolved

	// Dispatcher invokes registered controller actions.
	Dispatcher = internal.Dispatcher

	// Request is one resolved and dispatched unit of work.
	Request = internal.Request

	// Stack holds the requests created while serving one inbound request.
	Stack = internal.Stack

	// Response is the buffered output of a request.
	Response = internal.Response

	// Result is returned by actions. Terminal results end the request.
	Result = internal.Result

	// Context is passed to controller inits and actions.
	Context = internal.Context

	// Controller describes a controller of a module.
	Controller = internal.Controller

	// Action is a registered action method.
	Action = internal.Action

	// ActionFunc handles one controller action.
	ActionFunc = internal.ActionFunc

	// InitFunc runs before every action of a controller.
	InitFunc = internal.InitFunc

	// Authenticator answers identity questions for the auth gates.
	Authenticator = internal.Authenticator

	// HTTPError carries the status the client should see.
	HTTPError = internal.HTTPError

	// Option configures the application.
	Option = internal.Option

	// RouterOption configures the router.
	RouterOption = internal.RouterOption

	// RequestOption configures a request.
	RequestOption = internal.RequestOption

	// RunOption configures the server runtime.
	RunOption = internal.RunOption

	// Extractor adds request-scoped attributes to log records.
	Extractor = logger.Extractor
)

// Route sources reported in Resolved.Source.
const (
	SourceGlobal     = internal.SourceGlobal
	SourceModule     = internal.SourceModule
	SourceConvention = internal.SourceConvention
)

// Errors
var (
	ErrNotFound         = internal.ErrNotFound
	ErrForbidden        = internal.ErrForbidden
	ErrMethodNotAllowed = internal.ErrMethodNotAllowed
	ErrInternal         = internal.ErrInternal
	ErrInvalidArgument  = internal.ErrInvalidArgument
	ErrInvalidMethod    = internal.ErrInvalidMethod
	ErrDetachedRequest  = internal.ErrDetachedRequest
)

// Constructors

// New creates an application on top of router.
// The App is immutable after creation.
//
// Example:
//
//	store := db.NewModuleStore(pool)
//	registry := plexis.NewRegistry("modules", store)
//	router := plexis.NewRouter(registry,
//	    plexis.WithRouteStore(routing.NewFileStore("config/routes.yaml")),
//	)
//
//	app := plexis.New(router,
//	    plexis.WithLogger(log),
//	    plexis.WithControllers("blog", blog.Controllers()...),
//	)
//
//	err := plexis.Run(app, plexis.Address(":8080"))
func New(router *Router, opts ...Option) *App {
	return internal.New(router, opts...)
}

// Run serves app and blocks until shutdown.
// It handles SIGINT and SIGTERM for graceful shutdown.
func Run(app *App, opts ...RunOption) error {
	return internal.Run(app, opts...)
}

// NewRegistry creates a module registry for the modules under root.
func NewRegistry(root string, store module.Store, opts ...module.Option) *module.Registry {
	return module.NewRegistry(root, store, opts...)
}

// NewRouter creates a router over the modules of registry.
func NewRouter(registry *module.Registry, opts ...RouterOption) *Router {
	return internal.NewRouter(registry, opts...)
}

// NewRequest creates a request that is not bound to an App.
func NewRequest(uri, method string, opts ...RequestOption) (*Request, error) {
	return internal.NewRequest(uri, method, opts...)
}

// FromHTTP builds an unbound request from an inbound HTTP request.
func FromHTTP(r *http.Request) (*Request, error) {
	return internal.FromHTTP(r)
}

// NewResponse creates an empty 200 text/html response.
func NewResponse() *Response {
	return internal.NewResponse()
}

// Continue wraps a response that callers may still extend.
func Continue(resp *Response) Result {
	return internal.Continue(resp)
}

// Terminate wraps a response that must be sent as-is.
func Terminate(resp *Response) Result {
	return internal.Terminate(resp)
}

// Error constructors

func NotFound(message string) *HTTPError { return internal.NotFound(message) }
func Forbidden(message string) *HTTPError { return internal.Forbidden(message) }
func Internal(message string) *HTTPError { return internal.Internal(message) }

// IsNotFound reports whether err resolves to a 404.
func IsNotFound(err error) bool {
	return internal.IsNotFound(err)
}

// AsHTTPError returns the first HTTPError in err's chain, or nil.
func AsHTTPError(err error) *HTTPError {
	return internal.AsHTTPError(err)
}

// IsSupportedMethod reports whether method is GET, POST, PUT or DELETE.
func IsSupportedMethod(method string) bool {
	return internal.IsSupportedMethod(method)
}

// App options

// WithLogger sets the app logger.
func WithLogger(l *slog.Logger) Option {
	return internal.WithLogger(l)
}

// WithAuthenticator sets the identity source of the auth gates.
func WithAuthenticator(auth Authenticator) Option {
	return internal.WithAuthenticator(auth)
}

// WithControllers registers the controllers of a module.
func WithControllers(moduleName string, controllers ...Controller) Option {
	return internal.WithControllers(moduleName, controllers...)
}

// WithMetrics registers the request collectors and exposes /metrics.
//
// Example:
//
//	plexis.WithMetrics(prometheus.NewRegistry())
func WithMetrics(reg prometheus.Registerer) Option {
	return internal.WithMetrics(reg)
}

// WithTracer sets the tracer of request spans.
func WithTracer(t trace.Tracer) Option {
	return internal.WithTracer(t)
}

// WithReadinessCheck adds a named check to /health/ready.
//
// Example:
//
//	plexis.WithReadinessCheck("db", db.Healthcheck(pool))
func WithReadinessCheck(name string, fn health.CheckFunc) Option {
	return internal.WithReadinessCheck(name, fn)
}

// WithOffline serves the offline page for every request.
func WithOffline(message string) Option {
	return internal.WithOffline(message)
}

// WithMiddleware adds HTTP middleware, applied in the order provided.
func WithMiddleware(mw ...func(http.Handler) http.Handler) Option {
	return internal.WithMiddleware(mw...)
}

// Router options

// WithDefaultModule sets the module used for the empty URI.
func WithDefaultModule(name string) RouterOption {
	return internal.WithDefaultModule(name)
}

// WithRouteStore sets where the global route table is persisted.
func WithRouteStore(s routing.Store) RouterOption {
	return internal.WithRouteStore(s)
}

// WithRouterLogger sets the router logger.
func WithRouterLogger(l *slog.Logger) RouterOption {
	return internal.WithRouterLogger(l)
}

// Request options

func WithPost(v url.Values) RequestOption { return internal.WithPost(v) }
func WithQuery(v url.Values) RequestOption { return internal.WithQuery(v) }
func WithHeader(h http.Header) RequestOption { return internal.WithHeader(h) }
func WithCookies(c ...*http.Cookie) RequestOption { return internal.WithCookies(c...) }
func WithAjax(ajax bool) RequestOption { return internal.WithAjax(ajax) }
func WithRemoteAddr(addr string) RequestOption { return internal.WithRemoteAddr(addr) }

// Run options

// Address sets the listen address. Defaults to ":8080".
func Address(addr string) RunOption {
	return internal.Address(addr)
}

// Logger sets the server logger.
func Logger(l *slog.Logger) RunOption {
	return internal.Logger(l)
}

// ShutdownTimeout bounds the graceful shutdown.
func ShutdownTimeout(d time.Duration) RunOption {
	return internal.ShutdownTimeout(d)
}

// StartupHook registers a function to run before the listener opens.
func StartupHook(fn func(context.Context) error) RunOption {
	return internal.StartupHook(fn)
}

// ShutdownHook registers a cleanup function to run during shutdown.
func ShutdownHook(fn func(context.Context) error) RunOption {
	return internal.ShutdownHook(fn)
}

// WithContext sets the parent context of the server.
func WithContext(ctx context.Context) RunOption {
	return internal.WithContext(ctx)
}

// RequestIDExtractor adds the executing request id to log records.
//
// Example:
//
//	log := logger.New(cfg, plexis.RequestIDExtractor())
func RequestIDExtractor() Extractor {
	return internal.RequestIDExtractor()
}
