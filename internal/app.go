package internal

import (
	"context"
	"errors"
	"html"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/plexis-cms/plexis/pkg/health"
	"github.com/plexis-cms/plexis/pkg/logger"
	"github.com/plexis-cms/plexis/pkg/module"
)

// Built-in error pages and their fallback bodies.
const (
	notFoundURI  = "error/404"
	forbiddenURI = "error/403"
	offlineURI   = "error/offline"

	notFoundBody  = "<h1>404 Page Not Found</h1>"
	forbiddenBody = "<h1>403 Forbidden</h1>"
	internalBody  = "<h1>500 Internal Server Error</h1>"
)

// App ties the router and dispatcher together and serves requests over HTTP.
// App is immutable after New.
type App struct {
	router     *Router
	dispatcher *Dispatcher
	auth       Authenticator
	logger     *slog.Logger
	metrics    *Metrics
	gatherer   prometheus.Gatherer
	tracer     trace.Tracer
	checks     health.Checks
	offline    *string
	middleware []func(http.Handler) http.Handler
	pending    []registration
	handler    http.Handler
}

// New creates an App on top of router.
func New(router *Router, opts ...Option) *App {
	a := &App{
		router: router,
		logger: logger.NewNope(),
		tracer: otel.Tracer("github.com/plexis-cms/plexis"),
		checks: make(health.Checks),
	}
	a.dispatcher = NewDispatcher(nil)

	for _, opt := range opts {
		opt(a)
	}

	a.dispatcher.logger = a.logger
	for _, r := range a.pending {
		a.dispatcher.Register(r.module, r.controllers...)
	}
	a.pending = nil
	a.handler = a.routes()
	return a
}

// Router returns the URI router.
func (a *App) Router() *Router {
	return a.router
}

// Registry returns the module registry the router loads from.
func (a *App) Registry() *module.Registry {
	return a.router.registry
}

// Dispatcher returns the controller registration table.
func (a *App) Dispatcher() *Dispatcher {
	return a.dispatcher
}

// Logger returns the app logger.
func (a *App) Logger() *slog.Logger {
	return a.logger
}

// NewRequest creates an initial request bound to the app.
func (a *App) NewRequest(uri, method string, opts ...RequestOption) (*Request, error) {
	return newRequest(a, &Stack{}, nil, uri, method, opts...)
}

// Execute resolves req and invokes its action. Ajax requests use the
// route's ajax controller and action when present.
func (a *App) Execute(ctx context.Context, req *Request) (Result, error) {
	start := time.Now()
	ctx = withRequestID(ctx, req.ID())
	ctx, span := a.tracer.Start(ctx, "plexis.execute",
		trace.WithAttributes(
			attribute.String("plexis.uri", req.URI()),
			attribute.String("plexis.method", req.Method()),
			attribute.Bool("plexis.ajax", req.IsAjax()),
			attribute.Int("plexis.position", req.Position()),
		),
	)
	defer span.End()

	res, source, err := a.execute(ctx, req)

	status := http.StatusOK
	switch {
	case err != nil:
		status = http.StatusInternalServerError
		if he := AsHTTPError(err); he != nil {
			status = he.Code
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	case res.Response != nil:
		status = res.Response.Status()
		span.SetStatus(codes.Ok, "")
	}
	span.SetAttributes(
		attribute.String("plexis.module", req.Module()),
		attribute.String("plexis.controller", req.Controller()),
		attribute.String("plexis.action", req.Action()),
		attribute.String("plexis.route_source", source),
		attribute.Int("plexis.status", status),
	)
	a.metrics.observe(req, source, status, time.Since(start))

	a.logger.DebugContext(ctx, "request executed",
		slog.String("uri", req.URI()),
		slog.String("method", req.Method()),
		slog.String("source", source),
		slog.Int("status", status),
		slog.Bool("nested", req.IsNested()),
	)
	return res, err
}

func (a *App) execute(ctx context.Context, req *Request) (Result, string, error) {
	resolved, err := a.router.Forge(ctx, req.URI())
	if err != nil {
		return Result{}, "", err
	}

	controller, action := resolved.ForRequest(req.IsAjax())
	if isAdminController(resolved.Module, controller) {
		return Result{}, resolved.Source, NotFound("admin controller outside the admin module")
	}

	req.resolve(resolved)
	req.controller, req.action = controller, action

	res, err := a.dispatcher.InvokeAction(ctx, req, resolved.Module, controller, action, resolved.Params)
	if err != nil {
		return Result{}, resolved.Source, err
	}
	if res.Response == nil {
		res.Response = req.Response()
	}
	return res, resolved.Source, nil
}

// ShowNotFound renders the error/404 page for req, or a fixed 404 body when
// that page cannot be resolved. The result is terminal.
func (a *App) ShowNotFound(ctx context.Context, req *Request) (Result, error) {
	return a.showPage(ctx, req, notFoundURI, func(resp *Response) {
		_ = resp.SetStatus(http.StatusNotFound)
		resp.SetBody(notFoundBody)
	})
}

// ShowForbidden renders the error/403 page for req, or a fixed 403 body.
func (a *App) ShowForbidden(ctx context.Context, req *Request) (Result, error) {
	return a.showPage(ctx, req, forbiddenURI, func(resp *Response) {
		forbiddenFallback(resp)
	})
}

// ShowOffline renders the error/offline page for req, or a 503 body that
// includes message.
func (a *App) ShowOffline(ctx context.Context, req *Request, message string) (Result, error) {
	return a.showPage(ctx, req, offlineURI, func(resp *Response) {
		_ = resp.SetStatus(http.StatusServiceUnavailable)
		resp.SetBody("<h1>Site is currently offline<br /><br />" + html.EscapeString(message) + "</h1>")
	})
}

func forbiddenFallback(resp *Response) *Response {
	_ = resp.SetStatus(http.StatusForbidden)
	resp.SetBody(forbiddenBody)
	return resp
}

// showPage runs uri as a nested request of the stack's initial request,
// keeping its method and ajax flag.
func (a *App) showPage(ctx context.Context, req *Request, uri string, fallback func(*Response)) (Result, error) {
	initial := req
	if initial == nil {
		var err error
		if initial, err = a.NewRequest("", http.MethodGet); err != nil {
			return Result{}, err
		}
	} else if first := req.Stack().Initial(); first != nil {
		initial = first
	}

	page, err := initial.Child(uri, initial.Method())
	if err != nil {
		return Result{}, err
	}
	// The page may belong to a stack created without an app.
	page.app = a

	res, err := a.Execute(ctx, page)
	if err == nil {
		return Terminate(res.Response), nil
	}
	if !IsNotFound(err) {
		a.logger.ErrorContext(ctx, "error page failed",
			slog.String("uri", uri),
			slog.String("error", err.Error()),
		)
	}

	fallback(page.Response())
	return Terminate(page.Response()), nil
}

// Handler returns the HTTP handler of the app.
func (a *App) Handler() http.Handler {
	return a.handler
}

func (a *App) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Recoverer)
	for _, mw := range a.middleware {
		r.Use(mw)
	}

	r.Get("/health/live", health.LivenessHandler())
	r.Get("/health/ready", health.ReadinessHandler(a.checks, health.WithLogger(a.logger)))
	if a.gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(a.gatherer, promhttp.HandlerOpts{}))
	}

	r.HandleFunc("/*", a.serveHTTP)
	return r
}

func (a *App) serveHTTP(w http.ResponseWriter, r *http.Request) {
	if !IsSupportedMethod(r.Method) {
		w.Header().Set("Allow", "GET, POST, PUT, DELETE")
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	ctx := r.Context()
	req, err := fromHTTP(a, r)
	if err != nil {
		http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
		return
	}

	var res Result
	if a.offline != nil {
		res, err = a.ShowOffline(ctx, req, *a.offline)
	} else {
		res, err = a.Execute(ctx, req)
	}
	if err != nil {
		res, err = a.renderError(ctx, req, err)
	}
	if err != nil {
		a.logger.ErrorContext(ctx, "request failed", slog.String("error", err.Error()))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	resp := res.Response
	if resp == nil {
		resp = req.Response()
	}
	if err := resp.Send(w); err != nil {
		a.logger.WarnContext(ctx, "failed to write response", slog.String("error", err.Error()))
	}
}

func (a *App) renderError(ctx context.Context, req *Request, err error) (Result, error) {
	switch {
	case IsNotFound(err):
		return a.ShowNotFound(ctx, req)
	case errors.Is(err, ErrForbidden):
		return a.ShowForbidden(ctx, req)
	}

	a.logger.ErrorContext(ctx, "request execution failed",
		slog.String("uri", req.URI()),
		slog.String("error", err.Error()),
	)
	resp := NewResponse()
	_ = resp.SetStatus(http.StatusInternalServerError)
	resp.SetBody(internalBody)
	return Terminate(resp), nil
}

type requestIDKey struct{}

func withRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

// RequestIDFromContext returns the id of the request being executed.
func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

// RequestIDExtractor adds the executing request id to log records.
func RequestIDExtractor() logger.Extractor {
	return logger.RequestID(RequestIDFromContext)
}
