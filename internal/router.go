package internal

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"unicode"
	"unicode/utf8"

	"github.com/plexis-cms/plexis/pkg/logger"
	"github.com/plexis-cms/plexis/pkg/module"
	"github.com/plexis-cms/plexis/pkg/routing"
)

const (
	defaultModule = "welcome"
	defaultAction = "Index"
	adminModule   = "admin"
)

// Where a resolution came from.
const (
	SourceGlobal     = "global"
	SourceModule     = "module"
	SourceConvention = "convention"
)

// Resolved is the outcome of routing a URI.
type Resolved struct {
	Module     *module.Module
	Ajax       *routing.AjaxTarget
	Controller string
	Action     string
	Source     string
	Params     []string
}

// ForRequest returns the controller and action to dispatch, applying the
// ajax override when ajax is set.
func (r *Resolved) ForRequest(ajax bool) (controller, action string) {
	controller, action = r.Controller, r.Action
	if !ajax || r.Ajax == nil {
		return controller, action
	}
	if r.Ajax.Controller != "" {
		controller = ucfirst(r.Ajax.Controller)
	}
	if r.Ajax.Action != "" {
		action = ucfirst(r.Ajax.Action)
	}
	return controller, action
}

// RouterOption configures a Router.
type RouterOption func(*Router)

// WithDefaultModule sets the module used for the empty URI.
func WithDefaultModule(name string) RouterOption {
	return func(r *Router) {
		if name != "" {
			r.defaultModule = name
		}
	}
}

// WithRouteStore sets where the global route table is loaded from and
// saved to. Without a store the table lives in memory only.
func WithRouteStore(s routing.Store) RouterOption {
	return func(r *Router) {
		r.store = s
	}
}

// WithRouterLogger sets the router logger.
func WithRouterLogger(l *slog.Logger) RouterOption {
	return func(r *Router) {
		if l != nil {
			r.logger = l
		}
	}
}

// Router resolves URIs to module actions. The global route table is
// loaded once by Init and shared by all requests.
type Router struct {
	registry      *module.Registry
	store         routing.Store
	logger        *slog.Logger
	routes        *routing.Table
	defaultModule string
	mu            sync.RWMutex
	initialized   bool
}

// NewRouter creates a router over the modules of registry.
func NewRouter(registry *module.Registry, opts ...RouterOption) *Router {
	r := &Router{
		registry:      registry,
		logger:        logger.NewNope(),
		routes:        routing.NewTable(),
		defaultModule: defaultModule,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Init loads the global route table. Only the first successful call reads
// the store.
func (r *Router) Init(ctx context.Context) error {
	r.mu.RLock()
	done := r.initialized
	r.mu.RUnlock()
	if done {
		return nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.initialized {
		return nil
	}
	if r.store != nil {
		t, err := r.store.Load(ctx)
		if err != nil {
			return err
		}
		r.routes = t
	}
	r.initialized = true

	r.logger.DebugContext(ctx, "global routes loaded", slog.Int("count", r.routes.Len()))
	return nil
}

// Forge resolves uri. Every resolution failure is an ErrNotFound
// HTTPError; store failures are returned as internal errors.
func (r *Router) Forge(ctx context.Context, uri string) (*Resolved, error) {
	if err := r.Init(ctx); err != nil {
		return nil, Internal("failed to load routes", WithError(err))
	}

	uri = routing.Normalize(uri)
	if uri == "" {
		uri = r.defaultModule
	}
	parts := routing.Segments(uri)
	if strings.HasPrefix(parts[0], "_") || (len(parts) > 2 && strings.HasPrefix(parts[2], "_")) {
		return nil, NotFound("reserved path segment")
	}

	r.mu.RLock()
	target, ok := r.routes.Match(uri)
	r.mu.RUnlock()
	if ok {
		r.logger.DebugContext(ctx, "global route matched",
			slog.String("uri", uri),
			slog.String("module", target.Module),
		)
		mod, err := r.loadInstalled(ctx, target.Module)
		if err != nil {
			return nil, err
		}
		return resolveTarget(mod, target, SourceGlobal)
	}

	mod, err := r.loadInstalled(ctx, parts[0])
	if err != nil {
		return nil, err
	}

	res, ok, err := r.moduleRoute(ctx, mod, uri)
	if err != nil {
		return nil, err
	}
	if ok {
		return res, nil
	}
	return resolveConvention(mod, parts)
}

// moduleRoute matches uri against the module-local route file. A missing,
// malformed or non-matching file falls through to convention. A matched
// target that fails resolution is returned as an error.
func (r *Router) moduleRoute(ctx context.Context, mod *module.Module, uri string) (*Resolved, bool, error) {
	if !mod.HasRoutes() {
		return nil, false, nil
	}

	t, err := mod.Routes(ctx)
	if err != nil {
		r.logger.WarnContext(ctx, "ignoring module routes",
			slog.String("module", mod.Name()),
			slog.String("path", mod.RoutesPath()),
			slog.String("error", err.Error()),
		)
		return nil, false, nil
	}

	target, ok := t.Match(uri)
	if !ok {
		r.logger.DebugContext(ctx, "no module route matched", slog.String("uri", uri))
		return nil, false, nil
	}

	res, err := resolveTarget(mod, target, SourceModule)
	if err != nil {
		return nil, false, err
	}
	return res, true, nil
}

func (r *Router) loadInstalled(ctx context.Context, name string) (*module.Module, error) {
	mod, err := r.registry.Load(name)
	if err != nil {
		if errors.Is(err, module.ErrModuleNotFound) {
			r.logger.DebugContext(ctx, "module not found", slog.String("module", name))
			return nil, NotFound("module not found", WithError(err))
		}
		r.logger.WarnContext(ctx, "module failed to load",
			slog.String("module", name),
			slog.String("error", err.Error()),
		)
		return nil, NotFound("module failed to load", WithError(err))
	}

	installed, err := mod.IsInstalled(ctx)
	if err != nil {
		return nil, Internal("failed to query module state", WithError(err))
	}
	if !installed {
		r.logger.DebugContext(ctx, "module not installed", slog.String("module", name))
		return nil, NotFound(fmt.Sprintf("module %q is not installed", name))
	}
	return mod, nil
}

// AddRoutes merges t into the global table and persists the full set.
// The in-memory table changes only when the save succeeds.
func (r *Router) AddRoutes(ctx context.Context, t *routing.Table) error {
	return r.update(ctx, func(routes *routing.Table) {
		routes.Merge(t)
	})
}

// RemoveRoute deletes pattern from the global table and persists the rest.
func (r *Router) RemoveRoute(ctx context.Context, pattern string) error {
	return r.update(ctx, func(routes *routing.Table) {
		routes.Remove(pattern)
	})
}

func (r *Router) update(ctx context.Context, fn func(*routing.Table)) error {
	if err := r.Init(ctx); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	next := r.routes.Clone()
	fn(next)
	if r.store != nil {
		if err := r.store.Save(ctx, next); err != nil {
			return err
		}
	}
	r.routes = next
	return nil
}

// Routes returns the global routes in table order.
func (r *Router) Routes() []routing.Route {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.routes.Routes()
}

func resolveTarget(mod *module.Module, t routing.Target, source string) (*Resolved, error) {
	controller := t.Controller
	if controller == "" {
		controller = mod.Name()
	}
	action := t.Action
	if action == "" {
		action = defaultAction
	}
	return guardAdmin(mod, &Resolved{
		Module:     mod,
		Controller: ucfirst(controller),
		Action:     ucfirst(action),
		Params:     t.Params,
		Ajax:       t.Ajax,
		Source:     source,
	})
}

func resolveConvention(mod *module.Module, parts []string) (*Resolved, error) {
	res := &Resolved{
		Module:     mod,
		Controller: ucfirst(mod.Name()),
		Action:     defaultAction,
		Params:     []string{},
		Source:     SourceConvention,
	}
	if len(parts) > 1 {
		res.Controller = ucfirst(parts[1])
	}
	if len(parts) > 2 {
		res.Action = ucfirst(parts[2])
	}
	if len(parts) > 3 {
		res.Params = append(res.Params, parts[3:]...)
	}
	return guardAdmin(mod, res)
}

// guardAdmin hides admin controllers of modules other than admin.
func guardAdmin(mod *module.Module, res *Resolved) (*Resolved, error) {
	if isAdminController(mod, res.Controller) {
		return nil, NotFound("admin controller outside the admin module")
	}
	return res, nil
}

func isAdminController(mod *module.Module, controller string) bool {
	return strings.EqualFold(controller, adminModule) && mod.Name() != adminModule
}

func ucfirst(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}
