package internal

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"github.com/plexis-cms/plexis/pkg/logger"
	"github.com/plexis-cms/plexis/pkg/module"
)

type controllerEntry struct {
	init     InitFunc
	actions  map[string]Action
	name     string
	abstract bool
}

// Dispatcher invokes controller actions from a registration table keyed by
// module and controller name.
type Dispatcher struct {
	logger  *slog.Logger
	modules map[string]map[string]*controllerEntry
	mu      sync.RWMutex
}

// NewDispatcher creates an empty dispatcher.
func NewDispatcher(l *slog.Logger) *Dispatcher {
	if l == nil {
		l = logger.NewNope()
	}
	return &Dispatcher{
		logger:  l,
		modules: make(map[string]map[string]*controllerEntry),
	}
}

// Register adds controllers to a module. Registering a controller name
// again replaces it.
func (d *Dispatcher) Register(moduleName string, controllers ...Controller) {
	d.mu.Lock()
	defer d.mu.Unlock()

	table, ok := d.modules[moduleName]
	if !ok {
		table = make(map[string]*controllerEntry)
		d.modules[moduleName] = table
	}
	for _, c := range controllers {
		e := &controllerEntry{
			name:     ucfirst(c.Name),
			init:     c.Init,
			abstract: c.Abstract,
			actions:  make(map[string]Action, len(c.Actions)),
		}
		for k, a := range c.Actions {
			e.actions[strings.ToLower(k)] = a
		}
		table[strings.ToLower(c.Name)] = e
	}
}

// Controllers lists the registered controller names of a module.
func (d *Dispatcher) Controllers(moduleName string) []string {
	d.mu.RLock()
	defer d.mu.RUnlock()

	names := make([]string, 0, len(d.modules[moduleName]))
	for _, e := range d.modules[moduleName] {
		names = append(names, e.name)
	}
	return names
}

func (d *Dispatcher) lookup(moduleName, controller string) (*controllerEntry, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	e, ok := d.modules[moduleName][strings.ToLower(controller)]
	return e, ok
}

// InvokeAction runs {verb}{action}, else action{action}, of a controller.
// Missing or abstract controllers and missing or private actions are
// reported as ErrNotFound, never forbidden.
func (d *Dispatcher) InvokeAction(ctx context.Context, req *Request, mod *module.Module, controller, action string, params []string) (Result, error) {
	e, ok := d.lookup(mod.Name(), controller)
	if !ok {
		d.logger.DebugContext(ctx, "controller not registered",
			slog.String("module", mod.Name()),
			slog.String("controller", controller),
		)
		return Result{}, NotFound("controller not found")
	}
	if e.abstract {
		return Result{}, NotFound("controller is abstract")
	}

	name := strings.ToLower(action)
	act, ok := e.actions[strings.ToLower(req.Method())+name]
	if !ok {
		act, ok = e.actions["action"+name]
	}
	if !ok || act.Private || act.Handle == nil {
		d.logger.DebugContext(ctx, "action not dispatchable",
			slog.String("module", mod.Name()),
			slog.String("controller", e.name),
			slog.String("action", action),
		)
		return Result{}, NotFound("action not found")
	}

	c := &Context{
		Context:    ctx,
		app:        req.app,
		module:     mod,
		request:    req,
		controller: e.name,
		action:     ucfirst(action),
		params:     params,
	}

	if e.init != nil {
		res, err := e.init(c)
		if err != nil || res.Terminal {
			return res, err
		}
	}
	return act.Handle(c)
}
