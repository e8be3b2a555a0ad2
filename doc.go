// Package plexis is the core of a module/controller/action web framework.
//
// An inbound URI is resolved into a module, controller, action and
// parameters by consulting a persisted global route table, then the
// module's own config/routes.yaml, then convention:
//
//	{module}/{controller}/{action}/{params...}
//
// Modules live in directories under a root, each with a module.yaml (or a
// legacy module.xml) manifest. A module must be installed before any of its
// routes resolve; installed state is kept in a [module.Store] such as the
// PostgreSQL-backed db.ModuleStore.
//
// # Quick Start
//
//	registry := plexis.NewRegistry("modules", module.NewMemoryStore("welcome", "error"))
//	router := plexis.NewRouter(registry,
//	    plexis.WithRouteStore(routing.NewFileStore("config/routes.yaml")),
//	)
//
//	app := plexis.New(router,
//	    plexis.WithLogger(log),
//	    plexis.WithControllers("welcome", plexis.Controller{
//	        Name: "Welcome",
//	        Actions: map[string]plexis.Action{
//	            "actionIndex": {Handle: func(c *plexis.Context) (plexis.Result, error) {
//	                return c.Write("<h1>Hello</h1>"), nil
//	            }},
//	        },
//	    }),
//	)
//
//	if err := plexis.Run(app, plexis.Address(":8080")); err != nil {
//	    log.Error("server stopped", "error", err)
//	}
//
// # Controllers
//
// Actions are registered by method name. For a request to blog/post/save
// the dispatcher tries {verb}Save first (getSave, postSave, ...) and then
// actionSave. Lookups ignore case. Private actions and abstract
// controllers are never dispatched.
//
// # Terminal results
//
// Gates such as [Context.RequireAuth] and [Context.RequirePermission]
// return a terminal [Result] when the request must stop. Callers return it
// unchanged:
//
//	if res, err := c.RequireAuth(true); err != nil || res.Terminal {
//	    return res, err
//	}
//
// # Error pages
//
// Requests that cannot be resolved render the error/404 page of the error
// module, falling back to a fixed body when that module is missing.
// Forbidden and offline pages work the same way with error/403 and
// error/offline.
package plexis
