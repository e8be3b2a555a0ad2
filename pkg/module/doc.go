// Package module loads and caches Plexis modules.
//
// A module is a directory under the modules root holding a manifest
// (module.yaml, or the legacy module.xml) and, optionally, a module-local
// route file at config/routes.yaml:
//
//	modules/
//	  blog/
//	    module.yaml
//	    config/
//	      routes.yaml
//
// # Registry
//
// [Registry] replaces a process-wide module cache. It is created once and
// passed to whatever needs modules:
//
//	reg := module.NewRegistry("modules", store, module.WithLogger(log))
//
//	blog, err := reg.Load("blog")
//	if errors.Is(err, module.ErrModuleNotFound) {
//		// no directory or no manifest
//	}
//
// Load reads the manifest once. Subsequent calls return the same *Module
// for the lifetime of the registry even if the manifest changes on disk.
//
// # Installed state
//
// Whether a module is installed lives in a [Store], not on the Module.
// [Module.IsInstalled] queries the store on every call. [CachedStore] is an
// opt-in decorator that caches lookups for a bounded TTL.
//
// # Install hooks
//
// Code can attach install and uninstall hooks to a module name:
//
//	reg.Define("blog", module.Hooks{
//		Install: func(ctx context.Context, m *module.Module) (bool, error) {
//			return true, seedBlog(ctx)
//		},
//	})
//
// A missing hook is a trivial success. A hook returning false aborts with
// [ErrHookRejected]; a hook error or panic aborts with [ErrHookFailed].
package module
