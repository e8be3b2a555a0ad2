package internal_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/plexis-cms/plexis/internal"
	"github.com/plexis-cms/plexis/pkg/module"
	"github.com/plexis-cms/plexis/pkg/routing"
)

// fixture is a modules root on disk with an in-memory installed store.
type fixture struct {
	registry *module.Registry
	store    *module.MemoryStore
	root     string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	root := t.TempDir()
	store := module.NewMemoryStore()
	return &fixture{
		root:     root,
		store:    store,
		registry: module.NewRegistry(root, store),
	}
}

// addModule writes a manifest for name and installs it when installed is set.
func (f *fixture) addModule(t *testing.T, name string, installed bool) {
	t.Helper()

	writeFile(t, filepath.Join(f.root, name, module.ManifestYAML), "name: "+name+"\nversion: 1.0.0\n")
	if installed {
		_, err := f.store.RegisterModule(t.Context(), name, "1.0.0")
		require.NoError(t, err)
	}
}

// addModuleRoutes writes the module-local route file of name.
func (f *fixture) addModuleRoutes(t *testing.T, name, content string) {
	t.Helper()
	writeFile(t, filepath.Join(f.root, name, module.RoutesFile), content)
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()

	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

// routeStore is an in-memory routing.Store that counts loads.
type routeStore struct {
	table   *routing.Table
	loadErr error
	saveErr error
	loads   atomic.Int32
	saves   atomic.Int32
}

func newRouteStore(routes map[string]routing.Target) *routeStore {
	t := routing.NewTable()
	for p, target := range routes {
		t.Add(p, target)
	}
	return &routeStore{table: t}
}

func (s *routeStore) Load(context.Context) (*routing.Table, error) {
	s.loads.Add(1)
	if s.loadErr != nil {
		return nil, s.loadErr
	}
	return s.table.Clone(), nil
}

func (s *routeStore) Save(_ context.Context, t *routing.Table) error {
	s.saves.Add(1)
	if s.saveErr != nil {
		return s.saveErr
	}
	s.table = t.Clone()
	return nil
}

// brokenStore fails every installed-state query.
type brokenStore struct{}

var _ module.Store = brokenStore{}

var errStoreDown = errors.New("store down")

func (brokenStore) IsInstalled(context.Context, string) (bool, error) { return false, errStoreDown }
func (brokenStore) RegisterModule(context.Context, string, string) (bool, error) {
	return false, errStoreDown
}
func (brokenStore) UnregisterModule(context.Context, string) (bool, error) {
	return false, errStoreDown
}

// staticAuth is an Authenticator with a fixed answer.
type staticAuth struct {
	permissions map[string]bool
	guest       bool
}

func (a staticAuth) IsGuest(context.Context, *internal.Request) bool { return a.guest }
func (a staticAuth) HasPermission(_ context.Context, _ *internal.Request, name string) bool {
	return a.permissions[name]
}

// errorControllers mirror the built-in error module.
func errorControllers() []internal.Controller {
	page := func(status int, html, message string) internal.Controller {
		return internal.Controller{
			Actions: map[string]internal.Action{
				"actionIndex": {Handle: func(c *internal.Context) (internal.Result, error) {
					_ = c.Response().SetStatus(status)
					c.Response().SetBody(html)
					return internal.Terminate(c.Response()), nil
				}},
				"actionAjax": {Handle: func(c *internal.Context) (internal.Result, error) {
					_ = c.Response().SetStatus(status)
					c.Response().SetHeader("Content-Type", "application/json")
					data, err := json.Marshal(map[string]string{"message": message})
					if err != nil {
						return internal.Result{}, err
					}
					c.Response().SetBody(string(data))
					return internal.Terminate(c.Response()), nil
				}},
			},
		}
	}

	show404 := page(http.StatusNotFound, "custom 404", "Page Not Found")
	show404.Name = "Show404"
	show403 := page(http.StatusForbidden, "custom 403", "Forbidden")
	show403.Name = "Show403"
	offline := page(http.StatusServiceUnavailable, "custom offline", "Site Offline")
	offline.Name = "ShowOffline"
	return []internal.Controller{show404, show403, offline}
}

const errorRoutes = `
error/404:
  module: error
  controller: show404
  ajax:
    action: ajax
error/403:
  module: error
  controller: show403
  ajax:
    action: ajax
error/offline:
  module: error
  controller: showoffline
  ajax:
    action: ajax
`

// addErrorModule installs the error module with its route file.
func (f *fixture) addErrorModule(t *testing.T) {
	t.Helper()
	f.addModule(t, "error", true)
	f.addModuleRoutes(t, "error", errorRoutes)
}

func text(s string) internal.ActionFunc {
	return func(c *internal.Context) (internal.Result, error) {
		return c.Write(s), nil
	}
}
