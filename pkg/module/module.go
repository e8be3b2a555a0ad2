package module

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/plexis-cms/plexis/pkg/routing"
)

// RoutesFile is the module-local route file, relative to the module root.
var RoutesFile = filepath.Join("config", "routes.yaml")

// Hook runs during Install or Uninstall. Returning false aborts the operation.
type Hook func(ctx context.Context, m *Module) (bool, error)

// Hooks are the optional lifecycle callbacks of a module.
type Hooks struct {
	Install   Hook
	Uninstall Hook
}

// Module is a loaded module. It is created by Registry.Load and shared by
// every caller that loads the same name.
type Module struct {
	registry *Registry
	manifest Manifest
	name     string
	rootPath string
}

// Name returns the module's directory name.
func (m *Module) Name() string {
	return m.name
}

// RootPath returns the module's root directory.
func (m *Module) RootPath() string {
	return m.rootPath
}

// Manifest returns the manifest read when the module was loaded.
func (m *Module) Manifest() Manifest {
	return m.manifest
}

// Version returns the manifest version.
func (m *Module) Version() string {
	return m.manifest.Version
}

// HasAdmin reports whether the module ships admin pages.
func (m *Module) HasAdmin() bool {
	return m.manifest.HasAdmin
}

// RoutesPath returns the path of the module-local route file.
func (m *Module) RoutesPath() string {
	return filepath.Join(m.rootPath, RoutesFile)
}

// HasRoutes reports whether the module has a local route file.
func (m *Module) HasRoutes() bool {
	info, err := os.Stat(m.RoutesPath())
	return err == nil && !info.IsDir()
}

// Routes reads the module-local route table. The file is read on every
// call. A missing file yields an empty table.
func (m *Module) Routes(ctx context.Context) (*routing.Table, error) {
	return routing.NewFileStore(m.RoutesPath()).Load(ctx)
}

// IsInstalled queries the store for a registration record.
// The answer is never cached on the module.
func (m *Module) IsInstalled(ctx context.Context) (bool, error) {
	return m.registry.store.IsInstalled(ctx, m.name)
}

// Install runs the install hook, if any, and writes the registration
// record. Installing an installed module is a no-op.
func (m *Module) Install(ctx context.Context) error {
	installed, err := m.IsInstalled(ctx)
	if err != nil {
		return err
	}
	if installed {
		return nil
	}

	if err := m.runHook(ctx, "install", m.registry.hooks(m.name).Install); err != nil {
		return err
	}

	ok, err := m.registry.store.RegisterModule(ctx, m.name, m.manifest.Version)
	if err != nil {
		return errors.Join(ErrRegistrationFailed, err)
	}
	if !ok {
		return fmt.Errorf("%w: %s", ErrRegistrationFailed, m.name)
	}

	m.registry.logger.InfoContext(ctx, "module installed",
		slog.String("module", m.name),
		slog.String("version", m.manifest.Version),
	)
	return nil
}

// Uninstall runs the uninstall hook, if any, and deletes the registration
// record. It returns ErrNotInstalled when there was no record to delete.
func (m *Module) Uninstall(ctx context.Context) error {
	if err := m.runHook(ctx, "uninstall", m.registry.hooks(m.name).Uninstall); err != nil {
		return err
	}

	ok, err := m.registry.store.UnregisterModule(ctx, m.name)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotInstalled, m.name)
	}

	m.registry.logger.InfoContext(ctx, "module uninstalled", slog.String("module", m.name))
	return nil
}

func (m *Module) runHook(ctx context.Context, stage string, hook Hook) (err error) {
	if hook == nil {
		m.registry.logger.DebugContext(ctx, "module has no hook",
			slog.String("module", m.name),
			slog.String("stage", stage),
		)
		return nil
	}

	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("%w: %s of module %q panicked: %v", ErrHookFailed, stage, m.name, p)
		}
	}()

	ok, err := hook(ctx, m)
	if err != nil {
		return fmt.Errorf("%w: %s of module %q: %w", ErrHookFailed, stage, m.name, err)
	}
	if !ok {
		return fmt.Errorf("%w: %s of module %q", ErrHookRejected, stage, m.name)
	}
	return nil
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.IsDir()
}

func isNotExist(err error) bool {
	return errors.Is(err, fs.ErrNotExist)
}
