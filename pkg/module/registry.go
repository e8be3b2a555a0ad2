package module

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/plexis-cms/plexis/pkg/logger"
)

// Option configures a Registry.
type Option func(*Registry)

// WithLogger sets the registry logger.
func WithLogger(l *slog.Logger) Option {
	return func(r *Registry) {
		if l != nil {
			r.logger = l
		}
	}
}

// Registry loads modules from a root directory and caches one *Module per
// name. It is safe for concurrent use.
type Registry struct {
	store   Store
	logger  *slog.Logger
	modules map[string]*Module
	defs    map[string]Hooks
	root    string
	mu      sync.RWMutex
}

// NewRegistry creates a registry for the modules under root, using store
// for installed-state records.
func NewRegistry(root string, store Store, opts ...Option) *Registry {
	r := &Registry{
		root:    root,
		store:   store,
		logger:  logger.NewNope(),
		modules: make(map[string]*Module),
		defs:    make(map[string]Hooks),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Root returns the modules root directory.
func (r *Registry) Root() string {
	return r.root
}

// Store returns the installed-state store.
func (r *Registry) Store() Store {
	return r.store
}

// Define attaches lifecycle hooks to a module name. It may be called before
// or after the module is loaded.
func (r *Registry) Define(name string, hooks Hooks) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.defs[name] = hooks
}

func (r *Registry) hooks(name string) Hooks {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.defs[name]
}

// Exists reports whether a directory for name exists under the root.
// It ignores the cache and does not require a manifest.
func (r *Registry) Exists(name string) bool {
	if !validName(name) {
		return false
	}
	return isDir(filepath.Join(r.root, name))
}

// Load returns the module called name, reading its manifest on first use.
// It fails with ErrModuleNotFound when the directory or manifest is missing.
func (r *Registry) Load(name string) (*Module, error) {
	r.mu.RLock()
	m, ok := r.modules[name]
	r.mu.RUnlock()
	if ok {
		return m, nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if m, ok := r.modules[name]; ok {
		return m, nil
	}

	if !validName(name) {
		return nil, fmt.Errorf("%w: invalid module name %q", ErrModuleNotFound, name)
	}

	root := filepath.Join(r.root, name)
	if !isDir(root) {
		return nil, fmt.Errorf("%w: module path %q does not exist", ErrModuleNotFound, root)
	}

	manifest, err := ReadManifest(root)
	if err != nil {
		if isNotExist(err) {
			return nil, manifestMissing(root)
		}
		if errors.Is(err, ErrInvalidManifest) {
			return nil, fmt.Errorf("module %q: %w", name, err)
		}
		return nil, errors.Join(ErrInvalidManifest, err)
	}

	m = &Module{
		registry: r,
		name:     name,
		rootPath: root,
		manifest: manifest,
	}
	r.modules[name] = m

	r.logger.Debug("module loaded",
		slog.String("module", name),
		slog.String("version", manifest.Version),
	)
	return m, nil
}

// Loaded returns the cached modules sorted by name.
func (r *Registry) Loaded() []*Module {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*Module, 0, len(r.modules))
	for _, m := range r.modules {
		out = append(out, m)
	}
	slices.SortFunc(out, func(a, b *Module) int {
		return strings.Compare(a.name, b.name)
	})
	return out
}

// Discover lists the module directories under the root that carry a
// manifest, sorted by name.
func (r *Registry) Discover() ([]string, error) {
	entries, err := os.ReadDir(r.root)
	if err != nil {
		if isNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var names []string
	for _, e := range entries {
		if !e.IsDir() || !validName(e.Name()) {
			continue
		}
		dir := filepath.Join(r.root, e.Name())
		if fileExists(filepath.Join(dir, ManifestYAML)) || fileExists(filepath.Join(dir, ManifestXML)) {
			names = append(names, e.Name())
		}
	}
	slices.Sort(names)
	return names, nil
}

// validName accepts a single path segment.
func validName(name string) bool {
	if name == "" || name == "." || name == ".." {
		return false
	}
	return !strings.ContainsAny(name, `/\`)
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
