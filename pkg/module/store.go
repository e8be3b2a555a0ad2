package module

import (
	"context"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/plexis-cms/plexis/pkg/cache"
)

// Store persists module registration records.
type Store interface {
	// IsInstalled reports whether a registration record exists for name.
	IsInstalled(ctx context.Context, name string) (bool, error)

	// RegisterModule writes a registration record. It reports false when no
	// record was written.
	RegisterModule(ctx context.Context, name, version string) (bool, error)

	// UnregisterModule deletes the registration record. It reports false
	// when there was nothing to delete.
	UnregisterModule(ctx context.Context, name string) (bool, error)
}

// Lister is implemented by stores that can enumerate their records.
type Lister interface {
	Installed(ctx context.Context) ([]Registration, error)
}

// Registration is a module registration record.
type Registration struct {
	InstalledAt time.Time
	Name        string
	Version     string
}

// MemoryStore is an in-memory Store, useful for tests and single-process setups.
type MemoryStore struct {
	records map[string]Registration
	mu      sync.RWMutex
}

// NewMemoryStore creates a store pre-populated with the given module names.
func NewMemoryStore(installed ...string) *MemoryStore {
	s := &MemoryStore{records: make(map[string]Registration)}
	now := time.Now()
	for _, name := range installed {
		s.records[name] = Registration{Name: name, InstalledAt: now}
	}
	return s
}

func (s *MemoryStore) IsInstalled(ctx context.Context, name string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.records[name]
	return ok, nil
}

func (s *MemoryStore) RegisterModule(ctx context.Context, name, version string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.records[name]; ok {
		return false, nil
	}
	s.records[name] = Registration{Name: name, Version: version, InstalledAt: time.Now()}
	return true, nil
}

func (s *MemoryStore) UnregisterModule(ctx context.Context, name string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.records[name]; !ok {
		return false, nil
	}
	delete(s.records, name)
	return true, nil
}

func (s *MemoryStore) Installed(ctx context.Context) ([]Registration, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Registration, 0, len(s.records))
	for _, r := range s.records {
		out = append(out, r)
	}
	slices.SortFunc(out, func(a, b Registration) int {
		return strings.Compare(a.Name, b.Name)
	})
	return out, nil
}

// CachedStore caches IsInstalled answers of another Store for ttl.
// Writes through the decorator invalidate the cached answer, and lookups
// still running at that point are not cached. Writes made by other
// processes are visible once the entry expires.
type CachedStore struct {
	next   Store
	loader *cache.Loader[bool]
}

// NewCachedStore wraps next with a cache of installed-state lookups.
func NewCachedStore(next Store, c cache.Cache[bool], ttl time.Duration) *CachedStore {
	return &CachedStore{
		next:   next,
		loader: cache.NewLoader(c, ttl),
	}
}

func (s *CachedStore) IsInstalled(ctx context.Context, name string) (bool, error) {
	return s.loader.Get(ctx, name, func(ctx context.Context) (bool, error) {
		return s.next.IsInstalled(ctx, name)
	})
}

func (s *CachedStore) RegisterModule(ctx context.Context, name, version string) (bool, error) {
	ok, err := s.next.RegisterModule(ctx, name, version)
	_ = s.loader.Forget(ctx, name)
	return ok, err
}

func (s *CachedStore) UnregisterModule(ctx context.Context, name string) (bool, error) {
	ok, err := s.next.UnregisterModule(ctx, name)
	_ = s.loader.Forget(ctx, name)
	return ok, err
}

// Installed delegates to the wrapped store when it is a Lister.
func (s *CachedStore) Installed(ctx context.Context) ([]Registration, error) {
	if l, ok := s.next.(Lister); ok {
		return l.Installed(ctx)
	}
	return nil, nil
}

var (
	_ Store  = (*MemoryStore)(nil)
	_ Lister = (*MemoryStore)(nil)
	_ Store  = (*CachedStore)(nil)
	_ Lister = (*CachedStore)(nil)
)
