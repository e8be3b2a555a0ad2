package module_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/plexis-cms/plexis/pkg/cache"
	"github.com/plexis-cms/plexis/pkg/module"
)

func loadBlog(t *testing.T, store module.Store) (*module.Registry, *module.Module) {
	t.Helper()

	root := t.TempDir()
	writeModule(t, root, "blog", module.ManifestYAML, "version: 1.4\n")
	reg := module.NewRegistry(root, store)
	m, err := reg.Load("blog")
	require.NoError(t, err)
	return reg, m
}

func TestModule_Install(t *testing.T) {
	t.Parallel()

	t.Run("without hooks", func(t *testing.T) {
		t.Parallel()

		store := module.NewMemoryStore()
		_, m := loadBlog(t, store)

		ok, err := m.IsInstalled(t.Context())
		require.NoError(t, err)
		require.False(t, ok)

		require.NoError(t, m.Install(t.Context()))

		ok, err = m.IsInstalled(t.Context())
		require.NoError(t, err)
		require.True(t, ok)

		regs, err := store.Installed(t.Context())
		require.NoError(t, err)
		require.Len(t, regs, 1)
		require.Equal(t, "1.4", regs[0].Version)
	})

	t.Run("installed state is re-queried", func(t *testing.T) {
		t.Parallel()

		store := module.NewMemoryStore()
		_, m := loadBlog(t, store)

		_, err := store.RegisterModule(t.Context(), "blog", "1.4")
		require.NoError(t, err)
		ok, err := m.IsInstalled(t.Context())
		require.NoError(t, err)
		require.True(t, ok)

		_, err = store.UnregisterModule(t.Context(), "blog")
		require.NoError(t, err)
		ok, err = m.IsInstalled(t.Context())
		require.NoError(t, err)
		require.False(t, ok)
	})

	t.Run("already installed skips the hook", func(t *testing.T) {
		t.Parallel()

		reg, m := loadBlog(t, module.NewMemoryStore("blog"))
		called := false
		reg.Define("blog", module.Hooks{Install: func(context.Context, *module.Module) (bool, error) {
			called = true
			return true, nil
		}})

		require.NoError(t, m.Install(t.Context()))
		require.False(t, called)
	})

	t.Run("hook rejects", func(t *testing.T) {
		t.Parallel()

		store := module.NewMemoryStore()
		reg, m := loadBlog(t, store)
		reg.Define("blog", module.Hooks{Install: func(context.Context, *module.Module) (bool, error) {
			return false, nil
		}})

		require.ErrorIs(t, m.Install(t.Context()), module.ErrHookRejected)
		ok, _ := store.IsInstalled(t.Context(), "blog")
		require.False(t, ok)
	})

	t.Run("hook error", func(t *testing.T) {
		t.Parallel()

		boom := errors.New("schema failed")
		reg, m := loadBlog(t, module.NewMemoryStore())
		reg.Define("blog", module.Hooks{Install: func(context.Context, *module.Module) (bool, error) {
			return true, boom
		}})

		err := m.Install(t.Context())
		require.ErrorIs(t, err, module.ErrHookFailed)
		require.ErrorIs(t, err, boom)
	})

	t.Run("hook panic", func(t *testing.T) {
		t.Parallel()

		reg, m := loadBlog(t, module.NewMemoryStore())
		reg.Define("blog", module.Hooks{Install: func(context.Context, *module.Module) (bool, error) {
			panic("boom")
		}})

		require.ErrorIs(t, m.Install(t.Context()), module.ErrHookFailed)
	})

	t.Run("hook receives the module", func(t *testing.T) {
		t.Parallel()

		reg, m := loadBlog(t, module.NewMemoryStore())
		var got *module.Module
		reg.Define("blog", module.Hooks{Install: func(_ context.Context, hm *module.Module) (bool, error) {
			got = hm
			return true, nil
		}})

		require.NoError(t, m.Install(t.Context()))
		require.Same(t, m, got)
	})
}

func TestModule_Uninstall(t *testing.T) {
	t.Parallel()

	t.Run("removes the record", func(t *testing.T) {
		t.Parallel()

		store := module.NewMemoryStore("blog")
		_, m := loadBlog(t, store)

		require.NoError(t, m.Uninstall(t.Context()))
		ok, _ := store.IsInstalled(t.Context(), "blog")
		require.False(t, ok)
	})

	t.Run("not installed", func(t *testing.T) {
		t.Parallel()

		_, m := loadBlog(t, module.NewMemoryStore())
		require.ErrorIs(t, m.Uninstall(t.Context()), module.ErrNotInstalled)
	})

	t.Run("hook rejects keeps the record", func(t *testing.T) {
		t.Parallel()

		store := module.NewMemoryStore("blog")
		reg, m := loadBlog(t, store)
		reg.Define("blog", module.Hooks{Uninstall: func(context.Context, *module.Module) (bool, error) {
			return false, nil
		}})

		require.ErrorIs(t, m.Uninstall(t.Context()), module.ErrHookRejected)
		ok, _ := store.IsInstalled(t.Context(), "blog")
		require.True(t, ok)
	})
}

type countingStore struct {
	*module.MemoryStore
	lookups int
}

func (s *countingStore) IsInstalled(ctx context.Context, name string) (bool, error) {
	s.lookups++
	return s.MemoryStore.IsInstalled(ctx, name)
}

func TestCachedStore(t *testing.T) {
	t.Parallel()

	ctx := t.Context()
	backing := &countingStore{MemoryStore: module.NewMemoryStore()}
	c := cache.NewMemory[bool](cache.WithCleanupInterval(0))
	defer c.Close()
	store := module.NewCachedStore(backing, c, time.Minute)

	for range 3 {
		ok, err := store.IsInstalled(ctx, "blog")
		require.NoError(t, err)
		require.False(t, ok)
	}
	require.Equal(t, 1, backing.lookups)

	ok, err := store.RegisterModule(ctx, "blog", "1.0")
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = store.IsInstalled(ctx, "blog")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, 2, backing.lookups)

	regs, err := store.Installed(ctx)
	require.NoError(t, err)
	require.Len(t, regs, 1)

	ok, err = store.UnregisterModule(ctx, "blog")
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = store.IsInstalled(ctx, "blog")
	require.NoError(t, err)
	require.False(t, ok)
}
