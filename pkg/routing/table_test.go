package routing_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/plexis-cms/plexis/pkg/routing"
)

func TestNormalize(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name string
		in   string
		want string
	}{
		{name: "empty", in: "", want: ""},
		{name: "only slashes", in: "///", want: ""},
		{name: "collapses repeated slashes", in: "blog//post///view", want: "blog/post/view"},
		{name: "trims slashes", in: "/blog/post/", want: "blog/post"},
		{name: "lower-cases", in: "Blog/Post", want: "blog/post"},
		{name: "trims whitespace", in: "  /shop/ ", want: "shop"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, tc.want, routing.Normalize(tc.in))
		})
	}
}

func TestTable_Match(t *testing.T) {
	t.Parallel()

	t.Run("placeholder captures segment", func(t *testing.T) {
		t.Parallel()

		tbl := routing.NewTable()
		tbl.Add("shop/item/:id", routing.Target{Module: "shop", Controller: "Item", Action: "View"})

		target, ok := tbl.Match("shop/item/42")
		require.True(t, ok)
		require.Equal(t, "shop", target.Module)
		require.Equal(t, "Item", target.Controller)
		require.Equal(t, "View", target.Action)
		require.Equal(t, []string{"42"}, target.Params)
	})

	t.Run("literal segments are case-insensitive", func(t *testing.T) {
		t.Parallel()

		tbl := routing.NewTable()
		tbl.Add("Shop/Item/:id", routing.Target{Module: "shop"})

		_, ok := tbl.Match("SHOP//item/7/")
		require.True(t, ok)
	})

	t.Run("captures keep left-to-right order", func(t *testing.T) {
		t.Parallel()

		tbl := routing.NewTable()
		tbl.Add("news/:year/archive/:month", routing.Target{Module: "news"})

		target, ok := tbl.Match("news/2013/archive/04")
		require.True(t, ok)
		require.Equal(t, []string{"2013", "04"}, target.Params)
	})

	t.Run("static params precede captures", func(t *testing.T) {
		t.Parallel()

		tbl := routing.NewTable()
		tbl.Add("feed/:kind", routing.Target{Module: "news", Params: []string{"rss"}})

		target, ok := tbl.Match("feed/latest")
		require.True(t, ok)
		require.Equal(t, []string{"rss", "latest"}, target.Params)
	})

	t.Run("segment count must agree", func(t *testing.T) {
		t.Parallel()

		tbl := routing.NewTable()
		tbl.Add("shop/item/:id", routing.Target{Module: "shop"})

		_, ok := tbl.Match("shop/item")
		require.False(t, ok)
		_, ok = tbl.Match("shop/item/1/extra")
		require.False(t, ok)
	})

	t.Run("literal mismatch fails", func(t *testing.T) {
		t.Parallel()

		tbl := routing.NewTable()
		tbl.Add("shop/item/:id", routing.Target{Module: "shop"})

		_, ok := tbl.Match("shop/items/1")
		require.False(t, ok)
	})

	t.Run("trailing variadic captures the rest", func(t *testing.T) {
		t.Parallel()

		tbl := routing.NewTable()
		tbl.Add("files/*path", routing.Target{Module: "files"})

		target, ok := tbl.Match("files/a/b/c")
		require.True(t, ok)
		require.Equal(t, []string{"a", "b", "c"}, target.Params)

		target, ok = tbl.Match("files")
		require.True(t, ok)
		require.Empty(t, target.Params)
	})

	t.Run("variadic before the tail never matches", func(t *testing.T) {
		t.Parallel()

		tbl := routing.NewTable()
		tbl.Add("files/*path/edit", routing.Target{Module: "files"})

		_, ok := tbl.Match("files/a/edit")
		require.False(t, ok)
	})

	t.Run("first inserted pattern wins", func(t *testing.T) {
		t.Parallel()

		tbl := routing.NewTable()
		tbl.Add("shop/:any", routing.Target{Module: "catchall"})
		tbl.Add("shop/cart", routing.Target{Module: "cart"})

		target, ok := tbl.Match("shop/cart")
		require.True(t, ok)
		require.Equal(t, "catchall", target.Module)
	})

	t.Run("matched target does not alias stored params", func(t *testing.T) {
		t.Parallel()

		tbl := routing.NewTable()
		tbl.Add("a/:x", routing.Target{Module: "a", Params: []string{"fixed"}})

		first, ok := tbl.Match("a/1")
		require.True(t, ok)
		first.Params[0] = "mutated"

		second, ok := tbl.Match("a/2")
		require.True(t, ok)
		require.Equal(t, []string{"fixed", "2"}, second.Params)
	})
}

func TestTable_Add(t *testing.T) {
	t.Parallel()

	t.Run("duplicate pattern replaces in place", func(t *testing.T) {
		t.Parallel()

		tbl := routing.NewTable()
		tbl.Add("a", routing.Target{Module: "first"})
		tbl.Add("b", routing.Target{Module: "b"})
		tbl.Add("A/", routing.Target{Module: "second"})

		require.Equal(t, 2, tbl.Len())

		routes := tbl.Routes()
		require.Equal(t, "a", routes[0].Pattern)
		require.Equal(t, "second", routes[0].Target.Module)
	})

	t.Run("repeated identical adds keep size stable", func(t *testing.T) {
		t.Parallel()

		tbl := routing.NewTable()
		for range 5 {
			tbl.Add("shop/item/:id", routing.Target{Module: "shop"})
		}
		require.Equal(t, 1, tbl.Len())
		require.Len(t, tbl.Routes(), 1)
	})
}

func TestTable_Remove(t *testing.T) {
	t.Parallel()

	tbl := routing.NewTable()
	tbl.Add("a", routing.Target{Module: "a"})
	tbl.Add("b", routing.Target{Module: "b"})
	tbl.Add("c", routing.Target{Module: "c"})

	tbl.Remove("b")
	tbl.Remove("missing")

	require.Equal(t, 2, tbl.Len())
	_, ok := tbl.Get("b")
	require.False(t, ok)

	target, ok := tbl.Get("c")
	require.True(t, ok)
	require.Equal(t, "c", target.Module)

	// Re-adding after removal appends.
	tbl.Add("b", routing.Target{Module: "b2"})
	routes := tbl.Routes()
	require.Equal(t, "b", routes[2].Pattern)
}

func TestTable_Merge(t *testing.T) {
	t.Parallel()

	base := routing.NewTable()
	base.Add("a", routing.Target{Module: "base-a"})
	base.Add("b", routing.Target{Module: "base-b"})

	other := routing.NewTable()
	other.Add("b", routing.Target{Module: "other-b"})
	other.Add("c", routing.Target{Module: "other-c"})

	base.Merge(other)
	base.Merge(nil)

	require.Equal(t, 3, base.Len())

	b, ok := base.Get("b")
	require.True(t, ok)
	require.Equal(t, "other-b", b.Module)

	patterns := make([]string, 0, base.Len())
	for _, r := range base.Routes() {
		patterns = append(patterns, r.Pattern)
	}
	require.Equal(t, []string{"a", "b", "c"}, patterns)
}
