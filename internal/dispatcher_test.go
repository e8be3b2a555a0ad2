package internal_test

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/plexis-cms/plexis/internal"
)

func TestDispatcher_InvokeAction(t *testing.T) {
	t.Parallel()

	f := newFixture(t)
	f.addModule(t, "blog", true)
	mod, err := f.registry.Load("blog")
	require.NoError(t, err)

	errInit := errors.New("init failed")

	d := internal.NewDispatcher(nil)
	d.Register("blog",
		internal.Controller{
			Name: "post",
			Actions: map[string]internal.Action{
				"actionView": {Handle: func(c *internal.Context) (internal.Result, error) {
					return c.Write("view " + c.Param(0) + c.Param(5)), nil
				}},
				"getSave":      {Handle: text("get save")},
				"postSave":     {Handle: text("post save")},
				"actionSave":   {Handle: text("any save")},
				"actionSecret": {Handle: text("secret"), Private: true},
				"actionEmpty":  {},
			},
		},
		internal.Controller{
			Name:     "Base",
			Abstract: true,
			Actions:  map[string]internal.Action{"actionIndex": {Handle: text("base")}},
		},
		internal.Controller{
			Name: "Guarded",
			Init: func(c *internal.Context) (internal.Result, error) {
				if c.Param(0) == "stop" {
					return internal.Terminate(c.Response().Redirect("/login", 0)), nil
				}
				if c.Param(0) == "fail" {
					return internal.Result{}, errInit
				}
				c.Response().AppendBody("init;")
				return internal.Result{}, nil
			},
			Actions: map[string]internal.Action{"actionIndex": {Handle: text("index")}},
		},
	)

	invoke := func(t *testing.T, method, controller, action string, params ...string) (internal.Result, error) {
		t.Helper()
		req, err := internal.NewRequest("blog", method)
		require.NoError(t, err)
		return d.InvokeAction(t.Context(), req, mod, controller, action, params)
	}

	t.Run("action method", func(t *testing.T) {
		t.Parallel()
		res, err := invoke(t, http.MethodGet, "Post", "View", "5")
		require.NoError(t, err)
		require.False(t, res.Terminal)
		require.Equal(t, "view 5", res.Response.Body())
	})

	t.Run("lookups ignore case", func(t *testing.T) {
		t.Parallel()
		res, err := invoke(t, http.MethodGet, "POST", "view", "x")
		require.NoError(t, err)
		require.Equal(t, "view x", res.Response.Body())
	})

	t.Run("verb method wins", func(t *testing.T) {
		t.Parallel()
		res, err := invoke(t, http.MethodPost, "Post", "Save")
		require.NoError(t, err)
		require.Equal(t, "post save", res.Response.Body())

		res, err = invoke(t, http.MethodGet, "Post", "Save")
		require.NoError(t, err)
		require.Equal(t, "get save", res.Response.Body())

		res, err = invoke(t, http.MethodDelete, "Post", "Save")
		require.NoError(t, err)
		require.Equal(t, "any save", res.Response.Body())
	})

	t.Run("not dispatchable", func(t *testing.T) {
		t.Parallel()
		cases := []struct {
			name       string
			controller string
			action     string
		}{
			{"private action", "Post", "Secret"},
			{"action without handler", "Post", "Empty"},
			{"missing action", "Post", "Delete"},
			{"abstract controller", "Base", "Index"},
			{"missing controller", "Comment", "Index"},
		}
		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				t.Parallel()
				_, err := invoke(t, http.MethodGet, tc.controller, tc.action)
				require.ErrorIs(t, err, internal.ErrNotFound)
				require.NotErrorIs(t, err, internal.ErrForbidden)
			})
		}
	})

	t.Run("init runs first", func(t *testing.T) {
		t.Parallel()
		res, err := invoke(t, http.MethodGet, "Guarded", "Index")
		require.NoError(t, err)
		require.Equal(t, "init;index", res.Response.Body())
	})

	t.Run("terminal init skips the action", func(t *testing.T) {
		t.Parallel()
		res, err := invoke(t, http.MethodGet, "Guarded", "Index", "stop")
		require.NoError(t, err)
		require.True(t, res.Terminal)
		require.Equal(t, http.StatusFound, res.Response.Status())
		require.Empty(t, res.Response.Body())
	})

	t.Run("init error", func(t *testing.T) {
		t.Parallel()
		_, err := invoke(t, http.MethodGet, "Guarded", "Index", "fail")
		require.ErrorIs(t, err, errInit)
	})

	t.Run("unknown module", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		f.addModule(t, "other", true)
		other, err := f.registry.Load("other")
		require.NoError(t, err)

		req, err := internal.NewRequest("other", http.MethodGet)
		require.NoError(t, err)
		_, err = d.InvokeAction(t.Context(), req, other, "Post", "View", nil)
		require.ErrorIs(t, err, internal.ErrNotFound)
	})
}

func TestDispatcher_Register(t *testing.T) {
	t.Parallel()

	d := internal.NewDispatcher(nil)
	d.Register("blog", internal.Controller{Name: "post"})
	d.Register("blog", internal.Controller{Name: "Post"}, internal.Controller{Name: "comment"})

	require.ElementsMatch(t, []string{"Post", "Comment"}, d.Controllers("blog"))
	require.Empty(t, d.Controllers("shop"))
}
