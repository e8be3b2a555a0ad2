package internal_test

import (
	"fmt"
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/plexis-cms/plexis/internal"
)

// gateApp serves module "site" whose actions exercise the auth gates.
func gateApp(t *testing.T, withAccount bool, opts ...internal.Option) *internal.App {
	t.Helper()

	f := newFixture(t)
	f.addModule(t, "site", true)
	f.addModule(t, "welcome", true)
	f.addErrorModule(t)
	if withAccount {
		f.addModule(t, "account", true)
	}

	gate := func(fn func(c *internal.Context) (internal.Result, error)) internal.Action {
		return internal.Action{Handle: func(c *internal.Context) (internal.Result, error) {
			if res, err := fn(c); err != nil || res.Terminal {
				return res, err
			}
			return c.Write("granted"), nil
		}}
	}

	site := internal.Controller{
		Name: "Site",
		Actions: map[string]internal.Action{
			"actionLogin":   gate(func(c *internal.Context) (internal.Result, error) { return c.RequireAuth(true) }),
			"actionMembers": gate(func(c *internal.Context) (internal.Result, error) { return c.RequireAuth(false) }),
			"actionEdit": gate(func(c *internal.Context) (internal.Result, error) {
				return c.RequirePermission("edit", "")
			}),
			"actionPublish": gate(func(c *internal.Context) (internal.Result, error) {
				return c.RequirePermission("publish", "site/site/login")
			}),
			"actionTyped": {Handle: func(c *internal.Context) (internal.Result, error) {
				return c.Write(fmt.Sprintf("%d %d %t %d %s",
					internal.Param[int](c, 0),
					internal.ParamDefault(c, 1, 10),
					internal.PostValue[bool](c.Request(), "draft"),
					internal.QueryDefault(c.Request(), "page", 1),
					internal.Query[string](c.Request(), "sort"),
				)), nil
			}},
		},
	}
	welcome := internal.Controller{
		Name: "Welcome",
		Actions: map[string]internal.Action{
			"actionIndex": {Handle: func(c *internal.Context) (internal.Result, error) {
				return c.Forward("error/404")
			}},
		},
	}
	login := internal.Controller{
		Name: "Login",
		Actions: map[string]internal.Action{
			"getIndex": {Handle: text("login form")},
		},
	}

	opts = append([]internal.Option{
		internal.WithControllers("site", site),
		internal.WithControllers("welcome", welcome),
		internal.WithControllers("account", login),
		internal.WithControllers("error", errorControllers()...),
	}, opts...)
	return internal.New(internal.NewRouter(f.registry), opts...)
}

func run(t *testing.T, app *internal.App, uri string, opts ...internal.RequestOption) internal.Result {
	t.Helper()

	req, err := app.NewRequest(uri, http.MethodGet, opts...)
	require.NoError(t, err)
	res, err := req.Execute(t.Context())
	require.NoError(t, err)
	return res
}

func TestContext_RequireAuth(t *testing.T) {
	t.Parallel()

	member := internal.WithAuthenticator(staticAuth{guest: false})
	guest := internal.WithAuthenticator(staticAuth{guest: true})

	t.Run("authenticated", func(t *testing.T) {
		t.Parallel()
		res := run(t, gateApp(t, true, member), "site/site/login")
		require.False(t, res.Terminal)
		require.Equal(t, "granted", res.Response.Body())
	})

	t.Run("guest sees the login page", func(t *testing.T) {
		t.Parallel()
		res := run(t, gateApp(t, true, guest), "site/site/login")
		require.True(t, res.Terminal)
		require.Equal(t, "login form", res.Response.Body())
	})

	t.Run("no authenticator means guest", func(t *testing.T) {
		t.Parallel()
		res := run(t, gateApp(t, true), "site/site/login")
		require.True(t, res.Terminal)
		require.Equal(t, "login form", res.Response.Body())
	})

	t.Run("guest without login module is forbidden", func(t *testing.T) {
		t.Parallel()
		res := run(t, gateApp(t, false, guest), "site/site/login")
		require.True(t, res.Terminal)
		require.Equal(t, http.StatusForbidden, res.Response.Status())
		require.Equal(t, "custom 403", res.Response.Body())
	})

	t.Run("guest without login page", func(t *testing.T) {
		t.Parallel()
		res := run(t, gateApp(t, true, guest), "site/site/members")
		require.True(t, res.Terminal)
		require.Equal(t, http.StatusForbidden, res.Response.Status())
	})
}

func TestContext_RequirePermission(t *testing.T) {
	t.Parallel()

	editor := internal.WithAuthenticator(staticAuth{permissions: map[string]bool{"edit": true}})

	t.Run("granted", func(t *testing.T) {
		t.Parallel()
		res := run(t, gateApp(t, false, editor), "site/site/edit")
		require.False(t, res.Terminal)
		require.Equal(t, "granted", res.Response.Body())
	})

	t.Run("denied renders forbidden", func(t *testing.T) {
		t.Parallel()
		res := run(t, gateApp(t, false), "site/site/edit")
		require.True(t, res.Terminal)
		require.Equal(t, http.StatusForbidden, res.Response.Status())
	})

	t.Run("denied redirects", func(t *testing.T) {
		t.Parallel()
		res := run(t, gateApp(t, false, editor), "site/site/publish")
		require.True(t, res.Terminal)
		require.Equal(t, http.StatusFound, res.Response.Status())
		require.Equal(t, "site/site/login", res.Response.Header("Location"))
	})

	t.Run("detached context falls back to fixed body", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		f.addModule(t, "site", true)
		mod, err := f.registry.Load("site")
		require.NoError(t, err)

		d := internal.NewDispatcher(nil)
		d.Register("site", internal.Controller{
			Name: "Site",
			Actions: map[string]internal.Action{
				"actionIndex": {Handle: func(c *internal.Context) (internal.Result, error) {
					return c.RequirePermission("any", "")
				}},
			},
		})
		req, err := internal.NewRequest("site", http.MethodGet)
		require.NoError(t, err)

		res, err := d.InvokeAction(t.Context(), req, mod, "Site", "Index", nil)
		require.NoError(t, err)
		require.True(t, res.Terminal)
		require.Equal(t, http.StatusForbidden, res.Response.Status())
		require.Equal(t, "<h1>403 Forbidden</h1>", res.Response.Body())
	})
}

func TestContext_Forward(t *testing.T) {
	t.Parallel()

	app := gateApp(t, false)
	rec := serve(t, app, http.MethodGet, "/", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
	require.Equal(t, "custom 404", rec.Body.String())

	req, err := app.NewRequest("", http.MethodGet)
	require.NoError(t, err)
	res, err := req.Execute(t.Context())
	require.NoError(t, err)
	require.True(t, res.Terminal)
	require.Equal(t, 2, req.Stack().Len())
	require.Equal(t, "error/404", req.Children()[0].URI())
}

func TestTypedAccessors(t *testing.T) {
	t.Parallel()

	app := gateApp(t, false)

	res := run(t, app, "site/site/typed/42",
		internal.WithQuery(url.Values{"sort": {"asc"}, "page": {"x"}}),
		internal.WithPost(url.Values{"draft": {"true"}}),
	)
	require.Equal(t, "42 10 true 1 asc", res.Response.Body())

	res = run(t, app, "site/site/typed/nope/7", internal.WithQuery(url.Values{"page": {"3"}}))
	require.Equal(t, "0 7 false 3 ", res.Response.Body())
}
