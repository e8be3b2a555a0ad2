package internal

import (
	"context"
	"log/slog"
	"net/http"
	"slices"

	"github.com/plexis-cms/plexis/pkg/module"
)

// ActionFunc handles one controller action.
type ActionFunc func(c *Context) (Result, error)

// InitFunc runs before every action of a controller. Returning a terminal
// Result skips the action.
type InitFunc func(c *Context) (Result, error)

// Action is a registered action method. Private actions exist for reuse
// inside the controller and are never dispatched.
type Action struct {
	Handle  ActionFunc
	Private bool
}

// Controller describes a controller of a module. Action keys are method
// names such as "actionIndex", "getIndex" or "postLogin"; lookups ignore
// case.
type Controller struct {
	Init     InitFunc
	Actions  map[string]Action
	Name     string
	Abstract bool
}

// Authenticator answers identity questions for the auth gates.
type Authenticator interface {
	IsGuest(ctx context.Context, r *Request) bool
	HasPermission(ctx context.Context, r *Request, name string) bool
}

// Context is passed to controller inits and actions. It is a
// context.Context bound to the dispatching call.
type Context struct {
	context.Context

	app        *App
	module     *module.Module
	request    *Request
	controller string
	action     string
	params     []string
}

func (c *Context) Module() *module.Module { return c.module }
func (c *Context) Request() *Request      { return c.request }
func (c *Context) Response() *Response    { return c.request.Response() }
func (c *Context) Controller() string     { return c.controller }
func (c *Context) Action() string         { return c.action }

// Params returns the action parameters.
func (c *Context) Params() []string {
	return slices.Clone(c.params)
}

// Param returns the i-th parameter, or "" when absent.
func (c *Context) Param(i int) string {
	if i < 0 || i >= len(c.params) {
		return ""
	}
	return c.params[i]
}

// Logger returns the app logger.
func (c *Context) Logger() *slog.Logger {
	if c.app == nil {
		return slog.Default()
	}
	return c.app.logger
}

// Write appends s to the response body and returns a non-terminal result.
func (c *Context) Write(s string) Result {
	c.Response().AppendBody(s)
	return Continue(c.Response())
}

// Forward executes uri as a nested request with the current method and
// terminates with its response.
func (c *Context) Forward(uri string) (Result, error) {
	child, err := c.request.Child(uri, c.request.Method())
	if err != nil {
		return Result{}, err
	}
	res, err := child.Execute(c)
	if err != nil {
		return Result{}, err
	}
	return Terminate(res.Response), nil
}

// Redirect terminates with a 302 to location.
func (c *Context) Redirect(location string) Result {
	return Terminate(c.Response().Redirect(location, http.StatusFound))
}

// RequireAuth lets authenticated users through with a non-terminal zero
// Result. Guests get the account/login page when showLogin is set, or the
// forbidden page otherwise; both results are terminal.
func (c *Context) RequireAuth(showLogin bool) (Result, error) {
	if auth := c.authenticator(); auth != nil && !auth.IsGuest(c, c.request) {
		return Result{}, nil
	}
	if !showLogin {
		return c.forbidden()
	}

	login, err := c.request.Child("account/login", http.MethodGet)
	if err != nil {
		return Result{}, err
	}
	res, err := login.Execute(c)
	if IsNotFound(err) {
		return c.forbidden()
	}
	if err != nil {
		return Result{}, err
	}
	return Terminate(res.Response), nil
}

// RequirePermission lets users holding permission name through. Others are
// redirected to redirectURI, or shown the forbidden page when it is empty.
func (c *Context) RequirePermission(name, redirectURI string) (Result, error) {
	if auth := c.authenticator(); auth != nil && auth.HasPermission(c, c.request, name) {
		return Result{}, nil
	}
	if redirectURI == "" {
		return c.forbidden()
	}
	return c.Redirect(redirectURI), nil
}

func (c *Context) authenticator() Authenticator {
	if c.app == nil {
		return nil
	}
	return c.app.auth
}

func (c *Context) forbidden() (Result, error) {
	if c.app == nil {
		return Terminate(forbiddenFallback(c.Response())), nil
	}
	return c.app.ShowForbidden(c, c.request)
}
