// Package internal provides the core types and implementation of Plexis.
//
// This package is internal and should not be used directly. Import
// "github.com/plexis-cms/plexis" instead, which re-exports the public API.
//
// # Request lifecycle
//
// An inbound URI is resolved by the Router into a module, controller,
// action and parameter list. The global route table is consulted first,
// then the module-local config/routes.yaml, then convention:
//
//	blog/post/view/5  ->  module blog, controller Post, action View, params [5]
//
// The Dispatcher then looks up the controller in its registration table
// and invokes {verb}{Action} (for example postLogin), falling back to
// action{Action}. Missing modules, modules that are not installed,
// abstract controllers and private actions all surface as ErrNotFound.
//
// # Results
//
// Actions return a Result. A terminal Result ends the request: every
// caller up the chain must return it unchanged.
//
//	func(c *plexis.Context) (plexis.Result, error) {
//	    if res, err := c.RequireAuth(true); err != nil || res.Terminal {
//	        return res, err
//	    }
//	    return c.Write("hello"), nil
//	}
//
// # Nested requests
//
// Request.Child creates a request on the same Stack. Context.Forward and
// the error pages use nested requests; they run to completion before the
// parent continues.
package internal
