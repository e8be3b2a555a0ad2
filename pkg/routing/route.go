package routing

import (
	"slices"
	"strings"
)

// AjaxTarget overrides the controller and action of a route when the
// request was issued by XMLHttpRequest. Empty fields keep the route's values.
type AjaxTarget struct {
	Controller string `yaml:"controller,omitempty"`
	Action     string `yaml:"action,omitempty"`
}

// Target is the module/controller/action a route resolves to.
type Target struct {
	Ajax       *AjaxTarget `yaml:"ajax,omitempty"`
	Module     string      `yaml:"module,omitempty"`
	Controller string      `yaml:"controller,omitempty"`
	Action     string      `yaml:"action,omitempty"`
	Params     []string    `yaml:"params,omitempty"`
}

// Clone returns a deep copy of the target.
func (t Target) Clone() Target {
	c := t
	c.Params = slices.Clone(t.Params)
	if t.Ajax != nil {
		ajax := *t.Ajax
		c.Ajax = &ajax
	}
	return c
}

// Route binds a normalized pattern to a target.
type Route struct {
	Pattern string
	Target  Target

	segments []string
}

func newRoute(pattern string, target Target) Route {
	p := Normalize(pattern)
	return Route{
		Pattern:  p,
		Target:   target.Clone(),
		segments: Segments(p),
	}
}

// match reports whether the route accepts the given URI segments and
// returns the captured placeholder values in pattern order.
func (r Route) match(uri []string) ([]string, bool) {
	var captures []string

	for i, seg := range r.segments {
		if isVariadic(seg) {
			// A variadic capture anywhere but the tail is malformed.
			if i != len(r.segments)-1 || i > len(uri) {
				return nil, false
			}
			return append(captures, uri[i:]...), true
		}

		if i >= len(uri) {
			return nil, false
		}

		if isPlaceholder(seg) {
			captures = append(captures, uri[i])
			continue
		}

		if !strings.EqualFold(seg, uri[i]) {
			return nil, false
		}
	}

	if len(r.segments) != len(uri) {
		return nil, false
	}

	return captures, true
}

func isPlaceholder(seg string) bool {
	return len(seg) > 1 && seg[0] == ':'
}

func isVariadic(seg string) bool {
	return seg != "" && seg[0] == '*'
}

// Normalize lower-cases a URI, collapses repeated slashes and trims
// surrounding whitespace and slashes.
//
//	Normalize("//Blog///Post/") == "blog/post"
func Normalize(uri string) string {
	uri = strings.ToLower(strings.TrimSpace(uri))

	var b strings.Builder
	b.Grow(len(uri))

	prevSlash := false
	for _, r := range uri {
		if r == '/' {
			if prevSlash {
				continue
			}
			prevSlash = true
		} else {
			prevSlash = false
		}
		b.WriteRune(r)
	}

	return strings.Trim(b.String(), "/")
}

// Segments splits a normalized URI into its path segments.
// The empty URI has no segments.
func Segments(uri string) []string {
	if uri == "" {
		return nil
	}
	return strings.Split(uri, "/")
}
