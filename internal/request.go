package internal

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"slices"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/plexis-cms/plexis/pkg/routing"
)

// Supported request methods.
var methods = []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete}

// IsSupportedMethod reports whether method is GET, POST, PUT or DELETE.
func IsSupportedMethod(method string) bool {
	return slices.Contains(methods, strings.ToUpper(method))
}

// Stack records every request created while serving one inbound request,
// in creation order. The first entry is the initial request.
type Stack struct {
	requests []*Request
	mu       sync.Mutex
}

func (s *Stack) push(r *Request) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.requests = append(s.requests, r)
	return len(s.requests) - 1
}

// Initial returns the request that started the stack.
func (s *Stack) Initial() *Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.requests) == 0 {
		return nil
	}
	return s.requests[0]
}

// Len returns the number of requests on the stack.
func (s *Stack) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.requests)
}

// RequestOption configures a Request.
type RequestOption func(*Request)

func WithPost(v url.Values) RequestOption {
	return func(r *Request) {
		r.post = v
	}
}

func WithQuery(v url.Values) RequestOption {
	return func(r *Request) {
		r.query = v
	}
}

func WithHeader(h http.Header) RequestOption {
	return func(r *Request) {
		r.header = h
	}
}

func WithCookies(c ...*http.Cookie) RequestOption {
	return func(r *Request) {
		r.cookies = c
	}
}

func WithAjax(ajax bool) RequestOption {
	return func(r *Request) {
		r.ajax = ajax
	}
}

// WithRemoteAddr sets the client address, host or host:port.
func WithRemoteAddr(addr string) RequestOption {
	return func(r *Request) {
		r.remoteAddr = addr
	}
}

// Request is one unit of work: a URI and method resolved and dispatched
// to a controller action. A Request created by Child shares the parent's
// Stack and runs to completion before the parent resumes.
type Request struct {
	app        *App
	stack      *Stack
	parent     *Request
	response   *Response
	post       url.Values
	query      url.Values
	header     http.Header
	id         string
	uri        string
	method     string
	remoteAddr string
	module     string
	controller string
	action     string
	cookies    []*http.Cookie
	params     []string
	children   []*Request
	position   int
	ajax       bool
	mu         sync.Mutex
}

// NewRequest creates a request on a fresh stack. The method must be GET,
// POST, PUT or DELETE; anything else fails with ErrInvalidMethod.
func NewRequest(uri, method string, opts ...RequestOption) (*Request, error) {
	return newRequest(nil, &Stack{}, nil, uri, method, opts...)
}

func newRequest(app *App, stack *Stack, parent *Request, uri, method string, opts ...RequestOption) (*Request, error) {
	method = strings.ToUpper(strings.TrimSpace(method))
	if !IsSupportedMethod(method) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidMethod, method)
	}

	r := &Request{
		app:      app,
		stack:    stack,
		parent:   parent,
		id:       uuid.NewString(),
		uri:      routing.Normalize(uri),
		method:   method,
		response: NewResponse(),
		post:     url.Values{},
		query:    url.Values{},
		header:   http.Header{},
	}
	for _, opt := range opts {
		opt(r)
	}
	r.position = stack.push(r)
	return r, nil
}

// FromHTTP builds the initial request for an inbound HTTP request. The
// ?uri= query parameter takes precedence over the URL path.
func FromHTTP(r *http.Request) (*Request, error) {
	return fromHTTP(nil, r)
}

func fromHTTP(app *App, r *http.Request) (*Request, error) {
	query := r.URL.Query()
	uri := query.Get("uri")
	if uri == "" {
		uri = r.URL.Path
	}

	var post url.Values
	if r.Method == http.MethodPost || r.Method == http.MethodPut {
		if err := r.ParseForm(); err == nil {
			post = r.PostForm
		}
	}

	opts := []RequestOption{
		WithQuery(query),
		WithHeader(r.Header.Clone()),
		WithCookies(r.Cookies()...),
		WithAjax(isAjax(r)),
		WithRemoteAddr(r.RemoteAddr),
	}
	if post != nil {
		opts = append(opts, WithPost(post))
	}
	return newRequest(app, &Stack{}, nil, uri, r.Method, opts...)
}

// isAjax reports whether r was sent by a script, either through
// XMLHttpRequest or by htmx.
func isAjax(r *http.Request) bool {
	return strings.EqualFold(r.Header.Get("X-Requested-With"), "XMLHttpRequest") ||
		r.Header.Get("HX-Request") == "true"
}

// Child creates a nested request on the same stack. It inherits the
// header, cookies, client address and ajax flag of r.
func (r *Request) Child(uri, method string, opts ...RequestOption) (*Request, error) {
	base := []RequestOption{
		WithHeader(r.header.Clone()),
		WithCookies(r.cookies...),
		WithRemoteAddr(r.remoteAddr),
		WithAjax(r.ajax),
	}
	child, err := newRequest(r.app, r.stack, r, uri, method, append(base, opts...)...)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	r.children = append(r.children, child)
	r.mu.Unlock()
	return child, nil
}

// Execute resolves and dispatches the request through the App it belongs to.
func (r *Request) Execute(ctx context.Context) (Result, error) {
	if r.app == nil {
		return Result{}, ErrDetachedRequest
	}
	return r.app.Execute(ctx, r)
}

func (r *Request) ID() string             { return r.id }
func (r *Request) URI() string            { return r.uri }
func (r *Request) Method() string         { return r.method }
func (r *Request) IsAjax() bool           { return r.ajax }
func (r *Request) SetAjax(ajax bool)      { r.ajax = ajax }
func (r *Request) Response() *Response    { return r.response }
func (r *Request) Stack() *Stack          { return r.stack }
func (r *Request) Position() int          { return r.position }
func (r *Request) IsNested() bool         { return r.position > 0 }
func (r *Request) Parent() *Request       { return r.parent }
func (r *Request) Header(k string) string { return r.header.Get(k) }
func (r *Request) Post(k string) string   { return r.post.Get(k) }
func (r *Request) Query(k string) string  { return r.query.Get(k) }
func (r *Request) Referer() string        { return r.header.Get("Referer") }

// Children returns the nested requests created from r.
func (r *Request) Children() []*Request {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.children)
}

// Cookie returns the value of the named request cookie.
func (r *Request) Cookie(name string) (string, bool) {
	for _, c := range r.cookies {
		if c.Name == name {
			return c.Value, true
		}
	}
	return "", false
}

// ClientIP returns the client address without port.
func (r *Request) ClientIP() string {
	if host, _, err := net.SplitHostPort(r.remoteAddr); err == nil {
		return host
	}
	return r.remoteAddr
}

// Module, Controller and Action return the resolved target; they are empty
// until the request has been routed.
func (r *Request) Module() string     { return r.module }
func (r *Request) Controller() string { return r.controller }
func (r *Request) Action() string     { return r.action }

// Params returns the resolved parameters.
func (r *Request) Params() []string {
	return slices.Clone(r.params)
}

func (r *Request) resolve(res *Resolved) {
	r.module = res.Module.Name()
	r.controller = res.Controller
	r.action = res.Action
	r.params = slices.Clone(res.Params)
}
