package internal

import (
	"fmt"
	"io"
	"net/http"
	"slices"
	"strings"
)

const (
	defaultContentType = "text/html"
	defaultCharset     = "UTF-8"
)

// Response is the buffered output of a request. Nothing reaches the client
// until Send is called.
type Response struct {
	header      http.Header
	cookies     []*http.Cookie
	contentType string
	charset     string
	body        strings.Builder
	status      int
}

// NewResponse creates an empty 200 text/html response.
func NewResponse() *Response {
	return &Response{
		header:      make(http.Header),
		contentType: defaultContentType,
		charset:     defaultCharset,
		status:      http.StatusOK,
	}
}

// Status returns the status code.
func (r *Response) Status() int {
	return r.status
}

// SetStatus sets the status code. Codes outside 100-599 are rejected.
func (r *Response) SetStatus(code int) error {
	if code < 100 || code > 599 {
		return fmt.Errorf("%w: status code %d", ErrInvalidArgument, code)
	}
	r.status = code
	return nil
}

// Body returns the buffered body.
func (r *Response) Body() string {
	return r.body.String()
}

// SetBody replaces the body.
func (r *Response) SetBody(s string) {
	r.body.Reset()
	r.body.WriteString(s)
}

// AppendBody adds s after the current body.
func (r *Response) AppendBody(s string) {
	r.body.WriteString(s)
}

// PrependBody adds s before the current body.
func (r *Response) PrependBody(s string) {
	cur := r.body.String()
	r.body.Reset()
	r.body.WriteString(s)
	r.body.WriteString(cur)
}

// Write appends p to the body, so a Response can be rendered into.
func (r *Response) Write(p []byte) (int, error) {
	return r.body.Write(p)
}

// SetHeader sets a header. Underscores in name become dashes. A
// Content-Type value is split into media type and charset.
func (r *Response) SetHeader(name, value string) {
	name = http.CanonicalHeaderKey(strings.ReplaceAll(name, "_", "-"))
	if name != "Content-Type" {
		r.header.Set(name, value)
		return
	}

	mediaType, params, found := strings.Cut(value, ";")
	r.contentType = strings.TrimSpace(mediaType)
	if !found {
		return
	}
	for _, p := range strings.Split(params, ";") {
		k, v, ok := strings.Cut(strings.TrimSpace(p), "=")
		if ok && strings.EqualFold(strings.TrimSpace(k), "charset") {
			r.charset = strings.Trim(strings.TrimSpace(v), `"`)
		}
	}
}

// Header returns the value of a header set with SetHeader.
func (r *Response) Header(name string) string {
	if http.CanonicalHeaderKey(name) == "Content-Type" {
		return r.contentTypeHeader()
	}
	return r.header.Get(name)
}

// ContentType returns the media type without parameters.
func (r *Response) ContentType() string {
	return r.contentType
}

// Charset returns the charset sent with text/* content.
func (r *Response) Charset() string {
	return r.charset
}

// SetCookie adds c, replacing an earlier cookie with the same name.
func (r *Response) SetCookie(c *http.Cookie) {
	if i := slices.IndexFunc(r.cookies, func(x *http.Cookie) bool { return x.Name == c.Name }); i >= 0 {
		r.cookies[i] = c
		return
	}
	r.cookies = append(r.cookies, c)
}

// Cookies returns the cookies that Send will set.
func (r *Response) Cookies() []*http.Cookie {
	return slices.Clone(r.cookies)
}

// Redirect points the client at location with code, 302 when code is zero.
func (r *Response) Redirect(location string, code int) *Response {
	if code == 0 {
		code = http.StatusFound
	}
	r.status = code
	r.header.Set("Location", location)
	return r
}

// Send writes status, headers, cookies and body to w.
func (r *Response) Send(w http.ResponseWriter) error {
	h := w.Header()
	for k, vv := range r.header {
		h[k] = slices.Clone(vv)
	}
	h.Set("Content-Type", r.contentTypeHeader())
	for _, c := range r.cookies {
		http.SetCookie(w, c)
	}

	w.WriteHeader(r.status)
	_, err := io.WriteString(w, r.body.String())
	return err
}

func (r *Response) contentTypeHeader() string {
	switch {
	case strings.HasPrefix(r.contentType, "text/"):
		return r.contentType + "; charset=" + r.charset
	case r.contentType == "application/json":
		return r.contentType + "; charset=UTF-8"
	default:
		return r.contentType
	}
}
