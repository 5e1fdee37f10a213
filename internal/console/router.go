package console

import (
	"context"
	"net/url"
	"strings"

	"numis/console/internal/policy/engine"
)

// Request is one resolved navigation.
type Request struct {
	// Path is the cleaned path without the query.
	Path   string
	Params map[string]string
	Query  url.Values
}

// Target returns path plus query.
func (r *Request) Target() string {
	if len(r.Query) == 0 {
		return r.Path
	}
	return r.Path + "?" + r.Query.Encode()
}

// Handler renders one route onto the screen.
type Handler interface {
	Serve(ctx context.Context, req *Request, scr *Screen) error
}

// HandlerFunc adapts a function to Handler.
type HandlerFunc func(ctx context.Context, req *Request, scr *Screen) error

func (f HandlerFunc) Serve(ctx context.Context, req *Request, scr *Screen) error { return f(ctx, req, scr) }

// Route binds a pattern such as /coins/:id to a handler.
type Route struct {
	Pattern string
	Title   string
	Handler Handler
	// OnLeave runs when the navigator moves away from this route.
	OnLeave func()

	segments []string
}

// Router matches paths against routes in registration order.
type Router struct {
	routes []*Route
}

// NewRouter returns an empty Router.
func NewRouter() *Router { return &Router{} }

// Handle registers a route and returns it for further setup.
func (r *Router) Handle(pattern, title string, h Handler) *Route {
	rt := &Route{Pattern: pattern, Title: title, Handler: h, segments: split(pattern)}
	r.routes = append(r.routes, rt)
	return rt
}

// Routes returns the registered routes.
func (r *Router) Routes() []*Route { return r.routes }

// Match resolves target (path with optional query) to a route. The second return is false when no
// route matches.
func (r *Router) Match(target string) (*Route, *Request, bool) {
	req := parseTarget(target)
	segs := split(req.Path)
	for _, rt := range r.routes {
		if params, ok := match(rt.segments, segs); ok {
			req.Params = params
			return rt, req, true
		}
	}
	return nil, req, false
}

func parseTarget(target string) *Request {
	raw := strings.TrimSpace(target)
	if i := strings.IndexByte(raw, '#'); i >= 0 {
		raw = raw[:i]
	}
	var query url.Values
	if i := strings.IndexByte(raw, '?'); i >= 0 {
		query, _ = url.ParseQuery(raw[i+1:])
		raw = raw[:i]
	}
	if query == nil {
		query = url.Values{}
	}
	return &Request{Path: engine.CleanPath(raw), Query: query, Params: map[string]string{}}
}

func split(p string) []string {
	p = strings.Trim(p, "/")
	if p == "" {
		return nil
	}
	return strings.Split(p, "/")
}

func match(pattern, segs []string) (map[string]string, bool) {
	if len(pattern) != len(segs) {
		return nil, false
	}
	params := map[string]string{}
	for i, p := range pattern {
		if strings.HasPrefix(p, ":") {
			v, err := url.PathUnescape(segs[i])
			if err != nil || v == "" {
				return nil, false
			}
			params[p[1:]] = v
			continue
		}
		if p != segs[i] {
			return nil, false
		}
	}
	return params, true
}
