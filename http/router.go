package http

import (
	"slices"
	"strings"
)

const (
	MethodGet  = "GET"
	MethodPost = "POST"
)

// Router dispatches on the first path segment.
type Router struct {
	Routes     []Route
	Middleware []Middleware
	NotFound   Handler
}

func NewRouter() *Router {
	return &Router{
		Routes:   make([]Route, 0),
		NotFound: NotFoundHandler,
	}
}

func (router *Router) GET(segment string, handler Handler, middleware ...Middleware) {
	router.Any([]string{MethodGet}, segment, handler, middleware...)
}

func (router *Router) POST(segment string, handler Handler, middleware ...Middleware) {
	router.Any([]string{MethodPost}, segment, handler, middleware...)
}

// Handle registers handler for every method.
func (router *Router) Handle(segment string, handler Handler, middleware ...Middleware) {
	router.Any(nil, segment, handler, middleware...)
}

// Any registers handler for methods on segment. "/echo" and "echo" name the same
// route; "/" and "" name the empty path.
func (router *Router) Any(methods []string, segment string, handler Handler, middleware ...Middleware) {
	for _, middleware := range middleware {
		handler = middleware(handler)
	}

	router.Routes = append(router.Routes, Route{
		Methods: methods,
		Segment: strings.Trim(segment, "/"),
		Handler: handler,
	})
}

// Use adds middleware wrapping every dispatch, including not-found and 405 answers.
func (router *Router) Use(middleware ...Middleware) {
	router.Middleware = append(router.Middleware, middleware...)
}

func (router *Router) Dispatch(req *Request) *Response {
	handler := router.match(req)
	for _, middleware := range router.Middleware {
		handler = middleware(handler)
	}

	res := handler(req)
	if res == nil {
		res = NewResponse(StatusInternalServerError, nil)
	}
	return res
}

func (router *Router) Handler() Handler {
	return router.Dispatch
}

func (router *Router) match(req *Request) Handler {
	segment, _ := req.Segment(0)

	var allowed []string
	found := false
	for _, route := range router.Routes {
		if route.Segment != segment {
			continue
		}
		found = true

		if route.allows(req.Method) {
			req.Pattern = "/" + route.Segment
			return route.Handler
		}
		for _, m := range route.Methods {
			if !slices.Contains(allowed, m) {
				allowed = append(allowed, m)
			}
		}
	}

	if found {
		req.Pattern = "/" + segment
		return MethodNotAllowedHandler(allowed)
	}

	req.Pattern = ""
	if router.NotFound != nil {
		return router.NotFound
	}
	return NotFoundHandler
}
