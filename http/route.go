package http

import "strings"

type Route struct {
	// Methods is nil when the route accepts any method.
	Methods []string
	Segment string
	Handler Handler
}

func (route Route) allows(method string) bool {
	if route.Methods == nil {
		return true
	}
	for _, m := range route.Methods {
		if m == method {
			return true
		}
	}
	return false
}

var NotFoundHandler Handler = func(req *Request) *Response {
	return NewResponse(StatusNotFound, nil)
}

// MethodNotAllowedHandler answers 405 and lists the methods the segment does accept.
func MethodNotAllowedHandler(allowed []string) Handler {
	allow := strings.Join(allowed, ", ")
	return func(req *Request) *Response {
		res := NewResponse(StatusMethodNotAllowed, nil)
		if allow != "" {
			res.SetHeader(headerAllow, allow)
		}
		return res
	}
}
