package http

import (
	"testing"

	"github.com/freekieb7/pebble/test"
)

func newTestRequest(method, target string) *Request {
	return &Request{
		Method:  method,
		Target:  target,
		Path:    SplitPath(target),
		Version: protocolHttp11,
		Headers: Headers{},
	}
}

func text(body string) Handler {
	return func(req *Request) *Response {
		return NewResponse(StatusOK, []byte(body))
	}
}

func TestRouterDispatch(t *testing.T) {
	router := NewRouter()
	router.Handle("/", text("root"))
	router.Handle("/echo", text("echo"))
	router.GET("files", text("get"))
	router.POST("/files/", text("post"))

	testCases := []struct {
		method  string
		target  string
		status  uint16
		body    string
		pattern string
	}{
		{"GET", "/", StatusOK, "root", "/"},
		{"DELETE", "//", StatusOK, "root", "/"},
		{"GET", "/echo/x", StatusOK, "echo", "/echo"},
		{"BREW", "/echo", StatusOK, "echo", "/echo"},
		{"GET", "/files/a", StatusOK, "get", "/files"},
		{"POST", "/files/a", StatusOK, "post", "/files"},
		{"PUT", "/files/a", StatusMethodNotAllowed, "", "/files"},
		{"GET", "/nope", StatusNotFound, "", ""},
		{"GET", "/Echo/x", StatusNotFound, "", ""},
	}

	for _, tc := range testCases {
		req := newTestRequest(tc.method, tc.target)
		res := router.Dispatch(req)

		if res.Status != tc.status {
			t.Errorf("%s %s: status %d, want %d", tc.method, tc.target, res.Status, tc.status)
		}
		test.AssertEqual(t, tc.body, string(res.Body))
		test.AssertEqual(t, tc.pattern, req.Pattern)
	}
}

func TestRouterMethodNotAllowedListsMethods(t *testing.T) {
	router := NewRouter()
	router.GET("/files", text("get"))
	router.POST("/files", text("post"))

	res := router.Dispatch(newTestRequest("PATCH", "/files/x"))
	test.AssertEqual(t, StatusMethodNotAllowed, res.Status)
	test.AssertEqual(t, "GET, POST", res.Headers.Get("Allow"))
	test.AssertEqual(t, 0, len(res.Body))
}

func TestRouterCustomNotFound(t *testing.T) {
	router := NewRouter()
	router.NotFound = func(req *Request) *Response {
		return NewResponse(StatusNotFound, []byte("nothing at "+req.Target))
	}

	res := router.Dispatch(newTestRequest("GET", "/gone"))
	test.AssertEqual(t, "nothing at /gone", string(res.Body))
}

func TestRouterMiddlewareOrder(t *testing.T) {
	var calls []string
	trace := func(name string) Middleware {
		return func(next Handler) Handler {
			return func(req *Request) *Response {
				calls = append(calls, name)
				return next(req)
			}
		}
	}

	router := NewRouter()
	router.Use(trace("global"))
	router.Handle("/echo", text("echo"), trace("inner"), trace("outer"))

	router.Dispatch(newTestRequest("GET", "/echo"))

	expected := []string{"global", "outer", "inner"}
	if len(calls) != len(expected) {
		t.Fatalf("calls = %v, want %v", calls, expected)
	}
	for i := range expected {
		test.AssertEqual(t, expected[i], calls[i])
	}

	calls = nil
	router.Dispatch(newTestRequest("GET", "/missing"))
	if len(calls) != 1 || calls[0] != "global" {
		t.Errorf("global middleware must wrap not-found answers, calls = %v", calls)
	}
}

func TestRouterNilResponse(t *testing.T) {
	router := NewRouter()
	router.Handle("/", func(req *Request) *Response { return nil })

	res := router.Dispatch(newTestRequest("GET", "/"))
	test.AssertEqual(t, StatusInternalServerError, res.Status)
}
