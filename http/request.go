package http

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

type Request struct {
	Method  string
	Target  string
	Path    []string
	Version string
	Headers Headers
	Body    []byte

	// Pattern is the route that matched the request, set by the Router.
	Pattern string

	ctx context.Context
}

func (req *Request) Context() context.Context {
	if req.ctx != nil {
		return req.ctx
	}
	return context.Background()
}

// WithContext returns a shallow copy of req carrying ctx.
func (req *Request) WithContext(ctx context.Context) *Request {
	if ctx == nil {
		panic("nil context")
	}
	r := *req
	r.ctx = ctx
	return &r
}

// Segment returns the i-th path segment and whether it exists.
func (req *Request) Segment(i int) (string, bool) {
	if i < 0 || i >= len(req.Path) {
		return "", false
	}
	return req.Path[i], true
}

// KeepAlive reports whether the connection stays open after this request.
// Only the exact value "close" ends it.
func (req *Request) KeepAlive() bool {
	return req.Headers.Get(headerConnection) != connectionClose
}

// ReadRequest reads one request from lr. It returns io.EOF unwrapped when the
// peer closed the stream cleanly before sending anything.
func ReadRequest(lr *LineReader) (*Request, error) {
	requestLine, err := lr.ReadLine()
	if err != nil {
		if err == io.EOF {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %w", ErrMalformedRequestLine, err)
	}

	// Tokens after the version are ignored.
	fields := strings.Fields(requestLine)
	if len(fields) < 3 {
		return nil, fmt.Errorf("%w: %q", ErrMalformedRequestLine, requestLine)
	}

	req := &Request{
		Method:  fields[0],
		Target:  fields[1],
		Path:    SplitPath(fields[1]),
		Version: fields[2],
		Headers: Headers{},
	}

	// Read headers
	for {
		line, err := lr.ReadLine()
		if err != nil {
			if errors.Is(err, ErrLineTooLong) {
				return nil, err
			}
			return nil, fmt.Errorf("%w: %w", ErrIncompleteHeaders, err)
		}
		line = strings.TrimRight(line, " \t")
		if line == "" {
			break // end of headers
		}
		// Lines without the separator are dropped.
		if name, value, found := strings.Cut(line, ": "); found {
			req.Headers.Set(name, value)
		}
	}

	contentLength, err := atoi(req.Headers.Get(headerContentLength))
	if err != nil {
		contentLength = 0
	}

	body, err := lr.ReadExact(contentLength)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrTruncatedBody, err)
	}
	req.Body = body

	return req, nil
}

// SplitPath splits a request-target on '/' and drops empty segments.
func SplitPath(target string) []string {
	segments := make([]string, 0, 4)
	for _, s := range strings.Split(target, "/") {
		if s != "" {
			segments = append(segments, s)
		}
	}
	return segments
}
