package http

import "errors"

const (
	DefaultReadBufferSize  = 4096 // 4kB
	DefaultWriteBufferSize = 4096 // 4kB
	DefaultMaxLineSize     = 64 * 1024
)

// Handler turns a parsed request into the response sent back on the same connection.
type Handler func(req *Request) *Response

var (
	ErrMalformedRequestLine = errors.New("http: malformed request line")
	ErrIncompleteHeaders    = errors.New("http: connection closed before end of headers")
	ErrTruncatedBody        = errors.New("http: body shorter than content-length")
	ErrLineTooLong          = errors.New("http: line too long")
	ErrServerClosed         = errors.New("http: server closed")
)

const (
	protocolHttp11 = "HTTP/1.1"

	headerConnection    = "Connection"
	headerContentLength = "Content-Length"
	headerContentType   = "Content-Type"
	headerAllow         = "Allow"

	connectionClose = "close"
	contentTypeText = "text/plain"
)
