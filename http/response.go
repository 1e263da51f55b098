package http

import (
	"bufio"
	"bytes"
	"io"
	"strconv"
)

type Response struct {
	Status  uint16
	Headers Headers
	Body    []byte
}

// NewResponse seeds Content-Type: text/plain and a Content-Length matching body.
func NewResponse(status uint16, body []byte) *Response {
	res := &Response{
		Status:  status,
		Headers: Headers{},
		Body:    body,
	}
	res.Headers.Set(headerContentType, contentTypeText)
	res.Headers.Set(headerContentLength, strconv.Itoa(len(body)))
	return res
}

func (res *Response) SetHeader(name, value string) *Response {
	res.Headers.Set(name, value)
	return res
}

// SetBody replaces the body and refreshes Content-Length.
func (res *Response) SetBody(body []byte) *Response {
	res.Body = body
	res.Headers.Set(headerContentLength, strconv.Itoa(len(body)))
	return res
}

// StatusLine returns the code and reason phrase, e.g. "200 OK".
func (res *Response) StatusLine() string {
	return strconv.Itoa(int(res.Status)) + " " + StatusText(res.Status)
}

// WriteTo serializes the response. Headers are written in sorted order and
// Content-Length always equals len(Body).
func (res *Response) WriteTo(w io.Writer) (int64, error) {
	if res.Headers == nil {
		res.Headers = Headers{}
	}
	res.Headers.Set(headerContentLength, strconv.Itoa(len(res.Body)))

	bw, ok := w.(*bufio.Writer)
	if !ok {
		bw = bufio.NewWriterSize(w, DefaultWriteBufferSize)
	}
	cw := &countingWriter{w: bw}

	cw.WriteString(protocolHttp11)
	cw.WriteString(" ")
	cw.WriteString(res.StatusLine())
	cw.WriteString("\r\n")
	for _, name := range res.Headers.Keys() {
		cw.WriteString(name)
		cw.WriteString(": ")
		cw.WriteString(res.Headers[name])
		cw.WriteString("\r\n")
	}
	cw.WriteString("\r\n")
	cw.Write(res.Body)

	if cw.err != nil {
		return cw.n, cw.err
	}
	if !ok {
		// Only flush writers owned here; the caller flushes its own.
		return cw.n, bw.Flush()
	}
	return cw.n, nil
}

// Bytes returns the exact wire form of the response.
func (res *Response) Bytes() []byte {
	var buf bytes.Buffer
	res.WriteTo(&buf)
	return buf.Bytes()
}

type countingWriter struct {
	w   *bufio.Writer
	n   int64
	err error
}

func (cw *countingWriter) WriteString(s string) {
	if cw.err != nil {
		return
	}
	n, err := cw.w.WriteString(s)
	cw.n += int64(n)
	cw.err = err
}

func (cw *countingWriter) Write(p []byte) {
	if cw.err != nil {
		return
	}
	n, err := cw.w.Write(p)
	cw.n += int64(n)
	cw.err = err
}
