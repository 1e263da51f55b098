package http

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
)

// readChunkSize bounds how much of a declared body is allocated before the bytes arrive.
const readChunkSize = 32 * 1024

// LineReader buffers a byte stream and hands out CRLF/LF terminated lines and
// exact-length byte slices.
type LineReader struct {
	r           *bufio.Reader
	MaxLineSize int
}

func NewLineReader(r io.Reader) *LineReader {
	br, ok := r.(*bufio.Reader)
	if !ok {
		br = bufio.NewReaderSize(r, DefaultReadBufferSize)
	}

	return &LineReader{
		r:           br,
		MaxLineSize: DefaultMaxLineSize,
	}
}

// Reset discards buffered data and switches to reading from r.
func (lr *LineReader) Reset(r io.Reader) {
	lr.r.Reset(r)
}

// ReadLine returns the next line without its terminator. io.EOF is returned only
// when the stream ends before any byte of the line; a stream ending mid-line
// yields io.ErrUnexpectedEOF.
//
// similar to readLineSlice() in net/textproto/reader.go
func (lr *LineReader) ReadLine() (string, error) {
	var line []byte
	for {
		frag, err := lr.r.ReadSlice('\n')
		if lr.MaxLineSize > 0 && len(line)+len(frag) > lr.MaxLineSize {
			return "", ErrLineTooLong
		}
		line = append(line, frag...)

		if err == nil {
			break
		}
		if errors.Is(err, bufio.ErrBufferFull) {
			continue
		}
		if err == io.EOF && len(line) > 0 {
			return "", io.ErrUnexpectedEOF
		}
		return "", err
	}

	line = bytes.TrimSuffix(line[:len(line)-1], []byte{'\r'})
	return string(line), nil
}

// ReadExact returns exactly n bytes or an error wrapping io.ErrUnexpectedEOF when
// the stream closes first.
func (lr *LineReader) ReadExact(n int) ([]byte, error) {
	if n < 0 {
		return nil, fmt.Errorf("http: negative read length %d", n)
	}

	if n <= readChunkSize {
		buf := make([]byte, n)
		if _, err := io.ReadFull(lr.r, buf); err != nil {
			return nil, shortRead(err)
		}
		return buf, nil
	}

	var buf bytes.Buffer
	buf.Grow(readChunkSize)
	if _, err := io.CopyN(&buf, lr.r, int64(n)); err != nil {
		return nil, shortRead(err)
	}
	return buf.Bytes(), nil
}

func shortRead(err error) error {
	if err == io.EOF {
		err = io.ErrUnexpectedEOF
	}
	return err
}
