package http

import (
	"bufio"
	"context"
	"errors"
	"io"
	"log/slog"
	"net"

	"github.com/dustin/go-humanize"
)

// conn is the state of one accepted connection. It is owned by a single goroutine.
type conn struct {
	server *Server
	rwc    net.Conn
	lr     *LineReader
	bw     *bufio.Writer
	logger *slog.Logger

	ctx    context.Context
	cancel context.CancelFunc

	served int
}

type connState func(*conn) connState

func awaitRequest(c *conn) connState {
	req, err := ReadRequest(c.lr)
	if err != nil {
		if err == io.EOF || errors.Is(err, net.ErrClosed) {
			c.logger.Debug("connection closed", "requests", c.served)
		} else {
			c.logger.Warn("malformed request", "error", err, "requests", c.served)
		}
		return closeConn
	}

	req = req.WithContext(c.ctx)
	res := c.server.handle(req)

	keepAlive := req.KeepAlive()
	if !keepAlive {
		res.SetHeader(headerConnection, connectionClose)
	}

	if _, err := res.WriteTo(c.bw); err != nil {
		c.logger.Warn("failed to write response", "error", err)
		return closeConn
	}
	if err := c.bw.Flush(); err != nil {
		c.logger.Warn("failed to write response", "error", err)
		return closeConn
	}
	c.served++

	c.logger.Debug("served request",
		"method", req.Method,
		"target", req.Target,
		"status", res.Status,
		"request_body", humanize.Bytes(uint64(len(req.Body))),
		"response_body", humanize.Bytes(uint64(len(res.Body))),
	)

	if !keepAlive {
		return closeConn
	}
	return awaitRequest
}

func closeConn(c *conn) connState {
	c.close()
	return nil
}

func (c *conn) close() {
	c.cancel()
	if err := c.rwc.Close(); err != nil && !errors.Is(err, net.ErrClosed) {
		c.logger.Debug("closing connection error", "error", err)
	}
}
