package http

import (
	"bufio"
	"context"
	"errors"
	"log/slog"
	"net"
	"sync"
	"time"

	"github.com/google/uuid"
)

type Server struct {
	Handler Handler
	Logger  *slog.Logger

	ReadBufferSize  int
	WriteBufferSize int
	MaxLineSize     int

	mu         sync.Mutex
	listeners  map[net.Listener]struct{}
	conns      map[net.Conn]struct{}
	connWG     sync.WaitGroup
	inShutdown bool
}

func NewServer(handler Handler, logger *slog.Logger) *Server {
	return &Server{
		Handler:         handler,
		Logger:          logger,
		ReadBufferSize:  DefaultReadBufferSize,
		WriteBufferSize: DefaultWriteBufferSize,
		MaxLineSize:     DefaultMaxLineSize,
	}
}

func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	lc := net.ListenConfig{Control: controlReuseAddr}
	listener, err := lc.Listen(ctx, "tcp", addr)
	if err != nil {
		return err
	}

	return s.Serve(listener)
}

// Serve accepts connections on listener and serves each on its own goroutine.
// It returns ErrServerClosed after Shutdown.
func (s *Server) Serve(listener net.Listener) error {
	if !s.trackListener(listener, true) {
		listener.Close()
		return ErrServerClosed
	}
	defer s.trackListener(listener, false)

	s.logger().Info("listening", "addr", listener.Addr().String())

	var delay time.Duration
	for {
		conn, err := listener.Accept()
		if err != nil {
			if s.shuttingDown() {
				return ErrServerClosed
			}
			if errors.Is(err, net.ErrClosed) {
				return err
			}

			if delay == 0 {
				delay = 5 * time.Millisecond
			} else {
				delay *= 2
			}
			if delay > time.Second {
				delay = time.Second
			}
			s.logger().Warn("failed to accept connection", "error", err, "retry_in", delay)
			time.Sleep(delay)
			continue
		}
		delay = 0

		go s.ServeConn(conn)
	}
}

// ServeConn runs the request loop on conn until the peer asks to close, sends a
// malformed request or goes away. conn is closed on return.
func (s *Server) ServeConn(conn net.Conn) {
	if !s.trackConn(conn, true) {
		conn.Close()
		return
	}
	defer s.trackConn(conn, false)

	c := s.newConn(conn)
	defer func() {
		if recovered := recover(); recovered != nil {
			c.logger.Error("panic serving connection", "panic", recovered)
			c.close()
		}
	}()

	c.logger.Debug("accepted connection")
	for state := awaitRequest; state != nil; {
		state = state(c)
	}
}

// Shutdown stops every listener, closes open connections and waits for their
// goroutines to finish or ctx to end.
func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	s.inShutdown = true
	var err error
	for listener := range s.listeners {
		if cerr := listener.Close(); cerr != nil && !errors.Is(cerr, net.ErrClosed) && err == nil {
			err = cerr
		}
	}
	for conn := range s.conns {
		conn.Close()
	}
	s.mu.Unlock()

	done := make(chan struct{})
	go func() {
		s.connWG.Wait()
		close(done)
	}()

	select {
	case <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Server) handle(req *Request) *Response {
	handler := s.Handler
	if handler == nil {
		handler = NotFoundHandler
	}

	res := handler(req)
	if res == nil {
		res = NewResponse(StatusInternalServerError, nil)
	}
	return res
}

func (s *Server) newConn(rwc net.Conn) *conn {
	readSize, writeSize := s.ReadBufferSize, s.WriteBufferSize
	if readSize <= 0 {
		readSize = DefaultReadBufferSize
	}
	if writeSize <= 0 {
		writeSize = DefaultWriteBufferSize
	}

	lr := NewLineReader(bufio.NewReaderSize(rwc, readSize))
	lr.MaxLineSize = s.MaxLineSize

	ctx, cancel := context.WithCancel(context.Background())
	return &conn{
		server: s,
		rwc:    rwc,
		lr:     lr,
		bw:     bufio.NewWriterSize(rwc, writeSize),
		logger: s.logger().With(
			"conn", uuid.NewString(),
			"remote", rwc.RemoteAddr().String(),
		),
		ctx:    ctx,
		cancel: cancel,
	}
}

func (s *Server) logger() *slog.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return slog.Default()
}

func (s *Server) shuttingDown() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.inShutdown
}

func (s *Server) trackListener(listener net.Listener, add bool) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.listeners == nil {
		s.listeners = make(map[net.Listener]struct{})
	}
	if add {
		if s.inShutdown {
			return false
		}
		s.listeners[listener] = struct{}{}
	} else {
		delete(s.listeners, listener)
	}
	return true
}

func (s *Server) trackConn(conn net.Conn, add bool) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.conns == nil {
		s.conns = make(map[net.Conn]struct{})
	}
	if add {
		if s.inShutdown {
			return false
		}
		s.conns[conn] = struct{}{}
		s.connWG.Add(1)
	} else {
		delete(s.conns, conn)
		s.connWG.Done()
	}
	return true
}
