// Package server implements the TCP accept loop and per-connection
// pipeline (ConnectionPipeline, spec §4.8) that ties together framing,
// auto-detection, the JSON envelope codec, and request routing.
// Grounded on the accept-loop/waitgroup/stop-channel shape used for
// modbus TCP servers in the example pack (simulator.TCPServer) and the
// per-connection goroutine model the teacher uses for its
// readPump/writePump and receive-loop transports (pkg/api/ws/server.go,
// pkg/core/gateway.go).
package server

import (
	"errors"
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/commatea/protoframe/pkg/config"
	"github.com/commatea/protoframe/pkg/logger"
	"github.com/commatea/protoframe/pkg/router"
)

// shutdownGrace is how long Shutdown waits for in-flight connections to
// finish. Shutdown does not close connections that are still open when
// it elapses; it returns and leaves them running.
const shutdownGrace = 5 * time.Second

// Server accepts TCP connections and runs one Connection per accepted
// socket. The listener is shared read-only by the accept loop;
// configuration is immutable after New, per §5's shared-resource
// policy.
type Server struct {
	cfg    config.TCPConfig
	router *router.Router
	log    *logger.Logger

	listener net.Listener
	stopCh   chan struct{}
	wg       sync.WaitGroup
}

// New creates a Server bound to cfg's framing and limits. It does not
// listen until Serve is called.
func New(cfg config.TCPConfig, log *logger.Logger) *Server {
	return &Server{
		cfg:    cfg,
		router: router.New(cfg.RespondEnabled),
		log:    log,
		stopCh: make(chan struct{}),
	}
}

// Serve listens on cfg.Port and accepts connections until Shutdown is
// called or an unrecoverable listener error occurs.
func (s *Server) Serve() error {
	listener, err := net.Listen("tcp", fmt.Sprintf(":%d", s.cfg.Port))
	if err != nil {
		return fmt.Errorf("server: listen: %w", err)
	}
	s.listener = listener
	s.log.Info("listening", "addr", listener.Addr().String(), "framing", s.cfg.Framing)

	for {
		conn, err := listener.Accept()
		if err != nil {
			select {
			case <-s.stopCh:
				return nil
			default:
			}
			var ne net.Error
			if errors.As(err, &ne) && ne.Timeout() {
				continue
			}
			return fmt.Errorf("server: accept: %w", err)
		}

		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			conn := NewConnection(conn, s.cfg, s.router, s.log)
			if err := conn.Serve(); err != nil && !errors.Is(err, ErrIdleTimeout) {
				s.log.Warn("connection closed with error", "error", err)
			}
		}()
	}
}

// Shutdown stops accepting new connections and waits up to
// shutdownGrace for in-flight connections to finish before returning.
// Connections still open after shutdownGrace are not closed here.
func (s *Server) Shutdown() {
	close(s.stopCh)
	if s.listener != nil {
		s.listener.Close()
	}

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(shutdownGrace):
		s.log.Warn("shutdown grace period elapsed, returning with connections still open")
	}
}
