/*
file: rudis/internal/server/server.go
*/

// Package server runs the TCP (optionally TLS) accept loop and the
// per-connection read-parse-execute-write cycle: one goroutine per
// connection, tracked so a shutdown signal can close every live connection
// and wait for its goroutine to return.
package server

import (
	"bufio"
	"context"
	"crypto/tls"
	"errors"
	"io"
	"net"
	"sync"
	"sync/atomic"

	"github.com/akashmaji946/rudis/internal/command"
	"github.com/akashmaji946/rudis/internal/executor"
	"github.com/akashmaji946/rudis/internal/resp"
	"github.com/akashmaji946/rudis/internal/rlog"
	"github.com/akashmaji946/rudis/internal/store"
)

// Server accepts TCP connections and serves RESP commands against a Store.
type Server struct {
	addr string
	tls  *tls.Config

	store *store.Store
	log   *rlog.Logger

	mu       sync.Mutex
	listener net.Listener

	activeConns   map[net.Conn]struct{}
	activeConnsMu sync.Mutex

	connCount int32
	wg        sync.WaitGroup
}

// New builds a Server bound to st, logging through log. If tlsConfig is
// non-nil, the listener speaks TLS.
func New(addr string, st *store.Store, log *rlog.Logger, tlsConfig *tls.Config) *Server {
	return &Server{
		addr:        addr,
		tls:         tlsConfig,
		store:       st,
		log:         log,
		activeConns: make(map[net.Conn]struct{}),
	}
}

// ListenAndServe opens the listener and runs the accept loop until ctx is
// cancelled, at which point it stops accepting, closes every live
// connection, waits for their goroutines to return, and returns nil. If
// Accept fails for any other reason, it closes the listener and every live
// connection the same way and returns that error.
func (s *Server) ListenAndServe(ctx context.Context) error {
	var l net.Listener
	var err error
	if s.tls != nil {
		l, err = tls.Listen("tcp", s.addr, s.tls)
	} else {
		l, err = net.Listen("tcp", s.addr)
	}
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.listener = l
	s.mu.Unlock()

	s.log.Info("listening on %s", s.addr)

	go func() {
		<-ctx.Done()
		s.log.Info("shutdown signal received, closing listener")
		l.Close()
		s.closeAllConnections()
	}()

	var acceptErr error
	for {
		conn, err := l.Accept()
		if err != nil {
			if errors.Is(err, net.ErrClosed) {
				break
			}
			s.log.Warn("accept error: %v", err)
			acceptErr = err
			l.Close()
			s.closeAllConnections()
			break
		}

		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			s.handleConnection(conn)
		}()
	}

	s.wg.Wait()
	s.log.Info("all connections closed, shutdown complete")
	return acceptErr
}

func (s *Server) handleConnection(conn net.Conn) {
	n := atomic.AddInt32(&s.connCount, 1)
	s.log.Info("[%d] accepted connection from %s", n, conn.RemoteAddr())

	s.addConn(conn)
	defer func() {
		s.removeConn(conn)
		conn.Close()
		n := atomic.AddInt32(&s.connCount, -1)
		s.log.Info("[%d] closed connection from %s", n, conn.RemoteAddr())
	}()

	reader := bufio.NewReader(conn)
	writer := resp.NewWriter(conn)

	for {
		v, err := resp.ReadValue(reader)
		if err != nil {
			if !errors.Is(err, io.EOF) {
				s.log.Warn("closing connection due to protocol error: %v", err)
			}
			return
		}

		cmd, perr := command.Parse(v)
		var reply resp.Value
		if perr != nil {
			reply = resp.Error(perr.Error())
		} else {
			reply = executor.Execute(cmd, s.store)
		}

		if err := writer.WriteValue(reply); err != nil {
			s.log.Warn("write error: %v", err)
			return
		}
		if err := writer.Flush(); err != nil {
			s.log.Warn("flush error: %v", err)
			return
		}
	}
}

func (s *Server) addConn(conn net.Conn) {
	s.activeConnsMu.Lock()
	defer s.activeConnsMu.Unlock()
	s.activeConns[conn] = struct{}{}
}

func (s *Server) removeConn(conn net.Conn) {
	s.activeConnsMu.Lock()
	defer s.activeConnsMu.Unlock()
	delete(s.activeConns, conn)
}

func (s *Server) closeAllConnections() {
	s.activeConnsMu.Lock()
	defer s.activeConnsMu.Unlock()
	for conn := range s.activeConns {
		conn.Close()
	}
}
