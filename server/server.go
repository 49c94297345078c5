// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package server implements the remote side of the file-operation RPC: a
// listener that accepts client connections and services each one on its
// own goroutine, decoding framed requests, executing the primitives
// against the local file system, and streaming responses back.
//
// Requests on one connection are serviced strictly in order; there is one
// in-flight request at a time per client. Connections are independent:
// each tracks the descriptors it opened and releases them on teardown, so
// one client's mistakes never leak descriptors into another's session.
package server

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/xid"
	"github.com/sirupsen/logrus"

	"code.hybscloud.com/remotefs/transport"
)

// Options configures a Server.
type Options struct {
	// Logger receives connection lifecycle and dispatch diagnostics.
	// Defaults to the logrus standard logger.
	Logger logrus.FieldLogger

	// Registry, when set, receives the server's Prometheus collectors.
	Registry prometheus.Registerer

	// Port is the TCP port for ListenAndServe. Defaults to
	// transport.DefaultPort.
	Port int
}

type Option func(*Options)

// WithLogger directs diagnostics to log.
func WithLogger(log logrus.FieldLogger) Option {
	return func(o *Options) { o.Logger = log }
}

// WithRegistry registers the server's metrics with reg.
func WithRegistry(reg prometheus.Registerer) Option {
	return func(o *Options) { o.Registry = reg }
}

// WithPort sets the listening port for ListenAndServe.
func WithPort(port int) Option {
	return func(o *Options) { o.Port = port }
}

// Server accepts connections and dispatches file-operation requests.
type Server struct {
	log     logrus.FieldLogger
	port    int
	metrics *metrics

	mu     sync.Mutex
	ln     *transport.Listener
	closed bool

	wg sync.WaitGroup
}

// New returns a Server configured by opts.
func New(opts ...Option) *Server {
	o := Options{
		Logger: logrus.StandardLogger(),
		Port:   transport.DefaultPort,
	}
	for _, fn := range opts {
		fn(&o)
	}
	return &Server{
		log:     o.Logger,
		port:    o.Port,
		metrics: newMetrics(o.Registry),
	}
}

// ListenAndServe binds the configured port and serves until Close.
func (s *Server) ListenAndServe() error {
	ln, err := transport.Listen(s.port)
	if err != nil {
		return err
	}
	return s.Serve(ln)
}

// Serve accepts connections on ln until Close. Each accepted connection
// is serviced by its own goroutine.
func (s *Server) Serve(ln *transport.Listener) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		ln.Close()
		return nil
	}
	s.ln = ln
	s.mu.Unlock()

	s.log.WithField("port", ln.Port()).Info("remotefs server listening")
	for {
		conn, err := ln.Accept()
		if err != nil {
			s.mu.Lock()
			closed := s.closed
			s.mu.Unlock()
			if closed {
				s.wg.Wait()
				return nil
			}
			s.log.WithError(err).Error("accept failed")
			return err
		}
		sess := newSession(s, conn, xid.New().String())
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			sess.run()
		}()
	}
}

// Close shuts the listener down. Connections already accepted keep being
// serviced until their clients disconnect; Serve returns once they have
// all ended.
func (s *Server) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	if s.ln != nil {
		return s.ln.Close()
	}
	return nil
}
