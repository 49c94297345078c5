// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package remotefs

import (
	"errors"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"

	"code.hybscloud.com/remotefs/transport"
	"code.hybscloud.com/remotefs/wire"
)

var (
	// ErrClientClosed reports a call on a closed or poisoned client. A
	// transport failure mid-call poisons the client: with one request in
	// flight per connection there is no way to resynchronize the stream.
	ErrClientClosed = errors.New("remotefs: client closed")

	// ErrProtocol reports a response that violates the per-operation
	// return contract.
	ErrProtocol = errors.New("remotefs: protocol violation")
)

// Options configures a Client.
type Options struct {
	// Address overrides the server address; empty means the environment
	// (server15440) or its default.
	Address string

	// Port overrides the TCP port; zero means the environment
	// (serverport15440) or its default.
	Port int

	// Logger receives connection-lifecycle diagnostics. Nil keeps the
	// library silent, as a primitive shim should be.
	Logger logrus.FieldLogger
}

type Option func(*Options)

// WithAddress overrides the server address.
func WithAddress(addr string) Option {
	return func(o *Options) { o.Address = addr }
}

// WithPort overrides the server TCP port.
func WithPort(port int) Option {
	return func(o *Options) { o.Port = port }
}

// WithLogger directs connection-lifecycle diagnostics to log.
func WithLogger(log logrus.FieldLogger) Option {
	return func(o *Options) { o.Logger = log }
}

// Client is one persistent connection to the server plus the buffers a
// call cycle needs. One call is outstanding at a time; the mutex turns
// accidental concurrent use into waiting instead of interleaved frames.
type Client struct {
	mu      sync.Mutex
	conn    *transport.Conn
	recv    *transport.Buffer
	send    *transport.Sender
	scratch []byte
	log     logrus.FieldLogger
}

// Dial connects to the server selected by opts, falling back to the
// process environment for anything not overridden.
func Dial(opts ...Option) (*Client, error) {
	var o Options
	for _, fn := range opts {
		fn(&o)
	}
	addr := o.Address
	if addr == "" {
		addr = transport.AddressFromEnv()
	}
	port := o.Port
	if port == 0 {
		p, err := transport.PortFromEnv()
		if err != nil {
			return nil, err
		}
		port = p
	}

	conn, err := transport.Dial(addr, port)
	if err != nil {
		return nil, err
	}
	if o.Logger != nil {
		o.Logger.WithField("peer", conn.RemoteAddr()).Debug("remotefs connected")
	}
	return &Client{
		conn:    conn,
		recv:    transport.NewBuffer(),
		send:    transport.NewSender(),
		scratch: make([]byte, 0, transport.StorageSize),
		log:     o.Logger,
	}, nil
}

// Close tears the connection down. Remote descriptors still open on the
// server are released by the server's connection teardown.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.conn == nil {
		return nil
	}
	err := c.conn.Close()
	c.conn = nil
	return err
}

// call runs one request/response cycle: serialize, send, block for the
// framed reply, decode.
func (c *Client) call(req *wire.Request) (*wire.Response, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.conn == nil {
		return nil, ErrClientClosed
	}

	c.scratch = req.Append(c.scratch[:0])
	if err := c.send.Send(c.conn, c.scratch); err != nil {
		if errors.Is(err, transport.ErrTooLong) {
			// Rejected before any byte hit the wire; the stream is intact.
			return nil, fmt.Errorf("remotefs: %s: %w", req.Op, err)
		}
		c.poison()
		return nil, fmt.Errorf("remotefs: %s: send: %w", req.Op, err)
	}

	payload, err := c.recv.Await(c.conn)
	if err != nil {
		c.poison()
		return nil, fmt.Errorf("remotefs: %s: receive: %w", req.Op, err)
	}
	resp, err := wire.DecodeResponse(payload)
	if err != nil {
		c.poison()
		return nil, fmt.Errorf("remotefs: %s: %w", req.Op, err)
	}
	return resp, nil
}

// poison abandons the connection after a mid-call failure. Callers hold
// the mutex.
func (c *Client) poison() {
	if c.log != nil {
		c.log.Debug("remotefs connection poisoned")
	}
	c.conn.Close()
	c.conn = nil
}
