// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package transport

import (
	"fmt"
	"io"
	"net"
	"os"
	"strconv"

	"github.com/higebu/netfd"
	"golang.org/x/sys/unix"
)

// Environment inputs for the active endpoint.
const (
	EnvServerAddress = "server15440"
	EnvServerPort    = "serverport15440"

	DefaultAddress = "127.0.0.1"
	DefaultPort    = 20080
)

// listenBacklog is the passive endpoint's pending-connection queue depth.
const listenBacklog = 64

// Conn is one byte-stream connection, backed directly by a socket
// descriptor. Read and Write retry EINTR internally and surface EAGAIN as
// iox.ErrWouldBlock, so callers treat would-block as control flow rather
// than failure.
type Conn struct {
	fd     int
	remote string
}

// Read implements io.Reader. On a drained non-blocking stream it returns
// (0, ErrWouldBlock); a peer close is io.EOF.
func (c *Conn) Read(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	for {
		n, err := unix.Read(c.fd, p)
		switch err {
		case nil:
			if n == 0 {
				// Orderly shutdown by the peer.
				return 0, io.EOF
			}
			return n, nil
		case unix.EINTR:
			continue
		case unix.EAGAIN:
			return 0, ErrWouldBlock
		default:
			return 0, os.NewSyscallError("read", err)
		}
	}
}

// Write implements io.Writer with the same EINTR/EAGAIN mapping as Read.
func (c *Conn) Write(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	for {
		n, err := unix.Write(c.fd, p)
		switch err {
		case nil:
			return n, nil
		case unix.EINTR:
			continue
		case unix.EAGAIN:
			return 0, ErrWouldBlock
		default:
			return 0, os.NewSyscallError("write", err)
		}
	}
}

// SetNonblock toggles non-blocking mode on the underlying descriptor.
func (c *Conn) SetNonblock(nonblock bool) error {
	return unix.SetNonblock(c.fd, nonblock)
}

// RemoteAddr reports the peer address for diagnostics.
func (c *Conn) RemoteAddr() string { return c.remote }

// Close releases the descriptor.
func (c *Conn) Close() error {
	return unix.Close(c.fd)
}

// Dial establishes the active endpoint to addr:port and switches it to
// non-blocking mode. addr may be a literal IPv4 address or a hostname.
func Dial(addr string, port int) (*Conn, error) {
	ip, err := lookupIPv4(addr)
	if err != nil {
		return nil, err
	}
	fd, err := unix.Socket(unix.AF_INET, unix.SOCK_STREAM|unix.SOCK_CLOEXEC, 0)
	if err != nil {
		return nil, os.NewSyscallError("socket", err)
	}
	sa := &unix.SockaddrInet4{Port: port}
	copy(sa.Addr[:], ip)
	if err := connectRetry(fd, sa); err != nil {
		unix.Close(fd)
		return nil, os.NewSyscallError("connect", err)
	}
	if err := unix.SetNonblock(fd, true); err != nil {
		unix.Close(fd)
		return nil, os.NewSyscallError("setnonblock", err)
	}
	return &Conn{fd: fd, remote: net.JoinHostPort(addr, strconv.Itoa(port))}, nil
}

// AddressFromEnv reads the peer address from EnvServerAddress, falling
// back to DefaultAddress.
func AddressFromEnv() string {
	if addr := os.Getenv(EnvServerAddress); addr != "" {
		return addr
	}
	return DefaultAddress
}

// PortFromEnv reads the TCP port from EnvServerPort, falling back to
// DefaultPort. A set but unusable value is an error rather than silently
// the default.
func PortFromEnv() (int, error) {
	s := os.Getenv(EnvServerPort)
	if s == "" {
		return DefaultPort, nil
	}
	p, err := strconv.Atoi(s)
	if err != nil || p <= 0 || p > 65535 {
		return 0, fmt.Errorf("transport: bad %s=%q", EnvServerPort, s)
	}
	return p, nil
}

// DialEnv establishes the active endpoint from the process environment:
// EnvServerAddress (default DefaultAddress) and EnvServerPort (default
// DefaultPort).
func DialEnv() (*Conn, error) {
	port, err := PortFromEnv()
	if err != nil {
		return nil, err
	}
	return Dial(AddressFromEnv(), port)
}

// FromConn adopts an already-established net.Conn into the fd-based
// transport by duplicating its descriptor. The caller must not continue to
// use nc afterwards; closing the returned Conn does not close nc.
func FromConn(nc net.Conn) (*Conn, error) {
	fd := netfd.GetFdFromConn(nc)
	if fd <= 0 {
		return nil, fmt.Errorf("transport: cannot extract descriptor from %T", nc)
	}
	dup, err := unix.Dup(fd)
	if err != nil {
		return nil, os.NewSyscallError("dup", err)
	}
	if err := unix.SetNonblock(dup, true); err != nil {
		unix.Close(dup)
		return nil, os.NewSyscallError("setnonblock", err)
	}
	return &Conn{fd: dup, remote: nc.RemoteAddr().String()}, nil
}

// Listener is the passive endpoint. It accepts one connection at a time
// and yields per-connection byte streams already in non-blocking mode.
type Listener struct {
	fd   int
	port int
}

// Listen binds the wildcard address on port with SO_REUSEADDR and a
// backlog of listenBacklog. Port 0 picks an ephemeral port, reported by
// Port.
func Listen(port int) (*Listener, error) {
	fd, err := unix.Socket(unix.AF_INET, unix.SOCK_STREAM|unix.SOCK_CLOEXEC, 0)
	if err != nil {
		return nil, os.NewSyscallError("socket", err)
	}
	if err := unix.SetsockoptInt(fd, unix.SOL_SOCKET, unix.SO_REUSEADDR, 1); err != nil {
		unix.Close(fd)
		return nil, os.NewSyscallError("setsockopt", err)
	}
	if err := unix.Bind(fd, &unix.SockaddrInet4{Port: port}); err != nil {
		unix.Close(fd)
		return nil, os.NewSyscallError("bind", err)
	}
	if err := unix.Listen(fd, listenBacklog); err != nil {
		unix.Close(fd)
		return nil, os.NewSyscallError("listen", err)
	}
	if port == 0 {
		sa, err := unix.Getsockname(fd)
		if err != nil {
			unix.Close(fd)
			return nil, os.NewSyscallError("getsockname", err)
		}
		if in4, ok := sa.(*unix.SockaddrInet4); ok {
			port = in4.Port
		}
	}
	return &Listener{fd: fd, port: port}, nil
}

// Port reports the bound TCP port.
func (l *Listener) Port() int { return l.port }

// Accept blocks for the next incoming connection and returns it switched
// to non-blocking mode.
func (l *Listener) Accept() (*Conn, error) {
	for {
		nfd, sa, err := unix.Accept(l.fd)
		if err == unix.EINTR {
			continue
		}
		if err != nil {
			return nil, os.NewSyscallError("accept", err)
		}
		if err := unix.SetNonblock(nfd, true); err != nil {
			unix.Close(nfd)
			return nil, os.NewSyscallError("setnonblock", err)
		}
		return &Conn{fd: nfd, remote: sockaddrString(sa)}, nil
	}
}

// Close shuts the listening socket down; a blocked Accept call fails.
// The shutdown is what actually wakes an accept parked in the kernel.
func (l *Listener) Close() error {
	unix.Shutdown(l.fd, unix.SHUT_RDWR)
	return unix.Close(l.fd)
}

func connectRetry(fd int, sa unix.Sockaddr) error {
	for {
		err := unix.Connect(fd, sa)
		if err == unix.EINTR {
			continue
		}
		return err
	}
}

func lookupIPv4(addr string) (net.IP, error) {
	if ip := net.ParseIP(addr); ip != nil {
		if ip4 := ip.To4(); ip4 != nil {
			return ip4, nil
		}
		return nil, fmt.Errorf("transport: %s is not an IPv4 address", addr)
	}
	ips, err := net.LookupIP(addr)
	if err != nil {
		return nil, fmt.Errorf("transport: resolve %s: %w", addr, err)
	}
	for _, ip := range ips {
		if ip4 := ip.To4(); ip4 != nil {
			return ip4, nil
		}
	}
	return nil, fmt.Errorf("transport: no IPv4 address for %s", addr)
}

func sockaddrString(sa unix.Sockaddr) string {
	if in4, ok := sa.(*unix.SockaddrInet4); ok {
		ip := net.IP(in4.Addr[:])
		return net.JoinHostPort(ip.String(), strconv.Itoa(in4.Port))
	}
	return "unknown"
}
