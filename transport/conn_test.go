// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package transport

import (
	"bytes"
	"errors"
	"os"
	"testing"

	"golang.org/x/sys/unix"
)

// socketPair returns two connected non-blocking stream endpoints. A real
// TCP round trip is inherently flaky on shared CI; a socketpair is a
// deterministic byte stream with the same non-boundary-preserving
// property.
func socketPair(t *testing.T) (*Conn, *Conn) {
	t.Helper()
	fds, err := unix.Socketpair(unix.AF_UNIX, unix.SOCK_STREAM|unix.SOCK_CLOEXEC, 0)
	if err != nil {
		t.Fatalf("socketpair: %v", err)
	}
	a := &Conn{fd: fds[0], remote: "socketpair:a"}
	b := &Conn{fd: fds[1], remote: "socketpair:b"}
	for _, c := range []*Conn{a, b} {
		if err := c.SetNonblock(true); err != nil {
			t.Fatalf("setnonblock: %v", err)
		}
	}
	t.Cleanup(func() { a.Close(); b.Close() })
	return a, b
}

func TestConnWouldBlockOnDrainedStream(t *testing.T) {
	t.Parallel()

	a, _ := socketPair(t)
	p := make([]byte, 16)
	if _, err := a.Read(p); !errors.Is(err, ErrWouldBlock) {
		t.Fatalf("err=%v want=%v", err, ErrWouldBlock)
	}
}

func TestConnFrameExchange(t *testing.T) {
	t.Parallel()

	a, b := socketPair(t)

	want := bytes.Repeat([]byte("remote file rpc "), 512)
	s := NewSender()
	if err := s.Send(a, want); err != nil {
		t.Fatalf("send: %v", err)
	}

	rb := NewBuffer()
	got, err := rb.Await(b)
	if err != nil {
		t.Fatalf("await: %v", err)
	}
	if !bytes.Equal(got, want) {
		t.Fatal("payload mismatch")
	}
}

func TestConnPeerClose(t *testing.T) {
	t.Parallel()

	a, b := socketPair(t)

	s := NewSender()
	if err := s.Send(a, []byte("final")); err != nil {
		t.Fatalf("send: %v", err)
	}
	a.Close()

	rb := NewBuffer()
	got, err := rb.Await(b)
	if err != nil || string(got) != "final" {
		t.Fatalf("await: %v %q", err, got)
	}
	if _, err := rb.Await(b); !errors.Is(err, ErrPeerClosed) {
		t.Fatalf("err=%v want=%v", err, ErrPeerClosed)
	}
}

func TestListenerEphemeralPort(t *testing.T) {
	t.Parallel()

	l, err := Listen(0)
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	defer l.Close()
	if l.Port() <= 0 {
		t.Fatalf("port=%d", l.Port())
	}

	c, err := Dial("127.0.0.1", l.Port())
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer c.Close()

	srv, err := l.Accept()
	if err != nil {
		t.Fatalf("accept: %v", err)
	}
	defer srv.Close()

	s := NewSender()
	if err := s.Send(c, []byte("ping")); err != nil {
		t.Fatalf("send: %v", err)
	}
	rb := NewBuffer()
	got, err := rb.Await(srv)
	if err != nil || string(got) != "ping" {
		t.Fatalf("await: %v %q", err, got)
	}
}

func TestDialEnvRejectsBadPort(t *testing.T) {
	// Not parallel: manipulates the process environment.
	l, err := Listen(0)
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	defer l.Close()

	os.Setenv(EnvServerAddress, "127.0.0.1")
	os.Setenv(EnvServerPort, "0")
	defer os.Unsetenv(EnvServerAddress)
	defer os.Unsetenv(EnvServerPort)

	if _, err := DialEnv(); err == nil {
		t.Fatal("port 0 must be rejected")
	}

	os.Setenv(EnvServerPort, "not-a-number")
	if _, err := DialEnv(); err == nil {
		t.Fatal("non-numeric port must be rejected")
	}
}
