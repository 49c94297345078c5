// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package transport_test

import (
	"bytes"
	"errors"
	"io"
	"testing"

	"code.hybscloud.com/remotefs/transport"
)

// wouldBlockWriter accepts at most limit bytes per call and signals
// would-block on every other call, simulating a congested socket.
type wouldBlockWriter struct {
	buf       bytes.Buffer
	limit     int
	blockNext bool
}

func (w *wouldBlockWriter) Write(p []byte) (int, error) {
	if w.blockNext {
		w.blockNext = false
		return 0, transport.ErrWouldBlock
	}
	w.blockNext = true
	if len(p) > w.limit {
		p = p[:w.limit]
	}
	return w.buf.Write(p)
}

// failingWriter accepts a few bytes then fails hard.
type failingWriter struct {
	accept int
	n      int
}

var errWireDown = errors.New("wire down")

func (w *failingWriter) Write(p []byte) (int, error) {
	if w.n >= w.accept {
		return 0, errWireDown
	}
	take := w.accept - w.n
	if take > len(p) {
		take = len(p)
	}
	w.n += take
	return take, nil
}

func TestWriteFullAcrossCongestion(t *testing.T) {
	t.Parallel()

	want := bytes.Repeat([]byte("payload-"), 1000)
	w := &wouldBlockWriter{limit: 97}
	n, err := transport.WriteFull(w, want)
	if err != nil {
		t.Fatalf("WriteFull: %v", err)
	}
	if n != len(want) {
		t.Fatalf("n=%d want=%d", n, len(want))
	}
	if !bytes.Equal(w.buf.Bytes(), want) {
		t.Fatal("written bytes mismatch")
	}
}

func TestWriteFullReportsShortTransfer(t *testing.T) {
	t.Parallel()

	w := &failingWriter{accept: 10}
	n, err := transport.WriteFull(w, make([]byte, 64))
	if !errors.Is(err, errWireDown) {
		t.Fatalf("err=%v", err)
	}
	if n != 10 {
		t.Fatalf("n=%d want=10", n)
	}
}

func TestWriteFullNoProgressGuard(t *testing.T) {
	t.Parallel()

	// A broken writer returning (0, nil) must not spin forever.
	brokenWriter := writerFunc(func(p []byte) (int, error) { return 0, nil })
	if _, err := transport.WriteFull(brokenWriter, []byte("x")); !errors.Is(err, io.ErrShortWrite) {
		t.Fatalf("err=%v want=%v", err, io.ErrShortWrite)
	}
}

type writerFunc func(p []byte) (int, error)

func (f writerFunc) Write(p []byte) (int, error) { return f(p) }

func TestReadGreedyDrainsUntilWouldBlock(t *testing.T) {
	t.Parallel()

	r := &scriptedReader{}
	r.push([]byte("abc"), nil)
	r.push([]byte("defg"), nil)
	r.push(nil, transport.ErrWouldBlock)
	r.push([]byte("later"), nil)

	p := make([]byte, 64)
	n, closed := transport.ReadGreedy(r, p)
	if closed {
		t.Fatal("would-block is not peer close")
	}
	if string(p[:n]) != "abcdefg" {
		t.Fatalf("got=%q", p[:n])
	}

	// The next invocation picks up where the stream left off.
	n, closed = transport.ReadGreedy(r, p)
	if closed != true || string(p[:n]) != "later" {
		// Stream ends with EOF after "later", reported as closed.
		t.Fatalf("n=%d closed=%v got=%q", n, closed, p[:n])
	}
}

func TestReadGreedyPeerClose(t *testing.T) {
	t.Parallel()

	r := &scriptedReader{}
	r.push([]byte("tail"), nil)

	p := make([]byte, 16)
	n, closed := transport.ReadGreedy(r, p)
	if !closed {
		t.Fatal("EOF must report closed")
	}
	if string(p[:n]) != "tail" {
		t.Fatalf("got=%q", p[:n])
	}
}

func TestReadGreedyFullBuffer(t *testing.T) {
	t.Parallel()

	r := &scriptedReader{}
	r.push(bytes.Repeat([]byte{1}, 32), nil)

	p := make([]byte, 8)
	n, closed := transport.ReadGreedy(r, p)
	if n != 8 || closed {
		t.Fatalf("n=%d closed=%v", n, closed)
	}
}
