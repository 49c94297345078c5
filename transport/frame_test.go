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

// scriptedReader simulates an underlying transport: each step delivers a
// chunk of bytes or an error, so tests control fragmentation exactly.
type scriptedReader struct {
	steps []struct {
		b   []byte
		err error
	}
	step int
	off  int
}

func (r *scriptedReader) push(b []byte, err error) {
	r.steps = append(r.steps, struct {
		b   []byte
		err error
	}{b, err})
}

func (r *scriptedReader) Read(p []byte) (int, error) {
	for {
		if r.step >= len(r.steps) {
			return 0, io.EOF
		}
		st := r.steps[r.step]
		if len(st.b) == 0 {
			r.step++
			r.off = 0
			return 0, st.err
		}
		if r.off >= len(st.b) {
			r.step++
			r.off = 0
			continue
		}
		n := copy(p, st.b[r.off:])
		r.off += n
		return n, nil
	}
}

func TestFrameRoundTrip(t *testing.T) {
	t.Parallel()

	payloads := [][]byte{
		[]byte("hello, world\n"),
		{},
		[]byte{0x00, 0xFF, 0x7F},
		bytes.Repeat([]byte("x"), 70000),
	}
	for _, want := range payloads {
		b := transport.NewBuffer()
		frame := transport.AppendFrame(nil, want)
		suffix := []byte("trailing-garbage-for-the-next-frame")
		b.Append(append(frame, suffix...))

		got, err := b.Next()
		if err != nil {
			t.Fatalf("Next: %v", err)
		}
		if !bytes.Equal(got, want) {
			t.Fatalf("payload mismatch: got %d bytes want %d", len(got), len(want))
		}
		// The buffer state is exactly the unconsumed suffix.
		if b.Len() != len(suffix) {
			t.Fatalf("residue=%d want=%d", b.Len(), len(suffix))
		}
		if p, err := b.Next(); p != nil || err != nil {
			t.Fatalf("suffix alone must not parse: %v %v", p, err)
		}
	}
}

func TestFrameFragmentation(t *testing.T) {
	t.Parallel()

	want := []byte("fragmented payload with \r\n inside")
	frame := transport.AppendFrame(nil, want)

	// Split the wire bytes at every single boundary.
	for cut := 0; cut <= len(frame); cut++ {
		b := transport.NewBuffer()
		b.Append(frame[:cut])
		got, err := b.Next()
		if err != nil {
			t.Fatalf("cut=%d premature error: %v", cut, err)
		} else if got != nil && cut < len(frame) {
			t.Fatalf("cut=%d returned payload from incomplete frame", cut)
		}
		if got == nil {
			// Only an uncut frame completes before the second half arrives.
			b.Append(frame[cut:])
			got, err = b.Next()
			if err != nil {
				t.Fatalf("cut=%d: %v", cut, err)
			}
		}
		if !bytes.Equal(got, want) {
			t.Fatalf("cut=%d payload mismatch", cut)
		}
		if b.Len() != 0 {
			t.Fatalf("cut=%d residue=%d", cut, b.Len())
		}
	}

	// Byte-by-byte delivery.
	b := transport.NewBuffer()
	for _, by := range frame {
		b.Append([]byte{by})
	}
	got, err := b.Next()
	if err != nil || !bytes.Equal(got, want) {
		t.Fatalf("byte-by-byte: %v %q", err, got)
	}
}

func TestFrameSequence(t *testing.T) {
	t.Parallel()

	msgs := [][]byte{
		[]byte("first"),
		[]byte(""),
		bytes.Repeat([]byte{0xAB}, 300),
		[]byte("last"),
	}
	var stream []byte
	for _, m := range msgs {
		stream = transport.AppendFrame(stream, m)
	}

	b := transport.NewBuffer()
	b.Append(stream)
	for i, want := range msgs {
		got, err := b.Next()
		if err != nil {
			t.Fatalf("msg[%d]: %v", i, err)
		}
		if got == nil || !bytes.Equal(got, want) {
			t.Fatalf("msg[%d] mismatch: got=%q want=%q", i, got, want)
		}
	}
	if p, err := b.Next(); p != nil || err != nil {
		t.Fatalf("stream exhausted, got %v %v", p, err)
	}
}

func TestFrameEmbeddedDelimiter(t *testing.T) {
	t.Parallel()

	// The payload contains a forged header; the length prefix is
	// authoritative and must not be fooled.
	m1 := []byte("Message-Length:9\r\n\r\nabcdefghi")
	m2 := []byte("second message")
	stream := transport.AppendFrame(nil, m1)
	stream = transport.AppendFrame(stream, m2)

	b := transport.NewBuffer()
	b.Append(stream)
	got1, err := b.Next()
	if err != nil || !bytes.Equal(got1, m1) {
		t.Fatalf("m1: %v %q", err, got1)
	}
	got2, err := b.Next()
	if err != nil || !bytes.Equal(got2, m2) {
		t.Fatalf("m2: %v %q", err, got2)
	}
}

func TestFrameMalformed(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		in   string
		want error
	}{
		{name: "missing colon", in: "Message-Length9\r\n\r\n", want: transport.ErrMalformedHeader},
		{name: "wrong name", in: "Content-Length:9\r\n\r\n", want: transport.ErrMalformedHeader},
		{name: "non-numeric", in: "Message-Length:9x\r\n\r\n", want: transport.ErrMalformedHeader},
		{name: "negative", in: "Message-Length:-2\r\n\r\n", want: transport.ErrMalformedHeader},
		{name: "huge length", in: "Message-Length:99999999\r\n\r\n", want: transport.ErrTooLong},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			b := transport.NewBuffer()
			b.Append([]byte(tc.in))
			if _, err := b.Next(); !errors.Is(err, tc.want) {
				t.Fatalf("err=%v want=%v", err, tc.want)
			}
		})
	}
}

func TestSenderTooLong(t *testing.T) {
	t.Parallel()

	var sink bytes.Buffer
	s := transport.NewSender()
	if err := s.Send(&sink, make([]byte, transport.MaxPayload+1)); !errors.Is(err, transport.ErrTooLong) {
		t.Fatalf("err=%v want=%v", err, transport.ErrTooLong)
	}
	if sink.Len() != 0 {
		t.Fatal("rejected message must not touch the wire")
	}
}

func TestSenderMaxPayloadThroughBuffer(t *testing.T) {
	t.Parallel()

	// A maximum-size message must frame, transfer, and reassemble whole.
	want := bytes.Repeat([]byte{0x5A}, transport.MaxPayload)
	var wireBytes bytes.Buffer
	s := transport.NewSender()
	if err := s.Send(&wireBytes, want); err != nil {
		t.Fatalf("send: %v", err)
	}

	b := transport.NewBuffer()
	if n := b.Append(wireBytes.Bytes()); n != wireBytes.Len() {
		t.Fatalf("append consumed %d of %d", n, wireBytes.Len())
	}
	got, err := b.Next()
	if err != nil {
		t.Fatalf("Next: %v", err)
	}
	if !bytes.Equal(got, want) {
		t.Fatal("max payload mismatch")
	}
}

func TestAwaitDrainsAfterPeerClose(t *testing.T) {
	t.Parallel()

	// Two complete frames followed by EOF: both must still be delivered,
	// then the close surfaces.
	m1, m2 := []byte("one"), []byte("two")
	stream := transport.AppendFrame(nil, m1)
	stream = transport.AppendFrame(stream, m2)

	r := &scriptedReader{}
	r.push(stream, nil)

	b := transport.NewBuffer()
	got1, err := b.Await(r)
	if err != nil || !bytes.Equal(got1, m1) {
		t.Fatalf("m1: %v %q", err, got1)
	}
	got2, err := b.Await(r)
	if err != nil || !bytes.Equal(got2, m2) {
		t.Fatalf("m2: %v %q", err, got2)
	}
	if _, err := b.Await(r); !errors.Is(err, transport.ErrPeerClosed) {
		t.Fatalf("err=%v want=%v", err, transport.ErrPeerClosed)
	}
}

func TestAwaitAcrossWouldBlock(t *testing.T) {
	t.Parallel()

	want := []byte("eventually")
	frame := transport.AppendFrame(nil, want)

	r := &scriptedReader{}
	r.push(frame[:3], nil)
	r.push(nil, transport.ErrWouldBlock)
	r.push(frame[3:10], nil)
	r.push(nil, transport.ErrWouldBlock)
	r.push(frame[10:], nil)

	b := transport.NewBuffer()
	got, err := b.Await(r)
	if err != nil || !bytes.Equal(got, want) {
		t.Fatalf("await: %v %q", err, got)
	}
}

func TestAwaitTruncatedFrame(t *testing.T) {
	t.Parallel()

	frame := transport.AppendFrame(nil, []byte("cut short"))
	r := &scriptedReader{}
	r.push(frame[:len(frame)-2], nil)

	b := transport.NewBuffer()
	if _, err := b.Await(r); !errors.Is(err, transport.ErrPeerClosed) {
		t.Fatalf("err=%v want=%v", err, transport.ErrPeerClosed)
	}
}
