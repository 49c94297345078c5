// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package transport

import (
	"bytes"
	"io"
	"strconv"
)

// AppendFrame serializes one framed message onto dst: the header
// `Message-Length:<decimal>\r\n\r\n` followed by the payload bytes.
func AppendFrame(dst, payload []byte) []byte {
	dst = append(dst, headerName...)
	dst = append(dst, ':')
	dst = strconv.AppendInt(dst, int64(len(payload)), 10)
	dst = append(dst, headerDelim...)
	return append(dst, payload...)
}

// Sender frames outbound messages through a fixed serialization buffer so
// each message reaches the wire in exactly one robust write.
type Sender struct {
	buf []byte
}

// NewSender returns a Sender with a StorageSize serialization buffer.
func NewSender() *Sender {
	return &Sender{buf: make([]byte, 0, StorageSize)}
}

// Send frames payload and writes header plus payload with a single
// WriteFull. Payloads above MaxPayload fail with ErrTooLong; a short
// transfer surfaces as the underlying write error.
func (s *Sender) Send(w io.Writer, payload []byte) error {
	if len(payload) > MaxPayload {
		return ErrTooLong
	}
	s.buf = AppendFrame(s.buf[:0], payload)
	_, err := WriteFull(w, s.buf)
	return err
}

// Buffer reassembles framed messages out of an arbitrarily chunked
// stream. It holds at most StorageSize bytes; after each extraction the
// unconsumed suffix is moved to the front and the freed tail zero-filled,
// so the buffer is always ready for the next append.
type Buffer struct {
	buf []byte
	n   int
}

// NewBuffer returns a re-assembly buffer of StorageSize bytes.
func NewBuffer() *Buffer {
	return &Buffer{buf: make([]byte, StorageSize)}
}

// Len reports the bytes currently buffered.
func (b *Buffer) Len() int { return b.n }

// free returns the writable tail.
func (b *Buffer) free() []byte { return b.buf[b.n:] }

// Append copies p into the buffer for re-assembly. It reports how many
// bytes were consumed; fewer than len(p) means the buffer is full and the
// caller must extract frames before appending the rest.
func (b *Buffer) Append(p []byte) int {
	n := copy(b.free(), p)
	b.n += n
	return n
}

// Fill performs one greedy read from r into the buffer's free space.
// closed mirrors ReadGreedy's peer-close report.
func (b *Buffer) Fill(r io.Reader) (n int, closed bool) {
	if b.n == len(b.buf) {
		return 0, false
	}
	n, closed = ReadGreedy(r, b.free())
	b.n += n
	return n, closed
}

// Next extracts the first complete framed payload, or returns (nil, nil)
// when no complete frame is buffered yet. The returned slice is freshly
// owned by the caller. Never blocks.
func (b *Buffer) Next() ([]byte, error) {
	data := b.buf[:b.n]
	idx := bytes.Index(data, []byte(headerDelim))
	if idx < 0 {
		if b.n == len(b.buf) {
			// Full buffer without a delimiter can never complete.
			return nil, ErrMalformedHeader
		}
		return nil, nil
	}
	header := data[:idx]
	colon := bytes.IndexByte(header, ':')
	if colon < 0 || string(header[:colon]) != headerName {
		return nil, ErrMalformedHeader
	}
	length, err := strconv.ParseInt(string(header[colon+1:]), 10, 64)
	if err != nil || length < 0 {
		return nil, ErrMalformedHeader
	}
	total := idx + len(headerDelim) + int(length)
	if length > int64(MaxPayload) || total > len(b.buf) {
		return nil, ErrTooLong
	}
	if b.n < total {
		return nil, nil
	}

	payload := make([]byte, length)
	copy(payload, data[idx+len(headerDelim):total])

	// Compact: move the unconsumed suffix left and zero the freed tail.
	rest := copy(b.buf, b.buf[total:b.n])
	for i := rest; i < b.n; i++ {
		b.buf[i] = 0
	}
	b.n = rest
	return payload, nil
}

// Await emulates a blocking receive: it fills and parses until one
// complete frame is available. If the peer closes first, any frame
// already buffered is still delivered; after the buffered remainder is
// exhausted, Await reports ErrPeerClosed.
func (b *Buffer) Await(r io.Reader) ([]byte, error) {
	for {
		p, err := b.Next()
		if p != nil || err != nil {
			return p, err
		}
		n, closed := b.Fill(r)
		if closed {
			p, err := b.Next()
			if p != nil || err != nil {
				return p, err
			}
			return nil, ErrPeerClosed
		}
		if n == 0 {
			yieldOnce()
		}
	}
}
