// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package transport

import (
	"io"
	"runtime"
)

// yieldOnce gives up the processor once. Used to emulate blocking on top
// of a non-blocking stream without burning a full core.
func yieldOnce() { runtime.Gosched() }

// WriteFull writes all of p to w, retrying on transient interruption and
// temporary unavailability. On any other failure it returns the bytes
// transferred so far along with the error; the caller treats a short
// transfer as fatal for the current message.
func WriteFull(w io.Writer, p []byte) (int, error) {
	written := 0
	for written < len(p) {
		n, err := w.Write(p[written:])
		if n < 0 {
			n = 0
		}
		written += n
		switch {
		case err == nil:
			if n == 0 {
				// Broken writer reporting no progress without error.
				return written, io.ErrShortWrite
			}
		case err == ErrWouldBlock:
			yieldOnce()
		default:
			return written, err
		}
	}
	return written, nil
}

// ReadGreedy drains r into p in a single invocation: it keeps reading
// until the buffer is full, the stream has no more bytes right now
// (would-block), or the peer is gone. closed reports peer close or a real
// error, after which the caller drains buffered frames and tears down.
func ReadGreedy(r io.Reader, p []byte) (n int, closed bool) {
	for n < len(p) {
		rn, err := r.Read(p[n:])
		if rn > 0 {
			n += rn
		}
		switch err {
		case nil:
		case ErrWouldBlock:
			return n, false
		default:
			// io.EOF or a transport failure: either way the connection is
			// finished once the buffered remainder is consumed.
			return n, true
		}
	}
	return n, false
}
