// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package transport provides the framed message layer the RPC runs on:
// byte-stream connection setup, robust writes, greedy non-blocking reads,
// and re-assembly of `Message-Length`-framed messages out of an arbitrary
// stream.
//
// Semantics and design:
//   - Non-blocking first: connections are switched to non-blocking mode and
//     iox.ErrWouldBlock is surfaced as a control-flow signal. WriteFull and
//     Buffer.Await emulate blocking with a cooperative yield-and-retry.
//   - One frame, one message: a frame is the textual header
//     `Message-Length:<decimal>\r\n\r\n` followed by exactly that many
//     payload bytes. The length is authoritative; payloads containing the
//     delimiter bytes round-trip intact.
//   - Fixed sizing: re-assembly and serialization buffers hold StorageSize
//     bytes. Payloads above MaxPayload are rejected with ErrTooLong.
//
// A short write or a peer close is fatal for the connection that produced
// it; there is no partial recovery below the frame layer.
package transport

import (
	"errors"

	"code.hybscloud.com/iox"
)

const (
	// StorageSize is the capacity of one re-assembly or serialization
	// buffer, and therefore the upper bound on one framed message.
	StorageSize = 1 << 20

	headerName  = "Message-Length"
	headerDelim = "\r\n\r\n"

	// maxHeaderLen reserves room for the header name, the colon, a decimal
	// int64 with sign, and the delimiter.
	maxHeaderLen = len(headerName) + 1 + 20 + len(headerDelim)

	// MaxPayload is the largest payload a frame may carry.
	MaxPayload = StorageSize - maxHeaderLen
)

var (
	// ErrWouldBlock re-exports the would-block control-flow signal surfaced
	// by Conn on a drained non-blocking stream.
	ErrWouldBlock = iox.ErrWouldBlock

	// ErrTooLong reports a payload above MaxPayload, or a frame whose
	// declared length cannot fit the re-assembly buffer.
	ErrTooLong = errors.New("transport: message too long")

	// ErrMalformedHeader reports a frame header with a missing or
	// misspelled name, missing colon, or non-numeric length.
	ErrMalformedHeader = errors.New("transport: malformed frame header")

	// ErrPeerClosed reports that the remote end closed the stream before a
	// complete frame arrived.
	ErrPeerClosed = errors.New("transport: peer closed connection")
)
