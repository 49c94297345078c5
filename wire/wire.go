// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package wire implements the self-describing request/response records
// exchanged between the client stubs and the server dispatcher.
//
// Records are textual with binary tails. A request is
//
//	Command:<op>\r\n
//	ParamNum:<n>\r\n
//	<size_0>\r\n<bytes_0>\r\n
//	...
//
// and a response substitutes the Errno and ReturnNum headers. Integral
// parameters travel as signed decimal ASCII; opaque parameters are raw
// bytes. The size line is authoritative for the payload length — the \r\n
// terminating a payload is decorative, so payloads containing embedded
// \r\n sequences round-trip intact.
//
// One record occupies exactly one framed message (see package transport);
// the codec itself never reads from the network.
package wire

import "errors"

// Op identifies the remote primitive a request invokes. The tag selects
// which parameter arity and payload interpretation are legal.
type Op uint8

const (
	OpOpen Op = iota
	OpClose
	OpRead
	OpWrite
	OpLseek
	OpStat
	OpUnlink
	OpGetdirentries
	OpGetdirtree
	OpFreedirtree
)

var opNames = [...]string{
	OpOpen:          "open",
	OpClose:         "close",
	OpRead:          "read",
	OpWrite:         "write",
	OpLseek:         "lseek",
	OpStat:          "stat",
	OpUnlink:        "unlink",
	OpGetdirentries: "getdirentries",
	OpGetdirtree:    "getdirtree",
	OpFreedirtree:   "freedirtree",
}

// Valid reports whether op is a member of the closed operation set.
func (op Op) Valid() bool {
	return int(op) < len(opNames)
}

func (op Op) String() string {
	if !op.Valid() {
		return "op(invalid)"
	}
	return opNames[op]
}

// Record header literals.
const (
	headerCommand     = "Command"
	headerParamNum    = "ParamNum"
	headerErrno       = "Errno"
	headerReturnNum   = "ReturnNum"
	headerTreeName    = "TreeName"
	headerTreeChildNo = "TreeChildNum"
)

const lineSplit = "\r\n"

// maxListLen bounds the parameter/return count a decoder accepts. Every
// defined operation uses at most three slots; anything near the bound is a
// corrupt or hostile record.
const maxListLen = 1 << 10

var (
	// ErrMalformed reports a record that cannot be decoded: missing colon
	// or terminator, non-numeric count, or a declared length running past
	// the record. The connection that produced it should be torn down.
	ErrMalformed = errors.New("wire: malformed record")

	// ErrBadOp reports an operation tag outside the defined set.
	ErrBadOp = errors.New("wire: unknown operation")
)
