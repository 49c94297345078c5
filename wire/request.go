// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package wire

import "strconv"

// Request is one remote invocation: an operation tag plus an ordered list
// of owned parameter payloads. Arity per operation:
//
//	open           path, flags, mode
//	close          fd
//	read           fd, count
//	write          fd, data, count
//	lseek          fd, offset, whence
//	stat           path
//	unlink         path
//	getdirentries  fd, nbytes, basep
//	getdirtree     path
//
// Descriptors on the wire are always server-local values.
type Request struct {
	Op     Op
	Params payloadList
}

// NewRequest returns a request for op with n empty parameter slots.
func NewRequest(op Op, n int) *Request {
	return &Request{Op: op, Params: make(payloadList, n)}
}

// PackInt stores v as the i-th parameter.
func (r *Request) PackInt(i int, v int64) { r.Params.packInt(i, v) }

// PackBytes stores a copy of p as the i-th parameter.
func (r *Request) PackBytes(i int, p []byte) { r.Params.packBytes(i, p) }

// Int decodes the i-th parameter as a signed decimal integer.
func (r *Request) Int(i int) (int64, error) { return r.Params.intAt(i) }

// Bytes returns the raw i-th parameter, or nil when out of range.
func (r *Request) Bytes(i int) []byte { return r.Params.bytesAt(i) }

// Append serializes the request onto dst and returns the extended slice.
func (r *Request) Append(dst []byte) []byte {
	dst = append(dst, headerCommand...)
	dst = append(dst, ':')
	dst = strconv.AppendInt(dst, int64(r.Op), 10)
	dst = append(dst, lineSplit...)
	dst = append(dst, headerParamNum...)
	dst = append(dst, ':')
	dst = strconv.AppendInt(dst, int64(len(r.Params)), 10)
	dst = append(dst, lineSplit...)
	return r.Params.appendEncoded(dst)
}

// EncodedLen reports the serialized size of the request.
func (r *Request) EncodedLen() int {
	n := len(headerCommand) + 1 + decimalLen(int64(r.Op)) + len(lineSplit)
	n += len(headerParamNum) + 1 + decimalLen(int64(len(r.Params))) + len(lineSplit)
	return n + r.Params.encodedLen()
}

// DecodeRequest reconstructs a request from one framed payload.
func DecodeRequest(buf []byte) (*Request, error) {
	s := &scanner{buf: buf}
	op, err := s.intLine(headerCommand)
	if err != nil {
		return nil, err
	}
	if op < 0 || op >= int64(len(opNames)) {
		return nil, ErrBadOp
	}
	count, err := s.intLine(headerParamNum)
	if err != nil {
		return nil, err
	}
	params, err := decodeList(s, count)
	if err != nil {
		return nil, err
	}
	return &Request{Op: Op(op), Params: params}, nil
}
