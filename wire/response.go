// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package wire

import "strconv"

// Response carries the result of one invocation back to the client: the
// server-side errno plus an ordered list of owned return payloads. Return
// slot 0 is the primary integral result; Errno is meaningful only when
// slot 0 signals failure. Returns per operation:
//
//	open           fd (server-local; -1 on failure)
//	close          status
//	read           n; data (empty when n < 0)
//	write          n
//	lseek          new offset
//	stat           status; stat block (see Stat)
//	unlink         status
//	getdirentries  n; data (empty when n < 0); new basep
//	getdirtree     serialized tree (empty on failure)
type Response struct {
	Errno   int64
	Returns payloadList
}

// NewResponse returns a response with n empty return slots.
func NewResponse(errno int64, n int) *Response {
	return &Response{Errno: errno, Returns: make(payloadList, n)}
}

// PackInt stores v as the i-th return.
func (r *Response) PackInt(i int, v int64) { r.Returns.packInt(i, v) }

// PackBytes stores a copy of p as the i-th return.
func (r *Response) PackBytes(i int, p []byte) { r.Returns.packBytes(i, p) }

// Int decodes the i-th return as a signed decimal integer.
func (r *Response) Int(i int) (int64, error) { return r.Returns.intAt(i) }

// Bytes returns the raw i-th return, or nil when out of range.
func (r *Response) Bytes(i int) []byte { return r.Returns.bytesAt(i) }

// Append serializes the response onto dst and returns the extended slice.
func (r *Response) Append(dst []byte) []byte {
	dst = append(dst, headerErrno...)
	dst = append(dst, ':')
	dst = strconv.AppendInt(dst, r.Errno, 10)
	dst = append(dst, lineSplit...)
	dst = append(dst, headerReturnNum...)
	dst = append(dst, ':')
	dst = strconv.AppendInt(dst, int64(len(r.Returns)), 10)
	dst = append(dst, lineSplit...)
	return r.Returns.appendEncoded(dst)
}

// EncodedLen reports the serialized size of the response.
func (r *Response) EncodedLen() int {
	n := len(headerErrno) + 1 + decimalLen(r.Errno) + len(lineSplit)
	n += len(headerReturnNum) + 1 + decimalLen(int64(len(r.Returns))) + len(lineSplit)
	return n + r.Returns.encodedLen()
}

// DecodeResponse reconstructs a response from one framed payload.
func DecodeResponse(buf []byte) (*Response, error) {
	s := &scanner{buf: buf}
	errno, err := s.intLine(headerErrno)
	if err != nil {
		return nil, err
	}
	count, err := s.intLine(headerReturnNum)
	if err != nil {
		return nil, err
	}
	returns, err := decodeList(s, count)
	if err != nil {
		return nil, err
	}
	return &Response{Errno: errno, Returns: returns}, nil
}
