// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package wire

import (
	"bytes"
	"strconv"
)

// scanner walks a record payload left to right. All reads advance the
// cursor; any shape violation surfaces as ErrMalformed.
type scanner struct {
	buf []byte
	off int
}

// line consumes one `<name>:<value>\r\n` line and returns the raw value
// bytes. The header name must match exactly.
func (s *scanner) line(name string) ([]byte, error) {
	rest := s.buf[s.off:]
	end := bytes.Index(rest, []byte(lineSplit))
	if end < 0 {
		return nil, ErrMalformed
	}
	colon := bytes.IndexByte(rest[:end], ':')
	if colon < 0 || string(rest[:colon]) != name {
		return nil, ErrMalformed
	}
	s.off += end + len(lineSplit)
	return rest[colon+1 : end], nil
}

// intLine consumes a `<name>:<decimal>\r\n` line.
func (s *scanner) intLine(name string) (int64, error) {
	val, err := s.line(name)
	if err != nil {
		return 0, err
	}
	return parseDecimal(val)
}

// sizeLine consumes a bare `<decimal>\r\n` length line.
func (s *scanner) sizeLine() (int, error) {
	rest := s.buf[s.off:]
	end := bytes.Index(rest, []byte(lineSplit))
	if end < 0 {
		return 0, ErrMalformed
	}
	n, err := parseDecimal(rest[:end])
	if err != nil || n < 0 {
		return 0, ErrMalformed
	}
	s.off += end + len(lineSplit)
	return int(n), nil
}

// payload consumes exactly n raw bytes plus the decorative \r\n that
// follows them. The length is authoritative: embedded \r\n sequences in
// the payload are not terminators.
func (s *scanner) payload(n int) ([]byte, error) {
	if n < 0 || s.off+n+len(lineSplit) > len(s.buf) {
		return nil, ErrMalformed
	}
	p := s.buf[s.off : s.off+n]
	if string(s.buf[s.off+n:s.off+n+len(lineSplit)]) != lineSplit {
		return nil, ErrMalformed
	}
	s.off += n + len(lineSplit)
	return p, nil
}

func parseDecimal(b []byte) (int64, error) {
	v, err := strconv.ParseInt(string(b), 10, 64)
	if err != nil {
		return 0, ErrMalformed
	}
	return v, nil
}
