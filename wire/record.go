// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package wire

import "strconv"

// payloadList is the ordered parameter/return storage shared by requests
// and responses. Each slot owns its bytes.
type payloadList [][]byte

// packInt stores v as signed decimal ASCII in slot i.
func (l payloadList) packInt(i int, v int64) {
	l[i] = strconv.AppendInt(nil, v, 10)
}

// packBytes copies p into slot i. The record owns the copy, so the caller
// may reuse p immediately.
func (l payloadList) packBytes(i int, p []byte) {
	l[i] = append([]byte(nil), p...)
}

func (l payloadList) intAt(i int) (int64, error) {
	if i < 0 || i >= len(l) {
		return 0, ErrMalformed
	}
	return parseDecimal(l[i])
}

func (l payloadList) bytesAt(i int) []byte {
	if i < 0 || i >= len(l) {
		return nil
	}
	return l[i]
}

// appendEncoded emits each slot as `<size>\r\n<bytes>\r\n`.
func (l payloadList) appendEncoded(dst []byte) []byte {
	for _, p := range l {
		dst = strconv.AppendInt(dst, int64(len(p)), 10)
		dst = append(dst, lineSplit...)
		dst = append(dst, p...)
		dst = append(dst, lineSplit...)
	}
	return dst
}

// decodeList consumes count (size, bytes) pairs from s.
func decodeList(s *scanner, count int64) (payloadList, error) {
	if count < 0 || count > maxListLen {
		return nil, ErrMalformed
	}
	l := make(payloadList, count)
	for i := range l {
		n, err := s.sizeLine()
		if err != nil {
			return nil, err
		}
		p, err := s.payload(n)
		if err != nil {
			return nil, err
		}
		// Own the bytes: the frame buffer is compacted after decoding.
		l[i] = append([]byte(nil), p...)
	}
	return l, nil
}

// encodedLen reports the serialized size of the list body.
func (l payloadList) encodedLen() int {
	n := 0
	for _, p := range l {
		n += decimalLen(int64(len(p))) + len(lineSplit) + len(p) + len(lineSplit)
	}
	return n
}

func decimalLen(v int64) int {
	return len(strconv.AppendInt(nil, v, 10))
}
