// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package wire

import "strconv"

// DirTree is one node of a directory tree. Each node owns its children;
// the structure is finite and acyclic, children ordered as the server's
// operating system reported them.
type DirTree struct {
	Name     string
	Children []*DirTree
}

// AppendDirTree serializes t in pre-order onto dst: for each node,
// `TreeName:<name>\r\n` then `TreeChildNum:<k>\r\n` then the k children
// left to right. Names must not contain \r\n.
func AppendDirTree(dst []byte, t *DirTree) []byte {
	dst = append(dst, headerTreeName...)
	dst = append(dst, ':')
	dst = append(dst, t.Name...)
	dst = append(dst, lineSplit...)
	dst = append(dst, headerTreeChildNo...)
	dst = append(dst, ':')
	dst = strconv.AppendInt(dst, int64(len(t.Children)), 10)
	dst = append(dst, lineSplit...)
	for _, c := range t.Children {
		dst = AppendDirTree(dst, c)
	}
	return dst
}

// DecodeDirTree reconstructs a tree from the front of buf and reports how
// many bytes it consumed.
func DecodeDirTree(buf []byte) (*DirTree, int, error) {
	s := &scanner{buf: buf}
	t, err := decodeTree(s)
	if err != nil {
		return nil, 0, err
	}
	return t, s.off, nil
}

func decodeTree(s *scanner) (*DirTree, error) {
	name, err := s.line(headerTreeName)
	if err != nil {
		return nil, err
	}
	if len(name) == 0 {
		return nil, ErrMalformed
	}
	count, err := s.intLine(headerTreeChildNo)
	if err != nil {
		return nil, err
	}
	// Every child costs bytes still ahead of the cursor, which bounds any
	// hostile count before the allocation below.
	if count < 0 || count > int64(len(s.buf)-s.off) {
		return nil, ErrMalformed
	}
	t := &DirTree{Name: string(name)}
	if count > 0 {
		t.Children = make([]*DirTree, count)
		for i := range t.Children {
			if t.Children[i], err = decodeTree(s); err != nil {
				return nil, err
			}
		}
	}
	return t, nil
}
