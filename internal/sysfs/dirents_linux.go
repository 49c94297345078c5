// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

//go:build linux

package sysfs

import "golang.org/x/sys/unix"

// Getdirentries reads directory entries from fd into p, starting at the
// directory position basep, and reports the position after the read.
// Linux has no getdirentries(2); the basep contract is emulated with an
// explicit seek around getdents64.
func Getdirentries(fd int, p []byte, basep int64) (int, int64, error) {
	if _, err := unix.Seek(fd, basep, unix.SEEK_SET); err != nil {
		return -1, basep, err
	}
	var n int
	for {
		var err error
		n, err = unix.Getdents(fd, p)
		if err == unix.EINTR {
			continue
		}
		if err != nil {
			return -1, basep, err
		}
		break
	}
	newBase, err := unix.Seek(fd, 0, unix.SEEK_CUR)
	if err != nil {
		return -1, basep, err
	}
	return n, newBase, nil
}
