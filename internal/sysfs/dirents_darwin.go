// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

//go:build darwin

package sysfs

import "golang.org/x/sys/unix"

// Getdirentries reads directory entries from fd into p, starting at the
// directory position basep, and reports the position after the read.
func Getdirentries(fd int, p []byte, basep int64) (int, int64, error) {
	base := uintptr(basep)
	n, err := unix.Getdirentries(fd, p, &base)
	if err != nil {
		return -1, basep, err
	}
	return n, int64(base), nil
}
