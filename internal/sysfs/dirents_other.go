// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

//go:build !linux && !darwin

package sysfs

import "golang.org/x/sys/unix"

// Getdirentries is not supported on this platform.
func Getdirentries(fd int, p []byte, basep int64) (int, int64, error) {
	return -1, basep, unix.ENOSYS
}
