// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package sysfs executes the file-system primitives on behalf of the
// server dispatcher. It is a thin layer over the raw system calls so the
// dispatcher stays free of OS details; every failure carries a
// syscall.Errno, bare or wrapped (as in *os.PathError), which Errno
// extracts and the dispatcher forwards to the client verbatim.
package sysfs

import (
	"errors"
	"os"
	"path/filepath"
	"syscall"

	"golang.org/x/sys/unix"

	"code.hybscloud.com/remotefs/wire"
)

// Errno extracts the numeric errno from err, unwrapping path errors and
// the like. A nil error is 0; errors that do not carry an errno (never
// produced by this package) map to EIO.
func Errno(err error) int64 {
	if err == nil {
		return 0
	}
	var errno syscall.Errno
	if errors.As(err, &errno) {
		return int64(errno)
	}
	return int64(unix.EIO)
}

// Open opens path with the client-supplied flags and mode.
func Open(path string, flags int, mode uint32) (int, error) {
	for {
		fd, err := unix.Open(path, flags|unix.O_CLOEXEC, mode)
		if err == unix.EINTR {
			continue
		}
		return fd, err
	}
}

// Close releases fd.
func Close(fd int) error {
	return unix.Close(fd)
}

// Read reads up to len(p) bytes from fd.
func Read(fd int, p []byte) (int, error) {
	for {
		n, err := unix.Read(fd, p)
		if err == unix.EINTR {
			continue
		}
		return n, err
	}
}

// Write writes p to fd.
func Write(fd int, p []byte) (int, error) {
	for {
		n, err := unix.Write(fd, p)
		if err == unix.EINTR {
			continue
		}
		return n, err
	}
}

// Seek repositions fd's offset.
func Seek(fd int, offset int64, whence int) (int64, error) {
	return unix.Seek(fd, offset, whence)
}

// Unlink removes path.
func Unlink(path string) error {
	return unix.Unlink(path)
}

// DirTree walks path recursively and builds the directory tree, children
// in the order the operating system reports them. The root node carries
// the final path component.
func DirTree(path string) (*wire.DirTree, error) {
	root := &wire.DirTree{Name: filepath.Base(path)}
	if err := fillTree(path, root); err != nil {
		return nil, err
	}
	return root, nil
}

func fillTree(path string, node *wire.DirTree) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	// ReadDir on the handle keeps the OS ordering; os.ReadDir would sort.
	entries, err := f.ReadDir(-1)
	f.Close()
	if err != nil {
		return err
	}
	node.Children = make([]*wire.DirTree, 0, len(entries))
	for _, e := range entries {
		child := &wire.DirTree{Name: e.Name()}
		if e.IsDir() {
			if err := fillTree(filepath.Join(path, e.Name()), child); err != nil {
				return err
			}
		}
		node.Children = append(node.Children, child)
	}
	return nil
}
