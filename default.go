// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package remotefs

import (
	"sync"

	"code.hybscloud.com/remotefs/wire"
)

// The process-wide default client stands in for the persistent
// connection a shimmed process would create at library load: dialed from
// the environment on first use, it lives for the rest of the process.

var (
	defaultOnce   sync.Once
	defaultClient *Client
	defaultErr    error
)

// Default returns the process-wide client, dialing it on first use. The
// dial outcome is sticky: a process whose server is unreachable fails
// every call the same way.
func Default() (*Client, error) {
	defaultOnce.Do(func() {
		defaultClient, defaultErr = Dial()
	})
	return defaultClient, defaultErr
}

// Open forwards to the default client.
func Open(path string, flags int, mode uint32) (int, error) {
	c, err := Default()
	if err != nil {
		return -1, err
	}
	return c.Open(path, flags, mode)
}

// Close forwards to the default client.
func Close(fd int) error {
	c, err := Default()
	if err != nil {
		return err
	}
	return c.Close(fd)
}

// Read forwards to the default client.
func Read(fd int, p []byte) (int, error) {
	c, err := Default()
	if err != nil {
		return -1, err
	}
	return c.Read(fd, p)
}

// Write forwards to the default client.
func Write(fd int, p []byte) (int, error) {
	c, err := Default()
	if err != nil {
		return -1, err
	}
	return c.Write(fd, p)
}

// Lseek forwards to the default client.
func Lseek(fd int, offset int64, whence int) (int64, error) {
	c, err := Default()
	if err != nil {
		return -1, err
	}
	return c.Lseek(fd, offset, whence)
}

// Stat forwards to the default client.
func Stat(path string) (*wire.Stat, error) {
	c, err := Default()
	if err != nil {
		return nil, err
	}
	return c.Stat(path)
}

// Unlink forwards to the default client.
func Unlink(path string) error {
	c, err := Default()
	if err != nil {
		return err
	}
	return c.Unlink(path)
}

// Getdirentries forwards to the default client.
func Getdirentries(fd int, p []byte, basep *int64) (int, error) {
	c, err := Default()
	if err != nil {
		return -1, err
	}
	return c.Getdirentries(fd, p, basep)
}

// Getdirtree forwards to the default client.
func Getdirtree(path string) (*wire.DirTree, error) {
	c, err := Default()
	if err != nil {
		return nil, err
	}
	return c.Getdirtree(path)
}

// Freedirtree releases a tree obtained from Getdirtree. It needs no
// connection; the release is purely local.
func Freedirtree(t *wire.DirTree) {
	freeTree(t)
}
