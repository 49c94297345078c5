// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package remotefs

import (
	"syscall"

	"golang.org/x/sys/unix"

	"code.hybscloud.com/remotefs/handle"
	"code.hybscloud.com/remotefs/internal/sysfs"
	"code.hybscloud.com/remotefs/wire"
)

// Every stub follows the same cycle: route locally when the descriptor
// test says so, otherwise build the request at the operation's arity,
// run one call, interpret return 0 as the primary result, and surface
// the server's errno when it signals failure.

// errnoError converts a failed response into the error the equivalent
// local primitive would have produced.
func errnoError(resp *wire.Response) error {
	if resp.Errno > 0 {
		return syscall.Errno(resp.Errno)
	}
	return unix.EIO
}

// Open opens a file on the server. The returned descriptor lives in the
// remote range; on failure it is -1 with the server-side errno.
func (c *Client) Open(path string, flags int, mode uint32) (int, error) {
	req := wire.NewRequest(wire.OpOpen, 3)
	req.PackBytes(0, []byte(path))
	req.PackInt(1, int64(flags))
	req.PackInt(2, int64(mode))

	resp, err := c.call(req)
	if err != nil {
		return -1, err
	}
	fd, err := resp.Int(0)
	if err != nil {
		return -1, ErrProtocol
	}
	if fd < 0 {
		return -1, errnoError(resp)
	}
	return handle.FromWire(int(fd)), nil
}

// Close releases fd, locally or on the server.
func (c *Client) Close(fd int) error {
	if !handle.IsRemote(fd) {
		return sysfs.Close(fd)
	}
	req := wire.NewRequest(wire.OpClose, 1)
	req.PackInt(0, int64(handle.ToWire(fd)))

	resp, err := c.call(req)
	if err != nil {
		return err
	}
	if status, err := resp.Int(0); err != nil {
		return ErrProtocol
	} else if status < 0 {
		return errnoError(resp)
	}
	return nil
}

// Read reads up to len(p) bytes from fd into p.
func (c *Client) Read(fd int, p []byte) (int, error) {
	if !handle.IsRemote(fd) {
		return sysfs.Read(fd, p)
	}
	req := wire.NewRequest(wire.OpRead, 2)
	req.PackInt(0, int64(handle.ToWire(fd)))
	req.PackInt(1, int64(len(p)))

	resp, err := c.call(req)
	if err != nil {
		return -1, err
	}
	n, err := resp.Int(0)
	if err != nil {
		return -1, ErrProtocol
	}
	if n < 0 {
		return -1, errnoError(resp)
	}
	data := resp.Bytes(1)
	if int64(len(data)) != n || n > int64(len(p)) {
		return -1, ErrProtocol
	}
	copy(p, data)
	return int(n), nil
}

// Write writes p to fd.
func (c *Client) Write(fd int, p []byte) (int, error) {
	if !handle.IsRemote(fd) {
		return sysfs.Write(fd, p)
	}
	req := wire.NewRequest(wire.OpWrite, 3)
	req.PackInt(0, int64(handle.ToWire(fd)))
	req.PackBytes(1, p)
	req.PackInt(2, int64(len(p)))

	resp, err := c.call(req)
	if err != nil {
		return -1, err
	}
	n, err := resp.Int(0)
	if err != nil {
		return -1, ErrProtocol
	}
	if n < 0 {
		return -1, errnoError(resp)
	}
	return int(n), nil
}

// Lseek repositions fd's offset and reports the new position.
func (c *Client) Lseek(fd int, offset int64, whence int) (int64, error) {
	if !handle.IsRemote(fd) {
		return sysfs.Seek(fd, offset, whence)
	}
	req := wire.NewRequest(wire.OpLseek, 3)
	req.PackInt(0, int64(handle.ToWire(fd)))
	req.PackInt(1, offset)
	req.PackInt(2, int64(whence))

	resp, err := c.call(req)
	if err != nil {
		return -1, err
	}
	off, err := resp.Int(0)
	if err != nil {
		return -1, ErrProtocol
	}
	if off < 0 {
		return -1, errnoError(resp)
	}
	return off, nil
}

// Stat fetches the portable stat projection for a server-side path.
func (c *Client) Stat(path string) (*wire.Stat, error) {
	req := wire.NewRequest(wire.OpStat, 1)
	req.PackBytes(0, []byte(path))

	resp, err := c.call(req)
	if err != nil {
		return nil, err
	}
	status, err := resp.Int(0)
	if err != nil {
		return nil, ErrProtocol
	}
	if status < 0 {
		return nil, errnoError(resp)
	}
	st, err := wire.DecodeStat(resp.Bytes(1))
	if err != nil {
		return nil, ErrProtocol
	}
	return st, nil
}

// Unlink removes a server-side path.
func (c *Client) Unlink(path string) error {
	req := wire.NewRequest(wire.OpUnlink, 1)
	req.PackBytes(0, []byte(path))

	resp, err := c.call(req)
	if err != nil {
		return err
	}
	if status, err := resp.Int(0); err != nil {
		return ErrProtocol
	} else if status < 0 {
		return errnoError(resp)
	}
	return nil
}

// Getdirentries reads directory entries from fd into p starting at
// *basep, advancing *basep past the entries read.
func (c *Client) Getdirentries(fd int, p []byte, basep *int64) (int, error) {
	if !handle.IsRemote(fd) {
		n, newBase, err := sysfs.Getdirentries(fd, p, *basep)
		if err == nil {
			*basep = newBase
		}
		return n, err
	}
	req := wire.NewRequest(wire.OpGetdirentries, 3)
	req.PackInt(0, int64(handle.ToWire(fd)))
	req.PackInt(1, int64(len(p)))
	req.PackInt(2, *basep)

	resp, err := c.call(req)
	if err != nil {
		return -1, err
	}
	n, err := resp.Int(0)
	if err != nil {
		return -1, ErrProtocol
	}
	if n < 0 {
		return -1, errnoError(resp)
	}
	data := resp.Bytes(1)
	newBase, err := resp.Int(2)
	if err != nil || int64(len(data)) != n || n > int64(len(p)) {
		return -1, ErrProtocol
	}
	copy(p, data)
	*basep = newBase
	return int(n), nil
}

// Getdirtree fetches the recursive directory tree rooted at a
// server-side path. The caller releases it with Freedirtree.
func (c *Client) Getdirtree(path string) (*wire.DirTree, error) {
	req := wire.NewRequest(wire.OpGetdirtree, 1)
	req.PackBytes(0, []byte(path))

	resp, err := c.call(req)
	if err != nil {
		return nil, err
	}
	enc := resp.Bytes(0)
	if len(enc) == 0 {
		// Empty tree payload is the failure signal for this operation.
		return nil, errnoError(resp)
	}
	tree, n, err := wire.DecodeDirTree(enc)
	if err != nil || n != len(enc) {
		return nil, ErrProtocol
	}
	return tree, nil
}

// Freedirtree releases a tree obtained from Getdirtree. Purely local:
// it drops the child references so the structure is collectable even
// while the caller still holds interior node pointers.
func (c *Client) Freedirtree(t *wire.DirTree) {
	freeTree(t)
}

func freeTree(t *wire.DirTree) {
	if t == nil {
		return
	}
	for _, child := range t.Children {
		freeTree(child)
	}
	t.Children = nil
}
