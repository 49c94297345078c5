// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package server

import (
	"errors"

	"golang.org/x/sys/unix"

	"code.hybscloud.com/remotefs/internal/sysfs"
	"code.hybscloud.com/remotefs/transport"
	"code.hybscloud.com/remotefs/wire"
)

// maxDataChunk bounds READ/GETDIRENTRIES transfers so the response record
// always fits one frame alongside its headers and counters.
const maxDataChunk = transport.MaxPayload - 128

// errBadParams reports a request whose parameter shape does not match its
// operation. Such requests are logged and dropped without a reply.
var errBadParams = errors.New("server: parameter shape mismatch")

// dispatch executes one request. ok=false means no response is to be
// sent (parameter-shape violation or an operation with no server side).
func (ss *session) dispatch(req *wire.Request) (resp *wire.Response, ok bool) {
	op := req.Op
	ss.srv.metrics.requests.WithLabelValues(op.String()).Inc()

	var err error
	switch op {
	case wire.OpOpen:
		resp, err = ss.handleOpen(req)
	case wire.OpClose:
		resp, err = ss.handleClose(req)
	case wire.OpRead:
		resp, err = ss.handleRead(req)
	case wire.OpWrite:
		resp, err = ss.handleWrite(req)
	case wire.OpLseek:
		resp, err = ss.handleLseek(req)
	case wire.OpStat:
		resp, err = ss.handleStat(req)
	case wire.OpUnlink:
		resp, err = ss.handleUnlink(req)
	case wire.OpGetdirentries:
		resp, err = ss.handleGetdirentries(req)
	case wire.OpGetdirtree:
		resp, err = ss.handleGetdirtree(req)
	default:
		// freedirtree releases client-side memory only; a conforming
		// client never puts it on the wire.
		err = errBadParams
	}
	if err != nil {
		ss.log.WithField("op", op.String()).WithError(err).Warn("request dropped")
		return nil, false
	}
	if resp.Errno != 0 {
		ss.srv.metrics.requestErrors.WithLabelValues(op.String()).Inc()
	}
	return resp, true
}

func (ss *session) handleOpen(req *wire.Request) (*wire.Response, error) {
	path, err := reqString(req, 0, 3)
	if err != nil {
		return nil, err
	}
	flags, err := req.Int(1)
	if err != nil {
		return nil, errBadParams
	}
	mode, err := req.Int(2)
	if err != nil {
		return nil, errBadParams
	}

	fd, oerr := sysfs.Open(path, int(flags), uint32(mode))
	resp := wire.NewResponse(sysfs.Errno(oerr), 1)
	if oerr != nil {
		resp.PackInt(0, -1)
		return resp, nil
	}
	ss.fds[fd] = struct{}{}
	resp.PackInt(0, int64(fd))
	return resp, nil
}

func (ss *session) handleClose(req *wire.Request) (*wire.Response, error) {
	fd, err := reqFD(req, 1)
	if err != nil {
		return nil, err
	}
	if !ss.owns(fd) {
		return statusResponse(-1, int64(unix.EBADF)), nil
	}
	cerr := sysfs.Close(fd)
	delete(ss.fds, fd)
	if cerr != nil {
		return statusResponse(-1, sysfs.Errno(cerr)), nil
	}
	return statusResponse(0, 0), nil
}

func (ss *session) handleRead(req *wire.Request) (*wire.Response, error) {
	fd, err := reqFD(req, 2)
	if err != nil {
		return nil, err
	}
	count, err := req.Int(1)
	if err != nil {
		return nil, errBadParams
	}
	if !ss.owns(fd) {
		return dataResponse(-1, int64(unix.EBADF), nil), nil
	}
	if count < 0 {
		return dataResponse(-1, int64(unix.EINVAL), nil), nil
	}
	if count > maxDataChunk {
		count = maxDataChunk
	}

	buf := make([]byte, count)
	n, rerr := sysfs.Read(fd, buf)
	if rerr != nil {
		return dataResponse(-1, sysfs.Errno(rerr), nil), nil
	}
	return dataResponse(int64(n), 0, buf[:n]), nil
}

func (ss *session) handleWrite(req *wire.Request) (*wire.Response, error) {
	fd, err := reqFD(req, 3)
	if err != nil {
		return nil, err
	}
	data := req.Bytes(1)
	count, err := req.Int(2)
	if err != nil {
		return nil, errBadParams
	}
	if count != int64(len(data)) {
		// The length prefix is authoritative; a disagreeing count is a
		// codec violation, not a primitive failure.
		return nil, errBadParams
	}
	if !ss.owns(fd) {
		return statusResponse(-1, int64(unix.EBADF)), nil
	}

	n, werr := sysfs.Write(fd, data)
	if werr != nil {
		return statusResponse(-1, sysfs.Errno(werr)), nil
	}
	return statusResponse(int64(n), 0), nil
}

func (ss *session) handleLseek(req *wire.Request) (*wire.Response, error) {
	fd, err := reqFD(req, 3)
	if err != nil {
		return nil, err
	}
	offset, err := req.Int(1)
	if err != nil {
		return nil, errBadParams
	}
	whence, err := req.Int(2)
	if err != nil {
		return nil, errBadParams
	}
	if !ss.owns(fd) {
		return statusResponse(-1, int64(unix.EBADF)), nil
	}

	off, serr := sysfs.Seek(fd, offset, int(whence))
	if serr != nil {
		return statusResponse(-1, sysfs.Errno(serr)), nil
	}
	return statusResponse(off, 0), nil
}

func (ss *session) handleStat(req *wire.Request) (*wire.Response, error) {
	path, err := reqString(req, 0, 1)
	if err != nil {
		return nil, err
	}
	st, serr := sysfs.Stat(path)
	resp := wire.NewResponse(sysfs.Errno(serr), 2)
	if serr != nil {
		resp.PackInt(0, -1)
		resp.PackBytes(1, nil)
		return resp, nil
	}
	resp.PackInt(0, 0)
	resp.PackBytes(1, st.Append(nil))
	return resp, nil
}

func (ss *session) handleUnlink(req *wire.Request) (*wire.Response, error) {
	path, err := reqString(req, 0, 1)
	if err != nil {
		return nil, err
	}
	if uerr := sysfs.Unlink(path); uerr != nil {
		return statusResponse(-1, sysfs.Errno(uerr)), nil
	}
	return statusResponse(0, 0), nil
}

func (ss *session) handleGetdirentries(req *wire.Request) (*wire.Response, error) {
	fd, err := reqFD(req, 3)
	if err != nil {
		return nil, err
	}
	nbytes, err := req.Int(1)
	if err != nil {
		return nil, errBadParams
	}
	basep, err := req.Int(2)
	if err != nil {
		return nil, errBadParams
	}

	fail := func(errno int64) *wire.Response {
		resp := wire.NewResponse(errno, 3)
		resp.PackInt(0, -1)
		resp.PackBytes(1, nil)
		resp.PackInt(2, basep)
		return resp
	}
	if !ss.owns(fd) {
		return fail(int64(unix.EBADF)), nil
	}
	if nbytes < 0 {
		return fail(int64(unix.EINVAL)), nil
	}
	if nbytes > maxDataChunk {
		nbytes = maxDataChunk
	}

	buf := make([]byte, nbytes)
	n, newBase, gerr := sysfs.Getdirentries(fd, buf, basep)
	if gerr != nil {
		return fail(sysfs.Errno(gerr)), nil
	}
	resp := wire.NewResponse(0, 3)
	resp.PackInt(0, int64(n))
	resp.PackBytes(1, buf[:n])
	resp.PackInt(2, newBase)
	return resp, nil
}

func (ss *session) handleGetdirtree(req *wire.Request) (*wire.Response, error) {
	path, err := reqString(req, 0, 1)
	if err != nil {
		return nil, err
	}
	tree, terr := sysfs.DirTree(path)
	resp := wire.NewResponse(sysfs.Errno(terr), 1)
	if terr != nil {
		resp.PackBytes(0, nil)
		return resp, nil
	}
	enc := wire.AppendDirTree(nil, tree)
	if len(enc) > maxDataChunk {
		// A tree that cannot fit one frame is reported as a failure
		// rather than silently truncated.
		resp.Errno = int64(unix.ERANGE)
		resp.PackBytes(0, nil)
		return resp, nil
	}
	resp.PackBytes(0, enc)
	return resp, nil
}

// reqFD extracts parameter 0 as a descriptor after checking the request
// carries exactly arity parameters.
func reqFD(req *wire.Request, arity int) (int, error) {
	if len(req.Params) != arity {
		return 0, errBadParams
	}
	fd, err := req.Int(0)
	if err != nil {
		return 0, errBadParams
	}
	return int(fd), nil
}

// reqString extracts parameter i as a path after the arity check.
func reqString(req *wire.Request, i, arity int) (string, error) {
	if len(req.Params) != arity {
		return "", errBadParams
	}
	return string(req.Bytes(i)), nil
}

// statusResponse is the single-integral-return shape shared by close,
// write, lseek, and unlink.
func statusResponse(status, errno int64) *wire.Response {
	resp := wire.NewResponse(errno, 1)
	resp.PackInt(0, status)
	return resp
}

// dataResponse is the (count, payload) shape used by read.
func dataResponse(n, errno int64, data []byte) *wire.Response {
	resp := wire.NewResponse(errno, 2)
	resp.PackInt(0, n)
	resp.PackBytes(1, data)
	return resp
}
