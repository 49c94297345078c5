// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package server

import (
	"errors"

	"github.com/sirupsen/logrus"
	"golang.org/x/sys/unix"

	"code.hybscloud.com/remotefs/internal/sysfs"
	"code.hybscloud.com/remotefs/transport"
	"code.hybscloud.com/remotefs/wire"
)

// session services exactly one client connection. It owns the two
// per-connection buffers (re-assembly and serialization) and the set of
// descriptors the client opened, which are force-closed on teardown.
type session struct {
	srv  *Server
	conn *transport.Conn
	log  logrus.FieldLogger

	recv    *transport.Buffer
	send    *transport.Sender
	scratch []byte

	fds map[int]struct{}
}

func newSession(s *Server, conn *transport.Conn, id string) *session {
	return &session{
		srv:  s,
		conn: conn,
		log: s.log.WithFields(logrus.Fields{
			"conn": id,
			"peer": conn.RemoteAddr(),
		}),
		recv:    transport.NewBuffer(),
		send:    transport.NewSender(),
		scratch: make([]byte, 0, transport.StorageSize),
		fds:     make(map[int]struct{}),
	}
}

func (ss *session) run() {
	ss.srv.metrics.activeConns.Inc()
	ss.log.Debug("client connected")
	defer func() {
		ss.teardown()
		ss.srv.metrics.activeConns.Dec()
		ss.log.Debug("client disconnected")
	}()

	for {
		payload, err := ss.recv.Await(ss.conn)
		if err != nil {
			if !errors.Is(err, transport.ErrPeerClosed) {
				ss.log.WithError(err).Warn("receive failed")
			}
			return
		}
		ss.srv.metrics.bytesRead.Add(float64(len(payload)))

		req, err := wire.DecodeRequest(payload)
		if err != nil {
			if errors.Is(err, wire.ErrBadOp) {
				// Unknown operation: drop the request, keep the stream.
				ss.log.Warn("unknown operation, request dropped")
				continue
			}
			// An undecodable frame would leave the client waiting forever;
			// answer with a protocol-error response, then tear down.
			ss.log.WithError(err).Warn("undecodable request")
			ss.reply(protocolError())
			return
		}

		resp, ok := ss.dispatch(req)
		if !ok {
			// Parameter-shape violation: logged, no reply.
			continue
		}
		if !ss.reply(resp) {
			return
		}
	}
}

// reply serializes and sends one response; false means the connection is
// no longer usable.
func (ss *session) reply(resp *wire.Response) bool {
	ss.scratch = resp.Append(ss.scratch[:0])
	if err := ss.send.Send(ss.conn, ss.scratch); err != nil {
		ss.log.WithError(err).Warn("send failed")
		return false
	}
	ss.srv.metrics.bytesWritten.Add(float64(len(ss.scratch)))
	return true
}

// protocolError is the response for frames that decode to no request:
// errno EBADMSG with a single failed primary return.
func protocolError() *wire.Response {
	resp := wire.NewResponse(int64(unix.EBADMSG), 1)
	resp.PackInt(0, -1)
	return resp
}

// owns reports whether fd was opened by this client. Operating on other
// descriptors is refused with EBADF, which also keeps one client out of
// another's files.
func (ss *session) owns(fd int) bool {
	_, ok := ss.fds[fd]
	return ok
}

func (ss *session) teardown() {
	for fd := range ss.fds {
		sysfs.Close(fd)
	}
	ss.fds = nil
	ss.conn.Close()
}
