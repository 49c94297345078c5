// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package wire

import "encoding/binary"

// StatLen is the size of the encoded stat block: sixteen 8-byte fields.
const StatLen = 16 * 8

// Stat is the portable projection of the server's stat structure. The raw
// OS struct differs per architecture and libc, so the server fills this
// fixed layout instead and the block compares byte-for-byte across
// platforms.
//
// Wire layout: each field below in order, 8 bytes big-endian.
type Stat struct {
	Dev     uint64
	Ino     uint64
	Nlink   uint64
	Mode    uint32
	Uid     uint32
	Gid     uint32
	Rdev    uint64
	Size    int64
	Blksize int64
	Blocks  int64

	AtimeSec  int64
	AtimeNsec int64
	MtimeSec  int64
	MtimeNsec int64
	CtimeSec  int64
	CtimeNsec int64
}

// Append serializes the block onto dst and returns the extended slice.
func (st *Stat) Append(dst []byte) []byte {
	fields := [16]uint64{
		st.Dev, st.Ino, st.Nlink,
		uint64(st.Mode), uint64(st.Uid), uint64(st.Gid),
		st.Rdev, uint64(st.Size), uint64(st.Blksize), uint64(st.Blocks),
		uint64(st.AtimeSec), uint64(st.AtimeNsec),
		uint64(st.MtimeSec), uint64(st.MtimeNsec),
		uint64(st.CtimeSec), uint64(st.CtimeNsec),
	}
	var b [8]byte
	for _, f := range fields {
		binary.BigEndian.PutUint64(b[:], f)
		dst = append(dst, b[:]...)
	}
	return dst
}

// DecodeStat reconstructs a stat block from exactly StatLen bytes.
func DecodeStat(buf []byte) (*Stat, error) {
	if len(buf) != StatLen {
		return nil, ErrMalformed
	}
	var f [16]uint64
	for i := range f {
		f[i] = binary.BigEndian.Uint64(buf[i*8:])
	}
	return &Stat{
		Dev: f[0], Ino: f[1], Nlink: f[2],
		Mode: uint32(f[3]), Uid: uint32(f[4]), Gid: uint32(f[5]),
		Rdev: f[6], Size: int64(f[7]), Blksize: int64(f[8]), Blocks: int64(f[9]),
		AtimeSec: int64(f[10]), AtimeNsec: int64(f[11]),
		MtimeSec: int64(f[12]), MtimeNsec: int64(f[13]),
		CtimeSec: int64(f[14]), CtimeNsec: int64(f[15]),
	}, nil
}
