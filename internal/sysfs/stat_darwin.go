// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

//go:build darwin

package sysfs

import (
	"golang.org/x/sys/unix"

	"code.hybscloud.com/remotefs/wire"
)

// Stat fills the portable projection from the host's stat structure.
func Stat(path string) (*wire.Stat, error) {
	var st unix.Stat_t
	for {
		err := unix.Stat(path, &st)
		if err == unix.EINTR {
			continue
		}
		if err != nil {
			return nil, err
		}
		break
	}
	return &wire.Stat{
		Dev:     uint64(st.Dev),
		Ino:     st.Ino,
		Nlink:   uint64(st.Nlink),
		Mode:    uint32(st.Mode),
		Uid:     st.Uid,
		Gid:     st.Gid,
		Rdev:    uint64(st.Rdev),
		Size:    st.Size,
		Blksize: int64(st.Blksize),
		Blocks:  st.Blocks,

		AtimeSec: st.Atimespec.Sec, AtimeNsec: st.Atimespec.Nsec,
		MtimeSec: st.Mtimespec.Sec, MtimeNsec: st.Mtimespec.Nsec,
		CtimeSec: st.Ctimespec.Sec, CtimeNsec: st.Ctimespec.Nsec,
	}, nil
}
