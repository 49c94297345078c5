// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

//go:build !linux && !darwin

package sysfs

import (
	"os"
	"syscall"

	"code.hybscloud.com/remotefs/wire"
)

// Stat fills the portable projection. On platforms without a known raw
// stat layout, only the fields the standard library exposes are filled.
func Stat(path string) (*wire.Stat, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	st := &wire.Stat{
		Mode: uint32(fi.Mode()),
		Size: fi.Size(),
	}
	st.MtimeSec = fi.ModTime().Unix()
	st.MtimeNsec = int64(fi.ModTime().Nanosecond())
	if raw, ok := fi.Sys().(*syscall.Stat_t); ok {
		st.Ino = uint64(raw.Ino)
		st.Uid = raw.Uid
		st.Gid = raw.Gid
		st.Mode = uint32(raw.Mode)
	}
	return st, nil
}
