// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package handle partitions the integer descriptor space into local and
// remote ranges.
//
// Descriptors below Offset belong to the local operating system and are
// passed straight through to the real primitives. Descriptors at or above
// Offset identify files opened on the remote server; the server-side value
// is the descriptor minus Offset. The translation is applied only on the
// client — on the wire and on the server, descriptors are always the
// server-local values.
package handle

// Offset separates local from remote descriptors. It is far above anything
// a single process plausibly allocates, so the two ranges never collide in
// practice.
const Offset = 12345

// IsRemote reports whether fd names a file on the remote server.
// Negative descriptors are invalid and never remote.
func IsRemote(fd int) bool {
	return fd >= Offset
}

// ToWire converts a client-visible remote descriptor to the server-local
// value carried on the wire. The caller must have checked IsRemote.
func ToWire(fd int) int {
	return fd - Offset
}

// FromWire converts a server-local descriptor received on the wire into the
// client-visible remote range. Failure sentinels (negative values) pass
// through unchanged so that -1 stays -1.
func FromWire(fd int) int {
	if fd < 0 {
		return fd
	}
	return fd + Offset
}
