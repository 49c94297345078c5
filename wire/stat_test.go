// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package wire_test

import (
	"errors"
	"testing"

	"code.hybscloud.com/remotefs/wire"
)

func TestStatRoundTrip(t *testing.T) {
	t.Parallel()

	want := &wire.Stat{
		Dev: 0x801, Ino: 131072, Nlink: 2,
		Mode: 0o100644, Uid: 1000, Gid: 1000,
		Rdev: 0, Size: 13, Blksize: 4096, Blocks: 8,
		AtimeSec: 1700000000, AtimeNsec: 999999999,
		MtimeSec: 1700000001, MtimeNsec: 1,
		CtimeSec: 1700000002, CtimeNsec: 0,
	}
	enc := want.Append(nil)
	if len(enc) != wire.StatLen {
		t.Fatalf("encoded len=%d want=%d", len(enc), wire.StatLen)
	}
	got, err := wire.DecodeStat(enc)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if *got != *want {
		t.Fatalf("stat mismatch:\n got=%+v\nwant=%+v", got, want)
	}
}

func TestStatNegativeSize(t *testing.T) {
	t.Parallel()

	// Signed fields survive the unsigned wire representation.
	want := &wire.Stat{Size: -1, AtimeSec: -62135596800}
	got, err := wire.DecodeStat(want.Append(nil))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Size != -1 || got.AtimeSec != want.AtimeSec {
		t.Fatalf("got=%+v", got)
	}
}

func TestStatBadLength(t *testing.T) {
	t.Parallel()

	for _, n := range []int{0, 1, wire.StatLen - 1, wire.StatLen + 1} {
		if _, err := wire.DecodeStat(make([]byte, n)); !errors.Is(err, wire.ErrMalformed) {
			t.Fatalf("len=%d err=%v", n, err)
		}
	}
}
