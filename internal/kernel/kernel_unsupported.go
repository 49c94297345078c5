// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

//go:build !linux && !freebsd && !openbsd && !darwin && !netbsd && !dragonfly

package kernel

import (
	"errors"

	"github.com/docker/docker/pkg/parsers/kernel"
)

// Version is unavailable on this platform.
func Version() (*kernel.VersionInfo, error) {
	return nil, errors.New("kernel version detection is not available on this platform")
}

// AtLeast always reports false on this platform.
func AtLeast(k, major, minor int) bool { return false }
