// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

//go:build linux || freebsd || openbsd || darwin || netbsd || dragonfly

// Package kernel reports the host kernel version for startup diagnostics.
// The server logs it once so operator reports of platform-specific
// behavior (getdirentries emulation, stat field coverage) carry the
// kernel they ran on.
package kernel

import (
	"github.com/docker/docker/pkg/parsers/kernel"
)

// Version returns the running kernel version.
func Version() (*kernel.VersionInfo, error) {
	return kernel.GetKernelVersion()
}

// AtLeast reports whether the running kernel is version k.major.minor or
// newer. Errors degrade to false.
func AtLeast(k, major, minor int) bool {
	v, err := kernel.GetKernelVersion()
	if err != nil {
		return false
	}
	return kernel.CompareKernelVersion(*v, kernel.VersionInfo{Kernel: k, Major: major, Minor: minor}) >= 0
}
