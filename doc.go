// ©Hayabusa Cloud Co., Ltd. 2025. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Package remotefs is the client side of a remote file-operation RPC: a
// fixed vocabulary of file-system primitives (open, close, read, write,
// lseek, stat, unlink, getdirentries, getdirtree, freedirtree) that
// transparently dispatch either to the local operating system or, for
// remote resources, to a networked server that performs the real
// operation on its own file system.
//
// Routing is by descriptor: values below handle.Offset are local and go
// straight to the OS; values at or above it identify files opened on the
// server. Path-taking primitives (open, stat, unlink, getdirtree) always
// go remote. The library presents a plain function surface — the
// dynamic-linker interposition that would substitute it for the standard
// symbols is an external collaborator.
//
// A Client holds one persistent connection with one outstanding call at
// a time; package-level functions forward to a process-wide default
// client dialed from the environment (server15440 / serverport15440) on
// first use.
//
// Return conventions mirror golang.org/x/sys/unix: the primary result
// plus an error, where remote failures surface as the server-reported
// syscall.Errno.
package remotefs
