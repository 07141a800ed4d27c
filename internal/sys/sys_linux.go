//go:build linux && (amd64 || arm64)
// +build linux
// +build amd64 arm64

/*
 * Copyright 2025 CloudWeGo Authors
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package sys exposes the raw memory primitives the allocator is built on:
// program-break adjustment and anonymous page mappings.
package sys

import (
	"syscall"
	"unsafe"
)

// Sbrk adjusts the program break by delta bytes and returns the previous
// break. Sbrk(0) reports the current break without moving it. The Go
// runtime never touches the break, so the caller owns it for the lifetime
// of the process.
//
//go:nocheckptr
func Sbrk(delta int) (unsafe.Pointer, error) {
	// brk(0) is invalid and makes the kernel report the current break
	cur, _, _ := syscall.RawSyscall(syscall.SYS_BRK, 0, 0, 0)
	if delta == 0 {
		return unsafe.Pointer(cur), nil
	}
	want := cur + uintptr(delta)
	got, _, _ := syscall.RawSyscall(syscall.SYS_BRK, want, 0, 0)
	if got != want {
		// the kernel leaves the break untouched on failure
		return nil, syscall.ENOMEM
	}
	return unsafe.Pointer(cur), nil
}

// Mmap reserves length bytes of zero-filled anonymous memory with
// read/write protection and private semantics.
//
//go:nocheckptr
func Mmap(length int) (unsafe.Pointer, error) {
	addr, _, errno := syscall.RawSyscall6(syscall.SYS_MMAP,
		0, uintptr(length),
		syscall.PROT_READ|syscall.PROT_WRITE,
		syscall.MAP_PRIVATE|syscall.MAP_ANONYMOUS,
		^uintptr(0), 0)
	if errno != 0 {
		return nil, errno
	}
	return unsafe.Pointer(addr), nil
}

// Munmap releases a region previously obtained from Mmap. addr and length
// must describe the exact mapping.
func Munmap(addr unsafe.Pointer, length int) error {
	if _, _, errno := syscall.RawSyscall(syscall.SYS_MUNMAP,
		uintptr(addr), uintptr(length), 0); errno != 0 {
		return errno
	}
	return nil
}
