//go:build !linux || (!amd64 && !arm64)
// +build !linux !amd64,!arm64

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

package sys

import (
	"syscall"
	"unsafe"
)

// Sbrk is a stub for platforms without a usable break primitive.
// Returns ENOSYS.
func Sbrk(delta int) (unsafe.Pointer, error) {
	return nil, syscall.ENOSYS
}

// Mmap is a stub for platforms without the anonymous mapping primitive.
// Returns ENOSYS.
func Mmap(length int) (unsafe.Pointer, error) {
	return nil, syscall.ENOSYS
}

// Munmap is a stub for platforms without the anonymous mapping primitive.
// Returns ENOSYS.
func Munmap(addr unsafe.Pointer, length int) error {
	return syscall.ENOSYS
}
