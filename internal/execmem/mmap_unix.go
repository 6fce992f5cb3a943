// Copyright (c) 2026 Timo Savola. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

//go:build unix

package execmem

import (
	"golang.org/x/sys/unix"
)

// Executable reports whether regions can be executed.
const Executable = true

var pageSize = unix.Getpagesize()

func PageSize() int {
	return pageSize
}

func mapCopy(text []byte, size int) (mem []byte, err error) {
	mem, err = unix.Mmap(-1, 0, size, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_PRIVATE|unix.MAP_ANON)
	if err != nil {
		return
	}

	copy(mem, text)

	if err = unix.Mprotect(mem, unix.PROT_READ|unix.PROT_EXEC); err != nil {
		unix.Munmap(mem)
		mem = nil
	}
	return
}

func unmap(mem []byte) error {
	return unix.Munmap(mem)
}
