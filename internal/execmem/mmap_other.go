// Copyright (c) 2026 Timo Savola. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

//go:build !unix

package execmem

// Executable reports whether regions can be executed.  Regions are plain
// heap memory on this platform.
const Executable = false

func PageSize() int {
	return 4096
}

func mapCopy(text []byte, size int) ([]byte, error) {
	mem := make([]byte, size)
	copy(mem, text)
	return mem, nil
}

func unmap([]byte) error {
	return nil
}
