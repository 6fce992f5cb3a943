// Copyright (c) 2019 Timo Savola. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

//go:build !cgo

package dump

import (
	"errors"
	"io"

	"gate.computer/stubcode/arch"
)

func Text(w io.Writer, name string, text []byte, textAddr uintptr, a arch.Arch) error {
	return errors.New("object/debug/dump.Text requires cgo")
}
