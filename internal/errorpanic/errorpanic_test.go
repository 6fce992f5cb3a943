// Copyright (c) 2026 Timo Savola. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package errorpanic

import (
	"testing"

	pkgerrors "github.com/pkg/errors"
	"github.com/stretchr/testify/assert"

	"gate.computer/stubcode/buffer"
	"gate.computer/stubcode/errors"
)

func recovered(f func()) (err error) {
	defer func() {
		err = Handle(recover())
	}()
	f()
	return
}

func TestHandle(t *testing.T) {
	assert.NoError(t, recovered(func() {}))

	err := recovered(func() { panic(pkgerrors.New("bad operand")) })
	assert.EqualError(t, err, "bad operand")

	err = recovered(func() { panic(buffer.ErrSizeLimit) })
	assert.Equal(t, errors.ErrStubTooLarge, err)
}

func TestRepanic(t *testing.T) {
	assert.Panics(t, func() {
		_ = recovered(func() { panic("string value") })
	})

	assert.Panics(t, func() {
		_ = recovered(func() {
			var s []int
			_ = s[1]
		})
	})
}
