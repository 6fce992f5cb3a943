// Copyright (c) 2026 Timo Savola. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package errors_test

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"golang.org/x/xerrors"

	werrors "gate.computer/stubcode/errors"
	internal "gate.computer/stubcode/internal/errors"
)

func TestAsGenerationError(t *testing.T) {
	err := errors.Wrap(internal.GenerationError("JumpToFrame", werrors.ErrStubTooLarge), "init")

	e, ok := werrors.AsGenerationError(err)
	assert.True(t, ok)
	assert.Equal(t, "JumpToFrame", e.StubName())
	assert.True(t, xerrors.Is(err, werrors.ErrStubTooLarge))

	_, ok = werrors.AsGenerationError(werrors.ErrOutOfExecutableMemory)
	assert.False(t, ok)

	_, ok = werrors.AsGenerationError(nil)
	assert.False(t, ok)
}

func TestResourceLimit(t *testing.T) {
	for _, err := range []error{
		werrors.ErrOutOfExecutableMemory,
		werrors.ErrStubTooLarge,
		werrors.ErrPrecompiled,
	} {
		var limit werrors.ResourceLimit
		assert.True(t, xerrors.As(err, &limit), err.Error())
	}
}
