// Copyright (c) 2019 Timo Savola. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package errors exports common error types without unnecessary dependencies.
package errors

import (
	"golang.org/x/xerrors"

	internal "gate.computer/stubcode/internal/errors"
)

var (
	// ErrOutOfExecutableMemory is returned when the code heap's limit would
	// be exceeded.
	ErrOutOfExecutableMemory = internal.LimitError("out of executable memory")

	// ErrStubTooLarge is returned when a stub exceeds the maximum code
	// size.
	ErrStubTooLarge = internal.LimitError("stub code size limit exceeded")

	// ErrPrecompiled is returned by operations which generate code at run
	// time when the table was configured for precompiled mode.
	ErrPrecompiled = internal.LimitError("code generation is disabled in precompiled mode")
)

// GenerationError identifies the stub whose generation or finalization
// failed.  It wraps the underlying error.
type GenerationError interface {
	error
	StubName() string
	Unwrap() error
}

// ResourceLimit is implemented by errors caused by a configured limit or
// mode.
type ResourceLimit interface {
	error
	ResourceLimit() bool
}

// AsGenerationError finds the first GenerationError in err's chain.
func AsGenerationError(err error) (e GenerationError, ok bool) {
	ok = xerrors.As(err, &e)
	return
}
