// Copyright (c) 2019 Timo Savola. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package errors

import (
	"fmt"
)

type generationError struct {
	name  string
	cause error
}

// GenerationError attributes the cause to the named stub.
func GenerationError(name string, cause error) error {
	return &generationError{name, cause}
}

func (e *generationError) Error() string {
	return fmt.Sprintf("generating stub %s: %v", e.name, e.cause)
}

func (e *generationError) StubName() string { return e.name }
func (e *generationError) Unwrap() error    { return e.cause }

type limitError string

// LimitError indicates that a resource limit was reached.
func LimitError(text string) error {
	return limitError(text)
}

func (s limitError) Error() string       { return string(s) }
func (s limitError) ResourceLimit() bool { return true }
