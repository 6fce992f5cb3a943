// Copyright (c) 2018 Timo Savola. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package buffer implements the byte buffers which stub code is emitted into.
package buffer

type sizeError string

func (s sizeError) Error() string           { return string(s) }
func (s sizeError) BufferSizeLimit() string { return string(s) }

// ErrSizeLimit implements interface{ BufferSizeLimit() string }.  Emission
// panics with it when a stub outgrows its buffer.
var ErrSizeLimit error = sizeError("stub code size limit exceeded")
