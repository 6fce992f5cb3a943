// Copyright (c) 2026 Timo Savola. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package stubcode

import (
	"go.uber.org/zap"

	"gate.computer/stubcode/asm"
	"gate.computer/stubcode/code"
	werrors "gate.computer/stubcode/errors"
	"gate.computer/stubcode/internal/errorpanic"
	internal "gate.computer/stubcode/internal/errors"
	"gate.computer/stubcode/pool"
)

// Generate a stub by running the emitter and finalizing the result into
// executable memory.  A new object pool builder is used if pb is nil;
// otherwise pb is consumed.  The code is not published in the shared table,
// but LookupCode finds it.  Run-time generation is disabled in precompiled
// mode.
func (s *StubCode) Generate(name string, pb *pool.Builder, emit asm.EmitFunc) (*code.Code, error) {
	if s.config.Precompiled {
		return nil, werrors.ErrPrecompiled
	}

	c, err := s.generate(name, pb, emit, modeCustom)
	if err != nil {
		return nil, err
	}

	s.index.Insert(c)
	return c, nil
}

func (s *StubCode) generate(name string, pb *pool.Builder, emit asm.EmitFunc, mode string) (*code.Code, error) {
	text, p, err := s.assemble(pb, emit)
	if err != nil {
		return nil, internal.GenerationError(name, err)
	}

	c, err := s.finalize(name, text, p)
	if err != nil {
		return nil, internal.GenerationError(name, err)
	}

	s.metrics.generated.WithLabelValues(mode).Inc()

	if ce := s.log.Check(zap.DebugLevel, "stub generated"); ce != nil {
		ce.Write(
			zap.String("name", name),
			zap.String("mode", mode),
			zap.Int("size", c.Size()),
			zap.Uintptr("entry", c.EntryPoint()),
			zap.Int("pool", p.Len()),
		)
	}

	return c, nil
}

func (s *StubCode) assemble(pb *pool.Builder, emit asm.EmitFunc) (text []byte, p *pool.Pool, err error) {
	defer func() {
		if x := recover(); x != nil {
			err = errorpanic.Handle(x)
		}
	}()

	a := asm.New(s.arch, s.features, pb, int(s.config.MaxStubSize))
	emit(a)
	text, p = a.Finalize()
	return
}

func (s *StubCode) finalize(name string, text []byte, p *pool.Pool) (*code.Code, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.customFinalizer != nil {
		return s.customFinalizer.Finalize(name, text, p)
	}

	c, err := s.heap.Finalize(name, text, p)
	if err == nil {
		s.updateHeapMetrics()
	}
	return c, err
}
