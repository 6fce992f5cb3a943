// Copyright (c) 2026 Timo Savola. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package stubcode

import (
	"github.com/pkg/errors"

	"gate.computer/stubcode/arch"
	"gate.computer/stubcode/code"
	werrors "gate.computer/stubcode/errors"
	"gate.computer/stubcode/internal/isa"
	"gate.computer/stubcode/pool"
	"gate.computer/stubcode/stub"
)

const (
	allocationPrefix = "_stub_Allocate"
	isolatePrefix    = "_iso_stub_"
)

// GetAllocationStubForClass returns the class's allocation stub, generating
// it on first request.  Concurrent requests for the same class wait for a
// single generation.  It panics if the class is not finalized.  In
// precompiled mode only a previously generated stub is returned; otherwise
// the error is ErrPrecompiled.
func (s *StubCode) GetAllocationStubForClass(cls Class) (*code.Code, error) {
	if !cls.IsFinalized() {
		panic(errors.Errorf("allocation stub requested for unfinalized class %s", cls.Name()))
	}

	if s.config.Precompiled {
		if c, found := s.allocation.Load(cls.ID()); found {
			s.metrics.cacheHits.WithLabelValues(modeAllocation).Inc()
			return c, nil
		}
		return nil, werrors.ErrPrecompiled
	}

	c, hit, err := s.allocation.Get(cls.ID(), func() (*code.Code, error) {
		emit := s.backend.AllocationEmitter(isa.AllocationLayout{
			ClassID:          uint32(cls.ID()),
			InstanceSize:     cls.InstanceSize(),
			NumTypeArguments: cls.NumTypeArguments(),
		})

		c, err := s.generate(allocationPrefix+cls.Name(), nil, emit, modeAllocation)
		if err != nil {
			return nil, err
		}

		s.index.Insert(c)
		return c, nil
	})
	if hit {
		s.metrics.cacheHits.WithLabelValues(modeAllocation).Inc()
	}
	return c, err
}

// AllocationStub returns a previously generated allocation stub, or nil.
func (s *StubCode) AllocationStub(id ClassID) *code.Code {
	c, _ := s.allocation.Load(id)
	return c
}

// GetBuildMethodExtractorStub returns nil if the architecture doesn't have
// the stub.  Otherwise the stub is generated once and published in the
// shared table.  The pool builder is consumed only by the generating call.
// In precompiled mode the stub published by Init is returned.
func (s *StubCode) GetBuildMethodExtractorStub(pb *pool.Builder) (*code.Code, error) {
	if !arch.Supports(s.arch, stub.BuildMethodExtractor) {
		return nil, nil
	}

	if s.config.Precompiled {
		if c := s.entries[stub.BuildMethodExtractor].Load(); c != nil {
			return c, nil
		}
		return nil, werrors.ErrPrecompiled
	}

	c, hit, err := s.extractor.Get(struct{}{}, func() (*code.Code, error) {
		emit, ok := s.backend.StubEmitter(stub.BuildMethodExtractor)
		if !ok {
			return nil, errors.Errorf("backend lacks %v stub", stub.BuildMethodExtractor)
		}

		c, err := s.generate(stub.BuildMethodExtractor.String(), pb, emit, modeExtractor)
		if err != nil {
			return nil, err
		}

		s.entries[stub.BuildMethodExtractor].CompareAndSwap(nil, c)
		return c, nil
	})
	if hit {
		s.metrics.cacheHits.WithLabelValues(modeExtractor).Inc()
	}
	return c, err
}

// BuildIsolateSpecific returns the isolate group's private variant of a
// stub, generating it on first request.  The result is nil if the
// architecture doesn't have the stub.  Run-time generation is disabled in
// precompiled mode.
func (s *StubCode) BuildIsolateSpecific(group IsolateGroupID, k stub.Kind, pb *pool.Builder) (*code.Code, error) {
	if s.config.Precompiled {
		return nil, werrors.ErrPrecompiled
	}

	emit, ok := s.backend.StubEmitter(k)
	if !ok {
		return nil, nil
	}

	c, hit, err := s.isolate.Get(isolateKey{group, k}, func() (*code.Code, error) {
		c, err := s.generate(isolatePrefix+k.String(), pb, emit, modeIsolate)
		if err != nil {
			return nil, err
		}

		s.index.Insert(c)
		return c, nil
	})
	if hit {
		s.metrics.cacheHits.WithLabelValues(modeIsolate).Inc()
	}
	return c, err
}

// IsolateSpecificEntry returns a previously generated variant, or nil.
func (s *StubCode) IsolateSpecificEntry(group IsolateGroupID, k stub.Kind) *code.Code {
	c, _ := s.isolate.Load(isolateKey{group, k})
	return c
}
