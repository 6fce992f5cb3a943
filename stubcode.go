// Copyright (c) 2026 Timo Savola. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package stubcode maintains the shared machine code stubs of a virtual machine
and identifies code addresses which belong to them.

A StubCode table is generated once by Init and is read concurrently by
compilers, stack walkers and profilers.  Class allocation stubs, the method
extractor stub and isolate-specific stub variants are generated on first
request and cached for the lifetime of the table.

# Errors

GenerationError and ResourceLimit error types are accessible via errors
subpackage.  Programming errors, such as initializing the table twice or
requesting an allocation stub for an unfinalized class, cause panics.  Absent
optional stubs are reported as nil values.
*/
package stubcode

import (
	"sync"
	"sync/atomic"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"gate.computer/stubcode/arch"
	"gate.computer/stubcode/class"
	"gate.computer/stubcode/code"
	"gate.computer/stubcode/config"
	"gate.computer/stubcode/dispatch"
	"gate.computer/stubcode/internal/codeindex"
	"gate.computer/stubcode/internal/isa"
	"gate.computer/stubcode/internal/lazy"
	"gate.computer/stubcode/internal/stubgen"
	"gate.computer/stubcode/stub"
)

type (
	ClassID        = class.ID
	IsolateGroupID uint64
)

// Class whose instances can be allocated by a generated stub.
type Class interface {
	ID() ClassID
	Name() string
	InstanceSize() int // Bytes, including the object header.
	NumTypeArguments() int
	IsFinalized() bool
}

type isolateKey struct {
	group IsolateGroupID
	kind  stub.Kind
}

type Option func(*StubCode)

// WithLogger replaces the default no-op logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *StubCode) { s.log = l }
}

// WithRegisterer registers the table's metrics.
func WithRegisterer(r prometheus.Registerer) Option {
	return func(s *StubCode) { s.registerer = r }
}

// WithFinalizer replaces the default executable memory heap.  The table
// doesn't release memory allocated by a custom finalizer.
func WithFinalizer(f code.Finalizer) Option {
	return func(s *StubCode) { s.customFinalizer = f }
}

// WithBackend replaces the built-in emitters of the configured
// architecture.
func WithBackend(b isa.Backend) Option {
	return func(s *StubCode) { s.backend = b }
}

// StubCode is the shared stub table.  Its methods may be called
// concurrently, except that Init and Cleanup must not race with other
// calls.
type StubCode struct {
	config          config.Config
	arch            arch.Arch
	features        arch.Features
	backend         isa.Backend
	log             *zap.Logger
	registerer      prometheus.Registerer
	metrics         *metrics
	customFinalizer code.Finalizer

	lifecycle   sync.Mutex // Serializes Init and Cleanup.
	initialized atomic.Bool
	entries     [stub.NumKinds]atomic.Pointer[code.Code]

	mu         sync.RWMutex
	heap       *code.Heap // Nil if custom finalizer is used.
	cacheTable *dispatch.CacheTable

	allocation lazy.Cache[ClassID, *code.Code]
	extractor  lazy.Cache[struct{}, *code.Code]
	isolate    lazy.Cache[isolateKey, *code.Code]
	index      *codeindex.Index
}

// New table for the configured architecture.  The table must be
// initialized before the shared stubs can be used.
func New(cfg config.Config, opts ...Option) (*StubCode, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid configuration")
	}

	target, err := cfg.Target()
	if err != nil {
		return nil, err
	}

	s := &StubCode{
		config:   cfg,
		arch:     target,
		features: arch.HostFeatures(target),
		log:      zap.NewNop(),
		index:    codeindex.New(),
	}

	for _, o := range opts {
		o(s)
	}

	if s.backend == nil {
		b, err := stubgen.ForArch(target, s.features)
		if err != nil {
			return nil, err
		}
		s.backend = b
	} else if s.backend.Arch() != target {
		return nil, errors.Errorf("backend architecture %v doesn't match configuration %v", s.backend.Arch(), target)
	}

	s.metrics, err = newMetrics(s.registerer)
	if err != nil {
		return nil, err
	}

	if s.customFinalizer == nil {
		s.heap = code.NewHeap(int64(cfg.ExecutableMemoryLimit))
	}

	s.log = s.log.With(zap.Stringer("arch", target))
	return s, nil
}

func (s *StubCode) Arch() arch.Arch {
	return s.arch
}

func (s *StubCode) Config() config.Config {
	return s.config
}

// Init generates every shared stub which the architecture supports, in
// declaration order.  In precompiled mode the deferred stubs are generated
// too, since nothing is generated after initialization.  Nothing is
// published if generation fails.  Init panics if the table has already been
// initialized.
func (s *StubCode) Init() error {
	s.lifecycle.Lock()
	defer s.lifecycle.Unlock()

	if s.initialized.Load() {
		panic("stub code initialized twice")
	}

	var (
		generated [stub.NumKinds]*code.Code
		count     int
		size      int
	)

	for _, k := range stub.Kinds() {
		if k.Deferred() && !s.config.Precompiled {
			continue
		}

		emit, ok := s.backend.StubEmitter(k)
		if !ok {
			s.log.Debug("stub not supported", zap.Stringer("kind", k))
			continue
		}

		c, err := s.generate(k.String(), nil, emit, modeShared)
		if err != nil {
			s.log.Error("stub generation failed", zap.Stringer("kind", k), zap.Error(err))
			s.free(generated[:])
			return err
		}

		generated[k] = c
		count++
		size += c.Size()
	}

	for k, c := range generated {
		if c != nil {
			s.entries[k].Store(c)
		}
	}
	s.initialized.Store(true)

	s.log.Info("stub code initialized", zap.Int("stubs", count), zap.Int("bytes", size))
	return nil
}

// Cleanup clears the table and releases the code owned by it.  Code
// objects obtained from the table must not be used afterwards.  The table
// may be initialized again.
func (s *StubCode) Cleanup() {
	s.lifecycle.Lock()
	defer s.lifecycle.Unlock()

	s.initialized.Store(false)
	for i := range s.entries {
		s.entries[i].Store(nil)
	}

	s.allocation.Clear()
	s.extractor.Clear()
	s.isolate.Clear()
	s.index.Clear()

	s.mu.Lock()
	s.cacheTable = nil
	s.mu.Unlock()

	s.releaseHeap()
	s.log.Info("stub code cleaned up")
}

// free unpublished code objects.
func (s *StubCode) free(codes []*code.Code) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.heap == nil {
		return
	}

	for _, c := range codes {
		if c != nil {
			if err := s.heap.Free(c); err != nil {
				s.log.Warn("releasing executable memory", zap.Error(err))
			}
		}
	}
	s.updateHeapMetrics()
}

// releaseHeap replaces the owned heap with an empty one.
func (s *StubCode) releaseHeap() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.heap == nil {
		return
	}

	if err := s.heap.Close(); err != nil {
		s.log.Warn("releasing executable memory", zap.Error(err))
	}
	s.heap = code.NewHeap(int64(s.config.ExecutableMemoryLimit))
	s.updateHeapMetrics()
}

func (s *StubCode) HasBeenInitialized() bool {
	return s.initialized.Load()
}

// NumEntries is the size of the shared table.
func (s *StubCode) NumEntries() int {
	return int(stub.NumKinds)
}

// Entry of the shared table, or nil if the kind hasn't been generated.
func (s *StubCode) Entry(k stub.Kind) *code.Code {
	if !k.Valid() {
		panic(errors.Errorf("invalid stub kind: %v", k))
	}
	return s.entries[k].Load()
}

// UnoptimizedStaticCallEntry selects the static call stub which tests the
// given number of arguments.  It panics if the number is out of range.
func (s *StubCode) UnoptimizedStaticCallEntry(numArgsTested int) *code.Code {
	return s.Entry(stub.UnoptimizedStaticCall(numArgsTested))
}

// MegamorphicCacheTable returns the dispatch collaborator which may install
// deferred stubs into the table.
func (s *StubCode) MegamorphicCacheTable() *dispatch.CacheTable {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cacheTable == nil {
		s.cacheTable = dispatch.NewCacheTable(privileged{s})
	}
	return s.cacheTable
}
