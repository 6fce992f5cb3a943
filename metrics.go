// Copyright (c) 2026 Timo Savola. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package stubcode

import (
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
)

// Generation modes.
const (
	modeShared     = "shared"
	modeAllocation = "allocation"
	modeExtractor  = "extractor"
	modeIsolate    = "isolate"
	modeCustom     = "custom"
)

type metrics struct {
	generated       *prometheus.CounterVec
	cacheHits       *prometheus.CounterVec
	executableBytes prometheus.Gauge
}

func newMetrics(r prometheus.Registerer) (*metrics, error) {
	m := &metrics{
		generated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "stubcode",
			Name:      "stubs_generated_total",
			Help:      "Number of stubs generated, by generation mode.",
		}, []string{"mode"}),

		cacheHits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "stubcode",
			Name:      "lazy_cache_hits_total",
			Help:      "Number of lazily generated stub requests served from cache.",
		}, []string{"mode"}),

		executableBytes: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "stubcode",
			Name:      "executable_bytes",
			Help:      "Executable memory mapped by the stub code heap.",
		}),
	}

	if r != nil {
		for _, c := range []prometheus.Collector{m.generated, m.cacheHits, m.executableBytes} {
			if err := r.Register(c); err != nil {
				return nil, errors.Wrap(err, "registering metrics")
			}
		}
	}

	return m, nil
}

// updateHeapMetrics must be called with s.mu held.
func (s *StubCode) updateHeapMetrics() {
	if s.heap != nil {
		allocated, _ := s.heap.Stats()
		s.metrics.executableBytes.Set(float64(allocated))
	}
}
