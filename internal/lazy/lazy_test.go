// Copyright (c) 2026 Timo Savola. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package lazy

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetOnce(t *testing.T) {
	var c Cache[int, *string]
	var calls int32

	start := make(chan struct{})
	results := make([]*string, 32)

	var wg sync.WaitGroup
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			<-start

			v, _, err := c.Get(7, func() (*string, error) {
				atomic.AddInt32(&calls, 1)
				s := "seven"
				return &s, nil
			})
			assert.NoError(t, err)
			results[i] = v
		}(i)
	}

	close(start)
	wg.Wait()

	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
	for _, v := range results {
		assert.Same(t, results[0], v)
	}

	_, hit, err := c.Get(7, func() (*string, error) {
		t.Fatal("created twice")
		return nil, nil
	})
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, 1, c.Len())
}

func TestErrorNotCached(t *testing.T) {
	var c Cache[string, int]

	_, _, err := c.Get("x", func() (int, error) {
		return 0, errors.New("failed")
	})
	assert.EqualError(t, err, "failed")

	_, found := c.Load("x")
	assert.False(t, found)

	v, hit, err := c.Get("x", func() (int, error) { return 5, nil })
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Equal(t, 5, v)
}

func TestClear(t *testing.T) {
	var c Cache[int, int]

	for i := 0; i < 3; i++ {
		_, _, err := c.Get(i, func() (int, error) { return i * 10, nil })
		require.NoError(t, err)
	}

	sum := 0
	c.Range(func(k, v int) bool {
		sum += v
		return true
	})
	assert.Equal(t, 30, sum)

	c.Clear()
	assert.Zero(t, c.Len())
}
