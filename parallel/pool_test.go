// SPDX-License-Identifier: MIT

package parallel_test

import (
	"context"
	"errors"
	"runtime"
	"sort"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/katalvlaran/matinv/parallel"
)

type PoolSuite struct {
	suite.Suite
	ctx context.Context
}

func (s *PoolSuite) SetupTest() {
	s.ctx = context.Background()
}

func TestPoolSuite(t *testing.T) {
	suite.Run(t, new(PoolSuite))
}

func (s *PoolSuite) TestDefaultWorkers() {
	s.Equal(runtime.NumCPU(), parallel.NewPool(0).Workers())
	s.Equal(runtime.NumCPU(), parallel.NewPool(-3).Workers())
	s.Equal(3, parallel.NewPool(3).Workers())
}

func (s *PoolSuite) TestChunkSize() {
	p := parallel.NewPool(4)
	s.Equal(0, p.ChunkSize(0))
	s.Equal(1, p.ChunkSize(3))
	s.Equal(3, p.ChunkSize(10))
	s.Equal(25, p.ChunkSize(100))
}

func (s *PoolSuite) TestRangeCoversEveryIndexOnce() {
	for _, workers := range []int{1, 2, 3, 7, 16} {
		p := parallel.NewPool(workers)
		const n = 101
		var hits [n]int32
		var mu sync.Mutex
		var chunks [][2]int

		err := p.Range(s.ctx, 0, n, func(lo, hi int) error {
			mu.Lock()
			chunks = append(chunks, [2]int{lo, hi})
			mu.Unlock()
			for i := lo; i < hi; i++ {
				atomic.AddInt32(&hits[i], 1)
			}

			return nil
		})
		s.Require().NoError(err)
		for i, h := range hits {
			s.Require().EqualValues(1, h, "workers=%d index %d", workers, i)
		}

		// Chunks are contiguous and non-overlapping.
		sort.Slice(chunks, func(a, b int) bool { return chunks[a][0] < chunks[b][0] })
		s.Equal(0, chunks[0][0])
		for k := 1; k < len(chunks); k++ {
			s.Equal(chunks[k-1][1], chunks[k][0])
		}
		s.Equal(n, chunks[len(chunks)-1][1])
		s.LessOrEqual(len(chunks), workers)
	}
}

func (s *PoolSuite) TestRangeWithOffset() {
	p := parallel.NewPool(4)
	var sum int64
	s.Require().NoError(p.For(s.ctx, 5, 15, func(i int) error {
		atomic.AddInt64(&sum, int64(i))

		return nil
	}))
	s.EqualValues(95, sum) // 5+6+...+14
}

func (s *PoolSuite) TestRangeIsABarrier() {
	p := parallel.NewPool(4)
	var done int32
	for step := 0; step < 20; step++ {
		s.Require().NoError(p.For(s.ctx, 0, 64, func(int) error {
			atomic.AddInt32(&done, 1)

			return nil
		}))
		s.Require().EqualValues((step+1)*64, atomic.LoadInt32(&done), "step %d", step)
	}
}

func (s *PoolSuite) TestSingleWorkerRunsInline() {
	p := parallel.NewPool(1)
	calls := 0
	s.Require().NoError(p.Range(s.ctx, 0, 10, func(lo, hi int) error {
		calls++
		s.Equal(0, lo)
		s.Equal(10, hi)

		return nil
	}))
	s.Equal(1, calls)
}

func (s *PoolSuite) TestEmptyAndInvalidRange() {
	p := parallel.NewPool(2)
	called := false
	s.NoError(p.Range(s.ctx, 3, 3, func(int, int) error {
		called = true

		return nil
	}))
	s.False(called)

	err := p.Range(s.ctx, 4, 2, func(int, int) error { return nil })
	s.ErrorIs(err, parallel.ErrInvalidRange)
}

func (s *PoolSuite) TestFirstErrorIsReturned() {
	p := parallel.NewPool(4)
	boom := errors.New("boom")
	err := p.For(s.ctx, 0, 100, func(i int) error {
		if i == 42 {
			return boom
		}

		return nil
	})
	s.ErrorIs(err, boom)
}

func (s *PoolSuite) TestPanicBecomesWorkerFailure() {
	for _, workers := range []int{1, 4} {
		p := parallel.NewPool(workers)
		err := p.For(s.ctx, 0, 8, func(i int) error {
			if i == 7 {
				panic("index out of range")
			}

			return nil
		})
		s.Require().ErrorIs(err, parallel.ErrWorkerFailure, "workers=%d", workers)
		s.Contains(err.Error(), "index out of range")
	}
}

func (s *PoolSuite) TestCancelledContext() {
	ctx, cancel := context.WithCancel(s.ctx)
	cancel()
	called := false
	err := parallel.NewPool(2).Range(ctx, 0, 10, func(int, int) error {
		called = true

		return nil
	})
	s.ErrorIs(err, context.Canceled)
	s.False(called)
}

func BenchmarkPoolFor(b *testing.B) {
	p := parallel.NewPool(0)
	ctx := context.Background()
	buf := make([]float64, 1<<16)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		err := p.For(ctx, 0, len(buf), func(k int) error {
			buf[k] += 1

			return nil
		})
		require.NoError(b, err)
	}
}
