package airtable

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRateGate_SequentialSpacing(t *testing.T) {
	const rps = 50.0 // интервал 20мс
	g := newRateGate(rps)

	const n = 5
	start := time.Now()
	for i := 0; i < n; i++ {
		require.NoError(t, g.acquire(context.Background()))
	}
	elapsed := time.Since(start)

	// N вызовов при rate R занимают не меньше (N-1)/R
	minWall := time.Duration(float64(n-1) / rps * float64(time.Second))
	assert.GreaterOrEqual(t, elapsed, minWall-5*time.Millisecond)
}

func TestRateGate_ConcurrentCallersSerialize(t *testing.T) {
	g := newRateGate(100) // 10мс

	const n = 4
	start := time.Now()
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = g.acquire(context.Background())
		}()
	}
	wg.Wait()
	assert.GreaterOrEqual(t, time.Since(start), 25*time.Millisecond)
}

func TestRateGate_ContextCancel(t *testing.T) {
	g := newRateGate(1) // интервал 1с

	require.NoError(t, g.acquire(context.Background()))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	err := g.acquire(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
