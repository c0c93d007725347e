package ingest

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGate_FiresOnce(t *testing.T) {
	t.Parallel()

	var g Gate
	var calls atomic.Int32
	fn := func() { calls.Add(1) }

	assert.False(t, g.Verified())
	assert.True(t, g.Verify(fn))
	// Verification flicker: repeated transitions must not re-run the import.
	assert.False(t, g.Verify(fn))
	assert.False(t, g.Verify(fn))
	assert.Equal(t, int32(1), calls.Load())
	assert.True(t, g.Verified())
}

func TestGate_ConcurrentVerify(t *testing.T) {
	t.Parallel()

	var g Gate
	var calls atomic.Int32

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			g.Verify(func() { calls.Add(1) })
		}()
	}
	wg.Wait()
	assert.Equal(t, int32(1), calls.Load())
}
