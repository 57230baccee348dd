package memory_test

import (
	"sync"
	"testing"

	"potrack/internal/adapters/out/memory"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSequenceIssuer_Next(t *testing.T) {
	t.Run("should start each name at one and count independently", func(t *testing.T) {
		ctx := t.Context()
		issuer := memory.NewSequenceIssuer()

		first, err := issuer.Next(ctx, "po_sequence")
		require.NoError(t, err)
		assert.Equal(t, int64(1), first)

		second, err := issuer.Next(ctx, "po_sequence")
		require.NoError(t, err)
		assert.Equal(t, int64(2), second)

		other, err := issuer.Next(ctx, "challan_sequence")
		require.NoError(t, err)
		assert.Equal(t, int64(1), other)
	})

	t.Run("should never hand out the same value twice under contention", func(t *testing.T) {
		ctx := t.Context()
		issuer := memory.NewSequenceIssuer()

		const workers = 20
		const perWorker = 50

		var mu sync.Mutex
		seen := make(map[int64]bool, workers*perWorker)

		var wg sync.WaitGroup
		for w := 0; w < workers; w++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for i := 0; i < perWorker; i++ {
					value, err := issuer.Next(ctx, "challan_sequence")
					assert.NoError(t, err)

					mu.Lock()
					assert.False(t, seen[value], "duplicate value issued")
					seen[value] = true
					mu.Unlock()
				}
			}()
		}
		wg.Wait()

		assert.Len(t, seen, workers*perWorker)
	})
}
