package sitetheory

import (
	"sync"
	"testing"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/require"
)

func TestULIDGenerator_SortableAndUnique(t *testing.T) {
	fixed := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	g := &ULIDGenerator{now: func() time.Time { return fixed }}

	first := g.NewID()
	second := g.NewID()
	require.Len(t, first, ulid.EncodedSize)
	require.Less(t, first, second, "monotonic entropy keeps ids ordered within one millisecond")

	parsed, err := ulid.Parse(first)
	require.NoError(t, err)
	require.Equal(t, ulid.Timestamp(fixed), parsed.Time())
}

func TestULIDGenerator_ConcurrentUse(t *testing.T) {
	var g ULIDGenerator
	var mu sync.Mutex
	seen := map[string]bool{}

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				id := g.NewID()
				mu.Lock()
				seen[id] = true
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	require.Len(t, seen, 400)
}
