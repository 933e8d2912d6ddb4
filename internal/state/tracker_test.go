package state

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestApplyMergesLastWriterWins(t *testing.T) {
	tr := New()
	tr.Apply(map[string]any{"temp": 23.5, "state": "printing"})
	tr.Apply(map[string]any{"temp": 24.0})
	tr.Apply(map[string]any{"progress": int64(42)})

	snap := tr.Snapshot()
	assert.Equal(t, map[string]any{
		"temp":     24.0,
		"state":    "printing",
		"progress": int64(42),
	}, snap)
}

func TestSnapshotIsIndependent(t *testing.T) {
	tr := New()
	tr.Apply(map[string]any{"a": 1})

	snap := tr.Snapshot()
	snap["a"] = 99
	snap["b"] = "new"

	v, ok := tr.Get("a")
	assert.True(t, ok)
	assert.Equal(t, 1, v)
	_, ok = tr.Get("b")
	assert.False(t, ok)
}

func TestEmptyTracker(t *testing.T) {
	tr := New()
	assert.Empty(t, tr.Snapshot())
	assert.Zero(t, tr.Len())
}

func TestConcurrentApplyAndSnapshot(t *testing.T) {
	tr := New()
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func(n int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				tr.Apply(map[string]any{fmt.Sprintf("k%d", n): j})
			}
		}(i)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				_ = tr.Snapshot()
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 8, tr.Len())
}
