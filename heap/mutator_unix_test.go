//go:build unix

package heap

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCollectIsNoOpOffMutatorThread(t *testing.T) {
	h := newTestHeap(t)

	cell := h.Alloc(nil, TagInteger)
	cell.SetIntegerValue(5)
	statsBefore := h.Stats()

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		h.Collect()
	}()
	wg.Wait()

	assert.Equal(t, statsBefore.Collections, h.Stats().Collections,
		"Collect from a non-mutator OS thread must be a silent no-op")
}
