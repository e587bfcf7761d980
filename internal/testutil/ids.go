package testutil

import (
	"fmt"
	"sync"
)

// SequenceIDs generates predictable scan IDs ("scan-1", "scan-2", ...).
//
// Use it in place of the store's UUID generator so stored rows and golden
// output are byte-identical across runs.
//
// Thread-safety: safe for concurrent use.
type SequenceIDs struct {
	mu     sync.Mutex
	prefix string
	n      int
}

// NewSequenceIDs creates a generator. An empty prefix defaults to "scan".
func NewSequenceIDs(prefix string) *SequenceIDs {
	if prefix == "" {
		prefix = "scan"
	}
	return &SequenceIDs{prefix: prefix}
}

// NewID returns the next ID in the sequence.
func (g *SequenceIDs) NewID() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.n++
	return fmt.Sprintf("%s-%d", g.prefix, g.n)
}
