package search

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSequencer_PerClient(t *testing.T) {
	s := NewSequencer(0)

	a1 := s.Next("alice")
	b1 := s.Next("bob")
	assert.Greater(t, b1, a1)

	assert.True(t, s.IsLatest("alice", a1), "bob's search must not make alice's stale")
	assert.True(t, s.IsLatest("bob", b1))

	a2 := s.Next("alice")
	assert.False(t, s.IsLatest("alice", a1))
	assert.True(t, s.IsLatest("alice", a2))
}

func TestSequencer_UnknownClientIsLatest(t *testing.T) {
	s := NewSequencer(1)

	seq := s.Next("alice")
	s.Next("bob") // evicts alice

	assert.True(t, s.IsLatest("alice", seq))
}

func TestSequencer_ConcurrentNext(t *testing.T) {
	s := NewSequencer(0)

	var wg sync.WaitGroup
	seen := make(chan uint64, 100)
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			seen <- s.Next("alice")
		}()
	}
	wg.Wait()
	close(seen)

	unique := make(map[uint64]bool)
	var max uint64
	for seq := range seen {
		unique[seq] = true
		if seq > max {
			max = seq
		}
	}
	assert.Len(t, unique, 100)
	assert.True(t, s.IsLatest("alice", max))
}
