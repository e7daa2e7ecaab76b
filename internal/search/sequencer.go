package search

import (
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultSequencerClients bounds how many clients a Sequencer remembers.
const DefaultSequencerClients = 10000

// Sequencer hands out search tokens per client, so one client's searches
// never make another client's result stale.
type Sequencer struct {
	mu     sync.Mutex
	next   uint64
	latest *lru.Cache[string, uint64]
}

// NewSequencer remembers the latest token of up to maxClients clients.
// Evicted clients are treated as having no newer search.
func NewSequencer(maxClients int) *Sequencer {
	if maxClients <= 0 {
		maxClients = DefaultSequencerClients
	}
	latest, _ := lru.New[string, uint64](maxClients)
	return &Sequencer{latest: latest}
}

// Next returns a new token for client and records it as the client's latest.
func (s *Sequencer) Next(client string) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.next++
	s.latest.Add(client, s.next)
	return s.next
}

// IsLatest reports whether seq is the most recent token issued to client.
func (s *Sequencer) IsLatest(client string, seq uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	latest, ok := s.latest.Peek(client)
	return !ok || latest == seq
}
