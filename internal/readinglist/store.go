package readinglist

import (
	"sync"
	"time"

	"github.com/mrlokans/bookfinder/internal/entities"
)

// Store holds one reading list. Every mutation replaces the snapshot under a
// lock, so returned lists are never modified afterwards.
type Store struct {
	mu    sync.Mutex
	items List
	now   func() time.Time

	lastAccess time.Time
}

func NewStore() *Store {
	return newStoreWithClock(time.Now)
}

func newStoreWithClock(now func() time.Time) *Store {
	return &Store{
		items:      List{},
		now:        now,
		lastAccess: now(),
	}
}

// Add appends book with WANT_TO_READ progress and returns the new list.
func (s *Store) Add(book entities.Book) List {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()
	s.items = Append(s.items, book, s.now())
	return s.items
}

// Remove drops every entry with isbn and returns the new list.
func (s *Store) Remove(isbn string) List {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()
	s.items = Without(s.items, isbn)
	return s.items
}

// UpdateProgress sets progress on every entry with isbn.
func (s *Store) UpdateProgress(isbn string, progress entities.ProgressState) (List, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()
	items, err := WithProgress(s.items, isbn, progress)
	if err != nil {
		return s.items, err
	}
	s.items = items
	return s.items, nil
}

// RemoveEntry drops the single entry identified by entryID.
func (s *Store) RemoveEntry(entryID string) (List, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()
	items, err := WithoutEntry(s.items, entryID)
	if err != nil {
		return s.items, err
	}
	s.items = items
	return s.items, nil
}

// UpdateEntryProgress sets progress on the single entry identified by entryID.
func (s *Store) UpdateEntryProgress(entryID string, progress entities.ProgressState) (List, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()
	items, err := WithEntryProgress(s.items, entryID, progress)
	if err != nil {
		return s.items, err
	}
	s.items = items
	return s.items, nil
}

// Items returns the current snapshot.
func (s *Store) Items() List {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()
	return s.items
}

func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

// Counts tallies the current snapshot by progress state.
func (s *Store) Counts() map[entities.ProgressState]int {
	return Counts(s.Items())
}

// IdleSince returns the time of the last operation on the store.
func (s *Store) IdleSince() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastAccess
}

func (s *Store) markUsed() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touch()
}

func (s *Store) touch() {
	s.lastAccess = s.now()
}
