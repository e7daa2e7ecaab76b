package readinglist

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/bookfinder/internal/entities"
)

func TestStore_Scenario(t *testing.T) {
	s := NewStore()

	list := s.Add(book("111", "Dune"))
	require.Len(t, list, 1)
	assert.Equal(t, "111", list[0].ISBN)
	assert.Equal(t, entities.ProgressWantToRead, list[0].Progress)

	list, err := s.UpdateProgress("111", entities.ProgressCurrentlyReading)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, entities.ProgressCurrentlyReading, list[0].Progress)

	list = s.Remove("111")
	assert.Empty(t, list)
	assert.Equal(t, 0, s.Len())
}

func TestStore_SnapshotsAreStable(t *testing.T) {
	s := NewStore()
	before := s.Add(book("111", "Dune"))

	_, err := s.UpdateProgress("111", entities.ProgressCompleted)
	require.NoError(t, err)

	assert.Equal(t, entities.ProgressWantToRead, before[0].Progress)
	assert.Equal(t, entities.ProgressCompleted, s.Items()[0].Progress)
}

func TestStore_InvalidProgressKeepsState(t *testing.T) {
	s := NewStore()
	s.Add(book("111", "Dune"))

	list, err := s.UpdateProgress("111", "Finished")
	assert.ErrorIs(t, err, entities.ErrInvalidProgress)
	assert.Equal(t, entities.ProgressWantToRead, list[0].Progress)
}

func TestStore_EntryOperations(t *testing.T) {
	s := NewStore()
	s.Add(book("N/A", "a"))
	list := s.Add(book("N/A", "b"))

	list, err := s.UpdateEntryProgress(list[0].EntryID, entities.ProgressCompleted)
	require.NoError(t, err)
	assert.Equal(t, entities.ProgressCompleted, list[0].Progress)
	assert.Equal(t, entities.ProgressWantToRead, list[1].Progress)

	list, err = s.RemoveEntry(list[0].EntryID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "b", list[0].Title)

	_, err = s.RemoveEntry("missing")
	assert.ErrorIs(t, err, ErrEntryNotFound)
}

func TestStore_ConcurrentAdds(t *testing.T) {
	s := NewStore()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			s.Add(book(fmt.Sprintf("%d", i), "t"))
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 50, s.Len())
}

func TestRegistry(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	r := NewRegistry()
	r.now = func() time.Time { return now }

	a := r.Get("a")
	assert.Same(t, a, r.Get("a"))
	a.Add(book("111", "Dune"))

	now = now.Add(2 * time.Hour)
	b := r.Get("b")
	b.Add(book("222", "Emma"))
	assert.Equal(t, 2, r.Len())

	removed := r.Prune(time.Hour)
	assert.Equal(t, 1, removed)
	assert.Equal(t, 1, r.Len())

	// A pruned id starts over with an empty list
	assert.Equal(t, 0, r.Get("a").Len())
}

func TestStore_Counts(t *testing.T) {
	s := NewStore()
	s.Add(book("111", "Dune"))
	s.Add(book("222", "Emma"))
	_, err := s.UpdateProgress("222", entities.ProgressCompleted)
	require.NoError(t, err)

	counts := s.Counts()
	assert.Equal(t, 1, counts[entities.ProgressWantToRead])
	assert.Equal(t, 1, counts[entities.ProgressCompleted])
	assert.Equal(t, 0, counts[entities.ProgressCurrentlyReading])
}

func TestRegistry_GetKeepsStoreAlive(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	r := NewRegistry()
	r.now = func() time.Time { return now }

	a := r.Get("a")
	a.Add(book("111", "Dune"))

	// Fetched right before the janitor runs, not yet mutated
	now = now.Add(2 * time.Hour)
	fetched := r.Get("a")

	assert.Equal(t, 0, r.Prune(time.Hour))
	fetched.Add(book("222", "Emma"))

	assert.Same(t, fetched, r.Get("a"))
	assert.Equal(t, 2, r.Get("a").Len())
}
