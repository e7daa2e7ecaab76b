// Package readinglist manages saved books and their reading progress.
//
// ISBN is the lookup key for Remove and UpdateProgress, including the "N/A"
// sentinel, so every book without a real ISBN is affected at once. EntryID
// operations address a single entry instead.
package readinglist

import (
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/mrlokans/bookfinder/internal/entities"
)

// ErrEntryNotFound is returned by EntryID operations when no entry matches.
var ErrEntryNotFound = errors.New("reading list entry not found")

// List is an insertion-ordered reading list. Duplicate ISBNs are allowed.
type List []entities.ReadingListItem

// Append returns a new list with book added at the end as WANT_TO_READ.
func Append(list List, book entities.Book, now time.Time) List {
	out := make(List, len(list), len(list)+1)
	copy(out, list)
	return append(out, entities.ReadingListItem{
		Book:     book,
		EntryID:  uuid.NewString(),
		Progress: entities.ProgressWantToRead,
		AddedAt:  now,
	})
}

// Without returns a new list with every item carrying isbn removed.
func Without(list List, isbn string) List {
	out := make(List, 0, len(list))
	for _, item := range list {
		if item.ISBN != isbn {
			out = append(out, item)
		}
	}
	return out
}

// WithProgress returns a new list where every item carrying isbn has the given progress.
// Any transition is allowed; only values outside the enum are rejected.
func WithProgress(list List, isbn string, progress entities.ProgressState) (List, error) {
	if !progress.Valid() {
		return list, entities.ErrInvalidProgress
	}

	out := make(List, len(list))
	for i, item := range list {
		if item.ISBN == isbn {
			item.Progress = progress
		}
		out[i] = item
	}
	return out, nil
}

// WithoutEntry returns a new list without the entry identified by entryID.
func WithoutEntry(list List, entryID string) (List, error) {
	out := make(List, 0, len(list))
	found := false
	for _, item := range list {
		if item.EntryID == entryID {
			found = true
			continue
		}
		out = append(out, item)
	}
	if !found {
		return list, ErrEntryNotFound
	}
	return out, nil
}

// WithEntryProgress sets the progress of a single entry.
func WithEntryProgress(list List, entryID string, progress entities.ProgressState) (List, error) {
	if !progress.Valid() {
		return list, entities.ErrInvalidProgress
	}

	out := make(List, len(list))
	found := false
	for i, item := range list {
		if item.EntryID == entryID {
			item.Progress = progress
			found = true
		}
		out[i] = item
	}
	if !found {
		return list, ErrEntryNotFound
	}
	return out, nil
}

// Counts tallies entries per progress state. Every state is present in the map.
func Counts(list List) map[entities.ProgressState]int {
	counts := make(map[entities.ProgressState]int, 3)
	for _, state := range entities.ProgressStates() {
		counts[state] = 0
	}
	for _, item := range list {
		counts[item.Progress]++
	}
	return counts
}
