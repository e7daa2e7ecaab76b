package entities

import (
	"errors"
	"fmt"
	"time"
)

// ProgressState is the reading progress attached to a reading list entry.
type ProgressState string

const (
	ProgressWantToRead       ProgressState = "WANT_TO_READ"
	ProgressCurrentlyReading ProgressState = "CURRENTLY_READING"
	ProgressCompleted        ProgressState = "COMPLETED"
)

// ErrInvalidProgress is returned for values outside the ProgressState set.
var ErrInvalidProgress = errors.New("invalid progress state")

var progressLabels = map[ProgressState]string{
	ProgressWantToRead:       "Want to Read",
	ProgressCurrentlyReading: "Currently Reading",
	ProgressCompleted:        "Completed",
}

// ProgressStates returns all states in display order.
func ProgressStates() []ProgressState {
	return []ProgressState{ProgressWantToRead, ProgressCurrentlyReading, ProgressCompleted}
}

func (p ProgressState) Valid() bool {
	_, ok := progressLabels[p]
	return ok
}

// Label returns the human-readable name, e.g. "Want to Read".
func (p ProgressState) Label() string {
	if label, ok := progressLabels[p]; ok {
		return label
	}
	return string(p)
}

// ParseProgress accepts either the enum value ("COMPLETED") or its label ("Completed").
func ParseProgress(s string) (ProgressState, error) {
	p := ProgressState(s)
	if p.Valid() {
		return p, nil
	}
	for state, label := range progressLabels {
		if label == s {
			return state, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidProgress, s)
}

// ReadingListItem is a saved book with its reading progress.
// EntryID is unique per add, unlike ISBN which collides for books without one.
type ReadingListItem struct {
	Book
	EntryID  string        `json:"entry_id"`
	Progress ProgressState `json:"progress"`
	AddedAt  time.Time     `json:"added_at"`
}
