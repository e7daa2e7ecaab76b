package search

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/url"

	"github.com/mrlokans/bookfinder/internal/catalog"
)

// Kind classifies a failed search.
type Kind int

const (
	KindUnknown Kind = iota
	KindEmptyQuery
	KindServer
	KindNetwork
)

func (k Kind) String() string {
	switch k {
	case KindEmptyQuery:
		return "empty_query"
	case KindServer:
		return "server_error"
	case KindNetwork:
		return "network_error"
	default:
		return "unknown_error"
	}
}

// Sentinels for errors.Is checks against *Error.
var (
	ErrEmptyQuery = errors.New("empty search query")
	ErrServer     = errors.New("catalog server error")
	ErrNetwork    = errors.New("catalog unreachable")
	ErrUnknown    = errors.New("search failed")
)

// Error is the only error type returned by Orchestrator.Search.
type Error struct {
	Kind       Kind
	Query      string
	Status     int    // set for KindServer
	StatusText string // set for KindServer
	Err        error
}

func (e *Error) Error() string {
	switch e.Kind {
	case KindEmptyQuery:
		return ErrEmptyQuery.Error()
	case KindServer:
		return fmt.Sprintf("search %q: server error %d %s", e.Query, e.Status, e.StatusText)
	default:
		if e.Err != nil {
			return fmt.Sprintf("search %q: %s: %v", e.Query, e.Kind, e.Err)
		}
		return fmt.Sprintf("search %q: %s", e.Query, e.Kind)
	}
}

func (e *Error) Unwrap() error {
	return e.Err
}

func (e *Error) Is(target error) bool {
	switch target {
	case ErrEmptyQuery:
		return e.Kind == KindEmptyQuery
	case ErrServer:
		return e.Kind == KindServer
	case ErrNetwork:
		return e.Kind == KindNetwork
	case ErrUnknown:
		return e.Kind == KindUnknown
	}
	return false
}

// Message returns the text shown to the user for this failure.
func (e *Error) Message() string {
	switch e.Kind {
	case KindEmptyQuery:
		return "Please enter a search query."
	case KindServer:
		return fmt.Sprintf("Error: %d - %s", e.Status, e.StatusText)
	case KindNetwork:
		return "Network error. Please check your connection."
	default:
		return "Error fetching books. Please try again."
	}
}

// classify converts a catalog failure into an *Error.
// A cancelled or expired caller context is never reported as a network failure.
func classify(ctx context.Context, query string, err error) *Error {
	var statusErr *catalog.StatusError
	if errors.As(err, &statusErr) {
		return &Error{
			Kind:       KindServer,
			Query:      query,
			Status:     statusErr.StatusCode,
			StatusText: statusErr.StatusText,
			Err:        err,
		}
	}

	if ctx.Err() != nil {
		return &Error{Kind: KindUnknown, Query: query, Err: err}
	}

	var urlErr *url.Error
	var netErr net.Error
	if errors.As(err, &urlErr) || errors.As(err, &netErr) {
		return &Error{Kind: KindNetwork, Query: query, Err: err}
	}

	return &Error{Kind: KindUnknown, Query: query, Err: err}
}
