package catalog

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
)

// ErrMalformedResponse indicates the catalog answered 2xx with a body that is not search JSON.
var ErrMalformedResponse = errors.New("malformed catalog response")

// StatusError represents a non-success HTTP status from the catalog.
type StatusError struct {
	StatusCode int
	StatusText string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("catalog responded with HTTP %d %s", e.StatusCode, e.StatusText)
}

func newStatusError(resp *http.Response) *StatusError {
	// resp.Status looks like "503 Service Unavailable"
	text := strings.TrimSpace(strings.TrimPrefix(resp.Status, strconv.Itoa(resp.StatusCode)))
	if text == "" {
		text = http.StatusText(resp.StatusCode)
	}
	return &StatusError{StatusCode: resp.StatusCode, StatusText: text}
}
