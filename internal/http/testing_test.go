package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/mikestefanello/backlite"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/bookfinder/internal/catalog"
	"github.com/mrlokans/bookfinder/internal/readinglist"
	"github.com/mrlokans/bookfinder/internal/search"
)

// fakeCatalog answers searches from a map and counts calls per title.
type fakeCatalog struct {
	mu    sync.Mutex
	docs  map[string][]catalog.SearchDoc
	errs  map[string]error
	calls map[string]int
}

func newFakeCatalog() *fakeCatalog {
	return &fakeCatalog{
		docs:  make(map[string][]catalog.SearchDoc),
		errs:  make(map[string]error),
		calls: make(map[string]int),
	}
}

func (f *fakeCatalog) SearchByTitle(_ context.Context, title string) ([]catalog.SearchDoc, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[title]++
	if err, ok := f.errs[title]; ok {
		return nil, err
	}
	return f.docs[title], nil
}

func (f *fakeCatalog) callCount(title string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[title]
}

type fakeTaskQueue struct {
	queries []string
	err     error
	status  backlite.TaskStatus
}

func (q *fakeTaskQueue) EnqueueWarm(query string) (string, error) {
	if q.err != nil {
		return "", q.err
	}
	q.queries = append(q.queries, query)
	return "task-1", nil
}

func (q *fakeTaskQueue) Status(_ context.Context, taskID string) (backlite.TaskStatus, error) {
	if taskID == "broken" {
		return 0, errors.New("db closed")
	}
	return q.status, nil
}

type fakeCoverSource struct {
	path string
	err  error
}

func (s *fakeCoverSource) GetCover(_ context.Context, _ int) (string, error) {
	return s.path, s.err
}

func newTestOrchestrator(cat *fakeCatalog) *search.Orchestrator {
	return search.NewOrchestrator(cat, catalog.NewNormalizer("https://covers.example.com", "/covers/default"), nil)
}

func newTestRouter(t *testing.T, cfg RouterConfig) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	if cfg.Search == nil {
		cfg.Search = newTestOrchestrator(newFakeCatalog())
	}
	if cfg.Lists == nil {
		cfg.Lists = readinglist.NewRegistry()
	}
	return NewRouter(cfg)
}

func doRequest(router http.Handler, method, path string, body any, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		data, _ := json.Marshal(body)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for _, cookie := range cookies {
		req.AddCookie(cookie)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}
