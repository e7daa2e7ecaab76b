package search

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/bookfinder/internal/catalog"
	"github.com/mrlokans/bookfinder/internal/entities"
)

// fakeCatalog records calls and returns canned docs or an error.
type fakeCatalog struct {
	mu    sync.Mutex
	calls []string
	docs  []catalog.SearchDoc
	err   error
}

func (f *fakeCatalog) SearchByTitle(ctx context.Context, title string) ([]catalog.SearchDoc, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, title)
	if f.err != nil {
		return nil, f.err
	}
	return f.docs, nil
}

func (f *fakeCatalog) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func newTestOrchestrator(c Catalog) *Orchestrator {
	return NewOrchestrator(c, catalog.NewNormalizer("https://covers.example.com", "/covers/default"), NewMemoryCache())
}

func TestSearch_EmptyQuery(t *testing.T) {
	fake := &fakeCatalog{}
	o := newTestOrchestrator(fake)

	result, err := o.Search(context.Background(), "")
	require.Error(t, err)

	var searchErr *Error
	require.True(t, errors.As(err, &searchErr))
	assert.Equal(t, KindEmptyQuery, searchErr.Kind)
	assert.ErrorIs(t, err, ErrEmptyQuery)
	assert.Equal(t, "Please enter a search query.", searchErr.Message())
	assert.Nil(t, result.Books)
	assert.Equal(t, 0, fake.callCount())
	assert.Equal(t, 0, o.CacheLen())
}

func TestSearch_WhitespaceIsNotEmpty(t *testing.T) {
	fake := &fakeCatalog{docs: []catalog.SearchDoc{}}
	o := newTestOrchestrator(fake)

	_, err := o.Search(context.Background(), "   ")
	require.NoError(t, err)
	assert.Equal(t, []string{"   "}, fake.calls)
}

func TestSearch_CachesByExactQuery(t *testing.T) {
	fake := &fakeCatalog{docs: []catalog.SearchDoc{{Title: "Dune"}}}
	o := newTestOrchestrator(fake)
	ctx := context.Background()

	first, err := o.Search(ctx, "Dune")
	require.NoError(t, err)
	assert.False(t, first.Cached)

	second, err := o.Search(ctx, "Dune")
	require.NoError(t, err)
	assert.True(t, second.Cached)
	assert.Equal(t, first.Books, second.Books)
	assert.Equal(t, 1, fake.callCount())

	// Different case and padding are different keys
	_, err = o.Search(ctx, "dune")
	require.NoError(t, err)
	_, err = o.Search(ctx, "Dune ")
	require.NoError(t, err)
	assert.Equal(t, 3, fake.callCount())
	assert.Equal(t, 3, o.CacheLen())
}

func TestSearch_ZeroDocsIsCachedSuccess(t *testing.T) {
	fake := &fakeCatalog{docs: []catalog.SearchDoc{}}
	o := newTestOrchestrator(fake)
	ctx := context.Background()

	result, err := o.Search(ctx, "nothing matches")
	require.NoError(t, err)
	assert.NotNil(t, result.Books)
	assert.Empty(t, result.Books)

	cached, ok := o.Cached("nothing matches")
	assert.True(t, ok)
	assert.Empty(t, cached)

	_, err = o.Search(ctx, "nothing matches")
	require.NoError(t, err)
	assert.Equal(t, 1, fake.callCount())
}

func TestSearch_DuneScenario(t *testing.T) {
	fake := &fakeCatalog{docs: []catalog.SearchDoc{{
		Title:      "Dune",
		AuthorName: []string{"Frank Herbert"},
		CoverI:     123,
		ISBN:       []string{"9780441013593"},
	}}}
	o := newTestOrchestrator(fake)

	result, err := o.Search(context.Background(), "Dune")
	require.NoError(t, err)
	require.Len(t, result.Books, 1)

	book := result.Books[0]
	assert.Equal(t, "Dune", book.Title)
	assert.Equal(t, "Frank Herbert", book.Author)
	assert.Equal(t, "9780441013593", book.ISBN)
	assert.Equal(t, "https://covers.example.com/b/id/123-L.jpg", book.CoverImageURL)
	assert.Equal(t, "N/A", book.Publisher)
	assert.Equal(t, "N/A", book.PageCount.String())
}

func TestSearch_FailuresAreNotCached(t *testing.T) {
	fake := &fakeCatalog{err: &catalog.StatusError{StatusCode: 500, StatusText: "Internal Server Error"}}
	o := newTestOrchestrator(fake)
	ctx := context.Background()

	_, err := o.Search(ctx, "Dune")
	require.Error(t, err)

	var searchErr *Error
	require.True(t, errors.As(err, &searchErr))
	assert.Equal(t, KindServer, searchErr.Kind)
	assert.Equal(t, 500, searchErr.Status)
	assert.Equal(t, "Error: 500 - Internal Server Error", searchErr.Message())
	assert.ErrorIs(t, err, ErrServer)

	_, ok := o.Cached("Dune")
	assert.False(t, ok)

	// Retried verbatim on the next identical search
	fake.err = nil
	fake.docs = []catalog.SearchDoc{{Title: "Dune"}}
	result, err := o.Search(ctx, "Dune")
	require.NoError(t, err)
	assert.Len(t, result.Books, 1)
	assert.Equal(t, 2, fake.callCount())
}

func TestSearch_ClassifiesHTTPFailures(t *testing.T) {
	t.Run("server error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer server.Close()

		o := newTestOrchestrator(catalog.NewClient(catalog.Config{BaseURL: server.URL, Timeout: 5 * time.Second}))
		_, err := o.Search(context.Background(), "Dune")

		var searchErr *Error
		require.True(t, errors.As(err, &searchErr))
		assert.Equal(t, KindServer, searchErr.Kind)
		assert.Equal(t, 500, searchErr.Status)
		assert.Equal(t, "Internal Server Error", searchErr.StatusText)
		assert.Equal(t, 0, o.CacheLen())
	})

	t.Run("network error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		baseURL := server.URL
		server.Close()

		o := newTestOrchestrator(catalog.NewClient(catalog.Config{BaseURL: baseURL, Timeout: 5 * time.Second}))
		_, err := o.Search(context.Background(), "Dune")

		assert.ErrorIs(t, err, ErrNetwork)
		var searchErr *Error
		require.True(t, errors.As(err, &searchErr))
		assert.Equal(t, "Network error. Please check your connection.", searchErr.Message())
	})

	t.Run("malformed body", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte("not json"))
		}))
		defer server.Close()

		o := newTestOrchestrator(catalog.NewClient(catalog.Config{BaseURL: server.URL, Timeout: 5 * time.Second}))
		_, err := o.Search(context.Background(), "Dune")

		assert.ErrorIs(t, err, ErrUnknown)
		assert.ErrorIs(t, err, catalog.ErrMalformedResponse)
	})
}

func TestSearch_CancelledContextIsUnknown(t *testing.T) {
	fake := &fakeCatalog{err: context.Canceled}
	o := newTestOrchestrator(fake)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := o.Search(ctx, "Dune")
	assert.ErrorIs(t, err, ErrUnknown)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSearch_SequenceTokens(t *testing.T) {
	fake := &fakeCatalog{docs: []catalog.SearchDoc{}}
	o := newTestOrchestrator(fake)
	ctx := context.Background()

	first, _ := o.Search(ctx, "a")
	second, _ := o.Search(ctx, "")
	third, _ := o.Search(ctx, "a")

	assert.Less(t, first.Seq, second.Seq)
	assert.Less(t, second.Seq, third.Seq)
	assert.False(t, o.IsLatest(first.Seq))
	assert.True(t, o.IsLatest(third.Seq))
}

func TestSearch_OverlappingSearchesResolveIndependently(t *testing.T) {
	fake := &fakeCatalog{docs: []catalog.SearchDoc{{Title: "x"}}}
	o := newTestOrchestrator(fake)

	var wg sync.WaitGroup
	var failures atomic.Int32
	for _, q := range []string{"a", "b", "c", "d"} {
		wg.Add(1)
		go func(q string) {
			defer wg.Done()
			if _, err := o.Search(context.Background(), q); err != nil {
				failures.Add(1)
			}
		}(q)
	}
	wg.Wait()

	assert.Equal(t, int32(0), failures.Load())
	assert.Equal(t, 4, o.CacheLen())
}

func TestSearch_FetchHooks(t *testing.T) {
	fake := &fakeCatalog{docs: []catalog.SearchDoc{{Title: "Dune", CoverI: 1}}}
	o := newTestOrchestrator(fake)

	var seen []string
	o.OnFetched(func(query string, books []entities.Book) {
		seen = append(seen, query)
	})

	ctx := context.Background()
	_, _ = o.Search(ctx, "Dune")
	_, _ = o.Search(ctx, "Dune") // cache hit, no hook

	fake.err = errors.New("boom")
	_, _ = o.Search(ctx, "Other") // failure, no hook

	assert.Equal(t, []string{"Dune"}, seen)
}

func TestWarm(t *testing.T) {
	fake := &fakeCatalog{docs: []catalog.SearchDoc{{Title: "Dune"}}}
	o := newTestOrchestrator(fake)

	require.NoError(t, o.Warm(context.Background(), "Dune"))
	require.NoError(t, o.Warm(context.Background(), "Dune"))

	_, ok := o.Cached("Dune")
	assert.True(t, ok)
	assert.Equal(t, 1, fake.callCount())
}

func TestWarm_KeepsSearchLatest(t *testing.T) {
	fake := &fakeCatalog{docs: []catalog.SearchDoc{{Title: "Dune"}}}
	o := newTestOrchestrator(fake)

	result, err := o.Search(context.Background(), "Dune")
	require.NoError(t, err)
	require.NoError(t, o.Warm(context.Background(), "Foundation"))

	assert.True(t, o.IsLatest(result.Seq))
}
