package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/bookfinder/internal/entities"
	"github.com/mrlokans/bookfinder/internal/search"
)

// Searcher runs title searches through the query cache.
type Searcher interface {
	Search(ctx context.Context, query string) (search.Result, error)
}

// ClientResolver identifies the client behind a request.
type ClientResolver func(c *gin.Context) string

// SearchController handles book search requests. Seq and Latest in the
// response are tracked per client.
type SearchController struct {
	searcher Searcher
	client   ClientResolver
	seqs     *search.Sequencer
}

func NewSearchController(searcher Searcher, client ClientResolver, seqs *search.Sequencer) *SearchController {
	if seqs == nil {
		seqs = search.NewSequencer(0)
	}
	return &SearchController{searcher: searcher, client: client, seqs: seqs}
}

// SearchResponse is the body of a successful search.
type SearchResponse struct {
	Seq    uint64          `json:"seq"`
	Query  string          `json:"query"`
	Cached bool            `json:"cached"`
	Latest bool            `json:"latest"`
	Count  int             `json:"count"`
	Books  []entities.Book `json:"books"`
}

// SearchErrorResponse is the body of a failed search. Error carries the
// message meant for display.
type SearchErrorResponse struct {
	Error      string `json:"error"`
	Code       string `json:"code"`
	Message    string `json:"message"`
	Seq        uint64 `json:"seq"`
	Status     int    `json:"status,omitempty"`
	StatusText string `json:"status_text,omitempty"`
}

// Search handles GET /api/search?q=
// The query is passed through untouched, whitespace included.
func (sc *SearchController) Search(c *gin.Context) {
	query := c.Query("q")
	client := sc.client(c)
	seq := sc.seqs.Next(client)

	result, err := sc.searcher.Search(c.Request.Context(), query)
	if err != nil {
		var searchErr *search.Error
		if !errors.As(err, &searchErr) {
			respondInternalError(c, err, "search")
			return
		}
		c.JSON(statusForKind(searchErr.Kind), SearchErrorResponse{
			Error:      searchErr.Message(),
			Code:       searchErr.Kind.String(),
			Message:    searchErr.Message(),
			Seq:        seq,
			Status:     searchErr.Status,
			StatusText: searchErr.StatusText,
		})
		return
	}

	books := result.Books
	if books == nil {
		books = []entities.Book{}
	}

	c.JSON(http.StatusOK, SearchResponse{
		Seq:    seq,
		Query:  result.Query,
		Cached: result.Cached,
		Latest: sc.seqs.IsLatest(client, seq),
		Count:  len(books),
		Books:  books,
	})
}

func statusForKind(kind search.Kind) int {
	switch kind {
	case search.KindEmptyQuery:
		return http.StatusBadRequest
	case search.KindServer:
		return http.StatusBadGateway
	case search.KindNetwork:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
