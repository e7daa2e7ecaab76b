package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

// SearchLimit is the fixed result ceiling requested from the catalog.
const SearchLimit = 50

const defaultUserAgent = "BookFinder/1.0 (https://github.com/mrlokans/bookfinder)"

// Config configures the OpenLibrary client.
type Config struct {
	BaseURL       string
	Timeout       time.Duration
	RatePerSecond float64 // <= 0 disables pacing
	Burst         int
	UserAgent     string
}

// DefaultConfig returns settings for the public OpenLibrary instance.
func DefaultConfig() Config {
	return Config{
		BaseURL:       "https://openlibrary.org",
		Timeout:       10 * time.Second,
		RatePerSecond: 1,
		Burst:         3,
		UserAgent:     defaultUserAgent,
	}
}

// Client queries the OpenLibrary search API.
type Client struct {
	httpClient *http.Client
	baseURL    string
	userAgent  string
	limiter    *rate.Limiter
}

// NewClient creates a new OpenLibrary client with request pacing.
func NewClient(cfg Config) *Client {
	limit := rate.Inf
	if cfg.RatePerSecond > 0 {
		limit = rate.Limit(cfg.RatePerSecond)
	}
	burst := cfg.Burst
	if burst < 1 {
		burst = 1
	}
	userAgent := cfg.UserAgent
	if userAgent == "" {
		userAgent = defaultUserAgent
	}

	return &Client{
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		baseURL:   strings.TrimRight(cfg.BaseURL, "/"),
		userAgent: userAgent,
		limiter:   rate.NewLimiter(limit, burst),
	}
}

// SearchByTitle issues a single title search and returns the raw docs.
// The title is sent as given; callers own trimming and emptiness checks.
//
// Non-2xx responses are returned as *StatusError. Transport failures are
// returned wrapped so callers can inspect them with errors.As.
func (c *Client) SearchByTitle(ctx context.Context, title string) ([]SearchDoc, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("wait for rate limiter: %w", err)
	}

	params := url.Values{}
	params.Set("title", title)
	params.Set("limit", strconv.Itoa(SearchLimit))
	searchURL := fmt.Sprintf("%s/search.json?%s", c.baseURL, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, searchURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("search books: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, newStatusError(resp)
	}

	var result searchResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}

	if result.Docs == nil {
		return []SearchDoc{}, nil
	}
	return result.Docs, nil
}

// searchResult mirrors the search.json envelope.
type searchResult struct {
	NumFound int         `json:"numFound"`
	Docs     []SearchDoc `json:"docs"`
}

// SearchDoc is one raw record from search.json. Every field is optional.
type SearchDoc struct {
	Key                 string   `json:"key,omitempty"`
	Title               string   `json:"title,omitempty"`
	AuthorName          []string `json:"author_name,omitempty"`
	CoverI              int      `json:"cover_i,omitempty"`
	ISBN                []string `json:"isbn,omitempty"`
	Publisher           []string `json:"publisher,omitempty"`
	FirstPublishYear    *int     `json:"first_publish_year,omitempty"`
	NumberOfPagesMedian int      `json:"number_of_pages_median,omitempty"`
	Description         any      `json:"description,omitempty"` // string or {type, value}
	Subject             []string `json:"subject,omitempty"`
}
