package catalog

import (
	"fmt"
	"strings"

	"github.com/mrlokans/bookfinder/internal/entities"
)

// DefaultCoverPath is the bundled fallback asset served by the HTTP layer.
const DefaultCoverPath = "/covers/default"

// Normalizer maps raw search docs to Books, applying defaults for missing fields.
type Normalizer struct {
	CoversBaseURL   string
	DefaultCoverURL string
}

// NewNormalizer creates a Normalizer. Empty arguments fall back to the
// public covers host and the bundled default cover.
func NewNormalizer(coversBaseURL, defaultCoverURL string) Normalizer {
	if coversBaseURL == "" {
		coversBaseURL = "https://covers.openlibrary.org"
	}
	if defaultCoverURL == "" {
		defaultCoverURL = DefaultCoverPath
	}
	return Normalizer{
		CoversBaseURL:   strings.TrimRight(coversBaseURL, "/"),
		DefaultCoverURL: defaultCoverURL,
	}
}

// CoverURL builds the large cover image URL for a cover id.
func (n Normalizer) CoverURL(coverID int) string {
	if coverID == 0 {
		return n.DefaultCoverURL
	}
	return fmt.Sprintf("%s/b/id/%d-L.jpg", n.CoversBaseURL, coverID)
}

// Normalize converts a single doc.
func (n Normalizer) Normalize(doc SearchDoc) entities.Book {
	book := entities.Book{
		Title:         doc.Title,
		Author:        joinOr(doc.AuthorName, entities.UnknownAuthor),
		CoverImageURL: n.CoverURL(doc.CoverI),
		CoverID:       doc.CoverI,
		ISBN:          entities.NotAvailable,
		Publisher:     joinOr(doc.Publisher, entities.NotAvailable),
		PageCount:     entities.PageCount(doc.NumberOfPagesMedian),
		Description:   description(doc.Description),
		Subjects:      joinOr(doc.Subject, entities.NotAvailable),
	}

	if len(doc.ISBN) > 0 && doc.ISBN[0] != "" {
		book.ISBN = doc.ISBN[0]
	}

	if doc.FirstPublishYear != nil {
		year := *doc.FirstPublishYear
		book.PublishYear = &year
	}

	return book
}

// NormalizeAll converts docs in order. The result is never nil.
func (n Normalizer) NormalizeAll(docs []SearchDoc) []entities.Book {
	books := make([]entities.Book, 0, len(docs))
	for _, doc := range docs {
		books = append(books, n.Normalize(doc))
	}
	return books
}

func joinOr(values []string, fallback string) string {
	if len(values) == 0 {
		return fallback
	}
	return strings.Join(values, ", ")
}

func description(raw any) string {
	switch v := raw.(type) {
	case string:
		if v != "" {
			return v
		}
	case map[string]any:
		if val, ok := v["value"].(string); ok && val != "" {
			return val
		}
	}
	return entities.DefaultDescription
}
