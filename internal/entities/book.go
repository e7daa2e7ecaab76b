package entities

import (
	"encoding/json"
	"strconv"
)

// Placeholder values used when a catalog record lacks a field.
const (
	NotAvailable       = "N/A"
	UnknownAuthor      = "Unknown"
	DefaultDescription = "No description available."
)

// Book is a normalized projection of one catalog search record.
// Values are never mutated after construction.
type Book struct {
	Title         string    `json:"title"`
	Author        string    `json:"author"`
	CoverImageURL string    `json:"cover_image_url"`
	CoverID       int       `json:"cover_id,omitempty"`
	ISBN          string    `json:"isbn"`
	Publisher     string    `json:"publisher"`
	PublishYear   *int      `json:"publish_year"`
	PageCount     PageCount `json:"page_count"`
	Description   string    `json:"description"`
	Subjects      string    `json:"subjects"`
}

// HasISBN reports whether the book carries a real ISBN rather than the sentinel.
func (b Book) HasISBN() bool {
	return b.ISBN != "" && b.ISBN != NotAvailable
}

// PageCount is a page total where zero means unknown.
// It renders as "N/A" in JSON and text when unknown.
type PageCount int

func (p PageCount) Known() bool {
	return p > 0
}

func (p PageCount) String() string {
	if !p.Known() {
		return NotAvailable
	}
	return strconv.Itoa(int(p))
}

func (p PageCount) MarshalJSON() ([]byte, error) {
	if !p.Known() {
		return json.Marshal(NotAvailable)
	}
	return json.Marshal(int(p))
}

// UnmarshalJSON accepts either a number or the "N/A" placeholder.
func (p *PageCount) UnmarshalJSON(data []byte) error {
	var n int
	if err := json.Unmarshal(data, &n); err == nil {
		*p = PageCount(n)
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if s == NotAvailable || s == "" {
		*p = 0
		return nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return err
	}
	*p = PageCount(n)
	return nil
}
