package cli

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/mrlokans/bookfinder/internal/entities"
	"github.com/mrlokans/bookfinder/internal/search"
)

// Searcher runs a title search.
type Searcher interface {
	Search(ctx context.Context, query string) (search.Result, error)
}

type SearchCommand struct {
	Query string
	Limit int
	JSON  bool

	searcher Searcher
	out      io.Writer
}

func NewSearchCommand(searcher Searcher) *SearchCommand {
	return &SearchCommand{searcher: searcher, out: os.Stdout}
}

func (cmd *SearchCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("search", flag.ContinueOnError)

	fs.StringVar(&cmd.Query, "q", "", "Book title to search for")
	fs.IntVar(&cmd.Limit, "limit", 10, "Maximum number of books to print (0 = all)")
	fs.BoolVar(&cmd.JSON, "json", false, "Print books as JSON")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s search [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Search OpenLibrary by title.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s search -q \"the hobbit\"\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s search -q dune -limit 3 -json\n", os.Args[0])
	}

	if err := fs.Parse(args); err != nil {
		return err
	}
	if cmd.Limit < 0 {
		return fmt.Errorf("limit must not be negative")
	}
	return nil
}

// Run prints the search results. Failures are printed with the same
// message the web UI shows and returned.
func (cmd *SearchCommand) Run(ctx context.Context) error {
	result, err := cmd.searcher.Search(ctx, cmd.Query)
	if err != nil {
		var searchErr *search.Error
		if errors.As(err, &searchErr) {
			fmt.Fprintln(cmd.out, searchErr.Message())
		}
		return err
	}

	books := result.Books
	if cmd.Limit > 0 && len(books) > cmd.Limit {
		books = books[:cmd.Limit]
	}

	if cmd.JSON {
		enc := json.NewEncoder(cmd.out)
		enc.SetIndent("", "  ")
		if books == nil {
			books = []entities.Book{}
		}
		return enc.Encode(books)
	}

	if len(books) == 0 {
		fmt.Fprintf(cmd.out, "No books found for %q\n", cmd.Query)
		return nil
	}

	fmt.Fprintf(cmd.out, "Found %d books for %q", len(result.Books), cmd.Query)
	if len(books) < len(result.Books) {
		fmt.Fprintf(cmd.out, " (showing %d)", len(books))
	}
	fmt.Fprintln(cmd.out)

	for i, book := range books {
		fmt.Fprintf(cmd.out, "%2d. %s by %s\n", i+1, book.Title, book.Author)
		year := entities.NotAvailable
		if book.PublishYear != nil {
			year = fmt.Sprint(*book.PublishYear)
		}
		fmt.Fprintf(cmd.out, "    ISBN: %s | Published: %s | Pages: %s\n", book.ISBN, year, book.PageCount)
	}
	return nil
}
