// internal/paginate/paginate.go
package paginate

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
)

// DefaultPageSize is the largest page GitHub list endpoints accept.
const DefaultPageSize = 100

// Fetcher retrieves one page of a JSON array endpoint.
type Fetcher interface {
	FetchPage(ctx context.Context, url string) ([]json.RawMessage, error)
}

// FetcherFunc adapts a function to the Fetcher interface.
type FetcherFunc func(ctx context.Context, url string) ([]json.RawMessage, error)

func (f FetcherFunc) FetchPage(ctx context.Context, url string) ([]json.RawMessage, error) {
	return f(ctx, url)
}

// PageURL appends page size and page number to base, which may already carry a query.
func PageURL(base string, pageSize, page int) string {
	sep := "?"
	if strings.Contains(base, "?") {
		sep = "&"
	}
	return fmt.Sprintf("%s%sper_page=%d&page=%d", base, sep, pageSize, page)
}

// All walks pages of baseURL until a short page, an empty page or a failed fetch.
// A failure ends pagination and whatever was collected so far is returned.
func All(ctx context.Context, f Fetcher, logger *slog.Logger, baseURL string, pageSize int) []json.RawMessage {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}

	var items []json.RawMessage
	for page := 1; ; page++ {
		url := PageURL(baseURL, pageSize, page)
		logger.Debug("Fetching page", "url", url, "page", page)

		batch, err := f.FetchPage(ctx, url)
		if err != nil {
			logger.Warn("Stopping pagination after failed page", "url", url, "page", page, "collected", len(items), "error", err)
			return items
		}

		items = append(items, batch...)
		if len(batch) < pageSize {
			return items
		}
	}
}
