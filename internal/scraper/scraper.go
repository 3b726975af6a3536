package scraper

import (
	"context"
	"fmt"
	"net/http"

	"github.com/williampepple1/jobstreet-scraper/internal/config"
	"github.com/williampepple1/jobstreet-scraper/pkg/models"
)

// Fetcher retrieves one page with the given request headers
type Fetcher interface {
	Fetch(ctx context.Context, url string, headers http.Header) (*models.Page, error)
}

// FetchError reports a failed page fetch. StatusCode is zero when no
// response was received.
type FetchError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetch %s: status %d", e.URL, e.StatusCode)
	}
	return fmt.Sprintf("fetch %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// New creates a fetcher based on the configuration
func New(cfg *config.AppConfig) Fetcher {
	if cfg.Browser.Enabled {
		return NewBrowserFetcher(cfg)
	}
	return NewHTTPFetcher(cfg)
}
