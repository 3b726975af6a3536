package scraper

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/williampepple1/jobstreet-scraper/internal/config"
	"github.com/williampepple1/jobstreet-scraper/internal/proxy"
	"github.com/williampepple1/jobstreet-scraper/pkg/models"
)

// HTTPFetcher fetches pages with a plain HTTP client
type HTTPFetcher struct {
	Config *config.AppConfig
	Proxy  *proxy.Rotator
	client *http.Client
}

// NewHTTPFetcher creates a new HTTP fetcher. Its client is shared by every
// Fetch call.
func NewHTTPFetcher(cfg *config.AppConfig) *HTTPFetcher {
	return &HTTPFetcher{
		Config: cfg,
		Proxy:  proxy.NewRotator(&cfg.Proxies, nil),
		client: &http.Client{
			Transport: proxy.Transport(),
			Timeout:   cfg.Scraper.Timeout,
		},
	}
}

// CloseIdleConnections releases keep-alive connections held by the client
func (f *HTTPFetcher) CloseIdleConnections() {
	f.client.CloseIdleConnections()
}

// Fetch issues a single GET. Any status of 400 or above is a FetchError.
func (f *HTTPFetcher) Fetch(ctx context.Context, url string, headers http.Header) (*models.Page, error) {
	start := time.Now()

	proxyURL, err := f.Proxy.Next()
	if err != nil {
		return nil, &FetchError{URL: url, Err: fmt.Errorf("apply proxy: %w", err)}
	}
	var proxyUsed string
	if proxyURL != nil {
		proxyUsed = proxyURL.Redacted()
	}

	req, err := http.NewRequestWithContext(proxy.WithProxy(ctx, proxyURL), http.MethodGet, url, nil)
	if err != nil {
		return nil, &FetchError{URL: url, Err: err}
	}
	for name, values := range headers {
		for _, v := range values {
			req.Header.Add(name, v)
		}
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, &FetchError{URL: url, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return nil, &FetchError{
			URL:        url,
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("unexpected status %s", resp.Status),
		}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &FetchError{URL: url, StatusCode: resp.StatusCode, Err: err}
	}

	return &models.Page{
		URL:        url,
		Body:       string(body),
		StatusCode: resp.StatusCode,
		Duration:   time.Since(start),
		Timestamp:  time.Now(),
		ProxyUsed:  proxyUsed,
	}, nil
}
