// Package jobstreet scrapes job listings from the JobStreet search pages.
package jobstreet

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/williampepple1/jobstreet-scraper/internal/config"
	"github.com/williampepple1/jobstreet-scraper/internal/document"
	"github.com/williampepple1/jobstreet-scraper/internal/extraction"
	"github.com/williampepple1/jobstreet-scraper/internal/scraper"
	"github.com/williampepple1/jobstreet-scraper/pkg/logging"
	"github.com/williampepple1/jobstreet-scraper/pkg/models"
)

// Deps are the collaborators a Scraper needs
type Deps struct {
	Fetcher   scraper.Fetcher
	Extractor *extraction.Extractor
	Headers   http.Header
	Logger    *logging.Logger
}

// Scraper holds the search settings and exposes the per-page operations.
// The embedded Extractor provides Panels, Titles, CompanyNames, Locations,
// Descriptions, DetailLinks, NextPageLink and NoResults.
type Scraper struct {
	*extraction.Extractor

	key       string
	location  string
	url       string
	baseURL   string
	locations config.LocationSet
	headers   http.Header
	fetcher   scraper.Fetcher
	log       *logging.Logger
}

// New creates a scraper for key and location and points it at the first
// results page.
func New(cfg *config.SearchConfig, key, location string, deps Deps) (*Scraper, error) {
	if deps.Fetcher == nil || deps.Extractor == nil {
		return nil, fmt.Errorf("jobstreet: fetcher and extractor are required")
	}
	log := deps.Logger
	if log == nil {
		log = logging.Nop()
	}

	s := &Scraper{
		Extractor: deps.Extractor,
		baseURL:   cfg.BaseURL,
		locations: cfg.Locations,
		headers:   deps.Headers,
		fetcher:   deps.Fetcher,
		log:       log,
	}
	s.SetKey(key)
	if err := s.SetLocation(location); err != nil {
		return nil, err
	}
	if err := s.SetURL(SearchURL(s.baseURL, s.key, s.location)); err != nil {
		return nil, err
	}
	return s, nil
}

// SearchURL builds the first results page URL. Key and location are query
// escaped so they decode back unchanged.
func SearchURL(base, key, location string) string {
	return base +
		"?key=" + url.QueryEscape(key) +
		"&location=" + url.QueryEscape(location) +
		"&specialization=&area=&salary="
}

func (s *Scraper) Key() string {
	return s.key
}

// SetKey sets the search key. An empty key searches everything.
func (s *Scraper) SetKey(key string) {
	s.key = key
}

func (s *Scraper) Location() string {
	return s.location
}

// SetLocation sets the location code. It must be empty or one of the
// allowed codes.
func (s *Scraper) SetLocation(location string) error {
	if location != "" && !s.locations.Contains(location) {
		return fmt.Errorf("%w: %q", ErrUnsupportedLocation, location)
	}
	s.location = location
	return nil
}

func (s *Scraper) URL() string {
	return s.url
}

// SetURL sets the page the next RequestSite call fetches
func (s *Scraper) SetURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}
	if !u.IsAbs() || u.Host == "" {
		return fmt.Errorf("%w: %q is not absolute", ErrInvalidURL, raw)
	}
	s.url = raw
	return nil
}

// Headers returns a copy of the request headers
func (s *Scraper) Headers() http.Header {
	return s.headers.Clone()
}

// RequestSite fetches the current URL. Failures are returned as
// *scraper.FetchError.
func (s *Scraper) RequestSite(ctx context.Context) (*models.Page, error) {
	return s.fetcher.Fetch(ctx, s.url, s.headers)
}

// ParsePage turns raw HTML into a queryable document
func ParsePage(html string) (document.Document, error) {
	return document.Parse(html)
}

// resolve turns a possibly relative link into an absolute URL using the
// current page as the base.
func (s *Scraper) resolve(link string) (string, error) {
	base, err := url.Parse(s.url)
	if err != nil {
		return "", err
	}
	ref, err := url.Parse(strings.TrimSpace(link))
	if err != nil {
		return "", fmt.Errorf("%w: next page link %q: %v", ErrInvalidURL, link, err)
	}
	return base.ResolveReference(ref).String(), nil
}
