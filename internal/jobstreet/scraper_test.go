package jobstreet

import (
	"context"
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/williampepple1/jobstreet-scraper/internal/config"
	"github.com/williampepple1/jobstreet-scraper/internal/extraction"
	"github.com/williampepple1/jobstreet-scraper/internal/scraper"
	"github.com/williampepple1/jobstreet-scraper/pkg/models"
)

// stubFetcher serves canned pages keyed by URL and records every request
type stubFetcher struct {
	pages    map[string]string
	status   map[string]int
	requests []string
	headers  []http.Header
}

func (f *stubFetcher) Fetch(_ context.Context, u string, h http.Header) (*models.Page, error) {
	f.requests = append(f.requests, u)
	f.headers = append(f.headers, h)
	if code, ok := f.status[u]; ok {
		return nil, &scraper.FetchError{URL: u, StatusCode: code}
	}
	body, ok := f.pages[u]
	if !ok {
		return nil, &scraper.FetchError{URL: u, StatusCode: http.StatusNotFound}
	}
	return &models.Page{URL: u, Body: body, StatusCode: http.StatusOK}, nil
}

func newScraper(t *testing.T, key, location string, f scraper.Fetcher) *Scraper {
	t.Helper()
	cfg := config.Default()
	e, err := extraction.NewExtractor(&cfg.Extraction)
	require.NoError(t, err)

	h := http.Header{}
	h.Set("User-Agent", config.DefaultChromeUserAgents[0])
	h.Set("Accept", config.AcceptChrome)

	s, err := New(&cfg.Search, key, location, Deps{Fetcher: f, Extractor: e, Headers: h})
	require.NoError(t, err)
	return s
}

func TestSearchURLCarriesKeyAndLocation(t *testing.T) {
	tests := []struct {
		key      string
		location string
	}{
		{key: "golang", location: ""},
		{key: "data engineer", location: "50300"},
		{key: "c++ & rust", location: "51200"},
		{key: "", location: "50700"},
	}

	for _, tt := range tests {
		raw := SearchURL(config.DefaultBaseURL, tt.key, tt.location)

		u, err := url.Parse(raw)
		require.NoError(t, err)
		q := u.Query()
		assert.Equal(t, tt.key, q.Get("key"))
		assert.Equal(t, tt.location, q.Get("location"))
		assert.Contains(t, raw, config.DefaultBaseURL+"?key=")
		assert.Contains(t, raw, "&specialization=&area=&salary=")
	}
}

func TestNewSetsInitialURL(t *testing.T) {
	s := newScraper(t, "golang", "50300", &stubFetcher{})

	assert.Equal(t, "golang", s.Key())
	assert.Equal(t, "50300", s.Location())
	assert.Equal(t, SearchURL(config.DefaultBaseURL, "golang", "50300"), s.URL())
	assert.Equal(t, config.AcceptChrome, s.Headers().Get("Accept"))
}

func TestSetLocation(t *testing.T) {
	s := newScraper(t, "golang", "", &stubFetcher{})

	assert.NoError(t, s.SetLocation(""))
	for _, code := range config.DefaultLocations {
		assert.NoError(t, s.SetLocation(code), code)
		assert.Equal(t, code, s.Location())
	}

	for _, bad := range []string{"99999", "kl", "50300 ", "Selangor"} {
		err := s.SetLocation(bad)
		assert.ErrorIs(t, err, ErrUnsupportedLocation, bad)
	}
}

func TestNewRejectsUnsupportedLocation(t *testing.T) {
	cfg := config.Default()
	e, err := extraction.NewExtractor(&cfg.Extraction)
	require.NoError(t, err)

	_, err = New(&cfg.Search, "golang", "12345", Deps{Fetcher: &stubFetcher{}, Extractor: e})
	assert.ErrorIs(t, err, ErrUnsupportedLocation)
}

func TestAlternateLocationSet(t *testing.T) {
	cfg := config.Default()
	cfg.Search.Locations = config.LocationSet{"johor": "50600"}
	e, err := extraction.NewExtractor(&cfg.Extraction)
	require.NoError(t, err)

	s, err := New(&cfg.Search, "golang", "50600", Deps{Fetcher: &stubFetcher{}, Extractor: e})
	require.NoError(t, err)

	assert.ErrorIs(t, s.SetLocation("50300"), ErrUnsupportedLocation)
}

func TestSetURL(t *testing.T) {
	s := newScraper(t, "golang", "", &stubFetcher{})

	assert.NoError(t, s.SetURL("https://www.jobstreet.com.my/en/job-search/job-vacancy.php?pg=2"))
	assert.ErrorIs(t, s.SetURL("/relative?pg=2"), ErrInvalidURL)
	assert.ErrorIs(t, s.SetURL("http://[::1"), ErrInvalidURL)
	assert.Equal(t, "https://www.jobstreet.com.my/en/job-search/job-vacancy.php?pg=2", s.URL())
}

func TestRequestSiteUsesCurrentURLAndHeaders(t *testing.T) {
	f := &stubFetcher{status: map[string]int{}}
	s := newScraper(t, "golang", "", f)
	f.pages = map[string]string{s.URL(): "<html></html>"}

	page, err := s.RequestSite(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "<html></html>", page.Body)
	require.Len(t, f.requests, 1)
	assert.Equal(t, s.URL(), f.requests[0])
	assert.Equal(t, config.AcceptChrome, f.headers[0].Get("Accept"))
}

func TestRequestSiteReturnsFetchError(t *testing.T) {
	f := &stubFetcher{}
	s := newScraper(t, "golang", "", f)
	f.status = map[string]int{s.URL(): http.StatusServiceUnavailable}

	_, err := s.RequestSite(context.Background())

	var fe *scraper.FetchError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, http.StatusServiceUnavailable, fe.StatusCode)
}

func TestResolve(t *testing.T) {
	s := newScraper(t, "golang", "", &stubFetcher{})
	require.NoError(t, s.SetURL("https://www.jobstreet.com.my/en/job-search/job-vacancy.php?key=golang"))

	next, err := s.resolve("?key=golang&pg=2")
	require.NoError(t, err)
	assert.Equal(t, "https://www.jobstreet.com.my/en/job-search/job-vacancy.php?key=golang&pg=2", next)

	next, err = s.resolve("https://example.com/p3")
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/p3", next)
}
