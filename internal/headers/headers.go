// Package headers builds browser-like request headers so the search site
// sees an ordinary visitor.
package headers

import (
	"errors"
	"math/rand"
	"net/http"
	"strings"
	"time"

	"github.com/williampepple1/jobstreet-scraper/internal/config"
)

// firefoxMarker identifies a Firefox user agent string
const firefoxMarker = "Firefox"

// Factory picks a user agent from one of two browser families and pairs it
// with the Accept header that family sends.
type Factory struct {
	chrome  []string
	firefox []string
	rng     *rand.Rand
}

// NewFactory creates a factory from the configured user agent families. A nil
// rng is replaced with a time-seeded source.
func NewFactory(cfg *config.ScraperConfig, rng *rand.Rand) (*Factory, error) {
	if len(cfg.ChromeUserAgents) == 0 || len(cfg.FirefoxUserAgents) == 0 {
		return nil, errors.New("both chrome and firefox user agents are required")
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Factory{
		chrome:  cfg.ChromeUserAgents,
		firefox: cfg.FirefoxUserAgents,
		rng:     rng,
	}, nil
}

// Make returns a header set with exactly User-Agent and Accept
func (f *Factory) Make() http.Header {
	family := f.firefox
	if f.rng.Float64() > 0.5 {
		family = f.chrome
	}
	ua := family[f.rng.Intn(len(family))]

	h := make(http.Header, 2)
	h.Set("User-Agent", ua)
	h.Set("Accept", AcceptFor(ua))
	return h
}

// AcceptFor returns the Accept header matching a user agent string
func AcceptFor(userAgent string) string {
	if strings.Contains(userAgent, firefoxMarker) {
		return config.AcceptFirefox
	}
	return config.AcceptChrome
}
