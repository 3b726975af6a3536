package proxy

import (
	"context"
	"fmt"
	"math/rand"
	"net/http"
	"net/url"

	"github.com/williampepple1/jobstreet-scraper/internal/config"
)

// Rotator hands out outbound proxies for page fetches
type Rotator struct {
	cfg  *config.ProxyConfig
	next int
	rng  *rand.Rand
}

// NewRotator creates a rotator. A nil rng disables random rotation and
// proxies are used round robin.
func NewRotator(cfg *config.ProxyConfig, rng *rand.Rand) *Rotator {
	return &Rotator{cfg: cfg, rng: rng}
}

// Enabled reports whether any proxy will be applied
func (r *Rotator) Enabled() bool {
	return r.cfg.Enabled && len(r.cfg.List) > 0
}

// Next returns the proxy to use for the following request, or nil when
// proxies are disabled.
func (r *Rotator) Next() (*url.URL, error) {
	if !r.Enabled() {
		return nil, nil
	}

	raw := r.cfg.List[0]
	if r.cfg.Rotate && len(r.cfg.List) > 1 {
		if r.rng != nil {
			raw = r.cfg.List[r.rng.Intn(len(r.cfg.List))]
		} else {
			raw = r.cfg.List[r.next%len(r.cfg.List)]
			r.next++
		}
	}

	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("parse proxy %q: %w", raw, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("proxy %q must include a scheme and host", raw)
	}
	if r.cfg.Auth.Username != "" && r.cfg.Auth.Password != "" {
		u.User = url.UserPassword(r.cfg.Auth.Username, r.cfg.Auth.Password)
	}
	return u, nil
}

type proxyKey struct{}

// WithProxy returns a context that routes requests made with it through u.
// A nil u means a direct connection.
func WithProxy(ctx context.Context, u *url.URL) context.Context {
	return context.WithValue(ctx, proxyKey{}, u)
}

// FromRequest reads the proxy chosen by WithProxy. It has the signature of
// http.Transport.Proxy.
func FromRequest(req *http.Request) (*url.URL, error) {
	u, _ := req.Context().Value(proxyKey{}).(*url.URL)
	return u, nil
}

// Transport returns a transport that uses the proxy carried by each
// request's context. Build it once and share it across requests so
// keep-alive connections are reused.
func Transport() *http.Transport {
	t := http.DefaultTransport.(*http.Transport).Clone()
	t.Proxy = FromRequest
	return t
}
