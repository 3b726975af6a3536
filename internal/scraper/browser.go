package scraper

import (
	"context"
	"fmt"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"

	"github.com/williampepple1/jobstreet-scraper/internal/config"
	"github.com/williampepple1/jobstreet-scraper/pkg/models"
)

// BrowserFetcher renders pages in headless Chrome before returning the HTML
type BrowserFetcher struct {
	Config *config.AppConfig
}

// NewBrowserFetcher creates a new browser fetcher
func NewBrowserFetcher(cfg *config.AppConfig) *BrowserFetcher {
	return &BrowserFetcher{Config: cfg}
}

// Fetch navigates to url with the given headers and returns the rendered HTML
func (f *BrowserFetcher) Fetch(ctx context.Context, url string, headers http.Header) (*models.Page, error) {
	start := time.Now()

	ctx, cancel := context.WithTimeout(ctx, f.Config.Scraper.Timeout)
	defer cancel()

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", f.Config.Browser.Headless),
		chromedp.Flag("disable-blink-features", "AutomationControlled"),
	)
	if ua := headers.Get("User-Agent"); ua != "" {
		opts = append(opts, chromedp.UserAgent(ua))
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	defer cancelAlloc()

	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)
	defer cancelBrowser()

	extra := network.Headers{}
	for name := range headers {
		if name == "User-Agent" {
			continue
		}
		extra[name] = headers.Get(name)
	}

	var (
		html   string
		status atomic.Int64
	)
	chromedp.ListenTarget(browserCtx, func(ev interface{}) {
		resp, ok := ev.(*network.EventResponseReceived)
		if !ok {
			return
		}
		c := chromedp.FromContext(browserCtx)
		if c == nil || c.Target == nil {
			return
		}
		// the top frame shares its id with the page target
		if code, ok := documentStatus(resp, cdp.FrameID(c.Target.TargetID)); ok {
			status.CompareAndSwap(0, code)
		}
	})

	err := chromedp.Run(browserCtx,
		network.Enable(),
		network.SetExtraHTTPHeaders(extra),
		chromedp.Navigate(url),
		chromedp.Sleep(f.Config.Browser.WaitTime),
		chromedp.OuterHTML("html", &html),
	)
	if err != nil {
		return nil, &FetchError{URL: url, Err: err}
	}
	statusCode := int(status.Load())
	if statusCode >= http.StatusBadRequest {
		return nil, &FetchError{URL: url, StatusCode: statusCode, Err: fmt.Errorf("unexpected status %d", statusCode)}
	}

	return &models.Page{
		URL:        url,
		Body:       html,
		StatusCode: statusCode,
		Duration:   time.Since(start),
		Timestamp:  time.Now(),
		JSRendered: true,
	}, nil
}

// documentStatus returns the HTTP status of a document response loaded in
// frame. Redirects and rewritten URLs still match; sub-frames and
// sub-resources do not.
func documentStatus(ev *network.EventResponseReceived, frame cdp.FrameID) (int64, bool) {
	if ev.Type != network.ResourceTypeDocument || ev.Response == nil {
		return 0, false
	}
	if ev.FrameID != frame {
		return 0, false
	}
	return ev.Response.Status, true
}
