package jobstreet

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/williampepple1/jobstreet-scraper/pkg/models"
)

// RunOptions bound a pagination run
type RunOptions struct {
	// PageDelay is the pause between the end of one page fetch and the
	// start of the next
	PageDelay time.Duration
	// MaxPages stops the run after this many pages. Zero means no limit.
	MaxPages int
}

// Run follows the next-page links from the current URL until the last page
// and returns every listing found, in page order.
//
// A page without listings aborts the run with ErrNoJobsFound or ErrNoPanels
// and no records are returned. A next-page link that points at a page
// already visited ends the run as if it were the last page.
func (s *Scraper) Run(ctx context.Context, opts RunOptions) (*models.JobRecords, *models.Summary, error) {
	summary := &models.Summary{
		RunID:   uuid.NewString(),
		Started: time.Now(),
	}
	log := s.log.With("run_id", summary.RunID)

	records := models.NewJobRecords()
	visited := make(map[string]bool)

	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}

	for {

		visited[s.url] = true
		log.Info("Scraping page", "page", len(summary.Pages)+1, "url", s.url)

		page, err := s.RequestSite(ctx)
		if err != nil {
			return nil, nil, err
		}
		summary.Pages = append(summary.Pages, *page)
		log.Debug("Fetched page", "status", page.StatusCode, "duration", page.Duration, "proxy", page.ProxyUsed)

		doc, err := ParsePage(page.Body)
		if err != nil {
			return nil, nil, fmt.Errorf("%s: %w", s.url, err)
		}

		panels := s.Panels(doc)
		if len(panels) == 0 {
			if s.NoResults(doc) {
				return nil, nil, ErrNoJobsFound
			}
			return nil, nil, fmt.Errorf("%w: %s", ErrNoPanels, s.url)
		}

		if err := records.Append(s.Extract(panels)); err != nil {
			return nil, nil, fmt.Errorf("%s: %w", s.url, err)
		}
		log.Debug("Extracted listings", "count", len(panels), "total", records.Len())

		link, ok := s.NextPageLink(doc)
		if !ok {
			summary.Stopped = models.StopLastPage
			break
		}

		next, err := s.resolve(link)
		if err != nil {
			return nil, nil, err
		}
		if visited[next] {
			log.Warn("Next page already visited, stopping", "url", next)
			summary.Stopped = models.StopCycle
			break
		}
		if err := s.SetURL(next); err != nil {
			return nil, nil, err
		}

		if opts.MaxPages > 0 && len(summary.Pages) >= opts.MaxPages {
			log.Warn("Page limit reached, stopping", "max_pages", opts.MaxPages, "next", next)
			summary.Stopped = models.StopMaxPages
			break
		}

		if err := sleep(ctx, opts.PageDelay); err != nil {
			return nil, nil, err
		}
	}

	summary.Listings = records.Len()
	summary.Finished = time.Now()
	log.Info("Done scraping", "pages", len(summary.Pages), "listings", summary.Listings, "stopped", summary.Stopped)

	return records, summary, nil
}

// sleep pauses for d or until ctx is done
func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
