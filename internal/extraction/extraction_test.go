package extraction

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/williampepple1/jobstreet-scraper/internal/config"
	"github.com/williampepple1/jobstreet-scraper/internal/document"
	"github.com/williampepple1/jobstreet-scraper/pkg/models"
)

const resultsPage = `<html><body>
<div id="job_listing_panel">
  <div class="panel ">
    <h2><a class="position-title-link" href="https://www.jobstreet.com.my/en/job/go-developer-1">  Go Developer </a></h2>
    <a class="company-name" href="/company/acme">Acme Sdn Bhd</a>
    <ul><li class="job-location">Kuala Lumpur</li></ul>
    <ul id="job_desc_detail_1"><li>Build APIs</li><li>Write tests</li></ul>
  </div>
  <div class="panel standout">
    <h2><a class="position-title-link" href="/en/job/sre-2">Site Reliability Engineer</a></h2>
    <ul><li class="job-location">Cyberjaya</li></ul>
  </div>
  <div class="panel ">
    <span>Confidential listing</span>
  </div>
  <div class="panel featured">
    <a class="position-title-link" href="/en/job/ignored">Not a result panel</a>
  </div>
</div>
<div id="pagination"><a id="page_next" href="/en/job-search/job-vacancy.php?key=go&pg=2">Next</a></div>
</body></html>`

const lastPage = `<html><body>
<div class="panel "><a class="position-title-link" href="/en/job/9">Only Job</a></div>
<div id="pagination"><a id="page_prev" href="/prev">Prev</a></div>
</body></html>`

func newExtractor(t *testing.T) *Extractor {
	t.Helper()
	e, err := NewExtractor(&config.Default().Extraction)
	require.NoError(t, err)
	return e
}

func parse(t *testing.T, html string) document.Document {
	t.Helper()
	doc, err := document.Parse(html)
	require.NoError(t, err)
	return doc
}

func TestExtractFields(t *testing.T) {
	e := newExtractor(t)
	panels := e.Panels(parse(t, resultsPage))
	require.Len(t, panels, 3)

	assert.Equal(t, []string{"Go Developer", "Site Reliability Engineer", ""}, e.Titles(panels))
	assert.Equal(t, []string{"Acme Sdn Bhd", "", ""}, e.CompanyNames(panels))
	assert.Equal(t, []string{"Kuala Lumpur", "Cyberjaya", ""}, e.Locations(panels))
	assert.Equal(t, []string{"Build APIsWrite tests", "", ""}, e.Descriptions(panels))
	assert.Equal(t, []string{
		"https://www.jobstreet.com.my/en/job/go-developer-1",
		"/en/job/sre-2",
		"",
	}, e.DetailLinks(panels))
}

func TestExtractBatchIsAligned(t *testing.T) {
	e := newExtractor(t)
	panels := e.Panels(parse(t, resultsPage))

	batch := e.Extract(panels)

	n, err := batch.Len()
	require.NoError(t, err)
	assert.Equal(t, len(panels), n)
	for _, f := range models.Fields {
		assert.Len(t, batch[f], len(panels), string(f))
	}
}

func TestExtractNoPanels(t *testing.T) {
	e := newExtractor(t)
	panels := e.Panels(parse(t, `<html><body><p>nothing</p></body></html>`))

	assert.Empty(t, panels)
	batch := e.Extract(panels)
	n, err := batch.Len()
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Equal(t, []string{}, batch[models.FieldTitle])
}

func TestNextPageLink(t *testing.T) {
	e := newExtractor(t)

	link, ok := e.NextPageLink(parse(t, resultsPage))
	assert.True(t, ok)
	assert.Equal(t, "/en/job-search/job-vacancy.php?key=go&pg=2", link)

	_, ok = e.NextPageLink(parse(t, lastPage))
	assert.False(t, ok)

	_, ok = e.NextPageLink(parse(t, `<a id="page_next">Next</a>`))
	assert.False(t, ok, "next control without href ends pagination")
}

func TestNoResults(t *testing.T) {
	e := newExtractor(t)

	assert.True(t, e.NoResults(parse(t, `<div id="no_result">No jobs found</div>`)))
	assert.False(t, e.NoResults(parse(t, resultsPage)))
}

func TestNewExtractorRejectsBadSelector(t *testing.T) {
	cfg := config.Default().Extraction
	cfg.Selectors.Location = "li["

	_, err := NewExtractor(&cfg)
	assert.ErrorContains(t, err, "location")
}
