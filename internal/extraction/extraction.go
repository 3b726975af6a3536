package extraction

import (
	"fmt"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/williampepple1/jobstreet-scraper/internal/config"
	"github.com/williampepple1/jobstreet-scraper/internal/document"
	"github.com/williampepple1/jobstreet-scraper/pkg/models"
)

// Extractor pulls job fields out of a results page using CSS selectors
type Extractor struct {
	panels      document.Selector
	title       document.Selector
	companyName document.Selector
	location    document.Selector
	description document.Selector
	detailLink  document.Selector
	nextPage    document.Selector
	noResults   document.Selector
}

// NewExtractor compiles the configured selectors
func NewExtractor(cfg *config.ExtractionConfig) (*Extractor, error) {
	s := cfg.Selectors
	e := &Extractor{}
	for _, c := range []struct {
		dst  *document.Selector
		name string
		raw  string
	}{
		{&e.panels, "panels", s.Panels},
		{&e.title, "title", s.Title},
		{&e.companyName, "company_name", s.CompanyName},
		{&e.location, "location", s.Location},
		{&e.description, "description", s.Description},
		{&e.detailLink, "detail_link", s.DetailLink},
		{&e.nextPage, "next_page", s.NextPage},
		{&e.noResults, "no_results", s.NoResults},
	} {
		sel, err := document.Compile(c.raw)
		if err != nil {
			return nil, fmt.Errorf("%s selector: %w", c.name, err)
		}
		*c.dst = sel
	}
	return e, nil
}

// Panels returns the job listing containers on the page. An empty result is
// not an error.
func (e *Extractor) Panels(doc document.Node) []document.Node {
	return doc.FindAll(e.panels)
}

// Titles returns one job title per panel
func (e *Extractor) Titles(panels []document.Node) []string {
	return e.texts(panels, e.title)
}

// CompanyNames returns one company name per panel
func (e *Extractor) CompanyNames(panels []document.Node) []string {
	return e.texts(panels, e.companyName)
}

// Locations returns one job location per panel
func (e *Extractor) Locations(panels []document.Node) []string {
	return e.texts(panels, e.location)
}

// Descriptions returns one job description per panel
func (e *Extractor) Descriptions(panels []document.Node) []string {
	return e.texts(panels, e.description)
}

// DetailLinks returns the href of each panel's title link
func (e *Extractor) DetailLinks(panels []document.Node) []string {
	links := make([]string, len(panels))
	for i, p := range panels {
		if n, ok := p.Find(e.detailLink); ok {
			href, _ := n.Attr("href")
			links[i] = strings.TrimSpace(href)
		}
	}
	return links
}

// NextPageLink returns the target of the pagination control, if any
func (e *Extractor) NextPageLink(doc document.Node) (string, bool) {
	n, ok := doc.Find(e.nextPage)
	if !ok {
		return "", false
	}
	href, ok := n.Attr("href")
	href = strings.TrimSpace(href)
	if !ok || href == "" {
		return "", false
	}
	return href, true
}

// NoResults reports whether the page says the search matched nothing
func (e *Extractor) NoResults(doc document.Node) bool {
	_, ok := doc.Find(e.noResults)
	return ok
}

// Extract runs every field extractor over the panels
func (e *Extractor) Extract(panels []document.Node) models.Batch {
	return models.Batch{
		models.FieldTitle:           e.Titles(panels),
		models.FieldCompanyName:     e.CompanyNames(panels),
		models.FieldLocation:        e.Locations(panels),
		models.FieldDescription:     e.Descriptions(panels),
		models.FieldDetailsPageLink: e.DetailLinks(panels),
	}
}

func (e *Extractor) texts(panels []document.Node, sel document.Selector) []string {
	values := make([]string, len(panels))
	for i, p := range panels {
		if n, ok := p.Find(sel); ok {
			values[i] = clean(n.Text())
		}
	}
	return values
}

func clean(s string) string {
	return strings.TrimSpace(norm.NFC.String(s))
}
