package models

import (
	"errors"
	"fmt"
	"time"
)

// Page represents the result of fetching one search results page
type Page struct {
	URL        string        `json:"url"`
	Body       string        `json:"-"`
	StatusCode int           `json:"status_code,omitempty"`
	Duration   time.Duration `json:"duration"`
	Timestamp  time.Time     `json:"timestamp"`
	JSRendered bool          `json:"js_rendered,omitempty"`
	ProxyUsed  string        `json:"proxy_used,omitempty"`
}

// StopReason explains why pagination ended without an error
type StopReason string

const (
	StopLastPage StopReason = "last_page"
	StopMaxPages StopReason = "max_pages"
	StopCycle    StopReason = "cycle"
)

// Summary describes a finished scraping run
type Summary struct {
	RunID    string     `json:"run_id"`
	Pages    []Page     `json:"pages"`
	Listings int        `json:"listings"`
	Stopped  StopReason `json:"stopped"`
	Started  time.Time  `json:"started"`
	Finished time.Time  `json:"finished"`
}

// Field names one column of the job record collection
type Field string

const (
	FieldTitle           Field = "title"
	FieldCompanyName     Field = "company_name"
	FieldLocation        Field = "location"
	FieldDescription     Field = "description"
	FieldDetailsPageLink Field = "details_page_link"
)

// Fields is the fixed column order used everywhere records are projected
var Fields = []Field{
	FieldTitle,
	FieldCompanyName,
	FieldLocation,
	FieldDescription,
	FieldDetailsPageLink,
}

// ErrMisaligned is returned when field columns do not have equal length
var ErrMisaligned = errors.New("job record fields are not aligned")

// Batch holds the values extracted from a single page, keyed by field
type Batch map[Field][]string

// Len returns the number of listings in the batch, or an error if the
// fields disagree.
func (b Batch) Len() (int, error) {
	n := len(b[Fields[0]])
	for _, f := range Fields[1:] {
		if len(b[f]) != n {
			return 0, fmt.Errorf("%w: %s has %d values, %s has %d", ErrMisaligned, Fields[0], n, f, len(b[f]))
		}
	}
	return n, nil
}

// JobRecords is the ordered field -> values collection grown page by page.
// Index i refers to the same listing in every column. The zero value is an
// empty collection ready to use.
type JobRecords struct {
	columns map[Field][]string
}

// NewJobRecords creates an empty collection
func NewJobRecords() *JobRecords {
	columns := make(map[Field][]string, len(Fields))
	for _, f := range Fields {
		columns[f] = []string{}
	}
	return &JobRecords{columns: columns}
}

// Append adds one page worth of values. A misaligned batch is rejected
// without touching the collection.
func (r *JobRecords) Append(b Batch) error {
	if _, err := b.Len(); err != nil {
		return err
	}
	if r.columns == nil {
		r.columns = make(map[Field][]string, len(Fields))
	}
	for _, f := range Fields {
		r.columns[f] = append(r.columns[f], b[f]...)
	}
	return nil
}

// Column returns the values collected for a field
func (r *JobRecords) Column(f Field) []string {
	return r.columns[f]
}

// Len returns the number of listings collected
func (r *JobRecords) Len() int {
	return len(r.columns[Fields[0]])
}

// Validate checks the alignment invariant
func (r *JobRecords) Validate() error {
	if r == nil {
		return fmt.Errorf("%w: nil collection", ErrMisaligned)
	}
	_, err := Batch(r.columns).Len()
	return err
}

// Header returns the column names in field order
func Header() []string {
	header := make([]string, len(Fields))
	for i, f := range Fields {
		header[i] = string(f)
	}
	return header
}

// Rows projects the collection into rows, one per listing, columns in
// field order.
func (r *JobRecords) Rows() [][]string {
	rows := make([][]string, r.Len())
	for i := range rows {
		row := make([]string, len(Fields))
		for j, f := range Fields {
			row[j] = r.columns[f][i]
		}
		rows[i] = row
	}
	return rows
}

// Listing is one row of the collection
type Listing struct {
	Title           string `json:"title"`
	CompanyName     string `json:"company_name"`
	Location        string `json:"location"`
	Description     string `json:"description"`
	DetailsPageLink string `json:"details_page_link"`
}

// Listings returns the collection as one Listing per row
func (r *JobRecords) Listings() []Listing {
	listings := make([]Listing, r.Len())
	for i := range listings {
		listings[i] = Listing{
			Title:           r.columns[FieldTitle][i],
			CompanyName:     r.columns[FieldCompanyName][i],
			Location:        r.columns[FieldLocation][i],
			Description:     r.columns[FieldDescription][i],
			DetailsPageLink: r.columns[FieldDetailsPageLink][i],
		}
	}
	return listings
}
