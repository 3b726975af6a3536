package jobstreet

import "errors"

var (
	// ErrUnsupportedLocation is returned for a location code outside the allow-list
	ErrUnsupportedLocation = errors.New("location not supported")
	// ErrInvalidURL is returned when the target URL is not an absolute URL
	ErrInvalidURL = errors.New("invalid url")
	// ErrNoJobsFound means the site reported that the search matched nothing
	ErrNoJobsFound = errors.New("search did not match any jobs, try different keywords")
	// ErrNoPanels means the page had neither listings nor a no-results
	// notice, which usually means the page layout changed
	ErrNoPanels = errors.New("no job panels found on page")
)
