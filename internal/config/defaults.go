package config

// DefaultChromeUserAgents is the Chrome/Safari family used by the header factory
var DefaultChromeUserAgents = []string{
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
	"Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/119.0.0.0 Safari/537.36",
}

// DefaultFirefoxUserAgents is the Firefox family used by the header factory
var DefaultFirefoxUserAgents = []string{
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64; rv:122.0) Gecko/20100101 Firefox/122.0",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10.15; rv:122.0) Gecko/20100101 Firefox/122.0",
	"Mozilla/5.0 (X11; Ubuntu; Linux x86_64; rv:121.0) Gecko/20100101 Firefox/121.0",
}

const (
	AcceptFirefox = "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8"
	AcceptChrome  = "application/xml,application/xhtml+xml,text/html;q=0.9,text/plain;q=0.8,image/png,*/*;q=0.5"
)

// DefaultLocations maps the location names JobStreet Malaysia understands to
// their search codes.
var DefaultLocations = LocationSet{
	"selangor":  "51200",
	"penang":    "50700",
	"kl":        "50300",
	"melaka":    "50500",
	"putrajaya": "51600",
}

// DefaultSelectors describe the JobStreet results page
var DefaultSelectors = SelectorConfig{
	Panels:      `div[class="panel "], div[class="panel standout"]`,
	Title:       "a.position-title-link",
	CompanyName: "a.company-name",
	Location:    "li.job-location",
	Description: `ul[id*="job_desc_detail"]`,
	DetailLink:  "a.position-title-link",
	NextPage:    "#page_next",
	NoResults:   "#no_result",
}

const DefaultBaseURL = "https://www.jobstreet.com.my/en/job-search/job-vacancy.php"
