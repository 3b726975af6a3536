package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/williampepple1/jobstreet-scraper/internal/document"
)

// AppConfig holds the complete application configuration
type AppConfig struct {
	LogLevel   string           `yaml:"log_level"`
	Search     SearchConfig     `yaml:"search"`
	Scraper    ScraperConfig    `yaml:"scraper"`
	IO         IOConfig         `yaml:"io"`
	Extraction ExtractionConfig `yaml:"extraction"`
	Proxies    ProxyConfig      `yaml:"proxies"`
	Browser    BrowserConfig    `yaml:"browser"`
	Storage    StorageConfig    `yaml:"storage"`
}

// SearchConfig describes the search endpoint and which locations it accepts
type SearchConfig struct {
	BaseURL   string      `yaml:"base_url"`
	Locations LocationSet `yaml:"locations"`
}

// ScraperConfig holds the fetch and pagination settings
type ScraperConfig struct {
	PageDelay         time.Duration `yaml:"page_delay"`
	MaxPages          int           `yaml:"max_pages"`
	Timeout           time.Duration `yaml:"timeout"`
	ChromeUserAgents  []string      `yaml:"chrome_user_agents,omitempty"`
	FirefoxUserAgents []string      `yaml:"firefox_user_agents,omitempty"`
}

// IOConfig holds the output configuration
type IOConfig struct {
	OutputDir string   `yaml:"output_dir"`
	Basename  string   `yaml:"basename"`
	Formats   []string `yaml:"formats"`
}

// ExtractionConfig holds the selectors describing the results page
type ExtractionConfig struct {
	Selectors SelectorConfig `yaml:"selectors"`
}

// SelectorConfig lists one CSS selector per thing the extractor looks for
type SelectorConfig struct {
	Panels      string `yaml:"panels"`
	Title       string `yaml:"title"`
	CompanyName string `yaml:"company_name"`
	Location    string `yaml:"location"`
	Description string `yaml:"description"`
	DetailLink  string `yaml:"detail_link"`
	NextPage    string `yaml:"next_page"`
	NoResults   string `yaml:"no_results"`
}

// ProxyConfig holds the proxy configuration
type ProxyConfig struct {
	Enabled bool     `yaml:"enabled"`
	Rotate  bool     `yaml:"rotate"`
	List    []string `yaml:"list"`
	Auth    struct {
		Username string `yaml:"username"`
		Password string `yaml:"password"`
	} `yaml:"auth"`
}

// BrowserConfig holds the browser configuration for JavaScript rendering
type BrowserConfig struct {
	Enabled  bool          `yaml:"enabled"`
	Headless bool          `yaml:"headless"`
	WaitTime time.Duration `yaml:"wait_time"`
}

// StorageConfig configures the optional PostgreSQL archive
type StorageConfig struct {
	PostgresDSN string `yaml:"postgres_dsn"`
}

// LocationSet is the allow-list of location codes, keyed by a human name
type LocationSet map[string]string

// Contains reports whether code is one of the allowed location codes
func (s LocationSet) Contains(code string) bool {
	for _, c := range s {
		if c == code {
			return true
		}
	}
	return false
}

// Resolve maps a location name or code to its code. The empty string
// resolves to itself and means "all locations".
func (s LocationSet) Resolve(input string) (string, bool) {
	input = strings.TrimSpace(input)
	if input == "" || s.Contains(input) {
		return input, true
	}
	code, ok := s[strings.ToLower(input)]
	return code, ok
}

// Names returns the location names in alphabetical order
func (s LocationSet) Names() []string {
	names := make([]string, 0, len(s))
	for name := range s {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Default returns the configuration used when no file is given
func Default() *AppConfig {
	cfg := &AppConfig{
		Scraper: ScraperConfig{
			PageDelay: 2500 * time.Millisecond,
		},
		Browser: BrowserConfig{
			Headless: true,
		},
	}
	cfg.applyDefaults()
	return cfg
}

// Load reads a YAML file over the defaults and applies environment
// overrides. Keys absent from the file keep their default, so an explicit
// zero such as page_delay: 0 is preserved. A .env file in the working
// directory is honoured when present.
func Load(filename string) (*AppConfig, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}

	cfg := Default()
	// a locations block replaces the defaults instead of merging into them
	defaultLocations := cfg.Search.Locations
	cfg.Search.Locations = nil
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", filename, err)
	}
	if cfg.Search.Locations == nil {
		cfg.Search.Locations = defaultLocations
	}

	cfg.applyDefaults()
	cfg.ApplyEnv()
	return cfg, nil
}

// ApplyEnv overrides settings from the environment
func (c *AppConfig) ApplyEnv() {
	_ = godotenv.Load()

	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
	if v := os.Getenv("DATABASE_URL"); v != "" {
		c.Storage.PostgresDSN = v
	}
	if v := os.Getenv("JOBSTREET_OUTPUT_DIR"); v != "" {
		c.IO.OutputDir = v
	}
}

// applyDefaults fills settings whose zero value is unusable
func (c *AppConfig) applyDefaults() {
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
	if c.Search.BaseURL == "" {
		c.Search.BaseURL = DefaultBaseURL
	}
	if len(c.Search.Locations) == 0 {
		c.Search.Locations = make(LocationSet, len(DefaultLocations))
		for name, code := range DefaultLocations {
			c.Search.Locations[name] = code
		}
	}
	if c.Scraper.Timeout == 0 {
		c.Scraper.Timeout = 30 * time.Second
	}
	if len(c.Scraper.ChromeUserAgents) == 0 {
		c.Scraper.ChromeUserAgents = DefaultChromeUserAgents
	}
	if len(c.Scraper.FirefoxUserAgents) == 0 {
		c.Scraper.FirefoxUserAgents = DefaultFirefoxUserAgents
	}
	if c.IO.OutputDir == "" {
		c.IO.OutputDir = "data"
	}
	if c.IO.Basename == "" {
		c.IO.Basename = "jobstreet"
	}
	if len(c.IO.Formats) == 0 {
		c.IO.Formats = []string{"csv", "xlsx"}
	}
	if c.Browser.WaitTime == 0 {
		c.Browser.WaitTime = 3 * time.Second
	}
	c.Extraction.Selectors.fill(DefaultSelectors)
}

func (s *SelectorConfig) fill(d SelectorConfig) {
	set := func(dst *string, v string) {
		if *dst == "" {
			*dst = v
		}
	}
	set(&s.Panels, d.Panels)
	set(&s.Title, d.Title)
	set(&s.CompanyName, d.CompanyName)
	set(&s.Location, d.Location)
	set(&s.Description, d.Description)
	set(&s.DetailLink, d.DetailLink)
	set(&s.NextPage, d.NextPage)
	set(&s.NoResults, d.NoResults)
}

// Validate checks the configuration before any request is made
func (c *AppConfig) Validate() error {
	var errs []error

	u, err := url.Parse(c.Search.BaseURL)
	if err != nil || !u.IsAbs() {
		errs = append(errs, fmt.Errorf("search.base_url %q is not an absolute URL", c.Search.BaseURL))
	}
	for name, code := range c.Search.Locations {
		if code == "" {
			errs = append(errs, fmt.Errorf("search.locations: %q has an empty code", name))
		}
	}
	if c.Scraper.PageDelay < 0 {
		errs = append(errs, errors.New("scraper.page_delay must not be negative"))
	}
	if c.Scraper.MaxPages < 0 {
		errs = append(errs, errors.New("scraper.max_pages must not be negative"))
	}
	for _, f := range c.IO.Formats {
		switch f {
		case "csv", "xlsx", "json":
		default:
			errs = append(errs, fmt.Errorf("io.formats: unsupported format %q", f))
		}
	}

	sel := c.Extraction.Selectors
	for name, s := range map[string]string{
		"panels":       sel.Panels,
		"title":        sel.Title,
		"company_name": sel.CompanyName,
		"location":     sel.Location,
		"description":  sel.Description,
		"detail_link":  sel.DetailLink,
		"next_page":    sel.NextPage,
		"no_results":   sel.NoResults,
	} {
		if _, err := document.Compile(s); err != nil {
			errs = append(errs, fmt.Errorf("extraction.selectors.%s: %w", name, err))
		}
	}

	return errors.Join(errs...)
}
