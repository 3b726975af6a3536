package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/williampepple1/jobstreet-scraper/internal/config"
	"github.com/williampepple1/jobstreet-scraper/internal/extraction"
	"github.com/williampepple1/jobstreet-scraper/internal/headers"
	"github.com/williampepple1/jobstreet-scraper/internal/io"
	"github.com/williampepple1/jobstreet-scraper/internal/jobstreet"
	"github.com/williampepple1/jobstreet-scraper/internal/scraper"
	"github.com/williampepple1/jobstreet-scraper/pkg/logging"
)

func main() {
	fs := flag.CommandLine
	configFile := fs.String("config", "", "Path to configuration file (YAML)")
	key := fs.String("key", "", "Search key; prompted for when empty")
	location := fs.String("location", "", "Location code or name, e.g. 50300 or kl")
	var o overrides
	o.register(fs)
	flag.Parse()

	cfg, err := loadConfig(*configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading configuration: %v\n", err)
		os.Exit(1)
	}
	o.apply(cfg)

	log := logging.New(cfg.LogLevel)
	defer log.Sync()

	if err := cfg.Validate(); err != nil {
		log.Error("Invalid configuration", "error", err)
		os.Exit(1)
	}

	searchKey, searchLocation := *key, *location
	if searchKey == "" {
		prompt := io.NewPrompter(os.Stdin, os.Stdout)
		if searchKey, err = prompt.Ask("Please input your search key: "); err != nil {
			log.Error("Could not read search key", "error", err)
			os.Exit(1)
		}
		if searchLocation == "" {
			question := fmt.Sprintf("Please enter your preferred location (%s). Default to all if left empty: ",
				strings.Join(cfg.Search.Locations.Names(), ", "))
			if searchLocation, err = prompt.Ask(question); err != nil {
				log.Error("Could not read location", "error", err)
				os.Exit(1)
			}
		}
	}

	if err := run(cfg, log, searchKey, searchLocation); err != nil {
		var fe *scraper.FetchError
		switch {
		case errors.As(err, &fe):
			log.Error("Encountered HTTP error when requesting the site, please retry", "url", fe.URL, "status", fe.StatusCode, "error", err)
		case errors.Is(err, jobstreet.ErrNoJobsFound):
			log.Error("Sorry, your search did not match any jobs. Please try again with different keywords.")
		case errors.Is(err, jobstreet.ErrNoPanels):
			log.Error("No job listings found; the results page layout may have changed", "error", err)
		default:
			log.Error("Scrape failed", "error", err)
		}
		os.Exit(1)
	}
}

// overrides are the command-line flags that win over the config file.
// Negative numbers mean "not given" so that an explicit 0 still applies.
type overrides struct {
	outputDir string
	maxPages  int
	delay     time.Duration
	browser   bool
	proxy     bool
	logLevel  string
}

func (o *overrides) register(fs *flag.FlagSet) {
	fs.StringVar(&o.outputDir, "output-dir", "", "Directory for the exported files")
	fs.IntVar(&o.maxPages, "max-pages", -1, "Stop after this many pages (0 = no limit)")
	fs.DurationVar(&o.delay, "delay", -1, "Delay between page requests (0 = no delay)")
	fs.BoolVar(&o.browser, "browser", false, "Render pages in headless Chrome")
	fs.BoolVar(&o.proxy, "proxy", false, "Route requests through the configured proxies")
	fs.StringVar(&o.logLevel, "log-level", "", "Log level (debug, info, warn, error)")
}

func (o *overrides) apply(cfg *config.AppConfig) {
	if o.outputDir != "" {
		cfg.IO.OutputDir = o.outputDir
	}
	if o.maxPages >= 0 {
		cfg.Scraper.MaxPages = o.maxPages
	}
	if o.delay >= 0 {
		cfg.Scraper.PageDelay = o.delay
	}
	if o.browser {
		cfg.Browser.Enabled = true
	}
	if o.proxy {
		cfg.Proxies.Enabled = true
	}
	if o.logLevel != "" {
		cfg.LogLevel = o.logLevel
	}
}

func loadConfig(path string) (*config.AppConfig, error) {
	if path == "" {
		cfg := config.Default()
		cfg.ApplyEnv()
		return cfg, nil
	}
	return config.Load(path)
}

func run(cfg *config.AppConfig, log *logging.Logger, key, location string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	code, ok := cfg.Search.Locations.Resolve(location)
	if !ok {
		return fmt.Errorf("%w: %q (known: %s)", jobstreet.ErrUnsupportedLocation, location,
			strings.Join(cfg.Search.Locations.Names(), ", "))
	}

	extractor, err := extraction.NewExtractor(&cfg.Extraction)
	if err != nil {
		return err
	}
	factory, err := headers.NewFactory(&cfg.Scraper, nil)
	if err != nil {
		return err
	}

	s, err := jobstreet.New(&cfg.Search, key, code, jobstreet.Deps{
		Fetcher:   scraper.New(cfg),
		Extractor: extractor,
		Headers:   factory.Make(),
		Logger:    log,
	})
	if err != nil {
		return err
	}

	log.Info("JobStreet scraper starting", "key", key, "location", code, "browser", cfg.Browser.Enabled,
		"delay", cfg.Scraper.PageDelay, "max_pages", cfg.Scraper.MaxPages)

	records, summary, err := s.Run(ctx, jobstreet.RunOptions{
		PageDelay: cfg.Scraper.PageDelay,
		MaxPages:  cfg.Scraper.MaxPages,
	})
	if err != nil {
		return err
	}

	paths, err := io.NewResultWriter(&cfg.IO).Save(records)
	if err != nil {
		return fmt.Errorf("save results: %w", err)
	}
	for _, p := range paths {
		log.Info("Results saved", "path", p, "listings", records.Len())
	}

	if cfg.Storage.PostgresDSN != "" {
		if err := archive(ctx, cfg.Storage.PostgresDSN, summary.RunID, key, code, records, log); err != nil {
			return err
		}
	}

	fmt.Printf("Scraped %d jobs from %d pages in %v\n", summary.Listings, len(summary.Pages),
		summary.Finished.Sub(summary.Started).Round(time.Millisecond))
	return nil
}
