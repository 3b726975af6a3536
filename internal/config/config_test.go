package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestLoadFillsDefaults(t *testing.T) {
	path := writeConfig(t, `
scraper:
  page_delay: 500ms
  max_pages: 4
io:
  formats: [csv]
extraction:
  selectors:
    title: h2.title a
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 500*time.Millisecond, cfg.Scraper.PageDelay)
	assert.Equal(t, 4, cfg.Scraper.MaxPages)
	assert.Equal(t, 30*time.Second, cfg.Scraper.Timeout)
	assert.Equal(t, []string{"csv"}, cfg.IO.Formats)
	assert.Equal(t, "data", cfg.IO.OutputDir)
	assert.Equal(t, DefaultBaseURL, cfg.Search.BaseURL)
	assert.Equal(t, "h2.title a", cfg.Extraction.Selectors.Title)
	assert.Equal(t, DefaultSelectors.Panels, cfg.Extraction.Selectors.Panels)
	assert.Equal(t, DefaultLocations, cfg.Search.Locations)
	assert.NoError(t, cfg.Validate())
}

func TestLoadCustomLocationsReplaceDefaults(t *testing.T) {
	path := writeConfig(t, `
search:
  locations:
    johor: "50600"
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, LocationSet{"johor": "50600"}, cfg.Search.Locations)
}

func TestLoadKeepsExplicitZeroDelay(t *testing.T) {
	cfg, err := Load(writeConfig(t, `
scraper:
  page_delay: 0
  max_pages: 0
browser:
  headless: false
`))
	require.NoError(t, err)

	assert.Zero(t, cfg.Scraper.PageDelay)
	assert.Zero(t, cfg.Scraper.MaxPages)
	assert.False(t, cfg.Browser.Headless)
	assert.NoError(t, cfg.Validate())
}

func TestLoadAbsentDelayUsesDefault(t *testing.T) {
	cfg, err := Load(writeConfig(t, "log_level: debug\n"))
	require.NoError(t, err)

	assert.Equal(t, 2500*time.Millisecond, cfg.Scraper.PageDelay)
	assert.True(t, cfg.Browser.Headless)
	assert.Equal(t, Default().Scraper, cfg.Scraper)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("DATABASE_URL", "postgres://u:p@localhost:5432/jobs")
	t.Setenv("JOBSTREET_OUTPUT_DIR", "out")

	cfg, err := Load(writeConfig(t, "log_level: warn\n"))
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "postgres://u:p@localhost:5432/jobs", cfg.Storage.PostgresDSN)
	assert.Equal(t, "out", cfg.IO.OutputDir)
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	_, err = Load(writeConfig(t, "scraper: [not, a, map]\n"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*AppConfig)
		ok     bool
	}{
		{name: "defaults", modify: func(*AppConfig) {}, ok: true},
		{name: "bad selector", modify: func(c *AppConfig) { c.Extraction.Selectors.Title = "a[" }},
		{name: "negative delay", modify: func(c *AppConfig) { c.Scraper.PageDelay = -time.Second }},
		{name: "negative max pages", modify: func(c *AppConfig) { c.Scraper.MaxPages = -1 }},
		{name: "relative base url", modify: func(c *AppConfig) { c.Search.BaseURL = "/job-search" }},
		{name: "unknown format", modify: func(c *AppConfig) { c.IO.Formats = []string{"parquet"} }},
		{name: "empty location code", modify: func(c *AppConfig) { c.Search.Locations["kl"] = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.modify(cfg)
			err := cfg.Validate()
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestLocationSetResolve(t *testing.T) {
	set := DefaultLocations

	tests := []struct {
		input string
		code  string
		ok    bool
	}{
		{input: "", code: "", ok: true},
		{input: "50300", code: "50300", ok: true},
		{input: "kl", code: "50300", ok: true},
		{input: " Penang ", code: "50700", ok: true},
		{input: "99999", ok: false},
		{input: "johor", ok: false},
	}

	for _, tt := range tests {
		code, ok := set.Resolve(tt.input)
		assert.Equal(t, tt.ok, ok, tt.input)
		if tt.ok {
			assert.Equal(t, tt.code, code, tt.input)
		}
	}

	assert.Equal(t, []string{"kl", "melaka", "penang", "putrajaya", "selangor"}, set.Names())
}

func TestExampleConfigIsValid(t *testing.T) {
	cfg, err := Load(filepath.Join("..", "..", "config.example.yaml"))
	require.NoError(t, err)

	assert.NoError(t, cfg.Validate())
	assert.Equal(t, 2500*time.Millisecond, cfg.Scraper.PageDelay)
	assert.Equal(t, DefaultSelectors, cfg.Extraction.Selectors)
	assert.Equal(t, DefaultLocations, cfg.Search.Locations)
}
