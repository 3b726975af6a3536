package io

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"github.com/williampepple1/jobstreet-scraper/internal/config"
	"github.com/williampepple1/jobstreet-scraper/pkg/models"
)

const sheetName = "jobs"

// ResultWriter exports job records to files under the output directory.
// The directory must already exist.
type ResultWriter struct {
	Config *config.IOConfig
}

// NewResultWriter creates a new result writer
func NewResultWriter(cfg *config.IOConfig) *ResultWriter {
	return &ResultWriter{
		Config: cfg,
	}
}

// Path returns the output path for a format, e.g. data/jobstreet.csv
func (w *ResultWriter) Path(format string) string {
	return filepath.Join(w.Config.OutputDir, w.Config.Basename+"."+format)
}

// Save writes the records in every configured format and returns the paths
// written.
func (w *ResultWriter) Save(records *models.JobRecords) ([]string, error) {
	var written []string
	for _, format := range w.Config.Formats {
		var err error
		switch format {
		case "csv":
			err = w.SaveCSV(records)
		case "xlsx":
			err = w.SaveXLSX(records)
		case "json":
			err = w.SaveJSON(records)
		default:
			err = fmt.Errorf("unsupported output format: %s", format)
		}
		if err != nil {
			return written, err
		}
		written = append(written, w.Path(format))
	}
	return written, nil
}

// SaveCSV writes a header row and one row per listing
func (w *ResultWriter) SaveCSV(records *models.JobRecords) error {
	if err := records.Validate(); err != nil {
		return err
	}

	path := w.Path("csv")
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer file.Close()

	cw := csv.NewWriter(file)
	if err := cw.Write(models.Header()); err != nil {
		return err
	}
	if err := cw.WriteAll(records.Rows()); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return file.Close()
}

// SaveXLSX writes the same table as SaveCSV to a spreadsheet
func (w *ResultWriter) SaveXLSX(records *models.JobRecords) error {
	if err := records.Validate(); err != nil {
		return err
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), sheetName); err != nil {
		return err
	}

	header := models.Header()
	if err := f.SetSheetRow(sheetName, "A1", &header); err != nil {
		return err
	}
	for i, row := range records.Rows() {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheetName, cell, &row); err != nil {
			return fmt.Errorf("write row %d: %w", i+1, err)
		}
	}

	path := w.Path("xlsx")
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	return nil
}

// SaveJSON writes the listings as an indented JSON array
func (w *ResultWriter) SaveJSON(records *models.JobRecords) error {
	if err := records.Validate(); err != nil {
		return err
	}

	data, err := json.MarshalIndent(records.Listings(), "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(w.Path("json"), data, 0644)
}
