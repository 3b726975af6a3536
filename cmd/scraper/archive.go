package main

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/williampepple1/jobstreet-scraper/internal/storage"
	"github.com/williampepple1/jobstreet-scraper/pkg/logging"
	"github.com/williampepple1/jobstreet-scraper/pkg/models"
)

func archive(ctx context.Context, dsn, runID, key, location string, records *models.JobRecords, log *logging.Logger) error {
	id, err := uuid.Parse(runID)
	if err != nil {
		return fmt.Errorf("run id: %w", err)
	}

	w, err := storage.NewPostgresWriter(ctx, dsn)
	if err != nil {
		return err
	}
	defer w.Close()

	n, err := w.WriteRun(ctx, storage.Run{ID: id, Key: key, Location: location}, records)
	if err != nil {
		return fmt.Errorf("archive run: %w", err)
	}
	log.Info("Archived listings to PostgreSQL", "run_id", runID, "rows", n)
	return nil
}
