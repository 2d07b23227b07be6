package storage

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"hotmart-price-sync/models"
)

// AuditWriter appends one CSV row per country outcome after a run, so
// operators can trace what each scheduled invocation did. It is written
// once per run and never read back by the pipeline.
type AuditWriter struct {
	path string
}

func NewAuditWriter(path string) *AuditWriter {
	return &AuditWriter{path: path}
}

// Append writes the run's outcomes. Creates the directory and the header
// row on first use.
//
// CSV columns: run_started_at, country_code, status, detail
func (w *AuditWriter) Append(startedAt time.Time, report models.BatchReport) error {
	if len(report.Outcomes) == 0 {
		return nil
	}

	if dir := filepath.Dir(w.path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("could not create audit dir: %w", err)
		}
	}

	file, err := os.OpenFile(w.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("could not open audit file: %w", err)
	}
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return fmt.Errorf("could not stat audit file: %w", err)
	}

	writer := csv.NewWriter(file)
	defer writer.Flush()

	if info.Size() == 0 {
		writer.Write([]string{"run_started_at", "country_code", "status", "detail"})
	}

	ts := startedAt.UTC().Format(time.RFC3339)
	for _, o := range report.Outcomes {
		writer.Write([]string{ts, o.CountryCode, string(o.Status), o.Detail})
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("csv write error: %w", err)
	}
	return nil
}
