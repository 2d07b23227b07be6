package storage

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"hotmart-price-sync/models"
)

func TestAuditWriter_AppendAcrossRuns(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "audit", "runs.csv")
	w := NewAuditWriter(path)

	report := models.BatchReport{}
	report.Append(models.SyncOutcome{CountryCode: "AR", Status: models.StatusUpdated})
	report.Append(models.SyncOutcome{CountryCode: "MX", Status: models.StatusExtractionFailed, Detail: "timeout"})

	started := time.Date(2026, 8, 28, 6, 0, 0, 0, time.UTC)
	require.NoError(t, w.Append(started, report))
	require.NoError(t, w.Append(started.Add(12*time.Hour), report))

	file, err := os.Open(path)
	require.NoError(t, err)
	defer file.Close()

	rows, err := csv.NewReader(file).ReadAll()
	require.NoError(t, err)

	// one header plus two outcomes per run
	require.Len(t, rows, 5)
	require.Equal(t, []string{"run_started_at", "country_code", "status", "detail"}, rows[0])
	require.Equal(t, "AR", rows[1][1])
	require.Equal(t, "updated", rows[1][2])
	require.Equal(t, "timeout", rows[2][3])
	require.Equal(t, "2026-08-28T18:00:00Z", rows[3][0])
}
