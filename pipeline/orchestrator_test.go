package pipeline

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"hotmart-price-sync/config"
	"hotmart-price-sync/models"
	"hotmart-price-sync/scraper/hotmart"
	"hotmart-price-sync/storage"
)

type stubExtractor struct {
	calls []string
	fn    func(countryCode string) (models.PriceObservation, error)
}

func (s *stubExtractor) Extract(_ context.Context, countryCode string) (models.PriceObservation, error) {
	s.calls = append(s.calls, countryCode)
	return s.fn(countryCode)
}

type stubStore struct {
	calls []string
	fn    func(countryCode string, amount float64) error
}

func (s *stubStore) UpdatePrice(_ context.Context, countryCode string, amount float64) error {
	s.calls = append(s.calls, countryCode)
	if s.fn == nil {
		return nil
	}
	return s.fn(countryCode, amount)
}

func observation(code string, amount float64) (models.PriceObservation, error) {
	return models.PriceObservation{CountryCode: code, Amount: amount, ObservedAt: time.Now()}, nil
}

func testConfig(countries ...models.Country) *config.Config {
	return &config.Config{
		Countries:      countries,
		PacingDelay:    2 * time.Second,
		ExtractRetries: 1,
	}
}

func newTestOrchestrator(cfg *config.Config, ex Extractor, st PriceStore) (*Orchestrator, *[]time.Duration) {
	o := NewOrchestrator(cfg, ex, st, zap.NewNop().Sugar())
	slept := &[]time.Duration{}
	o.sleep = func(d time.Duration) { *slept = append(*slept, d) }
	return o, slept
}

func TestRun_OneOutcomePerCountry(t *testing.T) {
	t.Parallel()

	cfg := testConfig(
		models.Country{Code: "AR", Name: "Argentina"},
		models.Country{Code: "CO", Name: "Colombia"},
		models.Country{Code: "PE", Name: "Perú"},
	)
	ex := &stubExtractor{fn: func(code string) (models.PriceObservation, error) {
		return observation(code, 10)
	}}
	st := &stubStore{}
	o, _ := newTestOrchestrator(cfg, ex, st)

	report := o.Run(context.Background())

	require.Equal(t, 3, report.Total)
	require.Equal(t, report.Total, report.Updated+report.Failed)
	require.Len(t, report.Outcomes, 3)
	for i, c := range cfg.Countries {
		require.Equal(t, c.Code, report.Outcomes[i].CountryCode)
	}
}

func TestRun_UpdateSkippedWhenExtractionFails(t *testing.T) {
	t.Parallel()

	cfg := testConfig(
		models.Country{Code: "AR", Name: "Argentina"},
		models.Country{Code: "MX", Name: "México"},
	)
	ex := &stubExtractor{fn: func(code string) (models.PriceObservation, error) {
		if code == "MX" {
			return models.PriceObservation{}, &hotmart.ScrapeError{
				CountryCode: code, Reason: hotmart.ReasonTimeout, Err: context.DeadlineExceeded,
			}
		}
		return observation(code, 12.50)
	}}
	st := &stubStore{}
	o, _ := newTestOrchestrator(cfg, ex, st)

	report := o.Run(context.Background())

	require.Equal(t, []string{"AR"}, st.calls)
	require.Equal(t, 2, report.Total)
	require.Equal(t, 1, report.Updated)
	require.Equal(t, 1, report.Failed)
	require.Equal(t, models.StatusUpdated, report.Outcomes[0].Status)
	require.Equal(t, models.StatusExtractionFailed, report.Outcomes[1].Status)
	require.Contains(t, report.Outcomes[1].Detail, "timeout")
}

func TestRun_StoreFailureMarksUpdateFailed(t *testing.T) {
	t.Parallel()

	cfg := testConfig(
		models.Country{Code: "AR", Name: "Argentina"},
		models.Country{Code: "CL", Name: "Chile"},
		models.Country{Code: "UY", Name: "Uruguay"},
	)
	ex := &stubExtractor{fn: func(code string) (models.PriceObservation, error) {
		return observation(code, 25)
	}}
	st := &stubStore{fn: func(code string, _ float64) error {
		if code == "CL" {
			return &storage.UpdateError{CountryCode: code, StatusCode: 500, Err: errors.New("internal")}
		}
		return nil
	}}
	o, _ := newTestOrchestrator(cfg, ex, st)

	report := o.Run(context.Background())

	require.Equal(t, 2, report.Updated)
	require.Equal(t, 1, report.Failed)
	require.Equal(t, models.StatusUpdated, report.Outcomes[0].Status)
	require.Equal(t, models.StatusUpdateFailed, report.Outcomes[1].Status)
	require.Equal(t, models.StatusUpdated, report.Outcomes[2].Status)
	require.Contains(t, report.Outcomes[1].Detail, "500")
}

func TestRun_PacingAppliedBetweenCountriesEvenOnFailure(t *testing.T) {
	t.Parallel()

	cfg := testConfig(
		models.Country{Code: "AR", Name: "Argentina"},
		models.Country{Code: "MX", Name: "México"},
		models.Country{Code: "CO", Name: "Colombia"},
		models.Country{Code: "PE", Name: "Perú"},
	)
	ex := &stubExtractor{fn: func(code string) (models.PriceObservation, error) {
		return models.PriceObservation{}, &hotmart.ScrapeError{CountryCode: code, Reason: hotmart.ReasonSession}
	}}
	o, slept := newTestOrchestrator(cfg, ex, &stubStore{})

	o.Run(context.Background())

	require.Len(t, *slept, len(cfg.Countries)-1)
	var total time.Duration
	for _, d := range *slept {
		total += d
	}
	require.GreaterOrEqual(t, total, time.Duration(len(cfg.Countries)-1)*cfg.PacingDelay)
}

func TestRun_ExtractionRetriedUpToConfiguredAttempts(t *testing.T) {
	t.Parallel()

	cfg := testConfig(models.Country{Code: "AR", Name: "Argentina"})
	cfg.ExtractRetries = 2

	attempts := 0
	ex := &stubExtractor{fn: func(code string) (models.PriceObservation, error) {
		attempts++
		if attempts == 1 {
			return models.PriceObservation{}, &hotmart.ScrapeError{CountryCode: code, Reason: hotmart.ReasonSession}
		}
		return observation(code, 49.90)
	}}
	st := &stubStore{}
	o, _ := newTestOrchestrator(cfg, ex, st)

	report := o.Run(context.Background())

	require.Equal(t, 2, attempts)
	require.Equal(t, []string{"AR"}, st.calls)
	require.Equal(t, 1, report.Updated)
}

func TestFormatSummary(t *testing.T) {
	t.Parallel()

	var report models.BatchReport
	report.Append(models.SyncOutcome{CountryCode: "AR", Status: models.StatusUpdated})
	report.Append(models.SyncOutcome{CountryCode: "MX", Status: models.StatusExtractionFailed, Detail: "extract MX: timeout"})

	out := FormatSummary(report)

	require.Contains(t, out, "PRICE SYNC COMPLETE")
	require.Contains(t, out, "AR")
	require.Contains(t, out, "extraction_failed")
	require.Contains(t, out, "Total")
}
