package pipeline

import (
	"context"
	"time"

	"go.uber.org/zap"

	"hotmart-price-sync/config"
	"hotmart-price-sync/models"
	"hotmart-price-sync/utils"
)

// Extractor produces the checkout price for one country or a definitive
// failure; it never returns an amount that is ambiguous with "not found".
type Extractor interface {
	Extract(ctx context.Context, countryCode string) (models.PriceObservation, error)
}

// PriceStore applies one country's price to the remote price table with
// at most one write attempt per call.
type PriceStore interface {
	UpdatePrice(ctx context.Context, countryCode string, amount float64) error
}

// Orchestrator drives the configured country list to completion, one
// country at a time. A country's failure is recorded and never aborts
// the batch.
type Orchestrator struct {
	cfg       *config.Config
	extractor Extractor
	store     PriceStore
	log       *zap.SugaredLogger

	// replaced in tests to observe pacing
	sleep func(time.Duration)
}

func NewOrchestrator(cfg *config.Config, extractor Extractor, store PriceStore, log *zap.SugaredLogger) *Orchestrator {
	return &Orchestrator{
		cfg:       cfg,
		extractor: extractor,
		store:     store,
		log:       log,
		sleep:     time.Sleep,
	}
}

// Run processes every configured country in order and returns the batch
// report. The pacing delay runs unconditionally between countries,
// whatever the previous country's outcome was.
func (o *Orchestrator) Run(ctx context.Context) models.BatchReport {
	var report models.BatchReport

	for i, country := range o.cfg.Countries {
		if i > 0 && o.cfg.PacingDelay > 0 {
			o.sleep(o.cfg.PacingDelay)
		}

		o.log.Infow("processing country", "code", country.Code, "name", country.Name)

		obs, err := o.extract(ctx, country.Code)
		if err != nil {
			o.log.Warnw("extraction failed", "code", country.Code, "error", err)
			report.Append(models.SyncOutcome{
				CountryCode: country.Code,
				Status:      models.StatusExtractionFailed,
				Detail:      err.Error(),
			})
			continue
		}

		if err := o.store.UpdatePrice(ctx, country.Code, obs.Amount); err != nil {
			o.log.Warnw("update failed", "code", country.Code, "amount", obs.Amount, "error", err)
			report.Append(models.SyncOutcome{
				CountryCode: country.Code,
				Status:      models.StatusUpdateFailed,
				Detail:      err.Error(),
			})
			continue
		}

		o.log.Infow("price updated", "code", country.Code, "amount", obs.Amount)
		report.Append(models.SyncOutcome{CountryCode: country.Code, Status: models.StatusUpdated})
	}

	o.log.Infow("batch finished",
		"total", report.Total, "updated", report.Updated, "failed", report.Failed)

	return report
}

// extract retries the browser session up to ExtractRetries times; the
// store update is never retried.
func (o *Orchestrator) extract(ctx context.Context, countryCode string) (models.PriceObservation, error) {
	var obs models.PriceObservation
	err := utils.Retry(o.cfg.ExtractRetries, o.cfg.RetryBackoff, func() error {
		var err error
		obs, err = o.extractor.Extract(ctx, countryCode)
		return err
	})
	return obs, err
}
