package models

import "time"

// Country is one entry of the configured sync list. Code is the join key
// into the country_prices table; Name is informational only.
type Country struct {
	Code string
	Name string
}

// PriceObservation is the price read from the checkout page for one
// country. It lives only for the duration of that country's iteration.
type PriceObservation struct {
	CountryCode string
	Amount      float64
	ObservedAt  time.Time
}

type OutcomeStatus string

const (
	StatusUpdated          OutcomeStatus = "updated"
	StatusExtractionFailed OutcomeStatus = "extraction_failed"
	StatusUpdateFailed     OutcomeStatus = "update_failed"
)

// SyncOutcome is the per-country result of one run.
type SyncOutcome struct {
	CountryCode string
	Status      OutcomeStatus
	Detail      string
}

// BatchReport aggregates the outcomes of a full pass over the country
// list. Outcomes keep the order of the configured list.
type BatchReport struct {
	Total    int
	Updated  int
	Failed   int
	Outcomes []SyncOutcome
}

// Append records one country's outcome and keeps the counters in step,
// so Updated+Failed == Total always holds.
func (r *BatchReport) Append(o SyncOutcome) {
	r.Outcomes = append(r.Outcomes, o)
	r.Total++
	if o.Status == StatusUpdated {
		r.Updated++
	} else {
		r.Failed++
	}
}
