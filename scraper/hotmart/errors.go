package hotmart

import "fmt"

type Reason string

const (
	ReasonTimeout         Reason = "timeout"
	ReasonElementNotFound Reason = "element_not_found"
	ReasonParse           Reason = "parse_error"
	ReasonSession         Reason = "session_error"
)

// ScrapeError is the definitive failure signal of one extraction attempt.
// A country that fails extraction is marked failed in the batch report;
// it never aborts the run.
type ScrapeError struct {
	CountryCode string
	Reason      Reason
	Err         error
}

func (e *ScrapeError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("extract %s: %s", e.CountryCode, e.Reason)
	}
	return fmt.Sprintf("extract %s: %s: %v", e.CountryCode, e.Reason, e.Err)
}

func (e *ScrapeError) Unwrap() error { return e.Err }
