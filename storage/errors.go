package storage

import (
	"errors"
	"fmt"
)

// ErrCountryNotTracked reports that the price update matched zero rows:
// the country code has no row in the price table. The filter-based PATCH
// would otherwise make this look identical to a successful update.
var ErrCountryNotTracked = errors.New("country code not present in price table")

// UpdateError is a rejected or failed price update. StatusCode is zero
// for transport-level failures.
type UpdateError struct {
	CountryCode string
	StatusCode  int
	Err         error
}

func (e *UpdateError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("update %s: http %d: %v", e.CountryCode, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("update %s: %v", e.CountryCode, e.Err)
}

func (e *UpdateError) Unwrap() error { return e.Err }
