package storage

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-resty/resty/v2"

	"hotmart-price-sync/config"
)

// SupabaseStore applies price updates through the Supabase REST API: a
// PATCH against the price table filtered by country_code, authenticated
// with the service-role credential.
type SupabaseStore struct {
	client *resty.Client
	table  string
}

func NewSupabaseStore(cfg *config.Config) *SupabaseStore {
	client := resty.New().
		SetBaseURL(cfg.SupabaseURL).
		SetTimeout(cfg.RequestTimeout).
		SetHeader("apikey", cfg.ServiceKey).
		SetAuthToken(cfg.ServiceKey).
		SetHeader("Content-Type", "application/json")

	return &SupabaseStore{client: client, table: cfg.PriceTable}
}

// UpdatePrice issues exactly one write attempt; retrying is the caller's
// decision. Prefer: return=representation makes PostgREST echo the
// patched rows, which is what lets a zero-row match surface as
// ErrCountryNotTracked instead of a silent no-op.
func (s *SupabaseStore) UpdatePrice(ctx context.Context, countryCode string, amount float64) error {
	var rows []struct {
		CountryCode string  `json:"country_code"`
		Price       float64 `json:"price"`
	}

	resp, err := s.client.R().
		SetContext(ctx).
		SetHeader("Prefer", "return=representation").
		SetQueryParam("country_code", "eq."+countryCode).
		SetBody(map[string]float64{"price": amount}).
		SetResult(&rows).
		Patch("/rest/v1/" + s.table)
	if err != nil {
		return &UpdateError{CountryCode: countryCode, Err: err}
	}

	switch resp.StatusCode() {
	case http.StatusOK:
		if len(rows) == 0 {
			return &UpdateError{CountryCode: countryCode, StatusCode: resp.StatusCode(), Err: ErrCountryNotTracked}
		}
		return nil
	case http.StatusNoContent:
		// return=minimal behavior; nothing to inspect, accept as-is.
		return nil
	default:
		return &UpdateError{
			CountryCode: countryCode,
			StatusCode:  resp.StatusCode(),
			Err:         errors.New(strings.TrimSpace(resp.String())),
		}
	}
}

func (s *SupabaseStore) String() string {
	return fmt.Sprintf("supabase:%s", s.table)
}
