package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"

	"hotmart-price-sync/models"
)

const (
	BackendSupabase = "supabase"
	BackendPostgres = "postgres"
)

// Config is the immutable configuration of one pipeline instance. It is
// assembled once at startup; components receive it by value and never
// write to it.
type Config struct {
	SupabaseURL string `validate:"required_if=StoreBackend supabase,omitempty,url"`
	ServiceKey  string `validate:"required_if=StoreBackend supabase"`
	DatabaseURL string `validate:"required_if=StoreBackend postgres"`

	CheckoutURL string `validate:"required,url"`
	PriceTable  string `validate:"required"`

	Countries []models.Country `validate:"min=1"`

	// Selectors on the checkout page; external configuration, the page
	// layout is not discovered at runtime.
	CountrySelector string `validate:"required"`
	PriceSelector   string `validate:"required"`

	// DecimalComma says the rendered prices use "," as the decimal
	// marker and "." as the thousands separator.
	DecimalComma bool
	Headless     bool

	PacingDelay    time.Duration `validate:"min=0"`
	ExtractTimeout time.Duration `validate:"gt=0"`
	RequestTimeout time.Duration `validate:"gt=0"`

	ExtractRetries int           `validate:"min=1"`
	RetryBackoff   time.Duration `validate:"min=0"`

	StoreBackend string `validate:"oneof=supabase postgres"`

	AuditCSVPath string
	LogLevel     string
}

func NewViper() *viper.Viper {
	v := viper.New()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("CHECKOUT_URL", "https://pay.hotmart.com/5h87lps7")
	v.SetDefault("PRICE_TABLE", "country_prices")
	v.SetDefault("COUNTRIES", "")
	v.SetDefault("COUNTRY_SELECTOR", "select#country")
	v.SetDefault("PRICE_SELECTOR", ".price")
	v.SetDefault("DECIMAL_COMMA", true)
	v.SetDefault("HEADLESS", true)
	v.SetDefault("PACING_DELAY", "2s")
	v.SetDefault("EXTRACT_TIMEOUT", "10s")
	v.SetDefault("REQUEST_TIMEOUT", "15s")
	v.SetDefault("EXTRACT_RETRIES", 1)
	v.SetDefault("RETRY_BACKOFF", "2s")
	v.SetDefault("STORE_BACKEND", BackendSupabase)
	v.SetDefault("AUDIT_CSV_PATH", "")
	v.SetDefault("LOG_LEVEL", "info")

	return v
}

func New(v *viper.Viper) (*Config, error) {
	countries, err := ParseCountries(v.GetString("COUNTRIES"))
	if err != nil {
		return nil, fmt.Errorf("invalid COUNTRIES: %w", err)
	}

	cfg := &Config{
		SupabaseURL: strings.TrimRight(strings.TrimSpace(v.GetString("SUPABASE_URL")), "/"),
		ServiceKey:  strings.TrimSpace(v.GetString("SUPABASE_SERVICE_KEY")),
		DatabaseURL: strings.TrimSpace(v.GetString("DATABASE_URL")),

		CheckoutURL: strings.TrimSpace(v.GetString("CHECKOUT_URL")),
		PriceTable:  strings.TrimSpace(v.GetString("PRICE_TABLE")),

		Countries: countries,

		CountrySelector: v.GetString("COUNTRY_SELECTOR"),
		PriceSelector:   v.GetString("PRICE_SELECTOR"),

		DecimalComma: v.GetBool("DECIMAL_COMMA"),
		Headless:     v.GetBool("HEADLESS"),

		PacingDelay:    v.GetDuration("PACING_DELAY"),
		ExtractTimeout: v.GetDuration("EXTRACT_TIMEOUT"),
		RequestTimeout: v.GetDuration("REQUEST_TIMEOUT"),

		ExtractRetries: v.GetInt("EXTRACT_RETRIES"),
		RetryBackoff:   v.GetDuration("RETRY_BACKOFF"),

		StoreBackend: strings.ToLower(strings.TrimSpace(v.GetString("STORE_BACKEND"))),

		AuditCSVPath: strings.TrimSpace(v.GetString("AUDIT_CSV_PATH")),
		LogLevel:     v.GetString("LOG_LEVEL"),
	}

	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// ParseCountries turns a "CODE:Name,CODE:Name" string into the ordered
// country list. An empty string selects the default list.
func ParseCountries(raw string) ([]models.Country, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return DefaultCountries(), nil
	}

	seen := make(map[string]bool)
	var countries []models.Country

	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		code, name, ok := strings.Cut(part, ":")
		if !ok {
			return nil, fmt.Errorf("entry %q is not CODE:Name", part)
		}

		code = strings.ToUpper(strings.TrimSpace(code))
		name = strings.TrimSpace(name)
		if len(code) != 2 {
			return nil, fmt.Errorf("country code %q must be two letters", code)
		}
		if name == "" {
			return nil, fmt.Errorf("country %s has no display name", code)
		}
		if seen[code] {
			return nil, fmt.Errorf("duplicate country code %s", code)
		}

		seen[code] = true
		countries = append(countries, models.Country{Code: code, Name: name})
	}

	if len(countries) == 0 {
		return nil, fmt.Errorf("no countries in %q", raw)
	}
	return countries, nil
}

// DefaultCountries is the checkout markets the storefront localizes for.
func DefaultCountries() []models.Country {
	return []models.Country{
		{Code: "AR", Name: "Argentina"},
		{Code: "CO", Name: "Colombia"},
		{Code: "PE", Name: "Perú"},
		{Code: "MX", Name: "México"},
		{Code: "PA", Name: "Panamá"},
		{Code: "GT", Name: "Guatemala"},
		{Code: "DO", Name: "República Dominicana"},
		{Code: "PY", Name: "Paraguay"},
		{Code: "ES", Name: "España"},
		{Code: "CR", Name: "Costa Rica"},
		{Code: "CL", Name: "Chile"},
		{Code: "UY", Name: "Uruguay"},
		{Code: "BO", Name: "Bolivia"},
		{Code: "HN", Name: "Honduras"},
	}
}
