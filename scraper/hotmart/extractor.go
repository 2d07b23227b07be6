package hotmart

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/chromedp/chromedp"
	"go.uber.org/zap"

	"hotmart-price-sync/config"
	"hotmart-price-sync/models"
)

// priceSettle is how long the page gets to re-render the price after the
// country selection changes.
const priceSettle = 1500 * time.Millisecond

// selectCountryJS sets the country control to the wanted code, matching
// either option value or option text, and fires a change event so the
// checkout recomputes the localized price. Returns false when the option
// is not present.
const selectCountryJS = `(() => {
	const el = document.querySelector(%q);
	if (!el || !el.options) return false;
	const want = %q;
	const opt = Array.from(el.options).find(o =>
		(o.value || '').trim().toUpperCase() === want ||
		(o.textContent || '').trim().toUpperCase() === want
	);
	if (!opt) return false;
	el.value = opt.value;
	el.dispatchEvent(new Event('change', { bubbles: true }));
	return true;
})()`

// Extractor reads the localized price for one country from the checkout
// page. Every Extract call launches its own headless browser and tears it
// down before returning, so no session state leaks between countries.
type Extractor struct {
	cfg *config.Config
	log *zap.SugaredLogger
}

func NewExtractor(cfg *config.Config, log *zap.SugaredLogger) *Extractor {
	return &Extractor{cfg: cfg, log: log}
}

func (e *Extractor) Extract(ctx context.Context, countryCode string) (models.PriceObservation, error) {
	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, browserOpts(e.cfg.Headless)...)
	defer allocCancel()

	tabCtx, tabCancel := chromedp.NewContext(allocCtx)
	defer tabCancel()

	runCtx, cancel := context.WithTimeout(tabCtx, e.cfg.ExtractTimeout)
	defer cancel()

	if err := chromedp.Run(runCtx,
		chromedp.Navigate(e.cfg.CheckoutURL),
		hideWebDriver(),
	); err != nil {
		return models.PriceObservation{}, e.fail(countryCode, ReasonSession, err)
	}

	// The page is ready once the country control and the price element
	// are both visible.
	if err := chromedp.Run(runCtx,
		chromedp.WaitVisible(e.cfg.CountrySelector, chromedp.ByQuery),
		chromedp.WaitVisible(e.cfg.PriceSelector, chromedp.ByQuery),
	); err != nil {
		return models.PriceObservation{}, e.fail(countryCode, ReasonSession, err)
	}

	var selected bool
	js := fmt.Sprintf(selectCountryJS, e.cfg.CountrySelector, strings.ToUpper(countryCode))
	if err := chromedp.Run(runCtx, chromedp.Evaluate(js, &selected)); err != nil {
		return models.PriceObservation{}, e.fail(countryCode, ReasonSession, err)
	}
	if !selected {
		return models.PriceObservation{}, &ScrapeError{
			CountryCode: countryCode,
			Reason:      ReasonElementNotFound,
			Err:         fmt.Errorf("no option for %s in %q", countryCode, e.cfg.CountrySelector),
		}
	}

	var raw string
	if err := chromedp.Run(runCtx,
		chromedp.Sleep(priceSettle),
		chromedp.Text(e.cfg.PriceSelector, &raw, chromedp.ByQuery),
	); err != nil {
		return models.PriceObservation{}, e.fail(countryCode, ReasonSession, err)
	}

	raw = strings.TrimSpace(raw)
	if raw == "" {
		return models.PriceObservation{}, &ScrapeError{
			CountryCode: countryCode,
			Reason:      ReasonElementNotFound,
			Err:         fmt.Errorf("price element %q is empty", e.cfg.PriceSelector),
		}
	}

	amount, err := ParsePrice(raw, e.cfg.DecimalComma)
	if err != nil {
		return models.PriceObservation{}, &ScrapeError{CountryCode: countryCode, Reason: ReasonParse, Err: err}
	}

	e.log.Debugw("price extracted", "country", countryCode, "raw", raw, "amount", amount)

	return models.PriceObservation{
		CountryCode: countryCode,
		Amount:      amount,
		ObservedAt:  time.Now(),
	}, nil
}

// fail maps a chromedp error to the extraction failure taxonomy: hitting
// the extraction deadline is a timeout, everything else keeps the
// caller's fallback reason.
func (e *Extractor) fail(countryCode string, fallback Reason, err error) *ScrapeError {
	reason := fallback
	if errors.Is(err, context.DeadlineExceeded) {
		reason = ReasonTimeout
	}
	return &ScrapeError{CountryCode: countryCode, Reason: reason, Err: err}
}
