package hotmart

import (
	"fmt"
	"strconv"
	"strings"
)

// ParsePrice turns rendered checkout text like "US$ 1.234,56" into a
// non-negative amount. Currency symbols, letters and whitespace are
// stripped; separator meaning follows the configured locale. Text that
// does not contain a parseable number is an error, never zero.
func ParsePrice(raw string, decimalComma bool) (float64, error) {
	var b strings.Builder
	for _, r := range raw {
		switch {
		case r >= '0' && r <= '9', r == '.', r == ',', r == '-':
			b.WriteRune(r)
		}
	}

	cleaned := b.String()
	if cleaned == "" {
		return 0, fmt.Errorf("no numeric content in %q", raw)
	}
	if strings.Contains(cleaned, "-") {
		return 0, fmt.Errorf("negative price %q", raw)
	}

	if decimalComma {
		// "." groups thousands, "," marks decimals.
		cleaned = strings.ReplaceAll(cleaned, ".", "")
		cleaned = strings.ReplaceAll(cleaned, ",", ".")
	} else {
		cleaned = strings.ReplaceAll(cleaned, ",", "")
	}

	amount, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, fmt.Errorf("unparsable price %q: %w", raw, err)
	}
	return amount, nil
}
