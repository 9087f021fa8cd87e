package models

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// ParseAmount parses a whole, non-negative currency amount as printed by the
// provider. Thousands separators ("12,500") are accepted.
func ParseAmount(s string) (decimal.Decimal, error) {
	clean := strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	if clean == "" {
		return decimal.Zero, fmt.Errorf("empty amount")
	}
	for _, r := range clean {
		if r < '0' || r > '9' {
			return decimal.Zero, fmt.Errorf("invalid amount %q", s)
		}
	}
	d, err := decimal.NewFromString(clean)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	return d, nil
}

// FormatAmount renders an amount with the currency suffix, e.g. "12500 RWF".
func FormatAmount(d decimal.Decimal) string {
	return d.String() + " " + Currency
}
