// Package numeric converts loosely-formatted numeric tokens from spreadsheet
// cells or text fields into exact decimal values. It accepts both comma and
// dot decimal separators and never goes through binary floating point, so
// currency math stays free of rounding drift.
package numeric

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// ParseError reports a missing or malformed numeric token. Raw holds the
// offending value exactly as it was received.
type ParseError struct {
	Raw string
}

func (e *ParseError) Error() string {
	if strings.TrimSpace(e.Raw) == "" {
		return "missing numeric value"
	}
	return fmt.Sprintf("invalid numeric value %q", e.Raw)
}

// ParseDecimal parses a numeric token. Whitespace is trimmed and a comma
// decimal separator is normalized to a dot before parsing.
func ParseDecimal(raw string) (decimal.Decimal, error) {
	normalized := strings.TrimSpace(raw)
	if normalized == "" {
		return decimal.Zero, &ParseError{Raw: raw}
	}
	normalized = strings.ReplaceAll(normalized, ",", ".")

	d, err := decimal.NewFromString(normalized)
	if err != nil {
		return decimal.Zero, &ParseError{Raw: raw}
	}
	return d, nil
}
