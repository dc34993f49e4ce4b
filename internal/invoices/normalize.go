package invoices

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

var numericID = regexp.MustCompile(`^\d+(?:\.0+)?$`)

// NormalizeInvoiceID strips spurious decimal suffixes that spreadsheet cells
// attach to numeric ids ("25042.0" becomes "25042"). Alphanumeric ids pass
// through unchanged.
func NormalizeInvoiceID(raw string) string {
	s := strings.TrimSpace(raw)
	if !numericID.MatchString(s) {
		return s
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return s
	}
	return strconv.FormatInt(int64(f), 10)
}

// ParseAmount reads a monetary amount in Spanish ("1.234,56€") or English
// ("1,234.56") notation. Unparseable input yields zero.
func ParseAmount(raw string) decimal.Decimal {
	cleaned := strings.TrimSpace(raw)
	cleaned = strings.ReplaceAll(cleaned, "€", "")
	cleaned = strings.ReplaceAll(cleaned, "$", "")
	cleaned = strings.TrimSpace(cleaned)
	if cleaned == "" {
		return decimal.Zero
	}

	hasComma := strings.Contains(cleaned, ",")
	hasDot := strings.Contains(cleaned, ".")
	switch {
	case hasComma && hasDot:
		if strings.LastIndex(cleaned, ",") > strings.LastIndex(cleaned, ".") {
			// 1.234,56 -> 1234.56
			cleaned = strings.ReplaceAll(cleaned, ".", "")
			cleaned = strings.ReplaceAll(cleaned, ",", ".")
		} else {
			// 1,234.56 -> 1234.56
			cleaned = strings.ReplaceAll(cleaned, ",", "")
		}
	case hasComma:
		cleaned = strings.ReplaceAll(cleaned, ",", ".")
	}

	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// FormatCurrencyEUR renders an amount in Spanish notation with a euro suffix,
// e.g. "3.976,42€".
func FormatCurrencyEUR(d decimal.Decimal) string {
	fixed := d.StringFixed(2)
	neg := strings.HasPrefix(fixed, "-")
	fixed = strings.TrimPrefix(fixed, "-")

	parts := strings.SplitN(fixed, ".", 2)
	intPart, fracPart := parts[0], parts[1]

	var b strings.Builder
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(r)
	}

	out := b.String() + "," + fracPart + "€"
	if neg {
		out = "-" + out
	}
	return out
}
