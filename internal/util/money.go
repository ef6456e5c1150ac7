package util

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"
)

var (
	reGroupedThousands = regexp.MustCompile(`^\d{1,3}(?:,\d{3})+(?:\.\d+)?$`)
	reCurrencyNoise    = regexp.MustCompile(`(?i)(usd|\$|\s)`)
)

// ParseAmount reads a money or quantity cell such as "$40,000.00", "2,850" or "(1,200)".
// Blank input yields ok=false with no error.
func ParseAmount(input string) (value float64, ok bool, err error) {
	s := strings.TrimSpace(strings.ReplaceAll(input, "\u00A0", " "))
	if s == "" {
		return 0, false, nil
	}

	negative := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		negative = true
		s = strings.TrimSuffix(strings.TrimPrefix(s, "("), ")")
	}
	s = reCurrencyNoise.ReplaceAllString(s, "")
	if strings.HasPrefix(s, "-") {
		negative = !negative
		s = strings.TrimPrefix(s, "-")
	}
	if s == "" {
		return 0, false, fmt.Errorf("no digits in %q", input)
	}

	parsed, err := strconv.ParseFloat(normalizeNumericToken(s), 64)
	if err != nil {
		return 0, false, fmt.Errorf("invalid amount %q", input)
	}
	if !IsFinite(parsed) {
		return 0, false, fmt.Errorf("amount %q is not a finite number", input)
	}
	if negative {
		parsed = -parsed
	}
	return parsed, true, nil
}

func normalizeNumericToken(token string) string {
	if reGroupedThousands.MatchString(token) {
		return strings.ReplaceAll(token, ",", "")
	}
	if strings.Contains(token, ",") && !strings.Contains(token, ".") {
		return strings.ReplaceAll(token, ",", ".")
	}
	return token
}

// IsFinite reports whether v is neither NaN nor infinite. Decimal math panics on anything else.
func IsFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// Extend returns round(quantity x unitCost, 2) computed in decimal.
func Extend(quantity, unitCost float64) float64 {
	return decimal.NewFromFloat(quantity).Mul(decimal.NewFromFloat(unitCost)).Round(2).InexactFloat64()
}

func Sum(values ...float64) float64 {
	total := decimal.Zero
	for _, v := range values {
		total = total.Add(decimal.NewFromFloat(v))
	}
	return total.InexactFloat64()
}

// FormatCurrency renders whole units with thousands separators, e.g. "$42,850".
func FormatCurrency(symbol string, v float64) string {
	rounded := int64(math.Round(v))
	if rounded < 0 {
		return "-" + symbol + humanize.Comma(-rounded)
	}
	return symbol + humanize.Comma(rounded)
}

func FormatPercent(v float64) string {
	return fmt.Sprintf("%+.1f%%", v)
}
