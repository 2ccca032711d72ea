// Package money converts between integer cent amounts and the decimal
// and display forms used by the dashboard.
package money

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.AmericanEnglish)

// FormatCurrency renders an amount in cents as US dollars with grouping
// and exactly two decimals, e.g. 150000 -> "$1,500.00".
func FormatCurrency(cents int64) string {
	major := decimal.New(cents, -2)
	sign := ""
	if major.IsNegative() {
		sign = "-"
		major = major.Abs()
	}
	whole := major.IntPart()
	frac := major.Sub(decimal.NewFromInt(whole)).Shift(2).IntPart()
	return fmt.Sprintf("%s$%s.%02d", sign, printer.Sprintf("%d", whole), frac)
}

// FormatCurrencyString is FormatCurrency for numeric strings as returned
// by some aggregate queries.  Empty or unparsable input formats as zero.
func FormatCurrencyString(raw string) string {
	d, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		return FormatCurrency(0)
	}
	return FormatCurrency(d.Round(0).IntPart())
}

// ParseAmount coerces raw form input into a decimal amount in major units.
func ParseAmount(raw string) (decimal.Decimal, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return decimal.Zero, fmt.Errorf("amount is empty")
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("parse amount %q: %w", raw, err)
	}
	return d, nil
}

// MaxCents is the largest amount the invoices.amount INT column holds.
const MaxCents = math.MaxInt32

var (
	ErrAmountTooSmall = errors.New("amount rounds to less than one cent")
	ErrAmountTooLarge = errors.New("amount exceeds the storable maximum")
)

// ToCents converts a major-unit amount to cents.  Inputs with more than
// two fractional digits are rounded half away from zero to the nearest cent.
// The result must lie in [1, MaxCents]; the range is checked on the decimal
// before it is narrowed to int64.
func ToCents(amount decimal.Decimal) (int64, error) {
	cents := amount.Shift(2).Round(0)
	if cents.LessThan(decimal.NewFromInt(1)) {
		return 0, ErrAmountTooSmall
	}
	if cents.GreaterThan(decimal.NewFromInt(MaxCents)) {
		return 0, ErrAmountTooLarge
	}
	return cents.IntPart(), nil
}

// FromCents converts cents back to a major-unit number.
func FromCents(cents int64) float64 {
	return decimal.New(cents, -2).InexactFloat64()
}
