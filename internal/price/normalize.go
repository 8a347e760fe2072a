// Package price converts the heterogeneous price representations coming off
// product pages into canonical decimal values.
package price

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

var ErrInvalidPriceFormat = errors.New("invalid price format")

// currencyMarkers are stripped before parsing. Only comma-as-thousands and
// dot-as-decimal are understood; other locales are out of scope.
var currencyMarkers = []string{"₹", "$", "€", "£", "Rs.", "Rs", "INR", "USD"}

// Normalize converts a raw price into a canonical non-negative decimal.
// Numeric inputs pass through unchanged; strings are cleaned of currency
// symbols and thousands separators first.
func Normalize(value any) (decimal.Decimal, error) {
	switch v := value.(type) {
	case decimal.Decimal:
		return checkSign(v)
	case float64:
		return checkSign(decimal.NewFromFloat(v))
	case float32:
		return checkSign(decimal.NewFromFloat32(v))
	case int:
		return checkSign(decimal.NewFromInt(int64(v)))
	case int64:
		return checkSign(decimal.NewFromInt(v))
	case string:
		return normalizeString(v)
	case nil:
		return decimal.Decimal{}, fmt.Errorf("%w: nil value", ErrInvalidPriceFormat)
	default:
		return decimal.Decimal{}, fmt.Errorf("%w: unsupported type %T", ErrInvalidPriceFormat, value)
	}
}

func normalizeString(raw string) (decimal.Decimal, error) {
	cleaned := raw
	for _, marker := range currencyMarkers {
		cleaned = strings.ReplaceAll(cleaned, marker, "")
	}
	cleaned = strings.ReplaceAll(cleaned, ",", "")
	cleaned = strings.TrimSpace(cleaned)
	if cleaned == "" {
		return decimal.Decimal{}, fmt.Errorf("%w: empty after cleaning %q", ErrInvalidPriceFormat, raw)
	}

	parsed, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("%w: %q", ErrInvalidPriceFormat, raw)
	}
	return checkSign(parsed)
}

func checkSign(value decimal.Decimal) (decimal.Decimal, error) {
	if value.IsNegative() {
		return decimal.Decimal{}, fmt.Errorf("%w: negative price %s", ErrInvalidPriceFormat, value)
	}
	return value, nil
}
