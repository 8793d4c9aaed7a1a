package repository

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

// decimalPrice admits plain base-10 numbers only; strconv alone would also
// take hex floats and underscores.
var decimalPrice = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?$`)

// ErrInvalidPriceFormat is the message of the price ValidationError.
const ErrInvalidPriceFormat = "Invalid price format"

// NormalizePrice turns a wire price into the stored float. Strings may carry
// thousand separators ("1,234.50"); numbers are taken as they are.
func NormalizePrice(v any) (float64, error) {
	var f float64
	switch p := v.(type) {
	case string:
		s := strings.TrimSpace(strings.ReplaceAll(p, ",", ""))
		if !decimalPrice.MatchString(s) {
			return 0, invalid("price", ErrInvalidPriceFormat)
		}
		parsed, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, invalid("price", ErrInvalidPriceFormat)
		}
		f = parsed
	case float64:
		f = p
	case float32:
		f = float64(p)
	case int:
		f = float64(p)
	case int32:
		f = float64(p)
	case int64:
		f = float64(p)
	default:
		return 0, invalid("price", ErrInvalidPriceFormat)
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, invalid("price", ErrInvalidPriceFormat)
	}
	return f, nil
}
