package transform

import (
	"math"
	"strconv"
	"strings"
)

// ParseNumber parses a raw string into a float64, accepting German number
// notation (comma as decimal separator, dot as thousands separator).
// The second return value is false when no value could be produced: empty
// or unparsable input with allowEmpty set. Without allowEmpty the fallback
// is 0.0 rather than a parse error.
func ParseNumber(value string, allowEmpty bool) (float64, bool) {
	cleaned := strings.ReplaceAll(strings.TrimSpace(value), " ", "")
	if cleaned == "" {
		if allowEmpty {
			return 0, false
		}
		return 0, true
	}

	if strings.Contains(cleaned, ",") {
		if strings.Contains(cleaned, ".") {
			// 1.234,56 -> 1234.56
			cleaned = strings.ReplaceAll(cleaned, ".", "")
		}
		cleaned = strings.ReplaceAll(cleaned, ",", ".")
	}

	parsed, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		if allowEmpty {
			return 0, false
		}
		return 0, true
	}
	return parsed, true
}

// BruttoToNetto converts a gross amount to net using the given tax rate in
// percent, rounded to two decimals. Zero in, zero out.
func BruttoToNetto(brutto, taxRate float64) float64 {
	if brutto == 0 {
		return 0
	}
	return Round2(brutto / (1 + taxRate/100))
}

// NettoToBrutto is the inverse of BruttoToNetto.
func NettoToBrutto(netto, taxRate float64) float64 {
	if netto == 0 {
		return 0
	}
	return Round2(netto * (1 + taxRate/100))
}

func Round2(value float64) float64 {
	return math.Round(value*100) / 100
}
