// Package mathutil provides common mathematical utility functions.
package mathutil

import (
	"math"

	"github.com/iwvelando/loan-match/pkg/constants"
)

// Round rounds a value to two decimals, i.e. to represent real currency.
func Round(val float64) float64 {
	return math.Round(val*constants.DecimalPrecision) / constants.DecimalPrecision
}

// IsZero checks if a value is effectively zero (within tolerance)
func IsZero(val float64) bool {
	return math.Abs(val) <= constants.CurrencyTolerance
}

// Clamp bounds val to the closed interval [lo, hi].
func Clamp(val, lo, hi float64) float64 {
	if val < lo {
		return lo
	}
	if val > hi {
		return hi
	}
	return val
}

// Clamp01 bounds val to [0, 1].
func Clamp01(val float64) float64 {
	return Clamp(val, 0, 1)
}

// RelativeDifference returns |a-b|/base. A zero base yields +Inf unless a == b.
func RelativeDifference(a, b, base float64) float64 {
	diff := math.Abs(a - b)
	if base == 0 {
		if diff == 0 {
			return 0
		}
		return math.Inf(1)
	}
	return diff / base
}
