package validation

import (
	"fmt"

	"github.com/iwvelando/loan-match/pkg/constants"
)

// ValidateOutputFormat checks if the output format is one of the supported formats.
func ValidateOutputFormat(format string) error {
	if format != constants.OutputFormatPretty && format != constants.OutputFormatCSV {
		return fmt.Errorf("expected output format of %s or %s, got %q",
			constants.OutputFormatPretty, constants.OutputFormatCSV, format)
	}
	return nil
}

// Bounds of the FICO-style credit score range.
const (
	MinCreditScore = 300
	MaxCreditScore = 850
)

// ValidateCreditScore warns about scores outside the usual credit score range.
// A zero score is reported as missing.
func ValidateCreditScore(owner string, score int) string {
	if score == 0 {
		return fmt.Sprintf("%s has no credit score; credit checks will fail", owner)
	}
	if score < MinCreditScore || score > MaxCreditScore {
		return fmt.Sprintf("%s has credit score %d outside the %d-%d range", owner, score, MinCreditScore, MaxCreditScore)
	}
	return ""
}

// ValidateInterestRate warns about negative or implausibly high annual rates.
func ValidateInterestRate(owner string, rate float64) string {
	if rate < 0 {
		return fmt.Sprintf("%s has a negative interest rate (%.2f%%) and will be rejected when scored", owner, rate)
	}
	if rate > 100 {
		return fmt.Sprintf("%s has an interest rate of %.2f%%; rates are annual percentages, not ratios", owner, rate)
	}
	return ""
}

// ValidateMinimumCreditScore warns when an offer's lender minimum is outside the score range.
func ValidateMinimumCreditScore(owner string, minimum *int) string {
	if minimum == nil {
		return ""
	}
	if *minimum < MinCreditScore || *minimum > MaxCreditScore {
		return fmt.Sprintf("%s requires credit score %d outside the %d-%d range", owner, *minimum, MinCreditScore, MaxCreditScore)
	}
	return ""
}
