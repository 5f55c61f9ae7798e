// Package loans provides the affordability calculations shared by the
// recommendation strategies: amortized payments, debt-to-income ratios and
// repayment schedules.
package loans

import (
	"errors"
	"fmt"
	"math"

	"github.com/iwvelando/loan-match/pkg/constants"
)

// ErrInvalidInput is returned when a calculation would otherwise divide by
// zero or produce a meaningless ratio.
var ErrInvalidInput = errors.New("invalid loan calculation input")

// MonthlyRate converts an annual percentage rate to a periodic monthly rate (12 -> 0.01).
func MonthlyRate(annualInterestRate float64) float64 {
	return annualInterestRate / (constants.PercentageMultiplier * constants.MonthsPerYear)
}

// MonthlyPayment calculates the fixed monthly payment that repays principal
// over termMonths using the standard amortization formula. A zero rate is
// repaid in equal principal installments.
func MonthlyPayment(principal, annualInterestRate float64, termMonths int) (float64, error) {
	if termMonths <= 0 {
		return 0, fmt.Errorf("%w: term must be positive, got %d months", ErrInvalidInput, termMonths)
	}

	r := MonthlyRate(annualInterestRate)
	n := float64(termMonths)
	if r == 0 {
		return principal / n, nil
	}

	power := math.Pow(1+r, n)
	payment := principal * r * power / (power - 1)
	if math.IsNaN(payment) || math.IsInf(payment, 0) {
		return 0, fmt.Errorf("%w: payment for %.2f at %.2f%% over %d months is not finite",
			ErrInvalidInput, principal, annualInterestRate, termMonths)
	}
	return payment, nil
}

// TotalInterest returns the interest paid over the life of a loan repaid with
// the given monthly payment.
func TotalInterest(monthlyPayment, principal float64, termMonths int) float64 {
	return monthlyPayment*float64(termMonths) - principal
}

// PaymentToIncome returns the share of monthly income consumed by payment.
func PaymentToIncome(monthlyPayment, monthlyIncome float64) (float64, error) {
	if monthlyIncome <= 0 {
		return 0, fmt.Errorf("%w: monthly income must be positive, got %.2f", ErrInvalidInput, monthlyIncome)
	}
	return monthlyPayment / monthlyIncome, nil
}

// DebtToIncome returns (expenses + existing debt + new payment) / income with
// every figure expressed monthly.
func DebtToIncome(monthlyIncome, monthlyExpenses, monthlyDebt, newMonthlyPayment float64) (float64, error) {
	if monthlyIncome <= 0 {
		return 0, fmt.Errorf("%w: monthly income must be positive, got %.2f", ErrInvalidInput, monthlyIncome)
	}
	return (monthlyExpenses + monthlyDebt + newMonthlyPayment) / monthlyIncome, nil
}

// AnnualDebtToIncome is DebtToIncome for annual income, expense and debt
// figures. Annual amounts are converted to monthly before summing with the
// monthly payment of the candidate loan.
func AnnualDebtToIncome(annualIncome, annualExpenses, annualDebt, newMonthlyPayment float64) (float64, error) {
	return DebtToIncome(
		annualIncome/constants.MonthsPerYear,
		annualExpenses/constants.MonthsPerYear,
		annualDebt/constants.MonthsPerYear,
		newMonthlyPayment,
	)
}
