package recommend

import (
	"math"

	"github.com/iwvelando/loan-match/pkg/loans"
)

// Validate checks that the criteria can be scored without producing NaN or
// infinite sub-scores.
func (c BorrowerCriteria) Validate() error {
	if !isFinite(c.LoanAmount) || c.LoanAmount <= 0 {
		return invalidInput("loanAmount", "must be positive, got %v", c.LoanAmount)
	}
	if !isFinite(c.MonthlyIncome) || c.MonthlyIncome <= 0 {
		return invalidInput("monthlyIncome", "must be positive, got %v", c.MonthlyIncome)
	}
	for _, field := range []struct {
		name  string
		value float64
	}{
		{"existingLoans", c.ExistingLoans},
		{"existingDebt", c.ExistingDebt},
		{"expenses", c.Expenses},
	} {
		if !isFinite(field.value) || field.value < 0 {
			return invalidInput(field.name, "cannot be negative, got %v", field.value)
		}
	}
	if c.PreferredTerm != nil && *c.PreferredTerm <= 0 {
		return invalidInput("preferredTerm", "must be positive, got %d", *c.PreferredTerm)
	}
	return nil
}

func validateOffer(o LoanOffer) error {
	if o.TermMonths <= 0 {
		return invalidInput("offer "+o.ID+" termMonths", "must be positive, got %d", o.TermMonths)
	}
	if !isFinite(o.Amount) || o.Amount < 0 {
		return invalidInput("offer "+o.ID+" amount", "cannot be negative, got %v", o.Amount)
	}
	if !isFinite(o.InterestRate) || o.InterestRate < 0 {
		return invalidInput("offer "+o.ID+" interestRate", "cannot be negative, got %v", o.InterestRate)
	}
	return nil
}

// monthlyPayment returns the offer's quoted payment or derives it from the
// offer's own amount, rate and term.
func monthlyPayment(o LoanOffer) (float64, error) {
	if o.MonthlyPayment != nil {
		return *o.MonthlyPayment, nil
	}
	payment, err := loans.MonthlyPayment(o.Amount, o.InterestRate, o.TermMonths)
	if err != nil {
		return 0, &InvalidInputError{Field: "offer " + o.ID, Reason: err.Error(), Err: err}
	}
	return payment, nil
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
