// Package profile adapts stored borrower profiles into the inputs of the
// recommendation strategies.
package profile

import (
	"time"

	"github.com/iwvelando/loan-match/internal/recommend"
	"github.com/iwvelando/loan-match/pkg/constants"
	"github.com/iwvelando/loan-match/pkg/datetime"
)

// UserProfile is a borrower's stored financial profile.
type UserProfile struct {
	ID                  string  `json:"id"`
	FullName            string  `json:"fullName"`
	Email               string  `json:"email,omitempty"`
	DateOfBirth         string  `json:"dateOfBirth,omitempty"` // YYYY-MM-DD
	EmploymentStatus    string  `json:"employmentStatus,omitempty"`
	Employer            string  `json:"employer,omitempty"`
	AnnualIncome        float64 `json:"annualIncome"`
	MonthlyExpenses     float64 `json:"monthlyExpenses"`
	MonthlyDebtPayments float64 `json:"monthlyDebtPayments"`
	ExistingLoans       float64 `json:"existingLoans"` // monthly repayments on outstanding loans
	CreditScore         int     `json:"creditScore"`
}

// Key returns the profile ID.
func (p UserProfile) Key() string {
	return p.ID
}

// MonthlyIncome returns the profile's income converted to a monthly figure.
func (p UserProfile) MonthlyIncome() float64 {
	return p.AnnualIncome / constants.MonthsPerYear
}

// Age returns the number of full years between a YYYY-MM-DD date of birth and
// asOf. The year only counts once the birthday has been reached.
func Age(dateOfBirth string, asOf time.Time) (int, error) {
	dob, err := datetime.ParseDate(dateOfBirth)
	if err != nil {
		return 0, err
	}
	return datetime.YearsBetween(dob, asOf), nil
}

// ExtractCriteriaFromProfile builds standard-strategy criteria for a loan
// request from a stored profile, with ages computed as of now.
func ExtractCriteriaFromProfile(p UserProfile, loanAmount float64, loanPurpose string, prefs *recommend.UserPreferences) recommend.BorrowerCriteria {
	return ExtractCriteriaAt(p, loanAmount, loanPurpose, prefs, time.Now())
}

// ExtractCriteriaAt is ExtractCriteriaFromProfile with an explicit reference
// date. A missing or unparseable date of birth leaves Age at zero.
func ExtractCriteriaAt(p UserProfile, loanAmount float64, loanPurpose string, prefs *recommend.UserPreferences, asOf time.Time) recommend.BorrowerCriteria {
	criteria := recommend.BorrowerCriteria{
		LoanAmount:       loanAmount,
		LoanPurpose:      loanPurpose,
		MonthlyIncome:    p.MonthlyIncome(),
		CreditScore:      p.CreditScore,
		ExistingLoans:    p.ExistingLoans,
		ExistingDebt:     p.MonthlyDebtPayments,
		Expenses:         p.MonthlyExpenses,
		UserPreferences:  prefs,
		EmploymentStatus: p.EmploymentStatus,
	}
	if age, err := Age(p.DateOfBirth, asOf); err == nil {
		criteria.Age = age
	}
	return criteria
}

// FinancialData converts a profile into the weighted strategy's annual
// figures. Existing loans count as debt.
func (p UserProfile) FinancialData(loanPurpose string) recommend.FinancialData {
	return recommend.FinancialData{
		AnnualIncome:   p.AnnualIncome,
		AnnualExpenses: p.MonthlyExpenses * constants.MonthsPerYear,
		AnnualDebt:     (p.MonthlyDebtPayments + p.ExistingLoans) * constants.MonthsPerYear,
		CreditScore:    p.CreditScore,
		LoanPurpose:    loanPurpose,
	}
}
