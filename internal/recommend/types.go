// Package recommend ranks lender offers against a borrower's financial
// profile. Two independent strategies are provided: the additive Standard
// strategy scoring on a 0-100 scale, and the Weighted strategy combining five
// normalized sub-scores on a 0-1 scale. Scoring is pure: it performs no I/O
// and reads only its arguments.
package recommend

import (
	"fmt"
	"strings"

	"github.com/iwvelando/loan-match/pkg/constants"
)

// Strategy names a scoring algorithm.
type Strategy string

const (
	// StrategyStandard is the additive 0-100 scoring used by GetRecommendations.
	StrategyStandard Strategy = constants.StrategyStandard
	// StrategyWeighted is the weighted 0-1 scoring used by GetAIRecommendations.
	StrategyWeighted Strategy = constants.StrategyWeighted
)

// ParseStrategy maps a user supplied name onto a Strategy. An empty name
// selects the standard strategy.
func ParseStrategy(name string) (Strategy, error) {
	switch Strategy(strings.ToLower(strings.TrimSpace(name))) {
	case "", StrategyStandard:
		return StrategyStandard, nil
	case StrategyWeighted:
		return StrategyWeighted, nil
	default:
		return "", fmt.Errorf("unknown strategy %q: expected %s or %s", name, StrategyStandard, StrategyWeighted)
	}
}

// UserPreferences are optional borrower priorities that boost matching offers.
type UserPreferences struct {
	PrioritizeLowInterest       bool     `json:"prioritizeLowInterest,omitempty"`
	PrioritizeLongTerm          bool     `json:"prioritizeLongTerm,omitempty"`
	PrioritizeLowMonthlyPayment bool     `json:"prioritizeLowMonthlyPayment,omitempty"`
	PreferredBanks              []string `json:"preferredBanks,omitempty"`
}

// BorrowerCriteria describes what the borrower asks for and what they can
// afford. Monetary figures other than LoanAmount are monthly.
type BorrowerCriteria struct {
	LoanAmount            float64          `json:"loanAmount"`
	LoanPurpose           string           `json:"loanPurpose"`
	MonthlyIncome         float64          `json:"monthlyIncome"`
	CreditScore           int              `json:"creditScore"`
	ExistingLoans         float64          `json:"existingLoans"`
	ExistingDebt          float64          `json:"existingDebt"`
	Expenses              float64          `json:"expenses"`
	PreferredTerm         *int             `json:"preferredTerm,omitempty"`
	PreferredInterestRate *float64         `json:"preferredInterestRate,omitempty"`
	UserPreferences       *UserPreferences `json:"userPreferences,omitempty"`
	Age                   int              `json:"age,omitempty"`
	EmploymentStatus      string           `json:"employmentStatus,omitempty"`
}

// LoanOffer is a candidate offer from a lender.
type LoanOffer struct {
	ID                 string   `json:"id"`
	BankName           string   `json:"bankName,omitempty"`
	LenderName         string   `json:"lenderName,omitempty"`
	Amount             float64  `json:"amount"`
	InterestRate       float64  `json:"interestRate"`
	TermMonths         int      `json:"termMonths"`
	MonthlyPayment     *float64 `json:"monthlyPayment,omitempty"`
	MinimumCreditScore *int     `json:"minimumCreditScore,omitempty"`
	Type               string   `json:"type,omitempty"`
}

// Key returns the offer ID.
func (o LoanOffer) Key() string {
	return o.ID
}

// Lender returns the offer's bank name, falling back to the lender name.
func (o LoanOffer) Lender() string {
	if o.BankName != "" {
		return o.BankName
	}
	return o.LenderName
}

// LoanType returns the offer's category, defaulting to "personal".
func (o LoanOffer) LoanType() string {
	if strings.TrimSpace(o.Type) == "" {
		return constants.DefaultLoanType
	}
	return o.Type
}

// minimumCreditScore returns the offer's minimum or the given default.
func (o LoanOffer) minimumCreditScore(fallback int) int {
	if o.MinimumCreditScore != nil {
		return *o.MinimumCreditScore
	}
	return fallback
}

// ScoredOffer is one ranked result of the standard strategy.
type ScoredOffer struct {
	OfferID        string   `json:"offerId"`
	Score          float64  `json:"score"`
	MatchReason    []string `json:"matchReason"`
	IsPersonalized bool     `json:"isPersonalized"`
}
