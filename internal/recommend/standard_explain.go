package recommend

import (
	"fmt"

	"github.com/iwvelando/loan-match/pkg/format"
)

const (
	amountCloseRatio = 0.10
	termCloseRatio   = 0.20
)

// explainStandard lists the favourable factors of an evaluation in a fixed
// order. An offer scoring above 80 always ends with "Excellent overall match".
func explainStandard(e standardEvaluation, score float64) []string {
	reasons := []string{}

	if e.amountDiff <= amountCloseRatio {
		reasons = append(reasons, "Loan amount closely matches your request")
	}
	if e.offer.InterestRate < interestPivotRate {
		reasons = append(reasons, fmt.Sprintf("Low interest rate of %s", format.Rate(e.offer.InterestRate)))
	}
	if e.hasTerm && e.termDiff <= termCloseRatio {
		reasons = append(reasons, fmt.Sprintf("%d-month term is close to your preferred term", e.offer.TermMonths))
	}
	switch {
	case e.paymentRatio <= affordableRatio:
		reasons = append(reasons, fmt.Sprintf("Highly affordable monthly payment of %s (%s of income)",
			format.Currency(e.monthlyPayment), format.Percent(e.paymentRatio)))
	case e.paymentRatio <= manageableRatio:
		reasons = append(reasons, fmt.Sprintf("Manageable monthly payment of %s (%s of income)",
			format.Currency(e.monthlyPayment), format.Percent(e.paymentRatio)))
	}
	if e.credit > 0 {
		reasons = append(reasons, fmt.Sprintf("Your credit score meets the lender minimum of %d", e.minimumCredit))
	}
	if e.lowInterestBoost {
		reasons = append(reasons, "Matches your priority for a low interest rate")
	}
	if e.longTermBoost {
		reasons = append(reasons, "Offers the longer repayment term you prefer")
	}
	if e.lowPaymentBoost {
		reasons = append(reasons, "Keeps your monthly payment low")
	}
	if e.preferredBankBoost {
		reasons = append(reasons, fmt.Sprintf("Offered by %s, one of your preferred banks", e.offer.Lender()))
	}
	if score > excellentMatchScore {
		reasons = append(reasons, "Excellent overall match")
	}

	return reasons
}
