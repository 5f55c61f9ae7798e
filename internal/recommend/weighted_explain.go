package recommend

import (
	"fmt"
	"strings"

	"github.com/iwvelando/loan-match/pkg/format"
)

// explainWeighted builds the reasoning paragraph for one ranked offer from
// the same sub-score tiers used to score it.
func explainWeighted(d FinancialData, r RankedOffer) string {
	sentences := make([]string, 0, 5)
	payment := format.Currency(r.EstimatedPayment)
	dti := format.Percent(r.DebtToIncome)

	switch {
	case r.SubScores.Affordability >= 0.8:
		sentences = append(sentences, fmt.Sprintf(
			"The estimated monthly payment of %s keeps your debt-to-income ratio at a comfortable %s.", payment, dti))
	case r.SubScores.Affordability >= 0.5:
		sentences = append(sentences, fmt.Sprintf(
			"The estimated monthly payment of %s brings your debt-to-income ratio to %s, which is manageable.", payment, dti))
	default:
		sentences = append(sentences, fmt.Sprintf(
			"The estimated monthly payment of %s would raise your debt-to-income ratio to %s, which may strain your budget.", payment, dti))
	}

	rate := format.Rate(r.InterestRate)
	switch {
	case r.SubScores.Interest >= 0.75:
		sentences = append(sentences, fmt.Sprintf("Its %s interest rate is highly competitive.", rate))
	case r.SubScores.Interest >= 0.5:
		sentences = append(sentences, fmt.Sprintf("Its %s interest rate is reasonable.", rate))
	default:
		sentences = append(sentences, fmt.Sprintf("Its %s interest rate is on the high side.", rate))
	}

	switch {
	case r.SubScores.Credit >= 1.0:
		sentences = append(sentences, "Your credit score comfortably exceeds the lender's recommended minimum.")
	case r.SubScores.Credit >= 0.9:
		sentences = append(sentences, "Your credit score meets the lender's recommended minimum.")
	case r.SubScores.Credit >= 0.6:
		sentences = append(sentences, "Your credit score is slightly below the lender's recommended minimum.")
	default:
		sentences = append(sentences, "Your credit score is well below the lender's recommended minimum.")
	}

	if r.SubScores.Term >= 0.8 {
		sentences = append(sentences, fmt.Sprintf("The %d-month term suits your financial stability.", r.TermMonths))
	} else {
		sentences = append(sentences, fmt.Sprintf("A term other than %d months may suit your finances better.", r.TermMonths))
	}

	purpose := strings.ToLower(strings.TrimSpace(d.LoanPurpose))
	if purpose != "" {
		switch {
		case r.SubScores.Purpose >= 0.9:
			sentences = append(sentences, fmt.Sprintf("This %s is designed for %s.", strings.ToLower(r.LoanType()), purpose))
		case r.SubScores.Purpose >= 0.7:
			sentences = append(sentences, fmt.Sprintf("A general personal loan can also cover %s.", purpose))
		}
	}

	return strings.Join(sentences, " ")
}
