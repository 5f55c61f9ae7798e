package recommend

import (
	"math"

	"github.com/iwvelando/loan-match/pkg/constants"
	"github.com/iwvelando/loan-match/pkg/loans"
	"github.com/iwvelando/loan-match/pkg/mathutil"
)

// Standard strategy weights and thresholds. The explainer reads the same
// values so reasons never contradict the score.
const (
	amountMatchWeight   = 30.0
	interestWeight      = 20.0
	interestPivotRate   = 5.0
	interestPenalty     = 10.0
	termMatchWeight     = 15.0
	affordableWeight    = 15.0
	manageableWeight    = 7.0
	affordableRatio     = 0.30
	manageableRatio     = 0.40
	creditMatchWeight   = 10.0
	preferenceBoost     = 10.0
	lowInterestRate     = 4.0
	longTermMonths      = 36
	lowPaymentRatio     = 0.20
	maxStandardScore    = 100.0
	excellentMatchScore = 80.0
)

// standardEvaluation holds every factor of one offer's standard score along
// with the raw measurements the explainer needs.
type standardEvaluation struct {
	offer          LoanOffer
	monthlyPayment float64
	paymentRatio   float64
	amountDiff     float64
	termDiff       float64
	hasTerm        bool
	minimumCredit  int

	amountMatch   float64
	interest      float64
	termMatch     float64
	affordability float64
	credit        float64

	lowInterestBoost   bool
	longTermBoost      bool
	lowPaymentBoost    bool
	preferredBankBoost bool

	score float64
}

func (e standardEvaluation) boosts() float64 {
	total := 0.0
	for _, hit := range []bool{e.lowInterestBoost, e.longTermBoost, e.lowPaymentBoost, e.preferredBankBoost} {
		if hit {
			total += preferenceBoost
		}
	}
	return total
}

// scoreAmountMatch rewards offers close to the requested amount. Offers more
// than double the request go negative.
func scoreAmountMatch(requested, offered float64) float64 {
	return (1 - math.Abs(requested-offered)/requested) * amountMatchWeight
}

// scoreInterest awards 20 points at 5% and removes 10 per point above it,
// never below zero. Rates under 5% earn more than 20.
func scoreInterest(rate float64) float64 {
	return math.Max(0, interestWeight-(rate-interestPivotRate)*interestPenalty)
}

func scoreTermMatch(preferred, offered int) float64 {
	p := float64(preferred)
	return (1 - math.Abs(p-float64(offered))/p) * termMatchWeight
}

// scoreAffordability is a step function of payment to income.
func scoreAffordability(paymentRatio float64) float64 {
	switch {
	case paymentRatio <= affordableRatio:
		return affordableWeight
	case paymentRatio <= manageableRatio:
		return manageableWeight
	default:
		return 0
	}
}

func scoreCredit(creditScore, minimum int) float64 {
	if creditScore >= minimum {
		return creditMatchWeight
	}
	return 0
}

func isPreferredBank(prefs *UserPreferences, lender string) bool {
	if prefs == nil {
		return false
	}
	for _, bank := range prefs.PreferredBanks {
		if bank == lender {
			return true
		}
	}
	return false
}

// evaluateStandard scores a single offer. Criteria must already be valid.
func evaluateStandard(c BorrowerCriteria, o LoanOffer) (standardEvaluation, error) {
	if err := validateOffer(o); err != nil {
		return standardEvaluation{}, err
	}
	payment, err := monthlyPayment(o)
	if err != nil {
		return standardEvaluation{}, err
	}

	ratio, err := loans.PaymentToIncome(payment, c.MonthlyIncome)
	if err != nil {
		return standardEvaluation{}, &InvalidInputError{Field: "monthlyIncome", Reason: err.Error(), Err: err}
	}

	e := standardEvaluation{
		offer:          o,
		monthlyPayment: payment,
		paymentRatio:   ratio,
		amountDiff:     mathutil.RelativeDifference(c.LoanAmount, o.Amount, c.LoanAmount),
		minimumCredit:  o.minimumCreditScore(constants.DefaultMinimumCreditScore),
	}

	e.amountMatch = scoreAmountMatch(c.LoanAmount, o.Amount)
	e.interest = scoreInterest(o.InterestRate)
	if c.PreferredTerm != nil {
		e.hasTerm = true
		e.termDiff = mathutil.RelativeDifference(float64(*c.PreferredTerm), float64(o.TermMonths), float64(*c.PreferredTerm))
		e.termMatch = scoreTermMatch(*c.PreferredTerm, o.TermMonths)
	}
	e.affordability = scoreAffordability(e.paymentRatio)
	e.credit = scoreCredit(c.CreditScore, e.minimumCredit)

	if prefs := c.UserPreferences; prefs != nil {
		e.lowInterestBoost = prefs.PrioritizeLowInterest && o.InterestRate < lowInterestRate
		e.longTermBoost = prefs.PrioritizeLongTerm && o.TermMonths > longTermMonths
		e.lowPaymentBoost = prefs.PrioritizeLowMonthlyPayment && e.paymentRatio < lowPaymentRatio
		e.preferredBankBoost = isPreferredBank(prefs, o.Lender())
	}

	sum := e.amountMatch + e.interest + e.termMatch + e.affordability + e.credit + e.boosts()
	e.score = math.Min(maxStandardScore, sum)
	return e, nil
}

// GetRecommendations scores every offer with the standard strategy and
// returns them sorted by descending score. Equal scores keep their input
// order. An empty offer list yields an empty result.
func GetRecommendations(criteria BorrowerCriteria, offers []LoanOffer) ([]ScoredOffer, error) {
	if err := criteria.Validate(); err != nil {
		return nil, err
	}

	results := make([]ScoredOffer, 0, len(offers))
	for _, offer := range offers {
		e, err := evaluateStandard(criteria, offer)
		if err != nil {
			return nil, err
		}
		score := mathutil.Clamp(e.score, 0, maxStandardScore)
		results = append(results, ScoredOffer{
			OfferID:        offer.ID,
			Score:          score,
			MatchReason:    explainStandard(e, score),
			IsPersonalized: true,
		})
	}

	sortScored(results)
	return results, nil
}
