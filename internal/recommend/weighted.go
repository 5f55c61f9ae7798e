package recommend

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/iwvelando/loan-match/pkg/constants"
	"github.com/iwvelando/loan-match/pkg/loans"
	"github.com/iwvelando/loan-match/pkg/mathutil"
)

// WeightSet defines the relative importance of each weighted sub-score.
type WeightSet struct {
	Affordability float64
	Interest      float64
	Credit        float64
	Term          float64
	Purpose       float64
}

// DefaultWeights returns the weighted strategy's fixed weights.
func DefaultWeights() WeightSet {
	return WeightSet{
		Affordability: 0.30,
		Interest:      0.25,
		Credit:        0.20,
		Term:          0.15,
		Purpose:       0.10,
	}
}

// Sum returns the total of all weights.
func (w WeightSet) Sum() float64 {
	return w.Affordability + w.Interest + w.Credit + w.Term + w.Purpose
}

// Validate checks that weights sum to 1.0 and none are negative.
func (w WeightSet) Validate() error {
	if math.Abs(w.Sum()-1.0) > 0.001 {
		return fmt.Errorf("weights sum to %.4f, must sum to 1.0", w.Sum())
	}
	for _, v := range []float64{w.Affordability, w.Interest, w.Credit, w.Term, w.Purpose} {
		if v < 0 {
			return fmt.Errorf("negative weight: %f", v)
		}
	}
	return nil
}

// FinancialData is the borrower context the weighted strategy scores
// against. Income, expenses and debt are annual.
type FinancialData struct {
	AnnualIncome   float64 `json:"annualIncome"`
	AnnualExpenses float64 `json:"annualExpenses"`
	AnnualDebt     float64 `json:"annualDebt"`
	CreditScore    int     `json:"creditScore"`
	LoanPurpose    string  `json:"loanPurpose,omitempty"`
}

// Validate rejects data that would make the ratios undefined.
func (d FinancialData) Validate() error {
	if !isFinite(d.AnnualIncome) || d.AnnualIncome <= 0 {
		return invalidInput("annualIncome", "must be positive, got %v", d.AnnualIncome)
	}
	if !isFinite(d.AnnualExpenses) || d.AnnualExpenses < 0 {
		return invalidInput("annualExpenses", "cannot be negative, got %v", d.AnnualExpenses)
	}
	if !isFinite(d.AnnualDebt) || d.AnnualDebt < 0 {
		return invalidInput("annualDebt", "cannot be negative, got %v", d.AnnualDebt)
	}
	return nil
}

// FinancialDataFromCriteria annualises monthly criteria figures. Existing
// loans and other debt both count as debt.
func FinancialDataFromCriteria(c BorrowerCriteria) FinancialData {
	return FinancialData{
		AnnualIncome:   c.MonthlyIncome * constants.MonthsPerYear,
		AnnualExpenses: c.Expenses * constants.MonthsPerYear,
		AnnualDebt:     (c.ExistingDebt + c.ExistingLoans) * constants.MonthsPerYear,
		CreditScore:    c.CreditScore,
		LoanPurpose:    c.LoanPurpose,
	}
}

// BorrowerDataProvider resolves a user's financial data.
type BorrowerDataProvider interface {
	FinancialData(ctx context.Context, userID string) (FinancialData, error)
}

// SubScores are the weighted strategy's normalized factors, each in [0, 1].
type SubScores struct {
	Affordability float64 `json:"affordability"`
	Interest      float64 `json:"interest"`
	Credit        float64 `json:"credit"`
	Term          float64 `json:"term"`
	Purpose       float64 `json:"purpose"`
}

// RankedOffer is an offer annotated with its weighted score.
type RankedOffer struct {
	LoanOffer
	MatchScore       float64   `json:"matchScore"`
	SubScores        SubScores `json:"subScores"`
	DebtToIncome     float64   `json:"debtToIncome"`
	EstimatedPayment float64   `json:"estimatedMonthlyPayment"`
}

// AIRecommendations is the weighted strategy's result.
type AIRecommendations struct {
	Recommendations []RankedOffer     `json:"recommendations"`
	TopPick         *LoanOffer        `json:"topPick"`
	Reasonings      map[string]string `json:"reasonings"`
}

// scoreDebtToIncome grades the total debt burden including the new loan.
func scoreDebtToIncome(dti float64) float64 {
	switch {
	case dti <= 0.28:
		return 1.0
	case dti <= 0.36:
		return 0.8
	case dti <= 0.43:
		return 0.5
	case dti <= 0.50:
		return 0.2
	default:
		return 0
	}
}

const (
	bestRate  = 3.0
	worstRate = 15.0
)

// scoreRate falls linearly from 1.0 at 3% to 0.0 at 15%.
func scoreRate(rate float64) float64 {
	return mathutil.Clamp01((worstRate - rate) / (worstRate - bestRate))
}

// creditBuffer is the tolerance band around a lender's recommended minimum.
const creditBuffer = 50

// scoreCreditWithBuffer grades near misses instead of applying a hard cutoff.
func scoreCreditWithBuffer(creditScore, recommendedMin int) float64 {
	switch {
	case creditScore >= recommendedMin+creditBuffer:
		return 1.0
	case creditScore >= recommendedMin:
		return 0.9
	case creditScore >= recommendedMin-creditBuffer:
		return 0.6
	case creditScore >= recommendedMin-2*creditBuffer:
		return 0.3
	default:
		return 0.1
	}
}

// financialStability is income over expenses plus existing debt. A borrower
// with no burden at all is treated as maximally stable.
func financialStability(d FinancialData) float64 {
	burden := d.AnnualExpenses + d.AnnualDebt
	if burden <= 0 {
		return math.Inf(1)
	}
	return d.AnnualIncome / burden
}

// scoreTermOptimization prefers short terms for stable borrowers, medium
// terms for moderately stable ones and long terms otherwise. A stability of
// exactly 3 or 1.5 belongs to the less stable branch.
func scoreTermOptimization(stability float64, termMonths int) float64 {
	term := float64(termMonths)
	var score float64
	switch {
	case stability > 3:
		score = 1 - term/60
	case stability > 1.5:
		if termMonths <= 36 {
			score = 0.8
		} else {
			score = (60 - term) / 24
		}
	default:
		if termMonths >= 48 {
			score = 0.9
		} else {
			score = term / 60
		}
	}
	return mathutil.Clamp01(score)
}

// WeightedRecommender scores offers with the weighted strategy using
// financial data resolved per user.
type WeightedRecommender struct {
	provider BorrowerDataProvider
	weights  WeightSet
}

// NewWeightedRecommender returns a recommender with the default weights.
func NewWeightedRecommender(provider BorrowerDataProvider) *WeightedRecommender {
	return &WeightedRecommender{provider: provider, weights: DefaultWeights()}
}

// GetAIRecommendations ranks offers for userID. The user's data is always
// resolved, so an unknown user fails even when offers is empty; an empty
// offer list otherwise yields no recommendations and a nil TopPick.
func (w *WeightedRecommender) GetAIRecommendations(ctx context.Context, userID string, offers []LoanOffer) (AIRecommendations, error) {
	if strings.TrimSpace(userID) == "" {
		return AIRecommendations{}, invalidInput("userId", "is required")
	}
	if w.provider == nil {
		return AIRecommendations{}, errors.New("no borrower data provider configured")
	}
	data, err := w.provider.FinancialData(ctx, userID)
	if err != nil {
		return AIRecommendations{}, fmt.Errorf("failed to resolve financial data for %s: %w", userID, err)
	}
	return RankWeighted(data, offers, w.weights)
}

// RankWeighted scores offers against data and returns them sorted by
// descending score with a reasoning per offer ID.
func RankWeighted(data FinancialData, offers []LoanOffer, weights WeightSet) (AIRecommendations, error) {
	if err := weights.Validate(); err != nil {
		return AIRecommendations{}, err
	}
	if err := data.Validate(); err != nil {
		return AIRecommendations{}, err
	}

	result := AIRecommendations{
		Recommendations: make([]RankedOffer, 0, len(offers)),
		Reasonings:      make(map[string]string, len(offers)),
	}
	for _, offer := range offers {
		ranked, err := scoreWeighted(data, offer, weights)
		if err != nil {
			return AIRecommendations{}, err
		}
		result.Recommendations = append(result.Recommendations, ranked)
		result.Reasonings[offer.ID] = explainWeighted(data, ranked)
	}

	sortRanked(result.Recommendations)
	if len(result.Recommendations) > 0 {
		top := result.Recommendations[0].LoanOffer
		result.TopPick = &top
	}
	return result, nil
}

func scoreWeighted(d FinancialData, o LoanOffer, weights WeightSet) (RankedOffer, error) {
	if err := validateOffer(o); err != nil {
		return RankedOffer{}, err
	}
	payment, err := monthlyPayment(o)
	if err != nil {
		return RankedOffer{}, err
	}
	dti, err := loans.AnnualDebtToIncome(d.AnnualIncome, d.AnnualExpenses, d.AnnualDebt, payment)
	if err != nil {
		return RankedOffer{}, &InvalidInputError{Field: "annualIncome", Reason: err.Error(), Err: err}
	}

	sub := SubScores{
		Affordability: scoreDebtToIncome(dti),
		Interest:      scoreRate(o.InterestRate),
		Credit:        scoreCreditWithBuffer(d.CreditScore, o.minimumCreditScore(constants.DefaultRecommendedMinScore)),
		Term:          scoreTermOptimization(financialStability(d), o.TermMonths),
		Purpose:       PurposeMatch(d.LoanPurpose, o.LoanType()),
	}
	total := sub.Affordability*weights.Affordability +
		sub.Interest*weights.Interest +
		sub.Credit*weights.Credit +
		sub.Term*weights.Term +
		sub.Purpose*weights.Purpose

	return RankedOffer{
		LoanOffer:        o,
		MatchScore:       mathutil.Clamp01(total),
		SubScores:        sub,
		DebtToIncome:     dti,
		EstimatedPayment: payment,
	}, nil
}
