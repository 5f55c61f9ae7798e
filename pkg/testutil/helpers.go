// Package testutil provides common utility functions for testing.
package testutil

import (
	"github.com/iwvelando/loan-match/internal/recommend"
)

// FindScored finds a standard strategy result by offer ID.
// Returns a pointer to the result if found, nil otherwise.
func FindScored(results []recommend.ScoredOffer, offerID string) *recommend.ScoredOffer {
	for i := range results {
		if results[i].OfferID == offerID {
			return &results[i]
		}
	}
	return nil
}

// FindRanked finds a weighted strategy result by offer ID.
// Returns a pointer to the result if found, nil otherwise.
func FindRanked(results []recommend.RankedOffer, offerID string) *recommend.RankedOffer {
	for i := range results {
		if results[i].ID == offerID {
			return &results[i]
		}
	}
	return nil
}

// SampleOffers returns a low-rate and a high-rate offer for the same amount
// and term, so the low-rate offer ranks first under both strategies.
func SampleOffers() []recommend.LoanOffer {
	return []recommend.LoanOffer{
		{ID: "cheap", BankName: "Acme Bank", Amount: 10000, InterestRate: 4, TermMonths: 36},
		{ID: "pricey", BankName: "Lender Co", Amount: 10000, InterestRate: 14, TermMonths: 36},
	}
}
