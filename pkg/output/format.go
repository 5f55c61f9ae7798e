// Package output provides utilities for formatting and displaying recommendation results.
package output

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/iwvelando/loan-match/internal/recommend"
	"github.com/iwvelando/loan-match/pkg/constants"
	"github.com/iwvelando/loan-match/pkg/format"
	"github.com/iwvelando/loan-match/pkg/loans"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// PrettyFormat writes standard strategy results as a human-readable table.
// offers supplies lender and rate details for each scored offer ID.
func PrettyFormat(w io.Writer, results []recommend.ScoredOffer, offers []recommend.LoanOffer) error {
	p := message.NewPrinter(language.English)
	byID := indexOffers(offers)

	if _, err := fmt.Fprintf(w, "--- Standard recommendations (%d offers) ---\n", len(results)); err != nil {
		return err
	}
	fmt.Fprintf(w, "Rank | Offer | Lender | Rate | Term | Score\n")
	fmt.Fprintf(w, "____ | _____ | ______ | ____ | ____ | _____\n")
	for i, r := range results {
		o := byID[r.OfferID]
		_, _ = p.Fprintf(w, "%d | %s | %s | %s | %d mo | %.1f\n",
			i+1, r.OfferID, o.Lender(), format.Rate(o.InterestRate), o.TermMonths, r.Score)
		for _, reason := range r.MatchReason {
			fmt.Fprintf(w, "       - %s\n", reason)
		}
	}
	return nil
}

// PrettyFormatWeighted writes weighted strategy results as a human-readable table
// followed by the reasoning for each offer.
func PrettyFormatWeighted(w io.Writer, result recommend.AIRecommendations) error {
	p := message.NewPrinter(language.English)

	if _, err := fmt.Fprintf(w, "--- Weighted recommendations (%d offers) ---\n", len(result.Recommendations)); err != nil {
		return err
	}
	if result.TopPick != nil {
		fmt.Fprintf(w, "Top pick: %s (%s)\n", result.TopPick.ID, result.TopPick.Lender())
	}
	fmt.Fprintf(w, "Rank | Offer | Lender | Rate | Payment | DTI | Match\n")
	fmt.Fprintf(w, "____ | _____ | ______ | ____ | _______ | ___ | _____\n")
	for i, r := range result.Recommendations {
		_, _ = p.Fprintf(w, "%d | %s | %s | %s | $%.2f | %s | %s\n",
			i+1, r.ID, r.Lender(), format.Rate(r.InterestRate), r.EstimatedPayment,
			format.Percent(r.DebtToIncome), format.Percent(r.MatchScore))
	}
	for _, r := range result.Recommendations {
		if reason := result.Reasonings[r.ID]; reason != "" {
			fmt.Fprintf(w, "\n%s: %s\n", r.ID, reason)
		}
	}
	return nil
}

// CsvFormat writes standard strategy results in comma-separated value format.
func CsvFormat(w io.Writer, results []recommend.ScoredOffer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"rank", "offerId", "score", "personalized", "reasons"}); err != nil {
		return err
	}
	for i, r := range results {
		record := []string{
			strconv.Itoa(i + 1),
			r.OfferID,
			strconv.FormatFloat(r.Score, 'f', 2, 64),
			strconv.FormatBool(r.IsPersonalized),
			strings.Join(r.MatchReason, "; "),
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// CsvFormatWeighted writes weighted strategy results in comma-separated value format.
func CsvFormatWeighted(w io.Writer, result recommend.AIRecommendations) error {
	cw := csv.NewWriter(w)
	header := []string{"rank", "offerId", "lender", "matchScore", "affordability", "interest",
		"credit", "term", "purpose", "debtToIncome", "estimatedMonthlyPayment", "reasoning"}
	if err := cw.Write(header); err != nil {
		return err
	}
	for i, r := range result.Recommendations {
		record := []string{
			strconv.Itoa(i + 1),
			r.ID,
			r.Lender(),
			ratio(r.MatchScore),
			ratio(r.SubScores.Affordability),
			ratio(r.SubScores.Interest),
			ratio(r.SubScores.Credit),
			ratio(r.SubScores.Term),
			ratio(r.SubScores.Purpose),
			ratio(r.DebtToIncome),
			strconv.FormatFloat(r.EstimatedPayment, 'f', 2, 64),
			result.Reasonings[r.ID],
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ScheduleFormat writes an amortization schedule, one installment per line.
func ScheduleFormat(w io.Writer, schedule []loans.Payment, csvOutput bool) error {
	if csvOutput {
		cw := csv.NewWriter(w)
		if err := cw.Write([]string{"period", "dueDate", "payment", "principal", "interest", "remainingBalance"}); err != nil {
			return err
		}
		for _, p := range schedule {
			record := []string{
				strconv.Itoa(p.Period),
				p.DueDate.Format(constants.DateLayout),
				p.Payment.StringFixed(2),
				p.Principal.StringFixed(2),
				p.Interest.StringFixed(2),
				p.RemainingBalance.StringFixed(2),
			}
			if err := cw.Write(record); err != nil {
				return err
			}
		}
		cw.Flush()
		return cw.Error()
	}

	if _, err := fmt.Fprintf(w, "Period | Due       | Payment | Principal | Interest | Balance\n"); err != nil {
		return err
	}
	fmt.Fprintf(w, "______ | _________ | _______ | _________ | ________ | _______\n")
	for _, p := range schedule {
		fmt.Fprintf(w, "%d | %s | %s | %s | %s | %s\n",
			p.Period, p.DueDate.Format(constants.DateLayout),
			format.CurrencyDecimal(p.Payment), format.CurrencyDecimal(p.Principal),
			format.CurrencyDecimal(p.Interest), format.CurrencyDecimal(p.RemainingBalance))
	}
	paid := loans.TotalPaid(schedule)
	interest := loans.InterestPaid(schedule)
	fmt.Fprintf(w, "Total paid %s, of which interest %s\n",
		format.CurrencyDecimal(paid), format.CurrencyDecimal(interest))
	return nil
}

func indexOffers(offers []recommend.LoanOffer) map[string]recommend.LoanOffer {
	byID := make(map[string]recommend.LoanOffer, len(offers))
	for _, o := range offers {
		byID[o.ID] = o
	}
	return byID
}

func ratio(v float64) string {
	return strconv.FormatFloat(v, 'f', 4, 64)
}
