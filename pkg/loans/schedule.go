package loans

import (
	"fmt"
	"time"

	"github.com/iwvelando/loan-match/pkg/constants"
	"github.com/iwvelando/loan-match/pkg/datetime"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Payment holds the values for a given scheduled installment.
type Payment struct {
	Period           int             `json:"period"`
	DueDate          time.Time       `json:"dueDate"`
	Payment          decimal.Decimal `json:"payment"`
	Principal        decimal.Decimal `json:"principal"`
	Interest         decimal.Decimal `json:"interest"`
	RemainingBalance decimal.Decimal `json:"remainingBalance"`
}

// ScheduleGenerator provides utilities for generating loan amortization schedules
type ScheduleGenerator struct {
	logger *zap.Logger
}

// NewScheduleGenerator creates a new generator instance
func NewScheduleGenerator(logger *zap.Logger) *ScheduleGenerator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ScheduleGenerator{logger: logger}
}

// Generate creates a complete amortization schedule. Installments are rounded
// to cents; the final period pays off whatever balance rounding has left so
// the schedule always ends at zero. The first installment is due one month
// after start.
func (g *ScheduleGenerator) Generate(principal, annualInterestRate float64, termMonths int, start time.Time) ([]Payment, error) {
	if principal <= 0 {
		return nil, fmt.Errorf("%w: principal must be positive, got %.2f", ErrInvalidInput, principal)
	}
	if annualInterestRate < 0 {
		return nil, fmt.Errorf("%w: interest rate cannot be negative, got %.2f", ErrInvalidInput, annualInterestRate)
	}
	if termMonths > constants.MaxTermMonths {
		return nil, fmt.Errorf("%w: term cannot exceed %d months, got %d", ErrInvalidInput, constants.MaxTermMonths, termMonths)
	}

	monthly, err := MonthlyPayment(principal, annualInterestRate, termMonths)
	if err != nil {
		return nil, err
	}

	installment := decimal.NewFromFloat(monthly).Round(2)
	rate := decimal.NewFromFloat(MonthlyRate(annualInterestRate))
	remaining := decimal.NewFromFloat(principal).Round(2)

	g.logger.Debug("generating amortization schedule",
		zap.String("op", "loans.Generate"),
		zap.String("principal", remaining.StringFixed(2)),
		zap.String("installment", installment.StringFixed(2)),
		zap.Int("termMonths", termMonths),
	)

	schedule := make([]Payment, 0, termMonths)
	for period := 1; period <= termMonths; period++ {
		interest := remaining.Mul(rate).Round(2)
		principalPart := installment.Sub(interest)
		total := installment

		if period == termMonths || principalPart.GreaterThanOrEqual(remaining) {
			principalPart = remaining
			total = principalPart.Add(interest)
		}
		remaining = remaining.Sub(principalPart)

		schedule = append(schedule, Payment{
			Period:           period,
			DueDate:          datetime.OffsetMonths(start, period),
			Payment:          total,
			Principal:        principalPart,
			Interest:         interest,
			RemainingBalance: remaining,
		})

		if remaining.IsZero() {
			break
		}
	}

	return schedule, nil
}

// TotalPaid sums the installments of a schedule.
func TotalPaid(schedule []Payment) decimal.Decimal {
	total := decimal.Zero
	for _, p := range schedule {
		total = total.Add(p.Payment)
	}
	return total
}

// InterestPaid sums the interest portion of every installment.
func InterestPaid(schedule []Payment) decimal.Decimal {
	total := decimal.Zero
	for _, p := range schedule {
		total = total.Add(p.Interest)
	}
	return total
}
