package loans

import (
	"errors"
	"math"
	"testing"
)

func TestMonthlyPayment(t *testing.T) {
	tests := []struct {
		name               string
		principal          float64
		annualInterestRate float64
		termMonths         int
		expected           float64
	}{
		{
			name:               "Zero interest is a flat split",
			principal:          10000,
			annualInterestRate: 0,
			termMonths:         36,
			expected:           277.78,
		},
		{
			name:               "One percent per month for a year",
			principal:          10000,
			annualInterestRate: 12,
			termMonths:         12,
			expected:           888.49,
		},
		{
			name:               "30-year mortgage",
			principal:          175000,
			annualInterestRate: 4.5,
			termMonths:         360,
			expected:           886.70,
		},
		{
			name:               "Single installment at zero rate",
			principal:          1200,
			annualInterestRate: 0,
			termMonths:         1,
			expected:           1200,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := MonthlyPayment(tt.principal, tt.annualInterestRate, tt.termMonths)
			if err != nil {
				t.Fatalf("MonthlyPayment() unexpected error: %v", err)
			}
			if math.Abs(result-tt.expected) > 0.005 {
				t.Errorf("MonthlyPayment() = %.4f, expected %.2f", result, tt.expected)
			}
		})
	}
}

func TestMonthlyPaymentInvalidInput(t *testing.T) {
	tests := []struct {
		name               string
		annualInterestRate float64
		termMonths         int
	}{
		{"Zero term", 5, 0},
		{"Negative term", 5, -12},
		{"Growth factor overflows", 5, 1 << 50},
		{"Rate overflows", 1e308, 12},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := MonthlyPayment(10000, tt.annualInterestRate, tt.termMonths)
			if !errors.Is(err, ErrInvalidInput) {
				t.Errorf("MonthlyPayment() error = %v, expected ErrInvalidInput", err)
			}
			if result != 0 {
				t.Errorf("MonthlyPayment() = %v, expected 0 on error", result)
			}
		})
	}
}

func TestMonthlyRate(t *testing.T) {
	if got := MonthlyRate(12); math.Abs(got-0.01) > 1e-12 {
		t.Errorf("MonthlyRate(12) = %v, expected 0.01", got)
	}
}

func TestTotalInterest(t *testing.T) {
	payment, err := MonthlyPayment(10000, 12, 12)
	if err != nil {
		t.Fatalf("MonthlyPayment() unexpected error: %v", err)
	}
	interest := TotalInterest(payment, 10000, 12)
	if math.Abs(interest-661.85) > 0.01 {
		t.Errorf("TotalInterest() = %.2f, expected 661.85", interest)
	}
}

func TestPaymentToIncome(t *testing.T) {
	tests := []struct {
		name     string
		payment  float64
		income   float64
		expected float64
		wantErr  bool
	}{
		{name: "Quarter of income", payment: 1250, income: 5000, expected: 0.25},
		{name: "No payment", payment: 0, income: 5000, expected: 0},
		{name: "Zero income", payment: 100, income: 0, wantErr: true},
		{name: "Negative income", payment: 100, income: -10, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := PaymentToIncome(tt.payment, tt.income)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidInput) {
					t.Errorf("PaymentToIncome() error = %v, expected ErrInvalidInput", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("PaymentToIncome() unexpected error: %v", err)
			}
			if math.Abs(result-tt.expected) > 1e-9 {
				t.Errorf("PaymentToIncome() = %v, expected %v", result, tt.expected)
			}
		})
	}
}

func TestDebtToIncome(t *testing.T) {
	dti, err := DebtToIncome(6000, 1500, 300, 700)
	if err != nil {
		t.Fatalf("DebtToIncome() unexpected error: %v", err)
	}
	if math.Abs(dti-2500.0/6000.0) > 1e-9 {
		t.Errorf("DebtToIncome() = %v, expected %v", dti, 2500.0/6000.0)
	}

	if _, err := DebtToIncome(0, 1500, 300, 700); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("DebtToIncome() with zero income error = %v, expected ErrInvalidInput", err)
	}
}

func TestAnnualDebtToIncome(t *testing.T) {
	// 72k income, 18k expenses, 3.6k existing debt -> 6000 / 1500 / 300 monthly.
	dti, err := AnnualDebtToIncome(72000, 18000, 3600, 700)
	if err != nil {
		t.Fatalf("AnnualDebtToIncome() unexpected error: %v", err)
	}
	if math.Abs(dti-2500.0/6000.0) > 1e-9 {
		t.Errorf("AnnualDebtToIncome() = %v, expected %v", dti, 2500.0/6000.0)
	}

	if _, err := AnnualDebtToIncome(0, 0, 0, 0); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("AnnualDebtToIncome() with zero income error = %v, expected ErrInvalidInput", err)
	}
}
