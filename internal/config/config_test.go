package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/iwvelando/loan-match/internal/profile"
	"github.com/iwvelando/loan-match/internal/recommend"
	"github.com/iwvelando/loan-match/pkg/constants"
)

const sampleConfig = `
logging:
  level: debug
  format: json
output:
  format: csv
cache:
  backend: redis
  redisAddress: localhost:6379
  ttl: 10m
profiles:
  - id: user-1
    fullName: Jordan Lee
    dateOfBirth: "1990-06-15"
    employmentStatus: employed
    annualIncome: 60000
    monthlyExpenses: 1500
    monthlyDebtPayments: 300
    existingLoans: 200
    creditScore: 720
offers:
  - id: offer-1
    bankName: Acme Bank
    amount: 10000
    interestRate: 4.5
    termMonths: 36
    minimumCreditScore: 700
    type: Home Improvement Loan
  - bankName: Credit Union
    amount: 12000
    interestRate: 7.9
    termMonths: 60
applications:
  - id: app-1
    userId: user-1
    loanAmount: 10000
    loanPurpose: home renovation
    preferredTerm: 36
    submittedAt: "2024-05-01T10:00:00Z"
`

func TestLoadConfigurationFromReader(t *testing.T) {
	conf, err := LoadConfigurationFromReader(strings.NewReader(sampleConfig))
	if err != nil {
		t.Fatalf("LoadConfigurationFromReader failed: %v", err)
	}

	if conf.Logging.Level != "debug" || conf.Logging.Format != "json" {
		t.Errorf("unexpected logging config: %+v", conf.Logging)
	}
	if conf.Output.Format != constants.OutputFormatCSV {
		t.Errorf("Output.Format = %q, want csv", conf.Output.Format)
	}
	if conf.Cache.Backend != constants.CacheBackendRedis || conf.Cache.RedisAddress != "localhost:6379" {
		t.Errorf("unexpected cache config: %+v", conf.Cache)
	}

	if len(conf.Profiles) != 1 {
		t.Fatalf("expected 1 profile, got %d", len(conf.Profiles))
	}
	p := conf.Profiles[0]
	if p.ID != "user-1" || p.AnnualIncome != 60000 || p.MonthlyDebtPayments != 300 || p.CreditScore != 720 {
		t.Errorf("unexpected profile: %+v", p)
	}

	if len(conf.Offers) != 2 {
		t.Fatalf("expected 2 offers, got %d", len(conf.Offers))
	}
	first := conf.Offers[0]
	if first.MinimumCreditScore == nil || *first.MinimumCreditScore != 700 {
		t.Errorf("expected minimumCreditScore 700, got %v", first.MinimumCreditScore)
	}
	if first.LoanType() != "Home Improvement Loan" {
		t.Errorf("LoanType() = %q", first.LoanType())
	}
	if conf.Offers[1].ID == "" {
		t.Error("expected a generated id for the offer without one")
	}
	if conf.Offers[1].MinimumCreditScore != nil {
		t.Error("expected nil minimumCreditScore when absent")
	}

	if len(conf.Applications) != 1 {
		t.Fatalf("expected 1 application, got %d", len(conf.Applications))
	}
	app := conf.Applications[0]
	if app.PreferredTerm == nil || *app.PreferredTerm != 36 {
		t.Errorf("expected preferredTerm 36, got %v", app.PreferredTerm)
	}
	want := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	if !app.SubmittedAt.Equal(want) {
		t.Errorf("SubmittedAt = %v, want %v", app.SubmittedAt, want)
	}

	if warnings := conf.ValidateConfiguration(); len(warnings) != 0 {
		t.Errorf("expected no warnings, got %v", warnings)
	}
}

func TestLoadConfigurationDefaults(t *testing.T) {
	conf, err := LoadConfigurationFromReader(strings.NewReader("offers: []\n"))
	if err != nil {
		t.Fatalf("LoadConfigurationFromReader failed: %v", err)
	}

	if conf.Logging.Level != "info" {
		t.Errorf("Logging.Level = %q, want info", conf.Logging.Level)
	}
	if conf.Output.Format != constants.OutputFormatPretty {
		t.Errorf("Output.Format = %q, want pretty", conf.Output.Format)
	}
	if conf.Cache.Backend != constants.CacheBackendMemory {
		t.Errorf("Cache.Backend = %q, want memory", conf.Cache.Backend)
	}
	ttl, err := conf.Cache.TTLDuration()
	if err != nil || ttl != 5*time.Minute {
		t.Errorf("TTLDuration() = %v, %v; want 5m", ttl, err)
	}
}

func TestLoadConfigurationFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(sampleConfig), 0o600); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	conf, err := LoadConfiguration(path)
	if err != nil {
		t.Fatalf("LoadConfiguration failed: %v", err)
	}
	if len(conf.Offers) != 2 {
		t.Errorf("expected 2 offers, got %d", len(conf.Offers))
	}
}

func TestLoadConfigurationMissingFile(t *testing.T) {
	if _, err := LoadConfiguration(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected an error for a missing file")
	}
}

func TestValidateConfigurationWarnings(t *testing.T) {
	tests := []struct {
		name     string
		conf     Configuration
		contains string
	}{
		{
			name:     "unknown cache backend",
			conf:     Configuration{Cache: CacheConfig{Backend: "memcached"}},
			contains: "Unknown cache backend",
		},
		{
			name:     "redis without address",
			conf:     Configuration{Cache: CacheConfig{Backend: "redis"}},
			contains: "no redisAddress",
		},
		{
			name:     "invalid ttl",
			conf:     Configuration{Cache: CacheConfig{TTL: "soon"}},
			contains: "invalid cache ttl",
		},
		{
			name: "duplicate profile",
			conf: Configuration{Profiles: []profile.UserProfile{
				{ID: "u1", AnnualIncome: 1}, {ID: "u1", AnnualIncome: 1},
			}},
			contains: "Duplicate profile id 'u1'",
		},
		{
			name:     "profile without income",
			conf:     Configuration{Profiles: []profile.UserProfile{{ID: "u1"}}},
			contains: "no annual income",
		},
		{
			name: "duplicate offer",
			conf: Configuration{Offers: []recommend.LoanOffer{
				{ID: "o1", BankName: "A", TermMonths: 12}, {ID: "o1", BankName: "B", TermMonths: 12},
			}},
			contains: "Duplicate offer id 'o1'",
		},
		{
			name:     "zero term offer",
			conf:     Configuration{Offers: []recommend.LoanOffer{{ID: "o1", BankName: "A"}}},
			contains: "non-positive term",
		},
		{
			name:     "offer without lender",
			conf:     Configuration{Offers: []recommend.LoanOffer{{ID: "o1", TermMonths: 12}}},
			contains: "no bankName or lenderName",
		},
		{
			name:     "unsupported output format",
			conf:     Configuration{Output: OutputConfig{Format: "json"}},
			contains: "expected output format",
		},
		{
			name:     "credit score out of range",
			conf:     Configuration{Profiles: []profile.UserProfile{{ID: "u1", AnnualIncome: 1, CreditScore: 900}}},
			contains: "outside the 300-850 range",
		},
		{
			name:     "negative offer rate",
			conf:     Configuration{Offers: []recommend.LoanOffer{{ID: "o1", BankName: "A", TermMonths: 12, InterestRate: -2}}},
			contains: "negative interest rate",
		},
		{
			name:     "orphan application",
			conf:     Configuration{Applications: []profile.Application{{ID: "a1", UserID: "ghost"}}},
			contains: "unknown user 'ghost'",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			warnings := tt.conf.ValidateConfiguration()
			found := false
			for _, w := range warnings {
				if strings.Contains(w, tt.contains) {
					found = true
					break
				}
			}
			if !found {
				t.Errorf("expected a warning containing %q, got %v", tt.contains, warnings)
			}
		})
	}
}

func TestAssignMissingIDsKeepsExisting(t *testing.T) {
	conf := Configuration{
		Offers:       []recommend.LoanOffer{{ID: "keep"}, {}},
		Applications: []profile.Application{{}},
	}
	conf.AssignMissingIDs()

	if conf.Offers[0].ID != "keep" {
		t.Errorf("existing id replaced: %q", conf.Offers[0].ID)
	}
	if conf.Offers[1].ID == "" || conf.Applications[0].ID == "" {
		t.Error("expected generated ids")
	}
	if conf.Offers[1].ID == conf.Applications[0].ID {
		t.Error("expected distinct generated ids")
	}
}
