package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/iwvelando/loan-match/internal/config"
	"go.uber.org/zap/zapcore"
)

const testConfig = `
logging:
  level: error
  format: console
profiles:
  - id: user-1
    fullName: Jordan Lee
    dateOfBirth: "1990-06-15"
    annualIncome: 60000
    monthlyExpenses: 1500
    monthlyDebtPayments: 300
    creditScore: 720
offers:
  - id: cheap
    bankName: Acme Bank
    amount: 10000
    interestRate: 4
    termMonths: 36
  - id: pricey
    bankName: Lender Co
    amount: 10000
    interestRate: 14
    termMonths: 36
`

func writeTestConfig(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(testConfig), 0600); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path
}

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestInitializeLogger(t *testing.T) {
	tests := []struct {
		name     string
		cfg      config.LoggingConfig
		override string
		level    zapcore.Level
		wantErr  bool
	}{
		{"defaults", config.LoggingConfig{}, "", zapcore.InfoLevel, false},
		{"configured level", config.LoggingConfig{Level: "warn", Format: "console"}, "", zapcore.WarnLevel, false},
		{"override wins", config.LoggingConfig{Level: "error"}, "debug", zapcore.DebugLevel, false},
		{"invalid level", config.LoggingConfig{Level: "loud"}, "", 0, true},
		{"invalid format", config.LoggingConfig{Format: "xml"}, "", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, err := initializeLogger(tt.cfg, tt.override)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected an error")
				}
				return
			}
			if err != nil {
				t.Fatalf("initializeLogger failed: %v", err)
			}
			if !logger.Core().Enabled(tt.level) {
				t.Errorf("expected level %v to be enabled", tt.level)
			}
			if tt.level > zapcore.DebugLevel && logger.Core().Enabled(tt.level-1) {
				t.Errorf("expected level %v to be disabled", tt.level-1)
			}
		})
	}
}

func TestInitializeLoggerOutputFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "loan-match.log")
	logger, err := initializeLogger(config.LoggingConfig{OutputFile: path}, "")
	if err != nil {
		t.Fatalf("initializeLogger failed: %v", err)
	}
	logger.Info("hello")
	_ = logger.Sync()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read log file: %v", err)
	}
	if !strings.Contains(string(data), "hello") {
		t.Errorf("expected log line in file, got %q", string(data))
	}
}

func TestRecommendStandard(t *testing.T) {
	path := writeTestConfig(t)

	out, err := runCLI(t, "recommend", "--config", path, "--user", "user-1", "--amount", "10000", "--term", "36")
	if err != nil {
		t.Fatalf("recommend failed: %v\n%s", err, out)
	}
	if !strings.Contains(out, "--- Standard recommendations (2 offers) ---") {
		t.Errorf("missing header in:\n%s", out)
	}
	if !strings.Contains(out, "1 | cheap | Acme Bank") {
		t.Errorf("expected cheap offer ranked first in:\n%s", out)
	}
}

func TestRecommendEmptyStrategyIsStandard(t *testing.T) {
	path := writeTestConfig(t)

	out, err := runCLI(t, "recommend", "-c", path, "-u", "user-1", "-a", "10000", "-s", "")
	if err != nil {
		t.Fatalf("recommend with empty strategy failed: %v\n%s", err, out)
	}
	if !strings.Contains(out, "--- Standard recommendations (2 offers) ---") {
		t.Errorf("expected standard output for an empty strategy:\n%s", out)
	}
}

func TestRecommendWeightedCSV(t *testing.T) {
	path := writeTestConfig(t)

	out, err := runCLI(t, "recommend", "-c", path, "-u", "user-1", "-s", "weighted", "-o", "csv")
	if err != nil {
		t.Fatalf("recommend failed: %v\n%s", err, out)
	}
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header plus 2 rows, got:\n%s", out)
	}
	if !strings.HasPrefix(lines[1], "1,cheap,Acme Bank,") {
		t.Errorf("expected cheap offer first, got %s", lines[1])
	}
}

func TestRecommendErrors(t *testing.T) {
	path := writeTestConfig(t)

	tests := []struct {
		name string
		args []string
	}{
		{"unknown user", []string{"recommend", "-c", path, "-u", "ghost", "--amount", "1000"}},
		{"invalid amount", []string{"recommend", "-c", path, "-u", "user-1"}},
		{"unknown strategy", []string{"recommend", "-c", path, "-u", "user-1", "-s", "magic"}},
		{"unknown output", []string{"recommend", "-c", path, "-u", "user-1", "--amount", "1000", "-o", "json"}},
		{"missing user flag", []string{"recommend", "-c", path}},
		{"missing config", []string{"recommend", "-c", filepath.Join(t.TempDir(), "none.yaml"), "-u", "user-1"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := runCLI(t, tt.args...); err == nil {
				t.Fatal("expected an error")
			}
		})
	}
}

func TestScheduleCommand(t *testing.T) {
	out, err := runCLI(t, "schedule", "--amount", "1000", "--rate", "0", "--term", "2", "--start", "2025-01-01", "--log-level", "error")
	if err != nil {
		t.Fatalf("schedule failed: %v\n%s", err, out)
	}
	if !strings.Contains(out, "1 | 2025-02-01 | $500.00") {
		t.Errorf("unexpected schedule output:\n%s", out)
	}

	if _, err := runCLI(t, "schedule", "--amount", "1000", "--term", "0", "--log-level", "error"); err == nil {
		t.Error("expected an error for a zero term")
	}
	if _, err := runCLI(t, "schedule", "--amount", "10000", "--rate", "5", "--term", "1125899906842624", "--log-level", "error"); err == nil {
		t.Error("expected an error for a term beyond the maximum")
	}
}

func TestVersionCommand(t *testing.T) {
	out, err := runCLI(t, "version")
	if err != nil {
		t.Fatalf("version failed: %v", err)
	}
	if strings.TrimSpace(out) != "loan-match dev" {
		t.Errorf("unexpected version output %q", out)
	}
}

func TestResolveOutputFormat(t *testing.T) {
	if got, err := resolveOutputFormat("", ""); err != nil || got != "pretty" {
		t.Errorf("resolveOutputFormat default = %q, %v", got, err)
	}
	if got, err := resolveOutputFormat("pretty", "csv"); err != nil || got != "csv" {
		t.Errorf("resolveOutputFormat override = %q, %v", got, err)
	}
	if _, err := resolveOutputFormat("json", ""); err == nil {
		t.Error("expected an error for an unsupported format")
	}
}
