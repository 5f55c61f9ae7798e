// Package constants provides shared constants for the loan-match application.
package constants

// DateLayout is the format used for dates of birth and schedule due dates.
const DateLayout = "2006-01-02"

// Financial constants
const (
	// MonthsPerYear is the number of months in a year
	MonthsPerYear = 12

	// DecimalPrecision is the precision for currency rounding (2 decimal places)
	DecimalPrecision = 100

	// CurrencyTolerance is the tolerance for currency comparisons (1 cent)
	CurrencyTolerance = 0.01

	// PercentageMultiplier is used for percentage conversions
	PercentageMultiplier = 100.0

	// MaxTermMonths is the longest repayment schedule that will be generated (50 years)
	MaxTermMonths = 600
)

// Offer defaults
const (
	// DefaultLoanType is applied to offers that carry no loan category.
	DefaultLoanType = "personal"

	// DefaultMinimumCreditScore is the standard strategy's lender minimum when an offer has none.
	DefaultMinimumCreditScore = 650

	// DefaultRecommendedMinScore is the weighted strategy's lender minimum when an offer has none.
	DefaultRecommendedMinScore = 680
)

// Strategy names
const (
	// StrategyStandard is the additive 0-100 scoring strategy.
	StrategyStandard = "standard"

	// StrategyWeighted is the normalized 0-1 weighted scoring strategy.
	StrategyWeighted = "weighted"
)

// Output format constants
const (
	// OutputFormatPretty is the human-readable output format
	OutputFormatPretty = "pretty"

	// OutputFormatCSV is the CSV output format
	OutputFormatCSV = "csv"
)

// Configuration file constants
const (
	// DefaultConfigFile is the default configuration file name
	DefaultConfigFile = "config.yaml"

	// DefaultServerConfigFile is the default server configuration file name
	DefaultServerConfigFile = "server-config.yaml"
)

// Server configuration defaults
const (
	// DefaultServerAddress is the default HTTP listen address
	DefaultServerAddress = ":8080"

	// DefaultMaxBodySizeBytes is the default maximum request body size (256 KB)
	DefaultMaxBodySizeBytes int64 = 256 * 1024

	// DefaultRateLimitRequests is the number of requests a client may make per window
	DefaultRateLimitRequests = 60

	// DefaultRateLimitWindow is the rate limiting window as a duration string
	DefaultRateLimitWindow = "1m"
)

// Cache backends
const (
	// CacheBackendMemory keeps cached responses in process memory.
	CacheBackendMemory = "memory"

	// CacheBackendRedis keeps cached responses in Redis.
	CacheBackendRedis = "redis"

	// DefaultCacheTTL is the default lifetime of a cached response.
	DefaultCacheTTL = "5m"
)
