// Package config defines the data structures related to configuration and
// includes functions for loading, validating, and completing the config.
package config

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/iwvelando/loan-match/internal/profile"
	"github.com/iwvelando/loan-match/internal/recommend"
	"github.com/iwvelando/loan-match/internal/store"
	"github.com/iwvelando/loan-match/pkg/constants"
	"github.com/iwvelando/loan-match/pkg/validation"
	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

// Configuration holds all configuration for loan-match.
type Configuration struct {
	Logging      LoggingConfig         `yaml:"logging,omitempty"`
	Output       OutputConfig          `yaml:"output,omitempty"`
	Cache        CacheConfig           `yaml:"cache,omitempty"`
	Profiles     []profile.UserProfile `yaml:"profiles,omitempty"`
	Offers       []recommend.LoanOffer `yaml:"offers,omitempty"`
	Applications []profile.Application `yaml:"applications,omitempty"`
}

// LoggingConfig holds logging configuration options
type LoggingConfig struct {
	Level      string `yaml:"level,omitempty"`      // debug, info, warn, error
	Format     string `yaml:"format,omitempty"`     // json, console
	OutputFile string `yaml:"outputFile,omitempty"` // optional file output
}

// OutputConfig holds output format configuration options
type OutputConfig struct {
	Format string `yaml:"format,omitempty"` // pretty, csv
}

// CacheConfig selects where computed recommendation responses are cached.
type CacheConfig struct {
	Backend      string `yaml:"backend,omitempty"` // memory, redis
	RedisAddress string `yaml:"redisAddress,omitempty"`
	TTL          string `yaml:"ttl,omitempty"` // Go duration, e.g. 5m
}

// TTLDuration parses the configured TTL, falling back to the default.
func (c CacheConfig) TTLDuration() (time.Duration, error) {
	ttl := c.TTL
	if strings.TrimSpace(ttl) == "" {
		ttl = constants.DefaultCacheTTL
	}
	d, err := time.ParseDuration(ttl)
	if err != nil {
		return 0, fmt.Errorf("invalid cache ttl %q: %w", c.TTL, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("invalid cache ttl %q: must not be negative", c.TTL)
	}
	return d, nil
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix("LOAN_MATCH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	v.SetConfigType("yml")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("output.format", constants.OutputFormatPretty)
	v.SetDefault("cache.backend", constants.CacheBackendMemory)
	v.SetDefault("cache.ttl", constants.DefaultCacheTTL)
	return v
}

// LoadConfiguration takes a file path as input and loads the YAML-formatted
// configuration there.
func LoadConfiguration(configPath string) (*Configuration, error) {
	v := newViper()
	v.SetConfigFile(configPath)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file, %w", err)
	}
	return decode(v)
}

// LoadConfigurationFromReader loads YAML-formatted configuration from r.
func LoadConfigurationFromReader(r io.Reader) (*Configuration, error) {
	v := newViper()
	if err := v.ReadConfig(r); err != nil {
		return nil, fmt.Errorf("error reading config, %w", err)
	}
	return decode(v)
}

func decode(v *viper.Viper) (*Configuration, error) {
	var configuration Configuration
	err := v.Unmarshal(&configuration, viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeHookFunc(time.RFC3339),
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
	)))
	if err != nil {
		return nil, fmt.Errorf("unable to decode into struct, %w", err)
	}
	configuration.AssignMissingIDs()
	return &configuration, nil
}

// AssignMissingIDs gives offers and applications without an ID a generated one.
func (c *Configuration) AssignMissingIDs() {
	for i := range c.Offers {
		if strings.TrimSpace(c.Offers[i].ID) == "" {
			c.Offers[i].ID = store.NewID()
		}
	}
	for i := range c.Applications {
		if strings.TrimSpace(c.Applications[i].ID) == "" {
			c.Applications[i].ID = store.NewID()
		}
	}
}

// ValidateConfiguration performs general validation of the configuration and returns warnings
func (c *Configuration) ValidateConfiguration() []string {
	var warnings []string
	addWarning := func(w string) {
		if w != "" {
			warnings = append(warnings, w)
		}
	}

	if c.Output.Format != "" {
		if err := validation.ValidateOutputFormat(c.Output.Format); err != nil {
			warnings = append(warnings, err.Error())
		}
	}

	switch strings.ToLower(c.Cache.Backend) {
	case "", constants.CacheBackendMemory:
	case constants.CacheBackendRedis:
		if strings.TrimSpace(c.Cache.RedisAddress) == "" {
			warnings = append(warnings, "Cache backend 'redis' has no redisAddress configured")
		}
	default:
		warnings = append(warnings, fmt.Sprintf("Unknown cache backend '%s'; the memory cache will be used", c.Cache.Backend))
	}
	if _, err := c.Cache.TTLDuration(); err != nil {
		warnings = append(warnings, err.Error())
	}

	profileIDs := make(map[string]bool, len(c.Profiles))
	for _, p := range c.Profiles {
		if strings.TrimSpace(p.ID) == "" {
			warnings = append(warnings, fmt.Sprintf("Profile '%s' has no id and cannot be looked up", p.FullName))
			continue
		}
		if profileIDs[p.ID] {
			warnings = append(warnings, fmt.Sprintf("Duplicate profile id '%s'; the last entry wins", p.ID))
		}
		profileIDs[p.ID] = true
		if p.AnnualIncome <= 0 {
			warnings = append(warnings, fmt.Sprintf("Profile '%s' has no annual income and cannot be scored", p.ID))
		}
		addWarning(validation.ValidateCreditScore(fmt.Sprintf("Profile '%s'", p.ID), p.CreditScore))
	}

	offerIDs := make(map[string]bool, len(c.Offers))
	for _, o := range c.Offers {
		if offerIDs[o.ID] {
			warnings = append(warnings, fmt.Sprintf("Duplicate offer id '%s'; the last entry wins", o.ID))
		}
		offerIDs[o.ID] = true
		if o.TermMonths <= 0 {
			warnings = append(warnings, fmt.Sprintf("Offer '%s' has a non-positive term (%d months) and will be rejected when scored", o.ID, o.TermMonths))
		}
		if o.Lender() == "" {
			warnings = append(warnings, fmt.Sprintf("Offer '%s' has no bankName or lenderName", o.ID))
		}
		owner := fmt.Sprintf("Offer '%s'", o.ID)
		addWarning(validation.ValidateInterestRate(owner, o.InterestRate))
		addWarning(validation.ValidateMinimumCreditScore(owner, o.MinimumCreditScore))
	}

	for _, a := range c.Applications {
		if !profileIDs[a.UserID] {
			warnings = append(warnings, fmt.Sprintf("Application '%s' references unknown user '%s'", a.ID, a.UserID))
		}
	}

	if len(warnings) == 0 {
		return nil
	}
	return warnings
}
