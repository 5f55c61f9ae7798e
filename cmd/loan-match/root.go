package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/iwvelando/loan-match/internal/config"
	"github.com/iwvelando/loan-match/internal/recommend"
	"github.com/iwvelando/loan-match/internal/server"
	"github.com/iwvelando/loan-match/pkg/constants"
	"github.com/iwvelando/loan-match/pkg/datetime"
	"github.com/iwvelando/loan-match/pkg/loans"
	"github.com/iwvelando/loan-match/pkg/output"
	"github.com/iwvelando/loan-match/pkg/validation"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type rootOptions struct {
	configPath   string
	outputFormat string
	logLevel     string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "loan-match",
		Short: "Rank loan offers against a borrower's financial profile",
		Long: `loan-match scores lender offers for a borrower with one of two strategies:

  standard  additive 0-100 score with match reasons
  weighted  five weighted sub-scores on a 0-1 scale with a reasoning paragraph

Offers and borrower profiles are read from a YAML configuration file.`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", constants.DefaultConfigFile,
		"path to configuration file")
	cmd.PersistentFlags().StringVarP(&opts.outputFormat, "output", "o", "",
		"output format override: pretty, csv")
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "",
		"log level override (debug, info, warn, error)")

	cmd.AddCommand(newServeCmd(opts))
	cmd.AddCommand(newRecommendCmd(opts))
	cmd.AddCommand(newScheduleCmd(opts))
	cmd.AddCommand(newVersionCmd())
	return cmd
}

// loadConfig loads the configuration, builds the logger, and logs any
// configuration warnings.
func loadConfig(opts *rootOptions) (*config.Configuration, *zap.Logger, error) {
	conf, err := config.LoadConfiguration(opts.configPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load configuration at %s: %w", opts.configPath, err)
	}

	logger, err := initializeLogger(conf.Logging, opts.logLevel)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	for _, warning := range conf.ValidateConfiguration() {
		logger.Warn("Configuration warning: "+warning,
			zap.String("op", "main.loadConfig"),
		)
	}
	return conf, logger, nil
}

// resolveOutputFormat applies the CLI override over the configured format.
func resolveOutputFormat(configured, override string) (string, error) {
	format := configured
	if override != "" {
		format = override
	}
	if format == "" {
		format = constants.OutputFormatPretty
	}
	if err := validation.ValidateOutputFormat(format); err != nil {
		return "", err
	}
	return format, nil
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "loan-match %s\n", version)
		},
	}
}

type recommendOptions struct {
	userID               string
	amount               float64
	purpose              string
	strategy             string
	term                 int
	prioritizeInterest   bool
	prioritizeLongTerm   bool
	prioritizeLowPayment bool
	preferredBanks       []string
}

func newRecommendCmd(root *rootOptions) *cobra.Command {
	opts := &recommendOptions{}

	cmd := &cobra.Command{
		Use:   "recommend",
		Short: "Rank the configured offers for a user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRecommend(cmd, root, opts)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&opts.userID, "user", "u", "", "profile id to score offers for")
	flags.Float64VarP(&opts.amount, "amount", "a", 0, "requested loan amount (standard strategy)")
	flags.StringVarP(&opts.purpose, "purpose", "p", "", "loan purpose (standard strategy)")
	flags.StringVarP(&opts.strategy, "strategy", "s", constants.StrategyStandard, "scoring strategy: standard, weighted")
	flags.IntVar(&opts.term, "term", 0, "preferred term in months (standard strategy)")
	flags.BoolVar(&opts.prioritizeInterest, "prioritize-low-interest", false, "boost offers with low rates")
	flags.BoolVar(&opts.prioritizeLongTerm, "prioritize-long-term", false, "boost offers with long terms")
	flags.BoolVar(&opts.prioritizeLowPayment, "prioritize-low-payment", false, "boost offers with low monthly payments")
	flags.StringSliceVar(&opts.preferredBanks, "preferred-bank", nil, "preferred lender names (repeatable)")
	_ = cmd.MarkFlagRequired("user")
	return cmd
}

func (o *recommendOptions) preferences() *recommend.UserPreferences {
	if !o.prioritizeInterest && !o.prioritizeLongTerm && !o.prioritizeLowPayment && len(o.preferredBanks) == 0 {
		return nil
	}
	return &recommend.UserPreferences{
		PrioritizeLowInterest:       o.prioritizeInterest,
		PrioritizeLongTerm:          o.prioritizeLongTerm,
		PrioritizeLowMonthlyPayment: o.prioritizeLowPayment,
		PreferredBanks:              o.preferredBanks,
	}
}

func runRecommend(cmd *cobra.Command, root *rootOptions, opts *recommendOptions) error {
	strategy, err := recommend.ParseStrategy(opts.strategy)
	if err != nil {
		return err
	}

	conf, logger, err := loadConfig(root)
	if err != nil {
		return err
	}
	defer func() {
		_ = logger.Sync()
	}()

	outputFormat, err := resolveOutputFormat(conf.Output.Format, root.outputFormat)
	if err != nil {
		return err
	}

	a, err := newApp(conf, logger)
	if err != nil {
		return err
	}
	defer func() {
		_ = a.Close()
	}()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	offers, err := a.offers.List(ctx)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()

	switch strategy {
	case recommend.StrategyWeighted:
		result, err := recommend.NewWeightedRecommender(a.profiles).GetAIRecommendations(ctx, opts.userID, offers)
		if err != nil {
			return err
		}
		logger.Debug("weighted recommendations computed",
			zap.String("op", "main.runRecommend"),
			zap.String("userID", opts.userID),
			zap.Int("offers", len(result.Recommendations)),
		)
		if outputFormat == constants.OutputFormatCSV {
			return output.CsvFormatWeighted(out, result)
		}
		return output.PrettyFormatWeighted(out, result)

	default:
		criteria, err := a.profiles.CriteriaForUser(ctx, opts.userID, opts.amount, opts.purpose, opts.preferences())
		if err != nil {
			return err
		}
		if opts.term > 0 {
			term := opts.term
			criteria.PreferredTerm = &term
		}
		results, err := recommend.GetRecommendations(criteria, offers)
		if err != nil {
			return err
		}
		logger.Debug("standard recommendations computed",
			zap.String("op", "main.runRecommend"),
			zap.String("userID", opts.userID),
			zap.Int("offers", len(results)),
		)
		if outputFormat == constants.OutputFormatCSV {
			return output.CsvFormat(out, results)
		}
		return output.PrettyFormat(out, results, offers)
	}
}

type scheduleOptions struct {
	amount float64
	rate   float64
	term   int
	start  string
}

func newScheduleCmd(root *rootOptions) *cobra.Command {
	opts := &scheduleOptions{}

	cmd := &cobra.Command{
		Use:   "schedule",
		Short: "Print the amortization schedule of a loan",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := initializeLogger(config.LoggingConfig{Format: "console"}, root.logLevel)
			if err != nil {
				return err
			}
			defer func() {
				_ = logger.Sync()
			}()

			outputFormat, err := resolveOutputFormat("", root.outputFormat)
			if err != nil {
				return err
			}

			start := time.Now().UTC()
			if opts.start != "" {
				if start, err = datetime.ParseDate(opts.start); err != nil {
					return fmt.Errorf("invalid start date: %w", err)
				}
			}

			schedule, err := loans.NewScheduleGenerator(logger).Generate(opts.amount, opts.rate, opts.term, start)
			if err != nil {
				return err
			}
			return output.ScheduleFormat(cmd.OutOrStdout(), schedule, outputFormat == constants.OutputFormatCSV)
		},
	}

	flags := cmd.Flags()
	flags.Float64Var(&opts.amount, "amount", 0, "loan principal")
	flags.Float64Var(&opts.rate, "rate", 0, "annual interest rate in percent")
	flags.IntVar(&opts.term, "term", 0, "term in months")
	flags.StringVar(&opts.start, "start", "", "start date (YYYY-MM-DD), default today")
	_ = cmd.MarkFlagRequired("amount")
	_ = cmd.MarkFlagRequired("term")
	return cmd
}

type serveOptions struct {
	serverConfig string
	address      string
}

func newServeCmd(root *rootOptions) *cobra.Command {
	opts := &serveOptions{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the recommendation API over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, root, opts)
		},
	}

	cmd.Flags().StringVar(&opts.serverConfig, "server-config", constants.DefaultServerConfigFile,
		"path to server configuration file")
	cmd.Flags().StringVar(&opts.address, "address", "", "listen address override")
	return cmd
}

func runServe(cmd *cobra.Command, root *rootOptions, opts *serveOptions) error {
	serverCfg, err := server.LoadConfig(opts.serverConfig)
	if err != nil {
		return err
	}
	if opts.address != "" {
		serverCfg.Address = opts.address
	}
	// An explicit --config wins over the server config's data file.
	dataFile := serverCfg.DataFile
	if cmd.Flags().Changed("config") {
		dataFile = root.configPath
	}

	logger, err := initializeLogger(serverCfg.Logging, root.logLevel)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer func() {
		_ = logger.Sync()
	}()

	conf, err := config.LoadConfiguration(dataFile)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("failed to load configuration at %s: %w", dataFile, err)
		}
		logger.Warn("no data file found, serving without stored offers or profiles",
			zap.String("op", "main.runServe"),
			zap.String("dataFile", dataFile),
		)
		conf = &config.Configuration{}
	}
	for _, warning := range conf.ValidateConfiguration() {
		logger.Warn("Configuration warning: "+warning,
			zap.String("op", "main.runServe"),
		)
	}

	a, err := newApp(conf, logger)
	if err != nil {
		return err
	}
	defer func() {
		_ = a.Close()
	}()
	a.logEvents(logger)

	handler := server.NewHandler(logger, server.Dependencies{
		Offers:   a.offers,
		Profiles: a.profiles,
		Cache:    a.cache,
		Bus:      a.bus,
	}, serverCfg.BodySizeBytes(), version)

	var limiter *server.RateLimiter
	if serverCfg.RateLimit.Requests > 0 {
		limiter = server.NewRateLimiter(serverCfg.RateLimit.Requests, serverCfg.RateLimitWindow())
		defer limiter.Stop()
	}

	httpServer := &http.Server{
		Addr:         serverCfg.Address,
		Handler:      server.RateLimitMiddleware(limiter, logger, handler),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("server listening",
			zap.String("op", "main.runServe"),
			zap.String("address", serverCfg.Address),
			zap.String("version", version),
		)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	select {
	case err := <-serverErr:
		return fmt.Errorf("server failed: %w", err)
	case <-ctx.Done():
		logger.Info("shutting down server", zap.String("op", "main.runServe"))
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	return nil
}
