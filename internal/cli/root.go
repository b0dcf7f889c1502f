// Package cli provides the command-line interface for the dispatch
// application.
package cli

import (
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/time/rate"

	"github.com/Avisekh-OptionBrains/optiontrade-sub001/internal/broker"
	"github.com/Avisekh-OptionBrains/optiontrade-sub001/internal/chain"
	"github.com/Avisekh-OptionBrains/optiontrade-sub001/internal/config"
	apperrors "github.com/Avisekh-OptionBrains/optiontrade-sub001/internal/errors"
	"github.com/Avisekh-OptionBrains/optiontrade-sub001/internal/logging"
	"github.com/Avisekh-OptionBrains/optiontrade-sub001/internal/models"
	"github.com/Avisekh-OptionBrains/optiontrade-sub001/internal/notify"
	"github.com/Avisekh-OptionBrains/optiontrade-sub001/internal/orders"
	"github.com/Avisekh-OptionBrains/optiontrade-sub001/internal/pipeline"
	"github.com/Avisekh-OptionBrains/optiontrade-sub001/internal/refdata"
	"github.com/Avisekh-OptionBrains/optiontrade-sub001/internal/signal"
	"github.com/Avisekh-OptionBrains/optiontrade-sub001/internal/store"
)

// Version information
const (
	Version   = "0.1.0"
	BuildDate = "2026-08-31"
)

// App holds the application dependencies. Commands that only read
// configuration work even when the data-path dependencies failed to
// initialize; dispatch commands check Pipeline first.
type App struct {
	Config   *config.Config
	Logger   zerolog.Logger
	Store    store.TradeStore
	Backup   *store.BackupLog
	Accounts []models.Account
	Pipeline *pipeline.Pipeline
}

// NewRootCmd creates the root command for the CLI.
func NewRootCmd(cfg *config.Config, logger zerolog.Logger) *cobra.Command {
	app := &App{
		Config: cfg,
		Logger: logger,
		Backup: store.NewBackupLog(cfg.Storage.BackupLogPath),
	}

	if s, err := store.NewSQLiteStore(cfg.Storage.DBPath); err != nil {
		logger.Warn().Err(err).Msg("Failed to initialize trade store")
	} else {
		app.Store = s
		logger.Debug().Str("path", cfg.Storage.DBPath).Msg("SQLite store initialized")
	}

	if accounts, err := refdata.LoadAccounts(cfg.Storage.AccountsCSV); err != nil {
		logger.Warn().Err(err).Msg("Failed to load account book")
	} else {
		app.Accounts = accounts
		logger.Debug().Int("accounts", len(accounts)).Msg("Account book loaded")
	}

	if app.Store != nil && len(app.Accounts) > 0 {
		if p, err := buildPipeline(app); err != nil {
			logger.Warn().Err(err).Msg("Dispatch pipeline unavailable")
		} else {
			app.Pipeline = p
		}
	}

	rootCmd := &cobra.Command{
		Use:   "optiontrade",
		Short: "Multi-account option dispatcher for BB TRAP alerts",
		Long: `optiontrade turns BB TRAP alert text into two-leg index option orders
and places them across every live account in the account book.

Entry alerts select the near-the-money call and put by delta, build a
buy/sell leg pair, and dispatch sequentially under a rate limit. Exit
alerts are recorded and notified without placing orders.

Use 'optiontrade help <command>' for more information about a command.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			debug, _ := cmd.Flags().GetBool("debug")
			if debug {
				logging.SetDebugLevel()
				app.Logger = app.Logger.Level(zerolog.DebugLevel)
			}
			return nil
		},
	}

	rootCmd.PersistentFlags().String("config", "", "config directory (default: ~/.config/optiontrade)")
	rootCmd.PersistentFlags().Bool("json", false, "output in JSON format")
	rootCmd.PersistentFlags().Bool("debug", false, "enable debug logging")

	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newConfigCmd(app))
	rootCmd.AddCommand(newSignalCmd(app))
	rootCmd.AddCommand(newServeCmd(app))
	rootCmd.AddCommand(newAccountsCmd(app))
	rootCmd.AddCommand(newTradesCmd(app))
	rootCmd.AddCommand(newReplayCmd(app))

	return rootCmd
}

// buildPipeline wires the full dispatch path from configuration.
func buildPipeline(app *App) (*pipeline.Pipeline, error) {
	cfg := app.Config

	resolver, err := refdata.LoadResolver(cfg.Storage.SecuritiesCSV)
	if err != nil {
		return nil, err
	}

	if cfg.Credentials.Data.AccessToken == "" || cfg.Credentials.Data.ClientID == "" {
		return nil, apperrors.ErrNotAuthenticated
	}

	underlyings := make(map[string]chain.Underlying, len(cfg.MarketData.Underlyings))
	for symbol, u := range cfg.MarketData.Underlyings {
		underlyings[symbol] = chain.Underlying{Scrip: u.Scrip, Segment: u.Segment}
	}

	chainClient := chain.NewRestClient(chain.RestClientConfig{
		BaseURL:     cfg.MarketData.BaseURL,
		ClientID:    cfg.Credentials.Data.ClientID,
		AccessToken: cfg.Credentials.Data.AccessToken,
		Underlyings: underlyings,
		Logger:      app.Logger,
	})

	dispatcher := orders.NewDispatcher(orders.DispatcherConfig{
		Placer: broker.NewRestPlacer(broker.RestPlacerConfig{
			BaseURL: cfg.MarketData.BaseURL,
			Timeout: cfg.Dispatch.OrderTimeout,
			Logger:  app.Logger,
		}),
		Limiter:         rate.NewLimiter(rate.Limit(cfg.Dispatch.OrdersPerSecond), cfg.Dispatch.Burst),
		Logger:          app.Logger,
		Quantity:        cfg.Trading.Quantity,
		ExchangeSegment: models.ExchangeSegment(cfg.Trading.ExchangeSegment),
		Product:         cfg.Trading.Product,
		Tag:             cfg.Trading.Strategy,
	})

	persister := store.NewPersister(store.PersisterConfig{
		Primary:  app.Store,
		Backup:   app.Backup,
		Strategy: cfg.Trading.Strategy,
		Logger:   app.Logger,
	})

	return pipeline.New(pipeline.Config{
		Parser:     signal.NewParser(),
		Chain:      chainClient,
		Selector:   chain.NewSelector(resolver),
		Dispatcher: dispatcher,
		Persister:  persister,
		Sink:       notify.NewMultiNotifier(&cfg.Notifications, app.Logger),
		Accounts:   app.Accounts,
		Logger:     app.Logger,
	}), nil
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			output := NewOutput(cmd)
			if output.IsJSON() {
				output.JSON(map[string]string{
					"version":    Version,
					"build_date": BuildDate,
				})
			} else {
				output.Printf("optiontrade v%s\n", Version)
				output.Dim("Build date: %s", BuildDate)
			}
		},
	}
}

func newConfigCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration management",
		Long:  "View and validate application configuration.",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if output.IsJSON() {
				return output.JSON(app.Config)
			}
			showConfig(output, app.Config)
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show configuration directory path",
		Run: func(cmd *cobra.Command, args []string) {
			output := NewOutput(cmd)
			if output.IsJSON() {
				output.JSON(map[string]string{"path": config.DefaultConfigDir()})
			} else {
				output.Println(config.DefaultConfigDir())
			}
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "validate",
		Short: "Validate configuration files",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if err := app.Config.Validate(); err != nil {
				output.Error("Configuration validation failed: %v", err)
				return err
			}
			if output.IsJSON() {
				output.JSON(map[string]bool{"valid": true})
			} else {
				output.Success("Configuration is valid")
			}
			return nil
		},
	})

	return cmd
}

func showConfig(output *Output, cfg *config.Config) {
	output.Bold("Trading")
	output.Printf("  Strategy:         %s\n", cfg.Trading.Strategy)
	output.Printf("  Quantity:         %d\n", cfg.Trading.Quantity)
	output.Printf("  Product:          %s\n", cfg.Trading.Product)
	output.Printf("  Exchange Segment: %s\n", cfg.Trading.ExchangeSegment)
	output.Println()

	output.Bold("Dispatch")
	output.Printf("  Orders/sec:       %.2f\n", cfg.Dispatch.OrdersPerSecond)
	output.Printf("  Burst:            %d\n", cfg.Dispatch.Burst)
	output.Printf("  Order Timeout:    %s\n", cfg.Dispatch.OrderTimeout)
	output.Println()

	output.Bold("Market Data")
	output.Printf("  Base URL:         %s\n", cfg.MarketData.BaseURL)
	output.Printf("  Underlyings:      %d\n", len(cfg.MarketData.Underlyings))
	output.Println()

	output.Bold("Storage")
	output.Printf("  Database:         %s\n", cfg.Storage.DBPath)
	output.Printf("  Backup Log:       %s\n", cfg.Storage.BackupLogPath)
	output.Printf("  Account Book:     %s\n", cfg.Storage.AccountsCSV)
	output.Printf("  Securities:       %s\n", cfg.Storage.SecuritiesCSV)
	output.Println()

	output.Bold("Notifications")
	output.Printf("  Enabled:          %v\n", cfg.Notifications.Enabled)
	output.Printf("  Telegram:         %v\n", cfg.Notifications.Telegram.Enabled)
	output.Printf("  Webhook:          %v\n", cfg.Notifications.Webhook.Enabled)
}

var errPipelineUnavailable = apperrors.Wrap(apperrors.ErrConfigInvalid,
	"dispatch pipeline unavailable: check store, account book, securities file, and data credentials")

func requirePipeline(app *App) error {
	if app.Pipeline == nil {
		return errPipelineUnavailable
	}
	return nil
}
