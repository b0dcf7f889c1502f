package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/Avisekh-OptionBrains/optiontrade-sub001/internal/cli"
	"github.com/Avisekh-OptionBrains/optiontrade-sub001/internal/config"
	"github.com/Avisekh-OptionBrains/optiontrade-sub001/internal/logging"
)

func main() {
	configDir := os.Getenv("OPTIONTRADE_CONFIG_DIR")

	cfg, err := config.Load(configDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "loading configuration: %v\n", err)
		os.Exit(1)
	}

	logCfg := logging.DefaultLogConfig()
	logCfg.Level = cfg.Logging.Level
	logger := logging.NewLoggerWithConfig(logCfg)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	rootCmd := cli.NewRootCmd(cfg, logger)
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		logger.Error().Err(err).Msg("Command failed")
		os.Exit(1)
	}
}
