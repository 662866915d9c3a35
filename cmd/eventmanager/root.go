package main

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/consitech/event-manager/internal/pkg/config"
	"github.com/consitech/event-manager/pkg/logger"
)

const serviceName = "event-manager"

var rootCmd = &cobra.Command{
	Use:           "eventmanager",
	Short:         "Event manager backend",
	Long:          `Event manager backend: user accounts, events and ticketed attendance over a JSON API.`,
	SilenceUsage: true,
}

// setup loads configuration and initialises the process logger.
func setup(ctx context.Context) (*config.Config, zerolog.Logger, error) {
	cfg, err := config.Load(ctx)
	if err != nil {
		return nil, zerolog.Logger{}, err
	}
	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.IsDevelopment(),
		Service: serviceName,
		Env:     cfg.Env,
	})
	return cfg, log, nil
}

func init() {
	rootCmd.CompletionOptions.DisableDefaultCmd = true
	rootCmd.SetErrPrefix(fmt.Sprintf("%s:", serviceName))
}
