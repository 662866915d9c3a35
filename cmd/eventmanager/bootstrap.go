package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/consitech/event-manager/internal/app"
	"github.com/consitech/event-manager/internal/core/service"
	"github.com/consitech/event-manager/internal/infrastructure/security"
)

var bootstrapCmd = &cobra.Command{
	Use:   "bootstrap",
	Short: "Seeds the default event manager if none exists",
	Long: `Creates the BOOTSTRAP_* user with the EVENT_MANAGER role when the
database holds no event manager. Running it again is a no-op.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithTimeout(cmd.Context(), time.Minute)
		defer cancel()

		cfg, log, err := setup(ctx)
		if err != nil {
			return err
		}

		store, err := app.OpenStore(ctx, cfg.Mongo)
		if err != nil {
			return err
		}
		defer func() { _ = store.Close(context.Background()) }()

		// Avatars are never uploaded here, the placeholder is enough.
		users := service.NewUserService(store.Users, store.Events, store.Tx, security.NewBcryptHasher(0), nil, log)
		created, password, err := users.EnsureEventManager(ctx, app.BootstrapSeed(cfg.Bootstrap))
		if err != nil {
			return err
		}
		if created == nil {
			fmt.Fprintln(cmd.OutOrStdout(), "an event manager already exists, nothing to do")
			return nil
		}
		fmt.Fprintf(cmd.OutOrStdout(), "created event manager %s (%s)\n", created.Username, created.ID)
		printGeneratedPassword(cmd, created.Username, password)
		return nil
	},
}

// printGeneratedPassword shows a generated bootstrap password on stdout only,
// away from the structured logs.
func printGeneratedPassword(cmd *cobra.Command, username, password string) {
	if password == "" {
		return
	}
	fmt.Fprintf(cmd.OutOrStdout(), "generated password for %s: %s\nchange it after the first login\n", username, password)
}

func init() {
	rootCmd.AddCommand(bootstrapCmd)
}
