package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/Belphemur/ShowFinder/internal/config"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err := newRootCommand().ExecuteContext(ctx)
	stop()
	if err != nil {
		logger := config.GetLogger()
		logger.Error().Err(err).Msg("Command failed")
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "showfinder",
		Short:         "Search TVmaze shows and list their episodes",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			cfg := config.GetConfig()
			logger := config.GetLogger()
			logger.Debug().
				Str("api_url", cfg.APIURL).
				Str("client_timeout", cfg.ClientTimeout).
				Str("cache_provider", cfg.Cache.Provider).
				Str("command", cmd.Name()).
				Msg("Application started with configuration")
		},
	}

	root.AddCommand(newServeCommand(), newSearchCommand(), newEpisodesCommand())
	return root
}
