package main

import (
	"cinequiz/internal/config"
	"cinequiz/internal/server"
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const releaseVersion = "0.1.0"

func newLogger(verbose bool) (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

func newCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "cinequiz",
		Short:         "Real-time film quote quiz rooms over websockets.",
		Args:          cobra.ExactArgs(0),
		Version:       releaseVersion,
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(cmd.Flags())
			if err != nil {
				return err
			}
			log, err := newLogger(cfg.Verbose)
			if err != nil {
				return err
			}
			defer log.Sync()

			log.Info("starting cinequiz", zap.String("version", releaseVersion))
			return server.Run(cmd.Context(), cfg, log)
		},
	}

	config.RegisterFlags(cmd.Flags())

	cmd.CompletionOptions.HiddenDefaultCmd = true
	cmd.SetHelpCommand(&cobra.Command{Hidden: true})
	cmd.SetVersionTemplate("cinequiz v{{.Version}}\n")

	return cmd
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cobra.CheckErr(newCmd().ExecuteContext(ctx))
}
