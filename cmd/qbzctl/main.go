package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/vicrodh/qbz-control/internal/app"
)

func main() {
	os.Exit(run())
}

func run() int {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "qbzctl: %v\n", err)
		return 1
	}
	return 0
}

// globalFlags are shared by every subcommand.
type globalFlags struct {
	configPath  string
	sessionPath string
	logLevel    string
}

func (g *globalFlags) options(console bool) app.Options {
	return app.Options{
		ConfigPath:  g.configPath,
		SessionPath: g.sessionPath,
		LogLevel:    g.logLevel,
		Console:     console,
	}
}

func newRootCmd() *cobra.Command {
	flags := &globalFlags{}
	root := &cobra.Command{
		Use:           "qbzctl",
		Short:         "Remote control for a QBZ player on your network",
		Args:          cobra.NoArgs,
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return app.Run(cmd.Context(), flags.options(false))
		},
	}
	root.PersistentFlags().StringVar(&flags.configPath, "config", "", "override config path (default ~/.config/qbzctl/config.toml)")
	root.PersistentFlags().StringVar(&flags.sessionPath, "session", "", "override session file path")
	root.PersistentFlags().StringVar(&flags.logLevel, "log-level", "", "log level: debug, info, warn or error")

	root.AddCommand(newPairCmd(flags))
	root.AddCommand(newUnpairCmd(flags))
	root.AddCommand(newStatusCmd(flags))
	root.AddCommand(newQRCmd(flags))
	root.AddCommand(newSearchCmd(flags))
	root.AddCommand(newFavoritesCmd(flags))
	root.AddCommand(newAlbumCmd(flags))
	root.AddCommand(newArtistCmd(flags))
	root.AddCommand(newCopyTokenCmd(flags))

	return root
}
