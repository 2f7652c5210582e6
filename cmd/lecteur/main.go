package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"codeberg.org/snonux/lecteur/internal/cli"
	"codeberg.org/snonux/lecteur/internal/processor"
)

func main() {
	// Create flags instance
	flags := cli.NewFlags()

	// Create root command
	rootCmd := cli.CreateRootCommand(flags)

	// Set up command initialization
	cobra.OnInitialize(func() {
		cli.InitConfig(flags.CfgFile)
	})

	rootCmd.RunE = func(cmd *cobra.Command, args []string) error {
		return processor.NewProcessor(flags).Run(cmd.Context())
	}

	// Ctrl-C stops speech and pending requests
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	// Execute command
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}
