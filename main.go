package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	var envFile string

	rootCmd := &cobra.Command{
		Use:   "rental-backend",
		Short: "Property rental marketplace API",
		// Running without a subcommand starts the API server.
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(envFile)
		},
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", "", "path to a .env file (default: ./.env)")

	rootCmd.AddCommand(
		serveCmd(&envFile),
		migrateCmd(&envFile),
		seedCmd(&envFile),
		completeStaysCmd(&envFile),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
