package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/Picoli-Igor/Dash2/internal/interfaces/cli/server"
	"github.com/Picoli-Igor/Dash2/internal/interfaces/cli/snapshot"
	"github.com/Picoli-Igor/Dash2/internal/shared/version"
)

func main() {
	rootCmd := &cobra.Command{
		Use:     "dash2",
		Short:   "Dash2 - sprint ticket dashboard",
		Long:    `Dash2 reads the tickets of a helpdesk sprint from SQL Server and serves them as a live dashboard of summary counts and charts.`,
		Version: version.String(),
	}

	rootCmd.AddCommand(
		server.NewCommand(),
		snapshot.NewCommand(),
	)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
