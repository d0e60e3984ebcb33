package main

import (
	"log"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "perfcheckup",
	Short: "Admin server with per-request performance checkup",
	Long: `perfcheckup serves the admin pages and reports, on every admin page load,
how many database queries the request ran, which of them were slow and how
much memory the process peaked at.

Running without a subcommand is the same as "perfcheckup serve".`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return serveCmd.RunE(cmd, args)
	},
}

func main() {
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
