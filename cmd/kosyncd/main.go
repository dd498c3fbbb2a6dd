package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/teranos/kosyncd/cmd/kosyncd/commands"
	"github.com/teranos/kosyncd/logger"
)

var rootCmd = &cobra.Command{
	Use:   "kosyncd",
	Short: "kosyncd - KOReader reading-progress sync server",
	Long: `kosyncd - Self-hosted sync server for the KOReader kosync plugin.

Clients identify a document by an MD5 fingerprint and push/pull reading
progress for it. The last completed push wins; progress follows you across
devices.

Available commands:
  serve       - Start the sync server
  db          - Manage the kosyncd database
  config      - Manage kosyncd configuration
  fingerprint - Compute the fingerprints of a document
  version     - Show version information

Examples:
  kosyncd serve                 # Start serving on the configured port
  kosyncd serve --port 9000     # Override the listen port
  kosyncd config init           # Write a default kosyncd.toml
  kosyncd db stats              # Show user and progress counts`,
}

func init() {
	rootCmd.AddCommand(commands.ServeCmd)
	rootCmd.AddCommand(commands.DbCmd)
	rootCmd.AddCommand(commands.ConfigCmd)
	rootCmd.AddCommand(commands.FingerprintCmd)
	rootCmd.AddCommand(commands.VersionCmd)
}

func main() {
	defer logger.Sync()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
