package commands

import (
	"fmt"

	"github.com/pterm/pterm"

	"github.com/teranos/kosyncd/config"
	"github.com/teranos/kosyncd/version"
)

// printStartupBanner prints the user-friendly startup message
func printStartupBanner(cfg *config.Config) {
	info := version.Get()

	pterm.DefaultBox.WithTitle("kosyncd").Println(
		fmt.Sprintf("Version:      %s (commit %s)\nPort:         %d\nDatabase:     %s\nRegistration: %s",
			info.Version, shortCommit(info.CommitHash), cfg.Server.Port, cfg.Database.Path,
			registrationStatus(cfg)),
	)
	pterm.Info.Println("Point the KOReader sync plugin at this server")
	pterm.Info.Println("Press Ctrl+C to stop")
}

func registrationStatus(cfg *config.Config) string {
	if cfg.Registration.Disabled {
		return "disabled"
	}
	if cfg.Registration.PerMinute > 0 {
		return fmt.Sprintf("open (%d/min per IP)", cfg.Registration.PerMinute)
	}
	return "open"
}

func shortCommit(hash string) string {
	if len(hash) >= 7 {
		return hash[:7]
	}
	return hash
}
