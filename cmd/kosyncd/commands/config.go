package commands

import (
	"fmt"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"

	"github.com/teranos/kosyncd/config"
	"github.com/teranos/kosyncd/errors"
)

// ConfigCmd represents the config command
var ConfigCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage kosyncd configuration",
	Long: `config - Manage kosyncd configuration

Examples:
  kosyncd config init           # Write a default kosyncd.toml
  kosyncd config show           # Print the effective configuration`,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default kosyncd.toml",
	RunE:  runConfigInit,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	RunE:  runConfigShow,
}

var configInitPath string

func init() {
	configInitCmd.Flags().StringVar(&configInitPath, "path", "kosyncd.toml", "Where to write the config file")
	ConfigCmd.AddCommand(configInitCmd)
	ConfigCmd.AddCommand(configShowCmd)
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	cfg := config.Default()
	if err := cfg.WriteFile(configInitPath); err != nil {
		return err
	}
	fmt.Printf("Wrote default configuration to %s\n", configInitPath)
	return nil
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return errors.Wrap(err, "failed to load configuration")
	}

	data, err := toml.Marshal(cfg)
	if err != nil {
		return errors.Wrap(err, "failed to render configuration")
	}
	fmt.Print(string(data))
	return nil
}
