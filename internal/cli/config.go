package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gcbaptista/assessment-recommender/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the effective settings",
	Long: `Print the settings the recommender would run with, after applying the
config file, command line overrides and defaults, as TOML.`,
	RunE: runConfig,
}

func init() {
	rootCmd.AddCommand(configCmd)
}

func runConfig(cmd *cobra.Command, _ []string) error {
	settings, err := loadSettings(cmd)
	if err != nil {
		return err
	}

	data, err := config.Encode(settings)
	if err != nil {
		return fmt.Errorf("encoding settings: %w", err)
	}
	cmd.Print(string(data))
	return nil
}
