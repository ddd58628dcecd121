package commands

// Root command for the investcharts CLI.
// Loads configuration and the logger before any subcommand runs.

import (
	"fmt"

	"github.com/spf13/cobra"

	"investcharts/internal/config"
	"investcharts/internal/logger"
)

var (
	envFile string
	cfg     *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "investcharts",
	Short: "Investment dashboard charts - wallets, budget and FIRE projections",
	Long: `investcharts renders wallet balances, budget trends, asset allocation and
FIRE projections as interactive echarts pages or PNG images, from the command
line or over HTTP.`,
	Version:       config.GetVersion(),
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load(cmd.Context(), envFile)
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
		cfg = loaded
		logger.Configure(cfg.LogLevel, cfg.LogFormat)
		return nil
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "optional dotenv file loaded before the environment")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(renderCmd)
	rootCmd.AddCommand(scenarioCmd)
}
