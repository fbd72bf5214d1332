package cmd

import (
	"github.com/spf13/cobra"
	"github.com/yeremiapane/restaurant-ordering/config"
	"github.com/yeremiapane/restaurant-ordering/utils"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "restaurant",
	Short: "Restaurant ordering storefront and back-office",
	Long: `Serves the storefront checkout, the order board, the kitchen display
and the back-office reports for a single restaurant.`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", ".", "directory containing config.yaml")
}

// loadConfig reads the configuration and applies the logging and display settings.
func loadConfig() (config.Config, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return cfg, err
	}
	utils.InitLogger(cfg.Log.Level, cfg.Log.Format)
	if cfg.Display.CurrencySymbol != "" {
		utils.CurrencySymbol = cfg.Display.CurrencySymbol
	}
	return cfg, nil
}
