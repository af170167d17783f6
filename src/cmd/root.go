package cmd

import (
	"os"

	"github.com/spf13/cobra"
	"github.com/username/criptofolio/src/config"
	"github.com/username/criptofolio/src/logger"
)

var rootCmd = &cobra.Command{
	Use:   "criptofolio",
	Short: "Generate crypto asset declaration files from Kraken activity",
	Long: `criptofolio fetches deposits, withdrawals and trades from a Kraken
account and writes the fixed-format declaration file required for
crypto asset reporting in Brazil.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		config.LoadConfig()
		logger.InitLogger(config.Cfg.LogLevel)
	},
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		if logger.L != nil {
			logger.L.Error("command failed", "error", err)
		}
		os.Exit(1)
	}
}
