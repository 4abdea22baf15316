// Command grantctl manages the grantledger schema and demo data.
package main

import (
	"os"

	"github.com/spf13/cobra"

	"grantledger/internal/config"
	"grantledger/internal/logger"
)

var rootCmd = &cobra.Command{
	Use:           "grantctl",
	Short:         "Grantledger maintenance CLI",
	Long:          "Apply database migrations, seed demo data and prepare user directories.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func main() {
	logger.Init(os.Getenv("ENV"), os.Getenv("LOG_LEVEL"))
	defer logger.Sync()

	if err := rootCmd.Execute(); err != nil {
		logger.Get().Errorf("grantctl: %v", err)
		logger.Sync()
		os.Exit(1)
	}
}

func loadConfig() (*config.Config, error) {
	return config.Load()
}
