// Command gametracker runs the game library tracker and its maintenance tasks.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aimd54/gametracker/internal/config"
	"github.com/aimd54/gametracker/pkg/logger"
)

func main() {
	var cfgFile string

	root := &cobra.Command{
		Use:           "gametracker",
		Short:         "Personal video game library tracker",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "path to the configuration file")

	root.AddCommand(
		newServeCommand(&cfgFile),
		newMigrateCommand(&cfgFile),
		newSeedCommand(&cfgFile),
	)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// loadConfig reads the configuration and initializes the global logger from it.
func loadConfig(path string) (*config.Config, *logger.Logger, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return nil, nil, err
	}
	logger.Init(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.Output)
	return cfg, logger.Get(), nil
}
