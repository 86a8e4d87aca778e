package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/lixenwraith/mclog"
)

var (
	configFile string
	logFlags   *mclog.FlagValues
)

var rootCmd = &cobra.Command{
	Use:   "mclogctl",
	Short: "Inspect and exercise mclog filter settings",
	Long: `mclogctl lists the known logging categories and severities, evaluates
category expressions the way --verbose does, and runs a load test against
the dispatch queue.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "TOML file with a [log] table")
	logFlags = mclog.RegisterFlags(rootCmd.PersistentFlags())

	rootCmd.AddCommand(categoriesCmd, severitiesCmd, parseCmd, echoCmd, stressCmd)
}

// loadConfig merges the config file, if any, with the logging flags.
func loadConfig() (*mclog.Config, error) {
	base := mclog.DefaultConfig()
	if configFile != "" {
		var err error
		if base, err = mclog.NewConfigFromFile(configFile); err != nil {
			return nil, err
		}
	}
	return logFlags.ApplyTo(base)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
