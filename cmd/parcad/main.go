package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/parcad/parcad/pkg/config"
)

var (
	configPath string
	debugLog   bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "parcad",
		Short: "Parametric CAD bridge for MCP agents",
		Long: "parcad connects an MCP client to a running parametric CAD application.\n" +
			"Run 'parcad addon' inside the CAD host to expose the RPC endpoint, and\n" +
			"'parcad serve' as the MCP stdio server the agent talks to.",
	}
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file path (default ~/.parcad/config.json)")
	rootCmd.PersistentFlags().BoolVar(&debugLog, "debug", false, "enable debug logging")

	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newAddonCmd())
	rootCmd.AddCommand(newCallCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadConfig resolves the config path and applies the debug flag.
func loadConfig() (*config.Config, error) {
	path := configPath
	if path == "" {
		var err error
		path, err = config.GetDefaultConfigPath()
		if err != nil {
			return nil, err
		}
	}
	cfg, err := config.LoadConfig(path)
	if err != nil {
		return nil, err
	}
	if debugLog {
		if cfg.Log == nil {
			cfg.Log = config.DefaultLogConfig()
		}
		cfg.Log.Level = "debug"
	}
	return cfg, nil
}
