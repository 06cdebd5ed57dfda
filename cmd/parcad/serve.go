package main

import (
	"github.com/spf13/cobra"

	"github.com/parcad/parcad/internal/mcpserver"
)

func newServeCmd() *cobra.Command {
	var onlyText bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the MCP stdio server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if onlyText {
				cfg.OnlyTextFeedback = true
			}
			con, err := cfg.Log.CreateConsole()
			if err != nil {
				return err
			}
			defer con.Close()

			con.Message("MCP server starting, addon endpoint %s:%d", cfg.Server.Host, cfg.Server.Port)
			srv := mcpserver.NewServer(cfg, con)
			defer srv.Close()
			return srv.ServeStdio()
		},
	}
	cmd.Flags().BoolVar(&onlyText, "only-text-feedback", false, "never attach screenshots to tool results")
	return cmd
}
