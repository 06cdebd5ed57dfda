package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"net"
	"os"
	"time"

	"github.com/spf13/cobra"
)

// call is a debugging helper: send one raw method to the addon endpoint
// and print the response line.
func newCallCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "call <method> [params-json]",
		Short: "Send one raw RPC method to the addon endpoint",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			request := map[string]any{"id": "1", "method": args[0]}
			if len(args) == 2 {
				var params json.RawMessage
				if err := json.Unmarshal([]byte(args[1]), &params); err != nil {
					return fmt.Errorf("invalid params JSON: %w", err)
				}
				request["params"] = params
			}

			addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
			conn, err := net.DialTimeout("tcp", addr, 5*time.Second)
			if err != nil {
				return fmt.Errorf("failed to connect to %s: %w", addr, err)
			}
			defer conn.Close()

			line, err := json.Marshal(request)
			if err != nil {
				return err
			}
			if _, err := conn.Write(append(line, '\n')); err != nil {
				return err
			}
			reply, err := bufio.NewReaderSize(conn, 16*1024*1024).ReadBytes('\n')
			if err != nil {
				return err
			}
			os.Stdout.Write(reply)
			return nil
		},
	}
	return cmd
}
