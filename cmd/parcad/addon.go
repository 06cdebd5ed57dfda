package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/parcad/parcad/pkg/bridge"
	"github.com/parcad/parcad/pkg/cad"
	"github.com/parcad/parcad/pkg/dispatch"
	"github.com/parcad/parcad/pkg/gui"
	"github.com/parcad/parcad/pkg/nodegraph"
	"github.com/parcad/parcad/pkg/partslib"
	"github.com/parcad/parcad/pkg/rpcserver"
	"github.com/parcad/parcad/pkg/script"
	"github.com/parcad/parcad/pkg/view"
)

func newAddonCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "addon",
		Short: "Run the CAD-side addon: GUI loop plus RPC endpoint",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			con, err := cfg.Log.CreateConsole()
			if err != nil {
				return err
			}
			defer con.Close()

			app := cad.NewApp()
			g := view.NewGui(app)
			loop := gui.NewLoop()

			br := bridge.New(loop, bridge.WithConsole(con))
			br.Start()

			registry := nodegraph.NewRegistry()
			registry.Register(nodegraph.NewEditor("Nodes"))

			var library *partslib.Library
			if cfg.LibraryPath != "" {
				library = partslib.New(cfg.LibraryPath, con)
			}

			disp := dispatch.New(dispatch.Deps{
				App:       app,
				Gui:       g,
				Bridge:    br,
				Console:   con,
				Library:   library,
				Interp:    script.New(app, con),
				Nodes:     registry,
				AllowCode: cfg.AllowCodeExecution,
			})

			srv := rpcserver.NewServer(cfg.Server.Host, cfg.Server.Port, disp, con)
			msg, err := srv.Start()
			if err != nil {
				return err
			}
			con.Message("%s", msg)

			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
			go func() {
				<-sigCh
				if msg, err := srv.Stop(); err == nil {
					con.Message("%s", msg)
				}
				br.Stop()
				loop.Quit()
			}()

			// The GUI loop owns the calling thread until shutdown.
			loop.Run()
			return nil
		},
	}
}
