package main

import (
	"github.com/asnowfix/wololo/hlog"
	"github.com/asnowfix/wololo/internal/app"
	"github.com/asnowfix/wololo/internal/options"

	"github.com/go-logr/logr"
	"github.com/spf13/cobra"
)

func init() {
	Cmd.AddCommand(serveCmd)

	serveCmd.Flags().String("host", "127.0.0.1", "address to listen on")
	serveCmd.Flags().IntP("port", "p", 3000, "port to listen on")
	serveCmd.Flags().StringArrayP("machine", "m", nil, "static machine as `name=mac` (repeatable)")
	serveCmd.Flags().Bool("fritzbox", false, "use the FRITZ!Box host inventory")
	serveCmd.Flags().Bool("mdns", false, "announce the web UI over mDNS")

	_ = v.BindPFlag("host", serveCmd.Flags().Lookup("host"))
	_ = v.BindPFlag("port", serveCmd.Flags().Lookup("port"))
	_ = v.BindPFlag("machines", serveCmd.Flags().Lookup("machine"))
	_ = v.BindPFlag("fritzbox.enabled", serveCmd.Flags().Lookup("fritzbox"))
	_ = v.BindPFlag("mdns.enabled", serveCmd.Flags().Lookup("mdns"))
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the web UI",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		hlog.InitForDaemon(options.Flags.Verbose, options.Flags.Debug)
		log := hlog.Logger
		ctx := logr.NewContext(cmd.Context(), log)

		c, err := loadConfig()
		if err != nil {
			return err
		}
		a, err := app.New(log, c)
		if err != nil {
			log.Error(err, "Failed to configure machine providers")
			return err
		}
		return a.Serve(ctx)
	},
}
