package main

import (
	"fmt"
	"os"

	"github.com/asnowfix/wololo/hlog"
	"github.com/asnowfix/wololo/internal/config"
	"github.com/asnowfix/wololo/internal/debug"
	"github.com/asnowfix/wololo/internal/global"
	"github.com/asnowfix/wololo/internal/options"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var v *viper.Viper = config.New()

var Cmd = &cobra.Command{
	Use:           "wololo",
	Short:         "Wake machines on the local network from a web page",
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		hlog.InitWithDebug(options.Flags.Verbose, options.Flags.Debug)
		log := hlog.Logger

		if debug.IsDebuggerAttached() {
			log.Info("Running under debugger (no command timeout)")
			options.Flags.CommandTimeout = 0
		}

		ctx := options.CommandLineContext(cmd.Context(), log, options.Flags.CommandTimeout, getVersion())
		cmd.SetContext(ctx)
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		global.Cancel(ctx)()
		<-ctx.Done()
		return nil
	},
}

func init() {
	Cmd.PersistentFlags().BoolVarP(&options.Flags.Verbose, "verbose", "v", false, "verbose output")
	Cmd.PersistentFlags().BoolVar(&options.Flags.Debug, "debug", false, "debug output")
	Cmd.PersistentFlags().StringVarP(&options.Flags.ConfigFile, "config", "c", "", "read configuration from `file`")
	Cmd.PersistentFlags().DurationVarP(&options.Flags.CommandTimeout, "command-timeout", "C", options.COMMAND_DEFAULT_TIMEOUT, "timeout for the whole command (0: none)")
}

func loadConfig() (*config.Config, error) {
	return config.Load(v, options.Flags.ConfigFile)
}

func main() {
	cobra.EnableTraverseRunHooks = true
	err := Cmd.Execute()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
