package main

import (
	"github.com/asnowfix/wololo/internal/app"
	"github.com/asnowfix/wololo/internal/options"

	"github.com/go-logr/logr"
	"github.com/spf13/cobra"
)

func init() {
	Cmd.AddCommand(listCmd)
	listCmd.Flags().BoolVarP(&options.Flags.Json, "json", "j", false, "print as JSON")
}

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List the machines known to the configured providers",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		log := logr.FromContextOrDiscard(ctx)

		c, err := loadConfig()
		if err != nil {
			return err
		}
		a, err := app.New(log, c)
		if err != nil {
			return err
		}
		machines, err := a.Providers.Machines(ctx)
		if err != nil {
			return err
		}
		return options.PrintResult(cmd.OutOrStdout(), machines)
	},
}
