package main

import (
	"fmt"

	"github.com/asnowfix/wololo/internal/app"
	"github.com/asnowfix/wololo/internal/wake"

	"github.com/go-logr/logr"
	"github.com/spf13/cobra"
)

func init() {
	Cmd.AddCommand(wakeCmd)
}

var wakeCmd = &cobra.Command{
	Use:   "wake <name|mac>",
	Short: "Send a magic packet to a named machine or to a hardware address",
	Args:  cobra.ExactArgs(1),
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

		addr, err := a.Wake.Wake(ctx, wake.RequestFor(args[0]))
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Sent magic packet to %s\n", addr)
		return nil
	},
}
