package main

import (
	"github.com/spf13/cobra"
)

func newProbeCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "probe <file>",
		Short: "Print a media file's probed attributes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			prober, err := ctx.newProber()
			if err != nil {
				return err
			}
			meta, err := prober.Probe(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return writeJSON(cmd, meta)
		},
	}
}
