package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"starcut/internal/plan"
)

func newPreviewCommand(ctx *commandContext) *cobra.Command {
	var atMS int64

	cmd := &cobra.Command{
		Use:   "preview <project.json>",
		Short: "Extract a poster frame at a timeline position",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read project file: %w", err)
			}
			p, err := plan.Build(string(data))
			if err != nil {
				return err
			}

			exporter, store, err := ctx.newExporter()
			if err != nil {
				return err
			}
			defer store.Close()

			path, err := exporter.Poster(cmd.Context(), p, atMS)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	}

	cmd.Flags().Int64Var(&atMS, "at", 0, "Timeline position in milliseconds")
	return cmd
}
