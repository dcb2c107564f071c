package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"starcut/internal/export"
	"starcut/internal/plan"
)

func newExportCommand(ctx *commandContext) *cobra.Command {
	var format string
	var jsonOut bool
	var quiet bool

	cmd := &cobra.Command{
		Use:   "export <project.json>",
		Short: "Render a project timeline into a single output file",
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

			out := cmd.OutOrStdout()
			var sink export.Sink
			if !quiet && !jsonOut {
				sink = func(ev export.Event) {
					fmt.Fprintf(out, "[%d/%d] %s\n", ev.Current+1, ev.Total, ev.Message)
				}
			}

			result, err := exporter.Run(cmd.Context(), p, export.Settings{Format: format}, sink)
			if err != nil {
				return err
			}

			if jsonOut {
				return writeJSON(cmd, result)
			}
			fmt.Fprintf(out, "Exported %s (%d ms, %d bytes)\n", result.Path, result.DurationMS, result.SizeBytes)
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "mp4", "Output container format (mp4 or mov)")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Emit the result as JSON")
	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "Suppress progress output")
	return cmd
}
