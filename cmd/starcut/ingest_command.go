package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
)

func newIngestCommand(ctx *commandContext) *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "ingest <file>...",
		Short: "Copy media files into the managed cache and probe them",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ingester, err := ctx.newIngester()
			if err != nil {
				return err
			}
			results, err := ingester.Ingest(cmd.Context(), args)
			if err != nil {
				return err
			}

			if jsonOut {
				return writeJSON(cmd, results)
			}

			rows := make([][]string, 0, len(results))
			for _, result := range results {
				rows = append(rows, []string{
					result.AssetID,
					string(result.Kind),
					fmt.Sprintf("%d", result.Meta.DurationMS),
					filepath.Base(result.FilePath),
				})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"Asset", "Kind", "Duration (ms)", "File"}, rows, 2))
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false, "Emit results as JSON")
	return cmd
}
