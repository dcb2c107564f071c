package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"starcut/internal/history"
)

func newJobsCommand(ctx *commandContext) *cobra.Command {
	var limit int
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "jobs",
		Short: "Show recent export jobs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			store, err := history.Open(cfg)
			if err != nil {
				return err
			}
			defer store.Close()

			jobs, err := store.List(cmd.Context(), limit)
			if err != nil {
				return err
			}

			if jsonOut {
				return writeJSON(cmd, jobs)
			}

			rows := make([][]string, 0, len(jobs))
			for _, job := range jobs {
				output := ""
				if job.OutputPath != "" {
					output = filepath.Base(job.OutputPath)
				}
				rows = append(rows, []string{
					fmt.Sprintf("%d", job.ID),
					job.PlanID,
					statusLabel(job.Status),
					fmt.Sprintf("%d/%d", job.ProgressCurrent, job.ProgressTotal),
					fmt.Sprintf("%d", job.DurationMS),
					output,
					job.CreatedAt.Local().Format("2006-01-02 15:04:05"),
				})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"ID", "Plan", "Status", "Progress", "Duration (ms)", "Output", "Created"},
				rows, 0, 4))
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum jobs to list (0 for all)")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Emit jobs as JSON")
	return cmd
}

func statusLabel(status history.Status) string {
	return cases.Title(language.Und).String(string(status))
}
