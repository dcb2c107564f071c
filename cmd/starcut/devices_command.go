package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newDevicesCommand(ctx *commandContext) *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "devices",
		Short: "List capture displays and audio inputs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			registry, err := ctx.newRegistry()
			if err != nil {
				return err
			}
			devices, err := registry.ListDevices(cmd.Context())
			if err != nil {
				return err
			}

			if jsonOut {
				return writeJSON(cmd, devices)
			}

			rows := make([][]string, 0, len(devices.Displays)+len(devices.AudioInputs))
			for i, name := range devices.Displays {
				rows = append(rows, []string{fmt.Sprintf("%d", i), "display", name})
			}
			for i, name := range devices.AudioInputs {
				rows = append(rows, []string{fmt.Sprintf("%d", i), "audio", name})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"Index", "Type", "Device"}, rows, 0))
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false, "Emit devices as JSON")
	return cmd
}
