package main

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/gofrs/flock"
	"github.com/spf13/cobra"

	"starcut/internal/capture"
)

func newRecordCommand(ctx *commandContext) *cobra.Command {
	var display int
	var audio int
	var fps int

	cmd := &cobra.Command{
		Use:   "record",
		Short: "Record the screen until interrupted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			lockPath := filepath.Join(cfg.Paths.LogDir, "starcut-record.lock")
			lock := flock.New(lockPath)
			locked, err := lock.TryLock()
			if err != nil {
				return fmt.Errorf("acquire record lock: %w", err)
			}
			if !locked {
				return errors.New("another starcut recording is already running")
			}
			defer func() { _ = lock.Unlock() }()

			registry, err := ctx.newRegistry()
			if err != nil {
				return err
			}

			sessionID, outputPath, err := registry.StartSession(cmd.Context(), capture.Settings{
				DisplayIndex: display,
				AudioIndex:   audio,
				FPS:          fps,
			})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Recording session %s\n", sessionID)
			fmt.Fprintf(out, "Writing to %s\n", outputPath)
			fmt.Fprintln(out, "Press Ctrl-C to stop.")

			sigCtx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			<-sigCtx.Done()
			stop()

			path, err := registry.StopSession(sessionID)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "Saved %s\n", path)
			return nil
		},
	}

	cmd.Flags().IntVar(&display, "display", 0, "Display index to capture")
	cmd.Flags().IntVar(&audio, "audio", 0, "Audio input index (0 disables audio)")
	cmd.Flags().IntVar(&fps, "fps", 0, "Capture frame rate (0 uses the configured default)")
	return cmd
}
