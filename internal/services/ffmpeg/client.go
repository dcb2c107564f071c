package ffmpeg

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"starcut/internal/services"
)

// Fixed fallback encoder profile used when stream copy fails.
const (
	fallbackVideoCodec   = "libx264"
	fallbackPreset       = "veryfast"
	fallbackCRF          = "23"
	fallbackAudioCodec   = "aac"
	fallbackAudioBitrate = "192k"
)

// Executor abstracts command execution for testability. Run returns the
// combined stdout/stderr output alongside any execution error.
type Executor interface {
	Run(ctx context.Context, binary string, args []string) (string, error)
}

// Option configures the client.
type Option func(*Client)

// WithExecutor injects a custom executor (primarily for tests).
func WithExecutor(exec Executor) Option {
	return func(c *Client) {
		if exec != nil {
			c.exec = exec
		}
	}
}

// Client wraps FFmpeg CLI interactions.
type Client struct {
	binary string
	exec   Executor
}

// New constructs an FFmpeg client around the given binary.
func New(binary string, opts ...Option) (*Client, error) {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		return nil, errors.New("ffmpeg binary required")
	}
	client := &Client{binary: binary, exec: commandExecutor{}}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

// Binary returns the configured FFmpeg executable.
func (c *Client) Binary() string { return c.binary }

// TrimCopy extracts a trim window from source into output using stream copy.
func (c *Client) TrimCopy(ctx context.Context, source string, inMS, durationMS int64, output string) error {
	args := []string{
		"-y",
		"-ss", Timecode(inMS),
		"-i", source,
		"-t", Timecode(durationMS),
		"-c", "copy",
		output,
	}
	return c.run(ctx, "trim", args)
}

// TrimTranscode extracts the identical trim window with the fixed fallback
// encoder profile.
func (c *Client) TrimTranscode(ctx context.Context, source string, inMS, durationMS int64, output string) error {
	args := []string{
		"-y",
		"-ss", Timecode(inMS),
		"-i", source,
		"-t", Timecode(durationMS),
	}
	args = append(args, fallbackEncodeArgs()...)
	args = append(args, output)
	return c.run(ctx, "trim transcode", args)
}

// ConcatCopy joins the segments listed in the manifest using the concat
// demuxer with stream copy.
func (c *Client) ConcatCopy(ctx context.Context, listPath, output string) error {
	args := []string{
		"-y",
		"-f", "concat",
		"-safe", "0",
		"-i", listPath,
		"-c", "copy",
		output,
	}
	return c.run(ctx, "concat", args)
}

// ConcatTranscode joins the manifest's segments re-encoding with the fixed
// fallback profile.
func (c *Client) ConcatTranscode(ctx context.Context, listPath, output string) error {
	args := []string{
		"-y",
		"-f", "concat",
		"-safe", "0",
		"-i", listPath,
	}
	args = append(args, fallbackEncodeArgs()...)
	args = append(args, output)
	return c.run(ctx, "concat transcode", args)
}

// ExtractPosterFrame writes a single frame from source at the given offset.
func (c *Client) ExtractPosterFrame(ctx context.Context, source string, atMS int64, output string) error {
	args := []string{
		"-y",
		"-ss", Timecode(atMS),
		"-i", source,
		"-frames:v", "1",
		"-q:v", "5",
		output,
	}
	return c.run(ctx, "poster frame", args)
}

// ListDevices runs FFmpeg's device enumeration for the given input format and
// returns the diagnostic text. The enumeration invocation exits non-zero by
// design, so execution errors are swallowed whenever output was produced.
func (c *Client) ListDevices(ctx context.Context, inputFormat string) (string, error) {
	args := []string{
		"-hide_banner",
		"-f", inputFormat,
		"-list_devices", "true",
		"-i", "",
	}
	output, err := c.exec.Run(ctx, c.binary, args)
	if strings.TrimSpace(output) != "" {
		return output, nil
	}
	if err != nil {
		return "", fmt.Errorf("ffmpeg list devices: %w", err)
	}
	return output, nil
}

func (c *Client) run(ctx context.Context, operation string, args []string) error {
	output, err := c.exec.Run(ctx, c.binary, args)
	if err != nil {
		if phase, ok := services.PhaseFromContext(ctx); ok {
			operation = phase + " " + operation
		}
		if planID, ok := services.PlanIDFromContext(ctx); ok {
			operation = operation + " (plan " + planID + ")"
		}
		if trimmed := strings.TrimSpace(output); trimmed != "" {
			return fmt.Errorf("ffmpeg %s: %w: %s", operation, err, trimmed)
		}
		return fmt.Errorf("ffmpeg %s: %w", operation, err)
	}
	return nil
}

func fallbackEncodeArgs() []string {
	return []string{
		"-c:v", fallbackVideoCodec,
		"-preset", fallbackPreset,
		"-crf", fallbackCRF,
		"-c:a", fallbackAudioCodec,
		"-b:a", fallbackAudioBitrate,
	}
}

// Timecode renders a millisecond offset in the seconds.milliseconds form
// FFmpeg accepts for -ss and -t.
func Timecode(ms int64) string {
	if ms < 0 {
		ms = 0
	}
	return fmt.Sprintf("%d.%03d", ms/1000, ms%1000)
}

type commandExecutor struct{}

func (commandExecutor) Run(ctx context.Context, binary string, args []string) (string, error) {
	cmd := exec.CommandContext(ctx, binary, args...) //nolint:gosec
	output, err := cmd.CombinedOutput()
	return string(output), err
}
