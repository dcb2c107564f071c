package ffmpeg

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strconv"
	"strings"
)

// CaptureSpec describes a screen/audio capture invocation.
type CaptureSpec struct {
	InputFormat    string
	DeviceSelector string
	FPS            int
	Output         string
}

// Process is a running capture subprocess. Stop requests a graceful shutdown
// over the tool's input channel; Wait blocks until the process has exited.
type Process interface {
	Stop() error
	Wait() error
}

// StartCapture spawns a capture subprocess writing to spec.Output and returns
// without waiting for it to produce data. The process is deliberately not
// bound to ctx: cancelling a start-scoped context must never kill a running
// recording, which would truncate the container. Termination goes through
// Stop only.
func (c *Client) StartCapture(ctx context.Context, spec CaptureSpec) (Process, error) {
	if strings.TrimSpace(spec.DeviceSelector) == "" {
		return nil, errors.New("capture device selector required")
	}
	if strings.TrimSpace(spec.Output) == "" {
		return nil, errors.New("capture output path required")
	}
	fps := spec.FPS
	if fps <= 0 {
		fps = 30
	}

	args := []string{
		"-y",
		"-f", spec.InputFormat,
		"-framerate", strconv.Itoa(fps),
		"-i", spec.DeviceSelector,
		"-pix_fmt", "yuv420p",
		"-preset", fallbackPreset,
		"-crf", fallbackCRF,
		spec.Output,
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	cmd := exec.Command(c.binary, args...) //nolint:gosec
	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("capture stdin pipe: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("start capture: %w", err)
	}
	return &captureProcess{cmd: cmd, stdin: stdin}, nil
}

type captureProcess struct {
	cmd   *exec.Cmd
	stdin io.WriteCloser
}

// Stop writes FFmpeg's interactive quit command so the container gets a clean
// trailer. The process is never force-killed here.
func (p *captureProcess) Stop() error {
	if _, err := io.WriteString(p.stdin, "q\n"); err != nil {
		return fmt.Errorf("signal capture stop: %w", err)
	}
	return nil
}

func (p *captureProcess) Wait() error {
	return p.cmd.Wait()
}
