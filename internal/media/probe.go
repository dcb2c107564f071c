package media

import (
	"context"
	"encoding/json"
	"errors"
	"os/exec"
	"strconv"
	"strings"

	"starcut/internal/services"
	"starcut/internal/services/ffmpeg"
)

// Meta summarizes the streams of a media file.
type Meta struct {
	DurationMS  int64  `json:"durationMs"`
	Width       int    `json:"width,omitempty"`
	Height      int    `json:"height,omitempty"`
	HasAudio    bool   `json:"hasAudio"`
	CodecVideo  string `json:"codecVideo,omitempty"`
	CodecAudio  string `json:"codecAudio,omitempty"`
	RotationDeg int    `json:"rotationDeg,omitempty"`
}

type probeStream struct {
	CodecType string `json:"codec_type"`
	CodecName string `json:"codec_name"`
	Width     int    `json:"width"`
	Height    int    `json:"height"`
	Duration  string `json:"duration"`
	Rotation  *int   `json:"rotation"`
}

type probeFormat struct {
	Duration string `json:"duration"`
}

type probeResult struct {
	Streams []probeStream `json:"streams"`
	Format  probeFormat   `json:"format"`
}

// Option configures the prober.
type Option func(*Prober)

// WithExecutor injects a custom executor (primarily for tests).
func WithExecutor(exec ffmpeg.Executor) Option {
	return func(p *Prober) {
		if exec != nil {
			p.exec = exec
		}
	}
}

// Prober wraps ffprobe invocations.
type Prober struct {
	binary string
	exec   ffmpeg.Executor
}

// New constructs a prober around the given ffprobe binary.
func New(binary string, opts ...Option) (*Prober, error) {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		return nil, errors.New("ffprobe binary required")
	}
	prober := &Prober{binary: binary, exec: commandExecutor{}}
	for _, opt := range opts {
		opt(prober)
	}
	return prober, nil
}

// Probe inspects the file at path and reduces the stream report to Meta.
func (p *Prober) Probe(ctx context.Context, path string) (Meta, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return Meta{}, services.Wrap(services.ErrValidation, "probe", "inspect", "empty path", nil)
	}

	args := []string{
		"-v", "error",
		"-print_format", "json",
		"-show_streams",
		"-show_format",
		"--", path,
	}
	output, err := p.exec.Run(ctx, p.binary, args)
	if err != nil {
		return Meta{}, services.Wrap(services.ErrExternalTool, "probe", "inspect", strings.TrimSpace(output), err)
	}

	var parsed probeResult
	if err := json.Unmarshal([]byte(output), &parsed); err != nil {
		return Meta{}, services.Wrap(services.ErrExternalTool, "probe", "parse", "invalid ffprobe json", err)
	}

	var meta Meta
	for _, stream := range parsed.Streams {
		switch stream.CodecType {
		case "video":
			meta.Width = stream.Width
			meta.Height = stream.Height
			meta.CodecVideo = stream.CodecName
			if stream.Rotation != nil {
				meta.RotationDeg = *stream.Rotation
			}
			if ms := parseDurationMS(stream.Duration); ms > 0 {
				meta.DurationMS = ms
			}
		case "audio":
			meta.HasAudio = true
			meta.CodecAudio = stream.CodecName
		}
	}
	if meta.DurationMS == 0 {
		meta.DurationMS = parseDurationMS(parsed.Format.Duration)
	}
	return meta, nil
}

func parseDurationMS(value string) int64 {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0
	}
	seconds, err := strconv.ParseFloat(value, 64)
	if err != nil || seconds < 0 {
		return 0
	}
	return int64(seconds * 1000)
}

type commandExecutor struct{}

func (commandExecutor) Run(ctx context.Context, binary string, args []string) (string, error) {
	cmd := exec.CommandContext(ctx, binary, args...) //nolint:gosec
	output, err := cmd.CombinedOutput()
	return string(output), err
}
