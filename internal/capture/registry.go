package capture

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"sync"

	"github.com/google/uuid"

	"starcut/internal/cache"
	"starcut/internal/config"
	"starcut/internal/logging"
	"starcut/internal/services"
	"starcut/internal/services/ffmpeg"
)

const captureExtension = "mp4"

// Settings selects the devices and frame rate for one capture session.
// DisplayIndex zero or negative selects the first capture display. AudioIndex
// zero or negative disables audio capture. FPS zero falls back to the
// configured default.
type Settings struct {
	DisplayIndex int `json:"displayIndex"`
	AudioIndex   int `json:"audioIndex,omitempty"`
	FPS          int `json:"fps,omitempty"`
}

// Launcher abstracts the recording tool so the registry can be tested with a
// stub. *ffmpeg.Client satisfies it.
type Launcher interface {
	StartCapture(ctx context.Context, spec ffmpeg.CaptureSpec) (ffmpeg.Process, error)
	ListDevices(ctx context.Context, inputFormat string) (string, error)
}

type session struct {
	proc       ffmpeg.Process
	outputPath string
}

// Registry owns every running capture session. All session state lives in one
// mutex-guarded map so concurrent start and stop calls never observe a
// half-updated view.
type Registry struct {
	launcher Launcher
	dirs     *cache.Dirs
	cfg      *config.Config
	logger   *slog.Logger

	mu       sync.Mutex
	sessions map[string]session
}

// NewRegistry constructs an empty registry.
func NewRegistry(launcher Launcher, dirs *cache.Dirs, cfg *config.Config, logger *slog.Logger) (*Registry, error) {
	if launcher == nil {
		return nil, fmt.Errorf("capture: launcher required")
	}
	if dirs == nil {
		return nil, fmt.Errorf("capture: cache dirs required")
	}
	if cfg == nil {
		return nil, fmt.Errorf("capture: config required")
	}
	return &Registry{
		launcher: launcher,
		dirs:     dirs,
		cfg:      cfg,
		logger:   logging.NewComponentLogger(logger, "capture"),
		sessions: make(map[string]session),
	}, nil
}

// ListDevices enumerates the displays and audio inputs the recording tool can
// see for the configured input format.
func (r *Registry) ListDevices(ctx context.Context) (Devices, error) {
	output, err := r.launcher.ListDevices(ctx, r.cfg.Capture.InputFormat)
	if err != nil {
		return Devices{}, services.Wrap(services.ErrExternalTool, "capture", "list devices", "", err)
	}
	return classifyDeviceLines(output), nil
}

// StartSession spawns a capture writing into the captures cache directory and
// registers it. It returns as soon as the process is running; the recording
// continues until StopSession.
func (r *Registry) StartSession(ctx context.Context, settings Settings) (string, string, error) {
	sessionID := "rec_" + uuid.NewString()
	outputPath := r.dirs.CaptureOutputPath(sessionID, captureExtension)

	fps := settings.FPS
	if fps <= 0 {
		fps = r.cfg.Capture.FPS
	}
	spec := ffmpeg.CaptureSpec{
		InputFormat:    r.cfg.Capture.InputFormat,
		DeviceSelector: deviceSelector(settings),
		FPS:            fps,
		Output:         outputPath,
	}
	proc, err := r.launcher.StartCapture(ctx, spec)
	if err != nil {
		return "", "", services.Wrap(services.ErrExternalTool, "capture", "start", "", err)
	}

	r.mu.Lock()
	r.sessions[sessionID] = session{proc: proc, outputPath: outputPath}
	r.mu.Unlock()

	r.logger.Info("capture session started",
		logging.String(logging.FieldSessionID, sessionID),
		logging.String("selector", spec.DeviceSelector),
		logging.Int("fps", fps),
	)
	return sessionID, outputPath, nil
}

// StopSession removes the session, asks its process to stop gracefully, and
// blocks until the process has exited. An unknown id fails without touching
// any other session.
//
// The stop signal and the wait are best effort: the process may already have
// exited on its own, leaving a broken stdin pipe, and the recording on disk
// is still valid in that case. The recorded output path is always returned.
func (r *Registry) StopSession(sessionID string) (string, error) {
	r.mu.Lock()
	entry, ok := r.sessions[sessionID]
	if ok {
		delete(r.sessions, sessionID)
	}
	r.mu.Unlock()
	if !ok {
		return "", services.Wrap(services.ErrNotFound, "capture", "stop",
			fmt.Sprintf("session %s", sessionID), nil)
	}

	if err := entry.proc.Stop(); err != nil {
		r.logger.Warn("capture stop signal failed",
			logging.String(logging.FieldSessionID, sessionID),
			logging.Error(err),
		)
	}
	if err := entry.proc.Wait(); err != nil {
		r.logger.Warn("capture process exited with error",
			logging.String(logging.FieldSessionID, sessionID),
			logging.Error(err),
		)
	}

	r.logger.Info("capture session stopped",
		logging.String(logging.FieldSessionID, sessionID),
		logging.String("output", entry.outputPath),
	)
	return entry.outputPath, nil
}

// ActiveSessions returns the ids of sessions currently recording.
func (r *Registry) ActiveSessions() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	ids := make([]string, 0, len(r.sessions))
	for id := range r.sessions {
		ids = append(ids, id)
	}
	return ids
}

// deviceSelector renders the tool's "<display>:<audio>" input selector. Zero
// or negative audio index means capture without audio. An unset display
// defaults to index 1: on avfoundation index 0 is typically a camera, and the
// first capture display enumerates after it.
func deviceSelector(settings Settings) string {
	display := settings.DisplayIndex
	if display <= 0 {
		display = 1
	}
	audio := "none"
	if settings.AudioIndex > 0 {
		audio = strconv.Itoa(settings.AudioIndex)
	}
	return fmt.Sprintf("%d:%s", display, audio)
}
