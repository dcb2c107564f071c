package capture_test

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"starcut/internal/cache"
	"starcut/internal/capture"
	"starcut/internal/services"
	"starcut/internal/services/ffmpeg"
	"starcut/internal/testsupport"
)

type stubProcess struct {
	mu      sync.Mutex
	stopped bool
	waited  bool
	stopErr error
	waitErr error
}

func (p *stubProcess) Stop() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.stopped = true
	return p.stopErr
}

func (p *stubProcess) Wait() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.waited = true
	return p.waitErr
}

type stubLauncher struct {
	mu          sync.Mutex
	specs       []ffmpeg.CaptureSpec
	procs       []*stubProcess
	startErr    error
	nextStopErr error
	nextWaitErr error
	devices     string
	deviceErr   error
}

func (l *stubLauncher) StartCapture(_ context.Context, spec ffmpeg.CaptureSpec) (ffmpeg.Process, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.startErr != nil {
		return nil, l.startErr
	}
	proc := &stubProcess{stopErr: l.nextStopErr, waitErr: l.nextWaitErr}
	l.specs = append(l.specs, spec)
	l.procs = append(l.procs, proc)
	return proc, nil
}

func (l *stubLauncher) ListDevices(context.Context, string) (string, error) {
	return l.devices, l.deviceErr
}

func newRegistry(t *testing.T, launcher capture.Launcher, opts ...testsupport.ConfigOption) *capture.Registry {
	t.Helper()
	cfg := testsupport.NewConfig(t, opts...)
	dirs, err := cache.New(cfg.Paths.BaseDir)
	if err != nil {
		t.Fatalf("cache.New returned error: %v", err)
	}
	registry, err := capture.NewRegistry(launcher, dirs, cfg, nil)
	if err != nil {
		t.Fatalf("NewRegistry returned error: %v", err)
	}
	return registry
}

func TestStartSessionRegistersAndReturnsImmediately(t *testing.T) {
	launcher := &stubLauncher{}
	registry := newRegistry(t, launcher)

	id, outputPath, err := registry.StartSession(context.Background(), capture.Settings{DisplayIndex: 1, AudioIndex: 2, FPS: 60})
	if err != nil {
		t.Fatalf("StartSession returned error: %v", err)
	}
	if !strings.HasPrefix(id, "rec_") {
		t.Fatalf("unexpected session id %q", id)
	}
	if !strings.Contains(outputPath, id) || !strings.HasSuffix(outputPath, ".mp4") {
		t.Fatalf("unexpected output path %q", outputPath)
	}

	spec := launcher.specs[0]
	if spec.DeviceSelector != "1:2" {
		t.Fatalf("selector = %q, want %q", spec.DeviceSelector, "1:2")
	}
	if spec.FPS != 60 {
		t.Fatalf("fps = %d, want 60", spec.FPS)
	}
	if spec.Output != outputPath {
		t.Fatalf("spec output %q does not match returned path %q", spec.Output, outputPath)
	}
	if launcher.procs[0].stopped || launcher.procs[0].waited {
		t.Fatal("start must not touch the process lifecycle")
	}
}

func TestStartSessionDefaultsFromConfig(t *testing.T) {
	launcher := &stubLauncher{}
	registry := newRegistry(t, launcher, testsupport.WithCaptureFPS(24))

	if _, _, err := registry.StartSession(context.Background(), capture.Settings{}); err != nil {
		t.Fatalf("StartSession returned error: %v", err)
	}
	spec := launcher.specs[0]
	if spec.DeviceSelector != "1:none" {
		t.Fatalf("selector = %q, want %q", spec.DeviceSelector, "1:none")
	}
	if spec.FPS != 24 {
		t.Fatalf("fps = %d, want configured 24", spec.FPS)
	}
	if spec.InputFormat == "" {
		t.Fatal("expected configured input format on spec")
	}
}

func TestStopSessionGracefulOrder(t *testing.T) {
	launcher := &stubLauncher{}
	registry := newRegistry(t, launcher)

	id, outputPath, err := registry.StartSession(context.Background(), capture.Settings{})
	if err != nil {
		t.Fatalf("StartSession returned error: %v", err)
	}

	stoppedPath, err := registry.StopSession(id)
	if err != nil {
		t.Fatalf("StopSession returned error: %v", err)
	}
	if stoppedPath != outputPath {
		t.Fatalf("StopSession path = %q, want %q", stoppedPath, outputPath)
	}
	proc := launcher.procs[0]
	if !proc.stopped || !proc.waited {
		t.Fatalf("expected graceful stop then wait, got stopped=%v waited=%v", proc.stopped, proc.waited)
	}
	if len(registry.ActiveSessions()) != 0 {
		t.Fatalf("expected empty registry, got %v", registry.ActiveSessions())
	}
}

func TestStopSessionReturnsPathWhenProcessAlreadyExited(t *testing.T) {
	launcher := &stubLauncher{
		nextStopErr: errors.New("signal capture stop: write |1: broken pipe"),
		nextWaitErr: errors.New("exit status 255"),
	}
	registry := newRegistry(t, launcher)

	id, outputPath, err := registry.StartSession(context.Background(), capture.Settings{})
	if err != nil {
		t.Fatalf("StartSession returned error: %v", err)
	}

	stoppedPath, err := registry.StopSession(id)
	if err != nil {
		t.Fatalf("expected best-effort stop to succeed, got %v", err)
	}
	if stoppedPath != outputPath {
		t.Fatalf("StopSession path = %q, want %q", stoppedPath, outputPath)
	}
	// The child must still be reaped even when the stop signal fails.
	if !launcher.procs[0].waited {
		t.Fatal("expected Wait to run after a failed stop signal")
	}
	if len(registry.ActiveSessions()) != 0 {
		t.Fatalf("expected empty registry, got %v", registry.ActiveSessions())
	}
}

func TestStopUnknownSessionFailsWithoutSideEffects(t *testing.T) {
	launcher := &stubLauncher{}
	registry := newRegistry(t, launcher)

	id, _, err := registry.StartSession(context.Background(), capture.Settings{})
	if err != nil {
		t.Fatalf("StartSession returned error: %v", err)
	}

	if _, err := registry.StopSession("rec_missing"); !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected not-found error, got %v", err)
	}
	if launcher.procs[0].stopped {
		t.Fatal("stopping an unknown id must not touch other sessions")
	}
	if got := registry.ActiveSessions(); len(got) != 1 || got[0] != id {
		t.Fatalf("registry mutated by failed stop: %v", got)
	}
}

func TestStopSessionIsOneShot(t *testing.T) {
	launcher := &stubLauncher{}
	registry := newRegistry(t, launcher)

	id, _, err := registry.StartSession(context.Background(), capture.Settings{})
	if err != nil {
		t.Fatalf("StartSession returned error: %v", err)
	}
	if _, err := registry.StopSession(id); err != nil {
		t.Fatalf("first StopSession returned error: %v", err)
	}
	if _, err := registry.StopSession(id); !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected not-found on second stop, got %v", err)
	}
}

func TestConcurrentSessionsAreIndependent(t *testing.T) {
	launcher := &stubLauncher{}
	registry := newRegistry(t, launcher)

	const sessions = 8
	ids := make([]string, sessions)
	var wg sync.WaitGroup
	for i := 0; i < sessions; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id, _, err := registry.StartSession(context.Background(), capture.Settings{})
			if err != nil {
				t.Errorf("StartSession returned error: %v", err)
				return
			}
			ids[i] = id
		}(i)
	}
	wg.Wait()

	seen := make(map[string]bool, sessions)
	for _, id := range ids {
		if seen[id] {
			t.Fatalf("duplicate session id %q", id)
		}
		seen[id] = true
	}

	// Stopping one session leaves the rest recording.
	if _, err := registry.StopSession(ids[0]); err != nil {
		t.Fatalf("StopSession returned error: %v", err)
	}
	if got := len(registry.ActiveSessions()); got != sessions-1 {
		t.Fatalf("expected %d active sessions, got %d", sessions-1, got)
	}
}

func TestListDevicesClassifiesOutput(t *testing.T) {
	launcher := &stubLauncher{devices: `
[x11grab @ 0x1] [0] Screen 0
[x11grab @ 0x1] [1] USB Audio Device
`}
	registry := newRegistry(t, launcher)

	devices, err := registry.ListDevices(context.Background())
	if err != nil {
		t.Fatalf("ListDevices returned error: %v", err)
	}
	if len(devices.Displays) != 1 || devices.Displays[0] != "Screen 0" {
		t.Fatalf("unexpected displays: %v", devices.Displays)
	}
	if len(devices.AudioInputs) != 1 || devices.AudioInputs[0] != "USB Audio Device" {
		t.Fatalf("unexpected audio inputs: %v", devices.AudioInputs)
	}
}

func TestListDevicesToolFailure(t *testing.T) {
	launcher := &stubLauncher{deviceErr: errors.New("exit status 1")}
	registry := newRegistry(t, launcher)

	if _, err := registry.ListDevices(context.Background()); !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("expected external tool error, got %v", err)
	}
}
