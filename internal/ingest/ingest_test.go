package ingest_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"starcut/internal/cache"
	"starcut/internal/ingest"
	"starcut/internal/media"
	"starcut/internal/services"
	"starcut/internal/testsupport"
)

type stubProber struct {
	meta  media.Meta
	err   error
	paths []string
}

func (p *stubProber) Probe(_ context.Context, path string) (media.Meta, error) {
	p.paths = append(p.paths, path)
	return p.meta, p.err
}

func newIngester(t *testing.T, prober ingest.Prober) (*ingest.Ingester, *cache.Dirs) {
	t.Helper()
	dirs, err := cache.New(t.TempDir())
	if err != nil {
		t.Fatalf("cache.New returned error: %v", err)
	}
	ing, err := ingest.New(dirs, prober, nil)
	if err != nil {
		t.Fatalf("ingest.New returned error: %v", err)
	}
	return ing, dirs
}

func TestIngestCopiesAndProbes(t *testing.T) {
	sourceDir := t.TempDir()
	first := filepath.Join(sourceDir, "clip.mp4")
	second := filepath.Join(sourceDir, "voice.wav")
	testsupport.WriteFile(t, first, 11)
	testsupport.WriteFile(t, second, 11)

	prober := &stubProber{meta: media.Meta{DurationMS: 4200, Width: 1920, Height: 1080}}
	ing, dirs := newIngester(t, prober)

	results, err := ing.Ingest(context.Background(), []string{first, second})
	if err != nil {
		t.Fatalf("Ingest returned error: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}

	if results[0].Kind != ingest.KindVideo || results[1].Kind != ingest.KindAudio {
		t.Fatalf("unexpected kinds: %s, %s", results[0].Kind, results[1].Kind)
	}
	if results[0].AssetID == results[1].AssetID {
		t.Fatalf("asset ids must be distinct, both %q", results[0].AssetID)
	}
	if results[0].Meta.DurationMS != 4200 {
		t.Fatalf("meta not propagated: %+v", results[0].Meta)
	}

	for i, result := range results {
		if filepath.Dir(result.FilePath) != dirs.MediaDir() {
			t.Fatalf("result %d not in media dir: %q", i, result.FilePath)
		}
		data, err := os.ReadFile(result.FilePath)
		if err != nil {
			t.Fatalf("read cached copy: %v", err)
		}
		if len(data) == 0 {
			t.Fatalf("cached copy %q is empty", result.FilePath)
		}
	}
	if !strings.HasSuffix(results[0].FilePath, ".mp4") {
		t.Fatalf("expected source extension preserved, got %q", results[0].FilePath)
	}
	// The probe must run against the cached copy, not the original.
	if prober.paths[0] != results[0].FilePath {
		t.Fatalf("probed %q, want cached copy %q", prober.paths[0], results[0].FilePath)
	}
}

func TestIngestMissingFile(t *testing.T) {
	prober := &stubProber{}
	ing, _ := newIngester(t, prober)

	_, err := ing.Ingest(context.Background(), []string{"/nonexistent/clip.mp4"})
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if len(prober.paths) != 0 {
		t.Fatal("missing file must not be probed")
	}
}

func TestIngestRejectsDirectory(t *testing.T) {
	prober := &stubProber{}
	ing, _ := newIngester(t, prober)

	_, err := ing.Ingest(context.Background(), []string{t.TempDir()})
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestIngestProbeFailureAborts(t *testing.T) {
	source := filepath.Join(t.TempDir(), "clip.mp4")
	testsupport.WriteFile(t, source, 5)
	prober := &stubProber{err: services.Wrap(services.ErrExternalTool, "probe", "streams", "", errors.New("exit status 1"))}
	ing, _ := newIngester(t, prober)

	_, err := ing.Ingest(context.Background(), []string{source})
	if !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("expected probe failure to surface, got %v", err)
	}
}

func TestKindClassification(t *testing.T) {
	sourceDir := t.TempDir()
	png := filepath.Join(sourceDir, "still.PNG")
	txt := filepath.Join(sourceDir, "notes.txt")
	testsupport.WriteFile(t, png, 3)
	testsupport.WriteFile(t, txt, 3)

	ing, _ := newIngester(t, &stubProber{})
	results, err := ing.Ingest(context.Background(), []string{png, txt})
	if err != nil {
		t.Fatalf("Ingest returned error: %v", err)
	}
	if results[0].Kind != ingest.KindImage {
		t.Fatalf("expected image kind, got %s", results[0].Kind)
	}
	if results[1].Kind != ingest.KindOther {
		t.Fatalf("expected other kind, got %s", results[1].Kind)
	}
}
