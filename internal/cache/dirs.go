package cache

import (
	"fmt"
	"os"
	"path/filepath"
)

// Dirs is the resolved set of artifact directories under a base directory.
type Dirs struct {
	base     string
	previews string
	segments string
	renders  string
	captures string
	media    string
}

// New resolves the directory layout beneath baseDir and creates every
// directory eagerly so later path derivation never has to touch the
// filesystem.
func New(baseDir string) (*Dirs, error) {
	if baseDir == "" {
		return nil, fmt.Errorf("cache: base directory required")
	}
	cacheBase := filepath.Join(baseDir, "cache")
	dirs := &Dirs{
		base:     cacheBase,
		previews: filepath.Join(cacheBase, "previews"),
		segments: filepath.Join(cacheBase, "segments"),
		renders:  filepath.Join(baseDir, "projects"),
		captures: filepath.Join(cacheBase, "captures"),
		media:    filepath.Join(cacheBase, "media"),
	}
	for _, dir := range []string{dirs.previews, dirs.segments, dirs.renders, dirs.captures, dirs.media} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create cache directory %q: %w", dir, err)
		}
	}
	return dirs, nil
}

// Base returns the cache base directory.
func (d *Dirs) Base() string { return d.base }

// RendersDir returns the directory finished renders are written to.
func (d *Dirs) RendersDir() string { return d.renders }

// MediaDir returns the directory ingested source files are copied into.
func (d *Dirs) MediaDir() string { return d.media }

// SegmentPath derives the path for one extracted segment, keyed by the export
// invocation token and the clip index.
func (d *Dirs) SegmentPath(token string, index int) string {
	return filepath.Join(d.segments, fmt.Sprintf("%s_segment_%04d.mp4", token, index))
}

// ConcatListPath derives the concat manifest path for an export invocation.
func (d *Dirs) ConcatListPath(token string) string {
	return filepath.Join(d.segments, fmt.Sprintf("%s_concat.txt", token))
}

// RenderOutputPath derives the final artifact path for an export invocation.
func (d *Dirs) RenderOutputPath(planID, token, ext string) string {
	return filepath.Join(d.renders, fmt.Sprintf("%s_%s.%s", planID, token, ext))
}

// CaptureOutputPath derives the destination for a capture session.
func (d *Dirs) CaptureOutputPath(sessionID, ext string) string {
	return filepath.Join(d.captures, fmt.Sprintf("capture_%s.%s", sessionID, ext))
}

// PreviewPath derives the poster frame path for a plan at a timeline position.
func (d *Dirs) PreviewPath(planID string, atMS int64) string {
	return filepath.Join(d.previews, fmt.Sprintf("%s_%d.jpg", planID, atMS))
}

// MediaPath derives the cached copy location for an ingested asset.
func (d *Dirs) MediaPath(assetID, ext string) string {
	if ext == "" {
		return filepath.Join(d.media, assetID)
	}
	return filepath.Join(d.media, fmt.Sprintf("%s.%s", assetID, ext))
}
