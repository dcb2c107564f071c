// Package ingest copies external media files into the managed media cache and
// probes their attributes. Each ingested file gets a generated asset id so
// later plan references never depend on the caller's original paths.
package ingest

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"starcut/internal/cache"
	"starcut/internal/fileutil"
	"starcut/internal/logging"
	"starcut/internal/media"
	"starcut/internal/services"
)

// Kind is the coarse media classification derived from a file's extension.
type Kind string

const (
	KindVideo Kind = "video"
	KindAudio Kind = "audio"
	KindImage Kind = "image"
	KindOther Kind = "other"
)

// Result describes one ingested asset: its generated id, the cached copy's
// path, its classification, and the probed attributes.
type Result struct {
	AssetID  string     `json:"assetId"`
	FilePath string     `json:"filePath"`
	Kind     Kind       `json:"kind"`
	Meta     media.Meta `json:"meta"`
}

// Prober abstracts metadata probing so ingest can be tested without the
// external tool. *media.Prober satisfies it.
type Prober interface {
	Probe(ctx context.Context, path string) (media.Meta, error)
}

// Ingester copies files into the media cache directory and probes them.
type Ingester struct {
	dirs   *cache.Dirs
	prober Prober
	logger *slog.Logger
}

// New constructs an ingester.
func New(dirs *cache.Dirs, prober Prober, logger *slog.Logger) (*Ingester, error) {
	if dirs == nil {
		return nil, fmt.Errorf("ingest: cache dirs required")
	}
	if prober == nil {
		return nil, fmt.Errorf("ingest: prober required")
	}
	return &Ingester{
		dirs:   dirs,
		prober: prober,
		logger: logging.NewComponentLogger(logger, "ingest"),
	}, nil
}

// Ingest copies each source file into the media cache under a fresh asset id
// and probes it. The first failure aborts the batch; files already copied
// stay in the cache.
func (i *Ingester) Ingest(ctx context.Context, sources []string) ([]Result, error) {
	results := make([]Result, 0, len(sources))
	for _, source := range sources {
		result, err := i.ingestOne(ctx, source)
		if err != nil {
			return nil, err
		}
		results = append(results, result)
	}
	return results, nil
}

func (i *Ingester) ingestOne(ctx context.Context, source string) (Result, error) {
	info, err := os.Stat(source)
	if err != nil {
		return Result{}, services.Wrap(services.ErrValidation, "ingest", "stat", source, err)
	}
	if !info.Mode().IsRegular() {
		return Result{}, services.Wrap(services.ErrValidation, "ingest", "stat",
			fmt.Sprintf("%s is not a regular file", source), nil)
	}

	assetID := uuid.NewString()
	ext := strings.TrimPrefix(filepath.Ext(source), ".")
	destination := i.dirs.MediaPath(assetID, ext)
	if err := fileutil.CopyFileVerified(source, destination); err != nil {
		return Result{}, services.Wrap(services.ErrConfiguration, "ingest", "copy", source, err)
	}

	meta, err := i.prober.Probe(ctx, destination)
	if err != nil {
		return Result{}, err
	}

	i.logger.Info("asset ingested",
		logging.String("asset_id", assetID),
		logging.String("source", source),
		logging.Int64("duration_ms", meta.DurationMS),
	)
	return Result{
		AssetID:  assetID,
		FilePath: destination,
		Kind:     kindForExtension(ext),
		Meta:     meta,
	}, nil
}

func kindForExtension(ext string) Kind {
	switch strings.ToLower(ext) {
	case "mp4", "mov", "mkv", "webm", "avi", "m4v":
		return KindVideo
	case "mp3", "wav", "aac", "m4a", "flac", "ogg":
		return KindAudio
	case "jpg", "jpeg", "png", "gif", "webp", "bmp":
		return KindImage
	default:
		return KindOther
	}
}
