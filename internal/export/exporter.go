package export

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/google/uuid"

	"starcut/internal/cache"
	"starcut/internal/history"
	"starcut/internal/logging"
	"starcut/internal/plan"
	"starcut/internal/services"
)

// Settings carries the caller's export preferences. Width, height, fps, and
// bitrate are advisory only; the fallback transcode uses the fixed encoder
// profile regardless.
type Settings struct {
	Format  string `json:"format"`
	Width   int    `json:"width,omitempty"`
	Height  int    `json:"height,omitempty"`
	FPS     int    `json:"fps,omitempty"`
	Bitrate int    `json:"bitrate,omitempty"`
}

// Extension maps the requested format onto the output container extension.
// Anything outside the supported set falls back to mp4.
func (s Settings) Extension() string {
	if strings.ToLower(strings.TrimSpace(s.Format)) == "mov" {
		return "mov"
	}
	return "mp4"
}

// Result describes a finished export.
type Result struct {
	Path       string `json:"path"`
	DurationMS int64  `json:"durationMs"`
	SizeBytes  int64  `json:"sizeBytes"`
}

// Tool is the FFmpeg invocation surface the pipeline depends on.
type Tool interface {
	TrimCopy(ctx context.Context, source string, inMS, durationMS int64, output string) error
	TrimTranscode(ctx context.Context, source string, inMS, durationMS int64, output string) error
	ConcatCopy(ctx context.Context, listPath, output string) error
	ConcatTranscode(ctx context.Context, listPath, output string) error
	ExtractPosterFrame(ctx context.Context, source string, atMS int64, output string) error
}

// Exporter drives the three-phase rendering pipeline.
type Exporter struct {
	tool   Tool
	dirs   *cache.Dirs
	store  *history.Store
	logger *slog.Logger
}

// New constructs an exporter. The history store is optional; a nil store
// disables job persistence. A nil logger falls back to a no-op logger.
func New(tool Tool, dirs *cache.Dirs, store *history.Store, logger *slog.Logger) (*Exporter, error) {
	if tool == nil {
		return nil, fmt.Errorf("export: tool required")
	}
	if dirs == nil {
		return nil, fmt.Errorf("export: cache dirs required")
	}
	return &Exporter{
		tool:   tool,
		dirs:   dirs,
		store:  store,
		logger: logging.NewComponentLogger(logger, "export"),
	}, nil
}

// Run executes the segment, concat, and finalize phases for the plan and
// returns the produced artifact. Phases run strictly sequentially; a segment
// is never started before its predecessor's artifact exists.
func (e *Exporter) Run(ctx context.Context, p *plan.EditPlan, settings Settings, sink Sink) (Result, error) {
	token := uuid.NewString()
	ctx = services.WithPlanID(ctx, p.ID)
	total := len(p.MainTrack) + 2
	logger := e.logger.With(
		logging.String(logging.FieldPlanID, p.ID),
		logging.String(logging.FieldToken, token),
	)
	logger.Info("export started",
		logging.Int("clips", len(p.MainTrack)),
		logging.String("format", settings.Extension()),
	)

	e.recordStart(ctx, logger, token, p.ID, settings.Extension(), total)

	segmentPaths, err := e.runSegmentPhase(ctx, logger, p, token, total, sink)
	if err != nil {
		e.recordFailure(ctx, logger, token, err)
		return Result{}, err
	}

	manifestPath, err := e.runConcatPhase(ctx, logger, token, segmentPaths, len(p.MainTrack), total, sink)
	if err != nil {
		e.recordFailure(ctx, logger, token, err)
		return Result{}, err
	}

	outputPath, err := e.runFinalizePhase(ctx, logger, p.ID, token, settings, manifestPath, len(p.MainTrack)+1, total, sink)
	if err != nil {
		e.recordFailure(ctx, logger, token, err)
		return Result{}, err
	}

	result := Result{
		Path:       outputPath,
		DurationMS: plannedDurationMS(p),
		SizeBytes:  artifactSize(outputPath),
	}
	if e.store != nil {
		if err := e.store.MarkCompleted(ctx, token, result.Path, result.DurationMS, result.SizeBytes); err != nil {
			logger.Warn("failed to persist export completion", logging.Error(err))
		}
	}
	logger.Info("export finished",
		logging.String("output", result.Path),
		logging.Int64("duration_ms", result.DurationMS),
		logging.Int64("size_bytes", result.SizeBytes),
	)
	return result, nil
}

func (e *Exporter) runSegmentPhase(ctx context.Context, logger *slog.Logger, p *plan.EditPlan, token string, total int, sink Sink) ([]string, error) {
	ctx = services.WithPhase(ctx, PhaseSegment)
	segmentPaths := make([]string, 0, len(p.MainTrack))
	for idx, clip := range p.MainTrack {
		event := Event{
			Phase:   PhaseSegment,
			Current: idx,
			Total:   total,
			Message: fmt.Sprintf("Trimming clip %d", idx),
		}
		emit(sink, event)
		e.recordProgress(ctx, logger, token, event)

		segPath := e.dirs.SegmentPath(token, idx)
		source := clip.SourcePath
		inMS := clip.InMS
		durationMS := clip.TrimDurationMS()
		err := runWithFallback(
			func() error { return e.tool.TrimCopy(ctx, source, inMS, durationMS, segPath) },
			func() error { return e.tool.TrimTranscode(ctx, source, inMS, durationMS, segPath) },
		)
		if err != nil {
			return nil, services.Wrap(services.ErrExternalTool, PhaseSegment, "trim",
				fmt.Sprintf("clip %d", idx), err)
		}
		segmentPaths = append(segmentPaths, segPath)
	}
	return segmentPaths, nil
}

func (e *Exporter) runConcatPhase(ctx context.Context, logger *slog.Logger, token string, segmentPaths []string, current, total int, sink Sink) (string, error) {
	event := Event{Phase: PhaseConcat, Current: current, Total: total, Message: "Concatenating"}
	emit(sink, event)
	e.recordProgress(ctx, logger, token, event)

	manifestPath := e.dirs.ConcatListPath(token)
	var manifest strings.Builder
	for _, segPath := range segmentPaths {
		fmt.Fprintf(&manifest, "file '%s'\n", segPath)
	}
	if err := os.WriteFile(manifestPath, []byte(manifest.String()), 0o644); err != nil {
		return "", services.Wrap(services.ErrExternalTool, PhaseConcat, "manifest", "write concat list", err)
	}
	return manifestPath, nil
}

func (e *Exporter) runFinalizePhase(ctx context.Context, logger *slog.Logger, planID, token string, settings Settings, manifestPath string, current, total int, sink Sink) (string, error) {
	ctx = services.WithPhase(ctx, PhaseFinalize)
	event := Event{Phase: PhaseFinalize, Current: current, Total: total, Message: "Writing output"}
	emit(sink, event)
	e.recordProgress(ctx, logger, token, event)

	outputPath := e.dirs.RenderOutputPath(planID, token, settings.Extension())
	err := runWithFallback(
		func() error { return e.tool.ConcatCopy(ctx, manifestPath, outputPath) },
		func() error { return e.tool.ConcatTranscode(ctx, manifestPath, outputPath) },
	)
	if err != nil {
		return "", services.Wrap(services.ErrExternalTool, PhaseFinalize, "concat", "", err)
	}
	return outputPath, nil
}

func (e *Exporter) recordStart(ctx context.Context, logger *slog.Logger, token, planID, format string, total int) {
	if e.store == nil {
		return
	}
	if _, err := e.store.NewJob(ctx, token, planID, format, total); err != nil {
		logger.Warn("failed to persist export job", logging.Error(err))
	}
}

func (e *Exporter) recordProgress(ctx context.Context, logger *slog.Logger, token string, event Event) {
	if e.store == nil {
		return
	}
	if err := e.store.UpdateProgress(ctx, token, event.Phase, event.Current, event.Total, event.Message); err != nil {
		logger.Warn("failed to persist export progress", logging.Error(err))
	}
}

func (e *Exporter) recordFailure(ctx context.Context, logger *slog.Logger, token string, cause error) {
	logger.Error("export failed", logging.Error(cause))
	if e.store == nil {
		return
	}
	if err := e.store.MarkFailed(ctx, token, cause.Error()); err != nil {
		logger.Warn("failed to persist export failure", logging.Error(err))
	}
}

// plannedDurationMS is the sum of trim-window lengths across the main track.
// It is deliberately decoupled from re-inspecting the produced file.
func plannedDurationMS(p *plan.EditPlan) int64 {
	var total int64
	for _, clip := range p.MainTrack {
		total += clip.TrimDurationMS()
	}
	return total
}

// artifactSize returns the output's byte size, or 0 when it cannot be read.
func artifactSize(path string) int64 {
	info, err := os.Stat(path)
	if err != nil {
		return 0
	}
	return info.Size()
}
