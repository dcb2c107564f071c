package export

import (
	"context"
	"fmt"

	"starcut/internal/plan"
	"starcut/internal/services"
)

// Poster extracts a single poster frame for the plan at the given timeline
// position into the previews cache and returns its path.
func (e *Exporter) Poster(ctx context.Context, p *plan.EditPlan, atMS int64) (string, error) {
	clip, ok := p.TopVisibleClip(atMS)
	if !ok {
		return "", services.Wrap(services.ErrValidation, "preview", "poster",
			fmt.Sprintf("no clip visible at %dms", atMS), nil)
	}
	outputPath := e.dirs.PreviewPath(p.ID, atMS)
	// Seek within the source: clip in-point plus the offset into the clip.
	sourceMS := clip.InMS + (atMS - clip.StartMS)
	if err := e.tool.ExtractPosterFrame(ctx, clip.SourcePath, sourceMS, outputPath); err != nil {
		return "", services.Wrap(services.ErrExternalTool, "preview", "poster", "", err)
	}
	return outputPath, nil
}
