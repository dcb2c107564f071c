package plan

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"starcut/internal/services"
)

// SeqClip is one placed clip: a trim window within a source file plus its
// placement on the output timeline. Values are never mutated after Build.
type SeqClip struct {
	SourcePath string
	InMS       int64
	OutMS      int64
	StartMS    int64
	EndMS      int64
}

// TrimDurationMS returns the length of the clip's trim window.
func (c SeqClip) TrimDurationMS() int64 {
	return c.OutMS - c.InMS
}

// EditPlan is the validated, ordered in-memory timeline.
//
// MainTrack is sorted ascending by StartMS and pairwise non-overlapping.
// OverlayTrack carries no ordering or overlap guarantee beyond being
// deterministic for a given project description.
type EditPlan struct {
	ID           string
	MainTrack    []SeqClip
	OverlayTrack []SeqClip
}

// TopVisibleClip returns the main-track clip covering the given timeline
// position, or false when no clip is visible there.
func (p *EditPlan) TopVisibleClip(tMS int64) (SeqClip, bool) {
	for _, clip := range p.MainTrack {
		if clip.StartMS <= tMS && tMS < clip.EndMS {
			return clip, true
		}
	}
	return SeqClip{}, false
}

type projectAsset struct {
	ID         string   `json:"id"`
	Kind       string   `json:"kind"`
	Name       string   `json:"name"`
	Src        string   `json:"src"`
	DurationMS *float64 `json:"durationMs"`
}

type projectClip struct {
	ID      string `json:"id"`
	AssetID string `json:"assetId"`
	TrackID string `json:"trackId"`
	StartMS int64  `json:"startMs"`
	EndMS   int64  `json:"endMs"`
	InMS    int64  `json:"inMs"`
	OutMS   int64  `json:"outMs"`
}

type projectTrack struct {
	ID        string   `json:"id"`
	Role      string   `json:"role"`
	ClipOrder []string `json:"clipOrder"`
}

type projectDescription struct {
	ID     string                  `json:"id"`
	Assets map[string]projectAsset `json:"assets"`
	Clips  map[string]projectClip  `json:"clips"`
	Tracks map[string]projectTrack `json:"tracks"`
}

// Build parses and validates a project description into an EditPlan.
//
// Tracks are visited in sorted-identifier order so overlay collection order is
// deterministic for a given description. Clip references that cannot be
// resolved to a clip or asset are skipped, matching the permissive handling of
// partially authored projects.
func Build(projectJSON string) (*EditPlan, error) {
	var parsed projectDescription
	if err := json.Unmarshal([]byte(projectJSON), &parsed); err != nil {
		return nil, services.Wrap(services.ErrValidation, "plan", "parse", "invalid project json", err)
	}

	trackIDs := make([]string, 0, len(parsed.Tracks))
	for id := range parsed.Tracks {
		trackIDs = append(trackIDs, id)
	}
	sort.Strings(trackIDs)

	var main, overlay []SeqClip
	for _, trackID := range trackIDs {
		track := parsed.Tracks[trackID]
		for _, clipID := range track.ClipOrder {
			clip, ok := parsed.Clips[clipID]
			if !ok {
				continue
			}
			asset, ok := parsed.Assets[clip.AssetID]
			if !ok {
				continue
			}
			if clip.OutMS <= clip.InMS {
				return nil, services.Wrap(services.ErrValidation, "plan", "validate",
					fmt.Sprintf("clip %s: trim window out (%d) must exceed in (%d)", clipID, clip.OutMS, clip.InMS), nil)
			}
			seq := SeqClip{
				SourcePath: normalizeSource(asset.Src),
				InMS:       clip.InMS,
				OutMS:      clip.OutMS,
				StartMS:    clip.StartMS,
				EndMS:      clip.EndMS,
			}
			if track.Role == "main" {
				main = append(main, seq)
			} else {
				overlay = append(overlay, seq)
			}
		}
	}

	sort.SliceStable(main, func(i, j int) bool { return main[i].StartMS < main[j].StartMS })
	for i := 1; i < len(main); i++ {
		if main[i-1].EndMS > main[i].StartMS {
			return nil, services.Wrap(services.ErrValidation, "plan", "validate",
				fmt.Sprintf("main track clips overlap: [%d,%d) and [%d,%d)",
					main[i-1].StartMS, main[i-1].EndMS, main[i].StartMS, main[i].EndMS), nil)
		}
	}

	return &EditPlan{ID: parsed.ID, MainTrack: main, OverlayTrack: overlay}, nil
}

func normalizeSource(src string) string {
	return strings.TrimPrefix(src, "file://")
}
