package recommend

import (
	"fmt"

	"github.com/framecut/framecut-backend/internal/types"
)

// TemporalNearby is the wide-window cousin of TemporalContinuity: it uses the
// caller-supplied search time window instead of the fixed 10s/60s adjacency
// constants. In media mode it anchors on the clips the editor has already cut
// and surfaces shots near them; with no existing clips it stays silent.
type TemporalNearby struct{}

func (TemporalNearby) Name() string { return types.StrategyTemporalNearby }

func (s TemporalNearby) ExecuteForMedia(sc *StrategyContext) ([]ScoredCandidate, error) {
	if len(sc.ExistingClips) == 0 {
		return nil, nil
	}
	window := sc.Search.EffectiveTimeWindow()

	var out []ScoredCandidate
	for _, clip := range sc.ExistingClips {
		for _, shot := range sc.Shots {
			if !passesFilters(types.LabelTypeShot, shot.Confidence, shot.Start, shot.End, sc.Filter) {
				continue
			}
			dist, ok := windowDistance(clip.Start, clip.End, shot.Start, shot.End)
			if !ok || dist >= window {
				continue
			}
			id := clip.ID
			out = append(out, ScoredCandidate{
				Start:     shot.Start,
				End:       shot.End,
				ClipID:    matchExistingClip(sc.ExistingClips, shot.Start, shot.End),
				Score:     clampScore(shot.Confidence * (1 - dist/window)),
				Reason:    fmt.Sprintf("Shot within %.0fs of an existing clip", window),
				LabelType: types.LabelTypeShot,
				ReasonData: map[string]any{
					"anchor_clip_id":   id.String(),
					"distance_seconds": round2(dist),
					"time_window":      window,
				},
			})
		}
	}
	return out, nil
}

func (s TemporalNearby) ExecuteForTimeline(sc *StrategyContext) ([]ScoredCandidate, error) {
	window := sc.Search.EffectiveTimeWindow()
	return continuityCandidates(sc, continuityWindows{
		sameMediaWindow: window,
		sameMediaDenom:  2 * window,
		crossMediaLow:   -5,
		crossMediaHigh:  window,
		crossMediaDenom: 2 * window,
	}), nil
}

// windowDistance is the gap in seconds between two windows; overlapping
// windows report no distance at all (the shot is already covered).
func windowDistance(aStart, aEnd, bStart, bEnd float64) (float64, bool) {
	switch {
	case bStart >= aEnd:
		return bStart - aEnd, true
	case aStart >= bEnd:
		return aStart - bEnd, true
	default:
		return 0, false
	}
}
