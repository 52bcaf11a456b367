package recommend

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/framecut/framecut-backend/internal/types"
)

// TemporalContinuity proposes windows adjacent in time: neighbouring shots of
// the same media, and — for timelines — clips whose footage continues right
// after the seed clip, on the same media or (via absolute capture timestamps)
// across media.
type TemporalContinuity struct{}

func (TemporalContinuity) Name() string { return types.StrategyAdjacentShot }

func (s TemporalContinuity) ExecuteForMedia(sc *StrategyContext) ([]ScoredCandidate, error) {
	shots := make([]*types.LabelShot, len(sc.Shots))
	copy(shots, sc.Shots)
	sort.SliceStable(shots, func(i, j int) bool { return shots[i].Start < shots[j].Start })

	var out []ScoredCandidate
	for i, shot := range shots {
		if !passesFilters(types.LabelTypeShot, shot.Confidence, shot.Start, shot.End, sc.Filter) {
			continue
		}
		if i > 0 {
			prev := shots[i-1]
			out = append(out, ScoredCandidate{
				Start:     prev.Start,
				End:       prev.End,
				ClipID:    matchExistingClip(sc.ExistingClips, prev.Start, prev.End),
				Score:     clampScore(prev.Confidence),
				Reason:    "Previous segment",
				LabelType: types.LabelTypeShot,
				ReasonData: map[string]any{
					"direction":       "previous",
					"anchor_shot_id":  shot.ID.String(),
					"subject_shot_id": prev.ID.String(),
				},
			})
		}
		if i < len(shots)-1 {
			next := shots[i+1]
			out = append(out, ScoredCandidate{
				Start:     next.Start,
				End:       next.End,
				ClipID:    matchExistingClip(sc.ExistingClips, next.Start, next.End),
				Score:     clampScore(next.Confidence),
				Reason:    "Next segment",
				LabelType: types.LabelTypeShot,
				ReasonData: map[string]any{
					"direction":       "next",
					"anchor_shot_id":  shot.ID.String(),
					"subject_shot_id": next.ID.String(),
				},
			})
		}
	}
	return out, nil
}

func (s TemporalContinuity) ExecuteForTimeline(sc *StrategyContext) ([]ScoredCandidate, error) {
	return continuityCandidates(sc, continuityWindows{
		sameMediaWindow: 10,
		sameMediaDenom:  20,
		crossMediaLow:   -5,
		crossMediaHigh:  60,
		crossMediaDenom: 100,
	}), nil
}

// continuityWindows parameterize the adjacency heuristic so temporal_nearby
// can reuse it with a caller-supplied window.
type continuityWindows struct {
	sameMediaWindow float64
	sameMediaDenom  float64
	crossMediaLow   float64
	crossMediaHigh  float64
	crossMediaDenom float64
}

// continuityCandidates scores every pool clip against the seed. A clip
// qualifies under same-media continuity or cross-media continuity, never both;
// clips matching neither are not emitted at all.
func continuityCandidates(sc *StrategyContext, w continuityWindows) []ScoredCandidate {
	if sc.SeedClip == nil {
		return nil
	}
	var out []ScoredCandidate
	for _, cand := range sc.AvailableClips {
		clip := cand.Clip
		if clip == nil {
			continue
		}
		if sc.SeedClip.SourceClipID != nil && clip.ID == *sc.SeedClip.SourceClipID {
			continue
		}
		if clip.MediaID == sc.SeedClip.MediaID {
			gap := clip.Start - sc.SeedClip.End
			if gap < -0.5 || gap >= w.sameMediaWindow {
				continue
			}
			score := clampScore(1.0 - math.Max(0, gap)/w.sameMediaDenom)
			reason := fmt.Sprintf("Continues %.1fs after the seed clip in the same footage", gap)
			if gap <= 0.5 {
				reason = "Immediate continuation of the seed clip"
			}
			id := clip.ID
			out = append(out, ScoredCandidate{
				Start:     clip.Start,
				End:       clip.End,
				ClipID:    &id,
				Score:     score,
				Reason:    reason,
				LabelType: types.LabelTypeSegment,
				ReasonData: map[string]any{
					"continuity":  "same_media",
					"gap_seconds": round2(gap),
				},
			})
			continue
		}
		gap, ok := crossMediaGap(sc.SeedMedia, sc.SeedClip.End, cand.Media, clip.Start)
		if !ok || gap < w.crossMediaLow || gap >= w.crossMediaHigh {
			continue
		}
		score := clampScore(0.9 - math.Abs(gap)/w.crossMediaDenom)
		id := clip.ID
		out = append(out, ScoredCandidate{
			Start:     clip.Start,
			End:       clip.End,
			ClipID:    &id,
			Score:     score,
			Reason:    fmt.Sprintf("Captured %.1fs after the seed clip on another camera", gap),
			LabelType: types.LabelTypeSegment,
			ReasonData: map[string]any{
				"continuity":  "cross_media",
				"gap_seconds": round2(gap),
			},
		})
	}
	return out
}

// crossMediaGap computes the real-world delta between the seed clip's absolute
// end and the candidate clip's absolute start. Both media need a capture
// timestamp for that to be meaningful.
func crossMediaGap(seedMedia *types.Media, seedEnd float64, candMedia *types.Media, candStart float64) (float64, bool) {
	if seedMedia == nil || seedMedia.CapturedAt == nil || candMedia == nil || candMedia.CapturedAt == nil {
		return 0, false
	}
	absSeedEnd := seedMedia.CapturedAt.Add(secondsToDuration(seedEnd))
	absCandStart := candMedia.CapturedAt.Add(secondsToDuration(candStart))
	return absCandStart.Sub(absSeedEnd).Seconds(), true
}

func secondsToDuration(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}

func round2(f float64) float64 {
	return math.Round(f*100) / 100
}
