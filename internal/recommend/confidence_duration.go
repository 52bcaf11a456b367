package recommend

import (
	"fmt"
	"math"

	"github.com/framecut/framecut-backend/internal/types"
)

// confidenceFloor is the minimum detection confidence this strategy considers.
const confidenceFloor = 0.7

// ConfidenceDuration surfaces high-confidence face/person/object detections.
// On timelines it additionally rewards clips whose duration resembles the
// seed's, so a continuation does not break the cutting rhythm.
type ConfidenceDuration struct{}

func (ConfidenceDuration) Name() string { return types.StrategyConfidenceDuration }

func (s ConfidenceDuration) ExecuteForMedia(sc *StrategyContext) ([]ScoredCandidate, error) {
	var out []ScoredCandidate
	for _, det := range sc.pooledDetections() {
		if det.Confidence < confidenceFloor {
			continue
		}
		if !passesFilters(det.Kind, det.Confidence, det.Start, det.End, sc.Filter) {
			continue
		}
		reason := fmt.Sprintf("High-confidence %s detection", det.Kind)
		if det.Name != "" {
			reason = fmt.Sprintf("High-confidence %s detection (%s)", det.Kind, det.Name)
		}
		out = append(out, ScoredCandidate{
			Start:     det.Start,
			End:       det.End,
			ClipID:    matchExistingClip(sc.ExistingClips, det.Start, det.End),
			Score:     clampScore(det.Confidence),
			Reason:    reason,
			LabelType: det.Kind,
			ReasonData: map[string]any{
				"confidence": det.Confidence,
				"entity":     det.Entity,
			},
		})
	}
	return out, nil
}

func (s ConfidenceDuration) ExecuteForTimeline(sc *StrategyContext) ([]ScoredCandidate, error) {
	dets := sc.pooledDetections()
	var seedDuration float64
	haveSeed := sc.SeedClip != nil
	if haveSeed {
		seedDuration = sc.SeedClip.End - sc.SeedClip.Start
	}

	var out []ScoredCandidate
	for _, cand := range sc.AvailableClips {
		clip := cand.Clip
		if clip == nil {
			continue
		}
		if haveSeed && sc.SeedClip.SourceClipID != nil && clip.ID == *sc.SeedClip.SourceClipID {
			continue
		}
		count := 0
		sum := 0.0
		kinds := map[string]int{}
		for _, det := range dets {
			if det.MediaID != clip.MediaID || det.Start < clip.Start || det.End > clip.End {
				continue
			}
			count++
			sum += det.Confidence
			kinds[det.Kind]++
		}
		if count == 0 {
			continue
		}
		mean := sum / float64(count)
		if mean < confidenceFloor {
			continue
		}
		durationScore := 1.0
		if haveSeed && seedDuration > 0 {
			durationScore = math.Max(0, 1-math.Abs((clip.End-clip.Start)-seedDuration)/5)
		}
		id := clip.ID
		out = append(out, ScoredCandidate{
			Start:     clip.Start,
			End:       clip.End,
			ClipID:    &id,
			Score:     clampScore((mean + durationScore) / 2),
			Reason:    fmt.Sprintf("%d detections averaging %.2f confidence", count, mean),
			LabelType: types.LabelTypeSegment,
			ReasonData: map[string]any{
				"detection_count":  count,
				"mean_confidence":  round2(mean),
				"duration_score":   round2(durationScore),
				"dominant_kind":    dominantKind(kinds),
			},
		})
	}
	return out, nil
}

func dominantKind(kinds map[string]int) string {
	best := ""
	bestN := 0
	for k, n := range kinds {
		if n > bestN || (n == bestN && k < best) {
			best = k
			bestN = n
		}
	}
	return best
}
