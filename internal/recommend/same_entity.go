package recommend

import (
	"fmt"
	"strings"

	"github.com/framecut/framecut-backend/internal/types"
)

// SameEntity proposes windows showing a recurring tracked identity: the same
// face cluster, person track or object entity. Entities with more appearances
// are treated as more salient. On timelines the strategy scores how much of
// the seed clip's cast a candidate clip shares.
type SameEntity struct{}

func (SameEntity) Name() string { return types.StrategySameEntity }

func (s SameEntity) ExecuteForMedia(sc *StrategyContext) ([]ScoredCandidate, error) {
	groups := map[string][]detection{}
	for _, det := range sc.pooledDetections() {
		if det.Entity == "" {
			continue
		}
		groups[det.Entity] = append(groups[det.Entity], det)
	}
	maxCount := 0
	for _, g := range groups {
		if len(g) > maxCount {
			maxCount = len(g)
		}
	}

	var out []ScoredCandidate
	for entity, g := range groups {
		// One appearance is not recurrence.
		if len(g) < 2 {
			continue
		}
		salience := float64(len(g)) / float64(maxCount)
		for _, det := range g {
			if !passesFilters(det.Kind, det.Confidence, det.Start, det.End, sc.Filter) {
				continue
			}
			out = append(out, ScoredCandidate{
				Start:     det.Start,
				End:       det.End,
				ClipID:    matchExistingClip(sc.ExistingClips, det.Start, det.End),
				Score:     clampScore(det.Confidence * (0.5 + 0.5*salience)),
				Reason:    fmt.Sprintf("Recurring %s appears %d times in this media", entityKind(entity), len(g)),
				LabelType: det.Kind,
				ReasonData: map[string]any{
					"entity":      entity,
					"occurrences": len(g),
					"salience":    round2(salience),
				},
			})
		}
	}
	return out, nil
}

func (s SameEntity) ExecuteForTimeline(sc *StrategyContext) ([]ScoredCandidate, error) {
	if sc.SeedClip == nil {
		return nil, nil
	}
	dets := sc.pooledDetections()

	seedEntities := map[string]bool{}
	for _, det := range dets {
		if det.Entity == "" || det.MediaID != sc.SeedClip.MediaID {
			continue
		}
		if det.Start >= sc.SeedClip.Start && det.End <= sc.SeedClip.End {
			seedEntities[det.Entity] = true
		}
	}
	if len(seedEntities) == 0 {
		return nil, nil
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
		shared := map[string]bool{}
		sum := 0.0
		n := 0
		for _, det := range dets {
			if det.Entity == "" || det.MediaID != clip.MediaID {
				continue
			}
			if det.Start < clip.Start || det.End > clip.End {
				continue
			}
			if !seedEntities[det.Entity] {
				continue
			}
			shared[det.Entity] = true
			sum += det.Confidence
			n++
		}
		if len(shared) == 0 {
			continue
		}
		coverage := float64(len(shared)) / float64(len(seedEntities))
		meanConf := sum / float64(n)
		id := clip.ID
		out = append(out, ScoredCandidate{
			Start:     clip.Start,
			End:       clip.End,
			ClipID:    &id,
			Score:     clampScore(coverage * meanConf),
			Reason:    fmt.Sprintf("Shares %d tracked identities with the seed clip", len(shared)),
			LabelType: types.LabelTypeSegment,
			ReasonData: map[string]any{
				"shared_entities": len(shared),
				"seed_entities":   len(seedEntities),
				"coverage":        round2(coverage),
			},
		})
	}
	return out, nil
}

func entityKind(entity string) string {
	if i := strings.IndexByte(entity, ':'); i > 0 {
		return entity[:i]
	}
	return "entity"
}
