package recommend

import (
	"math"

	"github.com/google/uuid"

	"github.com/framecut/framecut-backend/internal/types"
)

// clipMatchTolerance is how close (seconds, both bounds) a candidate window
// must be to an existing clip to be considered already materialized.
const clipMatchTolerance = 0.1

// ScoredCandidate is a strategy's proposal before merge/rank/persistence.
type ScoredCandidate struct {
	Start      float64
	End        float64
	ClipID     *uuid.UUID
	Score      float64
	Reason     string
	ReasonData map[string]any
	LabelType  string
	Strategy   string
	Rank       int
}

// Strategy is one scoring heuristic. Implementations are pure: they read the
// context, never mutate it, and hold no state between calls. Either method may
// return an empty slice when it has nothing to say for that mode.
type Strategy interface {
	Name() string
	ExecuteForMedia(sc *StrategyContext) ([]ScoredCandidate, error)
	ExecuteForTimeline(sc *StrategyContext) ([]ScoredCandidate, error)
}

// AllStrategies returns the closed strategy set in declaration order. The
// order is load-bearing: it breaks score ties during ranking.
func AllStrategies() []Strategy {
	return []Strategy{
		TemporalContinuity{},
		ConfidenceDuration{},
		SameEntity{},
		TemporalNearby{},
	}
}

// StrategiesFor resolves strategy names to instances, preserving declaration
// order regardless of the order the caller listed them in. Empty input selects
// every strategy. Unknown names are a validation error.
func StrategiesFor(names []string) ([]Strategy, error) {
	all := AllStrategies()
	if len(names) == 0 {
		return all, nil
	}
	want := make(map[string]bool, len(names))
	for _, n := range names {
		known := false
		for _, s := range all {
			if s.Name() == n {
				known = true
				break
			}
		}
		if !known {
			return nil, &ValidationError{Field: "strategies", Msg: "unknown strategy " + n}
		}
		want[n] = true
	}
	out := make([]Strategy, 0, len(want))
	for _, s := range all {
		if want[s.Name()] {
			out = append(out, s)
		}
	}
	return out, nil
}

// passesFilters applies the shared candidate filter: label-type allow-list,
// confidence floor and duration-range membership. Strategies call this on
// media-context candidates themselves so they can short-circuit early.
func passesFilters(labelType string, score, start, end float64, f FilterParams) bool {
	if len(f.LabelTypes) > 0 {
		ok := false
		for _, lt := range f.LabelTypes {
			if lt == labelType {
				ok = true
				break
			}
		}
		if !ok {
			return false
		}
	}
	if f.MinConfidence != nil && score < *f.MinConfidence {
		return false
	}
	dur := end - start
	if f.MinDuration != nil && dur < *f.MinDuration {
		return false
	}
	if f.MaxDuration != nil && dur > *f.MaxDuration {
		return false
	}
	return true
}

// matchExistingClip reports the id of a concrete clip whose bounds both lie
// within the tolerance of the candidate window, if any.
func matchExistingClip(clips []*types.MediaClip, start, end float64) *uuid.UUID {
	for _, c := range clips {
		if math.Abs(c.Start-start) <= clipMatchTolerance && math.Abs(c.End-end) <= clipMatchTolerance {
			id := c.ID
			return &id
		}
	}
	return nil
}

func clampScore(s float64) float64 {
	if s < 0 {
		return 0
	}
	if s > 1 {
		return 1
	}
	return s
}
