package recommend

import (
	"context"
	"math"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/framecut/framecut-backend/internal/logger"
)

// overlapThreshold is the window overlap (relative to the shorter window)
// above which two clipless candidates are considered the same proposal.
const overlapThreshold = 0.9

// Engine fans the selected strategies out over an immutable context, merges
// the candidate lists, resolves overlaps and assigns final ranks. It owns no
// storage and no goroutines beyond each call.
type Engine struct {
	log *logger.Logger
}

func NewEngine(log *logger.Logger) *Engine {
	return &Engine{log: log.With("component", "RecommendationEngine")}
}

// Generate runs every selected strategy concurrently, fails fast on the first
// strategy error, then merges, sorts, ranks and truncates. Zero strategies or
// a non-positive maxResults yield an empty result, not an error.
func (e *Engine) Generate(ctx context.Context, sc *StrategyContext, strategies []Strategy, weights map[string]float64, maxResults int) ([]ScoredCandidate, error) {
	if maxResults <= 0 || len(strategies) == 0 {
		return []ScoredCandidate{}, nil
	}

	results := make([][]ScoredCandidate, len(strategies))
	g, gctx := errgroup.WithContext(ctx)
	for i, strat := range strategies {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			var cands []ScoredCandidate
			var err error
			if sc.IsTimeline() {
				cands, err = strat.ExecuteForTimeline(sc)
			} else {
				cands, err = strat.ExecuteForMedia(sc)
			}
			if err != nil {
				return &StrategyExecutionError{Strategy: strat.Name(), Err: err}
			}
			weight := 1.0
			if w, ok := weights[strat.Name()]; ok {
				weight = w
			}
			for j := range cands {
				cands[j].Strategy = strat.Name()
				cands[j].Score = clampScore(cands[j].Score * weight)
			}
			results[i] = cands
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var all []ScoredCandidate
	for _, r := range results {
		all = append(all, r...)
	}
	merged := mergeCandidates(all)

	// Stable sort: concatenation order is strategy declaration order, so equal
	// scores resolve in favour of the earlier-declared strategy.
	sort.SliceStable(merged, func(i, j int) bool { return merged[i].Score > merged[j].Score })

	if len(merged) > maxResults {
		merged = merged[:maxResults]
	}
	for i := range merged {
		merged[i].Rank = i
	}
	e.log.Debug("Generation complete", "strategies", len(strategies), "candidates", len(all), "results", len(merged))
	return merged, nil
}

// mergeCandidates collapses candidates that reference the same clip, or whose
// windows overlap almost entirely, keeping the highest-scoring one and folding
// the loser's evidence under reason_data.merged_from.
func mergeCandidates(cands []ScoredCandidate) []ScoredCandidate {
	var out []ScoredCandidate
	for _, c := range cands {
		idx := -1
		for k := range out {
			if sameProposal(out[k], c) {
				idx = k
				break
			}
		}
		if idx < 0 {
			out = append(out, c)
			continue
		}
		if c.Score > out[idx].Score {
			c.ReasonData = withMergedFrom(c.ReasonData, out[idx])
			out[idx] = c
		} else {
			out[idx].ReasonData = withMergedFrom(out[idx].ReasonData, c)
		}
	}
	return out
}

func sameProposal(a, b ScoredCandidate) bool {
	if a.ClipID != nil && b.ClipID != nil {
		return *a.ClipID == *b.ClipID
	}
	if a.ClipID != nil || b.ClipID != nil {
		return false
	}
	return windowOverlap(a.Start, a.End, b.Start, b.End) >= overlapThreshold
}

// windowOverlap measures the intersection relative to the shorter window.
func windowOverlap(aStart, aEnd, bStart, bEnd float64) float64 {
	inter := math.Min(aEnd, bEnd) - math.Max(aStart, bStart)
	if inter <= 0 {
		return 0
	}
	shorter := math.Min(aEnd-aStart, bEnd-bStart)
	if shorter <= 0 {
		return 0
	}
	return inter / shorter
}

func withMergedFrom(rd map[string]any, loser ScoredCandidate) map[string]any {
	out := make(map[string]any, len(rd)+1)
	for k, v := range rd {
		out[k] = v
	}
	entry := map[string]any{
		"strategy": loser.Strategy,
		"score":    loser.Score,
		"reason":   loser.Reason,
	}
	if prev, ok := out["merged_from"].([]any); ok {
		out["merged_from"] = append(prev, entry)
	} else {
		out["merged_from"] = []any{entry}
	}
	return out
}
