package recommend

import (
	"math"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/framecut/framecut-backend/internal/types"
)

func shot(mediaID uuid.UUID, start, end, conf float64) *types.LabelShot {
	return &types.LabelShot{ID: uuid.New(), MediaID: mediaID, Start: start, End: end, Confidence: conf}
}

func poolClip(mediaID uuid.UUID, start, end float64) CandidateClip {
	return CandidateClip{
		Clip:  &types.MediaClip{ID: uuid.New(), MediaID: mediaID, Start: start, End: end},
		Media: &types.Media{ID: mediaID},
	}
}

func approx(t *testing.T, got, want float64) {
	t.Helper()
	if math.Abs(got-want) > 1e-9 {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestTemporalContinuityMediaEmitsNeighbours(t *testing.T) {
	mediaID := uuid.New()
	sc := &StrategyContext{
		MediaID: &mediaID,
		Shots: []*types.LabelShot{
			shot(mediaID, 0, 10, 0.9),
			shot(mediaID, 10, 20, 0.8),
			shot(mediaID, 20, 30, 0.85),
		},
	}

	got, err := TemporalContinuity{}.ExecuteForMedia(sc)
	if err != nil {
		t.Fatalf("ExecuteForMedia: %v", err)
	}
	// First shot has a next, middle has both, last has a previous.
	if len(got) != 4 {
		t.Fatalf("len(got)=%d, want 4", len(got))
	}
	prevs, nexts := 0, 0
	for _, c := range got {
		switch c.Reason {
		case "Previous segment":
			prevs++
		case "Next segment":
			nexts++
		default:
			t.Fatalf("unexpected reason %q", c.Reason)
		}
		if c.LabelType != types.LabelTypeShot {
			t.Fatalf("label type=%q, want shot", c.LabelType)
		}
	}
	if prevs != 2 || nexts != 2 {
		t.Fatalf("prevs=%d nexts=%d, want 2 and 2", prevs, nexts)
	}
}

func TestTemporalContinuityMediaFiltersAnchors(t *testing.T) {
	mediaID := uuid.New()
	minConf := 0.95
	sc := &StrategyContext{
		MediaID: &mediaID,
		Filter:  FilterParams{MinConfidence: &minConf},
		Shots: []*types.LabelShot{
			shot(mediaID, 0, 10, 0.5),
			shot(mediaID, 10, 20, 0.5),
		},
	}

	got, err := TemporalContinuity{}.ExecuteForMedia(sc)
	if err != nil {
		t.Fatalf("ExecuteForMedia: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("len(got)=%d, want 0 when no anchor passes the filter", len(got))
	}
}

func TestTemporalContinuityTimelineSameMedia(t *testing.T) {
	mediaID := uuid.New()
	timelineID := uuid.New()
	seed := &types.TimelineClip{ID: uuid.New(), TimelineID: timelineID, MediaID: mediaID, Start: 10, End: 20}

	immediate := poolClip(mediaID, 20.05, 28)
	later := poolClip(mediaID, 25, 30)
	tooFar := poolClip(mediaID, 31, 40)
	before := poolClip(mediaID, 5, 18)

	sc := &StrategyContext{
		TimelineID:     &timelineID,
		SeedClip:       seed,
		SeedMedia:      &types.Media{ID: mediaID},
		AvailableClips: []CandidateClip{immediate, later, tooFar, before},
	}

	got, err := TemporalContinuity{}.ExecuteForTimeline(sc)
	if err != nil {
		t.Fatalf("ExecuteForTimeline: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("len(got)=%d, want 2 (too-far and preceding clips excluded)", len(got))
	}

	byClip := map[uuid.UUID]ScoredCandidate{}
	for _, c := range got {
		byClip[*c.ClipID] = c
	}
	imm := byClip[immediate.Clip.ID]
	approx(t, imm.Score, 1.0-0.05/20)
	if imm.Reason != "Immediate continuation of the seed clip" {
		t.Fatalf("reason=%q", imm.Reason)
	}
	lat := byClip[later.Clip.ID]
	approx(t, lat.Score, 1.0-5.0/20)
}

func TestTemporalContinuityTimelineCrossMedia(t *testing.T) {
	timelineID := uuid.New()
	seedMediaID := uuid.New()
	candMediaID := uuid.New()

	seedCaptured := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	candCaptured := seedCaptured.Add(25 * time.Second)

	seed := &types.TimelineClip{ID: uuid.New(), TimelineID: timelineID, MediaID: seedMediaID, Start: 0, End: 30}
	cand := CandidateClip{
		Clip:  &types.MediaClip{ID: uuid.New(), MediaID: candMediaID, Start: 10, End: 18},
		Media: &types.Media{ID: candMediaID, CapturedAt: &candCaptured},
	}
	noTimestamp := CandidateClip{
		Clip:  &types.MediaClip{ID: uuid.New(), MediaID: uuid.New(), Start: 10, End: 18},
		Media: &types.Media{ID: uuid.New()},
	}

	sc := &StrategyContext{
		TimelineID:     &timelineID,
		SeedClip:       seed,
		SeedMedia:      &types.Media{ID: seedMediaID, CapturedAt: &seedCaptured},
		AvailableClips: []CandidateClip{cand, noTimestamp},
	}

	got, err := TemporalContinuity{}.ExecuteForTimeline(sc)
	if err != nil {
		t.Fatalf("ExecuteForTimeline: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("len(got)=%d, want 1 (clip without capture timestamp excluded)", len(got))
	}
	// Seed ends at 10:00:30 absolute; candidate starts at 10:00:35 → 5s gap.
	approx(t, got[0].Score, 0.9-5.0/100)
	if got[0].ReasonData["continuity"] != "cross_media" {
		t.Fatalf("continuity=%v, want cross_media", got[0].ReasonData["continuity"])
	}
}

func TestTemporalContinuityTimelineSkipsSeedSource(t *testing.T) {
	mediaID := uuid.New()
	timelineID := uuid.New()
	source := poolClip(mediaID, 20, 30)
	seed := &types.TimelineClip{
		ID:           uuid.New(),
		TimelineID:   timelineID,
		MediaID:      mediaID,
		Start:        10,
		End:          20,
		SourceClipID: &source.Clip.ID,
	}
	sc := &StrategyContext{
		TimelineID:     &timelineID,
		SeedClip:       seed,
		SeedMedia:      &types.Media{ID: mediaID},
		AvailableClips: []CandidateClip{source},
	}

	got, err := TemporalContinuity{}.ExecuteForTimeline(sc)
	if err != nil {
		t.Fatalf("ExecuteForTimeline: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("len(got)=%d, want 0 (seed's own source clip must not be proposed)", len(got))
	}
}
