package recommend

import (
	"testing"

	"github.com/google/uuid"

	"github.com/framecut/framecut-backend/internal/types"
)

func TestTemporalNearbyMediaNeedsExistingClips(t *testing.T) {
	mediaID := uuid.New()
	sc := &StrategyContext{
		MediaID: &mediaID,
		Shots:   []*types.LabelShot{shot(mediaID, 0, 10, 0.9)},
	}

	got, err := TemporalNearby{}.ExecuteForMedia(sc)
	if err != nil {
		t.Fatalf("ExecuteForMedia: %v", err)
	}
	if got != nil {
		t.Fatalf("got=%v, want nil without anchor clips", got)
	}
}

func TestTemporalNearbyMediaScoresByDistance(t *testing.T) {
	mediaID := uuid.New()
	anchor := &types.MediaClip{ID: uuid.New(), MediaID: mediaID, Start: 10, End: 20}
	sc := &StrategyContext{
		MediaID:       &mediaID,
		Search:        SearchParams{TimeWindow: 10},
		ExistingClips: []*types.MediaClip{anchor},
		Shots: []*types.LabelShot{
			shot(mediaID, 25, 30, 0.8), // 5s after the anchor
			shot(mediaID, 15, 22, 0.9), // overlaps the anchor, already covered
			shot(mediaID, 35, 40, 0.9), // beyond the window
		},
	}

	got, err := TemporalNearby{}.ExecuteForMedia(sc)
	if err != nil {
		t.Fatalf("ExecuteForMedia: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("len(got)=%d, want 1", len(got))
	}
	approx(t, got[0].Score, 0.8*(1-5.0/10))
	if got[0].ReasonData["anchor_clip_id"] != anchor.ID.String() {
		t.Fatalf("anchor_clip_id=%v, want %s", got[0].ReasonData["anchor_clip_id"], anchor.ID)
	}
}

func TestTemporalNearbyMediaDefaultWindow(t *testing.T) {
	mediaID := uuid.New()
	anchor := &types.MediaClip{ID: uuid.New(), MediaID: mediaID, Start: 0, End: 10}
	sc := &StrategyContext{
		MediaID:       &mediaID,
		ExistingClips: []*types.MediaClip{anchor},
		Shots:         []*types.LabelShot{shot(mediaID, 40, 45, 1.0)},
	}

	got, err := TemporalNearby{}.ExecuteForMedia(sc)
	if err != nil {
		t.Fatalf("ExecuteForMedia: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("len(got)=%d, want 1 under the default 60s window", len(got))
	}
	approx(t, got[0].Score, 1-30.0/60)
}

func TestTemporalNearbyTimelineUsesCallerWindow(t *testing.T) {
	mediaID := uuid.New()
	timelineID := uuid.New()
	seed := &types.TimelineClip{ID: uuid.New(), TimelineID: timelineID, MediaID: mediaID, Start: 10, End: 20}
	near := poolClip(mediaID, 25, 30)  // 5s gap, inside the 10s window
	far := poolClip(mediaID, 35, 40)   // 15s gap, outside it

	sc := &StrategyContext{
		TimelineID:     &timelineID,
		Search:         SearchParams{TimeWindow: 10},
		SeedClip:       seed,
		SeedMedia:      &types.Media{ID: mediaID},
		AvailableClips: []CandidateClip{near, far},
	}

	got, err := TemporalNearby{}.ExecuteForTimeline(sc)
	if err != nil {
		t.Fatalf("ExecuteForTimeline: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("len(got)=%d, want 1", len(got))
	}
	if *got[0].ClipID != near.Clip.ID {
		t.Fatalf("clip=%v, want the near clip", got[0].ClipID)
	}
	approx(t, got[0].Score, 1-5.0/20)
}

func TestWindowDistance(t *testing.T) {
	cases := []struct {
		name                       string
		aStart, aEnd, bStart, bEnd float64
		want                       float64
		ok                         bool
	}{
		{name: "after", aStart: 0, aEnd: 10, bStart: 15, bEnd: 20, want: 5, ok: true},
		{name: "before", aStart: 10, aEnd: 20, bStart: 0, bEnd: 5, want: 5, ok: true},
		{name: "touching", aStart: 0, aEnd: 10, bStart: 10, bEnd: 15, want: 0, ok: true},
		{name: "overlapping", aStart: 0, aEnd: 10, bStart: 5, bEnd: 15, want: 0, ok: false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := windowDistance(tc.aStart, tc.aEnd, tc.bStart, tc.bEnd)
			if got != tc.want || ok != tc.ok {
				t.Fatalf("windowDistance=(%v,%v), want (%v,%v)", got, ok, tc.want, tc.ok)
			}
		})
	}
}
