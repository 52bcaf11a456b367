package recommend

import (
	"testing"

	"github.com/google/uuid"

	"github.com/framecut/framecut-backend/internal/types"
)

func faceLabel(mediaID uuid.UUID, cluster string, start, end, conf float64) *types.LabelFace {
	return &types.LabelFace{ID: uuid.New(), MediaID: mediaID, ClusterID: cluster, Start: start, End: end, Confidence: conf}
}

func personLabel(mediaID uuid.UUID, track string, start, end, conf float64) *types.LabelPerson {
	return &types.LabelPerson{ID: uuid.New(), MediaID: mediaID, TrackID: track, Start: start, End: end, Confidence: conf}
}

func objectLabel(mediaID uuid.UUID, entity, desc string, start, end, conf float64) *types.LabelObject {
	return &types.LabelObject{ID: uuid.New(), MediaID: mediaID, EntityID: entity, Description: desc, Start: start, End: end, Confidence: conf}
}

func TestConfidenceDurationMediaAppliesFloor(t *testing.T) {
	mediaID := uuid.New()
	sc := &StrategyContext{
		MediaID: &mediaID,
		Faces:   []*types.LabelFace{faceLabel(mediaID, "c1", 0, 4, 0.95)},
		People:  []*types.LabelPerson{personLabel(mediaID, "p1", 10, 14, 0.7)},
		Objects: []*types.LabelObject{objectLabel(mediaID, "o1", "dog", 20, 24, 0.5)},
	}

	got, err := ConfidenceDuration{}.ExecuteForMedia(sc)
	if err != nil {
		t.Fatalf("ExecuteForMedia: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("len(got)=%d, want 2 (0.5-confidence detection excluded)", len(got))
	}
	if got[0].LabelType != types.LabelTypeFace || got[0].Score != 0.95 {
		t.Fatalf("got[0]={%q, %v}, want {face, 0.95}", got[0].LabelType, got[0].Score)
	}
	if got[0].Reason != "High-confidence face detection" {
		t.Fatalf("reason=%q", got[0].Reason)
	}
	if got[1].LabelType != types.LabelTypePerson || got[1].Score != 0.7 {
		t.Fatalf("got[1]={%q, %v}, want {person, 0.7}", got[1].LabelType, got[1].Score)
	}
}

func TestConfidenceDurationMediaNamesEntities(t *testing.T) {
	mediaID := uuid.New()
	sc := &StrategyContext{
		MediaID: &mediaID,
		Objects: []*types.LabelObject{objectLabel(mediaID, "o1", "dog", 0, 5, 0.9)},
	}

	got, err := ConfidenceDuration{}.ExecuteForMedia(sc)
	if err != nil {
		t.Fatalf("ExecuteForMedia: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("len(got)=%d, want 1", len(got))
	}
	if got[0].Reason != "High-confidence object detection (dog)" {
		t.Fatalf("reason=%q", got[0].Reason)
	}
}

func TestConfidenceDurationTimelineScoresDurationAffinity(t *testing.T) {
	timelineID := uuid.New()
	seedMediaID := uuid.New()
	candMediaID := uuid.New()

	seed := &types.TimelineClip{ID: uuid.New(), TimelineID: timelineID, MediaID: seedMediaID, Start: 0, End: 10}
	cand := poolClip(candMediaID, 100, 108)

	sc := &StrategyContext{
		TimelineID: &timelineID,
		SeedClip:   seed,
		SeedMedia:  &types.Media{ID: seedMediaID},
		Faces:      []*types.LabelFace{faceLabel(candMediaID, "c1", 101, 105, 0.9)},
		People:     []*types.LabelPerson{personLabel(candMediaID, "p1", 102, 104, 0.7)},
		AvailableClips: []CandidateClip{cand},
	}

	got, err := ConfidenceDuration{}.ExecuteForTimeline(sc)
	if err != nil {
		t.Fatalf("ExecuteForTimeline: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("len(got)=%d, want 1", len(got))
	}
	// mean confidence 0.8; duration score 1-|8-10|/5 = 0.6; score (0.8+0.6)/2.
	approx(t, got[0].Score, 0.7)
	if got[0].ReasonData["dominant_kind"] != "face" {
		t.Fatalf("dominant_kind=%v, want face (lexicographic tie-break)", got[0].ReasonData["dominant_kind"])
	}
}

func TestConfidenceDurationTimelineExcludesWeakClips(t *testing.T) {
	timelineID := uuid.New()
	seedMediaID := uuid.New()
	weakMediaID := uuid.New()
	emptyMediaID := uuid.New()

	seed := &types.TimelineClip{ID: uuid.New(), TimelineID: timelineID, MediaID: seedMediaID, Start: 0, End: 10}
	weak := poolClip(weakMediaID, 0, 10)
	empty := poolClip(emptyMediaID, 0, 10)

	sc := &StrategyContext{
		TimelineID: &timelineID,
		SeedClip:   seed,
		SeedMedia:  &types.Media{ID: seedMediaID},
		Faces: []*types.LabelFace{
			faceLabel(weakMediaID, "c1", 1, 3, 0.5),
			faceLabel(weakMediaID, "c2", 4, 6, 0.6),
		},
		AvailableClips: []CandidateClip{weak, empty},
	}

	got, err := ConfidenceDuration{}.ExecuteForTimeline(sc)
	if err != nil {
		t.Fatalf("ExecuteForTimeline: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("len(got)=%d, want 0 (mean 0.55 below floor, other clip has no detections)", len(got))
	}
}
