package recommend

import (
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/framecut/framecut-backend/internal/types"
)

func float64Ptr(f float64) *float64 { return &f }

func TestStrategiesForDefaultsToAll(t *testing.T) {
	got, err := StrategiesFor(nil)
	if err != nil {
		t.Fatalf("StrategiesFor: %v", err)
	}
	if len(got) != 4 {
		t.Fatalf("len(got)=%d, want 4", len(got))
	}
	wantOrder := []string{
		types.StrategyAdjacentShot,
		types.StrategyConfidenceDuration,
		types.StrategySameEntity,
		types.StrategyTemporalNearby,
	}
	for i, s := range got {
		if s.Name() != wantOrder[i] {
			t.Fatalf("got[%d]=%q, want %q", i, s.Name(), wantOrder[i])
		}
	}
}

func TestStrategiesForPreservesDeclarationOrder(t *testing.T) {
	// Caller order is ignored; declaration order decides.
	got, err := StrategiesFor([]string{types.StrategySameEntity, types.StrategyAdjacentShot})
	if err != nil {
		t.Fatalf("StrategiesFor: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("len(got)=%d, want 2", len(got))
	}
	if got[0].Name() != types.StrategyAdjacentShot || got[1].Name() != types.StrategySameEntity {
		t.Fatalf("order=%q,%q, want adjacent_shot,same_entity", got[0].Name(), got[1].Name())
	}
}

func TestStrategiesForRejectsUnknownNames(t *testing.T) {
	_, err := StrategiesFor([]string{"popularity"})
	var vErr *ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("err=%v, want ValidationError", err)
	}
	if vErr.Field != "strategies" {
		t.Fatalf("field=%q, want strategies", vErr.Field)
	}
}

func TestPassesFilters(t *testing.T) {
	cases := []struct {
		name       string
		labelType  string
		score      float64
		start, end float64
		filter     FilterParams
		want       bool
	}{
		{name: "no filter", labelType: "shot", score: 0.5, start: 0, end: 10, want: true},
		{name: "allowed type", labelType: "face", score: 0.5, start: 0, end: 10,
			filter: FilterParams{LabelTypes: []string{"face", "object"}}, want: true},
		{name: "blocked type", labelType: "shot", score: 0.5, start: 0, end: 10,
			filter: FilterParams{LabelTypes: []string{"face"}}, want: false},
		{name: "below min confidence", labelType: "shot", score: 0.5, start: 0, end: 10,
			filter: FilterParams{MinConfidence: float64Ptr(0.8)}, want: false},
		{name: "too short", labelType: "shot", score: 0.9, start: 0, end: 1,
			filter: FilterParams{MinDuration: float64Ptr(2)}, want: false},
		{name: "too long", labelType: "shot", score: 0.9, start: 0, end: 30,
			filter: FilterParams{MaxDuration: float64Ptr(20)}, want: false},
		{name: "within range", labelType: "shot", score: 0.9, start: 0, end: 10,
			filter: FilterParams{MinDuration: float64Ptr(2), MaxDuration: float64Ptr(20)}, want: true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := passesFilters(tc.labelType, tc.score, tc.start, tc.end, tc.filter)
			if got != tc.want {
				t.Fatalf("passesFilters=%v, want %v", got, tc.want)
			}
		})
	}
}

func TestFilterParamsValidate(t *testing.T) {
	cases := []struct {
		name    string
		filter  FilterParams
		wantErr string
	}{
		{name: "empty", filter: FilterParams{}},
		{name: "confidence out of range", filter: FilterParams{MinConfidence: float64Ptr(1.5)}, wantErr: "min_confidence"},
		{name: "negative duration", filter: FilterParams{MinDuration: float64Ptr(-1)}, wantErr: "min_duration"},
		{name: "inverted range", filter: FilterParams{MinDuration: float64Ptr(10), MaxDuration: float64Ptr(5)}, wantErr: "duration_range"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.filter.Validate()
			if tc.wantErr == "" {
				if err != nil {
					t.Fatalf("Validate: %v", err)
				}
				return
			}
			var vErr *ValidationError
			if !errors.As(err, &vErr) || vErr.Field != tc.wantErr {
				t.Fatalf("err=%v, want ValidationError on %s", err, tc.wantErr)
			}
		})
	}
}

func TestMatchExistingClip(t *testing.T) {
	clip := &types.MediaClip{ID: uuid.New(), Start: 10, End: 20}
	clips := []*types.MediaClip{clip}

	if got := matchExistingClip(clips, 10.05, 19.95); got == nil || *got != clip.ID {
		t.Fatalf("got=%v, want match within tolerance", got)
	}
	if got := matchExistingClip(clips, 10.5, 20); got != nil {
		t.Fatalf("got=%v, want nil outside tolerance", got)
	}
	if got := matchExistingClip(nil, 10, 20); got != nil {
		t.Fatalf("got=%v, want nil with no clips", got)
	}
}
