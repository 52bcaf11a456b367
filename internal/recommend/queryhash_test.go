package recommend

import (
	"testing"

	"github.com/google/uuid"
)

func TestQueryHashDeterministic(t *testing.T) {
	ws := uuid.New()
	target := uuid.New()
	filter := FilterParams{MinConfidence: float64Ptr(0.8), LabelTypes: []string{"face"}}

	a, err := QueryHash(ws, target, []string{"same_entity", "adjacent_shot"}, filter, "")
	if err != nil {
		t.Fatalf("QueryHash: %v", err)
	}
	b, err := QueryHash(ws, target, []string{"same_entity", "adjacent_shot"}, filter, "")
	if err != nil {
		t.Fatalf("QueryHash: %v", err)
	}
	if a != b {
		t.Fatalf("hashes differ for identical inputs: %q vs %q", a, b)
	}
	if len(a) != queryHashLen {
		t.Fatalf("len(hash)=%d, want %d", len(a), queryHashLen)
	}
}

func TestQueryHashIgnoresStrategyOrder(t *testing.T) {
	ws := uuid.New()
	target := uuid.New()

	a, err := QueryHash(ws, target, []string{"same_entity", "adjacent_shot"}, FilterParams{}, "")
	if err != nil {
		t.Fatalf("QueryHash: %v", err)
	}
	b, err := QueryHash(ws, target, []string{"adjacent_shot", "same_entity"}, FilterParams{}, "")
	if err != nil {
		t.Fatalf("QueryHash: %v", err)
	}
	if a != b {
		t.Fatalf("strategy order changed the hash: %q vs %q", a, b)
	}
}

func TestQueryHashVariesWithInputs(t *testing.T) {
	ws := uuid.New()
	target := uuid.New()

	base, err := QueryHash(ws, target, []string{"same_entity"}, FilterParams{}, "")
	if err != nil {
		t.Fatalf("QueryHash: %v", err)
	}

	variants := map[string]func() (string, error){
		"different target": func() (string, error) {
			return QueryHash(ws, uuid.New(), []string{"same_entity"}, FilterParams{}, "")
		},
		"different strategies": func() (string, error) {
			return QueryHash(ws, target, []string{"adjacent_shot"}, FilterParams{}, "")
		},
		"different filter": func() (string, error) {
			return QueryHash(ws, target, []string{"same_entity"}, FilterParams{MinConfidence: float64Ptr(0.9)}, "")
		},
		"different target mode": func() (string, error) {
			return QueryHash(ws, target, []string{"same_entity"}, FilterParams{}, "replace")
		},
	}
	for name, fn := range variants {
		got, err := fn()
		if err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		if got == base {
			t.Fatalf("%s: hash did not change", name)
		}
	}
}

func TestQueryHashNilFilter(t *testing.T) {
	ws := uuid.New()
	target := uuid.New()
	if _, err := QueryHash(ws, target, nil, nil, ""); err != nil {
		t.Fatalf("QueryHash with nil filter: %v", err)
	}
}
