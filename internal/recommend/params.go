package recommend

// DefaultTimeWindow is the adjacency window (seconds) used by temporal_nearby
// when the caller does not supply one.
const DefaultTimeWindow = 60.0

// FilterParams narrow which label facts may produce candidates.
type FilterParams struct {
	LabelTypes    []string `json:"label_types,omitempty"`
	MinConfidence *float64 `json:"min_confidence,omitempty"`
	MinDuration   *float64 `json:"min_duration,omitempty"`
	MaxDuration   *float64 `json:"max_duration,omitempty"`
}

func (f FilterParams) Validate() error {
	if f.MinConfidence != nil && (*f.MinConfidence < 0 || *f.MinConfidence > 1) {
		return &ValidationError{Field: "min_confidence", Msg: "must be within [0,1]"}
	}
	if f.MinDuration != nil && *f.MinDuration < 0 {
		return &ValidationError{Field: "min_duration", Msg: "must be non-negative"}
	}
	if f.MaxDuration != nil && *f.MaxDuration < 0 {
		return &ValidationError{Field: "max_duration", Msg: "must be non-negative"}
	}
	if f.MinDuration != nil && f.MaxDuration != nil && *f.MinDuration > *f.MaxDuration {
		return &ValidationError{Field: "duration_range", Msg: "min_duration exceeds max_duration"}
	}
	return nil
}

// SearchParams extend FilterParams for timeline generation.
type SearchParams struct {
	FilterParams
	TimeWindow float64 `json:"time_window,omitempty"`
}

func (s SearchParams) Validate() error {
	if s.TimeWindow < 0 {
		return &ValidationError{Field: "time_window", Msg: "must be non-negative"}
	}
	return s.FilterParams.Validate()
}

func (s SearchParams) EffectiveTimeWindow() float64 {
	if s.TimeWindow <= 0 {
		return DefaultTimeWindow
	}
	return s.TimeWindow
}
