package recommend

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound covers missing targets/recommendations and cross-workspace access.
	ErrNotFound = errors.New("not found")
	// ErrInvalidState covers accept/dismiss attempts on a terminal row.
	ErrInvalidState = errors.New("invalid state")
)

// ValidationError reports malformed filter or search parameters.
type ValidationError struct {
	Field string
	Msg   string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("invalid parameters: %s", e.Msg)
	}
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Msg)
}

// StrategyExecutionError wraps the first failing strategy's error. A single
// failure aborts the whole generation call; partial results are never returned.
type StrategyExecutionError struct {
	Strategy string
	Err      error
}

func (e *StrategyExecutionError) Error() string {
	return fmt.Sprintf("strategy %s: %v", e.Strategy, e.Err)
}

func (e *StrategyExecutionError) Unwrap() error { return e.Err }

// PersistenceError wraps upsert/prune I/O failures.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persistence %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }
