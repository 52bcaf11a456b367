package recommend

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/google/uuid"
)

// queryHashLen keeps the digest short enough for an index key while leaving
// collisions out of practical reach.
const queryHashLen = 32

// QueryHash digests the defining inputs of a generation request. Identical
// inputs always produce the same hash, which is what makes regeneration
// idempotent: upserts key on it and prunes spare rows carrying a stale one.
// Strategy names are sorted and the filter is canonicalized to sorted-key JSON
// so the digest is independent of caller ordering.
func QueryHash(workspaceID, targetID uuid.UUID, strategyNames []string, filter any, targetMode string) (string, error) {
	names := append([]string(nil), strategyNames...)
	sort.Strings(names)

	canonFilter, err := canonicalize(filter)
	if err != nil {
		return "", fmt.Errorf("canonicalize filter params: %w", err)
	}

	payload := map[string]any{
		"workspace_id": workspaceID.String(),
		"target_id":    targetID.String(),
		"strategies":   names,
		"filter":       canonFilter,
	}
	if targetMode != "" {
		payload["target_mode"] = targetMode
	}

	// encoding/json writes map keys in sorted order, which makes the
	// marshalled bytes canonical.
	raw, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("marshal query hash payload: %w", err)
	}
	sum := sha256.Sum256(raw)
	return hex.EncodeToString(sum[:])[:queryHashLen], nil
}

func canonicalize(v any) (any, error) {
	if v == nil {
		return nil, nil
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var out any
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	return out, nil
}
