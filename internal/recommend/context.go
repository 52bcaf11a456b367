package recommend

import (
	"github.com/google/uuid"

	"github.com/framecut/framecut-backend/internal/types"
)

// CandidateClip pairs a pool clip with its media so strategies can reach the
// media's absolute capture timestamp without further lookups.
type CandidateClip struct {
	Clip  *types.MediaClip
	Media *types.Media
}

// StrategyContext carries everything a strategy may inspect for one generation
// call: label facts, existing clips, the candidate pool and the seed. It is
// assembled once, up front, and treated as immutable — strategies only read it.
type StrategyContext struct {
	WorkspaceID uuid.UUID

	// Exactly one of MediaID / TimelineID is set.
	MediaID    *uuid.UUID
	TimelineID *uuid.UUID
	TargetMode string

	Filter FilterParams
	Search SearchParams

	Shots   []*types.LabelShot
	Faces   []*types.LabelFace
	People  []*types.LabelPerson
	Objects []*types.LabelObject
	Speech  []*types.LabelSpeech

	// Media mode: concrete clips already cut from the target media.
	ExistingClips []*types.MediaClip

	// Timeline mode: the seed clip (optional), its media, and the pool of
	// workspace clips the strategies choose continuations from.
	SeedClip       *types.TimelineClip
	SeedMedia      *types.Media
	AvailableClips []CandidateClip
}

func (c *StrategyContext) IsTimeline() bool { return c.TimelineID != nil }

// detection is a pooled face/person/object fact in a uniform shape.
type detection struct {
	MediaID    uuid.UUID
	Entity     string
	Kind       string
	Name       string
	Start      float64
	End        float64
	Confidence float64
}

// pooledDetections flattens face, person and object facts. Entity keys are
// namespaced per kind so a face cluster can never collide with an object id.
func (c *StrategyContext) pooledDetections() []detection {
	out := make([]detection, 0, len(c.Faces)+len(c.People)+len(c.Objects))
	for _, f := range c.Faces {
		entity := f.ClusterID
		if entity == "" {
			entity = f.TrackID
		}
		if entity != "" {
			entity = "face:" + entity
		}
		out = append(out, detection{
			MediaID:    f.MediaID,
			Entity:     entity,
			Kind:       types.LabelTypeFace,
			Start:      f.Start,
			End:        f.End,
			Confidence: f.Confidence,
		})
	}
	for _, p := range c.People {
		entity := p.TrackID
		if entity != "" {
			entity = "person:" + entity
		}
		out = append(out, detection{
			MediaID:    p.MediaID,
			Entity:     entity,
			Kind:       types.LabelTypePerson,
			Start:      p.Start,
			End:        p.End,
			Confidence: p.Confidence,
		})
	}
	for _, o := range c.Objects {
		entity := o.EntityID
		if entity == "" {
			entity = o.Description
		}
		if entity != "" {
			entity = "object:" + entity
		}
		out = append(out, detection{
			MediaID:    o.MediaID,
			Entity:     entity,
			Kind:       types.LabelTypeObject,
			Name:       o.Description,
			Start:      o.Start,
			End:        o.End,
			Confidence: o.Confidence,
		})
	}
	return out
}
