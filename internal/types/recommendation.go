package types

import (
	"time"
	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Strategy names. The set is closed; the persisted columns are constrained to it.
const (
	StrategySameEntity         = "same_entity"
	StrategyAdjacentShot       = "adjacent_shot"
	StrategyTemporalNearby     = "temporal_nearby"
	StrategyConfidenceDuration = "confidence_duration"
)

// Label types a recommendation can point at.
const (
	LabelTypeObject  = "object"
	LabelTypeShot    = "shot"
	LabelTypePerson  = "person"
	LabelTypeSpeech  = "speech"
	LabelTypeFace    = "face"
	LabelTypeSegment = "segment"
	LabelTypeText    = "text"
)

// Target modes for timeline recommendations.
const (
	TargetModeAppend  = "append"
	TargetModeReplace = "replace"
)

// MediaRecommendation proposes a [start,end) window of a single media item.
// (query_hash, start, end) is the dedup key: regenerating with identical inputs
// updates rows in place instead of inserting duplicates.
type MediaRecommendation struct {
	ID          uuid.UUID  `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	WorkspaceID uuid.UUID  `gorm:"type:uuid;not null;index" json:"workspace_id"`
	MediaID     uuid.UUID  `gorm:"type:uuid;not null;index" json:"media_id"`
	Media       *Media     `gorm:"constraint:OnDelete:CASCADE;foreignKey:MediaID;references:ID" json:"media,omitempty"`
	Strategy    string     `gorm:"column:strategy;not null;index" json:"strategy"`
	LabelType   string     `gorm:"column:label_type;not null" json:"label_type"`
	Start       float64    `gorm:"column:start;not null;uniqueIndex:uniq_media_rec_window" json:"start"`
	End         float64    `gorm:"column:end;not null;uniqueIndex:uniq_media_rec_window" json:"end"`
	ClipID      *uuid.UUID `gorm:"type:uuid;column:clip_id" json:"clip_id,omitempty"`
	Score       float64    `gorm:"column:score;not null" json:"score"`
	Rank        int        `gorm:"column:rank;not null" json:"rank"`
	Reason      string     `gorm:"column:reason;size:500" json:"reason"`
	ReasonData  datatypes.JSON `gorm:"column:reason_data;type:jsonb" json:"reason_data"`
	QueryHash   string         `gorm:"column:query_hash;not null;index;uniqueIndex:uniq_media_rec_window" json:"query_hash"`
	Version     int            `gorm:"column:version;not null;default:1" json:"version"`
	AcceptedAt  *time.Time     `gorm:"column:accepted_at" json:"accepted_at,omitempty"`
	DismissedAt *time.Time     `gorm:"column:dismissed_at" json:"dismissed_at,omitempty"`
	CreatedAt   time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"not null;default:now()" json:"updated_at"`
}

func (MediaRecommendation) TableName() string { return "media_recommendation" }

// TimelineRecommendation proposes pulling an existing media clip into a
// timeline, either appended after the current clips or replacing the seed.
// ClipID is the proposed media clip and doubles as the dedup key with the
// query hash; TimelineClipID is set once the proposal is accepted.
type TimelineRecommendation struct {
	ID             uuid.UUID  `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	WorkspaceID    uuid.UUID  `gorm:"type:uuid;not null;index" json:"workspace_id"`
	TimelineID     uuid.UUID  `gorm:"type:uuid;not null;index" json:"timeline_id"`
	Timeline       *Timeline  `gorm:"constraint:OnDelete:CASCADE;foreignKey:TimelineID;references:ID" json:"timeline,omitempty"`
	Strategy       string     `gorm:"column:strategy;not null;index" json:"strategy"`
	LabelType      string     `gorm:"column:label_type;not null" json:"label_type"`
	Start          float64    `gorm:"column:start;not null" json:"start"`
	End            float64    `gorm:"column:end;not null" json:"end"`
	ClipID         uuid.UUID  `gorm:"type:uuid;column:clip_id;not null;uniqueIndex:uniq_timeline_rec_clip" json:"clip_id"`
	Clip           *MediaClip `gorm:"foreignKey:ClipID;references:ID" json:"clip,omitempty"`
	TimelineClipID *uuid.UUID `gorm:"type:uuid;column:timeline_clip_id" json:"timeline_clip_id,omitempty"`
	Score          float64    `gorm:"column:score;not null" json:"score"`
	Rank           int        `gorm:"column:rank;not null" json:"rank"`
	Reason         string     `gorm:"column:reason;size:500" json:"reason"`
	ReasonData     datatypes.JSON `gorm:"column:reason_data;type:jsonb" json:"reason_data"`
	QueryHash      string         `gorm:"column:query_hash;not null;index;uniqueIndex:uniq_timeline_rec_clip" json:"query_hash"`
	Version        int            `gorm:"column:version;not null;default:1" json:"version"`
	TargetMode     string         `gorm:"column:target_mode;not null;default:'append'" json:"target_mode"`
	SeedClipID     *uuid.UUID     `gorm:"type:uuid;column:seed_clip_id" json:"seed_clip_id,omitempty"`
	AcceptedAt     *time.Time     `gorm:"column:accepted_at" json:"accepted_at,omitempty"`
	DismissedAt    *time.Time     `gorm:"column:dismissed_at" json:"dismissed_at,omitempty"`
	CreatedAt      time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt      time.Time      `gorm:"not null;default:now()" json:"updated_at"`
}

func (TimelineRecommendation) TableName() string { return "timeline_recommendation" }
