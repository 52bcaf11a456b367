package types

import (
	"time"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type TimelineClip struct {
	ID          uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	WorkspaceID uuid.UUID `gorm:"type:uuid;not null;index" json:"workspace_id"`
	TimelineID  uuid.UUID `gorm:"type:uuid;not null;index" json:"timeline_id"`
	Timeline    *Timeline `gorm:"constraint:OnDelete:CASCADE;foreignKey:TimelineID;references:ID" json:"timeline,omitempty"`
	MediaID     uuid.UUID `gorm:"type:uuid;not null;index" json:"media_id"`
	Media       *Media    `gorm:"constraint:OnDelete:CASCADE;foreignKey:MediaID;references:ID" json:"media,omitempty"`
	Start       float64   `gorm:"column:start;not null" json:"start"`
	End         float64   `gorm:"column:end;not null" json:"end"`
	Position    int       `gorm:"column:position;not null;default:0" json:"position"`
	// SourceClipID links back to the media clip this timeline clip was cut from,
	// when it was materialized from an accepted recommendation.
	SourceClipID   *uuid.UUID     `gorm:"type:uuid;column:source_clip_id" json:"source_clip_id,omitempty"`
	SourceStrategy string         `gorm:"column:source_strategy" json:"source_strategy"`
	Score          float64        `gorm:"column:score" json:"score"`
	Provenance     datatypes.JSON `gorm:"column:provenance;type:jsonb" json:"provenance"`
	CreatedAt      time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt      time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (TimelineClip) TableName() string { return "timeline_clip" }
