package types

import (
	"time"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type MediaClip struct {
	ID          uuid.UUID  `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	WorkspaceID uuid.UUID  `gorm:"type:uuid;not null;index" json:"workspace_id"`
	MediaID     uuid.UUID  `gorm:"type:uuid;not null;index" json:"media_id"`
	Media       *Media     `gorm:"constraint:OnDelete:CASCADE;foreignKey:MediaID;references:ID" json:"media,omitempty"`
	Name        string     `gorm:"column:name" json:"name"`
	Start       float64    `gorm:"column:start;not null" json:"start"`
	End         float64    `gorm:"column:end;not null" json:"end"`
	LabelType   string     `gorm:"column:label_type" json:"label_type"`
	// SourceStrategy, Score and Provenance are set when the clip was materialized
	// from an accepted recommendation.
	SourceStrategy string         `gorm:"column:source_strategy" json:"source_strategy"`
	Score          float64        `gorm:"column:score" json:"score"`
	Provenance     datatypes.JSON `gorm:"column:provenance;type:jsonb" json:"provenance"`
	CreatedAt      time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt      time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (MediaClip) TableName() string { return "media_clip" }
