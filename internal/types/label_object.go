package types

import (
	"time"
	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type LabelObject struct {
	ID          uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	WorkspaceID uuid.UUID `gorm:"type:uuid;not null;index" json:"workspace_id"`
	MediaID     uuid.UUID `gorm:"type:uuid;not null;index" json:"media_id"`
	Media       *Media    `gorm:"constraint:OnDelete:CASCADE;foreignKey:MediaID;references:ID" json:"media,omitempty"`
	// EntityID is the provider's stable entity identifier (e.g. a knowledge
	// graph mid); Description is its human-readable name.
	EntityID    string         `gorm:"column:entity_id;index" json:"entity_id"`
	Description string         `gorm:"column:description" json:"description"`
	Start       float64        `gorm:"column:start;not null" json:"start"`
	End         float64        `gorm:"column:end;not null" json:"end"`
	Confidence  float64        `gorm:"column:confidence;not null" json:"confidence"`
	Payload     datatypes.JSON `gorm:"column:payload;type:jsonb" json:"payload"`
	CreatedAt   time.Time      `gorm:"not null;default:now()" json:"created_at"`
}

func (LabelObject) TableName() string { return "label_object" }
