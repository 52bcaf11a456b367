package types

import (
	"time"
	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type LabelFace struct {
	ID          uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	WorkspaceID uuid.UUID `gorm:"type:uuid;not null;index" json:"workspace_id"`
	MediaID     uuid.UUID `gorm:"type:uuid;not null;index" json:"media_id"`
	Media       *Media    `gorm:"constraint:OnDelete:CASCADE;foreignKey:MediaID;references:ID" json:"media,omitempty"`
	// TrackID identifies the detection track within one media; ClusterID groups
	// tracks of the same face across media (assigned by the labeling pipeline).
	TrackID    string         `gorm:"column:track_id;index" json:"track_id"`
	ClusterID  string         `gorm:"column:cluster_id;index" json:"cluster_id"`
	Start      float64        `gorm:"column:start;not null" json:"start"`
	End        float64        `gorm:"column:end;not null" json:"end"`
	Confidence float64        `gorm:"column:confidence;not null" json:"confidence"`
	Payload    datatypes.JSON `gorm:"column:payload;type:jsonb" json:"payload"`
	CreatedAt  time.Time      `gorm:"not null;default:now()" json:"created_at"`
}

func (LabelFace) TableName() string { return "label_face" }
