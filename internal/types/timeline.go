package types

import (
	"time"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Timeline struct {
	ID          uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	WorkspaceID uuid.UUID      `gorm:"type:uuid;not null;index" json:"workspace_id"`
	Workspace   *Workspace     `gorm:"constraint:OnDelete:CASCADE;foreignKey:WorkspaceID;references:ID" json:"workspace,omitempty"`
	Name        string         `gorm:"column:name;not null" json:"name"`
	Status      string         `gorm:"column:status;not null;default:'draft'" json:"status"`
	CreatedAt   time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (Timeline) TableName() string { return "timeline" }
