package types

import (
	"time"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Workspace struct {
	ID          uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	OwnerUserID uuid.UUID      `gorm:"type:uuid;not null;index" json:"owner_user_id"`
	Owner       *User          `gorm:"constraint:OnDelete:CASCADE;foreignKey:OwnerUserID;references:ID" json:"owner,omitempty"`
	Name        string         `gorm:"column:name;not null" json:"name"`
	CreatedAt   time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (Workspace) TableName() string { return "workspace" }
