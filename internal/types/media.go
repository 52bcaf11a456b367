package types

import (
	"time"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	MediaStatusUploaded = "uploaded"
	MediaStatusLabeling = "labeling"
	MediaStatusLabeled  = "labeled"
	MediaStatusFailed   = "failed"
)

type Media struct {
	ID              uuid.UUID      `gorm:"type:uuid;default:uuid_generate_v4();primaryKey" json:"id"`
	WorkspaceID     uuid.UUID      `gorm:"type:uuid;not null;index" json:"workspace_id"`
	Workspace       *Workspace     `gorm:"constraint:OnDelete:CASCADE;foreignKey:WorkspaceID;references:ID" json:"workspace,omitempty"`
	OriginalName    string         `gorm:"column:original_name;not null" json:"original_name"`
	MimeType        string         `gorm:"column:mime_type" json:"mime_type"`
	SizeBytes       int64          `gorm:"column:size_bytes" json:"size_bytes"`
	StorageKey      string         `gorm:"column:storage_key;not null" json:"storage_key"`
	FileURL         string         `gorm:"column:file_url" json:"file_url"`
	DurationSeconds float64        `gorm:"column:duration_seconds" json:"duration_seconds"`
	// CapturedAt is the absolute capture timestamp of the footage (camera clock),
	// not the upload time. Cross-media adjacency scoring depends on it.
	CapturedAt *time.Time     `gorm:"column:captured_at" json:"captured_at,omitempty"`
	Status     string         `gorm:"column:status;not null;default:'uploaded'" json:"status"`
	CreatedAt  time.Time      `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt  time.Time      `gorm:"not null;default:now()" json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"deleted_at,omitempty"`
}

func (Media) TableName() string { return "media" }
