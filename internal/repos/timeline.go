package repos

import (
  "context"
  "github.com/google/uuid"
  "gorm.io/gorm"
  "github.com/framecut/framecut-backend/internal/logger"
  "github.com/framecut/framecut-backend/internal/types"
)

type TimelineRepo interface {
  Create(ctx context.Context, tx *gorm.DB, timeline *types.Timeline) (*types.Timeline, error)
  GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Timeline, error)
  ListByWorkspace(ctx context.Context, tx *gorm.DB, workspaceID uuid.UUID) ([]*types.Timeline, error)
}

type timelineRepo struct {
  db  *gorm.DB
  log *logger.Logger
}

func NewTimelineRepo(db *gorm.DB, baseLog *logger.Logger) TimelineRepo {
  repoLog := baseLog.With("repo", "TimelineRepo")
  return &timelineRepo{db: db, log: repoLog}
}

func (r *timelineRepo) Create(ctx context.Context, tx *gorm.DB, timeline *types.Timeline) (*types.Timeline, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }
  if err := transaction.WithContext(ctx).Create(timeline).Error; err != nil {
    return nil, err
  }
  return timeline, nil
}

func (r *timelineRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Timeline, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }
  var timeline types.Timeline
  if err := transaction.WithContext(ctx).
    Where("id = ?", id).
    First(&timeline).Error; err != nil {
    return nil, err
  }
  return &timeline, nil
}

func (r *timelineRepo) ListByWorkspace(ctx context.Context, tx *gorm.DB, workspaceID uuid.UUID) ([]*types.Timeline, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }
  var results []*types.Timeline
  if err := transaction.WithContext(ctx).
    Where("workspace_id = ?", workspaceID).
    Order("created_at DESC").
    Find(&results).Error; err != nil {
    return nil, err
  }
  return results, nil
}
