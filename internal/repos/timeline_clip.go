package repos

import (
  "context"
  "github.com/google/uuid"
  "gorm.io/gorm"
  "github.com/framecut/framecut-backend/internal/logger"
  "github.com/framecut/framecut-backend/internal/types"
)

type TimelineClipRepo interface {
  Create(ctx context.Context, tx *gorm.DB, clip *types.TimelineClip) (*types.TimelineClip, error)
  GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.TimelineClip, error)
  GetByTimelineIDs(ctx context.Context, tx *gorm.DB, timelineIDs []uuid.UUID) ([]*types.TimelineClip, error)
  MaxPosition(ctx context.Context, tx *gorm.DB, timelineID uuid.UUID) (int, error)
  Update(ctx context.Context, tx *gorm.DB, clip *types.TimelineClip) error
  SoftDeleteByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) error
}

type timelineClipRepo struct {
  db  *gorm.DB
  log *logger.Logger
}

func NewTimelineClipRepo(db *gorm.DB, baseLog *logger.Logger) TimelineClipRepo {
  repoLog := baseLog.With("repo", "TimelineClipRepo")
  return &timelineClipRepo{db: db, log: repoLog}
}

func (r *timelineClipRepo) Create(ctx context.Context, tx *gorm.DB, clip *types.TimelineClip) (*types.TimelineClip, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }
  if err := transaction.WithContext(ctx).Create(clip).Error; err != nil {
    return nil, err
  }
  return clip, nil
}

func (r *timelineClipRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.TimelineClip, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }
  var clip types.TimelineClip
  if err := transaction.WithContext(ctx).
    Where("id = ?", id).
    First(&clip).Error; err != nil {
    return nil, err
  }
  return &clip, nil
}

func (r *timelineClipRepo) GetByTimelineIDs(ctx context.Context, tx *gorm.DB, timelineIDs []uuid.UUID) ([]*types.TimelineClip, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }
  var results []*types.TimelineClip
  if len(timelineIDs) == 0 {
    return results, nil
  }
  if err := transaction.WithContext(ctx).
    Where("timeline_id IN ?", timelineIDs).
    Order("position ASC").
    Find(&results).Error; err != nil {
    return nil, err
  }
  return results, nil
}

func (r *timelineClipRepo) MaxPosition(ctx context.Context, tx *gorm.DB, timelineID uuid.UUID) (int, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }
  var max *int
  if err := transaction.WithContext(ctx).
    Model(&types.TimelineClip{}).
    Select("MAX(position)").
    Where("timeline_id = ?", timelineID).
    Scan(&max).Error; err != nil {
    return 0, err
  }
  if max == nil {
    return -1, nil
  }
  return *max, nil
}

func (r *timelineClipRepo) Update(ctx context.Context, tx *gorm.DB, clip *types.TimelineClip) error {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }
  if err := transaction.WithContext(ctx).Save(clip).Error; err != nil {
    return err
  }
  return nil
}

func (r *timelineClipRepo) SoftDeleteByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }
  if err := transaction.WithContext(ctx).
    Where("id = ?", id).
    Delete(&types.TimelineClip{}).Error; err != nil {
    return err
  }
  return nil
}
