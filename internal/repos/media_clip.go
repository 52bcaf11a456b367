package repos

import (
  "context"
  "github.com/google/uuid"
  "gorm.io/gorm"
  "github.com/framecut/framecut-backend/internal/logger"
  "github.com/framecut/framecut-backend/internal/types"
)

type MediaClipRepo interface {
  Create(ctx context.Context, tx *gorm.DB, clip *types.MediaClip) (*types.MediaClip, error)
  GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.MediaClip, error)
  GetByMediaIDs(ctx context.Context, tx *gorm.DB, mediaIDs []uuid.UUID) ([]*types.MediaClip, error)
  ListByWorkspace(ctx context.Context, tx *gorm.DB, workspaceID uuid.UUID, limit int) ([]*types.MediaClip, error)
  SoftDeleteByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) error
}

type mediaClipRepo struct {
  db  *gorm.DB
  log *logger.Logger
}

func NewMediaClipRepo(db *gorm.DB, baseLog *logger.Logger) MediaClipRepo {
  repoLog := baseLog.With("repo", "MediaClipRepo")
  return &mediaClipRepo{db: db, log: repoLog}
}

func (r *mediaClipRepo) Create(ctx context.Context, tx *gorm.DB, clip *types.MediaClip) (*types.MediaClip, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }
  if err := transaction.WithContext(ctx).Create(clip).Error; err != nil {
    return nil, err
  }
  return clip, nil
}

func (r *mediaClipRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.MediaClip, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }
  var clip types.MediaClip
  if err := transaction.WithContext(ctx).
    Where("id = ?", id).
    First(&clip).Error; err != nil {
    return nil, err
  }
  return &clip, nil
}

func (r *mediaClipRepo) GetByMediaIDs(ctx context.Context, tx *gorm.DB, mediaIDs []uuid.UUID) ([]*types.MediaClip, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }
  var results []*types.MediaClip
  if len(mediaIDs) == 0 {
    return results, nil
  }
  if err := transaction.WithContext(ctx).
    Where("media_id IN ?", mediaIDs).
    Order("start ASC").
    Find(&results).Error; err != nil {
    return nil, err
  }
  return results, nil
}

func (r *mediaClipRepo) ListByWorkspace(ctx context.Context, tx *gorm.DB, workspaceID uuid.UUID, limit int) ([]*types.MediaClip, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }
  if limit <= 0 {
    limit = 500
  }
  var results []*types.MediaClip
  if err := transaction.WithContext(ctx).
    Where("workspace_id = ?", workspaceID).
    Order("created_at DESC").
    Limit(limit).
    Find(&results).Error; err != nil {
    return nil, err
  }
  return results, nil
}

func (r *mediaClipRepo) SoftDeleteByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }
  if err := transaction.WithContext(ctx).
    Where("id = ?", id).
    Delete(&types.MediaClip{}).Error; err != nil {
    return err
  }
  return nil
}
