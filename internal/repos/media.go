package repos

import (
  "context"
  "github.com/google/uuid"
  "gorm.io/gorm"
  "github.com/framecut/framecut-backend/internal/logger"
  "github.com/framecut/framecut-backend/internal/types"
)

type MediaRepo interface {
  Create(ctx context.Context, tx *gorm.DB, media *types.Media) (*types.Media, error)
  GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Media, error)
  GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.Media, error)
  ListByWorkspace(ctx context.Context, tx *gorm.DB, workspaceID uuid.UUID, limit, offset int) ([]*types.Media, error)
  Update(ctx context.Context, tx *gorm.DB, media *types.Media) error
  SoftDeleteByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) error
}

type mediaRepo struct {
  db  *gorm.DB
  log *logger.Logger
}

func NewMediaRepo(db *gorm.DB, baseLog *logger.Logger) MediaRepo {
  repoLog := baseLog.With("repo", "MediaRepo")
  return &mediaRepo{db: db, log: repoLog}
}

func (r *mediaRepo) Create(ctx context.Context, tx *gorm.DB, media *types.Media) (*types.Media, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }
  if err := transaction.WithContext(ctx).Create(media).Error; err != nil {
    return nil, err
  }
  return media, nil
}

func (r *mediaRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Media, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }
  var media types.Media
  if err := transaction.WithContext(ctx).
    Where("id = ?", id).
    First(&media).Error; err != nil {
    return nil, err
  }
  return &media, nil
}

func (r *mediaRepo) GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.Media, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }
  var results []*types.Media
  if len(ids) == 0 {
    return results, nil
  }
  if err := transaction.WithContext(ctx).
    Where("id IN ?", ids).
    Find(&results).Error; err != nil {
    return nil, err
  }
  return results, nil
}

func (r *mediaRepo) ListByWorkspace(ctx context.Context, tx *gorm.DB, workspaceID uuid.UUID, limit, offset int) ([]*types.Media, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }
  if limit <= 0 {
    limit = 100
  }
  var results []*types.Media
  if err := transaction.WithContext(ctx).
    Where("workspace_id = ?", workspaceID).
    Order("created_at DESC").
    Limit(limit).
    Offset(offset).
    Find(&results).Error; err != nil {
    return nil, err
  }
  return results, nil
}

func (r *mediaRepo) Update(ctx context.Context, tx *gorm.DB, media *types.Media) error {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }
  if err := transaction.WithContext(ctx).Save(media).Error; err != nil {
    return err
  }
  return nil
}

func (r *mediaRepo) SoftDeleteByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }
  if err := transaction.WithContext(ctx).
    Where("id = ?", id).
    Delete(&types.Media{}).Error; err != nil {
    return err
  }
  return nil
}
