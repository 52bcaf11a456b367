package repos

import (
  "context"
  "github.com/google/uuid"
  "gorm.io/gorm"
  "github.com/framecut/framecut-backend/internal/logger"
  "github.com/framecut/framecut-backend/internal/types"
)

type WorkspaceRepo interface {
  Create(ctx context.Context, tx *gorm.DB, ws *types.Workspace) (*types.Workspace, error)
  GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Workspace, error)
  ListByOwner(ctx context.Context, tx *gorm.DB, ownerID uuid.UUID) ([]*types.Workspace, error)
}

type workspaceRepo struct {
  db  *gorm.DB
  log *logger.Logger
}

func NewWorkspaceRepo(db *gorm.DB, baseLog *logger.Logger) WorkspaceRepo {
  repoLog := baseLog.With("repo", "WorkspaceRepo")
  return &workspaceRepo{db: db, log: repoLog}
}

func (r *workspaceRepo) Create(ctx context.Context, tx *gorm.DB, ws *types.Workspace) (*types.Workspace, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }
  if err := transaction.WithContext(ctx).Create(ws).Error; err != nil {
    return nil, err
  }
  return ws, nil
}

func (r *workspaceRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Workspace, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }
  var ws types.Workspace
  if err := transaction.WithContext(ctx).
    Where("id = ?", id).
    First(&ws).Error; err != nil {
    return nil, err
  }
  return &ws, nil
}

func (r *workspaceRepo) ListByOwner(ctx context.Context, tx *gorm.DB, ownerID uuid.UUID) ([]*types.Workspace, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }
  var results []*types.Workspace
  if err := transaction.WithContext(ctx).
    Where("owner_user_id = ?", ownerID).
    Order("created_at ASC").
    Find(&results).Error; err != nil {
    return nil, err
  }
  return results, nil
}
