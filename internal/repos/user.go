package repos

import (
  "context"
  "github.com/google/uuid"
  "gorm.io/gorm"
  "github.com/framecut/framecut-backend/internal/logger"
  "github.com/framecut/framecut-backend/internal/types"
)

type UserRepo interface {
  Create(ctx context.Context, tx *gorm.DB, user *types.User) (*types.User, error)
  GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.User, error)
  GetByEmail(ctx context.Context, tx *gorm.DB, email string) (*types.User, error)
  EmailExists(ctx context.Context, tx *gorm.DB, email string) (bool, error)
}

type userRepo struct {
  db  *gorm.DB
  log *logger.Logger
}

func NewUserRepo(db *gorm.DB, baseLog *logger.Logger) UserRepo {
  repoLog := baseLog.With("repo", "UserRepo")
  return &userRepo{db: db, log: repoLog}
}

func (r *userRepo) Create(ctx context.Context, tx *gorm.DB, user *types.User) (*types.User, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }
  if err := transaction.WithContext(ctx).Create(user).Error; err != nil {
    return nil, err
  }
  return user, nil
}

func (r *userRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.User, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }
  var user types.User
  if err := transaction.WithContext(ctx).
    Where("id = ?", id).
    First(&user).Error; err != nil {
    return nil, err
  }
  return &user, nil
}

func (r *userRepo) GetByEmail(ctx context.Context, tx *gorm.DB, email string) (*types.User, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }
  var user types.User
  if err := transaction.WithContext(ctx).
    Where("email = ?", email).
    First(&user).Error; err != nil {
    return nil, err
  }
  return &user, nil
}

func (r *userRepo) EmailExists(ctx context.Context, tx *gorm.DB, email string) (bool, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }
  var count int64
  if err := transaction.WithContext(ctx).
    Model(&types.User{}).
    Where("email = ?", email).
    Count(&count).Error; err != nil {
    return false, err
  }
  return count > 0, nil
}
