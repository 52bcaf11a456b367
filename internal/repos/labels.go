package repos

import (
  "context"
  "github.com/google/uuid"
  "gorm.io/gorm"
  "github.com/framecut/framecut-backend/internal/logger"
  "github.com/framecut/framecut-backend/internal/types"
)

// LabelRepo reads and writes the five label-fact tables the processing
// pipeline fills in. Reads are always scoped by media ids, never unscoped.
type LabelRepo interface {
  CreateShots(ctx context.Context, tx *gorm.DB, shots []*types.LabelShot) error
  CreateFaces(ctx context.Context, tx *gorm.DB, faces []*types.LabelFace) error
  CreatePeople(ctx context.Context, tx *gorm.DB, people []*types.LabelPerson) error
  CreateObjects(ctx context.Context, tx *gorm.DB, objects []*types.LabelObject) error
  CreateSpeech(ctx context.Context, tx *gorm.DB, speech []*types.LabelSpeech) error
  GetShotsByMediaIDs(ctx context.Context, tx *gorm.DB, mediaIDs []uuid.UUID) ([]*types.LabelShot, error)
  GetFacesByMediaIDs(ctx context.Context, tx *gorm.DB, mediaIDs []uuid.UUID) ([]*types.LabelFace, error)
  GetPeopleByMediaIDs(ctx context.Context, tx *gorm.DB, mediaIDs []uuid.UUID) ([]*types.LabelPerson, error)
  GetObjectsByMediaIDs(ctx context.Context, tx *gorm.DB, mediaIDs []uuid.UUID) ([]*types.LabelObject, error)
  GetSpeechByMediaIDs(ctx context.Context, tx *gorm.DB, mediaIDs []uuid.UUID) ([]*types.LabelSpeech, error)
  DeleteByMediaID(ctx context.Context, tx *gorm.DB, mediaID uuid.UUID) error
}

type labelRepo struct {
  db  *gorm.DB
  log *logger.Logger
}

func NewLabelRepo(db *gorm.DB, baseLog *logger.Logger) LabelRepo {
  repoLog := baseLog.With("repo", "LabelRepo")
  return &labelRepo{db: db, log: repoLog}
}

func (r *labelRepo) CreateShots(ctx context.Context, tx *gorm.DB, shots []*types.LabelShot) error {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }
  if len(shots) == 0 {
    return nil
  }
  return transaction.WithContext(ctx).Create(&shots).Error
}

func (r *labelRepo) CreateFaces(ctx context.Context, tx *gorm.DB, faces []*types.LabelFace) error {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }
  if len(faces) == 0 {
    return nil
  }
  return transaction.WithContext(ctx).Create(&faces).Error
}

func (r *labelRepo) CreatePeople(ctx context.Context, tx *gorm.DB, people []*types.LabelPerson) error {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }
  if len(people) == 0 {
    return nil
  }
  return transaction.WithContext(ctx).Create(&people).Error
}

func (r *labelRepo) CreateObjects(ctx context.Context, tx *gorm.DB, objects []*types.LabelObject) error {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }
  if len(objects) == 0 {
    return nil
  }
  return transaction.WithContext(ctx).Create(&objects).Error
}

func (r *labelRepo) CreateSpeech(ctx context.Context, tx *gorm.DB, speech []*types.LabelSpeech) error {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }
  if len(speech) == 0 {
    return nil
  }
  return transaction.WithContext(ctx).Create(&speech).Error
}

func (r *labelRepo) GetShotsByMediaIDs(ctx context.Context, tx *gorm.DB, mediaIDs []uuid.UUID) ([]*types.LabelShot, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }
  var results []*types.LabelShot
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

func (r *labelRepo) GetFacesByMediaIDs(ctx context.Context, tx *gorm.DB, mediaIDs []uuid.UUID) ([]*types.LabelFace, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }
  var results []*types.LabelFace
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

func (r *labelRepo) GetPeopleByMediaIDs(ctx context.Context, tx *gorm.DB, mediaIDs []uuid.UUID) ([]*types.LabelPerson, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }
  var results []*types.LabelPerson
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

func (r *labelRepo) GetObjectsByMediaIDs(ctx context.Context, tx *gorm.DB, mediaIDs []uuid.UUID) ([]*types.LabelObject, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }
  var results []*types.LabelObject
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

func (r *labelRepo) GetSpeechByMediaIDs(ctx context.Context, tx *gorm.DB, mediaIDs []uuid.UUID) ([]*types.LabelSpeech, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }
  var results []*types.LabelSpeech
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

func (r *labelRepo) DeleteByMediaID(ctx context.Context, tx *gorm.DB, mediaID uuid.UUID) error {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }
  for _, model := range []interface{}{
    &types.LabelShot{},
    &types.LabelFace{},
    &types.LabelPerson{},
    &types.LabelObject{},
    &types.LabelSpeech{},
  } {
    if err := transaction.WithContext(ctx).
      Where("media_id = ?", mediaID).
      Delete(model).Error; err != nil {
      return err
    }
  }
  return nil
}
