package repos

import (
  "context"
  "errors"
  "github.com/google/uuid"
  "gorm.io/gorm"
  "github.com/framecut/framecut-backend/internal/logger"
  "github.com/framecut/framecut-backend/internal/types"
)

// RecommendationListFilter narrows List queries.
type RecommendationListFilter struct {
  ExcludeAccepted  bool
  ExcludeDismissed bool
  Strategy         string
  TargetMode       string
}

// RecommendationRepo is the dedup-aware persistence gateway for both
// recommendation shapes. Upserts key on the query hash plus the window (media)
// or the proposed clip (timeline), matching the unique indexes, so
// regenerating with identical inputs refreshes rows instead of duplicating
// them. Prune removes only never-actioned rows left behind by a stale hash.
type RecommendationRepo interface {
  GetMediaRecByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.MediaRecommendation, error)
  GetTimelineRecByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.TimelineRecommendation, error)
  UpsertMediaRec(ctx context.Context, tx *gorm.DB, rec *types.MediaRecommendation) (*types.MediaRecommendation, error)
  UpsertTimelineRec(ctx context.Context, tx *gorm.DB, rec *types.TimelineRecommendation) (*types.TimelineRecommendation, error)
  UpdateMediaRec(ctx context.Context, tx *gorm.DB, rec *types.MediaRecommendation) error
  UpdateTimelineRec(ctx context.Context, tx *gorm.DB, rec *types.TimelineRecommendation) error
  PruneMediaRecs(ctx context.Context, tx *gorm.DB, workspaceID, mediaID uuid.UUID, keepHash string) (int64, error)
  PruneTimelineRecs(ctx context.Context, tx *gorm.DB, workspaceID, timelineID uuid.UUID, keepHash string) (int64, error)
  CountMediaRecsByHash(ctx context.Context, tx *gorm.DB, queryHash string) (int64, error)
  CountTimelineRecsByHash(ctx context.Context, tx *gorm.DB, queryHash string) (int64, error)
  ListMediaRecs(ctx context.Context, tx *gorm.DB, mediaID uuid.UUID, filter RecommendationListFilter, page, perPage int) ([]*types.MediaRecommendation, int64, error)
  ListTimelineRecs(ctx context.Context, tx *gorm.DB, timelineID uuid.UUID, filter RecommendationListFilter, page, perPage int) ([]*types.TimelineRecommendation, int64, error)
}

type recommendationRepo struct {
  db  *gorm.DB
  log *logger.Logger
}

func NewRecommendationRepo(db *gorm.DB, baseLog *logger.Logger) RecommendationRepo {
  repoLog := baseLog.With("repo", "RecommendationRepo")
  return &recommendationRepo{db: db, log: repoLog}
}

func (r *recommendationRepo) GetMediaRecByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.MediaRecommendation, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }
  var rec types.MediaRecommendation
  if err := transaction.WithContext(ctx).
    Where("id = ?", id).
    First(&rec).Error; err != nil {
    return nil, err
  }
  return &rec, nil
}

func (r *recommendationRepo) GetTimelineRecByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.TimelineRecommendation, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }
  var rec types.TimelineRecommendation
  if err := transaction.WithContext(ctx).
    Where("id = ?", id).
    First(&rec).Error; err != nil {
    return nil, err
  }
  return &rec, nil
}

func (r *recommendationRepo) UpsertMediaRec(ctx context.Context, tx *gorm.DB, rec *types.MediaRecommendation) (*types.MediaRecommendation, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }
  var existing types.MediaRecommendation
  err := transaction.WithContext(ctx).
    Where("query_hash = ? AND start = ? AND \"end\" = ?", rec.QueryHash, rec.Start, rec.End).
    First(&existing).Error
  if err != nil {
    if !errors.Is(err, gorm.ErrRecordNotFound) {
      return nil, err
    }
    if rec.ID == uuid.Nil {
      rec.ID = uuid.New()
    }
    rec.Version = 1
    if err := transaction.WithContext(ctx).Create(rec).Error; err != nil {
      return nil, err
    }
    return rec, nil
  }
  existing.Strategy = rec.Strategy
  existing.LabelType = rec.LabelType
  existing.Score = rec.Score
  existing.Rank = rec.Rank
  existing.Reason = rec.Reason
  existing.ReasonData = rec.ReasonData
  if rec.ClipID != nil {
    existing.ClipID = rec.ClipID
  }
  existing.Version++
  if err := transaction.WithContext(ctx).Save(&existing).Error; err != nil {
    return nil, err
  }
  return &existing, nil
}

func (r *recommendationRepo) UpsertTimelineRec(ctx context.Context, tx *gorm.DB, rec *types.TimelineRecommendation) (*types.TimelineRecommendation, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }
  var existing types.TimelineRecommendation
  err := transaction.WithContext(ctx).
    Where("query_hash = ? AND clip_id = ?", rec.QueryHash, rec.ClipID).
    First(&existing).Error
  if err != nil {
    if !errors.Is(err, gorm.ErrRecordNotFound) {
      return nil, err
    }
    if rec.ID == uuid.Nil {
      rec.ID = uuid.New()
    }
    rec.Version = 1
    if err := transaction.WithContext(ctx).Create(rec).Error; err != nil {
      return nil, err
    }
    return rec, nil
  }
  existing.Strategy = rec.Strategy
  existing.LabelType = rec.LabelType
  existing.Start = rec.Start
  existing.End = rec.End
  existing.Score = rec.Score
  existing.Rank = rec.Rank
  existing.Reason = rec.Reason
  existing.ReasonData = rec.ReasonData
  existing.TargetMode = rec.TargetMode
  existing.SeedClipID = rec.SeedClipID
  existing.Version++
  if err := transaction.WithContext(ctx).Save(&existing).Error; err != nil {
    return nil, err
  }
  return &existing, nil
}

func (r *recommendationRepo) UpdateMediaRec(ctx context.Context, tx *gorm.DB, rec *types.MediaRecommendation) error {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }
  return transaction.WithContext(ctx).Save(rec).Error
}

func (r *recommendationRepo) UpdateTimelineRec(ctx context.Context, tx *gorm.DB, rec *types.TimelineRecommendation) error {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }
  return transaction.WithContext(ctx).Save(rec).Error
}

func (r *recommendationRepo) PruneMediaRecs(ctx context.Context, tx *gorm.DB, workspaceID, mediaID uuid.UUID, keepHash string) (int64, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }
  res := transaction.WithContext(ctx).
    Where("workspace_id = ? AND media_id = ? AND query_hash <> ?", workspaceID, mediaID, keepHash).
    Where("accepted_at IS NULL AND dismissed_at IS NULL").
    Delete(&types.MediaRecommendation{})
  if res.Error != nil {
    return 0, res.Error
  }
  return res.RowsAffected, nil
}

func (r *recommendationRepo) PruneTimelineRecs(ctx context.Context, tx *gorm.DB, workspaceID, timelineID uuid.UUID, keepHash string) (int64, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }
  res := transaction.WithContext(ctx).
    Where("workspace_id = ? AND timeline_id = ? AND query_hash <> ?", workspaceID, timelineID, keepHash).
    Where("accepted_at IS NULL AND dismissed_at IS NULL").
    Delete(&types.TimelineRecommendation{})
  if res.Error != nil {
    return 0, res.Error
  }
  return res.RowsAffected, nil
}

func (r *recommendationRepo) CountMediaRecsByHash(ctx context.Context, tx *gorm.DB, queryHash string) (int64, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }
  var count int64
  if err := transaction.WithContext(ctx).
    Model(&types.MediaRecommendation{}).
    Where("query_hash = ?", queryHash).
    Count(&count).Error; err != nil {
    return 0, err
  }
  return count, nil
}

func (r *recommendationRepo) CountTimelineRecsByHash(ctx context.Context, tx *gorm.DB, queryHash string) (int64, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }
  var count int64
  if err := transaction.WithContext(ctx).
    Model(&types.TimelineRecommendation{}).
    Where("query_hash = ?", queryHash).
    Count(&count).Error; err != nil {
    return 0, err
  }
  return count, nil
}

func (r *recommendationRepo) ListMediaRecs(ctx context.Context, tx *gorm.DB, mediaID uuid.UUID, filter RecommendationListFilter, page, perPage int) ([]*types.MediaRecommendation, int64, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }
  q := transaction.WithContext(ctx).
    Model(&types.MediaRecommendation{}).
    Where("media_id = ?", mediaID)
  q = applyRecFilter(q, filter, false)

  var total int64
  if err := q.Count(&total).Error; err != nil {
    return nil, 0, err
  }
  if page < 1 {
    page = 1
  }
  if perPage <= 0 {
    perPage = 20
  }
  var results []*types.MediaRecommendation
  if err := q.
    Order("rank ASC").
    Limit(perPage).
    Offset((page - 1) * perPage).
    Find(&results).Error; err != nil {
    return nil, 0, err
  }
  return results, total, nil
}

func (r *recommendationRepo) ListTimelineRecs(ctx context.Context, tx *gorm.DB, timelineID uuid.UUID, filter RecommendationListFilter, page, perPage int) ([]*types.TimelineRecommendation, int64, error) {
  transaction := tx
  if transaction == nil {
    transaction = r.db
  }
  q := transaction.WithContext(ctx).
    Model(&types.TimelineRecommendation{}).
    Where("timeline_id = ?", timelineID)
  q = applyRecFilter(q, filter, true)

  var total int64
  if err := q.Count(&total).Error; err != nil {
    return nil, 0, err
  }
  if page < 1 {
    page = 1
  }
  if perPage <= 0 {
    perPage = 20
  }
  var results []*types.TimelineRecommendation
  if err := q.
    Order("rank ASC").
    Limit(perPage).
    Offset((page - 1) * perPage).
    Find(&results).Error; err != nil {
    return nil, 0, err
  }
  return results, total, nil
}

func applyRecFilter(q *gorm.DB, filter RecommendationListFilter, timeline bool) *gorm.DB {
  if filter.ExcludeAccepted {
    q = q.Where("accepted_at IS NULL")
  }
  if filter.ExcludeDismissed {
    q = q.Where("dismissed_at IS NULL")
  }
  if filter.Strategy != "" {
    q = q.Where("strategy = ?", filter.Strategy)
  }
  if timeline && filter.TargetMode != "" {
    q = q.Where("target_mode = ?", filter.TargetMode)
  }
  return q
}
