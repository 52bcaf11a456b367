package services

import (
  "context"
  "fmt"
  "gorm.io/gorm"
  "github.com/google/uuid"
  "github.com/framecut/framecut-backend/internal/logger"
  "github.com/framecut/framecut-backend/internal/repos"
  "github.com/framecut/framecut-backend/internal/types"
)

type TimelineService interface {
  Create(ctx context.Context, workspaceID uuid.UUID, name string) (*types.Timeline, error)
  Get(ctx context.Context, workspaceID, timelineID uuid.UUID) (*types.Timeline, error)
  List(ctx context.Context, workspaceID uuid.UUID) ([]*types.Timeline, error)
  ListClips(ctx context.Context, workspaceID, timelineID uuid.UUID) ([]*types.TimelineClip, error)
  AppendClip(ctx context.Context, workspaceID, timelineID, mediaID uuid.UUID, start, end float64) (*types.TimelineClip, error)
  RemoveClip(ctx context.Context, workspaceID, timelineID, clipID uuid.UUID) error
}

type timelineService struct {
  db               *gorm.DB
  log              *logger.Logger
  timelineRepo     repos.TimelineRepo
  timelineClipRepo repos.TimelineClipRepo
  mediaRepo        repos.MediaRepo
}

func NewTimelineService(
  db *gorm.DB,
  log *logger.Logger,
  timelineRepo repos.TimelineRepo,
  timelineClipRepo repos.TimelineClipRepo,
  mediaRepo repos.MediaRepo,
) TimelineService {
  serviceLog := log.With("service", "TimelineService")
  return &timelineService{
    db:               db,
    log:              serviceLog,
    timelineRepo:     timelineRepo,
    timelineClipRepo: timelineClipRepo,
    mediaRepo:        mediaRepo,
  }
}

func (ts *timelineService) Create(ctx context.Context, workspaceID uuid.UUID, name string) (*types.Timeline, error) {
  if name == "" {
    return nil, fmt.Errorf("Timeline name is required")
  }
  timeline := &types.Timeline{
    ID:          uuid.New(),
    WorkspaceID: workspaceID,
    Name:        name,
  }
  return ts.timelineRepo.Create(ctx, nil, timeline)
}

func (ts *timelineService) Get(ctx context.Context, workspaceID, timelineID uuid.UUID) (*types.Timeline, error) {
  timeline, err := ts.timelineRepo.GetByID(ctx, nil, timelineID)
  if err != nil {
    return nil, err
  }
  if timeline.WorkspaceID != workspaceID {
    return nil, gorm.ErrRecordNotFound
  }
  return timeline, nil
}

func (ts *timelineService) List(ctx context.Context, workspaceID uuid.UUID) ([]*types.Timeline, error) {
  return ts.timelineRepo.ListByWorkspace(ctx, nil, workspaceID)
}

func (ts *timelineService) ListClips(ctx context.Context, workspaceID, timelineID uuid.UUID) ([]*types.TimelineClip, error) {
  if _, err := ts.Get(ctx, workspaceID, timelineID); err != nil {
    return nil, err
  }
  return ts.timelineClipRepo.GetByTimelineIDs(ctx, nil, []uuid.UUID{timelineID})
}

func (ts *timelineService) AppendClip(ctx context.Context, workspaceID, timelineID, mediaID uuid.UUID, start, end float64) (*types.TimelineClip, error) {
  if end <= start {
    return nil, fmt.Errorf("Clip end must be after start")
  }
  if _, err := ts.Get(ctx, workspaceID, timelineID); err != nil {
    return nil, err
  }
  media, mErr := ts.mediaRepo.GetByID(ctx, nil, mediaID)
  if mErr != nil {
    return nil, fmt.Errorf("Failed to load media for clip: %w", mErr)
  }
  if media.WorkspaceID != workspaceID {
    return nil, gorm.ErrRecordNotFound
  }

  var clip *types.TimelineClip
  err := ts.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
    maxPos, pErr := ts.timelineClipRepo.MaxPosition(ctx, tx, timelineID)
    if pErr != nil {
      return fmt.Errorf("Failed to resolve timeline position: %w", pErr)
    }
    clip = &types.TimelineClip{
      ID:          uuid.New(),
      WorkspaceID: workspaceID,
      TimelineID:  timelineID,
      MediaID:     mediaID,
      Start:       start,
      End:         end,
      Position:    maxPos + 1,
    }
    created, cErr := ts.timelineClipRepo.Create(ctx, tx, clip)
    if cErr != nil {
      return fmt.Errorf("Failed to create timeline clip: %w", cErr)
    }
    clip = created
    return nil
  })
  if err != nil {
    return nil, err
  }
  return clip, nil
}

func (ts *timelineService) RemoveClip(ctx context.Context, workspaceID, timelineID, clipID uuid.UUID) error {
  clip, err := ts.timelineClipRepo.GetByID(ctx, nil, clipID)
  if err != nil {
    return err
  }
  if clip.WorkspaceID != workspaceID || clip.TimelineID != timelineID {
    return gorm.ErrRecordNotFound
  }
  return ts.timelineClipRepo.SoftDeleteByID(ctx, nil, clipID)
}
