package services

import (
  "context"
  "fmt"
  "io"
  "path"
  "time"
  "gorm.io/gorm"
  "github.com/google/uuid"
  "github.com/framecut/framecut-backend/internal/logger"
  "github.com/framecut/framecut-backend/internal/repos"
  "github.com/framecut/framecut-backend/internal/types"
)

type MediaUploadInput struct {
  OriginalName    string
  MimeType        string
  SizeBytes       int64
  DurationSeconds float64
  CapturedAt      *time.Time
}

type MediaService interface {
  Upload(ctx context.Context, workspaceID uuid.UUID, input MediaUploadInput, file io.Reader) (*types.Media, error)
  Get(ctx context.Context, workspaceID, mediaID uuid.UUID) (*types.Media, error)
  List(ctx context.Context, workspaceID uuid.UUID, limit int) ([]*types.Media, error)
  Delete(ctx context.Context, workspaceID, mediaID uuid.UUID) error
  CreateClip(ctx context.Context, workspaceID, mediaID uuid.UUID, start, end float64, labelType string) (*types.MediaClip, error)
  ListClips(ctx context.Context, workspaceID, mediaID uuid.UUID) ([]*types.MediaClip, error)
  PlaybackURL(ctx context.Context, workspaceID, mediaID uuid.UUID) (string, error)
}

type mediaService struct {
  db            *gorm.DB
  log           *logger.Logger
  mediaRepo     repos.MediaRepo
  mediaClipRepo repos.MediaClipRepo
  labelRepo     repos.LabelRepo
  bucket        BucketService
}

func NewMediaService(
  db *gorm.DB,
  log *logger.Logger,
  mediaRepo repos.MediaRepo,
  mediaClipRepo repos.MediaClipRepo,
  labelRepo repos.LabelRepo,
  bucket BucketService,
) MediaService {
  serviceLog := log.With("service", "MediaService")
  return &mediaService{
    db:            db,
    log:           serviceLog,
    mediaRepo:     mediaRepo,
    mediaClipRepo: mediaClipRepo,
    labelRepo:     labelRepo,
    bucket:        bucket,
  }
}

func (ms *mediaService) Upload(ctx context.Context, workspaceID uuid.UUID, input MediaUploadInput, file io.Reader) (*types.Media, error) {
  if input.OriginalName == "" {
    return nil, fmt.Errorf("Original name is required")
  }
  media := &types.Media{
    ID:              uuid.New(),
    WorkspaceID:     workspaceID,
    OriginalName:    input.OriginalName,
    MimeType:        input.MimeType,
    SizeBytes:       input.SizeBytes,
    DurationSeconds: input.DurationSeconds,
    CapturedAt:      input.CapturedAt,
    Status:          types.MediaStatusUploaded,
  }
  media.StorageKey = fmt.Sprintf("media/%s/%s%s", workspaceID, media.ID, path.Ext(input.OriginalName))
  if upErr := ms.bucket.UploadMedia(ctx, media.StorageKey, file); upErr != nil {
    return nil, fmt.Errorf("Failed to upload media to bucket: %w", upErr)
  }
  media.FileURL = ms.bucket.GetPublicURL(media.StorageKey)
  created, cErr := ms.mediaRepo.Create(ctx, nil, media)
  if cErr != nil {
    // Best effort cleanup so the bucket does not accumulate orphans.
    _ = ms.bucket.DeleteMedia(ctx, media.StorageKey)
    return nil, fmt.Errorf("Failed to create media record: %w", cErr)
  }
  return created, nil
}

func (ms *mediaService) Get(ctx context.Context, workspaceID, mediaID uuid.UUID) (*types.Media, error) {
  media, err := ms.mediaRepo.GetByID(ctx, nil, mediaID)
  if err != nil {
    return nil, err
  }
  if media.WorkspaceID != workspaceID {
    return nil, gorm.ErrRecordNotFound
  }
  return media, nil
}

func (ms *mediaService) List(ctx context.Context, workspaceID uuid.UUID, limit int) ([]*types.Media, error) {
  return ms.mediaRepo.ListByWorkspace(ctx, nil, workspaceID, limit, 0)
}

func (ms *mediaService) Delete(ctx context.Context, workspaceID, mediaID uuid.UUID) error {
  media, err := ms.Get(ctx, workspaceID, mediaID)
  if err != nil {
    return err
  }
  return ms.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
    if lErr := ms.labelRepo.DeleteByMediaID(ctx, tx, mediaID); lErr != nil {
      return fmt.Errorf("Failed to delete media labels: %w", lErr)
    }
    if dErr := ms.mediaRepo.SoftDeleteByID(ctx, tx, mediaID); dErr != nil {
      return fmt.Errorf("Failed to delete media record: %w", dErr)
    }
    if bErr := ms.bucket.DeleteMedia(ctx, media.StorageKey); bErr != nil {
      ms.log.Warn("Failed to delete media object from bucket", "key", media.StorageKey, "error", bErr)
    }
    return nil
  })
}

func (ms *mediaService) CreateClip(ctx context.Context, workspaceID, mediaID uuid.UUID, start, end float64, labelType string) (*types.MediaClip, error) {
  if end <= start {
    return nil, fmt.Errorf("Clip end must be after start")
  }
  media, err := ms.Get(ctx, workspaceID, mediaID)
  if err != nil {
    return nil, err
  }
  if media.DurationSeconds > 0 && end > media.DurationSeconds {
    end = media.DurationSeconds
  }
  clip := &types.MediaClip{
    ID:          uuid.New(),
    WorkspaceID: workspaceID,
    MediaID:     mediaID,
    Start:       start,
    End:         end,
    LabelType:   labelType,
  }
  return ms.mediaClipRepo.Create(ctx, nil, clip)
}

func (ms *mediaService) ListClips(ctx context.Context, workspaceID, mediaID uuid.UUID) ([]*types.MediaClip, error) {
  if _, err := ms.Get(ctx, workspaceID, mediaID); err != nil {
    return nil, err
  }
  return ms.mediaClipRepo.GetByMediaIDs(ctx, nil, []uuid.UUID{mediaID})
}

func (ms *mediaService) PlaybackURL(ctx context.Context, workspaceID, mediaID uuid.UUID) (string, error) {
  media, err := ms.Get(ctx, workspaceID, mediaID)
  if err != nil {
    return "", err
  }
  return ms.bucket.SignedURL(media.StorageKey, 15*time.Minute)
}
