package services

import (
  "context"
  "encoding/json"
  "fmt"
  "time"
  "gorm.io/datatypes"
  "gorm.io/gorm"
  "github.com/google/uuid"
  "github.com/framecut/framecut-backend/internal/logger"
  "github.com/framecut/framecut-backend/internal/repos"
  "github.com/framecut/framecut-backend/internal/types"
)

// LabelIngestService runs the annotation provider over an uploaded media item
// and replaces its label rows with the fresh results. Re-labeling is a full
// swap: stale rows from a previous run never survive.
type LabelIngestService interface {
  LabelMedia(ctx context.Context, workspaceID, mediaID uuid.UUID) (*IngestResult, error)
  IngestAnnotations(ctx context.Context, workspaceID, mediaID uuid.UUID, ann *MediaAnnotations) (*IngestResult, error)
}

type IngestResult struct {
  Shots   int `json:"shots"`
  Objects int `json:"objects"`
  Faces   int `json:"faces"`
  People  int `json:"people"`
  Speech  int `json:"speech"`
}

type labelIngestService struct {
  db        *gorm.DB
  log       *logger.Logger
  mediaRepo repos.MediaRepo
  labelRepo repos.LabelRepo
  bucket    BucketService
  provider  VideoIntelligenceProviderService
}

func NewLabelIngestService(
  db *gorm.DB,
  log *logger.Logger,
  mediaRepo repos.MediaRepo,
  labelRepo repos.LabelRepo,
  bucket BucketService,
  provider VideoIntelligenceProviderService,
) LabelIngestService {
  serviceLog := log.With("service", "LabelIngestService")
  return &labelIngestService{
    db:        db,
    log:       serviceLog,
    mediaRepo: mediaRepo,
    labelRepo: labelRepo,
    bucket:    bucket,
    provider:  provider,
  }
}

func (s *labelIngestService) LabelMedia(ctx context.Context, workspaceID, mediaID uuid.UUID) (*IngestResult, error) {
  media, mErr := s.mediaRepo.GetByID(ctx, nil, mediaID)
  if mErr != nil {
    return nil, fmt.Errorf("Failed to load media: %w", mErr)
  }
  if media.WorkspaceID != workspaceID {
    return nil, fmt.Errorf("Media %s does not belong to workspace %s", mediaID, workspaceID)
  }

  media.Status = types.MediaStatusLabeling
  if uErr := s.mediaRepo.Update(ctx, nil, media); uErr != nil {
    return nil, fmt.Errorf("Failed to mark media as labeling: %w", uErr)
  }

  started := time.Now()
  ann, aErr := s.provider.AnnotateMediaGCS(ctx, s.bucket.GCSURI(media.StorageKey), VideoAIConfig{
    EnableShotChangeDetection: true,
    EnableObjectTracking:      true,
    EnableFaceDetection:       true,
    EnablePersonDetection:     true,
    EnableSpeechTranscription: true,
    EnableSpeakerDiarization:  true,
  })
  if aErr != nil {
    media.Status = types.MediaStatusFailed
    _ = s.mediaRepo.Update(ctx, nil, media)
    return nil, fmt.Errorf("Annotation failed: %w", aErr)
  }
  s.log.Info("Media annotated",
    "media_id", mediaID,
    "elapsed", time.Since(started).String(),
    "shots", len(ann.Shots),
    "objects", len(ann.Objects))

  result, iErr := s.IngestAnnotations(ctx, workspaceID, mediaID, ann)
  if iErr != nil {
    media.Status = types.MediaStatusFailed
    _ = s.mediaRepo.Update(ctx, nil, media)
    return nil, iErr
  }

  media.Status = types.MediaStatusLabeled
  if uErr := s.mediaRepo.Update(ctx, nil, media); uErr != nil {
    return nil, fmt.Errorf("Failed to mark media as labeled: %w", uErr)
  }
  return result, nil
}

func (s *labelIngestService) IngestAnnotations(ctx context.Context, workspaceID, mediaID uuid.UUID, ann *MediaAnnotations) (*IngestResult, error) {
  if ann == nil {
    return nil, fmt.Errorf("nil annotations")
  }
  result := &IngestResult{}
  err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
    if dErr := s.labelRepo.DeleteByMediaID(ctx, tx, mediaID); dErr != nil {
      return fmt.Errorf("Failed to clear existing labels: %w", dErr)
    }

    shots := make([]*types.LabelShot, 0, len(ann.Shots))
    for _, sh := range ann.Shots {
      shots = append(shots, &types.LabelShot{
        ID:          uuid.New(),
        WorkspaceID: workspaceID,
        MediaID:     mediaID,
        Start:       sh.Start,
        End:         sh.End,
        Confidence:  sh.Confidence,
        Payload:     providerPayload(ann.Provider, sh),
      })
    }
    if cErr := s.labelRepo.CreateShots(ctx, tx, shots); cErr != nil {
      return fmt.Errorf("Failed to create shot labels: %w", cErr)
    }

    objects := make([]*types.LabelObject, 0, len(ann.Objects))
    for _, ob := range ann.Objects {
      objects = append(objects, &types.LabelObject{
        ID:          uuid.New(),
        WorkspaceID: workspaceID,
        MediaID:     mediaID,
        EntityID:    ob.EntityID,
        Description: ob.Description,
        Start:       ob.Start,
        End:         ob.End,
        Confidence:  ob.Confidence,
        Payload:     providerPayload(ann.Provider, ob),
      })
    }
    if cErr := s.labelRepo.CreateObjects(ctx, tx, objects); cErr != nil {
      return fmt.Errorf("Failed to create object labels: %w", cErr)
    }

    faces := make([]*types.LabelFace, 0, len(ann.Faces))
    for _, fa := range ann.Faces {
      faces = append(faces, &types.LabelFace{
        ID:          uuid.New(),
        WorkspaceID: workspaceID,
        MediaID:     mediaID,
        TrackID:     fa.TrackID,
        Start:       fa.Start,
        End:         fa.End,
        Confidence:  fa.Confidence,
        Payload:     providerPayload(ann.Provider, fa),
      })
    }
    if cErr := s.labelRepo.CreateFaces(ctx, tx, faces); cErr != nil {
      return fmt.Errorf("Failed to create face labels: %w", cErr)
    }

    people := make([]*types.LabelPerson, 0, len(ann.People))
    for _, pe := range ann.People {
      people = append(people, &types.LabelPerson{
        ID:          uuid.New(),
        WorkspaceID: workspaceID,
        MediaID:     mediaID,
        TrackID:     pe.TrackID,
        Start:       pe.Start,
        End:         pe.End,
        Confidence:  pe.Confidence,
        Payload:     providerPayload(ann.Provider, pe),
      })
    }
    if cErr := s.labelRepo.CreatePeople(ctx, tx, people); cErr != nil {
      return fmt.Errorf("Failed to create person labels: %w", cErr)
    }

    speech := make([]*types.LabelSpeech, 0, len(ann.Speech))
    for _, sp := range ann.Speech {
      speech = append(speech, &types.LabelSpeech{
        ID:          uuid.New(),
        WorkspaceID: workspaceID,
        MediaID:     mediaID,
        Transcript:  sp.Transcript.Text,
        SpeakerTag:  sp.Transcript.SpeakerTag,
        Start:       sp.Transcript.Start,
        End:         sp.Transcript.End,
        Confidence:  sp.Transcript.Confidence,
        Payload:     providerPayload(ann.Provider, sp),
      })
    }
    if cErr := s.labelRepo.CreateSpeech(ctx, tx, speech); cErr != nil {
      return fmt.Errorf("Failed to create speech labels: %w", cErr)
    }

    result.Shots = len(shots)
    result.Objects = len(objects)
    result.Faces = len(faces)
    result.People = len(people)
    result.Speech = len(speech)
    return nil
  })
  if err != nil {
    return nil, err
  }
  return result, nil
}

func providerPayload(provider string, v any) datatypes.JSON {
  raw, err := json.Marshal(map[string]any{"provider": provider, "raw": v})
  if err != nil {
    return nil
  }
  return datatypes.JSON(raw)
}
