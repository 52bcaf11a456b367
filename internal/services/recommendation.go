package services

import (
  "context"
  "encoding/json"
  "errors"
  "fmt"
  "time"
  "gorm.io/datatypes"
  "gorm.io/gorm"
  "github.com/google/uuid"
  "github.com/framecut/framecut-backend/internal/logger"
  "github.com/framecut/framecut-backend/internal/recommend"
  "github.com/framecut/framecut-backend/internal/repos"
  "github.com/framecut/framecut-backend/internal/types"
)

const (
  defaultMaxResults = 10
  mediaPoolLimit    = 200
)

// GenerateRequest selects and tunes the strategies for one generation call.
// An empty Strategies list selects the whole set. Weights multiply per-strategy
// scores before merging; missing entries default to 1.
type GenerateRequest struct {
  Strategies []string                `json:"strategies,omitempty"`
  Filter     recommend.FilterParams  `json:"filter"`
  Search     recommend.SearchParams  `json:"search"`
  Weights    map[string]float64      `json:"weights,omitempty"`
  MaxResults int                     `json:"max_results,omitempty"`
  TargetMode string                  `json:"target_mode,omitempty"`
  SeedClipID *uuid.UUID              `json:"seed_clip_id,omitempty"`
}

type GenerationResult struct {
  QueryHash    string                          `json:"query_hash"`
  Generated    int                             `json:"generated"`
  Pruned       int64                           `json:"pruned"`
  MediaRecs    []*types.MediaRecommendation    `json:"media_recommendations,omitempty"`
  TimelineRecs []*types.TimelineRecommendation `json:"timeline_recommendations,omitempty"`
}

type RecommendationService interface {
  GenerateForMedia(ctx context.Context, workspaceID, mediaID uuid.UUID, req GenerateRequest) (*GenerationResult, error)
  GenerateForTimeline(ctx context.Context, workspaceID, timelineID uuid.UUID, req GenerateRequest) (*GenerationResult, error)
  ListForMedia(ctx context.Context, workspaceID, mediaID uuid.UUID, filter repos.RecommendationListFilter, page, perPage int) ([]*types.MediaRecommendation, int64, error)
  ListForTimeline(ctx context.Context, workspaceID, timelineID uuid.UUID, filter repos.RecommendationListFilter, page, perPage int) ([]*types.TimelineRecommendation, int64, error)
  AcceptMediaRecommendation(ctx context.Context, workspaceID, recID uuid.UUID) (*types.MediaRecommendation, *types.MediaClip, error)
  DismissMediaRecommendation(ctx context.Context, workspaceID, recID uuid.UUID) (*types.MediaRecommendation, error)
  AcceptTimelineRecommendation(ctx context.Context, workspaceID, recID uuid.UUID) (*types.TimelineRecommendation, *types.TimelineClip, error)
  DismissTimelineRecommendation(ctx context.Context, workspaceID, recID uuid.UUID) (*types.TimelineRecommendation, error)
}

type recommendationService struct {
  db               *gorm.DB
  log              *logger.Logger
  engine           *recommend.Engine
  mediaRepo        repos.MediaRepo
  mediaClipRepo    repos.MediaClipRepo
  timelineRepo     repos.TimelineRepo
  timelineClipRepo repos.TimelineClipRepo
  labelRepo        repos.LabelRepo
  recRepo          repos.RecommendationRepo
  cache            RecommendationCache
}

func NewRecommendationService(
  db *gorm.DB,
  log *logger.Logger,
  engine *recommend.Engine,
  mediaRepo repos.MediaRepo,
  mediaClipRepo repos.MediaClipRepo,
  timelineRepo repos.TimelineRepo,
  timelineClipRepo repos.TimelineClipRepo,
  labelRepo repos.LabelRepo,
  recRepo repos.RecommendationRepo,
  cache RecommendationCache,
) RecommendationService {
  serviceLog := log.With("service", "RecommendationService")
  return &recommendationService{
    db:               db,
    log:              serviceLog,
    engine:           engine,
    mediaRepo:        mediaRepo,
    mediaClipRepo:    mediaClipRepo,
    timelineRepo:     timelineRepo,
    timelineClipRepo: timelineClipRepo,
    labelRepo:        labelRepo,
    recRepo:          recRepo,
    cache:            cache,
  }
}

func (rs *recommendationService) GenerateForMedia(ctx context.Context, workspaceID, mediaID uuid.UUID, req GenerateRequest) (*GenerationResult, error) {
  if err := req.Filter.Validate(); err != nil {
    return nil, err
  }
  strategies, sErr := recommend.StrategiesFor(req.Strategies)
  if sErr != nil {
    return nil, sErr
  }
  maxResults := req.MaxResults
  if maxResults <= 0 {
    maxResults = defaultMaxResults
  }

  sc, cErr := rs.buildMediaContext(ctx, workspaceID, mediaID, req)
  if cErr != nil {
    return nil, cErr
  }

  hash, hErr := recommend.QueryHash(workspaceID, mediaID, strategyNames(strategies), req.Filter, "")
  if hErr != nil {
    return nil, hErr
  }

  if prev, ok := rs.cache.GetQueryHash(ctx, "media", mediaID.String()); ok && prev == hash {
    var cached GenerationResult
    if rs.cache.GetResult(ctx, hash, &cached) {
      rs.log.Debug("Generation served from cache", "media_id", mediaID, "query_hash", hash)
      return &cached, nil
    }
  }

  candidates, gErr := rs.engine.Generate(ctx, sc, strategies, req.Weights, maxResults)
  if gErr != nil {
    return nil, gErr
  }

  result := &GenerationResult{QueryHash: hash}
  err := rs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
    for _, cand := range candidates {
      rec := &types.MediaRecommendation{
        WorkspaceID: workspaceID,
        MediaID:     mediaID,
        Strategy:    cand.Strategy,
        LabelType:   cand.LabelType,
        Start:       cand.Start,
        End:         cand.End,
        ClipID:      cand.ClipID,
        Score:       cand.Score,
        Rank:        cand.Rank,
        Reason:      cand.Reason,
        ReasonData:  marshalReasonData(cand.ReasonData),
        QueryHash:   hash,
      }
      saved, uErr := rs.recRepo.UpsertMediaRec(ctx, tx, rec)
      if uErr != nil {
        return &recommend.PersistenceError{Op: "upsert media recommendation", Err: uErr}
      }
      result.MediaRecs = append(result.MediaRecs, saved)
    }
    pruned, pErr := rs.recRepo.PruneMediaRecs(ctx, tx, workspaceID, mediaID, hash)
    if pErr != nil {
      return &recommend.PersistenceError{Op: "prune media recommendations", Err: pErr}
    }
    result.Pruned = pruned
    return nil
  })
  if err != nil {
    return nil, err
  }
  result.Generated = len(result.MediaRecs)

  rs.cache.SetQueryHash(ctx, "media", mediaID.String(), hash)
  rs.cache.SetResult(ctx, hash, result)
  rs.log.Info("Media recommendations generated",
    "media_id", mediaID, "query_hash", hash, "generated", result.Generated, "pruned", result.Pruned)
  return result, nil
}

func (rs *recommendationService) GenerateForTimeline(ctx context.Context, workspaceID, timelineID uuid.UUID, req GenerateRequest) (*GenerationResult, error) {
  if err := req.Search.Validate(); err != nil {
    return nil, err
  }
  targetMode := req.TargetMode
  if targetMode == "" {
    targetMode = types.TargetModeAppend
  }
  if targetMode != types.TargetModeAppend && targetMode != types.TargetModeReplace {
    return nil, &recommend.ValidationError{Field: "target_mode", Msg: "must be append or replace"}
  }
  strategies, sErr := recommend.StrategiesFor(req.Strategies)
  if sErr != nil {
    return nil, sErr
  }
  maxResults := req.MaxResults
  if maxResults <= 0 {
    maxResults = defaultMaxResults
  }

  sc, cErr := rs.buildTimelineContext(ctx, workspaceID, timelineID, targetMode, req)
  if cErr != nil {
    return nil, cErr
  }

  hash, hErr := recommend.QueryHash(workspaceID, timelineID, strategyNames(strategies), req.Search, targetMode)
  if hErr != nil {
    return nil, hErr
  }

  if prev, ok := rs.cache.GetQueryHash(ctx, "timeline", timelineID.String()); ok && prev == hash {
    var cached GenerationResult
    if rs.cache.GetResult(ctx, hash, &cached) {
      rs.log.Debug("Generation served from cache", "timeline_id", timelineID, "query_hash", hash)
      return &cached, nil
    }
  }

  candidates, gErr := rs.engine.Generate(ctx, sc, strategies, req.Weights, maxResults)
  if gErr != nil {
    return nil, gErr
  }

  var seedClipID *uuid.UUID
  if sc.SeedClip != nil {
    id := sc.SeedClip.ID
    seedClipID = &id
  }

  result := &GenerationResult{QueryHash: hash}
  err := rs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
    for _, cand := range candidates {
      if cand.ClipID == nil {
        // Timeline proposals always reference a concrete pool clip.
        continue
      }
      rec := &types.TimelineRecommendation{
        WorkspaceID: workspaceID,
        TimelineID:  timelineID,
        Strategy:    cand.Strategy,
        LabelType:   cand.LabelType,
        Start:       cand.Start,
        End:         cand.End,
        ClipID:      *cand.ClipID,
        Score:       cand.Score,
        Rank:        cand.Rank,
        Reason:      cand.Reason,
        ReasonData:  marshalReasonData(cand.ReasonData),
        QueryHash:   hash,
        TargetMode:  targetMode,
        SeedClipID:  seedClipID,
      }
      saved, uErr := rs.recRepo.UpsertTimelineRec(ctx, tx, rec)
      if uErr != nil {
        return &recommend.PersistenceError{Op: "upsert timeline recommendation", Err: uErr}
      }
      result.TimelineRecs = append(result.TimelineRecs, saved)
    }
    pruned, pErr := rs.recRepo.PruneTimelineRecs(ctx, tx, workspaceID, timelineID, hash)
    if pErr != nil {
      return &recommend.PersistenceError{Op: "prune timeline recommendations", Err: pErr}
    }
    result.Pruned = pruned
    return nil
  })
  if err != nil {
    return nil, err
  }
  result.Generated = len(result.TimelineRecs)

  rs.cache.SetQueryHash(ctx, "timeline", timelineID.String(), hash)
  rs.cache.SetResult(ctx, hash, result)
  rs.log.Info("Timeline recommendations generated",
    "timeline_id", timelineID, "query_hash", hash, "generated", result.Generated, "pruned", result.Pruned)
  return result, nil
}

func (rs *recommendationService) buildMediaContext(ctx context.Context, workspaceID, mediaID uuid.UUID, req GenerateRequest) (*recommend.StrategyContext, error) {
  media, mErr := rs.mediaRepo.GetByID(ctx, nil, mediaID)
  if mErr != nil {
    return nil, mapNotFound(mErr)
  }
  if media.WorkspaceID != workspaceID {
    return nil, recommend.ErrNotFound
  }
  ids := []uuid.UUID{mediaID}
  shots, err := rs.labelRepo.GetShotsByMediaIDs(ctx, nil, ids)
  if err != nil {
    return nil, fmt.Errorf("Failed to load shot labels: %w", err)
  }
  faces, err := rs.labelRepo.GetFacesByMediaIDs(ctx, nil, ids)
  if err != nil {
    return nil, fmt.Errorf("Failed to load face labels: %w", err)
  }
  people, err := rs.labelRepo.GetPeopleByMediaIDs(ctx, nil, ids)
  if err != nil {
    return nil, fmt.Errorf("Failed to load person labels: %w", err)
  }
  objects, err := rs.labelRepo.GetObjectsByMediaIDs(ctx, nil, ids)
  if err != nil {
    return nil, fmt.Errorf("Failed to load object labels: %w", err)
  }
  speech, err := rs.labelRepo.GetSpeechByMediaIDs(ctx, nil, ids)
  if err != nil {
    return nil, fmt.Errorf("Failed to load speech labels: %w", err)
  }
  clips, err := rs.mediaClipRepo.GetByMediaIDs(ctx, nil, ids)
  if err != nil {
    return nil, fmt.Errorf("Failed to load media clips: %w", err)
  }
  id := mediaID
  return &recommend.StrategyContext{
    WorkspaceID:   workspaceID,
    MediaID:       &id,
    Filter:        req.Filter,
    Shots:         shots,
    Faces:         faces,
    People:        people,
    Objects:       objects,
    Speech:        speech,
    ExistingClips: clips,
  }, nil
}

func (rs *recommendationService) buildTimelineContext(ctx context.Context, workspaceID, timelineID uuid.UUID, targetMode string, req GenerateRequest) (*recommend.StrategyContext, error) {
  timeline, tErr := rs.timelineRepo.GetByID(ctx, nil, timelineID)
  if tErr != nil {
    return nil, mapNotFound(tErr)
  }
  if timeline.WorkspaceID != workspaceID {
    return nil, recommend.ErrNotFound
  }

  timelineClips, tcErr := rs.timelineClipRepo.GetByTimelineIDs(ctx, nil, []uuid.UUID{timelineID})
  if tcErr != nil {
    return nil, fmt.Errorf("Failed to load timeline clips: %w", tcErr)
  }

  var seed *types.TimelineClip
  if req.SeedClipID != nil {
    for _, tc := range timelineClips {
      if tc.ID == *req.SeedClipID {
        seed = tc
        break
      }
    }
    if seed == nil {
      return nil, recommend.ErrNotFound
    }
  } else if len(timelineClips) > 0 {
    // Clips come back ordered by position; the last one seeds continuation.
    seed = timelineClips[len(timelineClips)-1]
  }
  if seed == nil {
    return nil, &recommend.ValidationError{Field: "seed_clip_id", Msg: "timeline has no clips to seed from"}
  }

  seedMedia, smErr := rs.mediaRepo.GetByID(ctx, nil, seed.MediaID)
  if smErr != nil {
    return nil, mapNotFound(smErr)
  }

  pool, pErr := rs.mediaRepo.ListByWorkspace(ctx, nil, workspaceID, mediaPoolLimit, 0)
  if pErr != nil {
    return nil, fmt.Errorf("Failed to load workspace media: %w", pErr)
  }
  mediaByID := make(map[uuid.UUID]*types.Media, len(pool))
  mediaIDs := make([]uuid.UUID, 0, len(pool))
  for _, m := range pool {
    mediaByID[m.ID] = m
    mediaIDs = append(mediaIDs, m.ID)
  }
  if _, ok := mediaByID[seedMedia.ID]; !ok {
    mediaByID[seedMedia.ID] = seedMedia
    mediaIDs = append(mediaIDs, seedMedia.ID)
  }

  poolClips, pcErr := rs.mediaClipRepo.GetByMediaIDs(ctx, nil, mediaIDs)
  if pcErr != nil {
    return nil, fmt.Errorf("Failed to load candidate clips: %w", pcErr)
  }
  available := make([]recommend.CandidateClip, 0, len(poolClips))
  for _, c := range poolClips {
    m, ok := mediaByID[c.MediaID]
    if !ok {
      continue
    }
    available = append(available, recommend.CandidateClip{Clip: c, Media: m})
  }

  shots, err := rs.labelRepo.GetShotsByMediaIDs(ctx, nil, mediaIDs)
  if err != nil {
    return nil, fmt.Errorf("Failed to load shot labels: %w", err)
  }
  faces, err := rs.labelRepo.GetFacesByMediaIDs(ctx, nil, mediaIDs)
  if err != nil {
    return nil, fmt.Errorf("Failed to load face labels: %w", err)
  }
  people, err := rs.labelRepo.GetPeopleByMediaIDs(ctx, nil, mediaIDs)
  if err != nil {
    return nil, fmt.Errorf("Failed to load person labels: %w", err)
  }
  objects, err := rs.labelRepo.GetObjectsByMediaIDs(ctx, nil, mediaIDs)
  if err != nil {
    return nil, fmt.Errorf("Failed to load object labels: %w", err)
  }
  speech, err := rs.labelRepo.GetSpeechByMediaIDs(ctx, nil, mediaIDs)
  if err != nil {
    return nil, fmt.Errorf("Failed to load speech labels: %w", err)
  }

  id := timelineID
  return &recommend.StrategyContext{
    WorkspaceID:    workspaceID,
    TimelineID:     &id,
    TargetMode:     targetMode,
    Filter:         req.Search.FilterParams,
    Search:         req.Search,
    Shots:          shots,
    Faces:          faces,
    People:         people,
    Objects:        objects,
    Speech:         speech,
    SeedClip:       seed,
    SeedMedia:      seedMedia,
    AvailableClips: available,
  }, nil
}

func (rs *recommendationService) ListForMedia(ctx context.Context, workspaceID, mediaID uuid.UUID, filter repos.RecommendationListFilter, page, perPage int) ([]*types.MediaRecommendation, int64, error) {
  media, mErr := rs.mediaRepo.GetByID(ctx, nil, mediaID)
  if mErr != nil {
    return nil, 0, mapNotFound(mErr)
  }
  if media.WorkspaceID != workspaceID {
    return nil, 0, recommend.ErrNotFound
  }
  return rs.recRepo.ListMediaRecs(ctx, nil, mediaID, filter, page, perPage)
}

func (rs *recommendationService) ListForTimeline(ctx context.Context, workspaceID, timelineID uuid.UUID, filter repos.RecommendationListFilter, page, perPage int) ([]*types.TimelineRecommendation, int64, error) {
  timeline, tErr := rs.timelineRepo.GetByID(ctx, nil, timelineID)
  if tErr != nil {
    return nil, 0, mapNotFound(tErr)
  }
  if timeline.WorkspaceID != workspaceID {
    return nil, 0, recommend.ErrNotFound
  }
  return rs.recRepo.ListTimelineRecs(ctx, nil, timelineID, filter, page, perPage)
}

// AcceptMediaRecommendation materializes the proposed window as a media clip.
// Accepting twice is a no-op returning the original clip; accepting a
// dismissed recommendation is an invalid transition.
func (rs *recommendationService) AcceptMediaRecommendation(ctx context.Context, workspaceID, recID uuid.UUID) (*types.MediaRecommendation, *types.MediaClip, error) {
  rec, rErr := rs.recRepo.GetMediaRecByID(ctx, nil, recID)
  if rErr != nil {
    return nil, nil, mapNotFound(rErr)
  }
  if rec.WorkspaceID != workspaceID {
    return nil, nil, recommend.ErrNotFound
  }
  if rec.DismissedAt != nil {
    return nil, nil, recommend.ErrInvalidState
  }
  if rec.AcceptedAt != nil {
    var clip *types.MediaClip
    if rec.ClipID != nil {
      clip, _ = rs.mediaClipRepo.GetByID(ctx, nil, *rec.ClipID)
    }
    return rec, clip, nil
  }

  var clip *types.MediaClip
  err := rs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
    if rec.ClipID != nil {
      // The window already matched an existing clip at generation time.
      existing, gErr := rs.mediaClipRepo.GetByID(ctx, tx, *rec.ClipID)
      if gErr == nil {
        clip = existing
      }
    }
    if clip == nil {
      created, cErr := rs.mediaClipRepo.Create(ctx, tx, &types.MediaClip{
        ID:             uuid.New(),
        WorkspaceID:    workspaceID,
        MediaID:        rec.MediaID,
        Start:          rec.Start,
        End:            rec.End,
        LabelType:      rec.LabelType,
        SourceStrategy: rec.Strategy,
        Score:          rec.Score,
        Provenance:     rec.ReasonData,
      })
      if cErr != nil {
        return &recommend.PersistenceError{Op: "create clip from recommendation", Err: cErr}
      }
      clip = created
    }
    now := time.Now()
    clipID := clip.ID
    rec.ClipID = &clipID
    rec.AcceptedAt = &now
    if uErr := rs.recRepo.UpdateMediaRec(ctx, tx, rec); uErr != nil {
      return &recommend.PersistenceError{Op: "accept media recommendation", Err: uErr}
    }
    return nil
  })
  if err != nil {
    return nil, nil, err
  }
  rs.cache.Invalidate(ctx, "media", rec.MediaID.String())
  return rec, clip, nil
}

func (rs *recommendationService) DismissMediaRecommendation(ctx context.Context, workspaceID, recID uuid.UUID) (*types.MediaRecommendation, error) {
  rec, rErr := rs.recRepo.GetMediaRecByID(ctx, nil, recID)
  if rErr != nil {
    return nil, mapNotFound(rErr)
  }
  if rec.WorkspaceID != workspaceID {
    return nil, recommend.ErrNotFound
  }
  if rec.DismissedAt != nil {
    return rec, nil
  }
  if rec.AcceptedAt != nil {
    return nil, recommend.ErrInvalidState
  }
  now := time.Now()
  rec.DismissedAt = &now
  if uErr := rs.recRepo.UpdateMediaRec(ctx, nil, rec); uErr != nil {
    return nil, &recommend.PersistenceError{Op: "dismiss media recommendation", Err: uErr}
  }
  rs.cache.Invalidate(ctx, "media", rec.MediaID.String())
  return rec, nil
}

// AcceptTimelineRecommendation pulls the proposed pool clip into the timeline:
// appended after the last position, or replacing the seed clip in place.
func (rs *recommendationService) AcceptTimelineRecommendation(ctx context.Context, workspaceID, recID uuid.UUID) (*types.TimelineRecommendation, *types.TimelineClip, error) {
  rec, rErr := rs.recRepo.GetTimelineRecByID(ctx, nil, recID)
  if rErr != nil {
    return nil, nil, mapNotFound(rErr)
  }
  if rec.WorkspaceID != workspaceID {
    return nil, nil, recommend.ErrNotFound
  }
  if rec.DismissedAt != nil {
    return nil, nil, recommend.ErrInvalidState
  }
  if rec.AcceptedAt != nil {
    var clip *types.TimelineClip
    if rec.TimelineClipID != nil {
      clip, _ = rs.timelineClipRepo.GetByID(ctx, nil, *rec.TimelineClipID)
    }
    return rec, clip, nil
  }

  sourceClip, scErr := rs.mediaClipRepo.GetByID(ctx, nil, rec.ClipID)
  if scErr != nil {
    return nil, nil, mapNotFound(scErr)
  }

  var clip *types.TimelineClip
  err := rs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
    position := 0
    if rec.TargetMode == types.TargetModeReplace && rec.SeedClipID != nil {
      seed, sErr := rs.timelineClipRepo.GetByID(ctx, tx, *rec.SeedClipID)
      if sErr != nil {
        return &recommend.PersistenceError{Op: "load seed clip for replace", Err: sErr}
      }
      position = seed.Position
      if dErr := rs.timelineClipRepo.SoftDeleteByID(ctx, tx, seed.ID); dErr != nil {
        return &recommend.PersistenceError{Op: "remove replaced clip", Err: dErr}
      }
    } else {
      maxPos, pErr := rs.timelineClipRepo.MaxPosition(ctx, tx, rec.TimelineID)
      if pErr != nil {
        return &recommend.PersistenceError{Op: "resolve timeline position", Err: pErr}
      }
      position = maxPos + 1
    }

    sourceClipID := sourceClip.ID
    created, cErr := rs.timelineClipRepo.Create(ctx, tx, &types.TimelineClip{
      ID:             uuid.New(),
      WorkspaceID:    workspaceID,
      TimelineID:     rec.TimelineID,
      MediaID:        sourceClip.MediaID,
      Start:          rec.Start,
      End:            rec.End,
      Position:       position,
      SourceClipID:   &sourceClipID,
      SourceStrategy: rec.Strategy,
      Score:          rec.Score,
      Provenance:     rec.ReasonData,
    })
    if cErr != nil {
      return &recommend.PersistenceError{Op: "create timeline clip from recommendation", Err: cErr}
    }
    clip = created

    now := time.Now()
    clipID := clip.ID
    rec.TimelineClipID = &clipID
    rec.AcceptedAt = &now
    if uErr := rs.recRepo.UpdateTimelineRec(ctx, tx, rec); uErr != nil {
      return &recommend.PersistenceError{Op: "accept timeline recommendation", Err: uErr}
    }
    return nil
  })
  if err != nil {
    return nil, nil, err
  }
  rs.cache.Invalidate(ctx, "timeline", rec.TimelineID.String())
  return rec, clip, nil
}

func (rs *recommendationService) DismissTimelineRecommendation(ctx context.Context, workspaceID, recID uuid.UUID) (*types.TimelineRecommendation, error) {
  rec, rErr := rs.recRepo.GetTimelineRecByID(ctx, nil, recID)
  if rErr != nil {
    return nil, mapNotFound(rErr)
  }
  if rec.WorkspaceID != workspaceID {
    return nil, recommend.ErrNotFound
  }
  if rec.DismissedAt != nil {
    return rec, nil
  }
  if rec.AcceptedAt != nil {
    return nil, recommend.ErrInvalidState
  }
  now := time.Now()
  rec.DismissedAt = &now
  if uErr := rs.recRepo.UpdateTimelineRec(ctx, nil, rec); uErr != nil {
    return nil, &recommend.PersistenceError{Op: "dismiss timeline recommendation", Err: uErr}
  }
  rs.cache.Invalidate(ctx, "timeline", rec.TimelineID.String())
  return rec, nil
}

func strategyNames(strategies []recommend.Strategy) []string {
  names := make([]string, 0, len(strategies))
  for _, s := range strategies {
    names = append(names, s.Name())
  }
  return names
}

func marshalReasonData(rd map[string]any) datatypes.JSON {
  if len(rd) == 0 {
    return nil
  }
  raw, err := json.Marshal(rd)
  if err != nil {
    return nil
  }
  return datatypes.JSON(raw)
}

func mapNotFound(err error) error {
  if errors.Is(err, gorm.ErrRecordNotFound) {
    return recommend.ErrNotFound
  }
  return err
}
