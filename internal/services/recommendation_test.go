package services

import (
  "context"
  "errors"
  "testing"

  "github.com/google/uuid"

  "github.com/framecut/framecut-backend/internal/logger"
  "github.com/framecut/framecut-backend/internal/recommend"
  "github.com/framecut/framecut-backend/internal/repos"
  "github.com/framecut/framecut-backend/internal/testutil"
  "github.com/framecut/framecut-backend/internal/types"
)

type recTestEnv struct {
  svc              RecommendationService
  mediaRepo        repos.MediaRepo
  mediaClipRepo    repos.MediaClipRepo
  timelineRepo     repos.TimelineRepo
  timelineClipRepo repos.TimelineClipRepo
  labelRepo        repos.LabelRepo
}

func newRecTestEnv(t *testing.T) *recTestEnv {
  t.Helper()
  t.Setenv("REDIS_ADDR", "")
  db := testutil.OpenTestDB(t)
  log, err := logger.New("test")
  if err != nil {
    t.Fatalf("logger.New: %v", err)
  }
  mediaRepo := repos.NewMediaRepo(db, log)
  mediaClipRepo := repos.NewMediaClipRepo(db, log)
  timelineRepo := repos.NewTimelineRepo(db, log)
  timelineClipRepo := repos.NewTimelineClipRepo(db, log)
  labelRepo := repos.NewLabelRepo(db, log)
  recRepo := repos.NewRecommendationRepo(db, log)
  svc := NewRecommendationService(
    db,
    log,
    recommend.NewEngine(log),
    mediaRepo,
    mediaClipRepo,
    timelineRepo,
    timelineClipRepo,
    labelRepo,
    recRepo,
    NewRecommendationCache(log),
  )
  return &recTestEnv{
    svc:              svc,
    mediaRepo:        mediaRepo,
    mediaClipRepo:    mediaClipRepo,
    timelineRepo:     timelineRepo,
    timelineClipRepo: timelineClipRepo,
    labelRepo:        labelRepo,
  }
}

func (e *recTestEnv) seedLabeledMedia(t *testing.T, wsID uuid.UUID) *types.Media {
  t.Helper()
  ctx := context.Background()
  media, err := e.mediaRepo.Create(ctx, nil, &types.Media{
    ID:           uuid.New(),
    WorkspaceID:  wsID,
    OriginalName: "interview.mp4",
    StorageKey:   "media/" + wsID.String() + "/interview.mp4",
    Status:       types.MediaStatusLabeled,
  })
  if err != nil {
    t.Fatalf("seed media: %v", err)
  }
  shots := []*types.LabelShot{
    {ID: uuid.New(), WorkspaceID: wsID, MediaID: media.ID, Start: 0, End: 10, Confidence: 0.9},
    {ID: uuid.New(), WorkspaceID: wsID, MediaID: media.ID, Start: 10, End: 20, Confidence: 0.8},
    {ID: uuid.New(), WorkspaceID: wsID, MediaID: media.ID, Start: 20, End: 30, Confidence: 0.85},
  }
  if err := e.labelRepo.CreateShots(ctx, nil, shots); err != nil {
    t.Fatalf("seed shots: %v", err)
  }
  return media
}

func TestGenerateForMediaPersistsAndRefreshes(t *testing.T) {
  env := newRecTestEnv(t)
  ctx := context.Background()
  wsID := uuid.New()
  media := env.seedLabeledMedia(t, wsID)

  req := GenerateRequest{Strategies: []string{types.StrategyAdjacentShot}}
  result, err := env.svc.GenerateForMedia(ctx, wsID, media.ID, req)
  if err != nil {
    t.Fatalf("GenerateForMedia: %v", err)
  }
  // 3 shots produce 4 neighbour windows, the duplicated middle one merges.
  if result.Generated != 3 {
    t.Fatalf("Generated=%d, want 3", result.Generated)
  }
  if len(result.QueryHash) != 32 {
    t.Fatalf("len(QueryHash)=%d, want 32", len(result.QueryHash))
  }
  for i, rec := range result.MediaRecs {
    if rec.Version != 1 {
      t.Fatalf("rec[%d].Version=%d, want 1", i, rec.Version)
    }
    if rec.Rank != i {
      t.Fatalf("rec[%d].Rank=%d, want %d", i, rec.Rank, i)
    }
  }

  // Regenerating with identical inputs refreshes the same rows.
  again, err := env.svc.GenerateForMedia(ctx, wsID, media.ID, req)
  if err != nil {
    t.Fatalf("GenerateForMedia again: %v", err)
  }
  if again.QueryHash != result.QueryHash {
    t.Fatalf("hash changed across identical runs")
  }
  if again.Generated != 3 || again.Pruned != 0 {
    t.Fatalf("Generated=%d Pruned=%d, want 3 and 0", again.Generated, again.Pruned)
  }
  items, total, err := env.svc.ListForMedia(ctx, wsID, media.ID, repos.RecommendationListFilter{}, 1, 10)
  if err != nil {
    t.Fatalf("ListForMedia: %v", err)
  }
  if total != 3 {
    t.Fatalf("total=%d, want 3 (no duplicate rows)", total)
  }
  for _, it := range items {
    if it.Version != 2 {
      t.Fatalf("Version=%d, want 2 after a refresh", it.Version)
    }
  }
}

func TestGenerateForMediaPrunesStaleRows(t *testing.T) {
  env := newRecTestEnv(t)
  ctx := context.Background()
  wsID := uuid.New()
  media := env.seedLabeledMedia(t, wsID)

  first, err := env.svc.GenerateForMedia(ctx, wsID, media.ID, GenerateRequest{Strategies: []string{types.StrategyAdjacentShot}})
  if err != nil {
    t.Fatalf("first generation: %v", err)
  }

  minConf := 0.85
  second, err := env.svc.GenerateForMedia(ctx, wsID, media.ID, GenerateRequest{
    Strategies: []string{types.StrategyAdjacentShot},
    Filter:     recommend.FilterParams{MinConfidence: &minConf},
  })
  if err != nil {
    t.Fatalf("second generation: %v", err)
  }
  if second.QueryHash == first.QueryHash {
    t.Fatalf("filter change did not change the query hash")
  }
  if second.Pruned == 0 {
    t.Fatalf("stale never-actioned rows were not pruned")
  }
  _, total, err := env.svc.ListForMedia(ctx, wsID, media.ID, repos.RecommendationListFilter{}, 1, 20)
  if err != nil {
    t.Fatalf("ListForMedia: %v", err)
  }
  if total != int64(second.Generated) {
    t.Fatalf("total=%d, want only the fresh generation (%d)", total, second.Generated)
  }
}

func TestGenerateForMediaUnknownMedia(t *testing.T) {
  env := newRecTestEnv(t)
  _, err := env.svc.GenerateForMedia(context.Background(), uuid.New(), uuid.New(), GenerateRequest{})
  if !errors.Is(err, recommend.ErrNotFound) {
    t.Fatalf("err=%v, want ErrNotFound", err)
  }
}

func TestMediaRecommendationLifecycle(t *testing.T) {
  env := newRecTestEnv(t)
  ctx := context.Background()
  wsID := uuid.New()
  media := env.seedLabeledMedia(t, wsID)

  result, err := env.svc.GenerateForMedia(ctx, wsID, media.ID, GenerateRequest{Strategies: []string{types.StrategyAdjacentShot}})
  if err != nil {
    t.Fatalf("GenerateForMedia: %v", err)
  }
  if len(result.MediaRecs) < 2 {
    t.Fatalf("need at least 2 recommendations, got %d", len(result.MediaRecs))
  }
  first := result.MediaRecs[0]
  second := result.MediaRecs[1]

  accepted, clip, err := env.svc.AcceptMediaRecommendation(ctx, wsID, first.ID)
  if err != nil {
    t.Fatalf("Accept: %v", err)
  }
  if accepted.AcceptedAt == nil || accepted.ClipID == nil {
    t.Fatalf("accept did not set accepted_at/clip_id")
  }
  if clip == nil || clip.Start != first.Start || clip.End != first.End {
    t.Fatalf("materialized clip does not match the proposed window: %+v", clip)
  }
  if clip.SourceStrategy != first.Strategy {
    t.Fatalf("clip.SourceStrategy=%q, want %q", clip.SourceStrategy, first.Strategy)
  }

  // Accepting again is a no-op returning the same clip.
  _, clipAgain, err := env.svc.AcceptMediaRecommendation(ctx, wsID, first.ID)
  if err != nil {
    t.Fatalf("second Accept: %v", err)
  }
  if clipAgain == nil || clipAgain.ID != clip.ID {
    t.Fatalf("second accept produced a different clip")
  }

  // Dismissing an accepted recommendation is invalid.
  if _, err := env.svc.DismissMediaRecommendation(ctx, wsID, first.ID); !errors.Is(err, recommend.ErrInvalidState) {
    t.Fatalf("dismiss accepted: err=%v, want ErrInvalidState", err)
  }

  dismissed, err := env.svc.DismissMediaRecommendation(ctx, wsID, second.ID)
  if err != nil {
    t.Fatalf("Dismiss: %v", err)
  }
  if dismissed.DismissedAt == nil {
    t.Fatalf("dismiss did not set dismissed_at")
  }
  // Dismissing again is a no-op.
  if _, err := env.svc.DismissMediaRecommendation(ctx, wsID, second.ID); err != nil {
    t.Fatalf("second Dismiss: %v", err)
  }
  // Accepting a dismissed recommendation is invalid.
  if _, _, err := env.svc.AcceptMediaRecommendation(ctx, wsID, second.ID); !errors.Is(err, recommend.ErrInvalidState) {
    t.Fatalf("accept dismissed: err=%v, want ErrInvalidState", err)
  }

  // Terminal rows can be filtered out of listings.
  items, total, err := env.svc.ListForMedia(ctx, wsID, media.ID, repos.RecommendationListFilter{ExcludeAccepted: true, ExcludeDismissed: true}, 1, 10)
  if err != nil {
    t.Fatalf("ListForMedia: %v", err)
  }
  if total != 1 || len(items) != 1 {
    t.Fatalf("total=%d len=%d, want the single open recommendation", total, len(items))
  }
}

func (e *recTestEnv) seedTimeline(t *testing.T, wsID uuid.UUID) (*types.Timeline, *types.TimelineClip, *types.MediaClip) {
  t.Helper()
  ctx := context.Background()
  media := e.seedLabeledMedia(t, wsID)

  timeline, err := e.timelineRepo.Create(ctx, nil, &types.Timeline{
    ID:          uuid.New(),
    WorkspaceID: wsID,
    Name:        "rough cut",
  })
  if err != nil {
    t.Fatalf("seed timeline: %v", err)
  }
  seed, err := e.timelineClipRepo.Create(ctx, nil, &types.TimelineClip{
    ID:          uuid.New(),
    WorkspaceID: wsID,
    TimelineID:  timeline.ID,
    MediaID:     media.ID,
    Start:       10,
    End:         20,
    Position:    0,
  })
  if err != nil {
    t.Fatalf("seed timeline clip: %v", err)
  }
  // A pool clip starting right after the seed; adjacency should surface it.
  pool, err := e.mediaClipRepo.Create(ctx, nil, &types.MediaClip{
    ID:          uuid.New(),
    WorkspaceID: wsID,
    MediaID:     media.ID,
    Start:       20.2,
    End:         28,
  })
  if err != nil {
    t.Fatalf("seed pool clip: %v", err)
  }
  return timeline, seed, pool
}

func TestTimelineRecommendationAppendLifecycle(t *testing.T) {
  env := newRecTestEnv(t)
  ctx := context.Background()
  wsID := uuid.New()
  timeline, seed, pool := env.seedTimeline(t, wsID)

  result, err := env.svc.GenerateForTimeline(ctx, wsID, timeline.ID, GenerateRequest{Strategies: []string{types.StrategyAdjacentShot}})
  if err != nil {
    t.Fatalf("GenerateForTimeline: %v", err)
  }
  if result.Generated != 1 {
    t.Fatalf("Generated=%d, want 1", result.Generated)
  }
  rec := result.TimelineRecs[0]
  if rec.ClipID != pool.ID {
    t.Fatalf("rec.ClipID=%s, want the pool clip %s", rec.ClipID, pool.ID)
  }
  if rec.TargetMode != types.TargetModeAppend {
    t.Fatalf("TargetMode=%q, want append by default", rec.TargetMode)
  }
  if rec.SeedClipID == nil || *rec.SeedClipID != seed.ID {
    t.Fatalf("SeedClipID=%v, want %s", rec.SeedClipID, seed.ID)
  }

  accepted, clip, err := env.svc.AcceptTimelineRecommendation(ctx, wsID, rec.ID)
  if err != nil {
    t.Fatalf("Accept: %v", err)
  }
  if accepted.TimelineClipID == nil || accepted.AcceptedAt == nil {
    t.Fatalf("accept did not set timeline_clip_id/accepted_at")
  }
  if clip.Position != 1 {
    t.Fatalf("Position=%d, want 1 (appended after the seed)", clip.Position)
  }
  if clip.SourceClipID == nil || *clip.SourceClipID != pool.ID {
    t.Fatalf("SourceClipID=%v, want %s", clip.SourceClipID, pool.ID)
  }

  _, clipAgain, err := env.svc.AcceptTimelineRecommendation(ctx, wsID, rec.ID)
  if err != nil {
    t.Fatalf("second Accept: %v", err)
  }
  if clipAgain == nil || clipAgain.ID != clip.ID {
    t.Fatalf("second accept produced a different timeline clip")
  }
  if _, err := env.svc.DismissTimelineRecommendation(ctx, wsID, rec.ID); !errors.Is(err, recommend.ErrInvalidState) {
    t.Fatalf("dismiss accepted: err=%v, want ErrInvalidState", err)
  }
}

func TestTimelineRecommendationReplaceLifecycle(t *testing.T) {
  env := newRecTestEnv(t)
  ctx := context.Background()
  wsID := uuid.New()
  timeline, seed, pool := env.seedTimeline(t, wsID)

  seedID := seed.ID
  result, err := env.svc.GenerateForTimeline(ctx, wsID, timeline.ID, GenerateRequest{
    Strategies: []string{types.StrategyAdjacentShot},
    TargetMode: types.TargetModeReplace,
    SeedClipID: &seedID,
  })
  if err != nil {
    t.Fatalf("GenerateForTimeline: %v", err)
  }
  if result.Generated != 1 {
    t.Fatalf("Generated=%d, want 1", result.Generated)
  }

  _, clip, err := env.svc.AcceptTimelineRecommendation(ctx, wsID, result.TimelineRecs[0].ID)
  if err != nil {
    t.Fatalf("Accept: %v", err)
  }
  if clip.Position != 0 {
    t.Fatalf("Position=%d, want the replaced seed's position 0", clip.Position)
  }

  remaining, err := env.timelineClipRepo.GetByTimelineIDs(ctx, nil, []uuid.UUID{timeline.ID})
  if err != nil {
    t.Fatalf("GetByTimelineIDs: %v", err)
  }
  if len(remaining) != 1 || remaining[0].ID != clip.ID {
    t.Fatalf("timeline clips=%d, want only the replacement (seed soft-deleted)", len(remaining))
  }
  if remaining[0].SourceClipID == nil || *remaining[0].SourceClipID != pool.ID {
    t.Fatalf("SourceClipID=%v, want %s", remaining[0].SourceClipID, pool.ID)
  }
}

func TestGenerateForTimelineValidation(t *testing.T) {
  env := newRecTestEnv(t)
  ctx := context.Background()
  wsID := uuid.New()

  if _, err := env.svc.GenerateForTimeline(ctx, wsID, uuid.New(), GenerateRequest{TargetMode: "sideways"}); err == nil {
    t.Fatalf("invalid target mode accepted")
  } else {
    var vErr *recommend.ValidationError
    if !errors.As(err, &vErr) || vErr.Field != "target_mode" {
      t.Fatalf("err=%v, want ValidationError on target_mode", err)
    }
  }

  timeline, err := env.timelineRepo.Create(ctx, nil, &types.Timeline{ID: uuid.New(), WorkspaceID: wsID, Name: "empty"})
  if err != nil {
    t.Fatalf("seed timeline: %v", err)
  }
  _, gErr := env.svc.GenerateForTimeline(ctx, wsID, timeline.ID, GenerateRequest{})
  var vErr *recommend.ValidationError
  if !errors.As(gErr, &vErr) || vErr.Field != "seed_clip_id" {
    t.Fatalf("err=%v, want ValidationError on seed_clip_id (no clips to seed from)", gErr)
  }
}
