package repos

import (
  "context"
  "testing"
  "time"

  "github.com/google/uuid"

  "github.com/framecut/framecut-backend/internal/logger"
  "github.com/framecut/framecut-backend/internal/testutil"
  "github.com/framecut/framecut-backend/internal/types"
)

func newTestRecRepo(t *testing.T) RecommendationRepo {
  t.Helper()
  log, err := logger.New("test")
  if err != nil {
    t.Fatalf("logger.New: %v", err)
  }
  return NewRecommendationRepo(testutil.OpenTestDB(t), log)
}

func mediaRec(wsID, mediaID uuid.UUID, hash string, start, end, score float64, rank int) *types.MediaRecommendation {
  return &types.MediaRecommendation{
    WorkspaceID: wsID,
    MediaID:     mediaID,
    Strategy:    types.StrategyAdjacentShot,
    LabelType:   types.LabelTypeShot,
    Start:       start,
    End:         end,
    Score:       score,
    Rank:        rank,
    Reason:      "Next segment",
    QueryHash:   hash,
  }
}

func timelineRec(wsID, timelineID, clipID uuid.UUID, hash string, score float64, rank int) *types.TimelineRecommendation {
  return &types.TimelineRecommendation{
    WorkspaceID: wsID,
    TimelineID:  timelineID,
    Strategy:    types.StrategySameEntity,
    LabelType:   types.LabelTypeSegment,
    Start:       0,
    End:         10,
    ClipID:      clipID,
    Score:       score,
    Rank:        rank,
    QueryHash:   hash,
    TargetMode:  types.TargetModeAppend,
  }
}

func TestUpsertMediaRecInsertsThenRefreshes(t *testing.T) {
  repo := newTestRecRepo(t)
  ctx := context.Background()
  wsID := uuid.New()
  mediaID := uuid.New()

  created, err := repo.UpsertMediaRec(ctx, nil, mediaRec(wsID, mediaID, "hash-a", 0, 10, 0.8, 0))
  if err != nil {
    t.Fatalf("UpsertMediaRec insert: %v", err)
  }
  if created.ID == uuid.Nil {
    t.Fatalf("insert did not assign an id")
  }
  if created.Version != 1 {
    t.Fatalf("Version=%d, want 1", created.Version)
  }

  refreshed, err := repo.UpsertMediaRec(ctx, nil, mediaRec(wsID, mediaID, "hash-a", 0, 10, 0.6, 3))
  if err != nil {
    t.Fatalf("UpsertMediaRec refresh: %v", err)
  }
  if refreshed.ID != created.ID {
    t.Fatalf("refresh created a new row: %s vs %s", refreshed.ID, created.ID)
  }
  if refreshed.Version != 2 {
    t.Fatalf("Version=%d, want 2", refreshed.Version)
  }
  if refreshed.Score != 0.6 || refreshed.Rank != 3 {
    t.Fatalf("refresh did not apply new score/rank: %v/%d", refreshed.Score, refreshed.Rank)
  }

  count, err := repo.CountMediaRecsByHash(ctx, nil, "hash-a")
  if err != nil {
    t.Fatalf("CountMediaRecsByHash: %v", err)
  }
  if count != 1 {
    t.Fatalf("count=%d, want 1 (dedup key must hold)", count)
  }
}

func TestUpsertMediaRecKeepsClipIDWhenAbsent(t *testing.T) {
  repo := newTestRecRepo(t)
  ctx := context.Background()
  wsID := uuid.New()
  mediaID := uuid.New()
  clipID := uuid.New()

  first := mediaRec(wsID, mediaID, "hash-a", 0, 10, 0.8, 0)
  first.ClipID = &clipID
  if _, err := repo.UpsertMediaRec(ctx, nil, first); err != nil {
    t.Fatalf("UpsertMediaRec insert: %v", err)
  }

  refreshed, err := repo.UpsertMediaRec(ctx, nil, mediaRec(wsID, mediaID, "hash-a", 0, 10, 0.7, 1))
  if err != nil {
    t.Fatalf("UpsertMediaRec refresh: %v", err)
  }
  if refreshed.ClipID == nil || *refreshed.ClipID != clipID {
    t.Fatalf("ClipID=%v, want the existing link %s preserved", refreshed.ClipID, clipID)
  }
}

func TestUpsertTimelineRecKeyedByClip(t *testing.T) {
  repo := newTestRecRepo(t)
  ctx := context.Background()
  wsID := uuid.New()
  timelineID := uuid.New()
  clipID := uuid.New()

  created, err := repo.UpsertTimelineRec(ctx, nil, timelineRec(wsID, timelineID, clipID, "hash-a", 0.9, 0))
  if err != nil {
    t.Fatalf("UpsertTimelineRec insert: %v", err)
  }
  if created.Version != 1 {
    t.Fatalf("Version=%d, want 1", created.Version)
  }

  refreshed, err := repo.UpsertTimelineRec(ctx, nil, timelineRec(wsID, timelineID, clipID, "hash-a", 0.5, 2))
  if err != nil {
    t.Fatalf("UpsertTimelineRec refresh: %v", err)
  }
  if refreshed.ID != created.ID || refreshed.Version != 2 {
    t.Fatalf("refresh: id %s vs %s, version %d", refreshed.ID, created.ID, refreshed.Version)
  }

  // A different clip under the same hash is a new row.
  other, err := repo.UpsertTimelineRec(ctx, nil, timelineRec(wsID, timelineID, uuid.New(), "hash-a", 0.4, 3))
  if err != nil {
    t.Fatalf("UpsertTimelineRec other clip: %v", err)
  }
  if other.ID == created.ID {
    t.Fatalf("distinct clip reused the same row")
  }
}

func TestPruneMediaRecsSparesActionedRows(t *testing.T) {
  repo := newTestRecRepo(t)
  ctx := context.Background()
  wsID := uuid.New()
  mediaID := uuid.New()
  now := time.Now()

  stale, err := repo.UpsertMediaRec(ctx, nil, mediaRec(wsID, mediaID, "hash-old", 0, 10, 0.8, 0))
  if err != nil {
    t.Fatalf("seed stale: %v", err)
  }
  accepted, err := repo.UpsertMediaRec(ctx, nil, mediaRec(wsID, mediaID, "hash-old", 20, 30, 0.7, 1))
  if err != nil {
    t.Fatalf("seed accepted: %v", err)
  }
  accepted.AcceptedAt = &now
  if err := repo.UpdateMediaRec(ctx, nil, accepted); err != nil {
    t.Fatalf("mark accepted: %v", err)
  }
  dismissed, err := repo.UpsertMediaRec(ctx, nil, mediaRec(wsID, mediaID, "hash-old", 40, 50, 0.6, 2))
  if err != nil {
    t.Fatalf("seed dismissed: %v", err)
  }
  dismissed.DismissedAt = &now
  if err := repo.UpdateMediaRec(ctx, nil, dismissed); err != nil {
    t.Fatalf("mark dismissed: %v", err)
  }
  if _, err := repo.UpsertMediaRec(ctx, nil, mediaRec(wsID, mediaID, "hash-new", 0, 10, 0.9, 0)); err != nil {
    t.Fatalf("seed fresh: %v", err)
  }

  pruned, err := repo.PruneMediaRecs(ctx, nil, wsID, mediaID, "hash-new")
  if err != nil {
    t.Fatalf("PruneMediaRecs: %v", err)
  }
  if pruned != 1 {
    t.Fatalf("pruned=%d, want 1 (only the never-actioned stale row)", pruned)
  }
  if _, err := repo.GetMediaRecByID(ctx, nil, stale.ID); err == nil {
    t.Fatalf("stale row survived the prune")
  }
  if _, err := repo.GetMediaRecByID(ctx, nil, accepted.ID); err != nil {
    t.Fatalf("accepted row was pruned: %v", err)
  }
  if _, err := repo.GetMediaRecByID(ctx, nil, dismissed.ID); err != nil {
    t.Fatalf("dismissed row was pruned: %v", err)
  }
}

func TestListMediaRecsFiltersAndPaginates(t *testing.T) {
  repo := newTestRecRepo(t)
  ctx := context.Background()
  wsID := uuid.New()
  mediaID := uuid.New()
  now := time.Now()

  for i := 0; i < 5; i++ {
    rec := mediaRec(wsID, mediaID, "hash-a", float64(i*100), float64(i*100+10), 1.0-float64(i)/10, i)
    if i == 4 {
      rec.Strategy = types.StrategySameEntity
    }
    created, err := repo.UpsertMediaRec(ctx, nil, rec)
    if err != nil {
      t.Fatalf("seed %d: %v", i, err)
    }
    if i == 0 {
      created.AcceptedAt = &now
      if err := repo.UpdateMediaRec(ctx, nil, created); err != nil {
        t.Fatalf("mark accepted: %v", err)
      }
    }
  }

  items, total, err := repo.ListMediaRecs(ctx, nil, mediaID, RecommendationListFilter{}, 1, 2)
  if err != nil {
    t.Fatalf("ListMediaRecs: %v", err)
  }
  if total != 5 || len(items) != 2 {
    t.Fatalf("total=%d len=%d, want 5 and 2", total, len(items))
  }
  if items[0].Rank != 0 || items[1].Rank != 1 {
    t.Fatalf("ranks=%d,%d, want 0,1 (rank ascending)", items[0].Rank, items[1].Rank)
  }

  items, total, err = repo.ListMediaRecs(ctx, nil, mediaID, RecommendationListFilter{ExcludeAccepted: true}, 1, 10)
  if err != nil {
    t.Fatalf("ListMediaRecs exclude accepted: %v", err)
  }
  if total != 4 || len(items) != 4 {
    t.Fatalf("total=%d len=%d, want 4 and 4", total, len(items))
  }

  items, total, err = repo.ListMediaRecs(ctx, nil, mediaID, RecommendationListFilter{Strategy: types.StrategySameEntity}, 1, 10)
  if err != nil {
    t.Fatalf("ListMediaRecs by strategy: %v", err)
  }
  if total != 1 || len(items) != 1 {
    t.Fatalf("total=%d len=%d, want 1 and 1", total, len(items))
  }
}

func TestListTimelineRecsByTargetMode(t *testing.T) {
  repo := newTestRecRepo(t)
  ctx := context.Background()
  wsID := uuid.New()
  timelineID := uuid.New()

  appendRec := timelineRec(wsID, timelineID, uuid.New(), "hash-a", 0.9, 0)
  if _, err := repo.UpsertTimelineRec(ctx, nil, appendRec); err != nil {
    t.Fatalf("seed append: %v", err)
  }
  replaceRec := timelineRec(wsID, timelineID, uuid.New(), "hash-a", 0.8, 1)
  replaceRec.TargetMode = types.TargetModeReplace
  if _, err := repo.UpsertTimelineRec(ctx, nil, replaceRec); err != nil {
    t.Fatalf("seed replace: %v", err)
  }

  items, total, err := repo.ListTimelineRecs(ctx, nil, timelineID, RecommendationListFilter{TargetMode: types.TargetModeReplace}, 1, 10)
  if err != nil {
    t.Fatalf("ListTimelineRecs: %v", err)
  }
  if total != 1 || len(items) != 1 {
    t.Fatalf("total=%d len=%d, want 1 and 1", total, len(items))
  }
  if items[0].TargetMode != types.TargetModeReplace {
    t.Fatalf("target_mode=%q, want replace", items[0].TargetMode)
  }
}
