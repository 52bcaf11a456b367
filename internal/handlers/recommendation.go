package handlers

import (
  "net/http"
  "strconv"

  "github.com/gin-gonic/gin"
  "github.com/google/uuid"

  "github.com/framecut/framecut-backend/internal/repos"
  "github.com/framecut/framecut-backend/internal/services"
)

type RecommendationHandler struct {
  svc           services.RecommendationService
  workspaceRepo repos.WorkspaceRepo
}

func NewRecommendationHandler(svc services.RecommendationService, workspaceRepo repos.WorkspaceRepo) *RecommendationHandler {
  return &RecommendationHandler{svc: svc, workspaceRepo: workspaceRepo}
}

// POST /api/workspaces/:workspaceID/media/:mediaID/recommendations
func (h *RecommendationHandler) GenerateForMedia(c *gin.Context) {
  workspaceID, ok := resolveWorkspace(c, h.workspaceRepo)
  if !ok {
    return
  }
  mediaID, err := uuid.Parse(c.Param("mediaID"))
  if err != nil {
    c.JSON(http.StatusBadRequest, gin.H{"error": "invalid media id"})
    return
  }
  var req services.GenerateRequest
  if c.Request.ContentLength > 0 {
    if bErr := c.ShouldBindJSON(&req); bErr != nil {
      c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
      return
    }
  }
  result, gErr := h.svc.GenerateForMedia(c.Request.Context(), workspaceID, mediaID, req)
  if gErr != nil {
    RespondServiceError(c, gErr)
    return
  }
  c.JSON(http.StatusOK, result)
}

// POST /api/workspaces/:workspaceID/timelines/:timelineID/recommendations
func (h *RecommendationHandler) GenerateForTimeline(c *gin.Context) {
  workspaceID, ok := resolveWorkspace(c, h.workspaceRepo)
  if !ok {
    return
  }
  timelineID, err := uuid.Parse(c.Param("timelineID"))
  if err != nil {
    c.JSON(http.StatusBadRequest, gin.H{"error": "invalid timeline id"})
    return
  }
  var req services.GenerateRequest
  if c.Request.ContentLength > 0 {
    if bErr := c.ShouldBindJSON(&req); bErr != nil {
      c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
      return
    }
  }
  result, gErr := h.svc.GenerateForTimeline(c.Request.Context(), workspaceID, timelineID, req)
  if gErr != nil {
    RespondServiceError(c, gErr)
    return
  }
  c.JSON(http.StatusOK, result)
}

// GET /api/workspaces/:workspaceID/media/:mediaID/recommendations
func (h *RecommendationHandler) ListForMedia(c *gin.Context) {
  workspaceID, ok := resolveWorkspace(c, h.workspaceRepo)
  if !ok {
    return
  }
  mediaID, err := uuid.Parse(c.Param("mediaID"))
  if err != nil {
    c.JSON(http.StatusBadRequest, gin.H{"error": "invalid media id"})
    return
  }
  filter, page, perPage := listQuery(c)
  recs, total, lErr := h.svc.ListForMedia(c.Request.Context(), workspaceID, mediaID, filter, page, perPage)
  if lErr != nil {
    RespondServiceError(c, lErr)
    return
  }
  c.JSON(http.StatusOK, gin.H{"recommendations": recs, "total": total, "page": page, "per_page": perPage})
}

// GET /api/workspaces/:workspaceID/timelines/:timelineID/recommendations
func (h *RecommendationHandler) ListForTimeline(c *gin.Context) {
  workspaceID, ok := resolveWorkspace(c, h.workspaceRepo)
  if !ok {
    return
  }
  timelineID, err := uuid.Parse(c.Param("timelineID"))
  if err != nil {
    c.JSON(http.StatusBadRequest, gin.H{"error": "invalid timeline id"})
    return
  }
  filter, page, perPage := listQuery(c)
  recs, total, lErr := h.svc.ListForTimeline(c.Request.Context(), workspaceID, timelineID, filter, page, perPage)
  if lErr != nil {
    RespondServiceError(c, lErr)
    return
  }
  c.JSON(http.StatusOK, gin.H{"recommendations": recs, "total": total, "page": page, "per_page": perPage})
}

// POST /api/workspaces/:workspaceID/recommendations/media/:recID/accept
func (h *RecommendationHandler) AcceptMedia(c *gin.Context) {
  workspaceID, ok := resolveWorkspace(c, h.workspaceRepo)
  if !ok {
    return
  }
  recID, err := uuid.Parse(c.Param("recID"))
  if err != nil {
    c.JSON(http.StatusBadRequest, gin.H{"error": "invalid recommendation id"})
    return
  }
  rec, clip, aErr := h.svc.AcceptMediaRecommendation(c.Request.Context(), workspaceID, recID)
  if aErr != nil {
    RespondServiceError(c, aErr)
    return
  }
  c.JSON(http.StatusOK, gin.H{"recommendation": rec, "clip": clip})
}

// POST /api/workspaces/:workspaceID/recommendations/media/:recID/dismiss
func (h *RecommendationHandler) DismissMedia(c *gin.Context) {
  workspaceID, ok := resolveWorkspace(c, h.workspaceRepo)
  if !ok {
    return
  }
  recID, err := uuid.Parse(c.Param("recID"))
  if err != nil {
    c.JSON(http.StatusBadRequest, gin.H{"error": "invalid recommendation id"})
    return
  }
  rec, dErr := h.svc.DismissMediaRecommendation(c.Request.Context(), workspaceID, recID)
  if dErr != nil {
    RespondServiceError(c, dErr)
    return
  }
  c.JSON(http.StatusOK, gin.H{"recommendation": rec})
}

// POST /api/workspaces/:workspaceID/recommendations/timeline/:recID/accept
func (h *RecommendationHandler) AcceptTimeline(c *gin.Context) {
  workspaceID, ok := resolveWorkspace(c, h.workspaceRepo)
  if !ok {
    return
  }
  recID, err := uuid.Parse(c.Param("recID"))
  if err != nil {
    c.JSON(http.StatusBadRequest, gin.H{"error": "invalid recommendation id"})
    return
  }
  rec, clip, aErr := h.svc.AcceptTimelineRecommendation(c.Request.Context(), workspaceID, recID)
  if aErr != nil {
    RespondServiceError(c, aErr)
    return
  }
  c.JSON(http.StatusOK, gin.H{"recommendation": rec, "clip": clip})
}

// POST /api/workspaces/:workspaceID/recommendations/timeline/:recID/dismiss
func (h *RecommendationHandler) DismissTimeline(c *gin.Context) {
  workspaceID, ok := resolveWorkspace(c, h.workspaceRepo)
  if !ok {
    return
  }
  recID, err := uuid.Parse(c.Param("recID"))
  if err != nil {
    c.JSON(http.StatusBadRequest, gin.H{"error": "invalid recommendation id"})
    return
  }
  rec, dErr := h.svc.DismissTimelineRecommendation(c.Request.Context(), workspaceID, recID)
  if dErr != nil {
    RespondServiceError(c, dErr)
    return
  }
  c.JSON(http.StatusOK, gin.H{"recommendation": rec})
}

func listQuery(c *gin.Context) (repos.RecommendationListFilter, int, int) {
  filter := repos.RecommendationListFilter{
    ExcludeAccepted:  c.Query("exclude_accepted") == "true",
    ExcludeDismissed: c.Query("exclude_dismissed") == "true",
    Strategy:         c.Query("strategy"),
    TargetMode:       c.Query("target_mode"),
  }
  page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
  perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", "20"))
  return filter, page, perPage
}
