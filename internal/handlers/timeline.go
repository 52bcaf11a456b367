package handlers

import (
  "net/http"

  "github.com/gin-gonic/gin"
  "github.com/google/uuid"

  "github.com/framecut/framecut-backend/internal/repos"
  "github.com/framecut/framecut-backend/internal/services"
)

type TimelineHandler struct {
  svc           services.TimelineService
  workspaceRepo repos.WorkspaceRepo
}

func NewTimelineHandler(svc services.TimelineService, workspaceRepo repos.WorkspaceRepo) *TimelineHandler {
  return &TimelineHandler{svc: svc, workspaceRepo: workspaceRepo}
}

// POST /api/workspaces/:workspaceID/timelines
func (h *TimelineHandler) Create(c *gin.Context) {
  workspaceID, ok := resolveWorkspace(c, h.workspaceRepo)
  if !ok {
    return
  }
  var body struct {
    Name string `json:"name"`
  }
  if err := c.ShouldBindJSON(&body); err != nil {
    c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
    return
  }
  timeline, err := h.svc.Create(c.Request.Context(), workspaceID, body.Name)
  if err != nil {
    RespondServiceError(c, err)
    return
  }
  c.JSON(http.StatusCreated, gin.H{"timeline": timeline})
}

// GET /api/workspaces/:workspaceID/timelines
func (h *TimelineHandler) List(c *gin.Context) {
  workspaceID, ok := resolveWorkspace(c, h.workspaceRepo)
  if !ok {
    return
  }
  timelines, err := h.svc.List(c.Request.Context(), workspaceID)
  if err != nil {
    RespondServiceError(c, err)
    return
  }
  c.JSON(http.StatusOK, gin.H{"timelines": timelines})
}

// GET /api/workspaces/:workspaceID/timelines/:timelineID
func (h *TimelineHandler) Get(c *gin.Context) {
  workspaceID, ok := resolveWorkspace(c, h.workspaceRepo)
  if !ok {
    return
  }
  timelineID, err := uuid.Parse(c.Param("timelineID"))
  if err != nil {
    c.JSON(http.StatusBadRequest, gin.H{"error": "invalid timeline id"})
    return
  }
  timeline, gErr := h.svc.Get(c.Request.Context(), workspaceID, timelineID)
  if gErr != nil {
    RespondServiceError(c, gErr)
    return
  }
  c.JSON(http.StatusOK, gin.H{"timeline": timeline})
}

// GET /api/workspaces/:workspaceID/timelines/:timelineID/clips
func (h *TimelineHandler) ListClips(c *gin.Context) {
  workspaceID, ok := resolveWorkspace(c, h.workspaceRepo)
  if !ok {
    return
  }
  timelineID, err := uuid.Parse(c.Param("timelineID"))
  if err != nil {
    c.JSON(http.StatusBadRequest, gin.H{"error": "invalid timeline id"})
    return
  }
  clips, cErr := h.svc.ListClips(c.Request.Context(), workspaceID, timelineID)
  if cErr != nil {
    RespondServiceError(c, cErr)
    return
  }
  c.JSON(http.StatusOK, gin.H{"clips": clips})
}

// POST /api/workspaces/:workspaceID/timelines/:timelineID/clips
func (h *TimelineHandler) AppendClip(c *gin.Context) {
  workspaceID, ok := resolveWorkspace(c, h.workspaceRepo)
  if !ok {
    return
  }
  timelineID, err := uuid.Parse(c.Param("timelineID"))
  if err != nil {
    c.JSON(http.StatusBadRequest, gin.H{"error": "invalid timeline id"})
    return
  }
  var body struct {
    MediaID uuid.UUID `json:"media_id"`
    Start   float64   `json:"start"`
    End     float64   `json:"end"`
  }
  if bErr := c.ShouldBindJSON(&body); bErr != nil {
    c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
    return
  }
  clip, cErr := h.svc.AppendClip(c.Request.Context(), workspaceID, timelineID, body.MediaID, body.Start, body.End)
  if cErr != nil {
    RespondServiceError(c, cErr)
    return
  }
  c.JSON(http.StatusCreated, gin.H{"clip": clip})
}

// DELETE /api/workspaces/:workspaceID/timelines/:timelineID/clips/:clipID
func (h *TimelineHandler) RemoveClip(c *gin.Context) {
  workspaceID, ok := resolveWorkspace(c, h.workspaceRepo)
  if !ok {
    return
  }
  timelineID, err := uuid.Parse(c.Param("timelineID"))
  if err != nil {
    c.JSON(http.StatusBadRequest, gin.H{"error": "invalid timeline id"})
    return
  }
  clipID, err := uuid.Parse(c.Param("clipID"))
  if err != nil {
    c.JSON(http.StatusBadRequest, gin.H{"error": "invalid clip id"})
    return
  }
  if dErr := h.svc.RemoveClip(c.Request.Context(), workspaceID, timelineID, clipID); dErr != nil {
    RespondServiceError(c, dErr)
    return
  }
  c.JSON(http.StatusOK, gin.H{"deleted": true})
}
