package handlers

import (
  "net/http"
  "strconv"
  "time"

  "github.com/gin-gonic/gin"
  "github.com/google/uuid"

  "github.com/framecut/framecut-backend/internal/repos"
  "github.com/framecut/framecut-backend/internal/services"
)

type MediaHandler struct {
  svc           services.MediaService
  ingest        services.LabelIngestService
  workspaceRepo repos.WorkspaceRepo
}

func NewMediaHandler(svc services.MediaService, ingest services.LabelIngestService, workspaceRepo repos.WorkspaceRepo) *MediaHandler {
  return &MediaHandler{svc: svc, ingest: ingest, workspaceRepo: workspaceRepo}
}

// POST /api/workspaces/:workspaceID/media
func (h *MediaHandler) Upload(c *gin.Context) {
  workspaceID, ok := resolveWorkspace(c, h.workspaceRepo)
  if !ok {
    return
  }
  fileHeader, err := c.FormFile("file")
  if err != nil {
    c.JSON(http.StatusBadRequest, gin.H{"error": "missing file"})
    return
  }
  file, err := fileHeader.Open()
  if err != nil {
    c.JSON(http.StatusBadRequest, gin.H{"error": "unreadable file"})
    return
  }
  defer file.Close()

  input := services.MediaUploadInput{
    OriginalName: fileHeader.Filename,
    MimeType:     fileHeader.Header.Get("Content-Type"),
    SizeBytes:    fileHeader.Size,
  }
  if v := c.PostForm("duration_seconds"); v != "" {
    if d, pErr := strconv.ParseFloat(v, 64); pErr == nil {
      input.DurationSeconds = d
    }
  }
  if v := c.PostForm("captured_at"); v != "" {
    if t, pErr := time.Parse(time.RFC3339, v); pErr == nil {
      input.CapturedAt = &t
    }
  }

  media, upErr := h.svc.Upload(c.Request.Context(), workspaceID, input, file)
  if upErr != nil {
    c.JSON(http.StatusBadRequest, gin.H{"error": upErr.Error()})
    return
  }
  c.JSON(http.StatusCreated, gin.H{"media": media})
}

// GET /api/workspaces/:workspaceID/media
func (h *MediaHandler) List(c *gin.Context) {
  workspaceID, ok := resolveWorkspace(c, h.workspaceRepo)
  if !ok {
    return
  }
  limit := 0
  if v := c.Query("limit"); v != "" {
    limit, _ = strconv.Atoi(v)
  }
  media, err := h.svc.List(c.Request.Context(), workspaceID, limit)
  if err != nil {
    RespondServiceError(c, err)
    return
  }
  c.JSON(http.StatusOK, gin.H{"media": media})
}

// GET /api/workspaces/:workspaceID/media/:mediaID
func (h *MediaHandler) Get(c *gin.Context) {
  workspaceID, ok := resolveWorkspace(c, h.workspaceRepo)
  if !ok {
    return
  }
  mediaID, err := uuid.Parse(c.Param("mediaID"))
  if err != nil {
    c.JSON(http.StatusBadRequest, gin.H{"error": "invalid media id"})
    return
  }
  media, gErr := h.svc.Get(c.Request.Context(), workspaceID, mediaID)
  if gErr != nil {
    RespondServiceError(c, gErr)
    return
  }
  c.JSON(http.StatusOK, gin.H{"media": media})
}

// DELETE /api/workspaces/:workspaceID/media/:mediaID
func (h *MediaHandler) Delete(c *gin.Context) {
  workspaceID, ok := resolveWorkspace(c, h.workspaceRepo)
  if !ok {
    return
  }
  mediaID, err := uuid.Parse(c.Param("mediaID"))
  if err != nil {
    c.JSON(http.StatusBadRequest, gin.H{"error": "invalid media id"})
    return
  }
  if dErr := h.svc.Delete(c.Request.Context(), workspaceID, mediaID); dErr != nil {
    RespondServiceError(c, dErr)
    return
  }
  c.JSON(http.StatusOK, gin.H{"deleted": true})
}

// POST /api/workspaces/:workspaceID/media/:mediaID/label
func (h *MediaHandler) Label(c *gin.Context) {
  workspaceID, ok := resolveWorkspace(c, h.workspaceRepo)
  if !ok {
    return
  }
  mediaID, err := uuid.Parse(c.Param("mediaID"))
  if err != nil {
    c.JSON(http.StatusBadRequest, gin.H{"error": "invalid media id"})
    return
  }
  result, lErr := h.ingest.LabelMedia(c.Request.Context(), workspaceID, mediaID)
  if lErr != nil {
    RespondServiceError(c, lErr)
    return
  }
  c.JSON(http.StatusOK, gin.H{"labels": result})
}

// GET /api/workspaces/:workspaceID/media/:mediaID/clips
func (h *MediaHandler) ListClips(c *gin.Context) {
  workspaceID, ok := resolveWorkspace(c, h.workspaceRepo)
  if !ok {
    return
  }
  mediaID, err := uuid.Parse(c.Param("mediaID"))
  if err != nil {
    c.JSON(http.StatusBadRequest, gin.H{"error": "invalid media id"})
    return
  }
  clips, cErr := h.svc.ListClips(c.Request.Context(), workspaceID, mediaID)
  if cErr != nil {
    RespondServiceError(c, cErr)
    return
  }
  c.JSON(http.StatusOK, gin.H{"clips": clips})
}

// POST /api/workspaces/:workspaceID/media/:mediaID/clips
func (h *MediaHandler) CreateClip(c *gin.Context) {
  workspaceID, ok := resolveWorkspace(c, h.workspaceRepo)
  if !ok {
    return
  }
  mediaID, err := uuid.Parse(c.Param("mediaID"))
  if err != nil {
    c.JSON(http.StatusBadRequest, gin.H{"error": "invalid media id"})
    return
  }
  var body struct {
    Start     float64 `json:"start"`
    End       float64 `json:"end"`
    LabelType string  `json:"label_type"`
  }
  if bErr := c.ShouldBindJSON(&body); bErr != nil {
    c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
    return
  }
  clip, cErr := h.svc.CreateClip(c.Request.Context(), workspaceID, mediaID, body.Start, body.End, body.LabelType)
  if cErr != nil {
    RespondServiceError(c, cErr)
    return
  }
  c.JSON(http.StatusCreated, gin.H{"clip": clip})
}

// GET /api/workspaces/:workspaceID/media/:mediaID/playback
func (h *MediaHandler) Playback(c *gin.Context) {
  workspaceID, ok := resolveWorkspace(c, h.workspaceRepo)
  if !ok {
    return
  }
  mediaID, err := uuid.Parse(c.Param("mediaID"))
  if err != nil {
    c.JSON(http.StatusBadRequest, gin.H{"error": "invalid media id"})
    return
  }
  url, pErr := h.svc.PlaybackURL(c.Request.Context(), workspaceID, mediaID)
  if pErr != nil {
    RespondServiceError(c, pErr)
    return
  }
  c.JSON(http.StatusOK, gin.H{"url": url})
}
