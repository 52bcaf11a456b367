package handlers

import (
  "net/http"

  "github.com/gin-gonic/gin"
  "github.com/google/uuid"

  "github.com/framecut/framecut-backend/internal/repos"
  "github.com/framecut/framecut-backend/internal/requestdata"
  "github.com/framecut/framecut-backend/internal/types"
)

type WorkspaceHandler struct {
  workspaceRepo repos.WorkspaceRepo
}

func NewWorkspaceHandler(workspaceRepo repos.WorkspaceRepo) *WorkspaceHandler {
  return &WorkspaceHandler{workspaceRepo: workspaceRepo}
}

// GET /api/workspaces
func (h *WorkspaceHandler) List(c *gin.Context) {
  rd := requestdata.GetRequestData(c.Request.Context())
  if rd == nil {
    c.JSON(http.StatusUnauthorized, gin.H{"error": "missing request identity"})
    return
  }
  workspaces, err := h.workspaceRepo.ListByOwner(c.Request.Context(), nil, rd.UserID)
  if err != nil {
    c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
    return
  }
  c.JSON(http.StatusOK, gin.H{"workspaces": workspaces})
}

// POST /api/workspaces
func (h *WorkspaceHandler) Create(c *gin.Context) {
  rd := requestdata.GetRequestData(c.Request.Context())
  if rd == nil {
    c.JSON(http.StatusUnauthorized, gin.H{"error": "missing request identity"})
    return
  }
  var body struct {
    Name string `json:"name"`
  }
  if err := c.ShouldBindJSON(&body); err != nil || body.Name == "" {
    c.JSON(http.StatusBadRequest, gin.H{"error": "workspace name is required"})
    return
  }
  workspace := &types.Workspace{
    ID:          uuid.New(),
    OwnerUserID: rd.UserID,
    Name:        body.Name,
  }
  created, err := h.workspaceRepo.Create(c.Request.Context(), nil, workspace)
  if err != nil {
    c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
    return
  }
  c.JSON(http.StatusCreated, gin.H{"workspace": created})
}
