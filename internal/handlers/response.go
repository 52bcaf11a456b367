package handlers

import (
  "errors"
  "net/http"
  "github.com/gin-gonic/gin"
  "github.com/google/uuid"
  "gorm.io/gorm"
  "github.com/framecut/framecut-backend/internal/recommend"
  "github.com/framecut/framecut-backend/internal/requestdata"
  "github.com/framecut/framecut-backend/internal/repos"
)

type APIError struct {
  Message string `json:"message"`
  Code    string `json:"code,omitempty"`
}

type ErrorEnvelope struct {
  Error APIError `json:"error"`
}

func RespondError(c *gin.Context, status int, code string, err error) {
  msg := "unknown error"
  if err != nil {
    msg = err.Error()
  }
  c.JSON(status, ErrorEnvelope{
    Error: APIError{
      Message: msg,
      Code:    code,
    },
  })
}

func RespondOK(c *gin.Context, payload any) {
  c.JSON(http.StatusOK, payload)
}

// RespondServiceError maps the recommendation error taxonomy onto HTTP status
// codes. Anything unrecognized is a 500.
func RespondServiceError(c *gin.Context, err error) {
  var vErr *recommend.ValidationError
  var sErr *recommend.StrategyExecutionError
  var pErr *recommend.PersistenceError
  switch {
  case errors.Is(err, recommend.ErrNotFound), errors.Is(err, gorm.ErrRecordNotFound):
    RespondError(c, http.StatusNotFound, "not_found", err)
  case errors.Is(err, recommend.ErrInvalidState):
    RespondError(c, http.StatusConflict, "invalid_state", err)
  case errors.As(err, &vErr):
    RespondError(c, http.StatusBadRequest, "validation", err)
  case errors.As(err, &sErr):
    RespondError(c, http.StatusInternalServerError, "strategy_execution", err)
  case errors.As(err, &pErr):
    RespondError(c, http.StatusInternalServerError, "persistence", err)
  default:
    RespondError(c, http.StatusInternalServerError, "internal", err)
  }
}

// resolveWorkspace parses the :workspaceID param and verifies the caller owns
// that workspace. On failure it writes the response itself and returns false.
func resolveWorkspace(c *gin.Context, workspaceRepo repos.WorkspaceRepo) (uuid.UUID, bool) {
  workspaceID, err := uuid.Parse(c.Param("workspaceID"))
  if err != nil {
    RespondError(c, http.StatusBadRequest, "bad_request", errors.New("invalid workspace id"))
    return uuid.Nil, false
  }
  rd := requestdata.GetRequestData(c.Request.Context())
  if rd == nil {
    RespondError(c, http.StatusUnauthorized, "unauthorized", errors.New("missing request identity"))
    return uuid.Nil, false
  }
  workspace, wErr := workspaceRepo.GetByID(c.Request.Context(), nil, workspaceID)
  if wErr != nil {
    RespondError(c, http.StatusNotFound, "not_found", errors.New("workspace not found"))
    return uuid.Nil, false
  }
  if workspace.OwnerUserID != rd.UserID {
    RespondError(c, http.StatusForbidden, "forbidden", errors.New("workspace access denied"))
    return uuid.Nil, false
  }
  return workspaceID, true
}
