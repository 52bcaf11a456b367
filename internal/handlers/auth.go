package handlers

import (
  "net/http"

  "github.com/gin-gonic/gin"

  "github.com/framecut/framecut-backend/internal/services"
  "github.com/framecut/framecut-backend/internal/types"
)

type AuthHandler struct {
  svc services.AuthService
}

func NewAuthHandler(svc services.AuthService) *AuthHandler {
  return &AuthHandler{svc: svc}
}

// POST /api/auth/register
func (h *AuthHandler) Register(c *gin.Context) {
  var body struct {
    Email     string `json:"email"`
    Password  string `json:"password"`
    FirstName string `json:"first_name"`
    LastName  string `json:"last_name"`
  }
  if err := c.ShouldBindJSON(&body); err != nil {
    c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
    return
  }
  user := &types.User{
    Email:     body.Email,
    Password:  body.Password,
    FirstName: body.FirstName,
    LastName:  body.LastName,
  }
  created, err := h.svc.RegisterUser(c.Request.Context(), user)
  if err != nil {
    c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
    return
  }
  c.JSON(http.StatusCreated, gin.H{"user": created})
}

// POST /api/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
  var body struct {
    Email    string `json:"email"`
    Password string `json:"password"`
  }
  if err := c.ShouldBindJSON(&body); err != nil {
    c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
    return
  }
  token, user, err := h.svc.LoginUser(c.Request.Context(), body.Email, body.Password)
  if err != nil {
    c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
    return
  }
  c.JSON(http.StatusOK, gin.H{
    "access_token": token,
    "expires_in":   int(h.svc.GetAccessTTL().Seconds()),
    "user":         user,
  })
}
