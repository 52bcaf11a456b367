package middleware

import (
  "net/http"
  "strings"
  "github.com/gin-gonic/gin"
  "github.com/google/uuid"
  "github.com/framecut/framecut-backend/internal/logger"
  "github.com/framecut/framecut-backend/internal/requestdata"
  "github.com/framecut/framecut-backend/internal/services"
)

type AuthMiddleware struct {
  log         *logger.Logger
  authService services.AuthService
}

func NewAuthMiddleware(log *logger.Logger, authService services.AuthService) *AuthMiddleware {
  middlewareLogger := log.With("Middleware", "AuthMiddleware")
  return &AuthMiddleware{log: middlewareLogger, authService: authService}
}

func (am *AuthMiddleware) RequireAuth() gin.HandlerFunc {
  return func(c *gin.Context) {
    tokenString := extractToken(c)
    if tokenString == "" {
      c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing or invalid token"})
      return
    }
    ctx, err := am.authService.SetContextFromToken(c.Request.Context(), tokenString)
    if err != nil {
      c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
      return
    }
    c.Request = c.Request.WithContext(ctx)
    rd := requestdata.GetRequestData(ctx)
    if rd == nil || rd.UserID == uuid.Nil {
      c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "forbidden"})
      return
    }
    c.Next()
  }
}

func extractToken(c *gin.Context) string {
  authHeader := c.GetHeader("Authorization")
  if len(authHeader) > 7 && strings.EqualFold(authHeader[:7], "Bearer ") {
    return authHeader[7:]
  }
  if qToken := c.Query("token"); qToken != "" {
    return qToken
  }
  return ""
}
