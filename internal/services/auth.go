package services

import (
  "context"
  "fmt"
  "strings"
  "time"
  "gorm.io/gorm"
  "golang.org/x/crypto/bcrypt"
  "github.com/golang-jwt/jwt/v5"
  "github.com/google/uuid"
  "github.com/framecut/framecut-backend/internal/logger"
  "github.com/framecut/framecut-backend/internal/types"
  "github.com/framecut/framecut-backend/internal/repos"
  "github.com/framecut/framecut-backend/internal/requestdata"
)

type JWTClaims struct {
  jwt.RegisteredClaims
}

type AuthService interface {
  RegisterUser(ctx context.Context, user *types.User) (*types.User, error)
  LoginUser(ctx context.Context, email, password string) (string, *types.User, error)
  SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error)
  GetAccessTTL() time.Duration
}

type authService struct {
  db            *gorm.DB
  log           *logger.Logger
  userRepo      repos.UserRepo
  workspaceRepo repos.WorkspaceRepo
  jwtSecretKey  string
  accessTTL     time.Duration
}

func NewAuthService(
  db *gorm.DB,
  log *logger.Logger,
  userRepo repos.UserRepo,
  workspaceRepo repos.WorkspaceRepo,
  jwtSecretKey string,
  accessTTL time.Duration,
) AuthService {
  serviceLog := log.With("service", "AuthService")
  return &authService{
    db:            db,
    log:           serviceLog,
    userRepo:      userRepo,
    workspaceRepo: workspaceRepo,
    jwtSecretKey:  jwtSecretKey,
    accessTTL:     accessTTL,
  }
}

func (as *authService) RegisterUser(ctx context.Context, user *types.User) (*types.User, error) {
  user.Email = strings.ToLower(strings.TrimSpace(user.Email))
  if user.Email == "" {
    return nil, fmt.Errorf("Email is required")
  }
  if len(user.Password) < 8 {
    return nil, fmt.Errorf("Password must be at least 8 characters")
  }
  exists, exErr := as.userRepo.EmailExists(ctx, nil, user.Email)
  if exErr != nil {
    return nil, fmt.Errorf("Failed to check email: %w", exErr)
  }
  if exists {
    return nil, fmt.Errorf("Email already registered")
  }
  hashed, hErr := bcrypt.GenerateFromPassword([]byte(user.Password), bcrypt.DefaultCost)
  if hErr != nil {
    return nil, fmt.Errorf("Failed to hash password: %w", hErr)
  }
  user.Password = string(hashed)
  err := as.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
    user.ID = uuid.New()
    if _, cErr := as.userRepo.Create(ctx, tx, user); cErr != nil {
      return fmt.Errorf("Failed to create user: %w", cErr)
    }
    workspace := &types.Workspace{
      ID:          uuid.New(),
      OwnerUserID: user.ID,
      Name:        "Default Workspace",
    }
    if _, wErr := as.workspaceRepo.Create(ctx, tx, workspace); wErr != nil {
      return fmt.Errorf("Failed to create default workspace: %w", wErr)
    }
    return nil
  })
  if err != nil {
    return nil, err
  }
  return user, nil
}

func (as *authService) LoginUser(ctx context.Context, email, password string) (string, *types.User, error) {
  email = strings.ToLower(strings.TrimSpace(email))
  user, uErr := as.userRepo.GetByEmail(ctx, nil, email)
  if uErr != nil {
    return "", nil, fmt.Errorf("Invalid email or password")
  }
  if hErr := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); hErr != nil {
    return "", nil, fmt.Errorf("Invalid email or password")
  }
  token, genErr := as.generateAccessToken(user)
  if genErr != nil {
    return "", nil, fmt.Errorf("Generate access token error: %w", genErr)
  }
  return token, user, nil
}

func (as *authService) generateAccessToken(user *types.User) (string, error) {
  claims := JWTClaims{
    RegisteredClaims: jwt.RegisteredClaims{
      Subject:   user.ID.String(),
      ExpiresAt: jwt.NewNumericDate(time.Now().Add(as.accessTTL)),
      IssuedAt:  jwt.NewNumericDate(time.Now()),
    },
  }
  token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
  return token.SignedString([]byte(as.jwtSecretKey))
}

func (as *authService) SetContextFromToken(ctx context.Context, tokenString string) (context.Context, error) {
  if tokenString == "" {
    return ctx, nil
  }
  parsedToken, err := jwt.ParseWithClaims(tokenString, &JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
    return []byte(as.jwtSecretKey), nil
  })
  if err != nil {
    return ctx, fmt.Errorf("Failed to parse token: %w", err)
  }
  claims, ok := parsedToken.Claims.(*JWTClaims)
  if !ok || !parsedToken.Valid {
    return ctx, fmt.Errorf("Invalid or expired JWT token")
  }
  userID, err := uuid.Parse(claims.Subject)
  if err != nil {
    return ctx, fmt.Errorf("Invalid user id in token: %w", err)
  }
  rd := &requestdata.RequestData{
    TokenString: tokenString,
    UserID:      userID,
  }
  ctx = requestdata.WithRequestData(ctx, rd)
  return ctx, nil
}

func (as *authService) GetAccessTTL() time.Duration {
  return as.accessTTL
}
