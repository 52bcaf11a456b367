package services

import (
  "context"
  "fmt"
  "io"
  "os"
  "time"
  "cloud.google.com/go/storage"
  "google.golang.org/api/option"
  "github.com/framecut/framecut-backend/internal/logger"
)

// BucketService wraps the GCS bucket that holds uploaded media. Keys are
// workspace-scoped storage keys from the media table, never raw filenames.
type BucketService interface {
  UploadMedia(ctx context.Context, key string, file io.Reader) error
  DeleteMedia(ctx context.Context, key string) error
  SignedURL(key string, ttl time.Duration) (string, error)
  GCSURI(key string) string
  GetPublicURL(key string) string
}

type bucketService struct {
  log           *logger.Logger
  storageClient *storage.Client
  bucketName    string
  cdnDomain     string
}

func NewBucketService(log *logger.Logger) (BucketService, error) {
  serviceLog := log.With("service", "BucketService")
  bucket := os.Getenv("GCS_BUCKET_NAME")
  if bucket == "" {
    return nil, fmt.Errorf("missing env var GCS_BUCKET_NAME")
  }
  cdnDomain := os.Getenv("CDN_DOMAIN")
  saPath := os.Getenv("GOOGLE_APPLICATION_CREDENTIALS_JSON")
  if saPath == "" {
    serviceLog.Warn("The storage client may rely on other ADC or fail because GOOGLE_APPLICATION_CREDENTIALS_JSON env var missing...")
  }
  ctx := context.Background()
  var stClient *storage.Client
  var err error
  if saPath != "" {
    stClient, err = storage.NewClient(ctx, option.WithCredentialsFile(saPath), option.WithScopes(storage.ScopeReadWrite))
  } else {
    stClient, err = storage.NewClient(ctx, option.WithScopes(storage.ScopeReadWrite))
  }
  if err != nil {
    return nil, fmt.Errorf("Failed to create storage client: %w", err)
  }
  return &bucketService{
    log:           serviceLog,
    storageClient: stClient,
    bucketName:    bucket,
    cdnDomain:     cdnDomain,
  }, nil
}

func (bs *bucketService) UploadMedia(ctx context.Context, key string, file io.Reader) error {
  ctx, cancel := context.WithTimeout(ctx, 10*time.Minute)
  defer cancel()
  w := bs.storageClient.Bucket(bs.bucketName).Object(key).NewWriter(ctx)
  if _, err := io.Copy(w, file); err != nil {
    _ = w.Close()
    return fmt.Errorf("Failed to write data to GCS: %w", err)
  }
  if err := w.Close(); err != nil {
    return fmt.Errorf("Failed to close GCS writer: %w", err)
  }
  return nil
}

func (bs *bucketService) DeleteMedia(ctx context.Context, key string) error {
  ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
  defer cancel()
  o := bs.storageClient.Bucket(bs.bucketName).Object(key)
  if err := o.Delete(ctx); err != nil {
    return fmt.Errorf("Failed to delete GCS object %q: %w", key, err)
  }
  return nil
}

func (bs *bucketService) SignedURL(key string, ttl time.Duration) (string, error) {
  if ttl <= 0 {
    ttl = 15 * time.Minute
  }
  url, err := bs.storageClient.Bucket(bs.bucketName).SignedURL(key, &storage.SignedURLOptions{
    Method:  "GET",
    Expires: time.Now().Add(ttl),
  })
  if err != nil {
    return "", fmt.Errorf("Failed to sign GCS URL for %q: %w", key, err)
  }
  return url, nil
}

// GCSURI is the gs:// form the annotation API consumes.
func (bs *bucketService) GCSURI(key string) string {
  return fmt.Sprintf("gs://%s/%s", bs.bucketName, key)
}

func (bs *bucketService) GetPublicURL(key string) string {
  if bs.cdnDomain != "" {
    return fmt.Sprintf("https://%s/%s", bs.cdnDomain, key)
  }
  return fmt.Sprintf("https://storage.googleapis.com/%s/%s", bs.bucketName, key)
}
