package testutil

import (
  "testing"

  "gorm.io/driver/sqlite"
  "gorm.io/gorm"
  gormlogger "gorm.io/gorm/logger"
)

// schema mirrors the postgres tables without the server-side defaults, which
// sqlite cannot evaluate. Callers are expected to assign IDs explicitly.
var schema = []string{
  `CREATE TABLE IF NOT EXISTS "user" (
    id TEXT PRIMARY KEY,
    email TEXT NOT NULL UNIQUE,
    password TEXT NOT NULL,
    first_name TEXT NOT NULL,
    last_name TEXT NOT NULL,
    created_at DATETIME,
    updated_at DATETIME
  )`,
  `CREATE TABLE IF NOT EXISTS workspace (
    id TEXT PRIMARY KEY,
    owner_user_id TEXT NOT NULL,
    name TEXT NOT NULL,
    created_at DATETIME,
    updated_at DATETIME,
    deleted_at DATETIME
  )`,
  `CREATE TABLE IF NOT EXISTS media (
    id TEXT PRIMARY KEY,
    workspace_id TEXT NOT NULL,
    original_name TEXT NOT NULL DEFAULT '',
    mime_type TEXT,
    size_bytes INTEGER,
    storage_key TEXT NOT NULL DEFAULT '',
    file_url TEXT,
    duration_seconds REAL,
    captured_at DATETIME,
    status TEXT NOT NULL DEFAULT 'uploaded',
    created_at DATETIME,
    updated_at DATETIME,
    deleted_at DATETIME
  )`,
  `CREATE TABLE IF NOT EXISTS media_clip (
    id TEXT PRIMARY KEY,
    workspace_id TEXT NOT NULL,
    media_id TEXT NOT NULL,
    name TEXT,
    start REAL NOT NULL,
    "end" REAL NOT NULL,
    label_type TEXT,
    source_strategy TEXT,
    score REAL,
    provenance TEXT,
    created_at DATETIME,
    updated_at DATETIME,
    deleted_at DATETIME
  )`,
  `CREATE TABLE IF NOT EXISTS timeline (
    id TEXT PRIMARY KEY,
    workspace_id TEXT NOT NULL,
    name TEXT NOT NULL,
    status TEXT NOT NULL DEFAULT 'draft',
    created_at DATETIME,
    updated_at DATETIME,
    deleted_at DATETIME
  )`,
  `CREATE TABLE IF NOT EXISTS timeline_clip (
    id TEXT PRIMARY KEY,
    workspace_id TEXT NOT NULL,
    timeline_id TEXT NOT NULL,
    media_id TEXT NOT NULL,
    start REAL NOT NULL,
    "end" REAL NOT NULL,
    position INTEGER NOT NULL DEFAULT 0,
    source_clip_id TEXT,
    source_strategy TEXT,
    score REAL,
    provenance TEXT,
    created_at DATETIME,
    updated_at DATETIME,
    deleted_at DATETIME
  )`,
  `CREATE TABLE IF NOT EXISTS label_shot (
    id TEXT PRIMARY KEY,
    workspace_id TEXT NOT NULL,
    media_id TEXT NOT NULL,
    start REAL NOT NULL,
    "end" REAL NOT NULL,
    confidence REAL NOT NULL DEFAULT 1,
    payload TEXT,
    created_at DATETIME
  )`,
  `CREATE TABLE IF NOT EXISTS label_face (
    id TEXT PRIMARY KEY,
    workspace_id TEXT NOT NULL,
    media_id TEXT NOT NULL,
    track_id TEXT,
    cluster_id TEXT,
    start REAL NOT NULL,
    "end" REAL NOT NULL,
    confidence REAL NOT NULL,
    payload TEXT,
    created_at DATETIME
  )`,
  `CREATE TABLE IF NOT EXISTS label_person (
    id TEXT PRIMARY KEY,
    workspace_id TEXT NOT NULL,
    media_id TEXT NOT NULL,
    track_id TEXT,
    start REAL NOT NULL,
    "end" REAL NOT NULL,
    confidence REAL NOT NULL,
    payload TEXT,
    created_at DATETIME
  )`,
  `CREATE TABLE IF NOT EXISTS label_object (
    id TEXT PRIMARY KEY,
    workspace_id TEXT NOT NULL,
    media_id TEXT NOT NULL,
    entity_id TEXT,
    description TEXT,
    start REAL NOT NULL,
    "end" REAL NOT NULL,
    confidence REAL NOT NULL,
    payload TEXT,
    created_at DATETIME
  )`,
  `CREATE TABLE IF NOT EXISTS label_speech (
    id TEXT PRIMARY KEY,
    workspace_id TEXT NOT NULL,
    media_id TEXT NOT NULL,
    transcript TEXT,
    speaker_tag INTEGER,
    start REAL NOT NULL,
    "end" REAL NOT NULL,
    confidence REAL NOT NULL,
    payload TEXT,
    created_at DATETIME
  )`,
  `CREATE TABLE IF NOT EXISTS media_recommendation (
    id TEXT PRIMARY KEY,
    workspace_id TEXT NOT NULL,
    media_id TEXT NOT NULL,
    strategy TEXT NOT NULL,
    label_type TEXT NOT NULL,
    start REAL NOT NULL,
    "end" REAL NOT NULL,
    clip_id TEXT,
    score REAL NOT NULL,
    rank INTEGER NOT NULL,
    reason TEXT,
    reason_data TEXT,
    query_hash TEXT NOT NULL,
    version INTEGER NOT NULL DEFAULT 1,
    accepted_at DATETIME,
    dismissed_at DATETIME,
    created_at DATETIME,
    updated_at DATETIME,
    UNIQUE (query_hash, start, "end")
  )`,
  `CREATE TABLE IF NOT EXISTS timeline_recommendation (
    id TEXT PRIMARY KEY,
    workspace_id TEXT NOT NULL,
    timeline_id TEXT NOT NULL,
    strategy TEXT NOT NULL,
    label_type TEXT NOT NULL,
    start REAL NOT NULL,
    "end" REAL NOT NULL,
    clip_id TEXT NOT NULL,
    timeline_clip_id TEXT,
    score REAL NOT NULL,
    rank INTEGER NOT NULL,
    reason TEXT,
    reason_data TEXT,
    query_hash TEXT NOT NULL,
    version INTEGER NOT NULL DEFAULT 1,
    target_mode TEXT NOT NULL DEFAULT 'append',
    seed_clip_id TEXT,
    accepted_at DATETIME,
    dismissed_at DATETIME,
    created_at DATETIME,
    updated_at DATETIME,
    UNIQUE (query_hash, clip_id)
  )`,
}

// OpenTestDB opens an isolated in-memory database seeded with the full schema.
// Each test gets its own database, keyed by the test name.
func OpenTestDB(t *testing.T) *gorm.DB {
  t.Helper()
  dsn := "file:" + t.Name() + "?mode=memory&cache=shared"
  db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
    Logger: gormlogger.Default.LogMode(gormlogger.Silent),
  })
  if err != nil {
    t.Fatalf("open sqlite: %v", err)
  }
  for _, stmt := range schema {
    if err := db.Exec(stmt).Error; err != nil {
      t.Fatalf("create schema: %v", err)
    }
  }
  t.Cleanup(func() {
    if sqlDB, err := db.DB(); err == nil {
      sqlDB.Close()
    }
  })
  return db
}
