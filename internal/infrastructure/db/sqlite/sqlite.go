// Package sqlite persists the client session in a local SQLite file via gorm.
package sqlite

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

// entry is one persisted key of a namespace.
type entry struct {
	Namespace string `gorm:"primaryKey;size:64"`
	Key       string `gorm:"column:entry_key;primaryKey;size:64"`
	Value     string `gorm:"type:text;not null"`
	UpdatedAt time.Time
}

func (entry) TableName() string { return "session_entries" }

// Open opens (creating if needed) the SQLite database at dsn and migrates it.
func Open(dsn string, log zerolog.Logger) (*gorm.DB, error) {
	if dsn == "" {
		dsn = "kanban-session.db"
	}
	if err := ensureDir(dsn); err != nil {
		return nil, err
	}

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.New(gormWriter{log}, logger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
		}),
	})
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if err := db.AutoMigrate(&entry{}); err != nil {
		return nil, fmt.Errorf("migrate sqlite: %w", err)
	}
	return db, nil
}

// ensureDir creates the parent directory of a file DSN.
func ensureDir(dsn string) error {
	if strings.Contains(dsn, ":memory:") || strings.Contains(dsn, "mode=memory") {
		return nil
	}
	clean := strings.TrimPrefix(dsn, "file:")
	clean = strings.Split(clean, "?")[0]
	dir := filepath.Dir(clean)
	if dir == "." || dir == "" {
		return nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create db dir %q: %w", dir, err)
	}
	return nil
}

type gormWriter struct{ log zerolog.Logger }

func (w gormWriter) Printf(format string, args ...any) {
	w.log.Warn().Str("component", "gorm").Msgf(format, args...)
}

// SessionStorage keeps every key of one namespace as a row.
type SessionStorage struct {
	db        *gorm.DB
	namespace string
}

func NewSessionStorage(db *gorm.DB, namespace string) *SessionStorage {
	return &SessionStorage{db: db, namespace: namespace}
}

func (s *SessionStorage) Load(ctx context.Context, keys ...string) (map[string]string, error) {
	var rows []entry
	err := s.db.WithContext(ctx).
		Where("namespace = ? AND entry_key IN ?", s.namespace, keys).
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	out := make(map[string]string, len(rows))
	for _, r := range rows {
		out[r.Key] = r.Value
	}
	return out, nil
}

// Save upserts all values in one transaction.
func (s *SessionStorage) Save(ctx context.Context, values map[string]string) error {
	if len(values) == 0 {
		return nil
	}
	rows := make([]entry, 0, len(values))
	now := time.Now().UTC()
	for k, v := range values {
		rows = append(rows, entry{Namespace: s.namespace, Key: k, Value: v, UpdatedAt: now})
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Clauses(clause.OnConflict{UpdateAll: true}).Create(&rows).Error
	})
	if err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

func (s *SessionStorage) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	err := s.db.WithContext(ctx).
		Where("namespace = ? AND entry_key IN ?", s.namespace, keys).
		Delete(&entry{}).Error
	if err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

func (s *SessionStorage) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
