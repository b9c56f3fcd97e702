package persist

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

// document is one JSON document stored as a row.
type document struct {
	Name      string `gorm:"primaryKey"`
	Body      string
	UpdatedAt time.Time
}

func (document) TableName() string { return "documents" }

// SQLiteBackend stores the same JSON documents in a single SQLite file,
// one row per document name.
type SQLiteBackend struct {
	db *gorm.DB
}

// OpenSQLite opens (and migrates) the database at dsn.
func OpenSQLite(dsn string) (*SQLiteBackend, error) {
	if dsn == "" {
		dsn = "mytasks.db"
	}
	if err := ensureDirForSQLite(dsn); err != nil {
		return nil, err
	}

	dbLogger := logger.New(
		log.New(os.Stderr, "", log.LstdFlags),
		logger.Config{
			SlowThreshold:             time.Second,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: dbLogger})
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("db handle: %w", err)
	}
	// one writer per document shares this file
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(&document{}); err != nil {
		return nil, fmt.Errorf("migrate db: %w", err)
	}
	return &SQLiteBackend{db: db}, nil
}

func (b *SQLiteBackend) Read(name string) ([]byte, error) {
	var doc document
	err := b.db.Where("name = ?", name).First(&doc).Error
	switch {
	case err == nil:
		return []byte(doc.Body), nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return nil, ErrNotFound
	default:
		return nil, fmt.Errorf("find document: %w", err)
	}
}

func (b *SQLiteBackend) Write(name string, data []byte) error {
	doc := document{Name: name, Body: string(data), UpdatedAt: time.Now()}
	err := b.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoUpdates: clause.AssignmentColumns([]string{"body", "updated_at"}),
	}).Create(&doc).Error
	if err != nil {
		return fmt.Errorf("upsert document: %w", err)
	}
	return nil
}

// Close releases the underlying connection pool.
func (b *SQLiteBackend) Close() error {
	sqlDB, err := b.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// ensureDirForSQLite creates parent dir for SQLite file if needed.
func ensureDirForSQLite(dsn string) error {
	if strings.Contains(dsn, ":memory:") || strings.Contains(dsn, "mode=memory") {
		return nil
	}
	clean := strings.TrimPrefix(dsn, "file:")
	clean = strings.Split(clean, "?")[0]
	dir := filepath.Dir(clean)
	if dir == "." || dir == "" {
		return nil
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("create db dir %q: %w", dir, err)
	}
	return nil
}
