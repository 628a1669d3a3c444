package sqlite

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"

	"github.com/mcoot/classreg/internal/model"
	"github.com/mcoot/classreg/internal/storage"
)

// Config holds SQLite settings
type Config struct {
	// Path is the database file
	Path string

	// Verbose enables gorm statement logging
	Verbose bool
}

// DefaultConfig returns sensible defaults for SQLite configuration
func DefaultConfig() Config {
	return Config{Path: "classreg.db"}
}

// documentRow is one document. Collection and ID form the primary key.
type documentRow struct {
	Collection string `gorm:"primaryKey;size:64"`
	ID         string `gorm:"primaryKey;size:128"`
	Fields     datatypes.JSON
	UpdatedAt  time.Time
}

func (documentRow) TableName() string { return "documents" }

// Storage is a SQLite-backed implementation of the storage interface
type Storage struct {
	db *gorm.DB
}

// New opens (and migrates) the database at cfg.Path
func New(cfg Config) (*Storage, error) {
	dsn := cfg.Path + "?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on"

	logMode := logger.Silent
	if cfg.Verbose {
		logMode = logger.Info
	}

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logMode),
	})
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// SQLite works best with a single writer
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)
	sqlDB.SetConnMaxLifetime(0)

	if err := db.AutoMigrate(&documentRow{}); err != nil {
		return nil, fmt.Errorf("auto-migrate: %w", err)
	}

	return &Storage{db: db}, nil
}

// Close closes the underlying connection pool
func (s *Storage) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

func (s *Storage) ListDocuments(ctx context.Context, collection string) ([]storage.Document, error) {
	var rows []documentRow
	err := s.db.WithContext(ctx).
		Where("collection = ?", collection).
		Order("id").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	docs := make([]storage.Document, 0, len(rows))
	for _, row := range rows {
		fields, err := storage.UnmarshalFields(row.Fields)
		if err != nil {
			return nil, fmt.Errorf("document %s/%s: %w", collection, row.ID, err)
		}
		docs = append(docs, storage.Document{ID: row.ID, Fields: fields})
	}
	return docs, nil
}

func (s *Storage) GetDocument(ctx context.Context, collection, id string) (storage.Fields, error) {
	row, err := findRow(s.db.WithContext(ctx), collection, id)
	if err != nil {
		return nil, err
	}
	return storage.UnmarshalFields(row.Fields)
}

func (s *Storage) SetDocument(ctx context.Context, collection, id string, fields storage.Fields, merge bool) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if merge {
			existing, err := findRow(tx, collection, id)
			switch {
			case errors.Is(err, model.ErrDocumentNotFound):
			case err != nil:
				return err
			default:
				base, err := storage.UnmarshalFields(existing.Fields)
				if err != nil {
					return err
				}
				fields = storage.Merge(base, fields)
			}
		}

		data, err := storage.MarshalFields(fields)
		if err != nil {
			return err
		}

		row := documentRow{Collection: collection, ID: id, Fields: datatypes.JSON(data)}
		return tx.Clauses(clause.OnConflict{UpdateAll: true}).Create(&row).Error
	})
}

func (s *Storage) AddDocument(ctx context.Context, collection string, fields storage.Fields) (string, error) {
	id := uuid.NewString()
	if err := s.SetDocument(ctx, collection, id, fields, false); err != nil {
		return "", err
	}
	return id, nil
}

func (s *Storage) DeleteDocument(ctx context.Context, collection, id string) error {
	return s.db.WithContext(ctx).
		Where("collection = ? AND id = ?", collection, id).
		Delete(&documentRow{}).Error
}

func findRow(db *gorm.DB, collection, id string) (*documentRow, error) {
	var row documentRow
	err := db.Where("collection = ? AND id = ?", collection, id).Take(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, model.ErrDocumentNotFound
		}
		return nil, err
	}
	return &row, nil
}
