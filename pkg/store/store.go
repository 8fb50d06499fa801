// Package store persists plate results in Postgres through gorm.
package store

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"platereader/models"
	"platereader/pkg/logging"
	"platereader/pkg/plate"
)

// ErrNoDSN is returned by Open when no DSN is configured.
var ErrNoDSN = errors.New("DB_DSN not set")

// Store wraps a gorm handle.
type Store struct {
	db *gorm.DB
}

// New wraps an existing gorm handle (any dialect).
func New(db *gorm.DB) *Store { return &Store{db: db} }

// Open connects to the Postgres dsn (normally config DB_DSN) and migrates
// unless DB_AUTO_MIGRATE is false/0/no.
func Open(dsn string) (*Store, error) {
	if dsn == "" {
		return nil, ErrNoDSN
	}
	gdb, err := gorm.Open(postgres.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Warn)})
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	s := New(gdb)
	if autoMigrate() {
		if err := s.Migrate(); err != nil {
			logging.Warnf("migration warning (plate_records): %v", err)
		}
	}
	return s, nil
}

func autoMigrate() bool {
	switch strings.ToLower(os.Getenv("DB_AUTO_MIGRATE")) {
	case "false", "0", "no":
		return false
	}
	return true
}

// Migrate creates or updates the plate_records table.
func (s *Store) Migrate() error {
	return s.db.AutoMigrate(&models.PlateRecord{})
}

// SaveResult stores one result under runID.
func (s *Store) SaveResult(ctx context.Context, runID string, p plate.Profile, res plate.Result) error {
	rec := models.PlateRecord{
		RunID:    runID,
		Profile:  string(p),
		FileName: res.Filename,
		Text:     res.Text,
		Accepted: res.Accepted,
	}
	if res.HasConfidence {
		c := res.Confidence
		rec.Confidence = &c
	}
	if err := s.db.WithContext(ctx).Create(&rec).Error; err != nil {
		return fmt.Errorf("save %s: %w", res.Filename, err)
	}
	return nil
}

// List returns records ordered by id. An empty runID lists the latest limit records.
func (s *Store) List(ctx context.Context, runID string, limit int) ([]models.PlateRecord, error) {
	var out []models.PlateRecord
	q := s.db.WithContext(ctx).Model(&models.PlateRecord{})
	if runID != "" {
		q = q.Where("run_id = ?", runID).Order("id")
	} else {
		q = q.Order("id desc")
	}
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&out).Error; err != nil {
		return nil, fmt.Errorf("list plate records: %w", err)
	}
	return out, nil
}

// Purge deletes records of runID (all runs when empty) created before cutoff.
// With dry set it only counts.
func (s *Store) Purge(ctx context.Context, runID string, cutoff time.Time, dry bool) (int64, error) {
	q := s.db.WithContext(ctx).Model(&models.PlateRecord{}).Where("created_at < ?", cutoff)
	if runID != "" {
		q = q.Where("run_id = ?", runID)
	}
	if dry {
		var n int64
		err := q.Count(&n).Error
		return n, err
	}
	res := q.Delete(&models.PlateRecord{})
	return res.RowsAffected, res.Error
}
