// Package gormstore implements repository.Store on top of gorm (postgres, mysql or sqlite).
package gormstore

import (
	"errors"
	"strings"

	"learnhub/models"
	"learnhub/repository"

	"gorm.io/gorm"
)

type Store struct {
	db *gorm.DB
}

var _ repository.Store = (*Store)(nil)

// New wraps an open connection pool and migrates the schema.
func New(db *gorm.DB) (*Store, error) {
	if err := Migrate(db); err != nil {
		return nil, err
	}
	return &Store{db: db}, nil
}

// Migrate creates or updates every table the store needs.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Course{},
		&models.Section{},
		&models.Enrollment{},
		&models.ProgressEntry{},
		&models.PaymentRecord{},
	)
}

// DB exposes the underlying pool.
func (s *Store) DB() *gorm.DB {
	return s.db
}

func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// wrapError maps gorm and driver errors onto repository errors.
func wrapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, repository.ErrNotFound) || errors.Is(err, repository.ErrDuplicate) {
		return err
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return repository.ErrNotFound
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) || isUniqueViolation(err) {
		return repository.ErrDuplicate
	}
	return err
}

// isUniqueViolation covers dialects whose errors gorm does not translate.
func isUniqueViolation(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "duplicate key") ||
		strings.Contains(msg, "duplicate entry")
}

func orderedSections(db *gorm.DB) *gorm.DB {
	return db.Order("position asc")
}

func orderedProgress(db *gorm.DB) *gorm.DB {
	return db.Order("seq asc").Order("completed_at asc")
}
