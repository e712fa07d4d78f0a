package gormstore

import (
	"context"
	"errors"
	"time"

	"learnhub/models"
	"learnhub/repository"

	"gorm.io/gorm"
)

func (s *Store) GetEnrollment(ctx context.Context, userID, courseID string) (*models.Enrollment, error) {
	var enrollment models.Enrollment
	err := s.db.WithContext(ctx).
		Preload("Progress", orderedProgress).
		Where("user_id = ? AND course_id = ?", userID, courseID).
		First(&enrollment).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, wrapError(err)
	}
	if enrollment.Progress == nil {
		enrollment.Progress = []models.ProgressEntry{}
	}
	return &enrollment, nil
}

func (s *Store) ListEnrollmentsByUser(ctx context.Context, userID string) ([]*models.Enrollment, error) {
	enrollments := []*models.Enrollment{}
	err := s.db.WithContext(ctx).
		Preload("Progress", orderedProgress).
		Where("user_id = ?", userID).
		Order("created_at asc").
		Find(&enrollments).Error
	if err != nil {
		return nil, wrapError(err)
	}
	return enrollments, nil
}

// Enroll performs the three enrollment writes in a single transaction. The
// unique (user_id, course_id) index turns a concurrent duplicate into ErrDuplicate.
func (s *Store) Enroll(ctx context.Context, enrollment *models.Enrollment, payment *models.PaymentRecord) error {
	return wrapError(s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Progress").Create(enrollment).Error; err != nil {
			return err
		}
		res := tx.Model(&models.Course{}).
			Where("id = ?", enrollment.CourseID).
			UpdateColumn("enrolled", gorm.Expr("enrolled + ?", 1))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return repository.ErrNotFound
		}
		return tx.Create(payment).Error
	}))
}

// AppendProgress touches the enrollment row before numbering the entry, so the
// row lock serializes concurrent appends and Seq stays gapless per enrollment.
func (s *Store) AppendProgress(ctx context.Context, enrollmentID string, entry *models.ProgressEntry) error {
	entry.EnrollmentID = enrollmentID
	return wrapError(s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Enrollment{}).Where("id = ?", enrollmentID).UpdateColumn("updated_at", time.Now())
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return repository.ErrNotFound
		}

		var next int64
		err := tx.Model(&models.ProgressEntry{}).
			Select("COALESCE(MAX(seq), -1) + 1").
			Where("enrollment_id = ?", enrollmentID).
			Scan(&next).Error
		if err != nil {
			return err
		}
		entry.Seq = int(next)
		return tx.Create(entry).Error
	}))
}

func (s *Store) CountEnrollments(ctx context.Context, filter repository.EnrollmentFilter) (int64, error) {
	q := s.db.WithContext(ctx).Model(&models.Enrollment{})
	if filter.CourseID != "" {
		q = q.Where("course_id = ?", filter.CourseID)
	}
	if !filter.Since.IsZero() {
		q = q.Where("created_at >= ?", filter.Since)
	}
	var n int64
	err := q.Count(&n).Error
	return n, wrapError(err)
}
