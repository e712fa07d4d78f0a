package gormstore

import (
	"context"
	"errors"

	"learnhub/models"
	"learnhub/repository"

	"gorm.io/gorm"
)

func (s *Store) CreateCourse(ctx context.Context, course *models.Course) error {
	for i := range course.Sections {
		if course.Sections[i].ID == "" {
			course.Sections[i].ID = models.NewID()
		}
		course.Sections[i].CourseID = course.ID
		course.Sections[i].Position = i
	}
	// Create saves the has-many sections in the same transaction.
	return wrapError(s.db.WithContext(ctx).Create(course).Error)
}

func (s *Store) GetCourseByID(ctx context.Context, id string) (*models.Course, error) {
	var course models.Course
	err := s.db.WithContext(ctx).
		Preload("Sections", orderedSections).
		Where("id = ?", id).
		First(&course).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, wrapError(err)
	}
	return &course, nil
}

func (s *Store) ListCourses(ctx context.Context) ([]*models.Course, error) {
	return s.findCourses(s.db.WithContext(ctx))
}

func (s *Store) ListCoursesByOwner(ctx context.Context, ownerID string) ([]*models.Course, error) {
	return s.findCourses(s.db.WithContext(ctx).Where("user_id = ?", ownerID))
}

func (s *Store) ListCoursesByIDs(ctx context.Context, ids []string) ([]*models.Course, error) {
	if len(ids) == 0 {
		return []*models.Course{}, nil
	}
	return s.findCourses(s.db.WithContext(ctx).Where("id IN ?", ids))
}

func (s *Store) findCourses(q *gorm.DB) ([]*models.Course, error) {
	courses := []*models.Course{}
	if err := q.Preload("Sections", orderedSections).Order("created_at asc").Find(&courses).Error; err != nil {
		return nil, wrapError(err)
	}
	return courses, nil
}

// DeleteCourse removes the course and its sections. Enrollments and payments
// referencing it are left in place.
func (s *Store) DeleteCourse(ctx context.Context, id string) error {
	return wrapError(s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("id = ?", id).Delete(&models.Course{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return repository.ErrNotFound
		}
		return tx.Where("course_id = ?", id).Delete(&models.Section{}).Error
	}))
}

func (s *Store) SetEnrolledCount(ctx context.Context, courseID string, n int64) error {
	res := s.db.WithContext(ctx).Model(&models.Course{}).Where("id = ?", courseID).UpdateColumn("enrolled", n)
	if res.Error != nil {
		return wrapError(res.Error)
	}
	if res.RowsAffected == 0 {
		// UpdateColumn reports 0 rows on some dialects when the value is unchanged.
		var exists int64
		if err := s.db.WithContext(ctx).Model(&models.Course{}).Where("id = ?", courseID).Count(&exists).Error; err != nil {
			return wrapError(err)
		}
		if exists == 0 {
			return repository.ErrNotFound
		}
	}
	return nil
}

func (s *Store) CompareAndSetEnrolled(ctx context.Context, courseID string, old, n int64) (bool, error) {
	if old == n {
		return true, nil
	}
	res := s.db.WithContext(ctx).Model(&models.Course{}).
		Where("id = ? AND enrolled = ?", courseID, old).
		UpdateColumn("enrolled", n)
	if res.Error != nil {
		return false, wrapError(res.Error)
	}
	return res.RowsAffected == 1, nil
}

func (s *Store) CountCourses(ctx context.Context) (int64, error) {
	var n int64
	err := s.db.WithContext(ctx).Model(&models.Course{}).Count(&n).Error
	return n, wrapError(err)
}
