package services

import (
	"context"
	"errors"
	"time"

	"learnhub/apperr"
	"learnhub/logger"
	"learnhub/models"
	"learnhub/repository"

	"github.com/jinzhu/now"
)

type adminStore interface {
	repository.UserRepository
	repository.CourseRepository
	repository.EnrollmentRepository
	repository.PaymentRepository
}

type AdminService struct {
	store adminStore
	log   *logger.Logger
	now   func() time.Time
}

func NewAdminService(store adminStore, log *logger.Logger) *AdminService {
	return &AdminService{store: store, log: log, now: time.Now}
}

type DashboardStats struct {
	TotalUsers           int64     `json:"totalUsers"`
	TotalCourses         int64     `json:"totalCourses"`
	TotalEnrollments     int64     `json:"totalEnrollments"`
	TotalPayments        int64     `json:"totalPayments"`
	EnrollmentsToday     int64     `json:"enrollmentsToday"`
	EnrollmentsThisWeek  int64     `json:"enrollmentsThisWeek"`
	EnrollmentsThisMonth int64     `json:"enrollmentsThisMonth"`
	GeneratedAt          time.Time `json:"generatedAt"`
}

// ListUsers returns every user with password hashes blanked.
func (s *AdminService) ListUsers(ctx context.Context) ([]models.User, error) {
	users, err := s.store.ListUsers(ctx)
	if err != nil {
		return nil, apperr.Internal("Failed to fetch users", err)
	}
	if len(users) == 0 {
		return nil, apperr.NotFound("no_users", "No users found")
	}
	out := make([]models.User, 0, len(users))
	for _, u := range users {
		out = append(out, u.Sanitized())
	}
	return out, nil
}

func (s *AdminService) ListCourses(ctx context.Context) ([]*models.Course, error) {
	courses, err := s.store.ListCourses(ctx)
	if err != nil {
		return nil, apperr.Internal("Failed to fetch courses", err)
	}
	if len(courses) == 0 {
		return nil, apperr.NotFound("no_courses", "No courses found")
	}
	return courses, nil
}

func (s *AdminService) DeleteUser(ctx context.Context, userID string) error {
	if err := s.store.DeleteUser(ctx, userID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperr.NotFound("user_not_found", "User not found")
		}
		return apperr.Internal("Failed to delete user", err)
	}
	s.log.Info("admin deleted user", "userId", userID)
	return nil
}

func (s *AdminService) DeleteCourse(ctx context.Context, courseID string) error {
	if err := s.store.DeleteCourse(ctx, courseID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperr.NotFound("course_not_found", "Course not found")
		}
		return apperr.Internal("Failed to delete course", err)
	}
	s.log.Info("admin deleted course", "courseId", courseID)
	return nil
}

// DashboardStats counts totals and enrollments since the start of the current
// day, week and month in server local time.
func (s *AdminService) DashboardStats(ctx context.Context) (*DashboardStats, error) {
	t := s.now()
	cal := now.With(t)
	stats := &DashboardStats{GeneratedAt: t}

	counts := []struct {
		dst *int64
		fn  func() (int64, error)
	}{
		{&stats.TotalUsers, func() (int64, error) { return s.store.CountUsers(ctx) }},
		{&stats.TotalCourses, func() (int64, error) { return s.store.CountCourses(ctx) }},
		{&stats.TotalPayments, func() (int64, error) { return s.store.CountPayments(ctx) }},
		{&stats.TotalEnrollments, func() (int64, error) {
			return s.store.CountEnrollments(ctx, repository.EnrollmentFilter{})
		}},
		{&stats.EnrollmentsToday, func() (int64, error) {
			return s.store.CountEnrollments(ctx, repository.EnrollmentFilter{Since: cal.BeginningOfDay()})
		}},
		{&stats.EnrollmentsThisWeek, func() (int64, error) {
			return s.store.CountEnrollments(ctx, repository.EnrollmentFilter{Since: cal.BeginningOfWeek()})
		}},
		{&stats.EnrollmentsThisMonth, func() (int64, error) {
			return s.store.CountEnrollments(ctx, repository.EnrollmentFilter{Since: cal.BeginningOfMonth()})
		}},
	}
	for _, c := range counts {
		n, err := c.fn()
		if err != nil {
			return nil, apperr.Internal("Failed to fetch dashboard stats", err)
		}
		*c.dst = n
	}
	return stats, nil
}
