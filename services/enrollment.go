package services

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"learnhub/apperr"
	"learnhub/logger"
	"learnhub/metrics"
	"learnhub/models"
	"learnhub/notify"
	"learnhub/repository"
)

type enrollmentStore interface {
	repository.UserRepository
	repository.CourseRepository
	repository.EnrollmentRepository
	repository.PaymentRepository
}

type EnrollmentService struct {
	store    enrollmentStore
	notifier *notify.Dispatcher
	log      *logger.Logger
	metrics  *metrics.Metrics
	now      func() time.Time

	pending sync.WaitGroup
}

func NewEnrollmentService(store enrollmentStore, notifier *notify.Dispatcher, log *logger.Logger, m *metrics.Metrics) *EnrollmentService {
	return &EnrollmentService{store: store, notifier: notifier, log: log, metrics: m, now: time.Now}
}

// CourseRef is the short course description echoed by enroll.
type CourseRef struct {
	ID    string `json:"id"`
	Title string `json:"Title"`
}

type EnrollResult struct {
	// Created is false when the user was already enrolled.
	Created bool
	Message string
	Course  CourseRef
}

type CourseContent struct {
	Sections    []models.Section
	Progress    []models.ProgressEntry
	Certificate *models.Enrollment
}

const (
	msgEnrolled        = "Enrolled Successfully"
	msgAlreadyEnrolled = "You are already enrolled in this Course!"
)

// Enroll records the enrollment, the counter increment and the payment
// snapshot as one unit, then notifies in the background.
func (s *EnrollmentService) Enroll(ctx context.Context, userID, courseID string, paymentFields map[string]interface{}) (*EnrollResult, error) {
	course, err := s.store.GetCourseByID(ctx, courseID)
	if err != nil {
		return nil, apperr.Internal("Failed to enroll in the course", err)
	}
	if course == nil {
		return nil, apperr.NotFound("course_not_found", "Course Not Found!")
	}
	ref := CourseRef{ID: course.ID, Title: course.Title}

	existing, err := s.store.GetEnrollment(ctx, userID, courseID)
	if err != nil {
		return nil, apperr.Internal("Failed to enroll in the course", err)
	}
	if existing != nil {
		s.metrics.IncEnrollment("duplicate")
		return &EnrollResult{Created: false, Message: msgAlreadyEnrolled, Course: ref}, nil
	}

	now := s.now()
	enrollment := &models.Enrollment{
		ID:           models.NewID(),
		UserID:       userID,
		CourseID:     courseID,
		CourseLength: len(course.Sections),
		Progress:     []models.ProgressEntry{},
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	payment := &models.PaymentRecord{
		ID:        models.NewID(),
		UserID:    userID,
		CourseID:  courseID,
		Details:   PaymentSnapshot(paymentFields),
		CreatedAt: now,
	}

	if err := s.store.Enroll(ctx, enrollment, payment); err != nil {
		switch {
		case errors.Is(err, repository.ErrDuplicate):
			// a concurrent request won the unique index
			s.metrics.IncEnrollment("duplicate")
			return &EnrollResult{Created: false, Message: msgAlreadyEnrolled, Course: ref}, nil
		case errors.Is(err, repository.ErrNotFound):
			return nil, apperr.NotFound("course_not_found", "Course Not Found!")
		default:
			s.metrics.IncEnrollment("error")
			return nil, apperr.Internal("Failed to enroll in the course", err)
		}
	}

	s.metrics.IncEnrollment("created")
	s.log.Info("user enrolled", "userId", userID, "courseId", courseID, "enrollmentId", enrollment.ID)
	s.notifyEnrolled(ctx, enrollment, course)

	return &EnrollResult{Created: true, Message: msgEnrolled, Course: ref}, nil
}

func (s *EnrollmentService) notifyEnrolled(ctx context.Context, enrollment *models.Enrollment, course *models.Course) {
	if !s.notifier.Enabled() {
		return
	}
	ctx = context.WithoutCancel(ctx)
	s.pending.Add(1)
	go func() {
		defer s.pending.Done()

		ev := notify.EnrollmentEvent{
			EnrollmentID: enrollment.ID,
			UserID:       enrollment.UserID,
			CourseID:     course.ID,
			CourseTitle:  course.Title,
			Educator:     course.Educator,
			EnrolledAt:   enrollment.CreatedAt,
		}
		user, err := s.store.GetUserByID(ctx, enrollment.UserID)
		if err != nil {
			s.log.Warn("enrollment notification: user lookup failed", "userId", enrollment.UserID, "error", err)
		}
		if user != nil {
			ev.UserName, ev.UserEmail = user.Name, user.Email
		}
		s.notifier.Dispatch(ctx, ev)
	}()
}

// Wait blocks until background notifications have finished.
func (s *EnrollmentService) Wait() {
	s.pending.Wait()
}

func (s *EnrollmentService) GetCourseContent(ctx context.Context, userID, courseID string) (*CourseContent, error) {
	course, err := s.store.GetCourseByID(ctx, courseID)
	if err != nil {
		return nil, apperr.Internal("Internal server error", err)
	}
	if course == nil {
		return nil, apperr.NotFound("course_not_found", "Course not found")
	}

	enrollment, err := s.store.GetEnrollment(ctx, userID, courseID)
	if err != nil {
		return nil, apperr.Internal("Internal server error", err)
	}
	if enrollment == nil {
		return nil, apperr.NotFound("not_enrolled", "User not enrolled in course")
	}

	return &CourseContent{Sections: course.Sections, Progress: enrollment.Progress, Certificate: enrollment}, nil
}

// CompleteSection appends a completion entry. Repeats and out-of-range ids are recorded as given.
func (s *EnrollmentService) CompleteSection(ctx context.Context, userID, courseID string, sectionID int) error {
	enrollment, err := s.store.GetEnrollment(ctx, userID, courseID)
	if err != nil {
		return apperr.Internal("Internal server error", err)
	}
	if enrollment == nil {
		return apperr.BadRequest("not_enrolled", "User is not enrolled in the course")
	}

	entry := &models.ProgressEntry{
		ID:          models.NewID(),
		SectionID:   sectionID,
		CompletedAt: s.now(),
	}
	if err := s.store.AppendProgress(ctx, enrollment.ID, entry); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperr.BadRequest("not_enrolled", "User is not enrolled in the course")
		}
		return apperr.Internal("Internal server error", err)
	}
	s.metrics.IncSectionCompleted()
	return nil
}

// ListEnrolledCourses resolves the user's enrollments to courses in enrollment
// order. Enrollments whose course was deleted are skipped.
func (s *EnrollmentService) ListEnrolledCourses(ctx context.Context, userID string) ([]*models.Course, error) {
	enrollments, err := s.store.ListEnrollmentsByUser(ctx, userID)
	if err != nil {
		return nil, apperr.Internal("An error occurred", err)
	}
	ids := make([]string, 0, len(enrollments))
	for _, e := range enrollments {
		ids = append(ids, e.CourseID)
	}
	courses, err := s.store.ListCoursesByIDs(ctx, ids)
	if err != nil {
		return nil, apperr.Internal("An error occurred", err)
	}

	byID := make(map[string]*models.Course, len(courses))
	for _, c := range courses {
		byID[c.ID] = c
	}
	out := make([]*models.Course, 0, len(ids))
	for _, id := range ids {
		if c, ok := byID[id]; ok {
			out = append(out, c)
		}
	}
	return out, nil
}

func (s *EnrollmentService) ListPayments(ctx context.Context, userID string) ([]*models.PaymentRecord, error) {
	payments, err := s.store.ListPaymentsByUser(ctx, userID)
	if err != nil {
		return nil, apperr.Internal("Failed to fetch payments", err)
	}
	return payments, nil
}

// PaymentSnapshot copies the request fields worth keeping. Identity fields
// come from the token and route, so client-sent copies are dropped; card
// security codes are never stored and card numbers keep only the last four digits.
func PaymentSnapshot(fields map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(fields))
	for k, v := range fields {
		switch canonicalKey(k) {
		case "userid", "courseid", "cvv", "cvc", "cvv2", "securitycode", "password":
			continue
		case "cardnumber", "cardno":
			if s, ok := v.(string); ok {
				out[k] = maskCardNumber(s)
			}
			continue
		}
		out[k] = v
	}
	return out
}

func canonicalKey(k string) string {
	return strings.NewReplacer("_", "", "-", "", " ", "").Replace(strings.ToLower(k))
}

func maskCardNumber(s string) string {
	digits := make([]rune, 0, len(s))
	for _, r := range s {
		if r >= '0' && r <= '9' {
			digits = append(digits, r)
		}
	}
	if len(digits) <= 4 {
		return strings.Repeat("*", len(digits))
	}
	return strings.Repeat("*", len(digits)-4) + string(digits[len(digits)-4:])
}
