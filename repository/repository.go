// Package repository defines the persistence contracts used by the services.
//
// Drivers (gormstore, mongostore) translate their native errors into the
// sentinel errors below. Single-entity getters return (nil, nil) when the
// entity does not exist; deletes return ErrNotFound.
package repository

import (
	"context"
	"errors"
	"time"

	"learnhub/models"
)

var (
	// ErrNotFound the entity does not exist
	ErrNotFound = errors.New("entity not found")

	// ErrDuplicate a unique key (email, user/course pair) is already taken
	ErrDuplicate = errors.New("duplicate: entity already exists")
)

type UserRepository interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	ListUsers(ctx context.Context) ([]*models.User, error)
	DeleteUser(ctx context.Context, id string) error
	CountUsers(ctx context.Context) (int64, error)
}

type CourseRepository interface {
	// CreateCourse persists the course together with its sections.
	CreateCourse(ctx context.Context, course *models.Course) error
	GetCourseByID(ctx context.Context, id string) (*models.Course, error)
	ListCourses(ctx context.Context) ([]*models.Course, error)
	ListCoursesByOwner(ctx context.Context, ownerID string) ([]*models.Course, error)
	ListCoursesByIDs(ctx context.Context, ids []string) ([]*models.Course, error)
	DeleteCourse(ctx context.Context, id string) error
	// SetEnrolledCount overwrites the cached enrolled counter.
	SetEnrolledCount(ctx context.Context, courseID string, n int64) error
	// CompareAndSetEnrolled writes n only while the counter still equals old and
	// reports whether it did.
	CompareAndSetEnrolled(ctx context.Context, courseID string, old, n int64) (bool, error)
	CountCourses(ctx context.Context) (int64, error)
}

// EnrollmentFilter narrows CountEnrollments; zero fields are ignored.
type EnrollmentFilter struct {
	CourseID string
	Since    time.Time
}

type EnrollmentRepository interface {
	GetEnrollment(ctx context.Context, userID, courseID string) (*models.Enrollment, error)
	ListEnrollmentsByUser(ctx context.Context, userID string) ([]*models.Enrollment, error)
	// Enroll inserts the enrollment, increments the course's enrolled counter
	// and inserts the payment record as one unit. It returns ErrDuplicate when
	// the user is already enrolled and ErrNotFound when the course is gone.
	Enroll(ctx context.Context, enrollment *models.Enrollment, payment *models.PaymentRecord) error
	// AppendProgress pushes one entry onto the enrollment's progress list.
	AppendProgress(ctx context.Context, enrollmentID string, entry *models.ProgressEntry) error
	CountEnrollments(ctx context.Context, filter EnrollmentFilter) (int64, error)
}

type PaymentRepository interface {
	ListPaymentsByUser(ctx context.Context, userID string) ([]*models.PaymentRecord, error)
	CountPayments(ctx context.Context) (int64, error)
}

// Store is the full persistence surface owned by main and handed to the services.
type Store interface {
	UserRepository
	CourseRepository
	EnrollmentRepository
	PaymentRepository
	Close() error
}
