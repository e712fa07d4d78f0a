package mongostore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"learnhub/models"
	"learnhub/repository"

	"go.mongodb.org/mongo-driver/v2/bson"
)

func (s *Store) GetEnrollment(ctx context.Context, userID, courseID string) (*models.Enrollment, error) {
	e, err := findOne[models.Enrollment](ctx, s.col(ColEnrollments), bson.D{
		{Key: "user_id", Value: userID},
		{Key: "course_id", Value: courseID},
	})
	if e != nil {
		fillProgressOwner(e)
	}
	return e, err
}

func (s *Store) ListEnrollmentsByUser(ctx context.Context, userID string) ([]*models.Enrollment, error) {
	enrollments, err := findMany[models.Enrollment](ctx, s.col(ColEnrollments), bson.D{{Key: "user_id", Value: userID}}, byCreatedAt())
	if err != nil {
		return nil, err
	}
	for _, e := range enrollments {
		fillProgressOwner(e)
	}
	return enrollments, nil
}

// Enroll writes the enrollment, the counter increment and the payment record.
// With transactions enabled the three writes commit together; otherwise each
// failed step undoes the ones before it.
func (s *Store) Enroll(ctx context.Context, enrollment *models.Enrollment, payment *models.PaymentRecord) error {
	now := time.Now()
	if enrollment.Progress == nil {
		enrollment.Progress = []models.ProgressEntry{}
	}
	enrollment.CreatedAt, enrollment.UpdatedAt = now, now
	payment.CreatedAt = now

	if s.transactions {
		return s.enrollTx(ctx, enrollment, payment)
	}
	return s.enrollSaga(ctx, enrollment, payment)
}

func (s *Store) enrollTx(ctx context.Context, enrollment *models.Enrollment, payment *models.PaymentRecord) error {
	sess, err := s.client.StartSession()
	if err != nil {
		return fmt.Errorf("mongostore: start session: %w", err)
	}
	defer sess.EndSession(ctx)

	_, err = sess.WithTransaction(ctx, func(txCtx context.Context) (interface{}, error) {
		if err := insertOne(txCtx, s.col(ColEnrollments), enrollment); err != nil {
			return nil, err
		}
		if err := s.incEnrolled(txCtx, enrollment.CourseID, 1); err != nil {
			return nil, err
		}
		return nil, insertOne(txCtx, s.col(ColPayments), payment)
	})
	return wrapError(err)
}

func (s *Store) enrollSaga(ctx context.Context, enrollment *models.Enrollment, payment *models.PaymentRecord) error {
	if err := insertOne(ctx, s.col(ColEnrollments), enrollment); err != nil {
		return err
	}
	if err := s.incEnrolled(ctx, enrollment.CourseID, 1); err != nil {
		return errors.Join(err, s.undoEnrollment(enrollment.ID))
	}
	if err := insertOne(ctx, s.col(ColPayments), payment); err != nil {
		undo := s.incEnrolled(context.Background(), enrollment.CourseID, -1)
		return errors.Join(err, undo, s.undoEnrollment(enrollment.ID))
	}
	return nil
}

// undoEnrollment runs on a fresh context so a cancelled request still compensates.
func (s *Store) undoEnrollment(id string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := deleteByID(ctx, s.col(ColEnrollments), id); err != nil && !errors.Is(err, repository.ErrNotFound) {
		return fmt.Errorf("mongostore: compensate enrollment %s: %w", id, err)
	}
	return nil
}

func (s *Store) incEnrolled(ctx context.Context, courseID string, delta int64) error {
	return updateByID(ctx, s.col(ColCourses), courseID, bson.D{{Key: "$inc", Value: bson.D{
		{Key: "enrolled", Value: delta},
	}}})
}

func (s *Store) AppendProgress(ctx context.Context, enrollmentID string, entry *models.ProgressEntry) error {
	entry.EnrollmentID = enrollmentID
	return updateByID(ctx, s.col(ColEnrollments), enrollmentID, bson.D{
		{Key: "$push", Value: bson.D{{Key: "progress", Value: entry}}},
		{Key: "$set", Value: bson.D{{Key: "updated_at", Value: time.Now()}}},
	})
}

func (s *Store) CountEnrollments(ctx context.Context, filter repository.EnrollmentFilter) (int64, error) {
	f := bson.D{}
	if filter.CourseID != "" {
		f = append(f, bson.E{Key: "course_id", Value: filter.CourseID})
	}
	if !filter.Since.IsZero() {
		f = append(f, bson.E{Key: "created_at", Value: bson.D{{Key: "$gte", Value: filter.Since}}})
	}
	return count(ctx, s.col(ColEnrollments), f)
}

func fillProgressOwner(e *models.Enrollment) {
	if e.Progress == nil {
		e.Progress = []models.ProgressEntry{}
	}
	// $push keeps array order, so the index is the sequence
	for i := range e.Progress {
		e.Progress[i].EnrollmentID = e.ID
		e.Progress[i].Seq = i
	}
}
