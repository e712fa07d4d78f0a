package services

import (
	"context"
	"net/http"
	"sync"
	"testing"

	"learnhub/apperr"
	"learnhub/logger"
	"learnhub/metrics"
	"learnhub/models"
	"learnhub/notify"
	"learnhub/repository"
	"learnhub/repository/gormstore"
	"learnhub/repository/testutil"

	promtest "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingNotifier struct {
	mu     sync.Mutex
	events []notify.EnrollmentEvent
}

func (r *recordingNotifier) Name() string { return "recorder" }

func (r *recordingNotifier) EnrollmentCreated(_ context.Context, ev notify.EnrollmentEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
	return nil
}

type enrollFixture struct {
	svc     *EnrollmentService
	store   *gormstore.Store
	metrics *metrics.Metrics
	rec     *recordingNotifier
	student *models.User
	course  *models.Course
}

func newEnrollFixture(t *testing.T, sections int) *enrollFixture {
	t.Helper()
	ctx := context.Background()
	st := testutil.Store(t)
	m := metrics.New("test")
	rec := &recordingNotifier{}

	teacher := testutil.SeedUser(t, ctx, st, "teacher@example.com", models.RoleTeacher)
	student := testutil.SeedUser(t, ctx, st, "student@example.com", models.RoleStudent)
	course := testutil.SeedCourse(t, ctx, st, teacher.ID, "Go", sections)

	svc := NewEnrollmentService(st, notify.NewDispatcher(logger.Nop(), m, rec), logger.Nop(), m)
	return &enrollFixture{svc: svc, store: st, metrics: m, rec: rec, student: student, course: course}
}

func TestEnrollTwice(t *testing.T) {
	ctx := context.Background()
	f := newEnrollFixture(t, 3)

	first, err := f.svc.Enroll(ctx, f.student.ID, f.course.ID, map[string]interface{}{"cardholder": "Ada", "cvv": "123"})
	require.NoError(t, err)
	assert.True(t, first.Created)
	assert.Equal(t, CourseRef{ID: f.course.ID, Title: "Go"}, first.Course)

	second, err := f.svc.Enroll(ctx, f.student.ID, f.course.ID, nil)
	require.NoError(t, err)
	assert.False(t, second.Created)
	assert.Equal(t, "You are already enrolled in this Course!", second.Message)
	assert.Equal(t, first.Course, second.Course)

	course, err := f.store.GetCourseByID(ctx, f.course.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), course.Enrolled)

	payments, err := f.store.ListPaymentsByUser(ctx, f.student.ID)
	require.NoError(t, err)
	require.Len(t, payments, 1)
	assert.Equal(t, "Ada", payments[0].Details["cardholder"])
	assert.NotContains(t, payments[0].Details, "cvv")

	enrollment, err := f.store.GetEnrollment(ctx, f.student.ID, f.course.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, enrollment.CourseLength)

	f.svc.Wait()
	require.Len(t, f.rec.events, 1)
	assert.Equal(t, "student@example.com", f.rec.events[0].UserEmail)
	assert.Equal(t, "Go", f.rec.events[0].CourseTitle)

	assert.Equal(t, float64(1), promtest.ToFloat64(f.metrics.EnrollmentsTotal.WithLabelValues("created")))
	assert.Equal(t, float64(1), promtest.ToFloat64(f.metrics.EnrollmentsTotal.WithLabelValues("duplicate")))
}

// staleEnrollmentLookup never sees an existing enrollment, as when two requests
// pass the pre-check together and only the unique index stops the second.
type staleEnrollmentLookup struct {
	*gormstore.Store
}

func (staleEnrollmentLookup) GetEnrollment(context.Context, string, string) (*models.Enrollment, error) {
	return nil, nil
}

func TestEnrollLosingUniqueIndexReportsAlreadyEnrolled(t *testing.T) {
	ctx := context.Background()
	f := newEnrollFixture(t, 2)
	svc := NewEnrollmentService(staleEnrollmentLookup{f.store}, nil, logger.Nop(), f.metrics)

	first, err := svc.Enroll(ctx, f.student.ID, f.course.ID, map[string]interface{}{"cardholder": "Ada"})
	require.NoError(t, err)
	assert.True(t, first.Created)

	second, err := svc.Enroll(ctx, f.student.ID, f.course.ID, map[string]interface{}{"cardholder": "Ada"})
	require.NoError(t, err)
	assert.False(t, second.Created)
	assert.Equal(t, "You are already enrolled in this Course!", second.Message)
	assert.Equal(t, CourseRef{ID: f.course.ID, Title: "Go"}, second.Course)

	course, err := f.store.GetCourseByID(ctx, f.course.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), course.Enrolled)

	payments, err := f.store.ListPaymentsByUser(ctx, f.student.ID)
	require.NoError(t, err)
	assert.Len(t, payments, 1)

	n, err := f.store.CountEnrollments(ctx, repository.EnrollmentFilter{CourseID: f.course.ID})
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	assert.Equal(t, float64(1), promtest.ToFloat64(f.metrics.EnrollmentsTotal.WithLabelValues("duplicate")))
}

func TestEnrollMissingCourse(t *testing.T) {
	f := newEnrollFixture(t, 1)
	res, err := f.svc.Enroll(context.Background(), f.student.ID, models.NewID(), nil)
	assert.Nil(t, res)
	e, ok := apperr.As(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusNotFound, e.Status)
}

func TestCourseContentRequiresEnrollment(t *testing.T) {
	ctx := context.Background()
	f := newEnrollFixture(t, 2)

	content, err := f.svc.GetCourseContent(ctx, f.student.ID, f.course.ID)
	assert.Nil(t, content)
	assert.True(t, apperr.HasCode(err, "not_enrolled"))

	_, err = f.svc.GetCourseContent(ctx, f.student.ID, models.NewID())
	assert.True(t, apperr.HasCode(err, "course_not_found"))

	_, err = f.svc.Enroll(ctx, f.student.ID, f.course.ID, nil)
	require.NoError(t, err)

	content, err = f.svc.GetCourseContent(ctx, f.student.ID, f.course.ID)
	require.NoError(t, err)
	assert.Len(t, content.Sections, 2)
	assert.Empty(t, content.Progress)
	assert.Equal(t, f.student.ID, content.Certificate.UserID)
}

func TestCompleteAllSections(t *testing.T) {
	ctx := context.Background()
	f := newEnrollFixture(t, 3)

	err := f.svc.CompleteSection(ctx, f.student.ID, f.course.ID, 0)
	e, ok := apperr.As(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, e.Status)

	_, err = f.svc.Enroll(ctx, f.student.ID, f.course.ID, nil)
	require.NoError(t, err)

	for _, sec := range []int{0, 1, 2} {
		require.NoError(t, f.svc.CompleteSection(ctx, f.student.ID, f.course.ID, sec))
	}
	content, err := f.svc.GetCourseContent(ctx, f.student.ID, f.course.ID)
	require.NoError(t, err)
	assert.Len(t, content.Progress, content.Certificate.CourseLength)

	// repeats are kept
	require.NoError(t, f.svc.CompleteSection(ctx, f.student.ID, f.course.ID, 1))
	content, err = f.svc.GetCourseContent(ctx, f.student.ID, f.course.ID)
	require.NoError(t, err)
	assert.Len(t, content.Progress, 4)
	assert.Equal(t, float64(4), promtest.ToFloat64(f.metrics.SectionsCompletedTotal))
}

func TestListEnrolledCoursesSkipsDeleted(t *testing.T) {
	ctx := context.Background()
	f := newEnrollFixture(t, 1)
	other := testutil.SeedCourse(t, ctx, f.store, f.course.UserID, "Rust", 1)

	_, err := f.svc.Enroll(ctx, f.student.ID, f.course.ID, nil)
	require.NoError(t, err)
	_, err = f.svc.Enroll(ctx, f.student.ID, other.ID, nil)
	require.NoError(t, err)

	courses, err := f.svc.ListEnrolledCourses(ctx, f.student.ID)
	require.NoError(t, err)
	require.Len(t, courses, 2)
	assert.Equal(t, f.course.ID, courses[0].ID)
	assert.Equal(t, other.ID, courses[1].ID)

	require.NoError(t, f.store.DeleteCourse(ctx, f.course.ID))
	courses, err = f.svc.ListEnrolledCourses(ctx, f.student.ID)
	require.NoError(t, err)
	require.Len(t, courses, 1)
	assert.Equal(t, other.ID, courses[0].ID)

	empty, err := f.svc.ListEnrolledCourses(ctx, "nobody")
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestPaymentSnapshot(t *testing.T) {
	got := PaymentSnapshot(map[string]interface{}{
		"userId":      "spoofed",
		"courseId":    "spoofed",
		"CVV":         "123",
		"card_number": "4111 1111 1111 1234",
		"cardholder":  "Ada",
		"amount":      float64(499),
	})
	assert.Equal(t, map[string]interface{}{
		"card_number": "************1234",
		"cardholder":  "Ada",
		"amount":      float64(499),
	}, got)
}
