// Package scheduler runs periodic maintenance jobs.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"learnhub/logger"
	"learnhub/metrics"
	"learnhub/repository"

	"github.com/robfig/cron/v3"
)

type reconcileStore interface {
	repository.CourseRepository
	repository.EnrollmentRepository
}

// Reconciler rewrites each course's cached enrolled counter from the enrollment count.
type Reconciler struct {
	store   reconcileStore
	log     *logger.Logger
	metrics *metrics.Metrics
}

func NewReconciler(store reconcileStore, log *logger.Logger, m *metrics.Metrics) *Reconciler {
	return &Reconciler{store: store, log: log, metrics: m}
}

// ReconcileEnrolledCounts returns how many courses were corrected. A course
// whose counter moves between the count and the write is left for the next run.
func (r *Reconciler) ReconcileEnrolledCounts(ctx context.Context) (fixed int, err error) {
	defer func() { r.metrics.IncReconcile(err) }()

	courses, err := r.store.ListCourses(ctx)
	if err != nil {
		return 0, fmt.Errorf("list courses: %w", err)
	}
	for _, c := range courses {
		n, err := r.store.CountEnrollments(ctx, repository.EnrollmentFilter{CourseID: c.ID})
		if err != nil {
			return fixed, fmt.Errorf("count enrollments for %s: %w", c.ID, err)
		}
		if n == c.Enrolled {
			continue
		}
		ok, err := r.store.CompareAndSetEnrolled(ctx, c.ID, c.Enrolled, n)
		if err != nil {
			return fixed, fmt.Errorf("set enrolled for %s: %w", c.ID, err)
		}
		if !ok {
			r.log.Info("[RECONCILE] enrolled counter changed during reconciliation, skipping", "courseId", c.ID)
			continue
		}
		r.log.Info("[RECONCILE] corrected enrolled counter", "courseId", c.ID, "was", c.Enrolled, "now", n)
		fixed++
	}
	return fixed, nil
}

// Start schedules the reconciler on spec (standard five-field cron). An empty
// spec disables the job and returns a nil *cron.Cron.
func Start(spec string, r *Reconciler, log *logger.Logger) (*cron.Cron, error) {
	if spec == "" {
		log.Info("[RECONCILE] scheduler disabled")
		return nil, nil
	}

	c := cron.New()
	_, err := c.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()

		log.Info("[RECONCILE] running enrolled counter reconciliation...")
		fixed, err := r.ReconcileEnrolledCounts(ctx)
		if err != nil {
			log.Error("[RECONCILE] reconciliation failed", "error", err)
			return
		}
		log.Info("[RECONCILE] reconciliation finished", "fixed", fixed)
	})
	if err != nil {
		return nil, fmt.Errorf("invalid RECONCILE_CRON %q: %w", spec, err)
	}

	c.Start()
	log.Info("[RECONCILE] scheduler started", "schedule", spec)
	return c, nil
}
