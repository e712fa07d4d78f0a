// Package notify delivers best-effort messages about enrollment events.
package notify

import (
	"context"
	"time"

	"learnhub/logger"
	"learnhub/metrics"
)

// EnrollmentEvent describes a committed enrollment.
type EnrollmentEvent struct {
	EnrollmentID string    `json:"enrollmentId"`
	UserID       string    `json:"userId"`
	UserName     string    `json:"userName"`
	UserEmail    string    `json:"userEmail"`
	CourseID     string    `json:"courseId"`
	CourseTitle  string    `json:"courseTitle"`
	Educator     string    `json:"educator"`
	EnrolledAt   time.Time `json:"enrolledAt"`
}

type Notifier interface {
	// Name labels the channel in logs and metrics.
	Name() string
	EnrollmentCreated(ctx context.Context, ev EnrollmentEvent) error
}

// Dispatcher fans an event out to every configured channel. Failures are
// logged and counted, never returned.
type Dispatcher struct {
	notifiers []Notifier
	log       *logger.Logger
	metrics   *metrics.Metrics
	timeout   time.Duration
}

func NewDispatcher(log *logger.Logger, m *metrics.Metrics, notifiers ...Notifier) *Dispatcher {
	return &Dispatcher{notifiers: notifiers, log: log, metrics: m, timeout: 15 * time.Second}
}

// Enabled reports whether any channel is configured.
func (d *Dispatcher) Enabled() bool {
	return d != nil && len(d.notifiers) > 0
}

// Dispatch delivers synchronously; callers that must not wait run it in a goroutine.
func (d *Dispatcher) Dispatch(ctx context.Context, ev EnrollmentEvent) {
	if !d.Enabled() {
		return
	}
	ctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	for _, n := range d.notifiers {
		err := n.EnrollmentCreated(ctx, ev)
		d.metrics.IncNotification(n.Name(), err)
		if err != nil {
			d.log.Warn("enrollment notification failed", "channel", n.Name(), "enrollmentId", ev.EnrollmentID, "error", err)
			continue
		}
		d.log.Debug("enrollment notification sent", "channel", n.Name(), "enrollmentId", ev.EnrollmentID)
	}
}
