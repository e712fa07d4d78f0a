package notify

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"learnhub/logger"
	"learnhub/metrics"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleEvent() EnrollmentEvent {
	return EnrollmentEvent{
		EnrollmentID: "e1",
		UserID:       "u1",
		UserName:     "Ada",
		UserEmail:    "ada@example.com",
		CourseID:     "c1",
		CourseTitle:  "Go <Basics>",
		Educator:     "Rob",
		EnrolledAt:   time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
	}
}

func TestWebhookPostsEvent(t *testing.T) {
	var got map[string]interface{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, EventEnrollmentCreated, r.Header.Get("X-Event-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	err := NewWebhook(srv.URL).EnrollmentCreated(context.Background(), sampleEvent())
	require.NoError(t, err)

	assert.Equal(t, EventEnrollmentCreated, got["event"])
	data := got["data"].(map[string]interface{})
	assert.Equal(t, "c1", data["courseId"])
	assert.Equal(t, "ada@example.com", data["userEmail"])
}

func TestWebhookReportsHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusBadGateway)
	}))
	defer srv.Close()

	err := NewWebhook(srv.URL).EnrollmentCreated(context.Background(), sampleEvent())
	assert.ErrorContains(t, err, "webhook http 502")
}

func TestSendGridMailerSendsMessage(t *testing.T) {
	var body string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v3/mail/send", r.URL.Path)
		assert.Equal(t, "Bearer SG.key", r.Header.Get("Authorization"))
		b, _ := io.ReadAll(r.Body)
		body = string(b)
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	m := NewSendGridMailer("SG.key", "noreply@learnhub.dev", "LearnHub").WithHost(srv.URL)
	require.NoError(t, m.EnrollmentCreated(context.Background(), sampleEvent()))

	assert.Contains(t, body, "ada@example.com")
	assert.Contains(t, body, "Enrollment Confirmed: Go \\u003cBasics\\u003e")
	assert.Contains(t, body, "Go \\u0026lt;Basics\\u0026gt;")
}

func TestSendGridMailerNeedsRecipient(t *testing.T) {
	ev := sampleEvent()
	ev.UserEmail = ""
	err := NewSendGridMailer("k", "a@b.c", "x").EnrollmentCreated(context.Background(), ev)
	assert.Error(t, err)
}

type fakeNotifier struct {
	name  string
	err   error
	calls int32
}

func (f *fakeNotifier) Name() string { return f.name }

func (f *fakeNotifier) EnrollmentCreated(context.Context, EnrollmentEvent) error {
	atomic.AddInt32(&f.calls, 1)
	return f.err
}

func TestDispatcherContinuesPastFailures(t *testing.T) {
	m := metrics.New("test")
	bad := &fakeNotifier{name: "email", err: errors.New("down")}
	good := &fakeNotifier{name: "webhook"}

	d := NewDispatcher(logger.Nop(), m, bad, good)
	assert.True(t, d.Enabled())
	d.Dispatch(context.Background(), sampleEvent())

	assert.Equal(t, int32(1), bad.calls)
	assert.Equal(t, int32(1), good.calls)
	assert.Equal(t, float64(1), testutil.ToFloat64(m.NotificationsTotal.WithLabelValues("email", "error")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.NotificationsTotal.WithLabelValues("webhook", "ok")))
}

func TestEmptyDispatcherIsDisabled(t *testing.T) {
	var nilDispatcher *Dispatcher
	assert.False(t, nilDispatcher.Enabled())
	nilDispatcher.Dispatch(context.Background(), sampleEvent())

	assert.False(t, NewDispatcher(logger.Nop(), nil).Enabled())
}
