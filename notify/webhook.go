package notify

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
)

const EventEnrollmentCreated = "enrollment.created"

// Webhook POSTs each event as JSON to a fixed URL.
type Webhook struct {
	url    string
	client *resty.Client
}

func NewWebhook(url string) *Webhook {
	client := resty.New().
		SetTimeout(10*time.Second).
		SetHeader("Content-Type", "application/json")
	return &Webhook{url: url, client: client}
}

func (w *Webhook) Name() string { return "webhook" }

func (w *Webhook) EnrollmentCreated(ctx context.Context, ev EnrollmentEvent) error {
	resp, err := w.client.R().
		SetContext(ctx).
		SetHeader("X-Event-Type", EventEnrollmentCreated).
		SetBody(map[string]interface{}{
			"event": EventEnrollmentCreated,
			"data":  ev,
		}).
		Post(w.url)
	if err != nil {
		return fmt.Errorf("webhook: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("webhook http %d: %s", resp.StatusCode(), resp.String())
	}
	return nil
}
