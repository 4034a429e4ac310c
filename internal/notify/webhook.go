package notify

import (
	"context"
	"fmt"
	"time"

	"resty.dev/v3"

	"github.com/stageflow/stageflow/internal/ctxlog"
	"github.com/stageflow/stageflow/internal/engine"
)

// Webhook posts a JSON run summary to a configured URL.
type Webhook struct {
	client *resty.Client
	url    string
}

// NewWebhook creates a webhook publisher for the given URL.
func NewWebhook(url string) *Webhook {
	return &Webhook{
		client: resty.New().SetTimeout(10 * time.Second),
		url:    url,
	}
}

// Close releases the underlying HTTP client.
func (w *Webhook) Close() error {
	return w.client.Close()
}

// webhookPayload is the wire shape of the posted summary.
type webhookPayload struct {
	RunID    string         `json:"run_id"`
	Status   string         `json:"status"`
	ExitCode int            `json:"exit_code"`
	Stages   []stagePayload `json:"stages"`
}

type stagePayload struct {
	Stage      string `json:"stage"`
	Status     string `json:"status"`
	DurationMS int64  `json:"duration_ms"`
	Error      string `json:"error,omitempty"`
}

// Publish implements the engine.Publisher interface.
func (w *Webhook) Publish(ctx context.Context, result *engine.RunResult) error {
	payload := webhookPayload{
		RunID:    result.RunID,
		Status:   string(result.Status),
		ExitCode: result.ExitCode(),
	}
	for _, sr := range result.All() {
		sp := stagePayload{
			Stage:      sr.Stage,
			Status:     string(sr.Status),
			DurationMS: sr.Duration.Milliseconds(),
		}
		if sr.Err != nil {
			sp.Error = sr.Err.Error()
		}
		payload.Stages = append(payload.Stages, sp)
	}

	resp, err := w.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(payload).
		Post(w.url)
	if err != nil {
		return fmt.Errorf("webhook post failed: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("webhook returned status %d", resp.StatusCode())
	}

	ctxlog.FromContext(ctx).Debug("Webhook delivered.", "url", w.url, "status", resp.StatusCode())
	return nil
}

var _ engine.Publisher = (*Webhook)(nil)
