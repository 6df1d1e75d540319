package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"
)

// Grading lifecycle event actions.
const (
	EventSubmissionGraded = "submission.graded"
	EventSubmissionReset  = "submission.reset"
)

// Event is one grading lifecycle notification handed to the activity-logging
// collaborator.
type Event struct {
	Action       string                 `json:"action"`
	SubmissionID uint                   `json:"submission_id"`
	TaskID       uint                   `json:"task_id"`
	StudentID    uint                   `json:"student_id"`
	ActorID      uint                   `json:"actor_id"`
	Metadata     map[string]interface{} `json:"metadata,omitempty"`
	OccurredAt   time.Time              `json:"occurred_at"`
}

// EventPublisher is the collaborator boundary for activity logging. Failures
// are logged and never block the grading workflow.
type EventPublisher interface {
	Publish(ctx context.Context, event Event) error
}

type natsEventPublisher struct {
	conn    *nats.Conn
	subject string
	logger  zerolog.Logger
}

// NewNATSEventPublisher publishes grading events on the given subject.
func NewNATSEventPublisher(conn *nats.Conn, subject string, logger zerolog.Logger) EventPublisher {
	if subject == "" {
		subject = "aulaforge.grading.events"
	}

	return &natsEventPublisher{
		conn:    conn,
		subject: subject,
		logger:  logger.With().Str("component", "event_publisher").Logger(),
	}
}

func (p *natsEventPublisher) Publish(_ context.Context, event Event) error {
	if event.OccurredAt.IsZero() {
		event.OccurredAt = time.Now()
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}

	if err := p.conn.Publish(p.subject, payload); err != nil {
		p.logger.Warn().Err(err).Str("action", event.Action).Msg("failed to publish grading event")
		return err
	}

	return nil
}

// publishEvent is the shared fire-and-forget helper used by the grading and
// submission services.
func publishEvent(ctx context.Context, publisher EventPublisher, logger zerolog.Logger, event Event) {
	if publisher == nil {
		return
	}
	if err := publisher.Publish(ctx, event); err != nil {
		logger.Warn().Err(err).Str("action", event.Action).Msg("grading event not delivered")
	}
}
