// Package audit captures review lifecycle actions. Events are emitted from
// services, transport-agnostic, and published fire-and-forget: the write path
// never waits on a sink.
package audit

import (
	"context"
	"log/slog"
	"time"
)

type Action string

const (
	ActionReviewCreated Action = "review_created"
	ActionReviewDeleted Action = "review_deleted"
)

// Event deliberately carries no review text and no raw identifiers; the audit
// trail must not become a second copy of the data the pipeline scrubs.
type Event struct {
	Timestamp     time.Time `json:"timestamp"`
	Action        Action    `json:"action"`
	ReviewID      string    `json:"review_id"`
	ProfessorName string    `json:"professor_name"`
	RiskLevel     string    `json:"risk_level,omitempty"`
	DetectorHit   bool      `json:"detector_hit,omitempty"`
}

type Publisher interface {
	Publish(ctx context.Context, e Event)
}

// LogPublisher writes events to the structured log. Always available; the
// default sink when no broker is configured.
type LogPublisher struct {
	logger *slog.Logger
}

func NewLogPublisher(logger *slog.Logger) *LogPublisher {
	return &LogPublisher{logger: logger}
}

func (p *LogPublisher) Publish(_ context.Context, e Event) {
	p.logger.Info("audit event",
		"action", e.Action,
		"review_id", e.ReviewID,
		"professor", e.ProfessorName,
		"risk_level", e.RiskLevel,
		"detector_hit", e.DetectorHit,
	)
}
