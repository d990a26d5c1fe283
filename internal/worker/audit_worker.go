package worker

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/countdown-service/internal/events"
)

// AuditWorker subscribes to token and user lifecycle events and writes them
// to the structured log, giving administrators a trail of issuance,
// revocation and sweeps without a dedicated audit store.
type AuditWorker struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// NewAuditWorker creates the worker.
func NewAuditWorker(dispatcher events.Dispatcher, logger *zap.Logger) *AuditWorker {
	return &AuditWorker{dispatcher: dispatcher, logger: logger.Named("audit")}
}

// Start registers the event subscriptions.
func (w *AuditWorker) Start() {
	if w.dispatcher == nil {
		return
	}
	for _, eventType := range []events.EventType{
		events.EventTokenIssued,
		events.EventTokenRenewed,
		events.EventTokenRevoked,
		events.EventTokensCleaned,
		events.EventUserFrozen,
		events.EventUserDeleted,
	} {
		w.dispatcher.Subscribe(eventType, w.record)
	}
}

func (w *AuditWorker) record(_ context.Context, event events.Event) error {
	w.logger.Info(string(event.Type),
		zap.String("event_id", event.ID),
		zap.String("username", event.Username),
		zap.Time("at", event.Timestamp),
		zap.Any("payload", event.Payload),
	)
	return nil
}
