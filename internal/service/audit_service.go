package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/identity-service/internal/events"
)

// AuditService records identity events to the structured log. It is wired as
// an event subscriber so the facade stays unaware of auditing.
type AuditService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// NewAuditService creates an audit service instance.
func NewAuditService(dispatcher events.Dispatcher, logger *zap.Logger) *AuditService {
	return &AuditService{dispatcher: dispatcher, logger: logger}
}

// RegisterHandlers subscribes the audit trail to every event type.
func (s *AuditService) RegisterHandlers() {
	for _, eventType := range []events.EventType{
		events.EventTokenIssued,
		events.EventTokenReused,
		events.EventTokenRevoked,
		events.EventUserCreated,
		events.EventUserUpdated,
		events.EventUserDeleted,
		events.EventTenantCreated,
		events.EventTenantUpdated,
		events.EventTenantDeleted,
		events.EventRoleCreated,
		events.EventRoleRefCreated,
		events.EventRoleRefDeleted,
	} {
		s.dispatcher.Subscribe(eventType, s.record)
	}
}

func (s *AuditService) record(_ context.Context, event events.Event) error {
	fields := []zap.Field{
		zap.String("event_id", event.ID),
		zap.String("event_type", string(event.Type)),
		zap.String("subject_id", event.SubjectID),
		zap.Time("timestamp", event.Timestamp),
	}
	if event.ActorID != "" {
		fields = append(fields, zap.String("actor_id", event.ActorID))
	}
	if event.TenantID != nil {
		fields = append(fields, zap.String("tenant_id", *event.TenantID))
	}
	s.logger.Info("audit", fields...)
	return nil
}
