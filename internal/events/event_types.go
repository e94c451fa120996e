package events

import "time"

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventTokenIssued    EventType = "token_issued"
	EventTokenReused    EventType = "token_reused"
	EventTokenRevoked   EventType = "token_revoked"
	EventUserCreated    EventType = "user_created"
	EventUserUpdated    EventType = "user_updated"
	EventUserDeleted    EventType = "user_deleted"
	EventTenantCreated  EventType = "tenant_created"
	EventTenantUpdated  EventType = "tenant_updated"
	EventTenantDeleted  EventType = "tenant_deleted"
	EventRoleCreated    EventType = "role_created"
	EventRoleRefCreated EventType = "role_ref_created"
	EventRoleRefDeleted EventType = "role_ref_deleted"
)

// Event represents a domain event emitted by the identity facade.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	SubjectID string      `json:"subject_id"`
	ActorID   string      `json:"actor_id,omitempty"`
	TenantID  *string     `json:"tenant_id,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload,omitempty"`
}
