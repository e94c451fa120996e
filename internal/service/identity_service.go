package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/identity-service/internal/auth"
	"github.com/spec-kit/identity-service/internal/config"
	"github.com/spec-kit/identity-service/internal/domain"
	"github.com/spec-kit/identity-service/internal/events"
	"github.com/spec-kit/identity-service/internal/observability"
	"github.com/spec-kit/identity-service/internal/repository"
	"github.com/spec-kit/identity-service/pkg/util"
)

// IdentityService is the facade over the identity backend. Every read or
// mutation (other than Authenticate itself) is gated by the guard; handlers
// pass the caller's raw token id and the facade decides whether it suffices.
type IdentityService struct {
	backend *repository.Backend
	hasher  auth.PasswordHasher
	guard   *Guard
	tokens  *TokenLifecycle
	events  events.Dispatcher
	metrics *observability.Metrics
	logger  *zap.Logger
	now     func() time.Time
}

// Dependencies carries the collaborators the facade is wired with.
type Dependencies struct {
	Backend    *repository.Backend
	Hasher     auth.PasswordHasher
	Dispatcher events.Dispatcher
	Metrics    *observability.Metrics
	Logger     *zap.Logger
}

// Option customizes an IdentityService.
type Option func(*IdentityService)

// WithClock replaces the time source, for tests.
func WithClock(now func() time.Time) Option {
	return func(s *IdentityService) {
		s.now = now
	}
}

// NewIdentityService wires the facade from config and collaborators.
func NewIdentityService(cfg config.AuthConfig, deps Dependencies, opts ...Option) *IdentityService {
	s := &IdentityService{
		backend: deps.Backend,
		hasher:  deps.Hasher,
		events:  deps.Dispatcher,
		metrics: deps.Metrics,
		logger:  deps.Logger,
		now:     time.Now,
	}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}
	for _, opt := range opts {
		opt(s)
	}
	s.guard = NewGuard(deps.Backend, cfg.AdminRole, s.now)
	s.tokens = NewTokenLifecycle(deps.Backend.Tokens, cfg.TokenTTL(), s.now)
	return s
}

// Guard exposes the underlying guard for middleware wiring.
func (s *IdentityService) Guard() *Guard {
	return s.guard
}

func (s *IdentityService) publish(ctx context.Context, eventType events.EventType, subjectID, actorID string, tenantID *string) {
	if s.events == nil {
		return
	}
	_ = s.events.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		SubjectID: subjectID,
		ActorID:   actorID,
		TenantID:  tenantID,
		Timestamp: s.now(),
	})
}

func validateLimit(limit int) (int, error) {
	if limit <= 0 {
		return 0, util.NewValidationError("limit must be a positive integer", map[string]any{"limit": limit})
	}
	return limit, nil
}

// notFoundAs translates the repository sentinel into the given fault; other
// errors pass through untouched.
func notFoundAs(err error, fault error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return fault
	}
	return err
}

func page[T any](items []T, prev, next *string, url string, limit int) *domain.Page[T] {
	return &domain.Page[T]{
		Items: items,
		Links: domain.PageLinks(url, prev, next, limit),
	}
}
