package worker

import "github.com/spec-kit/identity-service/internal/service"

// StartAuditWorker attaches the audit trail to the event stream. Events are
// dispatched synchronously, so no goroutine is needed here.
func StartAuditWorker(audit *service.AuditService) {
	audit.RegisterHandlers()
}
