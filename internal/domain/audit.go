package domain

import (
	"context"

	"github.com/Skalersaas/warehouse/internal/core/id"
)

// AuditAction represents the type of audited operation.
type AuditAction string

const (
	AuditActionCreate AuditAction = "create"
	AuditActionUpdate AuditAction = "update"
	AuditActionDelete AuditAction = "delete"
	AuditActionSign   AuditAction = "sign"
	AuditActionRevoke AuditAction = "revoke"
)

// AuditRecorder records document lifecycle events. Recording is
// best-effort: services log failures and continue, an audit write never
// fails a business operation.
type AuditRecorder interface {
	Record(ctx context.Context, entityType string, entityID id.ID, action AuditAction, changes any) error
}
