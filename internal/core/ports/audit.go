package ports

import (
	"context"
	"time"

	"lastmile/internal/core/domain/model/kernel"
)

// AuditRecord is one immutable trail entry. Every status transition,
// post-control resolution and courier (re)assignment produces exactly one.
type AuditRecord struct {
	Initiator kernel.UUID
	Role      string
	Method    string
	ModelType string
	ModelID   kernel.UUID
	Payload   map[string]any
	Timestamp time.Time
}

// AuditHistory appends audit records. The core never reads them back; a
// failed append aborts the surrounding transaction.
type AuditHistory interface {
	Record(ctx context.Context, record AuditRecord) error
}
