// Package auditrepo provides append-only persistence for the audit trail.
package auditrepo

import (
	"encoding/json"
	"time"

	"lastmile/internal/core/ports"

	"github.com/google/uuid"
)

// AuditRecordDTO represents the database structure for audit trail entries.
// Rows are never updated or deleted.
type AuditRecordDTO struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	Initiator uuid.UUID `gorm:"type:uuid;not null"`
	Role      string    `gorm:"type:varchar(64);not null"`
	Method    string    `gorm:"type:varchar(128);not null"`
	ModelType string    `gorm:"type:varchar(64);not null;index:idx_audit_records_model"`
	ModelID   uuid.UUID `gorm:"type:uuid;not null;index:idx_audit_records_model"`
	Payload   []byte    `gorm:"type:jsonb"`
	Timestamp time.Time `gorm:"not null"`
}

// TableName specifies the database table name for audit records.
func (AuditRecordDTO) TableName() string {
	return "audit_records"
}

// fromDomain converts an audit record to its database representation.
func fromDomain(record ports.AuditRecord) (AuditRecordDTO, error) {
	payload, err := json.Marshal(record.Payload)
	if err != nil {
		return AuditRecordDTO{}, err
	}

	return AuditRecordDTO{
		ID:        uuid.New(),
		Initiator: record.Initiator.Bytes(),
		Role:      record.Role,
		Method:    record.Method,
		ModelType: record.ModelType,
		ModelID:   record.ModelID.Bytes(),
		Payload:   payload,
		Timestamp: record.Timestamp,
	}, nil
}
