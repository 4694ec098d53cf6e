// Package postcontrolrepo provides persistence for verification configs and
// uploaded documents.
package postcontrolrepo

import (
	"time"

	"lastmile/internal/core/domain/model/kernel"
	"lastmile/internal/core/domain/model/order"
	"lastmile/internal/core/domain/model/postcontrol"

	"github.com/google/uuid"
)

// ConfigDTO represents the database structure for requirement tree nodes.
type ConfigDTO struct {
	ID             uuid.UUID  `gorm:"type:uuid;primaryKey"`
	Name           string     `gorm:"type:varchar(255);not null"`
	ProductType    string     `gorm:"type:varchar(32);not null;index:idx_postcontrol_configs_scope"`
	Purpose        string     `gorm:"type:varchar(32);not null;index:idx_postcontrol_configs_scope"`
	ParentID       *uuid.UUID `gorm:"type:uuid;index"`
	DocumentsLimit int        `gorm:"not null;default:1"`
}

// TableName specifies the database table name for config nodes.
func (ConfigDTO) TableName() string {
	return "postcontrol_configs"
}

// DocumentDTO represents the database structure for uploaded documents.
type DocumentDTO struct {
	ID         uuid.UUID  `gorm:"type:uuid;primaryKey"`
	OrderID    uuid.UUID  `gorm:"type:uuid;not null;index"`
	ConfigID   uuid.UUID  `gorm:"type:uuid;not null"`
	ImageKey   string     `gorm:"type:varchar(512);not null"`
	Resolution string     `gorm:"type:varchar(32);not null"`
	Comment    string     `gorm:"type:text"`
	CreatedAt  time.Time  `gorm:"not null"`
	ResolvedAt *time.Time
	ResolvedBy *uuid.UUID `gorm:"type:uuid"`
}

// TableName specifies the database table name for documents.
func (DocumentDTO) TableName() string {
	return "postcontrol_documents"
}

// configFromDomain converts a config node to its database representation.
func configFromDomain(c *postcontrol.Config) ConfigDTO {
	var parentID *uuid.UUID
	if pID := c.ParentID(); pID != nil {
		raw := pID.Bytes()
		parentID = &raw
	}

	return ConfigDTO{
		ID:             c.ID().Bytes(),
		Name:           c.Name(),
		ProductType:    string(c.ProductType()),
		Purpose:        string(c.Purpose()),
		ParentID:       parentID,
		DocumentsLimit: c.DocumentsLimit(),
	}
}

// configToDomain converts a database DTO to a config node.
func configToDomain(dto ConfigDTO) (*postcontrol.Config, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	var parentID *kernel.UUID
	if dto.ParentID != nil {
		pID, pErr := kernel.UUIDFromBytes((*dto.ParentID)[:])
		if pErr != nil {
			return nil, pErr
		}
		parentID = &pID
	}

	return postcontrol.NewConfig(
		id,
		dto.Name,
		order.ProductType(dto.ProductType),
		postcontrol.Purpose(dto.Purpose),
		parentID,
		dto.DocumentsLimit,
	)
}

// documentFromDomain converts a document to its database representation.
func documentFromDomain(d *postcontrol.Document) DocumentDTO {
	var resolvedBy *uuid.UUID
	if actor := d.ResolvedBy(); actor != nil {
		raw := actor.Bytes()
		resolvedBy = &raw
	}

	return DocumentDTO{
		ID:         d.ID().Bytes(),
		OrderID:    d.OrderID().Bytes(),
		ConfigID:   d.ConfigID().Bytes(),
		ImageKey:   d.ImageKey(),
		Resolution: string(d.Resolution()),
		Comment:    d.Comment(),
		CreatedAt:  d.CreatedAt(),
		ResolvedAt: d.ResolvedAt(),
		ResolvedBy: resolvedBy,
	}
}

// documentToDomain converts a database DTO to a document.
func documentToDomain(dto DocumentDTO) (*postcontrol.Document, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	orderID, err := kernel.UUIDFromBytes(dto.OrderID[:])
	if err != nil {
		return nil, err
	}
	configID, err := kernel.UUIDFromBytes(dto.ConfigID[:])
	if err != nil {
		return nil, err
	}

	var resolvedBy *kernel.UUID
	if dto.ResolvedBy != nil {
		actor, aErr := kernel.UUIDFromBytes((*dto.ResolvedBy)[:])
		if aErr != nil {
			return nil, aErr
		}
		resolvedBy = &actor
	}

	return postcontrol.RestoreDocument(
		id,
		orderID,
		configID,
		dto.ImageKey,
		postcontrol.Resolution(dto.Resolution),
		dto.Comment,
		dto.CreatedAt,
		dto.ResolvedAt,
		resolvedBy,
	)
}
