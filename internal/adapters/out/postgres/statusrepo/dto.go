// Package statusrepo provides persistence for the checkpoint catalogue.
package statusrepo

import (
	"encoding/json"

	"lastmile/internal/core/domain/model/kernel"
	"lastmile/internal/core/domain/model/status"

	"github.com/google/uuid"
)

// StatusDTO represents the database structure for checkpoint definitions.
type StatusDTO struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey"`
	Slug      string     `gorm:"type:varchar(64);not null;index:idx_statuses_slug_partner,unique"`
	Name      string     `gorm:"type:varchar(255);not null"`
	Icon      string     `gorm:"type:varchar(255)"`
	PartnerID *uuid.UUID `gorm:"type:uuid;index:idx_statuses_slug_partner,unique"`
	After     []byte     `gorm:"type:jsonb"`
}

// TableName specifies the database table name for checkpoint definitions.
func (StatusDTO) TableName() string {
	return "statuses"
}

// fromDomain converts a status entity to its database representation.
func fromDomain(s *status.Status) (StatusDTO, error) {
	after := make([]string, 0, len(s.After()))
	for _, dep := range s.After() {
		after = append(after, string(dep))
	}
	rawAfter, err := json.Marshal(after)
	if err != nil {
		return StatusDTO{}, err
	}

	var partnerID *uuid.UUID
	if id := s.PartnerID(); id != nil {
		raw := id.Bytes()
		partnerID = &raw
	}

	return StatusDTO{
		ID:        s.ID().Bytes(),
		Slug:      string(s.Slug()),
		Name:      s.Name(),
		Icon:      s.Icon(),
		PartnerID: partnerID,
		After:     rawAfter,
	}, nil
}

// toDomain converts a database DTO to a status entity.
func toDomain(dto StatusDTO) (*status.Status, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	var partnerID *kernel.UUID
	if dto.PartnerID != nil {
		pID, pErr := kernel.UUIDFromBytes((*dto.PartnerID)[:])
		if pErr != nil {
			return nil, pErr
		}
		partnerID = &pID
	}

	var rawAfter []string
	if len(dto.After) > 0 {
		if err = json.Unmarshal(dto.After, &rawAfter); err != nil {
			return nil, err
		}
	}
	after := make([]status.Slug, 0, len(rawAfter))
	for _, dep := range rawAfter {
		after = append(after, status.Slug(dep))
	}

	return status.NewStatus(id, status.Slug(dto.Slug), dto.Name, dto.Icon, partnerID, after)
}
