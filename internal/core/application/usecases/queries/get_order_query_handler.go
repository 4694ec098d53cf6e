package queries

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"lastmile/internal/core/domain/model/kernel"
	"lastmile/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GetOrderQueryHandler retrieves the order read model directly from the
// database, including the checkpoint history stored inline on the row.
type GetOrderQueryHandler struct {
	db *gorm.DB
}

// NewGetOrderQueryHandler creates a handler for order detail queries.
func NewGetOrderQueryHandler(db *gorm.DB) GetOrderQueryHandler {
	return GetOrderQueryHandler{db: db}
}

// Handle executes the query and returns the order read model.
func (h GetOrderQueryHandler) Handle(
	ctx context.Context,
	query GetOrderQuery,
) (GetOrderQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return GetOrderQueryResponse{}, err
	}

	row := h.db.WithContext(ctx).Raw(`
		SELECT
			id,
			partner_id,
			courier_id,
			area_id,
			product_type,
			order_type,
			latitude,
			longitude,
			city,
			current_slug,
			history,
			delivery_status,
			delivery_status_reason,
			delivery_status_comment,
			actual_delivery_time,
			archived
		FROM orders
		WHERE id = ?
	`, query.OrderID().Bytes()).Row()

	var (
		id, partnerID        uuid.UUID
		courierID, areaID    *uuid.UUID
		latitude, longitude  float64
		rawHistory           []byte
		deliveryStatus       sql.NullString
		actualDeliveryTime   sql.NullTime
		resp                 GetOrderQueryResponse
	)
	err := row.Scan(
		&id,
		&partnerID,
		&courierID,
		&areaID,
		&resp.ProductType,
		&resp.OrderType,
		&latitude,
		&longitude,
		&resp.City,
		&resp.CurrentSlug,
		&rawHistory,
		&deliveryStatus,
		&resp.DeliveryStatusReason,
		&resp.DeliveryStatusComment,
		&actualDeliveryTime,
		&resp.Archived,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return GetOrderQueryResponse{}, errs.NewObjectNotFoundError("order", query.OrderID().String())
		}
		return GetOrderQueryResponse{}, err
	}

	if resp.ID, err = kernel.UUIDFromBytes(id[:]); err != nil {
		return GetOrderQueryResponse{}, err
	}
	if resp.PartnerID, err = kernel.UUIDFromBytes(partnerID[:]); err != nil {
		return GetOrderQueryResponse{}, err
	}
	if resp.CourierID, err = optionalUUID(courierID); err != nil {
		return GetOrderQueryResponse{}, err
	}
	if resp.AreaID, err = optionalUUID(areaID); err != nil {
		return GetOrderQueryResponse{}, err
	}
	if resp.DeliveryPoint, err = kernel.NewGeoPoint(latitude, longitude); err != nil {
		return GetOrderQueryResponse{}, err
	}

	var history []struct {
		Slug      string    `json:"slug"`
		Timestamp time.Time `json:"timestamp"`
	}
	if err = json.Unmarshal(rawHistory, &history); err != nil {
		return GetOrderQueryResponse{}, err
	}
	resp.History = make([]OrderHistoryEntryResponse, 0, len(history))
	for _, entry := range history {
		resp.History = append(resp.History, OrderHistoryEntryResponse{
			Slug:      entry.Slug,
			Timestamp: entry.Timestamp,
		})
	}

	if deliveryStatus.Valid {
		value := deliveryStatus.String
		resp.DeliveryStatus = &value
	}
	if actualDeliveryTime.Valid {
		value := actualDeliveryTime.Time
		resp.ActualDeliveryTime = &value
	}

	return resp, nil
}

// optionalUUID converts a nullable database id to the kernel type.
func optionalUUID(raw *uuid.UUID) (*kernel.UUID, error) {
	if raw == nil {
		return nil, nil
	}

	id, err := kernel.UUIDFromBytes((*raw)[:])
	if err != nil {
		return nil, err
	}
	return &id, nil
}
