// Package commands contains business operations that modify system state.
// Implements the Command pattern for write operations in the CQRS architecture.
// All commands follow a consistent pattern: validation, transaction management, and persistence.
package commands

import (
	"context"

	"lastmile/internal/core/ports"
)

// Unit of Work interfaces provide transaction management for command handlers.
// These abstractions ensure data consistency across aggregate boundaries.
type (
	// TxManager handles database transaction lifecycle.
	// Ensures atomic operations across multiple repository calls.
	TxManager interface {
		Begin(ctx context.Context) error
		Commit(ctx context.Context) error
		Rollback(ctx context.Context) error
	}

	// OrderRepoFactory provides access to the order repository within a transaction.
	OrderRepoFactory interface {
		OrderRepository() ports.OrderRepository
	}

	// CourierRepoFactory provides access to the courier repository within a transaction.
	CourierRepoFactory interface {
		CourierRepository() ports.CourierRepository
	}

	// StatusRepoFactory provides access to the checkpoint catalogue within a transaction.
	StatusRepoFactory interface {
		StatusRepository() ports.StatusRepository
	}

	// GraphRepoFactory provides access to delivery graphs within a transaction.
	GraphRepoFactory interface {
		DeliveryGraphRepository() ports.DeliveryGraphRepository
	}

	// PostControlRepoFactory provides access to verification configs and
	// documents within a transaction.
	PostControlRepoFactory interface {
		PostControlRepository() ports.PostControlRepository
	}

	// AreaRepoFactory provides access to service areas within a transaction.
	AreaRepoFactory interface {
		AreaRepository() ports.AreaRepository
	}

	// OrderUoW manages transactions for order-only operations.
	OrderUoW interface {
		TxManager
		OrderRepoFactory
	}

	// OrderUoWFactory creates new order unit of work instances.
	OrderUoWFactory interface {
		Create() OrderUoW
	}

	// CreateOrderUoW covers order creation: the order itself, the graph
	// lookup and area resolution.
	CreateOrderUoW interface {
		TxManager
		OrderRepoFactory
		GraphRepoFactory
		AreaRepoFactory
	}

	// CreateOrderUoWFactory creates new creation unit of work instances.
	CreateOrderUoWFactory interface {
		Create() CreateOrderUoW
	}

	// TransitionUoW covers checkpoint transitions and post-control work:
	// the order, the catalogue and the document store.
	TransitionUoW interface {
		TxManager
		OrderRepoFactory
		StatusRepoFactory
		PostControlRepoFactory
	}

	// TransitionUoWFactory creates new transition unit of work instances.
	TransitionUoWFactory interface {
		Create() TransitionUoW
	}

	// AreaUoW covers area administration: the area itself plus the open-order
	// guard against its orders.
	AreaUoW interface {
		TxManager
		AreaRepoFactory
		OrderRepoFactory
	}

	// AreaUoWFactory creates new area unit of work instances.
	AreaUoWFactory interface {
		Create() AreaUoW
	}

	// DistributionUoW covers courier assignment: orders plus couriers.
	DistributionUoW interface {
		TxManager
		OrderRepoFactory
		CourierRepoFactory
	}

	// DistributionUoWFactory creates new distribution unit of work instances.
	DistributionUoWFactory interface {
		Create() DistributionUoW
	}
)
