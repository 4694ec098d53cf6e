package commands_test

import (
	"context"
	"testing"
	"time"

	"lastmile/internal/core/application/usecases/commands"
	"lastmile/internal/core/domain/model/courier"
	"lastmile/internal/core/domain/model/kernel"
	"lastmile/internal/core/domain/model/order"
	"lastmile/internal/core/domain/services"
	"lastmile/internal/core/ports"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockCourierRepository struct{ mock.Mock }

func (m *MockCourierRepository) Add(ctx context.Context, c *courier.Courier) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *MockCourierRepository) Update(ctx context.Context, c *courier.Courier) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *MockCourierRepository) Get(ctx context.Context, id kernel.UUID) (*courier.Courier, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*courier.Courier), args.Error(1)
}

func (m *MockCourierRepository) GetActiveByArea(ctx context.Context, areaID kernel.UUID) ([]*courier.Courier, error) {
	args := m.Called(ctx, areaID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*courier.Courier), args.Error(1)
}

func (m *MockCourierRepository) SaveRoutePlan(ctx context.Context, courierID kernel.UUID, plan ports.RoutePlan) error {
	args := m.Called(ctx, courierID, plan)
	return args.Error(0)
}

type MockDistributionUoW struct{ mock.Mock }

func (m *MockDistributionUoW) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockDistributionUoW) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockDistributionUoW) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockDistributionUoW) OrderRepository() ports.OrderRepository {
	args := m.Called()
	return args.Get(0).(ports.OrderRepository)
}

func (m *MockDistributionUoW) CourierRepository() ports.CourierRepository {
	args := m.Called()
	return args.Get(0).(ports.CourierRepository)
}

type MockDistributionUoWFactory struct{ mock.Mock }

func (m *MockDistributionUoWFactory) Create() commands.DistributionUoW {
	args := m.Called()
	return args.Get(0).(commands.DistributionUoW)
}

type MockRoutingOracle struct{ mock.Mock }

func (m *MockRoutingOracle) Estimate(
	ctx context.Context, c *courier.Courier, stops []ports.RouteStop,
) (ports.RoutePlan, error) {
	args := m.Called(ctx, c, stops)
	return args.Get(0).(ports.RoutePlan), args.Error(1)
}

func courierFixture(t *testing.T, name string) *courier.Courier {
	t.Helper()

	c, err := courier.NewCourier(kernel.NewUUID(), name, "+77001234567", kernel.NewUUID(), "Almaty")
	require.NoError(t, err)
	return c
}

func TestDistributeOrdersCommandHandler_Handle_MinimumTimeWins(t *testing.T) {
	ctx := t.Context()
	areaID := kernel.NewUUID()
	first := testOrder(t, order.ParcelProduct, order.Delivery)
	require.NoError(t, first.AssignArea(areaID))
	second := testOrder(t, order.ParcelProduct, order.Delivery)
	require.NoError(t, second.AssignArea(areaID))
	slow := courierFixture(t, "Slow")
	fast := courierFixture(t, "Fast")

	cmd, err := commands.NewDistributeOrdersCommand(
		[]kernel.UUID{areaID}, kernel.NewUUID(), "dispatcher")
	require.NoError(t, err)

	repo := new(MockOrderRepository)
	couriers := new(MockCourierRepository)
	uow := new(MockDistributionUoW)
	oracle := new(MockRoutingOracle)
	audit := new(MockAuditHistory)
	events := new(MockEventPublisher)

	uow.On("OrderRepository").Return(repo)
	uow.On("CourierRepository").Return(couriers)
	uow.On("Begin", ctx).Return(nil).Once()
	uow.On("Commit", ctx).Return(nil).Once()
	uow.On("Rollback", ctx).Return(nil).Once()

	repo.On("GetUnassignedByArea", ctx, areaID).
		Return([]*order.Order{first, second}, nil).Once()
	couriers.On("GetActiveByArea", ctx, areaID).
		Return([]*courier.Courier{slow, fast}, nil).Once()
	repo.On("GetOpenByCourierOnDay", ctx, slow.ID(), mock.Anything).Return(nil, nil)
	repo.On("GetOpenByCourierOnDay", ctx, fast.ID(), mock.Anything).Return(nil, nil)
	oracle.On("Estimate", mock.Anything, slow, mock.Anything).
		Return(ports.RoutePlan{TotalTime: 40 * time.Minute}, nil)
	oracle.On("Estimate", mock.Anything, fast, mock.Anything).
		Return(ports.RoutePlan{TotalTime: 25 * time.Minute}, nil)
	repo.On("GetForUpdate", ctx, first.ID()).Return(first, nil).Once()
	repo.On("GetForUpdate", ctx, second.ID()).Return(second, nil).Once()
	repo.On("Update", ctx, first).Return(nil).Once()
	repo.On("Update", ctx, second).Return(nil).Once()
	couriers.On("Get", ctx, fast.ID()).Return(fast, nil).Once()
	couriers.On("SaveRoutePlan", ctx, fast.ID(), mock.Anything).Return(nil).Once()
	audit.On("Record", ctx, mock.MatchedBy(func(r ports.AuditRecord) bool {
		return r.Method == "distribute_orders" && r.ModelType == "area"
	})).Return(nil).Once()
	events.On("PublishOrderAssigned", ctx, mock.MatchedBy(func(e ports.OrderAssignedEvent) bool {
		return e.CourierID == fast.ID()
	})).Return(nil).Twice()

	factory := new(MockDistributionUoWFactory)
	factory.On("Create").Return(uow).Once()

	engine := services.NewDistributionEngine(oracle)
	h := commands.NewDistributeOrdersCommandHandler(factory, engine, audit, events, discardLogger())
	result, err := h.Handle(ctx, cmd)
	require.NoError(t, err)
	require.Empty(t, result.SkippedAreas)
	require.Empty(t, result.ContestedOrders)
	require.Len(t, result.Assigned, 2)
	require.Equal(t, fast.ID(), *first.CourierID())
	require.Equal(t, fast.ID(), *second.CourierID())

	repo.AssertExpectations(t)
	couriers.AssertExpectations(t)
	events.AssertExpectations(t)
}

func TestDistributeOrdersCommandHandler_Handle_ExcludesExceptionOrders(t *testing.T) {
	ctx := t.Context()
	areaID := kernel.NewUUID()
	active := testOrder(t, order.ParcelProduct, order.Delivery)
	require.NoError(t, active.AssignArea(areaID))
	cancelled := testOrder(t, order.ParcelProduct, order.Delivery)
	require.NoError(t, cancelled.AssignArea(areaID))
	require.NoError(t, cancelled.SetDeliveryStatus(
		order.Cancelled, "recipient refused", "", time.Now()))
	postponed := testOrder(t, order.ParcelProduct, order.Delivery)
	require.NoError(t, postponed.AssignArea(areaID))
	require.NoError(t, postponed.SetDeliveryStatus(
		order.Postponed, "recipient asked for later", "", time.Now()))
	winner := courierFixture(t, "Winner")

	cmd, err := commands.NewDistributeOrdersCommand(
		[]kernel.UUID{areaID}, kernel.NewUUID(), "dispatcher")
	require.NoError(t, err)

	repo := new(MockOrderRepository)
	couriers := new(MockCourierRepository)
	uow := new(MockDistributionUoW)
	oracle := new(MockRoutingOracle)
	events := new(MockEventPublisher)

	uow.On("OrderRepository").Return(repo)
	uow.On("CourierRepository").Return(couriers)
	uow.On("Begin", ctx).Return(nil).Once()
	uow.On("Commit", ctx).Return(nil).Once()
	uow.On("Rollback", ctx).Return(nil).Once()
	repo.On("GetUnassignedByArea", ctx, areaID).
		Return([]*order.Order{active, cancelled, postponed}, nil).Once()
	couriers.On("GetActiveByArea", ctx, areaID).
		Return([]*courier.Courier{winner}, nil).Once()
	repo.On("GetOpenByCourierOnDay", ctx, winner.ID(), mock.Anything).Return(nil, nil)
	oracle.On("Estimate", mock.Anything, winner, mock.Anything).
		Return(ports.RoutePlan{TotalTime: 10 * time.Minute}, nil)
	repo.On("GetForUpdate", ctx, active.ID()).Return(active, nil).Once()
	repo.On("Update", ctx, active).Return(nil).Once()
	couriers.On("Get", ctx, winner.ID()).Return(winner, nil).Once()
	couriers.On("SaveRoutePlan", ctx, winner.ID(), mock.Anything).Return(nil).Once()
	events.On("PublishOrderAssigned", ctx, mock.Anything).Return(nil).Once()

	audit := new(MockAuditHistory)
	audit.On("Record", ctx, mock.Anything).Return(nil).Once()

	factory := new(MockDistributionUoWFactory)
	factory.On("Create").Return(uow).Once()

	engine := services.NewDistributionEngine(oracle)
	h := commands.NewDistributeOrdersCommandHandler(factory, engine, audit, events, discardLogger())
	result, err := h.Handle(ctx, cmd)
	require.NoError(t, err)
	require.Len(t, result.Assigned, 1)
	require.Equal(t, winner.ID(), *active.CourierID())
	require.Nil(t, cancelled.CourierID())
	require.Nil(t, postponed.CourierID())
	repo.AssertNotCalled(t, "GetForUpdate", ctx, cancelled.ID())
	repo.AssertNotCalled(t, "GetForUpdate", ctx, postponed.ID())
	repo.AssertExpectations(t)
}

func TestDistributeOrdersCommandHandler_Handle_NoCouriersSkipsArea(t *testing.T) {
	ctx := t.Context()
	areaID := kernel.NewUUID()
	candidate := testOrder(t, order.ParcelProduct, order.Delivery)
	require.NoError(t, candidate.AssignArea(areaID))

	cmd, err := commands.NewDistributeOrdersCommand(
		[]kernel.UUID{areaID}, kernel.NewUUID(), "dispatcher")
	require.NoError(t, err)

	repo := new(MockOrderRepository)
	couriers := new(MockCourierRepository)
	uow := new(MockDistributionUoW)

	uow.On("OrderRepository").Return(repo)
	uow.On("CourierRepository").Return(couriers)
	uow.On("Begin", ctx).Return(nil).Once()
	uow.On("Rollback", ctx).Return(nil).Once()
	repo.On("GetUnassignedByArea", ctx, areaID).
		Return([]*order.Order{candidate}, nil).Once()
	couriers.On("GetActiveByArea", ctx, areaID).Return(nil, nil).Once()

	factory := new(MockDistributionUoWFactory)
	factory.On("Create").Return(uow).Once()

	engine := services.NewDistributionEngine(new(MockRoutingOracle))
	h := commands.NewDistributeOrdersCommandHandler(
		factory, engine, new(MockAuditHistory), new(MockEventPublisher), discardLogger())
	result, err := h.Handle(ctx, cmd)
	require.NoError(t, err)
	require.Contains(t, result.SkippedAreas, areaID)
	require.Empty(t, result.Assigned)
	uow.AssertNotCalled(t, "Commit", ctx)
}

func TestDistributeOrdersCommandHandler_Handle_ContestedOrderExcluded(t *testing.T) {
	ctx := t.Context()
	areaID := kernel.NewUUID()
	free := testOrder(t, order.ParcelProduct, order.Delivery)
	require.NoError(t, free.AssignArea(areaID))
	contested := testOrder(t, order.ParcelProduct, order.Delivery)
	require.NoError(t, contested.AssignArea(areaID))
	winner := courierFixture(t, "Winner")

	cmd, err := commands.NewDistributeOrdersCommand(
		[]kernel.UUID{areaID}, kernel.NewUUID(), "dispatcher")
	require.NoError(t, err)

	repo := new(MockOrderRepository)
	couriers := new(MockCourierRepository)
	uow := new(MockDistributionUoW)
	oracle := new(MockRoutingOracle)
	events := new(MockEventPublisher)

	uow.On("OrderRepository").Return(repo)
	uow.On("CourierRepository").Return(couriers)
	uow.On("Begin", ctx).Return(nil).Once()
	uow.On("Commit", ctx).Return(nil).Once()
	uow.On("Rollback", ctx).Return(nil).Once()
	repo.On("GetUnassignedByArea", ctx, areaID).
		Return([]*order.Order{free, contested}, nil).Once()
	couriers.On("GetActiveByArea", ctx, areaID).
		Return([]*courier.Courier{winner}, nil).Once()
	repo.On("GetOpenByCourierOnDay", ctx, winner.ID(), mock.Anything).Return(nil, nil)
	oracle.On("Estimate", mock.Anything, winner, mock.Anything).
		Return(ports.RoutePlan{TotalTime: 15 * time.Minute}, nil)
	repo.On("GetForUpdate", ctx, free.ID()).Return(free, nil).Once()
	repo.On("GetForUpdate", ctx, contested.ID()).
		Return(nil, ports.ErrConcurrentModification).Once()
	repo.On("Update", ctx, free).Return(nil).Once()
	couriers.On("Get", ctx, winner.ID()).Return(winner, nil).Once()
	couriers.On("SaveRoutePlan", ctx, winner.ID(), mock.Anything).Return(nil).Once()
	events.On("PublishOrderAssigned", ctx, mock.Anything).Return(nil).Once()

	audit := new(MockAuditHistory)
	audit.On("Record", ctx, mock.Anything).Return(nil).Once()

	factory := new(MockDistributionUoWFactory)
	factory.On("Create").Return(uow).Once()

	engine := services.NewDistributionEngine(oracle)
	h := commands.NewDistributeOrdersCommandHandler(factory, engine, audit, events, discardLogger())
	result, err := h.Handle(ctx, cmd)
	require.NoError(t, err)
	require.Len(t, result.Assigned, 1)
	require.Equal(t, []kernel.UUID{contested.ID()}, result.ContestedOrders)
	require.Equal(t, winner.ID(), *free.CourierID())
	require.Nil(t, contested.CourierID())
}
