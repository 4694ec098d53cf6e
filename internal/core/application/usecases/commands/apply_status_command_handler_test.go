package commands_test

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"lastmile/internal/core/application/usecases/commands"
	"lastmile/internal/core/domain/model/deliverygraph"
	"lastmile/internal/core/domain/model/kernel"
	"lastmile/internal/core/domain/model/order"
	"lastmile/internal/core/domain/model/postcontrol"
	"lastmile/internal/core/domain/model/status"
	"lastmile/internal/core/ports"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockOrderRepository struct{ mock.Mock }

func (m *MockOrderRepository) Add(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOrderRepository) Update(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOrderRepository) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderRepository) GetForUpdate(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*order.Order), args.Error(1)
}

func (m *MockOrderRepository) GetUnassignedByArea(ctx context.Context, areaID kernel.UUID) ([]*order.Order, error) {
	args := m.Called(ctx, areaID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*order.Order), args.Error(1)
}

func (m *MockOrderRepository) GetOpenByCourierOnDay(
	ctx context.Context, courierID kernel.UUID, day time.Time,
) ([]*order.Order, error) {
	args := m.Called(ctx, courierID, day)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*order.Order), args.Error(1)
}

func (m *MockOrderRepository) GetCompletedBefore(ctx context.Context, cutoff time.Time) ([]*order.Order, error) {
	args := m.Called(ctx, cutoff)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*order.Order), args.Error(1)
}

func (m *MockOrderRepository) CountOpenByArea(ctx context.Context, areaID kernel.UUID) (int64, error) {
	args := m.Called(ctx, areaID)
	return args.Get(0).(int64), args.Error(1)
}

type MockStatusRepository struct{ mock.Mock }

func (m *MockStatusRepository) Get(ctx context.Context, id kernel.UUID) (*status.Status, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*status.Status), args.Error(1)
}

func (m *MockStatusRepository) GetBySlug(
	ctx context.Context, slug status.Slug, partnerID *kernel.UUID,
) (*status.Status, error) {
	args := m.Called(ctx, slug, partnerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*status.Status), args.Error(1)
}

type MockPostControlRepository struct{ mock.Mock }

func (m *MockPostControlRepository) GetConfigs(
	ctx context.Context, productType order.ProductType, purpose postcontrol.Purpose,
) ([]*postcontrol.Config, error) {
	args := m.Called(ctx, productType, purpose)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*postcontrol.Config), args.Error(1)
}

func (m *MockPostControlRepository) GetConfig(ctx context.Context, id kernel.UUID) (*postcontrol.Config, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*postcontrol.Config), args.Error(1)
}

func (m *MockPostControlRepository) AddDocument(ctx context.Context, document *postcontrol.Document) error {
	args := m.Called(ctx, document)
	return args.Error(0)
}

func (m *MockPostControlRepository) UpdateDocument(ctx context.Context, document *postcontrol.Document) error {
	args := m.Called(ctx, document)
	return args.Error(0)
}

func (m *MockPostControlRepository) GetDocument(ctx context.Context, id kernel.UUID) (*postcontrol.Document, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*postcontrol.Document), args.Error(1)
}

func (m *MockPostControlRepository) GetDocumentsByOrder(
	ctx context.Context, orderID kernel.UUID,
) ([]*postcontrol.Document, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*postcontrol.Document), args.Error(1)
}

func (m *MockPostControlRepository) DeleteDocumentsByOrder(ctx context.Context, orderID kernel.UUID) error {
	args := m.Called(ctx, orderID)
	return args.Error(0)
}

type MockTransitionUoW struct{ mock.Mock }

func (m *MockTransitionUoW) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockTransitionUoW) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockTransitionUoW) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockTransitionUoW) OrderRepository() ports.OrderRepository {
	args := m.Called()
	return args.Get(0).(ports.OrderRepository)
}

func (m *MockTransitionUoW) StatusRepository() ports.StatusRepository {
	args := m.Called()
	return args.Get(0).(ports.StatusRepository)
}

func (m *MockTransitionUoW) PostControlRepository() ports.PostControlRepository {
	args := m.Called()
	return args.Get(0).(ports.PostControlRepository)
}

type MockTransitionUoWFactory struct{ mock.Mock }

func (m *MockTransitionUoWFactory) Create() commands.TransitionUoW {
	args := m.Called()
	return args.Get(0).(commands.TransitionUoW)
}

type MockOTPProvider struct{ mock.Mock }

func (m *MockOTPProvider) GetState(ctx context.Context, orderID kernel.UUID) (ports.OTPState, error) {
	args := m.Called(ctx, orderID)
	return args.Get(0).(ports.OTPState), args.Error(1)
}

type MockAuditHistory struct{ mock.Mock }

func (m *MockAuditHistory) Record(ctx context.Context, record ports.AuditRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

type MockEventPublisher struct{ mock.Mock }

func (m *MockEventPublisher) PublishStatusChanged(ctx context.Context, event ports.OrderStatusChangedEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *MockEventPublisher) PublishOrderAssigned(ctx context.Context, event ports.OrderAssignedEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *MockEventPublisher) Close() error { return nil }

type MockCallbackDispatcher struct{ mock.Mock }

func (m *MockCallbackDispatcher) Enqueue(ctx context.Context, task ports.CallbackTask) error {
	args := m.Called(ctx, task)
	return args.Error(0)
}

func (m *MockCallbackDispatcher) Close() error { return nil }

type MockCardDataProvider struct{ mock.Mock }

func (m *MockCardDataProvider) MaskedPAN(ctx context.Context, orderID kernel.UUID) (string, error) {
	args := m.Called(ctx, orderID)
	return args.String(0), args.Error(1)
}

func testGraph(t *testing.T) *deliverygraph.DeliveryGraph {
	t.Helper()

	operator, err := deliverygraph.NewGraph([]deliverygraph.Step{
		{StatusID: kernel.NewUUID(), Slug: status.New, Name: "New", Position: 1},
		{StatusID: kernel.NewUUID(), Slug: status.SMSSent, Name: "SMS sent", Position: 2},
		{StatusID: kernel.NewUUID(), Slug: status.OnTheWay, Name: "On the way", Position: 3},
		{StatusID: kernel.NewUUID(), Slug: status.PostControl, Name: "Post control", Position: 4},
		{StatusID: kernel.NewUUID(), Slug: status.Delivered, Name: "Delivered", Position: 5},
		{StatusID: kernel.NewUUID(), Slug: status.Issued, Name: "Issued", Position: 6},
	})
	require.NoError(t, err)

	courierSteps, err := deliverygraph.NewGraph([]deliverygraph.Step{
		{StatusID: kernel.NewUUID(), Slug: status.OnTheWay, Name: "On the way", Position: 1},
		{StatusID: kernel.NewUUID(), Slug: status.Delivered, Name: "Delivered", Position: 2},
	})
	require.NoError(t, err)

	g, err := deliverygraph.NewDeliveryGraph(
		kernel.NewUUID(), "Standard delivery", "standard-delivery", nil,
		[]string{"delivery", "pickup"}, operator, courierSteps)
	require.NoError(t, err)
	return g
}

func testOrder(t *testing.T, productType order.ProductType, orderType order.Type) *order.Order {
	t.Helper()

	point, err := kernel.NewGeoPoint(43.238949, 76.889709)
	require.NoError(t, err)

	o, err := order.NewOrder(
		kernel.NewUUID(), kernel.NewUUID(), productType, orderType,
		testGraph(t), point, "Almaty", "UTC", false, time.Now())
	require.NoError(t, err)
	return o
}

func statusFixture(t *testing.T, slug status.Slug) *status.Status {
	t.Helper()

	s, err := status.NewStatus(kernel.NewUUID(), slug, string(slug), "", nil, nil)
	require.NoError(t, err)
	return s
}

func advanceTo(t *testing.T, o *order.Order, slugs ...status.Slug) {
	t.Helper()

	for _, slug := range slugs {
		_, err := o.ApplyStatus(statusFixture(t, slug), time.Now())
		require.NoError(t, err)
	}
}

func discardLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func TestApplyStatusCommandHandler_Handle_Success(t *testing.T) {
	ctx := t.Context()
	aggregate := testOrder(t, order.ParcelProduct, order.Delivery)
	actorID := kernel.NewUUID()
	cmd, err := commands.NewApplyStatusCommand(aggregate.ID(), status.OnTheWay, actorID, "operator")
	require.NoError(t, err)

	repo := new(MockOrderRepository)
	statuses := new(MockStatusRepository)
	pc := new(MockPostControlRepository)
	uow := new(MockTransitionUoW)
	otp := new(MockOTPProvider)
	audit := new(MockAuditHistory)
	events := new(MockEventPublisher)
	callbacks := new(MockCallbackDispatcher)

	uow.On("OrderRepository").Return(repo)
	uow.On("StatusRepository").Return(statuses)
	uow.On("PostControlRepository").Return(pc)

	partnerID := aggregate.PartnerID()
	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		repo.On("GetForUpdate", ctx, aggregate.ID()).Return(aggregate, nil).Once(),
		statuses.On("GetBySlug", ctx, status.OnTheWay, &partnerID).
			Return(statusFixture(t, status.OnTheWay), nil).Once(),
		otp.On("GetState", ctx, aggregate.ID()).Return(ports.OTPState{}, nil).Once(),
		pc.On("GetConfigs", ctx, order.ParcelProduct, postcontrol.PostControlPurpose).
			Return(nil, nil).Once(),
		pc.On("GetDocumentsByOrder", ctx, aggregate.ID()).Return(nil, nil).Once(),
		repo.On("Update", ctx, aggregate).Return(nil).Once(),
		audit.On("Record", ctx, mock.MatchedBy(func(r ports.AuditRecord) bool {
			return r.Method == "apply_status" && r.Initiator == actorID
		})).Return(nil).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
		events.On("PublishStatusChanged", ctx, mock.MatchedBy(func(e ports.OrderStatusChangedEvent) bool {
			return e.StatusSlug == status.OnTheWay && e.OrderID == aggregate.ID()
		})).Return(nil).Once(),
		callbacks.On("Enqueue", ctx, mock.MatchedBy(func(task ports.CallbackTask) bool {
			return task.Status == "on-the-way" && task.CardMask == ""
		})).Return(nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockTransitionUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := commands.NewApplyStatusCommandHandler(factory, otp, audit, events, callbacks, nil, discardLogger())
	err = h.Handle(ctx, cmd)
	require.NoError(t, err)
	require.Equal(t, status.OnTheWay, aggregate.CurrentSlug())

	repo.AssertExpectations(t)
	statuses.AssertExpectations(t)
	pc.AssertExpectations(t)
	uow.AssertExpectations(t)
	events.AssertExpectations(t)
	callbacks.AssertExpectations(t)
}

func TestApplyStatusCommandHandler_Handle_RepeatedStatus(t *testing.T) {
	ctx := t.Context()
	aggregate := testOrder(t, order.ParcelProduct, order.Delivery)
	cmd, err := commands.NewApplyStatusCommand(aggregate.ID(), status.New, kernel.NewUUID(), "operator")
	require.NoError(t, err)

	repo := new(MockOrderRepository)
	statuses := new(MockStatusRepository)
	pc := new(MockPostControlRepository)
	uow := new(MockTransitionUoW)
	otp := new(MockOTPProvider)

	uow.On("OrderRepository").Return(repo)
	uow.On("StatusRepository").Return(statuses)
	uow.On("PostControlRepository").Return(pc)
	uow.On("Begin", ctx).Return(nil).Once()
	uow.On("Rollback", ctx).Return(nil).Once()
	repo.On("GetForUpdate", ctx, aggregate.ID()).Return(aggregate, nil).Once()
	statuses.On("GetBySlug", ctx, status.New, mock.Anything).
		Return(statusFixture(t, status.New), nil).Once()
	otp.On("GetState", ctx, aggregate.ID()).Return(ports.OTPState{}, nil).Once()
	pc.On("GetConfigs", ctx, order.ParcelProduct, postcontrol.PostControlPurpose).Return(nil, nil).Once()
	pc.On("GetDocumentsByOrder", ctx, aggregate.ID()).Return(nil, nil).Once()

	factory := new(MockTransitionUoWFactory)
	factory.On("Create").Return(uow).Once()

	audit := new(MockAuditHistory)
	events := new(MockEventPublisher)
	callbacks := new(MockCallbackDispatcher)
	h := commands.NewApplyStatusCommandHandler(factory, otp, audit, events, callbacks, nil, discardLogger())
	err = h.Handle(ctx, cmd)
	require.ErrorIs(t, err, order.ErrStatusAlreadyCurrent)
	uow.AssertNotCalled(t, "Commit", ctx)
}

func TestApplyStatusCommandHandler_Handle_OTPViolation(t *testing.T) {
	ctx := t.Context()
	aggregate := testOrder(t, order.CardProduct, order.Delivery)
	cmd, err := commands.NewApplyStatusCommand(aggregate.ID(), status.SMSSent, kernel.NewUUID(), "courier")
	require.NoError(t, err)

	repo := new(MockOrderRepository)
	statuses := new(MockStatusRepository)
	pc := new(MockPostControlRepository)
	uow := new(MockTransitionUoW)
	otp := new(MockOTPProvider)

	uow.On("OrderRepository").Return(repo)
	uow.On("StatusRepository").Return(statuses)
	uow.On("PostControlRepository").Return(pc)
	uow.On("Begin", ctx).Return(nil).Once()
	uow.On("Rollback", ctx).Return(nil).Once()
	repo.On("GetForUpdate", ctx, aggregate.ID()).Return(aggregate, nil).Once()
	statuses.On("GetBySlug", ctx, status.SMSSent, mock.Anything).
		Return(statusFixture(t, status.SMSSent), nil).Once()
	otp.On("GetState", ctx, aggregate.ID()).Return(ports.OTPState{Created: false}, nil).Once()
	pc.On("GetConfigs", ctx, order.CardProduct, postcontrol.PostControlPurpose).Return(nil, nil).Once()
	pc.On("GetDocumentsByOrder", ctx, aggregate.ID()).Return(nil, nil).Once()

	factory := new(MockTransitionUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := commands.NewApplyStatusCommandHandler(
		factory, otp, new(MockAuditHistory), new(MockEventPublisher), new(MockCallbackDispatcher),
		nil, discardLogger())
	err = h.Handle(ctx, cmd)
	require.ErrorIs(t, err, commands.ErrTransitionIsNotAllowed)

	var invalid *commands.InvalidTransitionError
	require.ErrorAs(t, err, &invalid)
	require.NotEmpty(t, invalid.Violations)
	uow.AssertNotCalled(t, "Commit", ctx)
}

func TestApplyStatusCommandHandler_Handle_DeliveredCardAttachesMask(t *testing.T) {
	ctx := t.Context()
	aggregate := testOrder(t, order.CardProduct, order.Delivery)
	advanceTo(t, aggregate, status.OnTheWay)
	cmd, err := commands.NewApplyStatusCommand(aggregate.ID(), status.Delivered, kernel.NewUUID(), "courier")
	require.NoError(t, err)

	repo := new(MockOrderRepository)
	statuses := new(MockStatusRepository)
	pc := new(MockPostControlRepository)
	uow := new(MockTransitionUoW)
	otp := new(MockOTPProvider)
	audit := new(MockAuditHistory)
	events := new(MockEventPublisher)
	callbacks := new(MockCallbackDispatcher)
	cards := new(MockCardDataProvider)

	uow.On("OrderRepository").Return(repo)
	uow.On("StatusRepository").Return(statuses)
	uow.On("PostControlRepository").Return(pc)
	uow.On("Begin", ctx).Return(nil).Once()
	uow.On("Commit", ctx).Return(nil).Once()
	uow.On("Rollback", ctx).Return(nil).Once()
	repo.On("GetForUpdate", ctx, aggregate.ID()).Return(aggregate, nil).Once()
	repo.On("Update", ctx, aggregate).Return(nil).Once()
	statuses.On("GetBySlug", ctx, status.Delivered, mock.Anything).
		Return(statusFixture(t, status.Delivered), nil).Once()
	confirmed := time.Now()
	otp.On("GetState", ctx, aggregate.ID()).
		Return(ports.OTPState{Created: true, ConfirmedAt: &confirmed}, nil).Once()
	pc.On("GetConfigs", ctx, order.CardProduct, postcontrol.PostControlPurpose).Return(nil, nil).Once()
	pc.On("GetDocumentsByOrder", ctx, aggregate.ID()).Return(nil, nil).Once()
	audit.On("Record", ctx, mock.Anything).Return(nil).Once()
	events.On("PublishStatusChanged", ctx, mock.Anything).Return(nil).Once()
	cards.On("MaskedPAN", ctx, aggregate.ID()).Return("440043******1234", nil).Once()
	callbacks.On("Enqueue", ctx, mock.MatchedBy(func(task ports.CallbackTask) bool {
		return task.Status == "delivered" && task.CardMask == "440043******1234"
	})).Return(nil).Once()

	factory := new(MockTransitionUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := commands.NewApplyStatusCommandHandler(factory, otp, audit, events, callbacks, cards, discardLogger())
	err = h.Handle(ctx, cmd)
	require.NoError(t, err)
	require.NotNil(t, aggregate.ActualDeliveryTime())
	require.True(t, aggregate.DeliveryStatus().Is(order.IsDelivered))
	cards.AssertExpectations(t)
	callbacks.AssertExpectations(t)
}

func TestApplyStatusCommandHandler_Handle_ValidationError(t *testing.T) {
	ctx := t.Context()
	h := commands.NewApplyStatusCommandHandler(
		new(MockTransitionUoWFactory), new(MockOTPProvider), new(MockAuditHistory),
		new(MockEventPublisher), new(MockCallbackDispatcher), nil, discardLogger())
	err := h.Handle(ctx, commands.ApplyStatusCommand{})
	require.ErrorIs(t, err, commands.ErrApplyStatusCommandIsNotConstructed)
}
