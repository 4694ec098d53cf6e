package commands_test

import (
	"testing"
	"time"

	"lastmile/internal/core/application/usecases/commands"
	"lastmile/internal/core/domain/model/deliverygraph"
	"lastmile/internal/core/domain/model/kernel"
	"lastmile/internal/core/domain/model/order"
	"lastmile/internal/core/domain/model/postcontrol"
	"lastmile/internal/core/domain/model/status"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func bankReviewOrder(t *testing.T) *order.Order {
	t.Helper()

	operator, err := deliverygraph.NewGraph([]deliverygraph.Step{
		{StatusID: kernel.NewUUID(), Slug: status.New, Name: "New", Position: 1},
		{StatusID: kernel.NewUUID(), Slug: status.PostControlBank, Name: "Bank review", Position: 2},
		{StatusID: kernel.NewUUID(), Slug: status.Delivered, Name: "Delivered", Position: 3},
	})
	require.NoError(t, err)
	courierSteps, err := deliverygraph.NewGraph([]deliverygraph.Step{
		{StatusID: kernel.NewUUID(), Slug: status.Delivered, Name: "Delivered", Position: 1},
	})
	require.NoError(t, err)
	g, err := deliverygraph.NewDeliveryGraph(
		kernel.NewUUID(), "Card with bank review", "card-bank-review", nil,
		[]string{"delivery"}, operator, courierSteps)
	require.NoError(t, err)

	point, err := kernel.NewGeoPoint(43.238949, 76.889709)
	require.NoError(t, err)
	aggregate, err := order.NewOrder(
		kernel.NewUUID(), kernel.NewUUID(), order.CardProduct, order.Delivery,
		g, point, "Almaty", "UTC", false, time.Now())
	require.NoError(t, err)
	return aggregate
}

func TestCreatePostControlDocumentCommandHandler_Handle_UploadClearsBankReview(t *testing.T) {
	ctx := t.Context()
	aggregate := bankReviewOrder(t)
	advanceTo(t, aggregate, status.PostControlBank)

	cfg := configFixture(t, order.CardProduct)
	cmd, err := commands.NewCreatePostControlDocumentCommand(
		kernel.NewUUID(), aggregate.ID(), cfg.ID(), "uploads/doc-2.jpg")
	require.NoError(t, err)

	repo := new(MockOrderRepository)
	pc := new(MockPostControlRepository)
	uow := new(MockTransitionUoW)

	uow.On("OrderRepository").Return(repo)
	uow.On("PostControlRepository").Return(pc)
	uow.On("Begin", ctx).Return(nil).Once()
	uow.On("Commit", ctx).Return(nil).Once()
	uow.On("Rollback", ctx).Return(nil).Once()
	repo.On("GetForUpdate", ctx, aggregate.ID()).Return(aggregate, nil).Once()
	repo.On("Update", ctx, aggregate).Return(nil).Once()
	pc.On("GetConfigs", ctx, order.CardProduct, postcontrol.PostControlPurpose).
		Return([]*postcontrol.Config{cfg}, nil).Once()
	pc.On("GetConfig", ctx, cfg.ID()).Return(cfg, nil).Once()
	pc.On("GetDocumentsByOrder", ctx, aggregate.ID()).
		Return([]*postcontrol.Document{}, nil).Once()
	pc.On("AddDocument", ctx, mock.MatchedBy(func(d *postcontrol.Document) bool {
		return d.OrderID() == aggregate.ID() && d.ConfigID() == cfg.ID()
	})).Return(nil).Once()

	factory := new(MockTransitionUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := commands.NewCreatePostControlDocumentCommandHandler(factory)
	require.NoError(t, h.Handle(ctx, cmd))
	require.Equal(t, status.New, aggregate.CurrentSlug())
	require.False(t, aggregate.HasStatusInHistory(status.PostControlBank))

	repo.AssertExpectations(t)
	pc.AssertExpectations(t)
}

func TestCreatePostControlDocumentCommandHandler_Handle_LimitExceeded(t *testing.T) {
	ctx := t.Context()
	aggregate := testOrder(t, order.ParcelProduct, order.Delivery)
	cfg := configFixture(t, order.ParcelProduct)
	existing := documentFixture(t, aggregate.ID(), cfg.ID())

	cmd, err := commands.NewCreatePostControlDocumentCommand(
		kernel.NewUUID(), aggregate.ID(), cfg.ID(), "uploads/doc-3.jpg")
	require.NoError(t, err)

	repo := new(MockOrderRepository)
	pc := new(MockPostControlRepository)
	uow := new(MockTransitionUoW)

	uow.On("OrderRepository").Return(repo)
	uow.On("PostControlRepository").Return(pc)
	uow.On("Begin", ctx).Return(nil).Once()
	uow.On("Rollback", ctx).Return(nil).Once()
	repo.On("GetForUpdate", ctx, aggregate.ID()).Return(aggregate, nil).Once()
	pc.On("GetConfigs", ctx, order.ParcelProduct, postcontrol.PostControlPurpose).
		Return([]*postcontrol.Config{cfg}, nil).Once()
	pc.On("GetConfig", ctx, cfg.ID()).Return(cfg, nil).Once()
	pc.On("GetDocumentsByOrder", ctx, aggregate.ID()).
		Return([]*postcontrol.Document{existing}, nil).Once()

	factory := new(MockTransitionUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := commands.NewCreatePostControlDocumentCommandHandler(factory)
	err = h.Handle(ctx, cmd)
	require.ErrorIs(t, err, postcontrol.ErrDocumentLimitExceeded)

	pc.AssertNotCalled(t, "AddDocument", mock.Anything, mock.Anything)
	uow.AssertNotCalled(t, "Commit", ctx)
}
