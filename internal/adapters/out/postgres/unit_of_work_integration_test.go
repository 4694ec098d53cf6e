package postgres_test

import (
	"context"
	"testing"
	"time"

	postgres_adapter "lastmile/internal/adapters/out/postgres"
	"lastmile/internal/adapters/out/postgres/arearepo"
	"lastmile/internal/adapters/out/postgres/auditrepo"
	"lastmile/internal/adapters/out/postgres/courierrepo"
	"lastmile/internal/adapters/out/postgres/graphrepo"
	"lastmile/internal/adapters/out/postgres/orderrepo"
	"lastmile/internal/adapters/out/postgres/otprepo"
	"lastmile/internal/adapters/out/postgres/postcontrolrepo"
	"lastmile/internal/adapters/out/postgres/statusrepo"
	"lastmile/internal/core/domain/model/area"
	"lastmile/internal/core/domain/model/courier"
	"lastmile/internal/core/domain/model/deliverygraph"
	"lastmile/internal/core/domain/model/kernel"
	"lastmile/internal/core/domain/model/order"
	"lastmile/internal/core/domain/model/postcontrol"
	"lastmile/internal/core/domain/model/status"
	"lastmile/internal/core/ports"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	gorm_postgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// UnitOfWorkIntegrationTestSuite provides integration testing for the
// GORM-based Unit of Work implementation with a real PostgreSQL database.
type UnitOfWorkIntegrationTestSuite struct {
	suite.Suite
	container *postgres.PostgresContainer
	db        *gorm.DB
	factory   ports.UnitOfWorkFactory
}

// SetupSuite initializes the PostgreSQL container and database connection and
// runs migrations for all persistence DTOs.
func (suite *UnitOfWorkIntegrationTestSuite) SetupSuite() {
	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2)),
	)
	suite.Require().NoError(err)
	suite.container = container

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	suite.Require().NoError(err)

	db, err := gorm.Open(gorm_postgres.Open(dsn), &gorm.Config{})
	suite.Require().NoError(err)
	suite.db = db

	err = db.AutoMigrate(
		&orderrepo.OrderDTO{},
		&courierrepo.CourierDTO{},
		&courierrepo.RoutePlanDTO{},
		&graphrepo.GraphDTO{},
		&statusrepo.StatusDTO{},
		&arearepo.AreaDTO{},
		&postcontrolrepo.ConfigDTO{},
		&postcontrolrepo.DocumentDTO{},
		&auditrepo.AuditRecordDTO{},
		&otprepo.OTPRecordDTO{},
	)
	suite.Require().NoError(err)

	suite.factory = postgres_adapter.NewGormUnitOfWorkFactory(db)
}

// SetupTest ensures clean database state before each test.
func (suite *UnitOfWorkIntegrationTestSuite) SetupTest() {
	err := suite.db.Exec(`TRUNCATE TABLE orders, couriers, route_plans, delivery_graphs,
		statuses, areas, postcontrol_configs, postcontrol_documents, audit_records, otp_records`).Error
	suite.Require().NoError(err)
}

// TearDownSuite cleans up the PostgreSQL container after all tests complete.
func (suite *UnitOfWorkIntegrationTestSuite) TearDownSuite() {
	if suite.container != nil {
		err := suite.container.Terminate(context.Background())
		suite.Require().NoError(err)
	}
}

func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWorkFactory_Create() {
	uow1 := suite.factory.Create()
	uow2 := suite.factory.Create()

	suite.NotSame(uow1, uow2, "Factory should create separate instances")

	suite.NotNil(uow1.OrderRepository())
	suite.NotNil(uow1.CourierRepository())
	suite.NotNil(uow1.StatusRepository())
	suite.NotNil(uow2.DeliveryGraphRepository())
	suite.NotNil(uow2.PostControlRepository())
	suite.NotNil(uow2.AreaRepository())
}

func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWork_TransactionLifecycle() {
	ctx := context.Background()
	uow := suite.factory.Create()

	err := uow.Begin(ctx)
	suite.Require().NoError(err, "Should begin transaction successfully")

	err = uow.Begin(ctx)
	suite.Require().NoError(err, "Multiple begin calls should be safe")

	err = uow.Commit(ctx)
	suite.Require().NoError(err, "Should commit transaction successfully")

	err = uow.Begin(ctx)
	suite.Require().NoError(err)

	err = uow.Rollback(ctx)
	suite.Require().NoError(err, "Should rollback transaction successfully")
}

func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWork_TransactionErrors() {
	ctx := context.Background()
	uow := suite.factory.Create()

	err := uow.Commit(ctx)
	suite.Require().Error(err, "Should error when committing without active transaction")

	err = uow.Rollback(ctx)
	suite.Require().Error(err, "Should error when rolling back without active transaction")
}

// TestUnitOfWork_OrderRoundTrip verifies that an order persists with its full
// state and rehydrates against the stored delivery graph.
func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWork_OrderRoundTrip() {
	ctx := context.Background()
	graph := suite.seedGraph()
	testOrder := createTestOrder(suite.T(), graph)

	uow := suite.factory.Create()
	err := uow.Begin(ctx)
	suite.Require().NoError(err)

	err = uow.OrderRepository().Add(ctx, testOrder)
	suite.Require().NoError(err)

	err = uow.Commit(ctx)
	suite.Require().NoError(err)

	retrieved, err := suite.factory.Create().OrderRepository().Get(ctx, testOrder.ID())
	suite.Require().NoError(err)
	suite.Equal(testOrder.ID(), retrieved.ID())
	suite.Equal(status.New, retrieved.CurrentSlug())
	suite.Equal(graph.ID(), retrieved.Graph().ID())
	suite.Len(retrieved.History(), 1)
	suite.Nil(retrieved.CourierID())
	suite.True(retrieved.DeliveryStatus().IsEmpty())
}

// TestUnitOfWork_OrderUpdateClearsFields verifies that removing the courier
// assignment and the exception track persists NULL columns.
func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWork_OrderUpdateClearsFields() {
	ctx := context.Background()
	graph := suite.seedGraph()
	testOrder := createTestOrder(suite.T(), graph)
	testCourier := createTestCourier(suite.T())

	repo := suite.factory.Create()
	suite.Require().NoError(repo.CourierRepository().Add(ctx, testCourier))
	suite.Require().NoError(testOrder.AssignCourier(testCourier.ID()))
	suite.Require().NoError(testOrder.SetDeliveryStatus(
		order.Postponed, "client-request", "call back tomorrow", time.Now()))
	suite.Require().NoError(repo.OrderRepository().Add(ctx, testOrder))

	retrieved, err := suite.factory.Create().OrderRepository().Get(ctx, testOrder.ID())
	suite.Require().NoError(err)
	suite.Require().NotNil(retrieved.CourierID())
	suite.True(retrieved.DeliveryStatus().Is(order.Postponed))

	retrieved.ExpelCourier()
	suite.Require().NoError(retrieved.ClearDeliveryStatus())
	suite.Require().NoError(suite.factory.Create().OrderRepository().Update(ctx, retrieved))

	final, err := suite.factory.Create().OrderRepository().Get(ctx, testOrder.ID())
	suite.Require().NoError(err)
	suite.Nil(final.CourierID(), "Courier assignment should be cleared after update")
	suite.True(final.DeliveryStatus().IsEmpty(), "Exception track should be cleared after update")
}

// TestUnitOfWork_GetForUpdateContention verifies that a second locker does not
// wait but gets the concurrent modification error.
func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWork_GetForUpdateContention() {
	ctx := context.Background()
	graph := suite.seedGraph()
	testOrder := createTestOrder(suite.T(), graph)
	suite.Require().NoError(suite.factory.Create().OrderRepository().Add(ctx, testOrder))

	uow1 := suite.factory.Create()
	suite.Require().NoError(uow1.Begin(ctx))
	_, err := uow1.OrderRepository().GetForUpdate(ctx, testOrder.ID())
	suite.Require().NoError(err)

	uow2 := suite.factory.Create()
	suite.Require().NoError(uow2.Begin(ctx))
	_, err = uow2.OrderRepository().GetForUpdate(ctx, testOrder.ID())
	suite.Require().ErrorIs(err, ports.ErrConcurrentModification,
		"Second locker should fail fast instead of waiting")

	suite.Require().NoError(uow2.Rollback(ctx))
	suite.Require().NoError(uow1.Rollback(ctx))
}

func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWork_TransactionRollback() {
	ctx := context.Background()
	graph := suite.seedGraph()
	testOrder := createTestOrder(suite.T(), graph)
	testCourier := createTestCourier(suite.T())

	uow := suite.factory.Create()
	err := uow.Begin(ctx)
	suite.Require().NoError(err)

	err = uow.OrderRepository().Add(ctx, testOrder)
	suite.Require().NoError(err)
	err = uow.CourierRepository().Add(ctx, testCourier)
	suite.Require().NoError(err)

	_, err = uow.OrderRepository().Get(ctx, testOrder.ID())
	suite.Require().NoError(err)

	err = uow.Rollback(ctx)
	suite.Require().NoError(err)

	newUow := suite.factory.Create()
	_, err = newUow.OrderRepository().Get(ctx, testOrder.ID())
	suite.Require().Error(err, "Order should not exist after rollback")
	_, err = newUow.CourierRepository().Get(ctx, testCourier.ID())
	suite.Require().Error(err, "Courier should not exist after rollback")
}

// TestUnitOfWork_StatusLookupPrefersPartner verifies the partner-scoped
// checkpoint definition wins over the shared one.
func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWork_StatusLookupPrefersPartner() {
	ctx := context.Background()
	partnerID := kernel.NewUUID()
	repo := statusrepo.NewGormStatusRepository(suite.db)

	global, err := status.NewStatus(kernel.NewUUID(), status.OnTheWay, "On the way", "", nil, nil)
	suite.Require().NoError(err)
	scoped, err := status.NewStatus(kernel.NewUUID(), status.OnTheWay, "Courier is coming", "", &partnerID, nil)
	suite.Require().NoError(err)

	suite.Require().NoError(repo.Add(ctx, global))
	suite.Require().NoError(repo.Add(ctx, scoped))

	uow := suite.factory.Create()

	found, err := uow.StatusRepository().GetBySlug(ctx, status.OnTheWay, &partnerID)
	suite.Require().NoError(err)
	suite.Equal(scoped.ID(), found.ID(), "Partner-scoped definition should win")

	otherPartner := kernel.NewUUID()
	found, err = uow.StatusRepository().GetBySlug(ctx, status.OnTheWay, &otherPartner)
	suite.Require().NoError(err)
	suite.Equal(global.ID(), found.ID(), "Foreign partner should fall back to the shared definition")

	found, err = uow.StatusRepository().GetBySlug(ctx, status.OnTheWay, nil)
	suite.Require().NoError(err)
	suite.Equal(global.ID(), found.ID())
}

// TestUnitOfWork_AreaLookupAndMembership verifies the area round trip,
// archived filtering and courier membership resolution.
func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWork_AreaLookupAndMembership() {
	ctx := context.Background()
	partnerID := kernel.NewUUID()
	uow := suite.factory.Create()

	activeCourier := createTestCourier(suite.T())
	idleCourier := createTestCourier(suite.T())
	idleCourier.Deactivate()
	suite.Require().NoError(uow.CourierRepository().Add(ctx, activeCourier))
	suite.Require().NoError(uow.CourierRepository().Add(ctx, idleCourier))

	testArea := createTestArea(suite.T(), partnerID)
	suite.Require().NoError(testArea.AddCourier(activeCourier.ID()))
	suite.Require().NoError(testArea.AddCourier(idleCourier.ID()))
	suite.Require().NoError(uow.AreaRepository().Add(ctx, testArea))

	retired := createTestArea(suite.T(), partnerID)
	retired.Archive()
	suite.Require().NoError(uow.AreaRepository().Add(ctx, retired))

	active, err := uow.AreaRepository().GetActiveByPartnerAndCity(ctx, partnerID, testArea.City())
	suite.Require().NoError(err)
	suite.Require().Len(active, 1, "Archived areas should be excluded")
	suite.Equal(testArea.ID(), active[0].ID())
	suite.Len(active[0].Polygon().Vertices(), 4)
	suite.True(active[0].HasCourier(activeCourier.ID()))

	members, err := uow.CourierRepository().GetActiveByArea(ctx, testArea.ID())
	suite.Require().NoError(err)
	suite.Require().Len(members, 1, "Deactivated couriers should be excluded from area membership")
	suite.Equal(activeCourier.ID(), members[0].ID())
}

// TestUnitOfWork_PostControlDocuments verifies the document lifecycle against
// a seeded requirement tree.
func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWork_PostControlDocuments() {
	ctx := context.Background()
	repo := postcontrolrepo.NewGormPostControlRepository(suite.db)

	parent, err := postcontrol.NewConfig(
		kernel.NewUUID(), "Contract", "card", postcontrol.PostControlPurpose, nil, 1)
	suite.Require().NoError(err)
	parentID := parent.ID()
	child, err := postcontrol.NewConfig(
		kernel.NewUUID(), "Signed page", "card", postcontrol.PostControlPurpose, &parentID, 2)
	suite.Require().NoError(err)
	suite.Require().NoError(repo.AddConfig(ctx, parent))
	suite.Require().NoError(repo.AddConfig(ctx, child))

	uow := suite.factory.Create()
	configs, err := uow.PostControlRepository().GetConfigs(ctx, "card", postcontrol.PostControlPurpose)
	suite.Require().NoError(err)
	suite.Require().Len(configs, 2)

	orderID := kernel.NewUUID()
	document, err := postcontrol.NewDocument(
		kernel.NewUUID(), orderID, child.ID(), "uploads/contract-page.jpg", time.Now())
	suite.Require().NoError(err)
	suite.Require().NoError(uow.PostControlRepository().AddDocument(ctx, document))

	reviewer := kernel.NewUUID()
	err = document.Resolve(postcontrol.Declined, "signature missing", reviewer, time.Now())
	suite.Require().NoError(err)
	suite.Require().NoError(uow.PostControlRepository().UpdateDocument(ctx, document))

	documents, err := uow.PostControlRepository().GetDocumentsByOrder(ctx, orderID)
	suite.Require().NoError(err)
	suite.Require().Len(documents, 1)
	suite.Equal(postcontrol.Declined, documents[0].Resolution())
	suite.Equal("signature missing", documents[0].Comment())
	suite.Require().NotNil(documents[0].ResolvedBy())
	suite.Equal(reviewer, *documents[0].ResolvedBy())

	suite.Require().NoError(uow.PostControlRepository().DeleteDocumentsByOrder(ctx, orderID))
	documents, err = uow.PostControlRepository().GetDocumentsByOrder(ctx, orderID)
	suite.Require().NoError(err)
	suite.Empty(documents)
}

// TestUnitOfWork_RoutePlanReplaced verifies that saving a plan twice keeps a
// single row with the latest estimate.
func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWork_RoutePlanReplaced() {
	ctx := context.Background()
	testCourier := createTestCourier(suite.T())
	uow := suite.factory.Create()
	suite.Require().NoError(uow.CourierRepository().Add(ctx, testCourier))

	point, err := kernel.NewGeoPoint(43.25, 76.95)
	suite.Require().NoError(err)
	firstPlan := ports.RoutePlan{
		TotalTime: 25 * time.Minute,
		Stops:     []ports.RouteStop{{OrderID: kernel.NewUUID(), Point: point}},
	}
	secondPlan := ports.RoutePlan{
		TotalTime: 40 * time.Minute,
		Stops: []ports.RouteStop{
			{OrderID: kernel.NewUUID(), Point: point},
			{OrderID: kernel.NewUUID(), Point: point},
		},
	}

	suite.Require().NoError(uow.CourierRepository().SaveRoutePlan(ctx, testCourier.ID(), firstPlan))
	suite.Require().NoError(uow.CourierRepository().SaveRoutePlan(ctx, testCourier.ID(), secondPlan))

	var count int64
	suite.Require().NoError(suite.db.Model(&courierrepo.RoutePlanDTO{}).Count(&count).Error)
	suite.EqualValues(1, count, "New plan should replace the previous row")

	var dto courierrepo.RoutePlanDTO
	suite.Require().NoError(suite.db.First(&dto).Error)
	suite.EqualValues((40 * time.Minute).Seconds(), dto.TotalSeconds)
}

// TestUnitOfWork_OrderQueries verifies the distribution and archival lookups.
func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWork_OrderQueries() {
	ctx := context.Background()
	graph := suite.seedGraph()
	areaID := kernel.NewUUID()
	uow := suite.factory.Create()

	unassigned := createTestOrder(suite.T(), graph)
	suite.Require().NoError(unassigned.AssignArea(areaID))
	suite.Require().NoError(uow.OrderRepository().Add(ctx, unassigned))

	assigned := createTestOrder(suite.T(), graph)
	suite.Require().NoError(assigned.AssignArea(areaID))
	suite.Require().NoError(assigned.AssignCourier(kernel.NewUUID()))
	suite.Require().NoError(uow.OrderRepository().Add(ctx, assigned))

	completed := createTestOrder(suite.T(), graph)
	suite.Require().NoError(completed.AssignArea(areaID))
	advanceOrder(suite.T(), completed, status.SMSSent, status.OnTheWay, status.PostControl, status.Delivered)
	suite.Require().NoError(uow.OrderRepository().Add(ctx, completed))

	open, err := uow.OrderRepository().GetUnassignedByArea(ctx, areaID)
	suite.Require().NoError(err)
	suite.Require().Len(open, 1, "Assigned and finished orders should be excluded")
	suite.Equal(unassigned.ID(), open[0].ID())

	openCount, err := uow.OrderRepository().CountOpenByArea(ctx, areaID)
	suite.Require().NoError(err)
	suite.EqualValues(2, openCount, "Assigned open orders still count, finished ones do not")

	finished, err := uow.OrderRepository().GetCompletedBefore(ctx, time.Now().Add(time.Hour))
	suite.Require().NoError(err)
	suite.Require().Len(finished, 1)
	suite.Equal(completed.ID(), finished[0].ID())
	suite.Require().NotNil(finished[0].ActualDeliveryTime())

	none, err := uow.OrderRepository().GetCompletedBefore(ctx, time.Now().Add(-time.Hour))
	suite.Require().NoError(err)
	suite.Empty(none, "Recently finished orders should stay out of archival")
}

// TestUnitOfWork_AuditAndOTP verifies the trail append and OTP record lookup.
func (suite *UnitOfWorkIntegrationTestSuite) TestUnitOfWork_AuditAndOTP() {
	ctx := context.Background()

	history := auditrepo.NewGormAuditHistory(suite.db)
	orderID := kernel.NewUUID()
	err := history.Record(ctx, ports.AuditRecord{
		Initiator: kernel.NewUUID(),
		Role:      "operator",
		Method:    "ApplyStatus",
		ModelType: "order",
		ModelID:   orderID,
		Payload:   map[string]any{"slug": "on-the-way"},
		Timestamp: time.Now(),
	})
	suite.Require().NoError(err)

	var count int64
	suite.Require().NoError(suite.db.Model(&auditrepo.AuditRecordDTO{}).Count(&count).Error)
	suite.EqualValues(1, count)

	provider := otprepo.NewGormOTPProvider(suite.db)

	state, err := provider.GetState(ctx, orderID)
	suite.Require().NoError(err)
	suite.False(state.Created, "Missing OTP row should be a valid empty state")

	confirmedAt := time.Now()
	suite.Require().NoError(suite.db.Create(&otprepo.OTPRecordDTO{
		OrderID:     orderID.Bytes(),
		CreatedAt:   time.Now(),
		ConfirmedAt: &confirmedAt,
	}).Error)

	state, err = provider.GetState(ctx, orderID)
	suite.Require().NoError(err)
	suite.True(state.Created)
	suite.True(state.Confirmed())
}

// seedGraph persists a fresh graph definition and returns the aggregate.
func (suite *UnitOfWorkIntegrationTestSuite) seedGraph() *deliverygraph.DeliveryGraph {
	graph := createTestGraph(suite.T())
	repo := graphrepo.NewGormDeliveryGraphRepository(suite.db)
	err := repo.Add(context.Background(), graph, "standard")
	suite.Require().NoError(err)
	return graph
}

// createTestGraph creates a valid delivery graph for testing purposes.
func createTestGraph(t *testing.T) *deliverygraph.DeliveryGraph {
	t.Helper()

	operator, err := deliverygraph.NewGraph([]deliverygraph.Step{
		{StatusID: kernel.NewUUID(), Slug: status.New, Name: "New", Position: 1},
		{StatusID: kernel.NewUUID(), Slug: status.SMSSent, Name: "SMS sent", Position: 2},
		{StatusID: kernel.NewUUID(), Slug: status.OnTheWay, Name: "On the way", Position: 3},
		{StatusID: kernel.NewUUID(), Slug: status.PostControl, Name: "Post control", Position: 4},
		{StatusID: kernel.NewUUID(), Slug: status.Delivered, Name: "Delivered", Position: 5},
	})
	if err != nil {
		t.Fatal(err)
	}

	courierFlow, err := deliverygraph.NewGraph([]deliverygraph.Step{
		{StatusID: kernel.NewUUID(), Slug: status.OnTheWay, Name: "On the way", Position: 1},
		{StatusID: kernel.NewUUID(), Slug: status.Delivered, Name: "Delivered", Position: 2},
	})
	if err != nil {
		t.Fatal(err)
	}

	graph, err := deliverygraph.NewDeliveryGraph(
		kernel.NewUUID(), "Standard delivery", "standard-delivery", nil,
		[]string{"delivery"}, operator, courierFlow)
	if err != nil {
		t.Fatal(err)
	}
	return graph
}

// createTestOrder creates a valid order bound to the given graph.
func createTestOrder(t *testing.T, graph *deliverygraph.DeliveryGraph) *order.Order {
	t.Helper()

	point, err := kernel.NewGeoPoint(43.238949, 76.889709)
	if err != nil {
		t.Fatal(err)
	}

	o, err := order.NewOrder(
		kernel.NewUUID(), kernel.NewUUID(), "standard", "delivery",
		graph, point, "Almaty", "Asia/Almaty", false, time.Now())
	if err != nil {
		t.Fatal(err)
	}
	return o
}

// createTestCourier creates a valid active courier for testing purposes.
func createTestCourier(t *testing.T) *courier.Courier {
	t.Helper()

	c, err := courier.NewCourier(
		kernel.NewUUID(), gofakeit.Name(), gofakeit.Phone(), kernel.NewUUID(), "Almaty")
	if err != nil {
		t.Fatal(err)
	}
	return c
}

// createTestArea creates a valid area around the test delivery point.
func createTestArea(t *testing.T, partnerID kernel.UUID) *area.Area {
	t.Helper()

	vertices := make([]kernel.GeoPoint, 0, 4)
	for _, pair := range [][2]float64{{43.0, 76.5}, {43.5, 76.5}, {43.5, 77.2}, {43.0, 77.2}} {
		point, err := kernel.NewGeoPoint(pair[0], pair[1])
		if err != nil {
			t.Fatal(err)
		}
		vertices = append(vertices, point)
	}
	polygon, err := kernel.NewPolygon(vertices)
	if err != nil {
		t.Fatal(err)
	}

	a, err := area.NewArea(kernel.NewUUID(), gofakeit.City(), partnerID, "Almaty", polygon)
	if err != nil {
		t.Fatal(err)
	}
	return a
}

// advanceOrder walks the order through the given checkpoint slugs.
func advanceOrder(t *testing.T, o *order.Order, slugs ...status.Slug) {
	t.Helper()

	for _, slug := range slugs {
		target, err := status.NewStatus(kernel.NewUUID(), slug, string(slug), "", nil, nil)
		if err != nil {
			t.Fatal(err)
		}
		if _, err = o.ApplyStatus(target, time.Now()); err != nil {
			t.Fatal(err)
		}
	}
}

func TestUnitOfWorkIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(UnitOfWorkIntegrationTestSuite))
}
