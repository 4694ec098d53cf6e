package cmd

import (
	"log/slog"

	httpin "lastmile/internal/adapters/in/http"
	"lastmile/internal/adapters/out/cardvault"
	"lastmile/internal/adapters/out/kafka"
	"lastmile/internal/adapters/out/postgres"
	"lastmile/internal/adapters/out/postgres/auditrepo"
	"lastmile/internal/adapters/out/postgres/otprepo"
	"lastmile/internal/adapters/out/redisqueue"
	"lastmile/internal/adapters/out/routing"
	"lastmile/internal/core/application/usecases/commands"
	"lastmile/internal/core/application/usecases/queries"
	"lastmile/internal/core/domain/services"
	"lastmile/internal/core/ports"
	"lastmile/internal/jobs"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type CompositionRoot struct {
	gormDB     *gorm.DB
	uowFactory postgres.GormUnitOfWorkFactory

	audit     ports.AuditHistory
	otp       ports.OTPProvider
	events    ports.EventPublisher
	callbacks ports.CallbackDispatcher
	cards     ports.CardDataProvider
	engine    *services.DistributionEngine

	publisher  *kafka.Publisher
	dispatcher *redisqueue.Dispatcher

	logger *slog.Logger
}

func NewCompositionRoot(config Config, gormDB *gorm.DB, logger *slog.Logger) (*CompositionRoot, error) {
	oracle, err := routing.NewClient(config.RoutingOracleURL)
	if err != nil {
		return nil, err
	}

	cards, err := cardvault.NewClient(config.CardVaultURL)
	if err != nil {
		return nil, err
	}

	publisher, err := kafka.NewPublisher(
		config.KafkaBrokers, config.KafkaStatusChangedTopic, config.KafkaOrderAssignedTopic)
	if err != nil {
		return nil, err
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr:     config.RedisAddr,
		Password: config.RedisPassword,
	})
	dispatcher, err := redisqueue.NewDispatcher(redisClient, config.CallbackQueue, nil)
	if err != nil {
		_ = publisher.Close()
		return nil, err
	}

	return &CompositionRoot{
		gormDB:     gormDB,
		uowFactory: *postgres.NewGormUnitOfWorkFactory(gormDB),
		audit:      auditrepo.NewGormAuditHistory(gormDB),
		otp:        otprepo.NewGormOTPProvider(gormDB),
		events:     publisher,
		callbacks:  dispatcher,
		cards:      cards,
		engine:     services.NewDistributionEngine(oracle),
		publisher:  publisher,
		dispatcher: dispatcher,
		logger:     logger,
	}, nil
}

// Close releases the outbound connections.
func (c *CompositionRoot) Close() error {
	publisherErr := c.publisher.Close()
	dispatcherErr := c.dispatcher.Close()
	if publisherErr != nil {
		return publisherErr
	}
	return dispatcherErr
}

func (c *CompositionRoot) CreateCreateOrderCommandHandler() commands.CreateOrderCommandHandler {
	var f commands.CreateOrderUoWFactory = FuncCreateOrderUoWFactory(func() commands.CreateOrderUoW {
		return c.uowFactory.Create()
	})
	distribute := c.CreateDistributeOrdersCommandHandler()
	return commands.NewCreateOrderCommandHandler(f, &distribute, c.logger)
}

func (c *CompositionRoot) CreateApplyStatusCommandHandler() commands.ApplyStatusCommandHandler {
	var f commands.TransitionUoWFactory = FuncTransitionUoWFactory(func() commands.TransitionUoW {
		return c.uowFactory.Create()
	})
	return commands.NewApplyStatusCommandHandler(
		f, c.otp, c.audit, c.events, c.callbacks, c.cards, c.logger)
}

func (c *CompositionRoot) CreateRollbackStatusCommandHandler() commands.RollbackStatusCommandHandler {
	return commands.NewRollbackStatusCommandHandler(c.orderUoWFactory(), c.audit)
}

func (c *CompositionRoot) CreateRestoreOrderCommandHandler() commands.RestoreOrderCommandHandler {
	var f commands.TransitionUoWFactory = FuncTransitionUoWFactory(func() commands.TransitionUoW {
		return c.uowFactory.Create()
	})
	return commands.NewRestoreOrderCommandHandler(f, c.audit)
}

func (c *CompositionRoot) CreateSetDeliveryStatusCommandHandler() commands.SetDeliveryStatusCommandHandler {
	return commands.NewSetDeliveryStatusCommandHandler(
		c.orderUoWFactory(), c.audit, c.events, c.callbacks, c.logger)
}

func (c *CompositionRoot) CreateAssignCourierCommandHandler() commands.AssignCourierCommandHandler {
	return commands.NewAssignCourierCommandHandler(
		c.distributionUoWFactory(), c.engine, c.audit, c.events, c.logger)
}

func (c *CompositionRoot) CreateCreatePostControlDocumentCommandHandler() commands.CreatePostControlDocumentCommandHandler {
	var f commands.TransitionUoWFactory = FuncTransitionUoWFactory(func() commands.TransitionUoW {
		return c.uowFactory.Create()
	})
	return commands.NewCreatePostControlDocumentCommandHandler(f)
}

func (c *CompositionRoot) CreateResolvePostControlCommandHandler() commands.ResolvePostControlCommandHandler {
	var f commands.TransitionUoWFactory = FuncTransitionUoWFactory(func() commands.TransitionUoW {
		return c.uowFactory.Create()
	})
	return commands.NewResolvePostControlCommandHandler(
		f, c.audit, c.events, c.callbacks, c.logger)
}

func (c *CompositionRoot) CreateDistributeOrdersCommandHandler() commands.DistributeOrdersCommandHandler {
	return commands.NewDistributeOrdersCommandHandler(
		c.distributionUoWFactory(), c.engine, c.audit, c.events, c.logger)
}

func (c *CompositionRoot) CreateRedistributeCourierCommandHandler() commands.RedistributeCourierCommandHandler {
	return commands.NewRedistributeCourierCommandHandler(c.distributionUoWFactory(), c.engine)
}

func (c *CompositionRoot) CreateArchiveOrdersCommandHandler() commands.ArchiveOrdersCommandHandler {
	return commands.NewArchiveOrdersCommandHandler(c.orderUoWFactory(), c.logger)
}

func (c *CompositionRoot) CreateArchiveAreaCommandHandler() commands.ArchiveAreaCommandHandler {
	var f commands.AreaUoWFactory = FuncAreaUoWFactory(func() commands.AreaUoW {
		return c.uowFactory.Create()
	})
	return commands.NewArchiveAreaCommandHandler(f, c.audit)
}

func (c *CompositionRoot) CreateGetOrderQueryHandler() queries.GetOrderQueryHandler {
	return queries.NewGetOrderQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetUncompletedOrdersQueryHandler() queries.GetUncompletedOrdersQueryHandler {
	return queries.NewGetUncompletedOrdersQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetCouriersQueryHandler() queries.GetCouriersQueryHandler {
	return queries.NewGetCouriersQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetPostControlDocumentsQueryHandler() queries.GetPostControlDocumentsQueryHandler {
	return queries.NewGetPostControlDocumentsQueryHandler(c.gormDB)
}

// CreateHTTPServer wires every handler into the inbound HTTP adapter.
func (c *CompositionRoot) CreateHTTPServer() *httpin.Server {
	createOrder := c.CreateCreateOrderCommandHandler()
	applyStatus := c.CreateApplyStatusCommandHandler()
	rollbackStatus := c.CreateRollbackStatusCommandHandler()
	restoreOrder := c.CreateRestoreOrderCommandHandler()
	setDeliveryStatus := c.CreateSetDeliveryStatusCommandHandler()
	assignCourier := c.CreateAssignCourierCommandHandler()
	createDocument := c.CreateCreatePostControlDocumentCommandHandler()
	resolvePostControl := c.CreateResolvePostControlCommandHandler()
	distributeOrders := c.CreateDistributeOrdersCommandHandler()
	redistributeCourier := c.CreateRedistributeCourierCommandHandler()
	archiveArea := c.CreateArchiveAreaCommandHandler()

	return httpin.NewServer(httpin.Handlers{
		CreateOrder:         &createOrder,
		ApplyStatus:         &applyStatus,
		RollbackStatus:      &rollbackStatus,
		RestoreOrder:        &restoreOrder,
		SetDeliveryStatus:   &setDeliveryStatus,
		AssignCourier:       &assignCourier,
		CreateDocument:      &createDocument,
		ResolvePostControl:  &resolvePostControl,
		DistributeOrders:    &distributeOrders,
		RedistributeCourier: &redistributeCourier,
		ArchiveArea:         &archiveArea,

		GetOrder:             c.CreateGetOrderQueryHandler(),
		GetUncompletedOrders: c.CreateGetUncompletedOrdersQueryHandler(),
		GetCouriers:          c.CreateGetCouriersQueryHandler(),
		GetDocuments:         c.CreateGetPostControlDocumentsQueryHandler(),
	})
}

// CreateJobManager wires the scheduled jobs.
func (c *CompositionRoot) CreateJobManager(config Config) *jobs.JobManager {
	return jobs.NewJobManager(
		c.CreateArchiveOrdersCommandHandler(),
		config.ArchivalSchedule,
		config.ArchivalRetention,
		c.logger,
	)
}

func (c *CompositionRoot) orderUoWFactory() commands.OrderUoWFactory {
	return FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) distributionUoWFactory() commands.DistributionUoWFactory {
	return FuncDistributionUoWFactory(func() commands.DistributionUoW {
		return c.uowFactory.Create()
	})
}

type FuncOrderUoWFactory func() commands.OrderUoW

func (f FuncOrderUoWFactory) Create() commands.OrderUoW {
	return f()
}

type FuncCreateOrderUoWFactory func() commands.CreateOrderUoW

func (f FuncCreateOrderUoWFactory) Create() commands.CreateOrderUoW {
	return f()
}

type FuncTransitionUoWFactory func() commands.TransitionUoW

func (f FuncTransitionUoWFactory) Create() commands.TransitionUoW {
	return f()
}

type FuncDistributionUoWFactory func() commands.DistributionUoW

func (f FuncDistributionUoWFactory) Create() commands.DistributionUoW {
	return f()
}

type FuncAreaUoWFactory func() commands.AreaUoW

func (f FuncAreaUoWFactory) Create() commands.AreaUoW {
	return f()
}
