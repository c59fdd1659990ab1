package cmd

import (
	"fmt"
	"log/slog"

	"foodorder/internal/adapters/in/http"
	"foodorder/internal/adapters/out/postgres"
	"foodorder/internal/adapters/out/postgres/orderrepo"
	"foodorder/internal/adapters/out/serviceclients"
	"foodorder/internal/core/application/usecases/commands"
	"foodorder/internal/core/application/usecases/queries"
	"foodorder/internal/core/ports"
	"foodorder/internal/jobs"
	"foodorder/internal/pkg/clock"

	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// NewGormDB opens the postgres connection and migrates the order schema.
// TranslateError lets the repository detect unique key conflicts as
// gorm.ErrDuplicatedKey instead of driver-specific errors.
func NewGormDB(configs Config) (*gorm.DB, error) {
	db, err := gorm.Open(gormpostgres.Open(configs.PostgresDSN()), &gorm.Config{
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err = db.AutoMigrate(&orderrepo.OrderDTO{}, &orderrepo.OrderItemDTO{}); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return db, nil
}

// CompositionRoot wires adapters, use cases, and jobs together. It owns the
// singletons shared across requests; handlers are created per call site.
type CompositionRoot struct {
	gormDB     *gorm.DB
	uowFactory *postgres.GormUnitOfWorkFactory
	clk        clock.Clock
	logger     *slog.Logger

	cartClient     ports.CartClient
	paymentClient  ports.PaymentClient
	deliveryClient ports.DeliveryClient

	completionScheduler      *jobs.AutoCompletionScheduler
	updateOrderStatusHandler commands.UpdateOrderStatusCommandHandler
}

// NewCompositionRoot builds the object graph. The completion scheduler and the
// status-update handler reference each other, so the scheduler is constructed
// first and bound to the handler afterwards.
func NewCompositionRoot(configs Config, gormDB *gorm.DB, logger *slog.Logger) *CompositionRoot {
	root := &CompositionRoot{
		gormDB:         gormDB,
		uowFactory:     postgres.NewGormUnitOfWorkFactory(gormDB),
		clk:            clock.NewSystem(),
		logger:         logger,
		cartClient:     serviceclients.NewHTTPCartClient(configs.CartServiceURL),
		paymentClient:  serviceclients.NewHTTPPaymentClient(configs.PaymentServiceURL),
		deliveryClient: serviceclients.NewHTTPDeliveryClient(configs.DeliveryServiceURL),
	}

	root.completionScheduler = jobs.NewAutoCompletionScheduler(root.clk, logger)
	root.updateOrderStatusHandler = commands.NewUpdateOrderStatusCommandHandler(
		root.orderUoWFactory(),
		root.deliveryClient,
		root.completionScheduler,
		root.clk,
		logger,
	)
	root.completionScheduler.SetCompleter(&root.updateOrderStatusHandler)

	return root
}

func (c *CompositionRoot) orderUoWFactory() commands.OrderUoWFactory {
	return FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) CreatePlaceOrderCommandHandler() commands.PlaceOrderCommandHandler {
	return commands.NewPlaceOrderCommandHandler(
		c.orderUoWFactory(),
		c.cartClient,
		c.paymentClient,
		c.clk,
		c.logger,
	)
}

func (c *CompositionRoot) CreateUpdateOrderStatusCommandHandler() commands.UpdateOrderStatusCommandHandler {
	return c.updateOrderStatusHandler
}

func (c *CompositionRoot) CreateGetOrderQueryHandler() queries.GetOrderQueryHandler {
	return queries.NewGetOrderQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetUserOrdersQueryHandler() queries.GetUserOrdersQueryHandler {
	return queries.NewGetUserOrdersQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetRestaurantOrdersQueryHandler() queries.GetRestaurantOrdersQueryHandler {
	return queries.NewGetRestaurantOrdersQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetOverdueDeliveriesQueryHandler() queries.GetOverdueDeliveriesQueryHandler {
	return queries.NewGetOverdueDeliveriesQueryHandler(c.gormDB)
}

// CreateHTTPServer builds the REST server over the command and query handlers.
func (c *CompositionRoot) CreateHTTPServer() *http.Server {
	return http.NewServer(
		c.CreatePlaceOrderCommandHandler(),
		c.CreateUpdateOrderStatusCommandHandler(),
		c.CreateGetOrderQueryHandler(),
		c.CreateGetUserOrdersQueryHandler(),
		c.CreateGetRestaurantOrdersQueryHandler(),
	)
}

// CreateJobManager builds the background jobs over the shared completion
// scheduler.
func (c *CompositionRoot) CreateJobManager() *jobs.JobManager {
	overdueJob := jobs.NewOverdueDeliveryJob(
		c.CreateGetOverdueDeliveriesQueryHandler(),
		&c.updateOrderStatusHandler,
		c.clk,
		c.logger,
	)
	return jobs.NewJobManager(c.completionScheduler, overdueJob)
}

type FuncOrderUoWFactory func() commands.OrderUoW

func (f FuncOrderUoWFactory) Create() commands.OrderUoW {
	return f()
}
