package queries_test

import (
	"context"
	"testing"
	"time"

	"foodorder/internal/adapters/out/postgres/orderrepo"
	"foodorder/internal/core/application/usecases/queries"
	"foodorder/internal/core/domain/model/order"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	gorm_postgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// noopTracker satisfies the repository's aggregate tracking without recording.
type noopTracker struct{}

func (noopTracker) TrackAggregate(int64, any) {}

// OrderQueriesIntegrationTestSuite exercises the read side against a real
// PostgreSQL database seeded through the order repository.
type OrderQueriesIntegrationTestSuite struct {
	suite.Suite
	container *postgres.PostgresContainer
	db        *gorm.DB
	repo      *orderrepo.GormOrderRepository
}

func (suite *OrderQueriesIntegrationTestSuite) SetupSuite() {
	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	suite.Require().NoError(err)
	suite.container = container

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	suite.Require().NoError(err)

	db, err := gorm.Open(gorm_postgres.Open(dsn), &gorm.Config{TranslateError: true})
	suite.Require().NoError(err)
	suite.db = db

	err = db.AutoMigrate(&orderrepo.OrderDTO{}, &orderrepo.OrderItemDTO{})
	suite.Require().NoError(err)

	suite.repo = orderrepo.NewGormOrderRepository(db, noopTracker{})
}

func (suite *OrderQueriesIntegrationTestSuite) TearDownSuite() {
	if suite.container != nil {
		err := suite.container.Terminate(context.Background())
		suite.Require().NoError(err)
	}
}

func (suite *OrderQueriesIntegrationTestSuite) SetupTest() {
	err := suite.db.Exec("TRUNCATE TABLE orders CASCADE").Error
	suite.Require().NoError(err)
}

func (suite *OrderQueriesIntegrationTestSuite) TestGetOrder_ReturnsOrderWithItems() {
	ctx := context.Background()
	placed := suite.placeOrder(1, 2, time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC))

	query, err := queries.NewGetOrderQuery(placed.ID())
	suite.Require().NoError(err)

	handler := queries.NewGetOrderQueryHandler(suite.db)
	resp, err := handler.Handle(ctx, query)
	suite.Require().NoError(err)

	suite.Equal(placed.ID(), resp.ID)
	suite.Equal(int64(1), resp.UserID)
	suite.Equal(int64(2), resp.RestaurantID)
	suite.Equal(order.StatusPending.String(), resp.Status)
	suite.True(resp.TotalAmount.Equal(decimal.RequireFromString("395.50")))
	suite.Nil(resp.DeliveryTime)
	suite.Require().Len(resp.Items, 2)
	suite.Equal("Margherita", resp.Items[0].Name)
	suite.Equal(2, resp.Items[0].Quantity)
	suite.True(resp.Items[0].Price.Equal(decimal.NewFromInt(150)))
}

func (suite *OrderQueriesIntegrationTestSuite) TestGetOrder_NonExistent_ReturnsNotFound() {
	query, err := queries.NewGetOrderQuery(999999)
	suite.Require().NoError(err)

	handler := queries.NewGetOrderQueryHandler(suite.db)
	_, err = handler.Handle(context.Background(), query)
	suite.Require().Error(err)
	suite.Contains(err.Error(), "not found")
}

func (suite *OrderQueriesIntegrationTestSuite) TestGetUserOrders_NewestFirst() {
	ctx := context.Background()
	older := suite.placeOrder(1, 2, time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC))
	newer := suite.placeOrder(1, 2, time.Date(2025, 6, 1, 14, 0, 0, 0, time.UTC))
	suite.placeOrder(9, 2, time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)) // other user

	query, err := queries.NewGetUserOrdersQuery(1)
	suite.Require().NoError(err)

	handler := queries.NewGetUserOrdersQueryHandler(suite.db)
	resp, err := handler.Handle(ctx, query)
	suite.Require().NoError(err)

	suite.Require().Len(resp, 2)
	suite.Equal(newer.ID(), resp[0].ID)
	suite.Equal(older.ID(), resp[1].ID)
	suite.Len(resp[0].Items, 2)
}

func (suite *OrderQueriesIntegrationTestSuite) TestGetUserOrders_EmptyHistory_ReturnsEmptySlice() {
	query, err := queries.NewGetUserOrdersQuery(12345)
	suite.Require().NoError(err)

	handler := queries.NewGetUserOrdersQueryHandler(suite.db)
	resp, err := handler.Handle(context.Background(), query)
	suite.Require().NoError(err)
	suite.NotNil(resp)
	suite.Empty(resp)
}

func (suite *OrderQueriesIntegrationTestSuite) TestGetRestaurantOrders_FiltersByStatusOldestFirst() {
	ctx := context.Background()
	first := suite.placeOrder(1, 2, time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC))
	second := suite.placeOrder(3, 2, time.Date(2025, 6, 1, 11, 0, 0, 0, time.UTC))

	accepted := suite.placeOrder(4, 2, time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC))
	suite.Require().NoError(accepted.ChangeStatus(order.StatusAccepted))
	suite.Require().NoError(suite.repo.Update(ctx, accepted))

	suite.placeOrder(5, 8, time.Date(2025, 6, 1, 10, 30, 0, 0, time.UTC)) // other restaurant

	query, err := queries.NewGetRestaurantOrdersQuery(2, order.StatusPending)
	suite.Require().NoError(err)

	handler := queries.NewGetRestaurantOrdersQueryHandler(suite.db)
	resp, err := handler.Handle(ctx, query)
	suite.Require().NoError(err)

	suite.Require().Len(resp, 2)
	suite.Equal(first.ID(), resp[0].ID)
	suite.Equal(second.ID(), resp[1].ID)
}

func (suite *OrderQueriesIntegrationTestSuite) TestGetOverdueDeliveries_FindsExpiredEstimates() {
	ctx := context.Background()
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	overdue := suite.placeOrderOutForDelivery(1, 2, now.Add(-time.Minute))
	suite.placeOrderOutForDelivery(3, 2, now.Add(time.Hour)) // still on the road
	suite.placeOrder(4, 2, now)                              // pending, no estimate

	query, err := queries.NewGetOverdueDeliveriesQuery(now)
	suite.Require().NoError(err)

	handler := queries.NewGetOverdueDeliveriesQueryHandler(suite.db)
	resp, err := handler.Handle(ctx, query)
	suite.Require().NoError(err)

	suite.Require().Len(resp, 1)
	suite.Equal(overdue.ID(), resp[0].OrderID)
	suite.Equal(int64(2), resp[0].RestaurantID)
}

func (suite *OrderQueriesIntegrationTestSuite) TestInvalidQueries_ReturnErrors() {
	handler := queries.NewGetOrderQueryHandler(suite.db)
	_, err := handler.Handle(context.Background(), queries.GetOrderQuery{})
	suite.Require().Error(err)
	suite.Contains(err.Error(), "must be created via NewGetOrderQuery constructor")

	userHandler := queries.NewGetUserOrdersQueryHandler(suite.db)
	_, err = userHandler.Handle(context.Background(), queries.GetUserOrdersQuery{})
	suite.Require().Error(err)

	_, err = queries.NewGetRestaurantOrdersQuery(2, order.Status("SHIPPED"))
	suite.Require().Error(err)
}

// placeOrder seeds a two-line PENDING order through the repository.
func (suite *OrderQueriesIntegrationTestSuite) placeOrder(userID, restaurantID int64, at time.Time) *order.Order {
	pizza, err := order.NewItem(10, "Margherita", 2, decimal.NewFromInt(150))
	suite.Require().NoError(err)
	salad, err := order.NewItem(11, "Caesar Salad", 1, decimal.RequireFromString("95.50"))
	suite.Require().NoError(err)

	placed, err := order.NewOrder(userID, restaurantID, "42 Main St", uuid.NewString(),
		[]order.Item{pizza, salad}, at)
	suite.Require().NoError(err)
	suite.Require().NoError(suite.repo.Add(context.Background(), placed))
	return placed
}

// placeOrderOutForDelivery seeds an order already out for delivery with the
// given estimated delivery instant.
func (suite *OrderQueriesIntegrationTestSuite) placeOrderOutForDelivery(
	userID, restaurantID int64, estimatedAt time.Time,
) *order.Order {
	placed := suite.placeOrder(userID, restaurantID, estimatedAt.Add(-30*time.Minute))

	suite.Require().NoError(placed.ChangeStatus(order.StatusAccepted))
	suite.Require().NoError(placed.ChangeStatus(order.StatusInCooking))
	suite.Require().NoError(placed.ChangeStatus(order.StatusOutForDelivery))
	suite.Require().NoError(placed.AssignDeliveryAgent(5, 9))
	suite.Require().NoError(placed.ScheduleDelivery(estimatedAt))
	suite.Require().NoError(suite.repo.Update(context.Background(), placed))
	return placed
}

func TestOrderQueriesIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(OrderQueriesIntegrationTestSuite))
}
