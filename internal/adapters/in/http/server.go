// Package http exposes the ordering use cases over a REST API built on echo.
// It translates between transport DTOs and application commands/queries and
// maps the error taxonomy onto HTTP status codes.
package http

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"foodorder/internal/core/application/usecases/commands"
	"foodorder/internal/core/application/usecases/queries"
	"foodorder/internal/core/domain/model/order"
	"foodorder/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

// IdempotencyKeyHeader carries the client-chosen placement key on order creation.
const IdempotencyKeyHeader = "Idempotency-Key"

// Server coordinates between HTTP handlers and application use cases.
type Server struct {
	// Command handlers
	placeOrderHandler        commands.PlaceOrderCommandHandler
	updateOrderStatusHandler commands.UpdateOrderStatusCommandHandler

	// Query handlers
	getOrderHandler            queries.GetOrderQueryHandler
	getUserOrdersHandler       queries.GetUserOrdersQueryHandler
	getRestaurantOrdersHandler queries.GetRestaurantOrdersQueryHandler
}

// NewServer creates a new HTTP server with the required command and query handlers.
func NewServer(
	placeOrderHandler commands.PlaceOrderCommandHandler,
	updateOrderStatusHandler commands.UpdateOrderStatusCommandHandler,
	getOrderHandler queries.GetOrderQueryHandler,
	getUserOrdersHandler queries.GetUserOrdersQueryHandler,
	getRestaurantOrdersHandler queries.GetRestaurantOrdersQueryHandler,
) *Server {
	return &Server{
		placeOrderHandler:          placeOrderHandler,
		updateOrderStatusHandler:   updateOrderStatusHandler,
		getOrderHandler:            getOrderHandler,
		getUserOrdersHandler:       getUserOrdersHandler,
		getRestaurantOrdersHandler: getRestaurantOrdersHandler,
	}
}

// RegisterRoutes attaches the API routes to the echo instance.
func (s *Server) RegisterRoutes(e *echo.Echo) {
	api := e.Group("/api/v1")
	api.POST("/orders", s.PlaceOrder)
	api.PUT("/orders/:orderId/status", s.UpdateOrderStatus)
	api.GET("/orders/:orderId", s.GetOrder)
	api.GET("/orders/user/:userId", s.GetUserOrders)
	api.GET("/orders/restaurant/:restaurantId", s.GetRestaurantOrders)
}

// ErrorResponse is the JSON error body for all failure statuses.
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// PlaceOrderRequest is the body of POST /api/v1/orders.
type PlaceOrderRequest struct {
	UserID          int64  `json:"userId"`
	RestaurantID    int64  `json:"restaurantId"`
	DeliveryAddress string `json:"deliveryAddress"`
}

// UpdateOrderStatusRequest is the body of PUT /api/v1/orders/{orderId}/status.
type UpdateOrderStatusRequest struct {
	Status       string `json:"status"`
	RestaurantID int64  `json:"restaurantId"`
}

// OrderItemResponse is one order line in API responses.
type OrderItemResponse struct {
	MenuItemID int64  `json:"menuItemId"`
	Name       string `json:"name"`
	Quantity   int    `json:"quantity"`
	Price      string `json:"price"`
}

// OrderResponse is the API representation of an order.
type OrderResponse struct {
	ID                  int64               `json:"id"`
	UserID              int64               `json:"userId"`
	RestaurantID        int64               `json:"restaurantId"`
	Status              string              `json:"status"`
	TotalAmount         string              `json:"totalAmount"`
	OrderTime           time.Time           `json:"orderTime"`
	DeliveryTime        *time.Time          `json:"deliveryTime,omitempty"`
	DeliveryAddress     string              `json:"deliveryAddress"`
	PaymentID           *int64              `json:"paymentId,omitempty"`
	DeliveryAgentID     *int64              `json:"deliveryAgentId,omitempty"`
	EstimatedDeliveryAt *time.Time          `json:"estimatedDeliveryAt,omitempty"`
	Items               []OrderItemResponse `json:"items"`
}

// PlaceOrder handles POST /api/v1/orders - places an order from the user's cart.
// The Idempotency-Key header is required; replays with the same key return the
// previously placed order.
func (s *Server) PlaceOrder(ctx echo.Context) error {
	var req PlaceOrderRequest
	if err := ctx.Bind(&req); err != nil {
		return errorJSON(ctx, http.StatusBadRequest, "Invalid request body")
	}

	key := ctx.Request().Header.Get(IdempotencyKeyHeader)
	if key == "" {
		return errorJSON(ctx, http.StatusBadRequest, "Idempotency-Key header is required")
	}

	cmd, err := commands.NewPlaceOrderCommand(key, req.UserID, req.RestaurantID, req.DeliveryAddress)
	if err != nil {
		return errorJSON(ctx, http.StatusBadRequest, "Invalid order data: "+err.Error())
	}

	placed, err := s.placeOrderHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return mapError(ctx, err, "Failed to place order")
	}

	return ctx.JSON(http.StatusCreated, orderToResponse(placed))
}

// UpdateOrderStatus handles PUT /api/v1/orders/{orderId}/status - moves an
// order to a new lifecycle status on the restaurant's behalf.
func (s *Server) UpdateOrderStatus(ctx echo.Context) error {
	orderID, err := pathID(ctx, "orderId")
	if err != nil {
		return errorJSON(ctx, http.StatusBadRequest, "Invalid order id")
	}

	var req UpdateOrderStatusRequest
	if err = ctx.Bind(&req); err != nil {
		return errorJSON(ctx, http.StatusBadRequest, "Invalid request body")
	}

	status, err := order.ParseStatus(req.Status)
	if err != nil {
		return errorJSON(ctx, http.StatusBadRequest, "Invalid status: "+req.Status)
	}

	cmd, err := commands.NewUpdateOrderStatusCommand(orderID, status, req.RestaurantID)
	if err != nil {
		return errorJSON(ctx, http.StatusBadRequest, "Invalid status update: "+err.Error())
	}

	updated, err := s.updateOrderStatusHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return mapError(ctx, err, "Failed to update order status")
	}

	return ctx.JSON(http.StatusOK, orderToResponse(updated))
}

// GetOrder handles GET /api/v1/orders/{orderId} - retrieves a single order.
func (s *Server) GetOrder(ctx echo.Context) error {
	orderID, err := pathID(ctx, "orderId")
	if err != nil {
		return errorJSON(ctx, http.StatusBadRequest, "Invalid order id")
	}

	query, err := queries.NewGetOrderQuery(orderID)
	if err != nil {
		return errorJSON(ctx, http.StatusBadRequest, "Invalid order id")
	}

	resp, err := s.getOrderHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return mapError(ctx, err, "Failed to retrieve order")
	}

	return ctx.JSON(http.StatusOK, readModelToResponse(resp))
}

// GetUserOrders handles GET /api/v1/orders/user/{userId} - lists a customer's
// order history, newest first.
func (s *Server) GetUserOrders(ctx echo.Context) error {
	userID, err := pathID(ctx, "userId")
	if err != nil {
		return errorJSON(ctx, http.StatusBadRequest, "Invalid user id")
	}

	query, err := queries.NewGetUserOrdersQuery(userID)
	if err != nil {
		return errorJSON(ctx, http.StatusBadRequest, "Invalid user id")
	}

	orders, err := s.getUserOrdersHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return mapError(ctx, err, "Failed to retrieve orders")
	}

	response := make([]OrderResponse, 0, len(orders))
	for _, o := range orders {
		response = append(response, readModelToResponse(o))
	}
	return ctx.JSON(http.StatusOK, response)
}

// GetRestaurantOrders handles GET /api/v1/orders/restaurant/{restaurantId} -
// lists a restaurant's orders in the status given by the required "status"
// query parameter.
func (s *Server) GetRestaurantOrders(ctx echo.Context) error {
	restaurantID, err := pathID(ctx, "restaurantId")
	if err != nil {
		return errorJSON(ctx, http.StatusBadRequest, "Invalid restaurant id")
	}

	rawStatus := ctx.QueryParam("status")
	if rawStatus == "" {
		return errorJSON(ctx, http.StatusBadRequest, "status query parameter is required")
	}

	status, err := order.ParseStatus(rawStatus)
	if err != nil {
		return errorJSON(ctx, http.StatusBadRequest, "Invalid status: "+rawStatus)
	}

	query, err := queries.NewGetRestaurantOrdersQuery(restaurantID, status)
	if err != nil {
		return errorJSON(ctx, http.StatusBadRequest, "Invalid restaurant id")
	}

	orders, err := s.getRestaurantOrdersHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return mapError(ctx, err, "Failed to retrieve orders")
	}

	response := make([]OrderResponse, 0, len(orders))
	for _, o := range orders {
		response = append(response, readModelToResponse(o))
	}
	return ctx.JSON(http.StatusOK, response)
}

// mapError translates the application error taxonomy to HTTP statuses:
// validation errors are the client's fault (400), missing objects are 404,
// ownership violations 403, business conflicts 409, and everything else 500.
func mapError(ctx echo.Context, err error, fallback string) error {
	switch {
	case errors.Is(err, errs.ErrValueIsRequired), errors.Is(err, errs.ErrValueIsInvalid):
		return errorJSON(ctx, http.StatusBadRequest, err.Error())
	case errors.Is(err, errs.ErrObjectNotFound):
		return errorJSON(ctx, http.StatusNotFound, err.Error())
	case errors.Is(err, errs.ErrUnauthorized):
		return errorJSON(ctx, http.StatusForbidden, err.Error())
	case errors.Is(err, errs.ErrConflict):
		return errorJSON(ctx, http.StatusConflict, err.Error())
	default:
		return errorJSON(ctx, http.StatusInternalServerError, fallback)
	}
}

func errorJSON(ctx echo.Context, code int, message string) error {
	return ctx.JSON(code, ErrorResponse{Code: code, Message: message})
}

func pathID(ctx echo.Context, name string) (int64, error) {
	return strconv.ParseInt(ctx.Param(name), 10, 64)
}

// orderToResponse maps a domain aggregate to the API representation.
func orderToResponse(o *order.Order) OrderResponse {
	items := make([]OrderItemResponse, 0, len(o.Items()))
	for _, item := range o.Items() {
		items = append(items, OrderItemResponse{
			MenuItemID: item.MenuItemID(),
			Name:       item.Name(),
			Quantity:   item.Quantity(),
			Price:      item.Price().String(),
		})
	}

	return OrderResponse{
		ID:                  o.ID(),
		UserID:              o.UserID(),
		RestaurantID:        o.RestaurantID(),
		Status:              o.Status().String(),
		TotalAmount:         o.TotalAmount().String(),
		OrderTime:           o.OrderTime(),
		DeliveryTime:        o.DeliveryTime(),
		DeliveryAddress:     o.DeliveryAddress(),
		PaymentID:           o.PaymentID(),
		DeliveryAgentID:     o.DeliveryAgentID(),
		EstimatedDeliveryAt: o.EstimatedDeliveryAt(),
		Items:               items,
	}
}

// readModelToResponse maps a query read model to the API representation.
func readModelToResponse(resp queries.OrderResponse) OrderResponse {
	items := make([]OrderItemResponse, 0, len(resp.Items))
	for _, item := range resp.Items {
		items = append(items, OrderItemResponse{
			MenuItemID: item.MenuItemID,
			Name:       item.Name,
			Quantity:   item.Quantity,
			Price:      item.Price.String(),
		})
	}

	return OrderResponse{
		ID:                  resp.ID,
		UserID:              resp.UserID,
		RestaurantID:        resp.RestaurantID,
		Status:              resp.Status,
		TotalAmount:         resp.TotalAmount.String(),
		OrderTime:           resp.OrderTime,
		DeliveryTime:        resp.DeliveryTime,
		DeliveryAddress:     resp.DeliveryAddress,
		PaymentID:           resp.PaymentID,
		DeliveryAgentID:     resp.DeliveryAgentID,
		EstimatedDeliveryAt: resp.EstimatedDeliveryAt,
		Items:               items,
	}
}
