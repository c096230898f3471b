package http

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"orderflow/internal/core/application/usecases/commands"
	"orderflow/internal/core/application/usecases/queries"
	"orderflow/internal/core/domain/model/kernel"
	"orderflow/internal/core/domain/model/order"
	"orderflow/internal/core/domain/services"
	"orderflow/internal/core/ports"
	"orderflow/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

type (
	CreateOrderHandler interface {
		Handle(ctx context.Context, cmd commands.CreateOrderCommand) (*order.Order, error)
	}
	UpdateOrderStatusHandler interface {
		Handle(ctx context.Context, cmd commands.UpdateOrderStatusCommand) (*order.Order, error)
	}
	SubscribeHandler interface {
		Handle(ctx context.Context, cmd commands.SubscribeCommand) error
	}
	UnsubscribeHandler interface {
		Handle(ctx context.Context, cmd commands.UnsubscribeCommand) error
	}
	ListOrdersHandler interface {
		Handle(ctx context.Context, query queries.ListOrdersQuery) (queries.ListOrdersQueryResponse, error)
	}
	GetOrderHandler interface {
		Handle(ctx context.Context, query queries.GetOrderQuery) (queries.GetOrderQueryResponse, error)
	}
	GetStatisticsHandler interface {
		Handle(ctx context.Context, query queries.GetStatisticsQuery) (services.Statistics, error)
	}

	// WorkflowResumer stores the token the workflow engine calls back with.
	WorkflowResumer interface {
		ResumeWorkflow(ctx context.Context, tenantID string, orderID kernel.UUID, token string) error
	}
)

// Handlers bundles the use cases served over HTTP.
type Handlers struct {
	CreateOrder       CreateOrderHandler
	UpdateOrderStatus UpdateOrderStatusHandler
	Subscribe         SubscribeHandler
	Unsubscribe       UnsubscribeHandler
	ListOrders        ListOrdersHandler
	GetOrder          GetOrderHandler
	GetStatistics     GetStatisticsHandler
	Resumer           WorkflowResumer
}

// Server translates gateway requests into commands and queries.
// It coordinates between HTTP handlers and application use cases.
type Server struct {
	h   Handlers
	now func() time.Time
}

// NewServer creates a new HTTP server with the required command and query handlers.
func NewServer(h Handlers) *Server {
	return &Server{h: h, now: time.Now}
}

// Register mounts the API under /api/v1. Every route requires the gateway identity headers.
func (s *Server) Register(e *echo.Echo) {
	e.GET("/health", func(c echo.Context) error {
		return c.String(http.StatusOK, "Healthy")
	})

	api := e.Group("/api/v1", Identity())
	api.POST("/orders", s.CreateOrder)
	api.GET("/orders", s.ListOrders)
	api.GET("/orders/:id", s.GetOrder)
	api.PUT("/orders/:id/status", s.UpdateOrderStatus)
	api.PUT("/orders/:id/resume-token", s.PutResumeToken)
	api.GET("/statistics", s.GetStatistics)
	api.POST("/subscriptions", s.Subscribe)
	api.DELETE("/subscriptions/:connection_id", s.Unsubscribe)
}

// NewOrderLine is one entry of NewOrder.Items.
type NewOrderLine struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

// NewOrder is the body of POST /orders. OrderID is generated when absent.
type NewOrder struct {
	OrderID string         `json:"order_id,omitempty"`
	Items   []NewOrderLine `json:"items"`
}

// StatusChange is the body of PUT /orders/:id/status.
type StatusChange struct {
	Status string `json:"status"`
}

// ResumeToken is the body of PUT /orders/:id/resume-token.
type ResumeToken struct {
	Token string `json:"token"`
}

// NewSubscription is the body of POST /subscriptions. An empty OrderID subscribes to every order.
type NewSubscription struct {
	OrderID string `json:"order_id,omitempty"`
}

// CreateOrder handles POST /api/v1/orders - places an order for the calling client.
func (s *Server) CreateOrder(c echo.Context) error {
	var body NewOrder
	if err := c.Bind(&body); err != nil {
		return badRequest(c, "Invalid request body")
	}

	orderID := kernel.NewUUID()
	if body.OrderID != "" {
		id, err := parseID("order_id", body.OrderID)
		if err != nil {
			return writeError(c, err)
		}
		orderID = id
	}

	lines := make([]commands.OrderLine, 0, len(body.Items))
	for _, item := range body.Items {
		lines = append(lines, commands.OrderLine{ProductID: item.ProductID, Quantity: item.Quantity})
	}

	cmd, err := commands.NewCreateOrderCommand(orderID, actorFrom(c), lines)
	if err != nil {
		return writeError(c, err)
	}

	created, err := s.h.CreateOrder.Handle(c.Request().Context(), cmd)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusCreated, created.Snapshot())
}

// ListOrders handles GET /api/v1/orders.
//
// Query parameters: by (created_at, client, cook, dispatcher, driver, status), actor_id
// (defaults to the caller for actor paths), status, page_size and cursor.
func (s *Server) ListOrders(c echo.Context) error {
	actor := actorFrom(c)

	selector := ports.OrderSelector{StatusPrefix: c.QueryParam("status")}
	switch by := c.QueryParam("by"); by {
	case "", "created_at":
		selector.Kind = ports.ByCreatedAt
	case "client":
		selector.Kind = ports.ByClient
	case "cook":
		selector.Kind = ports.ByCook
	case "dispatcher":
		selector.Kind = ports.ByDispatcher
	case "driver":
		selector.Kind = ports.ByDriver
	case "status":
		selector.Kind = ports.ByStatus
	default:
		return badRequest(c, "Unknown access path: "+by)
	}

	if selector.Kind != ports.ByCreatedAt && selector.Kind != ports.ByStatus {
		selector.ActorID = c.QueryParam("actor_id")
		if selector.ActorID == "" {
			selector.ActorID = actor.UserID()
		}
	}

	pageSize := 0
	if raw := c.QueryParam("page_size"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return badRequest(c, "page_size must be an integer")
		}
		pageSize = n
	}

	query, err := queries.NewListOrdersQuery(actor.TenantID(), selector, pageSize, c.QueryParam("cursor"))
	if err != nil {
		return writeError(c, err)
	}

	page, err := s.h.ListOrders.Handle(c.Request().Context(), query)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, page)
}

// GetOrder handles GET /api/v1/orders/:id.
func (s *Server) GetOrder(c echo.Context) error {
	orderID, err := parseID("id", c.Param("id"))
	if err != nil {
		return writeError(c, err)
	}

	query, err := queries.NewGetOrderQuery(actorFrom(c).TenantID(), orderID)
	if err != nil {
		return writeError(c, err)
	}

	resp, err := s.h.GetOrder.Handle(c.Request().Context(), query)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, resp)
}

// UpdateOrderStatus handles PUT /api/v1/orders/:id/status.
func (s *Server) UpdateOrderStatus(c echo.Context) error {
	orderID, err := parseID("id", c.Param("id"))
	if err != nil {
		return writeError(c, err)
	}

	var body StatusChange
	if err = c.Bind(&body); err != nil {
		return badRequest(c, "Invalid request body")
	}

	cmd, err := commands.NewUpdateOrderStatusCommand(actorFrom(c), orderID, body.Status)
	if err != nil {
		return writeError(c, err)
	}

	updated, err := s.h.UpdateOrderStatus.Handle(c.Request().Context(), cmd)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, updated.Snapshot())
}

// PutResumeToken handles PUT /api/v1/orders/:id/resume-token.
func (s *Server) PutResumeToken(c echo.Context) error {
	orderID, err := parseID("id", c.Param("id"))
	if err != nil {
		return writeError(c, err)
	}

	var body ResumeToken
	if err = c.Bind(&body); err != nil {
		return badRequest(c, "Invalid request body")
	}

	if err = s.h.Resumer.ResumeWorkflow(c.Request().Context(), actorFrom(c).TenantID(), orderID, body.Token); err != nil {
		return writeError(c, err)
	}

	return c.NoContent(http.StatusNoContent)
}

// GetStatistics handles GET /api/v1/statistics for the caller's tenant.
func (s *Server) GetStatistics(c echo.Context) error {
	query, err := queries.NewGetStatisticsQuery(actorFrom(c).TenantID())
	if err != nil {
		return writeError(c, err)
	}

	stats, err := s.h.GetStatistics.Handle(c.Request().Context(), query)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, stats)
}

// Subscribe handles POST /api/v1/subscriptions for the connection named in X-Connection-Id.
func (s *Server) Subscribe(c echo.Context) error {
	var body NewSubscription
	if err := c.Bind(&body); err != nil {
		return badRequest(c, "Invalid request body")
	}

	var orderID *kernel.UUID
	if body.OrderID != "" {
		id, err := parseID("order_id", body.OrderID)
		if err != nil {
			return writeError(c, err)
		}
		orderID = &id
	}

	connID := c.Request().Header.Get(HeaderConnectionID)
	cmd, err := commands.NewSubscribeCommand(actorFrom(c).TenantID(), orderID, connID, s.now())
	if err != nil {
		return writeError(c, err)
	}

	if err = s.h.Subscribe.Handle(c.Request().Context(), cmd); err != nil {
		return writeError(c, err)
	}

	return c.NoContent(http.StatusCreated)
}

// Unsubscribe handles DELETE /api/v1/subscriptions/:connection_id, sent by the gateway on disconnect.
func (s *Server) Unsubscribe(c echo.Context) error {
	cmd, err := commands.NewUnsubscribeCommand(c.Param("connection_id"))
	if err != nil {
		return writeError(c, err)
	}

	if err = s.h.Unsubscribe.Handle(c.Request().Context(), cmd); err != nil {
		return writeError(c, err)
	}

	return c.NoContent(http.StatusNoContent)
}

func parseID(param, raw string) (kernel.UUID, error) {
	id, err := kernel.UUIDFromString(raw)
	if err != nil {
		return kernel.UUID{}, errs.NewValueIsInvalidErrorWithCause(param, err)
	}
	return id, nil
}
