// Package http exposes the fulfillment core over a JSON API. Authentication
// lives in an upstream gateway; the acting user arrives as trusted
// X-Actor-Id and X-Actor-Role headers.
package http

import (
	"errors"
	"net/http"

	"marketplace/internal/core/application/usecases/commands"
	"marketplace/internal/core/application/usecases/queries"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/core/domain/model/user"
	"marketplace/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

const (
	headerActorID   = "X-Actor-Id"
	headerActorRole = "X-Actor-Role"
)

// Server coordinates between HTTP handlers and application use cases.
type Server struct {
	createOrderHandler           commands.CreateOrderCommandHandler
	changeOrderStatusHandler     commands.ChangeOrderStatusCommandHandler
	assignDriverHandler          commands.AssignDriverCommandHandler
	setDriverAvailability        commands.SetDriverAvailabilityCommandHandler
	updateProductHandler         commands.UpdateProductCommandHandler
	softDeleteHandler            commands.SoftDeleteCommandHandler
	restoreHandler               commands.RestoreCommandHandler
	purgeHandler                 commands.PurgeCommandHandler
	markNotificationsReadHandler commands.MarkNotificationsReadCommandHandler

	listAuditEntriesHandler  queries.ListAuditEntriesQueryHandler
	listNotificationsHandler queries.ListNotificationsQueryHandler
}

// NewServer creates an HTTP server with the required command and query handlers.
func NewServer(
	createOrderHandler commands.CreateOrderCommandHandler,
	changeOrderStatusHandler commands.ChangeOrderStatusCommandHandler,
	assignDriverHandler commands.AssignDriverCommandHandler,
	setDriverAvailability commands.SetDriverAvailabilityCommandHandler,
	updateProductHandler commands.UpdateProductCommandHandler,
	softDeleteHandler commands.SoftDeleteCommandHandler,
	restoreHandler commands.RestoreCommandHandler,
	purgeHandler commands.PurgeCommandHandler,
	markNotificationsReadHandler commands.MarkNotificationsReadCommandHandler,
	listAuditEntriesHandler queries.ListAuditEntriesQueryHandler,
	listNotificationsHandler queries.ListNotificationsQueryHandler,
) *Server {
	return &Server{
		createOrderHandler:           createOrderHandler,
		changeOrderStatusHandler:     changeOrderStatusHandler,
		assignDriverHandler:          assignDriverHandler,
		setDriverAvailability:        setDriverAvailability,
		updateProductHandler:         updateProductHandler,
		softDeleteHandler:            softDeleteHandler,
		restoreHandler:               restoreHandler,
		purgeHandler:                 purgeHandler,
		markNotificationsReadHandler: markNotificationsReadHandler,
		listAuditEntriesHandler:      listAuditEntriesHandler,
		listNotificationsHandler:     listNotificationsHandler,
	}
}

// RegisterRoutes attaches all API routes to the echo instance.
func (s *Server) RegisterRoutes(e *echo.Echo) {
	e.GET("/health", s.Health)

	api := e.Group("/api/v1")
	api.POST("/orders", s.CreateOrder)
	api.POST("/orders/:orderId/status", s.ChangeOrderStatus)
	api.POST("/orders/:orderId/assign", s.AssignDriver)
	api.PATCH("/drivers/availability", s.SetDriverAvailability)
	api.PATCH("/products/:productId", s.UpdateProduct)
	api.DELETE("/trash/:kind/:id", s.SoftDelete)
	api.POST("/trash/:kind/:id/restore", s.Restore)
	api.DELETE("/trash/:kind/:id/purge", s.Purge)
	api.GET("/audit", s.ListAuditEntries)
	api.GET("/notifications", s.ListNotifications)
	api.POST("/notifications/read", s.MarkNotificationsRead)
}

// Health handles GET /health.
func (s *Server) Health(ctx echo.Context) error {
	return ctx.String(http.StatusOK, "Healthy")
}

// CreateOrder handles POST /api/v1/orders - places a new order.
func (s *Server) CreateOrder(ctx echo.Context) error {
	actorID, actorRole, err := actorFrom(ctx)
	if err != nil {
		return errorResponse(ctx, err)
	}

	var req CreateOrderRequest
	if err := ctx.Bind(&req); err != nil {
		return errorResponse(ctx, errs.NewValueIsInvalidError("body"))
	}

	orderID, err := kernel.UUIDFromString(req.OrderID)
	if err != nil {
		return errorResponse(ctx, err)
	}
	customerID, err := kernel.UUIDFromString(req.CustomerID)
	if err != nil {
		return errorResponse(ctx, err)
	}
	addressID, err := kernel.UUIDFromString(req.AddressID)
	if err != nil {
		return errorResponse(ctx, err)
	}

	lines := make([]commands.OrderLine, 0, len(req.Lines))
	for _, line := range req.Lines {
		productID, lineErr := kernel.UUIDFromString(line.ProductID)
		if lineErr != nil {
			return errorResponse(ctx, lineErr)
		}
		lines = append(lines, commands.OrderLine{ProductID: productID, Quantity: line.Quantity})
	}

	cmd, err := commands.NewCreateOrderCommand(
		orderID, customerID, addressID,
		lines, req.DeliveryFee, req.Discount,
		actorID, actorRole, metaFrom(ctx),
	)
	if err != nil {
		return errorResponse(ctx, err)
	}

	if err := s.createOrderHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return errorResponse(ctx, err)
	}

	return ctx.NoContent(http.StatusCreated)
}

// ChangeOrderStatus handles POST /api/v1/orders/{orderId}/status and returns
// the updated order.
func (s *Server) ChangeOrderStatus(ctx echo.Context) error {
	actorID, actorRole, err := actorFrom(ctx)
	if err != nil {
		return errorResponse(ctx, err)
	}

	orderID, err := kernel.UUIDFromString(ctx.Param("orderId"))
	if err != nil {
		return errorResponse(ctx, err)
	}

	var req ChangeOrderStatusRequest
	if err := ctx.Bind(&req); err != nil {
		return errorResponse(ctx, errs.NewValueIsInvalidError("body"))
	}

	target, err := order.StatusFromString(req.Status)
	if err != nil {
		return errorResponse(ctx, err)
	}

	cmd, err := commands.NewChangeOrderStatusCommand(orderID, target, actorID, actorRole, metaFrom(ctx))
	if err != nil {
		return errorResponse(ctx, err)
	}

	updated, err := s.changeOrderStatusHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return errorResponse(ctx, err)
	}

	return ctx.JSON(http.StatusOK, orderResponseFrom(updated))
}

// AssignDriver handles POST /api/v1/orders/{orderId}/assign.
func (s *Server) AssignDriver(ctx echo.Context) error {
	actorID, actorRole, err := actorFrom(ctx)
	if err != nil {
		return errorResponse(ctx, err)
	}

	orderID, err := kernel.UUIDFromString(ctx.Param("orderId"))
	if err != nil {
		return errorResponse(ctx, err)
	}

	var req AssignDriverRequest
	if err := ctx.Bind(&req); err != nil {
		return errorResponse(ctx, errs.NewValueIsInvalidError("body"))
	}

	driverID, err := kernel.UUIDFromString(req.DriverID)
	if err != nil {
		return errorResponse(ctx, err)
	}

	cmd, err := commands.NewAssignDriverCommand(orderID, driverID, actorID, actorRole, metaFrom(ctx))
	if err != nil {
		return errorResponse(ctx, err)
	}

	if err := s.assignDriverHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return errorResponse(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// SetDriverAvailability handles PATCH /api/v1/drivers/availability.
// The acting user can only flip their own flag.
func (s *Server) SetDriverAvailability(ctx echo.Context) error {
	actorID, _, err := actorFrom(ctx)
	if err != nil {
		return errorResponse(ctx, err)
	}

	var req SetAvailabilityRequest
	if err := ctx.Bind(&req); err != nil {
		return errorResponse(ctx, errs.NewValueIsInvalidError("body"))
	}

	cmd, err := commands.NewSetDriverAvailabilityCommand(actorID, req.Available, metaFrom(ctx))
	if err != nil {
		return errorResponse(ctx, err)
	}

	if err := s.setDriverAvailability.Handle(ctx.Request().Context(), cmd); err != nil {
		return errorResponse(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// UpdateProduct handles PATCH /api/v1/products/{productId}.
func (s *Server) UpdateProduct(ctx echo.Context) error {
	actorID, actorRole, err := actorFrom(ctx)
	if err != nil {
		return errorResponse(ctx, err)
	}

	productID, err := kernel.UUIDFromString(ctx.Param("productId"))
	if err != nil {
		return errorResponse(ctx, err)
	}

	var req UpdateProductRequest
	if err := ctx.Bind(&req); err != nil {
		return errorResponse(ctx, errs.NewValueIsInvalidError("body"))
	}

	cmd, err := commands.NewUpdateProductCommand(productID, commands.ProductChanges{
		Price:             req.Price,
		Cost:              req.Cost,
		Stock:             req.Stock,
		LowStockThreshold: req.LowStockThreshold,
		TrackStock:        req.TrackStock,
	}, actorID, actorRole, metaFrom(ctx))
	if err != nil {
		return errorResponse(ctx, err)
	}

	if err := s.updateProductHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return errorResponse(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// SoftDelete handles DELETE /api/v1/trash/{kind}/{id} - moves an entity to the trash.
func (s *Server) SoftDelete(ctx echo.Context) error {
	actorID, actorRole, err := actorFrom(ctx)
	if err != nil {
		return errorResponse(ctx, err)
	}

	entityID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return errorResponse(ctx, err)
	}

	cmd, err := commands.NewSoftDeleteCommand(ctx.Param("kind"), entityID, actorID, actorRole, metaFrom(ctx))
	if err != nil {
		return errorResponse(ctx, err)
	}

	if err := s.softDeleteHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return errorResponse(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// Restore handles POST /api/v1/trash/{kind}/{id}/restore.
func (s *Server) Restore(ctx echo.Context) error {
	actorID, actorRole, err := actorFrom(ctx)
	if err != nil {
		return errorResponse(ctx, err)
	}

	entityID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return errorResponse(ctx, err)
	}

	cmd, err := commands.NewRestoreCommand(ctx.Param("kind"), entityID, actorID, actorRole, metaFrom(ctx))
	if err != nil {
		return errorResponse(ctx, err)
	}

	if err := s.restoreHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return errorResponse(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// Purge handles DELETE /api/v1/trash/{kind}/{id}/purge - permanent removal.
func (s *Server) Purge(ctx echo.Context) error {
	actorID, actorRole, err := actorFrom(ctx)
	if err != nil {
		return errorResponse(ctx, err)
	}

	entityID, err := kernel.UUIDFromString(ctx.Param("id"))
	if err != nil {
		return errorResponse(ctx, err)
	}

	cmd, err := commands.NewPurgeCommand(ctx.Param("kind"), entityID, actorID, actorRole, metaFrom(ctx))
	if err != nil {
		return errorResponse(ctx, err)
	}

	if err := s.purgeHandler.Handle(ctx.Request().Context(), cmd); err != nil {
		return errorResponse(ctx, err)
	}

	return ctx.NoContent(http.StatusNoContent)
}

// ListAuditEntries handles GET /api/v1/audit - staff-only audit trail browsing.
func (s *Server) ListAuditEntries(ctx echo.Context) error {
	actorID, actorRole, err := actorFrom(ctx)
	if err != nil {
		return errorResponse(ctx, err)
	}
	if !actorRole.IsStaff() {
		return errorResponse(ctx, errs.NewForbiddenError(actorID.String(), "browse audit trail"))
	}

	filter := queries.AuditFilter{
		EntityKind: ctx.QueryParam("entityKind"),
		Action:     ctx.QueryParam("action"),
		Search:     ctx.QueryParam("search"),
	}
	if raw := ctx.QueryParam("actorId"); raw != "" {
		filterActor, actorErr := kernel.UUIDFromString(raw)
		if actorErr != nil {
			return errorResponse(ctx, actorErr)
		}
		filter.ActorID = &filterActor
	}

	page, pageSize, err := paging(ctx)
	if err != nil {
		return errorResponse(ctx, err)
	}

	query, err := queries.NewListAuditEntriesQuery(filter, page, pageSize)
	if err != nil {
		return errorResponse(ctx, err)
	}

	entries, err := s.listAuditEntriesHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return errorResponse(ctx, err)
	}

	response := make([]AuditEntryResponse, len(entries))
	for i, entry := range entries {
		var entryActor *string
		if entry.ActorID != nil {
			str := entry.ActorID.String()
			entryActor = &str
		}
		response[i] = AuditEntryResponse{
			ID:         entry.ID.String(),
			ActorID:    entryActor,
			Action:     entry.Action,
			EntityKind: entry.EntityKind,
			EntityID:   entry.EntityID,
			Before:     entry.Before,
			After:      entry.After,
			IP:         entry.IP,
			UserAgent:  entry.UserAgent,
			CreatedAt:  entry.CreatedAt,
		}
	}

	return ctx.JSON(http.StatusOK, response)
}

// ListNotifications handles GET /api/v1/notifications - the acting user's feed.
func (s *Server) ListNotifications(ctx echo.Context) error {
	actorID, _, err := actorFrom(ctx)
	if err != nil {
		return errorResponse(ctx, err)
	}

	page, pageSize, err := paging(ctx)
	if err != nil {
		return errorResponse(ctx, err)
	}

	unreadOnly := ctx.QueryParam("unreadOnly") == "true"

	query, err := queries.NewListNotificationsQuery(actorID, unreadOnly, page, pageSize)
	if err != nil {
		return errorResponse(ctx, err)
	}

	feed, err := s.listNotificationsHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return errorResponse(ctx, err)
	}

	response := make([]NotificationResponse, len(feed))
	for i, item := range feed {
		response[i] = NotificationResponse{
			ID:        item.ID.String(),
			Type:      item.Type,
			Title:     item.Title,
			Body:      item.Body,
			Payload:   item.Payload,
			Read:      item.Read,
			CreatedAt: item.CreatedAt,
		}
	}

	return ctx.JSON(http.StatusOK, response)
}

// MarkNotificationsRead handles POST /api/v1/notifications/read.
// An empty id list marks the acting user's whole feed read.
func (s *Server) MarkNotificationsRead(ctx echo.Context) error {
	actorID, _, err := actorFrom(ctx)
	if err != nil {
		return errorResponse(ctx, err)
	}

	var req MarkNotificationsReadRequest
	if err := ctx.Bind(&req); err != nil {
		return errorResponse(ctx, errs.NewValueIsInvalidError("body"))
	}

	ids := make([]kernel.UUID, 0, len(req.NotificationIDs))
	for _, raw := range req.NotificationIDs {
		id, idErr := kernel.UUIDFromString(raw)
		if idErr != nil {
			return errorResponse(ctx, idErr)
		}
		ids = append(ids, id)
	}

	cmd, err := commands.NewMarkNotificationsReadCommand(actorID, ids)
	if err != nil {
		return errorResponse(ctx, err)
	}

	updated, err := s.markNotificationsReadHandler.Handle(ctx.Request().Context(), cmd)
	if err != nil {
		return errorResponse(ctx, err)
	}

	return ctx.JSON(http.StatusOK, MarkNotificationsReadResponse{Updated: updated})
}

// actorFrom extracts the acting user from the gateway-trusted headers.
func actorFrom(ctx echo.Context) (kernel.UUID, user.Role, error) {
	actorID, err := kernel.UUIDFromString(ctx.Request().Header.Get(headerActorID))
	if err != nil {
		return kernel.UUID{}, user.RoleUnknown, errs.NewValueIsRequiredErrorWithCause(headerActorID, err)
	}

	actorRole, err := user.RoleFromString(ctx.Request().Header.Get(headerActorRole))
	if err != nil {
		return kernel.UUID{}, user.RoleUnknown, errs.NewValueIsRequiredErrorWithCause(headerActorRole, err)
	}

	return actorID, actorRole, nil
}

// metaFrom captures best-effort request attribution for the audit trail.
func metaFrom(ctx echo.Context) commands.RequestMeta {
	return commands.RequestMeta{
		IP:        ctx.RealIP(),
		UserAgent: ctx.Request().UserAgent(),
	}
}

// errorResponse maps domain error classes to HTTP statuses.
func errorResponse(ctx echo.Context, err error) error {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, errs.ErrObjectNotFound):
		status = http.StatusNotFound
	case errors.Is(err, errs.ErrForbidden):
		status = http.StatusForbidden
	case errors.Is(err, errs.ErrConflict),
		errors.Is(err, errs.ErrInvalidTransition),
		errors.Is(err, errs.ErrInvalidState):
		status = http.StatusConflict
	case errors.Is(err, errs.ErrValueIsRequired),
		errors.Is(err, errs.ErrValueIsInvalid),
		errors.Is(err, errs.ErrValueIsOutOfRange),
		errors.Is(err, commands.ErrNoLines):
		status = http.StatusUnprocessableEntity
	}

	return ctx.JSON(status, ErrorResponse{
		Code:    status,
		Message: err.Error(),
	})
}
