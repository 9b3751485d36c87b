package http

import (
	"encoding/json"
	"strconv"
	"time"

	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

// ErrorResponse is the uniform error body for all endpoints.
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// OrderLineRequest is one requested product/quantity pair.
type OrderLineRequest struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

// CreateOrderRequest is the body of POST /orders. The caller supplies the
// order id so retried requests stay idempotent.
type CreateOrderRequest struct {
	OrderID     string             `json:"orderId"`
	CustomerID  string             `json:"customerId"`
	AddressID   string             `json:"addressId"`
	Lines       []OrderLineRequest `json:"lines"`
	DeliveryFee int64              `json:"deliveryFee"`
	Discount    int64              `json:"discount"`
}

// ChangeOrderStatusRequest is the body of POST /orders/{orderId}/status.
type ChangeOrderStatusRequest struct {
	Status string `json:"status"`
}

// AssignDriverRequest is the body of POST /orders/{orderId}/assign.
type AssignDriverRequest struct {
	DriverID string `json:"driverId"`
}

// SetAvailabilityRequest is the body of PATCH /drivers/availability.
type SetAvailabilityRequest struct {
	Available bool `json:"available"`
}

// UpdateProductRequest is the body of PATCH /products/{productId}.
// Absent fields are left unchanged.
type UpdateProductRequest struct {
	Price             *int64 `json:"price"`
	Cost              *int64 `json:"cost"`
	Stock             *int   `json:"stock"`
	LowStockThreshold *int   `json:"lowStockThreshold"`
	TrackStock        *bool  `json:"trackStock"`
}

// OrderResponse is the order representation returned by status changes.
type OrderResponse struct {
	ID           string     `json:"id"`
	Number       string     `json:"number"`
	Status       string     `json:"status"`
	DriverID     *string    `json:"driverId,omitempty"`
	Total        int64      `json:"total"`
	RecordedCost *int64     `json:"recordedCost,omitempty"`
	DriverPayout *int64     `json:"driverPayout,omitempty"`
	CreatedAt    time.Time  `json:"createdAt"`
	ConfirmedAt  *time.Time `json:"confirmedAt,omitempty"`
	DeliveredAt  *time.Time `json:"deliveredAt,omitempty"`
}

func orderResponseFrom(aggregate *order.Order) OrderResponse {
	response := OrderResponse{
		ID:           aggregate.ID().String(),
		Number:       aggregate.Number(),
		Status:       aggregate.Status().String(),
		Total:        aggregate.Total(),
		RecordedCost: aggregate.RecordedCost(),
		DriverPayout: aggregate.DriverPayout(),
		CreatedAt:    aggregate.CreatedAt(),
		ConfirmedAt:  aggregate.ConfirmedAt(),
		DeliveredAt:  aggregate.DeliveredAt(),
	}
	if aggregate.DriverID() != nil {
		id := aggregate.DriverID().String()
		response.DriverID = &id
	}
	return response
}

// MarkNotificationsReadRequest is the body of POST /notifications/read.
type MarkNotificationsReadRequest struct {
	NotificationIDs []string `json:"notificationIds"`
}

// MarkNotificationsReadResponse reports how many rows were flipped.
type MarkNotificationsReadResponse struct {
	Updated int64 `json:"updated"`
}

// AuditEntryResponse is one audit trail row.
type AuditEntryResponse struct {
	ID         string          `json:"id"`
	ActorID    *string         `json:"actorId"`
	Action     string          `json:"action"`
	EntityKind string          `json:"entityKind"`
	EntityID   string          `json:"entityId"`
	Before     json.RawMessage `json:"before,omitempty"`
	After      json.RawMessage `json:"after,omitempty"`
	IP         string          `json:"ip,omitempty"`
	UserAgent  string          `json:"userAgent,omitempty"`
	CreatedAt  time.Time       `json:"createdAt"`
}

// NotificationResponse is one feed row.
type NotificationResponse struct {
	ID        string          `json:"id"`
	Type      string          `json:"type"`
	Title     string          `json:"title"`
	Body      string          `json:"body"`
	Payload   json.RawMessage `json:"payload,omitempty"`
	Read      bool            `json:"read"`
	CreatedAt time.Time       `json:"createdAt"`
}

// paging reads page and pageSize query parameters. Absent values fall back to
// the query constructors' defaults.
func paging(ctx echo.Context) (int, int, error) {
	page := 1
	if raw := ctx.QueryParam("page"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			return 0, 0, errs.NewValueIsInvalidErrorWithCause("page", err)
		}
		page = parsed
	}

	pageSize := 0
	if raw := ctx.QueryParam("pageSize"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			return 0, 0, errs.NewValueIsInvalidErrorWithCause("pageSize", err)
		}
		pageSize = parsed
	}

	return page, pageSize, nil
}
