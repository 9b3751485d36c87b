// Package orderrepo provides data transfer objects and mapping functions for
// order persistence. It implements the repository pattern for the order
// aggregate, converting between domain entities and database rows.
package orderrepo

import (
	"time"

	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/model/order"

	"github.com/google/uuid"
)

// OrderDTO represents the database structure for persisting order aggregates.
// Money figures are denormalized onto the row: they are immutable snapshots
// taken at order time, not derived values.
type OrderDTO struct {
	ID           uuid.UUID  `gorm:"type:uuid;primaryKey"`
	Number       string     `gorm:"uniqueIndex"`
	Status       int        `gorm:"index"`
	CustomerID   uuid.UUID  `gorm:"type:uuid;index"`
	DriverID     *uuid.UUID `gorm:"type:uuid;index"`
	AddressID    uuid.UUID  `gorm:"type:uuid"`
	Subtotal     int64
	DeliveryFee  int64
	Discount     int64
	Total        int64
	RecordedCost *int64
	DriverPayout *int64
	CreatedAt    time.Time
	ConfirmedAt  *time.Time
	DeliveredAt  *time.Time
	Items        []ItemDTO `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
}

// TableName specifies the database table name for order entities.
func (OrderDTO) TableName() string {
	return "orders"
}

// ItemDTO represents one order line. Lines never change after the order is
// placed, so the repository writes them once and never updates them.
type ItemDTO struct {
	OrderID   uuid.UUID `gorm:"type:uuid;primaryKey"`
	ProductID uuid.UUID `gorm:"type:uuid;primaryKey"`
	Quantity  int
	UnitPrice int64
}

// TableName specifies the database table name for order lines.
func (ItemDTO) TableName() string {
	return "order_items"
}

func fromDomain(aggregate *order.Order) OrderDTO {
	var driverID *uuid.UUID
	if id := aggregate.DriverID(); id != nil {
		raw := id.Bytes()
		driverID = &raw
	}

	items := make([]ItemDTO, 0, len(aggregate.Items()))
	for _, item := range aggregate.Items() {
		items = append(items, ItemDTO{
			OrderID:   aggregate.ID().Bytes(),
			ProductID: item.ProductID().Bytes(),
			Quantity:  item.Quantity(),
			UnitPrice: item.UnitPrice(),
		})
	}

	return OrderDTO{
		ID:           aggregate.ID().Bytes(),
		Number:       aggregate.Number(),
		Status:       int(aggregate.Status()),
		CustomerID:   aggregate.CustomerID().Bytes(),
		DriverID:     driverID,
		AddressID:    aggregate.AddressID().Bytes(),
		Subtotal:     aggregate.Subtotal(),
		DeliveryFee:  aggregate.DeliveryFee(),
		Discount:     aggregate.Discount(),
		Total:        aggregate.Total(),
		RecordedCost: aggregate.RecordedCost(),
		DriverPayout: aggregate.DriverPayout(),
		CreatedAt:    aggregate.CreatedAt(),
		ConfirmedAt:  aggregate.ConfirmedAt(),
		DeliveredAt:  aggregate.DeliveredAt(),
		Items:        items,
	}
}

func toDomain(dto OrderDTO) (*order.Order, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	customerID, err := kernel.UUIDFromBytes(dto.CustomerID[:])
	if err != nil {
		return nil, err
	}

	addressID, err := kernel.UUIDFromBytes(dto.AddressID[:])
	if err != nil {
		return nil, err
	}

	var driverID *kernel.UUID
	if dto.DriverID != nil {
		dID, driverErr := kernel.UUIDFromBytes((*dto.DriverID)[:])
		if driverErr != nil {
			return nil, driverErr
		}
		driverID = &dID
	}

	items := make([]order.Item, 0, len(dto.Items))
	for _, itemDTO := range dto.Items {
		productID, itemErr := kernel.UUIDFromBytes(itemDTO.ProductID[:])
		if itemErr != nil {
			return nil, itemErr
		}

		item, itemErr := order.NewItem(productID, itemDTO.Quantity, itemDTO.UnitPrice)
		if itemErr != nil {
			return nil, itemErr
		}
		items = append(items, item)
	}

	return order.RestoreOrder(order.RestoreOrderParams{
		ID:           id,
		Number:       dto.Number,
		Status:       order.Status(dto.Status),
		CustomerID:   customerID,
		DriverID:     driverID,
		AddressID:    addressID,
		Items:        items,
		Subtotal:     dto.Subtotal,
		DeliveryFee:  dto.DeliveryFee,
		Discount:     dto.Discount,
		Total:        dto.Total,
		RecordedCost: dto.RecordedCost,
		DriverPayout: dto.DriverPayout,
		CreatedAt:    dto.CreatedAt,
		ConfirmedAt:  dto.ConfirmedAt,
		DeliveredAt:  dto.DeliveredAt,
	})
}
