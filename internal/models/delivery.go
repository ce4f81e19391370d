package models

import "time"

// DeliveryStatus captures the delivery order lifecycle.
type DeliveryStatus string

const (
	DeliveryStatusPending   DeliveryStatus = "pending"
	DeliveryStatusScheduled DeliveryStatus = "scheduled"
	DeliveryStatusInTransit DeliveryStatus = "in_transit"
	DeliveryStatusDelivered DeliveryStatus = "delivered"
	DeliveryStatusCancelled DeliveryStatus = "cancelled"
)

// DeliveryOrder tracks the fulfilment of an awarded request.
type DeliveryOrder struct {
	ID            string         `db:"id" json:"id"`
	Number        string         `db:"number" json:"number"`
	RequestID     *string        `db:"request_id" json:"request_id,omitempty"`
	SupplierID    string         `db:"supplier_id" json:"supplier_id"`
	Status        DeliveryStatus `db:"status" json:"status"`
	Address       string         `db:"address" json:"address"`
	City          string         `db:"city" json:"city"`
	State         string         `db:"state" json:"state"`
	Carrier       *string        `db:"carrier" json:"carrier,omitempty"`
	ScheduledDate *time.Time     `db:"scheduled_date" json:"scheduled_date,omitempty"`
	CreatedAt     time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time      `db:"updated_at" json:"updated_at"`
}

// DeliveryEvent is an append-only tracking entry for a delivery order.
type DeliveryEvent struct {
	ID          string         `db:"id" json:"id"`
	OrderID     string         `db:"order_id" json:"order_id"`
	Status      DeliveryStatus `db:"status" json:"status"`
	Description string         `db:"description" json:"description"`
	Location    *string        `db:"location" json:"location,omitempty"`
	CreatedAt   time.Time      `db:"created_at" json:"created_at"`
}
