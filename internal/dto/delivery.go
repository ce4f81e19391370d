package dto

import (
	"time"

	"github.com/hospshop/procurement-api/internal/models"
)

// CreateDeliveryRequest opens a delivery order for an awarded request.
type CreateDeliveryRequest struct {
	SupplierID string `json:"supplier_id" validate:"required"`
	RequestID  string `json:"request_id"`
	Address    string `json:"address" validate:"required"`
	City       string `json:"city" validate:"required"`
	State      string `json:"state" validate:"required"`
}

// ScheduleDeliveryRequest books a delivery date with a carrier.
type ScheduleDeliveryRequest struct {
	ScheduledDate time.Time `json:"scheduled_date" validate:"required"`
	Carrier       string    `json:"carrier" validate:"required"`
}

// UpdateDeliveryStatusRequest advances a delivery order.
type UpdateDeliveryStatusRequest struct {
	Status      models.DeliveryStatus `json:"status" validate:"required"`
	Description string                `json:"description"`
	Location    string                `json:"location"`
}
