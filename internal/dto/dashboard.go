package dto

import "github.com/hospshop/procurement-api/internal/models"

// DashboardStats aggregates headline figures for the operations panel.
type DashboardStats struct {
	Quotations        models.QuotationStats `json:"quotations"`
	ActiveSuppliers   int                   `json:"active_suppliers"`
	PendingDeliveries int                   `json:"pending_deliveries"`
	InstallmentsDue   int                   `json:"installments_due"`
}
