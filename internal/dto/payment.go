package dto

import "time"

// CreatePaymentRequest registers an amount owed to a supplier.
// Installments <= 1 yields a single cash installment due on FirstDueDate.
type CreatePaymentRequest struct {
	SupplierID   string    `json:"supplier_id" validate:"required"`
	RequestID    string    `json:"request_id"`
	Description  string    `json:"description" validate:"required"`
	TotalAmount  float64   `json:"total_amount" validate:"gt=0"`
	Installments int       `json:"installments" validate:"gte=0,lte=48"`
	FirstDueDate time.Time `json:"first_due_date" validate:"required"`
}

// PayInstallmentRequest settles one installment.
type PayInstallmentRequest struct {
	Amount float64 `json:"amount" validate:"gt=0"`
	Notes  string  `json:"notes"`
}
