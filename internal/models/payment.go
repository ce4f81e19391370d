package models

import "time"

// PaymentMethod enumerates how a payment is settled.
type PaymentMethod string

const (
	PaymentMethodCash        PaymentMethod = "cash"
	PaymentMethodInstallment PaymentMethod = "installment"
)

// InstallmentStatus captures per-installment settlement state.
type InstallmentStatus string

const (
	InstallmentStatusPending InstallmentStatus = "pending"
	InstallmentStatusPaid    InstallmentStatus = "paid"
)

// Payment is an amount owed to a supplier for an awarded request,
// optionally split into monthly installments.
type Payment struct {
	ID               string        `db:"id" json:"id"`
	RequestID        *string       `db:"request_id" json:"request_id,omitempty"`
	SupplierID       string        `db:"supplier_id" json:"supplier_id"`
	Description      string        `db:"description" json:"description"`
	TotalAmount      float64       `db:"total_amount" json:"total_amount"`
	Method           PaymentMethod `db:"method" json:"method"`
	InstallmentCount int           `db:"installment_count" json:"installment_count"`
	CreatedAt        time.Time     `db:"created_at" json:"created_at"`
}

// PaymentInstallment is one due slice of a payment.
type PaymentInstallment struct {
	ID         string            `db:"id" json:"id"`
	PaymentID  string            `db:"payment_id" json:"payment_id"`
	Number     int               `db:"number" json:"number"`
	Amount     float64           `db:"amount" json:"amount"`
	DueDate    time.Time         `db:"due_date" json:"due_date"`
	Status     InstallmentStatus `db:"status" json:"status"`
	PaidAt     *time.Time        `db:"paid_at" json:"paid_at,omitempty"`
	PaidAmount *float64          `db:"paid_amount" json:"paid_amount,omitempty"`
	Notes      *string           `db:"notes" json:"notes,omitempty"`
}
