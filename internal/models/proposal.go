package models

import "time"

// ProposalStatus captures the lifecycle of a supplier proposal.
// All proposals stay received until the award flips exactly one to
// winning and the rest to rejected.
type ProposalStatus string

const (
	ProposalStatusReceived ProposalStatus = "received"
	ProposalStatusWinning  ProposalStatus = "winning"
	ProposalStatusRejected ProposalStatus = "rejected"
)

// SupplierProposal is a supplier's priced response to a quotation request.
// TotalValue is always derived from the stored line items, never taken
// from the caller.
type SupplierProposal struct {
	ID           string         `db:"id" json:"id"`
	RequestID    string         `db:"request_id" json:"request_id"`
	SupplierID   string         `db:"supplier_id" json:"supplier_id"`
	Number       string         `db:"number" json:"number"`
	TotalValue   float64        `db:"total_value" json:"total_value"`
	DeliveryTime string         `db:"delivery_time" json:"delivery_time"`
	PaymentTerms *string        `db:"payment_terms" json:"payment_terms,omitempty"`
	Status       ProposalStatus `db:"status" json:"status"`
	SubmittedAt  time.Time      `db:"submitted_at" json:"submitted_at"`
	ValidUntil   time.Time      `db:"valid_until" json:"valid_until"`
	Notes        *string        `db:"notes" json:"notes,omitempty"`
}

// ProposalItem prices one request item within a proposal.
type ProposalItem struct {
	ID            string  `db:"id" json:"id"`
	ProposalID    string  `db:"proposal_id" json:"proposal_id"`
	RequestItemID string  `db:"request_item_id" json:"request_item_id"`
	UnitPrice     float64 `db:"unit_price" json:"unit_price"`
	LineTotal     float64 `db:"line_total" json:"line_total"`
	Brand         *string `db:"brand" json:"brand,omitempty"`
	Model         *string `db:"model" json:"model,omitempty"`
}
