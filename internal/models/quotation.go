package models

import "time"

// QuotationStatus captures the lifecycle of a quotation request.
// A request accepts proposals while open and is closed by the award.
type QuotationStatus string

const (
	QuotationStatusOpen   QuotationStatus = "open"
	QuotationStatusClosed QuotationStatus = "closed"
)

// QuotationRequest is an RFQ sent to suppliers for a tender's items.
type QuotationRequest struct {
	ID               string          `db:"id" json:"id"`
	Number           string          `db:"number" json:"number"`
	TenderReference  string          `db:"tender_reference" json:"tender_reference"`
	Description      string          `db:"description" json:"description"`
	Status           QuotationStatus `db:"status" json:"status"`
	ResponseDeadline time.Time       `db:"response_deadline" json:"response_deadline"`
	Notes            *string         `db:"notes" json:"notes,omitempty"`
	CreatedAt        time.Time       `db:"created_at" json:"created_at"`
}

// RequestItem is a line item of a quotation request. Items are created
// atomically with the request and never change afterwards.
type RequestItem struct {
	ID             string  `db:"id" json:"id"`
	RequestID      string  `db:"request_id" json:"request_id"`
	Code           string  `db:"code" json:"code"`
	Description    string  `db:"description" json:"description"`
	Quantity       int     `db:"quantity" json:"quantity"`
	Unit           string  `db:"unit" json:"unit"`
	Specifications *string `db:"specifications" json:"specifications,omitempty"`
	Position       int     `db:"position" json:"position"`
}

// QuotationFilter constrains listing queries.
type QuotationFilter struct {
	Status          QuotationStatus
	TenderReference string
	Limit           int
	Offset          int
}

// QuotationStats aggregates system-wide quotation figures.
type QuotationStats struct {
	TotalRequests          int     `db:"total_requests" json:"total_requests"`
	OpenRequests           int     `db:"open_requests" json:"open_requests"`
	ClosedRequests         int     `db:"closed_requests" json:"closed_requests"`
	TotalProposals         int     `db:"total_proposals" json:"total_proposals"`
	TotalSavings           float64 `db:"total_savings" json:"total_savings"`
	AvgProposalsPerRequest float64 `json:"avg_proposals_per_request"`
}
