package models

import "time"

// Contract is the generated supply contract for an awarded request.
// The PDF lives in contract storage; this row is the metadata.
type Contract struct {
	ID          string    `db:"id" json:"id"`
	Number      string    `db:"number" json:"number"`
	RequestID   string    `db:"request_id" json:"request_id"`
	ProposalID  string    `db:"proposal_id" json:"proposal_id"`
	SupplierID  string    `db:"supplier_id" json:"supplier_id"`
	TotalValue  float64   `db:"total_value" json:"total_value"`
	FileName    string    `db:"file_name" json:"file_name"`
	GeneratedAt time.Time `db:"generated_at" json:"generated_at"`
}
