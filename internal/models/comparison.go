package models

import "time"

// RankedProposal is one entry in a price comparison, cheapest first.
// Ties on total value rank the earlier submission first.
type RankedProposal struct {
	Rank         int            `json:"rank"`
	ProposalID   string         `json:"proposal_id"`
	SupplierID   string         `json:"supplier_id"`
	SupplierName string         `json:"supplier_name,omitempty"`
	Number       string         `json:"number"`
	TotalValue   float64        `json:"total_value"`
	DeliveryTime string         `json:"delivery_time"`
	Status       ProposalStatus `json:"status"`
	SubmittedAt  time.Time      `json:"submitted_at"`
}

// ProposalSummary identifies one proposal and its total in comparison
// statistics.
type ProposalSummary struct {
	ProposalID   string  `json:"proposal_id"`
	SupplierID   string  `json:"supplier_id"`
	SupplierName string  `json:"supplier_name,omitempty"`
	TotalValue   float64 `json:"total_value"`
}

// ComparisonResult holds the ranking and savings statistics for all
// proposals of a quotation request. A request with no proposals yields
// TotalProposals == 0 and nil summaries.
type ComparisonResult struct {
	RequestID         string           `json:"request_id"`
	TotalProposals    int              `json:"total_proposals"`
	Proposals         []RankedProposal `json:"proposals"`
	Cheapest          *ProposalSummary `json:"cheapest,omitempty"`
	MostExpensive     *ProposalSummary `json:"most_expensive,omitempty"`
	AveragePrice      float64          `json:"average_price"`
	PotentialSavings  float64          `json:"potential_savings"`
	PriceVariationPct float64          `json:"price_variation_pct"`
	GeneratedAt       time.Time        `json:"generated_at"`
}
