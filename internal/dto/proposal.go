package dto

import "github.com/hospshop/procurement-api/internal/models"

// ProposalLineInput prices one request item.
type ProposalLineInput struct {
	RequestItemID string  `json:"request_item_id" validate:"required"`
	UnitPrice     float64 `json:"unit_price" validate:"gte=0"`
	Brand         string  `json:"brand"`
	Model         string  `json:"model"`
}

// SubmitProposalRequest payload for registering a supplier proposal.
type SubmitProposalRequest struct {
	SupplierID   string              `json:"supplier_id" validate:"required"`
	LinePrices   []ProposalLineInput `json:"line_prices" validate:"required,min=1,dive"`
	DeliveryTime string              `json:"delivery_time" validate:"required"`
	PaymentTerms string              `json:"payment_terms"`
	ValidityDays int                 `json:"validity_days" validate:"gte=0"`
	Notes        string              `json:"notes"`
}

// SubmitProposalResponse returns the stored proposal. Incomplete is set
// when the proposal prices fewer items than the request defines; that is
// a warning to the caller, not a rejection.
type SubmitProposalResponse struct {
	models.SupplierProposal
	Items       []models.ProposalItem `json:"items"`
	Incomplete  bool                  `json:"incomplete"`
	PricedItems int                   `json:"priced_items"`
	TotalItems  int                   `json:"total_items"`
}
