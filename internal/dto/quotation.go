package dto

import "github.com/hospshop/procurement-api/internal/models"

// QuotationItemInput describes one line item of a new quotation request.
type QuotationItemInput struct {
	Code           string `json:"code" validate:"required"`
	Description    string `json:"description" validate:"required"`
	Quantity       int    `json:"quantity" validate:"required,gt=0"`
	Unit           string `json:"unit" validate:"required"`
	Specifications string `json:"specifications"`
}

// CreateQuotationRequest payload for opening a new RFQ.
type CreateQuotationRequest struct {
	TenderReference string               `json:"tender_reference" validate:"required"`
	Description     string               `json:"description" validate:"required"`
	Items           []QuotationItemInput `json:"items" validate:"required,min=1,dive"`
	ResponseDays    int                  `json:"response_days" validate:"gte=0"`
	Notes           string               `json:"notes"`
}

// QuotationResponse returns a request together with its items.
type QuotationResponse struct {
	models.QuotationRequest
	Items []models.RequestItem `json:"items"`
}

// QuotationQuery mirrors supported listing filters.
type QuotationQuery struct {
	Status          string
	TenderReference string
	Limit           int
	Offset          int
}
