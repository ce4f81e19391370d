package dto

import "github.com/hospshop/procurement-api/internal/models"

// AwardRequest payload for selecting the winning proposal.
type AwardRequest struct {
	ProposalID    string                `json:"proposal_id" validate:"required"`
	Criterion     models.AwardCriterion `json:"criterion" validate:"required"`
	Justification string                `json:"justification"`
}
