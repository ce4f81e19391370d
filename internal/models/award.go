package models

import "time"

// AwardCriterion enumerates supported selection criteria.
type AwardCriterion string

const (
	CriterionLowestPrice     AwardCriterion = "lowest_price"
	CriterionBestValue       AwardCriterion = "best_value"
	CriterionFastestDelivery AwardCriterion = "fastest_delivery"
)

// AwardDecision records the winning proposal for a quotation request.
// Exactly one decision exists per request and it is immutable.
type AwardDecision struct {
	ID                string         `db:"id" json:"id"`
	RequestID         string         `db:"request_id" json:"request_id"`
	WinningProposalID string         `db:"winning_proposal_id" json:"winning_proposal_id"`
	Criterion         AwardCriterion `db:"criterion" json:"criterion"`
	Justification     *string        `db:"justification" json:"justification,omitempty"`
	Savings           float64        `db:"savings" json:"savings"`
	DecidedBy         *string        `db:"decided_by" json:"decided_by,omitempty"`
	DecidedAt         time.Time      `db:"decided_at" json:"decided_at"`
}
