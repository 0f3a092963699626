package models

import "time"

// MatchRequestStatus tracks a contractor's response to an invitation
type MatchRequestStatus string

const (
	MatchRequestSent     MatchRequestStatus = "sent"
	MatchRequestAccepted MatchRequestStatus = "accepted"
	MatchRequestDeclined MatchRequestStatus = "declined"
)

// MatchRequest links a project to an invited contractor.
// There is at most one row per (project_id, contractor_id).
type MatchRequest struct {
	MatchRequestID string             `json:"match_request_id"`
	ProjectID      string             `json:"project_id"`
	ContractorID   string             `json:"contractor_id"`
	Status         MatchRequestStatus `json:"status"`
	CreatedAt      time.Time          `json:"created_at"`
	UpdatedAt      time.Time          `json:"updated_at"`
}
