package models

// JobAction is the response a contractor gives to an invitation
type JobAction string

const (
	JobActionAccept  JobAction = "accept"
	JobActionDecline JobAction = "decline"
)

// Valid reports whether the action is one of the known job actions
func (a JobAction) Valid() bool {
	return a == JobActionAccept || a == JobActionDecline
}

// ResultingStatus is the match request status recorded for the action
func (a JobAction) ResultingStatus() MatchRequestStatus {
	if a == JobActionAccept {
		return MatchRequestAccepted
	}
	return MatchRequestDeclined
}

// ActionTokenPayload is the signed content of an accept/decline link
type ActionTokenPayload struct {
	ProjectID    string    `json:"projectId"`
	ContractorID string    `json:"contractorId"`
	Action       JobAction `json:"action"`
	Exp          int64     `json:"exp"`
}
