package models

// WorkflowOutcome is the terminal state of one matching run
type WorkflowOutcome string

const (
	OutcomeSucceeded           WorkflowOutcome = "succeeded"
	OutcomeFailedNoContractors WorkflowOutcome = "failed-no-contractors"
	OutcomeFailedNoMatch       WorkflowOutcome = "failed-no-match"
	OutcomeFailedPersistence   WorkflowOutcome = "failed-persistence"
)

// NotificationChannel names an outbound transport
type NotificationChannel string

const (
	ChannelEmail NotificationChannel = "email"
	ChannelSMS   NotificationChannel = "sms"
)

// ChannelDelivery is the recorded outcome of one send attempt
type ChannelDelivery struct {
	Channel   NotificationChannel `json:"channel"`
	Delivered bool                `json:"delivered"`
	MessageID string              `json:"message_id,omitempty"`
	Error     string              `json:"error,omitempty"`
}

// NotificationOutcome groups the send attempts made for one contractor
type NotificationOutcome struct {
	ContractorID string            `json:"contractor_id"`
	Notified     bool              `json:"notified"`
	Deliveries   []ChannelDelivery `json:"deliveries"`
}

// WorkflowResult aggregates one run of the matching workflow
type WorkflowResult struct {
	RunID              string                `json:"run_id"`
	ProjectID          string                `json:"project_id"`
	Success            bool                  `json:"success"`
	Outcome            WorkflowOutcome       `json:"outcome"`
	MatchedContractors int                   `json:"matched_contractors"`
	NotificationsSent  int                   `json:"notifications_sent"`
	EmailsSent         int                   `json:"emails_sent"`
	SMSSent            int                   `json:"sms_sent"`
	MatchRequests      []MatchRequest        `json:"match_requests"`
	Notifications      []NotificationOutcome `json:"notifications"`
	Errors             []string              `json:"errors"`
}

// ProjectMatchResponse is returned by the matching trigger endpoint
type ProjectMatchResponse struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Result  *WorkflowResult `json:"result,omitempty"`
}

// JobResponseResult is returned by the accept/decline endpoints
type JobResponseResult struct {
	Success   bool               `json:"success"`
	Message   string             `json:"message"`
	ProjectID string             `json:"project_id,omitempty"`
	Status    MatchRequestStatus `json:"status,omitempty"`
}
