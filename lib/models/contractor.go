package models

import "time"

// Capacity is a contractor's availability for new work
type Capacity string

const (
	CapacityActive Capacity = "active"
	CapacityPaused Capacity = "paused"
)

// Contractor represents a service provider based on matching.contractors table
type Contractor struct {
	ContractorID   string    `json:"contractor_id"`
	CompanyName    string    `json:"company_name"`
	ContactName    string    `json:"contact_name,omitempty"`
	Email          string    `json:"email,omitempty"`
	Phone          string    `json:"phone,omitempty"`
	ServiceAreas   []string  `json:"service_areas"`
	Trades         []string  `json:"trades"`
	Capacity       Capacity  `json:"capacity"`
	SchedulingLink string    `json:"scheduling_link,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// IsActive reports whether the contractor accepts new work
func (c Contractor) IsActive() bool {
	return c.Capacity == CapacityActive
}

// ScoredContractor is a contractor ranked against one project
type ScoredContractor struct {
	Contractor
	Score   int      `json:"score"`
	Reasons []string `json:"reasons"`
}
