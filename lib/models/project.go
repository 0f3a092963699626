package models

import (
	"strings"
	"time"
)

// Peril is the category of disaster damage reported on a project
type Peril string

const (
	PerilFlood Peril = "flood"
	PerilWater Peril = "water"
	PerilWind  Peril = "wind"
	PerilFire  Peril = "fire"
	PerilMold  Peril = "mold"
	PerilOther Peril = "other"
)

// ParsePeril normalizes a stored peril value, mapping anything unknown to PerilOther
func ParsePeril(value string) Peril {
	switch p := Peril(strings.ToLower(strings.TrimSpace(value))); p {
	case PerilFlood, PerilWater, PerilWind, PerilFire, PerilMold:
		return p
	default:
		return PerilOther
	}
}

// ProjectStatus is the lifecycle state of a damage claim
type ProjectStatus string

const (
	ProjectStatusSubmitted  ProjectStatus = "submitted"
	ProjectStatusMatched    ProjectStatus = "matched"
	ProjectStatusScheduled  ProjectStatus = "scheduled"
	ProjectStatusOnsite     ProjectStatus = "onsite"
	ProjectStatusPacketSent ProjectStatus = "packet_sent"
	ProjectStatusPaid       ProjectStatus = "paid"
	ProjectStatusCompleted  ProjectStatus = "completed"
)

// Project represents a damage claim based on matching.projects table
type Project struct {
	ProjectID       string        `json:"project_id"`
	Address         string        `json:"address,omitempty"`
	City            string        `json:"city,omitempty"`
	State           string        `json:"state,omitempty"`
	ZipCode         string        `json:"zip_code,omitempty"`
	Peril           Peril         `json:"peril"`
	IncidentAt      *time.Time    `json:"incident_at,omitempty"`
	PreferredDate   *time.Time    `json:"preferred_date,omitempty"`
	PreferredWindow string        `json:"preferred_window,omitempty"`
	ContactName     string        `json:"contact_name,omitempty"`
	ContactEmail    string        `json:"contact_email,omitempty"`
	ContactPhone    string        `json:"contact_phone,omitempty"`
	Description     string        `json:"description,omitempty"`
	Status          ProjectStatus `json:"status"`
	CreatedAt       time.Time     `json:"created_at"`
	UpdatedAt       time.Time     `json:"updated_at"`
}

// Location renders "City, ST" with whatever parts are present
func (p Project) Location() string {
	switch {
	case p.City != "" && p.State != "":
		return p.City + ", " + p.State
	case p.City != "":
		return p.City
	default:
		return p.State
	}
}

// DaysSinceIncident is floor((now - incident) / 24h). ok is false when no
// incident time is recorded or it lies in the future.
func (p Project) DaysSinceIncident(now time.Time) (days int, ok bool) {
	if p.IncidentAt == nil || p.IncidentAt.After(now) {
		return 0, false
	}
	return int(now.Sub(*p.IncidentAt) / (24 * time.Hour)), true
}

// IsEmergency reports an incident no more than one whole day old
func (p Project) IsEmergency(now time.Time) bool {
	days, ok := p.DaysSinceIncident(now)
	return ok && days <= 1
}
