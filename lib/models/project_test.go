package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func Test_Project_DaysSinceIncident(t *testing.T) {
	now := time.Date(2026, 8, 20, 14, 0, 0, 0, time.UTC)
	at := func(d time.Duration) *time.Time {
		incident := now.Add(-d)
		return &incident
	}

	cases := []struct {
		name      string
		incident  *time.Time
		days      int
		ok        bool
		emergency bool
	}{
		{name: "none", incident: nil},
		{name: "future", incident: at(-time.Hour)},
		{name: "hours ago", incident: at(5 * time.Hour), days: 0, ok: true, emergency: true},
		{name: "just under two days", incident: at(47*time.Hour + 59*time.Minute), days: 1, ok: true, emergency: true},
		{name: "two days", incident: at(48 * time.Hour), days: 2, ok: true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			project := Project{IncidentAt: tc.incident}

			days, ok := project.DaysSinceIncident(now)

			assert.Equal(t, tc.ok, ok)
			assert.Equal(t, tc.days, days)
			assert.Equal(t, tc.emergency, project.IsEmergency(now))
		})
	}
}
