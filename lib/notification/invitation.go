package notification

import (
	"fmt"
	"strings"
	"time"

	"contractormatching/lib/models"
	"contractormatching/lib/util"
)

const (
	maxReasons        = 2
	smsDescriptionMax = 100
	ellipsis          = "..."
)

// Invitation is everything a channel needs to render one job offer
type Invitation struct {
	Project    models.Project
	Contractor models.Contractor
	AcceptURL  string
	DeclineURL string
	Reasons    []string
	ExpiresIn  time.Duration
	// SentAt drives the urgency framing; zero means now
	SentAt time.Time
}

// invitationView is the flattened data handed to the templates
type invitationView struct {
	Urgency         string
	Greeting        string
	Peril           string
	Location        string
	Address         string
	Description     string
	ContactName     string
	ContactPhone    string
	ContactEmail    string
	PreferredDate   string
	PreferredWindow string
	Reasons         []string
	AcceptURL       string
	DeclineURL      string
	ExpiryHours     int
}

func (inv Invitation) view() invitationView {
	sentAt := inv.SentAt
	if sentAt.IsZero() {
		sentAt = time.Now()
	}

	emergency := inv.Project.IsEmergency(sentAt)
	reasons := inv.Reasons
	if len(reasons) > maxReasons {
		reasons = reasons[:maxReasons]
	}

	preferredDate := "Flexible"
	if inv.Project.PreferredDate != nil {
		preferredDate = inv.Project.PreferredDate.Format("Mon Jan 2, 2006")
	}

	greeting := inv.Contractor.ContactName
	if greeting == "" {
		greeting = inv.Contractor.CompanyName
	}

	hours := int(inv.ExpiresIn.Hours())
	if hours <= 0 {
		hours = 48
	}

	location := inv.Project.Location()
	if location == "" {
		location = inv.Project.ZipCode
	}

	return invitationView{
		Urgency:         util.ConditionalString(emergency, "EMERGENCY", "URGENT"),
		Greeting:        greeting,
		Peril:           strings.ToLower(string(inv.Project.Peril)),
		Location:        location,
		Address:         inv.Project.Address,
		Description:     strings.TrimSpace(inv.Project.Description),
		ContactName:     util.ConditionalString(inv.Project.ContactName != "", inv.Project.ContactName, "the property owner"),
		ContactPhone:    inv.Project.ContactPhone,
		ContactEmail:    inv.Project.ContactEmail,
		PreferredDate:   preferredDate,
		PreferredWindow: inv.Project.PreferredWindow,
		Reasons:         reasons,
		AcceptURL:       inv.AcceptURL,
		DeclineURL:      inv.DeclineURL,
		ExpiryHours:     hours,
	}
}

// Subject is the email subject line
func (inv Invitation) Subject() string {
	v := inv.view()
	return fmt.Sprintf("%s: New %s damage job in %s", v.Urgency, v.Peril, v.Location)
}

// truncate shortens s to max runes, marking the cut with an ellipsis
func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + ellipsis
}
