package matching

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"contractormatching/lib/models"
)

// Score weights
const (
	BaselineScore       = 10
	TradeMatchScore     = 20
	ZipMatchScore       = 30
	CityMatchScore      = 25
	StateMatchScore     = 15
	EmergencyScore      = 10
	RecentIncidentScore = 5
	ScheduleFitScore    = 5
	OnlineBookingScore  = 5
)

// relevantTrades maps a peril to the trades that can repair it
var relevantTrades = map[models.Peril][]string{
	models.PerilFlood: {"water_mitigation", "rebuild"},
	models.PerilWater: {"water_mitigation", "mold"},
	models.PerilWind:  {"rebuild", "roofing"},
	models.PerilFire:  {"rebuild", "smoke_restoration"},
	models.PerilMold:  {"mold", "water_mitigation"},
	models.PerilOther: {"rebuild"},
}

// RelevantTrades returns the trade tags that qualify for a peril's trade bonus
func RelevantTrades(peril models.Peril) []string {
	if trades, ok := relevantTrades[peril]; ok {
		return trades
	}
	return relevantTrades[models.PerilOther]
}

// Score ranks contractors against a project. Only active contractors are scored,
// anything at or below zero is dropped, and ties keep their input order.
func Score(project models.Project, contractors []models.Contractor, now time.Time) []models.ScoredContractor {
	scored := make([]models.ScoredContractor, 0, len(contractors))
	for _, contractor := range contractors {
		if !contractor.IsActive() {
			continue
		}

		candidate := scoreContractor(project, contractor, now)
		if candidate.Score <= 0 {
			continue
		}
		scored = append(scored, candidate)
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})

	return scored
}

func scoreContractor(project models.Project, contractor models.Contractor, now time.Time) models.ScoredContractor {
	result := models.ScoredContractor{
		Contractor: contractor,
		Reasons:    []string{},
	}
	add := func(points int, reason string) {
		result.Score += points
		result.Reasons = append(result.Reasons, reason)
	}

	add(BaselineScore, "Available")

	if hasAnyTrade(contractor.Trades, RelevantTrades(project.Peril)) {
		add(TradeMatchScore, fmt.Sprintf("Specializes in %s damage", project.Peril))
	}

	if points, reason := geographicScore(project, contractor.ServiceAreas); points > 0 {
		add(points, reason)
	}

	if daysSince, ok := project.DaysSinceIncident(now); ok {
		switch {
		case daysSince <= 1:
			add(EmergencyScore, "Emergency response: incident within 1 day")
		case daysSince <= 3:
			add(RecentIncidentScore, "Recent incident: within 3 days")
		}
	}

	if project.PreferredDate != nil {
		daysUntil := int(math.Ceil(project.PreferredDate.Sub(now).Hours() / 24))
		if daysUntil >= 1 && daysUntil <= 7 {
			add(ScheduleFitScore, "Preferred inspection date within the next week")
		}
	}

	if strings.TrimSpace(contractor.SchedulingLink) != "" {
		add(OnlineBookingScore, "Offers online scheduling")
	}

	return result
}

// geographicScore applies the zip > city > state ladder; only the first hit counts
func geographicScore(project models.Project, serviceAreas []string) (int, string) {
	areas := make(map[string]struct{}, len(serviceAreas))
	for _, area := range serviceAreas {
		areas[normalize(area)] = struct{}{}
	}
	covers := func(value string) bool {
		if normalize(value) == "" {
			return false
		}
		_, ok := areas[normalize(value)]
		return ok
	}

	switch {
	case covers(project.ZipCode):
		return ZipMatchScore, fmt.Sprintf("Serves zip code %s", project.ZipCode)
	case covers(project.City):
		return CityMatchScore, fmt.Sprintf("Serves %s", project.City)
	case covers(project.State):
		return StateMatchScore, fmt.Sprintf("Serves %s", strings.ToUpper(project.State))
	default:
		return 0, ""
	}
}

func hasAnyTrade(trades, wanted []string) bool {
	for _, trade := range trades {
		for _, w := range wanted {
			if normalize(trade) == w {
				return true
			}
		}
	}
	return false
}

func normalize(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}
