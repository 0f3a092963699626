package matching

import "contractormatching/lib/models"

// DefaultMaxContractors is how many contractors are invited per project
const DefaultMaxContractors = 3

// SelectTop returns the first maxCount entries of an already ranked list
func SelectTop(ranked []models.ScoredContractor, maxCount int) []models.ScoredContractor {
	if maxCount <= 0 {
		return []models.ScoredContractor{}
	}
	if len(ranked) < maxCount {
		maxCount = len(ranked)
	}

	selected := make([]models.ScoredContractor, maxCount)
	copy(selected, ranked[:maxCount])
	return selected
}
