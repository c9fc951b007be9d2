package services

import (
	"strings"

	"vehicle-inspection-server/models"
)

const (
	// passingTotal is the inclusive total-score threshold for a SEGURO verdict.
	passingTotal = 80
	// passingItemMin is the minimum every single chequeo must reach.
	passingItemMin = 5
	// observationMinLen is the trimmed length an observation must have when
	// the verdict is RECHEQUEAR.
	observationMinLen = 10
)

// ComputeVerdict applies the scoring rule: SEGURO when the total reaches
// passingTotal and no chequeo scored below passingItemMin, otherwise
// RECHEQUEAR. Returns the verdict, the total and the minimum score.
func ComputeVerdict(scores []int) (models.InspectionResult, int, int) {
	total := 0
	min := models.ScoreMax
	for _, score := range scores {
		total += score
		if score < min {
			min = score
		}
	}
	if total >= passingTotal && min >= passingItemMin {
		return models.ResultSafe, total, min
	}
	return models.ResultRecheck, total, min
}

// validObservation reports whether the observation satisfies the mandatory
// minimum for a RECHEQUEAR verdict.
func validObservation(observation string) bool {
	return len(strings.TrimSpace(observation)) >= observationMinLen
}
