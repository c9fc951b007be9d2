package services

import (
	"testing"

	"vehicle-inspection-server/models"
)

func TestComputeVerdict(t *testing.T) {
	tests := []struct {
		name      string
		scores    []int
		want      models.InspectionResult
		wantTotal int
	}{
		{"all perfect, exactly at threshold", []int{10, 10, 10, 10, 10, 10, 10, 10}, models.ResultSafe, 80},
		{"one point below threshold", []int{10, 10, 10, 10, 10, 10, 10, 9}, models.ResultRecheck, 79},
		{"high total but one weak item", []int{4, 10, 10, 10, 10, 10, 10, 10}, models.ResultRecheck, 84},
		{"item at minimum but total short", []int{5, 10, 10, 10, 10, 10, 10, 10}, models.ResultRecheck, 75},
		{"all low", []int{5, 5, 5, 5, 5, 3, 3, 3}, models.ResultRecheck, 34},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, total, _ := ComputeVerdict(tt.scores)
			if got != tt.want {
				t.Errorf("ComputeVerdict(%v) = %s, want %s", tt.scores, got, tt.want)
			}
			if total != tt.wantTotal {
				t.Errorf("total = %d, want %d", total, tt.wantTotal)
			}
		})
	}
}

func TestComputeVerdictReportsMinimum(t *testing.T) {
	_, _, min := ComputeVerdict([]int{9, 3, 10, 10, 10, 10, 10, 10})
	if min != 3 {
		t.Errorf("min = %d, want 3", min)
	}
}

func TestValidObservation(t *testing.T) {
	if validObservation("   short  ") {
		t.Error("whitespace padding must not satisfy the minimum length")
	}
	if validObservation("") {
		t.Error("an empty observation is invalid")
	}
	if !validObservation("frenos desgastados") {
		t.Error("a real observation must be accepted")
	}
}
