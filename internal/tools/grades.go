package tools

import (
	"fmt"
	"math"

	"github.com/yourusername/challenge-blueprint/internal/models"
)

// Grade is one assessed component.
type Grade struct {
	Name   string  `json:"name"`
	Score  float64 `json:"score"`  // percent, 0–100
	Weight float64 `json:"weight"` // relative weight, > 0
}

// GradeResult is the weighted average and its letter.
type GradeResult struct {
	Average     float64 `json:"average"`
	Letter      string  `json:"letter"`
	TotalWeight float64 `json:"totalWeight"`
}

var letterCutoffs = []struct {
	min    float64
	letter string
}{
	{93, "A"}, {90, "A-"}, {87, "B+"}, {83, "B"}, {80, "B-"},
	{77, "C+"}, {73, "C"}, {70, "C-"}, {67, "D+"}, {60, "D"},
}

// WeightedAverage averages scores by weight. Weights need not sum to 100.
func WeightedAverage(grades []Grade) (GradeResult, error) {
	if len(grades) == 0 {
		return GradeResult{}, &models.ValidationError{Field: "grades", Reason: "at least one grade is required"}
	}
	var sum, weights float64
	for i, g := range grades {
		if math.IsNaN(g.Score) || g.Score < 0 || g.Score > 100 {
			return GradeResult{}, &models.ValidationError{Field: fmt.Sprintf("grades[%d].score", i), Reason: "must be between 0 and 100"}
		}
		if math.IsNaN(g.Weight) || math.IsInf(g.Weight, 0) || g.Weight <= 0 {
			return GradeResult{}, &models.ValidationError{Field: fmt.Sprintf("grades[%d].weight", i), Reason: "must be greater than 0"}
		}
		sum += g.Score * g.Weight
		weights += g.Weight
	}
	avg := round(sum/weights, 2)
	return GradeResult{Average: avg, Letter: LetterGrade(avg), TotalWeight: weights}, nil
}

// LetterGrade maps a percentage onto the US letter scale.
func LetterGrade(score float64) string {
	for _, c := range letterCutoffs {
		if score >= c.min {
			return c.letter
		}
	}
	return "F"
}
