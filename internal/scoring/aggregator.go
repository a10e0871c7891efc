package scoring

import (
	"math"

	"github.com/felixphool/healthtwin/internal/domain"
)

// categoryWeights fixes each category's share of the overall score.
// The weights sum to 1.0 and are constants of the design, not runtime
// configurable.
var categoryWeights = map[domain.CategoryName]float64{
	domain.CategoryVitals:    0.25,
	domain.CategoryMetabolic: 0.25,
	domain.CategoryLipids:    0.20,
	domain.CategoryLifestyle: 0.20,
	domain.CategoryCBC:       0.05,
	domain.CategoryLiver:     0.03,
	domain.CategoryThyroid:   0.02,
}

// Weight returns the fixed aggregation weight of a category.
func Weight(name domain.CategoryName) float64 {
	return categoryWeights[name]
}

// aggregate combines the seven category deltas into the overall score and
// its band. Each delta is scaled by its category weight and added to a base
// of 100; the clamp to [0,100] is applied once, after all contributions,
// so bonuses can offset penalties before clamping. Rounding is half away
// from zero (87.5 scores 88, 76.25 scores 76).
func aggregate(results *[7]domain.CategoryResult) (int, domain.HealthCategory) {
	total := 100.0
	for _, r := range results {
		total += categoryWeights[r.Category] * float64(r.Delta)
	}

	score := int(math.Round(total))
	score = clampScore(score)

	return score, domain.CategoryForScore(score)
}

// clampScore bounds a score to [0,100].
func clampScore(score int) int {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}
