package scoring

import (
	"fmt"
	"time"

	"github.com/felixphool/healthtwin/internal/domain"
)

// buildResult assembles the final HealthScoreResult from the aggregate
// score and the seven category results. Findings are partitioned by kind
// in canonical category order (then ladder order within each category), so
// the output is deterministic regardless of how the scorers were
// scheduled. Recommendations and alerts are de-duplicated preserving first
// occurrence.
func buildResult(score int, category domain.HealthCategory, results *[7]domain.CategoryResult, runDate time.Time) *domain.HealthScoreResult {
	res := &domain.HealthScoreResult{
		OverallScore:      score,
		Category:          category,
		RiskFactors:       []string{},
		Strengths:         []string{},
		Alerts:            []string{},
		Recommendations:   []string{},
		DetailedBreakdown: make(map[domain.CategoryName]domain.CategoryBreakdown, len(results)),
		NextReviewDate:    category.NextReviewFrom(runDate).Format("2006-01-02"),
		ScoredAt:          runDate,
		EngineVersion:     EngineVersion,
	}

	seenAlert := make(map[string]bool)
	seenRec := make(map[string]bool)

	for _, cr := range results {
		for _, f := range cr.Findings {
			switch f.Kind {
			case domain.RiskFactor:
				res.RiskFactors = append(res.RiskFactors, f.Text)
			case domain.Strength:
				res.Strengths = append(res.Strengths, f.Text)
			case domain.Alert:
				if !seenAlert[f.Text] {
					seenAlert[f.Text] = true
					res.Alerts = append(res.Alerts, f.Text)
				}
			}
		}

		for _, rec := range cr.Recommendations {
			if !seenRec[rec] {
				seenRec[rec] = true
				res.Recommendations = append(res.Recommendations, rec)
			}
		}

		weight := categoryWeights[cr.Category]
		res.DetailedBreakdown[cr.Category] = domain.CategoryBreakdown{
			Delta:    cr.Delta,
			Weight:   weight,
			Weighted: weight * float64(cr.Delta),
			Score:    clampScore(100 + cr.Delta),
		}
	}

	res.ImprovementOpportunities = improvementOpportunities(results, score)

	return res
}

// improvementOpportunities derives actionable focus areas from the
// per-category scores plus one general line keyed to the overall score.
func improvementOpportunities(results *[7]domain.CategoryResult, overall int) []string {
	opportunities := make([]string, 0, len(results)+1)

	for _, cr := range results {
		catScore := clampScore(100 + cr.Delta)
		if catScore < 80 {
			opportunities = append(opportunities,
				fmt.Sprintf("Focus on %s improvements (current: %d/100)", cr.Category, catScore))
		}
	}

	switch {
	case overall < 60:
		opportunities = append(opportunities, "Consider comprehensive health evaluation")
	case overall < 80:
		opportunities = append(opportunities, "Focus on high-impact lifestyle changes")
	default:
		opportunities = append(opportunities, "Maintain current healthy habits")
	}

	return opportunities
}
