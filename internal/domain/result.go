package domain

import (
	"time"
)

// Finding is a canned text string plus a classification tag, produced when
// a threshold bucket fires during category scoring.
type Finding struct {
	Kind FindingKind `json:"kind"`
	Text string      `json:"text"`
}

// CategoryResult is the output of one category scorer: the unweighted
// point adjustment (penalties negative, bonuses positive) and the ordered
// findings its ladders emitted. Recommendations ride alongside so the
// result builder can assemble them without re-deriving bucket hits.
type CategoryResult struct {
	Category        CategoryName `json:"category"`
	Delta           int          `json:"delta"`
	Findings        []Finding    `json:"findings"`
	Recommendations []string     `json:"recommendations"`
}

// CategoryBreakdown records how one category contributed to the overall
// score: the raw delta, the weight applied, and the weighted contribution
// added to the base score.
type CategoryBreakdown struct {
	Delta    int     `json:"delta"`
	Weight   float64 `json:"weight"`
	Weighted float64 `json:"weighted_contribution"`
	Score    int     `json:"score"` // clamp(100+delta, 0, 100), for display
}

// HealthScoreResult is the final, immutable output of one scoring run.
type HealthScoreResult struct {
	OverallScore             int                                `json:"overall_score"`
	Category                 HealthCategory                     `json:"category"`
	RiskFactors              []string                           `json:"risk_factors"`
	Strengths                []string                           `json:"strengths"`
	Alerts                   []string                           `json:"alerts"`
	Recommendations          []string                           `json:"recommendations"`
	ImprovementOpportunities []string                           `json:"improvement_opportunities"`
	DetailedBreakdown        map[CategoryName]CategoryBreakdown `json:"detailed_breakdown"`
	NextReviewDate           string                             `json:"next_review_date"` // ISO date
	ScoredAt                 time.Time                          `json:"scored_at"`
	EngineVersion            string                             `json:"engine_version"`
}

// ScoreRecord is the persisted form of one scoring run, keyed by the
// patient session that produced it.
type ScoreRecord struct {
	ID           int64          `json:"id"`
	SessionID    string         `json:"session_id"`
	OverallScore int            `json:"overall_score"`
	Category     HealthCategory `json:"category"`
	// Week is zero for a baseline run and 1-based for simulated weeks.
	Week      int                `json:"week"`
	Result    *HealthScoreResult `json:"result"`
	CreatedAt time.Time          `json:"created_at"`
	UpdatedAt time.Time          `json:"updated_at"`
}

// PatientSession groups the score runs of one patient interaction.
type PatientSession struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
