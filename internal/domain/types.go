// Package domain contains core business entities and types for composite
// health scoring of a patient's physiological measurement panel.
//
// Score bands, finding kinds, and lifestyle enumerations follow the clinical
// threshold tables used by the scoring engine (AHA blood pressure stages,
// ADA glycemic cut points, ATP III lipid ranges).
package domain

import (
	"errors"
	"time"
)

// HealthCategory represents the overall classification of a composite
// health score. The five bands partition [0,100] with no overlap and no
// gaps, so the category is a pure function of the score.
type HealthCategory string

const (
	EXCELLENT HealthCategory = "EXCELLENT" // 90-100
	GOOD      HealthCategory = "GOOD"      // 75-89
	FAIR      HealthCategory = "FAIR"      // 60-74
	POOR      HealthCategory = "POOR"      // 40-59
	CRITICAL  HealthCategory = "CRITICAL"  // 0-39
)

// FindingKind tags a textual finding produced when a threshold bucket fires.
type FindingKind string

const (
	RiskFactor FindingKind = "risk_factor"
	Strength   FindingKind = "strength"
	Alert      FindingKind = "alert"
)

// SmokingStatus is the smoking history enumeration accepted by the
// lifestyle scorer.
type SmokingStatus string

const (
	SmokingNever   SmokingStatus = "never"
	SmokingFormer  SmokingStatus = "former"
	SmokingCurrent SmokingStatus = "current"
)

// AlcoholConsumption is the alcohol intake enumeration accepted by the
// lifestyle scorer.
type AlcoholConsumption string

const (
	AlcoholNone     AlcoholConsumption = "none"
	AlcoholModerate AlcoholConsumption = "moderate"
	AlcoholHeavy    AlcoholConsumption = "heavy"
)

// CategoryName identifies one of the seven scored measurement categories.
// The declaration order below is the canonical evaluation and reporting
// order; result assembly re-imposes it regardless of how the scorers ran.
type CategoryName string

const (
	CategoryVitals    CategoryName = "vitals"
	CategoryMetabolic CategoryName = "metabolic"
	CategoryLipids    CategoryName = "lipids"
	CategoryLifestyle CategoryName = "lifestyle"
	CategoryCBC       CategoryName = "cbc"
	CategoryLiver     CategoryName = "liver"
	CategoryThyroid   CategoryName = "thyroid"
)

// CategoryOrder is the canonical ordering of the seven categories.
var CategoryOrder = [7]CategoryName{
	CategoryVitals,
	CategoryMetabolic,
	CategoryLipids,
	CategoryLifestyle,
	CategoryCBC,
	CategoryLiver,
	CategoryThyroid,
}

// ErrNotFound reports a lookup for an entity that does not exist, such
// as touching an unknown patient session. Malformed enum values are not
// sentinels; they surface as ValidationError from the input validator.
var ErrNotFound = errors.New("not found")

// categoryBand describes one score band: inclusive bounds, a display label,
// and the recommended interval until the next review. Display metadata is
// kept here, separate from the HealthCategory value itself.
type categoryBand struct {
	Low         int
	High        int
	Label       string
	Description string
	reviewAdd   func(time.Time) time.Time
}

var categoryBands = map[HealthCategory]categoryBand{
	EXCELLENT: {90, 100, "excellent", "Optimal health status",
		func(t time.Time) time.Time { return t.AddDate(0, 6, 0) }},
	GOOD: {75, 89, "good", "Good health with minor areas for improvement",
		func(t time.Time) time.Time { return t.AddDate(0, 3, 0) }},
	FAIR: {60, 74, "fair", "Moderate health concerns requiring attention",
		func(t time.Time) time.Time { return t.AddDate(0, 1, 0) }},
	POOR: {40, 59, "poor", "Significant health issues needing intervention",
		func(t time.Time) time.Time { return t.AddDate(0, 0, 14) }},
	CRITICAL: {0, 39, "critical", "Critical health status requiring immediate care",
		func(t time.Time) time.Time { return t.AddDate(0, 0, 7) }},
}

// CategoryForScore maps a clamped overall score to its health category.
// Callers must pass a score already clamped to [0,100]; scores outside the
// range fall through to the nearest band so the mapping stays total.
func CategoryForScore(score int) HealthCategory {
	switch {
	case score >= 90:
		return EXCELLENT
	case score >= 75:
		return GOOD
	case score >= 60:
		return FAIR
	case score >= 40:
		return POOR
	default:
		return CRITICAL
	}
}

// IsValid validates that the HealthCategory is one of the five bands.
// Only valid categories may enter clinical display or persistence paths.
func (c HealthCategory) IsValid() bool {
	_, ok := categoryBands[c]
	return ok
}

// String returns the string representation of the category.
func (c HealthCategory) String() string {
	return string(c)
}

// Label returns the lowercase display label of the category.
func (c HealthCategory) Label() string {
	return categoryBands[c].Label
}

// Description returns a human-readable description of the category for
// reports and patient communication.
func (c HealthCategory) Description() string {
	if band, ok := categoryBands[c]; ok {
		return band.Description
	}
	return "Unknown health category"
}

// Bounds returns the inclusive score bounds of the category's band.
func (c HealthCategory) Bounds() (low, high int) {
	band := categoryBands[c]
	return band.Low, band.High
}

// NextReviewFrom computes the recommended next review date for a run that
// completed at the given time. CRITICAL reviews in one week, POOR in two,
// FAIR in one month, GOOD in three, EXCELLENT in six.
func (c HealthCategory) NextReviewFrom(runDate time.Time) time.Time {
	if band, ok := categoryBands[c]; ok {
		return band.reviewAdd(runDate)
	}
	return runDate.AddDate(0, 0, 7)
}

// RequiresUrgentReview reports whether the category warrants clinical
// follow-up ahead of the regular review cadence.
func (c HealthCategory) RequiresUrgentReview() bool {
	switch c {
	case POOR, CRITICAL:
		return true
	default:
		return false
	}
}

// LogFields returns structured logging fields for audit trails.
func (c HealthCategory) LogFields() map[string]any {
	return map[string]any{
		"health_category": string(c),
		"label":           c.Label(),
		"is_valid":        c.IsValid(),
		"urgent_review":   c.RequiresUrgentReview(),
	}
}

// IsValid validates the finding kind.
func (k FindingKind) IsValid() bool {
	switch k {
	case RiskFactor, Strength, Alert:
		return true
	default:
		return false
	}
}

// IsValid validates the smoking status enumeration.
func (s SmokingStatus) IsValid() bool {
	switch s {
	case SmokingNever, SmokingFormer, SmokingCurrent:
		return true
	default:
		return false
	}
}

// IsValid validates the alcohol consumption enumeration.
func (a AlcoholConsumption) IsValid() bool {
	switch a {
	case AlcoholNone, AlcoholModerate, AlcoholHeavy:
		return true
	default:
		return false
	}
}

// IsValid validates the category name.
func (n CategoryName) IsValid() bool {
	for _, c := range CategoryOrder {
		if n == c {
			return true
		}
	}
	return false
}

// String returns the string representation of the category name.
func (n CategoryName) String() string {
	return string(n)
}
