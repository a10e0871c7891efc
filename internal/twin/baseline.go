// Package twin generates synthetic patient baselines and projects them
// forward under lifestyle, diet, medication, and sleep interventions,
// scoring each projected week with the rule engine.
package twin

import (
	"math/rand"
	"strings"

	"github.com/felixphool/healthtwin/internal/domain"
)

// Profile describes the patient a baseline is generated for. The seed
// fixes the RNG, so the same profile always yields the same baseline.
type Profile struct {
	Age        int
	Gender     string // "M" or "F"
	Conditions []string
	Seed       int64
}

func (p Profile) hasCondition(name string) bool {
	for _, c := range p.Conditions {
		if strings.EqualFold(strings.TrimSpace(c), name) {
			return true
		}
	}
	return false
}

// GenerateBaseline produces a plausible full-panel ParameterSet for the
// profile. Values are drawn from adult reference ranges, shifted by age
// group for blood pressure and overridden by known medical conditions.
func GenerateBaseline(p Profile) *domain.ParameterSet {
	rng := rand.New(rand.NewSource(p.Seed))
	params := &domain.ParameterSet{}

	sysLo, sysHi := 110.0, 140.0
	switch {
	case p.Age >= 60:
		sysLo, sysHi = 120, 150
	case p.Age >= 30:
		sysLo, sysHi = 115, 145
	}

	params.Vitals.HeartRate = domain.Float(between(rng, 60, 100))
	params.Vitals.BloodPressureSystolic = domain.Float(between(rng, sysLo, sysHi))
	params.Vitals.BloodPressureDiastolic = domain.Float(between(rng, 70, 90))
	params.Vitals.BMI = domain.Float(round1(between(rng, 19, 32)))

	params.Metabolic.GlucoseFasting = domain.Float(between(rng, 70, 100))
	params.Metabolic.GlucoseRandom = domain.Float(between(rng, 70, 140))
	params.Metabolic.HbA1c = domain.Float(round1(between(rng, 4.0, 5.7)))
	params.Metabolic.Creatinine = domain.Float(round2(between(rng, 0.6, 1.2)))
	params.Metabolic.BUN = domain.Float(between(rng, 7, 20))
	params.Metabolic.Electrolytes = map[string]float64{
		"sodium":      between(rng, 135, 145),
		"potassium":   round1(between(rng, 3.5, 5.0)),
		"chloride":    between(rng, 96, 106),
		"bicarbonate": between(rng, 22, 28),
	}

	params.Lipids.TotalCholesterol = domain.Float(between(rng, 150, 200))
	params.Lipids.LDL = domain.Float(between(rng, 70, 130))
	if p.Gender == "F" {
		params.Lipids.HDL = domain.Float(between(rng, 50, 70))
		params.CBC.Hemoglobin = domain.Float(round1(between(rng, 12.0, 16.0)))
	} else {
		params.Lipids.HDL = domain.Float(between(rng, 40, 60))
		params.CBC.Hemoglobin = domain.Float(round1(between(rng, 14.0, 18.0)))
	}
	params.Lipids.Triglycerides = domain.Float(between(rng, 50, 150))

	params.Liver.ALT = domain.Float(between(rng, 7, 55))
	params.Thyroid.TSH = domain.Float(round2(between(rng, 0.4, 4.0)))

	params.Lifestyle.ExerciseFrequency = domain.Float(float64(rng.Intn(8)))
	params.Lifestyle.SleepDuration = domain.Float(round1(between(rng, 6.0, 9.0)))
	params.Lifestyle.StressLevel = domain.Float(float64(1 + rng.Intn(10)))
	params.Lifestyle.SmokingStatus = []domain.SmokingStatus{
		domain.SmokingNever, domain.SmokingFormer, domain.SmokingCurrent,
	}[rng.Intn(3)]
	params.Lifestyle.AlcoholConsumption = []domain.AlcoholConsumption{
		domain.AlcoholNone, domain.AlcoholModerate, domain.AlcoholHeavy,
	}[rng.Intn(3)]

	applyConditions(rng, p, params)

	return params
}

// applyConditions overrides the healthy draws with ranges characteristic
// of the profile's diagnosed conditions.
func applyConditions(rng *rand.Rand, p Profile, params *domain.ParameterSet) {
	if p.hasCondition("diabetes") {
		params.Metabolic.GlucoseFasting = domain.Float(between(rng, 126, 200))
		params.Metabolic.GlucoseRandom = domain.Float(between(rng, 200, 300))
		params.Metabolic.HbA1c = domain.Float(round1(between(rng, 6.5, 9.0)))
	}
	if p.hasCondition("hypertension") {
		params.Vitals.BloodPressureSystolic = domain.Float(between(rng, 140, 180))
		params.Vitals.BloodPressureDiastolic = domain.Float(between(rng, 90, 110))
	}
	if p.hasCondition("cardiovascular_disease") {
		params.Vitals.HeartRate = domain.Float(between(rng, 70, 110))
		params.Lipids.LDL = domain.Float(between(rng, 100, 160))
	}
	if p.hasCondition("kidney_disease") {
		params.Metabolic.Creatinine = domain.Float(round2(between(rng, 1.3, 3.0)))
		params.Metabolic.BUN = domain.Float(between(rng, 20, 40))
	}
}

func between(rng *rand.Rand, lo, hi float64) float64 {
	return lo + rng.Float64()*(hi-lo)
}

func round1(v float64) float64 {
	return float64(int(v*10+0.5)) / 10
}

func round2(v float64) float64 {
	return float64(int(v*100+0.5)) / 100
}
