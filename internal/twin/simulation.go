package twin

import (
	"context"
	"fmt"
	"math"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/felixphool/healthtwin/internal/domain"
	"github.com/felixphool/healthtwin/internal/scoring"
)

// maxSimulationWeeks caps how far a scenario may be projected. Beyond a
// year the linear intervention model has nothing meaningful to say.
const maxSimulationWeeks = 52

// rampWeeks is the horizon after which an intervention reaches full
// effect; earlier weeks scale linearly.
const rampWeeks = 12.0

// Intervention describes one scenario. All components are optional and
// their effects combine; the last writer wins where two components touch
// the same measurement.
type Intervention struct {
	Exercise   *ExercisePlan   `json:"exercise,omitempty"`
	Diet       *DietPlan       `json:"diet,omitempty"`
	Medication *MedicationPlan `json:"medication,omitempty"`
	Sleep      *SleepPlan      `json:"sleep,omitempty"`
}

// ExercisePlan models a structured exercise program. Only moderate and
// vigorous intensity move the cardiovascular and metabolic markers.
type ExercisePlan struct {
	Intensity        string `json:"intensity"` // light, moderate, vigorous
	DurationMinutes  int    `json:"duration_minutes"`
	FrequencyPerWeek int    `json:"frequency_per_week"`
}

// DietPlan models a diet change; Type is one of low_carb, mediterranean,
// low_sodium.
type DietPlan struct {
	Type string `json:"type"`
}

// MedicationPlan models starting a medication; effects are matched by
// substring on the lowercased name (statin, ace_inhibitor, arb,
// metformin).
type MedicationPlan struct {
	Name string `json:"name"`
	Dose string `json:"dose,omitempty"`
}

// SleepPlan models a sleep hygiene program.
type SleepPlan struct {
	Improvement string `json:"improvement"` // mild, moderate, significant
}

// WeekOutcome is one simulated week: the projected parameters and their
// score.
type WeekOutcome struct {
	Week       int                       `json:"week"`
	Parameters *domain.ParameterSet      `json:"parameters"`
	Result     *domain.HealthScoreResult `json:"result"`
}

// Simulator drives intervention scenarios through the scoring engine.
type Simulator struct {
	engine *scoring.Engine
	logger *logrus.Logger
}

func NewSimulator(engine *scoring.Engine, logger *logrus.Logger) *Simulator {
	return &Simulator{engine: engine, logger: logger}
}

// Simulate projects the baseline week by week under the intervention and
// scores every projected week. Weeks are scored concurrently; the returned
// slice is ordered by week, starting at week 1.
func (s *Simulator) Simulate(ctx context.Context, baseline *domain.ParameterSet, intervention Intervention, weeks int) ([]WeekOutcome, error) {
	if weeks < 1 || weeks > maxSimulationWeeks {
		return nil, fmt.Errorf("duration must be between 1 and %d weeks, got %d", maxSimulationWeeks, weeks)
	}

	outcomes := make([]WeekOutcome, weeks)
	errs := make([]error, weeks)
	var wg sync.WaitGroup

	for week := 1; week <= weeks; week++ {
		wg.Add(1)
		go func(week int) {
			defer wg.Done()
			projected := Project(baseline, intervention, week)
			result, err := s.engine.Score(ctx, projected)
			if err != nil {
				errs[week-1] = fmt.Errorf("scoring week %d: %w", week, err)
				return
			}
			outcomes[week-1] = WeekOutcome{Week: week, Parameters: projected, Result: result}
		}(week)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	s.logger.WithFields(logrus.Fields{
		"weeks":       weeks,
		"start_score": outcomes[0].Result.OverallScore,
		"end_score":   outcomes[weeks-1].Result.OverallScore,
	}).Info("Simulation completed")

	return outcomes, nil
}

// Project returns the baseline shifted by the intervention's effect at
// the given week. Effects ramp linearly to full strength at twelve weeks
// and each carries an absolute cap, so a long scenario cannot drive a
// measurement to an impossible value. The baseline is never mutated.
func Project(baseline *domain.ParameterSet, intervention Intervention, week int) *domain.ParameterSet {
	tf := math.Min(float64(week)/rampWeeks, 1.0)
	projected := cloneParameters(baseline)

	if ex := intervention.Exercise; ex != nil {
		if ex.Intensity == "moderate" || ex.Intensity == "vigorous" {
			lower(projected.Vitals.HeartRate, 5, 15, tf)
			lower(projected.Vitals.BloodPressureSystolic, 8, 20, tf)
			lower(projected.Vitals.BloodPressureDiastolic, 5, 12, tf)
			raise(projected.Lipids.HDL, 5, 15, tf)
			lower(projected.Lipids.Triglycerides, 20, 50, tf)
			lower(projected.Metabolic.GlucoseFasting, 8, 20, tf)
			if h := projected.Metabolic.HbA1c; h != nil && *h > 5.7 {
				lower(h, 0.3, 0.8, tf)
			}
		}
		if f := projected.Lifestyle.ExerciseFrequency; f != nil && float64(ex.FrequencyPerWeek) > *f {
			*f = float64(ex.FrequencyPerWeek)
		}
	}

	if diet := intervention.Diet; diet != nil {
		switch diet.Type {
		case "low_carb":
			lower(projected.Metabolic.GlucoseFasting, 10, 25, tf)
			lower(projected.Lipids.Triglycerides, 25, 60, tf)
		case "mediterranean":
			lower(projected.Lipids.LDL, 15, 35, tf)
			raise(projected.Lipids.HDL, 8, 20, tf)
		case "low_sodium":
			lower(projected.Vitals.BloodPressureSystolic, 10, 25, tf)
			lower(projected.Vitals.BloodPressureDiastolic, 6, 15, tf)
		}
	}

	if med := intervention.Medication; med != nil {
		name := strings.ToLower(med.Name)
		switch {
		case strings.Contains(name, "statin"):
			lower(projected.Lipids.LDL, 30, 70, tf)
			lower(projected.Lipids.TotalCholesterol, 25, 60, tf)
		case strings.Contains(name, "ace_inhibitor"), strings.Contains(name, "arb"):
			lower(projected.Vitals.BloodPressureSystolic, 15, 35, tf)
			lower(projected.Vitals.BloodPressureDiastolic, 8, 20, tf)
		case strings.Contains(name, "metformin"):
			lower(projected.Metabolic.GlucoseFasting, 20, 45, tf)
			if h := projected.Metabolic.HbA1c; h != nil && *h > 5.7 {
				lower(h, 0.8, 1.5, tf)
			}
		}
	}

	if sleep := intervention.Sleep; sleep != nil {
		if sleep.Improvement == "moderate" || sleep.Improvement == "significant" {
			lower(projected.Vitals.BloodPressureSystolic, 5, 12, tf)
			lower(projected.Lifestyle.StressLevel, 2, 5, tf)
			if st := projected.Lifestyle.StressLevel; st != nil && *st < 1 {
				*st = 1
			}
		}
	}

	return projected
}

// lower shifts v down by rate scaled with the time factor, never by more
// than limit. Nil measurements stay nil.
func lower(v *float64, rate, limit, tf float64) {
	if v == nil {
		return
	}
	*v -= math.Min(rate*tf, limit)
}

func raise(v *float64, rate, limit, tf float64) {
	if v == nil {
		return
	}
	*v += math.Min(rate*tf, limit)
}

// cloneParameters deep-copies a ParameterSet so projections never alias
// the baseline's measurements.
func cloneParameters(p *domain.ParameterSet) *domain.ParameterSet {
	clone := *p
	clone.Vitals.HeartRate = cloneFloat(p.Vitals.HeartRate)
	clone.Vitals.BloodPressureSystolic = cloneFloat(p.Vitals.BloodPressureSystolic)
	clone.Vitals.BloodPressureDiastolic = cloneFloat(p.Vitals.BloodPressureDiastolic)
	clone.Vitals.BMI = cloneFloat(p.Vitals.BMI)
	clone.Metabolic.GlucoseFasting = cloneFloat(p.Metabolic.GlucoseFasting)
	clone.Metabolic.HbA1c = cloneFloat(p.Metabolic.HbA1c)
	clone.Metabolic.Creatinine = cloneFloat(p.Metabolic.Creatinine)
	clone.Metabolic.GlucoseRandom = cloneFloat(p.Metabolic.GlucoseRandom)
	clone.Metabolic.BUN = cloneFloat(p.Metabolic.BUN)
	if p.Metabolic.Electrolytes != nil {
		clone.Metabolic.Electrolytes = make(map[string]float64, len(p.Metabolic.Electrolytes))
		for k, v := range p.Metabolic.Electrolytes {
			clone.Metabolic.Electrolytes[k] = v
		}
	}
	clone.Lipids.LDL = cloneFloat(p.Lipids.LDL)
	clone.Lipids.HDL = cloneFloat(p.Lipids.HDL)
	clone.Lipids.Triglycerides = cloneFloat(p.Lipids.Triglycerides)
	clone.Lipids.TotalCholesterol = cloneFloat(p.Lipids.TotalCholesterol)
	clone.Lifestyle.ExerciseFrequency = cloneFloat(p.Lifestyle.ExerciseFrequency)
	clone.Lifestyle.SleepDuration = cloneFloat(p.Lifestyle.SleepDuration)
	clone.Lifestyle.StressLevel = cloneFloat(p.Lifestyle.StressLevel)
	clone.CBC.Hemoglobin = cloneFloat(p.CBC.Hemoglobin)
	clone.Liver.ALT = cloneFloat(p.Liver.ALT)
	clone.Thyroid.TSH = cloneFloat(p.Thyroid.TSH)
	return &clone
}

func cloneFloat(v *float64) *float64 {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}
