package scoring

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/felixphool/healthtwin/internal/domain"
)

// plausibleRange separates physiological garbage (a negative heart rate,
// a BMI of 900, the kind of value only a corrupted source record yields)
// from clinically extreme but real values. Values inside these bounds
// always score, landing in the worst ladder bucket if need be; values
// outside them fail validation.
type plausibleRange struct {
	lo, hi float64
}

var plausibleRanges = map[string]plausibleRange{
	"vitals.heart_rate":               {20, 300},
	"vitals.blood_pressure_systolic":  {50, 300},
	"vitals.blood_pressure_diastolic": {30, 200},
	"vitals.bmi":                      {10, 100},
	"metabolic.glucose_fasting":       {20, 1000},
	"metabolic.glucose_random":        {20, 1000},
	"metabolic.hba1c":                 {3, 20},
	"metabolic.creatinine":            {0.1, 20},
	"metabolic.bun":                   {1, 200},
	"lipids.ldl":                      {10, 500},
	"lipids.hdl":                      {5, 150},
	"lipids.triglycerides":            {10, 2000},
	"lipids.total_cholesterol":        {50, 600},
	"lifestyle.exercise_frequency":    {0, 21},
	"lifestyle.sleep_duration":        {0, 24},
	"lifestyle.stress_level":          {1, 10},
	"cbc.hemoglobin":                  {3, 25},
	"liver.alt":                       {1, 2000},
	"thyroid.tsh":                     {0.01, 100},
	"physical.height_cm":              {50, 250},
	"physical.weight_kg":              {20, 500},
	"physical.bmi":                    {10, 100},
}

// electrolyteKeys are collected from the metabolic bundle as informational
// values; they are coerced but never scored.
var electrolyteKeys = []string{"sodium", "potassium", "chloride", "bicarbonate"}

// ParseParameters normalizes and validates a raw measurement mapping into
// a typed ParameterSet. Missing fields become nil ("unknown") and are
// excluded from scoring; malformed values (non-numeric garbage, unknown
// enum values, physiologically impossible numbers) fail the whole run
// with a ValidationError naming the offending field. No value is ever
// clamped here; range placement is the scorers' job.
func ParseParameters(raw map[string]any) (*domain.ParameterSet, error) {
	params := &domain.ParameterSet{}

	vitals, err := subBundle(raw, "vitals")
	if err != nil {
		return nil, err
	}
	if params.Vitals.HeartRate, err = numericField(vitals, "vitals", "heart_rate"); err != nil {
		return nil, err
	}
	if params.Vitals.BloodPressureSystolic, err = numericField(vitals, "vitals", "blood_pressure_systolic"); err != nil {
		return nil, err
	}
	if params.Vitals.BloodPressureDiastolic, err = numericField(vitals, "vitals", "blood_pressure_diastolic"); err != nil {
		return nil, err
	}
	if params.Vitals.BMI, err = resolveBMI(raw, vitals); err != nil {
		return nil, err
	}

	metabolic, err := subBundle(raw, "metabolic")
	if err != nil {
		return nil, err
	}
	if params.Metabolic.GlucoseFasting, err = numericField(metabolic, "metabolic", "glucose_fasting"); err != nil {
		return nil, err
	}
	if params.Metabolic.HbA1c, err = numericField(metabolic, "metabolic", "hba1c"); err != nil {
		return nil, err
	}
	if params.Metabolic.Creatinine, err = numericField(metabolic, "metabolic", "creatinine"); err != nil {
		return nil, err
	}
	if params.Metabolic.GlucoseRandom, err = numericField(metabolic, "metabolic", "glucose_random"); err != nil {
		return nil, err
	}
	if params.Metabolic.BUN, err = numericField(metabolic, "metabolic", "bun"); err != nil {
		return nil, err
	}
	if params.Metabolic.Electrolytes, err = electrolytes(metabolic); err != nil {
		return nil, err
	}

	lipids, err := subBundle(raw, "lipids")
	if err != nil {
		return nil, err
	}
	if params.Lipids.LDL, err = numericField(lipids, "lipids", "ldl"); err != nil {
		return nil, err
	}
	if params.Lipids.HDL, err = numericField(lipids, "lipids", "hdl"); err != nil {
		return nil, err
	}
	if params.Lipids.Triglycerides, err = numericField(lipids, "lipids", "triglycerides"); err != nil {
		return nil, err
	}
	if params.Lipids.TotalCholesterol, err = numericField(lipids, "lipids", "total_cholesterol"); err != nil {
		return nil, err
	}

	lifestyle, err := subBundle(raw, "lifestyle")
	if err != nil {
		return nil, err
	}
	if params.Lifestyle.ExerciseFrequency, err = numericField(lifestyle, "lifestyle", "exercise_frequency"); err != nil {
		return nil, err
	}
	if params.Lifestyle.SleepDuration, err = numericField(lifestyle, "lifestyle", "sleep_duration"); err != nil {
		return nil, err
	}
	if params.Lifestyle.StressLevel, err = numericField(lifestyle, "lifestyle", "stress_level"); err != nil {
		return nil, err
	}
	if params.Lifestyle.SmokingStatus, err = smokingField(lifestyle); err != nil {
		return nil, err
	}
	if params.Lifestyle.AlcoholConsumption, err = alcoholField(lifestyle); err != nil {
		return nil, err
	}

	cbc, err := subBundle(raw, "cbc")
	if err != nil {
		return nil, err
	}
	if params.CBC.Hemoglobin, err = numericField(cbc, "cbc", "hemoglobin"); err != nil {
		return nil, err
	}

	liver, err := subBundle(raw, "liver")
	if err != nil {
		return nil, err
	}
	if params.Liver.ALT, err = numericField(liver, "liver", "alt"); err != nil {
		return nil, err
	}

	thyroid, err := subBundle(raw, "thyroid")
	if err != nil {
		return nil, err
	}
	if params.Thyroid.TSH, err = numericField(thyroid, "thyroid", "tsh"); err != nil {
		return nil, err
	}

	return params, nil
}

// subBundle extracts one named sub-bundle. An absent bundle is not an
// error; every measurement in it is simply unknown.
func subBundle(raw map[string]any, name string) (map[string]any, error) {
	value, ok := raw[name]
	if !ok || value == nil {
		return nil, nil
	}
	bundle, ok := value.(map[string]any)
	if !ok {
		return nil, domain.NewValidationError(name, "must be an object of measurements", value)
	}
	return bundle, nil
}

// numericField coerces one measurement to a float, enforcing the field's
// plausibility bounds. Absent fields return nil.
func numericField(bundle map[string]any, bundleName, key string) (*float64, error) {
	if bundle == nil {
		return nil, nil
	}
	value, ok := bundle[key]
	if !ok || value == nil {
		return nil, nil
	}

	field := bundleName + "." + key
	f, err := coerceFloat(field, value)
	if err != nil {
		return nil, err
	}

	if r, ok := plausibleRanges[field]; ok {
		if f < r.lo || f > r.hi {
			return nil, domain.NewValidationError(field,
				fmt.Sprintf("outside physiological range [%g, %g]", r.lo, r.hi), value)
		}
	}

	return &f, nil
}

// coerceFloat converts JSON numbers, integers, json.Number, and
// unambiguous numeric strings to float64.
func coerceFloat(field string, value any) (float64, error) {
	switch v := value.(type) {
	case float64:
		return v, nil
	case float32:
		return float64(v), nil
	case int:
		return float64(v), nil
	case int64:
		return float64(v), nil
	case json.Number:
		f, err := v.Float64()
		if err != nil {
			return 0, domain.NewValidationError(field, "must be numeric", value)
		}
		return f, nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0, domain.NewValidationError(field, "must be numeric", value)
		}
		return f, nil
	default:
		return 0, domain.NewValidationError(field, "must be numeric", value)
	}
}

// resolveBMI returns the BMI for scoring: supplied directly in the vitals
// or physical bundle, or derived from height/weight when both are present.
func resolveBMI(raw, vitals map[string]any) (*float64, error) {
	if bmi, err := numericField(vitals, "vitals", "bmi"); err != nil || bmi != nil {
		return bmi, err
	}

	physical, err := subBundle(raw, "physical")
	if err != nil {
		return nil, err
	}
	if bmi, err := numericField(physical, "physical", "bmi"); err != nil || bmi != nil {
		return bmi, err
	}

	height, err := numericField(physical, "physical", "height_cm")
	if err != nil {
		return nil, err
	}
	weight, err := numericField(physical, "physical", "weight_kg")
	if err != nil {
		return nil, err
	}
	if height == nil || weight == nil {
		return nil, nil
	}

	meters := *height / 100
	bmi := *weight / (meters * meters)
	if r := plausibleRanges["vitals.bmi"]; bmi < r.lo || bmi > r.hi {
		return nil, domain.NewValidationError("physical",
			fmt.Sprintf("derived BMI %.1f outside physiological range", bmi), bmi)
	}
	return &bmi, nil
}

func smokingField(lifestyle map[string]any) (domain.SmokingStatus, error) {
	s, err := enumField(lifestyle, "lifestyle.smoking_status", "smoking_status")
	if err != nil || s == "" {
		return "", err
	}
	status := domain.SmokingStatus(s)
	if !status.IsValid() {
		return "", domain.NewValidationError("lifestyle.smoking_status",
			"must be one of: never, former, current", s)
	}
	return status, nil
}

func alcoholField(lifestyle map[string]any) (domain.AlcoholConsumption, error) {
	s, err := enumField(lifestyle, "lifestyle.alcohol_consumption", "alcohol_consumption")
	if err != nil || s == "" {
		return "", err
	}
	consumption := domain.AlcoholConsumption(s)
	if !consumption.IsValid() {
		return "", domain.NewValidationError("lifestyle.alcohol_consumption",
			"must be one of: none, moderate, heavy", s)
	}
	return consumption, nil
}

func enumField(bundle map[string]any, field, key string) (string, error) {
	if bundle == nil {
		return "", nil
	}
	value, ok := bundle[key]
	if !ok || value == nil {
		return "", nil
	}
	s, ok := value.(string)
	if !ok {
		return "", domain.NewValidationError(field, "must be a string", value)
	}
	return strings.ToLower(strings.TrimSpace(s)), nil
}

func electrolytes(metabolic map[string]any) (map[string]float64, error) {
	if metabolic == nil {
		return nil, nil
	}
	var out map[string]float64
	for _, key := range electrolyteKeys {
		value, ok := metabolic[key]
		if !ok || value == nil {
			continue
		}
		f, err := coerceFloat("metabolic."+key, value)
		if err != nil {
			return nil, err
		}
		if out == nil {
			out = make(map[string]float64, len(electrolyteKeys))
		}
		out[key] = f
	}
	return out, nil
}
