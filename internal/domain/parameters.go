package domain

// ParameterSet is the complete validated input to one scoring run,
// organized into the seven scored sub-bundles. Every measurement is
// optional: a nil pointer means the value was absent from the source
// record, and the affected ladder contributes zero with no finding.
//
// A ParameterSet is constructed fresh per scoring call and never mutated
// in place; category scorers only read it.
type ParameterSet struct {
	Vitals    VitalsBundle    `json:"vitals"`
	Metabolic MetabolicBundle `json:"metabolic"`
	Lipids    LipidsBundle    `json:"lipids"`
	Lifestyle LifestyleBundle `json:"lifestyle"`
	CBC       CBCBundle       `json:"cbc"`
	Liver     LiverBundle     `json:"liver"`
	Thyroid   ThyroidBundle   `json:"thyroid"`
}

// VitalsBundle holds vital sign measurements.
type VitalsBundle struct {
	HeartRate              *float64 `json:"heart_rate,omitempty"`
	BloodPressureSystolic  *float64 `json:"blood_pressure_systolic,omitempty"`
	BloodPressureDiastolic *float64 `json:"blood_pressure_diastolic,omitempty"`
	// BMI may be supplied directly or derived from height/weight by the
	// validator; scorers only ever see the resolved value.
	BMI *float64 `json:"bmi,omitempty"`
}

// MetabolicBundle holds metabolic panel measurements. Random glucose, BUN,
// and electrolytes are informational only and never scored.
type MetabolicBundle struct {
	GlucoseFasting *float64 `json:"glucose_fasting,omitempty"`
	HbA1c          *float64 `json:"hba1c,omitempty"`
	Creatinine     *float64 `json:"creatinine,omitempty"`

	GlucoseRandom *float64           `json:"glucose_random,omitempty"`
	BUN           *float64           `json:"bun,omitempty"`
	Electrolytes  map[string]float64 `json:"electrolytes,omitempty"`
}

// LipidsBundle holds lipid panel measurements. Total cholesterol is
// informational only.
type LipidsBundle struct {
	LDL              *float64 `json:"ldl,omitempty"`
	HDL              *float64 `json:"hdl,omitempty"`
	Triglycerides    *float64 `json:"triglycerides,omitempty"`
	TotalCholesterol *float64 `json:"total_cholesterol,omitempty"`
}

// LifestyleBundle holds self-reported lifestyle factors. The enumerations
// use the empty string for "unknown".
type LifestyleBundle struct {
	ExerciseFrequency  *float64           `json:"exercise_frequency,omitempty"` // sessions per week
	SleepDuration      *float64           `json:"sleep_duration,omitempty"`     // hours per night
	StressLevel        *float64           `json:"stress_level,omitempty"`       // 1-10
	SmokingStatus      SmokingStatus      `json:"smoking_status,omitempty"`
	AlcoholConsumption AlcoholConsumption `json:"alcohol_consumption,omitempty"`
}

// CBCBundle holds complete blood count measurements.
type CBCBundle struct {
	Hemoglobin *float64 `json:"hemoglobin,omitempty"` // g/dL
}

// LiverBundle holds liver function measurements.
type LiverBundle struct {
	ALT *float64 `json:"alt,omitempty"` // U/L
}

// ThyroidBundle holds thyroid function measurements.
type ThyroidBundle struct {
	TSH *float64 `json:"tsh,omitempty"` // mIU/L
}

// Float returns a pointer to v, for building ParameterSets in code.
func Float(v float64) *float64 {
	return &v
}
