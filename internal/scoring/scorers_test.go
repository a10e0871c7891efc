package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixphool/healthtwin/internal/domain"
)

func TestScoreVitals_SystolicLadder(t *testing.T) {
	tests := []struct {
		systolic float64
		delta    int
	}{
		{110, 0},
		{129, 0},
		{130, -10},
		{139, -10},
		{140, -20},
		{159, -20},
		{160, -35},
		{179, -35},
		{180, -50},
		{250, -50},
	}

	for _, tt := range tests {
		params := &domain.ParameterSet{}
		params.Vitals.BloodPressureSystolic = domain.Float(tt.systolic)
		result := scoreVitals(params)
		assert.Equal(t, tt.delta, result.Delta, "systolic=%g", tt.systolic)
	}
}

func TestScoreVitals_DiastolicLadder(t *testing.T) {
	tests := []struct {
		diastolic float64
		delta     int
	}{
		{75, 0},
		{89, 0},
		{90, -15},
		{99, -15},
		{100, -25},
		{109, -25},
		{110, -40},
	}

	for _, tt := range tests {
		params := &domain.ParameterSet{}
		params.Vitals.BloodPressureDiastolic = domain.Float(tt.diastolic)
		result := scoreVitals(params)
		assert.Equal(t, tt.delta, result.Delta, "diastolic=%g", tt.diastolic)
	}
}

func TestScoreVitals_HeartRateAndBMI(t *testing.T) {
	tests := []struct {
		name  string
		set   func(*domain.ParameterSet)
		delta int
	}{
		{"resting heart rate", func(p *domain.ParameterSet) { p.Vitals.HeartRate = domain.Float(60) }, 0},
		{"upper normal heart rate", func(p *domain.ParameterSet) { p.Vitals.HeartRate = domain.Float(100) }, 0},
		{"bradycardia", func(p *domain.ParameterSet) { p.Vitals.HeartRate = domain.Float(45) }, -15},
		{"tachycardia", func(p *domain.ParameterSet) { p.Vitals.HeartRate = domain.Float(115) }, -15},
		{"underweight", func(p *domain.ParameterSet) { p.Vitals.BMI = domain.Float(17) }, -10},
		{"normal BMI", func(p *domain.ParameterSet) { p.Vitals.BMI = domain.Float(22) }, 0},
		{"overweight", func(p *domain.ParameterSet) { p.Vitals.BMI = domain.Float(27) }, -15},
		{"obesity class 1", func(p *domain.ParameterSet) { p.Vitals.BMI = domain.Float(32) }, -25},
		{"obesity class 2", func(p *domain.ParameterSet) { p.Vitals.BMI = domain.Float(37) }, -35},
		{"obesity class 3", func(p *domain.ParameterSet) { p.Vitals.BMI = domain.Float(42) }, -45},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			params := &domain.ParameterSet{}
			tt.set(params)
			assert.Equal(t, tt.delta, scoreVitals(params).Delta)
		})
	}
}

func TestScoreVitals_PenaltiesSum(t *testing.T) {
	params := &domain.ParameterSet{}
	params.Vitals.BloodPressureSystolic = domain.Float(175) // -35
	params.Vitals.BloodPressureDiastolic = domain.Float(95) // -15
	params.Vitals.HeartRate = domain.Float(80)              // 0
	params.Vitals.BMI = domain.Float(22)                    // 0

	result := scoreVitals(params)
	assert.Equal(t, -50, result.Delta)

	var riskTexts []string
	for _, f := range result.Findings {
		if f.Kind == domain.RiskFactor {
			riskTexts = append(riskTexts, f.Text)
		}
	}
	assert.Contains(t, riskTexts, "High systolic blood pressure (Stage 2)")
	assert.Contains(t, riskTexts, "High diastolic blood pressure (Stage 1)")
}

func TestScoreMetabolic_Ladders(t *testing.T) {
	tests := []struct {
		name  string
		set   func(*domain.ParameterSet)
		delta int
	}{
		{"normal glucose", func(p *domain.ParameterSet) { p.Metabolic.GlucoseFasting = domain.Float(99) }, 0},
		{"prediabetic glucose", func(p *domain.ParameterSet) { p.Metabolic.GlucoseFasting = domain.Float(100) }, -25},
		{"diabetic glucose", func(p *domain.ParameterSet) { p.Metabolic.GlucoseFasting = domain.Float(126) }, -45},
		{"normal hba1c", func(p *domain.ParameterSet) { p.Metabolic.HbA1c = domain.Float(5.6) }, 0},
		{"prediabetic hba1c", func(p *domain.ParameterSet) { p.Metabolic.HbA1c = domain.Float(5.7) }, -30},
		{"diabetic hba1c", func(p *domain.ParameterSet) { p.Metabolic.HbA1c = domain.Float(6.5) }, -50},
		{"normal creatinine", func(p *domain.ParameterSet) { p.Metabolic.Creatinine = domain.Float(1.2) }, 0},
		{"elevated creatinine", func(p *domain.ParameterSet) { p.Metabolic.Creatinine = domain.Float(1.3) }, -20},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			params := &domain.ParameterSet{}
			tt.set(params)
			assert.Equal(t, tt.delta, scoreMetabolic(params).Delta)
		})
	}
}

func TestScoreMetabolic_CombinedDiabeticPanel(t *testing.T) {
	params := &domain.ParameterSet{}
	params.Metabolic.GlucoseFasting = domain.Float(130) // -45
	params.Metabolic.HbA1c = domain.Float(6.6)          // -50
	params.Metabolic.Creatinine = domain.Float(1.0)     // 0

	result := scoreMetabolic(params)
	assert.Equal(t, -95, result.Delta)

	var alerts []string
	for _, f := range result.Findings {
		if f.Kind == domain.Alert {
			alerts = append(alerts, f.Text)
		}
	}
	require.Len(t, alerts, 2)
	assert.Contains(t, alerts, "Consult healthcare provider immediately")
	assert.Contains(t, alerts, "Immediate medical consultation required")
}

func TestScoreLipids_Ladders(t *testing.T) {
	tests := []struct {
		name  string
		set   func(*domain.ParameterSet)
		delta int
	}{
		{"optimal ldl", func(p *domain.ParameterSet) { p.Lipids.LDL = domain.Float(100) }, 0},
		{"borderline ldl", func(p *domain.ParameterSet) { p.Lipids.LDL = domain.Float(130) }, -20},
		{"high ldl", func(p *domain.ParameterSet) { p.Lipids.LDL = domain.Float(160) }, -30},
		{"very high ldl", func(p *domain.ParameterSet) { p.Lipids.LDL = domain.Float(190) }, -45},
		{"protective hdl", func(p *domain.ParameterSet) { p.Lipids.HDL = domain.Float(60) }, 10},
		{"acceptable hdl", func(p *domain.ParameterSet) { p.Lipids.HDL = domain.Float(45) }, 0},
		{"low hdl", func(p *domain.ParameterSet) { p.Lipids.HDL = domain.Float(39) }, -20},
		{"normal triglycerides", func(p *domain.ParameterSet) { p.Lipids.Triglycerides = domain.Float(149) }, 0},
		{"borderline triglycerides", func(p *domain.ParameterSet) { p.Lipids.Triglycerides = domain.Float(150) }, -15},
		{"high triglycerides", func(p *domain.ParameterSet) { p.Lipids.Triglycerides = domain.Float(200) }, -25},
		{"very high triglycerides", func(p *domain.ParameterSet) { p.Lipids.Triglycerides = domain.Float(500) }, -40},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			params := &domain.ParameterSet{}
			tt.set(params)
			assert.Equal(t, tt.delta, scoreLipids(params).Delta)
		})
	}
}

func TestScoreLipids_ProtectiveHDLIsStrength(t *testing.T) {
	params := &domain.ParameterSet{}
	params.Lipids.HDL = domain.Float(65)

	result := scoreLipids(params)
	require.Len(t, result.Findings, 1)
	assert.Equal(t, domain.Strength, result.Findings[0].Kind)
	assert.Equal(t, "High HDL cholesterol (protective)", result.Findings[0].Text)
}

func TestScoreLifestyle_Ladders(t *testing.T) {
	tests := []struct {
		name  string
		set   func(*domain.ParameterSet)
		delta int
	}{
		{"excellent exercise", func(p *domain.ParameterSet) { p.Lifestyle.ExerciseFrequency = domain.Float(5) }, 10},
		{"adequate exercise", func(p *domain.ParameterSet) { p.Lifestyle.ExerciseFrequency = domain.Float(3) }, 0},
		{"insufficient exercise", func(p *domain.ParameterSet) { p.Lifestyle.ExerciseFrequency = domain.Float(1) }, -15},
		{"sedentary", func(p *domain.ParameterSet) { p.Lifestyle.ExerciseFrequency = domain.Float(0) }, -25},
		{"healthy sleep", func(p *domain.ParameterSet) { p.Lifestyle.SleepDuration = domain.Float(8) }, 0},
		{"slightly short sleep", func(p *domain.ParameterSet) { p.Lifestyle.SleepDuration = domain.Float(6.5) }, -10},
		{"insufficient sleep", func(p *domain.ParameterSet) { p.Lifestyle.SleepDuration = domain.Float(5) }, -25},
		{"oversleeping", func(p *domain.ParameterSet) { p.Lifestyle.SleepDuration = domain.Float(10) }, -25},
		{"low stress", func(p *domain.ParameterSet) { p.Lifestyle.StressLevel = domain.Float(3) }, 0},
		{"moderate stress", func(p *domain.ParameterSet) { p.Lifestyle.StressLevel = domain.Float(5) }, -10},
		{"high stress", func(p *domain.ParameterSet) { p.Lifestyle.StressLevel = domain.Float(8) }, -20},
		{"never smoked", func(p *domain.ParameterSet) { p.Lifestyle.SmokingStatus = domain.SmokingNever }, 0},
		{"former smoker", func(p *domain.ParameterSet) { p.Lifestyle.SmokingStatus = domain.SmokingFormer }, -5},
		{"current smoker", func(p *domain.ParameterSet) { p.Lifestyle.SmokingStatus = domain.SmokingCurrent }, -30},
		{"no alcohol", func(p *domain.ParameterSet) { p.Lifestyle.AlcoholConsumption = domain.AlcoholNone }, 0},
		{"moderate alcohol", func(p *domain.ParameterSet) { p.Lifestyle.AlcoholConsumption = domain.AlcoholModerate }, -5},
		{"heavy alcohol", func(p *domain.ParameterSet) { p.Lifestyle.AlcoholConsumption = domain.AlcoholHeavy }, -25},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			params := &domain.ParameterSet{}
			tt.set(params)
			assert.Equal(t, tt.delta, scoreLifestyle(params).Delta)
		})
	}
}

func TestSingleBucketLadders(t *testing.T) {
	params := &domain.ParameterSet{}
	params.CBC.Hemoglobin = domain.Float(11.5)
	params.Liver.ALT = domain.Float(80)
	params.Thyroid.TSH = domain.Float(5.5)

	assert.Equal(t, -15, scoreCBC(params).Delta)
	assert.Equal(t, -15, scoreLiver(params).Delta)
	assert.Equal(t, -15, scoreThyroid(params).Delta)

	normal := &domain.ParameterSet{}
	normal.CBC.Hemoglobin = domain.Float(14)
	normal.Liver.ALT = domain.Float(30)
	normal.Thyroid.TSH = domain.Float(2.5)

	assert.Equal(t, 0, scoreCBC(normal).Delta)
	assert.Equal(t, 0, scoreLiver(normal).Delta)
	assert.Equal(t, 0, scoreThyroid(normal).Delta)
}

// In-range measurements must contribute no findings at all, so an entirely
// healthy record produces an empty narrative rather than a pile of
// "normal X" lines.
func TestZeroDeltaBucketsEmitNothing(t *testing.T) {
	params := &domain.ParameterSet{}
	params.Vitals.HeartRate = domain.Float(70)
	params.Vitals.BloodPressureSystolic = domain.Float(115)
	params.Vitals.BloodPressureDiastolic = domain.Float(75)
	params.Vitals.BMI = domain.Float(22)

	result := scoreVitals(params)
	assert.Equal(t, 0, result.Delta)
	assert.Empty(t, result.Findings)
	assert.Empty(t, result.Recommendations)
}

// A worse measurement never yields a smaller penalty than a better one.
func TestLadderMonotonicity(t *testing.T) {
	systolicDelta := func(v float64) int {
		p := &domain.ParameterSet{}
		p.Vitals.BloodPressureSystolic = domain.Float(v)
		return scoreVitals(p).Delta
	}

	prev := 0
	for v := 100.0; v <= 260; v += 5 {
		d := systolicDelta(v)
		assert.LessOrEqual(t, d, prev, "systolic=%g", v)
		prev = d
	}

	ldlDelta := func(v float64) int {
		p := &domain.ParameterSet{}
		p.Lipids.LDL = domain.Float(v)
		return scoreLipids(p).Delta
	}

	prev = 0
	for v := 80.0; v <= 300; v += 10 {
		d := ldlDelta(v)
		assert.LessOrEqual(t, d, prev, "ldl=%g", v)
		prev = d
	}
}

func TestScorersArePure(t *testing.T) {
	params := &domain.ParameterSet{}
	params.Vitals.BloodPressureSystolic = domain.Float(165)
	params.Lifestyle.SmokingStatus = domain.SmokingCurrent

	first := scoreVitals(params)
	second := scoreVitals(params)
	assert.Equal(t, first, second)

	third := scoreLifestyle(params)
	fourth := scoreLifestyle(params)
	assert.Equal(t, third, fourth)
}
