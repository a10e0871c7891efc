package scoring

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixphool/healthtwin/internal/domain"
)

func testEngine() *Engine {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return NewEngine(logger, WithClock(func() time.Time {
		return time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	}))
}

func TestEngine_HypertensivePatient(t *testing.T) {
	engine := testEngine()

	raw := map[string]any{
		"vitals": map[string]any{
			"blood_pressure_systolic":  175.0,
			"blood_pressure_diastolic": 95.0,
			"heart_rate":               80.0,
			"bmi":                      22.0,
		},
	}

	result, err := engine.ScoreRaw(context.Background(), raw)
	require.NoError(t, err)

	assert.Equal(t, 88, result.OverallScore)
	assert.Equal(t, domain.GOOD, result.Category)
	assert.Contains(t, result.RiskFactors, "High systolic blood pressure (Stage 2)")
	assert.NotEmpty(t, result.Alerts)

	breakdown, ok := result.DetailedBreakdown[domain.CategoryVitals]
	require.True(t, ok)
	assert.Equal(t, -50, breakdown.Delta)
	assert.Equal(t, 0.25, breakdown.Weight)
	assert.Equal(t, -12.5, breakdown.Weighted)
	assert.Equal(t, 50, breakdown.Score)
}

func TestEngine_DiabeticPanel(t *testing.T) {
	engine := testEngine()

	raw := map[string]any{
		"metabolic": map[string]any{
			"glucose_fasting": 130.0,
			"hba1c":           6.6,
			"creatinine":      1.0,
		},
	}

	result, err := engine.ScoreRaw(context.Background(), raw)
	require.NoError(t, err)

	assert.Equal(t, 76, result.OverallScore)
	assert.Equal(t, domain.GOOD, result.Category)
	assert.Equal(t, -95, result.DetailedBreakdown[domain.CategoryMetabolic].Delta)
}

func TestEngine_WorstCaseClampsToZero(t *testing.T) {
	engine := testEngine()

	params := &domain.ParameterSet{}
	params.Vitals.BloodPressureSystolic = domain.Float(250)  // -50
	params.Vitals.BloodPressureDiastolic = domain.Float(130) // -40
	params.Vitals.HeartRate = domain.Float(150)              // -15
	params.Vitals.BMI = domain.Float(45)                     // -45
	params.Metabolic.GlucoseFasting = domain.Float(300)      // -45
	params.Metabolic.HbA1c = domain.Float(12)                // -50
	params.Metabolic.Creatinine = domain.Float(3)            // -20
	params.Lipids.LDL = domain.Float(250)                    // -45
	params.Lipids.HDL = domain.Float(20)                     // -20
	params.Lipids.Triglycerides = domain.Float(600)          // -40
	params.Lifestyle.ExerciseFrequency = domain.Float(0)     // -25
	params.Lifestyle.SleepDuration = domain.Float(4)         // -25
	params.Lifestyle.StressLevel = domain.Float(9)           // -20
	params.Lifestyle.SmokingStatus = domain.SmokingCurrent   // -30
	params.Lifestyle.AlcoholConsumption = domain.AlcoholHeavy
	params.CBC.Hemoglobin = domain.Float(8)
	params.Liver.ALT = domain.Float(200)
	params.Thyroid.TSH = domain.Float(15)

	result, err := engine.Score(context.Background(), params)
	require.NoError(t, err)

	assert.Equal(t, 0, result.OverallScore)
	assert.Equal(t, domain.CRITICAL, result.Category)
	assert.NotEmpty(t, result.Alerts)
	assert.True(t, result.Category.RequiresUrgentReview())
}

func TestEngine_BonusesClampToHundred(t *testing.T) {
	engine := testEngine()

	raw := map[string]any{
		"lipids":    map[string]any{"hdl": 65.0},
		"lifestyle": map[string]any{"exercise_frequency": 5.0},
	}

	result, err := engine.ScoreRaw(context.Background(), raw)
	require.NoError(t, err)

	assert.Equal(t, 100, result.OverallScore)
	assert.Equal(t, domain.EXCELLENT, result.Category)
	assert.Contains(t, result.Strengths, "High HDL cholesterol (protective)")
	assert.Contains(t, result.Strengths, "Excellent exercise routine")
	assert.Empty(t, result.RiskFactors)
}

func TestEngine_EmptyRecordScoresPerfect(t *testing.T) {
	engine := testEngine()

	result, err := engine.ScoreRaw(context.Background(), map[string]any{})
	require.NoError(t, err)

	assert.Equal(t, 100, result.OverallScore)
	assert.Equal(t, domain.EXCELLENT, result.Category)
	assert.Empty(t, result.RiskFactors)
	assert.Empty(t, result.Strengths)
	assert.Empty(t, result.Alerts)
	assert.Empty(t, result.Recommendations)
	assert.Len(t, result.DetailedBreakdown, 7)
}

func TestEngine_ResultMetadata(t *testing.T) {
	engine := testEngine()

	result, err := engine.ScoreRaw(context.Background(), map[string]any{})
	require.NoError(t, err)

	assert.Equal(t, EngineVersion, result.EngineVersion)
	assert.Equal(t, time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC), result.ScoredAt)
	// EXCELLENT reviews six months out.
	assert.Equal(t, "2025-09-10", result.NextReviewDate)
}

func TestEngine_NextReviewTracksCategory(t *testing.T) {
	engine := testEngine()

	// A hypertensive crisis alone lands in GOOD, reviewed in three months.
	raw := map[string]any{
		"vitals": map[string]any{"blood_pressure_systolic": 185.0},
	}
	result, err := engine.ScoreRaw(context.Background(), raw)
	require.NoError(t, err)
	assert.Equal(t, domain.GOOD, result.Category)
	assert.Equal(t, "2025-06-10", result.NextReviewDate)
}

func TestEngine_ValidationFailureReturnsNoResult(t *testing.T) {
	engine := testEngine()

	raw := map[string]any{
		"vitals": map[string]any{"heart_rate": "not-a-number"},
	}
	result, err := engine.ScoreRaw(context.Background(), raw)
	require.Error(t, err)
	assert.Nil(t, result)
	assert.True(t, domain.IsValidationError(err))
}

func TestEngine_CancelledContext(t *testing.T) {
	engine := testEngine()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := engine.Score(ctx, &domain.ParameterSet{})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestEngine_DeterministicAcrossRuns(t *testing.T) {
	engine := testEngine()

	raw := map[string]any{
		"vitals": map[string]any{
			"blood_pressure_systolic": 145.0,
			"bmi":                     31.0,
		},
		"lipids":    map[string]any{"ldl": 165.0, "hdl": 38.0},
		"lifestyle": map[string]any{"smoking_status": "current", "stress_level": 8.0},
	}

	first, err := engine.ScoreRaw(context.Background(), raw)
	require.NoError(t, err)

	for i := 0; i < 20; i++ {
		next, err := engine.ScoreRaw(context.Background(), raw)
		require.NoError(t, err)
		assert.Equal(t, first, next)
	}
}

func TestEngine_AlertsAndRecommendationsDeduplicated(t *testing.T) {
	engine := testEngine()

	// Stage 2 systolic and Stage 2 diastolic share the same alert and
	// recommendation text; each appears once.
	raw := map[string]any{
		"vitals": map[string]any{
			"blood_pressure_systolic":  165.0,
			"blood_pressure_diastolic": 105.0,
		},
	}

	result, err := engine.ScoreRaw(context.Background(), raw)
	require.NoError(t, err)

	count := 0
	for _, a := range result.Alerts {
		if a == "Consult healthcare provider" {
			count++
		}
	}
	assert.Equal(t, 1, count)

	count = 0
	for _, r := range result.Recommendations {
		if r == "Consult healthcare provider for blood pressure management" {
			count++
		}
	}
	assert.Equal(t, 1, count)
}

func TestEngine_ImprovementOpportunities(t *testing.T) {
	engine := testEngine()

	raw := map[string]any{
		"metabolic": map[string]any{"glucose_fasting": 130.0},
	}
	result, err := engine.ScoreRaw(context.Background(), raw)
	require.NoError(t, err)

	assert.Contains(t, result.ImprovementOpportunities,
		"Focus on metabolic improvements (current: 55/100)")
}
