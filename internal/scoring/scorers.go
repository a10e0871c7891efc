package scoring

import (
	"github.com/felixphool/healthtwin/internal/domain"
)

// categoryScorer maps one validated sub-bundle to its CategoryResult. All
// seven scorers are pure and mutually independent: each reads only its own
// sub-bundle, contributes zero for absent measurements, and never fails on
// extreme-but-numeric values; an out-of-ladder value lands in the worst
// bucket instead of erroring.
type categoryScorer func(*domain.ParameterSet) domain.CategoryResult

// categoryScorers lists the scorers in canonical category order.
var categoryScorers = [7]categoryScorer{
	scoreVitals,
	scoreMetabolic,
	scoreLipids,
	scoreLifestyle,
	scoreCBC,
	scoreLiver,
	scoreThyroid,
}

// resultAccumulator collects ladder hits for one category.
type resultAccumulator struct {
	result domain.CategoryResult
}

func newAccumulator(name domain.CategoryName) *resultAccumulator {
	return &resultAccumulator{result: domain.CategoryResult{Category: name}}
}

// hit applies one bucket outcome: sums the delta and emits the findings
// and recommendation the bucket carries. Zero-delta buckets emit nothing.
func (a *resultAccumulator) hit(o bucketOutcome) {
	if o.Delta == 0 {
		return
	}
	a.result.Delta += o.Delta

	kind := domain.RiskFactor
	if o.Delta > 0 {
		kind = domain.Strength
	}
	a.result.Findings = append(a.result.Findings, domain.Finding{Kind: kind, Text: o.Finding})

	if o.Alert != "" {
		a.result.Findings = append(a.result.Findings, domain.Finding{Kind: domain.Alert, Text: o.Alert})
	}
	if o.Recommendation != "" {
		a.result.Recommendations = append(a.result.Recommendations, o.Recommendation)
	}
}

func scoreVitals(p *domain.ParameterSet) domain.CategoryResult {
	acc := newAccumulator(domain.CategoryVitals)
	v := p.Vitals

	if s := v.BloodPressureSystolic; s != nil {
		switch {
		case *s <= 129:
			// normal to elevated-normal, no penalty
		case *s <= 139:
			acc.hit(sysElevated)
		case *s <= 159:
			acc.hit(sysStage1)
		case *s <= 179:
			acc.hit(sysStage2)
		default:
			acc.hit(sysCrisis)
		}
	}

	if d := v.BloodPressureDiastolic; d != nil {
		switch {
		case *d <= 89:
		case *d <= 99:
			acc.hit(diaStage1)
		case *d <= 109:
			acc.hit(diaStage2)
		default:
			acc.hit(diaCrisis)
		}
	}

	if hr := v.HeartRate; hr != nil {
		switch {
		case *hr < 60:
			acc.hit(hrBradycardia)
		case *hr > 100:
			acc.hit(hrTachycardia)
		}
	}

	if bmi := v.BMI; bmi != nil {
		switch {
		case *bmi < 18.5:
			acc.hit(bmiUnderweight)
		case *bmi <= 24.9:
		case *bmi <= 29.9:
			acc.hit(bmiOverweight)
		case *bmi <= 34.9:
			acc.hit(bmiObese1)
		case *bmi <= 39.9:
			acc.hit(bmiObese2)
		default:
			acc.hit(bmiObese3)
		}
	}

	return acc.result
}

func scoreMetabolic(p *domain.ParameterSet) domain.CategoryResult {
	acc := newAccumulator(domain.CategoryMetabolic)
	m := p.Metabolic

	if g := m.GlucoseFasting; g != nil {
		switch {
		case *g <= 99:
		case *g <= 125:
			acc.hit(glucosePrediabetes)
		default:
			acc.hit(glucoseDiabetes)
		}
	}

	if h := m.HbA1c; h != nil {
		switch {
		case *h <= 5.6:
		case *h <= 6.4:
			acc.hit(hba1cPrediabetes)
		default:
			acc.hit(hba1cDiabetes)
		}
	}

	if cr := m.Creatinine; cr != nil && *cr > 1.2 {
		acc.hit(creatinineElevated)
	}

	// Random glucose, BUN, and electrolytes are informational only.

	return acc.result
}

func scoreLipids(p *domain.ParameterSet) domain.CategoryResult {
	acc := newAccumulator(domain.CategoryLipids)
	l := p.Lipids

	if ldl := l.LDL; ldl != nil {
		switch {
		case *ldl <= 129:
		case *ldl <= 159:
			acc.hit(ldlBorderline)
		case *ldl <= 189:
			acc.hit(ldlHigh)
		default:
			acc.hit(ldlVeryHigh)
		}
	}

	if hdl := l.HDL; hdl != nil {
		switch {
		case *hdl >= 60:
			acc.hit(hdlProtective)
		case *hdl >= 40:
		default:
			acc.hit(hdlLow)
		}
	}

	if tg := l.Triglycerides; tg != nil {
		switch {
		case *tg <= 149:
		case *tg <= 199:
			acc.hit(trigBorderline)
		case *tg <= 499:
			acc.hit(trigHigh)
		default:
			acc.hit(trigVeryHigh)
		}
	}

	// Total cholesterol is informational only.

	return acc.result
}

func scoreLifestyle(p *domain.ParameterSet) domain.CategoryResult {
	acc := newAccumulator(domain.CategoryLifestyle)
	ls := p.Lifestyle

	if ex := ls.ExerciseFrequency; ex != nil {
		switch {
		case *ex >= 5:
			acc.hit(exerciseExcellent)
		case *ex >= 3:
		case *ex >= 1:
			acc.hit(exerciseInsufficient)
		default:
			acc.hit(exerciseSedentary)
		}
	}

	if sl := ls.SleepDuration; sl != nil {
		switch {
		case *sl >= 7 && *sl <= 9:
		case *sl >= 6 && *sl < 7:
			acc.hit(sleepSlightlyShort)
		default:
			acc.hit(sleepInsufficient)
		}
	}

	if st := ls.StressLevel; st != nil {
		switch {
		case *st <= 3:
		case *st <= 6:
			acc.hit(stressModerate)
		default:
			acc.hit(stressHigh)
		}
	}

	switch ls.SmokingStatus {
	case domain.SmokingCurrent:
		acc.hit(smokingCurrent)
	case domain.SmokingFormer:
		acc.hit(smokingFormer)
	}

	switch ls.AlcoholConsumption {
	case domain.AlcoholHeavy:
		acc.hit(alcoholHeavy)
	case domain.AlcoholModerate:
		acc.hit(alcoholModerate)
	}

	return acc.result
}

func scoreCBC(p *domain.ParameterSet) domain.CategoryResult {
	acc := newAccumulator(domain.CategoryCBC)
	if hb := p.CBC.Hemoglobin; hb != nil && *hb < 12 {
		acc.hit(hemoglobinLow)
	}
	return acc.result
}

func scoreLiver(p *domain.ParameterSet) domain.CategoryResult {
	acc := newAccumulator(domain.CategoryLiver)
	if alt := p.Liver.ALT; alt != nil && *alt > 55 {
		acc.hit(altElevated)
	}
	return acc.result
}

func scoreThyroid(p *domain.ParameterSet) domain.CategoryResult {
	acc := newAccumulator(domain.CategoryThyroid)
	if tsh := p.Thyroid.TSH; tsh != nil && *tsh > 4.0 {
		acc.hit(tshElevated)
	}
	return acc.result
}
