package scoring

// bucketOutcome couples one threshold-ladder bucket with the delta and the
// canned texts it emits when hit. Outcomes are immutable constant data; the
// category scorers hold the comparison logic and only reference these.
//
// A negative delta emits a risk-factor finding, a positive delta a strength
// finding. A non-empty Alert additionally emits an alert finding; the alert
// assignment per bucket follows the clinical reference behavior (the two
// most severe buckets of the multi-bucket ladders, plus elevated
// creatinine).
type bucketOutcome struct {
	Delta          int
	Finding        string
	Alert          string
	Recommendation string
}

// Vitals ladders

var (
	sysElevated = bucketOutcome{
		Delta:          -10,
		Finding:        "Elevated systolic blood pressure",
		Recommendation: "Monitor blood pressure regularly",
	}
	sysStage1 = bucketOutcome{
		Delta:          -20,
		Finding:        "High systolic blood pressure (Stage 1)",
		Recommendation: "Consider lifestyle modifications",
	}
	sysStage2 = bucketOutcome{
		Delta:          -35,
		Finding:        "High systolic blood pressure (Stage 2)",
		Alert:          "Consult healthcare provider",
		Recommendation: "Consult healthcare provider for blood pressure management",
	}
	sysCrisis = bucketOutcome{
		Delta:          -50,
		Finding:        "Hypertensive crisis",
		Alert:          "Seek immediate medical attention",
		Recommendation: "Seek urgent blood pressure evaluation",
	}

	diaStage1 = bucketOutcome{
		Delta:          -15,
		Finding:        "High diastolic blood pressure (Stage 1)",
		Recommendation: "Reduce sodium intake and increase exercise",
	}
	diaStage2 = bucketOutcome{
		Delta:          -25,
		Finding:        "High diastolic blood pressure (Stage 2)",
		Alert:          "Consult healthcare provider",
		Recommendation: "Consult healthcare provider for blood pressure management",
	}
	diaCrisis = bucketOutcome{
		Delta:          -40,
		Finding:        "Diastolic hypertensive crisis",
		Alert:          "Seek immediate medical attention",
		Recommendation: "Seek urgent blood pressure evaluation",
	}

	hrBradycardia = bucketOutcome{
		Delta:          -15,
		Finding:        "Bradycardia (slow heart rate)",
		Recommendation: "Monitor heart rate and consult if persistent",
	}
	hrTachycardia = bucketOutcome{
		Delta:          -15,
		Finding:        "Tachycardia (fast heart rate)",
		Recommendation: "Monitor heart rate and consult if persistent",
	}

	bmiUnderweight = bucketOutcome{
		Delta:          -10,
		Finding:        "Underweight",
		Recommendation: "Consult nutritionist for healthy weight gain",
	}
	bmiOverweight = bucketOutcome{
		Delta:          -15,
		Finding:        "Overweight",
		Recommendation: "Focus on balanced diet and regular exercise",
	}
	bmiObese1 = bucketOutcome{
		Delta:          -25,
		Finding:        "Obesity (Class 1)",
		Recommendation: "Consider weight management program",
	}
	bmiObese2 = bucketOutcome{
		Delta:          -35,
		Finding:        "Obesity (Class 2)",
		Alert:          "Consult healthcare provider for weight management",
		Recommendation: "Enroll in a structured weight management program",
	}
	bmiObese3 = bucketOutcome{
		Delta:          -45,
		Finding:        "Severe obesity (Class 3)",
		Alert:          "Seek specialized medical care",
		Recommendation: "Seek specialized weight management care",
	}
)

// Metabolic ladders

var (
	glucosePrediabetes = bucketOutcome{
		Delta:          -25,
		Finding:        "Prediabetes (elevated fasting glucose)",
		Alert:          "Monitor glucose levels regularly",
		Recommendation: "Implement lifestyle modifications",
	}
	glucoseDiabetes = bucketOutcome{
		Delta:          -45,
		Finding:        "Diabetes (elevated fasting glucose)",
		Alert:          "Consult healthcare provider immediately",
		Recommendation: "Schedule diabetes management consultation",
	}

	hba1cPrediabetes = bucketOutcome{
		Delta:          -30,
		Finding:        "Prediabetes (elevated HbA1c)",
		Alert:          "Regular diabetes screening",
		Recommendation: "Focus on diet and exercise",
	}
	hba1cDiabetes = bucketOutcome{
		Delta:          -50,
		Finding:        "Diabetes (elevated HbA1c)",
		Alert:          "Immediate medical consultation required",
		Recommendation: "Schedule diabetes management consultation",
	}

	creatinineElevated = bucketOutcome{
		Delta:          -20,
		Finding:        "Elevated creatinine",
		Alert:          "Consult nephrologist if persistent",
		Recommendation: "Monitor kidney function",
	}
)

// Lipid ladders

var (
	ldlBorderline = bucketOutcome{
		Delta:          -20,
		Finding:        "Borderline high LDL cholesterol",
		Recommendation: "Implement heart-healthy diet",
	}
	ldlHigh = bucketOutcome{
		Delta:          -30,
		Finding:        "High LDL cholesterol",
		Alert:          "Monitor cardiovascular risk",
		Recommendation: "Consider medication consultation",
	}
	ldlVeryHigh = bucketOutcome{
		Delta:          -45,
		Finding:        "Very high LDL cholesterol",
		Alert:          "Immediate medical consultation required",
		Recommendation: "Discuss lipid-lowering therapy with provider",
	}

	hdlProtective = bucketOutcome{
		Delta:   +10,
		Finding: "High HDL cholesterol (protective)",
	}
	hdlLow = bucketOutcome{
		Delta:          -20,
		Finding:        "Low HDL cholesterol",
		Recommendation: "Increase physical activity and healthy fats",
	}

	trigBorderline = bucketOutcome{
		Delta:          -15,
		Finding:        "Borderline high triglycerides",
		Recommendation: "Reduce refined carbohydrates and alcohol",
	}
	trigHigh = bucketOutcome{
		Delta:          -25,
		Finding:        "High triglycerides",
		Alert:          "Monitor for metabolic syndrome",
		Recommendation: "Implement comprehensive lifestyle changes",
	}
	trigVeryHigh = bucketOutcome{
		Delta:          -40,
		Finding:        "Very high triglycerides",
		Alert:          "Immediate medical consultation required",
		Recommendation: "Seek urgent lipid management",
	}
)

// Lifestyle ladders

var (
	exerciseExcellent = bucketOutcome{
		Delta:   +10,
		Finding: "Excellent exercise routine",
	}
	exerciseInsufficient = bucketOutcome{
		Delta:          -15,
		Finding:        "Insufficient physical activity",
		Recommendation: "Increase exercise to 3+ times per week",
	}
	exerciseSedentary = bucketOutcome{
		Delta:          -25,
		Finding:        "Sedentary lifestyle",
		Alert:          "High risk for chronic diseases",
		Recommendation: "Start with walking 30 minutes daily",
	}

	sleepSlightlyShort = bucketOutcome{
		Delta:          -10,
		Finding:        "Slightly insufficient sleep",
		Recommendation: "Aim for 7-9 hours of sleep",
	}
	sleepInsufficient = bucketOutcome{
		Delta:          -25,
		Finding:        "Insufficient sleep",
		Alert:          "Sleep deprivation affects all health markers",
		Recommendation: "Prioritize sleep hygiene and schedule",
	}

	stressModerate = bucketOutcome{
		Delta:          -10,
		Finding:        "Moderate stress levels",
		Recommendation: "Implement stress management techniques",
	}
	stressHigh = bucketOutcome{
		Delta:          -20,
		Finding:        "High stress levels",
		Alert:          "Chronic stress impacts overall health",
		Recommendation: "Consider counseling or stress management programs",
	}

	smokingCurrent = bucketOutcome{
		Delta:          -30,
		Finding:        "Current smoker",
		Alert:          "Smoking significantly increases health risks",
		Recommendation: "Consider smoking cessation program",
	}
	smokingFormer = bucketOutcome{
		Delta:          -5,
		Finding:        "Former smoker",
		Recommendation: "Maintain smoke-free lifestyle",
	}

	alcoholHeavy = bucketOutcome{
		Delta:          -25,
		Finding:        "Heavy alcohol consumption",
		Alert:          "Consult healthcare provider about alcohol use",
		Recommendation: "Reduce alcohol intake",
	}
	alcoholModerate = bucketOutcome{
		Delta:          -5,
		Finding:        "Moderate alcohol consumption",
		Recommendation: "Monitor alcohol intake",
	}
)

// Single-bucket ladders

var (
	hemoglobinLow = bucketOutcome{
		Delta:          -15,
		Finding:        "Low hemoglobin (possible anemia)",
		Recommendation: "Consult healthcare provider for evaluation",
	}
	altElevated = bucketOutcome{
		Delta:          -15,
		Finding:        "Elevated ALT",
		Recommendation: "Monitor liver function",
	}
	tshElevated = bucketOutcome{
		Delta:          -15,
		Finding:        "Elevated TSH",
		Recommendation: "Monitor thyroid function",
	}
)
