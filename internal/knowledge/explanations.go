package knowledge

// TestExplanation holds the plain-language description of a lab test:
// what it measures, what a low or high value means, and a suggested
// action for each direction.
type TestExplanation struct {
	What       string `json:"what"`
	Low        string `json:"low"`
	High       string `json:"high"`
	LowAction  string `json:"low_action"`
	HighAction string `json:"high_action"`
}

// Meaning returns the directional interpretation for a status
func (e TestExplanation) Meaning(status string) string {
	if status == "low" {
		return e.Low
	}
	return e.High
}

// Action returns the suggested action for a status
func (e TestExplanation) Action(status string) string {
	if status == "low" {
		return e.LowAction
	}
	return e.HighAction
}

func defaultExplanations() map[string]TestExplanation {
	return map[string]TestExplanation{
		"Hemoglobin": {
			What:       "the protein in red blood cells that carries oxygen",
			Low:        "your blood has less oxygen-carrying capacity than normal (anemia)",
			High:       "your blood has more oxygen-carrying capacity, could mean dehydration",
			LowAction:  "Eat iron-rich foods (spinach, beans, red meat). See doctor for iron supplements.",
			HighAction: "Stay well hydrated. Doctor may check for other causes.",
		},
		"WBC": {
			What:       "white blood cells that fight infections and disease",
			Low:        "your immune system may be weakened",
			High:       "your body is fighting an infection or inflammation",
			LowAction:  "See doctor immediately. Avoid crowds and sick people.",
			HighAction: "See doctor to find and treat the underlying cause.",
		},
		"FBS": {
			What:       "your blood sugar level after not eating overnight",
			Low:        "blood sugar is too low, can cause dizziness and weakness",
			High:       "blood sugar is higher than normal, may indicate pre-diabetes or diabetes",
			LowAction:  "Eat something immediately. Discuss with doctor about meal timing.",
			HighAction: "Reduce sugary foods. Increase exercise. See doctor for diabetes evaluation.",
		},
		"HbA1c": {
			What:       "average blood sugar level over the past 2-3 months",
			Low:        "blood sugar has been low, check for hypoglycemia risk",
			High:       "blood sugar has been high over past months, likely diabetes or pre-diabetes",
			LowAction:  "Monitor blood sugar levels regularly.",
			HighAction: "This is important! See doctor for diabetes management plan.",
		},
		"SGPT": {
			What:       "a liver enzyme - high levels mean the liver is stressed or damaged",
			Low:        "usually not a concern",
			High:       "liver is under stress, possibly from alcohol, medications, or fatty liver",
			LowAction:  "No action needed.",
			HighAction: "Avoid alcohol completely. Reduce fatty foods. See doctor for liver evaluation.",
		},
		"SGOT": {
			What:       "a liver/heart enzyme that increases when these organs are stressed",
			Low:        "usually not a concern",
			High:       "may indicate liver or heart stress",
			LowAction:  "No action needed.",
			HighAction: "See doctor to determine the cause. Avoid alcohol.",
		},
		"Cholesterol": {
			What:       "total fat (cholesterol) in your blood",
			Low:        "very low cholesterol is rare, discuss with doctor",
			High:       "too much fat in blood increases risk of heart attack and stroke",
			LowAction:  "Discuss with doctor.",
			HighAction: "Reduce saturated fats, fried foods, and sweets. Exercise daily. See doctor.",
		},
		"LDL": {
			What:       "LDL (bad cholesterol) - builds up in arteries and increases heart risk",
			Low:        "low LDL is generally good",
			High:       "bad cholesterol is too high, increasing heart disease risk",
			LowAction:  "This is good! Maintain healthy lifestyle.",
			HighAction: "Reduce red meat, butter, and fried foods. Doctor may prescribe statins.",
		},
		"Creatinine": {
			What:       "waste product filtered by kidneys - high levels indicate kidney stress",
			Low:        "usually not a concern",
			High:       "kidneys may not be filtering blood properly",
			LowAction:  "No action needed.",
			HighAction: "Drink plenty of water. Avoid NSAIDs. See doctor urgently.",
		},
		"TSH": {
			What:       "thyroid stimulating hormone - controls your metabolism",
			Low:        "thyroid is overactive (hyperthyroidism)",
			High:       "thyroid is underactive (hypothyroidism)",
			LowAction:  "See doctor. May need thyroid medication adjustment.",
			HighAction: "See doctor. May need thyroid hormone replacement.",
		},
	}
}
