package knowledge

// GlossaryEntry maps one medical jargon term to plain language
type GlossaryEntry struct {
	Term  string `json:"term"`
	Plain string `json:"plain"`
}

// defaultGlossary returns the jargon substitution table. Entries apply
// in slice order with plain substring replacement; overlapping terms can
// interact (a term may match inside an earlier replacement). The order
// is part of the observable behavior and must stay stable.
func defaultGlossary() []GlossaryEntry {
	return []GlossaryEntry{
		{Term: "elevated", Plain: "higher than normal"},
		{Term: "decreased", Plain: "lower than normal"},
		{Term: "hepatic", Plain: "liver"},
		{Term: "cardiac", Plain: "heart"},
		{Term: "renal", Plain: "kidney"},
		{Term: "pulmonary", Plain: "lung"},
		{Term: "cerebral", Plain: "brain"},
		{Term: "dysfunction", Plain: "not working properly"},
		{Term: "hypertension", Plain: "high blood pressure"},
		{Term: "hypotension", Plain: "low blood pressure"},
		{Term: "hyperglycemia", Plain: "high blood sugar"},
		{Term: "hypoglycemia", Plain: "low blood sugar"},
		{Term: "tachycardia", Plain: "fast heartbeat"},
		{Term: "bradycardia", Plain: "slow heartbeat"},
		{Term: "inflammation", Plain: "swelling and irritation"},
		{Term: "chronic", Plain: "long-term"},
		{Term: "acute", Plain: "sudden and severe"},
		{Term: "benign", Plain: "not cancerous"},
		{Term: "malignant", Plain: "cancerous"},
		{Term: "edema", Plain: "swelling caused by fluid"},
		{Term: "dyspnea", Plain: "shortness of breath"},
		{Term: "anemia", Plain: "low blood count"},
		{Term: "leukocytosis", Plain: "high white blood cell count"},
		{Term: "thrombocytopenia", Plain: "low platelet count"},
		{Term: "hyperlipidemia", Plain: "high fat levels in blood"},
		{Term: "hepatomegaly", Plain: "enlarged liver"},
		{Term: "splenomegaly", Plain: "enlarged spleen"},
	}
}
