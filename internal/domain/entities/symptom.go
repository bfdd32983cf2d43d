package entities

// ConditionSuggestion pairs a possible condition with the specialty that treats it.
type ConditionSuggestion struct {
	Name      string `json:"name"`
	Specialty string `json:"specialty"`
}

// SymptomAnalysis is the structured answer of the generative model.
type SymptomAnalysis struct {
	Conditions []ConditionSuggestion `json:"conditions"`
	Advice     string                `json:"advice"`
	Disclaimer string                `json:"disclaimer"`
}

// SymptomCheckResult is what the symptom checker shows to the user.
// Notice is set when the analysis could not be produced.
type SymptomCheckResult struct {
	Symptoms    string                `json:"symptoms"`
	Conditions  []ConditionSuggestion `json:"conditions"`
	Specialties []string              `json:"specialties"`
	Advice      string                `json:"advice"`
	Disclaimer  string                `json:"disclaimer"`
	Doctors     []*Doctor             `json:"doctors"`
	Notice      string                `json:"notice,omitempty"`
}

// EmptySymptomCheckResult returns a result with every list initialised to empty.
func EmptySymptomCheckResult(symptoms string) *SymptomCheckResult {
	return &SymptomCheckResult{
		Symptoms:    symptoms,
		Conditions:  []ConditionSuggestion{},
		Specialties: []string{},
		Doctors:     []*Doctor{},
	}
}
