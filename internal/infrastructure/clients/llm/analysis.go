package llm

import (
	"fmt"
	"strings"

	"github.com/zatekoja/doctordirectory/internal/domain/entities"
)

// SymptomSystemPrompt instructs the model to answer with one JSON object.
const SymptomSystemPrompt = `You are a medical triage assistant for a doctor directory. A patient describes their symptoms in free text.
Return ONLY valid JSON with this schema and nothing else:
{
  "conditions": [
    {"name": string (possible condition, plain language), "specialty": string (medical specialty that treats it, e.g. "Cardiology")}
  ] (1-5 items, most likely first),
  "advice": string (1-2 short sentences of general next steps),
  "disclaimer": string (one sentence stating this is not a diagnosis)
}
Do not wrap the JSON in markdown. Keep language simple and non-alarmist. If the text describes an emergency, say so in "advice".`

// BuildSymptomUserPrompt wraps the patient's text for the model
func BuildSymptomUserPrompt(symptoms string) string {
	return fmt.Sprintf("Patient symptoms:\n%s\n", strings.TrimSpace(symptoms))
}

// DecodeAnalysis maps raw model text onto a SymptomAnalysis. Fields with an
// unexpected shape are skipped rather than failing the whole answer.
func DecodeAnalysis(text string) *entities.SymptomAnalysis {
	obj := ExtractJSONObject(text)

	analysis := &entities.SymptomAnalysis{
		Conditions: []entities.ConditionSuggestion{},
		Advice:     stringField(obj, "advice"),
		Disclaimer: stringField(obj, "disclaimer"),
	}

	items, _ := obj["conditions"].([]any)
	for _, item := range items {
		entry, ok := item.(map[string]any)
		if !ok {
			continue
		}
		analysis.Conditions = append(analysis.Conditions, entities.ConditionSuggestion{
			Name:      stringField(entry, "name"),
			Specialty: stringField(entry, "specialty"),
		})
	}

	return analysis
}

// IsEmptyAnalysis reports whether the model answer carried nothing usable
func IsEmptyAnalysis(a *entities.SymptomAnalysis) bool {
	return a == nil || (len(a.Conditions) == 0 && a.Advice == "" && a.Disclaimer == "")
}

func stringField(obj map[string]any, key string) string {
	s, _ := obj[key].(string)
	return strings.TrimSpace(s)
}
