package providers

import (
	"context"
	"errors"

	"github.com/zatekoja/doctordirectory/internal/domain/entities"
)

// ErrSymptomAnalysisUnauthorized is returned when the provider rejects the API key.
var ErrSymptomAnalysisUnauthorized = errors.New("symptom analysis provider unauthorized")

// ErrSymptomAnalysisUnavailable is returned when no provider is configured or the breaker is open.
var ErrSymptomAnalysisUnavailable = errors.New("symptom analysis provider unavailable")

// SymptomAnalysisProvider maps free-text symptoms to candidate conditions and specialties.
type SymptomAnalysisProvider interface {
	AnalyzeSymptoms(ctx context.Context, symptoms string) (*entities.SymptomAnalysis, error)
}
