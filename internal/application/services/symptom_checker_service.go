package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/zatekoja/doctordirectory/internal/domain/entities"
	"github.com/zatekoja/doctordirectory/internal/domain/providers"
	"github.com/zatekoja/doctordirectory/internal/domain/repositories"
	"github.com/zatekoja/doctordirectory/internal/infrastructure/observability"
)

// SymptomCheckNotice is shown when no analysis could be produced
const SymptomCheckNotice = "We couldn't analyse your symptoms right now. Please try again."

// MaxSymptomDoctors bounds the doctors suggested for one check
const MaxSymptomDoctors = 10

const (
	defaultSymptomCacheTTL = time.Hour
	symptomCacheKeyPrefix  = "symptom_analysis:"
)

// SymptomCheckerService maps free-text symptoms to conditions, specialties
// and matching doctors
type SymptomCheckerService struct {
	provider providers.SymptomAnalysisProvider
	repo     repositories.DoctorRepository
	cache    providers.CacheProvider
	cacheTTL time.Duration
	metrics  *observability.Metrics
}

// NewSymptomCheckerService creates a new symptom checker. A nil provider
// makes every check degrade to the notice.
func NewSymptomCheckerService(provider providers.SymptomAnalysisProvider, repo repositories.DoctorRepository) *SymptomCheckerService {
	return &SymptomCheckerService{
		provider: provider,
		repo:     repo,
		cacheTTL: defaultSymptomCacheTTL,
	}
}

// SetCache enables caching of successful analyses
func (s *SymptomCheckerService) SetCache(cache providers.CacheProvider, ttl time.Duration) {
	s.cache = cache
	if ttl > 0 {
		s.cacheTTL = ttl
	}
}

// SetMetrics sets the metrics sink
func (s *SymptomCheckerService) SetMetrics(metrics *observability.Metrics) {
	s.metrics = metrics
}

// Check runs the full pipeline. It never fails: any error is logged and the
// result comes back empty with Notice set.
func (s *SymptomCheckerService) Check(ctx context.Context, symptoms string) (result *entities.SymptomCheckResult) {
	symptoms = strings.TrimSpace(symptoms)
	logger := observability.LoggerFromContext(ctx)

	ctx, span := observability.StartSpan(ctx, "SymptomCheckerService.Check")
	defer span.End()

	defer func() {
		if r := recover(); r != nil {
			logger.Error().Interface("panic", r).Msg("symptom check panicked")
			observability.RecordSymptomCheck(ctx, s.metrics, "panic")
			result = degraded(symptoms)
		}
	}()

	analysis, cached, err := s.analyze(ctx, symptoms)
	if err != nil {
		logger.Warn().Err(err).Msg("symptom analysis failed")
		observability.RecordError(span, err)
		observability.RecordSymptomCheck(ctx, s.metrics, "provider_error")
		return degraded(symptoms)
	}

	result = entities.EmptySymptomCheckResult(symptoms)
	result.Advice = analysis.Advice
	result.Disclaimer = analysis.Disclaimer

	seen := make(map[string]struct{})
	for _, c := range analysis.Conditions {
		name := strings.TrimSpace(c.Name)
		specialty := strings.TrimSpace(c.Specialty)
		if name == "" || specialty == "" {
			continue
		}
		result.Conditions = append(result.Conditions, entities.ConditionSuggestion{Name: name, Specialty: specialty})

		key := strings.ToLower(specialty)
		if _, dup := seen[key]; !dup {
			seen[key] = struct{}{}
			result.Specialties = append(result.Specialties, specialty)
		}
	}

	if len(result.Specialties) > 0 {
		doctors, err := s.repo.FindBySpecialties(ctx, result.Specialties, MaxSymptomDoctors)
		if err != nil {
			logger.Error().Err(err).Strs("specialties", result.Specialties).Msg("failed to look up doctors for symptom check")
			observability.RecordError(span, err)
			observability.RecordSymptomCheck(ctx, s.metrics, "repository_error")
			return degraded(symptoms)
		}
		result.Doctors = doctors
	}

	if !cached {
		s.store(ctx, symptoms, analysis)
	}

	observability.RecordSymptomCheck(ctx, s.metrics, "ok")
	return result
}

func (s *SymptomCheckerService) analyze(ctx context.Context, symptoms string) (*entities.SymptomAnalysis, bool, error) {
	if symptoms == "" {
		return nil, false, fmt.Errorf("no symptoms given")
	}
	if analysis, ok := s.lookup(ctx, symptoms); ok {
		return analysis, true, nil
	}
	if s.provider == nil {
		return nil, false, providers.ErrSymptomAnalysisUnavailable
	}

	analysis, err := s.provider.AnalyzeSymptoms(ctx, symptoms)
	if err != nil {
		return nil, false, err
	}
	if analysis == nil || (len(analysis.Conditions) == 0 && analysis.Advice == "" && analysis.Disclaimer == "") {
		return nil, false, fmt.Errorf("model returned no usable analysis")
	}
	return analysis, false, nil
}

func (s *SymptomCheckerService) lookup(ctx context.Context, symptoms string) (*entities.SymptomAnalysis, bool) {
	if s.cache == nil {
		return nil, false
	}
	data, err := s.cache.Get(ctx, symptomCacheKey(symptoms))
	if err != nil {
		observability.RecordCacheMiss(ctx, s.metrics, "symptom_analysis")
		return nil, false
	}
	var analysis entities.SymptomAnalysis
	if err := json.Unmarshal(data, &analysis); err != nil {
		return nil, false
	}
	observability.RecordCacheHit(ctx, s.metrics, "symptom_analysis")
	return &analysis, true
}

func (s *SymptomCheckerService) store(ctx context.Context, symptoms string, analysis *entities.SymptomAnalysis) {
	if s.cache == nil {
		return
	}
	data, err := json.Marshal(analysis)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, symptomCacheKey(symptoms), data, s.cacheTTL); err != nil {
		observability.LoggerFromContext(ctx).Warn().Err(err).Msg("failed to cache symptom analysis")
	}
}

// symptomCacheKey ignores case and whitespace differences
func symptomCacheKey(symptoms string) string {
	normalized := strings.Join(strings.Fields(strings.ToLower(symptoms)), " ")
	sum := sha256.Sum256([]byte(normalized))
	return symptomCacheKeyPrefix + hex.EncodeToString(sum[:])
}

func degraded(symptoms string) *entities.SymptomCheckResult {
	result := entities.EmptySymptomCheckResult(symptoms)
	result.Notice = SymptomCheckNotice
	return result
}
