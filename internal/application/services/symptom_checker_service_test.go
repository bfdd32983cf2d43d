package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/zatekoja/doctordirectory/internal/adapters/cache"
	"github.com/zatekoja/doctordirectory/internal/application/services"
	"github.com/zatekoja/doctordirectory/internal/domain/entities"
	"github.com/zatekoja/doctordirectory/internal/domain/providers"
)

func assertDegraded(t *testing.T, result *entities.SymptomCheckResult) {
	t.Helper()
	require.NotNil(t, result)
	assert.Equal(t, services.SymptomCheckNotice, result.Notice)
	assert.NotNil(t, result.Conditions)
	assert.Empty(t, result.Conditions)
	assert.NotNil(t, result.Specialties)
	assert.Empty(t, result.Specialties)
	assert.NotNil(t, result.Doctors)
	assert.Empty(t, result.Doctors)
	assert.Empty(t, result.Advice)
	assert.Empty(t, result.Disclaimer)
}

func TestSymptomCheckerService_Check(t *testing.T) {
	t.Run("filters conditions and deduplicates specialties", func(t *testing.T) {
		provider := new(MockSymptomAnalysisProvider)
		repo := new(MockDoctorRepository)
		service := services.NewSymptomCheckerService(provider, repo)

		provider.On("AnalyzeSymptoms", mock.Anything, "chest pain").Return(&entities.SymptomAnalysis{
			Conditions: []entities.ConditionSuggestion{
				{Name: "Angina", Specialty: "Cardiology"},
				{Name: "Arrhythmia", Specialty: "cardiology"},
				{Name: "", Specialty: "Neurology"},
				{Name: "Costochondritis", Specialty: ""},
				{Name: "Reflux", Specialty: "Gastroenterology"},
			},
			Advice:     "See a doctor soon.",
			Disclaimer: "Not a diagnosis.",
		}, nil)

		doctors := []*entities.Doctor{{ID: 1, Name: "Dr. Heart", Specialty: "Cardiology"}}
		repo.On("FindBySpecialties", mock.Anything, []string{"Cardiology", "Gastroenterology"}, services.MaxSymptomDoctors).Return(doctors, nil)

		result := service.Check(context.Background(), "  chest pain ")

		assert.Empty(t, result.Notice)
		assert.Equal(t, "chest pain", result.Symptoms)
		assert.Len(t, result.Conditions, 3)
		assert.Equal(t, []string{"Cardiology", "Gastroenterology"}, result.Specialties)
		assert.Equal(t, doctors, result.Doctors)
		assert.Equal(t, "See a doctor soon.", result.Advice)
		provider.AssertExpectations(t)
		repo.AssertExpectations(t)
	})

	t.Run("provider failure degrades", func(t *testing.T) {
		provider := new(MockSymptomAnalysisProvider)
		repo := new(MockDoctorRepository)
		service := services.NewSymptomCheckerService(provider, repo)

		provider.On("AnalyzeSymptoms", mock.Anything, mock.Anything).Return(nil, errors.New("dial tcp: timeout"))

		result := service.Check(context.Background(), "fever")

		assertDegraded(t, result)
		repo.AssertNotCalled(t, "FindBySpecialties", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("malformed model output degrades", func(t *testing.T) {
		provider := new(MockSymptomAnalysisProvider)
		service := services.NewSymptomCheckerService(provider, new(MockDoctorRepository))

		provider.On("AnalyzeSymptoms", mock.Anything, mock.Anything).Return(&entities.SymptomAnalysis{Conditions: []entities.ConditionSuggestion{}}, nil)

		assertDegraded(t, service.Check(context.Background(), "fever"))
	})

	t.Run("repository failure degrades", func(t *testing.T) {
		provider := new(MockSymptomAnalysisProvider)
		repo := new(MockDoctorRepository)
		service := services.NewSymptomCheckerService(provider, repo)

		provider.On("AnalyzeSymptoms", mock.Anything, mock.Anything).Return(&entities.SymptomAnalysis{
			Conditions: []entities.ConditionSuggestion{{Name: "Flu", Specialty: "General Practice"}},
			Advice:     "Rest.",
		}, nil)
		repo.On("FindBySpecialties", mock.Anything, mock.Anything, mock.Anything).Return(nil, errors.New("connection refused"))

		assertDegraded(t, service.Check(context.Background(), "fever"))
	})

	t.Run("provider panic degrades", func(t *testing.T) {
		provider := new(MockSymptomAnalysisProvider)
		service := services.NewSymptomCheckerService(provider, new(MockDoctorRepository))

		provider.On("AnalyzeSymptoms", mock.Anything, mock.Anything).Run(func(mock.Arguments) {
			panic("unexpected shape")
		}).Return(nil, nil)

		assertDegraded(t, service.Check(context.Background(), "fever"))
	})

	t.Run("nil provider degrades", func(t *testing.T) {
		service := services.NewSymptomCheckerService(nil, new(MockDoctorRepository))
		assertDegraded(t, service.Check(context.Background(), "fever"))
	})

	t.Run("no specialties skips doctor lookup", func(t *testing.T) {
		provider := new(MockSymptomAnalysisProvider)
		repo := new(MockDoctorRepository)
		service := services.NewSymptomCheckerService(provider, repo)

		provider.On("AnalyzeSymptoms", mock.Anything, mock.Anything).Return(&entities.SymptomAnalysis{
			Conditions: []entities.ConditionSuggestion{},
			Advice:     "Call emergency services now.",
		}, nil)

		result := service.Check(context.Background(), "not breathing")

		assert.Empty(t, result.Notice)
		assert.Equal(t, "Call emergency services now.", result.Advice)
		assert.Empty(t, result.Doctors)
		repo.AssertNotCalled(t, "FindBySpecialties", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestSymptomCheckerService_CachesSuccessfulAnalyses(t *testing.T) {
	provider := new(MockSymptomAnalysisProvider)
	repo := new(MockDoctorRepository)
	service := services.NewSymptomCheckerService(provider, repo)
	service.SetCache(cache.NewMemoryAdapter(), 0)

	provider.On("AnalyzeSymptoms", mock.Anything, "Sore throat").Return(&entities.SymptomAnalysis{
		Conditions: []entities.ConditionSuggestion{{Name: "Pharyngitis", Specialty: "ENT"}},
	}, nil).Once()
	repo.On("FindBySpecialties", mock.Anything, []string{"ENT"}, services.MaxSymptomDoctors).Return([]*entities.Doctor{}, nil)

	first := service.Check(context.Background(), "Sore throat")
	second := service.Check(context.Background(), "  sore   THROAT ")

	assert.Equal(t, first.Conditions, second.Conditions)
	assert.Equal(t, []string{"ENT"}, second.Specialties)
	provider.AssertNumberOfCalls(t, "AnalyzeSymptoms", 1)
}

func TestSymptomCheckerService_FailuresAreNotCached(t *testing.T) {
	provider := new(MockSymptomAnalysisProvider)
	service := services.NewSymptomCheckerService(provider, new(MockDoctorRepository))
	service.SetCache(cache.NewMemoryAdapter(), 0)

	provider.On("AnalyzeSymptoms", mock.Anything, mock.Anything).Return(nil, providers.ErrSymptomAnalysisUnavailable)

	service.Check(context.Background(), "fever")
	service.Check(context.Background(), "fever")

	provider.AssertNumberOfCalls(t, "AnalyzeSymptoms", 2)
}
