package services_test

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/stretchr/testify/mock"
	"github.com/zatekoja/doctordirectory/internal/domain/entities"
	"github.com/zatekoja/doctordirectory/internal/domain/repositories"
	apperrors "github.com/zatekoja/doctordirectory/pkg/errors"
)

// Mocks

type MockDoctorRepository struct {
	mock.Mock
}

func (m *MockDoctorRepository) Create(ctx context.Context, doctor *entities.Doctor) error {
	return m.Called(ctx, doctor).Error(0)
}

func (m *MockDoctorRepository) GetByID(ctx context.Context, id int64) (*entities.Doctor, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Doctor), args.Error(1)
}

func (m *MockDoctorRepository) Update(ctx context.Context, doctor *entities.Doctor) error {
	return m.Called(ctx, doctor).Error(0)
}

func (m *MockDoctorRepository) Delete(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockDoctorRepository) List(ctx context.Context) ([]*entities.Doctor, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Doctor), args.Error(1)
}

func (m *MockDoctorRepository) Count(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func (m *MockDoctorRepository) Recommend(ctx context.Context, filter repositories.RecommendFilter) ([]*entities.Doctor, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Doctor), args.Error(1)
}

func (m *MockDoctorRepository) FindBySpecialties(ctx context.Context, specialties []string, limit int) ([]*entities.Doctor, error) {
	args := m.Called(ctx, specialties, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Doctor), args.Error(1)
}

type MockSymptomAnalysisProvider struct {
	mock.Mock
}

func (m *MockSymptomAnalysisProvider) AnalyzeSymptoms(ctx context.Context, symptoms string) (*entities.SymptomAnalysis, error) {
	args := m.Called(ctx, symptoms)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.SymptomAnalysis), args.Error(1)
}

// memoryDoctorRepository mirrors the SQL adapter's filtering and ordering
// so service behaviour can be checked end to end without a database.
type memoryDoctorRepository struct {
	mu      sync.Mutex
	nextID  int64
	doctors map[int64]*entities.Doctor
}

func newMemoryDoctorRepository() *memoryDoctorRepository {
	return &memoryDoctorRepository{doctors: make(map[int64]*entities.Doctor)}
}

func (r *memoryDoctorRepository) Create(ctx context.Context, doctor *entities.Doctor) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	doctor.ID = r.nextID
	stored := *doctor
	r.doctors[doctor.ID] = &stored
	return nil
}

func (r *memoryDoctorRepository) GetByID(ctx context.Context, id int64) (*entities.Doctor, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	d, ok := r.doctors[id]
	if !ok {
		return nil, apperrors.NewNotFoundError("doctor not found")
	}
	out := *d
	return &out, nil
}

func (r *memoryDoctorRepository) Update(ctx context.Context, doctor *entities.Doctor) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.doctors[doctor.ID]; !ok {
		return apperrors.NewNotFoundError("doctor not found")
	}
	stored := *doctor
	r.doctors[doctor.ID] = &stored
	return nil
}

func (r *memoryDoctorRepository) Delete(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.doctors[id]; !ok {
		return apperrors.NewNotFoundError("doctor not found")
	}
	delete(r.doctors, id)
	return nil
}

func (r *memoryDoctorRepository) List(ctx context.Context) ([]*entities.Doctor, error) {
	return r.filter(func(*entities.Doctor) bool { return true }, byID), nil
}

func (r *memoryDoctorRepository) Count(ctx context.Context) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.doctors), nil
}

func (r *memoryDoctorRepository) Recommend(ctx context.Context, f repositories.RecommendFilter) ([]*entities.Doctor, error) {
	return r.filter(func(d *entities.Doctor) bool {
		if f.City != "" && !containsFold(d.City, f.City) {
			return false
		}
		if f.Specialty != "" && !containsFold(d.Specialty, f.Specialty) {
			return false
		}
		if f.MaxFee != nil && (d.Fee == nil || *d.Fee > *f.MaxFee) {
			return false
		}
		if f.MinRating != nil && (d.Rating == nil || *d.Rating < *f.MinRating) {
			return false
		}
		return true
	}, byRecommendation), nil
}

func (r *memoryDoctorRepository) FindBySpecialties(ctx context.Context, specialties []string, limit int) ([]*entities.Doctor, error) {
	out := r.filter(func(d *entities.Doctor) bool {
		for _, s := range specialties {
			if containsFold(d.Specialty, s) {
				return true
			}
		}
		return false
	}, byRecommendation)
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *memoryDoctorRepository) filter(keep func(*entities.Doctor) bool, less func(a, b *entities.Doctor) bool) []*entities.Doctor {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []*entities.Doctor{}
	for _, d := range r.doctors {
		if keep(d) {
			c := *d
			out = append(out, &c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return less(out[i], out[j]) })
	return out
}

func containsFold(s, sub string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(sub))
}

func byID(a, b *entities.Doctor) bool { return a.ID < b.ID }

func byRecommendation(a, b *entities.Doctor) bool {
	if (a.Rating == nil) != (b.Rating == nil) {
		return a.Rating != nil
	}
	if a.Rating != nil && *a.Rating != *b.Rating {
		return *a.Rating > *b.Rating
	}
	if (a.Fee == nil) != (b.Fee == nil) {
		return a.Fee != nil
	}
	if a.Fee != nil && *a.Fee != *b.Fee {
		return *a.Fee < *b.Fee
	}
	return a.ID < b.ID
}
