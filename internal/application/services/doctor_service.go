package services

import (
	"context"
	"fmt"

	"github.com/zatekoja/doctordirectory/internal/domain/entities"
	"github.com/zatekoja/doctordirectory/internal/domain/repositories"
	apperrors "github.com/zatekoja/doctordirectory/pkg/errors"
)

// DoctorService handles doctor directory business logic
type DoctorService struct {
	repo repositories.DoctorRepository
}

// NewDoctorService creates a new doctor service
func NewDoctorService(repo repositories.DoctorRepository) *DoctorService {
	return &DoctorService{repo: repo}
}

// Create stores a new doctor
func (s *DoctorService) Create(ctx context.Context, doctor *entities.Doctor) error {
	if err := validateDoctor(doctor); err != nil {
		return err
	}
	doctor.NormalizeFee()
	return s.repo.Create(ctx, doctor)
}

// Get retrieves a doctor by ID
func (s *DoctorService) Get(ctx context.Context, id int64) (*entities.Doctor, error) {
	return s.repo.GetByID(ctx, id)
}

// Update overwrites every field of the doctor with the given ID
func (s *DoctorService) Update(ctx context.Context, id int64, doctor *entities.Doctor) error {
	if err := validateDoctor(doctor); err != nil {
		return err
	}
	doctor.ID = id
	doctor.NormalizeFee()
	return s.repo.Update(ctx, doctor)
}

// Delete removes a doctor
func (s *DoctorService) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}

// List returns every doctor
func (s *DoctorService) List(ctx context.Context) ([]*entities.Doctor, error) {
	return s.repo.List(ctx)
}

// Count returns the number of doctors
func (s *DoctorService) Count(ctx context.Context) (int, error) {
	return s.repo.Count(ctx)
}

// Recommend returns doctors matching the filter, best rated and cheapest first
func (s *DoctorService) Recommend(ctx context.Context, filter repositories.RecommendFilter) ([]*entities.Doctor, error) {
	if filter.MaxFee != nil && *filter.MaxFee < 0 {
		filter.MaxFee = entities.IntPtr(0)
	}
	doctors, err := s.repo.Recommend(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("recommend doctors: %w", err)
	}
	return doctors, nil
}

func validateDoctor(doctor *entities.Doctor) error {
	if doctor == nil {
		return apperrors.NewValidationError("doctor is required")
	}
	if doctor.Name == "" {
		return apperrors.NewFieldValidationError(map[string]string{"name": "is required"})
	}
	return nil
}
