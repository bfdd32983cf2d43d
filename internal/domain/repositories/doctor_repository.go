package repositories

import (
	"context"

	"github.com/zatekoja/doctordirectory/internal/domain/entities"
)

// DoctorRepository defines the interface for doctor data operations
type DoctorRepository interface {
	// Create inserts a doctor and assigns its ID
	Create(ctx context.Context, doctor *entities.Doctor) error

	// GetByID retrieves a doctor by ID
	GetByID(ctx context.Context, id int64) (*entities.Doctor, error)

	// Update overwrites every field of an existing doctor
	Update(ctx context.Context, doctor *entities.Doctor) error

	// Delete removes a doctor permanently
	Delete(ctx context.Context, id int64) error

	// List returns all doctors ordered by ID
	List(ctx context.Context) ([]*entities.Doctor, error)

	// Count returns the number of stored doctors
	Count(ctx context.Context) (int, error)

	// Recommend returns doctors matching the filter, best rated first
	Recommend(ctx context.Context, filter RecommendFilter) ([]*entities.Doctor, error)

	// FindBySpecialties returns up to limit doctors whose specialty matches any of the given ones
	FindBySpecialties(ctx context.Context, specialties []string, limit int) ([]*entities.Doctor, error)
}

// RecommendFilter narrows a recommendation lookup. Zero values mean "no filter".
type RecommendFilter struct {
	City      string
	Specialty string
	MaxFee    *int
	MinRating *float64
}

// IsEmpty reports whether no filter is set
func (f RecommendFilter) IsEmpty() bool {
	return f.City == "" && f.Specialty == "" && f.MaxFee == nil && f.MinRating == nil
}
