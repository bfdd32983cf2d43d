package handlers

import (
	"context"

	"github.com/zatekoja/doctordirectory/internal/domain/entities"
	"github.com/zatekoja/doctordirectory/internal/domain/repositories"
)

// DoctorService is the part of the doctor service the handlers use
type DoctorService interface {
	Create(ctx context.Context, doctor *entities.Doctor) error
	Get(ctx context.Context, id int64) (*entities.Doctor, error)
	Update(ctx context.Context, id int64, doctor *entities.Doctor) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context) ([]*entities.Doctor, error)
	Count(ctx context.Context) (int, error)
	Recommend(ctx context.Context, filter repositories.RecommendFilter) ([]*entities.Doctor, error)
}

// SymptomChecker runs the symptom pipeline. It never fails.
type SymptomChecker interface {
	Check(ctx context.Context, symptoms string) *entities.SymptomCheckResult
}
