package database

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/zatekoja/doctordirectory/internal/domain/entities"
	"github.com/zatekoja/doctordirectory/internal/domain/providers"
	"github.com/zatekoja/doctordirectory/internal/domain/repositories"
	"github.com/zatekoja/doctordirectory/internal/infrastructure/observability"
)

// Cache TTLs
const (
	doctorByIDTTL  = 5 * time.Minute
	doctorCountTTL = 2 * time.Minute
)

const doctorCountCacheKey = "doctors:count"

func doctorCacheKey(id int64) string {
	return fmt.Sprintf("doctor:%d", id)
}

// CachedDoctorAdapter wraps a DoctorRepository with read-through caching of
// single lookups and the record count. Every write invalidates what it touched.
type CachedDoctorAdapter struct {
	repositories.DoctorRepository
	cache   providers.CacheProvider
	metrics *observability.Metrics
}

// NewCachedDoctorAdapter creates a new cached doctor adapter
func NewCachedDoctorAdapter(adapter repositories.DoctorRepository, cache providers.CacheProvider, metrics *observability.Metrics) repositories.DoctorRepository {
	return &CachedDoctorAdapter{
		DoctorRepository: adapter,
		cache:            cache,
		metrics:          metrics,
	}
}

// GetByID retrieves a doctor by ID with caching
func (a *CachedDoctorAdapter) GetByID(ctx context.Context, id int64) (*entities.Doctor, error) {
	key := doctorCacheKey(id)
	logger := observability.LoggerFromContext(ctx)

	if cached, err := a.cache.Get(ctx, key); err == nil {
		var doctor entities.Doctor
		if err := json.Unmarshal(cached, &doctor); err == nil {
			observability.RecordCacheHit(ctx, a.metrics, "doctor")
			return &doctor, nil
		}
		logger.Warn().Err(err).Int64("doctor_id", id).Msg("failed to unmarshal cached doctor")
	}
	observability.RecordCacheMiss(ctx, a.metrics, "doctor")

	doctor, err := a.DoctorRepository.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(doctor); err == nil {
		if err := a.cache.Set(ctx, key, data, doctorByIDTTL); err != nil {
			logger.Warn().Err(err).Int64("doctor_id", id).Msg("failed to cache doctor")
		}
	}

	return doctor, nil
}

// Count returns the doctor count with caching
func (a *CachedDoctorAdapter) Count(ctx context.Context) (int, error) {
	if cached, err := a.cache.Get(ctx, doctorCountCacheKey); err == nil {
		if count, err := strconv.Atoi(string(cached)); err == nil {
			observability.RecordCacheHit(ctx, a.metrics, "doctor_count")
			return count, nil
		}
	}
	observability.RecordCacheMiss(ctx, a.metrics, "doctor_count")

	count, err := a.DoctorRepository.Count(ctx)
	if err != nil {
		return 0, err
	}

	if err := a.cache.Set(ctx, doctorCountCacheKey, []byte(strconv.Itoa(count)), doctorCountTTL); err != nil {
		observability.LoggerFromContext(ctx).Warn().Err(err).Msg("failed to cache doctor count")
	}
	return count, nil
}

// Create inserts a doctor and drops the cached count
func (a *CachedDoctorAdapter) Create(ctx context.Context, doctor *entities.Doctor) error {
	if err := a.DoctorRepository.Create(ctx, doctor); err != nil {
		return err
	}
	a.invalidate(ctx, doctorCountCacheKey)
	return nil
}

// Update overwrites a doctor and drops its cached copy
func (a *CachedDoctorAdapter) Update(ctx context.Context, doctor *entities.Doctor) error {
	if err := a.DoctorRepository.Update(ctx, doctor); err != nil {
		return err
	}
	a.invalidate(ctx, doctorCacheKey(doctor.ID))
	return nil
}

// Delete removes a doctor and drops its cached copy and the count
func (a *CachedDoctorAdapter) Delete(ctx context.Context, id int64) error {
	if err := a.DoctorRepository.Delete(ctx, id); err != nil {
		return err
	}
	a.invalidate(ctx, doctorCacheKey(id), doctorCountCacheKey)
	return nil
}

func (a *CachedDoctorAdapter) invalidate(ctx context.Context, keys ...string) {
	if err := a.cache.Delete(ctx, keys...); err != nil {
		observability.LoggerFromContext(ctx).Warn().Err(err).Strs("keys", keys).Msg("failed to invalidate doctor cache")
	}
}
