package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"
	"github.com/doug-martin/goqu/v9/exp"
	"github.com/zatekoja/doctordirectory/internal/domain/entities"
	"github.com/zatekoja/doctordirectory/internal/domain/repositories"
	"github.com/zatekoja/doctordirectory/internal/infrastructure/clients/postgres"
	apperrors "github.com/zatekoja/doctordirectory/pkg/errors"
)

const doctorsTable = "doctors"

var doctorColumns = []interface{}{
	"id", "name", "specialty", "city", "country", "clinic", "address",
	"phone", "email", "fee", "rating", "created_at", "updated_at",
}

// DoctorAdapter implements DoctorRepository on PostgreSQL
type DoctorAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewDoctorAdapter creates a new doctor adapter
func NewDoctorAdapter(client *postgres.Client) repositories.DoctorRepository {
	return &DoctorAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

// Create inserts a doctor and stores the generated ID on it
func (a *DoctorAdapter) Create(ctx context.Context, doctor *entities.Doctor) error {
	if doctor == nil {
		return apperrors.NewInternalError("doctor is nil", fmt.Errorf("doctor is nil"))
	}

	now := time.Now().UTC()
	if doctor.CreatedAt.IsZero() {
		doctor.CreatedAt = now
	}
	doctor.UpdatedAt = now

	record := doctorRecord(doctor)
	record["created_at"] = doctor.CreatedAt

	query, args, err := a.db.Insert(doctorsTable).
		Prepared(true).
		Rows(record).
		Returning("id").
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build insert query", err)
	}

	if err := a.client.DB().QueryRowContext(ctx, query, args...).Scan(&doctor.ID); err != nil {
		return apperrors.NewInternalError("failed to create doctor", err)
	}

	return nil
}

// GetByID retrieves a doctor by ID
func (a *DoctorAdapter) GetByID(ctx context.Context, id int64) (*entities.Doctor, error) {
	query, args, err := a.db.Select(doctorColumns...).
		From(doctorsTable).
		Prepared(true).
		Where(goqu.Ex{"id": id}).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	doctor, err := scanDoctor(a.client.DB().QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("doctor with id %d not found", id))
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get doctor", err)
	}

	return doctor, nil
}

// Update overwrites all editable fields of a doctor
func (a *DoctorAdapter) Update(ctx context.Context, doctor *entities.Doctor) error {
	doctor.UpdatedAt = time.Now().UTC()

	query, args, err := a.db.Update(doctorsTable).
		Prepared(true).
		Set(doctorRecord(doctor)).
		Where(goqu.Ex{"id": doctor.ID}).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build update query", err)
	}

	result, err := a.client.DB().ExecContext(ctx, query, args...)
	if err != nil {
		return apperrors.NewInternalError("failed to update doctor", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return apperrors.NewInternalError("failed to get rows affected", err)
	}
	if rowsAffected == 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("doctor with id %d not found", doctor.ID))
	}

	return nil
}

// Delete removes a doctor permanently
func (a *DoctorAdapter) Delete(ctx context.Context, id int64) error {
	query, args, err := a.db.Delete(doctorsTable).
		Prepared(true).
		Where(goqu.Ex{"id": id}).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build delete query", err)
	}

	result, err := a.client.DB().ExecContext(ctx, query, args...)
	if err != nil {
		return apperrors.NewInternalError("failed to delete doctor", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return apperrors.NewInternalError("failed to get rows affected", err)
	}
	if rowsAffected == 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("doctor with id %d not found", id))
	}

	return nil
}

// List returns every doctor ordered by ID
func (a *DoctorAdapter) List(ctx context.Context) ([]*entities.Doctor, error) {
	ds := a.db.Select(doctorColumns...).
		From(doctorsTable).
		Order(goqu.I("id").Asc())

	return a.queryDoctors(ctx, ds, "failed to list doctors")
}

// Count returns the number of doctors
func (a *DoctorAdapter) Count(ctx context.Context) (int, error) {
	query, args, err := a.db.From(doctorsTable).
		Select(goqu.COUNT("*")).
		ToSQL()
	if err != nil {
		return 0, apperrors.NewInternalError("failed to build count query", err)
	}

	var count int
	if err := a.client.DB().QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, apperrors.NewInternalError("failed to count doctors", err)
	}
	return count, nil
}

// Recommend filters doctors by city/specialty substring, fee ceiling and
// rating floor. Rows without a fee or rating are excluded only when the
// corresponding bound is set.
func (a *DoctorAdapter) Recommend(ctx context.Context, filter repositories.RecommendFilter) ([]*entities.Doctor, error) {
	ds := a.db.Select(doctorColumns...).
		From(doctorsTable).
		Prepared(true)

	if city := strings.TrimSpace(filter.City); city != "" {
		ds = ds.Where(goqu.I("city").ILike(containsPattern(city)))
	}
	if specialty := strings.TrimSpace(filter.Specialty); specialty != "" {
		ds = ds.Where(goqu.I("specialty").ILike(containsPattern(specialty)))
	}
	if filter.MaxFee != nil {
		ds = ds.Where(
			goqu.I("fee").IsNotNull(),
			goqu.I("fee").Lte(*filter.MaxFee),
		)
	}
	if filter.MinRating != nil {
		ds = ds.Where(
			goqu.I("rating").IsNotNull(),
			goqu.I("rating").Gte(*filter.MinRating),
		)
	}

	ds = ds.Order(
		goqu.I("rating").Desc().NullsLast(),
		goqu.I("fee").Asc().NullsLast(),
		goqu.I("id").Asc(),
	)

	return a.queryDoctors(ctx, ds, "failed to recommend doctors")
}

// FindBySpecialties returns the best rated doctors whose specialty contains any
// of the given names
func (a *DoctorAdapter) FindBySpecialties(ctx context.Context, specialties []string, limit int) ([]*entities.Doctor, error) {
	var matches []exp.Expression
	for _, s := range specialties {
		if s = strings.TrimSpace(s); s != "" {
			matches = append(matches, goqu.I("specialty").ILike(containsPattern(s)))
		}
	}
	if len(matches) == 0 {
		return []*entities.Doctor{}, nil
	}

	ds := a.db.Select(doctorColumns...).
		From(doctorsTable).
		Prepared(true).
		Where(goqu.Or(matches...)).
		Order(
			goqu.I("rating").Desc().NullsLast(),
			goqu.I("id").Asc(),
		)
	if limit > 0 {
		ds = ds.Limit(uint(limit))
	}

	return a.queryDoctors(ctx, ds, "failed to find doctors by specialty")
}

func (a *DoctorAdapter) queryDoctors(ctx context.Context, ds *goqu.SelectDataset, failure string) ([]*entities.Doctor, error) {
	query, args, err := ds.ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError(failure, err)
	}
	defer rows.Close()

	doctors := []*entities.Doctor{}
	for rows.Next() {
		doctor, err := scanDoctor(rows)
		if err != nil {
			return nil, apperrors.NewInternalError("failed to scan doctor", err)
		}
		doctors = append(doctors, doctor)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError(failure, err)
	}

	return doctors, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanDoctor(row rowScanner) (*entities.Doctor, error) {
	doctor := &entities.Doctor{}
	var specialty, city, country, clinic, address, phone, email sql.NullString
	var fee sql.NullInt64
	var rating sql.NullFloat64

	err := row.Scan(
		&doctor.ID,
		&doctor.Name,
		&specialty,
		&city,
		&country,
		&clinic,
		&address,
		&phone,
		&email,
		&fee,
		&rating,
		&doctor.CreatedAt,
		&doctor.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	doctor.Specialty = specialty.String
	doctor.City = city.String
	doctor.Country = country.String
	doctor.Clinic = clinic.String
	doctor.Address = address.String
	doctor.Phone = phone.String
	doctor.Email = email.String
	if fee.Valid {
		doctor.Fee = entities.IntPtr(int(fee.Int64))
	}
	if rating.Valid {
		doctor.Rating = entities.Float64Ptr(rating.Float64)
	}

	return doctor, nil
}

func doctorRecord(doctor *entities.Doctor) goqu.Record {
	fee := sql.NullInt64{}
	if doctor.Fee != nil {
		fee = sql.NullInt64{Int64: int64(*doctor.Fee), Valid: true}
	}
	rating := sql.NullFloat64{}
	if doctor.Rating != nil {
		rating = sql.NullFloat64{Float64: *doctor.Rating, Valid: true}
	}

	return goqu.Record{
		"name":       doctor.Name,
		"specialty":  nullString(doctor.Specialty),
		"city":       nullString(doctor.City),
		"country":    nullString(doctor.Country),
		"clinic":     nullString(doctor.Clinic),
		"address":    nullString(doctor.Address),
		"phone":      nullString(doctor.Phone),
		"email":      nullString(doctor.Email),
		"fee":        fee,
		"rating":     rating,
		"updated_at": doctor.UpdatedAt,
	}
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern builds an ILIKE pattern matching s anywhere, treating LIKE
// wildcards in s literally
func containsPattern(s string) string {
	return "%" + likeEscaper.Replace(s) + "%"
}
