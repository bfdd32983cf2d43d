package database

import (
	"context"
	"fmt"

	"github.com/zatekoja/doctordirectory/internal/domain/entities"
	"github.com/zatekoja/doctordirectory/internal/infrastructure/clients/postgres"
	apperrors "github.com/zatekoja/doctordirectory/pkg/errors"
)

var doctorsSchema = fmt.Sprintf(`
CREATE TABLE IF NOT EXISTS doctors (
	id          BIGSERIAL PRIMARY KEY,
	name        VARCHAR(%d) NOT NULL,
	specialty   VARCHAR(%d),
	city        VARCHAR(%d),
	country     VARCHAR(%d),
	clinic      VARCHAR(%d),
	address     VARCHAR(%d),
	phone       VARCHAR(%d),
	email       VARCHAR(%d),
	fee         INTEGER CHECK (fee IS NULL OR fee >= 0),
	rating      DOUBLE PRECISION,
	created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_doctors_city_lower ON doctors (LOWER(city));
CREATE INDEX IF NOT EXISTS idx_doctors_specialty_lower ON doctors (LOWER(specialty));
CREATE INDEX IF NOT EXISTS idx_doctors_rating_fee ON doctors (rating DESC NULLS LAST, fee ASC NULLS LAST);
`,
	entities.MaxDoctorNameLength,
	entities.MaxDoctorSpecialtyLength,
	entities.MaxDoctorCityLength,
	entities.MaxDoctorCountryLength,
	entities.MaxDoctorClinicLength,
	entities.MaxDoctorAddressLength,
	entities.MaxDoctorPhoneLength,
	entities.MaxDoctorEmailLength,
)

// EnsureSchema creates the doctors table and its indexes when missing
func EnsureSchema(ctx context.Context, client *postgres.Client) error {
	if _, err := client.DB().ExecContext(ctx, doctorsSchema); err != nil {
		return apperrors.NewInternalError("failed to ensure doctors schema", err)
	}
	return nil
}
