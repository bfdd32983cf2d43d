package entities

import "time"

// Doctor is one directory entry. Fee and Rating are nil when unknown.
type Doctor struct {
	ID        int64     `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Specialty string    `json:"specialty" db:"specialty"`
	City      string    `json:"city" db:"city"`
	Country   string    `json:"country" db:"country"`
	Clinic    string    `json:"clinic" db:"clinic"`
	Address   string    `json:"address" db:"address"`
	Phone     string    `json:"phone" db:"phone"`
	Email     string    `json:"email" db:"email"`
	Fee       *int      `json:"fee" db:"fee"`
	Rating    *float64  `json:"rating" db:"rating"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// Column widths of the doctors table, in characters
const (
	MaxDoctorNameLength      = 120
	MaxDoctorSpecialtyLength = 120
	MaxDoctorCityLength      = 120
	MaxDoctorCountryLength   = 120
	MaxDoctorClinicLength    = 200
	MaxDoctorAddressLength   = 200
	MaxDoctorPhoneLength     = 50
	MaxDoctorEmailLength     = 200
)

// NormalizeFee clamps a negative fee to zero.
func (d *Doctor) NormalizeFee() {
	if d.Fee != nil && *d.Fee < 0 {
		zero := 0
		d.Fee = &zero
	}
}

// IntPtr returns a pointer to v
func IntPtr(v int) *int { return &v }

// Float64Ptr returns a pointer to v
func Float64Ptr(v float64) *float64 { return &v }
