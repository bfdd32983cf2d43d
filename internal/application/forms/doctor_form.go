package forms

import (
	"net/url"
	"strings"
	"unicode/utf8"

	"github.com/zatekoja/doctordirectory/internal/domain/entities"
)

// DoctorForm is the create/edit request for a doctor. Fields hold the raw
// submitted text so the form can be re-rendered after a failed validation.
type DoctorForm struct {
	Name      string `json:"name"`
	Specialty string `json:"specialty"`
	City      string `json:"city"`
	Country   string `json:"country"`
	Clinic    string `json:"clinic"`
	Address   string `json:"address"`
	Phone     string `json:"phone"`
	Email     string `json:"email"`
	Fee       string `json:"fee"`
	Rating    string `json:"rating"`

	Errors ValidationErrors `json:"-"`

	fee    *int
	rating *float64
}

// DoctorFormFromValues reads a submitted HTML form
func DoctorFormFromValues(values url.Values) *DoctorForm {
	get := func(key string) string { return strings.TrimSpace(values.Get(key)) }
	return &DoctorForm{
		Name:      get("name"),
		Specialty: get("specialty"),
		City:      get("city"),
		Country:   get("country"),
		Clinic:    get("clinic"),
		Address:   get("address"),
		Phone:     get("phone"),
		Email:     get("email"),
		Fee:       get("fee"),
		Rating:    get("rating"),
		Errors:    ValidationErrors{},
	}
}

// DoctorFormFromEntity pre-fills the edit form
func DoctorFormFromEntity(d *entities.Doctor) *DoctorForm {
	form := &DoctorForm{
		Name:      d.Name,
		Specialty: d.Specialty,
		City:      d.City,
		Country:   d.Country,
		Clinic:    d.Clinic,
		Address:   d.Address,
		Phone:     d.Phone,
		Email:     d.Email,
		Errors:    ValidationErrors{},
	}
	if d.Fee != nil {
		form.Fee = formatInt(*d.Fee)
	}
	if d.Rating != nil {
		form.Rating = formatFloat(*d.Rating)
	}
	return form
}

// Validate checks every field and returns nil or a validation AppError
func (f *DoctorForm) Validate() error {
	f.Errors = ValidationErrors{}

	if f.Name == "" {
		f.Errors.Add("name", "is required")
	} else if utf8.RuneCountInString(f.Name) > entities.MaxDoctorNameLength {
		f.Errors.Add("name", tooLong(entities.MaxDoctorNameLength))
	}

	// Limits match the table columns so a valid form always fits
	for _, field := range []struct {
		name  string
		value string
		max   int
	}{
		{"specialty", f.Specialty, entities.MaxDoctorSpecialtyLength},
		{"city", f.City, entities.MaxDoctorCityLength},
		{"country", f.Country, entities.MaxDoctorCountryLength},
		{"clinic", f.Clinic, entities.MaxDoctorClinicLength},
		{"address", f.Address, entities.MaxDoctorAddressLength},
		{"phone", f.Phone, entities.MaxDoctorPhoneLength},
	} {
		if utf8.RuneCountInString(field.value) > field.max {
			f.Errors.Add(field.name, tooLong(field.max))
		}
	}

	if f.Email != "" {
		if utf8.RuneCountInString(f.Email) > entities.MaxDoctorEmailLength {
			f.Errors.Add("email", tooLong(entities.MaxDoctorEmailLength))
		} else if !strings.Contains(f.Email, "@") {
			f.Errors.Add("email", "must be an email address")
		}
	}

	fee, err := ParseFee(f.Fee)
	if err != nil {
		f.Errors.Add("fee", err.Error())
	}
	rating, err := ParseRating(f.Rating)
	if err != nil {
		f.Errors.Add("rating", err.Error())
	}
	f.fee, f.rating = fee, rating

	return f.Errors.Err()
}

// ToDoctor builds the entity. Call Validate first.
func (f *DoctorForm) ToDoctor() *entities.Doctor {
	return &entities.Doctor{
		Name:      f.Name,
		Specialty: f.Specialty,
		City:      f.City,
		Country:   f.Country,
		Clinic:    f.Clinic,
		Address:   f.Address,
		Phone:     f.Phone,
		Email:     f.Email,
		Fee:       f.fee,
		Rating:    f.rating,
	}
}

func tooLong(max int) string {
	return "must be at most " + formatInt(max) + " characters"
}
