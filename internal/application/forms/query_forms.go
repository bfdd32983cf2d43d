package forms

import (
	"net/url"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/zatekoja/doctordirectory/internal/domain/repositories"
)

// MaxSymptomLength bounds the symptom text sent to the model
const MaxSymptomLength = 2000

// RecommendForm is the recommendation search request
type RecommendForm struct {
	City      string `json:"city"`
	Specialty string `json:"specialty"`
	MaxFee    string `json:"max_fee"`
	MinRating string `json:"min_rating"`

	Errors ValidationErrors `json:"-"`

	filter repositories.RecommendFilter
}

// RecommendFormFromValues reads a submitted search form
func RecommendFormFromValues(values url.Values) *RecommendForm {
	return &RecommendForm{
		City:      strings.TrimSpace(values.Get("city")),
		Specialty: strings.TrimSpace(values.Get("specialty")),
		MaxFee:    strings.TrimSpace(values.Get("max_fee")),
		MinRating: strings.TrimSpace(values.Get("min_rating")),
		Errors:    ValidationErrors{},
	}
}

// Validate parses the numeric bounds
func (f *RecommendForm) Validate() error {
	f.Errors = ValidationErrors{}
	f.City = strings.TrimSpace(f.City)
	f.Specialty = strings.TrimSpace(f.Specialty)

	maxFee, err := ParseFee(f.MaxFee)
	if err != nil {
		f.Errors.Add("max_fee", err.Error())
	}
	minRating, err := ParseRating(f.MinRating)
	if err != nil {
		f.Errors.Add("min_rating", err.Error())
	}

	f.filter = repositories.RecommendFilter{
		City:      f.City,
		Specialty: f.Specialty,
		MaxFee:    maxFee,
		MinRating: minRating,
	}
	return f.Errors.Err()
}

// Filter returns the repository filter. Call Validate first.
func (f *RecommendForm) Filter() repositories.RecommendFilter {
	return f.filter
}

// SymptomForm is the symptom checker request
type SymptomForm struct {
	Symptoms string `json:"symptoms"`

	Errors ValidationErrors `json:"-"`
}

// SymptomFormFromValues reads a submitted symptom form
func SymptomFormFromValues(values url.Values) *SymptomForm {
	return &SymptomForm{Symptoms: values.Get("symptoms"), Errors: ValidationErrors{}}
}

// Validate trims the text and checks it is present and bounded
func (f *SymptomForm) Validate() error {
	f.Errors = ValidationErrors{}
	f.Symptoms = strings.TrimSpace(f.Symptoms)

	switch {
	case f.Symptoms == "":
		f.Errors.Add("symptoms", "is required")
	case utf8.RuneCountInString(f.Symptoms) > MaxSymptomLength:
		f.Errors.Add("symptoms", "must be at most "+strconv.Itoa(MaxSymptomLength)+" characters")
	}
	return f.Errors.Err()
}

func formatInt(v int) string {
	return strconv.Itoa(v)
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
