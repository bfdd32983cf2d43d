package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/zatekoja/doctordirectory/internal/application/forms"
)

const maxJSONBody = 64 << 10

// DoctorAPIHandler serves the JSON API
type DoctorAPIHandler struct {
	doctors DoctorService
	checker SymptomChecker
}

// NewDoctorAPIHandler creates a new JSON API handler
func NewDoctorAPIHandler(doctors DoctorService, checker SymptomChecker) *DoctorAPIHandler {
	return &DoctorAPIHandler{doctors: doctors, checker: checker}
}

// ListDoctors handles GET /api/doctors
func (h *DoctorAPIHandler) ListDoctors(w http.ResponseWriter, r *http.Request) {
	doctors, err := h.doctors.List(r.Context())
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"doctors": doctors,
		"count":   len(doctors),
	})
}

// GetDoctor handles GET /api/doctors/{id}
func (h *DoctorAPIHandler) GetDoctor(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r)
	if !ok {
		respondWithError(w, http.StatusNotFound, "doctor not found")
		return
	}

	doctor, err := h.doctors.Get(r.Context(), id)
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, doctor)
}

// Recommend handles POST /api/recommend. Numbers may be sent as JSON
// strings or numbers.
func (h *DoctorAPIHandler) Recommend(w http.ResponseWriter, r *http.Request) {
	var body struct {
		City      string      `json:"city"`
		Specialty string      `json:"specialty"`
		MaxFee    looseNumber `json:"max_fee"`
		MinRating looseNumber `json:"min_rating"`
	}
	if !decodeJSON(w, r, &body) {
		return
	}

	form := &forms.RecommendForm{
		City:      body.City,
		Specialty: body.Specialty,
		MaxFee:    string(body.MaxFee),
		MinRating: string(body.MinRating),
	}
	if err := form.Validate(); err != nil {
		respondWithAppError(w, r, err)
		return
	}

	doctors, err := h.doctors.Recommend(r.Context(), form.Filter())
	if err != nil {
		respondWithAppError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"doctors": doctors,
		"count":   len(doctors),
	})
}

// CheckSymptoms handles POST /api/symptom-checker
func (h *DoctorAPIHandler) CheckSymptoms(w http.ResponseWriter, r *http.Request) {
	var form forms.SymptomForm
	if !decodeJSON(w, r, &form) {
		return
	}
	if err := form.Validate(); err != nil {
		respondWithAppError(w, r, err)
		return
	}

	respondWithJSON(w, http.StatusOK, h.checker.Check(r.Context(), form.Symptoms))
}

// looseNumber accepts a JSON number, a string or null and keeps the raw text
// so the form parsers apply the same rules as for HTML forms
type looseNumber string

func (n *looseNumber) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*n = looseNumber(s)
		return nil
	}
	var num json.Number
	if err := json.Unmarshal(data, &num); err != nil {
		return err
	}
	*n = looseNumber(num)
	return nil
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxJSONBody)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}
