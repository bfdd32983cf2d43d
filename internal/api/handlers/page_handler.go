package handlers

import (
	"fmt"
	"net/http"

	"github.com/zatekoja/doctordirectory/internal/application/forms"
	"github.com/zatekoja/doctordirectory/internal/domain/entities"
	"github.com/zatekoja/doctordirectory/internal/infrastructure/observability"
	apperrors "github.com/zatekoja/doctordirectory/pkg/errors"
)

// PageHandler serves the HTML pages
type PageHandler struct {
	doctors  DoctorService
	checker  SymptomChecker
	renderer *Renderer
}

// NewPageHandler creates a new page handler
func NewPageHandler(doctors DoctorService, checker SymptomChecker, renderer *Renderer) *PageHandler {
	return &PageHandler{
		doctors:  doctors,
		checker:  checker,
		renderer: renderer,
	}
}

type indexView struct {
	Count int
}

type doctorListView struct {
	Doctors []*entities.Doctor
}

type doctorFormView struct {
	ID     int64
	Action string
	Form   *forms.DoctorForm
}

type recommendView struct {
	Form     *forms.RecommendForm
	Searched bool
	Doctors  []*entities.Doctor
}

type symptomView struct {
	Form   *forms.SymptomForm
	Result *entities.SymptomCheckResult
}

// Index handles GET /
func (h *PageHandler) Index(w http.ResponseWriter, r *http.Request) {
	count, err := h.doctors.Count(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.renderer.Render(w, r, http.StatusOK, "index", indexView{Count: count})
}

// ListDoctors handles GET /doctors
func (h *PageHandler) ListDoctors(w http.ResponseWriter, r *http.Request) {
	doctors, err := h.doctors.List(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.renderer.Render(w, r, http.StatusOK, "doctors", doctorListView{Doctors: doctors})
}

// NewDoctor handles GET /doctors/new
func (h *PageHandler) NewDoctor(w http.ResponseWriter, r *http.Request) {
	h.renderer.Render(w, r, http.StatusOK, "doctor_form", doctorFormView{
		Action: "/doctors/new",
		Form:   &forms.DoctorForm{Errors: forms.ValidationErrors{}},
	})
}

// CreateDoctor handles POST /doctors/new
func (h *PageHandler) CreateDoctor(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.renderer.RenderError(w, r, http.StatusBadRequest, "The form could not be read.")
		return
	}

	form := forms.DoctorFormFromValues(r.PostForm)
	view := doctorFormView{Action: "/doctors/new", Form: form}
	if err := form.Validate(); err != nil {
		h.renderer.Render(w, r, http.StatusBadRequest, "doctor_form", view)
		return
	}

	doctor := form.ToDoctor()
	if err := h.doctors.Create(r.Context(), doctor); err != nil {
		if apperrors.IsValidation(err) {
			h.renderer.Render(w, r, http.StatusBadRequest, "doctor_form", view)
			return
		}
		h.fail(w, r, err)
		return
	}

	observability.LoggerFromContext(r.Context()).Info().Int64("doctor_id", doctor.ID).Msg("doctor created")
	http.Redirect(w, r, "/doctors", http.StatusSeeOther)
}

// EditDoctor handles GET /doctors/{id}/edit
func (h *PageHandler) EditDoctor(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r)
	if !ok {
		h.notFound(w, r)
		return
	}

	doctor, err := h.doctors.Get(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	h.renderer.Render(w, r, http.StatusOK, "doctor_form", doctorFormView{
		ID:     id,
		Action: editAction(id),
		Form:   forms.DoctorFormFromEntity(doctor),
	})
}

// UpdateDoctor handles POST /doctors/{id}/edit
func (h *PageHandler) UpdateDoctor(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r)
	if !ok {
		h.notFound(w, r)
		return
	}
	if err := r.ParseForm(); err != nil {
		h.renderer.RenderError(w, r, http.StatusBadRequest, "The form could not be read.")
		return
	}

	form := forms.DoctorFormFromValues(r.PostForm)
	view := doctorFormView{ID: id, Action: editAction(id), Form: form}
	if err := form.Validate(); err != nil {
		h.renderer.Render(w, r, http.StatusBadRequest, "doctor_form", view)
		return
	}

	if err := h.doctors.Update(r.Context(), id, form.ToDoctor()); err != nil {
		h.fail(w, r, err)
		return
	}

	http.Redirect(w, r, "/doctors", http.StatusSeeOther)
}

// DeleteDoctor handles POST /doctors/{id}/delete
func (h *PageHandler) DeleteDoctor(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r)
	if !ok {
		h.notFound(w, r)
		return
	}

	if err := h.doctors.Delete(r.Context(), id); err != nil {
		h.fail(w, r, err)
		return
	}

	observability.LoggerFromContext(r.Context()).Info().Int64("doctor_id", id).Msg("doctor deleted")
	http.Redirect(w, r, "/doctors", http.StatusSeeOther)
}

// RecommendForm handles GET /recommend
func (h *PageHandler) RecommendForm(w http.ResponseWriter, r *http.Request) {
	h.renderer.Render(w, r, http.StatusOK, "recommend", recommendView{
		Form: &forms.RecommendForm{Errors: forms.ValidationErrors{}},
	})
}

// Recommend handles POST /recommend
func (h *PageHandler) Recommend(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.renderer.RenderError(w, r, http.StatusBadRequest, "The form could not be read.")
		return
	}

	form := forms.RecommendFormFromValues(r.PostForm)
	if err := form.Validate(); err != nil {
		h.renderer.Render(w, r, http.StatusBadRequest, "recommend", recommendView{Form: form})
		return
	}

	doctors, err := h.doctors.Recommend(r.Context(), form.Filter())
	if err != nil {
		h.fail(w, r, err)
		return
	}

	h.renderer.Render(w, r, http.StatusOK, "recommend", recommendView{
		Form:     form,
		Searched: true,
		Doctors:  doctors,
	})
}

// SymptomCheckerForm handles GET /symptom-checker
func (h *PageHandler) SymptomCheckerForm(w http.ResponseWriter, r *http.Request) {
	h.renderer.Render(w, r, http.StatusOK, "symptom_checker", symptomView{
		Form: &forms.SymptomForm{Errors: forms.ValidationErrors{}},
	})
}

// CheckSymptoms handles POST /symptom-checker. The page always renders: a
// failed analysis shows the notice instead of an error.
func (h *PageHandler) CheckSymptoms(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.renderer.RenderError(w, r, http.StatusBadRequest, "The form could not be read.")
		return
	}

	form := forms.SymptomFormFromValues(r.PostForm)
	if err := form.Validate(); err != nil {
		h.renderer.Render(w, r, http.StatusBadRequest, "symptom_checker", symptomView{Form: form})
		return
	}

	result := h.checker.Check(r.Context(), form.Symptoms)
	h.renderer.Render(w, r, http.StatusOK, "symptom_checker", symptomView{Form: form, Result: result})
}

func (h *PageHandler) notFound(w http.ResponseWriter, r *http.Request) {
	h.renderer.RenderError(w, r, http.StatusNotFound, "That doctor does not exist.")
}

func (h *PageHandler) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := apperrors.HTTPStatus(err)
	if status == http.StatusNotFound {
		h.notFound(w, r)
		return
	}
	observability.LoggerFromContext(r.Context()).Error().Err(err).Str("path", r.URL.Path).Msg("request failed")
	h.renderer.RenderError(w, r, status, "Something went wrong. Please try again later.")
}

func editAction(id int64) string {
	return fmt.Sprintf("/doctors/%d/edit", id)
}
