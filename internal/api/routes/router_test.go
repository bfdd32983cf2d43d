package routes_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/zatekoja/doctordirectory/internal/api/handlers"
	"github.com/zatekoja/doctordirectory/internal/api/routes"
	"github.com/zatekoja/doctordirectory/internal/application/services"
	"github.com/zatekoja/doctordirectory/internal/domain/entities"
	"github.com/zatekoja/doctordirectory/internal/domain/repositories"
	apperrors "github.com/zatekoja/doctordirectory/pkg/errors"
)

type fakeRepository struct {
	doctors map[int64]*entities.Doctor
	nextID  int64
}

func (f *fakeRepository) Create(ctx context.Context, d *entities.Doctor) error {
	f.nextID++
	d.ID = f.nextID
	f.doctors[d.ID] = d
	return nil
}

func (f *fakeRepository) GetByID(ctx context.Context, id int64) (*entities.Doctor, error) {
	if d, ok := f.doctors[id]; ok {
		return d, nil
	}
	return nil, apperrors.NewNotFoundError("doctor not found")
}

func (f *fakeRepository) Update(ctx context.Context, d *entities.Doctor) error {
	if _, ok := f.doctors[d.ID]; !ok {
		return apperrors.NewNotFoundError("doctor not found")
	}
	f.doctors[d.ID] = d
	return nil
}

func (f *fakeRepository) Delete(ctx context.Context, id int64) error {
	if _, ok := f.doctors[id]; !ok {
		return apperrors.NewNotFoundError("doctor not found")
	}
	delete(f.doctors, id)
	return nil
}

func (f *fakeRepository) List(ctx context.Context) ([]*entities.Doctor, error) {
	out := []*entities.Doctor{}
	for id := int64(1); id <= f.nextID; id++ {
		if d, ok := f.doctors[id]; ok {
			out = append(out, d)
		}
	}
	return out, nil
}

func (f *fakeRepository) Count(ctx context.Context) (int, error) { return len(f.doctors), nil }

func (f *fakeRepository) Recommend(ctx context.Context, filter repositories.RecommendFilter) ([]*entities.Doctor, error) {
	all, _ := f.List(ctx)
	out := []*entities.Doctor{}
	for _, d := range all {
		if filter.City != "" && !strings.Contains(strings.ToLower(d.City), strings.ToLower(filter.City)) {
			continue
		}
		if filter.MaxFee != nil && (d.Fee == nil || *d.Fee > *filter.MaxFee) {
			continue
		}
		out = append(out, d)
	}
	return out, nil
}

func (f *fakeRepository) FindBySpecialties(ctx context.Context, specialties []string, limit int) ([]*entities.Doctor, error) {
	return []*entities.Doctor{}, nil
}

func newTestServer() http.Handler {
	repo := &fakeRepository{doctors: make(map[int64]*entities.Doctor)}
	doctorService := services.NewDoctorService(repo)
	checker := services.NewSymptomCheckerService(nil, repo)

	router := routes.NewRouter(
		handlers.NewPageHandler(doctorService, checker, handlers.MustNewRenderer()),
		handlers.NewDoctorAPIHandler(doctorService, checker),
		handlers.NewHealthHandler(nil),
		[]string{"*"},
		nil,
	)
	return router.SetupRoutes()
}

func serve(h http.Handler, method, target string, form url.Values) *httptest.ResponseRecorder {
	var req *http.Request
	if form != nil {
		req = httptest.NewRequest(method, target, strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestRouter_DoctorLifecycle(t *testing.T) {
	server := newTestServer()

	w := serve(server, http.MethodPost, "/doctors/new", url.Values{"name": {"Dr. A"}, "city": {"Beirut"}, "fee": {"-5"}})
	assert.Equal(t, http.StatusSeeOther, w.Code)

	w = serve(server, http.MethodGet, "/api/doctors/1", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"fee":0`)

	w = serve(server, http.MethodPost, "/recommend", url.Values{"city": {"beirut"}, "max_fee": {"100"}})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Dr. A")

	w = serve(server, http.MethodPost, "/doctors/1/delete", nil)
	assert.Equal(t, http.StatusSeeOther, w.Code)

	w = serve(server, http.MethodGet, "/doctors", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, w.Body.String(), "Dr. A")
}

func TestRouter_NotFoundAndMethods(t *testing.T) {
	server := newTestServer()

	assert.Equal(t, http.StatusNotFound, serve(server, http.MethodGet, "/doctors/abc/edit", nil).Code)
	assert.Equal(t, http.StatusNotFound, serve(server, http.MethodGet, "/doctors/42/edit", nil).Code)
	assert.Equal(t, http.StatusNotFound, serve(server, http.MethodGet, "/nowhere", nil).Code)
	assert.Equal(t, http.StatusMethodNotAllowed, serve(server, http.MethodGet, "/doctors/1/delete", nil).Code)
}

func TestRouter_SymptomCheckerWithoutProvider(t *testing.T) {
	server := newTestServer()

	w := serve(server, http.MethodPost, "/symptom-checker", url.Values{"symptoms": {"fever and cough"}})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "analyse your symptoms right now")
}

func TestRouter_Health(t *testing.T) {
	w := serve(newTestServer(), http.MethodGet, "/health", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}
