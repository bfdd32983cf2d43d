package routes

import (
	"net/http"

	"github.com/zatekoja/doctordirectory/internal/api/handlers"
	"github.com/zatekoja/doctordirectory/internal/api/middleware"
	"github.com/zatekoja/doctordirectory/internal/infrastructure/observability"
)

// Router holds all route handlers
type Router struct {
	mux *http.ServeMux

	pageHandler   *handlers.PageHandler
	apiHandler    *handlers.DoctorAPIHandler
	healthHandler *handlers.HealthHandler

	allowedOrigins []string
	metrics        *observability.Metrics
}

// NewRouter creates a new router
func NewRouter(
	pageHandler *handlers.PageHandler,
	apiHandler *handlers.DoctorAPIHandler,
	healthHandler *handlers.HealthHandler,
	allowedOrigins []string,
	metrics *observability.Metrics,
) *Router {
	return &Router{
		mux:            http.NewServeMux(),
		pageHandler:    pageHandler,
		apiHandler:     apiHandler,
		healthHandler:  healthHandler,
		allowedOrigins: allowedOrigins,
		metrics:        metrics,
	}
}

// SetupRoutes configures all application routes
func (r *Router) SetupRoutes() http.Handler {
	r.mux.HandleFunc("GET /health", r.healthHandler.Health)

	// HTML pages
	r.mux.HandleFunc("GET /{$}", r.pageHandler.Index)
	r.mux.HandleFunc("GET /doctors", r.pageHandler.ListDoctors)
	r.mux.HandleFunc("GET /doctors/new", r.pageHandler.NewDoctor)
	r.mux.HandleFunc("POST /doctors/new", r.pageHandler.CreateDoctor)
	r.mux.HandleFunc("GET /doctors/{id}/edit", r.pageHandler.EditDoctor)
	r.mux.HandleFunc("POST /doctors/{id}/edit", r.pageHandler.UpdateDoctor)
	r.mux.HandleFunc("POST /doctors/{id}/delete", r.pageHandler.DeleteDoctor)
	r.mux.HandleFunc("GET /recommend", r.pageHandler.RecommendForm)
	r.mux.HandleFunc("POST /recommend", r.pageHandler.Recommend)
	r.mux.HandleFunc("GET /symptom-checker", r.pageHandler.SymptomCheckerForm)
	r.mux.HandleFunc("POST /symptom-checker", r.pageHandler.CheckSymptoms)

	// JSON API
	api := http.NewServeMux()
	api.HandleFunc("GET /api/doctors", r.apiHandler.ListDoctors)
	api.HandleFunc("GET /api/doctors/{id}", r.apiHandler.GetDoctor)
	api.HandleFunc("POST /api/recommend", r.apiHandler.Recommend)
	api.HandleFunc("POST /api/symptom-checker", r.apiHandler.CheckSymptoms)
	r.mux.Handle("/api/", middleware.CORSMiddleware(r.allowedOrigins)(api))

	// Outermost first: recover, log, compress, trace
	var handler http.Handler = r.mux
	handler = middleware.ObservabilityMiddleware(r.metrics)(handler)
	handler = middleware.Compression(handler)
	handler = middleware.LoggingMiddleware(handler)
	handler = middleware.RecoverMiddleware(handler)

	return handler
}
