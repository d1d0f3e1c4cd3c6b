package api

import (
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger"
)

func NewRouter(a *API) http.Handler {
	mux := http.NewServeMux()

	mux.Handle("/swagger/", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
	})

	// Recruiter and applicant endpoints
	mux.HandleFunc("POST /api/applications", a.withCaller(a.SubmitApplicationHandler))
	mux.HandleFunc("GET /api/applications/{id}", a.withCaller(a.GetApplicationHandler))
	mux.HandleFunc("POST /api/applications/{id}/advance", a.withCaller(a.AdvanceApplicationHandler))
	mux.HandleFunc("POST /api/applications/{id}/advance/{$}", a.withCaller(a.AdvanceApplicationHandler))

	// Scheduling links are public; the token is the credential.
	lookup := a.rateLimited("schedule", a.GetSchedulingLinkHandler)
	schedule := a.rateLimited("schedule", a.ScheduleInterviewHandler)
	mux.HandleFunc("GET /api/interview/schedule/{token}", lookup)
	mux.HandleFunc("GET /api/interview/schedule/{token}/{$}", lookup)
	mux.HandleFunc("POST /api/interview/schedule/{token}", schedule)
	mux.HandleFunc("POST /api/interview/schedule/{token}/{$}", schedule)

	return mux
}
