package api

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/promptvault/promptvault/internal/api/respond"
	"github.com/promptvault/promptvault/internal/health"
	"github.com/promptvault/promptvault/internal/service"
)

// NewRouter wires the prompt endpoints onto a mux router. hc may be nil, in
// which case the health endpoint always reports ok.
func NewRouter(svc *service.PromptService, hc *health.ServiceHealthChecker) *mux.Router {
	r := mux.NewRouter()
	h := NewPromptHandler(svc)

	r.HandleFunc("/api/health", handleHealth(hc)).Methods(http.MethodGet)

	r.HandleFunc("/api/prompts", h.SearchPrompts).Methods(http.MethodGet)
	r.HandleFunc("/api/prompts", h.CreatePrompt).Methods(http.MethodPost)
	r.HandleFunc("/api/prompts/{id}", h.GetPrompt).Methods(http.MethodGet)
	r.HandleFunc("/api/prompts/{id}", h.UpdatePrompt).Methods(http.MethodPut)
	r.HandleFunc("/api/prompts/{id}", h.DeletePrompt).Methods(http.MethodDelete)
	r.HandleFunc("/api/prompts/{id}/render", h.RenderPrompt).Methods(http.MethodPost)
	r.HandleFunc("/api/prompts/{id}/favorite", h.SetFavorite).Methods(http.MethodPut)
	r.HandleFunc("/api/categories/stats", h.CategoryStats).Methods(http.MethodGet)

	return r
}

func handleHealth(hc *health.ServiceHealthChecker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if hc != nil && !hc.IsHealthy() {
			respond.WriteJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
			return
		}
		respond.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}
