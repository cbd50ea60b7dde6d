package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"

	"github.com/promptvault/promptvault/internal/api/respond"
	"github.com/promptvault/promptvault/internal/model"
	"github.com/promptvault/promptvault/internal/service"
)

// PromptHandler is a thin HTTP transport over the PromptService.
type PromptHandler struct {
	svc *service.PromptService
}

func NewPromptHandler(svc *service.PromptService) *PromptHandler { return &PromptHandler{svc: svc} }

// writeServiceError maps service errors onto HTTP status codes.
func writeServiceError(w http.ResponseWriter, err error) {
	if errors.Is(err, model.ErrNotFound) {
		respond.WriteNotFound(w, err.Error())
		return
	}
	respond.WriteInternalError(w, err.Error())
}

// CreatePrompt POST /api/prompts
func (h *PromptHandler) CreatePrompt(w http.ResponseWriter, r *http.Request) {
	var req model.CreatePromptRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.WriteBadRequest(w, "Invalid JSON")
		return
	}
	if errs := h.svc.ValidatePromptData(req); len(errs) > 0 {
		respond.WriteJSON(w, http.StatusBadRequest, map[string]interface{}{"errors": errs})
		return
	}
	p, err := h.svc.CreatePrompt(r.Context(), req)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusCreated, p)
}

// GetPrompt GET /api/prompts/{id}
func (h *PromptHandler) GetPrompt(w http.ResponseWriter, r *http.Request) {
	p, err := h.svc.GetPrompt(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeServiceError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, p)
}

// SearchPrompts GET /api/prompts?query=&category=&tags=a,b&author=&limit=
func (h *PromptHandler) SearchPrompts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	criteria := model.SearchCriteria{
		Query:    q.Get("query"),
		Category: model.Category(q.Get("category")),
		Author:   q.Get("author"),
	}
	if tags := q.Get("tags"); tags != "" {
		criteria.Tags = strings.Split(tags, ",")
	}
	if raw := q.Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 0 {
			respond.WriteBadRequest(w, "limit must be a non-negative integer")
			return
		}
		criteria.Limit = limit
	}
	if criteria.Category != "" && !criteria.Category.Valid() {
		respond.WriteBadRequest(w, "unknown category "+string(criteria.Category))
		return
	}
	prompts, err := h.svc.SearchPrompts(r.Context(), criteria)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, map[string]interface{}{"prompts": prompts, "count": len(prompts)})
}

// UpdatePrompt PUT /api/prompts/{id}
func (h *PromptHandler) UpdatePrompt(w http.ResponseWriter, r *http.Request) {
	var req model.UpdatePromptRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respond.WriteBadRequest(w, "Invalid JSON")
		return
	}
	req.ID = mux.Vars(r)["id"]
	p, err := h.svc.UpdatePrompt(r.Context(), req)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, p)
}

// DeletePrompt DELETE /api/prompts/{id}
func (h *PromptHandler) DeletePrompt(w http.ResponseWriter, r *http.Request) {
	deleted, err := h.svc.DeletePrompt(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if !deleted {
		respond.WriteNotFound(w, "prompt not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// RenderPrompt POST /api/prompts/{id}/render
func (h *PromptHandler) RenderPrompt(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Values map[string]model.Value `json:"values"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		respond.WriteBadRequest(w, "Invalid JSON")
		return
	}
	result, err := h.svc.RenderPrompt(r.Context(), model.RenderPromptRequest{
		ID:     mux.Vars(r)["id"],
		Values: body.Values,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, result)
}

// SetFavorite PUT /api/prompts/{id}/favorite
func (h *PromptHandler) SetFavorite(w http.ResponseWriter, r *http.Request) {
	var body struct {
		IsFavorite bool `json:"isFavorite"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		respond.WriteBadRequest(w, "Invalid JSON")
		return
	}
	p, err := h.svc.SetFavorite(r.Context(), mux.Vars(r)["id"], body.IsFavorite)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, p)
}

// CategoryStats GET /api/categories/stats
func (h *PromptHandler) CategoryStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.svc.CategoryStatistics(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	respond.WriteJSON(w, http.StatusOK, stats)
}
