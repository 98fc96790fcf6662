package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/recipebox/recipe-api/internal/api/httpx"
	"github.com/recipebox/recipe-api/internal/middleware"
	"github.com/recipebox/recipe-api/internal/services"
)

type TagHandler struct {
	svc *services.TagService
}

func NewTagHandler(svc *services.TagService) *TagHandler { return &TagHandler{svc: svc} }

func assignedOnly(r *http.Request) bool {
	v := r.URL.Query().Get("assigned_only")
	return v == "1" || v == "true"
}

type renameReq struct {
	Name string `json:"name"`
}

func (h *TagHandler) List(w http.ResponseWriter, r *http.Request) {
	uid, _ := middleware.UserID(r.Context())
	tags, err := h.svc.List(r.Context(), uid, assignedOnly(r))
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, tags)
}

func (h *TagHandler) Patch(w http.ResponseWriter, r *http.Request) {
	uid, _ := middleware.UserID(r.Context())
	var req renameReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid json")
		return
	}
	tag, err := h.svc.Rename(r.Context(), uid, chi.URLParam(r, "id"), req.Name)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, tag)
}

func (h *TagHandler) Delete(w http.ResponseWriter, r *http.Request) {
	uid, _ := middleware.UserID(r.Context())
	if err := h.svc.Delete(r.Context(), uid, chi.URLParam(r, "id")); err != nil {
		writeDomainError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type IngredientHandler struct {
	svc *services.IngredientService
}

func NewIngredientHandler(svc *services.IngredientService) *IngredientHandler {
	return &IngredientHandler{svc: svc}
}

func (h *IngredientHandler) List(w http.ResponseWriter, r *http.Request) {
	uid, _ := middleware.UserID(r.Context())
	ingredients, err := h.svc.List(r.Context(), uid, assignedOnly(r))
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, ingredients)
}

func (h *IngredientHandler) Patch(w http.ResponseWriter, r *http.Request) {
	uid, _ := middleware.UserID(r.Context())
	var req renameReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid json")
		return
	}
	ing, err := h.svc.Rename(r.Context(), uid, chi.URLParam(r, "id"), req.Name)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, ing)
}

func (h *IngredientHandler) Delete(w http.ResponseWriter, r *http.Request) {
	uid, _ := middleware.UserID(r.Context())
	if err := h.svc.Delete(r.Context(), uid, chi.URLParam(r, "id")); err != nil {
		writeDomainError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
