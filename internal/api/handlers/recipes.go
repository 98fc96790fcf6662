package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/recipebox/recipe-api/internal/api/httpx"
	"github.com/recipebox/recipe-api/internal/api/validate"
	"github.com/recipebox/recipe-api/internal/middleware"
	"github.com/recipebox/recipe-api/internal/models"
	"github.com/recipebox/recipe-api/internal/services"
)

const maxImageBytes = 10 << 20

type RecipeHandler struct {
	svc *services.RecipeService
}

func NewRecipeHandler(svc *services.RecipeService) *RecipeHandler {
	return &RecipeHandler{svc: svc}
}

type labelRef struct {
	Name string `json:"name"`
}

func labelNames(refs []labelRef) []string {
	out := make([]string, 0, len(refs))
	for _, ref := range refs {
		out = append(out, ref.Name)
	}
	return out
}

// recipeListItem is the list representation; the detail form adds
// description and image.
type recipeListItem struct {
	ID          string              `json:"id"`
	Title       string              `json:"title"`
	TimeMinutes int                 `json:"time_minutes"`
	Price       string              `json:"price"`
	Link        string              `json:"link"`
	Tags        []models.Tag        `json:"tags"`
	Ingredients []models.Ingredient `json:"ingredients"`
}

type recipeDetail struct {
	recipeListItem
	Description string `json:"description"`
	Image       string `json:"image"`
}

func listItem(rc models.Recipe) recipeListItem {
	return recipeListItem{
		ID:          rc.ID,
		Title:       rc.Title,
		TimeMinutes: rc.TimeMinutes,
		Price:       rc.Price,
		Link:        rc.Link,
		Tags:        rc.Tags,
		Ingredients: rc.Ingredients,
	}
}

func (h *RecipeHandler) detail(r *http.Request, rc models.Recipe) (recipeDetail, error) {
	imageURL, err := h.svc.ImageURL(r.Context(), rc.ImageKey)
	if err != nil {
		return recipeDetail{}, err
	}
	return recipeDetail{
		recipeListItem: listItem(rc),
		Description:    rc.Description,
		Image:          imageURL,
	}, nil
}

func (h *RecipeHandler) writeDetail(w http.ResponseWriter, r *http.Request, status int, rc models.Recipe) {
	d, err := h.detail(r, rc)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	httpx.WriteJSON(w, status, d)
}

// parseIDList splits a comma-separated id query value, rejecting malformed
// ids up front so the filter never reaches the database half-valid.
func parseIDList(value string) ([]string, bool) {
	if value == "" {
		return nil, true
	}
	parts := strings.Split(value, ",")
	ids := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		if _, err := uuid.Parse(p); err != nil {
			return nil, false
		}
		ids = append(ids, p)
	}
	return ids, true
}

func (h *RecipeHandler) List(w http.ResponseWriter, r *http.Request) {
	uid, _ := middleware.UserID(r.Context())

	tagIDs, ok := parseIDList(r.URL.Query().Get("tags"))
	if !ok {
		writeBadRequest(w, "invalid tags filter")
		return
	}
	ingredientIDs, ok := parseIDList(r.URL.Query().Get("ingredients"))
	if !ok {
		writeBadRequest(w, "invalid ingredients filter")
		return
	}

	recipes, err := h.svc.List(r.Context(), uid, tagIDs, ingredientIDs)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	out := make([]recipeListItem, 0, len(recipes))
	for _, rc := range recipes {
		out = append(out, listItem(rc))
	}
	httpx.WriteJSON(w, http.StatusOK, out)
}

func (h *RecipeHandler) Get(w http.ResponseWriter, r *http.Request) {
	uid, _ := middleware.UserID(r.Context())
	rc, err := h.svc.Get(r.Context(), uid, chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	h.writeDetail(w, r, http.StatusOK, rc)
}

type createRecipeReq struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	TimeMinutes int        `json:"time_minutes"`
	Price       string     `json:"price"`
	Link        string     `json:"link"`
	Tags        []labelRef `json:"tags"`
	Ingredients []labelRef `json:"ingredients"`
}

func (h *RecipeHandler) Create(w http.ResponseWriter, r *http.Request) {
	uid, _ := middleware.UserID(r.Context())
	var req createRecipeReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid json")
		return
	}
	rc, err := h.svc.Create(r.Context(), uid, services.RecipeInput{
		Title:       req.Title,
		Description: req.Description,
		TimeMinutes: req.TimeMinutes,
		Price:       req.Price,
		Link:        req.Link,
		Tags:        labelNames(req.Tags),
		Ingredients: labelNames(req.Ingredients),
	})
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	h.writeDetail(w, r, http.StatusCreated, rc)
}

// updateRecipeReq distinguishes absent keys (nil) from present ones. Any
// owner/user key in the payload simply has no field here and is dropped.
type updateRecipeReq struct {
	Title       *string     `json:"title"`
	Description *string     `json:"description"`
	TimeMinutes *int        `json:"time_minutes"`
	Price       *string     `json:"price"`
	Link        *string     `json:"link"`
	Tags        *[]labelRef `json:"tags"`
	Ingredients *[]labelRef `json:"ingredients"`
}

func (req *updateRecipeReq) toUpdate() services.RecipeUpdate {
	upd := services.RecipeUpdate{
		Title:       req.Title,
		Description: req.Description,
		TimeMinutes: req.TimeMinutes,
		Price:       req.Price,
		Link:        req.Link,
	}
	if req.Tags != nil {
		upd.HasTags = true
		upd.Tags = labelNames(*req.Tags)
	}
	if req.Ingredients != nil {
		upd.HasIngredients = true
		upd.Ingredients = labelNames(*req.Ingredients)
	}
	return upd
}

func (h *RecipeHandler) Patch(w http.ResponseWriter, r *http.Request) {
	uid, _ := middleware.UserID(r.Context())
	var req updateRecipeReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid json")
		return
	}
	rc, err := h.svc.Update(r.Context(), uid, chi.URLParam(r, "id"), req.toUpdate())
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	h.writeDetail(w, r, http.StatusOK, rc)
}

// Put is the full-update variant: all required scalars must be present.
func (h *RecipeHandler) Put(w http.ResponseWriter, r *http.Request) {
	uid, _ := middleware.UserID(r.Context())
	var req updateRecipeReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid json")
		return
	}

	var errs validate.Errs
	if req.Title == nil {
		errs = append(errs, validate.ErrField{Field: "title", Msg: "required"})
	}
	if req.TimeMinutes == nil {
		errs = append(errs, validate.ErrField{Field: "time_minutes", Msg: "required"})
	}
	if req.Price == nil {
		errs = append(errs, validate.ErrField{Field: "price", Msg: "required"})
	}
	if errs != nil {
		writeDomainError(w, r, errs)
		return
	}
	if req.Description == nil {
		req.Description = new(string)
	}
	if req.Link == nil {
		req.Link = new(string)
	}

	rc, err := h.svc.Update(r.Context(), uid, chi.URLParam(r, "id"), req.toUpdate())
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	h.writeDetail(w, r, http.StatusOK, rc)
}

func (h *RecipeHandler) Delete(w http.ResponseWriter, r *http.Request) {
	uid, _ := middleware.UserID(r.Context())
	if err := h.svc.Delete(r.Context(), uid, chi.URLParam(r, "id")); err != nil {
		writeDomainError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *RecipeHandler) UploadImage(w http.ResponseWriter, r *http.Request) {
	uid, _ := middleware.UserID(r.Context())

	if err := r.ParseMultipartForm(maxImageBytes); err != nil {
		writeBadRequest(w, "invalid multipart form")
		return
	}
	file, header, err := r.FormFile("image")
	if err != nil {
		writeBadRequest(w, "image file is required")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxImageBytes+1))
	if err != nil {
		writeBadRequest(w, "unable to read upload")
		return
	}
	if len(data) > maxImageBytes {
		writeBadRequest(w, "image too large")
		return
	}

	rc, err := h.svc.SetImage(r.Context(), uid, chi.URLParam(r, "id"), header.Filename, data)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	h.writeDetail(w, r, http.StatusOK, rc)
}
