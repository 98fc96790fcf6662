package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"image"
	"image/png"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/recipebox/recipe-api/internal/api/handlers"
	"github.com/recipebox/recipe-api/internal/auth"
	"github.com/recipebox/recipe-api/internal/config"
	"github.com/recipebox/recipe-api/internal/middleware"
	"github.com/recipebox/recipe-api/internal/models"
	repo "github.com/recipebox/recipe-api/internal/repository"
	"github.com/recipebox/recipe-api/internal/services"
	"github.com/recipebox/recipe-api/internal/storage"
	"github.com/recipebox/recipe-api/internal/worker"
)

// memDB backs all four repository interfaces for end-to-end handler tests.
type memDB struct {
	users  map[string]models.User
	emails map[string]string

	recipes map[string]*models.Recipe
	order   []string

	tags      map[string]models.Tag
	tagIDs    map[string]string // owner|name -> id
	ingreds   map[string]models.Ingredient
	ingredIDs map[string]string
}

func newMemDB() *memDB {
	return &memDB{
		users:     map[string]models.User{},
		emails:    map[string]string{},
		recipes:   map[string]*models.Recipe{},
		tags:      map[string]models.Tag{},
		tagIDs:    map[string]string{},
		ingreds:   map[string]models.Ingredient{},
		ingredIDs: map[string]string{},
	}
}

type memUsers struct{ db *memDB }

func (m *memUsers) Create(_ context.Context, email, hash, name string, isStaff, isSuperuser bool) (models.User, error) {
	if _, ok := m.db.emails[email]; ok {
		return models.User{}, models.ErrEmailTaken
	}
	u := models.User{ID: uuid.NewString(), Email: email, PasswordHash: hash, Name: name, IsStaff: isStaff, IsSuperuser: isSuperuser}
	m.db.users[u.ID] = u
	m.db.emails[email] = u.ID
	return u, nil
}

func (m *memUsers) GetByID(_ context.Context, id string) (models.User, error) {
	u, ok := m.db.users[id]
	if !ok {
		return models.User{}, models.ErrNotFound
	}
	return u, nil
}

func (m *memUsers) GetByEmail(_ context.Context, email string) (models.User, error) {
	id, ok := m.db.emails[email]
	if !ok {
		return models.User{}, models.ErrNotFound
	}
	return m.db.users[id], nil
}

func (m *memUsers) Update(_ context.Context, u models.User) error {
	if _, ok := m.db.users[u.ID]; !ok {
		return models.ErrNotFound
	}
	m.db.users[u.ID] = u
	return nil
}

func (db *memDB) resolveTags(owner string, names []string) []models.Tag {
	var out []models.Tag
	seen := map[string]bool{}
	for _, name := range names {
		if seen[name] {
			continue
		}
		seen[name] = true
		key := owner + "|" + name
		id, ok := db.tagIDs[key]
		if !ok {
			id = uuid.NewString()
			db.tagIDs[key] = id
			db.tags[id] = models.Tag{ID: id, UserID: owner, Name: name}
		}
		out = append(out, db.tags[id])
	}
	return out
}

func (db *memDB) resolveIngredients(owner string, names []string) []models.Ingredient {
	var out []models.Ingredient
	seen := map[string]bool{}
	for _, name := range names {
		if seen[name] {
			continue
		}
		seen[name] = true
		key := owner + "|" + name
		id, ok := db.ingredIDs[key]
		if !ok {
			id = uuid.NewString()
			db.ingredIDs[key] = id
			db.ingreds[id] = models.Ingredient{ID: id, UserID: owner, Name: name}
		}
		out = append(out, db.ingreds[id])
	}
	return out
}

func dupRecipe(rc *models.Recipe) models.Recipe {
	out := *rc
	out.Tags = append([]models.Tag{}, rc.Tags...)
	out.Ingredients = append([]models.Ingredient{}, rc.Ingredients...)
	return out
}

type memRecipes struct{ db *memDB }

func (m *memRecipes) Create(_ context.Context, rc models.Recipe, tagNames, ingredientNames []string) (models.Recipe, error) {
	rc.ID = uuid.NewString()
	rc.CreatedAt = time.Now()
	rc.Tags = m.db.resolveTags(rc.UserID, tagNames)
	rc.Ingredients = m.db.resolveIngredients(rc.UserID, ingredientNames)
	m.db.recipes[rc.ID] = &rc
	m.db.order = append(m.db.order, rc.ID)
	return dupRecipe(&rc), nil
}

func (m *memRecipes) Get(_ context.Context, userID, id string) (models.Recipe, error) {
	rc, ok := m.db.recipes[id]
	if !ok || rc.UserID != userID {
		return models.Recipe{}, models.ErrNotFound
	}
	return dupRecipe(rc), nil
}

func (m *memRecipes) List(_ context.Context, userID string, tagIDs, ingredientIDs []string) ([]models.Recipe, error) {
	matches := func(have map[string]bool, want []string) bool {
		for _, id := range want {
			if have[id] {
				return true
			}
		}
		return false
	}
	var out []models.Recipe
	for _, id := range m.db.order {
		rc, ok := m.db.recipes[id]
		if !ok || rc.UserID != userID {
			continue
		}
		if len(tagIDs) > 0 {
			have := map[string]bool{}
			for _, t := range rc.Tags {
				have[t.ID] = true
			}
			if !matches(have, tagIDs) {
				continue
			}
		}
		if len(ingredientIDs) > 0 {
			have := map[string]bool{}
			for _, i := range rc.Ingredients {
				have[i.ID] = true
			}
			if !matches(have, ingredientIDs) {
				continue
			}
		}
		out = append(out, dupRecipe(rc))
	}
	return out, nil
}

func (m *memRecipes) Update(_ context.Context, userID, id string, patch repo.RecipePatch) (models.Recipe, error) {
	rc, ok := m.db.recipes[id]
	if !ok || rc.UserID != userID {
		return models.Recipe{}, models.ErrNotFound
	}
	if patch.Title != nil {
		rc.Title = *patch.Title
	}
	if patch.Description != nil {
		rc.Description = *patch.Description
	}
	if patch.TimeMinutes != nil {
		rc.TimeMinutes = *patch.TimeMinutes
	}
	if patch.Price != nil {
		rc.Price = *patch.Price
	}
	if patch.Link != nil {
		rc.Link = *patch.Link
	}
	if patch.ReplaceTags {
		rc.Tags = m.db.resolveTags(userID, patch.TagNames)
	}
	if patch.ReplaceIngreds {
		rc.Ingredients = m.db.resolveIngredients(userID, patch.IngredientNames)
	}
	return dupRecipe(rc), nil
}

func (m *memRecipes) Delete(_ context.Context, userID, id string) error {
	rc, ok := m.db.recipes[id]
	if !ok || rc.UserID != userID {
		return models.ErrNotFound
	}
	delete(m.db.recipes, id)
	return nil
}

func (m *memRecipes) SetImageKey(_ context.Context, userID, id, key string) (string, error) {
	rc, ok := m.db.recipes[id]
	if !ok || rc.UserID != userID {
		return "", models.ErrNotFound
	}
	old := rc.ImageKey
	rc.ImageKey = key
	return old, nil
}

func (db *memDB) tagAssigned(owner, tagID string) bool {
	for _, rc := range db.recipes {
		if rc.UserID != owner {
			continue
		}
		for _, t := range rc.Tags {
			if t.ID == tagID {
				return true
			}
		}
	}
	return false
}

func (db *memDB) ingredientAssigned(owner, ingredientID string) bool {
	for _, rc := range db.recipes {
		if rc.UserID != owner {
			continue
		}
		for _, i := range rc.Ingredients {
			if i.ID == ingredientID {
				return true
			}
		}
	}
	return false
}

type memTags struct{ db *memDB }

func (m *memTags) ListByOwner(_ context.Context, userID string, assignedOnly bool) ([]models.Tag, error) {
	var out []models.Tag
	for id, tag := range m.db.tags {
		if tag.UserID != userID {
			continue
		}
		if assignedOnly && !m.db.tagAssigned(userID, id) {
			continue
		}
		out = append(out, tag)
	}
	return out, nil
}

func (m *memTags) Rename(_ context.Context, userID, id, name string) (models.Tag, error) {
	tag, ok := m.db.tags[id]
	if !ok || tag.UserID != userID {
		return models.Tag{}, models.ErrNotFound
	}
	tag.Name = name
	m.db.tags[id] = tag
	return tag, nil
}

func (m *memTags) Delete(_ context.Context, userID, id string) error {
	tag, ok := m.db.tags[id]
	if !ok || tag.UserID != userID {
		return models.ErrNotFound
	}
	delete(m.db.tags, id)
	return nil
}

type memIngredients struct{ db *memDB }

func (m *memIngredients) ListByOwner(_ context.Context, userID string, assignedOnly bool) ([]models.Ingredient, error) {
	var out []models.Ingredient
	for id, ing := range m.db.ingreds {
		if ing.UserID != userID {
			continue
		}
		if assignedOnly && !m.db.ingredientAssigned(userID, id) {
			continue
		}
		out = append(out, ing)
	}
	return out, nil
}

func (m *memIngredients) Rename(_ context.Context, userID, id, name string) (models.Ingredient, error) {
	ing, ok := m.db.ingreds[id]
	if !ok || ing.UserID != userID {
		return models.Ingredient{}, models.ErrNotFound
	}
	ing.Name = name
	m.db.ingreds[id] = ing
	return ing, nil
}

func (m *memIngredients) Delete(_ context.Context, userID, id string) error {
	ing, ok := m.db.ingreds[id]
	if !ok || ing.UserID != userID {
		return models.ErrNotFound
	}
	delete(m.db.ingreds, id)
	return nil
}

// --- test harness ---

type testAPI struct {
	handler http.Handler
	wp      *worker.Pool
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()

	db := newMemDB()
	store := storage.NewLocal(t.TempDir())
	wp := worker.NewPool(1)
	t.Cleanup(wp.Stop)

	tm := auth.NewTokenManager("test-access", "test-refresh", time.Hour, 2*time.Hour)
	userSvc := services.NewUserService(&memUsers{db})
	recipeSvc := services.NewRecipeService(&memRecipes{db}, store, wp, slog.Default())
	tagSvc := services.NewTagService(&memTags{db})
	ingredientSvc := services.NewIngredientService(&memIngredients{db})

	cfg := config.Config{Env: "test", StorageDriver: "local", MediaDir: "unused"}
	h := NewRouter(RouterDeps{
		Cfg:        cfg,
		AuthMW:     middleware.NewAuthMiddleware(tm),
		User:       handlers.NewUserHandler(userSvc, tm),
		Recipe:     handlers.NewRecipeHandler(recipeSvc),
		Tag:        handlers.NewTagHandler(tagSvc),
		Ingredient: handlers.NewIngredientHandler(ingredientSvc),
	})
	return &testAPI{handler: h, wp: wp}
}

func (a *testAPI) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		rd = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, rd)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	a.handler.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), v))
}

func (a *testAPI) register(t *testing.T, email string) string {
	t.Helper()
	w := a.do(t, http.MethodPost, "/api/v1/user", "", map[string]string{
		"email": email, "password": "testpass123", "name": "Test Name",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = a.do(t, http.MethodPost, "/api/v1/user/token", "", map[string]string{
		"email": email, "password": "testpass123",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var resp struct {
		AccessToken string `json:"access_token"`
	}
	decode(t, w, &resp)
	require.NotEmpty(t, resp.AccessToken)
	return resp.AccessToken
}

type recipeResp struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	TimeMinutes int    `json:"time_minutes"`
	Price       string `json:"price"`
	Link        string `json:"link"`
	Description string `json:"description"`
	Image       string `json:"image"`
	Tags        []struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	} `json:"tags"`
	Ingredients []struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	} `json:"ingredients"`
}

func sampleRecipe() map[string]any {
	return map[string]any{
		"title":        "Sample title",
		"time_minutes": 5,
		"price":        "3.50",
		"description":  "Sample description",
		"link":         "https://example.com/recipe.pdf",
	}
}

// --- user api ---

func TestCreateUser(t *testing.T) {
	a := newTestAPI(t)

	w := a.do(t, http.MethodPost, "/api/v1/user", "", map[string]string{
		"email": "test@EXAMPLE.Com", "password": "testpass123", "name": "Test Name",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	assert.NotContains(t, w.Body.String(), "password")
	assert.NotContains(t, w.Body.String(), "testpass123")

	var u struct {
		Email string `json:"email"`
	}
	decode(t, w, &u)
	assert.Equal(t, "test@example.com", u.Email)

	// Duplicate email.
	w = a.do(t, http.MethodPost, "/api/v1/user", "", map[string]string{
		"email": "test@example.com", "password": "otherpass1",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateUserValidation(t *testing.T) {
	a := newTestAPI(t)

	w := a.do(t, http.MethodPost, "/api/v1/user", "", map[string]string{"password": "testpass123"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = a.do(t, http.MethodPost, "/api/v1/user", "", map[string]string{
		"email": "test@example.com", "password": "te3",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestToken(t *testing.T) {
	a := newTestAPI(t)
	a.register(t, "test@example.com")

	w := a.do(t, http.MethodPost, "/api/v1/user/token", "", map[string]string{
		"email": "test@example.com", "password": "wrongpass",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	// Generic message, no hint which part was wrong.
	assert.NotContains(t, w.Body.String(), "password")
	assert.NotContains(t, w.Body.String(), "email")

	w = a.do(t, http.MethodPost, "/api/v1/user/token", "", map[string]string{
		"email": "missing@example.com", "password": "testpass123",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRefreshToken(t *testing.T) {
	a := newTestAPI(t)
	a.register(t, "test@example.com")

	w := a.do(t, http.MethodPost, "/api/v1/user/token", "", map[string]string{
		"email": "test@example.com", "password": "testpass123",
	})
	require.Equal(t, http.StatusOK, w.Code)
	var pair struct {
		RefreshToken string `json:"refresh_token"`
	}
	decode(t, w, &pair)

	w = a.do(t, http.MethodPost, "/api/v1/user/token/refresh", "", map[string]string{
		"refresh_token": pair.RefreshToken,
	})
	assert.Equal(t, http.StatusOK, w.Code)

	w = a.do(t, http.MethodPost, "/api/v1/user/token/refresh", "", map[string]string{
		"refresh_token": "garbage",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestMe(t *testing.T) {
	a := newTestAPI(t)
	token := a.register(t, "test@example.com")

	w := a.do(t, http.MethodGet, "/api/v1/user/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = a.do(t, http.MethodGet, "/api/v1/user/me", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var u struct {
		Email string `json:"email"`
		Name  string `json:"name"`
	}
	decode(t, w, &u)
	assert.Equal(t, "test@example.com", u.Email)

	w = a.do(t, http.MethodPatch, "/api/v1/user/me", token, map[string]string{"name": "Updated"})
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &u)
	assert.Equal(t, "Updated", u.Name)
}

// --- recipe api ---

func TestRecipesRequireAuth(t *testing.T) {
	a := newTestAPI(t)
	w := a.do(t, http.MethodGet, "/api/v1/recipes/", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestCreateAndGetRecipe(t *testing.T) {
	a := newTestAPI(t)
	token := a.register(t, "test@example.com")

	body := sampleRecipe()
	body["tags"] = []map[string]string{{"name": "Indian"}, {"name": "Bangla"}}
	w := a.do(t, http.MethodPost, "/api/v1/recipes/", token, body)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var created recipeResp
	decode(t, w, &created)
	assert.Len(t, created.Tags, 2)
	assert.Equal(t, "3.50", created.Price)

	w = a.do(t, http.MethodGet, "/api/v1/recipes/"+created.ID, token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var got recipeResp
	decode(t, w, &got)
	assert.Equal(t, "Sample description", got.Description)
	assert.Len(t, got.Tags, 2)
}

func TestListOmitsDescription(t *testing.T) {
	a := newTestAPI(t)
	token := a.register(t, "test@example.com")

	w := a.do(t, http.MethodPost, "/api/v1/recipes/", token, sampleRecipe())
	require.Equal(t, http.StatusCreated, w.Code)

	w = a.do(t, http.MethodGet, "/api/v1/recipes/", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var items []map[string]any
	decode(t, w, &items)
	require.Len(t, items, 1)
	assert.NotContains(t, items[0], "description")
	assert.NotContains(t, items[0], "image")
	assert.Contains(t, items[0], "title")
}

func TestListScopedToOwner(t *testing.T) {
	a := newTestAPI(t)
	tokenA := a.register(t, "a@example.com")
	tokenB := a.register(t, "b@example.com")

	w := a.do(t, http.MethodPost, "/api/v1/recipes/", tokenA, sampleRecipe())
	require.Equal(t, http.StatusCreated, w.Code)

	w = a.do(t, http.MethodGet, "/api/v1/recipes/", tokenB, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var items []recipeResp
	decode(t, w, &items)
	assert.Empty(t, items)
}

func TestListFilterByTags(t *testing.T) {
	a := newTestAPI(t)
	token := a.register(t, "test@example.com")

	body := sampleRecipe()
	body["tags"] = []map[string]string{{"name": "Vegan"}}
	w := a.do(t, http.MethodPost, "/api/v1/recipes/", token, body)
	require.Equal(t, http.StatusCreated, w.Code)
	var r1 recipeResp
	decode(t, w, &r1)

	w = a.do(t, http.MethodPost, "/api/v1/recipes/", token, sampleRecipe()) // untagged
	require.Equal(t, http.StatusCreated, w.Code)

	w = a.do(t, http.MethodGet, "/api/v1/recipes/?tags="+r1.Tags[0].ID, token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var items []recipeResp
	decode(t, w, &items)
	require.Len(t, items, 1)
	assert.Equal(t, r1.ID, items[0].ID)

	w = a.do(t, http.MethodGet, "/api/v1/recipes/?tags=not-a-uuid", token, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPatchRecipe(t *testing.T) {
	a := newTestAPI(t)
	token := a.register(t, "test@example.com")

	w := a.do(t, http.MethodPost, "/api/v1/recipes/", token, sampleRecipe())
	require.Equal(t, http.StatusCreated, w.Code)
	var rc recipeResp
	decode(t, w, &rc)

	w = a.do(t, http.MethodPatch, "/api/v1/recipes/"+rc.ID, token, map[string]any{
		"title": "New recipe title",
	})
	require.Equal(t, http.StatusOK, w.Code)
	var updated recipeResp
	decode(t, w, &updated)
	assert.Equal(t, "New recipe title", updated.Title)
	assert.Equal(t, "https://example.com/recipe.pdf", updated.Link, "absent fields untouched")
}

func TestPatchClearsTags(t *testing.T) {
	a := newTestAPI(t)
	token := a.register(t, "test@example.com")

	body := sampleRecipe()
	body["tags"] = []map[string]string{{"name": "Lunch"}}
	w := a.do(t, http.MethodPost, "/api/v1/recipes/", token, body)
	require.Equal(t, http.StatusCreated, w.Code)
	var rc recipeResp
	decode(t, w, &rc)

	w = a.do(t, http.MethodPatch, "/api/v1/recipes/"+rc.ID, token, map[string]any{
		"tags": []any{},
	})
	require.Equal(t, http.StatusOK, w.Code)
	var updated recipeResp
	decode(t, w, &updated)
	assert.Empty(t, updated.Tags)

	// The tag row itself survives for reuse.
	w = a.do(t, http.MethodGet, "/api/v1/tags/", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var tags []map[string]any
	decode(t, w, &tags)
	assert.Len(t, tags, 1)
}

func TestPatchIgnoresOwnerField(t *testing.T) {
	a := newTestAPI(t)
	tokenA := a.register(t, "a@example.com")
	a.register(t, "b@example.com")

	w := a.do(t, http.MethodPost, "/api/v1/recipes/", tokenA, sampleRecipe())
	require.Equal(t, http.StatusCreated, w.Code)
	var rc recipeResp
	decode(t, w, &rc)

	// Payload tries to reassign ownership; the key is silently dropped.
	w = a.do(t, http.MethodPatch, "/api/v1/recipes/"+rc.ID, tokenA, map[string]any{
		"user": "someone-else", "user_id": "someone-else", "title": "Still mine",
	})
	require.Equal(t, http.StatusOK, w.Code)

	w = a.do(t, http.MethodGet, "/api/v1/recipes/"+rc.ID, tokenA, nil)
	assert.Equal(t, http.StatusOK, w.Code, "owner unchanged")
}

func TestPutRequiresAllFields(t *testing.T) {
	a := newTestAPI(t)
	token := a.register(t, "test@example.com")

	w := a.do(t, http.MethodPost, "/api/v1/recipes/", token, sampleRecipe())
	require.Equal(t, http.StatusCreated, w.Code)
	var rc recipeResp
	decode(t, w, &rc)

	w = a.do(t, http.MethodPut, "/api/v1/recipes/"+rc.ID, token, map[string]any{
		"title": "New title",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = a.do(t, http.MethodPut, "/api/v1/recipes/"+rc.ID, token, map[string]any{
		"title": "New title", "time_minutes": 10, "price": "2.50",
	})
	require.Equal(t, http.StatusOK, w.Code)
	var updated recipeResp
	decode(t, w, &updated)
	assert.Equal(t, "New title", updated.Title)
	assert.Equal(t, 10, updated.TimeMinutes)
	assert.Empty(t, updated.Description, "omitted optional fields reset")
	assert.Empty(t, updated.Link)
}

func TestDeleteRecipe(t *testing.T) {
	a := newTestAPI(t)
	tokenA := a.register(t, "a@example.com")
	tokenB := a.register(t, "b@example.com")

	w := a.do(t, http.MethodPost, "/api/v1/recipes/", tokenA, sampleRecipe())
	require.Equal(t, http.StatusCreated, w.Code)
	var rc recipeResp
	decode(t, w, &rc)

	// Another owner cannot delete; the recipe survives.
	w = a.do(t, http.MethodDelete, "/api/v1/recipes/"+rc.ID, tokenB, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = a.do(t, http.MethodGet, "/api/v1/recipes/"+rc.ID, tokenA, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = a.do(t, http.MethodDelete, "/api/v1/recipes/"+rc.ID, tokenA, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = a.do(t, http.MethodGet, "/api/v1/recipes/"+rc.ID, tokenA, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

// --- image upload ---

func (a *testAPI) upload(t *testing.T, token, recipeID, filename string, data []byte) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("image", filename)
	require.NoError(t, err)
	_, err = fw.Write(data)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, fmt.Sprintf("/api/v1/recipes/%s/image", recipeID), &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	a.handler.ServeHTTP(w, req)
	return w
}

func testPNG(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 10, 10))))
	return buf.Bytes()
}

func TestUploadImage(t *testing.T) {
	a := newTestAPI(t)
	token := a.register(t, "test@example.com")

	w := a.do(t, http.MethodPost, "/api/v1/recipes/", token, sampleRecipe())
	require.Equal(t, http.StatusCreated, w.Code)
	var rc recipeResp
	decode(t, w, &rc)

	w = a.upload(t, token, rc.ID, "photo.png", testPNG(t))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var updated recipeResp
	decode(t, w, &updated)
	assert.Contains(t, updated.Image, "/media/uploads/recipe/")
	assert.Contains(t, updated.Image, ".png")
}

func TestUploadImageBadRequest(t *testing.T) {
	a := newTestAPI(t)
	token := a.register(t, "test@example.com")

	w := a.do(t, http.MethodPost, "/api/v1/recipes/", token, sampleRecipe())
	require.Equal(t, http.StatusCreated, w.Code)
	var rc recipeResp
	decode(t, w, &rc)

	w = a.upload(t, token, rc.ID, "notes.txt", []byte("notanimage"))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

// --- tags & ingredients api ---

func TestTagsAssignedOnly(t *testing.T) {
	a := newTestAPI(t)
	token := a.register(t, "test@example.com")

	// Two recipes share "Lunch"; "Unused" is created via a cleared patch.
	body := sampleRecipe()
	body["tags"] = []map[string]string{{"name": "Lunch"}}
	w := a.do(t, http.MethodPost, "/api/v1/recipes/", token, body)
	require.Equal(t, http.StatusCreated, w.Code)
	w = a.do(t, http.MethodPost, "/api/v1/recipes/", token, body)
	require.Equal(t, http.StatusCreated, w.Code)

	body = sampleRecipe()
	body["tags"] = []map[string]string{{"name": "Unused"}}
	w = a.do(t, http.MethodPost, "/api/v1/recipes/", token, body)
	require.Equal(t, http.StatusCreated, w.Code)
	var rc recipeResp
	decode(t, w, &rc)
	w = a.do(t, http.MethodPatch, "/api/v1/recipes/"+rc.ID, token, map[string]any{"tags": []any{}})
	require.Equal(t, http.StatusOK, w.Code)

	w = a.do(t, http.MethodGet, "/api/v1/tags/", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var tags []struct {
		Name string `json:"name"`
	}
	decode(t, w, &tags)
	assert.Len(t, tags, 2)

	w = a.do(t, http.MethodGet, "/api/v1/tags/?assigned_only=1", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	tags = nil
	decode(t, w, &tags)
	require.Len(t, tags, 1, "shared tag reported once, unused tag excluded")
	assert.Equal(t, "Lunch", tags[0].Name)
}

func TestTagRenameAndDelete(t *testing.T) {
	a := newTestAPI(t)
	token := a.register(t, "test@example.com")

	body := sampleRecipe()
	body["tags"] = []map[string]string{{"name": "Old"}}
	w := a.do(t, http.MethodPost, "/api/v1/recipes/", token, body)
	require.Equal(t, http.StatusCreated, w.Code)
	var rc recipeResp
	decode(t, w, &rc)
	tagID := rc.Tags[0].ID

	w = a.do(t, http.MethodPatch, "/api/v1/tags/"+tagID, token, map[string]string{"name": "New Tag-Update"})
	require.Equal(t, http.StatusOK, w.Code)
	var tag struct {
		Name string `json:"name"`
	}
	decode(t, w, &tag)
	assert.Equal(t, "New Tag-Update", tag.Name)

	w = a.do(t, http.MethodDelete, "/api/v1/tags/"+tagID, token, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = a.do(t, http.MethodGet, "/api/v1/tags/", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var tags []any
	decode(t, w, &tags)
	assert.Empty(t, tags)
}

func TestIngredientsScopedPerOwnerOverHTTP(t *testing.T) {
	a := newTestAPI(t)
	tokenA := a.register(t, "a@example.com")
	tokenB := a.register(t, "b@example.com")

	body := sampleRecipe()
	body["ingredients"] = []map[string]string{{"name": "Lemon"}}
	w := a.do(t, http.MethodPost, "/api/v1/recipes/", tokenA, body)
	require.Equal(t, http.StatusCreated, w.Code)
	var ra recipeResp
	decode(t, w, &ra)

	w = a.do(t, http.MethodPost, "/api/v1/recipes/", tokenB, body)
	require.Equal(t, http.StatusCreated, w.Code)
	var rb recipeResp
	decode(t, w, &rb)

	assert.NotEqual(t, ra.Ingredients[0].ID, rb.Ingredients[0].ID)

	w = a.do(t, http.MethodGet, "/api/v1/ingredients/", tokenA, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var ings []struct {
		Name string `json:"name"`
	}
	decode(t, w, &ings)
	require.Len(t, ings, 1)
	assert.Equal(t, "Lemon", ings[0].Name)
}

func TestHealth(t *testing.T) {
	a := newTestAPI(t)
	w := a.do(t, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", w.Body.String())
}
