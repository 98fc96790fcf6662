package services

import (
	"bytes"
	"context"
	"image"
	"log/slog"
	"path"
	"strings"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/google/uuid"

	"github.com/recipebox/recipe-api/internal/metrics"
	"github.com/recipebox/recipe-api/internal/models"
	repo "github.com/recipebox/recipe-api/internal/repository"
	"github.com/recipebox/recipe-api/internal/storage"
	"github.com/recipebox/recipe-api/internal/worker"
)

// RecipeInput carries a full set of scalar attributes plus tag/ingredient
// name descriptors for create (and full-replace update).
type RecipeInput struct {
	Title       string
	Description string
	TimeMinutes int
	Price       string
	Link        string
	Tags        []string
	Ingredients []string
}

// RecipeUpdate is partial: nil scalars stay untouched. HasTags /
// HasIngredients mark whether the relation set should be replaced; an empty
// slice with the flag set clears the set.
type RecipeUpdate struct {
	Title       *string
	Description *string
	TimeMinutes *int
	Price       *string
	Link        *string

	Tags           []string
	HasTags        bool
	Ingredients    []string
	HasIngredients bool
}

type RecipeService struct {
	r     repo.Recipes
	store storage.Store
	wp    *worker.Pool
	log   *slog.Logger
}

func NewRecipeService(r repo.Recipes, store storage.Store, wp *worker.Pool, log *slog.Logger) *RecipeService {
	return &RecipeService{r: r, store: store, wp: wp, log: log}
}

func (s *RecipeService) List(ctx context.Context, ownerID string, tagIDs, ingredientIDs []string) ([]models.Recipe, error) {
	return s.r.List(ctx, ownerID, tagIDs, ingredientIDs)
}

func (s *RecipeService) Get(ctx context.Context, ownerID, id string) (models.Recipe, error) {
	return s.r.Get(ctx, ownerID, id)
}

func (s *RecipeService) Create(ctx context.Context, ownerID string, in RecipeInput) (models.Recipe, error) {
	rc := models.Recipe{
		UserID:      ownerID,
		Title:       strings.TrimSpace(in.Title),
		Description: in.Description,
		TimeMinutes: in.TimeMinutes,
		Price:       in.Price,
		Link:        in.Link,
	}
	if err := rc.Validate(); err != nil {
		return models.Recipe{}, err
	}
	out, err := s.r.Create(ctx, rc, in.Tags, in.Ingredients)
	if err == nil {
		metrics.RecipesCreated.Inc()
	}
	return out, err
}

func (s *RecipeService) Update(ctx context.Context, ownerID, id string, upd RecipeUpdate) (models.Recipe, error) {
	if upd.Title != nil && strings.TrimSpace(*upd.Title) == "" {
		return models.Recipe{}, models.Invalid("title is required")
	}
	if upd.TimeMinutes != nil {
		if err := models.ValidateTimeMinutes(*upd.TimeMinutes); err != nil {
			return models.Recipe{}, err
		}
	}
	if upd.Price != nil {
		if err := models.ValidatePrice(*upd.Price); err != nil {
			return models.Recipe{}, err
		}
	}
	return s.r.Update(ctx, ownerID, id, repo.RecipePatch{
		Title:           upd.Title,
		Description:     upd.Description,
		TimeMinutes:     upd.TimeMinutes,
		Price:           upd.Price,
		Link:            upd.Link,
		TagNames:        upd.Tags,
		ReplaceTags:     upd.HasTags,
		IngredientNames: upd.Ingredients,
		ReplaceIngreds:  upd.HasIngredients,
	})
}

func (s *RecipeService) Delete(ctx context.Context, ownerID, id string) error {
	return s.r.Delete(ctx, ownerID, id)
}

// SetImage validates that data decodes as a raster image, stores it under a
// fresh opaque key keeping the upload's extension, and swaps the recipe's
// reference. The replaced object is released off the request path.
func (s *RecipeService) SetImage(ctx context.Context, ownerID, id, filename string, data []byte) (models.Recipe, error) {
	// Ownership first: a cross-owner upload must 404 before any bytes land
	// in the store.
	if _, err := s.r.Get(ctx, ownerID, id); err != nil {
		return models.Recipe{}, err
	}

	_, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return models.Recipe{}, models.Invalid("not a supported image")
	}

	ext := strings.ToLower(path.Ext(filename))
	if ext == "" {
		ext = "." + format
	}
	key := "uploads/recipe/" + uuid.NewString() + ext

	if err := s.store.Save(ctx, key, data, "image/"+format); err != nil {
		return models.Recipe{}, err
	}
	oldKey, err := s.r.SetImageKey(ctx, ownerID, id, key)
	if err != nil {
		// Orphaned object, remove it right away.
		_ = s.store.Delete(ctx, key)
		return models.Recipe{}, err
	}
	metrics.ImagesUploaded.Inc()

	if oldKey != "" {
		s.wp.Submit(func() {
			if err := s.store.Delete(context.Background(), oldKey); err != nil {
				s.log.Warn("release replaced image", "key", oldKey, "err", err)
			}
		})
	}
	return s.r.Get(ctx, ownerID, id)
}

// ImageURL resolves a stored image key to a fetchable location; empty key
// yields empty URL.
func (s *RecipeService) ImageURL(ctx context.Context, key string) (string, error) {
	if key == "" {
		return "", nil
	}
	return s.store.URL(ctx, key)
}
