package services

import (
	"context"
	"strings"

	"github.com/recipebox/recipe-api/internal/models"
	repo "github.com/recipebox/recipe-api/internal/repository"
)

type TagService struct {
	r repo.Tags
}

func NewTagService(r repo.Tags) *TagService { return &TagService{r: r} }

func (s *TagService) List(ctx context.Context, ownerID string, assignedOnly bool) ([]models.Tag, error) {
	return s.r.ListByOwner(ctx, ownerID, assignedOnly)
}

func (s *TagService) Rename(ctx context.Context, ownerID, id, name string) (models.Tag, error) {
	if strings.TrimSpace(name) == "" {
		return models.Tag{}, models.Invalid("name is required")
	}
	return s.r.Rename(ctx, ownerID, id, name)
}

func (s *TagService) Delete(ctx context.Context, ownerID, id string) error {
	return s.r.Delete(ctx, ownerID, id)
}

type IngredientService struct {
	r repo.Ingredients
}

func NewIngredientService(r repo.Ingredients) *IngredientService { return &IngredientService{r: r} }

func (s *IngredientService) List(ctx context.Context, ownerID string, assignedOnly bool) ([]models.Ingredient, error) {
	return s.r.ListByOwner(ctx, ownerID, assignedOnly)
}

func (s *IngredientService) Rename(ctx context.Context, ownerID, id, name string) (models.Ingredient, error) {
	if strings.TrimSpace(name) == "" {
		return models.Ingredient{}, models.Invalid("name is required")
	}
	return s.r.Rename(ctx, ownerID, id, name)
}

func (s *IngredientService) Delete(ctx context.Context, ownerID, id string) error {
	return s.r.Delete(ctx, ownerID, id)
}
