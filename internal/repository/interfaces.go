package repository

import (
	"context"

	"github.com/recipebox/recipe-api/internal/models"
)

type Users interface {
	Create(ctx context.Context, email, passwordHash, name string, isStaff, isSuperuser bool) (models.User, error)
	GetByID(ctx context.Context, id string) (models.User, error)
	GetByEmail(ctx context.Context, email string) (models.User, error)
	Update(ctx context.Context, u models.User) error
}

type Tags interface {
	ListByOwner(ctx context.Context, userID string, assignedOnly bool) ([]models.Tag, error)
	Rename(ctx context.Context, userID, id, name string) (models.Tag, error)
	Delete(ctx context.Context, userID, id string) error
}

type Ingredients interface {
	ListByOwner(ctx context.Context, userID string, assignedOnly bool) ([]models.Ingredient, error)
	Rename(ctx context.Context, userID, id, name string) (models.Ingredient, error)
	Delete(ctx context.Context, userID, id string) error
}

// RecipePatch is a partial update; nil fields are left untouched. TagNames
// and IngredientNames distinguish "absent" (nil, keep current set) from
// "present but empty" (replace with nothing).
type RecipePatch struct {
	Title       *string
	Description *string
	TimeMinutes *int
	Price       *string
	Link        *string

	TagNames        []string
	ReplaceTags     bool
	IngredientNames []string
	ReplaceIngreds  bool
}

type Recipes interface {
	// Create persists the recipe and resolves tag/ingredient names against
	// the owner (get-or-create) in one transaction.
	Create(ctx context.Context, r models.Recipe, tagNames, ingredientNames []string) (models.Recipe, error)

	// List returns the owner's recipes, optionally restricted to those
	// intersecting the given tag/ingredient id sets.
	List(ctx context.Context, userID string, tagIDs, ingredientIDs []string) ([]models.Recipe, error)

	// Get returns models.ErrNotFound when the row is missing or owned by
	// another user.
	Get(ctx context.Context, userID, id string) (models.Recipe, error)

	Update(ctx context.Context, userID, id string, patch RecipePatch) (models.Recipe, error)
	Delete(ctx context.Context, userID, id string) error

	// SetImageKey swaps the stored image reference and reports the key it
	// replaced so the caller can release the old object.
	SetImageKey(ctx context.Context, userID, id, key string) (oldKey string, err error)
}
