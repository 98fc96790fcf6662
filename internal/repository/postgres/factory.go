package postgres

import (
	"github.com/jackc/pgx/v5/pgxpool"

	repo "github.com/recipebox/recipe-api/internal/repository"
)

type Repositories struct {
	Users       repo.Users
	Tags        repo.Tags
	Ingredients repo.Ingredients
	Recipes     repo.Recipes
}

func NewRepositories(pool *pgxpool.Pool) Repositories {
	return Repositories{
		Users:       NewUsers(pool),
		Tags:        NewTags(pool),
		Ingredients: NewIngredients(pool),
		Recipes:     NewRecipes(pool),
	}
}
