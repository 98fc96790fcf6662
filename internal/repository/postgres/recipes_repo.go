package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/recipebox/recipe-api/internal/models"
	"github.com/recipebox/recipe-api/internal/repository"
)

type recipesRepo struct{ pool *pgxpool.Pool }

func NewRecipes(pool *pgxpool.Pool) repository.Recipes {
	return &recipesRepo{pool: pool}
}

const recipeCols = `id, user_id, title, description, time_minutes, price::text, link, image_key, created_at`

func scanRecipe(row pgx.Row) (models.Recipe, error) {
	var rc models.Recipe
	err := row.Scan(&rc.ID, &rc.UserID, &rc.Title, &rc.Description, &rc.TimeMinutes, &rc.Price, &rc.Link, &rc.ImageKey, &rc.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.Recipe{}, models.ErrNotFound
	}
	return rc, err
}

// resolveLabels upserts one row per distinct name under the owner and
// returns the resolved ids. The ON CONFLICT no-op update makes RETURNING
// yield the existing row, so a concurrent identical write converges on one
// row instead of erroring or duplicating.
func resolveLabels(ctx context.Context, tx pgx.Tx, table, userID string, names []string) ([]string, error) {
	seen := make(map[string]bool, len(names))
	ids := make([]string, 0, len(names))
	for _, name := range names {
		if seen[name] {
			continue
		}
		seen[name] = true

		var id string
		err := tx.QueryRow(ctx,
			`INSERT INTO `+table+`(id, user_id, name) VALUES($1,$2,$3)
			 ON CONFLICT (user_id, name) DO UPDATE SET name = EXCLUDED.name
			 RETURNING id`,
			uuid.NewString(), userID, name,
		).Scan(&id)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func attachLabels(ctx context.Context, tx pgx.Tx, join, fk, recipeID string, ids []string) error {
	for _, id := range ids {
		if _, err := tx.Exec(ctx,
			`INSERT INTO `+join+`(recipe_id, `+fk+`) VALUES($1,$2) ON CONFLICT DO NOTHING`,
			recipeID, id,
		); err != nil {
			return err
		}
	}
	return nil
}

func (r *recipesRepo) Create(ctx context.Context, rc models.Recipe, tagNames, ingredientNames []string) (models.Recipe, error) {
	rc.ID = uuid.NewString()

	err := pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx,
			`INSERT INTO recipes(id, user_id, title, description, time_minutes, price, link)
			 VALUES($1,$2,$3,$4,$5,$6::numeric,$7)`,
			rc.ID, rc.UserID, rc.Title, rc.Description, rc.TimeMinutes, rc.Price, rc.Link,
		); err != nil {
			return err
		}

		tagIDs, err := resolveLabels(ctx, tx, "tags", rc.UserID, tagNames)
		if err != nil {
			return err
		}
		if err := attachLabels(ctx, tx, "recipe_tags", "tag_id", rc.ID, tagIDs); err != nil {
			return err
		}

		ingredientIDs, err := resolveLabels(ctx, tx, "ingredients", rc.UserID, ingredientNames)
		if err != nil {
			return err
		}
		return attachLabels(ctx, tx, "recipe_ingredients", "ingredient_id", rc.ID, ingredientIDs)
	})
	if err != nil {
		return models.Recipe{}, err
	}
	return r.Get(ctx, rc.UserID, rc.ID)
}

func (r *recipesRepo) Get(ctx context.Context, userID, id string) (models.Recipe, error) {
	rc, err := scanRecipe(r.pool.QueryRow(ctx,
		`SELECT `+recipeCols+` FROM recipes WHERE id=$1 AND user_id=$2`, id, userID))
	if err != nil {
		return models.Recipe{}, err
	}
	if err := r.loadRelations(ctx, []*models.Recipe{&rc}); err != nil {
		return models.Recipe{}, err
	}
	return rc, nil
}

func (r *recipesRepo) List(ctx context.Context, userID string, tagIDs, ingredientIDs []string) ([]models.Recipe, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+recipeCols+`
		   FROM recipes r
		  WHERE r.user_id=$1
		    AND ($2::uuid[] IS NULL OR EXISTS (
		          SELECT 1 FROM recipe_tags rt WHERE rt.recipe_id = r.id AND rt.tag_id = ANY($2::uuid[])))
		    AND ($3::uuid[] IS NULL OR EXISTS (
		          SELECT 1 FROM recipe_ingredients ri WHERE ri.recipe_id = r.id AND ri.ingredient_id = ANY($3::uuid[])))
		  ORDER BY r.created_at, r.id`,
		userID, nilIfEmpty(tagIDs), nilIfEmpty(ingredientIDs),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []models.Recipe
	for rows.Next() {
		rc, err := scanRecipe(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rc)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	refs := make([]*models.Recipe, len(out))
	for i := range out {
		refs[i] = &out[i]
	}
	if err := r.loadRelations(ctx, refs); err != nil {
		return nil, err
	}
	return out, nil
}

func nilIfEmpty(ids []string) []string {
	if len(ids) == 0 {
		return nil
	}
	return ids
}

func (r *recipesRepo) loadRelations(ctx context.Context, recipes []*models.Recipe) error {
	if len(recipes) == 0 {
		return nil
	}
	byID := make(map[string]*models.Recipe, len(recipes))
	ids := make([]string, 0, len(recipes))
	for _, rc := range recipes {
		rc.Tags = []models.Tag{}
		rc.Ingredients = []models.Ingredient{}
		byID[rc.ID] = rc
		ids = append(ids, rc.ID)
	}

	rows, err := r.pool.Query(ctx,
		`SELECT rt.recipe_id, t.id, t.user_id, t.name
		   FROM recipe_tags rt JOIN tags t ON t.id = rt.tag_id
		  WHERE rt.recipe_id = ANY($1::uuid[])
		  ORDER BY t.name, t.id`, ids)
	if err != nil {
		return err
	}
	for rows.Next() {
		var recipeID string
		var t models.Tag
		if err := rows.Scan(&recipeID, &t.ID, &t.UserID, &t.Name); err != nil {
			rows.Close()
			return err
		}
		byID[recipeID].Tags = append(byID[recipeID].Tags, t)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return err
	}

	rows, err = r.pool.Query(ctx,
		`SELECT ri.recipe_id, i.id, i.user_id, i.name
		   FROM recipe_ingredients ri JOIN ingredients i ON i.id = ri.ingredient_id
		  WHERE ri.recipe_id = ANY($1::uuid[])
		  ORDER BY i.name, i.id`, ids)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var recipeID string
		var ing models.Ingredient
		if err := rows.Scan(&recipeID, &ing.ID, &ing.UserID, &ing.Name); err != nil {
			return err
		}
		byID[recipeID].Ingredients = append(byID[recipeID].Ingredients, ing)
	}
	return rows.Err()
}

func (r *recipesRepo) Update(ctx context.Context, userID, id string, patch repository.RecipePatch) (models.Recipe, error) {
	err := pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		// Lock the row; the combined id+owner predicate makes "missing" and
		// "not owned" the same outcome.
		var locked string
		err := tx.QueryRow(ctx,
			`SELECT id FROM recipes WHERE id=$1 AND user_id=$2 FOR UPDATE`, id, userID,
		).Scan(&locked)
		if errors.Is(err, pgx.ErrNoRows) {
			return models.ErrNotFound
		}
		if err != nil {
			return err
		}

		if _, err := tx.Exec(ctx,
			`UPDATE recipes SET
			    title        = COALESCE($2::text, title),
			    description  = COALESCE($3::text, description),
			    time_minutes = COALESCE($4::int, time_minutes),
			    price        = COALESCE($5::numeric, price),
			    link         = COALESCE($6::text, link)
			  WHERE id=$1`,
			id, patch.Title, patch.Description, patch.TimeMinutes, patch.Price, patch.Link,
		); err != nil {
			return err
		}

		if patch.ReplaceTags {
			if _, err := tx.Exec(ctx, `DELETE FROM recipe_tags WHERE recipe_id=$1`, id); err != nil {
				return err
			}
			tagIDs, err := resolveLabels(ctx, tx, "tags", userID, patch.TagNames)
			if err != nil {
				return err
			}
			if err := attachLabels(ctx, tx, "recipe_tags", "tag_id", id, tagIDs); err != nil {
				return err
			}
		}
		if patch.ReplaceIngreds {
			if _, err := tx.Exec(ctx, `DELETE FROM recipe_ingredients WHERE recipe_id=$1`, id); err != nil {
				return err
			}
			ingredientIDs, err := resolveLabels(ctx, tx, "ingredients", userID, patch.IngredientNames)
			if err != nil {
				return err
			}
			if err := attachLabels(ctx, tx, "recipe_ingredients", "ingredient_id", id, ingredientIDs); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return models.Recipe{}, err
	}
	return r.Get(ctx, userID, id)
}

func (r *recipesRepo) Delete(ctx context.Context, userID, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM recipes WHERE id=$1 AND user_id=$2`, id, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}

func (r *recipesRepo) SetImageKey(ctx context.Context, userID, id, key string) (string, error) {
	var oldKey string
	err := pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		err := tx.QueryRow(ctx,
			`SELECT image_key FROM recipes WHERE id=$1 AND user_id=$2 FOR UPDATE`, id, userID,
		).Scan(&oldKey)
		if errors.Is(err, pgx.ErrNoRows) {
			return models.ErrNotFound
		}
		if err != nil {
			return err
		}
		_, err = tx.Exec(ctx, `UPDATE recipes SET image_key=$2 WHERE id=$1`, id, key)
		return err
	})
	if err != nil {
		return "", err
	}
	return oldKey, nil
}
