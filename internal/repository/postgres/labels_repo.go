package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/recipebox/recipe-api/internal/models"
	"github.com/recipebox/recipe-api/internal/repository"
)

// Tags and ingredients share shape and semantics; labelRepo carries the
// table wiring and the concrete repos adapt rows to their model type.
type labelRepo struct {
	pool  *pgxpool.Pool
	table string // "tags" | "ingredients"
	join  string // "recipe_tags" | "recipe_ingredients"
	fk    string // "tag_id" | "ingredient_id"
}

type labelRow struct {
	ID     string
	UserID string
	Name   string
}

func (r *labelRepo) listByOwner(ctx context.Context, userID string, assignedOnly bool) ([]labelRow, error) {
	q := fmt.Sprintf(`SELECT id, user_id, name FROM %s WHERE user_id=$1 ORDER BY name, id`, r.table)
	if assignedOnly {
		q = fmt.Sprintf(
			`SELECT DISTINCT l.id, l.user_id, l.name
			   FROM %s l
			   JOIN %s j ON j.%s = l.id
			  WHERE l.user_id=$1
			  ORDER BY l.name, l.id`,
			r.table, r.join, r.fk,
		)
	}
	rows, err := r.pool.Query(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []labelRow
	for rows.Next() {
		var l labelRow
		if err := rows.Scan(&l.ID, &l.UserID, &l.Name); err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

func (r *labelRepo) rename(ctx context.Context, userID, id, name string) (labelRow, error) {
	row := r.pool.QueryRow(ctx,
		fmt.Sprintf(`UPDATE %s SET name=$3 WHERE id=$1 AND user_id=$2 RETURNING id, user_id, name`, r.table),
		id, userID, name,
	)
	var l labelRow
	err := row.Scan(&l.ID, &l.UserID, &l.Name)
	switch {
	case errors.Is(err, pgx.ErrNoRows):
		return labelRow{}, models.ErrNotFound
	case isUniqueViolation(err):
		return labelRow{}, models.ErrNameTaken
	}
	return l, err
}

func (r *labelRepo) delete(ctx context.Context, userID, id string) error {
	tag, err := r.pool.Exec(ctx,
		fmt.Sprintf(`DELETE FROM %s WHERE id=$1 AND user_id=$2`, r.table),
		id, userID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}

type tagsRepo struct{ labelRepo }

func NewTags(pool *pgxpool.Pool) repository.Tags {
	return &tagsRepo{labelRepo{pool: pool, table: "tags", join: "recipe_tags", fk: "tag_id"}}
}

func (r *tagsRepo) ListByOwner(ctx context.Context, userID string, assignedOnly bool) ([]models.Tag, error) {
	rows, err := r.listByOwner(ctx, userID, assignedOnly)
	if err != nil {
		return nil, err
	}
	out := make([]models.Tag, 0, len(rows))
	for _, l := range rows {
		out = append(out, models.Tag{ID: l.ID, UserID: l.UserID, Name: l.Name})
	}
	return out, nil
}

func (r *tagsRepo) Rename(ctx context.Context, userID, id, name string) (models.Tag, error) {
	l, err := r.rename(ctx, userID, id, name)
	if err != nil {
		return models.Tag{}, err
	}
	return models.Tag{ID: l.ID, UserID: l.UserID, Name: l.Name}, nil
}

func (r *tagsRepo) Delete(ctx context.Context, userID, id string) error {
	return r.delete(ctx, userID, id)
}

type ingredientsRepo struct{ labelRepo }

func NewIngredients(pool *pgxpool.Pool) repository.Ingredients {
	return &ingredientsRepo{labelRepo{pool: pool, table: "ingredients", join: "recipe_ingredients", fk: "ingredient_id"}}
}

func (r *ingredientsRepo) ListByOwner(ctx context.Context, userID string, assignedOnly bool) ([]models.Ingredient, error) {
	rows, err := r.listByOwner(ctx, userID, assignedOnly)
	if err != nil {
		return nil, err
	}
	out := make([]models.Ingredient, 0, len(rows))
	for _, l := range rows {
		out = append(out, models.Ingredient{ID: l.ID, UserID: l.UserID, Name: l.Name})
	}
	return out, nil
}

func (r *ingredientsRepo) Rename(ctx context.Context, userID, id, name string) (models.Ingredient, error) {
	l, err := r.rename(ctx, userID, id, name)
	if err != nil {
		return models.Ingredient{}, err
	}
	return models.Ingredient{ID: l.ID, UserID: l.UserID, Name: l.Name}, nil
}

func (r *ingredientsRepo) Delete(ctx context.Context, userID, id string) error {
	return r.delete(ctx, userID, id)
}
