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

type usersRepo struct{ pool *pgxpool.Pool }

func NewUsers(pool *pgxpool.Pool) repository.Users {
	return &usersRepo{pool: pool}
}

const userCols = `id, email, password_hash, name, is_staff, is_superuser, created_at, updated_at`

func scanUser(row pgx.Row) (models.User, error) {
	var u models.User
	err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.Name, &u.IsStaff, &u.IsSuperuser, &u.CreatedAt, &u.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.User{}, models.ErrNotFound
	}
	return u, err
}

func (r *usersRepo) Create(ctx context.Context, email, passwordHash, name string, isStaff, isSuperuser bool) (models.User, error) {
	row := r.pool.QueryRow(ctx,
		`INSERT INTO users(id, email, password_hash, name, is_staff, is_superuser)
		 VALUES($1,$2,$3,$4,$5,$6)
		 RETURNING `+userCols,
		uuid.NewString(), email, passwordHash, name, isStaff, isSuperuser,
	)
	u, err := scanUser(row)
	if isUniqueViolation(err) {
		return models.User{}, models.ErrEmailTaken
	}
	return u, err
}

func (r *usersRepo) GetByID(ctx context.Context, id string) (models.User, error) {
	return scanUser(r.pool.QueryRow(ctx, `SELECT `+userCols+` FROM users WHERE id=$1`, id))
}

func (r *usersRepo) GetByEmail(ctx context.Context, email string) (models.User, error) {
	return scanUser(r.pool.QueryRow(ctx, `SELECT `+userCols+` FROM users WHERE email=$1`, email))
}

func (r *usersRepo) Update(ctx context.Context, u models.User) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE users SET name=$2, password_hash=$3, updated_at=now() WHERE id=$1`,
		u.ID, u.Name, u.PasswordHash,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}
