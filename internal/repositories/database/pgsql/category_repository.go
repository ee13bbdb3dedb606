package pgsql

import (
	"context"
	"errors"

	"github.com/SscSPs/dues_ledger/internal/apperrors"
	"github.com/SscSPs/dues_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/dues_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/dues_ledger/internal/models"
	"github.com/SscSPs/dues_ledger/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxCategoryRepository struct {
	BaseRepository
}

func newPgxCategoryRepository(pool *pgxpool.Pool) *PgxCategoryRepository {
	return &PgxCategoryRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.CategoryRepositoryFacade = (*PgxCategoryRepository)(nil)

func scanCategory(row pgx.Row) (models.Category, error) {
	var c models.Category
	err := row.Scan(&c.CategoryID, &c.Name, &c.Recurring, &c.CreatedAt)
	return c, err
}

func findCategory(ctx context.Context, q querier, name string) (*domain.Category, error) {
	query := `SELECT category_id, name, recurring, created_at FROM categories WHERE name = $1;`
	c, err := scanCategory(q.QueryRow(ctx, query, domain.NormalizeCategoryName(name)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, mapError(err, "failed to find category "+name)
	}
	category := mapping.ToDomainCategory(c)
	return &category, nil
}

// resolveCategory returns the named category, inserting it first when missing.
func resolveCategory(ctx context.Context, q querier, name string) (*domain.Category, error) {
	name = domain.NormalizeCategoryName(name)
	query := `
		INSERT INTO categories (name) VALUES ($1)
		ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name
		RETURNING category_id, name, recurring, created_at;
	`
	c, err := scanCategory(q.QueryRow(ctx, query, name))
	if err != nil {
		return nil, mapError(err, "failed to resolve category "+name)
	}
	category := mapping.ToDomainCategory(c)
	return &category, nil
}

func (r *PgxCategoryRepository) FindCategoryByName(ctx context.Context, name string) (*domain.Category, error) {
	return findCategory(ctx, r.Pool, name)
}

func (r *PgxCategoryRepository) ListCategories(ctx context.Context) ([]domain.Category, error) {
	rows, err := r.Pool.Query(ctx, `SELECT category_id, name, recurring, created_at FROM categories ORDER BY name;`)
	if err != nil {
		return nil, mapError(err, "failed to query categories")
	}
	defer rows.Close()

	var categories []models.Category
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, mapError(err, "failed to scan category row")
		}
		categories = append(categories, c)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err, "error iterating category rows")
	}
	return mapping.ToDomainCategorySlice(categories), nil
}
