package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/SscSPs/dues_ledger/internal/apperrors"
	"github.com/SscSPs/dues_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/dues_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/dues_ledger/internal/models"
	"github.com/SscSPs/dues_ledger/internal/utils/mapping"
)

type SQLiteCategoryRepository struct {
	BaseRepository
}

func newSQLiteCategoryRepository(db *sql.DB) *SQLiteCategoryRepository {
	return &SQLiteCategoryRepository{BaseRepository: BaseRepository{DB: db}}
}

var _ portsrepo.CategoryRepositoryFacade = (*SQLiteCategoryRepository)(nil)

func scanCategory(row rowScanner) (models.Category, error) {
	var c models.Category
	var createdAt int64
	if err := row.Scan(&c.CategoryID, &c.Name, &c.Recurring, &createdAt); err != nil {
		return models.Category{}, err
	}
	c.CreatedAt = decodeTime(createdAt)
	return c, nil
}

func findCategory(ctx context.Context, q querier, name string) (*domain.Category, error) {
	query := `SELECT category_id, name, recurring, created_at FROM categories WHERE name = ?;`
	c, err := scanCategory(q.QueryRowContext(ctx, query, domain.NormalizeCategoryName(name)))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
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
	_, err := q.ExecContext(ctx,
		`INSERT INTO categories (name, recurring, created_at) VALUES (?, 0, ?) ON CONFLICT (name) DO NOTHING;`,
		name, encodeTime(time.Now()))
	if err != nil {
		return nil, mapError(err, "failed to create category "+name)
	}
	return findCategory(ctx, q, name)
}

// FindCategoryByName retrieves a category by its label.
func (r *SQLiteCategoryRepository) FindCategoryByName(ctx context.Context, name string) (*domain.Category, error) {
	return findCategory(ctx, r.DB, name)
}

// ListCategories retrieves all categories ordered by name.
func (r *SQLiteCategoryRepository) ListCategories(ctx context.Context) ([]domain.Category, error) {
	rows, err := r.DB.QueryContext(ctx, `SELECT category_id, name, recurring, created_at FROM categories ORDER BY name;`)
	if err != nil {
		return nil, mapError(err, "failed to list categories")
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
