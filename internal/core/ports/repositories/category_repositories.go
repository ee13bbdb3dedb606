package repositories

import (
	"context"

	"github.com/SscSPs/dues_ledger/internal/core/domain"
)

// CategoryReader defines read operations for category data
type CategoryReader interface {
	// FindCategoryByName retrieves a category by its label.
	FindCategoryByName(ctx context.Context, name string) (*domain.Category, error)

	// ListCategories retrieves all categories ordered by name.
	ListCategories(ctx context.Context) ([]domain.Category, error)
}

// CategoryRepositoryFacade is the category repository as seen by services.
// Categories are written only through LedgerTx.ResolveCategory.
type CategoryRepositoryFacade interface {
	CategoryReader
}
