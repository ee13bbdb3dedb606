package repositories

import (
	"context"

	"github.com/SscSPs/dues_ledger/internal/core/domain"
)

// LedgerReader defines read operations for ledger entries
type LedgerReader interface {
	// FindEntryByID retrieves a single entry. Returns apperrors.ErrNotFound if absent.
	FindEntryByID(ctx context.Context, entryID int64) (*domain.LedgerEntry, error)

	// FindOutstandingDebts returns the member's debts with a positive remaining
	// balance, ordered by (posted_date, created_at, entry_id) ascending.
	FindOutstandingDebts(ctx context.Context, memberID string) ([]domain.LedgerEntry, error)

	// FindEntriesByMember returns every entry of the member in allocation order.
	FindEntriesByMember(ctx context.Context, memberID string) ([]domain.LedgerEntry, error)

	// FindEntries returns all entries matching the filter in allocation order.
	FindEntries(ctx context.Context, filter domain.EntryFilter) ([]domain.LedgerEntry, error)

	// ListEntries retrieves a page of entries matching the filter, newest first,
	// using token-based pagination. It returns the entries and a token for the next page.
	ListEntries(ctx context.Context, filter domain.EntryFilter, limit int, nextToken *string) ([]domain.LedgerEntry, *string, error)
}

// LedgerWriter defines write operations for ledger entries
type LedgerWriter interface {
	// DeleteEntry removes an entry. Other entries are not re-allocated.
	// It reports whether an entry was removed.
	DeleteEntry(ctx context.Context, entryID int64) (bool, error)

	// WithinMemberTx runs fn inside one storage transaction that holds the
	// member's write lock for its whole duration. The member must exist;
	// apperrors.ErrNotFound is returned otherwise. If fn returns an error
	// every write made through tx is rolled back.
	WithinMemberTx(ctx context.Context, memberID string, fn func(ctx context.Context, tx LedgerTx) error) error
}

// LedgerTx is the set of ledger operations available inside WithinMemberTx.
type LedgerTx interface {
	// Member is the locked member the transaction was opened for.
	Member() domain.Member

	// ResolveCategory returns the category with the given name, creating it if needed.
	ResolveCategory(ctx context.Context, name string) (*domain.Category, error)

	// InsertEntry stores a new entry and returns it with its ID and timestamps assigned.
	InsertEntry(ctx context.Context, entry domain.LedgerEntry) (*domain.LedgerEntry, error)

	// FindOutstandingDebts is LedgerReader.FindOutstandingDebts read under the transaction's lock.
	FindOutstandingDebts(ctx context.Context, memberID string) ([]domain.LedgerEntry, error)

	// UpdateDebtBalance writes debt.RemainingBalance and debt.Status, provided the
	// stored row is still at debt.Version. The stored version is incremented.
	// Returns apperrors.ErrConflict when the row changed since it was read.
	UpdateDebtBalance(ctx context.Context, debt domain.LedgerEntry) error
}

// LedgerRepositoryFacade combines all ledger-related repository interfaces
type LedgerRepositoryFacade interface {
	LedgerReader
	LedgerWriter
}
