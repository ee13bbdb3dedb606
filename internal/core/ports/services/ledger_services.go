package services

import (
	"context"

	"github.com/SscSPs/dues_ledger/internal/core/domain"
	"github.com/SscSPs/dues_ledger/internal/dto"
)

// LedgerPostingSvc defines the operations that write entries.
type LedgerPostingSvc interface {
	// PostDebt records a new DEBT with its full amount outstanding.
	PostDebt(ctx context.Context, req dto.PostDebtRequest, creatorMemberID string) (*domain.LedgerEntry, error)

	// PostPayment records a PAYMENT and applies it to the member's outstanding
	// debts oldest first. The payment and every debt update commit together or not at all.
	PostPayment(ctx context.Context, req dto.PostPaymentRequest, creatorMemberID string) (*domain.PaymentPosting, error)

	// DeleteEntry removes an entry without re-allocating any other entry.
	DeleteEntry(ctx context.Context, entryID int64, requestingMemberID string) error
}

// LedgerReaderSvc defines read operations over the ledger.
type LedgerReaderSvc interface {
	// GetEntryByID retrieves a single entry.
	GetEntryByID(ctx context.Context, entryID int64) (*domain.LedgerEntry, error)

	// ListOutstanding returns the member's unpaid debts in allocation order.
	ListOutstanding(ctx context.Context, memberID string) ([]domain.LedgerEntry, error)

	// ListEntries returns a page of entries matching the filter, newest first.
	ListEntries(ctx context.Context, filter domain.EntryFilter, limit int, nextToken *string) ([]domain.LedgerEntry, *string, error)

	// ListCategories returns every category in use.
	ListCategories(ctx context.Context) ([]domain.Category, error)
}

// LedgerSvcFacade combines all ledger-related service interfaces
type LedgerSvcFacade interface {
	LedgerPostingSvc
	LedgerReaderSvc
}
