package pgsql

import (
	"context"
	"fmt"
	"time"

	"github.com/SscSPs/dues_ledger/internal/apperrors"
	"github.com/SscSPs/dues_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/dues_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/dues_ledger/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
)

type pgxLedgerTx struct {
	tx     pgx.Tx
	member domain.Member
}

var _ portsrepo.LedgerTx = (*pgxLedgerTx)(nil)

func (t *pgxLedgerTx) Member() domain.Member {
	return t.member
}

func (t *pgxLedgerTx) ResolveCategory(ctx context.Context, name string) (*domain.Category, error) {
	return resolveCategory(ctx, t.tx, name)
}

func (t *pgxLedgerTx) FindOutstandingDebts(ctx context.Context, memberID string) ([]domain.LedgerEntry, error) {
	return findOutstandingDebts(ctx, t.tx, memberID, true)
}

func (t *pgxLedgerTx) InsertEntry(ctx context.Context, entry domain.LedgerEntry) (*domain.LedgerEntry, error) {
	if entry.CategoryID == 0 {
		category, err := t.ResolveCategory(ctx, entry.Category)
		if err != nil {
			return nil, err
		}
		entry.CategoryID = category.CategoryID
		entry.Category = category.Name
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}
	// TIMESTAMPTZ keeps microseconds; truncate so the returned entry matches what a read gives back.
	entry.CreatedAt = entry.CreatedAt.UTC().Truncate(time.Microsecond)
	if entry.LastUpdatedAt.IsZero() {
		entry.LastUpdatedAt = entry.CreatedAt
	}
	entry.LastUpdatedAt = entry.LastUpdatedAt.UTC().Truncate(time.Microsecond)
	if entry.Version == 0 {
		entry.Version = 1
	}
	entry.MemberName = t.member.Name

	m := mapping.ToModelLedgerEntry(entry)
	query := `
		INSERT INTO ledger_entries (member_id, kind, category_id, amount, posted_date, expected_date,
			remaining_balance, status, version, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING entry_id;
	`
	err := t.tx.QueryRow(ctx, query,
		m.MemberID,
		string(m.Kind),
		m.CategoryID,
		m.Amount,
		m.PostedDate,
		m.ExpectedDate,
		m.RemainingBalance,
		m.Status,
		m.Version,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	).Scan(&m.EntryID)
	if err != nil {
		return nil, mapError(err, "failed to insert ledger entry for member "+m.MemberID)
	}

	stored := mapping.ToDomainLedgerEntry(m)
	return &stored, nil
}

func (t *pgxLedgerTx) UpdateDebtBalance(ctx context.Context, debt domain.LedgerEntry) error {
	updatedAt := debt.LastUpdatedAt
	if updatedAt.IsZero() {
		updatedAt = time.Now()
	}
	query := `
		UPDATE ledger_entries
		SET remaining_balance = $1, status = $2, version = version + 1, last_updated_at = $3, last_updated_by = $4
		WHERE entry_id = $5 AND kind = 'DEBT' AND version = $6;
	`
	tag, err := t.tx.Exec(ctx, query,
		debt.RemainingBalance,
		string(debt.Status),
		updatedAt.UTC(),
		debt.LastUpdatedBy,
		debt.EntryID,
		debt.Version,
	)
	if err != nil {
		return mapError(err, fmt.Sprintf("failed to update debt %d", debt.EntryID))
	}
	if tag.RowsAffected() == 0 {
		return apperrors.NewConflictError(fmt.Sprintf("debt %d changed since it was read (version %d)", debt.EntryID, debt.Version), nil)
	}
	return nil
}
