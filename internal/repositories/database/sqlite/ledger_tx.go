package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/SscSPs/dues_ledger/internal/apperrors"
	"github.com/SscSPs/dues_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/dues_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/dues_ledger/internal/utils/mapping"
)

type sqliteLedgerTx struct {
	tx     *sql.Tx
	member domain.Member
}

var _ portsrepo.LedgerTx = (*sqliteLedgerTx)(nil)

func (t *sqliteLedgerTx) Member() domain.Member {
	return t.member
}

func (t *sqliteLedgerTx) ResolveCategory(ctx context.Context, name string) (*domain.Category, error) {
	return resolveCategory(ctx, t.tx, name)
}

func (t *sqliteLedgerTx) FindOutstandingDebts(ctx context.Context, memberID string) ([]domain.LedgerEntry, error) {
	return findOutstandingDebts(ctx, t.tx, memberID)
}

func (t *sqliteLedgerTx) InsertEntry(ctx context.Context, entry domain.LedgerEntry) (*domain.LedgerEntry, error) {
	if entry.CategoryID == 0 {
		category, err := t.ResolveCategory(ctx, entry.Category)
		if err != nil {
			return nil, err
		}
		entry.CategoryID = category.CategoryID
		entry.Category = category.Name
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}
	if entry.LastUpdatedAt.IsZero() {
		entry.LastUpdatedAt = entry.CreatedAt
	}
	if entry.Version == 0 {
		entry.Version = 1
	}
	entry.MemberName = t.member.Name

	m := mapping.ToModelLedgerEntry(entry)
	var expected, remaining any
	if m.ExpectedDate.Valid {
		expected = encodeDate(m.ExpectedDate.Time)
	}
	if m.RemainingBalance.Valid {
		remaining = m.RemainingBalance.Decimal.StringFixed(domain.AmountScale)
	}

	query := `
		INSERT INTO ledger_entries (member_id, kind, category_id, amount, posted_date, expected_date,
			remaining_balance, status, version, created_at, created_by, last_updated_at, last_updated_by)
		VALUES (` + placeholders(13) + `);
	`
	res, err := t.tx.ExecContext(ctx, query,
		m.MemberID,
		string(m.Kind),
		m.CategoryID,
		m.Amount.StringFixed(domain.AmountScale),
		encodeDate(m.PostedDate),
		expected,
		remaining,
		m.Status,
		m.Version,
		encodeTime(m.CreatedAt),
		m.CreatedBy,
		encodeTime(m.LastUpdatedAt),
		m.LastUpdatedBy,
	)
	if err != nil {
		return nil, mapError(err, "failed to insert ledger entry for member "+m.MemberID)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, mapError(err, "failed to read inserted entry ID")
	}

	stored := mapping.ToDomainLedgerEntry(m)
	stored.EntryID = id
	return &stored, nil
}

func (t *sqliteLedgerTx) UpdateDebtBalance(ctx context.Context, debt domain.LedgerEntry) error {
	updatedAt := debt.LastUpdatedAt
	if updatedAt.IsZero() {
		updatedAt = time.Now().UTC()
	}
	query := `
		UPDATE ledger_entries
		SET remaining_balance = ?, status = ?, version = version + 1, last_updated_at = ?, last_updated_by = ?
		WHERE entry_id = ? AND kind = 'DEBT' AND version = ?;
	`
	res, err := t.tx.ExecContext(ctx, query,
		debt.RemainingBalance.StringFixed(domain.AmountScale),
		string(debt.Status),
		encodeTime(updatedAt),
		debt.LastUpdatedBy,
		debt.EntryID,
		debt.Version,
	)
	if err != nil {
		return mapError(err, fmt.Sprintf("failed to update debt %d", debt.EntryID))
	}
	n, err := res.RowsAffected()
	if err != nil {
		return mapError(err, "failed to read update result")
	}
	if n == 0 {
		return apperrors.NewConflictError(fmt.Sprintf("debt %d changed since it was read (version %d)", debt.EntryID, debt.Version), nil)
	}
	return nil
}
