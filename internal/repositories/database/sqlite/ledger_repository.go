package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/SscSPs/dues_ledger/internal/apperrors"
	"github.com/SscSPs/dues_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/dues_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/dues_ledger/internal/models"
	"github.com/SscSPs/dues_ledger/internal/utils/mapping"
	"github.com/SscSPs/dues_ledger/internal/utils/pagination"
	"github.com/shopspring/decimal"
)

const entrySelect = `
	SELECT e.entry_id, e.member_id, m.name, e.kind, e.category_id, c.name, e.amount, e.posted_date,
	       e.expected_date, e.remaining_balance, e.status, e.version,
	       e.created_at, e.created_by, e.last_updated_at, e.last_updated_by
	FROM ledger_entries e
	JOIN members m ON m.member_id = e.member_id
	JOIN categories c ON c.category_id = e.category_id
`

const (
	allocationOrder = ` ORDER BY e.posted_date, e.created_at, e.entry_id`
	listingOrder    = ` ORDER BY e.posted_date DESC, e.created_at DESC, e.entry_id DESC`
	// A stored status other than PAID implies a positive remaining balance.
	outstandingCond = `e.kind = 'DEBT' AND e.status <> 'PAID'`
)

type SQLiteLedgerRepository struct {
	BaseRepository
}

func newSQLiteLedgerRepository(db *sql.DB) *SQLiteLedgerRepository {
	return &SQLiteLedgerRepository{BaseRepository: BaseRepository{DB: db}}
}

var _ portsrepo.LedgerRepositoryFacade = (*SQLiteLedgerRepository)(nil)

func scanEntry(row rowScanner) (models.LedgerEntry, error) {
	var (
		m                    models.LedgerEntry
		kind, amount, posted string
		expected, remaining  sql.NullString
		createdAt, updatedAt int64
	)
	err := row.Scan(
		&m.EntryID,
		&m.MemberID,
		&m.MemberName,
		&kind,
		&m.CategoryID,
		&m.CategoryName,
		&amount,
		&posted,
		&expected,
		&remaining,
		&m.Status,
		&m.Version,
		&createdAt,
		&m.CreatedBy,
		&updatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		return models.LedgerEntry{}, err
	}

	m.Kind = models.EntryKind(kind)
	if m.Amount, err = decimal.NewFromString(amount); err != nil {
		return models.LedgerEntry{}, fmt.Errorf("entry %d: bad amount %q: %w", m.EntryID, amount, err)
	}
	if m.PostedDate, err = decodeDate(posted); err != nil {
		return models.LedgerEntry{}, fmt.Errorf("entry %d: bad posted date %q: %w", m.EntryID, posted, err)
	}
	if expected.Valid {
		t, err := decodeDate(expected.String)
		if err != nil {
			return models.LedgerEntry{}, fmt.Errorf("entry %d: bad expected date %q: %w", m.EntryID, expected.String, err)
		}
		m.ExpectedDate = sql.NullTime{Time: t, Valid: true}
	}
	if remaining.Valid {
		d, err := decimal.NewFromString(remaining.String)
		if err != nil {
			return models.LedgerEntry{}, fmt.Errorf("entry %d: bad remaining balance %q: %w", m.EntryID, remaining.String, err)
		}
		m.RemainingBalance = decimal.NewNullDecimal(d)
	}
	m.CreatedAt = decodeTime(createdAt)
	m.LastUpdatedAt = decodeTime(updatedAt)
	return m, nil
}

func queryEntries(ctx context.Context, q querier, query string, args ...any) ([]models.LedgerEntry, error) {
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, mapError(err, "failed to query ledger entries")
	}
	defer rows.Close()

	entries := make([]models.LedgerEntry, 0)
	for rows.Next() {
		m, err := scanEntry(rows)
		if err != nil {
			return nil, mapError(err, "failed to scan ledger entry row")
		}
		entries = append(entries, m)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err, "error iterating ledger entry rows")
	}
	return entries, nil
}

// entryConditions turns a filter into WHERE conditions and their arguments.
func entryConditions(filter domain.EntryFilter) ([]string, []any) {
	var conds []string
	var args []any
	if filter.MemberID != "" {
		conds = append(conds, "e.member_id = ?")
		args = append(args, filter.MemberID)
	}
	if category := domain.NormalizeCategoryName(filter.Category); category != "" {
		conds = append(conds, "c.name = ?")
		args = append(args, category)
	}
	if filter.Kind != "" {
		conds = append(conds, "e.kind = ?")
		args = append(args, string(filter.Kind))
	}
	if filter.From != nil {
		conds = append(conds, "e.posted_date >= ?")
		args = append(args, encodeDate(*filter.From))
	}
	if filter.To != nil {
		conds = append(conds, "e.posted_date <= ?")
		args = append(args, encodeDate(*filter.To))
	}
	if pattern := filter.SearchPattern(); pattern != "" {
		conds = append(conds, "(LOWER(e.member_id) LIKE ? OR LOWER(m.name) LIKE ? OR LOWER(c.name) LIKE ?)")
		args = append(args, pattern, pattern, pattern)
	}
	if filter.OutstandingOnly {
		conds = append(conds, outstandingCond)
	}
	return conds, args
}

func whereClause(conds []string) string {
	if len(conds) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(conds, " AND ")
}

func findOutstandingDebts(ctx context.Context, q querier, memberID string) ([]domain.LedgerEntry, error) {
	query := entrySelect + ` WHERE e.member_id = ? AND ` + outstandingCond + allocationOrder + `;`
	entries, err := queryEntries(ctx, q, query, memberID)
	if err != nil {
		return nil, err
	}
	return mapping.ToDomainLedgerEntrySlice(entries), nil
}

// FindEntryByID retrieves a single ledger entry.
func (r *SQLiteLedgerRepository) FindEntryByID(ctx context.Context, entryID int64) (*domain.LedgerEntry, error) {
	m, err := scanEntry(r.DB.QueryRowContext(ctx, entrySelect+` WHERE e.entry_id = ?;`, entryID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, mapError(err, fmt.Sprintf("failed to find entry %d", entryID))
	}
	entry := mapping.ToDomainLedgerEntry(m)
	return &entry, nil
}

// FindOutstandingDebts returns the member's unpaid debts oldest first.
func (r *SQLiteLedgerRepository) FindOutstandingDebts(ctx context.Context, memberID string) ([]domain.LedgerEntry, error) {
	return findOutstandingDebts(ctx, r.DB, memberID)
}

// FindEntriesByMember returns all of the member's entries in allocation order.
func (r *SQLiteLedgerRepository) FindEntriesByMember(ctx context.Context, memberID string) ([]domain.LedgerEntry, error) {
	return r.FindEntries(ctx, domain.EntryFilter{MemberID: memberID})
}

// FindEntries returns every entry matching the filter in allocation order.
func (r *SQLiteLedgerRepository) FindEntries(ctx context.Context, filter domain.EntryFilter) ([]domain.LedgerEntry, error) {
	conds, args := entryConditions(filter)
	entries, err := queryEntries(ctx, r.DB, entrySelect+whereClause(conds)+allocationOrder+`;`, args...)
	if err != nil {
		return nil, err
	}
	return mapping.ToDomainLedgerEntrySlice(entries), nil
}

// ListEntries returns one page of matching entries, newest first.
func (r *SQLiteLedgerRepository) ListEntries(ctx context.Context, filter domain.EntryFilter, limit int, nextToken *string) ([]domain.LedgerEntry, *string, error) {
	limit = pagination.NormalizeLimit(limit)
	// We fetch one extra item to determine if there's a next page.
	fetchLimit := limit + 1

	conds, args := entryConditions(filter)
	if nextToken != nil && *nextToken != "" {
		cursor, err := pagination.DecodeToken(*nextToken)
		if err != nil {
			return nil, nil, apperrors.NewAppError(400, "invalid nextToken", err)
		}
		conds = append(conds, "(e.posted_date, e.created_at, e.entry_id) < (?, ?, ?)")
		args = append(args, encodeDate(cursor.PostedDate), encodeTime(cursor.CreatedAt), cursor.EntryID)
	}
	args = append(args, fetchLimit)

	entries, err := queryEntries(ctx, r.DB, entrySelect+whereClause(conds)+listingOrder+` LIMIT ?;`, args...)
	if err != nil {
		return nil, nil, err
	}

	var nextTokenVal *string
	if len(entries) > limit {
		last := entries[limit-1]
		token := pagination.EncodeToken(pagination.EntryCursor{
			PostedDate: last.PostedDate,
			CreatedAt:  last.CreatedAt,
			EntryID:    last.EntryID,
		})
		nextTokenVal = &token
		entries = entries[:limit]
	}
	return mapping.ToDomainLedgerEntrySlice(entries), nextTokenVal, nil
}

// DeleteEntry removes an entry without touching any other balance.
func (r *SQLiteLedgerRepository) DeleteEntry(ctx context.Context, entryID int64) (bool, error) {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM ledger_entries WHERE entry_id = ?;`, entryID)
	if err != nil {
		return false, mapError(err, fmt.Sprintf("failed to delete entry %d", entryID))
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, mapError(err, "failed to read delete result")
	}
	return n > 0, nil
}

// WithinMemberTx runs fn in an IMMEDIATE transaction. SQLite has a single
// writer lock, so holding it also serializes writers of the same member.
func (r *SQLiteLedgerRepository) WithinMemberTx(ctx context.Context, memberID string, fn func(ctx context.Context, tx portsrepo.LedgerTx) error) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = r.Rollback(tx) }()

	member, err := findMember(ctx, tx, memberID)
	if err != nil {
		return err
	}

	if err := fn(ctx, &sqliteLedgerTx{tx: tx, member: *member}); err != nil {
		return err
	}
	return r.Commit(tx)
}
