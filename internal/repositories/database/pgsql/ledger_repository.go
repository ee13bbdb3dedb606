package pgsql

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/SscSPs/dues_ledger/internal/apperrors"
	"github.com/SscSPs/dues_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/dues_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/dues_ledger/internal/models"
	"github.com/SscSPs/dues_ledger/internal/utils/mapping"
	"github.com/SscSPs/dues_ledger/internal/utils/pagination"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
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
	outstandingCond = `e.kind = 'DEBT' AND e.remaining_balance > 0`
)

type PgxLedgerRepository struct {
	BaseRepository
}

func newPgxLedgerRepository(pool *pgxpool.Pool) *PgxLedgerRepository {
	return &PgxLedgerRepository{BaseRepository: BaseRepository{Pool: pool}}
}

// Ensure PgxLedgerRepository implements portsrepo.LedgerRepositoryFacade
var _ portsrepo.LedgerRepositoryFacade = (*PgxLedgerRepository)(nil)

func scanEntry(row pgx.Row) (models.LedgerEntry, error) {
	var m models.LedgerEntry
	var kind string
	err := row.Scan(
		&m.EntryID,
		&m.MemberID,
		&m.MemberName,
		&kind,
		&m.CategoryID,
		&m.CategoryName,
		&m.Amount,
		&m.PostedDate,
		&m.ExpectedDate,
		&m.RemainingBalance,
		&m.Status,
		&m.Version,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	m.Kind = models.EntryKind(kind)
	return m, err
}

func queryEntries(ctx context.Context, q querier, query string, args ...any) ([]models.LedgerEntry, error) {
	rows, err := q.Query(ctx, query, args...)
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

// entryConditions turns a filter into WHERE conditions, registering their arguments in args.
func entryConditions(filter domain.EntryFilter, args *argList) []string {
	var conds []string
	if filter.MemberID != "" {
		conds = append(conds, "e.member_id = "+args.add(filter.MemberID))
	}
	if category := domain.NormalizeCategoryName(filter.Category); category != "" {
		conds = append(conds, "c.name = "+args.add(category))
	}
	if filter.Kind != "" {
		conds = append(conds, "e.kind = "+args.add(string(filter.Kind)))
	}
	if filter.From != nil {
		conds = append(conds, "e.posted_date >= "+args.add(domain.NormalizeDate(*filter.From)))
	}
	if filter.To != nil {
		conds = append(conds, "e.posted_date <= "+args.add(domain.NormalizeDate(*filter.To)))
	}
	if pattern := filter.SearchPattern(); pattern != "" {
		p := args.add(pattern)
		conds = append(conds, fmt.Sprintf("(LOWER(e.member_id) LIKE %[1]s OR LOWER(m.name) LIKE %[1]s OR LOWER(c.name) LIKE %[1]s)", p))
	}
	if filter.OutstandingOnly {
		conds = append(conds, outstandingCond)
	}
	return conds
}

func whereClause(conds []string) string {
	if len(conds) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(conds, " AND ")
}

// findOutstandingDebts reads the member's unpaid debts; forUpdate locks the debt rows.
func findOutstandingDebts(ctx context.Context, q querier, memberID string, forUpdate bool) ([]domain.LedgerEntry, error) {
	query := entrySelect + ` WHERE e.member_id = $1 AND ` + outstandingCond + allocationOrder
	if forUpdate {
		query += ` FOR UPDATE OF e`
	}
	query += `;`
	entries, err := queryEntries(ctx, q, query, memberID)
	if err != nil {
		return nil, err
	}
	return mapping.ToDomainLedgerEntrySlice(entries), nil
}

func (r *PgxLedgerRepository) FindEntryByID(ctx context.Context, entryID int64) (*domain.LedgerEntry, error) {
	m, err := scanEntry(r.Pool.QueryRow(ctx, entrySelect+` WHERE e.entry_id = $1;`, entryID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, mapError(err, fmt.Sprintf("failed to find entry %d", entryID))
	}
	entry := mapping.ToDomainLedgerEntry(m)
	return &entry, nil
}

func (r *PgxLedgerRepository) FindOutstandingDebts(ctx context.Context, memberID string) ([]domain.LedgerEntry, error) {
	return findOutstandingDebts(ctx, r.Pool, memberID, false)
}

func (r *PgxLedgerRepository) FindEntriesByMember(ctx context.Context, memberID string) ([]domain.LedgerEntry, error) {
	return r.FindEntries(ctx, domain.EntryFilter{MemberID: memberID})
}

func (r *PgxLedgerRepository) FindEntries(ctx context.Context, filter domain.EntryFilter) ([]domain.LedgerEntry, error) {
	var args argList
	conds := entryConditions(filter, &args)
	entries, err := queryEntries(ctx, r.Pool, entrySelect+whereClause(conds)+allocationOrder+`;`, args.values...)
	if err != nil {
		return nil, err
	}
	return mapping.ToDomainLedgerEntrySlice(entries), nil
}

func (r *PgxLedgerRepository) ListEntries(ctx context.Context, filter domain.EntryFilter, limit int, nextToken *string) ([]domain.LedgerEntry, *string, error) {
	limit = pagination.NormalizeLimit(limit)
	// We fetch one extra item to determine if there's a next page.
	fetchLimit := limit + 1

	var args argList
	conds := entryConditions(filter, &args)
	if nextToken != nil && *nextToken != "" {
		cursor, err := pagination.DecodeToken(*nextToken)
		if err != nil {
			return nil, nil, apperrors.NewAppError(400, "invalid nextToken", err)
		}
		// Tuple comparison is concise and efficient in Postgres
		conds = append(conds, fmt.Sprintf("(e.posted_date, e.created_at, e.entry_id) < (%s, %s, %s)",
			args.add(cursor.PostedDate), args.add(cursor.CreatedAt), args.add(cursor.EntryID)))
	}
	query := entrySelect + whereClause(conds) + listingOrder + ` LIMIT ` + args.add(fetchLimit) + `;`

	entries, err := queryEntries(ctx, r.Pool, query, args.values...)
	if err != nil {
		return nil, nil, err
	}

	var nextTokenVal *string
	if len(entries) > limit {
		// The token points to the last item included in this page.
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

func (r *PgxLedgerRepository) DeleteEntry(ctx context.Context, entryID int64) (bool, error) {
	tag, err := r.Pool.Exec(ctx, `DELETE FROM ledger_entries WHERE entry_id = $1;`, entryID)
	if err != nil {
		return false, mapError(err, fmt.Sprintf("failed to delete entry %d", entryID))
	}
	return tag.RowsAffected() > 0, nil
}

// WithinMemberTx locks the member row with SELECT ... FOR UPDATE so that
// writers for the same member run one at a time.
func (r *PgxLedgerRepository) WithinMemberTx(ctx context.Context, memberID string, fn func(ctx context.Context, tx portsrepo.LedgerTx) error) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = r.Rollback(ctx, tx) }()

	member, err := findMember(ctx, tx, memberID, true)
	if err != nil {
		return err
	}

	if err := fn(ctx, &pgxLedgerTx{tx: tx, member: *member}); err != nil {
		return err
	}
	return r.Commit(ctx, tx)
}
