package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/SscSPs/dues_ledger/internal/apperrors"
	"github.com/SscSPs/dues_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/dues_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/dues_ledger/internal/models"
	"github.com/SscSPs/dues_ledger/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const memberColumns = `member_id, name, password_hash, is_admin, created_at, created_by, last_updated_at, last_updated_by`

type PgxMemberRepository struct {
	BaseRepository
}

func newPgxMemberRepository(pool *pgxpool.Pool) *PgxMemberRepository {
	return &PgxMemberRepository{BaseRepository: BaseRepository{Pool: pool}}
}

// Ensure PgxMemberRepository implements portsrepo.MemberRepositoryFacade
var _ portsrepo.MemberRepositoryFacade = (*PgxMemberRepository)(nil)

func scanMember(row pgx.Row) (models.Member, error) {
	var m models.Member
	err := row.Scan(
		&m.MemberID,
		&m.Name,
		&m.PasswordHash,
		&m.IsAdmin,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

// findMember reads a member row; forUpdate takes the row lock.
func findMember(ctx context.Context, q querier, memberID string, forUpdate bool) (*domain.Member, error) {
	query := `SELECT ` + memberColumns + ` FROM members WHERE member_id = $1`
	if forUpdate {
		query += ` FOR UPDATE`
	}
	m, err := scanMember(q.QueryRow(ctx, query+`;`, memberID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, mapError(err, "failed to find member "+memberID)
	}
	member := mapping.ToDomainMember(m)
	return &member, nil
}

func (r *PgxMemberRepository) FindMemberByID(ctx context.Context, memberID string) (*domain.Member, error) {
	return findMember(ctx, r.Pool, memberID, false)
}

func (r *PgxMemberRepository) ListMembers(ctx context.Context, limit int, offset int) ([]domain.Member, error) {
	// Default limit if not specified or invalid
	if limit <= 0 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	query := `SELECT ` + memberColumns + ` FROM members ORDER BY name, member_id LIMIT $1 OFFSET $2;`
	rows, err := r.Pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, mapError(err, "failed to query members")
	}
	defer rows.Close()

	members := make([]models.Member, 0, limit)
	for rows.Next() {
		m, err := scanMember(rows)
		if err != nil {
			return nil, mapError(err, "failed to scan member row")
		}
		members = append(members, m)
	}
	if err := rows.Err(); err != nil {
		return nil, mapError(err, "error iterating member rows")
	}
	return mapping.ToDomainMemberSlice(members), nil
}

func (r *PgxMemberRepository) SaveMember(ctx context.Context, member domain.Member) error {
	m := mapping.ToModelMember(member)
	query := `
		INSERT INTO members (` + memberColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8);
	`
	_, err := r.Pool.Exec(ctx, query,
		m.MemberID,
		m.Name,
		m.PasswordHash,
		m.IsAdmin,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		mapped := mapError(err, "failed to save member "+m.MemberID)
		if errors.Is(mapped, apperrors.ErrDuplicate) {
			return fmt.Errorf("%w: member with ID %s already exists", apperrors.ErrDuplicate, m.MemberID)
		}
		return mapped
	}
	return nil
}

func (r *PgxMemberRepository) UpdateMember(ctx context.Context, member domain.Member) error {
	m := mapping.ToModelMember(member)
	query := `
		UPDATE members
		SET name = $1, password_hash = $2, is_admin = $3, last_updated_at = $4, last_updated_by = $5
		WHERE member_id = $6;
	`
	tag, err := r.Pool.Exec(ctx, query, m.Name, m.PasswordHash, m.IsAdmin, m.LastUpdatedAt, m.LastUpdatedBy, m.MemberID)
	if err != nil {
		return mapError(err, "failed to update member "+m.MemberID)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// DeleteMember removes a member. Entries go with it through ON DELETE CASCADE.
func (r *PgxMemberRepository) DeleteMember(ctx context.Context, memberID string) (bool, error) {
	tag, err := r.Pool.Exec(ctx, `DELETE FROM members WHERE member_id = $1;`, memberID)
	if err != nil {
		return false, mapError(err, "failed to delete member "+memberID)
	}
	return tag.RowsAffected() > 0, nil
}
