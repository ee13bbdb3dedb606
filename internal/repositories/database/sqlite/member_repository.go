package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/SscSPs/dues_ledger/internal/apperrors"
	"github.com/SscSPs/dues_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/dues_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/dues_ledger/internal/models"
	"github.com/SscSPs/dues_ledger/internal/utils/mapping"
)

const memberColumns = `member_id, name, password_hash, is_admin, created_at, created_by, last_updated_at, last_updated_by`

type SQLiteMemberRepository struct {
	BaseRepository
}

func newSQLiteMemberRepository(db *sql.DB) *SQLiteMemberRepository {
	return &SQLiteMemberRepository{BaseRepository: BaseRepository{DB: db}}
}

var _ portsrepo.MemberRepositoryFacade = (*SQLiteMemberRepository)(nil)

type rowScanner interface {
	Scan(dest ...any) error
}

func scanMember(row rowScanner) (models.Member, error) {
	var m models.Member
	var createdAt, updatedAt int64
	err := row.Scan(
		&m.MemberID,
		&m.Name,
		&m.PasswordHash,
		&m.IsAdmin,
		&createdAt,
		&m.CreatedBy,
		&updatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		return models.Member{}, err
	}
	m.CreatedAt = decodeTime(createdAt)
	m.LastUpdatedAt = decodeTime(updatedAt)
	return m, nil
}

func findMember(ctx context.Context, q querier, memberID string) (*domain.Member, error) {
	query := `SELECT ` + memberColumns + ` FROM members WHERE member_id = ?;`
	m, err := scanMember(q.QueryRowContext(ctx, query, memberID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, mapError(err, "failed to find member "+memberID)
	}
	member := mapping.ToDomainMember(m)
	return &member, nil
}

// FindMemberByID retrieves a member by ID.
func (r *SQLiteMemberRepository) FindMemberByID(ctx context.Context, memberID string) (*domain.Member, error) {
	return findMember(ctx, r.DB, memberID)
}

// ListMembers retrieves a page of members ordered by name.
func (r *SQLiteMemberRepository) ListMembers(ctx context.Context, limit int, offset int) ([]domain.Member, error) {
	query := `SELECT ` + memberColumns + ` FROM members ORDER BY name, member_id LIMIT ? OFFSET ?;`
	rows, err := r.DB.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, mapError(err, "failed to list members")
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

// SaveMember inserts a new member.
func (r *SQLiteMemberRepository) SaveMember(ctx context.Context, member domain.Member) error {
	m := mapping.ToModelMember(member)
	query := `INSERT INTO members (` + memberColumns + `) VALUES (` + placeholders(8) + `);`
	_, err := r.DB.ExecContext(ctx, query,
		m.MemberID,
		m.Name,
		m.PasswordHash,
		m.IsAdmin,
		encodeTime(m.CreatedAt),
		m.CreatedBy,
		encodeTime(m.LastUpdatedAt),
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

// UpdateMember updates the mutable fields of a member.
func (r *SQLiteMemberRepository) UpdateMember(ctx context.Context, member domain.Member) error {
	m := mapping.ToModelMember(member)
	query := `
		UPDATE members
		SET name = ?, password_hash = ?, is_admin = ?, last_updated_at = ?, last_updated_by = ?
		WHERE member_id = ?;
	`
	res, err := r.DB.ExecContext(ctx, query,
		m.Name, m.PasswordHash, m.IsAdmin, encodeTime(m.LastUpdatedAt), m.LastUpdatedBy, m.MemberID)
	if err != nil {
		return mapError(err, "failed to update member "+m.MemberID)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return mapError(err, "failed to read update result")
	}
	if n == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// DeleteMember removes a member. Entries go with it through ON DELETE CASCADE.
func (r *SQLiteMemberRepository) DeleteMember(ctx context.Context, memberID string) (bool, error) {
	res, err := r.DB.ExecContext(ctx, `DELETE FROM members WHERE member_id = ?;`, memberID)
	if err != nil {
		return false, mapError(err, "failed to delete member "+memberID)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, mapError(err, "failed to read delete result")
	}
	return n > 0, nil
}
