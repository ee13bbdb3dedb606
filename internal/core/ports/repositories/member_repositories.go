package repositories

import (
	"context"

	"github.com/SscSPs/dues_ledger/internal/core/domain"
)

// MemberReader defines read operations for member data
type MemberReader interface {
	// FindMemberByID retrieves a member by their external ID. Returns apperrors.ErrNotFound if absent.
	FindMemberByID(ctx context.Context, memberID string) (*domain.Member, error)

	// ListMembers retrieves a page of members ordered by name.
	ListMembers(ctx context.Context, limit int, offset int) ([]domain.Member, error)
}

// MemberWriter defines write operations for member data
type MemberWriter interface {
	// SaveMember persists a new member. Returns apperrors.ErrDuplicate if the ID is taken.
	SaveMember(ctx context.Context, member domain.Member) error

	// UpdateMember updates name, credential and admin flag of an existing member.
	UpdateMember(ctx context.Context, member domain.Member) error

	// DeleteMember removes a member together with all of their ledger entries.
	// It reports whether a member was removed.
	DeleteMember(ctx context.Context, memberID string) (bool, error)
}

// MemberRepositoryFacade combines all member-related repository interfaces
type MemberRepositoryFacade interface {
	MemberReader
	MemberWriter
}
