package services

import (
	"context"

	"github.com/SscSPs/dues_ledger/internal/core/domain"
	"github.com/SscSPs/dues_ledger/internal/dto"
)

// MemberReaderSvc defines read operations for member data
type MemberReaderSvc interface {
	// GetMemberByID retrieves a member by their external ID.
	GetMemberByID(ctx context.Context, memberID string) (*domain.Member, error)

	// ListMembers retrieves a paginated list of members.
	ListMembers(ctx context.Context, limit, offset int) ([]domain.Member, error)
}

// MemberWriterSvc defines write operations for member data
type MemberWriterSvc interface {
	// CreateMember registers a new member. A password, when given, is stored as a bcrypt hash.
	CreateMember(ctx context.Context, req dto.CreateMemberRequest, creatorMemberID string) (*domain.Member, error)

	// UpdateMember changes name, password or admin flag of an existing member.
	UpdateMember(ctx context.Context, memberID string, req dto.UpdateMemberRequest, requestingMemberID string) (*domain.Member, error)

	// DeleteMember removes a member and every ledger entry they own.
	DeleteMember(ctx context.Context, memberID string, requestingMemberID string) error
}

// MemberAuthSvc defines operations for member authentication
type MemberAuthSvc interface {
	// AuthenticateMember checks the credentials and returns the member.
	// Any mismatch, including a member without a password, yields apperrors.ErrUnauthorized.
	AuthenticateMember(ctx context.Context, memberID, password string) (*domain.Member, error)

	// SetInitialPassword lets a member created without a password choose one on first login.
	// It fails with apperrors.ErrConflict once the member already has a password.
	SetInitialPassword(ctx context.Context, memberID, password string) (*domain.Member, error)
}

// MemberSvcFacade combines all member-related service interfaces
type MemberSvcFacade interface {
	MemberReaderSvc
	MemberWriterSvc
	MemberAuthSvc
}
