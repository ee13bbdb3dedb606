package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/SscSPs/dues_ledger/internal/apperrors"
	"github.com/SscSPs/dues_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/dues_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/dues_ledger/internal/core/ports/services"
	"github.com/SscSPs/dues_ledger/internal/dto"
	"github.com/SscSPs/dues_ledger/internal/utils"
	"github.com/SscSPs/dues_ledger/internal/utils/pagination"
)

// memberService handles member registration, updates and credential checks.
type memberService struct {
	BaseService
	memberRepo portsrepo.MemberRepositoryFacade
}

// NewMemberService creates a new member service.
func NewMemberService(memberRepo portsrepo.MemberRepositoryFacade) portssvc.MemberSvcFacade {
	return &memberService{memberRepo: memberRepo}
}

// Ensure memberService implements the portssvc.MemberSvcFacade interface
var _ portssvc.MemberSvcFacade = (*memberService)(nil)

func (s *memberService) CreateMember(ctx context.Context, req dto.CreateMemberRequest, creatorMemberID string) (*domain.Member, error) {
	memberID := strings.TrimSpace(req.MemberID)
	name := strings.TrimSpace(req.Name)
	if memberID == "" || name == "" {
		return nil, apperrors.NewValidationError("member ID and name are required")
	}

	now := time.Now().UTC()
	member := domain.Member{
		MemberID: memberID,
		Name:     name,
		IsAdmin:  req.IsAdmin,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     creatorMemberID,
			LastUpdatedAt: now,
			LastUpdatedBy: creatorMemberID,
		},
	}
	if req.Password != nil && *req.Password != "" {
		if err := utils.ValidatePassword(*req.Password); err != nil {
			return nil, apperrors.NewValidationError(err.Error())
		}
		hash, err := utils.HashPassword(*req.Password)
		if err != nil {
			s.LogError(ctx, err, "Failed to hash member password", slog.String("member_id", memberID))
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}
		member.PasswordHash = hash
	}

	if err := s.memberRepo.SaveMember(ctx, member); err != nil {
		s.LogError(ctx, err, "Failed to save member", slog.String("member_id", memberID))
		return nil, fmt.Errorf("failed to create member: %w", err)
	}

	s.LogInfo(ctx, "Member created",
		slog.String("member_id", memberID),
		slog.Bool("is_admin", member.IsAdmin),
		slog.String("created_by", creatorMemberID))
	return &member, nil
}

func (s *memberService) GetMemberByID(ctx context.Context, memberID string) (*domain.Member, error) {
	member, err := s.memberRepo.FindMemberByID(ctx, memberID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to get member", slog.String("member_id", memberID))
		}
		return nil, fmt.Errorf("failed to get member %s: %w", memberID, err)
	}
	return member, nil
}

func (s *memberService) ListMembers(ctx context.Context, limit, offset int) ([]domain.Member, error) {
	if offset < 0 {
		offset = 0
	}
	members, err := s.memberRepo.ListMembers(ctx, pagination.NormalizeLimit(limit), offset)
	if err != nil {
		s.LogError(ctx, err, "Failed to list members")
		return nil, fmt.Errorf("failed to list members: %w", err)
	}
	return members, nil
}

func (s *memberService) UpdateMember(ctx context.Context, memberID string, req dto.UpdateMemberRequest, requestingMemberID string) (*domain.Member, error) {
	member, err := s.GetMemberByID(ctx, memberID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, apperrors.NewValidationError("name cannot be empty")
		}
		member.Name = name
	}
	if req.Password != nil {
		if err := utils.ValidatePassword(*req.Password); err != nil {
			return nil, apperrors.NewValidationError(err.Error())
		}
		hash, err := utils.HashPassword(*req.Password)
		if err != nil {
			s.LogError(ctx, err, "Failed to hash member password", slog.String("member_id", memberID))
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}
		member.PasswordHash = hash
	}
	if req.IsAdmin != nil {
		if !*req.IsAdmin && memberID == requestingMemberID {
			return nil, apperrors.NewValidationError("you cannot revoke your own admin privileges")
		}
		member.IsAdmin = *req.IsAdmin
	}
	member.LastUpdatedAt = time.Now().UTC()
	member.LastUpdatedBy = requestingMemberID

	if err := s.memberRepo.UpdateMember(ctx, *member); err != nil {
		s.LogError(ctx, err, "Failed to update member", slog.String("member_id", memberID))
		return nil, fmt.Errorf("failed to update member %s: %w", memberID, err)
	}
	s.LogInfo(ctx, "Member updated", slog.String("member_id", memberID), slog.String("updated_by", requestingMemberID))
	return member, nil
}

func (s *memberService) DeleteMember(ctx context.Context, memberID string, requestingMemberID string) error {
	if memberID == requestingMemberID {
		return apperrors.NewValidationError("you cannot delete your own member record")
	}
	deleted, err := s.memberRepo.DeleteMember(ctx, memberID)
	if err != nil {
		s.LogError(ctx, err, "Failed to delete member", slog.String("member_id", memberID))
		return fmt.Errorf("failed to delete member %s: %w", memberID, err)
	}
	if !deleted {
		return apperrors.NewNotFoundError(fmt.Sprintf("member %s not found", memberID))
	}
	s.LogInfo(ctx, "Member deleted with all entries", slog.String("member_id", memberID), slog.String("deleted_by", requestingMemberID))
	return nil
}

func (s *memberService) AuthenticateMember(ctx context.Context, memberID, password string) (*domain.Member, error) {
	member, err := s.memberRepo.FindMemberByID(ctx, strings.TrimSpace(memberID))
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.ErrUnauthorized
		}
		s.LogError(ctx, err, "Failed to load member for login", slog.String("member_id", memberID))
		return nil, fmt.Errorf("failed to authenticate member: %w", err)
	}
	if !member.HasPassword() || !utils.CheckPasswordHash(password, member.PasswordHash) {
		s.LogWarn(ctx, "Rejected login attempt", slog.String("member_id", memberID))
		return nil, apperrors.ErrUnauthorized
	}
	return member, nil
}

func (s *memberService) SetInitialPassword(ctx context.Context, memberID, password string) (*domain.Member, error) {
	memberID = strings.TrimSpace(memberID)
	if err := utils.ValidatePassword(password); err != nil {
		return nil, apperrors.NewValidationError(err.Error())
	}
	member, err := s.memberRepo.FindMemberByID(ctx, memberID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.ErrUnauthorized
		}
		s.LogError(ctx, err, "Failed to load member for password setup", slog.String("member_id", memberID))
		return nil, fmt.Errorf("failed to set initial password: %w", err)
	}
	if member.HasPassword() {
		s.LogWarn(ctx, "Rejected password setup for member with a password", slog.String("member_id", memberID))
		return nil, apperrors.NewConflictError("password already set", nil)
	}

	hash, err := utils.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	member.PasswordHash = hash
	member.LastUpdatedAt = time.Now().UTC()
	member.LastUpdatedBy = memberID

	if err := s.memberRepo.UpdateMember(ctx, *member); err != nil {
		s.LogError(ctx, err, "Failed to store initial password", slog.String("member_id", memberID))
		return nil, fmt.Errorf("failed to set initial password for %s: %w", memberID, err)
	}
	s.LogInfo(ctx, "Member set initial password", slog.String("member_id", memberID))
	return member, nil
}
