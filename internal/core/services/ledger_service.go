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
	"github.com/SscSPs/dues_ledger/internal/platform/metrics"
	"github.com/SscSPs/dues_ledger/internal/utils/pagination"
)

// DefaultConflictRetries is how many times a posting is retried after an
// optimistic-lock conflict when no option overrides it.
const DefaultConflictRetries = 3

// ledgerService posts entries and runs the FIFO allocation of payments.
type ledgerService struct {
	BaseService
	ledgerRepo   portsrepo.LedgerRepositoryFacade
	categoryRepo portsrepo.CategoryRepositoryFacade
	memberRepo   portsrepo.MemberReader

	maxConflictRetries int
	now                func() time.Time
}

// LedgerServiceOption is a functional option for configuring the ledger service
type LedgerServiceOption func(*ledgerService)

// WithConflictRetries bounds how often a posting is retried after ErrConflict.
// Zero disables retries.
func WithConflictRetries(n int) LedgerServiceOption {
	return func(s *ledgerService) {
		if n >= 0 {
			s.maxConflictRetries = n
		}
	}
}

// WithClock replaces the time source used for audit timestamps.
func WithClock(now func() time.Time) LedgerServiceOption {
	return func(s *ledgerService) {
		if now != nil {
			s.now = now
		}
	}
}

// NewLedgerService creates a new ledger service with the provided options
func NewLedgerService(
	ledgerRepo portsrepo.LedgerRepositoryFacade,
	categoryRepo portsrepo.CategoryRepositoryFacade,
	memberRepo portsrepo.MemberReader,
	options ...LedgerServiceOption,
) portssvc.LedgerSvcFacade {
	svc := &ledgerService{
		ledgerRepo:         ledgerRepo,
		categoryRepo:       categoryRepo,
		memberRepo:         memberRepo,
		maxConflictRetries: DefaultConflictRetries,
		now:                time.Now,
	}
	for _, option := range options {
		option(svc)
	}
	return svc
}

// Ensure ledgerService implements the portssvc.LedgerSvcFacade interface
var _ portssvc.LedgerSvcFacade = (*ledgerService)(nil)

func (s *ledgerService) PostDebt(ctx context.Context, req dto.PostDebtRequest, creatorMemberID string) (*domain.LedgerEntry, error) {
	postedDate, err := domain.ParseDate(req.PostedDate)
	if err != nil {
		return nil, err
	}
	expectedDate, err := domain.ParseOptionalDate(req.ExpectedDate)
	if err != nil {
		return nil, err
	}
	if expectedDate != nil && expectedDate.Before(postedDate) {
		return nil, apperrors.NewValidationError("expected date cannot be before the posted date")
	}

	debt := domain.NewDebt(strings.TrimSpace(req.MemberID), req.Category, req.Amount, postedDate, expectedDate)
	debt.CreatedBy = creatorMemberID
	debt.LastUpdatedBy = creatorMemberID
	if err := debt.Validate(); err != nil {
		return nil, err
	}

	var stored *domain.LedgerEntry
	err = s.withMemberTx(ctx, debt.MemberID, func(ctx context.Context, tx portsrepo.LedgerTx) error {
		inserted, err := tx.InsertEntry(ctx, debt)
		if err != nil {
			return err
		}
		stored = inserted
		return nil
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to post debt",
			slog.String("member_id", debt.MemberID),
			slog.String("amount", debt.Amount.String()))
		return nil, err
	}

	metrics.EntriesPosted.WithLabelValues(string(domain.KindDebt)).Inc()
	s.LogInfo(ctx, "Debt posted",
		slog.Int64("entry_id", stored.EntryID),
		slog.String("member_id", stored.MemberID),
		slog.String("category", stored.Category),
		slog.String("amount", stored.Amount.String()))
	return stored, nil
}

func (s *ledgerService) PostPayment(ctx context.Context, req dto.PostPaymentRequest, creatorMemberID string) (*domain.PaymentPosting, error) {
	postedDate, err := domain.ParseDate(req.PostedDate)
	if err != nil {
		return nil, err
	}
	payment := domain.NewPayment(strings.TrimSpace(req.MemberID), req.Category, req.Amount, postedDate)
	payment.CreatedBy = creatorMemberID
	payment.LastUpdatedBy = creatorMemberID
	if err := payment.Validate(); err != nil {
		return nil, err
	}

	var posting domain.PaymentPosting
	err = s.withMemberTx(ctx, payment.MemberID, func(ctx context.Context, tx portsrepo.LedgerTx) error {
		result, err := s.allocate(ctx, tx, payment, creatorMemberID)
		if err != nil {
			return err
		}
		posting = result
		return nil
	})
	if err != nil {
		s.LogError(ctx, err, "Failed to post payment",
			slog.String("member_id", payment.MemberID),
			slog.String("amount", payment.Amount.String()))
		return nil, err
	}

	metrics.EntriesPosted.WithLabelValues(string(domain.KindPayment)).Inc()
	metrics.DebtsTouchedPerPayment.Observe(float64(len(posting.MutatedDebts)))
	if posting.Surplus.IsPositive() {
		metrics.PaymentSurplus.Inc()
		s.LogWarn(ctx, "Payment exceeds outstanding balance, surplus left unapplied",
			slog.String("member_id", payment.MemberID),
			slog.String("surplus", posting.Surplus.String()))
	}
	s.LogInfo(ctx, "Payment posted",
		slog.Int64("entry_id", posting.Payment.EntryID),
		slog.String("member_id", payment.MemberID),
		slog.String("applied", posting.Applied.String()),
		slog.Int("debts_touched", len(posting.MutatedDebts)))
	return &posting, nil
}

// allocate inserts the payment and walks it over the member's outstanding
// debts, writing each touched debt back under its version check.
func (s *ledgerService) allocate(ctx context.Context, tx portsrepo.LedgerTx, payment domain.LedgerEntry, actorID string) (domain.PaymentPosting, error) {
	outstanding, err := tx.FindOutstandingDebts(ctx, payment.MemberID)
	if err != nil {
		return domain.PaymentPosting{}, err
	}
	result, err := domain.AllocatePayment(outstanding, payment.Amount)
	if err != nil {
		return domain.PaymentPosting{}, err
	}

	stored, err := tx.InsertEntry(ctx, payment)
	if err != nil {
		return domain.PaymentPosting{}, err
	}

	now := s.now().UTC()
	mutated := make([]domain.LedgerEntry, 0, len(result.Allocations))
	for _, a := range result.Allocations {
		debt := a.Debt
		debt.LastUpdatedAt = now
		debt.LastUpdatedBy = actorID
		if err := tx.UpdateDebtBalance(ctx, debt); err != nil {
			return domain.PaymentPosting{}, err
		}
		debt.Version++
		mutated = append(mutated, debt)
		s.LogDebug(ctx, "Applied payment to debt",
			slog.Int64("debt_id", debt.EntryID),
			slog.String("balance_before", a.BalanceBefore.String()),
			slog.String("applied", a.Applied.String()),
			slog.String("status", string(debt.Status)))
	}

	return domain.PaymentPosting{
		Payment:      *stored,
		MutatedDebts: mutated,
		Applied:      result.TotalApplied,
		Surplus:      result.Surplus,
	}, nil
}

// withMemberTx runs fn under the member's lock and retries the whole unit
// when a concurrent writer caused ErrConflict. fn must not keep state across
// attempts.
func (s *ledgerService) withMemberTx(ctx context.Context, memberID string, fn func(ctx context.Context, tx portsrepo.LedgerTx) error) error {
	for attempt := 0; ; attempt++ {
		err := s.ledgerRepo.WithinMemberTx(ctx, memberID, fn)
		switch {
		case err == nil:
			return nil
		case errors.Is(err, apperrors.ErrNotFound):
			return fmt.Errorf("%w: member %s does not exist", apperrors.ErrValidation, memberID)
		case !errors.Is(err, apperrors.ErrConflict):
			return err
		case attempt >= s.maxConflictRetries:
			metrics.AllocationConflicts.WithLabelValues("exhausted").Inc()
			return err
		}

		metrics.AllocationConflicts.WithLabelValues("retried").Inc()
		s.LogWarn(ctx, "Concurrent write conflict, retrying",
			slog.String("member_id", memberID),
			slog.Int("attempt", attempt+1))
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
	}
}

func (s *ledgerService) DeleteEntry(ctx context.Context, entryID int64, requestingMemberID string) error {
	deleted, err := s.ledgerRepo.DeleteEntry(ctx, entryID)
	if err != nil {
		s.LogError(ctx, err, "Failed to delete entry", slog.Int64("entry_id", entryID))
		return fmt.Errorf("failed to delete entry %d: %w", entryID, err)
	}
	if !deleted {
		return apperrors.NewNotFoundError(fmt.Sprintf("entry %d not found", entryID))
	}
	s.LogInfo(ctx, "Entry deleted", slog.Int64("entry_id", entryID), slog.String("deleted_by", requestingMemberID))
	return nil
}

func (s *ledgerService) GetEntryByID(ctx context.Context, entryID int64) (*domain.LedgerEntry, error) {
	entry, err := s.ledgerRepo.FindEntryByID(ctx, entryID)
	if err != nil {
		return nil, fmt.Errorf("failed to get entry %d: %w", entryID, err)
	}
	return entry, nil
}

func (s *ledgerService) ListOutstanding(ctx context.Context, memberID string) ([]domain.LedgerEntry, error) {
	if _, err := s.memberRepo.FindMemberByID(ctx, memberID); err != nil {
		return nil, fmt.Errorf("failed to get member %s: %w", memberID, err)
	}
	debts, err := s.ledgerRepo.FindOutstandingDebts(ctx, memberID)
	if err != nil {
		s.LogError(ctx, err, "Failed to list outstanding debts", slog.String("member_id", memberID))
		return nil, fmt.Errorf("failed to list outstanding debts: %w", err)
	}
	return debts, nil
}

func (s *ledgerService) ListEntries(ctx context.Context, filter domain.EntryFilter, limit int, nextToken *string) ([]domain.LedgerEntry, *string, error) {
	if err := filter.Validate(); err != nil {
		return nil, nil, err
	}
	entries, next, err := s.ledgerRepo.ListEntries(ctx, filter, pagination.NormalizeLimit(limit), nextToken)
	if err != nil {
		if !errors.Is(err, apperrors.ErrValidation) {
			s.LogError(ctx, err, "Failed to list entries")
		}
		return nil, nil, fmt.Errorf("failed to list entries: %w", err)
	}
	return entries, next, nil
}

func (s *ledgerService) ListCategories(ctx context.Context) ([]domain.Category, error) {
	categories, err := s.categoryRepo.ListCategories(ctx)
	if err != nil {
		s.LogError(ctx, err, "Failed to list categories")
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	return categories, nil
}
