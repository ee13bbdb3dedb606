package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/SscSPs/dues_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/dues_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/dues_ledger/internal/core/ports/services"
)

// reportingService implements the ReportingService interface. Every figure is
// recomputed from the stored entries on each call.
type reportingService struct {
	BaseService
	memberRepo portsrepo.MemberReader
	ledgerRepo portsrepo.LedgerReader
}

// NewReportingService creates a new reporting service
func NewReportingService(memberRepo portsrepo.MemberReader, ledgerRepo portsrepo.LedgerReader) portssvc.ReportingService {
	return &reportingService{
		memberRepo: memberRepo,
		ledgerRepo: ledgerRepo,
	}
}

// Ensure reportingService implements the ReportingService interface
var _ portssvc.ReportingService = (*reportingService)(nil)

// MemberSummary computes the balance view of one member.
func (s *reportingService) MemberSummary(ctx context.Context, memberID string) (*domain.MemberSummary, error) {
	member, err := s.memberRepo.FindMemberByID(ctx, memberID)
	if err != nil {
		return nil, fmt.Errorf("failed to get member %s: %w", memberID, err)
	}

	entries, err := s.ledgerRepo.FindEntriesByMember(ctx, memberID)
	if err != nil {
		s.LogError(ctx, err, "Failed to retrieve member entries", slog.String("member_id", memberID))
		return nil, fmt.Errorf("failed to retrieve member entries: %w", err)
	}

	summary := domain.SummarizeMember(*member, entries)
	s.LogDebug(ctx, "Member summary computed",
		slog.String("member_id", memberID),
		slog.Int("entry_count", len(entries)),
		slog.String("total_outstanding", summary.TotalOutstanding.String()))
	return &summary, nil
}

// GlobalMetrics aggregates every entry matching the filter.
func (s *reportingService) GlobalMetrics(ctx context.Context, filter domain.EntryFilter) (*domain.GlobalMetrics, error) {
	if err := filter.Validate(); err != nil {
		return nil, err
	}
	entries, err := s.ledgerRepo.FindEntries(ctx, filter)
	if err != nil {
		s.LogError(ctx, err, "Failed to retrieve entries for metrics")
		return nil, fmt.Errorf("failed to retrieve entries for metrics: %w", err)
	}

	m := domain.AggregateMetrics(entries)
	s.LogDebug(ctx, "Global metrics computed",
		slog.Int("debt_count", m.DebtCount),
		slog.Int("payment_count", m.PaymentCount))
	return &m, nil
}
