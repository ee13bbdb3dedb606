package services

import (
	"context"

	"github.com/SscSPs/dues_ledger/internal/core/domain"
)

// ReportingService defines operations for balance reports
type ReportingService interface {
	// MemberSummary computes the balance view of one member.
	MemberSummary(ctx context.Context, memberID string) (*domain.MemberSummary, error)

	// GlobalMetrics aggregates every entry matching the filter.
	GlobalMetrics(ctx context.Context, filter domain.EntryFilter) (*domain.GlobalMetrics, error)
}
