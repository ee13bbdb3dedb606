package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/SscSPs/dues_ledger/internal/apperrors"
	"github.com/SscSPs/dues_ledger/internal/core/domain"
	"github.com/SscSPs/dues_ledger/internal/core/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReportingService_MemberSummary(t *testing.T) {
	ctx := context.Background()
	memberRepo := new(MockMemberRepository)
	ledgerRepo := new(MockLedgerRepository)
	svc := services.NewReportingService(memberRepo, ledgerRepo)

	d1 := storedDebt(1, "100", time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC))
	d1.RemainingBalance = amount("40")
	d1.Status = domain.StatusPartial
	d2 := storedDebt(2, "50", time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC))
	payment := domain.NewPayment("123", "Dues", amount("60"), time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC))

	memberRepo.On("FindMemberByID", ctx, "123").Return(&domain.Member{MemberID: "123", Name: "Ana"}, nil).Once()
	ledgerRepo.On("FindEntriesByMember", ctx, "123").Return([]domain.LedgerEntry{d1, d2, payment}, nil).Once()

	summary, err := svc.MemberSummary(ctx, "123")

	require.NoError(t, err)
	assert.Equal(t, "Ana", summary.MemberName)
	assert.True(t, summary.TotalOutstanding.Equal(amount("90")), "outstanding is the sum of remaining balances")
	assert.True(t, summary.TotalDebited.Equal(amount("150")))
	assert.True(t, summary.TotalPaid.Equal(amount("60")))
	assert.True(t, summary.LargestPayment.Equal(amount("60")))
	require.NotNil(t, summary.OldestOutstandingDebt)
	assert.Equal(t, int64(1), summary.OldestOutstandingDebt.EntryID)
}

func TestReportingService_MemberSummary_UnknownMember(t *testing.T) {
	ctx := context.Background()
	memberRepo := new(MockMemberRepository)
	ledgerRepo := new(MockLedgerRepository)
	svc := services.NewReportingService(memberRepo, ledgerRepo)

	memberRepo.On("FindMemberByID", ctx, "404").Return(nil, apperrors.ErrNotFound).Once()

	_, err := svc.MemberSummary(ctx, "404")

	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	ledgerRepo.AssertNotCalled(t, "FindEntriesByMember", ctx, "404")
}

func TestReportingService_GlobalMetrics(t *testing.T) {
	ctx := context.Background()
	ledgerRepo := new(MockLedgerRepository)
	svc := services.NewReportingService(new(MockMemberRepository), ledgerRepo)

	filter := domain.EntryFilter{Category: "Dues"}
	ledgerRepo.On("FindEntries", ctx, filter).Return([]domain.LedgerEntry{
		storedDebt(1, "100", time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)),
		storedDebt(2, "50", time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC)),
		domain.NewPayment("123", "Dues", amount("60"), time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC)),
	}, nil).Once()

	m, err := svc.GlobalMetrics(ctx, filter)

	require.NoError(t, err)
	assert.True(t, m.TotalDebts.Equal(amount("150")))
	assert.True(t, m.MaxDebt.Equal(amount("100")))
	assert.True(t, m.TotalPayments.Equal(amount("60")))
	assert.True(t, m.MaxPayment.Equal(amount("60")))
	assert.Equal(t, 2, m.DebtCount)
	assert.Equal(t, 1, m.PaymentCount)
}

func TestReportingService_GlobalMetrics_StorageFailure(t *testing.T) {
	ctx := context.Background()
	ledgerRepo := new(MockLedgerRepository)
	svc := services.NewReportingService(new(MockMemberRepository), ledgerRepo)

	ledgerRepo.On("FindEntries", ctx, domain.EntryFilter{}).Return(nil, errors.New("boom")).Once()

	_, err := svc.GlobalMetrics(ctx, domain.EntryFilter{})

	assert.Error(t, err)
}
