package services_test

import (
	"context"
	"database/sql"
	"io"
	"log/slog"
	"path/filepath"
	"sync"
	"testing"

	"github.com/SscSPs/dues_ledger/internal/apperrors"
	"github.com/SscSPs/dues_ledger/internal/core/domain"
	portssvc "github.com/SscSPs/dues_ledger/internal/core/ports/services"
	"github.com/SscSPs/dues_ledger/internal/core/services"
	"github.com/SscSPs/dues_ledger/internal/dto"
	"github.com/SscSPs/dues_ledger/internal/platform/config"
	"github.com/SscSPs/dues_ledger/internal/repositories/database/sqlite"
	"github.com/SscSPs/dues_ledger/pkg/database"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

// LedgerIntegrationSuite runs the services against a real SQLite store.
type LedgerIntegrationSuite struct {
	suite.Suite
	ctx context.Context
	db  *sql.DB
	svc *portssvc.ServiceContainer
}

func TestLedgerIntegrationSuite(t *testing.T) {
	suite.Run(t, new(LedgerIntegrationSuite))
}

func (s *LedgerIntegrationSuite) SetupTest() {
	s.ctx = context.Background()
	path := filepath.Join(s.T().TempDir(), "ledger.db")
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	s.Require().NoError(database.RunMigrations(logger, database.DriverSQLite, path, database.Up))

	db, err := database.NewSQLiteDB(s.ctx, path)
	s.Require().NoError(err)
	s.db = db

	cfg := &config.Config{AllocationMaxRetries: 5, JWTSecret: "test-secret", JWTIssuer: "test"}
	s.svc = services.NewServiceContainer(cfg, sqlite.NewRepositoryProvider(db))

	_, err = s.svc.Member.CreateMember(s.ctx, dto.CreateMemberRequest{MemberID: "123", Name: "Ana"}, "admin")
	s.Require().NoError(err)
}

func (s *LedgerIntegrationSuite) TearDownTest() {
	s.db.Close()
}

func (s *LedgerIntegrationSuite) debt(value, posted string) *domain.LedgerEntry {
	entry, err := s.svc.Ledger.PostDebt(s.ctx, dto.PostDebtRequest{
		MemberID: "123", Category: "Monthly dues", Amount: decimal.RequireFromString(value), PostedDate: posted,
	}, "admin")
	s.Require().NoError(err)
	return entry
}

func (s *LedgerIntegrationSuite) pay(value, posted string) *domain.PaymentPosting {
	posting, err := s.svc.Ledger.PostPayment(s.ctx, dto.PostPaymentRequest{
		MemberID: "123", Category: "Monthly dues", Amount: decimal.RequireFromString(value), PostedDate: posted,
	}, "admin")
	s.Require().NoError(err)
	return posting
}

func (s *LedgerIntegrationSuite) entry(id int64) *domain.LedgerEntry {
	e, err := s.svc.Ledger.GetEntryByID(s.ctx, id)
	s.Require().NoError(err)
	return e
}

func (s *LedgerIntegrationSuite) requireBalance(id int64, remaining string, status domain.DebtStatus) {
	e := s.entry(id)
	s.Require().Truef(decimal.RequireFromString(remaining).Equal(e.RemainingBalance),
		"debt %d: want remaining %s, got %s", id, remaining, e.RemainingBalance)
	s.Require().Equal(status, e.Status, "debt %d", id)
}

func (s *LedgerIntegrationSuite) TestFIFOAllocationAcrossTwoPayments() {
	d1 := s.debt("100", "2025-01-01")
	d2 := s.debt("50", "2025-01-10")

	first := s.pay("60", "2025-01-15")
	s.Require().Len(first.MutatedDebts, 1)
	s.requireBalance(d1.EntryID, "40", domain.StatusPartial)
	s.requireBalance(d2.EntryID, "50", domain.StatusPending)

	second := s.pay("60", "2025-01-20")
	s.Require().Len(second.MutatedDebts, 2)
	s.Equal(d1.EntryID, second.MutatedDebts[0].EntryID)
	s.Equal(d2.EntryID, second.MutatedDebts[1].EntryID)
	s.requireBalance(d1.EntryID, "0", domain.StatusPaid)
	s.requireBalance(d2.EntryID, "30", domain.StatusPartial)

	summary, err := s.svc.Reporting.MemberSummary(s.ctx, "123")
	s.Require().NoError(err)
	s.True(summary.TotalOutstanding.Equal(decimal.NewFromInt(30)))
	s.True(summary.TotalPaid.Equal(decimal.NewFromInt(120)))
	s.True(summary.LargestPayment.Equal(decimal.NewFromInt(60)))
	s.Require().NotNil(summary.OldestOutstandingDebt)
	s.Equal(d2.EntryID, summary.OldestOutstandingDebt.EntryID)
}

func (s *LedgerIntegrationSuite) TestConservationWithSurplus() {
	s.debt("30", "2025-01-01")
	s.debt("20.50", "2025-01-02")
	p1 := s.pay("25", "2025-01-03")
	p2 := s.pay("40", "2025-01-04")

	s.True(p2.Surplus.Equal(decimal.RequireFromString("14.50")))

	summary, err := s.svc.Reporting.MemberSummary(s.ctx, "123")
	s.Require().NoError(err)
	applied := summary.TotalDebited.Sub(summary.TotalOutstanding)
	s.True(applied.Equal(p1.Applied.Add(p2.Applied)), "applied %s", applied)
	s.True(summary.TotalOutstanding.IsZero())
}

func (s *LedgerIntegrationSuite) TestPaymentWithNoOutstandingDebts() {
	posting := s.pay("75", "2025-01-05")

	s.Empty(posting.MutatedDebts)
	s.True(posting.Surplus.Equal(decimal.NewFromInt(75)))
	stored := s.entry(posting.Payment.EntryID)
	s.Equal(domain.KindPayment, stored.Kind)

	// A later debt does not consume the earlier payment.
	d := s.debt("30", "2025-01-06")
	s.requireBalance(d.EntryID, "30", domain.StatusPending)
}

func (s *LedgerIntegrationSuite) TestSamePostedDateFollowsCreationOrder() {
	first := s.debt("10", "2025-03-01")
	second := s.debt("10", "2025-03-01")

	s.pay("10", "2025-03-02")

	s.requireBalance(first.EntryID, "0", domain.StatusPaid)
	s.requireBalance(second.EntryID, "10", domain.StatusPending)
}

func (s *LedgerIntegrationSuite) TestListOutstandingIsIdempotent() {
	s.debt("10", "2025-01-02")
	s.debt("20", "2025-01-01")

	a, err := s.svc.Ledger.ListOutstanding(s.ctx, "123")
	s.Require().NoError(err)
	b, err := s.svc.Ledger.ListOutstanding(s.ctx, "123")
	s.Require().NoError(err)

	s.Require().Len(a, 2)
	s.Equal(a[0].EntryID, b[0].EntryID)
	s.Equal(a[1].EntryID, b[1].EntryID)
	s.True(a[0].PostedDate.Before(a[1].PostedDate))
}

func (s *LedgerIntegrationSuite) TestUnknownMemberPostsNothing() {
	_, err := s.svc.Ledger.PostPayment(s.ctx, dto.PostPaymentRequest{
		MemberID: "nobody", Category: "Dues", Amount: decimal.NewFromInt(10), PostedDate: "2025-01-01",
	}, "admin")
	s.ErrorIs(err, apperrors.ErrValidation)

	m, err := s.svc.Reporting.GlobalMetrics(s.ctx, domain.EntryFilter{})
	s.Require().NoError(err)
	s.Zero(m.PaymentCount)
}

func (s *LedgerIntegrationSuite) TestDeletingPaymentDoesNotReallocate() {
	d := s.debt("100", "2025-01-01")
	p := s.pay("40", "2025-01-02")

	s.Require().NoError(s.svc.Ledger.DeleteEntry(s.ctx, p.Payment.EntryID, "admin"))

	s.requireBalance(d.EntryID, "60", domain.StatusPartial)
	_, err := s.svc.Ledger.GetEntryByID(s.ctx, p.Payment.EntryID)
	s.ErrorIs(err, apperrors.ErrNotFound)
}

func (s *LedgerIntegrationSuite) TestGlobalMetricsByKind() {
	s.debt("100", "2025-01-01")
	s.debt("50", "2025-02-01")
	s.pay("60", "2025-02-02")

	debts, err := s.svc.Reporting.GlobalMetrics(s.ctx, domain.EntryFilter{Kind: domain.KindDebt})
	s.Require().NoError(err)
	s.Equal(2, debts.DebtCount)
	s.Zero(debts.PaymentCount)
	s.True(debts.MaxDebt.Equal(decimal.NewFromInt(100)))

	all, err := s.svc.Reporting.GlobalMetrics(s.ctx, domain.EntryFilter{})
	s.Require().NoError(err)
	s.True(all.TotalDebts.Equal(decimal.NewFromInt(150)))
	s.True(all.TotalPayments.Equal(decimal.NewFromInt(60)))
}

func (s *LedgerIntegrationSuite) TestConcurrentPaymentsAreSerialized() {
	d := s.debt("100", "2025-01-01")

	const workers = 8
	var wg sync.WaitGroup
	errs := make(chan error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.svc.Ledger.PostPayment(s.ctx, dto.PostPaymentRequest{
				MemberID: "123", Category: "Monthly dues", Amount: decimal.NewFromInt(10), PostedDate: "2025-01-02",
			}, "admin")
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		s.Require().NoError(err)
	}

	s.requireBalance(d.EntryID, "20", domain.StatusPartial)
	m, err := s.svc.Reporting.GlobalMetrics(s.ctx, domain.EntryFilter{Kind: domain.KindPayment})
	s.Require().NoError(err)
	s.Equal(workers, m.PaymentCount)
}
