package handlers_test

import (
	"context"
	"time"

	"github.com/SscSPs/dues_ledger/internal/core/domain"
	portssvc "github.com/SscSPs/dues_ledger/internal/core/ports/services"
	"github.com/SscSPs/dues_ledger/internal/dto"
	"github.com/stretchr/testify/mock"
)

// --- Mock MemberService ---
type MockMemberService struct {
	mock.Mock
}

func (m *MockMemberService) GetMemberByID(ctx context.Context, memberID string) (*domain.Member, error) {
	args := m.Called(ctx, memberID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Member), args.Error(1)
}

func (m *MockMemberService) ListMembers(ctx context.Context, limit, offset int) ([]domain.Member, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Member), args.Error(1)
}

func (m *MockMemberService) CreateMember(ctx context.Context, req dto.CreateMemberRequest, creatorMemberID string) (*domain.Member, error) {
	args := m.Called(ctx, req, creatorMemberID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Member), args.Error(1)
}

func (m *MockMemberService) UpdateMember(ctx context.Context, memberID string, req dto.UpdateMemberRequest, requestingMemberID string) (*domain.Member, error) {
	args := m.Called(ctx, memberID, req, requestingMemberID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Member), args.Error(1)
}

func (m *MockMemberService) DeleteMember(ctx context.Context, memberID string, requestingMemberID string) error {
	args := m.Called(ctx, memberID, requestingMemberID)
	return args.Error(0)
}

func (m *MockMemberService) AuthenticateMember(ctx context.Context, memberID, password string) (*domain.Member, error) {
	args := m.Called(ctx, memberID, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Member), args.Error(1)
}

func (m *MockMemberService) SetInitialPassword(ctx context.Context, memberID, password string) (*domain.Member, error) {
	args := m.Called(ctx, memberID, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Member), args.Error(1)
}

// Ensure mock implements the interface
var _ portssvc.MemberSvcFacade = (*MockMemberService)(nil)

// --- Mock LedgerService ---
type MockLedgerService struct {
	mock.Mock
}

func (m *MockLedgerService) PostDebt(ctx context.Context, req dto.PostDebtRequest, creatorMemberID string) (*domain.LedgerEntry, error) {
	args := m.Called(ctx, req, creatorMemberID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LedgerEntry), args.Error(1)
}

func (m *MockLedgerService) PostPayment(ctx context.Context, req dto.PostPaymentRequest, creatorMemberID string) (*domain.PaymentPosting, error) {
	args := m.Called(ctx, req, creatorMemberID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PaymentPosting), args.Error(1)
}

func (m *MockLedgerService) DeleteEntry(ctx context.Context, entryID int64, requestingMemberID string) error {
	args := m.Called(ctx, entryID, requestingMemberID)
	return args.Error(0)
}

func (m *MockLedgerService) GetEntryByID(ctx context.Context, entryID int64) (*domain.LedgerEntry, error) {
	args := m.Called(ctx, entryID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LedgerEntry), args.Error(1)
}

func (m *MockLedgerService) ListOutstanding(ctx context.Context, memberID string) ([]domain.LedgerEntry, error) {
	args := m.Called(ctx, memberID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.LedgerEntry), args.Error(1)
}

func (m *MockLedgerService) ListEntries(ctx context.Context, filter domain.EntryFilter, limit int, nextToken *string) ([]domain.LedgerEntry, *string, error) {
	args := m.Called(ctx, filter, limit, nextToken)
	var next *string
	if args.Get(1) != nil {
		next = args.Get(1).(*string)
	}
	if args.Get(0) == nil {
		return nil, next, args.Error(2)
	}
	return args.Get(0).([]domain.LedgerEntry), next, args.Error(2)
}

func (m *MockLedgerService) ListCategories(ctx context.Context) ([]domain.Category, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Category), args.Error(1)
}

var _ portssvc.LedgerSvcFacade = (*MockLedgerService)(nil)

// --- Mock ReportingService ---
type MockReportingService struct {
	mock.Mock
}

func (m *MockReportingService) MemberSummary(ctx context.Context, memberID string) (*domain.MemberSummary, error) {
	args := m.Called(ctx, memberID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.MemberSummary), args.Error(1)
}

func (m *MockReportingService) GlobalMetrics(ctx context.Context, filter domain.EntryFilter) (*domain.GlobalMetrics, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.GlobalMetrics), args.Error(1)
}

var _ portssvc.ReportingService = (*MockReportingService)(nil)

// --- Mock TokenService ---
type MockTokenService struct {
	mock.Mock
}

func (m *MockTokenService) GenerateAccessToken(ctx context.Context, member *domain.Member) (string, time.Time, error) {
	args := m.Called(ctx, member)
	return args.String(0), args.Get(1).(time.Time), args.Error(2)
}

var _ portssvc.TokenSvcFacade = (*MockTokenService)(nil)

// --- Mock Pinger ---
type MockPinger struct {
	mock.Mock
}

func (m *MockPinger) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
