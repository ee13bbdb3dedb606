package services_test

import (
	"context"

	"github.com/SscSPs/dues_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/dues_ledger/internal/core/ports/repositories"
	"github.com/stretchr/testify/mock"
)

// --- Mock MemberRepository ---
type MockMemberRepository struct {
	mock.Mock
}

func (m *MockMemberRepository) FindMemberByID(ctx context.Context, memberID string) (*domain.Member, error) {
	args := m.Called(ctx, memberID)
	var member *domain.Member
	if args.Get(0) != nil {
		member = args.Get(0).(*domain.Member)
	}
	return member, args.Error(1)
}

func (m *MockMemberRepository) ListMembers(ctx context.Context, limit int, offset int) ([]domain.Member, error) {
	args := m.Called(ctx, limit, offset)
	var members []domain.Member
	if args.Get(0) != nil {
		members = args.Get(0).([]domain.Member)
	}
	return members, args.Error(1)
}

func (m *MockMemberRepository) SaveMember(ctx context.Context, member domain.Member) error {
	args := m.Called(ctx, member)
	return args.Error(0)
}

func (m *MockMemberRepository) UpdateMember(ctx context.Context, member domain.Member) error {
	args := m.Called(ctx, member)
	return args.Error(0)
}

func (m *MockMemberRepository) DeleteMember(ctx context.Context, memberID string) (bool, error) {
	args := m.Called(ctx, memberID)
	return args.Bool(0), args.Error(1)
}

// --- Mock CategoryRepository ---
type MockCategoryRepository struct {
	mock.Mock
}

func (m *MockCategoryRepository) FindCategoryByName(ctx context.Context, name string) (*domain.Category, error) {
	args := m.Called(ctx, name)
	var category *domain.Category
	if args.Get(0) != nil {
		category = args.Get(0).(*domain.Category)
	}
	return category, args.Error(1)
}

func (m *MockCategoryRepository) ListCategories(ctx context.Context) ([]domain.Category, error) {
	args := m.Called(ctx)
	var categories []domain.Category
	if args.Get(0) != nil {
		categories = args.Get(0).([]domain.Category)
	}
	return categories, args.Error(1)
}

// --- Mock LedgerRepository ---
// WithinMemberTx returns the error configured with On, or hands Tx to fn.
type MockLedgerRepository struct {
	mock.Mock
	Tx portsrepo.LedgerTx
}

func (m *MockLedgerRepository) FindEntryByID(ctx context.Context, entryID int64) (*domain.LedgerEntry, error) {
	args := m.Called(ctx, entryID)
	var entry *domain.LedgerEntry
	if args.Get(0) != nil {
		entry = args.Get(0).(*domain.LedgerEntry)
	}
	return entry, args.Error(1)
}

func (m *MockLedgerRepository) FindOutstandingDebts(ctx context.Context, memberID string) ([]domain.LedgerEntry, error) {
	args := m.Called(ctx, memberID)
	var entries []domain.LedgerEntry
	if args.Get(0) != nil {
		entries = args.Get(0).([]domain.LedgerEntry)
	}
	return entries, args.Error(1)
}

func (m *MockLedgerRepository) FindEntriesByMember(ctx context.Context, memberID string) ([]domain.LedgerEntry, error) {
	args := m.Called(ctx, memberID)
	var entries []domain.LedgerEntry
	if args.Get(0) != nil {
		entries = args.Get(0).([]domain.LedgerEntry)
	}
	return entries, args.Error(1)
}

func (m *MockLedgerRepository) FindEntries(ctx context.Context, filter domain.EntryFilter) ([]domain.LedgerEntry, error) {
	args := m.Called(ctx, filter)
	var entries []domain.LedgerEntry
	if args.Get(0) != nil {
		entries = args.Get(0).([]domain.LedgerEntry)
	}
	return entries, args.Error(1)
}

func (m *MockLedgerRepository) ListEntries(ctx context.Context, filter domain.EntryFilter, limit int, nextToken *string) ([]domain.LedgerEntry, *string, error) {
	args := m.Called(ctx, filter, limit, nextToken)
	var entries []domain.LedgerEntry
	if args.Get(0) != nil {
		entries = args.Get(0).([]domain.LedgerEntry)
	}
	var next *string
	if args.Get(1) != nil {
		next = args.Get(1).(*string)
	}
	return entries, next, args.Error(2)
}

func (m *MockLedgerRepository) DeleteEntry(ctx context.Context, entryID int64) (bool, error) {
	args := m.Called(ctx, entryID)
	return args.Bool(0), args.Error(1)
}

func (m *MockLedgerRepository) WithinMemberTx(ctx context.Context, memberID string, fn func(ctx context.Context, tx portsrepo.LedgerTx) error) error {
	args := m.Called(ctx, memberID)
	if err := args.Error(0); err != nil {
		return err
	}
	return fn(ctx, m.Tx)
}

// --- Mock LedgerTx ---
type MockLedgerTx struct {
	mock.Mock
	member domain.Member
}

func (m *MockLedgerTx) Member() domain.Member {
	return m.member
}

func (m *MockLedgerTx) ResolveCategory(ctx context.Context, name string) (*domain.Category, error) {
	args := m.Called(ctx, name)
	var category *domain.Category
	if args.Get(0) != nil {
		category = args.Get(0).(*domain.Category)
	}
	return category, args.Error(1)
}

func (m *MockLedgerTx) InsertEntry(ctx context.Context, entry domain.LedgerEntry) (*domain.LedgerEntry, error) {
	args := m.Called(ctx, entry)
	var stored *domain.LedgerEntry
	if args.Get(0) != nil {
		stored = args.Get(0).(*domain.LedgerEntry)
	}
	return stored, args.Error(1)
}

func (m *MockLedgerTx) FindOutstandingDebts(ctx context.Context, memberID string) ([]domain.LedgerEntry, error) {
	args := m.Called(ctx, memberID)
	var entries []domain.LedgerEntry
	if args.Get(0) != nil {
		entries = args.Get(0).([]domain.LedgerEntry)
	}
	return entries, args.Error(1)
}

func (m *MockLedgerTx) UpdateDebtBalance(ctx context.Context, debt domain.LedgerEntry) error {
	args := m.Called(ctx, debt)
	return args.Error(0)
}
