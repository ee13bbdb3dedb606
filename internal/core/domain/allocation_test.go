package domain_test

import (
	"testing"
	"time"

	"github.com/SscSPs/dues_ledger/internal/apperrors"
	"github.com/SscSPs/dues_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func debt(id int64, amount, remaining string, posted time.Time) domain.LedgerEntry {
	amt := dec(amount)
	rem := dec(remaining)
	return domain.LedgerEntry{
		EntryID:          id,
		MemberID:         "12345678900",
		Kind:             domain.KindDebt,
		Category:         "Dues",
		Amount:           amt,
		PostedDate:       posted,
		RemainingBalance: rem,
		Status:           domain.StatusFor(rem, amt),
		AuditFields:      domain.AuditFields{CreatedAt: posted.Add(time.Duration(id) * time.Second)},
	}
}

func TestAllocatePayment_OldestFirst(t *testing.T) {
	d1 := debt(1, "100", "100", day(2025, 1, 1))
	d2 := debt(2, "50", "50", day(2025, 1, 10))

	// Newest first on input; allocation must still start with the oldest.
	result, err := domain.AllocatePayment([]domain.LedgerEntry{d2, d1}, dec("60"))
	require.NoError(t, err)

	require.Len(t, result.Allocations, 1)
	got := result.Allocations[0]
	assert.Equal(t, int64(1), got.Debt.EntryID)
	assert.True(t, dec("100").Equal(got.BalanceBefore))
	assert.True(t, dec("60").Equal(got.Applied))
	assert.True(t, dec("40").Equal(got.Debt.RemainingBalance))
	assert.Equal(t, domain.StatusPartial, got.Debt.Status)
	assert.True(t, result.Surplus.IsZero())
	assert.True(t, dec("60").Equal(result.TotalApplied))
}

func TestAllocatePayment_ExactCoverageSpillsIntoNextDebt(t *testing.T) {
	d1 := debt(1, "100", "40", day(2025, 1, 1))
	d2 := debt(2, "50", "50", day(2025, 1, 10))

	result, err := domain.AllocatePayment([]domain.LedgerEntry{d1, d2}, dec("60"))
	require.NoError(t, err)

	mutated := result.MutatedDebts()
	require.Len(t, mutated, 2)
	assert.True(t, mutated[0].RemainingBalance.IsZero())
	assert.Equal(t, domain.StatusPaid, mutated[0].Status)
	assert.True(t, dec("30").Equal(mutated[1].RemainingBalance))
	assert.Equal(t, domain.StatusPartial, mutated[1].Status)
	assert.True(t, result.Surplus.IsZero())
}

func TestAllocatePayment_SurplusIsNotAllocated(t *testing.T) {
	d1 := debt(1, "30", "30", day(2025, 1, 1))

	result, err := domain.AllocatePayment([]domain.LedgerEntry{d1}, dec("50.25"))
	require.NoError(t, err)

	require.Len(t, result.Allocations, 1)
	assert.Equal(t, domain.StatusPaid, result.Allocations[0].Debt.Status)
	assert.True(t, dec("30").Equal(result.TotalApplied))
	assert.True(t, dec("20.25").Equal(result.Surplus))
}

func TestAllocatePayment_NoOutstandingDebts(t *testing.T) {
	result, err := domain.AllocatePayment(nil, dec("10"))
	require.NoError(t, err)

	assert.Empty(t, result.Allocations)
	assert.NotNil(t, result.Allocations)
	assert.True(t, result.TotalApplied.IsZero())
	assert.True(t, dec("10").Equal(result.Surplus))
}

func TestAllocatePayment_TieBreakOnCreatedAtThenID(t *testing.T) {
	posted := day(2025, 3, 1)
	created := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

	late := debt(5, "10", "10", posted)
	late.CreatedAt = created.Add(time.Minute)
	earlyHighID := debt(9, "10", "10", posted)
	earlyHighID.CreatedAt = created
	earlyLowID := debt(3, "10", "10", posted)
	earlyLowID.CreatedAt = created

	for i := 0; i < 5; i++ {
		result, err := domain.AllocatePayment([]domain.LedgerEntry{late, earlyHighID, earlyLowID}, dec("15"))
		require.NoError(t, err)
		require.Len(t, result.Allocations, 2)
		assert.Equal(t, int64(3), result.Allocations[0].Debt.EntryID)
		assert.Equal(t, domain.StatusPaid, result.Allocations[0].Debt.Status)
		assert.Equal(t, int64(9), result.Allocations[1].Debt.EntryID)
		assert.Equal(t, domain.StatusPartial, result.Allocations[1].Debt.Status)
	}
}

func TestAllocatePayment_SkipsSettledDebtsAndLeavesInputUntouched(t *testing.T) {
	paid := debt(1, "20", "0", day(2025, 1, 1))
	open := debt(2, "20", "20", day(2025, 1, 2))
	input := []domain.LedgerEntry{open, paid}

	result, err := domain.AllocatePayment(input, dec("5"))
	require.NoError(t, err)

	require.Len(t, result.Allocations, 1)
	assert.Equal(t, int64(2), result.Allocations[0].Debt.EntryID)
	assert.True(t, dec("20").Equal(input[0].RemainingBalance), "input slice must not be mutated")
	assert.Equal(t, int64(2), input[0].EntryID, "input order must not change")
}

func TestAllocatePayment_InvalidAmount(t *testing.T) {
	d1 := debt(1, "10", "10", day(2025, 1, 1))

	for _, amount := range []string{"0", "-5", "1.005"} {
		t.Run(amount, func(t *testing.T) {
			_, err := domain.AllocatePayment([]domain.LedgerEntry{d1}, dec(amount))
			assert.ErrorIs(t, err, apperrors.ErrValidation)
		})
	}
}

func TestAllocatePayment_RejectsPaymentEntries(t *testing.T) {
	payment := domain.NewPayment("12345678900", "Dues", dec("10"), day(2025, 1, 1))

	_, err := domain.AllocatePayment([]domain.LedgerEntry{payment}, dec("5"))
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestAllocatePayment_ConservesMoney(t *testing.T) {
	debts := []domain.LedgerEntry{
		debt(1, "12.50", "12.50", day(2025, 1, 1)),
		debt(2, "7.30", "3.10", day(2025, 1, 5)),
		debt(3, "40", "40", day(2025, 2, 1)),
	}
	for _, amount := range []string{"0.01", "3.10", "15.60", "55.60", "100"} {
		t.Run(amount, func(t *testing.T) {
			pay := dec(amount)
			result, err := domain.AllocatePayment(debts, pay)
			require.NoError(t, err)

			sumApplied := decimal.Zero
			for _, a := range result.Allocations {
				sumApplied = sumApplied.Add(a.Applied)
				assert.True(t, a.BalanceBefore.Sub(a.Applied).Equal(a.Debt.RemainingBalance))
				assert.False(t, a.Debt.RemainingBalance.IsNegative())
				assert.NoError(t, a.Debt.Validate())
			}
			assert.True(t, sumApplied.Equal(result.TotalApplied))
			assert.True(t, result.TotalApplied.Add(result.Surplus).Equal(pay))
			assert.True(t, result.TotalApplied.LessThanOrEqual(pay))
		})
	}
}

func TestSortAllocationOrder(t *testing.T) {
	a := debt(3, "1", "1", day(2025, 1, 2))
	b := debt(1, "1", "1", day(2025, 1, 3))
	c := debt(2, "1", "1", day(2025, 1, 1))

	sorted := domain.SortAllocationOrder([]domain.LedgerEntry{a, b, c})

	ids := []int64{sorted[0].EntryID, sorted[1].EntryID, sorted[2].EntryID}
	assert.Equal(t, []int64{2, 3, 1}, ids)
}
