package domain

import (
	"fmt"
	"sort"

	"github.com/SscSPs/dues_ledger/internal/apperrors"
	"github.com/shopspring/decimal"
)

// AllocationOrderLess orders debts oldest first: by posted date, then
// creation time, then entry ID.
func AllocationOrderLess(a, b LedgerEntry) bool {
	if !a.PostedDate.Equal(b.PostedDate) {
		return a.PostedDate.Before(b.PostedDate)
	}
	if !a.CreatedAt.Equal(b.CreatedAt) {
		return a.CreatedAt.Before(b.CreatedAt)
	}
	return a.EntryID < b.EntryID
}

// SortAllocationOrder returns a copy of entries sorted by AllocationOrderLess.
func SortAllocationOrder(entries []LedgerEntry) []LedgerEntry {
	sorted := make([]LedgerEntry, len(entries))
	copy(sorted, entries)
	sort.SliceStable(sorted, func(i, j int) bool {
		return AllocationOrderLess(sorted[i], sorted[j])
	})
	return sorted
}

// DebtAllocation records how much of a payment went to one debt.
// Debt holds the state after the allocation.
type DebtAllocation struct {
	Debt          LedgerEntry
	BalanceBefore decimal.Decimal
	Applied       decimal.Decimal
}

// AllocationResult is the outcome of walking a payment over outstanding debts.
type AllocationResult struct {
	Allocations  []DebtAllocation
	TotalApplied decimal.Decimal
	// Surplus is the part of the payment no debt could absorb. It is not carried forward.
	Surplus decimal.Decimal
}

// MutatedDebts returns the debts touched by the allocation, in allocation order.
func (r AllocationResult) MutatedDebts() []LedgerEntry {
	debts := make([]LedgerEntry, len(r.Allocations))
	for i, a := range r.Allocations {
		debts[i] = a.Debt
	}
	return debts
}

// AllocatePayment applies amount to the outstanding debts oldest first.
// Each debt takes min(its remaining balance, what is left of the payment)
// and gets its status recomputed. Debts that are already settled are
// skipped. The input slice is not modified.
func AllocatePayment(outstanding []LedgerEntry, amount decimal.Decimal) (AllocationResult, error) {
	if err := ValidateAmount(amount); err != nil {
		return AllocationResult{}, err
	}

	result := AllocationResult{
		Allocations:  []DebtAllocation{},
		TotalApplied: decimal.Zero,
	}
	left := amount
	for _, debt := range SortAllocationOrder(outstanding) {
		if !left.IsPositive() {
			break
		}
		if !debt.IsDebt() {
			return AllocationResult{}, fmt.Errorf("%w: entry %d is a %s, not a debt", apperrors.ErrValidation, debt.EntryID, debt.Kind)
		}
		if !debt.IsOutstanding() {
			continue
		}

		before := debt.RemainingBalance
		applied := decimal.Min(before, left)
		debt.RemainingBalance = before.Sub(applied)
		debt.Status = StatusFor(debt.RemainingBalance, debt.Amount)
		left = left.Sub(applied)

		result.Allocations = append(result.Allocations, DebtAllocation{
			Debt:          debt,
			BalanceBefore: before,
			Applied:       applied,
		})
		result.TotalApplied = result.TotalApplied.Add(applied)
	}
	result.Surplus = left
	return result, nil
}

// PaymentPosting is the result of posting a payment: the stored PAYMENT
// entry and the debts whose balances it reduced.
type PaymentPosting struct {
	Payment      LedgerEntry     `json:"payment"`
	MutatedDebts []LedgerEntry   `json:"mutatedDebts"`
	Applied      decimal.Decimal `json:"applied"`
	Surplus      decimal.Decimal `json:"surplus"`
}
