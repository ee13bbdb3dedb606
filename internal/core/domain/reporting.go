package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/SscSPs/dues_ledger/internal/apperrors"
	"github.com/shopspring/decimal"
)

// MemberSummary is the per-member balance view.
type MemberSummary struct {
	MemberID   string `json:"memberID"`
	MemberName string `json:"memberName"`
	// TotalOutstanding is the sum of remaining balances over the member's debts.
	TotalOutstanding decimal.Decimal `json:"totalOutstanding"`
	// TotalDebited is the sum of the original amounts of the member's debts.
	TotalDebited          decimal.Decimal `json:"totalDebited"`
	TotalPaid             decimal.Decimal `json:"totalPaid"`
	LargestPayment        decimal.Decimal `json:"largestPayment"`
	OutstandingCount      int             `json:"outstandingCount"`
	OldestOutstandingDebt *LedgerEntry    `json:"oldestOutstandingDebt,omitempty"`

	// OutstandingByCategory holds the remaining balance of outstanding debts per category name.
	OutstandingByCategory map[string]decimal.Decimal `json:"outstandingByCategory"`
}

// SummarizeMember folds a member's entries into a MemberSummary.
func SummarizeMember(member Member, entries []LedgerEntry) MemberSummary {
	summary := MemberSummary{
		MemberID:              member.MemberID,
		MemberName:            member.Name,
		TotalOutstanding:      decimal.Zero,
		TotalDebited:          decimal.Zero,
		TotalPaid:             decimal.Zero,
		LargestPayment:        decimal.Zero,
		OutstandingByCategory: make(map[string]decimal.Decimal),
	}

	for _, e := range entries {
		switch e.Kind {
		case KindDebt:
			summary.TotalDebited = summary.TotalDebited.Add(e.Amount)
			summary.TotalOutstanding = summary.TotalOutstanding.Add(e.RemainingBalance)
			if !e.IsOutstanding() {
				continue
			}
			summary.OutstandingCount++
			summary.OutstandingByCategory[e.Category] = summary.OutstandingByCategory[e.Category].Add(e.RemainingBalance)
			if summary.OldestOutstandingDebt == nil || AllocationOrderLess(e, *summary.OldestOutstandingDebt) {
				oldest := e
				summary.OldestOutstandingDebt = &oldest
			}
		case KindPayment:
			summary.TotalPaid = summary.TotalPaid.Add(e.Amount)
			if e.Amount.GreaterThan(summary.LargestPayment) {
				summary.LargestPayment = e.Amount
			}
		}
	}
	return summary
}

// EntryFilter narrows entry listings and global metrics. Zero fields do not filter.
// From and To are inclusive bounds on the posted date.
type EntryFilter struct {
	MemberID string
	Category string
	Kind     EntryKind
	From     *time.Time
	To       *time.Time
	// Search matches member ID, member name or category, case-insensitively.
	Search string
	// OutstandingOnly restricts the listing to debts with a remaining balance.
	OutstandingOnly bool
}

// Validate checks the filter bounds.
func (f EntryFilter) Validate() error {
	if f.Kind != "" && f.Kind != KindDebt && f.Kind != KindPayment {
		return fmt.Errorf("%w: unknown entry kind %q", apperrors.ErrValidation, f.Kind)
	}
	if f.From != nil && f.To != nil && f.From.After(*f.To) {
		return fmt.Errorf("%w: from date %s is after to date %s", apperrors.ErrValidation,
			f.From.Format(DateLayout), f.To.Format(DateLayout))
	}
	return nil
}

// SearchPattern returns the LIKE pattern for Search, or "" when no search is set.
func (f EntryFilter) SearchPattern() string {
	s := strings.TrimSpace(f.Search)
	if s == "" {
		return ""
	}
	return "%" + strings.ToLower(s) + "%"
}

// GlobalMetrics aggregates entries across members.
type GlobalMetrics struct {
	TotalDebts    decimal.Decimal `json:"totalDebts"`
	TotalPayments decimal.Decimal `json:"totalPayments"`
	MaxDebt       decimal.Decimal `json:"maxDebt"`
	MaxPayment    decimal.Decimal `json:"maxPayment"`
	DebtCount     int             `json:"debtCount"`
	PaymentCount  int             `json:"paymentCount"`
}

// AggregateMetrics folds entries into GlobalMetrics. Totals and maxima are
// over original amounts.
func AggregateMetrics(entries []LedgerEntry) GlobalMetrics {
	m := GlobalMetrics{
		TotalDebts:    decimal.Zero,
		TotalPayments: decimal.Zero,
		MaxDebt:       decimal.Zero,
		MaxPayment:    decimal.Zero,
	}
	for _, e := range entries {
		switch e.Kind {
		case KindDebt:
			m.DebtCount++
			m.TotalDebts = m.TotalDebts.Add(e.Amount)
			if e.Amount.GreaterThan(m.MaxDebt) {
				m.MaxDebt = e.Amount
			}
		case KindPayment:
			m.PaymentCount++
			m.TotalPayments = m.TotalPayments.Add(e.Amount)
			if e.Amount.GreaterThan(m.MaxPayment) {
				m.MaxPayment = e.Amount
			}
		}
	}
	return m
}
