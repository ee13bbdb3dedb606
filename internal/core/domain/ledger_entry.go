package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/SscSPs/dues_ledger/internal/apperrors"
	"github.com/shopspring/decimal"
)

// EntryKind distinguishes charges from receipts.
type EntryKind string

const (
	KindDebt    EntryKind = "DEBT"
	KindPayment EntryKind = "PAYMENT"
)

// ParseEntryKind accepts the kind in any letter case.
func ParseEntryKind(value string) (EntryKind, error) {
	switch EntryKind(strings.ToUpper(strings.TrimSpace(value))) {
	case KindDebt:
		return KindDebt, nil
	case KindPayment:
		return KindPayment, nil
	default:
		return "", fmt.Errorf("%w: unknown entry kind %q", apperrors.ErrValidation, value)
	}
}

// DebtStatus is the lifecycle state of a DEBT entry.
type DebtStatus string

const (
	StatusPending DebtStatus = "PENDING"
	StatusPartial DebtStatus = "PARTIAL"
	StatusPaid    DebtStatus = "PAID"
	// StatusOverdue is derived for display from the expected date. It is never stored.
	StatusOverdue DebtStatus = "OVERDUE"
)

// AmountScale is the number of decimal places amounts are accepted with.
const AmountScale = 2

// StatusFor derives the stored status of a debt from its remaining balance.
func StatusFor(remaining, amount decimal.Decimal) DebtStatus {
	switch {
	case remaining.Sign() <= 0:
		return StatusPaid
	case remaining.GreaterThanOrEqual(amount):
		return StatusPending
	default:
		return StatusPartial
	}
}

// LedgerEntry is one DEBT or PAYMENT posted against a member.
//
// Amount and PostedDate never change after posting. RemainingBalance and
// Status only carry meaning for DEBT entries; for PAYMENT entries they are
// the zero value.
type LedgerEntry struct {
	EntryID          int64           `json:"entryID"`
	MemberID         string          `json:"memberID"`
	MemberName       string          `json:"memberName,omitempty"`
	Kind             EntryKind       `json:"kind"`
	CategoryID       int64           `json:"categoryID"`
	Category         string          `json:"category"`
	Amount           decimal.Decimal `json:"amount"`
	PostedDate       time.Time       `json:"postedDate"`
	ExpectedDate     *time.Time      `json:"expectedDate,omitempty"`
	RemainingBalance decimal.Decimal `json:"remainingBalance"`
	Status           DebtStatus      `json:"status,omitempty"`
	Version          int64           `json:"version"`
	AuditFields
}

// IsDebt reports whether the entry is a DEBT.
func (e LedgerEntry) IsDebt() bool {
	return e.Kind == KindDebt
}

// IsOutstanding reports whether the entry is a DEBT with a positive remaining balance.
func (e LedgerEntry) IsOutstanding() bool {
	return e.IsDebt() && e.RemainingBalance.IsPositive()
}

// AppliedAmount is how much of a DEBT has been covered by payments so far.
func (e LedgerEntry) AppliedAmount() decimal.Decimal {
	if !e.IsDebt() {
		return decimal.Zero
	}
	return e.Amount.Sub(e.RemainingBalance)
}

// EffectiveStatus returns the status to show on the given day: an unpaid
// debt past its expected date reads as OVERDUE.
func (e LedgerEntry) EffectiveStatus(today time.Time) DebtStatus {
	if !e.IsDebt() {
		return ""
	}
	if e.Status != StatusPaid && e.ExpectedDate != nil && NormalizeDate(today).After(NormalizeDate(*e.ExpectedDate)) {
		return StatusOverdue
	}
	return e.Status
}

// ValidateAmount checks that an amount is positive and has at most two decimal places.
func ValidateAmount(amount decimal.Decimal) error {
	if msg := amountProblem(amount); msg != "" {
		return fmt.Errorf("%w: %s", apperrors.ErrValidation, msg)
	}
	return nil
}

func amountProblem(amount decimal.Decimal) string {
	if !amount.IsPositive() {
		return "amount must be greater than zero"
	}
	if !amount.Equal(amount.Round(AmountScale)) {
		return fmt.Sprintf("amount %s has more than %d decimal places", amount.String(), AmountScale)
	}
	return ""
}

// Validate checks the entry's internal consistency.
func (e LedgerEntry) Validate() error {
	var errs []error
	if strings.TrimSpace(e.MemberID) == "" {
		errs = append(errs, errors.New("member ID is required"))
	}
	if e.Kind != KindDebt && e.Kind != KindPayment {
		errs = append(errs, fmt.Errorf("invalid entry kind %q", e.Kind))
	}
	if strings.TrimSpace(e.Category) == "" {
		errs = append(errs, errors.New("category is required"))
	}
	if e.PostedDate.IsZero() {
		errs = append(errs, errors.New("posted date is required"))
	}
	if msg := amountProblem(e.Amount); msg != "" {
		errs = append(errs, errors.New(msg))
	}

	switch e.Kind {
	case KindDebt:
		if e.RemainingBalance.IsNegative() {
			errs = append(errs, errors.New("remaining balance cannot be negative"))
		}
		if e.RemainingBalance.GreaterThan(e.Amount) {
			errs = append(errs, errors.New("remaining balance cannot exceed the amount"))
		}
		if e.Status != StatusFor(e.RemainingBalance, e.Amount) {
			errs = append(errs, fmt.Errorf("status %q does not match remaining balance %s of %s", e.Status, e.RemainingBalance, e.Amount))
		}
	case KindPayment:
		if e.ExpectedDate != nil {
			errs = append(errs, errors.New("expected date only applies to debts"))
		}
		if !e.RemainingBalance.IsZero() || e.Status != "" {
			errs = append(errs, errors.New("payments carry no remaining balance or status"))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", apperrors.ErrValidation, errors.Join(errs...))
	}
	return nil
}

// NewDebt builds a freshly posted DEBT: nothing applied yet.
func NewDebt(memberID, category string, amount decimal.Decimal, postedDate time.Time, expectedDate *time.Time) LedgerEntry {
	var expected *time.Time
	if expectedDate != nil {
		d := NormalizeDate(*expectedDate)
		expected = &d
	}
	return LedgerEntry{
		MemberID:         memberID,
		Kind:             KindDebt,
		Category:         NormalizeCategoryName(category),
		Amount:           amount,
		PostedDate:       NormalizeDate(postedDate),
		ExpectedDate:     expected,
		RemainingBalance: amount,
		Status:           StatusPending,
	}
}

// NewPayment builds a PAYMENT entry.
func NewPayment(memberID, category string, amount decimal.Decimal, postedDate time.Time) LedgerEntry {
	return LedgerEntry{
		MemberID:   memberID,
		Kind:       KindPayment,
		Category:   NormalizeCategoryName(category),
		Amount:     amount,
		PostedDate: NormalizeDate(postedDate),
	}
}
