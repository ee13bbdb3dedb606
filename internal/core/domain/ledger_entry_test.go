package domain_test

import (
	"testing"
	"time"

	"github.com/SscSPs/dues_ledger/internal/apperrors"
	"github.com/SscSPs/dues_ledger/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusFor(t *testing.T) {
	tests := []struct {
		name      string
		remaining string
		amount    string
		want      domain.DebtStatus
	}{
		{"untouched", "100", "100", domain.StatusPending},
		{"partially covered", "40", "100", domain.StatusPartial},
		{"one cent left", "0.01", "100", domain.StatusPartial},
		{"settled", "0", "100", domain.StatusPaid},
		{"scale difference still pending", "100.00", "100", domain.StatusPending},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, domain.StatusFor(dec(tt.remaining), dec(tt.amount)))
		})
	}
}

func TestLedgerEntry_Validate(t *testing.T) {
	posted := day(2025, 1, 1)
	expected := day(2025, 1, 31)

	tests := []struct {
		name    string
		entry   domain.LedgerEntry
		wantErr bool
	}{
		{
			name:  "new debt",
			entry: domain.NewDebt("123", "Dues", dec("100"), posted, &expected),
		},
		{
			name:  "new payment",
			entry: domain.NewPayment("123", "Dues", dec("60"), posted),
		},
		{
			name: "partial debt",
			entry: func() domain.LedgerEntry {
				e := domain.NewDebt("123", "Dues", dec("100"), posted, nil)
				e.RemainingBalance = dec("40")
				e.Status = domain.StatusPartial
				return e
			}(),
		},
		{
			name:    "missing member",
			entry:   domain.NewDebt("", "Dues", dec("10"), posted, nil),
			wantErr: true,
		},
		{
			name:    "blank category",
			entry:   domain.NewDebt("123", "   ", dec("10"), posted, nil),
			wantErr: true,
		},
		{
			name:    "zero amount",
			entry:   domain.NewDebt("123", "Dues", dec("0"), posted, nil),
			wantErr: true,
		},
		{
			name:    "missing posted date",
			entry:   domain.NewPayment("123", "Dues", dec("10"), time.Time{}),
			wantErr: true,
		},
		{
			name: "remaining above amount",
			entry: func() domain.LedgerEntry {
				e := domain.NewDebt("123", "Dues", dec("10"), posted, nil)
				e.RemainingBalance = dec("11")
				return e
			}(),
			wantErr: true,
		},
		{
			name: "status out of sync",
			entry: func() domain.LedgerEntry {
				e := domain.NewDebt("123", "Dues", dec("10"), posted, nil)
				e.RemainingBalance = dec("0")
				return e
			}(),
			wantErr: true,
		},
		{
			name: "payment with expected date",
			entry: func() domain.LedgerEntry {
				e := domain.NewPayment("123", "Dues", dec("10"), posted)
				e.ExpectedDate = &expected
				return e
			}(),
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.entry.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, apperrors.ErrValidation)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestLedgerEntry_EffectiveStatus(t *testing.T) {
	expected := day(2025, 1, 31)
	d := domain.NewDebt("123", "Dues", dec("100"), day(2025, 1, 1), &expected)

	assert.Equal(t, domain.StatusPending, d.EffectiveStatus(day(2025, 1, 31)))
	assert.Equal(t, domain.StatusOverdue, d.EffectiveStatus(day(2025, 2, 1)))

	d.RemainingBalance = dec("0")
	d.Status = domain.StatusPaid
	assert.Equal(t, domain.StatusPaid, d.EffectiveStatus(day(2025, 2, 1)))

	noExpected := domain.NewDebt("123", "Dues", dec("100"), day(2025, 1, 1), nil)
	assert.Equal(t, domain.StatusPending, noExpected.EffectiveStatus(day(2030, 1, 1)))

	payment := domain.NewPayment("123", "Dues", dec("1"), day(2025, 1, 1))
	assert.Equal(t, domain.DebtStatus(""), payment.EffectiveStatus(day(2030, 1, 1)))
}

func TestParseDate(t *testing.T) {
	got, err := domain.ParseDate("2025-01-10")
	require.NoError(t, err)
	assert.Equal(t, day(2025, 1, 10), got)

	_, err = domain.ParseDate("")
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	_, err = domain.ParseDate("10/01/2025")
	assert.ErrorIs(t, err, apperrors.ErrValidation)

	blank := " "
	opt, err := domain.ParseOptionalDate(&blank)
	require.NoError(t, err)
	assert.Nil(t, opt)
}

func TestParseEntryKind(t *testing.T) {
	kind, err := domain.ParseEntryKind("payment")
	require.NoError(t, err)
	assert.Equal(t, domain.KindPayment, kind)

	_, err = domain.ParseEntryKind("refund")
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}
