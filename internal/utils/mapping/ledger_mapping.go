package mapping

import (
	"database/sql"

	"github.com/SscSPs/dues_ledger/internal/core/domain"
	"github.com/SscSPs/dues_ledger/internal/models"
	"github.com/shopspring/decimal"
)

// ToModelLedgerEntry converts a domain LedgerEntry to a model LedgerEntry.
// Balance and status are only carried for debts.
func ToModelLedgerEntry(d domain.LedgerEntry) models.LedgerEntry {
	m := models.LedgerEntry{
		EntryID:      d.EntryID,
		MemberID:     d.MemberID,
		MemberName:   d.MemberName,
		Kind:         models.EntryKind(d.Kind),
		CategoryID:   d.CategoryID,
		CategoryName: d.Category,
		Amount:       d.Amount,
		PostedDate:   domain.NormalizeDate(d.PostedDate),
		Version:      d.Version,
		AuditFields:  ToModelAuditFields(d.AuditFields),
	}
	if d.ExpectedDate != nil {
		m.ExpectedDate = sql.NullTime{Time: domain.NormalizeDate(*d.ExpectedDate), Valid: true}
	}
	if d.Kind == domain.KindDebt {
		m.RemainingBalance = decimal.NewNullDecimal(d.RemainingBalance)
		m.Status = sql.NullString{String: string(d.Status), Valid: true}
	}
	return m
}

// ToDomainLedgerEntry converts a model LedgerEntry to a domain LedgerEntry
func ToDomainLedgerEntry(m models.LedgerEntry) domain.LedgerEntry {
	d := domain.LedgerEntry{
		EntryID:     m.EntryID,
		MemberID:    m.MemberID,
		MemberName:  m.MemberName,
		Kind:        domain.EntryKind(m.Kind),
		CategoryID:  m.CategoryID,
		Category:    m.CategoryName,
		Amount:      m.Amount,
		PostedDate:  domain.NormalizeDate(m.PostedDate),
		Version:     m.Version,
		AuditFields: ToDomainAuditFields(m.AuditFields),
	}
	if m.ExpectedDate.Valid {
		expected := domain.NormalizeDate(m.ExpectedDate.Time)
		d.ExpectedDate = &expected
	}
	if m.RemainingBalance.Valid {
		d.RemainingBalance = m.RemainingBalance.Decimal
	}
	if m.Status.Valid {
		d.Status = domain.DebtStatus(m.Status.String)
	}
	return d
}

// ToDomainLedgerEntrySlice converts a slice of model LedgerEntries to a slice of domain LedgerEntries
func ToDomainLedgerEntrySlice(ms []models.LedgerEntry) []domain.LedgerEntry {
	ds := make([]domain.LedgerEntry, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainLedgerEntry(m)
	}
	return ds
}
