package models

import (
	"database/sql"
	"time"

	"github.com/shopspring/decimal"
)

// EntryKind is the stored kind of a ledger entry.
type EntryKind string

const (
	Debt    EntryKind = "DEBT"
	Payment EntryKind = "PAYMENT"
)

// LedgerEntry is the row shape of ledger_entries, joined with the member
// name and category label. remaining_balance and status are NULL for payments.
type LedgerEntry struct {
	EntryID          int64               `db:"entry_id"`
	MemberID         string              `db:"member_id"`
	MemberName       string              `db:"member_name"`
	Kind             EntryKind           `db:"kind"`
	CategoryID       int64               `db:"category_id"`
	CategoryName     string              `db:"category_name"`
	Amount           decimal.Decimal     `db:"amount"`
	PostedDate       time.Time           `db:"posted_date"`
	ExpectedDate     sql.NullTime        `db:"expected_date"`
	RemainingBalance decimal.NullDecimal `db:"remaining_balance"`
	Status           sql.NullString      `db:"status"`
	Version          int64               `db:"version"`
	AuditFields
}
