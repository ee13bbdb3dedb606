package utils

import (
	"time"

	"github.com/SscSPs/dues_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// DefaultCurrencySymbol prefixes amounts in display labels.
const DefaultCurrencySymbol = "R$"

// labelDateLayout renders dates as 01-Jan-2025.
const labelDateLayout = "02-Jan-2006"

// FormatWithPrecision formats an amount with the given number of decimal places.
// Example: amount 40 with precision 2 returns "40.00"
func FormatWithPrecision(amount decimal.Decimal, precision int) string {
	return amount.StringFixed(int32(precision))
}

// FormatMoneyLabel renders an amount and a date for display.
// Example: ("R$", 40, 2025-01-01) returns "R$ 40.00 01-Jan-2025"
func FormatMoneyLabel(symbol string, amount decimal.Decimal, date time.Time) string {
	if symbol == "" {
		symbol = DefaultCurrencySymbol
	}
	return symbol + " " + FormatWithPrecision(amount, domain.AmountScale) + " " + date.Format(labelDateLayout)
}

// DebtLabel describes a debt by what is still owed on it and when it was posted.
// A nil debt yields an empty label.
func DebtLabel(symbol string, debt *domain.LedgerEntry) string {
	if debt == nil {
		return ""
	}
	return FormatMoneyLabel(symbol, debt.RemainingBalance, debt.PostedDate)
}
