package domain

import (
	"strings"
	"time"
)

// Category labels a ledger entry (e.g. "monthly dues", "event fee").
// Categories are created on first use.
type Category struct {
	CategoryID int64     `json:"categoryID"`
	Name       string    `json:"name"`
	Recurring  bool      `json:"recurring"`
	CreatedAt  time.Time `json:"createdAt"`
}

// NormalizeCategoryName trims surrounding whitespace so "Dues " and "Dues" resolve to one category.
func NormalizeCategoryName(name string) string {
	return strings.TrimSpace(name)
}
