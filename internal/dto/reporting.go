package dto

import (
	"time"

	"github.com/SscSPs/dues_ledger/internal/core/domain"
	"github.com/SscSPs/dues_ledger/internal/utils"
	"github.com/shopspring/decimal"
)

// MemberSummaryResponse is the balance view of one member.
type MemberSummaryResponse struct {
	MemberID              string          `json:"memberID"`
	MemberName            string          `json:"memberName"`
	TotalOutstanding      decimal.Decimal `json:"totalOutstanding" swaggertype:"string"`
	TotalDebited          decimal.Decimal `json:"totalDebited" swaggertype:"string"`
	TotalPaid             decimal.Decimal `json:"totalPaid" swaggertype:"string"`
	LargestPayment        decimal.Decimal `json:"largestPayment" swaggertype:"string"`
	OutstandingCount      int             `json:"outstandingCount"`
	OldestOutstandingDebt *EntryResponse  `json:"oldestOutstandingDebt,omitempty"`
	// OldestOutstandingLabel renders the oldest debt as e.g. "R$ 40.00 01-Jan-2025".
	OldestOutstandingLabel string `json:"oldestOutstandingLabel,omitempty"`

	// OutstandingByCategory maps category names to their unpaid remainder.
	OutstandingByCategory map[string]decimal.Decimal `json:"outstandingByCategory" swaggertype:"object,string"`
}

// ToMemberSummaryResponse converts a domain.MemberSummary to its response DTO.
func ToMemberSummaryResponse(s *domain.MemberSummary, today time.Time) MemberSummaryResponse {
	resp := MemberSummaryResponse{
		MemberID:              s.MemberID,
		MemberName:            s.MemberName,
		TotalOutstanding:      s.TotalOutstanding,
		TotalDebited:          s.TotalDebited,
		TotalPaid:             s.TotalPaid,
		LargestPayment:        s.LargestPayment,
		OutstandingCount:      s.OutstandingCount,
		OutstandingByCategory: s.OutstandingByCategory,
	}
	if resp.OutstandingByCategory == nil {
		resp.OutstandingByCategory = map[string]decimal.Decimal{}
	}
	if s.OldestOutstandingDebt != nil {
		oldest := ToEntryResponse(s.OldestOutstandingDebt, today)
		resp.OldestOutstandingDebt = &oldest
		resp.OldestOutstandingLabel = utils.DebtLabel(utils.DefaultCurrencySymbol, s.OldestOutstandingDebt)
	}
	return resp
}

// GlobalMetricsParams defines query parameters narrowing the global metrics.
type GlobalMetricsParams struct {
	MemberID string `form:"memberID"`
	Category string `form:"category"`
	Kind     string `form:"kind"`
	From     string `form:"from"`
	To       string `form:"to"`
}

// ToFilter parses the query parameters into a domain.EntryFilter.
func (p GlobalMetricsParams) ToFilter() (domain.EntryFilter, error) {
	return ListEntriesParams{
		MemberID: p.MemberID,
		Category: p.Category,
		Kind:     p.Kind,
		From:     p.From,
		To:       p.To,
	}.ToFilter()
}

// GlobalMetricsResponse aggregates entries across members.
type GlobalMetricsResponse struct {
	TotalDebts    decimal.Decimal `json:"totalDebts" swaggertype:"string"`
	TotalPayments decimal.Decimal `json:"totalPayments" swaggertype:"string"`
	MaxDebt       decimal.Decimal `json:"maxDebt" swaggertype:"string"`
	MaxPayment    decimal.Decimal `json:"maxPayment" swaggertype:"string"`
	DebtCount     int             `json:"debtCount"`
	PaymentCount  int             `json:"paymentCount"`
}

// ToGlobalMetricsResponse converts domain.GlobalMetrics to its response DTO.
func ToGlobalMetricsResponse(m *domain.GlobalMetrics) GlobalMetricsResponse {
	return GlobalMetricsResponse{
		TotalDebts:    m.TotalDebts,
		TotalPayments: m.TotalPayments,
		MaxDebt:       m.MaxDebt,
		MaxPayment:    m.MaxPayment,
		DebtCount:     m.DebtCount,
		PaymentCount:  m.PaymentCount,
	}
}
