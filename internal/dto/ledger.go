package dto

import (
	"fmt"
	"strconv"
	"time"

	"github.com/SscSPs/dues_ledger/internal/apperrors"
	"github.com/SscSPs/dues_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// PostDebtRequest defines the data needed to charge a member.
type PostDebtRequest struct {
	MemberID string          `json:"memberID" binding:"required"`
	Category string          `json:"category" binding:"required,max=120"`
	Amount   decimal.Decimal `json:"amount" binding:"required" swaggertype:"string" example:"100.00"`
	// PostedDate is YYYY-MM-DD.
	PostedDate string `json:"postedDate" binding:"required" example:"2025-01-01"`
	// ExpectedDate is the optional due date, YYYY-MM-DD.
	ExpectedDate *string `json:"expectedDate,omitempty" example:"2025-01-31"`
}

// PostPaymentRequest defines the data needed to record a payment.
type PostPaymentRequest struct {
	MemberID   string          `json:"memberID" binding:"required"`
	Category   string          `json:"category" binding:"required,max=120"`
	Amount     decimal.Decimal `json:"amount" binding:"required" swaggertype:"string" example:"50.00"`
	PostedDate string          `json:"postedDate" binding:"required" example:"2025-01-15"`
}

// ListEntriesParams defines query parameters for listing ledger entries.
type ListEntriesParams struct {
	MemberID        string  `form:"memberID"`
	Category        string  `form:"category"`
	Kind            string  `form:"kind"`
	From            string  `form:"from"`
	To              string  `form:"to"`
	Search          string  `form:"q"`
	OutstandingOnly bool    `form:"outstanding"`
	Limit           int     `form:"limit,default=20" binding:"min=0,max=200"`
	NextToken       *string `form:"nextToken"`
}

// ToFilter parses the query parameters into a domain.EntryFilter.
func (p ListEntriesParams) ToFilter() (domain.EntryFilter, error) {
	filter := domain.EntryFilter{
		MemberID:        p.MemberID,
		Category:        p.Category,
		Search:          p.Search,
		OutstandingOnly: p.OutstandingOnly,
	}
	if p.Kind != "" {
		kind, err := domain.ParseEntryKind(p.Kind)
		if err != nil {
			return domain.EntryFilter{}, err
		}
		filter.Kind = kind
	}
	from, to, err := parseRange(p.From, p.To)
	if err != nil {
		return domain.EntryFilter{}, err
	}
	filter.From, filter.To = from, to
	return filter, filter.Validate()
}

func parseRange(from, to string) (*time.Time, *time.Time, error) {
	f, err := domain.ParseOptionalDate(&from)
	if err != nil {
		return nil, nil, fmt.Errorf("from: %w", err)
	}
	t, err := domain.ParseOptionalDate(&to)
	if err != nil {
		return nil, nil, fmt.Errorf("to: %w", err)
	}
	return f, t, nil
}

// EntryResponse defines the data returned for a ledger entry.
type EntryResponse struct {
	EntryID      int64           `json:"entryID"`
	MemberID     string          `json:"memberID"`
	MemberName   string          `json:"memberName,omitempty"`
	Kind         string          `json:"kind"`
	Category     string          `json:"category"`
	Amount       decimal.Decimal `json:"amount" swaggertype:"string"`
	PostedDate   string          `json:"postedDate"`
	ExpectedDate *string         `json:"expectedDate,omitempty"`
	// RemainingBalance, AppliedAmount and Status are only set for debts.
	RemainingBalance *decimal.Decimal `json:"remainingBalance,omitempty" swaggertype:"string"`
	AppliedAmount    *decimal.Decimal `json:"appliedAmount,omitempty" swaggertype:"string"`
	Status           string           `json:"status,omitempty"`
	CreatedAt        time.Time        `json:"createdAt"`
	CreatedBy        string           `json:"createdBy"`
}

// ToEntryResponse converts a domain.LedgerEntry to EntryResponse DTO.
// Status is the effective status on the given day, so unpaid debts past their
// expected date read as OVERDUE.
func ToEntryResponse(e *domain.LedgerEntry, today time.Time) EntryResponse {
	resp := EntryResponse{
		EntryID:    e.EntryID,
		MemberID:   e.MemberID,
		MemberName: e.MemberName,
		Kind:       string(e.Kind),
		Category:   e.Category,
		Amount:     e.Amount,
		PostedDate: e.PostedDate.Format(domain.DateLayout),
		CreatedAt:  e.CreatedAt,
		CreatedBy:  e.CreatedBy,
	}
	if e.ExpectedDate != nil {
		expected := e.ExpectedDate.Format(domain.DateLayout)
		resp.ExpectedDate = &expected
	}
	if e.IsDebt() {
		remaining := e.RemainingBalance
		applied := e.AppliedAmount()
		resp.RemainingBalance = &remaining
		resp.AppliedAmount = &applied
		resp.Status = string(e.EffectiveStatus(today))
	}
	return resp
}

// ToEntryResponses converts a slice of domain.LedgerEntry to []EntryResponse.
func ToEntryResponses(entries []domain.LedgerEntry, today time.Time) []EntryResponse {
	responses := make([]EntryResponse, len(entries))
	for i := range entries {
		responses[i] = ToEntryResponse(&entries[i], today)
	}
	return responses
}

// ListEntriesResponse wraps a page of entries.
type ListEntriesResponse struct {
	Entries   []EntryResponse `json:"entries"`
	NextToken *string         `json:"nextToken,omitempty"`
}

// ListOutstandingResponse lists a member's unpaid debts oldest first.
type ListOutstandingResponse struct {
	MemberID string          `json:"memberID"`
	Debts    []EntryResponse `json:"debts"`
}

// PaymentPostingResponse is returned after a payment was allocated.
type PaymentPostingResponse struct {
	Payment      EntryResponse   `json:"payment"`
	MutatedDebts []EntryResponse `json:"mutatedDebts"`
	Applied      decimal.Decimal `json:"applied" swaggertype:"string"`
	// Surplus is the part of the payment that no debt absorbed. It is not credited anywhere.
	Surplus decimal.Decimal `json:"surplus" swaggertype:"string"`
}

// ToPaymentPostingResponse converts a domain.PaymentPosting to its response DTO.
func ToPaymentPostingResponse(p *domain.PaymentPosting, today time.Time) PaymentPostingResponse {
	return PaymentPostingResponse{
		Payment:      ToEntryResponse(&p.Payment, today),
		MutatedDebts: ToEntryResponses(p.MutatedDebts, today),
		Applied:      p.Applied,
		Surplus:      p.Surplus,
	}
}

// ParseEntryID parses a path parameter into an entry ID.
func ParseEntryID(value string) (int64, error) {
	id, err := strconv.ParseInt(value, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: invalid entry ID %q", apperrors.ErrValidation, value)
	}
	return id, nil
}
