package dto

import (
	"time"

	"github.com/SscSPs/dues_ledger/internal/core/domain"
)

// CreateMemberRequest defines the data needed to register a member.
type CreateMemberRequest struct {
	MemberID string `json:"memberID" binding:"required,max=64"`
	Name     string `json:"name" binding:"required,max=255"`
	// Password is optional; members without one cannot log in.
	Password *string `json:"password,omitempty" binding:"omitempty,min=6,max=72"`
	IsAdmin  bool    `json:"isAdmin"`
}

// UpdateMemberRequest defines the data allowed for updating a member.
// Using pointers to differentiate between omitted fields and zero-value fields.
type UpdateMemberRequest struct {
	Name     *string `json:"name,omitempty" binding:"omitempty,min=1,max=255"`
	Password *string `json:"password,omitempty" binding:"omitempty,min=6,max=72"`
	IsAdmin  *bool   `json:"isAdmin,omitempty"`
}

// ListMembersParams defines query parameters for listing members.
type ListMembersParams struct {
	Limit  int `form:"limit,default=20" binding:"min=0,max=200"`
	Offset int `form:"offset,default=0" binding:"min=0"`
}

// MemberResponse is the public view of a member. The credential hash never leaves the service.
type MemberResponse struct {
	MemberID      string    `json:"memberID"`
	Name          string    `json:"name"`
	IsAdmin       bool      `json:"isAdmin"`
	CanLogin      bool      `json:"canLogin"`
	CreatedAt     time.Time `json:"createdAt"`
	LastUpdatedAt time.Time `json:"lastUpdatedAt"`
}

// ListMembersResponse wraps the list of members.
type ListMembersResponse struct {
	Members []MemberResponse `json:"members"`
}

// ToMemberResponse converts a domain.Member to MemberResponse DTO.
func ToMemberResponse(m *domain.Member) MemberResponse {
	return MemberResponse{
		MemberID:      m.MemberID,
		Name:          m.Name,
		IsAdmin:       m.IsAdmin,
		CanLogin:      m.HasPassword(),
		CreatedAt:     m.CreatedAt,
		LastUpdatedAt: m.LastUpdatedAt,
	}
}

// ToListMembersResponse converts a slice of domain.Member to ListMembersResponse DTO.
func ToListMembersResponse(members []domain.Member) ListMembersResponse {
	responses := make([]MemberResponse, len(members))
	for i := range members {
		responses[i] = ToMemberResponse(&members[i])
	}
	return ListMembersResponse{Members: responses}
}
