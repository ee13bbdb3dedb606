package domain

// Member is a person who owes dues. MemberID is the external identifier
// (for example a national ID number) and is unique.
type Member struct {
	MemberID     string `json:"memberID"`
	Name         string `json:"name"`
	PasswordHash string `json:"-"`
	IsAdmin      bool   `json:"isAdmin"`
	AuditFields
}

// HasPassword reports whether the member can log in.
func (m Member) HasPassword() bool {
	return m.PasswordHash != ""
}
