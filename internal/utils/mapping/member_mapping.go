package mapping

import (
	"database/sql"

	"github.com/SscSPs/dues_ledger/internal/core/domain"
	"github.com/SscSPs/dues_ledger/internal/models"
)

// ToModelMember converts a domain Member to a model Member
func ToModelMember(d domain.Member) models.Member {
	return models.Member{
		MemberID:     d.MemberID,
		Name:         d.Name,
		PasswordHash: sql.NullString{String: d.PasswordHash, Valid: d.PasswordHash != ""},
		IsAdmin:      d.IsAdmin,
		AuditFields:  ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainMember converts a model Member to a domain Member
func ToDomainMember(m models.Member) domain.Member {
	return domain.Member{
		MemberID:     m.MemberID,
		Name:         m.Name,
		PasswordHash: m.PasswordHash.String,
		IsAdmin:      m.IsAdmin,
		AuditFields:  ToDomainAuditFields(m.AuditFields),
	}
}

// ToDomainMemberSlice converts a slice of model Members to a slice of domain Members
func ToDomainMemberSlice(ms []models.Member) []domain.Member {
	ds := make([]domain.Member, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainMember(m)
	}
	return ds
}
