package sqlite

import (
	"database/sql"

	portsrepo "github.com/SscSPs/dues_ledger/internal/core/ports/repositories"
)

func NewRepositoryProvider(db *sql.DB) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		MemberRepo:   newSQLiteMemberRepository(db),
		CategoryRepo: newSQLiteCategoryRepository(db),
		LedgerRepo:   newSQLiteLedgerRepository(db),
		Pinger:       &BaseRepository{DB: db},
	}
}
