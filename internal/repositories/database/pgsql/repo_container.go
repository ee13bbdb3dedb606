package pgsql

import (
	portsrepo "github.com/SscSPs/dues_ledger/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	memberRepo := newPgxMemberRepository(dbPool)
	categoryRepo := newPgxCategoryRepository(dbPool)
	ledgerRepo := newPgxLedgerRepository(dbPool)

	return portsrepo.RepositoryProvider{
		MemberRepo:   memberRepo,
		CategoryRepo: categoryRepo,
		LedgerRepo:   ledgerRepo,
		Pinger:       &BaseRepository{Pool: dbPool},
	}
}
