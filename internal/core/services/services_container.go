package services

import (
	portsrepo "github.com/SscSPs/dues_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/dues_ledger/internal/core/ports/services"
	"github.com/SscSPs/dues_ledger/internal/platform/config"
)

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider) *portssvc.ServiceContainer {
	return &portssvc.ServiceContainer{
		Member: NewMemberService(repos.MemberRepo),
		Ledger: NewLedgerService(
			repos.LedgerRepo,
			repos.CategoryRepo,
			repos.MemberRepo,
			WithConflictRetries(cfg.AllocationMaxRetries),
		),
		Reporting: NewReportingService(repos.MemberRepo, repos.LedgerRepo),
		Token:     NewTokenService(cfg),
	}
}
