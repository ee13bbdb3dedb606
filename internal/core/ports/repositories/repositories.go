package repositories

// RepositoryProvider holds all repository interfaces needed by services.
// This makes passing dependencies to the service container constructor cleaner.
type RepositoryProvider struct {
	MemberRepo   MemberRepositoryFacade
	CategoryRepo CategoryRepositoryFacade
	LedgerRepo   LedgerRepositoryFacade
	// Pinger checks that the backing store is reachable.
	Pinger Pinger
}
