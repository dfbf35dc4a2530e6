package repositories

// RepositoryProvider holds all repository interfaces needed by services.
// This makes passing dependencies to the service container constructor cleaner.
type RepositoryProvider struct {
	PartyRepo     PartyRepositoryFacade
	AccountRepo   AccountRepositoryFacade
	InvoiceRepo   InvoiceRepositoryFacade
	PaymentRepo   PaymentRepositoryFacade
	LedgerRepo    LedgerReader
	SequenceRepo  SequenceRepository
	UserRepo      UserRepositoryFacade
	ReportingRepo ReportingRepository
}
