package services

import (
	portsrepo "github.com/hisab-books/ledger_backend/internal/core/ports/repositories"
	portssvc "github.com/hisab-books/ledger_backend/internal/core/ports/services"
	"github.com/hisab-books/ledger_backend/internal/platform/config"
)

// NewServiceContainer creates a new service container with properly initialized dependencies.
func NewServiceContainer(cfg *config.Config, repos portsrepo.RepositoryProvider) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	container.Balance = NewBalanceService(repos.LedgerRepo)
	container.Party = NewPartyService(repos.PartyRepo, repos.LedgerRepo)
	container.Account = NewAccountService(repos.AccountRepo, repos.LedgerRepo)
	container.Invoice = NewInvoiceService(repos.InvoiceRepo, repos.PartyRepo, repos.PaymentRepo, repos.LedgerRepo, repos.SequenceRepo, cfg.BusinessStateCode)
	container.Payment = NewPaymentService(
		repos.PaymentRepo,
		repos.PartyRepo,
		repos.AccountRepo,
		repos.InvoiceRepo,
		repos.LedgerRepo,
		repos.SequenceRepo,
		cfg.StrictEditValidation,
	)
	container.Reporting = NewReportingService(repos.ReportingRepo)
	container.User = NewUserService(repos.UserRepo)
	container.Token = NewTokenService(cfg)

	return container
}
