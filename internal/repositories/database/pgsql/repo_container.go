package pgsql

import (
	portsrepo "github.com/hisab-books/ledger_backend/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

// NewRepositoryProvider wires every pgsql repository over one shared pool.
func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		PartyRepo:     newPgxPartyRepository(dbPool),
		AccountRepo:   newPgxAccountRepository(dbPool),
		InvoiceRepo:   newPgxInvoiceRepository(dbPool),
		PaymentRepo:   newPgxPaymentRepository(dbPool),
		LedgerRepo:    newPgxLedgerRepository(dbPool),
		SequenceRepo:  newPgxSequenceRepository(dbPool),
		UserRepo:      newPgxUserRepository(dbPool),
		ReportingRepo: newReportingRepository(dbPool),
	}
}
