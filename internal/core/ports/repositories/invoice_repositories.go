package repositories

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/hisab-books/ledger_backend/internal/core/domain"
)

// ListInvoicesParams filters and pages invoice listings.
type ListInvoicesParams struct {
	PartyID         string // Optional filter
	Kind            domain.InvoiceKind
	Limit           int
	NextToken       *string
	OutstandingOnly bool // Only invoices with balance_amount > 0
}

// InvoiceReader defines read operations for invoice data.
type InvoiceReader interface {
	// FindInvoiceByID retrieves an invoice with its line items.
	FindInvoiceByID(ctx context.Context, invoiceID string) (*domain.Invoice, error)

	// FindInvoicesByIDs retrieves multiple invoices (without items) by their IDs.
	FindInvoicesByIDs(ctx context.Context, invoiceIDs []string) (map[string]domain.Invoice, error)

	// ListInvoices retrieves a paginated invoice list, newest first.
	ListInvoices(ctx context.Context, params ListInvoicesParams) ([]domain.Invoice, *string, error)

	// ListOutstandingInvoices retrieves a party's unpaid, non-cancelled,
	// non-deleted invoices of the given kind, oldest first. Auto-allocation
	// consumes them in this order.
	ListOutstandingInvoices(ctx context.Context, partyID string, kind domain.InvoiceKind) ([]domain.Invoice, error)
}

// InvoiceWriter defines write operations for invoice data. Each write moves
// what the party owes, so it carries the recomputed party balance and
// overwrites the cached value in the same transaction.
type InvoiceWriter interface {
	// SaveInvoice persists a new invoice and its line items atomically.
	SaveInvoice(ctx context.Context, invoice domain.Invoice, items []domain.InvoiceItem, partyBalance decimal.Decimal) error

	// CancelInvoice marks a non-deleted invoice cancelled.
	CancelInvoice(ctx context.Context, invoiceID string, partyID string, partyBalance decimal.Decimal, userID string, now time.Time) error

	// SoftDeleteInvoice marks an invoice deleted. Items stay in place; they
	// are only reachable through their invoice.
	SoftDeleteInvoice(ctx context.Context, invoiceID string, partyID string, partyBalance decimal.Decimal, userID string, now time.Time) error
}

// InvoiceRepositoryFacade combines all invoice repository interfaces.
type InvoiceRepositoryFacade interface {
	InvoiceReader
	InvoiceWriter
}
