package services

import (
	"context"

	"github.com/hisab-books/ledger_backend/internal/core/domain"
	"github.com/hisab-books/ledger_backend/internal/dto"
)

// InvoiceSvcFacade defines operations on sales/purchase invoices.
type InvoiceSvcFacade interface {
	// CreateInvoice computes GST per line, assigns a document number and
	// persists the invoice with balance_amount = total_amount.
	CreateInvoice(ctx context.Context, req dto.CreateInvoiceRequest, userID string) (*domain.Invoice, error)

	// GetInvoiceByID retrieves an invoice with its line items.
	GetInvoiceByID(ctx context.Context, invoiceID string) (*domain.Invoice, error)

	// ListInvoices retrieves a paginated invoice list of the given kind.
	ListInvoices(ctx context.Context, kind domain.InvoiceKind, params dto.ListInvoicesParams) (*dto.ListInvoicesResponse, error)

	// CancelInvoice marks an invoice cancelled, excluding it from aggregates.
	// Invoices with live payment allocations are rejected with a conflict error.
	CancelInvoice(ctx context.Context, invoiceID string, userID string) error

	// DeleteInvoice soft-deletes an invoice under the same constraint as CancelInvoice.
	DeleteInvoice(ctx context.Context, invoiceID string, userID string) error
}
