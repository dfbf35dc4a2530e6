package repositories

import (
	"context"

	"github.com/hisab-books/ledger_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// ListPaymentsParams filters and pages payment listings.
type ListPaymentsParams struct {
	PartyID   string // Optional filter
	AccountID string // Optional filter
	Limit     int
	NextToken *string
}

// PaymentReconciliationRecord is the unit of work a payment mutation commits
// atomically: the payment and its allocations, the audit rows, the invoice
// balance changes, and the recomputed cached balances. The repository applies
// the whole record in one database transaction or not at all.
type PaymentReconciliationRecord struct {
	Payment             domain.Payment
	Allocations         []domain.PaymentAllocation
	PartyTransaction    domain.PaymentTransaction
	AccountTransactions []domain.AccountTransaction

	// InvoiceDeltas adjusts invoice balance_amount per invoice id
	// (negative consumes outstanding balance, positive restores it).
	InvoiceDeltas map[string]decimal.Decimal

	// PartyBalance is the recomputed cached balance for Payment.PartyID.
	PartyBalance decimal.Decimal

	// AccountBalances holds recomputed cached balances per account id.
	// Edits that move a payment between accounts carry two entries.
	AccountBalances map[string]decimal.Decimal
}

// PaymentReader defines read operations for payment data.
type PaymentReader interface {
	// FindPaymentByID retrieves a payment with its live allocations.
	FindPaymentByID(ctx context.Context, paymentID string) (*domain.Payment, error)

	// ListPayments retrieves a paginated payment list, newest first.
	ListPayments(ctx context.Context, params ListPaymentsParams) ([]domain.Payment, *string, error)

	// FindAllocationsByInvoiceID retrieves an invoice's live allocations.
	FindAllocationsByInvoiceID(ctx context.Context, invoiceID string) ([]domain.PaymentAllocation, error)
}

// PaymentReconciler defines the atomic reconciliation units. Every method runs
// as a single database transaction with the affected party, account and
// invoice rows locked for update.
type PaymentReconciler interface {
	// SavePaymentAndReconcile inserts a new payment with its full record.
	SavePaymentAndReconcile(ctx context.Context, rec PaymentReconciliationRecord) error

	// UpdatePaymentAndReconcile updates the payment row, soft-deletes its
	// previous allocations and audit rows, inserts the record's new
	// allocations and audit rows, and applies the record's balance updates.
	UpdatePaymentAndReconcile(ctx context.Context, rec PaymentReconciliationRecord) error

	// SoftDeletePaymentAndReconcile marks the payment, its allocations and its
	// audit rows deleted, and applies the record's balance updates.
	SoftDeletePaymentAndReconcile(ctx context.Context, rec PaymentReconciliationRecord) error
}

// PaymentRepositoryFacade combines all payment repository interfaces.
type PaymentRepositoryFacade interface {
	PaymentReader
	PaymentReconciler
}
