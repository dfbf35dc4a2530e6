package services

import (
	"context"

	"github.com/hisab-books/ledger_backend/internal/core/domain"
	"github.com/hisab-books/ledger_backend/internal/dto"
	"github.com/shopspring/decimal"
)

// PaymentRecorderSvc appends payments and manual adjustments with their
// paired audit records.
type PaymentRecorderSvc interface {
	// RecordPayment validates, allocates and durably records a payment, then
	// reconciles the affected party and account balances in one unit of work.
	RecordPayment(ctx context.Context, req dto.RecordPaymentRequest, userID string) (*domain.Payment, error)

	// RecordAccountAdjustment appends a manual signed adjustment to an account
	// with before/after snapshots computed from the Balance Calculator.
	RecordAccountAdjustment(ctx context.Context, req dto.AccountAdjustmentRequest, userID string) (*domain.AccountTransaction, error)

	// ReverseAdjustment soft-deletes a manual adjustment so recomputation
	// excludes it, and reconciles the account balance.
	ReverseAdjustment(ctx context.Context, transactionID string, userID string) error
}

// PaymentReaderSvc defines read operations for payments.
type PaymentReaderSvc interface {
	// GetPaymentByID retrieves a payment with its live allocations.
	GetPaymentByID(ctx context.Context, paymentID string) (*domain.Payment, error)

	// ListPayments retrieves a paginated payment list.
	ListPayments(ctx context.Context, params dto.ListPaymentsParams) (*dto.ListPaymentsResponse, error)
}

// PaymentReconcilerSvc keeps cached balances consistent with the Balance
// Calculator's derivation across edits, deletes and explicit repairs.
type PaymentReconcilerSvc interface {
	// EditPayment applies new fields to an existing payment. Balances are
	// recomputed from scratch (aggregates excluding the old payment effect
	// plus the new effect) for both payment directions; the whole correction
	// commits atomically.
	EditPayment(ctx context.Context, paymentID string, req dto.EditPaymentRequest, userID string) (*domain.Payment, error)

	// DeletePayment soft-deletes a payment, its allocations and audit rows,
	// restores the allocated invoice balances, and reconciles both cached
	// balances.
	DeletePayment(ctx context.Context, paymentID string, userID string) error

	// RecalculateParty forces the party's cached balance to match the Balance
	// Calculator's output. Idempotent; safe to call at any time.
	RecalculateParty(ctx context.Context, partyID string, userID string) (decimal.Decimal, error)

	// RecalculateAccount forces the account's cached balance to match the
	// Balance Calculator's output. Idempotent; safe to call at any time.
	RecalculateAccount(ctx context.Context, accountID string, userID string) (decimal.Decimal, error)
}

// PaymentSvcFacade combines all payment service interfaces.
type PaymentSvcFacade interface {
	PaymentRecorderSvc
	PaymentReaderSvc
	PaymentReconcilerSvc
}
