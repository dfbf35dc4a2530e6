package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/hisab-books/ledger_backend/internal/apperrors"
	"github.com/hisab-books/ledger_backend/internal/core/domain"
	portsrepo "github.com/hisab-books/ledger_backend/internal/core/ports/repositories"
	portssvc "github.com/hisab-books/ledger_backend/internal/core/ports/services"
	"github.com/hisab-books/ledger_backend/internal/dto"
	"github.com/hisab-books/ledger_backend/internal/middleware"
	"github.com/hisab-books/ledger_backend/internal/utils/locking"
	"github.com/shopspring/decimal"
)

var (
	ErrInvalidAmount      = fmt.Errorf("%w: payment amount must be positive", apperrors.ErrValidation)
	ErrExceedsOutstanding = fmt.Errorf("%w: payment amount exceeds the party's outstanding balance", apperrors.ErrValidation)
	ErrOverAllocated      = fmt.Errorf("%w: allocations exceed the payment amount", apperrors.ErrValidation)
	ErrPartyTypeMismatch  = fmt.Errorf("%w: party type does not allow this payment direction", apperrors.ErrValidation)
	ErrInvoiceMismatch    = fmt.Errorf("%w: invoice does not belong to the party or has the wrong kind", apperrors.ErrValidation)
	ErrInvoiceNotOpen     = fmt.Errorf("%w: invoice is cancelled, deleted or already settled", apperrors.ErrValidation)
	ErrZeroAdjustment     = fmt.Errorf("%w: adjustment amount must not be zero", apperrors.ErrValidation)
	ErrNotAnAdjustment    = fmt.Errorf("%w: transaction belongs to a payment and cannot be reversed directly", apperrors.ErrConflict)
	ErrPaymentDeleted     = fmt.Errorf("%w: payment is deleted", apperrors.ErrConflict)
)

// paymentSequence names the document number sequence for payments.
const paymentSequence = "PAY"

// paymentService records, edits, deletes and reconciles payments.
//
// Every mutation recomputes the affected cached balances from ledger
// aggregates rather than applying incremental diffs, then hands the whole
// result to the repository as one atomic reconciliation record. A process-wide
// keyed mutex serializes mutations per party and account so the read-compute-
// write cycle cannot interleave; the repository additionally locks the rows
// for update inside its transaction.
type paymentService struct {
	paymentRepo  portsrepo.PaymentRepositoryFacade
	partyRepo    portsrepo.PartyRepositoryFacade
	accountRepo  portsrepo.AccountRepositoryFacade
	invoiceRepo  portsrepo.InvoiceReader
	ledgerRepo   portsrepo.LedgerReader
	sequenceRepo portsrepo.SequenceRepository
	locks        *locking.KeyedMutex

	// strictEditValidation re-applies the outstanding-balance check on edits.
	// Lenient mode only enforces the structural limits (positive amount,
	// per-invoice allocation caps).
	strictEditValidation bool
}

// NewPaymentService creates a new PaymentService.
func NewPaymentService(
	paymentRepo portsrepo.PaymentRepositoryFacade,
	partyRepo portsrepo.PartyRepositoryFacade,
	accountRepo portsrepo.AccountRepositoryFacade,
	invoiceRepo portsrepo.InvoiceReader,
	ledgerRepo portsrepo.LedgerReader,
	sequenceRepo portsrepo.SequenceRepository,
	strictEditValidation bool,
) portssvc.PaymentSvcFacade {
	return &paymentService{
		paymentRepo:          paymentRepo,
		partyRepo:            partyRepo,
		accountRepo:          accountRepo,
		invoiceRepo:          invoiceRepo,
		ledgerRepo:           ledgerRepo,
		sequenceRepo:         sequenceRepo,
		locks:                locking.NewKeyedMutex(),
		strictEditValidation: strictEditValidation,
	}
}

var _ portssvc.PaymentSvcFacade = (*paymentService)(nil)

// invoiceKindFor maps a payment direction to the invoice kind it settles.
func invoiceKindFor(paymentType domain.PaymentType) domain.InvoiceKind {
	if paymentType == domain.PaymentIn {
		return domain.SalesInvoice
	}
	return domain.PurchaseInvoice
}

// signedAccountAmount returns the account-side effect of a payment:
// money received is a credit (positive), money paid is a debit (negative).
func signedAccountAmount(paymentType domain.PaymentType, amount decimal.Decimal) decimal.Decimal {
	if paymentType == domain.PaymentIn {
		return amount
	}
	return amount.Neg()
}

// RecordPayment validates, allocates and durably records a payment, then
// reconciles the affected party and account balances in one unit of work.
func (s *paymentService) RecordPayment(ctx context.Context, req dto.RecordPaymentRequest, userID string) (*domain.Payment, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if req.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, ErrInvalidAmount
	}

	party, err := s.partyRepo.FindPartyByID(ctx, req.PartyID)
	if err != nil {
		return nil, err
	}
	if party.IsDeleted {
		return nil, fmt.Errorf("%w: party %s is deleted", apperrors.ErrValidation, req.PartyID)
	}
	if req.PaymentType == domain.PaymentIn && !party.IsCustomer() {
		return nil, ErrPartyTypeMismatch
	}
	if req.PaymentType == domain.PaymentOut && !party.IsSupplier() {
		return nil, ErrPartyTypeMismatch
	}

	account, err := s.accountRepo.FindAccountByID(ctx, req.AccountID)
	if err != nil {
		return nil, err
	}
	if account.IsDeleted {
		return nil, fmt.Errorf("%w: account %s is deleted", apperrors.ErrValidation, req.AccountID)
	}

	unlock := s.locks.LockAll(req.PartyID, req.AccountID)
	defer unlock()

	partyLedger, err := s.ledgerRepo.FetchPartyLedger(ctx, req.PartyID)
	if err != nil {
		return nil, err
	}
	partyBalanceBefore := partyLedger.Balance()
	// Only money coming in is capped by what the party owes. Money going out
	// may exceed it: an advance to a supplier drives the balance negative.
	if req.PaymentType == domain.PaymentIn && req.Amount.GreaterThan(partyBalanceBefore) {
		return nil, fmt.Errorf("%w: outstanding is %s, payment is %s",
			ErrExceedsOutstanding, partyBalanceBefore.String(), req.Amount.String())
	}

	accountLedger, err := s.ledgerRepo.FetchAccountLedger(ctx, req.AccountID)
	if err != nil {
		return nil, err
	}
	accountBalanceBefore := accountLedger.Balance()

	now := time.Now().UTC()
	paymentID := uuid.NewString()

	allocations, invoiceDeltas, err := s.buildAllocations(ctx, paymentID, req.PartyID, req.PaymentType, req.Amount, req.Allocations)
	if err != nil {
		return nil, err
	}

	paymentNumber, err := s.sequenceRepo.NextDocumentNumber(ctx, paymentSequence)
	if err != nil {
		logger.Error("Failed to get next payment number", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to assign payment number: %w", err)
	}

	method := req.Method
	if method == "" {
		method = domain.MethodCash
	}

	audit := domain.AuditFields{
		CreatedAt:     now,
		CreatedBy:     userID,
		LastUpdatedAt: now,
		LastUpdatedBy: userID,
	}
	payment := domain.Payment{
		PaymentID:     paymentID,
		PaymentNumber: paymentNumber,
		PaymentType:   req.PaymentType,
		PartyID:       req.PartyID,
		AccountID:     req.AccountID,
		Amount:        req.Amount,
		PaymentDate:   req.PaymentDate,
		Method:        method,
		ReferenceNo:   req.ReferenceNo,
		Notes:         req.Notes,
		Allocations:   allocations,
		AuditFields:   audit,
	}

	// A payment reduces the party balance by its full amount regardless of
	// direction: allocations shrink the outstanding invoice side, and any
	// unallocated remainder shows up as a payment aggregate.
	partyBalanceAfter := partyBalanceBefore.Sub(req.Amount)
	signed := signedAccountAmount(req.PaymentType, req.Amount)
	accountBalanceAfter := accountBalanceBefore.Add(signed)

	rec := portsrepo.PaymentReconciliationRecord{
		Payment:     payment,
		Allocations: allocations,
		PartyTransaction: domain.PaymentTransaction{
			TransactionID:   uuid.NewString(),
			PaymentID:       paymentID,
			PartyID:         req.PartyID,
			PaymentType:     req.PaymentType,
			Amount:          req.Amount,
			BalanceBefore:   partyBalanceBefore,
			BalanceAfter:    partyBalanceAfter,
			TransactionDate: req.PaymentDate,
			AuditFields:     audit,
		},
		AccountTransactions: []domain.AccountTransaction{
			{
				TransactionID:   uuid.NewString(),
				AccountID:       req.AccountID,
				PaymentID:       paymentID,
				Amount:          signed,
				Reason:          string(req.PaymentType),
				BalanceBefore:   accountBalanceBefore,
				BalanceAfter:    accountBalanceAfter,
				TransactionDate: req.PaymentDate,
				AuditFields:     audit,
			},
		},
		InvoiceDeltas:   invoiceDeltas,
		PartyBalance:    partyBalanceAfter,
		AccountBalances: map[string]decimal.Decimal{req.AccountID: accountBalanceAfter},
	}

	if err := s.paymentRepo.SavePaymentAndReconcile(ctx, rec); err != nil {
		logger.Error("Failed to save payment reconciliation record",
			slog.String("error", err.Error()), slog.String("payment_id", paymentID))
		return nil, err
	}

	logger.Info("Payment recorded",
		slog.String("payment_id", paymentID),
		slog.String("payment_number", paymentNumber),
		slog.String("party_id", req.PartyID),
		slog.String("amount", req.Amount.String()))
	return &payment, nil
}

// buildAllocations resolves the payment's invoice allocations. Explicit
// allocations are validated against the invoices they name; an empty request
// auto-allocates across the party's outstanding invoices, oldest first. The
// returned deltas are the (negative) changes to apply to invoice balances.
func (s *paymentService) buildAllocations(ctx context.Context, paymentID, partyID string, paymentType domain.PaymentType, amount decimal.Decimal, reqs []dto.AllocationRequest) ([]domain.PaymentAllocation, map[string]decimal.Decimal, error) {
	kind := invoiceKindFor(paymentType)

	if len(reqs) > 0 {
		return s.buildExplicitAllocations(ctx, paymentID, partyID, kind, amount, reqs)
	}

	invoices, err := s.invoiceRepo.ListOutstandingInvoices(ctx, partyID, kind)
	if err != nil {
		return nil, nil, err
	}

	allocations := make([]domain.PaymentAllocation, 0, len(invoices))
	deltas := make(map[string]decimal.Decimal)
	remaining := amount
	for _, inv := range invoices {
		if !remaining.IsPositive() {
			break
		}
		take := decimal.Min(remaining, inv.BalanceAmount)
		allocations = append(allocations, domain.PaymentAllocation{
			AllocationID: uuid.NewString(),
			PaymentID:    paymentID,
			InvoiceID:    inv.InvoiceID,
			Amount:       take,
		})
		deltas[inv.InvoiceID] = take.Neg()
		remaining = remaining.Sub(take)
	}
	// Any remainder stays unallocated against the party's opening balance.
	return allocations, deltas, nil
}

func (s *paymentService) buildExplicitAllocations(ctx context.Context, paymentID, partyID string, kind domain.InvoiceKind, amount decimal.Decimal, reqs []dto.AllocationRequest) ([]domain.PaymentAllocation, map[string]decimal.Decimal, error) {
	ids := make([]string, 0, len(reqs))
	for _, r := range reqs {
		ids = append(ids, r.InvoiceID)
	}
	invoices, err := s.invoiceRepo.FindInvoicesByIDs(ctx, ids)
	if err != nil {
		return nil, nil, err
	}

	allocations := make([]domain.PaymentAllocation, 0, len(reqs))
	deltas := make(map[string]decimal.Decimal)
	total := decimal.Zero
	for _, r := range reqs {
		if r.Amount.LessThanOrEqual(decimal.Zero) {
			return nil, nil, fmt.Errorf("%w: allocation amount must be positive for invoice %s", apperrors.ErrValidation, r.InvoiceID)
		}
		inv, ok := invoices[r.InvoiceID]
		if !ok {
			return nil, nil, fmt.Errorf("%w: invoice %s", apperrors.ErrNotFound, r.InvoiceID)
		}
		if inv.PartyID != partyID || inv.Kind != kind {
			return nil, nil, fmt.Errorf("%w: invoice %s", ErrInvoiceMismatch, r.InvoiceID)
		}
		if !inv.Outstanding() {
			return nil, nil, fmt.Errorf("%w: invoice %s", ErrInvoiceNotOpen, r.InvoiceID)
		}
		available := inv.BalanceAmount.Add(deltas[r.InvoiceID])
		if r.Amount.GreaterThan(available) {
			return nil, nil, fmt.Errorf("%w: invoice %s has %s outstanding, allocation is %s",
				ErrExceedsOutstanding, r.InvoiceID, available.String(), r.Amount.String())
		}
		allocations = append(allocations, domain.PaymentAllocation{
			AllocationID: uuid.NewString(),
			PaymentID:    paymentID,
			InvoiceID:    r.InvoiceID,
			Amount:       r.Amount,
		})
		deltas[r.InvoiceID] = deltas[r.InvoiceID].Sub(r.Amount)
		total = total.Add(r.Amount)
	}
	if total.GreaterThan(amount) {
		return nil, nil, fmt.Errorf("%w: allocated %s against a payment of %s",
			ErrOverAllocated, total.String(), amount.String())
	}
	return allocations, deltas, nil
}

// RecordAccountAdjustment appends a manual signed adjustment with
// before/after snapshots derived from the account ledger at call time.
func (s *paymentService) RecordAccountAdjustment(ctx context.Context, req dto.AccountAdjustmentRequest, userID string) (*domain.AccountTransaction, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if req.Amount.IsZero() {
		return nil, ErrZeroAdjustment
	}

	account, err := s.accountRepo.FindAccountByID(ctx, req.AccountID)
	if err != nil {
		return nil, err
	}
	if account.IsDeleted {
		return nil, fmt.Errorf("%w: account %s is deleted", apperrors.ErrValidation, req.AccountID)
	}

	unlock := s.locks.LockAll(req.AccountID)
	defer unlock()

	ledger, err := s.ledgerRepo.FetchAccountLedger(ctx, req.AccountID)
	if err != nil {
		return nil, err
	}
	before := ledger.Balance()
	after := before.Add(req.Amount)

	now := time.Now().UTC()
	txn := domain.AccountTransaction{
		TransactionID:   uuid.NewString(),
		AccountID:       req.AccountID,
		Amount:          req.Amount,
		Reason:          req.Reason,
		BalanceBefore:   before,
		BalanceAfter:    after,
		TransactionDate: req.Date,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}

	if err := s.accountRepo.SaveAdjustmentAndReconcile(ctx, txn, after); err != nil {
		logger.Error("Failed to save account adjustment",
			slog.String("error", err.Error()), slog.String("account_id", req.AccountID))
		return nil, err
	}

	logger.Info("Account adjustment recorded",
		slog.String("transaction_id", txn.TransactionID),
		slog.String("account_id", req.AccountID),
		slog.String("amount", req.Amount.String()))
	return &txn, nil
}

// ReverseAdjustment soft-deletes a manual adjustment so recomputation
// excludes it, and reconciles the account's cached balance.
func (s *paymentService) ReverseAdjustment(ctx context.Context, transactionID string, userID string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	txn, err := s.accountRepo.FindAccountTransactionByID(ctx, transactionID)
	if err != nil {
		return err
	}
	if txn.PaymentID != "" {
		return fmt.Errorf("%w: transaction %s", ErrNotAnAdjustment, transactionID)
	}
	if txn.IsDeleted {
		return fmt.Errorf("%w: transaction %s is already reversed", apperrors.ErrConflict, transactionID)
	}

	unlock := s.locks.LockAll(txn.AccountID)
	defer unlock()

	ledger, err := s.ledgerRepo.FetchAccountLedgerExcludingTransaction(ctx, txn.AccountID, transactionID)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	if err := s.accountRepo.ReverseAdjustmentAndReconcile(ctx, transactionID, txn.AccountID, ledger.Balance(), userID, now); err != nil {
		logger.Error("Failed to reverse account adjustment",
			slog.String("error", err.Error()), slog.String("transaction_id", transactionID))
		return err
	}

	logger.Info("Account adjustment reversed",
		slog.String("transaction_id", transactionID), slog.String("account_id", txn.AccountID))
	return nil
}

func (s *paymentService) GetPaymentByID(ctx context.Context, paymentID string) (*domain.Payment, error) {
	logger := middleware.GetLoggerFromCtx(ctx)
	payment, err := s.paymentRepo.FindPaymentByID(ctx, paymentID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			logger.Error("Failed to find payment", slog.String("error", err.Error()), slog.String("payment_id", paymentID))
		}
		return nil, err
	}
	return payment, nil
}

func (s *paymentService) ListPayments(ctx context.Context, params dto.ListPaymentsParams) (*dto.ListPaymentsResponse, error) {
	logger := middleware.GetLoggerFromCtx(ctx)
	payments, nextToken, err := s.paymentRepo.ListPayments(ctx, portsrepo.ListPaymentsParams{
		PartyID:   params.PartyID,
		AccountID: params.AccountID,
		Limit:     params.Limit,
		NextToken: params.NextToken,
	})
	if err != nil {
		logger.Error("Failed to list payments", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to list payments: %w", err)
	}
	res := dto.ToListPaymentsResponse(payments, nextToken)
	return &res, nil
}

// EditPayment applies new fields to an existing payment. Both cached balances
// are recomputed from scratch: aggregates excluding the old payment effect
// plus the new effect, committed in one transaction.
func (s *paymentService) EditPayment(ctx context.Context, paymentID string, req dto.EditPaymentRequest, userID string) (*domain.Payment, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	existing, err := s.paymentRepo.FindPaymentByID(ctx, paymentID)
	if err != nil {
		return nil, err
	}
	if existing.IsDeleted {
		return nil, ErrPaymentDeleted
	}

	updated := *existing
	if req.Amount != nil {
		if req.Amount.LessThanOrEqual(decimal.Zero) {
			return nil, ErrInvalidAmount
		}
		updated.Amount = *req.Amount
	}
	if req.AccountID != nil {
		updated.AccountID = *req.AccountID
	}
	if req.PaymentDate != nil {
		updated.PaymentDate = *req.PaymentDate
	}
	if req.Method != nil {
		updated.Method = *req.Method
	}
	if req.ReferenceNo != nil {
		updated.ReferenceNo = *req.ReferenceNo
	}
	if req.Notes != nil {
		updated.Notes = *req.Notes
	}

	if updated.AccountID != existing.AccountID {
		account, err := s.accountRepo.FindAccountByID(ctx, updated.AccountID)
		if err != nil {
			return nil, err
		}
		if account.IsDeleted {
			return nil, fmt.Errorf("%w: account %s is deleted", apperrors.ErrValidation, updated.AccountID)
		}
	}

	unlock := s.locks.LockAll(existing.PartyID, existing.AccountID, updated.AccountID)
	defer unlock()

	// Party balance rebuilt as if the old payment never happened, then the
	// new effect applied.
	partyLedger, err := s.ledgerRepo.FetchPartyLedgerExcludingPayment(ctx, existing.PartyID, paymentID)
	if err != nil {
		return nil, err
	}
	partyBalanceBefore := partyLedger.Balance()

	if s.strictEditValidation && updated.PaymentType == domain.PaymentIn && updated.Amount.GreaterThan(partyBalanceBefore) {
		return nil, fmt.Errorf("%w: outstanding is %s, payment is %s",
			ErrExceedsOutstanding, partyBalanceBefore.String(), updated.Amount.String())
	}

	allocations, invoiceDeltas, err := s.rebuildAllocations(ctx, &updated, existing.Allocations, req.Allocations, !updated.Amount.Equal(existing.Amount))
	if err != nil {
		return nil, err
	}
	updated.Allocations = allocations

	partyBalanceAfter := partyBalanceBefore.Sub(updated.Amount)
	signed := signedAccountAmount(updated.PaymentType, updated.Amount)

	accountBalances := make(map[string]decimal.Decimal, 2)
	accountBalanceBefore := decimal.Zero
	if updated.AccountID == existing.AccountID {
		ledger, err := s.ledgerRepo.FetchAccountLedgerExcludingPayment(ctx, updated.AccountID, paymentID)
		if err != nil {
			return nil, err
		}
		accountBalanceBefore = ledger.Balance()
		accountBalances[updated.AccountID] = accountBalanceBefore.Add(signed)
	} else {
		oldLedger, err := s.ledgerRepo.FetchAccountLedgerExcludingPayment(ctx, existing.AccountID, paymentID)
		if err != nil {
			return nil, err
		}
		accountBalances[existing.AccountID] = oldLedger.Balance()

		newLedger, err := s.ledgerRepo.FetchAccountLedger(ctx, updated.AccountID)
		if err != nil {
			return nil, err
		}
		accountBalanceBefore = newLedger.Balance()
		accountBalances[updated.AccountID] = accountBalanceBefore.Add(signed)
	}

	now := time.Now().UTC()
	updated.LastUpdatedAt = now
	updated.LastUpdatedBy = userID
	audit := domain.AuditFields{
		CreatedAt:     now,
		CreatedBy:     userID,
		LastUpdatedAt: now,
		LastUpdatedBy: userID,
	}

	rec := portsrepo.PaymentReconciliationRecord{
		Payment:     updated,
		Allocations: allocations,
		PartyTransaction: domain.PaymentTransaction{
			TransactionID:   uuid.NewString(),
			PaymentID:       paymentID,
			PartyID:         updated.PartyID,
			PaymentType:     updated.PaymentType,
			Amount:          updated.Amount,
			BalanceBefore:   partyBalanceBefore,
			BalanceAfter:    partyBalanceAfter,
			TransactionDate: updated.PaymentDate,
			AuditFields:     audit,
		},
		AccountTransactions: []domain.AccountTransaction{
			{
				TransactionID:   uuid.NewString(),
				AccountID:       updated.AccountID,
				PaymentID:       paymentID,
				Amount:          signed,
				Reason:          string(updated.PaymentType),
				BalanceBefore:   accountBalanceBefore,
				BalanceAfter:    accountBalanceBefore.Add(signed),
				TransactionDate: updated.PaymentDate,
				AuditFields:     audit,
			},
		},
		InvoiceDeltas:   invoiceDeltas,
		PartyBalance:    partyBalanceAfter,
		AccountBalances: accountBalances,
	}

	if err := s.paymentRepo.UpdatePaymentAndReconcile(ctx, rec); err != nil {
		logger.Error("Failed to update payment reconciliation record",
			slog.String("error", err.Error()), slog.String("payment_id", paymentID))
		return nil, err
	}

	logger.Info("Payment updated", slog.String("payment_id", paymentID))
	return &updated, nil
}

// rebuildAllocations resolves allocations for an edit. The old allocations
// are being reversed in the same transaction, so invoice availability is each
// invoice's stored balance plus whatever this payment had allocated to it.
// The returned deltas fold the restore and the new consumption together.
// When the request names no allocations and the amount is unchanged, the old
// allocations are carried forward as they are; a metadata edit must not
// redistribute them.
func (s *paymentService) rebuildAllocations(ctx context.Context, updated *domain.Payment, oldAllocations []domain.PaymentAllocation, reqs *[]dto.AllocationRequest, amountChanged bool) ([]domain.PaymentAllocation, map[string]decimal.Decimal, error) {
	restored := make(map[string]decimal.Decimal)
	for _, a := range oldAllocations {
		if !a.IsDeleted {
			restored[a.InvoiceID] = restored[a.InvoiceID].Add(a.Amount)
		}
	}

	var newAllocations []domain.PaymentAllocation
	consumed := make(map[string]decimal.Decimal)

	switch {
	case reqs != nil:
		allocations, err := s.validateEditAllocations(ctx, updated, restored, *reqs)
		if err != nil {
			return nil, nil, err
		}
		newAllocations = allocations
	case amountChanged:
		allocations, err := s.autoAllocateForEdit(ctx, updated, restored)
		if err != nil {
			return nil, nil, err
		}
		newAllocations = allocations
	default:
		for _, a := range oldAllocations {
			if a.IsDeleted {
				continue
			}
			newAllocations = append(newAllocations, domain.PaymentAllocation{
				AllocationID: uuid.NewString(),
				PaymentID:    updated.PaymentID,
				InvoiceID:    a.InvoiceID,
				Amount:       a.Amount,
			})
		}
	}

	for _, a := range newAllocations {
		consumed[a.InvoiceID] = consumed[a.InvoiceID].Add(a.Amount)
	}

	deltas := make(map[string]decimal.Decimal)
	for id, amt := range restored {
		deltas[id] = deltas[id].Add(amt)
	}
	for id, amt := range consumed {
		deltas[id] = deltas[id].Sub(amt)
	}
	for id, d := range deltas {
		if d.IsZero() {
			delete(deltas, id)
		}
	}
	return newAllocations, deltas, nil
}

func (s *paymentService) validateEditAllocations(ctx context.Context, updated *domain.Payment, restored map[string]decimal.Decimal, reqs []dto.AllocationRequest) ([]domain.PaymentAllocation, error) {
	kind := invoiceKindFor(updated.PaymentType)
	ids := make([]string, 0, len(reqs))
	for _, r := range reqs {
		ids = append(ids, r.InvoiceID)
	}
	invoices, err := s.invoiceRepo.FindInvoicesByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	allocations := make([]domain.PaymentAllocation, 0, len(reqs))
	available := make(map[string]decimal.Decimal, len(invoices))
	total := decimal.Zero
	for _, r := range reqs {
		if r.Amount.LessThanOrEqual(decimal.Zero) {
			return nil, fmt.Errorf("%w: allocation amount must be positive for invoice %s", apperrors.ErrValidation, r.InvoiceID)
		}
		inv, ok := invoices[r.InvoiceID]
		if !ok {
			return nil, fmt.Errorf("%w: invoice %s", apperrors.ErrNotFound, r.InvoiceID)
		}
		if inv.PartyID != updated.PartyID || inv.Kind != kind {
			return nil, fmt.Errorf("%w: invoice %s", ErrInvoiceMismatch, r.InvoiceID)
		}
		if inv.IsCancelled || inv.IsDeleted {
			return nil, fmt.Errorf("%w: invoice %s", ErrInvoiceNotOpen, r.InvoiceID)
		}
		if _, ok := available[r.InvoiceID]; !ok {
			available[r.InvoiceID] = inv.BalanceAmount.Add(restored[r.InvoiceID])
		}
		if r.Amount.GreaterThan(available[r.InvoiceID]) {
			return nil, fmt.Errorf("%w: invoice %s has %s available, allocation is %s",
				ErrExceedsOutstanding, r.InvoiceID, available[r.InvoiceID].String(), r.Amount.String())
		}
		available[r.InvoiceID] = available[r.InvoiceID].Sub(r.Amount)
		allocations = append(allocations, domain.PaymentAllocation{
			AllocationID: uuid.NewString(),
			PaymentID:    updated.PaymentID,
			InvoiceID:    r.InvoiceID,
			Amount:       r.Amount,
		})
		total = total.Add(r.Amount)
	}
	if total.GreaterThan(updated.Amount) {
		return nil, fmt.Errorf("%w: allocated %s against a payment of %s",
			ErrOverAllocated, total.String(), updated.Amount.String())
	}
	return allocations, nil
}

// autoAllocateForEdit redistributes the new amount oldest-first across the
// invoices the old allocations touched plus the party's currently outstanding
// ones, each credited with what the old payment had taken from it.
func (s *paymentService) autoAllocateForEdit(ctx context.Context, updated *domain.Payment, restored map[string]decimal.Decimal) ([]domain.PaymentAllocation, error) {
	kind := invoiceKindFor(updated.PaymentType)

	outstanding, err := s.invoiceRepo.ListOutstandingInvoices(ctx, updated.PartyID, kind)
	if err != nil {
		return nil, err
	}

	candidates := make(map[string]domain.Invoice, len(outstanding)+len(restored))
	for _, inv := range outstanding {
		candidates[inv.InvoiceID] = inv
	}
	// Invoices fully settled by the old payment are missing from the
	// outstanding list; fetch them so their restored balance is allocatable.
	var missing []string
	for id := range restored {
		if _, ok := candidates[id]; !ok {
			missing = append(missing, id)
		}
	}
	if len(missing) > 0 {
		fetched, err := s.invoiceRepo.FindInvoicesByIDs(ctx, missing)
		if err != nil {
			return nil, err
		}
		for id, inv := range fetched {
			if !inv.IsCancelled && !inv.IsDeleted {
				candidates[id] = inv
			}
		}
	}

	ordered := make([]domain.Invoice, 0, len(candidates))
	for _, inv := range candidates {
		ordered = append(ordered, inv)
	}
	sort.Slice(ordered, func(i, j int) bool {
		if !ordered[i].InvoiceDate.Equal(ordered[j].InvoiceDate) {
			return ordered[i].InvoiceDate.Before(ordered[j].InvoiceDate)
		}
		return ordered[i].CreatedAt.Before(ordered[j].CreatedAt)
	})

	allocations := make([]domain.PaymentAllocation, 0, len(ordered))
	remaining := updated.Amount
	for _, inv := range ordered {
		if !remaining.IsPositive() {
			break
		}
		avail := inv.BalanceAmount.Add(restored[inv.InvoiceID])
		if !avail.IsPositive() {
			continue
		}
		take := decimal.Min(remaining, avail)
		allocations = append(allocations, domain.PaymentAllocation{
			AllocationID: uuid.NewString(),
			PaymentID:    updated.PaymentID,
			InvoiceID:    inv.InvoiceID,
			Amount:       take,
		})
		remaining = remaining.Sub(take)
	}
	return allocations, nil
}

// DeletePayment soft-deletes a payment and its dependent rows, restores the
// allocated invoice balances and reconciles both cached balances.
func (s *paymentService) DeletePayment(ctx context.Context, paymentID string, userID string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	payment, err := s.paymentRepo.FindPaymentByID(ctx, paymentID)
	if err != nil {
		return err
	}
	if payment.IsDeleted {
		return ErrPaymentDeleted
	}

	unlock := s.locks.LockAll(payment.PartyID, payment.AccountID)
	defer unlock()

	partyLedger, err := s.ledgerRepo.FetchPartyLedgerExcludingPayment(ctx, payment.PartyID, paymentID)
	if err != nil {
		return err
	}
	accountLedger, err := s.ledgerRepo.FetchAccountLedgerExcludingPayment(ctx, payment.AccountID, paymentID)
	if err != nil {
		return err
	}

	invoiceDeltas := make(map[string]decimal.Decimal)
	for _, a := range payment.Allocations {
		if !a.IsDeleted {
			invoiceDeltas[a.InvoiceID] = invoiceDeltas[a.InvoiceID].Add(a.Amount)
		}
	}

	now := time.Now().UTC()
	deleted := *payment
	deleted.IsDeleted = true
	deleted.LastUpdatedAt = now
	deleted.LastUpdatedBy = userID

	rec := portsrepo.PaymentReconciliationRecord{
		Payment:         deleted,
		InvoiceDeltas:   invoiceDeltas,
		PartyBalance:    partyLedger.Balance(),
		AccountBalances: map[string]decimal.Decimal{payment.AccountID: accountLedger.Balance()},
	}

	if err := s.paymentRepo.SoftDeletePaymentAndReconcile(ctx, rec); err != nil {
		logger.Error("Failed to delete payment",
			slog.String("error", err.Error()), slog.String("payment_id", paymentID))
		return err
	}

	logger.Info("Payment deleted", slog.String("payment_id", paymentID))
	return nil
}

// RecalculateParty forces the party's cached balance to match the ledger
// derivation. Safe to call repeatedly.
func (s *paymentService) RecalculateParty(ctx context.Context, partyID string, userID string) (decimal.Decimal, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	unlock := s.locks.LockAll(partyID)
	defer unlock()

	ledger, err := s.ledgerRepo.FetchPartyLedger(ctx, partyID)
	if err != nil {
		return decimal.Zero, err
	}
	balance := ledger.Balance()

	if err := s.partyRepo.UpdatePartyBalance(ctx, partyID, balance, userID, time.Now().UTC()); err != nil {
		logger.Error("Failed to store recalculated party balance",
			slog.String("error", err.Error()), slog.String("party_id", partyID))
		return decimal.Zero, err
	}

	logger.Info("Party balance recalculated",
		slog.String("party_id", partyID), slog.String("balance", balance.String()))
	return balance, nil
}

// RecalculateAccount forces the account's cached balance to match the ledger
// derivation. Safe to call repeatedly.
func (s *paymentService) RecalculateAccount(ctx context.Context, accountID string, userID string) (decimal.Decimal, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	unlock := s.locks.LockAll(accountID)
	defer unlock()

	ledger, err := s.ledgerRepo.FetchAccountLedger(ctx, accountID)
	if err != nil {
		return decimal.Zero, err
	}
	balance := ledger.Balance()

	if err := s.accountRepo.UpdateAccountBalance(ctx, accountID, balance, userID, time.Now().UTC()); err != nil {
		logger.Error("Failed to store recalculated account balance",
			slog.String("error", err.Error()), slog.String("account_id", accountID))
		return decimal.Zero, err
	}

	logger.Info("Account balance recalculated",
		slog.String("account_id", accountID), slog.String("balance", balance.String()))
	return balance, nil
}
