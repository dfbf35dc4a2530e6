package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/hisab-books/ledger_backend/internal/apperrors"
	"github.com/hisab-books/ledger_backend/internal/core/domain"
	portsrepo "github.com/hisab-books/ledger_backend/internal/core/ports/repositories"
	portssvc "github.com/hisab-books/ledger_backend/internal/core/ports/services"
	"github.com/hisab-books/ledger_backend/internal/dto"
	"github.com/hisab-books/ledger_backend/internal/middleware"
	"github.com/hisab-books/ledger_backend/internal/utils/locking"
	"github.com/hisab-books/ledger_backend/internal/utils/taxes"
	"github.com/shopspring/decimal"
)

var (
	ErrInvoicePartyMismatch = fmt.Errorf("%w: party type does not allow this invoice kind", apperrors.ErrValidation)
	ErrInvoiceHasPayments   = fmt.Errorf("%w: invoice has live payment allocations", apperrors.ErrConflict)
	ErrInvoiceClosed        = fmt.Errorf("%w: invoice is cancelled or deleted", apperrors.ErrConflict)
)

// Document number sequence names per invoice kind.
const (
	salesInvoiceSequence    = "INV"
	purchaseInvoiceSequence = "PUR"
)

type invoiceService struct {
	invoiceRepo  portsrepo.InvoiceRepositoryFacade
	partyRepo    portsrepo.PartyReader
	paymentRepo  portsrepo.PaymentReader
	ledgerRepo   portsrepo.LedgerReader
	sequenceRepo portsrepo.SequenceRepository

	// locks serializes per-party writes so the recomputed cached balance is
	// not based on a stale ledger read.
	locks *locking.KeyedMutex

	// businessStateCode is the GST state the business operates from. It
	// decides whether an invoice line splits into CGST/SGST or carries IGST.
	businessStateCode string
}

// NewInvoiceService creates a new InvoiceService.
func NewInvoiceService(invoiceRepo portsrepo.InvoiceRepositoryFacade, partyRepo portsrepo.PartyReader, paymentRepo portsrepo.PaymentReader, ledgerRepo portsrepo.LedgerReader, sequenceRepo portsrepo.SequenceRepository, businessStateCode string) portssvc.InvoiceSvcFacade {
	return &invoiceService{
		invoiceRepo:       invoiceRepo,
		partyRepo:         partyRepo,
		paymentRepo:       paymentRepo,
		ledgerRepo:        ledgerRepo,
		sequenceRepo:      sequenceRepo,
		locks:             locking.NewKeyedMutex(),
		businessStateCode: businessStateCode,
	}
}

var _ portssvc.InvoiceSvcFacade = (*invoiceService)(nil)

func (s *invoiceService) CreateInvoice(ctx context.Context, req dto.CreateInvoiceRequest, userID string) (*domain.Invoice, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	party, err := s.partyRepo.FindPartyByID(ctx, req.PartyID)
	if err != nil {
		return nil, err
	}
	if party.IsDeleted {
		return nil, fmt.Errorf("%w: party %s is deleted", apperrors.ErrValidation, req.PartyID)
	}
	if req.Kind == domain.SalesInvoice && !party.IsCustomer() {
		return nil, ErrInvoicePartyMismatch
	}
	if req.Kind == domain.PurchaseInvoice && !party.IsSupplier() {
		return nil, ErrInvoicePartyMismatch
	}

	interState := taxes.InterState(s.businessStateCode, party.StateCode)
	invoiceID := uuid.NewString()

	items := make([]domain.InvoiceItem, len(req.Items))
	subtotal := decimal.Zero
	taxTotal := decimal.Zero
	for i, it := range req.Items {
		breakup, err := taxes.ComputeLine(it.Quantity, it.UnitPrice, it.GSTRate, req.TaxInclusive, interState)
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %s", apperrors.ErrValidation, i+1, err.Error())
		}
		items[i] = domain.InvoiceItem{
			ItemID:      uuid.NewString(),
			InvoiceID:   invoiceID,
			Description: it.Description,
			HSNCode:     it.HSNCode,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
			GSTRate:     it.GSTRate,
			TaxAmount:   breakup.TotalTax,
			LineTotal:   breakup.LineTotal,
		}
		subtotal = subtotal.Add(breakup.TaxableValue)
		taxTotal = taxTotal.Add(breakup.TotalTax)
	}
	total := subtotal.Add(taxTotal)
	if !total.IsPositive() {
		return nil, fmt.Errorf("%w: invoice total must be positive", apperrors.ErrValidation)
	}

	sequence := salesInvoiceSequence
	if req.Kind == domain.PurchaseInvoice {
		sequence = purchaseInvoiceSequence
	}
	invoiceNumber, err := s.sequenceRepo.NextDocumentNumber(ctx, sequence)
	if err != nil {
		logger.Error("Failed to get next invoice number", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to assign invoice number: %w", err)
	}

	dueDate := req.DueDate
	if dueDate.IsZero() {
		dueDate = req.InvoiceDate.AddDate(0, 0, party.MinDueDays)
	}

	unlock := s.locks.LockAll(req.PartyID)
	defer unlock()

	// The new invoice is fully outstanding, so the party's cached balance
	// moves by its total.
	partyLedger, err := s.ledgerRepo.FetchPartyLedger(ctx, req.PartyID)
	if err != nil {
		return nil, err
	}
	partyBalance := partyLedger.Balance().Add(total)

	now := time.Now().UTC()
	invoice := domain.Invoice{
		InvoiceID:     invoiceID,
		InvoiceNumber: invoiceNumber,
		Kind:          req.Kind,
		PartyID:       req.PartyID,
		InvoiceDate:   req.InvoiceDate,
		DueDate:       dueDate,
		Subtotal:      subtotal,
		TaxAmount:     taxTotal,
		TotalAmount:   total,
		BalanceAmount: total, // Fully outstanding at creation
		Notes:         req.Notes,
		Items:         items,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}

	if err := s.invoiceRepo.SaveInvoice(ctx, invoice, items, partyBalance); err != nil {
		logger.Error("Failed to save invoice", slog.String("error", err.Error()), slog.String("invoice_id", invoiceID))
		return nil, err
	}

	logger.Info("Invoice created",
		slog.String("invoice_id", invoiceID),
		slog.String("invoice_number", invoiceNumber),
		slog.String("kind", string(req.Kind)),
		slog.String("total", total.String()))
	return &invoice, nil
}

func (s *invoiceService) GetInvoiceByID(ctx context.Context, invoiceID string) (*domain.Invoice, error) {
	logger := middleware.GetLoggerFromCtx(ctx)
	invoice, err := s.invoiceRepo.FindInvoiceByID(ctx, invoiceID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			logger.Error("Failed to find invoice", slog.String("error", err.Error()), slog.String("invoice_id", invoiceID))
		}
		return nil, err
	}
	return invoice, nil
}

func (s *invoiceService) ListInvoices(ctx context.Context, kind domain.InvoiceKind, params dto.ListInvoicesParams) (*dto.ListInvoicesResponse, error) {
	logger := middleware.GetLoggerFromCtx(ctx)
	invoices, nextToken, err := s.invoiceRepo.ListInvoices(ctx, portsrepo.ListInvoicesParams{
		PartyID:         params.PartyID,
		Kind:            kind,
		Limit:           params.Limit,
		NextToken:       params.NextToken,
		OutstandingOnly: params.OutstandingOnly,
	})
	if err != nil {
		logger.Error("Failed to list invoices", slog.String("error", err.Error()), slog.String("kind", string(kind)))
		return nil, fmt.Errorf("failed to list invoices: %w", err)
	}
	res := dto.ToListInvoicesResponse(invoices, nextToken)
	return &res, nil
}

// CancelInvoice marks an invoice cancelled, excluding it from every aggregate.
// Invoices already paid against must have their payments removed first. The
// party's cached balance drops by the cancelled invoice's unpaid remainder,
// written in the same repository transaction.
func (s *invoiceService) CancelInvoice(ctx context.Context, invoiceID string, userID string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	invoice, err := s.closableInvoice(ctx, invoiceID)
	if err != nil {
		return err
	}

	unlock := s.locks.LockAll(invoice.PartyID)
	defer unlock()

	partyBalance, err := s.partyBalanceWithout(ctx, invoice)
	if err != nil {
		return err
	}

	if err := s.invoiceRepo.CancelInvoice(ctx, invoiceID, invoice.PartyID, partyBalance, userID, time.Now().UTC()); err != nil {
		logger.Error("Failed to cancel invoice", slog.String("error", err.Error()), slog.String("invoice_id", invoiceID))
		return err
	}

	logger.Info("Invoice cancelled", slog.String("invoice_id", invoiceID))
	return nil
}

func (s *invoiceService) DeleteInvoice(ctx context.Context, invoiceID string, userID string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	invoice, err := s.closableInvoice(ctx, invoiceID)
	if err != nil {
		return err
	}

	unlock := s.locks.LockAll(invoice.PartyID)
	defer unlock()

	partyBalance, err := s.partyBalanceWithout(ctx, invoice)
	if err != nil {
		return err
	}

	if err := s.invoiceRepo.SoftDeleteInvoice(ctx, invoiceID, invoice.PartyID, partyBalance, userID, time.Now().UTC()); err != nil {
		logger.Error("Failed to delete invoice", slog.String("error", err.Error()), slog.String("invoice_id", invoiceID))
		return err
	}

	logger.Info("Invoice deleted", slog.String("invoice_id", invoiceID))
	return nil
}

// closableInvoice fetches the invoice if it is still open and has no live
// payment allocations; those must be removed before cancel or delete.
func (s *invoiceService) closableInvoice(ctx context.Context, invoiceID string) (*domain.Invoice, error) {
	invoice, err := s.invoiceRepo.FindInvoiceByID(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	if invoice.IsCancelled || invoice.IsDeleted {
		return nil, ErrInvoiceClosed
	}

	allocations, err := s.paymentRepo.FindAllocationsByInvoiceID(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	for _, a := range allocations {
		if !a.IsDeleted {
			return nil, fmt.Errorf("%w: invoice %s", ErrInvoiceHasPayments, invoiceID)
		}
	}
	return invoice, nil
}

// partyBalanceWithout recomputes the party's balance as it stands once the
// invoice's unpaid remainder leaves the aggregates.
func (s *invoiceService) partyBalanceWithout(ctx context.Context, invoice *domain.Invoice) (decimal.Decimal, error) {
	ledger, err := s.ledgerRepo.FetchPartyLedger(ctx, invoice.PartyID)
	if err != nil {
		return decimal.Zero, err
	}
	return ledger.Balance().Sub(invoice.BalanceAmount), nil
}
