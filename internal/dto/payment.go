package dto

import (
	"time"

	"github.com/hisab-books/ledger_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// AllocationRequest assigns part of a payment to a specific invoice.
type AllocationRequest struct {
	InvoiceID string          `json:"invoiceID" binding:"required"`
	Amount    decimal.Decimal `json:"amount" binding:"required"`
}

// RecordPaymentRequest defines the data needed to record a payment.
// When Allocations is empty the amount is auto-allocated to the party's
// outstanding invoices, oldest first.
type RecordPaymentRequest struct {
	PaymentType domain.PaymentType   `json:"paymentType" binding:"required,oneof=PAYMENT_IN PAYMENT_OUT"`
	PartyID     string               `json:"partyID" binding:"required"`
	AccountID   string               `json:"accountID" binding:"required"`
	Amount      decimal.Decimal      `json:"amount" binding:"required"`
	PaymentDate time.Time            `json:"paymentDate" binding:"required"`
	Method      domain.PaymentMethod `json:"method" binding:"omitempty,oneof=CASH CHEQUE TRANSFER UPI"`
	ReferenceNo string               `json:"referenceNo"`
	Notes       string               `json:"notes"`
	Allocations []AllocationRequest  `json:"allocations" binding:"omitempty,dive"`
}

// EditPaymentRequest defines the fields an existing payment may change.
// Pointers distinguish "leave unchanged" from zero values. Changing amount,
// account or allocations triggers a full balance recomputation.
type EditPaymentRequest struct {
	AccountID   *string               `json:"accountID"`
	Amount      *decimal.Decimal      `json:"amount"`
	PaymentDate *time.Time            `json:"paymentDate"`
	Method      *domain.PaymentMethod `json:"method" binding:"omitempty,oneof=CASH CHEQUE TRANSFER UPI"`
	ReferenceNo *string               `json:"referenceNo"`
	Notes       *string               `json:"notes"`
	Allocations *[]AllocationRequest  `json:"allocations" binding:"omitempty,dive"`
}

// AllocationResponse defines the data returned for an allocation.
type AllocationResponse struct {
	AllocationID string          `json:"allocationID"`
	InvoiceID    string          `json:"invoiceID"`
	Amount       decimal.Decimal `json:"amount"`
}

// PaymentResponse defines the data returned for a payment.
type PaymentResponse struct {
	PaymentID     string               `json:"paymentID"`
	PaymentNumber string               `json:"paymentNumber"`
	PaymentType   domain.PaymentType   `json:"paymentType"`
	PartyID       string               `json:"partyID"`
	AccountID     string               `json:"accountID"`
	Amount        decimal.Decimal      `json:"amount"`
	PaymentDate   time.Time            `json:"paymentDate"`
	Method        domain.PaymentMethod `json:"method"`
	ReferenceNo   string               `json:"referenceNo"`
	Notes         string               `json:"notes"`
	Allocations   []AllocationResponse `json:"allocations,omitempty"`
	CreatedAt     time.Time            `json:"createdAt"`
}

// ToPaymentResponse converts a domain.Payment with its live allocations.
func ToPaymentResponse(p *domain.Payment) PaymentResponse {
	allocations := make([]AllocationResponse, 0, len(p.Allocations))
	for _, a := range p.Allocations {
		if a.IsDeleted {
			continue
		}
		allocations = append(allocations, AllocationResponse{
			AllocationID: a.AllocationID,
			InvoiceID:    a.InvoiceID,
			Amount:       a.Amount,
		})
	}
	return PaymentResponse{
		PaymentID:     p.PaymentID,
		PaymentNumber: p.PaymentNumber,
		PaymentType:   p.PaymentType,
		PartyID:       p.PartyID,
		AccountID:     p.AccountID,
		Amount:        p.Amount,
		PaymentDate:   p.PaymentDate,
		Method:        p.Method,
		ReferenceNo:   p.ReferenceNo,
		Notes:         p.Notes,
		Allocations:   allocations,
		CreatedAt:     p.CreatedAt,
	}
}

// ListPaymentsParams defines query parameters for listing payments.
type ListPaymentsParams struct {
	PartyID   string  `form:"partyID"`
	AccountID string  `form:"accountID"`
	Limit     int     `form:"limit,default=20"`
	NextToken *string `form:"nextToken"`
}

// ListPaymentsResponse wraps the paginated payment listing.
type ListPaymentsResponse struct {
	Payments  []PaymentResponse `json:"payments"`
	NextToken *string           `json:"nextToken,omitempty"`
}

// ToListPaymentsResponse converts a slice of domain.Payment.
func ToListPaymentsResponse(payments []domain.Payment, nextToken *string) ListPaymentsResponse {
	res := make([]PaymentResponse, len(payments))
	for i := range payments {
		res[i] = ToPaymentResponse(&payments[i])
	}
	return ListPaymentsResponse{Payments: res, NextToken: nextToken}
}

// RecalculateResponse returns the repaired cached balance.
type RecalculateResponse struct {
	ID      string          `json:"id"`
	Balance decimal.Decimal `json:"balance"`
}
