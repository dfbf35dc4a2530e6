package dto

import (
	"time"

	"github.com/hisab-books/ledger_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// InvoiceItemRequest is a single line on an invoice being created.
type InvoiceItemRequest struct {
	Description string          `json:"description" binding:"required"`
	HSNCode     string          `json:"hsnCode"`
	Quantity    decimal.Decimal `json:"quantity" binding:"required"`
	UnitPrice   decimal.Decimal `json:"unitPrice" binding:"required"`
	GSTRate     decimal.Decimal `json:"gstRate"`
}

// CreateInvoiceRequest defines the data needed to create an invoice.
// Tax splits into CGST/SGST or IGST based on the party's state code.
type CreateInvoiceRequest struct {
	Kind         domain.InvoiceKind   `json:"kind" binding:"required,oneof=SALES PURCHASE"`
	PartyID      string               `json:"partyID" binding:"required"`
	InvoiceDate  time.Time            `json:"invoiceDate" binding:"required"`
	DueDate      time.Time            `json:"dueDate"`
	Notes        string               `json:"notes"`
	TaxInclusive bool                 `json:"taxInclusive"` // Unit prices already include GST
	Items        []InvoiceItemRequest `json:"items" binding:"required,min=1,dive"`
}

// InvoiceItemResponse defines the data returned for an invoice line.
type InvoiceItemResponse struct {
	ItemID      string          `json:"itemID"`
	Description string          `json:"description"`
	HSNCode     string          `json:"hsnCode"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
	GSTRate     decimal.Decimal `json:"gstRate"`
	TaxAmount   decimal.Decimal `json:"taxAmount"`
	LineTotal   decimal.Decimal `json:"lineTotal"`
}

// InvoiceResponse defines the data returned for an invoice.
type InvoiceResponse struct {
	InvoiceID     string                `json:"invoiceID"`
	InvoiceNumber string                `json:"invoiceNumber"`
	Kind          domain.InvoiceKind    `json:"kind"`
	PartyID       string                `json:"partyID"`
	InvoiceDate   time.Time             `json:"invoiceDate"`
	DueDate       time.Time             `json:"dueDate"`
	Subtotal      decimal.Decimal       `json:"subtotal"`
	TaxAmount     decimal.Decimal       `json:"taxAmount"`
	TotalAmount   decimal.Decimal       `json:"totalAmount"`
	BalanceAmount decimal.Decimal       `json:"balanceAmount"`
	Notes         string                `json:"notes"`
	IsCancelled   bool                  `json:"isCancelled"`
	Items         []InvoiceItemResponse `json:"items,omitempty"`
	CreatedAt     time.Time             `json:"createdAt"`
}

// ToInvoiceResponse converts a domain.Invoice (with items, if loaded).
func ToInvoiceResponse(inv *domain.Invoice) InvoiceResponse {
	items := make([]InvoiceItemResponse, len(inv.Items))
	for i, it := range inv.Items {
		items[i] = InvoiceItemResponse{
			ItemID:      it.ItemID,
			Description: it.Description,
			HSNCode:     it.HSNCode,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
			GSTRate:     it.GSTRate,
			TaxAmount:   it.TaxAmount,
			LineTotal:   it.LineTotal,
		}
	}
	return InvoiceResponse{
		InvoiceID:     inv.InvoiceID,
		InvoiceNumber: inv.InvoiceNumber,
		Kind:          inv.Kind,
		PartyID:       inv.PartyID,
		InvoiceDate:   inv.InvoiceDate,
		DueDate:       inv.DueDate,
		Subtotal:      inv.Subtotal,
		TaxAmount:     inv.TaxAmount,
		TotalAmount:   inv.TotalAmount,
		BalanceAmount: inv.BalanceAmount,
		Notes:         inv.Notes,
		IsCancelled:   inv.IsCancelled,
		Items:         items,
		CreatedAt:     inv.CreatedAt,
	}
}

// ListInvoicesParams defines query parameters for listing invoices.
type ListInvoicesParams struct {
	PartyID         string  `form:"partyID"`
	Limit           int     `form:"limit,default=20"`
	NextToken       *string `form:"nextToken"`
	OutstandingOnly bool    `form:"outstandingOnly"`
}

// ListInvoicesResponse wraps the paginated invoice listing.
type ListInvoicesResponse struct {
	Invoices  []InvoiceResponse `json:"invoices"`
	NextToken *string           `json:"nextToken,omitempty"`
}

// ToListInvoicesResponse converts a slice of domain.Invoice.
func ToListInvoicesResponse(invoices []domain.Invoice, nextToken *string) ListInvoicesResponse {
	res := make([]InvoiceResponse, len(invoices))
	for i := range invoices {
		res[i] = ToInvoiceResponse(&invoices[i])
	}
	return ListInvoicesResponse{Invoices: res, NextToken: nextToken}
}
