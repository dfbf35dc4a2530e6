package mapping

import (
	"github.com/hisab-books/ledger_backend/internal/core/domain"
	"github.com/hisab-books/ledger_backend/internal/models"
)

// ToModelInvoice converts a domain invoice for DB storage. Items are mapped separately.
func ToModelInvoice(d domain.Invoice) models.Invoice {
	return models.Invoice{
		InvoiceID:     d.InvoiceID,
		InvoiceNumber: d.InvoiceNumber,
		Kind:          models.InvoiceKind(d.Kind),
		PartyID:       d.PartyID,
		InvoiceDate:   d.InvoiceDate,
		DueDate:       d.DueDate,
		Subtotal:      d.Subtotal,
		TaxAmount:     d.TaxAmount,
		TotalAmount:   d.TotalAmount,
		BalanceAmount: d.BalanceAmount,
		Notes:         d.Notes,
		IsCancelled:   d.IsCancelled,
		IsDeleted:     d.IsDeleted,
		AuditFields:   ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainInvoice converts a DB invoice row to the domain representation.
func ToDomainInvoice(m models.Invoice) domain.Invoice {
	return domain.Invoice{
		InvoiceID:     m.InvoiceID,
		InvoiceNumber: m.InvoiceNumber,
		Kind:          domain.InvoiceKind(m.Kind),
		PartyID:       m.PartyID,
		InvoiceDate:   m.InvoiceDate,
		DueDate:       m.DueDate,
		Subtotal:      m.Subtotal,
		TaxAmount:     m.TaxAmount,
		TotalAmount:   m.TotalAmount,
		BalanceAmount: m.BalanceAmount,
		Notes:         m.Notes,
		IsCancelled:   m.IsCancelled,
		IsDeleted:     m.IsDeleted,
		AuditFields:   ToDomainAuditFields(m.AuditFields),
	}
}

// ToModelInvoiceItem converts a domain invoice line for DB storage.
func ToModelInvoiceItem(d domain.InvoiceItem) models.InvoiceItem {
	return models.InvoiceItem{
		ItemID:      d.ItemID,
		InvoiceID:   d.InvoiceID,
		Description: d.Description,
		HSNCode:     d.HSNCode,
		Quantity:    d.Quantity,
		UnitPrice:   d.UnitPrice,
		GSTRate:     d.GSTRate,
		TaxAmount:   d.TaxAmount,
		LineTotal:   d.LineTotal,
	}
}

// ToDomainInvoiceItem converts a DB invoice line to the domain representation.
func ToDomainInvoiceItem(m models.InvoiceItem) domain.InvoiceItem {
	return domain.InvoiceItem{
		ItemID:      m.ItemID,
		InvoiceID:   m.InvoiceID,
		Description: m.Description,
		HSNCode:     m.HSNCode,
		Quantity:    m.Quantity,
		UnitPrice:   m.UnitPrice,
		GSTRate:     m.GSTRate,
		TaxAmount:   m.TaxAmount,
		LineTotal:   m.LineTotal,
	}
}
