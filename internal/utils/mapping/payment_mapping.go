package mapping

import (
	"github.com/hisab-books/ledger_backend/internal/core/domain"
	"github.com/hisab-books/ledger_backend/internal/models"
)

// ToModelPayment converts a domain payment for DB storage. Allocations are mapped separately.
func ToModelPayment(d domain.Payment) models.Payment {
	return models.Payment{
		PaymentID:     d.PaymentID,
		PaymentNumber: d.PaymentNumber,
		PaymentType:   models.PaymentType(d.PaymentType),
		PartyID:       d.PartyID,
		AccountID:     d.AccountID,
		Amount:        d.Amount,
		PaymentDate:   d.PaymentDate,
		Method:        string(d.Method),
		ReferenceNo:   d.ReferenceNo,
		Notes:         d.Notes,
		IsDeleted:     d.IsDeleted,
		AuditFields:   ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainPayment converts a DB payment row to the domain representation.
func ToDomainPayment(m models.Payment) domain.Payment {
	return domain.Payment{
		PaymentID:     m.PaymentID,
		PaymentNumber: m.PaymentNumber,
		PaymentType:   domain.PaymentType(m.PaymentType),
		PartyID:       m.PartyID,
		AccountID:     m.AccountID,
		Amount:        m.Amount,
		PaymentDate:   m.PaymentDate,
		Method:        domain.PaymentMethod(m.Method),
		ReferenceNo:   m.ReferenceNo,
		Notes:         m.Notes,
		IsDeleted:     m.IsDeleted,
		AuditFields:   ToDomainAuditFields(m.AuditFields),
	}
}

// ToModelAllocation converts a domain allocation for DB storage.
func ToModelAllocation(d domain.PaymentAllocation) models.PaymentAllocation {
	return models.PaymentAllocation{
		AllocationID: d.AllocationID,
		PaymentID:    d.PaymentID,
		InvoiceID:    d.InvoiceID,
		Amount:       d.Amount,
		IsDeleted:    d.IsDeleted,
	}
}

// ToDomainAllocation converts a DB allocation row to the domain representation.
func ToDomainAllocation(m models.PaymentAllocation) domain.PaymentAllocation {
	return domain.PaymentAllocation{
		AllocationID: m.AllocationID,
		PaymentID:    m.PaymentID,
		InvoiceID:    m.InvoiceID,
		Amount:       m.Amount,
		IsDeleted:    m.IsDeleted,
	}
}
