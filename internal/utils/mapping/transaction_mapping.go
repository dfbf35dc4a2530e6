package mapping

import (
	"github.com/hisab-books/ledger_backend/internal/core/domain"
	"github.com/hisab-books/ledger_backend/internal/models"
)

// ToModelPaymentTransaction converts a party audit row for DB storage.
func ToModelPaymentTransaction(d domain.PaymentTransaction) models.PaymentTransaction {
	return models.PaymentTransaction{
		TransactionID:   d.TransactionID,
		PaymentID:       d.PaymentID,
		PartyID:         d.PartyID,
		PaymentType:     models.PaymentType(d.PaymentType),
		Amount:          d.Amount,
		BalanceBefore:   d.BalanceBefore,
		BalanceAfter:    d.BalanceAfter,
		TransactionDate: d.TransactionDate,
		IsDeleted:       d.IsDeleted,
		AuditFields:     ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainPaymentTransaction converts a party audit row to the domain representation.
func ToDomainPaymentTransaction(m models.PaymentTransaction) domain.PaymentTransaction {
	return domain.PaymentTransaction{
		TransactionID:   m.TransactionID,
		PaymentID:       m.PaymentID,
		PartyID:         m.PartyID,
		PaymentType:     domain.PaymentType(m.PaymentType),
		Amount:          m.Amount,
		BalanceBefore:   m.BalanceBefore,
		BalanceAfter:    m.BalanceAfter,
		TransactionDate: m.TransactionDate,
		IsDeleted:       m.IsDeleted,
		AuditFields:     ToDomainAuditFields(m.AuditFields),
	}
}

// ToModelAccountTransaction converts an account audit row for DB storage.
func ToModelAccountTransaction(d domain.AccountTransaction) models.AccountTransaction {
	return models.AccountTransaction{
		TransactionID:   d.TransactionID,
		AccountID:       d.AccountID,
		PaymentID:       d.PaymentID,
		Amount:          d.Amount,
		Reason:          d.Reason,
		BalanceBefore:   d.BalanceBefore,
		BalanceAfter:    d.BalanceAfter,
		TransactionDate: d.TransactionDate,
		IsDeleted:       d.IsDeleted,
		AuditFields:     ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainAccountTransaction converts an account audit row to the domain representation.
func ToDomainAccountTransaction(m models.AccountTransaction) domain.AccountTransaction {
	return domain.AccountTransaction{
		TransactionID:   m.TransactionID,
		AccountID:       m.AccountID,
		PaymentID:       m.PaymentID,
		Amount:          m.Amount,
		Reason:          m.Reason,
		BalanceBefore:   m.BalanceBefore,
		BalanceAfter:    m.BalanceAfter,
		TransactionDate: m.TransactionDate,
		IsDeleted:       m.IsDeleted,
		AuditFields:     ToDomainAuditFields(m.AuditFields),
	}
}
