package mapping

import (
	"github.com/hisab-books/ledger_backend/internal/core/domain"
	"github.com/hisab-books/ledger_backend/internal/models"
)

// ToModelAccount converts a domain account for DB storage.
func ToModelAccount(d domain.Account) models.Account {
	return models.Account{
		AccountID:      d.AccountID,
		Name:           d.Name,
		AccountType:    models.AccountType(d.AccountType),
		AccountNumber:  d.AccountNumber,
		IFSC:           d.IFSC,
		OpeningBalance: d.OpeningBalance,
		CurrentBalance: d.CurrentBalance,
		IsDeleted:      d.IsDeleted,
		AuditFields:    ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainAccount converts a DB account row to the domain representation.
func ToDomainAccount(m models.Account) domain.Account {
	return domain.Account{
		AccountID:      m.AccountID,
		Name:           m.Name,
		AccountType:    domain.AccountType(m.AccountType),
		AccountNumber:  m.AccountNumber,
		IFSC:           m.IFSC,
		OpeningBalance: m.OpeningBalance,
		CurrentBalance: m.CurrentBalance,
		IsDeleted:      m.IsDeleted,
		AuditFields:    ToDomainAuditFields(m.AuditFields),
	}
}
