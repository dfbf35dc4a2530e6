package mapping

import (
	"github.com/hisab-books/ledger_backend/internal/core/domain"
	"github.com/hisab-books/ledger_backend/internal/models"
)

// ToModelParty converts a domain party for DB storage.
func ToModelParty(d domain.Party) models.Party {
	return models.Party{
		PartyID:        d.PartyID,
		Name:           d.Name,
		PartyType:      models.PartyType(d.PartyType),
		GSTIN:          d.GSTIN,
		Phone:          d.Phone,
		Email:          d.Email,
		Address:        d.Address,
		StateCode:      d.StateCode,
		OpeningBalance: d.OpeningBalance,
		CurrentBalance: d.CurrentBalance,
		MinDueDays:     d.MinDueDays,
		IsDeleted:      d.IsDeleted,
		AuditFields:    ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainParty converts a DB party row to the domain representation.
func ToDomainParty(m models.Party) domain.Party {
	return domain.Party{
		PartyID:        m.PartyID,
		Name:           m.Name,
		PartyType:      domain.PartyType(m.PartyType),
		GSTIN:          m.GSTIN,
		Phone:          m.Phone,
		Email:          m.Email,
		Address:        m.Address,
		StateCode:      m.StateCode,
		OpeningBalance: m.OpeningBalance,
		CurrentBalance: m.CurrentBalance,
		MinDueDays:     m.MinDueDays,
		IsDeleted:      m.IsDeleted,
		AuditFields:    ToDomainAuditFields(m.AuditFields),
	}
}
