package domain

import (
	"github.com/shopspring/decimal"
)

// PartyType classifies a party by the direction of business done with them.
type PartyType string

const (
	Customer PartyType = "CUSTOMER"
	Supplier PartyType = "SUPPLIER"
	// Both marks a party that is invoiced as a customer and billed as a supplier.
	Both PartyType = "BOTH"
)

// Party represents a customer, a supplier, or both.
//
// CurrentBalance is a cached running balance. It must stay re-derivable from the
// party's invoices and payments at all times: positive means the party owes the
// business (receivable), negative means the business owes the party (payable).
type Party struct {
	PartyID        string          `json:"partyID"` // Primary key (UUID)
	Name           string          `json:"name"`
	PartyType      PartyType       `json:"partyType"`
	GSTIN          string          `json:"gstin"` // Nullable GST registration number
	Phone          string          `json:"phone"`
	Email          string          `json:"email"`
	Address        string          `json:"address"`
	StateCode      string          `json:"stateCode"` // GST state code, drives CGST/SGST vs IGST
	OpeningBalance decimal.Decimal `json:"openingBalance"`
	CurrentBalance decimal.Decimal `json:"currentBalance"` // Cached, derived
	MinDueDays     int             `json:"minDueDays"`     // Days before an unpaid invoice counts as overdue
	IsDeleted      bool            `json:"isDeleted"`
	AuditFields
}

// IsCustomer reports whether sales invoices may be raised against the party.
func (p Party) IsCustomer() bool {
	return p.PartyType == Customer || p.PartyType == Both
}

// IsSupplier reports whether purchase invoices may be recorded against the party.
func (p Party) IsSupplier() bool {
	return p.PartyType == Supplier || p.PartyType == Both
}
