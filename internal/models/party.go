package models

import (
	"github.com/shopspring/decimal"
)

// PartyType classifies a party by the direction of business done with them.
type PartyType string

const (
	Customer PartyType = "CUSTOMER"
	Supplier PartyType = "SUPPLIER"
	Both     PartyType = "BOTH"
)

// Party is the database representation of a customer/supplier.
type Party struct {
	PartyID        string          `db:"party_id"`
	Name           string          `db:"name"`
	PartyType      PartyType       `db:"party_type"`
	GSTIN          string          `db:"gstin"`
	Phone          string          `db:"phone"`
	Email          string          `db:"email"`
	Address        string          `db:"address"`
	StateCode      string          `db:"state_code"`
	OpeningBalance decimal.Decimal `db:"opening_balance"`
	CurrentBalance decimal.Decimal `db:"current_balance"`
	MinDueDays     int             `db:"min_due_days"`
	IsDeleted      bool            `db:"is_deleted"`
	AuditFields
}
