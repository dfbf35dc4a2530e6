package dto

import (
	"time"

	"github.com/hisab-books/ledger_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreatePartyRequest defines the data needed to create a new party.
type CreatePartyRequest struct {
	Name           string           `json:"name" binding:"required"`
	PartyType      domain.PartyType `json:"partyType" binding:"required,oneof=CUSTOMER SUPPLIER BOTH"`
	GSTIN          string           `json:"gstin"`
	Phone          string           `json:"phone"`
	Email          string           `json:"email" binding:"omitempty,email"`
	Address        string           `json:"address"`
	StateCode      string           `json:"stateCode"`
	OpeningBalance decimal.Decimal  `json:"openingBalance"`
	MinDueDays     int              `json:"minDueDays" binding:"omitempty,min=0"`
}

// UpdatePartyRequest defines the data allowed for updating a party.
// Pointers distinguish zero-value updates from fields not provided.
type UpdatePartyRequest struct {
	Name       *string `json:"name"`
	GSTIN      *string `json:"gstin"`
	Phone      *string `json:"phone"`
	Email      *string `json:"email" binding:"omitempty,email"`
	Address    *string `json:"address"`
	StateCode  *string `json:"stateCode"`
	MinDueDays *int    `json:"minDueDays" binding:"omitempty,min=0"`
}

// PartyResponse defines the data returned for a party.
type PartyResponse struct {
	PartyID        string           `json:"partyID"`
	Name           string           `json:"name"`
	PartyType      domain.PartyType `json:"partyType"`
	GSTIN          string           `json:"gstin"`
	Phone          string           `json:"phone"`
	Email          string           `json:"email"`
	Address        string           `json:"address"`
	StateCode      string           `json:"stateCode"`
	OpeningBalance decimal.Decimal  `json:"openingBalance"`
	CurrentBalance decimal.Decimal  `json:"currentBalance"`
	MinDueDays     int              `json:"minDueDays"`
	CreatedAt      time.Time        `json:"createdAt"`
	LastUpdatedAt  time.Time        `json:"lastUpdatedAt"`
}

// ToPartyResponse converts a domain.Party to PartyResponse.
func ToPartyResponse(p *domain.Party) PartyResponse {
	return PartyResponse{
		PartyID:        p.PartyID,
		Name:           p.Name,
		PartyType:      p.PartyType,
		GSTIN:          p.GSTIN,
		Phone:          p.Phone,
		Email:          p.Email,
		Address:        p.Address,
		StateCode:      p.StateCode,
		OpeningBalance: p.OpeningBalance,
		CurrentBalance: p.CurrentBalance,
		MinDueDays:     p.MinDueDays,
		CreatedAt:      p.CreatedAt,
		LastUpdatedAt:  p.LastUpdatedAt,
	}
}

// ListPartiesParams defines query parameters for listing parties.
type ListPartiesParams struct {
	Search string `form:"search"`
	Limit  int    `form:"limit,default=20"`
	Offset int    `form:"offset,default=0"`
}

// ListPartiesResponse wraps the list of parties.
type ListPartiesResponse struct {
	Parties []PartyResponse `json:"parties"`
}

// ToListPartiesResponse converts a slice of domain.Party.
func ToListPartiesResponse(parties []domain.Party) ListPartiesResponse {
	res := make([]PartyResponse, len(parties))
	for i := range parties {
		res[i] = ToPartyResponse(&parties[i])
	}
	return ListPartiesResponse{Parties: res}
}

// PartyBalanceResponse returns a party's derived balance and its breakdown.
type PartyBalanceResponse struct {
	PartyID string             `json:"partyID"`
	Balance decimal.Decimal    `json:"balance"`
	Ledger  domain.PartyLedger `json:"ledger"`
}
