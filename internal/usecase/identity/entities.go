package identity

import domain "loan-backoffice/internal/domain/identity"

type CreateBranchInput struct {
	Name             string `json:"name"`
	CountryISO2      string `json:"countryIso2"`
	PhoneCountryCode string `json:"phoneCountryCode"`
	AcceptsInbound   bool   `json:"acceptsInbound"`
}

type CreateUserInput struct {
	Name        string      `json:"name"`
	Email       string      `json:"email"`
	Password    string      `json:"password"`
	Role        domain.Role `json:"role"`
	BranchID    uint64      `json:"branchId"`
	FundedLimit int64       `json:"fundedLimit"`
}

// BranchDTO is a branch plus its agent roster.
type BranchDTO struct {
	domain.Branch
	Agents []domain.User `json:"agents"`
}
