package loanrequest

import (
	domain "loan-backoffice/internal/domain/loanrequest"
)

type CreateInput struct {
	ClientID        uint64            `json:"clientId"`
	AgentID         *uint64           `json:"agentId"`
	RequestedAmount int64             `json:"requestedAmount"`
	Amount          *int64            `json:"amount"`
	PaymentDay      domain.PaymentDay `json:"paymentDay"`
	Type            domain.Type       `json:"type"`
	EndDateAt       string            `json:"endDateAt"` // YYYY-MM-DD
	Status          *domain.Status    `json:"status"`
}

// UpdateInput is a partial update. Amount pins a manual total; a
// RequestedAmount edit alone recomputes the total unless one was pinned.
type UpdateInput struct {
	RequestedAmount *int64             `json:"requestedAmount"`
	Amount          *int64             `json:"amount"`
	PaymentDay      *domain.PaymentDay `json:"paymentDay"`
	Type            *domain.Type       `json:"type"`
	EndDateAt       *string            `json:"endDateAt"`
	Status          *domain.Status     `json:"status"`
	RejectionNote   *string            `json:"rejectionNote"`
}

func (in UpdateInput) touchesTerms() bool {
	return in.RequestedAmount != nil || in.Amount != nil || in.PaymentDay != nil ||
		in.Type != nil || in.EndDateAt != nil
}

type RenewInput struct {
	NewCapital int64             `json:"newCapital"`
	Amount     *int64            `json:"amount"`
	PaymentDay domain.PaymentDay `json:"paymentDay"`
	Type       domain.Type       `json:"type"`
	EndDateAt  string            `json:"endDateAt"`
}

// LoanRequestDTO is a loan request with its computed position.
type LoanRequestDTO struct {
	domain.LoanRequest
	Balance        int64   `json:"balance"`
	PercentagePaid float64 `json:"percentagePaid"`
}

func toDTO(l *domain.LoanRequest) *LoanRequestDTO {
	return &LoanRequestDTO{LoanRequest: *l, Balance: l.Balance(), PercentagePaid: l.PercentagePaid()}
}

type RenewResult struct {
	Previous       *LoanRequestDTO `json:"previous"`
	Continuation   *LoanRequestDTO `json:"continuation"`
	CarriedBalance int64           `json:"carriedBalance"`
}
