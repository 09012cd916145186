package loanrequest

import (
	"context"
	"time"
)

// Filter narrows loan request listings. Nil / empty fields are not applied.
// Branch filtering goes through the owning agent.
type Filter struct {
	IDs         []uint64
	BranchID    *uint64
	AgentID     *uint64
	ClientID    *uint64
	Statuses    []Status
	CreatedFrom *time.Time
	CreatedTo   *time.Time
	FundedFrom  *time.Time
	FundedTo    *time.Time
	EndBefore   *time.Time
}

type Repository interface {
	Create(ctx context.Context, l *LoanRequest) error
	Save(ctx context.Context, l *LoanRequest) error
	GetByID(ctx context.Context, id uint64) (*LoanRequest, error)
	// Locks the row until the surrounding transaction ends.
	GetByIDForUpdate(ctx context.Context, id uint64) (*LoanRequest, error)
	// Most recent non-terminal request of the client.
	GetOpenByClientID(ctx context.Context, clientID uint64) (*LoanRequest, error)
	ListByClientID(ctx context.Context, clientID uint64) ([]LoanRequest, error)
	List(ctx context.Context, f Filter) ([]LoanRequest, error)
	// Σ requested_amount of the agent's FUNDED requests.
	SumFundedPrincipalByAgent(ctx context.Context, agentID uint64) (int64, error)
}
