package transaction

import (
	"context"
	"time"
)

// Filter narrows ledger listings; branch and agent go through the loan request owner.
type Filter struct {
	LoanRequestID *uint64
	ClientID      *uint64
	AgentID       *uint64
	BranchID      *uint64
	Types         []Type
	From          *time.Time // inclusive
	To            *time.Time // exclusive
}

type Repository interface {
	Create(ctx context.Context, t *Transaction) error
	ListByLoanRequest(ctx context.Context, loanRequestID uint64) ([]Transaction, error)
	SumByLoanRequest(ctx context.Context, loanRequestID uint64, typ Type) (int64, error)
	List(ctx context.Context, f Filter) ([]Transaction, error)
}
