package uow

import (
	"context"

	"loan-backoffice/internal/domain/cashflow"
	"loan-backoffice/internal/domain/client"
	"loan-backoffice/internal/domain/identity"
	"loan-backoffice/internal/domain/loanrequest"
	"loan-backoffice/internal/domain/transaction"
)

// Repos are bound to the same database transaction.
type Repos struct {
	Users        identity.Repository
	Clients      client.Repository
	LoanRequests loanrequest.Repository
	Transactions transaction.Repository
	CashFlows    cashflow.Repository
}

type UnitOfWork interface {
	// plain tx
	WithinTx(ctx context.Context, fn func(r Repos) error) error
	// lock the loan request row first, then pass it in
	WithinLoanTx(ctx context.Context, loanRequestID uint64, fn func(r Repos, l *loanrequest.LoanRequest) error) error
}
