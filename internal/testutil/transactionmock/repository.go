package transactionmock

import (
	"context"

	domain "loan-backoffice/internal/domain/transaction"
)

var _ domain.Repository = (*Repo)(nil)

type Repo struct {
	CreateFn            func(ctx context.Context, t *domain.Transaction) error
	ListByLoanRequestFn func(ctx context.Context, loanRequestID uint64) ([]domain.Transaction, error)
	SumByLoanRequestFn  func(ctx context.Context, loanRequestID uint64, typ domain.Type) (int64, error)
	ListFn              func(ctx context.Context, f domain.Filter) ([]domain.Transaction, error)
}

func (m *Repo) Create(ctx context.Context, t *domain.Transaction) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, t)
	}
	return nil
}

func (m *Repo) ListByLoanRequest(ctx context.Context, loanRequestID uint64) ([]domain.Transaction, error) {
	if m.ListByLoanRequestFn != nil {
		return m.ListByLoanRequestFn(ctx, loanRequestID)
	}
	return nil, nil
}

func (m *Repo) SumByLoanRequest(ctx context.Context, loanRequestID uint64, typ domain.Type) (int64, error) {
	if m.SumByLoanRequestFn != nil {
		return m.SumByLoanRequestFn(ctx, loanRequestID, typ)
	}
	return 0, nil
}

func (m *Repo) List(ctx context.Context, f domain.Filter) ([]domain.Transaction, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx, f)
	}
	return nil, nil
}
