package loanrequestmock

import (
	"context"

	"gorm.io/gorm"

	domain "loan-backoffice/internal/domain/loanrequest"
)

var _ domain.Repository = (*Repo)(nil)

// Repo is a function-backed mock that satisfies domain.Repository.
// Unset writers are no-ops; unset readers report gorm.ErrRecordNotFound.
type Repo struct {
	CreateFn                    func(ctx context.Context, l *domain.LoanRequest) error
	SaveFn                      func(ctx context.Context, l *domain.LoanRequest) error
	GetByIDFn                   func(ctx context.Context, id uint64) (*domain.LoanRequest, error)
	GetByIDForUpdateFn          func(ctx context.Context, id uint64) (*domain.LoanRequest, error)
	GetOpenByClientIDFn         func(ctx context.Context, clientID uint64) (*domain.LoanRequest, error)
	ListByClientIDFn            func(ctx context.Context, clientID uint64) ([]domain.LoanRequest, error)
	ListFn                      func(ctx context.Context, f domain.Filter) ([]domain.LoanRequest, error)
	SumFundedPrincipalByAgentFn func(ctx context.Context, agentID uint64) (int64, error)
}

func (m *Repo) Create(ctx context.Context, l *domain.LoanRequest) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, l)
	}
	return nil
}

func (m *Repo) Save(ctx context.Context, l *domain.LoanRequest) error {
	if m.SaveFn != nil {
		return m.SaveFn(ctx, l)
	}
	return nil
}

func (m *Repo) GetByID(ctx context.Context, id uint64) (*domain.LoanRequest, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *Repo) GetByIDForUpdate(ctx context.Context, id uint64) (*domain.LoanRequest, error) {
	if m.GetByIDForUpdateFn != nil {
		return m.GetByIDForUpdateFn(ctx, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *Repo) GetOpenByClientID(ctx context.Context, clientID uint64) (*domain.LoanRequest, error) {
	if m.GetOpenByClientIDFn != nil {
		return m.GetOpenByClientIDFn(ctx, clientID)
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *Repo) ListByClientID(ctx context.Context, clientID uint64) ([]domain.LoanRequest, error) {
	if m.ListByClientIDFn != nil {
		return m.ListByClientIDFn(ctx, clientID)
	}
	return nil, nil
}

func (m *Repo) List(ctx context.Context, f domain.Filter) ([]domain.LoanRequest, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx, f)
	}
	return nil, nil
}

func (m *Repo) SumFundedPrincipalByAgent(ctx context.Context, agentID uint64) (int64, error) {
	if m.SumFundedPrincipalByAgentFn != nil {
		return m.SumFundedPrincipalByAgentFn(ctx, agentID)
	}
	return 0, nil
}
