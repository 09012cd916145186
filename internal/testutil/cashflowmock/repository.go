package cashflowmock

import (
	"context"

	"gorm.io/gorm"

	domain "loan-backoffice/internal/domain/cashflow"
)

var _ domain.Repository = (*Repo)(nil)

// Repo is a function-backed mock. GetClosure defaults to "no closure".
type Repo struct {
	CreateFn            func(ctx context.Context, m *domain.CashFlow) error
	ListFn              func(ctx context.Context, f domain.Filter) ([]domain.CashFlow, error)
	CreateClosureFn     func(ctx context.Context, c *domain.DayClosure) error
	GetClosureFn        func(ctx context.Context, agentID uint64, businessDate string) (*domain.DayClosure, error)
	LastClosureBeforeFn func(ctx context.Context, agentID uint64, businessDate string) (*domain.DayClosure, error)
}

func (m *Repo) Create(ctx context.Context, cf *domain.CashFlow) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, cf)
	}
	return nil
}

func (m *Repo) List(ctx context.Context, f domain.Filter) ([]domain.CashFlow, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx, f)
	}
	return nil, nil
}

func (m *Repo) CreateClosure(ctx context.Context, c *domain.DayClosure) error {
	if m.CreateClosureFn != nil {
		return m.CreateClosureFn(ctx, c)
	}
	return nil
}

func (m *Repo) GetClosure(ctx context.Context, agentID uint64, businessDate string) (*domain.DayClosure, error) {
	if m.GetClosureFn != nil {
		return m.GetClosureFn(ctx, agentID, businessDate)
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *Repo) LastClosureBefore(ctx context.Context, agentID uint64, businessDate string) (*domain.DayClosure, error) {
	if m.LastClosureBeforeFn != nil {
		return m.LastClosureBeforeFn(ctx, agentID, businessDate)
	}
	return nil, gorm.ErrRecordNotFound
}
