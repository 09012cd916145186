package clientmock

import (
	"context"

	"gorm.io/gorm"

	domain "loan-backoffice/internal/domain/client"
)

var _ domain.Repository = (*Repo)(nil)

type Repo struct {
	CreateFn  func(ctx context.Context, c *domain.Client) error
	SaveFn    func(ctx context.Context, c *domain.Client) error
	GetByIDFn func(ctx context.Context, id uint64) (*domain.Client, error)
	ListFn    func(ctx context.Context, f domain.Filter) ([]domain.Client, error)
}

func (m *Repo) Create(ctx context.Context, c *domain.Client) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, c)
	}
	return nil
}

func (m *Repo) Save(ctx context.Context, c *domain.Client) error {
	if m.SaveFn != nil {
		return m.SaveFn(ctx, c)
	}
	return nil
}

func (m *Repo) GetByID(ctx context.Context, id uint64) (*domain.Client, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *Repo) List(ctx context.Context, f domain.Filter) ([]domain.Client, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx, f)
	}
	return nil, nil
}
