package documentmock

import (
	"context"

	"gorm.io/gorm"

	"loan-backoffice/internal/domain/document"
)

var _ document.Repository = (*Repo)(nil)

type Repo struct {
	CreateFn       func(ctx context.Context, d *document.Document) error
	SaveFn         func(ctx context.Context, d *document.Document) error
	GetByIDFn      func(ctx context.Context, id uint64) (*document.Document, error)
	ListByClientFn func(ctx context.Context, clientID uint64) ([]document.Document, error)
	ListFn         func(ctx context.Context, f document.Filter) ([]document.Document, error)
}

func (m *Repo) Create(ctx context.Context, d *document.Document) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, d)
	}
	return nil
}

func (m *Repo) Save(ctx context.Context, d *document.Document) error {
	if m.SaveFn != nil {
		return m.SaveFn(ctx, d)
	}
	return nil
}

func (m *Repo) GetByID(ctx context.Context, id uint64) (*document.Document, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *Repo) ListByClient(ctx context.Context, clientID uint64) ([]document.Document, error) {
	if m.ListByClientFn != nil {
		return m.ListByClientFn(ctx, clientID)
	}
	return nil, nil
}

func (m *Repo) List(ctx context.Context, f document.Filter) ([]document.Document, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx, f)
	}
	return nil, nil
}
