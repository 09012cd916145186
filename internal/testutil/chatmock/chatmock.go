package chatmock

import (
	"context"

	"loan-backoffice/internal/domain/chat"
)

var _ chat.Repository = (*Repo)(nil)

type Repo struct {
	CreateFn       func(ctx context.Context, m *chat.Message) error
	ListByClientFn func(ctx context.Context, clientID uint64) ([]chat.Message, error)
}

func (m *Repo) Create(ctx context.Context, msg *chat.Message) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, msg)
	}
	return nil
}

func (m *Repo) ListByClient(ctx context.Context, clientID uint64) ([]chat.Message, error) {
	if m.ListByClientFn != nil {
		return m.ListByClientFn(ctx, clientID)
	}
	return nil, nil
}
