package chat

import (
	"context"
	"strings"
	"unicode/utf8"

	"loan-backoffice/internal/domain/apperror"
	domain "loan-backoffice/internal/domain/chat"
	"loan-backoffice/internal/domain/client"
	"loan-backoffice/internal/domain/identity"
)

const maxMessageRunes = 4000

type Usecase struct {
	repo    domain.Repository
	clients client.Repository
	users   identity.Repository
}

func NewUsecase(r domain.Repository, clients client.Repository, users identity.Repository) *Usecase {
	return &Usecase{repo: r, clients: clients, users: users}
}

func (u *Usecase) client(ctx context.Context, a identity.Actor, clientID uint64) (*client.Client, error) {
	c, err := u.clients.GetByID(ctx, clientID)
	if err != nil {
		return nil, apperror.FromRecord(err, "client", clientID)
	}
	if _, err := identity.Authorize(ctx, u.users, a, c.AgentID); err != nil {
		return nil, err
	}
	return c, nil
}

// Append stores one message on the client's thread. The thread belongs to the
// client's agent; OUTGOING is assumed when no direction is given.
func (u *Usecase) Append(ctx context.Context, a identity.Actor, clientID uint64, in AppendInput) (*domain.Message, error) {
	in.Message = strings.TrimSpace(in.Message)
	if in.Message == "" {
		return nil, apperror.Validation("message must not be empty")
	}
	if utf8.RuneCountInString(in.Message) > maxMessageRunes {
		return nil, apperror.Validation("message must be at most %d characters", maxMessageRunes)
	}
	if in.Direction == "" {
		in.Direction = domain.DirectionOutgoing
	}
	if !in.Direction.Valid() {
		return nil, apperror.Validation("direction must be INCOMING or OUTGOING")
	}
	c, err := u.client(ctx, a, clientID)
	if err != nil {
		return nil, err
	}
	m := &domain.Message{ClientID: c.ID, AgentID: c.AgentID, Message: in.Message, Direction: in.Direction}
	if err := u.repo.Create(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

func (u *Usecase) ListByClient(ctx context.Context, a identity.Actor, clientID uint64) ([]domain.Message, error) {
	if _, err := u.client(ctx, a, clientID); err != nil {
		return nil, err
	}
	out, err := u.repo.ListByClient(ctx, clientID)
	if err != nil {
		return nil, err
	}
	if out == nil {
		out = []domain.Message{}
	}
	return out, nil
}
