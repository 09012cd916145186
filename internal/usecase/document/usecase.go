package document

import (
	"context"
	"net/url"
	"strings"

	"loan-backoffice/internal/domain/apperror"
	"loan-backoffice/internal/domain/client"
	domain "loan-backoffice/internal/domain/document"
	"loan-backoffice/internal/domain/identity"
	"loan-backoffice/pkg/logger"
)

type Usecase struct {
	repo    domain.Repository
	clients client.Repository
	users   identity.Repository
}

func NewUsecase(r domain.Repository, clients client.Repository, users identity.Repository) *Usecase {
	return &Usecase{repo: r, clients: clients, users: users}
}

func (u *Usecase) authorizeClient(ctx context.Context, a identity.Actor, clientID uint64) error {
	c, err := u.clients.GetByID(ctx, clientID)
	if err != nil {
		return apperror.FromRecord(err, "client", clientID)
	}
	_, err = identity.Authorize(ctx, u.users, a, c.AgentID)
	return err
}

func (u *Usecase) Register(ctx context.Context, a identity.Actor, clientID uint64, in RegisterInput) (*domain.Document, error) {
	in.MimeType = strings.TrimSpace(in.MimeType)
	if !strings.Contains(in.MimeType, "/") {
		return nil, apperror.Validation("mimeType must look like type/subtype")
	}
	if ref, err := url.ParseRequestURI(in.URL); err != nil || (ref.Scheme != "http" && ref.Scheme != "https") {
		return nil, apperror.Validation("url must be an absolute http(s) URL")
	}
	if in.Category == "" {
		in.Category = domain.CategoryOther
	}
	if !in.Category.Valid() {
		return nil, apperror.Validation("unknown document category %q", in.Category)
	}
	if err := u.authorizeClient(ctx, a, clientID); err != nil {
		return nil, err
	}

	d := &domain.Document{ClientID: clientID, MimeType: in.MimeType, URL: in.URL, Category: in.Category}
	if err := u.repo.Create(ctx, d); err != nil {
		return nil, err
	}
	logger.Info(ctx, "document registered", "document_id", d.ID, "client_id", clientID, "category", d.Category)
	return d, nil
}

func (u *Usecase) ListByClient(ctx context.Context, a identity.Actor, clientID uint64) ([]domain.Document, error) {
	if err := u.authorizeClient(ctx, a, clientID); err != nil {
		return nil, err
	}
	out, err := u.repo.ListByClient(ctx, clientID)
	if err != nil {
		return nil, err
	}
	if out == nil {
		out = []domain.Document{}
	}
	return out, nil
}

// UpdateCategory reclassifies a document; nothing else about it is mutable.
func (u *Usecase) UpdateCategory(ctx context.Context, a identity.Actor, id uint64, cat domain.Category) (*domain.Document, error) {
	if !cat.Valid() {
		return nil, apperror.Validation("unknown document category %q", cat)
	}
	d, err := u.repo.GetByID(ctx, id)
	if err != nil {
		return nil, apperror.FromRecord(err, "document", id)
	}
	if err := u.authorizeClient(ctx, a, d.ClientID); err != nil {
		return nil, err
	}
	if d.Category == cat {
		return d, nil
	}
	d.Category = cat
	if err := u.repo.Save(ctx, d); err != nil {
		return nil, err
	}
	return d, nil
}
