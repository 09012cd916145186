package document

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"loan-backoffice/internal/domain/apperror"
	"loan-backoffice/internal/domain/client"
	domain "loan-backoffice/internal/domain/document"
	"loan-backoffice/internal/domain/identity"
	"loan-backoffice/internal/testutil/clientmock"
	"loan-backoffice/internal/testutil/documentmock"
	"loan-backoffice/internal/testutil/identitymock"
)

var (
	owner    = identity.Actor{UserID: 3, Role: identity.RoleAgent, BranchID: 1}
	stranger = identity.Actor{UserID: 4, Role: identity.RoleAgent, BranchID: 1}
)

func deps() (*clientmock.Repo, *identitymock.Repo) {
	clients := &clientmock.Repo{GetByIDFn: func(_ context.Context, id uint64) (*client.Client, error) {
		if id == 10 {
			return &client.Client{ID: 10, AgentID: 3}, nil
		}
		return nil, gorm.ErrRecordNotFound
	}}
	users := &identitymock.Repo{GetUserFn: func(_ context.Context, id uint64) (*identity.User, error) {
		return &identity.User{ID: id, Role: identity.RoleAgent, BranchID: 1}, nil
	}}
	return clients, users
}

func TestRegister(t *testing.T) {
	var stored *domain.Document
	clients, users := deps()
	uc := NewUsecase(&documentmock.Repo{CreateFn: func(_ context.Context, d *domain.Document) error {
		d.ID = 1
		stored = d
		return nil
	}}, clients, users)

	d, err := uc.Register(context.Background(), owner, 10, RegisterInput{MimeType: " application/pdf ", URL: "https://files.example.com/a.pdf"})
	require.NoError(t, err)
	assert.Equal(t, domain.CategoryOther, d.Category)
	assert.Equal(t, "application/pdf", stored.MimeType)
	assert.Equal(t, uint64(10), stored.ClientID)
}

func TestRegister_Rules(t *testing.T) {
	clients, users := deps()
	uc := NewUsecase(&documentmock.Repo{}, clients, users)
	ok := RegisterInput{MimeType: "image/png", URL: "https://files.example.com/a.png", Category: domain.CategoryID}

	tests := []struct {
		name     string
		actor    identity.Actor
		clientID uint64
		edit     func(*RegisterInput)
		want     error
	}{
		{"mime", owner, 10, func(in *RegisterInput) { in.MimeType = "png" }, apperror.ErrValidation},
		{"relative url", owner, 10, func(in *RegisterInput) { in.URL = "files/a.png" }, apperror.ErrValidation},
		{"ftp url", owner, 10, func(in *RegisterInput) { in.URL = "ftp://files.example.com/a.png" }, apperror.ErrValidation},
		{"category", owner, 10, func(in *RegisterInput) { in.Category = "SELFIE" }, apperror.ErrValidation},
		{"other agent", stranger, 10, func(*RegisterInput) {}, apperror.ErrForbidden},
		{"unknown client", owner, 11, func(*RegisterInput) {}, apperror.ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := ok
			tt.edit(&in)
			_, err := uc.Register(context.Background(), tt.actor, tt.clientID, in)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestListByClient_NeverNil(t *testing.T) {
	clients, users := deps()
	uc := NewUsecase(&documentmock.Repo{}, clients, users)
	docs, err := uc.ListByClient(context.Background(), owner, 10)
	require.NoError(t, err)
	assert.NotNil(t, docs)
	assert.Empty(t, docs)
}

func TestUpdateCategory(t *testing.T) {
	clients, users := deps()
	saves := 0
	repo := &documentmock.Repo{
		GetByIDFn: func(_ context.Context, id uint64) (*domain.Document, error) {
			return &domain.Document{ID: id, ClientID: 10, Category: domain.CategoryOther}, nil
		},
		SaveFn: func(context.Context, *domain.Document) error { saves++; return nil },
	}
	uc := NewUsecase(repo, clients, users)
	ctx := context.Background()

	d, err := uc.UpdateCategory(ctx, owner, 5, domain.CategoryUtilityBill)
	require.NoError(t, err)
	assert.Equal(t, domain.CategoryUtilityBill, d.Category)
	assert.Equal(t, 1, saves)

	_, err = uc.UpdateCategory(ctx, owner, 5, domain.CategoryOther)
	require.NoError(t, err)
	assert.Equal(t, 1, saves, "unchanged category is not written")

	_, err = uc.UpdateCategory(ctx, stranger, 5, domain.CategoryID)
	assert.ErrorIs(t, err, apperror.ErrForbidden)

	_, err = uc.UpdateCategory(ctx, owner, 5, "SELFIE")
	assert.ErrorIs(t, err, apperror.ErrValidation)

	_, err = NewUsecase(&documentmock.Repo{}, clients, users).UpdateCategory(ctx, owner, 6, domain.CategoryID)
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}
