package identitymock

import (
	"context"

	"gorm.io/gorm"

	domain "loan-backoffice/internal/domain/identity"
)

var _ domain.Repository = (*Repo)(nil)

// Repo is a function-backed mock that satisfies domain.Repository.
type Repo struct {
	CreateBranchFn     func(ctx context.Context, b *domain.Branch) error
	SaveBranchFn       func(ctx context.Context, b *domain.Branch) error
	GetBranchFn        func(ctx context.Context, id uint64) (*domain.Branch, error)
	ListBranchesFn     func(ctx context.Context) ([]domain.Branch, error)
	CreateUserFn       func(ctx context.Context, u *domain.User) error
	GetUserFn          func(ctx context.Context, id uint64) (*domain.User, error)
	GetUserForUpdateFn func(ctx context.Context, id uint64) (*domain.User, error)
	GetUserByEmailFn   func(ctx context.Context, email string) (*domain.User, error)
	ListUsersFn        func(ctx context.Context, f domain.UserFilter) ([]domain.User, error)
}

func (m *Repo) CreateBranch(ctx context.Context, b *domain.Branch) error {
	if m.CreateBranchFn != nil {
		return m.CreateBranchFn(ctx, b)
	}
	return nil
}

func (m *Repo) SaveBranch(ctx context.Context, b *domain.Branch) error {
	if m.SaveBranchFn != nil {
		return m.SaveBranchFn(ctx, b)
	}
	return nil
}

func (m *Repo) GetBranch(ctx context.Context, id uint64) (*domain.Branch, error) {
	if m.GetBranchFn != nil {
		return m.GetBranchFn(ctx, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *Repo) ListBranches(ctx context.Context) ([]domain.Branch, error) {
	if m.ListBranchesFn != nil {
		return m.ListBranchesFn(ctx)
	}
	return nil, nil
}

func (m *Repo) CreateUser(ctx context.Context, u *domain.User) error {
	if m.CreateUserFn != nil {
		return m.CreateUserFn(ctx, u)
	}
	return nil
}

func (m *Repo) GetUser(ctx context.Context, id uint64) (*domain.User, error) {
	if m.GetUserFn != nil {
		return m.GetUserFn(ctx, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *Repo) GetUserForUpdate(ctx context.Context, id uint64) (*domain.User, error) {
	if m.GetUserForUpdateFn != nil {
		return m.GetUserForUpdateFn(ctx, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *Repo) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	if m.GetUserByEmailFn != nil {
		return m.GetUserByEmailFn(ctx, email)
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *Repo) ListUsers(ctx context.Context, f domain.UserFilter) ([]domain.User, error) {
	if m.ListUsersFn != nil {
		return m.ListUsersFn(ctx, f)
	}
	return nil, nil
}
