package identity

import "context"

type UserFilter struct {
	BranchID *uint64
	Role     *Role
}

type Repository interface {
	CreateBranch(ctx context.Context, b *Branch) error
	SaveBranch(ctx context.Context, b *Branch) error
	GetBranch(ctx context.Context, id uint64) (*Branch, error)
	ListBranches(ctx context.Context) ([]Branch, error)

	CreateUser(ctx context.Context, u *User) error
	GetUser(ctx context.Context, id uint64) (*User, error)
	// Locks the user row until the surrounding transaction ends.
	GetUserForUpdate(ctx context.Context, id uint64) (*User, error)
	GetUserByEmail(ctx context.Context, email string) (*User, error)
	ListUsers(ctx context.Context, f UserFilter) ([]User, error)
}
