package mysql

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"loan-backoffice/internal/domain/identity"
)

type IdentityRepository struct{ db *gorm.DB }

func NewIdentityRepository(db *gorm.DB) *IdentityRepository { return &IdentityRepository{db: db} }

func (r *IdentityRepository) CreateBranch(ctx context.Context, b *identity.Branch) error {
	return r.db.WithContext(ctx).Create(b).Error
}

func (r *IdentityRepository) SaveBranch(ctx context.Context, b *identity.Branch) error {
	return r.db.WithContext(ctx).Save(b).Error
}

func (r *IdentityRepository) GetBranch(ctx context.Context, id uint64) (*identity.Branch, error) {
	var out identity.Branch
	res := r.db.WithContext(ctx).Where("id = ?", id).First(&out)
	return &out, res.Error
}

func (r *IdentityRepository) ListBranches(ctx context.Context) ([]identity.Branch, error) {
	var out []identity.Branch
	res := r.db.WithContext(ctx).Order("id ASC").Find(&out)
	return out, res.Error
}

// CreateUser maps a unique-email violation to identity.ErrDuplicateEmail.
func (r *IdentityRepository) CreateUser(ctx context.Context, u *identity.User) error {
	err := r.db.WithContext(ctx).Create(u).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return identity.ErrDuplicateEmail
	}
	return err
}

func (r *IdentityRepository) GetUser(ctx context.Context, id uint64) (*identity.User, error) {
	var out identity.User
	res := r.db.WithContext(ctx).Where("id = ?", id).First(&out)
	return &out, res.Error
}

func (r *IdentityRepository) GetUserForUpdate(ctx context.Context, id uint64) (*identity.User, error) {
	var out identity.User
	res := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		First(&out)
	return &out, res.Error
}

func (r *IdentityRepository) GetUserByEmail(ctx context.Context, email string) (*identity.User, error) {
	var out identity.User
	res := r.db.WithContext(ctx).Where("email = ?", email).First(&out)
	return &out, res.Error
}

func (r *IdentityRepository) ListUsers(ctx context.Context, f identity.UserFilter) ([]identity.User, error) {
	q := r.db.WithContext(ctx).Model(&identity.User{})
	if f.BranchID != nil {
		q = q.Where("branch_id = ?", *f.BranchID)
	}
	if f.Role != nil {
		q = q.Where("role = ?", *f.Role)
	}
	var out []identity.User
	res := q.Order("id ASC").Find(&out)
	return out, res.Error
}
