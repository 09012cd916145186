package identity

import (
	"context"
	"errors"
	"net/mail"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"loan-backoffice/internal/domain/apperror"
	domain "loan-backoffice/internal/domain/identity"
	"loan-backoffice/pkg/logger"
)

const minPasswordLen = 8

var errAdminOnly = apperror.Forbidden("only administrators can manage branches")

type Usecase struct {
	repo domain.Repository
	cost int
}

func NewUsecase(r domain.Repository) *Usecase { return &Usecase{repo: r, cost: bcrypt.DefaultCost} }

// WithHashCost overrides the bcrypt cost; tests use bcrypt.MinCost.
func (u *Usecase) WithHashCost(cost int) *Usecase {
	u.cost = cost
	return u
}

func (u *Usecase) CreateBranch(ctx context.Context, a domain.Actor, in CreateBranchInput) (*domain.Branch, error) {
	if !a.IsAdmin() {
		return nil, errAdminOnly
	}
	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" {
		return nil, apperror.Validation("name is required")
	}
	if !domain.ValidISO2(in.CountryISO2) {
		return nil, apperror.Validation("countryIso2 must be two uppercase letters")
	}
	b := &domain.Branch{
		Name:             in.Name,
		CountryISO2:      in.CountryISO2,
		PhoneCountryCode: in.PhoneCountryCode,
		AcceptsInbound:   in.AcceptsInbound,
	}
	if err := u.repo.CreateBranch(ctx, b); err != nil {
		return nil, err
	}
	logger.Info(ctx, "branch created", "branch_id", b.ID, "actor_id", a.UserID)
	return b, nil
}

func (u *Usecase) canSeeBranch(a domain.Actor, branchID uint64) bool {
	return a.IsAdmin() || a.BranchID == branchID
}

func (u *Usecase) GetBranch(ctx context.Context, a domain.Actor, id uint64) (*BranchDTO, error) {
	if !u.canSeeBranch(a, id) {
		return nil, domain.ErrOutOfScope
	}
	b, err := u.repo.GetBranch(ctx, id)
	if err != nil {
		return nil, apperror.FromRecord(err, "branch", id)
	}
	agents, err := u.ListAgents(ctx, a, id)
	if err != nil {
		return nil, err
	}
	return &BranchDTO{Branch: *b, Agents: agents}, nil
}

func (u *Usecase) ListBranches(ctx context.Context, a domain.Actor) ([]domain.Branch, error) {
	all, err := u.repo.ListBranches(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Branch, 0, len(all))
	for _, b := range all {
		if u.canSeeBranch(a, b.ID) {
			out = append(out, b)
		}
	}
	return out, nil
}

// SetBranchAdministrator names the manager or administrator responsible for a branch.
func (u *Usecase) SetBranchAdministrator(ctx context.Context, a domain.Actor, branchID, userID uint64) (*domain.Branch, error) {
	if !a.IsAdmin() {
		return nil, errAdminOnly
	}
	b, err := u.repo.GetBranch(ctx, branchID)
	if err != nil {
		return nil, apperror.FromRecord(err, "branch", branchID)
	}
	usr, err := u.repo.GetUser(ctx, userID)
	if err != nil {
		return nil, apperror.FromRecord(err, "user", userID)
	}
	if usr.Role == domain.RoleAgent {
		return nil, apperror.Validation("an agent cannot administer a branch")
	}
	b.AdministratorID = &usr.ID
	if err := u.repo.SaveBranch(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

// CreateUser: administrators create anyone; managers create agents and
// managers inside their own branch; agents create nobody.
func (u *Usecase) CreateUser(ctx context.Context, a domain.Actor, in CreateUserInput) (*domain.User, error) {
	switch {
	case a.IsAgent():
		return nil, apperror.Forbidden("agents cannot create users")
	case a.IsManager() && in.BranchID != a.BranchID:
		return nil, apperror.Forbidden("managers can only create users in their own branch")
	case a.IsManager() && in.Role == domain.RoleAdministrator:
		return nil, apperror.Forbidden("managers cannot create administrators")
	}

	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	if in.Name == "" {
		return nil, apperror.Validation("name is required")
	}
	if _, err := mail.ParseAddress(in.Email); err != nil {
		return nil, apperror.Validation("email is not valid")
	}
	if len(in.Password) < minPasswordLen {
		return nil, apperror.Validation("password must have at least %d characters", minPasswordLen)
	}
	if !in.Role.Valid() {
		return nil, apperror.Validation("role must be AGENT, MANAGER or ADMINISTRATOR")
	}
	if in.FundedLimit < 0 {
		return nil, apperror.Validation("fundedLimit must be >= 0")
	}
	if _, err := u.repo.GetBranch(ctx, in.BranchID); err != nil {
		return nil, apperror.FromRecord(err, "branch", in.BranchID)
	}

	switch _, err := u.repo.GetUserByEmail(ctx, in.Email); {
	case err == nil:
		return nil, domain.ErrDuplicateEmail
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), u.cost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return nil, apperror.Validation("password must be at most 72 bytes").Wrap(err)
	}
	if err != nil {
		return nil, err
	}
	usr := &domain.User{
		Name:         in.Name,
		Email:        in.Email,
		PasswordHash: string(hash),
		Role:         in.Role,
		BranchID:     in.BranchID,
		FundedLimit:  in.FundedLimit,
	}
	if err := u.repo.CreateUser(ctx, usr); err != nil {
		return nil, err
	}
	logger.Info(ctx, "user created", "user_id", usr.ID, "role", usr.Role, "branch_id", usr.BranchID)
	return usr, nil
}

func (u *Usecase) GetUser(ctx context.Context, a domain.Actor, id uint64) (*domain.User, error) {
	return domain.Authorize(ctx, u.repo, a, id)
}

// Resolve loads the user behind a request without scope checks.
func (u *Usecase) Resolve(ctx context.Context, id uint64) (*domain.User, error) {
	usr, err := u.repo.GetUser(ctx, id)
	if err != nil {
		return nil, apperror.FromRecord(err, "user", id)
	}
	return usr, nil
}

// CheckPassword reports whether plain matches the user's stored hash.
func CheckPassword(usr *domain.User, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(usr.PasswordHash), []byte(plain)) == nil
}

func (u *Usecase) ListAgents(ctx context.Context, a domain.Actor, branchID uint64) ([]domain.User, error) {
	if !u.canSeeBranch(a, branchID) {
		return nil, domain.ErrOutOfScope
	}
	role := domain.RoleAgent
	users, err := u.repo.ListUsers(ctx, domain.UserFilter{BranchID: &branchID, Role: &role})
	if err != nil {
		return nil, err
	}
	if a.IsAgent() {
		// agents only see themselves in the roster
		out := users[:0]
		for _, usr := range users {
			if usr.ID == a.UserID {
				out = append(out, usr)
			}
		}
		users = out
	}
	if users == nil {
		users = []domain.User{}
	}
	return users, nil
}
