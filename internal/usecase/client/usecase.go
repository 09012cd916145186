package client

import (
	"context"
	"strings"

	"loan-backoffice/internal/domain/apperror"
	domain "loan-backoffice/internal/domain/client"
	"loan-backoffice/internal/domain/identity"
	"loan-backoffice/pkg/logger"
)

type Usecase struct {
	repo  domain.Repository
	users identity.Repository
}

func NewUsecase(r domain.Repository, users identity.Repository) *Usecase {
	return &Usecase{repo: r, users: users}
}

// ownerFor resolves the agent who will own a client and checks the actor may assign it.
func (u *Usecase) ownerFor(ctx context.Context, a identity.Actor, agentID *uint64) (uint64, error) {
	id := a.UserID
	if agentID != nil {
		id = *agentID
	} else if !a.IsAgent() {
		return 0, apperror.Validation("agentId is required")
	}
	owner, err := identity.Authorize(ctx, u.users, a, id)
	if err != nil {
		return 0, err
	}
	if owner.Role != identity.RoleAgent {
		return 0, apperror.Validation("clients must be owned by an agent")
	}
	return owner.ID, nil
}

func (u *Usecase) Create(ctx context.Context, a identity.Actor, in CreateInput) (*domain.Client, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Phone = strings.TrimSpace(in.Phone)
	if in.Name == "" || in.Phone == "" {
		return nil, apperror.Validation("name and phone are required")
	}
	agentID, err := u.ownerFor(ctx, a, in.AgentID)
	if err != nil {
		return nil, err
	}
	c := &domain.Client{
		Name:           in.Name,
		Phone:          in.Phone,
		Email:          in.Email,
		Status:         domain.StatusProspect,
		AgentID:        agentID,
		Phone2:         in.Phone2,
		Address:        in.Address,
		Address2:       in.Address2,
		ReferenceName:  in.ReferenceName,
		ReferencePhone: in.ReferencePhone,
	}
	if err := u.repo.Create(ctx, c); err != nil {
		return nil, err
	}
	logger.Info(ctx, "client created", "client_id", c.ID, "agent_id", c.AgentID)
	return c, nil
}

func (u *Usecase) Get(ctx context.Context, a identity.Actor, id uint64) (*domain.Client, error) {
	c, err := u.repo.GetByID(ctx, id)
	if err != nil {
		return nil, apperror.FromRecord(err, "client", id)
	}
	if _, err := identity.Authorize(ctx, u.users, a, c.AgentID); err != nil {
		return nil, err
	}
	return c, nil
}

func (u *Usecase) List(ctx context.Context, a identity.Actor, in ListInput) ([]domain.Client, error) {
	branchID, agentID := a.Scope(in.BranchID, in.AgentID)
	out, err := u.repo.List(ctx, domain.Filter{BranchID: branchID, AgentID: agentID, Status: in.Status})
	if err != nil {
		return nil, err
	}
	if out == nil {
		out = []domain.Client{}
	}
	return out, nil
}

func setIf(dst *string, src *string) {
	if src != nil {
		*dst = strings.TrimSpace(*src)
	}
}

// Update edits contact and reference fields. Changing the owning agent is
// reserved to managers and administrators.
func (u *Usecase) Update(ctx context.Context, a identity.Actor, id uint64, in UpdateInput) (*domain.Client, error) {
	c, err := u.Get(ctx, a, id)
	if err != nil {
		return nil, err
	}
	setIf(&c.Name, in.Name)
	setIf(&c.Phone, in.Phone)
	setIf(&c.Phone2, in.Phone2)
	setIf(&c.Address, in.Address)
	setIf(&c.Address2, in.Address2)
	setIf(&c.ReferenceName, in.ReferenceName)
	setIf(&c.ReferencePhone, in.ReferencePhone)
	if in.Email != nil {
		c.Email = in.Email
	}
	if c.Name == "" || c.Phone == "" {
		return nil, apperror.Validation("name and phone are required")
	}
	if in.AgentID != nil && *in.AgentID != c.AgentID {
		if a.IsAgent() {
			return nil, apperror.Forbidden("agents cannot reassign clients")
		}
		agentID, err := u.ownerFor(ctx, a, in.AgentID)
		if err != nil {
			return nil, err
		}
		logger.Info(ctx, "client reassigned", "client_id", c.ID, "from", c.AgentID, "to", agentID)
		c.AgentID = agentID
	}
	if err := u.repo.Save(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}

func (u *Usecase) ChangeStatus(ctx context.Context, a identity.Actor, id uint64, status domain.Status) (*domain.Client, error) {
	if !status.Valid() {
		return nil, apperror.Validation("status must be one of ACTIVE, INACTIVE, SUSPENDED, PROSPECT")
	}
	c, err := u.Get(ctx, a, id)
	if err != nil {
		return nil, err
	}
	if c.Status == status {
		return c, nil
	}
	logger.Info(ctx, "client status changed", "client_id", c.ID, "from", c.Status, "to", status)
	c.Status = status
	if err := u.repo.Save(ctx, c); err != nil {
		return nil, err
	}
	return c, nil
}
