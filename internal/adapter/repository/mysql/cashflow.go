package mysql

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"loan-backoffice/internal/domain/cashflow"
)

type CashFlowRepository struct{ db *gorm.DB }

func NewCashFlowRepository(db *gorm.DB) *CashFlowRepository { return &CashFlowRepository{db: db} }

func (r *CashFlowRepository) Create(ctx context.Context, m *cashflow.CashFlow) error {
	return r.db.WithContext(ctx).Create(m).Error
}

func (r *CashFlowRepository) List(ctx context.Context, f cashflow.Filter) ([]cashflow.CashFlow, error) {
	q := r.db.WithContext(ctx).Model(&cashflow.CashFlow{})
	if f.BranchID != nil {
		q = q.Where("branch_id = ?", *f.BranchID)
	}
	if f.UserID != nil {
		q = q.Where("(origin_user_id = ? OR destination_user_id = ?)", *f.UserID, *f.UserID)
	}
	if len(f.Types) > 0 {
		q = q.Where("type_movement IN ?", f.Types)
	}
	if f.From != nil {
		q = q.Where("created_at >= ?", *f.From)
	}
	if f.To != nil {
		q = q.Where("created_at < ?", *f.To)
	}
	var out []cashflow.CashFlow
	res := q.Order("created_at ASC, id ASC").Find(&out)
	return out, res.Error
}

// CreateClosure maps the (agent, date) unique violation to cashflow.ErrRegisterClosed.
func (r *CashFlowRepository) CreateClosure(ctx context.Context, c *cashflow.DayClosure) error {
	err := r.db.WithContext(ctx).Create(c).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return cashflow.ErrRegisterClosed
	}
	return err
}

func (r *CashFlowRepository) GetClosure(ctx context.Context, agentID uint64, businessDate string) (*cashflow.DayClosure, error) {
	var out cashflow.DayClosure
	res := r.db.WithContext(ctx).
		Where("agent_id = ? AND business_date = ?", agentID, businessDate).
		First(&out)
	return &out, res.Error
}

func (r *CashFlowRepository) LastClosureBefore(ctx context.Context, agentID uint64, businessDate string) (*cashflow.DayClosure, error) {
	var out cashflow.DayClosure
	res := r.db.WithContext(ctx).
		Where("agent_id = ? AND business_date < ?", agentID, businessDate).
		Order("business_date DESC").
		First(&out)
	return &out, res.Error
}
