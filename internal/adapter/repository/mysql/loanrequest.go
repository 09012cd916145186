package mysql

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"loan-backoffice/internal/domain/loanrequest"
)

type LoanRequestRepository struct{ db *gorm.DB }

func NewLoanRequestRepository(db *gorm.DB) *LoanRequestRepository {
	return &LoanRequestRepository{db: db}
}

func (r *LoanRequestRepository) Create(ctx context.Context, l *loanrequest.LoanRequest) error {
	return r.db.WithContext(ctx).Create(l).Error
}

func (r *LoanRequestRepository) Save(ctx context.Context, l *loanrequest.LoanRequest) error {
	return r.db.WithContext(ctx).Save(l).Error
}

func (r *LoanRequestRepository) GetByID(ctx context.Context, id uint64) (*loanrequest.LoanRequest, error) {
	var out loanrequest.LoanRequest
	res := r.db.WithContext(ctx).Where("id = ?", id).First(&out)
	return &out, res.Error
}

func (r *LoanRequestRepository) GetByIDForUpdate(ctx context.Context, id uint64) (*loanrequest.LoanRequest, error) {
	var out loanrequest.LoanRequest
	res := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		First(&out)
	return &out, res.Error
}

func (r *LoanRequestRepository) GetOpenByClientID(ctx context.Context, clientID uint64) (*loanrequest.LoanRequest, error) {
	var out loanrequest.LoanRequest
	res := r.db.WithContext(ctx).
		Where("client_id = ? AND status IN ?", clientID, loanrequest.OpenStatuses).
		Order("created_at DESC, id DESC").
		First(&out)
	return &out, res.Error
}

func (r *LoanRequestRepository) ListByClientID(ctx context.Context, clientID uint64) ([]loanrequest.LoanRequest, error) {
	var out []loanrequest.LoanRequest
	res := r.db.WithContext(ctx).
		Where("client_id = ?", clientID).
		Order("created_at DESC, id DESC").
		Find(&out)
	return out, res.Error
}

func (r *LoanRequestRepository) List(ctx context.Context, f loanrequest.Filter) ([]loanrequest.LoanRequest, error) {
	q := r.db.WithContext(ctx).Model(&loanrequest.LoanRequest{}).Select("loan_requests.*")
	if f.BranchID != nil {
		q = q.Joins("JOIN users ON users.id = loan_requests.agent_id").
			Where("users.branch_id = ?", *f.BranchID)
	}
	if len(f.IDs) > 0 {
		q = q.Where("loan_requests.id IN ?", f.IDs)
	}
	if f.AgentID != nil {
		q = q.Where("loan_requests.agent_id = ?", *f.AgentID)
	}
	if f.ClientID != nil {
		q = q.Where("loan_requests.client_id = ?", *f.ClientID)
	}
	if len(f.Statuses) > 0 {
		q = q.Where("loan_requests.status IN ?", f.Statuses)
	}
	if f.CreatedFrom != nil {
		q = q.Where("loan_requests.created_at >= ?", *f.CreatedFrom)
	}
	if f.CreatedTo != nil {
		q = q.Where("loan_requests.created_at < ?", *f.CreatedTo)
	}
	if f.FundedFrom != nil {
		q = q.Where("loan_requests.funded_at >= ?", *f.FundedFrom)
	}
	if f.FundedTo != nil {
		q = q.Where("loan_requests.funded_at < ?", *f.FundedTo)
	}
	if f.EndBefore != nil {
		q = q.Where("loan_requests.end_date_at < ?", *f.EndBefore)
	}
	var out []loanrequest.LoanRequest
	res := q.Order("loan_requests.id ASC").Find(&out)
	return out, res.Error
}

func (r *LoanRequestRepository) SumFundedPrincipalByAgent(ctx context.Context, agentID uint64) (int64, error) {
	var sum int64
	res := r.db.WithContext(ctx).
		Model(&loanrequest.LoanRequest{}).
		Select("COALESCE(SUM(requested_amount), 0)").
		Where("agent_id = ? AND status = ?", agentID, loanrequest.StatusFunded).
		Scan(&sum)
	return sum, res.Error
}
