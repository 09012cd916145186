package mysql

import (
	"context"

	"gorm.io/gorm"

	"loan-backoffice/internal/domain/transaction"
)

// TransactionRepository only inserts and reads; the ledger is append-only.
type TransactionRepository struct{ db *gorm.DB }

func NewTransactionRepository(db *gorm.DB) *TransactionRepository {
	return &TransactionRepository{db: db}
}

func (r *TransactionRepository) Create(ctx context.Context, t *transaction.Transaction) error {
	return r.db.WithContext(ctx).Create(t).Error
}

func (r *TransactionRepository) ListByLoanRequest(ctx context.Context, loanRequestID uint64) ([]transaction.Transaction, error) {
	var out []transaction.Transaction
	res := r.db.WithContext(ctx).
		Where("loan_request_id = ?", loanRequestID).
		Order("date ASC, id ASC").
		Find(&out)
	return out, res.Error
}

func (r *TransactionRepository) SumByLoanRequest(ctx context.Context, loanRequestID uint64, typ transaction.Type) (int64, error) {
	var sum int64
	res := r.db.WithContext(ctx).
		Model(&transaction.Transaction{}).
		Select("COALESCE(SUM(amount), 0)").
		Where("loan_request_id = ? AND type = ?", loanRequestID, typ).
		Scan(&sum)
	return sum, res.Error
}

func (r *TransactionRepository) List(ctx context.Context, f transaction.Filter) ([]transaction.Transaction, error) {
	q := r.db.WithContext(ctx).Model(&transaction.Transaction{}).Select("transactions.*")
	if f.ClientID != nil || f.AgentID != nil || f.BranchID != nil {
		q = q.Joins("JOIN loan_requests ON loan_requests.id = transactions.loan_request_id")
	}
	if f.BranchID != nil {
		q = q.Joins("JOIN users ON users.id = loan_requests.agent_id").
			Where("users.branch_id = ?", *f.BranchID)
	}
	if f.ClientID != nil {
		q = q.Where("loan_requests.client_id = ?", *f.ClientID)
	}
	if f.AgentID != nil {
		q = q.Where("loan_requests.agent_id = ?", *f.AgentID)
	}
	if f.LoanRequestID != nil {
		q = q.Where("transactions.loan_request_id = ?", *f.LoanRequestID)
	}
	if len(f.Types) > 0 {
		q = q.Where("transactions.type IN ?", f.Types)
	}
	if f.From != nil {
		q = q.Where("transactions.date >= ?", *f.From)
	}
	if f.To != nil {
		q = q.Where("transactions.date < ?", *f.To)
	}
	var out []transaction.Transaction
	res := q.Order("transactions.date ASC, transactions.id ASC").Find(&out)
	return out, res.Error
}
