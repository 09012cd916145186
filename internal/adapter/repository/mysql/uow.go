package mysql

import (
	"context"

	"gorm.io/gorm"

	"loan-backoffice/internal/domain/loanrequest"
	"loan-backoffice/internal/domain/uow"
)

type GormUoW struct{ db *gorm.DB }

func NewGormUoW(db *gorm.DB) *GormUoW { return &GormUoW{db: db} }

func reposFor(tx *gorm.DB) uow.Repos {
	return uow.Repos{
		Users:        &IdentityRepository{db: tx},
		Clients:      &ClientRepository{db: tx},
		LoanRequests: &LoanRequestRepository{db: tx},
		Transactions: &TransactionRepository{db: tx},
		CashFlows:    &CashFlowRepository{db: tx},
	}
}

func (u *GormUoW) WithinTx(ctx context.Context, fn func(r uow.Repos) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(reposFor(tx))
	})
}

func (u *GormUoW) WithinLoanTx(ctx context.Context, loanRequestID uint64, fn func(r uow.Repos, l *loanrequest.LoanRequest) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		r := reposFor(tx)
		// lock the loan request row up-front to prevent races
		l, err := r.LoanRequests.GetByIDForUpdate(ctx, loanRequestID)
		if err != nil {
			return err
		}
		return fn(r, l)
	})
}
