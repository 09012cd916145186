package transaction

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"loan-backoffice/internal/domain/apperror"
	"loan-backoffice/internal/domain/cashflow"
	"loan-backoffice/internal/domain/client"
	"loan-backoffice/internal/domain/identity"
	"loan-backoffice/internal/domain/loanrequest"
	domain "loan-backoffice/internal/domain/transaction"
	"loan-backoffice/internal/domain/uow"
	"loan-backoffice/internal/metrics"
	"loan-backoffice/internal/timeutil"
	"loan-backoffice/pkg/id"
	"loan-backoffice/pkg/logger"
	"loan-backoffice/pkg/money"
)

const maxReferenceLen = 64

type Usecase struct {
	repos uow.Repos
	uow   uow.UnitOfWork
	cal   *timeutil.Calendar
}

func NewUsecase(repos uow.Repos, tx uow.UnitOfWork, cal *timeutil.Calendar) *Usecase {
	return &Usecase{repos: repos, uow: tx, cal: cal}
}

// Record appends one ledger row and applies its effect on the loan request.
// The balance check, the insert and the request update share one database
// transaction with the request row locked.
func (u *Usecase) Record(ctx context.Context, a identity.Actor, in RecordInput) (*RecordResult, error) {
	switch {
	case in.Type == domain.TypeRenewal:
		return nil, domain.ErrRenewalViaLedger
	case !in.Type.Valid():
		return nil, apperror.Validation("transactionType must be DISBURSEMENT, REPAYMENT or PENALTY")
	case in.Amount <= 0:
		return nil, apperror.Validation("amount must be a positive integer")
	}
	in.Reference = strings.TrimSpace(in.Reference)
	if in.Reference == "" {
		in.Reference = id.NewID32()
	}
	if len(in.Reference) > maxReferenceLen {
		return nil, apperror.Validation("reference must be at most %d characters", maxReferenceLen)
	}

	var res RecordResult
	var from loanrequest.Status
	err := u.uow.WithinLoanTx(ctx, in.LoanRequestID, func(r uow.Repos, l *loanrequest.LoanRequest) error {
		agent, err := identity.Authorize(ctx, r.Users, a, l.AgentID)
		if err != nil {
			return err
		}
		if err := cashflow.EnsureRegisterOpen(ctx, r.Users, r.CashFlows, agent.ID, u.cal.Today()); err != nil {
			return err
		}

		now := u.cal.Now()
		from = l.Status
		switch in.Type {
		case domain.TypeDisbursement:
			if l.Status != loanrequest.StatusApproved {
				return domain.ErrNotApproved.WithDetail("status", l.Status)
			}
			if want := l.DisbursableAmount(); in.Amount != want {
				return apperror.Validation("disbursement must equal the principal to release (%d)", want).
					WithDetail("expected", want)
			}
			l.MoveTo(loanrequest.StatusFunded, now)
			if err := setClientStatus(ctx, r, l.ClientID, client.StatusActive); err != nil {
				return err
			}

		case domain.TypeRepayment:
			if l.Status != loanrequest.StatusFunded {
				return domain.ErrNotFunded.WithDetail("status", l.Status)
			}
			if remaining := l.Balance(); in.Amount > remaining {
				return domain.ExceedsBalance(remaining)
			}
			l.AmountPaid += in.Amount
			if l.Balance() == 0 {
				l.MoveTo(loanrequest.StatusCompleted, now)
			}

		case domain.TypePenalty:
			if l.Status != loanrequest.StatusFunded {
				return domain.ErrNotFunded.WithDetail("status", l.Status)
			}
		}

		t := domain.Transaction{
			LoanRequestID: l.ID,
			Type:          in.Type,
			Amount:        in.Amount,
			Reference:     in.Reference,
			Description:   in.Description,
			Date:          now,
			CreatedByID:   a.UserID,
		}
		if err := r.Transactions.Create(ctx, &t); err != nil {
			return err
		}
		if err := r.LoanRequests.Save(ctx, l); err != nil {
			return err
		}
		if l.Status == loanrequest.StatusCompleted {
			if err := releaseClient(ctx, r, l.ClientID); err != nil {
				return err
			}
		}

		res = RecordResult{Transaction: t, Balance: balanceOf(l, l.AmountPaid), Status: string(l.Status)}
		return nil
	})
	if err != nil {
		return nil, apperror.FromRecord(err, "loan request", in.LoanRequestID)
	}

	metrics.ObserveLedger(string(in.Type), in.Amount)
	if string(from) != res.Status {
		metrics.ObserveTransition(string(from), res.Status)
	}
	logger.Info(ctx, "ledger row recorded", "loan_request_id", in.LoanRequestID, "type", in.Type,
		"amount", in.Amount, "balance", res.Balance.Balance)
	return &res, nil
}

func setClientStatus(ctx context.Context, r uow.Repos, clientID uint64, s client.Status) error {
	c, err := r.Clients.GetByID(ctx, clientID)
	if err != nil {
		return apperror.FromRecord(err, "client", clientID)
	}
	if c.Status == s {
		return nil
	}
	c.Status = s
	return r.Clients.Save(ctx, c)
}

// releaseClient marks an active client inactive once nothing is left open.
func releaseClient(ctx context.Context, r uow.Repos, clientID uint64) error {
	_, err := r.LoanRequests.GetOpenByClientID(ctx, clientID)
	switch {
	case err == nil:
		return nil
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return err
	}
	c, err := r.Clients.GetByID(ctx, clientID)
	if err != nil {
		return apperror.FromRecord(err, "client", clientID)
	}
	if c.Status != client.StatusActive {
		return nil
	}
	c.Status = client.StatusInactive
	return r.Clients.Save(ctx, c)
}

func balanceOf(l *loanrequest.LoanRequest, paid int64) domain.Balance {
	return domain.Balance{
		LoanRequestID:  l.ID,
		Amount:         l.Amount,
		AmountPaid:     paid,
		Balance:        l.Amount - paid,
		PercentagePaid: money.ClampedPercent(paid, l.Amount),
	}
}

func (u *Usecase) load(ctx context.Context, a identity.Actor, loanRequestID uint64) (*loanrequest.LoanRequest, error) {
	l, err := u.repos.LoanRequests.GetByID(ctx, loanRequestID)
	if err != nil {
		return nil, apperror.FromRecord(err, "loan request", loanRequestID)
	}
	if _, err := identity.Authorize(ctx, u.repos.Users, a, l.AgentID); err != nil {
		return nil, err
	}
	return l, nil
}

// Balance recomputes the position from the ledger rather than the cached total.
func (u *Usecase) Balance(ctx context.Context, a identity.Actor, loanRequestID uint64) (*domain.Balance, error) {
	l, err := u.load(ctx, a, loanRequestID)
	if err != nil {
		return nil, err
	}
	paid, err := u.repos.Transactions.SumByLoanRequest(ctx, l.ID, domain.TypeRepayment)
	if err != nil {
		return nil, err
	}
	b := balanceOf(l, paid)
	return &b, nil
}

func (u *Usecase) List(ctx context.Context, a identity.Actor, loanRequestID uint64) ([]domain.Transaction, error) {
	if _, err := u.load(ctx, a, loanRequestID); err != nil {
		return nil, err
	}
	rows, err := u.repos.Transactions.ListByLoanRequest(ctx, loanRequestID)
	if err != nil {
		return nil, err
	}
	if rows == nil {
		rows = []domain.Transaction{}
	}
	return rows, nil
}
