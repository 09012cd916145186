package loanrequest

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"loan-backoffice/internal/domain/apperror"
	"loan-backoffice/internal/domain/cashflow"
	"loan-backoffice/internal/domain/identity"
	domain "loan-backoffice/internal/domain/loanrequest"
	"loan-backoffice/internal/domain/transaction"
	"loan-backoffice/internal/domain/uow"
	"loan-backoffice/internal/metrics"
	"loan-backoffice/internal/timeutil"
	"loan-backoffice/pkg/id"
	"loan-backoffice/pkg/logger"
)

type Usecase struct {
	repos  uow.Repos
	uow    uow.UnitOfWork
	cal    *timeutil.Calendar
	limits domain.Limits
}

// NewUsecase: repos serve reads, tx runs every write.
func NewUsecase(repos uow.Repos, tx uow.UnitOfWork, cal *timeutil.Calendar, limits domain.Limits) *Usecase {
	return &Usecase{repos: repos, uow: tx, cal: cal, limits: limits}
}

func (u *Usecase) Simulate(principal int64, days int) (domain.Simulation, error) {
	return domain.Simulate(principal, days)
}

// parseEndDay validates a YYYY-MM-DD due date. It is stored as the start of that business day.
func (u *Usecase) parseEndDay(day string) (string, error) {
	if _, err := u.cal.ParseDay(day); err != nil {
		return "", apperror.Validation("endDateAt must be a YYYY-MM-DD date")
	}
	return day, nil
}

func (u *Usecase) checkFundedLimit(ctx context.Context, r uow.Repos, agent *identity.User, requested, released int64) error {
	if agent.FundedLimit <= 0 {
		return nil
	}
	funded, err := r.LoanRequests.SumFundedPrincipalByAgent(ctx, agent.ID)
	if err != nil {
		return err
	}
	if funded-released+requested > agent.FundedLimit {
		return apperror.Validation("request exceeds the agent funded limit of %d", agent.FundedLimit).
			WithDetail("fundedLimit", agent.FundedLimit).
			WithDetail("funded", funded-released)
	}
	return nil
}

func (u *Usecase) Create(ctx context.Context, a identity.Actor, in CreateInput) (*LoanRequestDTO, error) {
	if in.Status != nil && *in.Status != domain.StatusNew {
		return nil, apperror.Validation("new loan requests start in status NEW")
	}
	endDay, err := u.parseEndDay(in.EndDateAt)
	if err != nil {
		return nil, err
	}

	var out *domain.LoanRequest
	err = u.uow.WithinTx(ctx, func(r uow.Repos) error {
		c, err := r.Clients.GetByID(ctx, in.ClientID)
		if err != nil {
			return apperror.FromRecord(err, "client", in.ClientID)
		}
		if in.AgentID != nil && *in.AgentID != c.AgentID {
			return apperror.Validation("agentId must be the client's agent")
		}
		agent, err := identity.Authorize(ctx, r.Users, a, c.AgentID)
		if err != nil {
			return err
		}
		today := u.cal.Today()
		if err := cashflow.EnsureRegisterOpen(ctx, r.Users, r.CashFlows, agent.ID, today); err != nil {
			return err
		}

		open, err := r.LoanRequests.GetOpenByClientID(ctx, c.ID)
		switch {
		case err == nil:
			return domain.ErrOpenRequestExists.WithDetail("loanRequestId", open.ID)
		case !errors.Is(err, gorm.ErrRecordNotFound):
			return err
		}

		amount := domain.DefaultAmount(in.RequestedAmount)
		overridden := false
		if in.Amount != nil && *in.Amount != amount {
			amount, overridden = *in.Amount, true
		}
		if err := domain.ValidateTerms(u.limits, domain.Terms{
			RequestedAmount: in.RequestedAmount,
			Amount:          amount,
			PaymentDay:      in.PaymentDay,
			Type:            in.Type,
			EndDay:          endDay,
			CreatedDay:      today,
		}); err != nil {
			return err
		}
		if err := u.checkFundedLimit(ctx, r, agent, in.RequestedAmount, 0); err != nil {
			return err
		}

		endAt, _ := u.cal.ParseDay(endDay)
		now := u.cal.Now()
		l := &domain.LoanRequest{
			ClientID:         c.ID,
			AgentID:          agent.ID,
			RequestedAmount:  in.RequestedAmount,
			Amount:           amount,
			AmountOverridden: overridden,
			Status:           domain.StatusNew,
			PaymentDay:       in.PaymentDay,
			Type:             in.Type,
			EndDateAt:        endAt.UTC(),
			StatusUpdatedAt:  now,
			CreatedAt:        now,
		}
		if err := r.LoanRequests.Create(ctx, l); err != nil {
			return err
		}
		out = l
		return nil
	})
	if err != nil {
		return nil, err
	}
	logger.Info(ctx, "loan request created", "loan_request_id", out.ID, "client_id", out.ClientID,
		"requested", out.RequestedAmount, "amount", out.Amount)
	return toDTO(out), nil
}

func (u *Usecase) load(ctx context.Context, a identity.Actor, id uint64) (*domain.LoanRequest, error) {
	l, err := u.repos.LoanRequests.GetByID(ctx, id)
	if err != nil {
		return nil, apperror.FromRecord(err, "loan request", id)
	}
	if _, err := identity.Authorize(ctx, u.repos.Users, a, l.AgentID); err != nil {
		return nil, err
	}
	return l, nil
}

func (u *Usecase) Get(ctx context.Context, a identity.Actor, id uint64) (*LoanRequestDTO, error) {
	l, err := u.load(ctx, a, id)
	if err != nil {
		return nil, err
	}
	return toDTO(l), nil
}

func (u *Usecase) authorizeClient(ctx context.Context, a identity.Actor, clientID uint64) error {
	c, err := u.repos.Clients.GetByID(ctx, clientID)
	if err != nil {
		return apperror.FromRecord(err, "client", clientID)
	}
	_, err = identity.Authorize(ctx, u.repos.Users, a, c.AgentID)
	return err
}

// GetOpenByClient returns the client's single open request.
func (u *Usecase) GetOpenByClient(ctx context.Context, a identity.Actor, clientID uint64) (*LoanRequestDTO, error) {
	if err := u.authorizeClient(ctx, a, clientID); err != nil {
		return nil, err
	}
	l, err := u.repos.LoanRequests.GetOpenByClientID(ctx, clientID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("open loan request", clientID)
		}
		return nil, err
	}
	return toDTO(l), nil
}

func (u *Usecase) ListByClient(ctx context.Context, a identity.Actor, clientID uint64) ([]*LoanRequestDTO, error) {
	if err := u.authorizeClient(ctx, a, clientID); err != nil {
		return nil, err
	}
	rows, err := u.repos.LoanRequests.ListByClientID(ctx, clientID)
	if err != nil {
		return nil, err
	}
	out := make([]*LoanRequestDTO, 0, len(rows))
	for i := range rows {
		out = append(out, toDTO(&rows[i]))
	}
	return out, nil
}

// Update applies a partial edit and/or a manual status change under the row lock.
func (u *Usecase) Update(ctx context.Context, a identity.Actor, id uint64, in UpdateInput) (*LoanRequestDTO, error) {
	var out *domain.LoanRequest
	var from domain.Status
	err := u.uow.WithinLoanTx(ctx, id, func(r uow.Repos, l *domain.LoanRequest) error {
		agent, err := identity.Authorize(ctx, r.Users, a, l.AgentID)
		if err != nil {
			return err
		}
		if err := cashflow.EnsureRegisterOpen(ctx, r.Users, r.CashFlows, agent.ID, u.cal.Today()); err != nil {
			return err
		}
		from = l.Status

		if in.touchesTerms() {
			if err := u.applyTerms(ctx, r, agent, l, in); err != nil {
				return err
			}
		}

		if in.Status != nil && *in.Status != l.Status {
			note := ""
			if in.RejectionNote != nil {
				note = *in.RejectionNote
			}
			if err := domain.CheckManualTransition(l, *in.Status, note); err != nil {
				return err
			}
			if *in.Status == domain.StatusRejected {
				l.RejectionNote = note
			}
			l.MoveTo(*in.Status, u.cal.Now())
		}

		if err := r.LoanRequests.Save(ctx, l); err != nil {
			return err
		}
		out = l
		return nil
	})
	if err != nil {
		return nil, apperror.FromRecord(err, "loan request", id)
	}
	if out.Status != from {
		metrics.ObserveTransition(string(from), string(out.Status))
		logger.Info(ctx, "loan request status changed", "loan_request_id", out.ID, "from", from, "to", out.Status)
	}
	return toDTO(out), nil
}

func (u *Usecase) applyTerms(ctx context.Context, r uow.Repos, agent *identity.User, l *domain.LoanRequest, in UpdateInput) error {
	switch l.Status {
	case domain.StatusNew, domain.StatusUnderReview, domain.StatusApproved:
	default:
		return domain.ErrNotEditable.WithDetail("status", l.Status)
	}

	requested := l.RequestedAmount
	if in.RequestedAmount != nil {
		requested = *in.RequestedAmount
	}
	amount, overridden := l.Amount, l.AmountOverridden
	switch {
	case in.Amount != nil:
		amount = *in.Amount
		overridden = amount != domain.DefaultAmount(requested)
	case !l.AmountOverridden:
		amount = domain.DefaultAmount(requested)
	}

	paymentDay, typ := l.PaymentDay, l.Type
	if in.PaymentDay != nil {
		paymentDay = *in.PaymentDay
	}
	if in.Type != nil {
		typ = *in.Type
	}
	endDay := u.cal.DayOf(l.EndDateAt)
	if in.EndDateAt != nil {
		d, err := u.parseEndDay(*in.EndDateAt)
		if err != nil {
			return err
		}
		endDay = d
	}

	if err := domain.ValidateTerms(u.limits, domain.Terms{
		RequestedAmount: requested,
		Amount:          amount,
		PaymentDay:      paymentDay,
		Type:            typ,
		EndDay:          endDay,
		CreatedDay:      u.cal.DayOf(l.CreatedAt),
	}); err != nil {
		return err
	}
	if l.IsRenewal() && requested <= l.CarriedBalance {
		return apperror.Validation("requestedAmount must exceed the carried balance of %d", l.CarriedBalance)
	}
	if requested != l.RequestedAmount {
		if err := u.checkFundedLimit(ctx, r, agent, requested, 0); err != nil {
			return err
		}
	}

	endAt, _ := u.cal.ParseDay(endDay)
	l.RequestedAmount = requested
	l.Amount = amount
	l.AmountOverridden = overridden
	l.PaymentDay = paymentDay
	l.Type = typ
	l.EndDateAt = endAt.UTC()
	return nil
}

// Renew closes an APPROVED or FUNDED request and opens its continuation.
// The outstanding balance is carried into the continuation's principal and
// booked on the closed request as a RENEWAL ledger row.
func (u *Usecase) Renew(ctx context.Context, a identity.Actor, reqID uint64, in RenewInput) (*RenewResult, error) {
	if in.NewCapital <= 0 {
		return nil, apperror.Validation("newCapital must be a positive integer")
	}
	endDay, err := u.parseEndDay(in.EndDateAt)
	if err != nil {
		return nil, err
	}

	var prev, next *domain.LoanRequest
	var carried int64
	var from domain.Status
	err = u.uow.WithinLoanTx(ctx, reqID, func(r uow.Repos, l *domain.LoanRequest) error {
		agent, err := identity.Authorize(ctx, r.Users, a, l.AgentID)
		if err != nil {
			return err
		}
		today := u.cal.Today()
		if err := cashflow.EnsureRegisterOpen(ctx, r.Users, r.CashFlows, agent.ID, today); err != nil {
			return err
		}
		if !domain.CanTransition(l.Status, domain.StatusRenewed) {
			return domain.ErrInvalidTransition.
				WithDetail("from", l.Status).
				WithDetail("to", domain.StatusRenewed)
		}
		from = l.Status

		// An undisbursed continuation still owes what it carried in.
		carried = l.CarriedBalance
		var released int64
		if l.Status == domain.StatusFunded {
			carried = l.Balance()
			released = l.RequestedAmount
		}
		requested := carried + in.NewCapital
		amount := domain.DefaultAmount(requested)
		overridden := false
		if in.Amount != nil && *in.Amount != amount {
			amount, overridden = *in.Amount, true
		}
		if err := domain.ValidateTerms(u.limits, domain.Terms{
			RequestedAmount: requested,
			Amount:          amount,
			PaymentDay:      in.PaymentDay,
			Type:            in.Type,
			EndDay:          endDay,
			CreatedDay:      today,
		}); err != nil {
			return err
		}
		if err := u.checkFundedLimit(ctx, r, agent, requested, released); err != nil {
			return err
		}

		now := u.cal.Now()
		if carried > 0 {
			if err := r.Transactions.Create(ctx, &transaction.Transaction{
				LoanRequestID: l.ID,
				Type:          transaction.TypeRenewal,
				Amount:        carried,
				Reference:     id.NewID32(),
				Description:   "balance carried into renewal",
				Date:          now,
				CreatedByID:   a.UserID,
			}); err != nil {
				return err
			}
		}
		l.MoveTo(domain.StatusRenewed, now)
		if err := r.LoanRequests.Save(ctx, l); err != nil {
			return err
		}

		endAt, _ := u.cal.ParseDay(endDay)
		prevID := l.ID
		n := &domain.LoanRequest{
			ClientID:         l.ClientID,
			AgentID:          l.AgentID,
			RequestedAmount:  requested,
			Amount:           amount,
			AmountOverridden: overridden,
			CarriedBalance:   carried,
			Status:           domain.StatusApproved,
			PaymentDay:       in.PaymentDay,
			Type:             in.Type,
			EndDateAt:        endAt.UTC(),
			RenewedFromID:    &prevID,
			StatusUpdatedAt:  now,
			CreatedAt:        now,
		}
		if err := r.LoanRequests.Create(ctx, n); err != nil {
			return err
		}
		prev, next = l, n
		return nil
	})
	if err != nil {
		return nil, apperror.FromRecord(err, "loan request", reqID)
	}

	metrics.ObserveTransition(string(from), string(domain.StatusRenewed))
	if carried > 0 {
		metrics.ObserveLedger(string(transaction.TypeRenewal), carried)
	}
	logger.Info(ctx, "loan request renewed", "loan_request_id", prev.ID, "continuation_id", next.ID,
		"carried", carried, "new_capital", in.NewCapital)
	return &RenewResult{Previous: toDTO(prev), Continuation: toDTO(next), CarriedBalance: carried}, nil
}
