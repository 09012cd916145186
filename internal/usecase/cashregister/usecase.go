package cashregister

import (
	"context"
	"errors"
	"sort"

	"gorm.io/gorm"

	"loan-backoffice/internal/domain/apperror"
	domain "loan-backoffice/internal/domain/cashflow"
	"loan-backoffice/internal/domain/identity"
	"loan-backoffice/internal/domain/loanrequest"
	"loan-backoffice/internal/domain/transaction"
	"loan-backoffice/internal/domain/uow"
	"loan-backoffice/internal/metrics"
	"loan-backoffice/internal/timeutil"
	"loan-backoffice/pkg/logger"
)

type Usecase struct {
	repos uow.Repos
	uow   uow.UnitOfWork
	cal   *timeutil.Calendar
}

func NewUsecase(repos uow.Repos, tx uow.UnitOfWork, cal *timeutil.Calendar) *Usecase {
	return &Usecase{repos: repos, uow: tx, cal: cal}
}

// DailyTrace is a pure read; an empty date means today.
func (u *Usecase) DailyTrace(ctx context.Context, a identity.Actor, agentID uint64, date string) (*Trace, error) {
	if date == "" {
		date = u.cal.Today()
	}
	if _, err := identity.Authorize(ctx, u.repos.Users, a, agentID); err != nil {
		return nil, err
	}
	return u.trace(ctx, u.repos, agentID, date)
}

func (u *Usecase) trace(ctx context.Context, r uow.Repos, agentID uint64, date string) (*Trace, error) {
	from, to, err := u.cal.Bounds(date)
	if err != nil {
		return nil, apperror.Validation("date must be a YYYY-MM-DD date")
	}
	t := &Trace{AgentID: agentID, Date: date}

	prev, err := r.CashFlows.LastClosureBefore(ctx, agentID, date)
	switch {
	case err == nil:
		t.BaseAnterior = prev.TotalFinal
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return nil, err
	}

	rows, err := r.Transactions.List(ctx, transaction.Filter{
		AgentID: &agentID,
		Types:   []transaction.Type{transaction.TypeDisbursement, transaction.TypeRepayment, transaction.TypePenalty},
		From:    &from,
		To:      &to,
	})
	if err != nil {
		return nil, err
	}

	// Only the cash that left the register counts: a renewal disburses its
	// new capital, the carried balance never passes through the register.
	disbursed := map[uint64]int64{}
	var ids []uint64
	for _, row := range rows {
		switch row.Type {
		case transaction.TypeDisbursement:
			if _, seen := disbursed[row.LoanRequestID]; !seen {
				ids = append(ids, row.LoanRequestID)
			}
			disbursed[row.LoanRequestID] += row.Amount
		case transaction.TypeRepayment, transaction.TypePenalty:
			t.ValorCobradoDia += row.Amount
		}
	}
	if len(ids) > 0 {
		loans, err := r.LoanRequests.List(ctx, loanrequest.Filter{IDs: ids})
		if err != nil {
			return nil, err
		}
		for _, l := range loans {
			b := &t.Nuevos
			if l.IsRenewal() {
				b = &t.Renovados
			}
			b.Cantidad++
			b.MontoPrestado += disbursed[l.ID]
		}
	}

	moves, err := r.CashFlows.List(ctx, domain.Filter{
		UserID: &agentID,
		Types:  []domain.TypeMovement{domain.TypeTransferencia},
		From:   &from,
		To:     &to,
	})
	if err != nil {
		return nil, err
	}
	for _, m := range moves {
		if m.DestinationUserID != nil && *m.DestinationUserID == agentID {
			t.TransferEntrante += m.Amount
		}
		if m.OriginUserID != nil && *m.OriginUserID == agentID {
			t.TransferSaliente += m.Amount
		}
	}

	overdue, err := r.LoanRequests.List(ctx, loanrequest.Filter{
		AgentID:   &agentID,
		Statuses:  []loanrequest.Status{loanrequest.StatusFunded},
		EndBefore: &from,
	})
	if err != nil {
		return nil, err
	}
	for _, l := range overdue {
		if b := l.Balance(); b > 0 {
			t.ClientesEnMora.Cantidad++
			t.ClientesEnMora.Saldo += b
		}
	}

	t.computeTotal()
	return t, nil
}

// CloseDay freezes the agent's register for today. It is one-way.
func (u *Usecase) CloseDay(ctx context.Context, a identity.Actor, agentID uint64) (*domain.DayClosure, error) {
	var out *domain.DayClosure
	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		if _, err := identity.Authorize(ctx, r.Users, a, agentID); err != nil {
			return err
		}
		today := u.cal.Today()
		// serializes with guarded writes on the same agent
		if err := domain.EnsureRegisterOpen(ctx, r.Users, r.CashFlows, agentID, today); err != nil {
			return err
		}
		t, err := u.trace(ctx, r, agentID, today)
		if err != nil {
			return err
		}
		c := &domain.DayClosure{
			AgentID:      agentID,
			BusinessDate: today,
			TotalFinal:   t.TotalFinal,
			ClosedByID:   a.UserID,
			ClosedAt:     u.cal.Now(),
		}
		if err := r.CashFlows.CreateClosure(ctx, c); err != nil {
			return err
		}
		out = c
		return nil
	})
	if err != nil {
		return nil, err
	}
	metrics.DayClosuresTotal.Inc()
	logger.Info(ctx, "cash register closed", "agent_id", agentID, "date", out.BusinessDate, "total_final", out.TotalFinal)
	return out, nil
}

// RecordMovement stores a branch cash movement. Every agent it touches must
// still have an open register today.
func (u *Usecase) RecordMovement(ctx context.Context, a identity.Actor, in MovementInput) (*domain.CashFlow, error) {
	m := &domain.CashFlow{
		TypeMovement:      in.TypeMovement,
		Category:          in.Category,
		Amount:            in.Amount,
		Description:       in.Description,
		BranchID:          a.BranchID,
		OriginUserID:      in.OriginUserID,
		DestinationUserID: in.DestinationUserID,
		CreatedByID:       a.UserID,
	}
	if in.BranchID != nil {
		m.BranchID = *in.BranchID
	}
	if a.IsAgent() && m.OriginUserID == nil && m.DestinationUserID == nil {
		self := a.UserID
		switch m.TypeMovement {
		case domain.TypeEntrada:
			m.DestinationUserID = &self
		case domain.TypeSalida:
			m.OriginUserID = &self
		}
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	if !a.IsAdmin() && m.BranchID != a.BranchID {
		return nil, identity.ErrOutOfScope
	}
	parties := m.Users()
	if a.IsAgent() && !containsID(parties, a.UserID) {
		return nil, apperror.Forbidden("agents can only record movements of their own register")
	}
	// lock in id order so concurrent transfers cannot deadlock
	sort.Slice(parties, func(i, j int) bool { return parties[i] < parties[j] })

	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		today := u.cal.Today()
		for _, uid := range parties {
			usr, err := r.Users.GetUser(ctx, uid)
			if err != nil {
				return apperror.FromRecord(err, "user", uid)
			}
			if !a.IsAgent() && !a.CanAccess(usr) {
				return identity.ErrOutOfScope
			}
			if err := domain.EnsureRegisterOpen(ctx, r.Users, r.CashFlows, uid, today); err != nil {
				return err
			}
		}
		m.CreatedAt = u.cal.Now()
		return r.CashFlows.Create(ctx, m)
	})
	if err != nil {
		return nil, err
	}
	metrics.CashMovementsTotal.WithLabelValues(string(m.TypeMovement)).Inc()
	logger.Info(ctx, "cash movement recorded", "id", m.ID, "type", m.TypeMovement, "amount", m.Amount)
	return m, nil
}

func containsID(ids []uint64, id uint64) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

func (u *Usecase) ListMovements(ctx context.Context, a identity.Actor, in ListInput) ([]domain.CashFlow, error) {
	branchID, agentID := a.Scope(in.BranchID, in.AgentID)
	f := domain.Filter{BranchID: branchID, UserID: agentID}
	if in.StartDate != "" {
		from, _, err := u.cal.Bounds(in.StartDate)
		if err != nil {
			return nil, apperror.Validation("startDate must be a YYYY-MM-DD date")
		}
		f.From = &from
	}
	if in.EndDate != "" {
		_, to, err := u.cal.Bounds(in.EndDate)
		if err != nil {
			return nil, apperror.Validation("endDate must be a YYYY-MM-DD date")
		}
		f.To = &to
	}
	out, err := u.repos.CashFlows.List(ctx, f)
	if err != nil {
		return nil, err
	}
	if out == nil {
		out = []domain.CashFlow{}
	}
	return out, nil
}
