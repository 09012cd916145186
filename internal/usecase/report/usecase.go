package report

import (
	"context"
	"strconv"
	"time"

	"loan-backoffice/internal/domain/apperror"
	"loan-backoffice/internal/domain/cashflow"
	"loan-backoffice/internal/domain/client"
	"loan-backoffice/internal/domain/document"
	"loan-backoffice/internal/domain/identity"
	"loan-backoffice/internal/domain/loanrequest"
	"loan-backoffice/internal/domain/transaction"
	"loan-backoffice/internal/domain/uow"
	"loan-backoffice/internal/timeutil"
)

// Usecase serves read-only aggregations. Reports never fail on "no data";
// they return zeroed totals and empty collections instead.
type Usecase struct {
	repos uow.Repos
	docs  document.Repository
	cal   *timeutil.Calendar
}

func NewUsecase(repos uow.Repos, docs document.Repository, cal *timeutil.Calendar) *Usecase {
	return &Usecase{repos: repos, docs: docs, cal: cal}
}

// scope is a Filter narrowed by the actor's visibility and resolved to UTC bounds.
type scope struct {
	actor    identity.Actor
	branchID *uint64
	agentID  *uint64
	clientID *uint64
	from, to *time.Time
	docType  *document.Category
	year     int
}

func (s scope) loans() loanrequest.Filter {
	return loanrequest.Filter{BranchID: s.branchID, AgentID: s.agentID, ClientID: s.clientID}
}

func (s scope) ledger(types ...transaction.Type) transaction.Filter {
	return transaction.Filter{
		BranchID: s.branchID, AgentID: s.agentID, ClientID: s.clientID,
		Types: types, From: s.from, To: s.to,
	}
}

func (u *Usecase) scope(a identity.Actor, f Filter) (scope, error) {
	s := scope{actor: a, clientID: f.ClientID, docType: f.DocType, year: f.Year}
	s.branchID, s.agentID = a.Scope(f.BranchID, f.AgentID)

	if f.StartDate != "" {
		from, _, err := u.cal.Bounds(f.StartDate)
		if err != nil {
			return s, apperror.Validation("startDate must be a YYYY-MM-DD date")
		}
		s.from = &from
	}
	if f.EndDate != "" {
		_, to, err := u.cal.Bounds(f.EndDate)
		if err != nil {
			return s, apperror.Validation("endDate must be a YYYY-MM-DD date")
		}
		s.to = &to
	}
	if s.from != nil && s.to != nil && !s.from.Before(*s.to) {
		return s, apperror.Validation("startDate must not be after endDate")
	}
	if f.DocType != nil && !f.DocType.Valid() {
		return s, apperror.Validation("unknown docType %q", *f.DocType)
	}
	if s.year == 0 {
		y, _ := strconv.Atoi(u.cal.Today()[:4])
		s.year = y
	}
	if s.year < 1971 || s.year > 9999 {
		return s, apperror.Validation("year must be a four-digit year")
	}
	return s, nil
}

// Generate builds the report of the given kind.
func (u *Usecase) Generate(ctx context.Context, a identity.Actor, kind Kind, f Filter) (Report, error) {
	s, err := u.scope(a, f)
	if err != nil {
		return nil, err
	}
	switch kind {
	case KindActiveLoans:
		return u.activeLoans(ctx, s)
	case KindOverdueLoans:
		return u.overdueLoans(ctx, s)
	case KindBranchStatistics:
		return u.branchStatistics(ctx, s)
	case KindAgentActivity:
		return u.agentActivity(ctx, s)
	case KindFundedGrowth:
		return u.fundedGrowth(ctx, s)
	case KindCollections:
		return u.collections(ctx, s)
	case KindDisbursements:
		return u.disbursements(ctx, s)
	case KindPenalties:
		return u.penalties(ctx, s)
	case KindRenewals:
		return u.renewals(ctx, s)
	case KindCashFlowSummary:
		return u.cashFlowSummary(ctx, s)
	case KindDailyCash:
		return u.dailyCash(ctx, s)
	case KindClientStatus:
		return u.clientStatus(ctx, s)
	case KindClientStatement:
		return u.clientStatement(ctx, s)
	case KindDocuments:
		return u.documents(ctx, s)
	case KindLoanStatusSummary:
		return u.loanStatusSummary(ctx, s)
	}
	return nil, apperror.NotFound("report", string(kind))
}

func (u *Usecase) activeLoans(ctx context.Context, s scope) (Report, error) {
	f := s.loans()
	f.Statuses = loanrequest.OpenStatuses
	f.CreatedFrom, f.CreatedTo = s.from, s.to
	loans, err := u.repos.LoanRequests.List(ctx, f)
	if err != nil {
		return nil, err
	}
	return buildActiveLoans(loans), nil
}

func (u *Usecase) overdueFilter(s scope) loanrequest.Filter {
	todayStart, _, _ := u.cal.Bounds(u.cal.Today())
	f := s.loans()
	f.Statuses = []loanrequest.Status{loanrequest.StatusFunded}
	f.EndBefore = &todayStart
	return f
}

func (u *Usecase) overdueLoans(ctx context.Context, s scope) (Report, error) {
	loans, err := u.repos.LoanRequests.List(ctx, u.overdueFilter(s))
	if err != nil {
		return nil, err
	}
	names := map[uint64]string{}
	for i := range loans {
		id := loans[i].ClientID
		if _, ok := names[id]; ok {
			continue
		}
		c, err := u.repos.Clients.GetByID(ctx, id)
		if err != nil {
			return nil, apperror.FromRecord(err, "client", id)
		}
		names[id] = c.Name
	}
	return buildOverdueLoans(u.cal, loans, names), nil
}

func (u *Usecase) branchStatistics(ctx context.Context, s scope) (Report, error) {
	branches, err := u.repos.Users.ListBranches(ctx)
	if err != nil {
		return nil, err
	}
	stats := make([]BranchStats, 0, len(branches))
	for _, b := range branches {
		if s.branchID != nil && *s.branchID != b.ID {
			continue
		}
		bs := s
		bid := b.ID
		bs.branchID = &bid

		in := branchInput{branch: b}
		if in.ledger, err = u.repos.Transactions.List(ctx, bs.ledger()); err != nil {
			return nil, err
		}
		ff := bs.loans()
		ff.FundedFrom, ff.FundedTo = bs.from, bs.to
		if in.funded, err = u.repos.LoanRequests.List(ctx, ff); err != nil {
			return nil, err
		}
		if in.overdue, err = u.repos.LoanRequests.List(ctx, u.overdueFilter(bs)); err != nil {
			return nil, err
		}
		active := client.StatusActive
		clients, err := u.repos.Clients.List(ctx, client.Filter{BranchID: &bid, AgentID: bs.agentID, Status: &active})
		if err != nil {
			return nil, err
		}
		for _, c := range clients {
			if bs.clientID == nil || *bs.clientID == c.ID {
				in.activeClients++
			}
		}
		stats = append(stats, buildBranchStats(u.cal, in))
	}
	return buildBranchStatistics(stats), nil
}

// agentsOf maps each ledger row's loan request to its agent.
func (u *Usecase) agentsOf(ctx context.Context, ledger []transaction.Transaction) (map[uint64]uint64, map[uint64]bool, error) {
	agentOf := map[uint64]uint64{}
	renewal := map[uint64]bool{}
	if len(ledger) == 0 {
		return agentOf, renewal, nil
	}
	seen := map[uint64]bool{}
	var ids []uint64
	for _, t := range ledger {
		if !seen[t.LoanRequestID] {
			seen[t.LoanRequestID] = true
			ids = append(ids, t.LoanRequestID)
		}
	}
	loans, err := u.repos.LoanRequests.List(ctx, loanrequest.Filter{IDs: ids})
	if err != nil {
		return nil, nil, err
	}
	for i := range loans {
		agentOf[loans[i].ID] = loans[i].AgentID
		renewal[loans[i].ID] = loans[i].IsRenewal()
	}
	return agentOf, renewal, nil
}

func (u *Usecase) agentActivity(ctx context.Context, s scope) (Report, error) {
	role := identity.RoleAgent
	users, err := u.repos.Users.ListUsers(ctx, identity.UserFilter{BranchID: s.branchID, Role: &role})
	if err != nil {
		return nil, err
	}
	agents := users[:0]
	for _, usr := range users {
		if s.agentID == nil || *s.agentID == usr.ID {
			agents = append(agents, usr)
		}
	}

	cf := s.loans()
	cf.CreatedFrom, cf.CreatedTo = s.from, s.to
	created, err := u.repos.LoanRequests.List(ctx, cf)
	if err != nil {
		return nil, err
	}
	ff := s.loans()
	ff.FundedFrom, ff.FundedTo = s.from, s.to
	funded, err := u.repos.LoanRequests.List(ctx, ff)
	if err != nil {
		return nil, err
	}
	ledger, err := u.repos.Transactions.List(ctx, s.ledger(transaction.TypeRepayment, transaction.TypePenalty))
	if err != nil {
		return nil, err
	}
	agentOf, _, err := u.agentsOf(ctx, ledger)
	if err != nil {
		return nil, err
	}
	return buildAgentActivity(agents, created, funded, ledger, agentOf), nil
}

func (u *Usecase) fundedGrowth(ctx context.Context, s scope) (Report, error) {
	from, err := yearStart(u.cal, s.year-1)
	if err != nil {
		return nil, apperror.Validation("invalid year %d", s.year)
	}
	to, err := yearStart(u.cal, s.year+1)
	if err != nil {
		return nil, apperror.Validation("invalid year %d", s.year)
	}
	from, to = from.UTC(), to.UTC()
	f := s.loans()
	f.FundedFrom, f.FundedTo = &from, &to
	loans, err := u.repos.LoanRequests.List(ctx, f)
	if err != nil {
		return nil, err
	}
	return buildFundedGrowth(u.cal, s.year, loans), nil
}

func (u *Usecase) collections(ctx context.Context, s scope) (Report, error) {
	ledger, err := u.repos.Transactions.List(ctx, s.ledger(transaction.TypeRepayment))
	if err != nil {
		return nil, err
	}
	return buildCollections(u.cal, ledger), nil
}

func (u *Usecase) disbursements(ctx context.Context, s scope) (Report, error) {
	ledger, err := u.repos.Transactions.List(ctx, s.ledger(transaction.TypeDisbursement))
	if err != nil {
		return nil, err
	}
	_, renewal, err := u.agentsOf(ctx, ledger)
	if err != nil {
		return nil, err
	}
	return buildDisbursements(u.cal, ledger, renewal), nil
}

func (u *Usecase) penalties(ctx context.Context, s scope) (Report, error) {
	ledger, err := u.repos.Transactions.List(ctx, s.ledger(transaction.TypePenalty))
	if err != nil {
		return nil, err
	}
	agentOf, _, err := u.agentsOf(ctx, ledger)
	if err != nil {
		return nil, err
	}
	return buildPenalties(ledger, agentOf), nil
}

func (u *Usecase) renewals(ctx context.Context, s scope) (Report, error) {
	loans, err := u.repos.LoanRequests.List(ctx, s.loans())
	if err != nil {
		return nil, err
	}
	return buildRenewals(loans, s.from, s.to), nil
}

func (u *Usecase) movements(ctx context.Context, s scope) ([]cashflow.CashFlow, error) {
	return u.repos.CashFlows.List(ctx, cashflow.Filter{BranchID: s.branchID, UserID: s.agentID, From: s.from, To: s.to})
}

func (u *Usecase) cashFlowSummary(ctx context.Context, s scope) (Report, error) {
	moves, err := u.movements(ctx, s)
	if err != nil {
		return nil, err
	}
	return buildCashFlowSummary(moves), nil
}

func (u *Usecase) dailyCash(ctx context.Context, s scope) (Report, error) {
	moves, err := u.movements(ctx, s)
	if err != nil {
		return nil, err
	}
	ledger, err := u.repos.Transactions.List(ctx, s.ledger(
		transaction.TypeDisbursement, transaction.TypeRepayment, transaction.TypePenalty))
	if err != nil {
		return nil, err
	}
	return buildDailyCash(u.cal, moves, ledger), nil
}

func (u *Usecase) clientStatus(ctx context.Context, s scope) (Report, error) {
	clients, err := u.repos.Clients.List(ctx, client.Filter{BranchID: s.branchID, AgentID: s.agentID})
	if err != nil {
		return nil, err
	}
	if s.clientID != nil {
		kept := clients[:0]
		for _, c := range clients {
			if c.ID == *s.clientID {
				kept = append(kept, c)
			}
		}
		clients = kept
	}
	return buildClientStatus(clients), nil
}

func (u *Usecase) clientStatement(ctx context.Context, s scope) (Report, error) {
	if s.clientID == nil {
		return nil, apperror.Validation("clientId is required for the client statement")
	}
	c, err := u.repos.Clients.GetByID(ctx, *s.clientID)
	if err != nil {
		return nil, apperror.FromRecord(err, "client", *s.clientID)
	}
	if _, err := identity.Authorize(ctx, u.repos.Users, s.actor, c.AgentID); err != nil {
		return nil, err
	}
	loans, err := u.repos.LoanRequests.ListByClientID(ctx, c.ID)
	if err != nil {
		return nil, err
	}
	ledger, err := u.repos.Transactions.List(ctx, transaction.Filter{ClientID: &c.ID, From: s.from, To: s.to})
	if err != nil {
		return nil, err
	}
	return buildClientStatement(*c, loans, ledger), nil
}

func (u *Usecase) documents(ctx context.Context, s scope) (Report, error) {
	docs, err := u.docs.List(ctx, document.Filter{
		ClientID: s.clientID, AgentID: s.agentID, BranchID: s.branchID, Category: s.docType,
	})
	if err != nil {
		return nil, err
	}
	kept := docs[:0]
	for _, d := range docs {
		created := d.CreatedAt
		if within(&created, s.from, s.to) {
			kept = append(kept, d)
		}
	}
	return buildDocuments(kept, s.docType), nil
}

func (u *Usecase) loanStatusSummary(ctx context.Context, s scope) (Report, error) {
	f := s.loans()
	f.CreatedFrom, f.CreatedTo = s.from, s.to
	loans, err := u.repos.LoanRequests.List(ctx, f)
	if err != nil {
		return nil, err
	}
	return buildLoanStatusSummary(loans), nil
}
