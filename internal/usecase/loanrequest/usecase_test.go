package loanrequest

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"loan-backoffice/internal/adapter/repository/mysql"
	"loan-backoffice/internal/domain/apperror"
	"loan-backoffice/internal/domain/cashflow"
	"loan-backoffice/internal/domain/client"
	"loan-backoffice/internal/domain/identity"
	domain "loan-backoffice/internal/domain/loanrequest"
	"loan-backoffice/internal/domain/transaction"
	"loan-backoffice/internal/domain/uow"
	"loan-backoffice/internal/testutil/testdb"
	"loan-backoffice/internal/timeutil"
)

var (
	cot = time.FixedZone("COT", -5*3600)
	now = time.Date(2026, 3, 10, 15, 0, 0, 0, time.UTC) // 10:00 local
)

type env struct {
	db      *gorm.DB
	uc      *Usecase
	agent   *identity.User
	actor   identity.Actor
	manager identity.Actor
	client  *client.Client
}

func setup(t *testing.T, limits domain.Limits) *env {
	t.Helper()
	db := testdb.Open(t)
	b := testdb.Branch(t, db, "Centro")
	ag := testdb.User(t, db, identity.RoleAgent, b.ID)
	mg := testdb.User(t, db, identity.RoleManager, b.ID)
	c := testdb.Client(t, db, ag.ID, client.StatusProspect)

	repos := uow.Repos{
		Users:        mysql.NewIdentityRepository(db),
		Clients:      mysql.NewClientRepository(db),
		LoanRequests: mysql.NewLoanRequestRepository(db),
		Transactions: mysql.NewTransactionRepository(db),
		CashFlows:    mysql.NewCashFlowRepository(db),
	}
	uc := NewUsecase(repos, mysql.NewGormUoW(db), timeutil.Fixed(cot, now), limits)
	return &env{db: db, uc: uc, agent: ag, actor: identity.ActorOf(ag), manager: identity.ActorOf(mg), client: c}
}

var defaultLimits = domain.Limits{MinRequested: 50000, MaxRequested: 5000000}

func (e *env) create(t *testing.T, requested int64, amount *int64) *LoanRequestDTO {
	t.Helper()
	dto, err := e.uc.Create(context.Background(), e.actor, CreateInput{
		ClientID: e.client.ID, RequestedAmount: requested, Amount: amount,
		PaymentDay: domain.PaymentDay15_30, Type: domain.TypeQuincenal, EndDateAt: "2026-04-10",
	})
	require.NoError(t, err)
	return dto
}

func i64(v int64) *int64 { return &v }

func TestCreate_DefaultsAmountAndStatus(t *testing.T) {
	e := setup(t, defaultLimits)
	dto := e.create(t, 150000, nil)

	assert.Equal(t, domain.StatusNew, dto.Status)
	assert.Equal(t, int64(180000), dto.Amount)
	assert.False(t, dto.AmountOverridden)
	assert.Equal(t, e.agent.ID, dto.AgentID)
	assert.Equal(t, int64(180000), dto.Balance)
	assert.Equal(t, "2026-04-10", timeutil.Fixed(cot, now).DayOf(dto.EndDateAt))
	assert.GreaterOrEqual(t, dto.Amount, dto.RequestedAmount)
}

func TestCreate_ManualTotalIsTracked(t *testing.T) {
	e := setup(t, defaultLimits)
	dto := e.create(t, 100000, i64(115000))
	assert.Equal(t, int64(115000), dto.Amount)
	assert.True(t, dto.AmountOverridden)
}

func TestCreate_OneOpenRequestPerClient(t *testing.T) {
	e := setup(t, defaultLimits)
	first := e.create(t, 100000, nil)

	_, err := e.uc.Create(context.Background(), e.actor, CreateInput{
		ClientID: e.client.ID, RequestedAmount: 100000,
		PaymentDay: domain.PaymentDay5_20, Type: domain.TypeMensual, EndDateAt: "2026-05-01",
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrOpenRequestExists))
	ae, _ := apperror.As(err)
	assert.Equal(t, first.ID, ae.Details["loanRequestId"])
}

func TestCreate_Validation(t *testing.T) {
	e := setup(t, domain.Limits{MinRequested: 50000, MaxRequested: 1000000, InvoiceLimit: 100000})
	base := CreateInput{ClientID: e.client.ID, RequestedAmount: 60000,
		PaymentDay: domain.PaymentDay10_25, Type: domain.TypeQuincenal, EndDateAt: "2026-04-01"}

	tests := []struct {
		name string
		edit func(*CreateInput)
		want error
	}{
		{"end date today", func(in *CreateInput) { in.EndDateAt = "2026-03-10" }, apperror.ErrValidation},
		{"end date garbage", func(in *CreateInput) { in.EndDateAt = "10/04/2026" }, apperror.ErrValidation},
		{"below min", func(in *CreateInput) { in.RequestedAmount = 1000 }, apperror.ErrValidation},
		{"above max", func(in *CreateInput) { in.RequestedAmount = 2000000 }, apperror.ErrValidation},
		{"invoice limit", func(in *CreateInput) { in.RequestedAmount = 90000 }, apperror.ErrValidation},
		{"payment day", func(in *CreateInput) { in.PaymentDay = "1-15" }, apperror.ErrValidation},
		{"type", func(in *CreateInput) { in.Type = "SEMANAL" }, apperror.ErrValidation},
		{"initial status", func(in *CreateInput) { s := domain.StatusFunded; in.Status = &s }, apperror.ErrValidation},
		{"unknown client", func(in *CreateInput) { in.ClientID = 999 }, apperror.ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := base
			tt.edit(&in)
			_, err := e.uc.Create(context.Background(), e.actor, in)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestCreate_AgentFundedLimit(t *testing.T) {
	e := setup(t, defaultLimits)
	require.NoError(t, e.db.Model(e.agent).Update("funded_limit", 150000).Error)
	other := testdb.Client(t, e.db, e.agent.ID, client.StatusActive)
	testdb.LoanRequest(t, e.db, &domain.LoanRequest{
		ClientID: other.ID, AgentID: e.agent.ID, RequestedAmount: 100000, Status: domain.StatusFunded,
	})

	_, err := e.uc.Create(context.Background(), e.actor, CreateInput{
		ClientID: e.client.ID, RequestedAmount: 60000,
		PaymentDay: domain.PaymentDay3_18, Type: domain.TypeQuincenal, EndDateAt: "2026-04-01",
	})
	assert.ErrorIs(t, err, apperror.ErrValidation)

	dto, err := e.uc.Create(context.Background(), e.actor, CreateInput{
		ClientID: e.client.ID, RequestedAmount: 50000,
		PaymentDay: domain.PaymentDay3_18, Type: domain.TypeQuincenal, EndDateAt: "2026-04-01",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(50000), dto.RequestedAmount)
}

func TestCreate_ScopeAndClosedRegister(t *testing.T) {
	e := setup(t, defaultLimits)
	colleague := testdb.User(t, e.db, identity.RoleAgent, e.agent.BranchID)

	_, err := e.uc.Create(context.Background(), identity.ActorOf(colleague), CreateInput{
		ClientID: e.client.ID, RequestedAmount: 60000,
		PaymentDay: domain.PaymentDay15_30, Type: domain.TypeQuincenal, EndDateAt: "2026-04-01",
	})
	assert.ErrorIs(t, err, apperror.ErrForbidden)

	require.NoError(t, e.db.Create(&cashflow.DayClosure{
		AgentID: e.agent.ID, BusinessDate: "2026-03-10", ClosedByID: e.agent.ID, ClosedAt: now,
	}).Error)
	_, err = e.uc.Create(context.Background(), e.manager, CreateInput{
		ClientID: e.client.ID, RequestedAmount: 60000,
		PaymentDay: domain.PaymentDay15_30, Type: domain.TypeQuincenal, EndDateAt: "2026-04-01",
	})
	assert.ErrorIs(t, err, cashflow.ErrRegisterClosed)
	assert.Equal(t, 409, apperror.HTTPStatus(err))
}

func TestUpdate_AmountRecomputeAndOverride(t *testing.T) {
	e := setup(t, defaultLimits)
	ctx := context.Background()
	dto := e.create(t, 100000, nil)

	got, err := e.uc.Update(ctx, e.actor, dto.ID, UpdateInput{RequestedAmount: i64(200000)})
	require.NoError(t, err)
	assert.Equal(t, int64(240000), got.Amount, "auto total follows requested amount")

	got, err = e.uc.Update(ctx, e.actor, dto.ID, UpdateInput{Amount: i64(250000)})
	require.NoError(t, err)
	assert.True(t, got.AmountOverridden)

	got, err = e.uc.Update(ctx, e.actor, dto.ID, UpdateInput{RequestedAmount: i64(210000)})
	require.NoError(t, err)
	assert.Equal(t, int64(250000), got.Amount, "manual total survives requested edits")
	assert.Equal(t, int64(210000), got.RequestedAmount)
}

func TestUpdate_StatusTransitions(t *testing.T) {
	e := setup(t, defaultLimits)
	ctx := context.Background()
	dto := e.create(t, 100000, nil)
	st := func(s domain.Status) *domain.Status { return &s }

	got, err := e.uc.Update(ctx, e.actor, dto.ID, UpdateInput{Status: st(domain.StatusUnderReview)})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusUnderReview, got.Status)

	_, err = e.uc.Update(ctx, e.actor, dto.ID, UpdateInput{Status: st(domain.StatusFunded)})
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)

	_, err = e.uc.Update(ctx, e.actor, dto.ID, UpdateInput{Status: st(domain.StatusRejected)})
	assert.ErrorIs(t, err, apperror.ErrValidation)

	note := "income not verified"
	got, err = e.uc.Update(ctx, e.actor, dto.ID, UpdateInput{Status: st(domain.StatusRejected), RejectionNote: &note})
	require.NoError(t, err)
	assert.Equal(t, domain.StatusRejected, got.Status)
	assert.Equal(t, note, got.RejectionNote)
	assert.NotNil(t, got.ClosedAt)

	_, err = e.uc.Update(ctx, e.actor, dto.ID, UpdateInput{RequestedAmount: i64(90000)})
	assert.ErrorIs(t, err, domain.ErrNotEditable)

	_, err = e.uc.Update(ctx, e.actor, 4242, UpdateInput{Status: st(domain.StatusCanceled)})
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestUpdate_RejectFundedIsConflict(t *testing.T) {
	e := setup(t, defaultLimits)
	l := testdb.LoanRequest(t, e.db, &domain.LoanRequest{
		ClientID: e.client.ID, AgentID: e.agent.ID, RequestedAmount: 100000, Status: domain.StatusFunded,
	})
	s, note := domain.StatusRejected, "late"
	_, err := e.uc.Update(context.Background(), e.actor, l.ID, UpdateInput{Status: &s, RejectionNote: &note})
	assert.ErrorIs(t, err, domain.ErrFundedReject)
	assert.Equal(t, 409, apperror.HTTPStatus(err))
}

func TestRenew_FundedCarriesBalance(t *testing.T) {
	e := setup(t, defaultLimits)
	ctx := context.Background()
	old := testdb.LoanRequest(t, e.db, &domain.LoanRequest{
		ClientID: e.client.ID, AgentID: e.agent.ID, RequestedAmount: 100000, Amount: 120000,
		AmountPaid: 20000, Status: domain.StatusFunded,
	})

	res, err := e.uc.Renew(ctx, e.actor, old.ID, RenewInput{
		NewCapital: 50000, PaymentDay: domain.PaymentDay5_20, Type: domain.TypeMensual, EndDateAt: "2026-05-10",
	})
	require.NoError(t, err)

	assert.Equal(t, int64(100000), res.CarriedBalance)
	assert.Equal(t, domain.StatusRenewed, res.Previous.Status)
	cont := res.Continuation
	assert.Equal(t, domain.StatusApproved, cont.Status)
	assert.Equal(t, old.ClientID, cont.ClientID)
	assert.Equal(t, old.AgentID, cont.AgentID)
	assert.Equal(t, int64(150000), cont.RequestedAmount)
	assert.Equal(t, int64(180000), cont.Amount)
	assert.Equal(t, int64(50000), cont.DisbursableAmount())
	require.NotNil(t, cont.RenewedFromID)
	assert.Equal(t, old.ID, *cont.RenewedFromID)

	rows, err := mysql.NewTransactionRepository(e.db).ListByLoanRequest(ctx, old.ID)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, transaction.TypeRenewal, rows[0].Type)
	assert.Equal(t, int64(100000), rows[0].Amount)

	open, err := e.uc.GetOpenByClient(ctx, e.actor, e.client.ID)
	require.NoError(t, err)
	assert.Equal(t, cont.ID, open.ID)

	all, err := e.uc.ListByClient(ctx, e.actor, e.client.ID)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestRenew_ApprovedCarriesNothing(t *testing.T) {
	e := setup(t, defaultLimits)
	dto := e.create(t, 100000, nil)
	s := domain.StatusApproved
	_, err := e.uc.Update(context.Background(), e.actor, dto.ID, UpdateInput{Status: &s})
	require.NoError(t, err)

	res, err := e.uc.Renew(context.Background(), e.actor, dto.ID, RenewInput{
		NewCapital: 120000, PaymentDay: domain.PaymentDay15_30, Type: domain.TypeQuincenal, EndDateAt: "2026-04-30",
	})
	require.NoError(t, err)
	assert.Zero(t, res.CarriedBalance)
	assert.Equal(t, int64(120000), res.Continuation.RequestedAmount)

	rows, _ := mysql.NewTransactionRepository(e.db).ListByLoanRequest(context.Background(), dto.ID)
	assert.Empty(t, rows)
}

func (e *env) renewFunded(t *testing.T) *LoanRequestDTO {
	t.Helper()
	old := testdb.LoanRequest(t, e.db, &domain.LoanRequest{
		ClientID: e.client.ID, AgentID: e.agent.ID, RequestedAmount: 100000, Amount: 120000,
		AmountPaid: 20000, Status: domain.StatusFunded,
	})
	res, err := e.uc.Renew(context.Background(), e.actor, old.ID, RenewInput{
		NewCapital: 50000, PaymentDay: domain.PaymentDay5_20, Type: domain.TypeMensual, EndDateAt: "2026-05-10",
	})
	require.NoError(t, err)
	require.Equal(t, int64(100000), res.CarriedBalance)
	return res.Continuation
}

func TestRenew_UndisbursedContinuationKeepsCarriedBalance(t *testing.T) {
	e := setup(t, defaultLimits)
	ctx := context.Background()
	cont := e.renewFunded(t)

	res, err := e.uc.Renew(ctx, e.actor, cont.ID, RenewInput{
		NewCapital: 60000, PaymentDay: domain.PaymentDay15_30, Type: domain.TypeQuincenal, EndDateAt: "2026-05-20",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(100000), res.CarriedBalance)
	assert.Equal(t, int64(160000), res.Continuation.RequestedAmount)
	assert.Equal(t, int64(100000), res.Continuation.CarriedBalance)
	assert.Equal(t, int64(60000), res.Continuation.DisbursableAmount())

	rows, err := mysql.NewTransactionRepository(e.db).ListByLoanRequest(ctx, cont.ID)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, transaction.TypeRenewal, rows[0].Type)
	assert.Equal(t, int64(100000), rows[0].Amount)
}

func TestUpdate_ContinuationWithCarriedBalanceCannotBeDropped(t *testing.T) {
	e := setup(t, defaultLimits)
	ctx := context.Background()
	cont := e.renewFunded(t)

	s, note := domain.StatusRejected, "changed their mind"
	_, err := e.uc.Update(ctx, e.actor, cont.ID, UpdateInput{Status: &s, RejectionNote: &note})
	assert.ErrorIs(t, err, domain.ErrFundedReject)
	assert.Equal(t, 409, apperror.HTTPStatus(err))

	s = domain.StatusCanceled
	_, err = e.uc.Update(ctx, e.actor, cont.ID, UpdateInput{Status: &s})
	assert.ErrorIs(t, err, domain.ErrCarriedCancel)

	open, err := e.uc.GetOpenByClient(ctx, e.actor, e.client.ID)
	require.NoError(t, err)
	assert.Equal(t, cont.ID, open.ID)
	assert.Equal(t, domain.StatusApproved, open.Status)
}

func TestRenew_Rules(t *testing.T) {
	e := setup(t, defaultLimits)
	dto := e.create(t, 100000, nil)
	in := RenewInput{NewCapital: 50000, PaymentDay: domain.PaymentDay15_30, Type: domain.TypeQuincenal, EndDateAt: "2026-04-30"}

	_, err := e.uc.Renew(context.Background(), e.actor, dto.ID, in)
	assert.ErrorIs(t, err, domain.ErrInvalidTransition, "NEW requests cannot be renewed")

	in.NewCapital = 0
	_, err = e.uc.Renew(context.Background(), e.actor, dto.ID, in)
	assert.ErrorIs(t, err, apperror.ErrValidation)
}

func TestGetOpenByClient_NoneIsNotFound(t *testing.T) {
	e := setup(t, defaultLimits)
	_, err := e.uc.GetOpenByClient(context.Background(), e.actor, e.client.ID)
	assert.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestSimulate(t *testing.T) {
	e := setup(t, defaultLimits)
	sim, err := e.uc.Simulate(150000, 8)
	require.NoError(t, err)
	assert.Equal(t, int64(180000), sim.TotalToPay)
	assert.Equal(t, sim.TotalToPay-sim.Principal-sim.Interest, sim.Aval)
}
