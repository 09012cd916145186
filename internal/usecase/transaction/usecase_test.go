package transaction

import (
	"context"
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
	"loan-backoffice/internal/domain/loanrequest"
	domain "loan-backoffice/internal/domain/transaction"
	"loan-backoffice/internal/domain/uow"
	"loan-backoffice/internal/testutil/testdb"
	"loan-backoffice/internal/timeutil"
)

var now = time.Date(2026, 3, 10, 15, 0, 0, 0, time.UTC)

type env struct {
	db     *gorm.DB
	uc     *Usecase
	agent  *identity.User
	actor  identity.Actor
	client *client.Client
}

func setup(t *testing.T, clientStatus client.Status) *env {
	t.Helper()
	db := testdb.Open(t)
	b := testdb.Branch(t, db, "Norte")
	ag := testdb.User(t, db, identity.RoleAgent, b.ID)
	c := testdb.Client(t, db, ag.ID, clientStatus)
	repos := uow.Repos{
		Users:        mysql.NewIdentityRepository(db),
		Clients:      mysql.NewClientRepository(db),
		LoanRequests: mysql.NewLoanRequestRepository(db),
		Transactions: mysql.NewTransactionRepository(db),
		CashFlows:    mysql.NewCashFlowRepository(db),
	}
	cal := timeutil.Fixed(time.FixedZone("COT", -5*3600), now)
	return &env{db: db, uc: NewUsecase(repos, mysql.NewGormUoW(db), cal), agent: ag, actor: identity.ActorOf(ag), client: c}
}

func (e *env) loan(t *testing.T, l loanrequest.LoanRequest) *loanrequest.LoanRequest {
	l.ClientID, l.AgentID = e.client.ID, e.agent.ID
	return testdb.LoanRequest(t, e.db, &l)
}

func (e *env) reload(t *testing.T, id uint64) (*loanrequest.LoanRequest, *client.Client) {
	t.Helper()
	var l loanrequest.LoanRequest
	require.NoError(t, e.db.First(&l, id).Error)
	var c client.Client
	require.NoError(t, e.db.First(&c, l.ClientID).Error)
	return &l, &c
}

func TestRecord_Disbursement(t *testing.T) {
	e := setup(t, client.StatusProspect)
	l := e.loan(t, loanrequest.LoanRequest{RequestedAmount: 100000, Status: loanrequest.StatusApproved})
	ctx := context.Background()

	_, err := e.uc.Record(ctx, e.actor, RecordInput{LoanRequestID: l.ID, Type: domain.TypeDisbursement, Amount: 90000})
	assert.ErrorIs(t, err, apperror.ErrValidation)

	res, err := e.uc.Record(ctx, e.actor, RecordInput{LoanRequestID: l.ID, Type: domain.TypeDisbursement, Amount: 100000})
	require.NoError(t, err)
	assert.Equal(t, string(loanrequest.StatusFunded), res.Status)
	assert.Len(t, res.Transaction.Reference, 32, "reference defaults to a generated id")
	assert.Equal(t, int64(120000), res.Balance.Balance)

	got, c := e.reload(t, l.ID)
	assert.Equal(t, loanrequest.StatusFunded, got.Status)
	assert.NotNil(t, got.FundedAt)
	assert.Equal(t, client.StatusActive, c.Status)

	_, err = e.uc.Record(ctx, e.actor, RecordInput{LoanRequestID: l.ID, Type: domain.TypeDisbursement, Amount: 100000})
	assert.ErrorIs(t, err, domain.ErrNotApproved)
}

func TestRecord_RenewalDisbursesOnlyNewCapital(t *testing.T) {
	e := setup(t, client.StatusActive)
	prev := e.loan(t, loanrequest.LoanRequest{RequestedAmount: 100000, Status: loanrequest.StatusRenewed})
	l := e.loan(t, loanrequest.LoanRequest{
		RequestedAmount: 150000, CarriedBalance: 100000, RenewedFromID: &prev.ID, Status: loanrequest.StatusApproved,
	})

	_, err := e.uc.Record(context.Background(), e.actor, RecordInput{LoanRequestID: l.ID, Type: domain.TypeDisbursement, Amount: 150000})
	require.Error(t, err)
	ae, ok := apperror.As(err)
	require.True(t, ok)
	assert.Equal(t, int64(50000), ae.Details["expected"])

	_, err = e.uc.Record(context.Background(), e.actor, RecordInput{LoanRequestID: l.ID, Type: domain.TypeDisbursement, Amount: 50000})
	require.NoError(t, err)
}

func TestRecord_RepaymentOverflowCitesRemaining(t *testing.T) {
	e := setup(t, client.StatusActive)
	l := e.loan(t, loanrequest.LoanRequest{
		RequestedAmount: 80000, Amount: 100000, AmountPaid: 90000, Status: loanrequest.StatusFunded,
	})

	_, err := e.uc.Record(context.Background(), e.actor, RecordInput{LoanRequestID: l.ID, Type: domain.TypeRepayment, Amount: 20000})
	require.Error(t, err)
	assert.Equal(t, 409, apperror.HTTPStatus(err))
	assert.Contains(t, err.Error(), "10000")
	ae, _ := apperror.As(err)
	assert.Equal(t, int64(10000), ae.Details["remainingBalance"])

	got, _ := e.reload(t, l.ID)
	assert.Equal(t, int64(90000), got.AmountPaid, "rejected repayment leaves the request untouched")
	var n int64
	require.NoError(t, e.db.Model(&domain.Transaction{}).Count(&n).Error)
	assert.Zero(t, n)
}

func TestRecord_RepaymentCompletesAndReleasesClient(t *testing.T) {
	e := setup(t, client.StatusActive)
	l := e.loan(t, loanrequest.LoanRequest{
		RequestedAmount: 80000, Amount: 100000, AmountPaid: 90000, Status: loanrequest.StatusFunded,
	})

	res, err := e.uc.Record(context.Background(), e.actor, RecordInput{
		LoanRequestID: l.ID, Type: domain.TypeRepayment, Amount: 10000, Reference: "  RC-881  ",
	})
	require.NoError(t, err)
	assert.Equal(t, string(loanrequest.StatusCompleted), res.Status)
	assert.Equal(t, "RC-881", res.Transaction.Reference)
	assert.Zero(t, res.Balance.Balance)
	assert.Equal(t, 100.0, res.Balance.PercentagePaid)

	got, c := e.reload(t, l.ID)
	assert.Equal(t, loanrequest.StatusCompleted, got.Status)
	assert.NotNil(t, got.ClosedAt)
	assert.Equal(t, client.StatusInactive, c.Status)

	_, err = e.uc.Record(context.Background(), e.actor, RecordInput{LoanRequestID: l.ID, Type: domain.TypeRepayment, Amount: 1})
	assert.ErrorIs(t, err, domain.ErrNotFunded)
}

func TestRecord_PenaltyKeepsBalance(t *testing.T) {
	e := setup(t, client.StatusActive)
	funded := e.loan(t, loanrequest.LoanRequest{RequestedAmount: 100000, Status: loanrequest.StatusFunded})

	res, err := e.uc.Record(context.Background(), e.actor, RecordInput{LoanRequestID: funded.ID, Type: domain.TypePenalty, Amount: 5000})
	require.NoError(t, err)
	assert.Equal(t, int64(120000), res.Balance.Balance)
	assert.Equal(t, string(loanrequest.StatusFunded), res.Status)
}

func TestRecord_InputRules(t *testing.T) {
	e := setup(t, client.StatusActive)
	approved := e.loan(t, loanrequest.LoanRequest{RequestedAmount: 100000, Status: loanrequest.StatusApproved})
	long := make([]byte, 65)
	for i := range long {
		long[i] = 'x'
	}

	tests := []struct {
		name string
		in   RecordInput
		want error
	}{
		{"renewal via ledger", RecordInput{LoanRequestID: approved.ID, Type: domain.TypeRenewal, Amount: 1}, domain.ErrRenewalViaLedger},
		{"unknown type", RecordInput{LoanRequestID: approved.ID, Type: "REFUND", Amount: 1}, apperror.ErrValidation},
		{"zero amount", RecordInput{LoanRequestID: approved.ID, Type: domain.TypeRepayment}, apperror.ErrValidation},
		{"long reference", RecordInput{LoanRequestID: approved.ID, Type: domain.TypePenalty, Amount: 1, Reference: string(long)}, apperror.ErrValidation},
		{"penalty before funding", RecordInput{LoanRequestID: approved.ID, Type: domain.TypePenalty, Amount: 1}, domain.ErrNotFunded},
		{"missing request", RecordInput{LoanRequestID: 999, Type: domain.TypePenalty, Amount: 1}, apperror.ErrNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := e.uc.Record(context.Background(), e.actor, tt.in)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestRecord_ScopeAndClosedRegister(t *testing.T) {
	e := setup(t, client.StatusActive)
	l := e.loan(t, loanrequest.LoanRequest{RequestedAmount: 100000, Status: loanrequest.StatusFunded})
	other := testdb.User(t, e.db, identity.RoleAgent, e.agent.BranchID)

	_, err := e.uc.Record(context.Background(), identity.ActorOf(other), RecordInput{LoanRequestID: l.ID, Type: domain.TypeRepayment, Amount: 100})
	assert.ErrorIs(t, err, apperror.ErrForbidden)

	require.NoError(t, e.db.Create(&cashflow.DayClosure{
		AgentID: e.agent.ID, BusinessDate: "2026-03-10", ClosedByID: e.agent.ID, ClosedAt: now,
	}).Error)
	_, err = e.uc.Record(context.Background(), e.actor, RecordInput{LoanRequestID: l.ID, Type: domain.TypeRepayment, Amount: 100})
	assert.ErrorIs(t, err, cashflow.ErrRegisterClosed)
}

func TestBalanceAndList_FromLedger(t *testing.T) {
	e := setup(t, client.StatusActive)
	ctx := context.Background()
	l := e.loan(t, loanrequest.LoanRequest{RequestedAmount: 100000, Status: loanrequest.StatusFunded})

	rows, err := e.uc.List(ctx, e.actor, l.ID)
	require.NoError(t, err)
	assert.NotNil(t, rows)
	assert.Empty(t, rows)

	for _, amt := range []int64{30000, 20000} {
		_, err := e.uc.Record(ctx, e.actor, RecordInput{LoanRequestID: l.ID, Type: domain.TypeRepayment, Amount: amt})
		require.NoError(t, err)
	}
	_, err = e.uc.Record(ctx, e.actor, RecordInput{LoanRequestID: l.ID, Type: domain.TypePenalty, Amount: 7000})
	require.NoError(t, err)

	b, err := e.uc.Balance(ctx, e.actor, l.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(120000), b.Amount)
	assert.Equal(t, int64(50000), b.AmountPaid)
	assert.Equal(t, int64(70000), b.Balance)

	rows, err = e.uc.List(ctx, e.actor, l.ID)
	require.NoError(t, err)
	assert.Len(t, rows, 3)
}
