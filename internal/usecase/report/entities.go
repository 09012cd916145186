package report

import (
	"time"

	"loan-backoffice/internal/domain/client"
	"loan-backoffice/internal/domain/document"
	"loan-backoffice/internal/domain/loanrequest"
	"loan-backoffice/internal/domain/transaction"
)

type Kind string

const (
	KindActiveLoans       Kind = "active-loans"
	KindOverdueLoans      Kind = "overdue-loans"
	KindBranchStatistics  Kind = "branch-statistics"
	KindAgentActivity     Kind = "agent-activity"
	KindFundedGrowth      Kind = "funded-growth"
	KindCollections       Kind = "collections"
	KindDisbursements     Kind = "disbursements"
	KindPenalties         Kind = "penalties"
	KindRenewals          Kind = "renewals"
	KindCashFlowSummary   Kind = "cash-flow-summary"
	KindDailyCash         Kind = "daily-cash"
	KindClientStatus      Kind = "client-status"
	KindClientStatement   Kind = "client-statement"
	KindDocuments         Kind = "documents"
	KindLoanStatusSummary Kind = "loan-status-summary"
)

var Kinds = []Kind{
	KindActiveLoans, KindOverdueLoans, KindBranchStatistics, KindAgentActivity, KindFundedGrowth,
	KindCollections, KindDisbursements, KindPenalties, KindRenewals, KindCashFlowSummary,
	KindDailyCash, KindClientStatus, KindClientStatement, KindDocuments, KindLoanStatusSummary,
}

// Filter is shared by every report kind; each kind reads the subset it
// understands. Nil and empty fields are not applied.
type Filter struct {
	BranchID  *uint64
	AgentID   *uint64
	ClientID  *uint64
	StartDate string // YYYY-MM-DD, inclusive
	EndDate   string // YYYY-MM-DD, inclusive
	DocType   *document.Category
	Year      int // funded-growth current year; 0 means this year
}

// Report is the closed set of report results. Each carries its kind on the wire.
type Report interface {
	ReportKind() Kind
}

// --- active-loans ---

type StatusBlock struct {
	Status      loanrequest.Status `json:"status"`
	Count       int                `json:"count"`
	Outstanding int64              `json:"outstanding"`
	Percentage  float64            `json:"percentage"`
}

type ActiveLoansTotals struct {
	Count       int   `json:"count"`
	Outstanding int64 `json:"outstanding"`
}

type ActiveLoans struct {
	Kind   Kind              `json:"kind"`
	Totals ActiveLoansTotals `json:"totals"`
	Blocks []StatusBlock     `json:"blocks"`
}

func (r *ActiveLoans) ReportKind() Kind { return r.Kind }

// --- overdue-loans ---

type OverdueLoan struct {
	LoanRequestID uint64    `json:"loanRequestId"`
	ClientID      uint64    `json:"clientId"`
	ClientName    string    `json:"clientName"`
	AgentID       uint64    `json:"agentId"`
	DueDate       string    `json:"dueDate"`
	EndDateAt     time.Time `json:"endDateAt"`
	LoanAmount    int64     `json:"loanAmount"`
	TotalRepaid   int64     `json:"totalRepaid"`
	PendingAmount int64     `json:"pendingAmount"`
	DaysMora      int       `json:"daysMora"`
}

type OverdueTotals struct {
	Count         int   `json:"count"`
	PendingAmount int64 `json:"pendingAmount"`
}

type OverdueLoans struct {
	Kind   Kind          `json:"kind"`
	Date   string        `json:"date"`
	Totals OverdueTotals `json:"totals"`
	Loans  []OverdueLoan `json:"loans"`
}

func (r *OverdueLoans) ReportKind() Kind { return r.Kind }

// --- branch-statistics ---

type BranchStats struct {
	BranchID        uint64 `json:"branchId"`
	BranchName      string `json:"branchName"`
	PrincipalLoaned int64  `json:"principalLoaned"`
	AmountDisbursed int64  `json:"amountDisbursed"`
	AmountCollected int64  `json:"amountCollected"`
	AmountRepaid    int64  `json:"amountRepaid"`
	AmountRenewed   int64  `json:"amountRenewed"`
	ActiveClients   int    `json:"activeClients"`
	OverdueAmount   int64  `json:"overdueAmount"`
	OverdueLoans    int    `json:"overdueLoans"`
	NetFlow         int64  `json:"netFlow"`
}

func (b *BranchStats) add(o BranchStats) {
	b.PrincipalLoaned += o.PrincipalLoaned
	b.AmountDisbursed += o.AmountDisbursed
	b.AmountCollected += o.AmountCollected
	b.AmountRepaid += o.AmountRepaid
	b.AmountRenewed += o.AmountRenewed
	b.ActiveClients += o.ActiveClients
	b.OverdueAmount += o.OverdueAmount
	b.OverdueLoans += o.OverdueLoans
	b.NetFlow += o.NetFlow
}

type BranchStatistics struct {
	Kind     Kind          `json:"kind"`
	Totals   BranchStats   `json:"totals"`
	Branches []BranchStats `json:"branches"`
}

func (r *BranchStatistics) ReportKind() Kind { return r.Kind }

// --- agent-activity ---

type Activity struct {
	RequestsHandled  int   `json:"requestsHandled"`
	Funded           int   `json:"funded"`
	Renewed          int   `json:"renewed"`
	RepaymentsCount  int   `json:"repaymentsCount"`
	RepaymentsAmount int64 `json:"repaymentsAmount"`
	PenaltiesCount   int   `json:"penaltiesCount"`
	PenaltiesAmount  int64 `json:"penaltiesAmount"`
}

func (a *Activity) add(o Activity) {
	a.RequestsHandled += o.RequestsHandled
	a.Funded += o.Funded
	a.Renewed += o.Renewed
	a.RepaymentsCount += o.RepaymentsCount
	a.RepaymentsAmount += o.RepaymentsAmount
	a.PenaltiesCount += o.PenaltiesCount
	a.PenaltiesAmount += o.PenaltiesAmount
}

type AgentBlock struct {
	AgentID   uint64 `json:"agentId"`
	AgentName string `json:"agentName"`
	BranchID  uint64 `json:"branchId"`
	Activity
}

type BranchRollup struct {
	BranchID uint64 `json:"branchId"`
	Activity
}

type AgentActivity struct {
	Kind     Kind           `json:"kind"`
	Totals   Activity       `json:"totals"`
	Agents   []AgentBlock   `json:"agents"`
	Branches []BranchRollup `json:"branches"`
}

func (r *AgentActivity) ReportKind() Kind { return r.Kind }

// --- funded-growth ---

type MonthBlock struct {
	Month          int   `json:"month"`
	PreviousYear   int   `json:"previousYear"`
	CurrentYear    int   `json:"currentYear"`
	PreviousAmount int64 `json:"previousAmount"`
	CurrentAmount  int64 `json:"currentAmount"`
}

type GrowthTotals struct {
	PreviousYearTotal int     `json:"previousYearTotal"`
	CurrentYearTotal  int     `json:"currentYearTotal"`
	Growth            float64 `json:"growth"`
	Difference        int     `json:"difference"`
}

type FundedGrowth struct {
	Kind         Kind         `json:"kind"`
	PreviousYear int          `json:"previousYear"`
	CurrentYear  int          `json:"currentYear"`
	Totals       GrowthTotals `json:"totals"`
	Blocks       []MonthBlock `json:"blocks"`
}

func (r *FundedGrowth) ReportKind() Kind { return r.Kind }

// --- collections ---

type DayAmount struct {
	Date   string `json:"date"`
	Count  int    `json:"count"`
	Amount int64  `json:"amount"`
}

type CountAmount struct {
	Count  int   `json:"count"`
	Amount int64 `json:"amount"`
}

type Collections struct {
	Kind   Kind        `json:"kind"`
	Totals CountAmount `json:"totals"`
	Blocks []DayAmount `json:"blocks"`
}

func (r *Collections) ReportKind() Kind { return r.Kind }

// --- disbursements ---

type DisbursementDay struct {
	Date     string      `json:"date"`
	New      CountAmount `json:"new"`
	Renewals CountAmount `json:"renewals"`
}

type DisbursementTotals struct {
	New      CountAmount `json:"new"`
	Renewals CountAmount `json:"renewals"`
	Amount   int64       `json:"amount"`
}

type Disbursements struct {
	Kind   Kind               `json:"kind"`
	Totals DisbursementTotals `json:"totals"`
	Blocks []DisbursementDay  `json:"blocks"`
}

func (r *Disbursements) ReportKind() Kind { return r.Kind }

// --- penalties ---

type AgentAmount struct {
	AgentID uint64 `json:"agentId"`
	Count   int    `json:"count"`
	Amount  int64  `json:"amount"`
}

type Penalties struct {
	Kind   Kind          `json:"kind"`
	Totals CountAmount   `json:"totals"`
	Blocks []AgentAmount `json:"blocks"`
}

func (r *Penalties) ReportKind() Kind { return r.Kind }

// --- renewals ---

type RenewalRow struct {
	LoanRequestID      uint64             `json:"loanRequestId"`
	ClientID           uint64             `json:"clientId"`
	AgentID            uint64             `json:"agentId"`
	Amount             int64              `json:"amount"`
	AmountPaid         int64              `json:"amountPaid"`
	CarriedBalance     int64              `json:"carriedBalance"`
	RenewedAt          *time.Time         `json:"renewedAt"`
	ContinuationID     *uint64            `json:"continuationId"`
	ContinuationStatus loanrequest.Status `json:"continuationStatus,omitempty"`
	NewRequested       int64              `json:"newRequestedAmount"`
}

type RenewalTotals struct {
	Count          int   `json:"count"`
	CarriedBalance int64 `json:"carriedBalance"`
	NewRequested   int64 `json:"newRequestedAmount"`
}

type Renewals struct {
	Kind   Kind          `json:"kind"`
	Totals RenewalTotals `json:"totals"`
	Data   []RenewalRow  `json:"data"`
}

func (r *Renewals) ReportKind() Kind { return r.Kind }

// --- cash-flow-summary ---

type FlowBlock struct {
	TypeMovement string `json:"typeMovement"`
	Category     string `json:"category"`
	Count        int    `json:"count"`
	Amount       int64  `json:"amount"`
}

type FlowTotals struct {
	Entradas       int64 `json:"entradas"`
	Salidas        int64 `json:"salidas"`
	Transferencias int64 `json:"transferencias"`
	Net            int64 `json:"net"`
}

type CashFlowSummary struct {
	Kind   Kind        `json:"kind"`
	Totals FlowTotals  `json:"totals"`
	Blocks []FlowBlock `json:"blocks"`
}

func (r *CashFlowSummary) ReportKind() Kind { return r.Kind }

// --- daily-cash ---

type CashDay struct {
	Date           string `json:"date"`
	Entradas       int64  `json:"entradas"`
	Salidas        int64  `json:"salidas"`
	Transferencias int64  `json:"transferencias"`
	Collections    int64  `json:"collections"`
	Disbursements  int64  `json:"disbursements"`
}

func (d *CashDay) add(o CashDay) {
	d.Entradas += o.Entradas
	d.Salidas += o.Salidas
	d.Transferencias += o.Transferencias
	d.Collections += o.Collections
	d.Disbursements += o.Disbursements
}

type DailyCash struct {
	Kind   Kind      `json:"kind"`
	Totals CashDay   `json:"totals"`
	Blocks []CashDay `json:"blocks"`
}

func (r *DailyCash) ReportKind() Kind { return r.Kind }

// --- client-status ---

type ClientStatusBlock struct {
	Status     client.Status `json:"status"`
	Count      int           `json:"count"`
	Percentage float64       `json:"percentage"`
}

type ClientStatus struct {
	Kind   Kind                `json:"kind"`
	Totals CountOnly           `json:"totals"`
	Blocks []ClientStatusBlock `json:"blocks"`
}

type CountOnly struct {
	Count int `json:"count"`
}

func (r *ClientStatus) ReportKind() Kind { return r.Kind }

// --- client-statement ---

type StatementLoan struct {
	loanrequest.LoanRequest
	Balance        int64                     `json:"balance"`
	PercentagePaid float64                   `json:"percentagePaid"`
	Transactions   []transaction.Transaction `json:"transactions"`
}

type StatementTotals struct {
	RequestedAmount int64 `json:"requestedAmount"`
	Amount          int64 `json:"amount"`
	AmountPaid      int64 `json:"amountPaid"`
	Penalties       int64 `json:"penalties"`
	Balance         int64 `json:"balance"`
}

type ClientStatement struct {
	Kind   Kind            `json:"kind"`
	Client client.Client   `json:"client"`
	Totals StatementTotals `json:"totals"`
	Loans  []StatementLoan `json:"loans"`
}

func (r *ClientStatement) ReportKind() Kind { return r.Kind }

// --- documents ---

type DocumentBlock struct {
	Category document.Category `json:"category"`
	Count    int               `json:"count"`
}

type Documents struct {
	Kind   Kind            `json:"kind"`
	Totals CountOnly       `json:"totals"`
	Blocks []DocumentBlock `json:"blocks"`
}

func (r *Documents) ReportKind() Kind { return r.Kind }

// --- loan-status-summary ---

type StatusSummaryBlock struct {
	Status          loanrequest.Status `json:"status"`
	Count           int                `json:"count"`
	RequestedAmount int64              `json:"requestedAmount"`
	Amount          int64              `json:"amount"`
}

type StatusSummaryTotals struct {
	Count           int   `json:"count"`
	RequestedAmount int64 `json:"requestedAmount"`
	Amount          int64 `json:"amount"`
}

type LoanStatusSummary struct {
	Kind   Kind                 `json:"kind"`
	Totals StatusSummaryTotals  `json:"totals"`
	Blocks []StatusSummaryBlock `json:"blocks"`
}

func (r *LoanStatusSummary) ReportKind() Kind { return r.Kind }
