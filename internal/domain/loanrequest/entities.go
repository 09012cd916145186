package loanrequest

import (
	"time"

	"github.com/shopspring/decimal"

	"loan-backoffice/internal/domain/apperror"
	"loan-backoffice/pkg/money"
)

type Status string

const (
	StatusNew         Status = "NEW"
	StatusUnderReview Status = "UNDER_REVIEW"
	StatusApproved    Status = "APPROVED"
	StatusFunded      Status = "FUNDED"
	StatusRenewed     Status = "RENEWED"
	StatusCompleted   Status = "COMPLETED"
	StatusRejected    Status = "REJECTED"
	StatusCanceled    Status = "CANCELED"
)

// Statuses is the closed set, in lifecycle order.
var Statuses = []Status{
	StatusNew, StatusUnderReview, StatusApproved, StatusFunded,
	StatusRenewed, StatusCompleted, StatusRejected, StatusCanceled,
}

// OpenStatuses are the non-terminal statuses.
var OpenStatuses = []Status{StatusNew, StatusUnderReview, StatusApproved, StatusFunded}

func (s Status) Valid() bool {
	for _, v := range Statuses {
		if v == s {
			return true
		}
	}
	return false
}

func (s Status) Terminal() bool {
	switch s {
	case StatusRenewed, StatusCompleted, StatusRejected, StatusCanceled:
		return true
	}
	return false
}

// PaymentDay is the pair of days in the month on which installments fall.
type PaymentDay string

const (
	PaymentDay15_30 PaymentDay = "15-30"
	PaymentDay5_20  PaymentDay = "5-20"
	PaymentDay10_25 PaymentDay = "10-25"
	PaymentDay3_18  PaymentDay = "3-18"
)

func (p PaymentDay) Valid() bool {
	switch p {
	case PaymentDay15_30, PaymentDay5_20, PaymentDay10_25, PaymentDay3_18:
		return true
	}
	return false
}

type Type string

const (
	TypeQuincenal Type = "QUINCENAL"
	TypeMensual   Type = "MENSUAL"
)

func (t Type) Valid() bool { return t == TypeQuincenal || t == TypeMensual }

// Markup turns principal into total payable (interest + aval).
var Markup = decimal.RequireFromString("1.2")

// DefaultAmount is the auto-computed total payable for a principal.
func DefaultAmount(requested int64) int64 { return money.ApplyFactor(requested, Markup) }

var (
	ErrInvalidTransition = apperror.Conflict("status transition not permitted")
	ErrOpenRequestExists = apperror.Conflict("client already has an open loan request")
	ErrFundedReject      = apperror.Conflict("loan request has a funded balance; renew it instead of rejecting")
	ErrCarriedCancel     = apperror.Conflict("loan request carries a renewed balance; disburse or renew it instead of canceling")
	ErrNotEditable       = apperror.Conflict("loan request amounts can no longer be edited")
)

// Table: loan_requests
type LoanRequest struct {
	ID       uint64 `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	ClientID uint64 `gorm:"column:client_id;not null;index" json:"clientId"`
	AgentID  uint64 `gorm:"column:agent_id;not null;index" json:"agentId"`

	RequestedAmount int64 `gorm:"column:requested_amount;not null" json:"requestedAmount"`
	Amount          int64 `gorm:"column:amount;not null" json:"amount"`
	// Set once a caller supplies the total explicitly; principal edits then leave Amount alone.
	AmountOverridden bool `gorm:"column:amount_overridden;not null;default:false" json:"amountOverridden"`
	// Σ repayments, maintained in the same transaction as each ledger insert.
	AmountPaid int64 `gorm:"column:amount_paid;not null;default:0" json:"amountPaid"`
	// Outstanding balance brought over from the renewed request (part of RequestedAmount).
	CarriedBalance int64 `gorm:"column:carried_balance;not null;default:0" json:"carriedBalance"`

	Status        Status     `gorm:"column:status;type:varchar(16);not null;index" json:"status"`
	PaymentDay    PaymentDay `gorm:"column:payment_day;type:varchar(8);not null" json:"paymentDay"`
	Type          Type       `gorm:"column:type;type:varchar(12);not null" json:"type"`
	EndDateAt     time.Time  `gorm:"column:end_date_at;not null;index" json:"endDateAt"`
	RejectionNote string     `gorm:"column:rejection_note;type:text" json:"rejectionNote,omitempty"`
	RenewedFromID *uint64    `gorm:"column:renewed_from_id;index" json:"renewedFromId,omitempty"`

	StatusUpdatedAt time.Time  `gorm:"column:status_updated_at" json:"statusUpdatedAt"`
	FundedAt        *time.Time `gorm:"column:funded_at;index" json:"fundedAt,omitempty"`
	ClosedAt        *time.Time `gorm:"column:closed_at" json:"closedAt,omitempty"`
	CreatedAt       time.Time  `gorm:"column:created_at;autoCreateTime;index" json:"createdAt"`
	UpdatedAt       time.Time  `gorm:"column:updated_at;autoUpdateTime" json:"updatedAt"`
}

func (LoanRequest) TableName() string { return "loan_requests" }

// Balance is the amount still owed.
func (l *LoanRequest) Balance() int64 { return l.Amount - l.AmountPaid }

func (l *LoanRequest) IsOpen() bool { return !l.Status.Terminal() }

func (l *LoanRequest) IsRenewal() bool { return l.RenewedFromID != nil }

// DisbursableAmount is the new cash handed to the client on funding.
func (l *LoanRequest) DisbursableAmount() int64 { return l.RequestedAmount - l.CarriedBalance }

// PercentagePaid is for display only and never stored.
func (l *LoanRequest) PercentagePaid() float64 {
	return money.ClampedPercent(l.AmountPaid, l.Amount)
}

// MoveTo applies a status change and stamps the matching timestamps.
// Callers validate the transition first.
func (l *LoanRequest) MoveTo(s Status, at time.Time) {
	l.Status = s
	l.StatusUpdatedAt = at
	switch {
	case s == StatusFunded:
		t := at
		l.FundedAt = &t
	case s.Terminal():
		t := at
		l.ClosedAt = &t
	}
}
