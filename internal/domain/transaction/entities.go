package transaction

import (
	"time"

	"loan-backoffice/internal/domain/apperror"
)

type Type string

const (
	TypeDisbursement Type = "DISBURSEMENT"
	TypeRepayment    Type = "REPAYMENT"
	TypePenalty      Type = "PENALTY"
	TypeRenewal      Type = "RENEWAL"
)

func (t Type) Valid() bool {
	switch t {
	case TypeDisbursement, TypeRepayment, TypePenalty, TypeRenewal:
		return true
	}
	return false
}

var (
	ErrRenewalViaLedger = apperror.Validation("renewal rows are written by the renew operation")
	ErrNotFunded        = apperror.Conflict("loan request is not funded")
	ErrNotApproved      = apperror.Conflict("only approved loan requests can be disbursed")
)

// ExceedsBalance is the conflict returned when a repayment is larger than what is owed.
func ExceedsBalance(remaining int64) error {
	return apperror.Conflict("repayment exceeds the remaining balance of %d", remaining).
		WithDetail("remainingBalance", remaining)
}

// Table: transactions. Append-only: rows are never updated or deleted.
type Transaction struct {
	ID            uint64    `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	LoanRequestID uint64    `gorm:"column:loan_request_id;not null;index" json:"loanRequestId"`
	Type          Type      `gorm:"column:type;type:varchar(16);not null;index" json:"transactionType"`
	Amount        int64     `gorm:"column:amount;not null" json:"amount"`
	Reference     string    `gorm:"column:reference;size:64;not null" json:"reference"`
	Description   string    `gorm:"column:description;size:255" json:"description,omitempty"`
	Date          time.Time `gorm:"column:date;not null;index" json:"date"`
	CreatedByID   uint64    `gorm:"column:created_by_id;not null" json:"createdById"`
	CreatedAt     time.Time `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
}

func (Transaction) TableName() string { return "transactions" }

// Balance is the computed position of a loan request after its ledger rows.
type Balance struct {
	LoanRequestID  uint64  `json:"loanRequestId"`
	Amount         int64   `json:"amount"`
	AmountPaid     int64   `json:"amountPaid"`
	Balance        int64   `json:"balance"`
	PercentagePaid float64 `json:"percentagePaid"`
}
