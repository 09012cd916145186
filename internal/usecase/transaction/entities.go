package transaction

import (
	domain "loan-backoffice/internal/domain/transaction"
)

type RecordInput struct {
	LoanRequestID uint64      `json:"loanRequestId"`
	Type          domain.Type `json:"transactionType"`
	Amount        int64       `json:"amount"`
	Reference     string      `json:"reference"`
	Description   string      `json:"description"`
}

type RecordResult struct {
	Transaction domain.Transaction `json:"transaction"`
	Balance     domain.Balance     `json:"balance"`
	Status      string             `json:"status"`
}
