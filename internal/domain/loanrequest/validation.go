package loanrequest

import (
	"loan-backoffice/internal/domain/apperror"
)

var errRejectionNote = apperror.Validation("a rejection note is required to reject a loan request")

// Limits are the business-configured bounds applied on every write.
type Limits struct {
	MinRequested int64
	MaxRequested int64
	// Cap on a request's total payable, which on renewals aggregates carried
	// balance and new capital; 0 disables the check.
	InvoiceLimit int64
}

// Terms are the fields shared by create, edit and renew. Days are business
// dates (YYYY-MM-DD) so the end-date rule is evaluated in the branch timezone.
type Terms struct {
	RequestedAmount int64
	Amount          int64
	PaymentDay      PaymentDay
	Type            Type
	EndDay          string
	CreatedDay      string
}

func ValidateTerms(lim Limits, t Terms) error {
	requested, amount := t.RequestedAmount, t.Amount
	if requested <= 0 {
		return apperror.Validation("requestedAmount must be a positive integer")
	}
	if lim.MinRequested > 0 && requested < lim.MinRequested {
		return apperror.Validation("requestedAmount must be at least %d", lim.MinRequested).
			WithDetail("min", lim.MinRequested)
	}
	if lim.MaxRequested > 0 && requested > lim.MaxRequested {
		return apperror.Validation("requestedAmount must be at most %d", lim.MaxRequested).
			WithDetail("max", lim.MaxRequested)
	}
	if amount <= 0 {
		return apperror.Validation("amount must be a positive integer")
	}
	if lim.InvoiceLimit > 0 && amount > lim.InvoiceLimit {
		return apperror.Validation("amount exceeds the invoice limit of %d", lim.InvoiceLimit).
			WithDetail("invoiceLimit", lim.InvoiceLimit)
	}
	if !t.PaymentDay.Valid() {
		return apperror.Validation("paymentDay must be one of 15-30, 5-20, 10-25, 3-18")
	}
	if !t.Type.Valid() {
		return apperror.Validation("type must be QUINCENAL or MENSUAL")
	}
	if t.EndDay <= t.CreatedDay {
		return apperror.Validation("endDateAt must be after the creation date")
	}
	return nil
}
