package loanrequest

var transitions = map[Status][]Status{
	StatusNew:         {StatusUnderReview, StatusApproved, StatusRejected, StatusCanceled},
	StatusUnderReview: {StatusApproved, StatusRejected, StatusCanceled},
	StatusApproved:    {StatusFunded, StatusRenewed, StatusRejected, StatusCanceled},
	StatusFunded:      {StatusCompleted, StatusRenewed},
}

// ledgerDriven statuses are reached only through the ledger or the renew operation.
var ledgerDriven = map[Status]bool{
	StatusFunded:    true,
	StatusCompleted: true,
	StatusRenewed:   true,
}

// CanTransition reports whether from → to is part of the lifecycle.
func CanTransition(from, to Status) bool {
	for _, s := range transitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// CheckManualTransition validates a status change requested directly by a user
// (PATCH), as opposed to one driven by a disbursement, repayment or renewal.
func CheckManualTransition(l *LoanRequest, to Status, rejectionNote string) error {
	if !to.Valid() {
		return ErrInvalidTransition.WithDetail("status", string(to))
	}
	// A continuation's carried balance was lent out already; dropping the
	// request would lose track of it.
	funded := l.Status == StatusFunded || l.CarriedBalance > 0
	switch {
	case to == StatusRejected && funded:
		return ErrFundedReject.WithDetail("carriedBalance", l.CarriedBalance)
	case to == StatusCanceled && l.CarriedBalance > 0:
		return ErrCarriedCancel.WithDetail("carriedBalance", l.CarriedBalance)
	}
	if ledgerDriven[to] || !CanTransition(l.Status, to) {
		return ErrInvalidTransition.
			WithDetail("from", string(l.Status)).
			WithDetail("to", string(to))
	}
	if to == StatusRejected && rejectionNote == "" {
		return errRejectionNote
	}
	return nil
}
