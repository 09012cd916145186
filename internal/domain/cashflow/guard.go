package cashflow

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"loan-backoffice/internal/domain/apperror"
	"loan-backoffice/internal/domain/identity"
)

// EnsureRegisterOpen locks the agent row and fails when the agent's register
// is already closed for businessDate. Call it inside the transaction that
// performs the guarded write so close-day and the write serialize on the row.
func EnsureRegisterOpen(ctx context.Context, users identity.Repository, flows Repository, agentID uint64, businessDate string) error {
	if _, err := users.GetUserForUpdate(ctx, agentID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperror.NotFound("user", agentID)
		}
		return err
	}
	_, err := flows.GetClosure(ctx, agentID, businessDate)
	switch {
	case err == nil:
		return ErrRegisterClosed.
			WithDetail("agentId", agentID).
			WithDetail("businessDate", businessDate)
	case errors.Is(err, gorm.ErrRecordNotFound):
		return nil
	default:
		return err
	}
}
