package identity

import (
	"context"

	"loan-backoffice/internal/domain/apperror"
)

var ErrOutOfScope = apperror.Forbidden("the record belongs to another agent or branch")

// Authorize loads the user owning a record and checks that a may act on it.
func Authorize(ctx context.Context, users Repository, a Actor, ownerID uint64) (*User, error) {
	u, err := users.GetUser(ctx, ownerID)
	if err != nil {
		return nil, apperror.FromRecord(err, "user", ownerID)
	}
	if !a.CanAccess(u) {
		return nil, ErrOutOfScope
	}
	return u, nil
}
