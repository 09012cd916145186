package cashflow

import (
	"context"
	"time"
)

// Filter narrows movement listings. UserID matches either side of a movement.
type Filter struct {
	BranchID *uint64
	UserID   *uint64
	Types    []TypeMovement
	From     *time.Time // inclusive
	To       *time.Time // exclusive
}

type Repository interface {
	Create(ctx context.Context, m *CashFlow) error
	List(ctx context.Context, f Filter) ([]CashFlow, error)

	CreateClosure(ctx context.Context, c *DayClosure) error
	GetClosure(ctx context.Context, agentID uint64, businessDate string) (*DayClosure, error)
	// Latest closure strictly before businessDate.
	LastClosureBefore(ctx context.Context, agentID uint64, businessDate string) (*DayClosure, error)
}
