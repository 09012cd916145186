package client

import "context"

// Filter narrows client listings; nil fields are not applied.
type Filter struct {
	AgentID  *uint64
	BranchID *uint64
	Status   *Status
}

type Repository interface {
	Create(ctx context.Context, c *Client) error
	Save(ctx context.Context, c *Client) error
	GetByID(ctx context.Context, id uint64) (*Client, error)
	List(ctx context.Context, f Filter) ([]Client, error)
}
