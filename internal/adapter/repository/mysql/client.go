package mysql

import (
	"context"

	"gorm.io/gorm"

	"loan-backoffice/internal/domain/client"
)

type ClientRepository struct{ db *gorm.DB }

func NewClientRepository(db *gorm.DB) *ClientRepository { return &ClientRepository{db: db} }

func (r *ClientRepository) Create(ctx context.Context, c *client.Client) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *ClientRepository) Save(ctx context.Context, c *client.Client) error {
	return r.db.WithContext(ctx).Save(c).Error
}

func (r *ClientRepository) GetByID(ctx context.Context, id uint64) (*client.Client, error) {
	var out client.Client
	res := r.db.WithContext(ctx).Where("id = ?", id).First(&out)
	return &out, res.Error
}

func (r *ClientRepository) List(ctx context.Context, f client.Filter) ([]client.Client, error) {
	q := r.db.WithContext(ctx).Model(&client.Client{}).Select("clients.*")
	if f.BranchID != nil {
		q = q.Joins("JOIN users ON users.id = clients.agent_id").
			Where("users.branch_id = ?", *f.BranchID)
	}
	if f.AgentID != nil {
		q = q.Where("clients.agent_id = ?", *f.AgentID)
	}
	if f.Status != nil {
		q = q.Where("clients.status = ?", *f.Status)
	}
	var out []client.Client
	res := q.Order("clients.id ASC").Find(&out)
	return out, res.Error
}
