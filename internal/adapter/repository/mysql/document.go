package mysql

import (
	"context"

	"gorm.io/gorm"

	"loan-backoffice/internal/domain/document"
)

type DocumentRepository struct{ db *gorm.DB }

func NewDocumentRepository(db *gorm.DB) *DocumentRepository { return &DocumentRepository{db: db} }

func (r *DocumentRepository) Create(ctx context.Context, d *document.Document) error {
	return r.db.WithContext(ctx).Create(d).Error
}

func (r *DocumentRepository) Save(ctx context.Context, d *document.Document) error {
	return r.db.WithContext(ctx).Save(d).Error
}

func (r *DocumentRepository) GetByID(ctx context.Context, id uint64) (*document.Document, error) {
	var out document.Document
	res := r.db.WithContext(ctx).Where("id = ?", id).First(&out)
	return &out, res.Error
}

func (r *DocumentRepository) ListByClient(ctx context.Context, clientID uint64) ([]document.Document, error) {
	var out []document.Document
	res := r.db.WithContext(ctx).Where("client_id = ?", clientID).Order("id ASC").Find(&out)
	return out, res.Error
}

func (r *DocumentRepository) List(ctx context.Context, f document.Filter) ([]document.Document, error) {
	q := r.db.WithContext(ctx).Model(&document.Document{}).Select("documents.*")
	if f.AgentID != nil || f.BranchID != nil {
		q = q.Joins("JOIN clients ON clients.id = documents.client_id")
	}
	if f.BranchID != nil {
		q = q.Joins("JOIN users ON users.id = clients.agent_id").
			Where("users.branch_id = ?", *f.BranchID)
	}
	if f.AgentID != nil {
		q = q.Where("clients.agent_id = ?", *f.AgentID)
	}
	if f.ClientID != nil {
		q = q.Where("documents.client_id = ?", *f.ClientID)
	}
	if f.Category != nil {
		q = q.Where("documents.category = ?", *f.Category)
	}
	var out []document.Document
	res := q.Order("documents.id ASC").Find(&out)
	return out, res.Error
}
