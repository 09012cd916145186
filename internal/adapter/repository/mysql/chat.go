package mysql

import (
	"context"

	"gorm.io/gorm"

	"loan-backoffice/internal/domain/chat"
)

type ChatRepository struct{ db *gorm.DB }

func NewChatRepository(db *gorm.DB) *ChatRepository { return &ChatRepository{db: db} }

func (r *ChatRepository) Create(ctx context.Context, m *chat.Message) error {
	return r.db.WithContext(ctx).Create(m).Error
}

func (r *ChatRepository) ListByClient(ctx context.Context, clientID uint64) ([]chat.Message, error) {
	var out []chat.Message
	res := r.db.WithContext(ctx).
		Where("client_id = ?", clientID).
		Order("created_at ASC, id ASC").
		Find(&out)
	return out, res.Error
}
