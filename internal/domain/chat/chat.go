package chat

import (
	"context"
	"time"
)

type Direction string

const (
	DirectionIncoming Direction = "INCOMING"
	DirectionOutgoing Direction = "OUTGOING"
)

func (d Direction) Valid() bool { return d == DirectionIncoming || d == DirectionOutgoing }

// Table: chat_messages (append-only)
type Message struct {
	ID        uint64    `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	ClientID  uint64    `gorm:"column:client_id;not null;index" json:"clientId"`
	AgentID   uint64    `gorm:"column:agent_id;not null;index" json:"agentId"`
	Message   string    `gorm:"column:message;type:text;not null" json:"message"`
	Direction Direction `gorm:"column:direction;type:varchar(10);not null" json:"direction"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
}

func (Message) TableName() string { return "chat_messages" }

type Repository interface {
	Create(ctx context.Context, m *Message) error
	// Oldest first.
	ListByClient(ctx context.Context, clientID uint64) ([]Message, error)
}
