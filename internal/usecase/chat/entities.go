package chat

import (
	domain "loan-backoffice/internal/domain/chat"
)

type AppendInput struct {
	Message   string           `json:"message"`
	Direction domain.Direction `json:"direction"`
}
