package client

import domain "loan-backoffice/internal/domain/client"

type CreateInput struct {
	Name           string  `json:"name"`
	Phone          string  `json:"phone"`
	Email          *string `json:"email"`
	AgentID        *uint64 `json:"agentId"`
	Phone2         string  `json:"phone2"`
	Address        string  `json:"address"`
	Address2       string  `json:"address2"`
	ReferenceName  string  `json:"referenceName"`
	ReferencePhone string  `json:"referencePhone"`
}

// UpdateInput is a partial update; nil fields are left alone.
type UpdateInput struct {
	Name           *string `json:"name"`
	Phone          *string `json:"phone"`
	Email          *string `json:"email"`
	Phone2         *string `json:"phone2"`
	Address        *string `json:"address"`
	Address2       *string `json:"address2"`
	ReferenceName  *string `json:"referenceName"`
	ReferencePhone *string `json:"referencePhone"`
	AgentID        *uint64 `json:"agentId"`
}

type ListInput struct {
	AgentID  *uint64
	BranchID *uint64
	Status   *domain.Status
}
