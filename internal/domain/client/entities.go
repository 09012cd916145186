package client

import (
	"time"
)

type Status string

const (
	StatusActive    Status = "ACTIVE"
	StatusInactive  Status = "INACTIVE"
	StatusSuspended Status = "SUSPENDED"
	StatusProspect  Status = "PROSPECT"
)

func (s Status) Valid() bool {
	switch s {
	case StatusActive, StatusInactive, StatusSuspended, StatusProspect:
		return true
	}
	return false
}

// Statuses lists every client status in display order.
var Statuses = []Status{StatusActive, StatusInactive, StatusSuspended, StatusProspect}

// Table: clients
type Client struct {
	ID      uint64  `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Name    string  `gorm:"column:name;size:160;not null" json:"name"`
	Phone   string  `gorm:"column:phone;size:32;not null;index" json:"phone"`
	Email   *string `gorm:"column:email;size:190" json:"email,omitempty"`
	Status  Status  `gorm:"column:status;type:varchar(16);not null;index" json:"status"`
	AgentID uint64  `gorm:"column:agent_id;not null;index" json:"agentId"`

	Phone2         string `gorm:"column:phone2;size:32" json:"phone2,omitempty"`
	Address        string `gorm:"column:address;size:255" json:"address,omitempty"`
	Address2       string `gorm:"column:address2;size:255" json:"address2,omitempty"`
	ReferenceName  string `gorm:"column:reference_name;size:160" json:"referenceName,omitempty"`
	ReferencePhone string `gorm:"column:reference_phone;size:32" json:"referencePhone,omitempty"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updatedAt"`
}

func (Client) TableName() string { return "clients" }
