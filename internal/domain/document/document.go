package document

import (
	"context"
	"time"
)

type Category string

const (
	CategoryID            Category = "ID"
	CategoryWorkLetter    Category = "WORK_LETTER"
	CategoryUtilityBill   Category = "UTILITY_BILL"
	CategoryPaymentDetail Category = "PAYMENT_DETAIL"
	CategoryOther         Category = "OTHER"
)

var Categories = []Category{CategoryID, CategoryWorkLetter, CategoryUtilityBill, CategoryPaymentDetail, CategoryOther}

func (c Category) Valid() bool {
	for _, v := range Categories {
		if c == v {
			return true
		}
	}
	return false
}

// Table: documents. Only metadata; the file lives wherever URL points.
type Document struct {
	ID        uint64    `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	ClientID  uint64    `gorm:"column:client_id;not null;index" json:"clientId"`
	MimeType  string    `gorm:"column:mime_type;size:100;not null" json:"mimeType"`
	URL       string    `gorm:"column:url;size:1024;not null" json:"url"`
	Category  Category  `gorm:"column:category;type:varchar(20);not null;index" json:"category"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updatedAt"`
}

func (Document) TableName() string { return "documents" }

type Filter struct {
	ClientID *uint64
	AgentID  *uint64
	BranchID *uint64
	Category *Category
}

type Repository interface {
	Create(ctx context.Context, d *Document) error
	Save(ctx context.Context, d *Document) error
	GetByID(ctx context.Context, id uint64) (*Document, error)
	ListByClient(ctx context.Context, clientID uint64) ([]Document, error)
	List(ctx context.Context, f Filter) ([]Document, error)
}
