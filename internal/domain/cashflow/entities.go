package cashflow

import (
	"time"

	"loan-backoffice/internal/domain/apperror"
)

type TypeMovement string

const (
	TypeEntrada       TypeMovement = "ENTRADA"
	TypeSalida        TypeMovement = "SALIDA"
	TypeTransferencia TypeMovement = "TRANSFERENCIA"
)

func (t TypeMovement) Valid() bool {
	return t == TypeEntrada || t == TypeSalida || t == TypeTransferencia
}

type Category string

const (
	CategoryCobroCliente          Category = "COBRO_CLIENTE"
	CategoryEntradaGerencia       Category = "ENTRADA_GERENCIA"
	CategoryGastoProveedor        Category = "GASTO_PROVEEDOR"
	CategoryPrestamoAdministrador Category = "PRESTAMO ADMINISTRADOR"
	CategoryTransferencia         Category = "TRANSFERENCIA"
)

func (c Category) Valid() bool {
	switch c {
	case CategoryCobroCliente, CategoryEntradaGerencia, CategoryGastoProveedor,
		CategoryPrestamoAdministrador, CategoryTransferencia:
		return true
	}
	return false
}

var ErrRegisterClosed = apperror.Conflict("cash register is closed for this business day")

// Table: cash_flows
type CashFlow struct {
	ID                uint64       `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	TypeMovement      TypeMovement `gorm:"column:type_movement;type:varchar(16);not null;index" json:"typeMovement"`
	Category          Category     `gorm:"column:category;type:varchar(32);not null" json:"category"`
	Amount            int64        `gorm:"column:amount;not null" json:"amount"`
	Description       string       `gorm:"column:description;size:255" json:"description,omitempty"`
	BranchID          uint64       `gorm:"column:branch_id;not null;index" json:"branchId"`
	OriginUserID      *uint64      `gorm:"column:origin_user_id;index" json:"originUserId,omitempty"`
	DestinationUserID *uint64      `gorm:"column:destination_user_id;index" json:"destinationUserId,omitempty"`
	CreatedByID       uint64       `gorm:"column:created_by_id;not null" json:"createdById"`
	CreatedAt         time.Time    `gorm:"column:created_at;autoCreateTime;index" json:"createdAt"`
}

func (CashFlow) TableName() string { return "cash_flows" }

// Validate checks the movement's internal consistency.
func (m *CashFlow) Validate() error {
	if !m.TypeMovement.Valid() {
		return apperror.Validation("typeMovement must be ENTRADA, SALIDA or TRANSFERENCIA")
	}
	if !m.Category.Valid() {
		return apperror.Validation("unknown category %q", m.Category)
	}
	if m.Amount <= 0 {
		return apperror.Validation("amount must be a positive integer")
	}
	if m.BranchID == 0 {
		return apperror.Validation("branchId is required")
	}
	isTransfer := m.TypeMovement == TypeTransferencia
	if isTransfer != (m.Category == CategoryTransferencia) {
		return apperror.Validation("category TRANSFERENCIA goes with typeMovement TRANSFERENCIA only")
	}
	if isTransfer {
		if m.OriginUserID == nil || m.DestinationUserID == nil {
			return apperror.Validation("transfers need both originUserId and destinationUserId")
		}
		if *m.OriginUserID == *m.DestinationUserID {
			return apperror.Validation("transfer origin and destination must differ")
		}
	}
	return nil
}

// Users returns the distinct agents touched by the movement.
func (m *CashFlow) Users() []uint64 {
	var out []uint64
	if m.OriginUserID != nil {
		out = append(out, *m.OriginUserID)
	}
	if m.DestinationUserID != nil && (m.OriginUserID == nil || *m.DestinationUserID != *m.OriginUserID) {
		out = append(out, *m.DestinationUserID)
	}
	return out
}

// Table: day_closures. One row per agent and business date; its presence
// freezes the agent's register for that day.
type DayClosure struct {
	ID           uint64    `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	AgentID      uint64    `gorm:"column:agent_id;not null;uniqueIndex:ux_day_closures_agent_date" json:"agentId"`
	BusinessDate string    `gorm:"column:business_date;size:10;not null;uniqueIndex:ux_day_closures_agent_date" json:"businessDate"`
	TotalFinal   int64     `gorm:"column:total_final;not null" json:"totalFinal"`
	ClosedByID   uint64    `gorm:"column:closed_by_id;not null" json:"closedById"`
	ClosedAt     time.Time `gorm:"column:closed_at;not null" json:"closedAt"`
}

func (DayClosure) TableName() string { return "day_closures" }
