package cashregister

import (
	domain "loan-backoffice/internal/domain/cashflow"
)

type Block struct {
	MontoPrestado int64 `json:"montoPrestado"`
	Cantidad      int   `json:"cantidad"`
}

type Arrears struct {
	Cantidad int   `json:"cantidad"`
	Saldo    int64 `json:"saldo"`
}

// Trace is the daily route balance of one agent.
//
//	totalFinal = baseAnterior + valorCobradoDia − nuevos − renovados + transferEntrante − transferSaliente
type Trace struct {
	AgentID          uint64  `json:"agentId"`
	Date             string  `json:"date"`
	BaseAnterior     int64   `json:"baseAnterior"`
	Nuevos           Block   `json:"nuevos"`
	Renovados        Block   `json:"renovados"`
	ValorCobradoDia  int64   `json:"valorCobradoDia"`
	TransferEntrante int64   `json:"transferEntrante"`
	TransferSaliente int64   `json:"transferSaliente"`
	ClientesEnMora   Arrears `json:"clientesEnMora"`
	TotalFinal       int64   `json:"totalFinal"`
}

func (t *Trace) computeTotal() {
	t.TotalFinal = t.BaseAnterior + t.ValorCobradoDia - t.Nuevos.MontoPrestado - t.Renovados.MontoPrestado +
		t.TransferEntrante - t.TransferSaliente
}

type MovementInput struct {
	TypeMovement      domain.TypeMovement `json:"typeMovement"`
	Category          domain.Category     `json:"category"`
	Amount            int64               `json:"amount"`
	Description       string              `json:"description"`
	BranchID          *uint64             `json:"branchId"`
	OriginUserID      *uint64             `json:"originUserId"`
	DestinationUserID *uint64             `json:"destinationUserId"`
}

type ListInput struct {
	BranchID  *uint64
	AgentID   *uint64
	StartDate string
	EndDate   string
}
