package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	domain "loan-backoffice/internal/domain/transaction"
	uc "loan-backoffice/internal/usecase/transaction"
)

type TransactionHandler struct{ uc *uc.Usecase }

func NewTransactionHandler(u *uc.Usecase) *TransactionHandler { return &TransactionHandler{uc: u} }

type recordTransactionReq struct {
	LoanRequestID uint64  `json:"loanRequestId" validate:"required"`
	Type          string  `json:"transactionType" validate:"required,oneof=DISBURSEMENT REPAYMENT PENALTY RENEWAL"`
	Amount        float64 `json:"amount" validate:"required,gt=0,intlike"`
	Reference     string  `json:"reference" validate:"max=64"`
	Description   string  `json:"description" validate:"max=255"`
}

func (h *TransactionHandler) Record(c echo.Context) error {
	var req recordTransactionReq
	if okBind, err := bind(c, &req); !okBind {
		return err
	}
	res, err := h.uc.Record(c.Request().Context(), actor(c), uc.RecordInput{
		LoanRequestID: req.LoanRequestID,
		Type:          domain.Type(req.Type),
		Amount:        pesos(req.Amount),
		Reference:     req.Reference,
		Description:   req.Description,
	})
	if err != nil {
		return fail(c, err)
	}
	return ok(c, http.StatusCreated, "transaction recorded", res)
}

func (h *TransactionHandler) ListByLoanRequest(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return fail(c, err)
	}
	list, err := h.uc.List(c.Request().Context(), actor(c), id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, list)
}

func (h *TransactionHandler) Balance(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return fail(c, err)
	}
	b, err := h.uc.Balance(c.Request().Context(), actor(c), id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, b)
}
