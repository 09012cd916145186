package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"loan-backoffice/internal/domain/apperror"
	domain "loan-backoffice/internal/domain/cashflow"
	uc "loan-backoffice/internal/usecase/cashregister"
)

type CashRegisterHandler struct{ uc *uc.Usecase }

func NewCashRegisterHandler(u *uc.Usecase) *CashRegisterHandler { return &CashRegisterHandler{uc: u} }

type recordMovementReq struct {
	TypeMovement      string  `json:"typeMovement" validate:"required,oneof=ENTRADA SALIDA TRANSFERENCIA"`
	Category          string  `json:"category"`
	Amount            float64 `json:"amount" validate:"required,gt=0,intlike"`
	Description       string  `json:"description" validate:"max=255"`
	BranchID          *uint64 `json:"branchId"`
	OriginUserID      *uint64 `json:"originUserId"`
	DestinationUserID *uint64 `json:"destinationUserId"`
}

type closeDayReq struct {
	AgentID uint64 `json:"agentId" validate:"required"`
}

func (h *CashRegisterHandler) RecordMovement(c echo.Context) error {
	var req recordMovementReq
	if okBind, err := bind(c, &req); !okBind {
		return err
	}
	m, err := h.uc.RecordMovement(c.Request().Context(), actor(c), uc.MovementInput{
		TypeMovement:      domain.TypeMovement(req.TypeMovement),
		Category:          domain.Category(req.Category),
		Amount:            pesos(req.Amount),
		Description:       req.Description,
		BranchID:          req.BranchID,
		OriginUserID:      req.OriginUserID,
		DestinationUserID: req.DestinationUserID,
	})
	if err != nil {
		return fail(c, err)
	}
	return ok(c, http.StatusCreated, "cash movement recorded", m)
}

// ListMovements accepts ?branchId=&agentId=&startDate=&endDate=.
func (h *CashRegisterHandler) ListMovements(c echo.Context) error {
	in := uc.ListInput{StartDate: c.QueryParam("startDate"), EndDate: c.QueryParam("endDate")}
	var err error
	if in.BranchID, err = queryID(c, "branchId"); err != nil {
		return fail(c, err)
	}
	if in.AgentID, err = queryID(c, "agentId"); err != nil {
		return fail(c, err)
	}
	list, err := h.uc.ListMovements(c.Request().Context(), actor(c), in)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, list)
}

// Trace: GET /cash-register/trace?agentId=&date=. Agents may omit agentId;
// date defaults to the current business day.
func (h *CashRegisterHandler) Trace(c echo.Context) error {
	a := actor(c)
	agentID, err := queryID(c, "agentId")
	if err != nil {
		return fail(c, err)
	}
	if agentID == nil {
		if !a.IsAgent() {
			return fail(c, apperror.Validation("agentId is required"))
		}
		agentID = &a.UserID
	}
	tr, err := h.uc.DailyTrace(c.Request().Context(), a, *agentID, c.QueryParam("date"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, tr)
}

func (h *CashRegisterHandler) Close(c echo.Context) error {
	var req closeDayReq
	if okBind, err := bind(c, &req); !okBind {
		return err
	}
	cl, err := h.uc.CloseDay(c.Request().Context(), actor(c), req.AgentID)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, http.StatusCreated, "cash register closed", cl)
}
