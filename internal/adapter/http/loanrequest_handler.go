package http

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"loan-backoffice/internal/domain/apperror"
	domain "loan-backoffice/internal/domain/loanrequest"
	uc "loan-backoffice/internal/usecase/loanrequest"
)

type LoanRequestHandler struct{ uc *uc.Usecase }

func NewLoanRequestHandler(u *uc.Usecase) *LoanRequestHandler { return &LoanRequestHandler{uc: u} }

type createLoanRequestReq struct {
	ClientID        uint64   `json:"clientId" validate:"required"`
	AgentID         *uint64  `json:"agentId"`
	RequestedAmount float64  `json:"requestedAmount" validate:"required,gt=0,intlike"`
	Amount          *float64 `json:"amount" validate:"omitempty,gt=0,intlike"`
	PaymentDay      string   `json:"paymentDay" validate:"required,paymentday"`
	Type            string   `json:"type" validate:"required,loantype"`
	EndDateAt       string   `json:"endDateAt" validate:"required,datestr"`
	Status          *string  `json:"status"`
}

type updateLoanRequestReq struct {
	RequestedAmount *float64 `json:"requestedAmount" validate:"omitempty,gt=0,intlike"`
	Amount          *float64 `json:"amount" validate:"omitempty,gt=0,intlike"`
	PaymentDay      *string  `json:"paymentDay" validate:"omitempty,paymentday"`
	Type            *string  `json:"type" validate:"omitempty,loantype"`
	EndDateAt       *string  `json:"endDateAt" validate:"omitempty,datestr"`
	Status          *string  `json:"status"`
	RejectionNote   *string  `json:"rejectionNote" validate:"omitempty,max=500"`
}

type renewLoanRequestReq struct {
	NewCapital float64  `json:"newCapital" validate:"required,gt=0,intlike"`
	Amount     *float64 `json:"amount" validate:"omitempty,gt=0,intlike"`
	PaymentDay string   `json:"paymentDay" validate:"required,paymentday"`
	Type       string   `json:"type" validate:"required,loantype"`
	EndDateAt  string   `json:"endDateAt" validate:"required,datestr"`
}

func statusPtr(s *string) *domain.Status {
	if s == nil {
		return nil
	}
	v := domain.Status(*s)
	return &v
}

func (h *LoanRequestHandler) Create(c echo.Context) error {
	var req createLoanRequestReq
	if okBind, err := bind(c, &req); !okBind {
		return err
	}
	dto, err := h.uc.Create(c.Request().Context(), actor(c), uc.CreateInput{
		ClientID:        req.ClientID,
		AgentID:         req.AgentID,
		RequestedAmount: pesos(req.RequestedAmount),
		Amount:          pesosPtr(req.Amount),
		PaymentDay:      domain.PaymentDay(req.PaymentDay),
		Type:            domain.Type(req.Type),
		EndDateAt:       req.EndDateAt,
		Status:          statusPtr(req.Status),
	})
	if err != nil {
		return fail(c, err)
	}
	return ok(c, http.StatusCreated, "loan request created", dto)
}

func (h *LoanRequestHandler) Get(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return fail(c, err)
	}
	dto, err := h.uc.Get(c.Request().Context(), actor(c), id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *LoanRequestHandler) Update(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return fail(c, err)
	}
	var req updateLoanRequestReq
	if okBind, err := bind(c, &req); !okBind {
		return err
	}
	in := uc.UpdateInput{
		RequestedAmount: pesosPtr(req.RequestedAmount),
		Amount:          pesosPtr(req.Amount),
		EndDateAt:       req.EndDateAt,
		Status:          statusPtr(req.Status),
		RejectionNote:   req.RejectionNote,
	}
	if req.PaymentDay != nil {
		p := domain.PaymentDay(*req.PaymentDay)
		in.PaymentDay = &p
	}
	if req.Type != nil {
		t := domain.Type(*req.Type)
		in.Type = &t
	}
	dto, err := h.uc.Update(c.Request().Context(), actor(c), id, in)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, http.StatusOK, "loan request updated", dto)
}

func (h *LoanRequestHandler) Renew(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return fail(c, err)
	}
	var req renewLoanRequestReq
	if okBind, err := bind(c, &req); !okBind {
		return err
	}
	res, err := h.uc.Renew(c.Request().Context(), actor(c), id, uc.RenewInput{
		NewCapital: pesos(req.NewCapital),
		Amount:     pesosPtr(req.Amount),
		PaymentDay: domain.PaymentDay(req.PaymentDay),
		Type:       domain.Type(req.Type),
		EndDateAt:  req.EndDateAt,
	})
	if err != nil {
		return fail(c, err)
	}
	return ok(c, http.StatusCreated, "loan request renewed", res)
}

// OpenByClient returns the client's single open request, 404 when there is none.
func (h *LoanRequestHandler) OpenByClient(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return fail(c, err)
	}
	dto, err := h.uc.GetOpenByClient(c.Request().Context(), actor(c), id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *LoanRequestHandler) ListByClient(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return fail(c, err)
	}
	list, err := h.uc.ListByClient(c.Request().Context(), actor(c), id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, list)
}

// Simulate: GET /loan-request/simulate?principal=&days=
func (h *LoanRequestHandler) Simulate(c echo.Context) error {
	principal, err := strconv.ParseInt(c.QueryParam("principal"), 10, 64)
	if err != nil {
		return fail(c, apperror.Validation("principal must be an integer"))
	}
	days, err := strconv.Atoi(c.QueryParam("days"))
	if err != nil {
		return fail(c, apperror.Validation("days must be an integer"))
	}
	sim, err := h.uc.Simulate(principal, days)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, sim)
}
