package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"loan-backoffice/internal/domain/apperror"
	"loan-backoffice/internal/domain/client"
	uc "loan-backoffice/internal/usecase/client"
)

type ClientHandler struct{ uc *uc.Usecase }

func NewClientHandler(u *uc.Usecase) *ClientHandler { return &ClientHandler{uc: u} }

type createClientReq struct {
	Name           string  `json:"name" validate:"required,max=120"`
	Phone          string  `json:"phone" validate:"required,max=30"`
	Email          *string `json:"email" validate:"omitempty,email"`
	AgentID        *uint64 `json:"agentId"`
	Phone2         string  `json:"phone2" validate:"max=30"`
	Address        string  `json:"address" validate:"max=255"`
	Address2       string  `json:"address2" validate:"max=255"`
	ReferenceName  string  `json:"referenceName" validate:"max=120"`
	ReferencePhone string  `json:"referencePhone" validate:"max=30"`
}

type updateClientReq struct {
	Name           *string `json:"name" validate:"omitempty,max=120"`
	Phone          *string `json:"phone" validate:"omitempty,max=30"`
	Email          *string `json:"email" validate:"omitempty,email"`
	Phone2         *string `json:"phone2" validate:"omitempty,max=30"`
	Address        *string `json:"address" validate:"omitempty,max=255"`
	Address2       *string `json:"address2" validate:"omitempty,max=255"`
	ReferenceName  *string `json:"referenceName" validate:"omitempty,max=120"`
	ReferencePhone *string `json:"referencePhone" validate:"omitempty,max=30"`
	AgentID        *uint64 `json:"agentId"`
}

type clientStatusReq struct {
	Status string `json:"status" validate:"required,oneof=ACTIVE INACTIVE SUSPENDED PROSPECT"`
}

func (h *ClientHandler) Create(c echo.Context) error {
	var req createClientReq
	if okBind, err := bind(c, &req); !okBind {
		return err
	}
	cl, err := h.uc.Create(c.Request().Context(), actor(c), uc.CreateInput(req))
	if err != nil {
		return fail(c, err)
	}
	return ok(c, http.StatusCreated, "client created", cl)
}

func (h *ClientHandler) Get(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return fail(c, err)
	}
	cl, err := h.uc.Get(c.Request().Context(), actor(c), id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, cl)
}

// List accepts ?status=&agentId=&branchId=.
func (h *ClientHandler) List(c echo.Context) error {
	var in uc.ListInput
	var err error
	if in.AgentID, err = queryID(c, "agentId"); err != nil {
		return fail(c, err)
	}
	if in.BranchID, err = queryID(c, "branchId"); err != nil {
		return fail(c, err)
	}
	if raw := c.QueryParam("status"); raw != "" {
		s := client.Status(raw)
		if !s.Valid() {
			return fail(c, apperror.Validation("unknown client status %q", raw))
		}
		in.Status = &s
	}
	list, err := h.uc.List(c.Request().Context(), actor(c), in)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, list)
}

func (h *ClientHandler) Update(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return fail(c, err)
	}
	var req updateClientReq
	if okBind, err := bind(c, &req); !okBind {
		return err
	}
	cl, err := h.uc.Update(c.Request().Context(), actor(c), id, uc.UpdateInput(req))
	if err != nil {
		return fail(c, err)
	}
	return ok(c, http.StatusOK, "client updated", cl)
}

func (h *ClientHandler) ChangeStatus(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return fail(c, err)
	}
	var req clientStatusReq
	if okBind, err := bind(c, &req); !okBind {
		return err
	}
	cl, err := h.uc.ChangeStatus(c.Request().Context(), actor(c), id, client.Status(req.Status))
	if err != nil {
		return fail(c, err)
	}
	return ok(c, http.StatusOK, "client status updated", cl)
}
