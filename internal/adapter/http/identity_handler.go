package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"loan-backoffice/internal/domain/identity"
	uc "loan-backoffice/internal/usecase/identity"
)

type IdentityHandler struct{ uc *uc.Usecase }

func NewIdentityHandler(u *uc.Usecase) *IdentityHandler { return &IdentityHandler{uc: u} }

type createBranchReq struct {
	Name             string `json:"name" validate:"required,max=120"`
	CountryISO2      string `json:"countryIso2" validate:"required,len=2"`
	PhoneCountryCode string `json:"phoneCountryCode" validate:"max=8"`
	AcceptsInbound   bool   `json:"acceptsInbound"`
}

type createUserReq struct {
	Name        string  `json:"name" validate:"required,max=120"`
	Email       string  `json:"email" validate:"required,email"`
	Password    string  `json:"password" validate:"required,min=8"`
	Role        string  `json:"role" validate:"required,oneof=AGENT ADMINISTRATOR MANAGER"`
	BranchID    uint64  `json:"branchId" validate:"required"`
	FundedLimit float64 `json:"fundedLimit" validate:"gte=0,intlike"`
}

type setAdministratorReq struct {
	UserID uint64 `json:"userId" validate:"required"`
}

func (h *IdentityHandler) CreateBranch(c echo.Context) error {
	var req createBranchReq
	if okBind, err := bind(c, &req); !okBind {
		return err
	}
	b, err := h.uc.CreateBranch(c.Request().Context(), actor(c), uc.CreateBranchInput(req))
	if err != nil {
		return fail(c, err)
	}
	return ok(c, http.StatusCreated, "branch created", b)
}

func (h *IdentityHandler) ListBranches(c echo.Context) error {
	list, err := h.uc.ListBranches(c.Request().Context(), actor(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, list)
}

func (h *IdentityHandler) GetBranch(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return fail(c, err)
	}
	b, err := h.uc.GetBranch(c.Request().Context(), actor(c), id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, b)
}

func (h *IdentityHandler) ListAgents(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return fail(c, err)
	}
	agents, err := h.uc.ListAgents(c.Request().Context(), actor(c), id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, agents)
}

func (h *IdentityHandler) SetAdministrator(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return fail(c, err)
	}
	var req setAdministratorReq
	if okBind, err := bind(c, &req); !okBind {
		return err
	}
	b, err := h.uc.SetBranchAdministrator(c.Request().Context(), actor(c), id, req.UserID)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, http.StatusOK, "branch administrator updated", b)
}

func (h *IdentityHandler) CreateUser(c echo.Context) error {
	var req createUserReq
	if okBind, err := bind(c, &req); !okBind {
		return err
	}
	usr, err := h.uc.CreateUser(c.Request().Context(), actor(c), uc.CreateUserInput{
		Name:        req.Name,
		Email:       req.Email,
		Password:    req.Password,
		Role:        identity.Role(req.Role),
		BranchID:    req.BranchID,
		FundedLimit: pesos(req.FundedLimit),
	})
	if err != nil {
		return fail(c, err)
	}
	return ok(c, http.StatusCreated, "user created", usr)
}

func (h *IdentityHandler) GetUser(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return fail(c, err)
	}
	usr, err := h.uc.GetUser(c.Request().Context(), actor(c), id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, usr)
}
