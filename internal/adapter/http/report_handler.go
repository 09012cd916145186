package http

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"loan-backoffice/internal/domain/apperror"
	"loan-backoffice/internal/domain/document"
	uc "loan-backoffice/internal/usecase/report"
)

type ReportHandler struct{ uc *uc.Usecase }

func NewReportHandler(u *uc.Usecase) *ReportHandler { return &ReportHandler{uc: u} }

func reportFilter(c echo.Context) (uc.Filter, error) {
	f := uc.Filter{StartDate: c.QueryParam("startDate"), EndDate: c.QueryParam("endDate")}
	var err error
	if f.BranchID, err = queryID(c, "branchId"); err != nil {
		return f, err
	}
	if f.AgentID, err = queryID(c, "agentId"); err != nil {
		return f, err
	}
	if f.ClientID, err = queryID(c, "clientId"); err != nil {
		return f, err
	}
	if raw := c.QueryParam("docType"); raw != "" {
		cat := document.Category(raw)
		f.DocType = &cat
	}
	if raw := c.QueryParam("year"); raw != "" {
		if f.Year, err = strconv.Atoi(raw); err != nil {
			return f, apperror.Validation("year must be a four-digit year")
		}
	}
	return f, nil
}

// Generate: GET /reports/:kind?branchId=&agentId=&clientId=&startDate=&endDate=&docType=&year=
func (h *ReportHandler) Generate(c echo.Context) error {
	f, err := reportFilter(c)
	if err != nil {
		return fail(c, err)
	}
	rep, err := h.uc.Generate(c.Request().Context(), actor(c), uc.Kind(c.Param("kind")), f)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, rep)
}
