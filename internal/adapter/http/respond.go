package http

import (
	"math"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"loan-backoffice/internal/adapter/middleware"
	"loan-backoffice/internal/domain/apperror"
	"loan-backoffice/internal/domain/identity"
	"loan-backoffice/pkg/logger"
)

// Response wraps the payload of a successful mutation with a readable message.
type Response struct {
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

func ok(c echo.Context, code int, msg string, data any) error {
	return c.JSON(code, Response{Message: msg, Data: data})
}

// fail writes err as an ErrorResponse. Business errors keep their message;
// anything unclassified is logged and hidden behind a generic one.
func fail(c echo.Context, err error) error {
	status := apperror.HTTPStatus(err)
	if status == http.StatusInternalServerError {
		logger.FromContext(c.Request().Context()).Errorw("request failed",
			"method", c.Request().Method, "path", c.Path(), "error", err)
		return c.JSON(status, ErrorResponse{Error: "internal server error"})
	}
	ae, _ := apperror.As(err)
	resp := ErrorResponse{Error: ae.Message}
	if len(ae.Details) > 0 {
		resp.Details = ae.Details
	}
	return c.JSON(status, resp)
}

// bind decodes and validates the body into dst. On failure the 400 response
// is already written and the returned bool is false.
func bind(c echo.Context, dst any) (bool, error) {
	if err := c.Bind(dst); err != nil {
		return false, c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(dst); err != nil {
		return false, c.JSON(http.StatusBadRequest, ErrorResponse{Error: "validation failed", Details: ToFieldErrors(err)})
	}
	return true, nil
}

func actor(c echo.Context) identity.Actor {
	a, _ := middleware.ActorFrom(c)
	return a
}

func pathID(c echo.Context, name string) (uint64, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, apperror.Validation("%s must be a positive integer", name)
	}
	return id, nil
}

// queryID returns nil when the parameter is absent.
func queryID(c echo.Context, name string) (*uint64, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return nil, nil
	}
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return nil, apperror.Validation("%s must be a positive integer", name)
	}
	return &id, nil
}

// pesos converts a validated intlike amount.
func pesos(f float64) int64 { return int64(math.Round(f)) }

func pesosPtr(f *float64) *int64 {
	if f == nil {
		return nil
	}
	v := pesos(*f)
	return &v
}
