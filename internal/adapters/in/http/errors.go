package http

import (
	"errors"
	"net/http"

	"orderflow/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

// Error is the body of every non-2xx response.
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// StatusOf maps the error taxonomy onto HTTP status codes.
func StatusOf(err error) int {
	switch {
	case errors.Is(err, errs.ErrValueIsRequired),
		errors.Is(err, errs.ErrValueIsInvalid),
		errors.Is(err, errs.ErrValueIsOutOfRange),
		errors.Is(err, errs.ErrVersionIsInvalid):
		return http.StatusBadRequest
	case errors.Is(err, errs.ErrObjectNotFound):
		return http.StatusNotFound
	case errors.Is(err, errs.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, errs.ErrConflict), errors.Is(err, errs.ErrInvalidTransition):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func writeError(c echo.Context, err error) error {
	code := StatusOf(err)
	msg := err.Error()
	if code == http.StatusInternalServerError {
		c.Logger().Errorf("%s %s: %v", c.Request().Method, c.Path(), err)
		msg = http.StatusText(code)
	}
	return c.JSON(code, Error{Code: code, Message: msg})
}

func badRequest(c echo.Context, msg string) error {
	return c.JSON(http.StatusBadRequest, Error{Code: http.StatusBadRequest, Message: msg})
}
