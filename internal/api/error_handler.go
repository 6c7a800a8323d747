package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/bankdemo/banking-api/internal/api/handler"
	"github.com/bankdemo/banking-api/internal/core/domain"
)

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that maps domain error
// classes to status codes and renders handler.ErrorBody. Internal failures
// are logged and reach the client only as "internal server error".
func NewHTTPErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, body := resolveError(err)
		if code >= http.StatusInternalServerError {
			log.Error().
				Err(err).
				Str("method", c.Request().Method).
				Str("path", c.Path()).
				Str("request_id", c.Response().Header().Get(echo.HeaderXRequestID)).
				Msg("request failed")
		}

		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(code)
			return
		}
		_ = c.JSON(code, body)
	}
}

func resolveError(err error) (int, handler.ErrorBody) {
	// Echo's own errors (bind failures, unknown routes, ...).
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code, handler.ErrorBody{Error: fmt.Sprintf("%v", he.Message)}
	}

	var ve *domain.ValidationError
	switch {
	case errors.As(err, &ve):
		return http.StatusBadRequest, handler.ErrorBody{Error: "validation failed", Fields: ve.Fields}
	case errors.Is(err, domain.ErrInsufficientFunds):
		return http.StatusUnprocessableEntity, handler.ErrorBody{Error: domain.ErrInsufficientFunds.Error()}
	case errors.Is(err, domain.ErrValidation):
		return http.StatusBadRequest, handler.ErrorBody{Error: err.Error()}
	case errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusUnauthorized, handler.ErrorBody{Error: domain.ErrInvalidCredentials.Error()}
	case errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized, handler.ErrorBody{Error: domain.ErrUnauthenticated.Error()}
	case errors.Is(err, domain.ErrConflict):
		return http.StatusConflict, handler.ErrorBody{Error: err.Error()}
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, handler.ErrorBody{Error: err.Error()}
	}

	return http.StatusInternalServerError, handler.ErrorBody{Error: "internal server error"}
}
