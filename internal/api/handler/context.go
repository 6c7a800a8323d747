package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/bankdemo/banking-api/internal/api/middleware"
	"github.com/bankdemo/banking-api/internal/core/domain"
)

// currentUser returns the user attached by RequireAuth. Reaching a protected
// handler without one means the route was registered without the middleware.
func currentUser(c echo.Context) (string, error) {
	id := middleware.UserID(c)
	if id == "" {
		return "", domain.ErrUnauthenticated
	}
	return id, nil
}
