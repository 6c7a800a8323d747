package middleware

import (
	"context"
	"errors"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/bankdemo/banking-api/internal/core/domain"
)

// SessionCookie is the cookie carrying the session token.
const SessionCookie = "session"

const (
	ctxUserID       = "user_id"
	ctxSessionToken = "session_token"
)

// Authenticator resolves a presented token to a usable session.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*domain.Session, error)
}

// RequireAuth rejects requests without a usable session.
func RequireAuth(auth Authenticator) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			session, err := auth.Authenticate(c.Request().Context(), presentedToken(c))
			if err != nil {
				return err
			}
			setSession(c, session)
			return next(c)
		}
	}
}

// OptionalAuth attaches the session when one is usable and otherwise lets the
// request through anonymously. Store failures still abort the request.
func OptionalAuth(auth Authenticator) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token := presentedToken(c)
			if token == "" {
				return next(c)
			}
			session, err := auth.Authenticate(c.Request().Context(), token)
			switch {
			case err == nil:
				setSession(c, session)
			case !errors.Is(err, domain.ErrUnauthorized):
				return err
			}
			return next(c)
		}
	}
}

// UserID returns the authenticated user id, or "" for anonymous requests.
func UserID(c echo.Context) string {
	id, _ := c.Get(ctxUserID).(string)
	return id
}

// SessionToken returns the authenticated session token, or "".
func SessionToken(c echo.Context) string {
	token, _ := c.Get(ctxSessionToken).(string)
	return token
}

func setSession(c echo.Context, s *domain.Session) {
	c.Set(ctxUserID, s.UserID)
	c.Set(ctxSessionToken, s.Token)
}

// presentedToken prefers the session cookie and falls back to a bearer header.
func presentedToken(c echo.Context) string {
	if cookie, err := c.Cookie(SessionCookie); err == nil && cookie.Value != "" {
		return cookie.Value
	}

	header := c.Request().Header.Get(echo.HeaderAuthorization)
	parts := strings.SplitN(header, " ", 2)
	if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
		return strings.TrimSpace(parts[1])
	}
	return ""
}
