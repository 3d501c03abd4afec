package middleware // middleware provides shared request processing for handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/muhozi/WeConnect-2/internal/repository"
)

// userIDKey is the context key the gate stores the acting user id under.
const userIDKey = "user_id"

// TokenAuth returns an Echo middleware that authorizes requests by the
// access token carried raw in the Authorization header (no "Bearer"
// scheme — clients send the token string as issued by login). The gate
// fails closed: no header, unknown token, or a dead session all produce
// 401 without distinguishing which. On success the session's user id is
// stored in the request context for ownership checks downstream.
func TokenAuth(tokens *repository.TokenRepo) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token := strings.TrimSpace(c.Request().Header.Get("Authorization"))
			if token == "" {
				return unauthorized(c)
			}

			ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
			defer cancel()

			userID, err := tokens.Lookup(ctx, token)
			if err != nil {
				if errors.Is(err, repository.ErrTokenNotFound) {
					return unauthorized(c)
				}
				return c.JSON(http.StatusInternalServerError, echo.Map{
					"status":  "error",
					"message": "Something went wrong",
				})
			}

			c.Set(userIDKey, userID)
			return next(c)
		}
	}
}

func unauthorized(c echo.Context) error {
	return c.JSON(http.StatusUnauthorized, echo.Map{
		"status":  "error",
		"message": "Unauthorized",
	})
}

// UserID extracts the authenticated user id stored by TokenAuth. The
// boolean is false on routes the gate never ran for.
func UserID(c echo.Context) (uint64, bool) {
	id, ok := c.Get(userIDKey).(uint64)
	return id, ok
}
