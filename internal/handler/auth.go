package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/muhozi/WeConnect-2/internal/config"
	"github.com/muhozi/WeConnect-2/internal/middleware"
	"github.com/muhozi/WeConnect-2/internal/repository"
	"github.com/muhozi/WeConnect-2/internal/utils"
	"github.com/muhozi/WeConnect-2/internal/validation"
)

// AuthHandler bundles dependencies for the auth endpoints.
type AuthHandler struct {
	Cfg    config.Config
	Users  *repository.UserRepo
	Tokens *repository.TokenRepo
	Rules  *validation.RuleSets
}

func NewAuthHandler(cfg config.Config, u *repository.UserRepo, t *repository.TokenRepo, r *validation.RuleSets) *AuthHandler {
	return &AuthHandler{Cfg: cfg, Users: u, Tokens: t, Rules: r}
}

// Register creates a user account. Uniqueness of username and email is
// part of the rule set, so duplicates come back inside the validation
// error map rather than as a separate conflict response.
func (h *AuthHandler) Register(c echo.Context) error {
	fields, err := bindFields(c)
	if err != nil {
		return invalidBody(c)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	errs, err := h.Rules.Register.Validate(ctx, fields)
	if err != nil {
		return serverError(c)
	}
	if errs != nil {
		return validationFailed(c, "Please provide valid details", errs)
	}

	hash, err := utils.HashPassword(str(fields, "password"), h.Cfg.BcryptCost)
	if err != nil {
		return serverError(c)
	}
	if _, err := h.Users.Create(ctx, str(fields, "username"), str(fields, "email"), hash); err != nil {
		return serverError(c)
	}

	return c.JSON(http.StatusCreated, echo.Map{
		"status":  "ok",
		"message": "You have been successfully registered",
	})
}

// Login verifies credentials and opens a session. An unknown email and a
// wrong password both answer 401, with different message texts only.
func (h *AuthHandler) Login(c echo.Context) error {
	fields, err := bindFields(c)
	if err != nil {
		return invalidBody(c)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	errs, err := h.Rules.Login.Validate(ctx, fields)
	if err != nil {
		return serverError(c)
	}
	if errs != nil {
		return validationFailed(c, "Please provide valid details", errs)
	}

	u, err := h.Users.GetByEmail(ctx, str(fields, "email"))
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return c.JSON(http.StatusUnauthorized, echo.Map{
				"status":  "error",
				"message": "Invalid email or password",
			})
		}
		return serverError(c)
	}
	if !utils.VerifyPassword(u.Password, str(fields, "password")) {
		return c.JSON(http.StatusUnauthorized, echo.Map{
			"status":  "error",
			"message": "Invalid password",
		})
	}

	token, err := utils.NewAccessToken(h.Cfg.TokenSecret, u.ID)
	if err != nil {
		return serverError(c)
	}
	if err := h.Tokens.Store(ctx, u.ID, token); err != nil {
		return serverError(c)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"status":       "ok",
		"message":      "You have been successfully logged in",
		"access_token": token,
	})
}

// Logout ends the current session by deleting its token row. Runs behind
// the token gate, so the header is known to hold a live token.
func (h *AuthHandler) Logout(c echo.Context) error {
	token := strings.TrimSpace(c.Request().Header.Get("Authorization"))

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Tokens.Delete(ctx, token); err != nil {
		return serverError(c)
	}
	return c.JSON(http.StatusOK, echo.Map{
		"status":  "ok",
		"message": "You have successfully logged out",
	})
}

// ResetPassword rehashes the caller's password after re-verifying the old
// one. The session token stays valid; only the digest changes.
func (h *AuthHandler) ResetPassword(c echo.Context) error {
	userID, ok := middleware.UserID(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, echo.Map{"status": "error", "message": "Unauthorized"})
	}
	fields, err := bindFields(c)
	if err != nil {
		return invalidBody(c)
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	errs, err := h.Rules.ResetPassword.Validate(ctx, fields)
	if err != nil {
		return serverError(c)
	}
	if errs != nil {
		return validationFailed(c, "Please provide valid details", errs)
	}

	u, err := h.Users.GetByID(ctx, userID)
	if err != nil {
		return serverError(c)
	}
	if !utils.VerifyPassword(u.Password, str(fields, "old_password")) {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"status":  "error",
			"message": "Invalid old password",
		})
	}

	hash, err := utils.HashPassword(str(fields, "new_password"), h.Cfg.BcryptCost)
	if err != nil {
		return serverError(c)
	}
	if err := h.Users.UpdatePassword(ctx, userID, hash); err != nil {
		return serverError(c)
	}

	return c.JSON(http.StatusCreated, echo.Map{
		"status":  "ok",
		"message": "You have successfully changed your password",
	})
}
