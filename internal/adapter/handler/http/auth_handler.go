package http

import (
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/nutrilab/imc-registry/internal/middleware/auth"
	"github.com/nutrilab/imc-registry/internal/usecase"
	"github.com/nutrilab/imc-registry/internal/usecase/dto"
)

type AuthHandler struct {
	authService *usecase.AuthService
	logger      *zap.Logger
}

func NewAuthHandler(authService *usecase.AuthService, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		logger:      logger,
	}
}

// Login handles POST /api/auth/login
func (h *AuthHandler) Login(c echo.Context) error {
	var req dto.Login
	if err := c.Bind(&req); err != nil {
		return respondBadRequest(c, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return respondBadRequest(c, err.Error())
	}

	result, err := h.authService.Login(c.Request().Context(), req, requestMeta(c))
	if err != nil {
		return respondError(c, err)
	}

	return respondOK(c, result)
}

// Logout handles POST /api/auth/logout
func (h *AuthHandler) Logout(c echo.Context) error {
	actor, err := auth.ActorFromContext(c)
	if err != nil {
		return respondError(c, err)
	}

	if err := h.authService.Logout(c.Request().Context(), actor, requestMeta(c)); err != nil {
		return respondError(c, err)
	}

	return respondOK(c, nil)
}

// Me handles GET /api/auth/me
func (h *AuthHandler) Me(c echo.Context) error {
	actor, err := auth.ActorFromContext(c)
	if err != nil {
		return respondError(c, err)
	}

	user, err := h.authService.Me(c.Request().Context(), actor.ID)
	if err != nil {
		return respondError(c, err)
	}

	return respondOK(c, user)
}

// ChangePassword handles POST /api/auth/password
func (h *AuthHandler) ChangePassword(c echo.Context) error {
	actor, err := auth.ActorFromContext(c)
	if err != nil {
		return respondError(c, err)
	}

	var req dto.PasswordChange
	if err := c.Bind(&req); err != nil {
		return respondBadRequest(c, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return respondBadRequest(c, err.Error())
	}

	if err := h.authService.ChangePassword(c.Request().Context(), actor.ID, req, requestMeta(c)); err != nil {
		return respondError(c, err)
	}

	return respondOK(c, nil)
}
