package http

import (
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/nutrilab/imc-registry/internal/domain/entity"
	"github.com/nutrilab/imc-registry/internal/middleware/auth"
	"github.com/nutrilab/imc-registry/internal/usecase"
	"github.com/nutrilab/imc-registry/internal/usecase/dto"
)

type UserHandler struct {
	userService *usecase.UserService
	logger      *zap.Logger
}

func NewUserHandler(userService *usecase.UserService, logger *zap.Logger) *UserHandler {
	return &UserHandler{
		userService: userService,
		logger:      logger,
	}
}

// Create handles POST /api/users
func (h *UserHandler) Create(c echo.Context) error {
	actor, err := auth.ActorFromContext(c)
	if err != nil {
		return respondError(c, err)
	}

	var req dto.UserCreate
	if err := c.Bind(&req); err != nil {
		return respondBadRequest(c, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return respondBadRequest(c, err.Error())
	}

	user, err := h.userService.Create(c.Request().Context(), req, actor, requestMeta(c))
	if err != nil {
		return respondError(c, err)
	}

	return respondCreated(c, user)
}

// Get handles GET /api/users/:id
func (h *UserHandler) Get(c echo.Context) error {
	actor, err := auth.ActorFromContext(c)
	if err != nil {
		return respondError(c, err)
	}

	id, err := pathID(c, "id")
	if err != nil {
		return respondBadRequest(c, "invalid user id")
	}

	user, err := h.userService.Get(c.Request().Context(), id, actor)
	if err != nil {
		return respondError(c, err)
	}

	return respondOK(c, user)
}

// List handles GET /api/users
func (h *UserHandler) List(c echo.Context) error {
	actor, err := auth.ActorFromContext(c)
	if err != nil {
		return respondError(c, err)
	}

	var page entity.PaginationParams
	if err := c.Bind(&page); err != nil {
		return respondBadRequest(c, "invalid pagination parameters")
	}
	page.Validate()

	users, total, err := h.userService.List(c.Request().Context(), page.CalculateOffset(), page.Limit, actor)
	if err != nil {
		return respondError(c, err)
	}

	return respondPaginated(c, users, entity.NewPaginationMeta(page.Page, page.Limit, total))
}

// Update handles PATCH /api/users/:id
func (h *UserHandler) Update(c echo.Context) error {
	actor, err := auth.ActorFromContext(c)
	if err != nil {
		return respondError(c, err)
	}

	id, err := pathID(c, "id")
	if err != nil {
		return respondBadRequest(c, "invalid user id")
	}

	var req dto.UserUpdate
	if err := c.Bind(&req); err != nil {
		return respondBadRequest(c, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return respondBadRequest(c, err.Error())
	}

	user, err := h.userService.Update(c.Request().Context(), id, req, actor, requestMeta(c))
	if err != nil {
		return respondError(c, err)
	}

	return respondOK(c, user)
}

// ResetPassword handles POST /api/users/:id/password
func (h *UserHandler) ResetPassword(c echo.Context) error {
	actor, err := auth.ActorFromContext(c)
	if err != nil {
		return respondError(c, err)
	}

	id, err := pathID(c, "id")
	if err != nil {
		return respondBadRequest(c, "invalid user id")
	}

	var req dto.PasswordReset
	if err := c.Bind(&req); err != nil {
		return respondBadRequest(c, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return respondBadRequest(c, err.Error())
	}

	if err := h.userService.ResetPassword(c.Request().Context(), id, req, actor, requestMeta(c)); err != nil {
		return respondError(c, err)
	}

	return respondOK(c, nil)
}
