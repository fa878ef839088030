package http

import (
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/nutrilab/imc-registry/internal/domain/entity"
	"github.com/nutrilab/imc-registry/internal/middleware/auth"
	"github.com/nutrilab/imc-registry/internal/usecase"
	"github.com/nutrilab/imc-registry/internal/usecase/dto"
)

type ProjectHandler struct {
	projectService *usecase.ProjectService
	logger         *zap.Logger
}

func NewProjectHandler(projectService *usecase.ProjectService, logger *zap.Logger) *ProjectHandler {
	return &ProjectHandler{
		projectService: projectService,
		logger:         logger,
	}
}

// Create handles POST /api/projects
func (h *ProjectHandler) Create(c echo.Context) error {
	actor, err := auth.ActorFromContext(c)
	if err != nil {
		return respondError(c, err)
	}

	var req dto.ProjectCreate
	if err := c.Bind(&req); err != nil {
		return respondBadRequest(c, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return respondBadRequest(c, err.Error())
	}

	project, err := h.projectService.Create(c.Request().Context(), req, actor, requestMeta(c))
	if err != nil {
		return respondError(c, err)
	}

	return respondCreated(c, project)
}

// Get handles GET /api/projects/:id
func (h *ProjectHandler) Get(c echo.Context) error {
	actor, err := auth.ActorFromContext(c)
	if err != nil {
		return respondError(c, err)
	}

	id, err := pathID(c, "id")
	if err != nil {
		return respondBadRequest(c, "invalid project id")
	}

	project, err := h.projectService.Get(c.Request().Context(), id, actor)
	if err != nil {
		return respondError(c, err)
	}

	return respondOK(c, project)
}

// List handles GET /api/projects
func (h *ProjectHandler) List(c echo.Context) error {
	actor, err := auth.ActorFromContext(c)
	if err != nil {
		return respondError(c, err)
	}

	var filters dto.ProjectListFilters
	if err := c.Bind(&filters); err != nil {
		return respondBadRequest(c, "invalid query parameters")
	}
	var page entity.PaginationParams
	if err := c.Bind(&page); err != nil {
		return respondBadRequest(c, "invalid pagination parameters")
	}

	projects, meta, err := h.projectService.List(c.Request().Context(), filters, page, actor)
	if err != nil {
		return respondError(c, err)
	}

	return respondPaginated(c, projects, meta)
}

// Update handles PATCH /api/projects/:id
func (h *ProjectHandler) Update(c echo.Context) error {
	actor, err := auth.ActorFromContext(c)
	if err != nil {
		return respondError(c, err)
	}

	id, err := pathID(c, "id")
	if err != nil {
		return respondBadRequest(c, "invalid project id")
	}

	var req dto.ProjectUpdate
	if err := c.Bind(&req); err != nil {
		return respondBadRequest(c, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return respondBadRequest(c, err.Error())
	}

	project, err := h.projectService.Update(c.Request().Context(), id, req, actor, requestMeta(c))
	if err != nil {
		return respondError(c, err)
	}

	return respondOK(c, project)
}

// Archive handles POST /api/projects/:id/archive
func (h *ProjectHandler) Archive(c echo.Context) error {
	actor, err := auth.ActorFromContext(c)
	if err != nil {
		return respondError(c, err)
	}

	id, err := pathID(c, "id")
	if err != nil {
		return respondBadRequest(c, "invalid project id")
	}

	project, err := h.projectService.Archive(c.Request().Context(), id, actor, requestMeta(c))
	if err != nil {
		return respondError(c, err)
	}

	return respondOK(c, project)
}
