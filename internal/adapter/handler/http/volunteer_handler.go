package http

import (
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/nutrilab/imc-registry/internal/domain/entity"
	"github.com/nutrilab/imc-registry/internal/middleware/auth"
	"github.com/nutrilab/imc-registry/internal/usecase"
	"github.com/nutrilab/imc-registry/internal/usecase/dto"
)

type VolunteerHandler struct {
	volunteerService *usecase.VolunteerService
	logger           *zap.Logger
}

func NewVolunteerHandler(volunteerService *usecase.VolunteerService, logger *zap.Logger) *VolunteerHandler {
	return &VolunteerHandler{
		volunteerService: volunteerService,
		logger:           logger,
	}
}

// Create handles POST /api/projects/:id/volunteers
func (h *VolunteerHandler) Create(c echo.Context) error {
	actor, err := auth.ActorFromContext(c)
	if err != nil {
		return respondError(c, err)
	}

	projectID, err := pathID(c, "id")
	if err != nil {
		return respondBadRequest(c, "invalid project id")
	}

	var req dto.VolunteerCreate
	if err := c.Bind(&req); err != nil {
		return respondBadRequest(c, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return respondBadRequest(c, err.Error())
	}

	volunteer, err := h.volunteerService.Create(c.Request().Context(), projectID, req, actor, requestMeta(c))
	if err != nil {
		return respondError(c, err)
	}

	return respondCreated(c, volunteer)
}

// Get handles GET /api/projects/:id/volunteers/:volunteerId
func (h *VolunteerHandler) Get(c echo.Context) error {
	actor, err := auth.ActorFromContext(c)
	if err != nil {
		return respondError(c, err)
	}

	projectID, err := pathID(c, "id")
	if err != nil {
		return respondBadRequest(c, "invalid project id")
	}
	id, err := pathID(c, "volunteerId")
	if err != nil {
		return respondBadRequest(c, "invalid volunteer id")
	}

	volunteer, err := h.volunteerService.Get(c.Request().Context(), projectID, id, actor)
	if err != nil {
		return respondError(c, err)
	}

	return respondOK(c, volunteer)
}

// List handles GET /api/projects/:id/volunteers
func (h *VolunteerHandler) List(c echo.Context) error {
	actor, err := auth.ActorFromContext(c)
	if err != nil {
		return respondError(c, err)
	}

	projectID, err := pathID(c, "id")
	if err != nil {
		return respondBadRequest(c, "invalid project id")
	}

	var filters dto.VolunteerListFilters
	if err := c.Bind(&filters); err != nil {
		return respondBadRequest(c, "invalid query parameters")
	}
	var page entity.PaginationParams
	if err := c.Bind(&page); err != nil {
		return respondBadRequest(c, "invalid pagination parameters")
	}

	volunteers, meta, err := h.volunteerService.List(c.Request().Context(), projectID, filters, page, actor)
	if err != nil {
		return respondError(c, err)
	}

	return respondPaginated(c, volunteers, meta)
}

// Update handles PATCH /api/projects/:id/volunteers/:volunteerId
func (h *VolunteerHandler) Update(c echo.Context) error {
	actor, err := auth.ActorFromContext(c)
	if err != nil {
		return respondError(c, err)
	}

	projectID, err := pathID(c, "id")
	if err != nil {
		return respondBadRequest(c, "invalid project id")
	}
	id, err := pathID(c, "volunteerId")
	if err != nil {
		return respondBadRequest(c, "invalid volunteer id")
	}

	var req dto.VolunteerUpdate
	if err := c.Bind(&req); err != nil {
		return respondBadRequest(c, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return respondBadRequest(c, err.Error())
	}

	volunteer, err := h.volunteerService.Update(c.Request().Context(), projectID, id, req, actor, requestMeta(c))
	if err != nil {
		return respondError(c, err)
	}

	return respondOK(c, volunteer)
}

// Delete handles DELETE /api/projects/:id/volunteers/:volunteerId
func (h *VolunteerHandler) Delete(c echo.Context) error {
	actor, err := auth.ActorFromContext(c)
	if err != nil {
		return respondError(c, err)
	}

	projectID, err := pathID(c, "id")
	if err != nil {
		return respondBadRequest(c, "invalid project id")
	}
	id, err := pathID(c, "volunteerId")
	if err != nil {
		return respondBadRequest(c, "invalid volunteer id")
	}

	var req dto.VolunteerDelete
	if err := c.Bind(&req); err != nil {
		return respondBadRequest(c, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return respondBadRequest(c, err.Error())
	}

	if err := h.volunteerService.SoftDelete(c.Request().Context(), projectID, id, req.Reason, actor, requestMeta(c)); err != nil {
		return respondError(c, err)
	}

	return respondOK(c, nil)
}

// Statistics handles GET /api/projects/:id/volunteers/statistics
func (h *VolunteerHandler) Statistics(c echo.Context) error {
	actor, err := auth.ActorFromContext(c)
	if err != nil {
		return respondError(c, err)
	}

	projectID, err := pathID(c, "id")
	if err != nil {
		return respondBadRequest(c, "invalid project id")
	}

	stats, err := h.volunteerService.Statistics(c.Request().Context(), projectID, actor)
	if err != nil {
		return respondError(c, err)
	}

	return respondOK(c, stats)
}
