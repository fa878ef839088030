package http

import (
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/nutrilab/imc-registry/internal/domain/entity"
	"github.com/nutrilab/imc-registry/internal/middleware/auth"
	"github.com/nutrilab/imc-registry/internal/usecase"
	"github.com/nutrilab/imc-registry/internal/usecase/dto"
)

type AuditHandler struct {
	auditService *usecase.AuditService
	logger       *zap.Logger
}

func NewAuditHandler(auditService *usecase.AuditService, logger *zap.Logger) *AuditHandler {
	return &AuditHandler{
		auditService: auditService,
		logger:       logger,
	}
}

// List handles GET /api/audit
func (h *AuditHandler) List(c echo.Context) error {
	actor, err := auth.ActorFromContext(c)
	if err != nil {
		return respondError(c, err)
	}

	var query dto.AuditQuery
	if err := c.Bind(&query); err != nil {
		return respondBadRequest(c, "invalid query parameters")
	}
	var page entity.PaginationParams
	if err := c.Bind(&page); err != nil {
		return respondBadRequest(c, "invalid pagination parameters")
	}

	entries, meta, err := h.auditService.Query(c.Request().Context(), query, page, actor)
	if err != nil {
		return respondError(c, err)
	}

	return respondPaginated(c, entries, meta)
}

// Get handles GET /api/audit/:id
func (h *AuditHandler) Get(c echo.Context) error {
	actor, err := auth.ActorFromContext(c)
	if err != nil {
		return respondError(c, err)
	}

	id, err := pathID(c, "id")
	if err != nil {
		return respondBadRequest(c, "invalid audit entry id")
	}

	entry, err := h.auditService.Get(c.Request().Context(), id, actor)
	if err != nil {
		return respondError(c, err)
	}

	return respondOK(c, entry)
}
