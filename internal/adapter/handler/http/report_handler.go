package http

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/nutrilab/imc-registry/internal/middleware/auth"
	"github.com/nutrilab/imc-registry/internal/usecase"
)

type ReportHandler struct {
	reportService *usecase.ReportService
	logger        *zap.Logger
}

func NewReportHandler(reportService *usecase.ReportService, logger *zap.Logger) *ReportHandler {
	return &ReportHandler{
		reportService: reportService,
		logger:        logger,
	}
}

// ProjectCSV handles GET /api/reports/projects/:id/csv
func (h *ReportHandler) ProjectCSV(c echo.Context) error {
	actor, err := auth.ActorFromContext(c)
	if err != nil {
		return respondError(c, err)
	}

	projectID, err := pathID(c, "id")
	if err != nil {
		return respondBadRequest(c, "invalid project id")
	}

	report, err := h.reportService.ProjectCSV(c.Request().Context(), projectID, actor, requestMeta(c))
	if err != nil {
		return respondError(c, err)
	}

	c.Response().Header().Set(echo.HeaderContentDisposition,
		fmt.Sprintf("attachment; filename=%q", report.Filename))
	return c.Blob(http.StatusOK, report.ContentType, report.Content)
}
