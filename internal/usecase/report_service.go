package usecase

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/nutrilab/imc-registry/internal/domain/model"
	"github.com/nutrilab/imc-registry/internal/domain/policy"
	domainRepo "github.com/nutrilab/imc-registry/internal/domain/repository"
	"github.com/nutrilab/imc-registry/internal/usecase/dto"
)

// Report is a rendered export ready to stream to the client.
type Report struct {
	Filename    string
	ContentType string
	Content     []byte
}

// ReportService renders project exports. Every export lands on the audit
// trail as an EXPORT event.
type ReportService struct {
	projectRepo   domainRepo.ProjectRepository
	volunteerRepo domainRepo.VolunteerRepository
	auditRepo     domainRepo.AuditRepository
	policy        *policy.Evaluator
	logger        *zap.Logger
}

// NewReportService creates a new report service instance
func NewReportService(
	projectRepo domainRepo.ProjectRepository,
	volunteerRepo domainRepo.VolunteerRepository,
	auditRepo domainRepo.AuditRepository,
	pol *policy.Evaluator,
	logger *zap.Logger,
) *ReportService {
	return &ReportService{
		projectRepo:   projectRepo,
		volunteerRepo: volunteerRepo,
		auditRepo:     auditRepo,
		policy:        pol,
		logger:        logger,
	}
}

// ProjectCSV exports the project's non-deleted volunteers as CSV.
func (s *ReportService) ProjectCSV(ctx context.Context, projectID int64, actor policy.Actor, meta dto.RequestMeta) (*Report, error) {
	project, err := s.projectRepo.GetByID(ctx, projectID)
	if err != nil {
		return nil, err
	}

	if err := s.policy.CanPerform(actor, policy.ActionReportExport, policy.Resource{
		ProjectResponsibleID: project.ResponsibleID,
		ProjectStatus:        project.Status,
	}); err != nil {
		return nil, err
	}

	volunteers, err := s.volunteerRepo.ListAllActive(ctx, projectID)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	header := []string{"correlative", "label", "gender", "weight_kg", "height_m", "bmi", "category", "color", "registered_at"}
	if err := w.Write(header); err != nil {
		return nil, fmt.Errorf("failed to write csv header: %w", err)
	}
	for i := range volunteers {
		v := &volunteers[i]
		row := []string{
			strconv.Itoa(v.Correlative),
			v.Label(),
			string(v.Gender),
			v.WeightKg.StringFixed(2),
			v.HeightM.StringFixed(2),
			v.BMI.StringFixed(2),
			string(v.Category),
			string(v.Color),
			v.RegisteredAt.Format(time.RFC3339),
		}
		if err := w.Write(row); err != nil {
			return nil, fmt.Errorf("failed to write csv row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("failed to flush csv: %w", err)
	}

	entry := newAuditEntry(model.EntityReport, model.ActionExport, actor, meta)
	entry.ProjectID = &project.ID
	entry.EntityID = project.ID
	entry.Description = fmt.Sprintf("CSV export of project %q (%d volunteers)", project.Name, len(volunteers))
	if err := s.auditRepo.Record(ctx, entry); err != nil {
		s.logger.Error("failed to record export event",
			zap.Int64("project_id", project.ID),
			zap.Error(err))
	}

	return &Report{
		Filename:    fmt.Sprintf("project_%d_volunteers_%s.csv", project.ID, time.Now().UTC().Format("20060102")),
		ContentType: "text/csv",
		Content:     buf.Bytes(),
	}, nil
}
