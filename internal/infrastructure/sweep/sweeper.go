// Package sweep runs the periodic maintenance jobs: archiving stale closed
// projects and enforcing audit retention.
package sweep

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/nutrilab/imc-registry/internal/config"
	"github.com/nutrilab/imc-registry/internal/domain/model"
	domainRepo "github.com/nutrilab/imc-registry/internal/domain/repository"
)

// systemActorID marks sweep-originated audit entries; no interactive user
// holds id 0.
const systemActorID int64 = 0

// Sweeper runs the maintenance jobs on a fixed interval.
type Sweeper struct {
	projectRepo domainRepo.ProjectRepository
	auditRepo   domainRepo.AuditRepository
	cfg         config.SweepConfig
	logger      *zap.Logger
}

// NewSweeper creates a new sweeper instance
func NewSweeper(
	projectRepo domainRepo.ProjectRepository,
	auditRepo domainRepo.AuditRepository,
	cfg config.SweepConfig,
	logger *zap.Logger,
) *Sweeper {
	return &Sweeper{
		projectRepo: projectRepo,
		auditRepo:   auditRepo,
		cfg:         cfg,
		logger:      logger,
	}
}

// Run blocks until the context is canceled, executing all jobs once at
// startup and then on every tick.
func (s *Sweeper) Run(ctx context.Context) {
	ticker := time.NewTicker(s.cfg.Interval)
	defer ticker.Stop()

	s.sweep(ctx)
	for {
		select {
		case <-ctx.Done():
			s.logger.Info("sweeper stopped")
			return
		case <-ticker.C:
			s.sweep(ctx)
		}
	}
}

func (s *Sweeper) sweep(ctx context.Context) {
	if err := s.archiveStaleProjects(ctx); err != nil {
		s.logger.Error("project archival sweep failed", zap.Error(err))
	}
	if err := s.purgeExpiredAudits(ctx); err != nil {
		s.logger.Error("audit retention sweep failed", zap.Error(err))
	}
}

// archiveStaleProjects archives Closed projects untouched for longer than the
// configured age. Each archival carries its own audit entry, attributed to
// the system actor.
func (s *Sweeper) archiveStaleProjects(ctx context.Context) error {
	cutoff := time.Now().UTC().Add(-s.cfg.ClosedProjectMaxAge)
	projects, err := s.projectRepo.ListClosedBefore(ctx, cutoff)
	if err != nil {
		return err
	}

	for i := range projects {
		project := &projects[i]
		before := project.Snapshot()
		project.Status = model.ProjectStatusArchived
		project.UpdatedAt = time.Now().UTC()

		audit := &model.AuditLog{
			ProjectID:   &project.ID,
			Entity:      model.EntityProject,
			EntityID:    project.ID,
			Action:      model.ActionUpdate,
			UserID:      systemActorID,
			Before:      before,
			After:       project.Snapshot(),
			Description: fmt.Sprintf("project %q auto-archived after %s closed", project.Name, s.cfg.ClosedProjectMaxAge),
			CreatedAt:   time.Now().UTC(),
		}

		if err := s.projectRepo.UpdateWithAudit(ctx, project, audit); err != nil {
			s.logger.Error("failed to auto-archive project",
				zap.Int64("project_id", project.ID),
				zap.Error(err))
			continue
		}
		s.logger.Info("project auto-archived",
			zap.Int64("project_id", project.ID),
			zap.String("name", project.Name))
	}

	return nil
}

// purgeExpiredAudits removes session entries past the login retention window
// and any entry past the general window.
func (s *Sweeper) purgeExpiredAudits(ctx context.Context) error {
	now := time.Now().UTC()

	loginCutoff := now.Add(-s.cfg.LoginAuditRetention)
	loginActions := []model.ActionType{model.ActionLogin, model.ActionLogout, model.ActionLoginFailed}
	purged, err := s.auditRepo.PurgeBefore(ctx, loginCutoff, loginActions)
	if err != nil {
		return err
	}
	if purged > 0 {
		s.logger.Info("purged expired login audit entries", zap.Int64("count", purged))
	}

	generalCutoff := now.Add(-s.cfg.GeneralAuditRetention)
	purged, err = s.auditRepo.PurgeBefore(ctx, generalCutoff, nil)
	if err != nil {
		return err
	}
	if purged > 0 {
		s.logger.Info("purged expired audit entries", zap.Int64("count", purged))
	}

	return nil
}
